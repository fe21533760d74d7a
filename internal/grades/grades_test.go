package grades_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"gradectl/internal/cdl"
	"gradectl/internal/grades"
	"gradectl/internal/resolve"
	"gradectl/internal/resolve/resolvetest"
)

func gradedItem(name string) *resolvetest.Item {
	item := resolvetest.NewItem(name, 3)
	item.Nodes[0].LUTPath = "/luts/base.cube"
	item.Nodes[0].Color = cdl.ColorCorrection{
		Slope:      [3]float64{1.1, 1.0, 0.9},
		Power:      [3]float64{1, 1, 1},
		Saturation: 1.2,
	}
	item.Nodes[2].LUTPath = "/luts/output.cube"
	return item
}

func TestCopyFullGrade(t *testing.T) {
	source := gradedItem("hero")
	target := resolvetest.NewItem("match", 3)

	results, err := grades.Copy(context.Background(), source, []resolve.Item{target}, grades.CopyOptions{})
	if err != nil {
		t.Fatalf("Copy failed: %v", err)
	}
	if len(results) != 1 || results[0].NodesCopied != 3 {
		t.Fatalf("unexpected results: %+v", results)
	}
	if target.Nodes[0].LUTPath != "/luts/base.cube" {
		t.Fatalf("lut not copied: %q", target.Nodes[0].LUTPath)
	}
	if target.Nodes[0].Color.Saturation != 1.2 {
		t.Fatalf("cdl not copied: %+v", target.Nodes[0].Color)
	}
	if target.Nodes[2].LUTPath != "/luts/output.cube" {
		t.Fatalf("third node lut not copied: %q", target.Nodes[2].LUTPath)
	}
}

func TestCopyStopsAtSharedNodeCount(t *testing.T) {
	source := gradedItem("hero")
	short := resolvetest.NewItem("short", 1)

	results, err := grades.Copy(context.Background(), source, []resolve.Item{short}, grades.CopyOptions{})
	if err != nil {
		t.Fatalf("Copy failed: %v", err)
	}
	if results[0].NodesCopied != 1 {
		t.Fatalf("expected 1 node copied, got %d", results[0].NodesCopied)
	}
}

func TestCopyLUTsOnly(t *testing.T) {
	source := gradedItem("hero")
	target := resolvetest.NewItem("match", 3)

	_, err := grades.Copy(context.Background(), source, []resolve.Item{target}, grades.CopyOptions{LUTsOnly: true})
	if err != nil {
		t.Fatalf("Copy failed: %v", err)
	}
	if target.Nodes[0].LUTPath != "/luts/base.cube" {
		t.Fatal("lut not copied")
	}
	if !target.Nodes[0].Color.IsIdentity() {
		t.Fatalf("cdl copied despite luts-only: %+v", target.Nodes[0].Color)
	}

	if _, err := grades.Copy(context.Background(), source, nil, grades.CopyOptions{LUTsOnly: true, CDLOnly: true}); err == nil {
		t.Fatal("expected error for conflicting options")
	}
}

func TestCopySingleNode(t *testing.T) {
	source := gradedItem("hero")
	target := resolvetest.NewItem("match", 3)

	results, err := grades.Copy(context.Background(), source, []resolve.Item{target}, grades.CopyOptions{Node: 3})
	if err != nil {
		t.Fatalf("Copy failed: %v", err)
	}
	if results[0].NodesCopied != 1 {
		t.Fatalf("expected 1 node copied, got %d", results[0].NodesCopied)
	}
	if target.Nodes[0].LUTPath != "" || target.Nodes[2].LUTPath != "/luts/output.cube" {
		t.Fatalf("wrong node copied: %+v", target.Nodes)
	}

	if _, err := grades.Copy(context.Background(), source, nil, grades.CopyOptions{Node: 9}); err == nil {
		t.Fatal("expected error for out-of-range node")
	}
}

func TestApplyCDL(t *testing.T) {
	targets := []resolve.Item{
		resolvetest.NewItem("a", 2),
		resolvetest.NewItem("b", 2),
	}
	correction := cdl.ColorCorrection{
		Slope:      [3]float64{1.05, 1, 0.95},
		Power:      [3]float64{1, 1, 1},
		Saturation: 1,
	}

	applied, err := grades.ApplyCDL(context.Background(), targets, 2, correction)
	if err != nil {
		t.Fatalf("ApplyCDL failed: %v", err)
	}
	if applied != 2 {
		t.Fatalf("applied = %d, want 2", applied)
	}
	for _, target := range targets {
		item := target.(*resolvetest.Item)
		if item.Nodes[1].Color.Slope != correction.Slope {
			t.Fatalf("correction not written: %+v", item.Nodes[1].Color)
		}
	}

	bad := correction
	bad.Power = [3]float64{0, 1, 1}
	if _, err := grades.ApplyCDL(context.Background(), targets, 2, bad); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestApplyLUTStopsOnRefusal(t *testing.T) {
	good := resolvetest.NewItem("a", 1)
	bad := resolvetest.NewItem("b", 1)
	bad.RefuseNodeOps = true

	applied, err := grades.ApplyLUT(context.Background(), []resolve.Item{good, bad}, 1, "/luts/show.cube")
	if err == nil {
		t.Fatal("expected refusal error")
	}
	if applied != 1 {
		t.Fatalf("applied = %d, want 1", applied)
	}
	if good.Nodes[0].LUTPath != "/luts/show.cube" {
		t.Fatal("first target not written")
	}
}

func TestApplyDRX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "look.drx")
	if err := os.WriteFile(path, []byte("template"), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}

	item := resolvetest.NewItem("a", 1)
	applied, err := grades.ApplyDRX(context.Background(), []resolve.Item{item}, path, resolve.GradeModeNoKeyframes)
	if err != nil {
		t.Fatalf("ApplyDRX failed: %v", err)
	}
	if applied != 1 || len(item.AppliedDRX) != 1 {
		t.Fatalf("template not applied: %v", item.AppliedDRX)
	}

	if _, err := grades.ApplyDRX(context.Background(), nil, "grade.xml", resolve.GradeModeNoKeyframes); err == nil {
		t.Fatal("expected error for non-drx path")
	}
	if _, err := grades.ApplyDRX(context.Background(), nil, filepath.Join(t.TempDir(), "missing.drx"), resolve.GradeModeNoKeyframes); err == nil {
		t.Fatal("expected error for missing template")
	}
}
