package rename_test

import (
	"context"
	"strings"
	"testing"

	"gradectl/internal/rename"
	"gradectl/internal/resolve/resolvetest"
)

func entries(names ...string) []rename.ClipEntry {
	out := make([]rename.ClipEntry, len(names))
	for i, name := range names {
		out[i] = rename.ClipEntry{Clip: resolvetest.NewClip(name, nil), Folder: "Master"}
	}
	return out
}

func TestPrefixPlan(t *testing.T) {
	plan, err := rename.BuildPlan(context.Background(), entries("A001.mov", "A002.mov"), rename.Rule{Prefix: "DAY1_"})
	if err != nil {
		t.Fatalf("BuildPlan failed: %v", err)
	}
	if len(plan.Changes) != 2 {
		t.Fatalf("expected 2 changes, got %d", len(plan.Changes))
	}
	if plan.Changes[0].NewName != "DAY1_A001.mov" {
		t.Fatalf("unexpected name: %q", plan.Changes[0].NewName)
	}
}

func TestSuffixKeepsExtension(t *testing.T) {
	plan, err := rename.BuildPlan(context.Background(), entries("shot.mov", "slate"), rename.Rule{Suffix: "_graded"})
	if err != nil {
		t.Fatalf("BuildPlan failed: %v", err)
	}
	if plan.Changes[0].NewName != "shot_graded.mov" {
		t.Fatalf("suffix before extension expected, got %q", plan.Changes[0].NewName)
	}
	if plan.Changes[1].NewName != "slate_graded" {
		t.Fatalf("plain suffix expected, got %q", plan.Changes[1].NewName)
	}
}

func TestRegexReplace(t *testing.T) {
	plan, err := rename.BuildPlan(context.Background(), entries("A001_C002.braw"), rename.Rule{
		Pattern:  `^A(\d+)_C(\d+)`,
		Template: "Roll${1}_Take${2}",
	})
	if err != nil {
		t.Fatalf("BuildPlan failed: %v", err)
	}
	if plan.Changes[0].NewName != "Roll001_Take002.braw" {
		t.Fatalf("unexpected replacement: %q", plan.Changes[0].NewName)
	}
}

func TestSequentialNumbering(t *testing.T) {
	plan, err := rename.BuildPlan(context.Background(), entries("x", "y", "z"), rename.Rule{
		SequenceTemplate: "Clip_{n}",
		Start:            7,
		Digits:           3,
	})
	if err != nil {
		t.Fatalf("BuildPlan failed: %v", err)
	}
	want := []string{"Clip_007", "Clip_008", "Clip_009"}
	for i, change := range plan.Changes {
		if change.NewName != want[i] {
			t.Errorf("change %d: got %q, want %q", i, change.NewName, want[i])
		}
	}
}

func TestMetadataTemplateSkipsMissingFields(t *testing.T) {
	withMeta := resolvetest.NewClip("raw1", map[string]string{"Scene": "12", "Shot": "3A"})
	withoutMeta := resolvetest.NewClip("raw2", nil)
	clips := []rename.ClipEntry{
		{Clip: withMeta, Folder: "Master"},
		{Clip: withoutMeta, Folder: "Master"},
	}

	plan, err := rename.BuildPlan(context.Background(), clips, rename.Rule{MetadataTemplate: "Scene_{Scene}_Shot_{Shot}"})
	if err != nil {
		t.Fatalf("BuildPlan failed: %v", err)
	}
	if len(plan.Changes) != 1 {
		t.Fatalf("expected 1 change, got %d", len(plan.Changes))
	}
	if plan.Changes[0].NewName != "Scene_12_Shot_3A" {
		t.Fatalf("unexpected name: %q", plan.Changes[0].NewName)
	}
	if len(plan.Skipped) != 1 || plan.Skipped[0] != "raw2" {
		t.Fatalf("expected raw2 skipped, got %v", plan.Skipped)
	}
}

func TestCollisionDetected(t *testing.T) {
	_, err := rename.BuildPlan(context.Background(), entries("a", "b"), rename.Rule{
		Pattern:  `^[ab]$`,
		Template: "same",
	})
	if err == nil || !strings.Contains(err.Error(), "collision") {
		t.Fatalf("expected collision error, got %v", err)
	}
}

func TestRuleValidation(t *testing.T) {
	if err := (rename.Rule{}).Validate(); err == nil {
		t.Fatal("expected error for empty rule")
	}
	if err := (rename.Rule{Prefix: "a", Suffix: "b"}).Validate(); err == nil {
		t.Fatal("expected error for conflicting strategies")
	}
	if err := (rename.Rule{Pattern: "("}).Validate(); err == nil {
		t.Fatal("expected error for bad regex")
	}
	if err := (rename.Rule{SequenceTemplate: "Clip"}).Validate(); err == nil {
		t.Fatal("expected error for template without {n}")
	}
	if err := (rename.Rule{MetadataTemplate: "no fields"}).Validate(); err == nil {
		t.Fatal("expected error for metadata template without fields")
	}
}

func TestApplyStopsOnRefusal(t *testing.T) {
	good := resolvetest.NewClip("one", nil)
	bad := resolvetest.NewClip("two", nil)
	bad.RefuseRename = true
	clips := []rename.ClipEntry{
		{Clip: good, Folder: "Master"},
		{Clip: bad, Folder: "Master"},
	}

	plan, err := rename.BuildPlan(context.Background(), clips, rename.Rule{Prefix: "R_"})
	if err != nil {
		t.Fatalf("BuildPlan failed: %v", err)
	}
	done, err := plan.Apply(context.Background())
	if err == nil {
		t.Fatal("expected error from refused rename")
	}
	if done != 1 {
		t.Fatalf("expected 1 completed rename, got %d", done)
	}
	if good.ClipName != "R_one" {
		t.Fatalf("first clip not renamed: %q", good.ClipName)
	}
}
