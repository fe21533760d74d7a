package mediapool_test

import (
	"context"
	"testing"

	"gradectl/internal/mediapool"
	"gradectl/internal/resolve/resolvetest"
)

func seedPool(t *testing.T) *resolvetest.MediaPool {
	t.Helper()
	pool := resolvetest.NewMediaPool()
	pool.Root.ClipList = []*resolvetest.Clip{
		resolvetest.NewClip("A001.braw", map[string]string{
			"Width": "3840", "Height": "2160", "Video Codec": "BRAW", "Camera #": "A",
		}),
		resolvetest.NewClip("B001.mov", map[string]string{
			"Width": "1920", "Height": "1080", "Video Codec": "apple prores 422",
			"Date Created": "2026-03-14 10:22:00",
		}),
	}
	pool.Root.Subs = []*resolvetest.Folder{
		{
			FolderName: "Day 1",
			ClipList: []*resolvetest.Clip{
				resolvetest.NewClip("A002.braw", map[string]string{
					"Width": "3840", "Height": "2160", "Video Codec": "BRAW",
					"File Path": "/media/day1/A002.braw",
				}),
			},
		},
		{FolderName: "Scratch"},
	}
	return pool
}

func TestWalkClips(t *testing.T) {
	pool := seedPool(t)

	entries, err := mediapool.WalkClips(context.Background(), pool)
	if err != nil {
		t.Fatalf("WalkClips failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 clips, got %d", len(entries))
	}
	if entries[2].Path != "Master/Day 1" {
		t.Fatalf("unexpected path for nested clip: %q", entries[2].Path)
	}
}

func TestCollectStats(t *testing.T) {
	pool := seedPool(t)

	stats, err := mediapool.CollectStats(context.Background(), pool)
	if err != nil {
		t.Fatalf("CollectStats failed: %v", err)
	}
	if stats.TotalClips != 3 {
		t.Fatalf("TotalClips = %d, want 3", stats.TotalClips)
	}
	if stats.TotalBins != 3 {
		t.Fatalf("TotalBins = %d, want 3", stats.TotalBins)
	}
	if stats.ByResolution["3840x2160"] != 2 {
		t.Fatalf("UHD count = %d, want 2", stats.ByResolution["3840x2160"])
	}
	if stats.ByCodec["BRAW"] != 2 {
		t.Fatalf("BRAW count = %d, want 2", stats.ByCodec["BRAW"])
	}
	if len(stats.EmptyBins) != 1 || stats.EmptyBins[0] != "Master/Scratch" {
		t.Fatalf("unexpected empty bins: %v", stats.EmptyBins)
	}
}

func TestSearch(t *testing.T) {
	pool := seedPool(t)
	ctx := context.Background()

	byName, err := mediapool.Search(ctx, pool, "b001")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(byName) != 1 {
		t.Fatalf("name search: expected 1 match, got %d", len(byName))
	}

	byPath, err := mediapool.Search(ctx, pool, "/media/day1")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(byPath) != 1 {
		t.Fatalf("path search: expected 1 match, got %d", len(byPath))
	}

	if _, err := mediapool.Search(ctx, pool, "  "); err == nil {
		t.Fatal("expected error for empty query")
	}
}

func TestOrganizeByResolution(t *testing.T) {
	pool := seedPool(t)

	result, err := mediapool.Organize(context.Background(), pool, mediapool.ByResolution, false)
	if err != nil {
		t.Fatalf("Organize failed: %v", err)
	}
	if result.ByBin["3840x2160"] != 2 || result.ByBin["1920x1080"] != 1 {
		t.Fatalf("unexpected grouping: %v", result.ByBin)
	}

	names := map[string]int{}
	for _, sub := range pool.Root.Subs {
		names[sub.FolderName] = len(sub.ClipList)
	}
	if names["3840x2160"] != 2 {
		t.Fatalf("UHD bin missing clips: %v", names)
	}
	if len(pool.Root.ClipList) != 0 {
		t.Fatalf("root still holds %d clips", len(pool.Root.ClipList))
	}
}

func TestOrganizeBinNames(t *testing.T) {
	pool := seedPool(t)

	result, err := mediapool.Organize(context.Background(), pool, mediapool.ByCodec, true)
	if err != nil {
		t.Fatalf("Organize failed: %v", err)
	}
	if result.ByBin["Apple Prores 422"] != 1 {
		t.Fatalf("codec bin not title-cased: %v", result.ByBin)
	}

	result, err = mediapool.Organize(context.Background(), pool, mediapool.ByDate, true)
	if err != nil {
		t.Fatalf("Organize failed: %v", err)
	}
	if result.ByBin["2026_03_14"] != 1 || result.ByBin["Unknown Date"] != 2 {
		t.Fatalf("unexpected date bins: %v", result.ByBin)
	}

	result, err = mediapool.Organize(context.Background(), pool, mediapool.ByCamera, true)
	if err != nil {
		t.Fatalf("Organize failed: %v", err)
	}
	if result.ByBin["Camera A"] != 1 || result.ByBin["Unknown Camera"] != 2 {
		t.Fatalf("unexpected camera bins: %v", result.ByBin)
	}
}

func TestOrganizeDryRunMovesNothing(t *testing.T) {
	pool := seedPool(t)

	result, err := mediapool.Organize(context.Background(), pool, mediapool.ByResolution, true)
	if err != nil {
		t.Fatalf("Organize failed: %v", err)
	}
	if !result.DryRun || len(result.Moves) != 3 {
		t.Fatalf("unexpected dry run result: %+v", result)
	}
	if len(pool.Root.ClipList) != 2 {
		t.Fatalf("dry run moved clips: %d left at root", len(pool.Root.ClipList))
	}
}

func TestPruneEmpty(t *testing.T) {
	pool := resolvetest.NewMediaPool()
	pool.Root.Subs = []*resolvetest.Folder{
		{
			FolderName: "Outer",
			Subs:       []*resolvetest.Folder{{FolderName: "Inner"}},
		},
		{
			FolderName: "Keep",
			ClipList:   []*resolvetest.Clip{resolvetest.NewClip("clip", nil)},
		},
	}

	removed, err := mediapool.PruneEmpty(context.Background(), pool, false)
	if err != nil {
		t.Fatalf("PruneEmpty failed: %v", err)
	}
	if len(removed) != 2 {
		t.Fatalf("expected 2 removals (inner, then emptied outer), got %v", removed)
	}
	if len(pool.Root.Subs) != 1 || pool.Root.Subs[0].FolderName != "Keep" {
		t.Fatalf("unexpected surviving bins: %+v", pool.Root.Subs)
	}
}

func TestPruneEmptyDryRun(t *testing.T) {
	pool := resolvetest.NewMediaPool()
	pool.Root.Subs = []*resolvetest.Folder{{FolderName: "Empty"}}

	removed, err := mediapool.PruneEmpty(context.Background(), pool, true)
	if err != nil {
		t.Fatalf("PruneEmpty failed: %v", err)
	}
	if len(removed) != 1 || removed[0] != "Master/Empty" {
		t.Fatalf("unexpected dry run removals: %v", removed)
	}
	if len(pool.Root.Subs) != 1 {
		t.Fatal("dry run deleted a bin")
	}
}

func TestBuildTree(t *testing.T) {
	pool := seedPool(t)

	tree, err := mediapool.BuildTree(context.Background(), pool)
	if err != nil {
		t.Fatalf("BuildTree failed: %v", err)
	}
	if tree.Name != "Master" || tree.ClipCount != 2 {
		t.Fatalf("unexpected root node: %+v", tree)
	}
	if len(tree.Children) != 2 || tree.Children[0].Name != "Day 1" {
		t.Fatalf("unexpected children: %+v", tree.Children)
	}
	if tree.Children[0].ClipCount != 1 {
		t.Fatalf("nested clip count = %d, want 1", tree.Children[0].ClipCount)
	}
}

func TestParseGroupKey(t *testing.T) {
	if _, err := mediapool.ParseGroupKey("Resolution"); err != nil {
		t.Fatalf("case-insensitive parse failed: %v", err)
	}
	if _, err := mediapool.ParseGroupKey("flavor"); err == nil {
		t.Fatal("expected error for unknown key")
	}
}
