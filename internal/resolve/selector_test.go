package resolve_test

import (
	"context"
	"testing"

	"gradectl/internal/resolve"
	"gradectl/internal/resolve/resolvetest"
)

func buildTimeline() *resolvetest.Timeline {
	tl := resolvetest.NewTimeline("Scene 1", 2)
	a := resolvetest.NewItem("A001_interview", 1)
	a.Color = "Orange"
	b := resolvetest.NewItem("A002_broll", 1)
	b.Color = "Blue"
	c := resolvetest.NewItem("A003_interview", 1)
	tl.AddItem(1, a)
	tl.AddItem(1, b)
	tl.AddItem(2, c)
	return tl
}

func TestSelectItemsAll(t *testing.T) {
	items, err := resolve.SelectItems(context.Background(), buildTimeline(), resolve.Selector{All: true})
	if err != nil {
		t.Fatalf("SelectItems returned error: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
}

func TestSelectItemsByTrack(t *testing.T) {
	items, err := resolve.SelectItems(context.Background(), buildTimeline(), resolve.Selector{Track: 2})
	if err != nil {
		t.Fatalf("SelectItems returned error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item on track 2, got %d", len(items))
	}
	name, _ := items[0].Name(context.Background())
	if name != "A003_interview" {
		t.Fatalf("unexpected item: %q", name)
	}
}

func TestSelectItemsByColorIsCaseInsensitive(t *testing.T) {
	items, err := resolve.SelectItems(context.Background(), buildTimeline(), resolve.Selector{Color: "orange"})
	if err != nil {
		t.Fatalf("SelectItems returned error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 orange item, got %d", len(items))
	}
}

func TestSelectItemsByNameSubstring(t *testing.T) {
	items, err := resolve.SelectItems(context.Background(), buildTimeline(), resolve.Selector{NameContains: "INTERVIEW"})
	if err != nil {
		t.Fatalf("SelectItems returned error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 interview items, got %d", len(items))
	}
}

func TestSelectItemsRejectsEmptySelector(t *testing.T) {
	if _, err := resolve.SelectItems(context.Background(), buildTimeline(), resolve.Selector{}); err == nil {
		t.Fatal("expected error for empty selector")
	}
}

func TestSelectItemsRejectsUnknownColor(t *testing.T) {
	if _, err := resolve.SelectItems(context.Background(), buildTimeline(), resolve.Selector{Color: "Magenta"}); err == nil {
		t.Fatal("expected error for unknown clip color")
	}
}

func TestSelectItemsRejectsTrackOutOfRange(t *testing.T) {
	if _, err := resolve.SelectItems(context.Background(), buildTimeline(), resolve.Selector{Track: 5}); err == nil {
		t.Fatal("expected error for out-of-range track")
	}
}

func TestFindItemByName(t *testing.T) {
	item, err := resolve.FindItemByName(context.Background(), buildTimeline(), "A002_broll")
	if err != nil {
		t.Fatalf("FindItemByName returned error: %v", err)
	}
	color, _ := item.ClipColor(context.Background())
	if color != "Blue" {
		t.Fatalf("unexpected clip color: %q", color)
	}
	if _, err := resolve.FindItemByName(context.Background(), buildTimeline(), "missing"); err == nil {
		t.Fatal("expected error for missing clip")
	}
}

func TestCanonicalColors(t *testing.T) {
	if got, ok := resolve.CanonicalClipColor("  teal "); !ok || got != "Teal" {
		t.Fatalf("unexpected canonical clip color: %q %v", got, ok)
	}
	if _, ok := resolve.CanonicalClipColor("chartreuse"); ok {
		t.Fatal("expected unknown clip color to be rejected")
	}
	if got, ok := resolve.CanonicalMarkerColor("lavender"); !ok || got != "Lavender" {
		t.Fatalf("unexpected canonical marker color: %q %v", got, ok)
	}
}
