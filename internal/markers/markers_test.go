package markers_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"gradectl/internal/markers"
	"gradectl/internal/resolve"
	"gradectl/internal/resolve/resolvetest"
)

func sampleMarkers() []resolve.Marker {
	return []resolve.Marker{
		{Frame: 240, Color: "Red", Name: "Fix flicker", Note: "sky pumps", Duration: 1},
		{Frame: 24, Color: "Blue", Name: "Scene start", Note: "", Duration: 1},
		{Frame: 480, Color: "Red", Name: "Client note", Note: "too warm", Duration: 48},
	}
}

func TestFilterByColorAndQuery(t *testing.T) {
	byColor, err := markers.Filter{Color: "red"}.Apply(sampleMarkers())
	if err != nil {
		t.Fatalf("Filter failed: %v", err)
	}
	if len(byColor) != 2 {
		t.Fatalf("color filter: expected 2 markers, got %d", len(byColor))
	}
	if byColor[0].Frame != 240 || byColor[1].Frame != 480 {
		t.Fatalf("markers not sorted by frame: %+v", byColor)
	}

	byQuery, err := markers.Filter{Query: "WARM"}.Apply(sampleMarkers())
	if err != nil {
		t.Fatalf("Filter failed: %v", err)
	}
	if len(byQuery) != 1 || byQuery[0].Frame != 480 {
		t.Fatalf("query filter: unexpected result %+v", byQuery)
	}

	if _, err := (markers.Filter{Color: "mauve"}).Apply(sampleMarkers()); err == nil {
		t.Fatal("expected error for unknown color")
	}
}

func TestCSVRoundTrip(t *testing.T) {
	var buf strings.Builder
	if err := markers.WriteCSV(&buf, sampleMarkers()); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if lines[0] != "frame,color,name,note,duration" {
		t.Fatalf("unexpected header: %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "24,Blue") {
		t.Fatalf("rows not sorted by frame: %q", lines[1])
	}

	parsed, err := markers.ReadCSV(strings.NewReader(buf.String()))
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}
	if len(parsed) != 3 {
		t.Fatalf("expected 3 markers, got %d", len(parsed))
	}
	if parsed[2].Duration != 48 || parsed[2].Note != "too warm" {
		t.Fatalf("round trip lost fields: %+v", parsed[2])
	}
}

func TestReadCSVRejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"no header":     "24,Blue,a,b,1\n",
		"bad frame":     "frame,color,name,note,duration\nx,Blue,a,b,1\n",
		"bad color":     "frame,color,name,note,duration\n24,Mauve,a,b,1\n",
		"bad duration":  "frame,color,name,note,duration\n24,Blue,a,b,0\n",
		"short record":  "frame,color,name,note,duration\n24,Blue,a\n",
		"empty file":    "",
	}
	for name, input := range cases {
		if _, err := markers.ReadCSV(strings.NewReader(input)); err == nil {
			t.Errorf("%s: expected parse error", name)
		}
	}
}

func TestImportCSV(t *testing.T) {
	tl := resolvetest.NewTimeline("Reel 1", 1)
	path := filepath.Join(t.TempDir(), "markers.csv")
	if err := markers.ExportCSV(path, sampleMarkers()); err != nil {
		t.Fatalf("ExportCSV failed: %v", err)
	}

	added, err := markers.ImportCSV(context.Background(), tl, path)
	if err != nil {
		t.Fatalf("ImportCSV failed: %v", err)
	}
	if added != 3 || len(tl.Marks) != 3 {
		t.Fatalf("expected 3 markers imported, got %d (%d on timeline)", added, len(tl.Marks))
	}

	// A second import collides on frames and stops at the first add.
	added, err = markers.ImportCSV(context.Background(), tl, path)
	if err == nil {
		t.Fatal("expected refusal importing duplicate frames")
	}
	if added != 0 {
		t.Fatalf("expected 0 markers before refusal, got %d", added)
	}
}

func TestDelete(t *testing.T) {
	tl := resolvetest.NewTimeline("Reel 1", 1)
	tl.Marks = sampleMarkers()

	gone, err := markers.Delete(context.Background(), tl, markers.Filter{Color: "Red"}, true)
	if err != nil {
		t.Fatalf("Delete dry run failed: %v", err)
	}
	if len(gone) != 2 || len(tl.Marks) != 3 {
		t.Fatalf("dry run mutated timeline: %d matched, %d left", len(gone), len(tl.Marks))
	}

	gone, err = markers.Delete(context.Background(), tl, markers.Filter{Color: "Red"}, false)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if len(gone) != 2 || len(tl.Marks) != 1 {
		t.Fatalf("expected 2 deletions leaving 1 marker, got %d/%d", len(gone), len(tl.Marks))
	}
	if tl.Marks[0].Color != "Blue" {
		t.Fatalf("wrong marker survived: %+v", tl.Marks[0])
	}
}
