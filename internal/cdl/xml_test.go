package cdl_test

import (
	"bytes"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"gradectl/internal/cdl"
)

func TestWriteThenReadCollection(t *testing.T) {
	entries := []cdl.Entry{
		{
			ID: "A001_C002",
			Correction: cdl.ColorCorrection{
				Slope:      [3]float64{1.1, 0.98, 0.92},
				Offset:     [3]float64{0.02, 0, 0.05},
				Power:      [3]float64{0.9, 0.95, 1.05},
				Saturation: 1.2,
			},
		},
		{ID: "A001_C003", Correction: cdl.Identity()},
	}

	var buf bytes.Buffer
	if err := cdl.WriteCollection(&buf, entries); err != nil {
		t.Fatalf("WriteCollection returned error: %v", err)
	}
	if !strings.Contains(buf.String(), "urn:ASC:CDL:v1.01") {
		t.Fatalf("expected ASC namespace in output:\n%s", buf.String())
	}

	got, err := cdl.ReadCollection(&buf)
	if err != nil {
		t.Fatalf("ReadCollection returned error: %v", err)
	}
	if len(got) != len(entries) {
		t.Fatalf("expected %d entries, got %d", len(entries), len(got))
	}
	for i := range entries {
		if got[i].ID != entries[i].ID {
			t.Fatalf("entry %d: id %q, want %q", i, got[i].ID, entries[i].ID)
		}
		if !correctionsClose(got[i].Correction, entries[i].Correction) {
			t.Fatalf("entry %d: correction drifted: got %+v want %+v", i, got[i].Correction, entries[i].Correction)
		}
	}
}

func TestReadCollectionDefaultsSaturation(t *testing.T) {
	const doc = `<?xml version="1.0"?>
<ColorCorrectionCollection xmlns="urn:ASC:CDL:v1.01">
  <ColorCorrection id="shot1">
    <SOPNode>
      <Slope>1.05 1.00 0.95</Slope>
      <Offset>0.00 0.00 0.00</Offset>
      <Power>1.00 1.00 1.00</Power>
    </SOPNode>
    <SatNode></SatNode>
  </ColorCorrection>
</ColorCorrectionCollection>`

	entries, err := cdl.ReadCollection(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ReadCollection returned error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Correction.Saturation != 1 {
		t.Fatalf("expected default saturation 1, got %g", entries[0].Correction.Saturation)
	}
	if entries[0].Correction.Slope != [3]float64{1.05, 1.00, 0.95} {
		t.Fatalf("unexpected slope: %v", entries[0].Correction.Slope)
	}
}

func TestReadCollectionRejectsMalformedTriple(t *testing.T) {
	const doc = `<ColorCorrectionCollection>
  <ColorCorrection id="bad">
    <SOPNode><Slope>1.0 1.0</Slope><Offset>0 0 0</Offset><Power>1 1 1</Power></SOPNode>
    <SatNode><Saturation>1.0</Saturation></SatNode>
  </ColorCorrection>
</ColorCorrectionCollection>`

	if _, err := cdl.ReadCollection(strings.NewReader(doc)); err == nil {
		t.Fatal("expected error for two-component slope")
	}
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grades.cdl")
	want := []cdl.Entry{{ID: "clip", Correction: cdl.Identity()}}
	if err := cdl.WriteFile(path, want); err != nil {
		t.Fatalf("WriteFile returned error: %v", err)
	}
	got, err := cdl.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile returned error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "clip" || !got[0].Correction.IsIdentity() {
		t.Fatalf("unexpected round trip result: %+v", got)
	}
}

func TestValidate(t *testing.T) {
	bad := cdl.Identity()
	bad.Power[1] = 0
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for zero power")
	}
	bad = cdl.Identity()
	bad.Saturation = -0.2
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for negative saturation")
	}
	if err := cdl.Identity().Validate(); err != nil {
		t.Fatalf("identity should validate: %v", err)
	}
}

func correctionsClose(a, b cdl.ColorCorrection) bool {
	const eps = 1e-9
	for i := 0; i < 3; i++ {
		if math.Abs(a.Slope[i]-b.Slope[i]) > eps ||
			math.Abs(a.Offset[i]-b.Offset[i]) > eps ||
			math.Abs(a.Power[i]-b.Power[i]) > eps {
			return false
		}
	}
	return math.Abs(a.Saturation-b.Saturation) <= eps
}
