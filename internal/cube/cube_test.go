package cube_test

import (
	"math"
	"path/filepath"
	"strings"
	"testing"

	"gradectl/internal/cube"
)

const sampleCube = `# comment line
TITLE "Warm Sample"
LUT_3D_SIZE 2
DOMAIN_MIN 0.0 0.0 0.0
DOMAIN_MAX 1.0 1.0 1.0

0.050000 0.000000 0.000000
1.000000 0.000000 0.000000
0.050000 1.000000 0.000000
1.000000 1.000000 0.000000
0.050000 0.000000 1.000000
1.000000 0.000000 1.000000
0.050000 1.000000 1.000000
1.000000 1.000000 1.000000
`

func TestParseHeaderAndData(t *testing.T) {
	lut, err := cube.Parse(strings.NewReader(sampleCube))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if lut.Title != "Warm Sample" {
		t.Fatalf("unexpected title: %q", lut.Title)
	}
	if lut.Size != 2 {
		t.Fatalf("unexpected size: %d", lut.Size)
	}
	if got := lut.At(0, 0, 0); got != [3]float64{0.05, 0, 0} {
		t.Fatalf("unexpected black point: %v", got)
	}
	if got := lut.At(1, 1, 1); got != [3]float64{1, 1, 1} {
		t.Fatalf("unexpected white point: %v", got)
	}
}

func TestParseInfersSizeWhenHeaderMissing(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 8; i++ {
		b.WriteString("0.5 0.5 0.5\n")
	}
	lut, err := cube.Parse(strings.NewReader(b.String()))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if lut.Size != 2 {
		t.Fatalf("expected inferred size 2, got %d", lut.Size)
	}
}

func TestParseRejectsRowCountMismatch(t *testing.T) {
	const doc = "LUT_3D_SIZE 2\n0 0 0\n1 1 1\n"
	if _, err := cube.Parse(strings.NewReader(doc)); err == nil {
		t.Fatal("expected error for truncated table")
	}
}

func TestParseRejectsDegenerateSize(t *testing.T) {
	const doc = "LUT_3D_SIZE 1\n0.5 0.5 0.5\n"
	if _, err := cube.Parse(strings.NewReader(doc)); err == nil {
		t.Fatal("expected error for single-entry table")
	}
	if _, err := cube.Parse(strings.NewReader("0.5 0.5 0.5\n")); err == nil {
		t.Fatal("expected error for inferred size 1")
	}
}

func TestParseRejectsEmptyInput(t *testing.T) {
	if _, err := cube.Parse(strings.NewReader("# nothing here\n")); err == nil {
		t.Fatal("expected error for empty LUT")
	}
}

func TestIdentityTransformIsPassThrough(t *testing.T) {
	lut := cube.Identity(17)
	samples := [][3]float64{{0, 0, 0}, {1, 1, 1}, {0.25, 0.5, 0.75}, {0.61, 0.13, 0.9}}
	for _, in := range samples {
		out := lut.Transform(in[0], in[1], in[2])
		for i := 0; i < 3; i++ {
			if math.Abs(out[i]-in[i]) > 1e-9 {
				t.Fatalf("identity transform moved %v to %v", in, out)
			}
		}
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "identity.cube")
	want := cube.Identity(4)
	want.Title = "RT"
	if err := want.Save(path); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	got, err := cube.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if got.Title != "RT" || got.Size != 4 {
		t.Fatalf("unexpected header after round trip: %q size %d", got.Title, got.Size)
	}
	for i := range want.Data {
		for c := 0; c < 3; c++ {
			if math.Abs(got.Data[i][c]-want.Data[i][c]) > 1e-5 {
				t.Fatalf("row %d drifted: got %v want %v", i, got.Data[i], want.Data[i])
			}
		}
	}
}

func TestAnalyzeIdentityIsNeutral(t *testing.T) {
	a := cube.Identity(9).Analyze()
	if a.ColorTemperature != "neutral" {
		t.Fatalf("identity should read neutral, got %q", a.ColorTemperature)
	}
	if math.Abs(a.SaturationChange-1) > 1e-9 {
		t.Fatalf("identity saturation change should be 1, got %g", a.SaturationChange)
	}
	for name, ch := range a.Channels {
		if math.Abs(ch.MeanShift) > 1e-9 || math.Abs(ch.MaxShift) > 1e-9 {
			t.Fatalf("channel %s should have zero shift: %+v", name, ch)
		}
	}
}

func TestAnalyzeDetectsWarmCast(t *testing.T) {
	lut := cube.Identity(9)
	// Push red up and blue down across the whole table.
	for i := range lut.Data {
		lut.Data[i][0] = clamp(lut.Data[i][0] + 0.05)
		lut.Data[i][2] = clamp(lut.Data[i][2] - 0.05)
	}
	a := lut.Analyze()
	if a.ColorTemperature != "warm" {
		t.Fatalf("expected warm temperature, got %q", a.ColorTemperature)
	}
	if a.Channels["R"].MeanShift <= 0 {
		t.Fatalf("expected positive red shift, got %g", a.Channels["R"].MeanShift)
	}
	if a.Channels["B"].MeanShift >= 0 {
		t.Fatalf("expected negative blue shift, got %g", a.Channels["B"].MeanShift)
	}
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
