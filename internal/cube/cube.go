package cube

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// LUT is a 3D lookup table. Data rows follow .cube ordering: the red index
// varies fastest, blue slowest.
type LUT struct {
	Title     string
	Size      int
	DomainMin [3]float64
	DomainMax [3]float64
	Data      [][3]float64
}

// ErrEmptyLUT indicates a file with no usable data rows.
var ErrEmptyLUT = errors.New("cube: no data rows found")

// Load reads a LUT from the file at path.
func Load(path string) (*LUT, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open lut: %w", err)
	}
	defer file.Close()
	lut, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return lut, nil
}

// Parse reads a LUT in .cube syntax from r.
func Parse(r io.Reader) (*LUT, error) {
	lut := &LUT{
		DomainMin: [3]float64{0, 0, 0},
		DomainMax: [3]float64{1, 1, 1},
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		switch {
		case strings.HasPrefix(line, "TITLE"):
			lut.Title = parseTitle(line)
		case strings.HasPrefix(line, "LUT_3D_SIZE"):
			fields := strings.Fields(line)
			if len(fields) < 2 {
				return nil, errors.New("cube: LUT_3D_SIZE missing value")
			}
			size, err := strconv.Atoi(fields[1])
			if err != nil {
				return nil, fmt.Errorf("cube: parse LUT_3D_SIZE: %w", err)
			}
			lut.Size = size
		case strings.HasPrefix(line, "LUT_1D_SIZE"):
			return nil, errors.New("cube: 1D LUTs are not supported")
		case strings.HasPrefix(line, "DOMAIN_MIN"):
			v, err := parseRow(line[len("DOMAIN_MIN"):])
			if err != nil {
				return nil, fmt.Errorf("cube: parse DOMAIN_MIN: %w", err)
			}
			lut.DomainMin = v
		case strings.HasPrefix(line, "DOMAIN_MAX"):
			v, err := parseRow(line[len("DOMAIN_MAX"):])
			if err != nil {
				return nil, fmt.Errorf("cube: parse DOMAIN_MAX: %w", err)
			}
			lut.DomainMax = v
		default:
			row, err := parseRow(line)
			if err != nil {
				// Unknown keyword lines are skipped, matching lenient
				// readers in grading tools.
				continue
			}
			lut.Data = append(lut.Data, row)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cube: read: %w", err)
	}

	if len(lut.Data) == 0 {
		return nil, ErrEmptyLUT
	}
	if lut.Size == 0 {
		lut.Size = int(math.Round(math.Cbrt(float64(len(lut.Data)))))
	}
	if lut.Size < 2 {
		return nil, fmt.Errorf("cube: LUT size %d is too small to sample", lut.Size)
	}
	if want := lut.Size * lut.Size * lut.Size; want != len(lut.Data) {
		return nil, fmt.Errorf("cube: size %d expects %d rows, found %d", lut.Size, want, len(lut.Data))
	}
	return lut, nil
}

// Write emits the LUT in .cube syntax.
func (l *LUT) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	title := l.Title
	if title == "" {
		title = "Generated LUT"
	}
	fmt.Fprintf(bw, "TITLE %q\n", title)
	fmt.Fprintf(bw, "LUT_3D_SIZE %d\n", l.Size)
	fmt.Fprintf(bw, "DOMAIN_MIN %.6f %.6f %.6f\n", l.DomainMin[0], l.DomainMin[1], l.DomainMin[2])
	fmt.Fprintf(bw, "DOMAIN_MAX %.6f %.6f %.6f\n", l.DomainMax[0], l.DomainMax[1], l.DomainMax[2])
	fmt.Fprintln(bw)
	for _, row := range l.Data {
		fmt.Fprintf(bw, "%.6f %.6f %.6f\n", row[0], row[1], row[2])
	}
	return bw.Flush()
}

// Save writes the LUT to the file at path.
func (l *LUT) Save(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create lut: %w", err)
	}
	if err := l.Write(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// At returns the table entry for integer grid coordinates.
func (l *LUT) At(r, g, b int) [3]float64 {
	return l.Data[r+l.Size*(g+l.Size*b)]
}

// Transform maps an input color in [0,1] through the LUT with trilinear
// interpolation.
func (l *LUT) Transform(r, g, b float64) [3]float64 {
	max := float64(l.Size - 1)
	ri, gi, bi := clamp01(r)*max, clamp01(g)*max, clamp01(b)*max

	r0, g0, b0 := int(ri), int(gi), int(bi)
	r1, g1, b1 := minInt(r0+1, l.Size-1), minInt(g0+1, l.Size-1), minInt(b0+1, l.Size-1)
	rf, gf, bf := ri-float64(r0), gi-float64(g0), bi-float64(b0)

	c000 := l.At(r0, g0, b0)
	c001 := l.At(r0, g0, b1)
	c010 := l.At(r0, g1, b0)
	c011 := l.At(r0, g1, b1)
	c100 := l.At(r1, g0, b0)
	c101 := l.At(r1, g0, b1)
	c110 := l.At(r1, g1, b0)
	c111 := l.At(r1, g1, b1)

	var out [3]float64
	for i := 0; i < 3; i++ {
		c00 := lerp(c000[i], c100[i], rf)
		c01 := lerp(c001[i], c101[i], rf)
		c10 := lerp(c010[i], c110[i], rf)
		c11 := lerp(c011[i], c111[i], rf)
		c0 := lerp(c00, c10, gf)
		c1 := lerp(c01, c11, gf)
		out[i] = lerp(c0, c1, bf)
	}
	return out
}

// Identity builds a pass-through LUT of the given size.
func Identity(size int) *LUT {
	lut := &LUT{
		Title:     "Identity",
		Size:      size,
		DomainMin: [3]float64{0, 0, 0},
		DomainMax: [3]float64{1, 1, 1},
		Data:      make([][3]float64, 0, size*size*size),
	}
	max := float64(size - 1)
	for b := 0; b < size; b++ {
		for g := 0; g < size; g++ {
			for r := 0; r < size; r++ {
				lut.Data = append(lut.Data, [3]float64{float64(r) / max, float64(g) / max, float64(b) / max})
			}
		}
	}
	return lut
}

func parseTitle(line string) string {
	if i := strings.IndexByte(line, '"'); i >= 0 {
		rest := line[i+1:]
		if j := strings.IndexByte(rest, '"'); j >= 0 {
			return rest[:j]
		}
		return rest
	}
	fields := strings.Fields(line)
	if len(fields) > 1 {
		return fields[1]
	}
	return ""
}

func parseRow(s string) ([3]float64, error) {
	fields := strings.Fields(s)
	if len(fields) < 3 {
		return [3]float64{}, fmt.Errorf("expected 3 values, got %d", len(fields))
	}
	var out [3]float64
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return [3]float64{}, err
		}
		out[i] = v
	}
	return out, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func lerp(a, b, t float64) float64 { return a*(1-t) + b*t }

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
