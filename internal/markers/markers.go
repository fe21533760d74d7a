// Package markers filters, exports, and imports timeline markers.
package markers

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"gradectl/internal/resolve"
)

// Filter narrows a marker list.
type Filter struct {
	Color string
	Query string
}

// Apply returns the markers matching the filter, sorted by frame.
// Color matches exactly (canonical name), Query matches name or note
// case-insensitively.
func (f Filter) Apply(markers []resolve.Marker) ([]resolve.Marker, error) {
	color := ""
	if f.Color != "" {
		canonical, ok := resolve.CanonicalMarkerColor(f.Color)
		if !ok {
			return nil, fmt.Errorf("unknown marker color %q", f.Color)
		}
		color = canonical
	}
	query := strings.ToLower(strings.TrimSpace(f.Query))

	var out []resolve.Marker
	for _, m := range markers {
		if color != "" && m.Color != color {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(m.Name), query) &&
			!strings.Contains(strings.ToLower(m.Note), query) {
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Frame < out[j].Frame })
	return out, nil
}

var csvHeader = []string{"frame", "color", "name", "note", "duration"}

// WriteCSV writes markers in the flat export format, sorted by frame.
func WriteCSV(w io.Writer, markers []resolve.Marker) error {
	sorted := make([]resolve.Marker, len(markers))
	copy(sorted, markers)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Frame < sorted[j].Frame })

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, m := range sorted {
		record := []string{
			strconv.Itoa(m.Frame),
			m.Color,
			m.Name,
			m.Note,
			strconv.Itoa(m.Duration),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write marker at frame %d: %w", m.Frame, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportCSV writes markers to a file.
func ExportCSV(path string, markers []resolve.Marker) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %q: %w", path, err)
	}
	if err := WriteCSV(f, markers); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// ReadCSV parses markers from the export format. Colors are validated
// against the host's marker palette.
func ReadCSV(r io.Reader) ([]resolve.Marker, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty marker file")
	}
	if !isHeader(records[0]) {
		return nil, fmt.Errorf("missing header row (expected %s)", strings.Join(csvHeader, ","))
	}

	markers := make([]resolve.Marker, 0, len(records)-1)
	for i, record := range records[1:] {
		line := i + 2
		frame, err := strconv.Atoi(strings.TrimSpace(record[0]))
		if err != nil || frame < 0 {
			return nil, fmt.Errorf("line %d: invalid frame %q", line, record[0])
		}
		color, ok := resolve.CanonicalMarkerColor(record[1])
		if !ok {
			return nil, fmt.Errorf("line %d: unknown marker color %q", line, record[1])
		}
		duration := 1
		if strings.TrimSpace(record[4]) != "" {
			duration, err = strconv.Atoi(strings.TrimSpace(record[4]))
			if err != nil || duration < 1 {
				return nil, fmt.Errorf("line %d: invalid duration %q", line, record[4])
			}
		}
		markers = append(markers, resolve.Marker{
			Frame:    frame,
			Color:    color,
			Name:     record[2],
			Note:     record[3],
			Duration: duration,
		})
	}
	return markers, nil
}

// ImportCSV reads a marker file and adds every marker to the timeline.
// It stops at the first refused add and reports how many succeeded.
func ImportCSV(ctx context.Context, tl resolve.Timeline, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open %q: %w", path, err)
	}
	defer f.Close()

	parsed, err := ReadCSV(f)
	if err != nil {
		return 0, err
	}
	for i, m := range parsed {
		if err := tl.AddMarker(ctx, m); err != nil {
			return i, fmt.Errorf("add marker at frame %d: %w", m.Frame, err)
		}
	}
	return len(parsed), nil
}

func isHeader(record []string) bool {
	if len(record) != len(csvHeader) {
		return false
	}
	for i, field := range record {
		if !strings.EqualFold(strings.TrimSpace(field), csvHeader[i]) {
			return false
		}
	}
	return true
}

// Delete removes the markers matching the filter from the timeline.
// With dryRun it only reports which markers would go.
func Delete(ctx context.Context, tl resolve.Timeline, filter Filter, dryRun bool) ([]resolve.Marker, error) {
	all, err := tl.Markers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list markers: %w", err)
	}
	matched, err := filter.Apply(all)
	if err != nil {
		return nil, err
	}
	if dryRun {
		return matched, nil
	}
	for _, m := range matched {
		if err := tl.DeleteMarkerAtFrame(ctx, m.Frame); err != nil {
			return matched, fmt.Errorf("delete marker at frame %d: %w", m.Frame, err)
		}
	}
	return matched, nil
}
