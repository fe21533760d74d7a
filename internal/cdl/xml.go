package cdl

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Entry pairs a correction with the clip identifier it was read from.
type Entry struct {
	ID         string
	Correction ColorCorrection
}

const collectionNamespace = "urn:ASC:CDL:v1.01"

type xmlCollection struct {
	XMLName     xml.Name        `xml:"ColorCorrectionCollection"`
	Namespace   string          `xml:"xmlns,attr,omitempty"`
	Corrections []xmlCorrection `xml:"ColorCorrection"`
}

type xmlCorrection struct {
	ID  string     `xml:"id,attr"`
	SOP xmlSOPNode `xml:"SOPNode"`
	Sat xmlSatNode `xml:"SatNode"`
}

type xmlSOPNode struct {
	Slope  string `xml:"Slope"`
	Offset string `xml:"Offset"`
	Power  string `xml:"Power"`
}

type xmlSatNode struct {
	Saturation string `xml:"Saturation"`
}

// WriteCollection encodes entries as a ColorCorrectionCollection document.
func WriteCollection(w io.Writer, entries []Entry) error {
	doc := xmlCollection{Namespace: collectionNamespace}
	for _, e := range entries {
		doc.Corrections = append(doc.Corrections, xmlCorrection{
			ID: e.ID,
			SOP: xmlSOPNode{
				Slope:  formatTriple(e.Correction.Slope),
				Offset: formatTriple(e.Correction.Offset),
				Power:  formatTriple(e.Correction.Power),
			},
			Sat: xmlSatNode{Saturation: formatFloat(e.Correction.Saturation)},
		})
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("write xml header: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode cdl collection: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("flush cdl collection: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// ReadCollection decodes a ColorCorrectionCollection document.
func ReadCollection(r io.Reader) ([]Entry, error) {
	var doc xmlCollection
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode cdl collection: %w", err)
	}
	entries := make([]Entry, 0, len(doc.Corrections))
	for i, corr := range doc.Corrections {
		cc := Identity()
		var err error
		if cc.Slope, err = parseTriple(corr.SOP.Slope); err != nil {
			return nil, fmt.Errorf("correction %d: slope: %w", i+1, err)
		}
		if cc.Offset, err = parseTriple(corr.SOP.Offset); err != nil {
			return nil, fmt.Errorf("correction %d: offset: %w", i+1, err)
		}
		if cc.Power, err = parseTriple(corr.SOP.Power); err != nil {
			return nil, fmt.Errorf("correction %d: power: %w", i+1, err)
		}
		if strings.TrimSpace(corr.Sat.Saturation) != "" {
			if cc.Saturation, err = strconv.ParseFloat(strings.TrimSpace(corr.Sat.Saturation), 64); err != nil {
				return nil, fmt.Errorf("correction %d: saturation: %w", i+1, err)
			}
		}
		entries = append(entries, Entry{ID: corr.ID, Correction: cc})
	}
	return entries, nil
}

// WriteFile writes entries to path, creating or truncating it.
func WriteFile(path string, entries []Entry) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create cdl file: %w", err)
	}
	if err := WriteCollection(file, entries); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// ReadFile reads all corrections from the file at path.
func ReadFile(path string) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open cdl file: %w", err)
	}
	defer file.Close()
	return ReadCollection(file)
}

func formatTriple(v [3]float64) string {
	return formatFloat(v[0]) + " " + formatFloat(v[1]) + " " + formatFloat(v[2])
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func parseTriple(s string) ([3]float64, error) {
	fields := strings.Fields(s)
	if len(fields) != 3 {
		return [3]float64{}, fmt.Errorf("expected 3 values, got %d", len(fields))
	}
	var out [3]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return [3]float64{}, fmt.Errorf("parse %q: %w", f, err)
		}
		out[i] = v
	}
	return out, nil
}
