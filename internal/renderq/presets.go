// Package renderq manages the host render queue and monitors progress.
package renderq

import (
	"fmt"
	"sort"
	"strings"
)

// Preset is a named format/codec pairing for queueing renders.
type Preset struct {
	Name        string `json:"name"`
	Format      string `json:"format"`
	Codec       string `json:"codec"`
	Description string `json:"description"`
}

var presets = map[string]Preset{
	"prores422hq": {
		Name: "prores422hq", Format: "QuickTime", Codec: "ProRes422HQ",
		Description: "ProRes 422 HQ, high quality for editing",
	},
	"prores422": {
		Name: "prores422", Format: "QuickTime", Codec: "ProRes422",
		Description: "ProRes 422, standard quality",
	},
	"prores4444": {
		Name: "prores4444", Format: "QuickTime", Codec: "ProRes4444",
		Description: "ProRes 4444, alpha channel support",
	},
	"h264_high": {
		Name: "h264_high", Format: "mp4", Codec: "H264",
		Description: "H.264 high quality, web and streaming",
	},
	"h265_high": {
		Name: "h265_high", Format: "mp4", Codec: "H265",
		Description: "H.265/HEVC high quality, efficient compression",
	},
	"dnxhr_hqx": {
		Name: "dnxhr_hqx", Format: "mxf", Codec: "DNxHRHQX",
		Description: "DNxHR HQX, high quality for post",
	},
	"dnxhr_sq": {
		Name: "dnxhr_sq", Format: "mxf", Codec: "DNxHRSQ",
		Description: "DNxHR SQ, standard quality",
	},
}

// Presets returns all presets sorted by name.
func Presets() []Preset {
	out := make([]Preset, 0, len(presets))
	for _, p := range presets {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// LookupPreset resolves a preset by name, case-insensitively.
func LookupPreset(name string) (Preset, error) {
	p, ok := presets[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		names := make([]string, 0, len(presets))
		for n := range presets {
			names = append(names, n)
		}
		sort.Strings(names)
		return Preset{}, fmt.Errorf("unknown render preset %q (available: %s)", name, strings.Join(names, ", "))
	}
	return p, nil
}
