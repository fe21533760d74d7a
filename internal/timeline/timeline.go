// Package timeline builds reports over the current timeline.
package timeline

import (
	"context"
	"fmt"
	"math"
	"sort"

	"gradectl/internal/resolve"
)

// ClipInfo is one timeline item in a detailed report.
type ClipInfo struct {
	Track    int    `json:"track"`
	Name     string `json:"name"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
	Duration int    `json:"duration"`
	Color    string `json:"color,omitempty"`
	Nodes    int    `json:"nodes,omitempty"`
}

// Report summarizes a timeline.
type Report struct {
	Name          string         `json:"name"`
	FrameRate     float64        `json:"frame_rate"`
	StartFrame    int            `json:"start_frame"`
	EndFrame      int            `json:"end_frame"`
	DurationFrame int            `json:"duration_frames"`
	Duration      string         `json:"duration_timecode"`
	VideoTracks   int            `json:"video_tracks"`
	ClipCount     int            `json:"clip_count"`
	MarkerCount   int            `json:"marker_count"`
	ColorCounts   map[string]int `json:"color_counts,omitempty"`
	Clips         []ClipInfo     `json:"clips,omitempty"`
}

// Options controls how much detail Analyze gathers.
type Options struct {
	// Detailed includes per-clip rows with node counts.
	Detailed bool
}

// Analyze walks every video track and aggregates counts, durations,
// and the clip color distribution.
func Analyze(ctx context.Context, tl resolve.Timeline, opts Options) (*Report, error) {
	report := &Report{ColorCounts: make(map[string]int)}

	var err error
	if report.Name, err = tl.Name(ctx); err != nil {
		return nil, fmt.Errorf("timeline name: %w", err)
	}
	if report.FrameRate, err = tl.FrameRate(ctx); err != nil {
		return nil, fmt.Errorf("frame rate: %w", err)
	}
	if report.StartFrame, err = tl.StartFrame(ctx); err != nil {
		return nil, fmt.Errorf("start frame: %w", err)
	}
	if report.EndFrame, err = tl.EndFrame(ctx); err != nil {
		return nil, fmt.Errorf("end frame: %w", err)
	}
	report.DurationFrame = report.EndFrame - report.StartFrame
	if report.DurationFrame < 0 {
		report.DurationFrame = 0
	}
	report.Duration = Timecode(report.DurationFrame, report.FrameRate)

	if report.VideoTracks, err = tl.VideoTrackCount(ctx); err != nil {
		return nil, fmt.Errorf("video track count: %w", err)
	}

	markers, err := tl.Markers(ctx)
	if err != nil {
		return nil, fmt.Errorf("markers: %w", err)
	}
	report.MarkerCount = len(markers)

	for track := 1; track <= report.VideoTracks; track++ {
		items, err := tl.ItemsInVideoTrack(ctx, track)
		if err != nil {
			return nil, fmt.Errorf("items in track %d: %w", track, err)
		}
		report.ClipCount += len(items)

		for _, item := range items {
			color, err := item.ClipColor(ctx)
			if err != nil {
				return nil, fmt.Errorf("clip color: %w", err)
			}
			if color != "" {
				report.ColorCounts[color]++
			}
			if !opts.Detailed {
				continue
			}
			info, err := clipInfo(ctx, item, track, color)
			if err != nil {
				return nil, err
			}
			report.Clips = append(report.Clips, info)
		}
	}

	sort.Slice(report.Clips, func(i, j int) bool {
		if report.Clips[i].Track != report.Clips[j].Track {
			return report.Clips[i].Track < report.Clips[j].Track
		}
		return report.Clips[i].Start < report.Clips[j].Start
	})
	return report, nil
}

func clipInfo(ctx context.Context, item resolve.Item, track int, color string) (ClipInfo, error) {
	info := ClipInfo{Track: track, Color: color}

	var err error
	if info.Name, err = item.Name(ctx); err != nil {
		return info, fmt.Errorf("item name: %w", err)
	}
	if info.Start, err = item.Start(ctx); err != nil {
		return info, fmt.Errorf("item start: %w", err)
	}
	if info.End, err = item.End(ctx); err != nil {
		return info, fmt.Errorf("item end: %w", err)
	}
	info.Duration = info.End - info.Start
	if info.Nodes, err = item.NodeCount(ctx); err != nil {
		return info, fmt.Errorf("node count: %w", err)
	}
	return info, nil
}

// Timecode renders a frame count as HH:MM:SS:FF at the given rate.
// Fractional rates round to the nearest integer frame base.
func Timecode(frames int, fps float64) string {
	if fps <= 0 {
		fps = 24
	}
	base := int(math.Round(fps))
	if base < 1 {
		base = 1
	}
	if frames < 0 {
		frames = 0
	}

	ff := frames % base
	totalSeconds := frames / base
	ss := totalSeconds % 60
	mm := (totalSeconds / 60) % 60
	hh := totalSeconds / 3600
	return fmt.Sprintf("%02d:%02d:%02d:%02d", hh, mm, ss, ff)
}
