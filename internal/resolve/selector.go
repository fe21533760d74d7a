package resolve

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Selector narrows timeline items down to the set a command operates on.
// Zero Track means every video track; empty Color and NameContains disable
// those filters. All is required when no other filter is set so commands
// cannot silently touch the whole timeline.
type Selector struct {
	All          bool
	Track        int
	Color        string
	NameContains string
}

// Validate checks that the selector targets something on purpose.
func (s Selector) Validate() error {
	if !s.All && s.Track == 0 && s.Color == "" && s.NameContains == "" {
		return errors.New("no targets selected: pass --all, --track, --color, or --name")
	}
	if s.Track < 0 {
		return fmt.Errorf("track index must be positive, got %d", s.Track)
	}
	if s.Color != "" {
		if _, ok := CanonicalClipColor(s.Color); !ok {
			return fmt.Errorf("unknown clip color %q", s.Color)
		}
	}
	return nil
}

// SelectItems walks the timeline's video tracks and returns the items the
// selector matches, in track order.
func SelectItems(ctx context.Context, timeline Timeline, sel Selector) ([]Item, error) {
	if err := sel.Validate(); err != nil {
		return nil, err
	}
	trackCount, err := timeline.VideoTrackCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("count video tracks: %w", err)
	}
	if sel.Track > trackCount {
		return nil, fmt.Errorf("track %d out of range (timeline has %d video tracks)", sel.Track, trackCount)
	}

	var matched []Item
	for track := 1; track <= trackCount; track++ {
		if sel.Track != 0 && track != sel.Track {
			continue
		}
		items, err := timeline.ItemsInVideoTrack(ctx, track)
		if err != nil {
			return nil, fmt.Errorf("list items in video track %d: %w", track, err)
		}
		for _, item := range items {
			ok, err := matches(ctx, item, sel)
			if err != nil {
				return nil, err
			}
			if ok {
				matched = append(matched, item)
			}
		}
	}
	return matched, nil
}

// FindItemByName returns the first timeline item whose name equals name,
// searching tracks in order.
func FindItemByName(ctx context.Context, timeline Timeline, name string) (Item, error) {
	trackCount, err := timeline.VideoTrackCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("count video tracks: %w", err)
	}
	for track := 1; track <= trackCount; track++ {
		items, err := timeline.ItemsInVideoTrack(ctx, track)
		if err != nil {
			return nil, fmt.Errorf("list items in video track %d: %w", track, err)
		}
		for _, item := range items {
			itemName, err := item.Name(ctx)
			if err != nil {
				return nil, err
			}
			if itemName == name {
				return item, nil
			}
		}
	}
	return nil, fmt.Errorf("clip %q not found in timeline", name)
}

func matches(ctx context.Context, item Item, sel Selector) (bool, error) {
	if sel.Color != "" {
		color, err := item.ClipColor(ctx)
		if err != nil {
			return false, err
		}
		if !strings.EqualFold(color, sel.Color) {
			return false, nil
		}
	}
	if sel.NameContains != "" {
		name, err := item.Name(ctx)
		if err != nil {
			return false, err
		}
		if !strings.Contains(strings.ToLower(name), strings.ToLower(sel.NameContains)) {
			return false, nil
		}
	}
	return true, nil
}
