package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"gradectl/internal/resolve"
	"gradectl/internal/timeline"
)

// targetFlags are the shared clip-selection flags for commands that
// operate on timeline items.
type targetFlags struct {
	all          bool
	track        int
	color        string
	nameContains string
}

func (f *targetFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.all, "all", false, "Target every clip in the timeline")
	cmd.Flags().IntVar(&f.track, "track", 0, "Target clips in one video track")
	cmd.Flags().StringVar(&f.color, "color", "", "Target clips with this clip color")
	cmd.Flags().StringVar(&f.nameContains, "name", "", "Target clips whose name contains this text")
}

func (f *targetFlags) selector() resolve.Selector {
	return resolve.Selector{
		All:          f.all,
		Track:        f.track,
		Color:        f.color,
		NameContains: f.nameContains,
	}
}

// selectTargets resolves the flags against the timeline and fails when
// nothing matched, so commands do not silently no-op.
func (f *targetFlags) selectTargets(ctx context.Context, timeline resolve.Timeline) ([]resolve.Item, error) {
	items, err := resolve.SelectItems(ctx, timeline, f.selector())
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("no clips matched the target flags")
	}
	return items, nil
}

func timecodeAt(frame int, fps float64) string {
	return timeline.Timecode(frame, fps)
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
