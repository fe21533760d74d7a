package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"gradectl/internal/resolve"
	"gradectl/internal/timeline"
)

func newTimelineCommand(ctx *commandContext) *cobra.Command {
	timelineCmd := &cobra.Command{
		Use:   "timeline",
		Short: "Inspect the current timeline",
	}
	timelineCmd.AddCommand(newTimelineAnalyzeCommand(ctx))
	return timelineCmd
}

func newTimelineAnalyzeCommand(ctx *commandContext) *cobra.Command {
	var detailed, asJSON bool

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Report clip, track, and marker statistics for the current timeline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withTimeline(cmd.Context(), func(project resolve.Project, tl resolve.Timeline) error {
				report, err := timeline.Analyze(cmd.Context(), tl, timeline.Options{Detailed: detailed})
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, report)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Timeline: %s\n", report.Name)
				fmt.Fprintf(out, "Frame rate: %g fps\n", report.FrameRate)
				fmt.Fprintf(out, "Duration: %s (%s)\n", report.Duration, plural(report.DurationFrame, "frame"))
				fmt.Fprintf(out, "Video tracks: %d\n", report.VideoTracks)
				fmt.Fprintf(out, "Clips: %d\n", report.ClipCount)
				fmt.Fprintf(out, "Markers: %d\n", report.MarkerCount)

				if len(report.ColorCounts) > 0 {
					colors := make([]string, 0, len(report.ColorCounts))
					for color := range report.ColorCounts {
						colors = append(colors, color)
					}
					sort.Strings(colors)
					rows := make([][]string, 0, len(colors))
					for _, color := range colors {
						rows = append(rows, []string{color, strconv.Itoa(report.ColorCounts[color])})
					}
					fmt.Fprintln(out)
					fmt.Fprintln(out, renderTable(
						[]string{"Clip Color", "Count"},
						rows,
						[]columnAlignment{alignLeft, alignRight},
					))
				}

				if detailed && len(report.Clips) > 0 {
					rows := make([][]string, 0, len(report.Clips))
					for _, clip := range report.Clips {
						rows = append(rows, []string{
							strconv.Itoa(clip.Track),
							clip.Name,
							timeline.Timecode(clip.Start, report.FrameRate),
							timeline.Timecode(clip.End, report.FrameRate),
							strconv.Itoa(clip.Duration),
							clip.Color,
							strconv.Itoa(clip.Nodes),
						})
					}
					fmt.Fprintln(out)
					fmt.Fprintln(out, renderTable(
						[]string{"Track", "Clip", "In", "Out", "Frames", "Color", "Nodes"},
						rows,
						[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignRight},
					))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&detailed, "detailed", false, "Include per-clip rows with node counts")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of text")
	return cmd
}
