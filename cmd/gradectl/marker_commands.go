package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"gradectl/internal/markers"
	"gradectl/internal/resolve"
)

func newMarkersCommand(ctx *commandContext) *cobra.Command {
	markersCmd := &cobra.Command{
		Use:   "markers",
		Short: "List, export, import, and delete timeline markers",
	}
	markersCmd.AddCommand(newMarkersListCommand(ctx))
	markersCmd.AddCommand(newMarkersExportCommand(ctx))
	markersCmd.AddCommand(newMarkersImportCommand(ctx))
	markersCmd.AddCommand(newMarkersDeleteCommand(ctx))
	return markersCmd
}

func markerFilterFlags(cmd *cobra.Command, filter *markers.Filter) {
	cmd.Flags().StringVar(&filter.Color, "color", "", "Only markers with this color")
	cmd.Flags().StringVar(&filter.Query, "query", "", "Only markers whose name or note contains this text")
}

func newMarkersListCommand(ctx *commandContext) *cobra.Command {
	var filter markers.Filter
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List timeline markers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withTimeline(cmd.Context(), func(_ resolve.Project, timeline resolve.Timeline) error {
				all, err := timeline.Markers(cmd.Context())
				if err != nil {
					return err
				}
				matched, err := filter.Apply(all)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, matched)
				}

				fps, err := timeline.FrameRate(cmd.Context())
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(matched))
				for _, m := range matched {
					rows = append(rows, []string{
						strconv.Itoa(m.Frame),
						timecodeAt(m.Frame, fps),
						m.Color,
						m.Name,
						m.Note,
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Frame", "Timecode", "Color", "Name", "Note"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}

	markerFilterFlags(cmd, &filter)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	return cmd
}

func newMarkersExportCommand(ctx *commandContext) *cobra.Command {
	var filter markers.Filter

	cmd := &cobra.Command{
		Use:   "export OUT.csv",
		Short: "Export timeline markers to CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withTimeline(cmd.Context(), func(_ resolve.Project, timeline resolve.Timeline) error {
				all, err := timeline.Markers(cmd.Context())
				if err != nil {
					return err
				}
				matched, err := filter.Apply(all)
				if err != nil {
					return err
				}
				if err := markers.ExportCSV(args[0], matched); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s\n", plural(len(matched), "marker"), args[0])
				return nil
			})
		},
	}

	markerFilterFlags(cmd, &filter)
	return cmd
}

func newMarkersImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import IN.csv",
		Short: "Add markers from a CSV export to the timeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withTimeline(cmd.Context(), func(_ resolve.Project, timeline resolve.Timeline) error {
				added, err := markers.ImportCSV(cmd.Context(), timeline, args[0])
				if err != nil {
					return fmt.Errorf("%s added before failure: %w", plural(added, "marker"), err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", plural(added, "marker"))
				return nil
			})
		},
	}
}

func newMarkersDeleteCommand(ctx *commandContext) *cobra.Command {
	var filter markers.Filter
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete the markers matching the filter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if filter.Color == "" && filter.Query == "" {
				return fmt.Errorf("pass --color or --query so delete does not wipe every marker")
			}
			return ctx.withTimeline(cmd.Context(), func(_ resolve.Project, timeline resolve.Timeline) error {
				gone, err := markers.Delete(cmd.Context(), timeline, filter, dryRun)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if dryRun {
					for _, m := range gone {
						fmt.Fprintf(out, "would delete frame %d (%s) %s\n", m.Frame, m.Color, m.Name)
					}
					fmt.Fprintf(out, "Dry run: %s matched\n", plural(len(gone), "marker"))
					return nil
				}
				fmt.Fprintf(out, "Deleted %s\n", plural(len(gone), "marker"))
				return nil
			})
		},
	}

	markerFilterFlags(cmd, &filter)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report matches without deleting")
	return cmd
}
