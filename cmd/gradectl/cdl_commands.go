package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gradectl/internal/cdl"
	"gradectl/internal/grades"
	"gradectl/internal/resolve"
)

func newCDLCommand(ctx *commandContext) *cobra.Command {
	cdlCmd := &cobra.Command{
		Use:   "cdl",
		Short: "Exchange ASC CDL corrections with the timeline",
	}
	cdlCmd.AddCommand(newCDLExportCommand(ctx))
	cdlCmd.AddCommand(newCDLImportCommand(ctx))
	return cdlCmd
}

func newCDLExportCommand(ctx *commandContext) *cobra.Command {
	var targets targetFlags
	var node int

	cmd := &cobra.Command{
		Use:   "export OUT.cdl",
		Short: "Write node color data from the targeted clips as a CDL collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withTimeline(cmd.Context(), func(_ resolve.Project, timeline resolve.Timeline) error {
				items, err := targets.selectTargets(cmd.Context(), timeline)
				if err != nil {
					return err
				}

				entries := make([]cdl.Entry, 0, len(items))
				for _, item := range items {
					name, err := item.Name(cmd.Context())
					if err != nil {
						return err
					}
					correction, err := item.NodeColorData(cmd.Context(), node)
					if err != nil {
						return fmt.Errorf("read node %d of %q: %w", node, name, err)
					}
					entries = append(entries, cdl.Entry{ID: name, Correction: correction})
				}

				if err := cdl.WriteFile(args[0], entries); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s\n", plural(len(entries), "correction"), args[0])
				return nil
			})
		},
	}

	targets.register(cmd)
	cmd.Flags().IntVar(&node, "node", 1, "1-based node to read color data from")
	return cmd
}

func newCDLImportCommand(ctx *commandContext) *cobra.Command {
	var targets targetFlags
	var node int

	cmd := &cobra.Command{
		Use:   "import IN.cdl",
		Short: "Apply corrections from a CDL collection to the targeted clips",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := cdl.ReadFile(args[0])
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				return fmt.Errorf("%s contains no corrections", args[0])
			}

			byID := make(map[string]cdl.ColorCorrection, len(entries))
			for _, entry := range entries {
				byID[entry.ID] = entry.Correction
			}

			return ctx.withTimeline(cmd.Context(), func(_ resolve.Project, timeline resolve.Timeline) error {
				items, err := targets.selectTargets(cmd.Context(), timeline)
				if err != nil {
					return err
				}

				applied, skipped := 0, 0
				for _, item := range items {
					name, err := item.Name(cmd.Context())
					if err != nil {
						return err
					}
					correction, ok := byID[name]
					if !ok {
						// A single-entry file applies to every target.
						if len(entries) == 1 {
							correction = entries[0].Correction
						} else {
							skipped++
							continue
						}
					}
					if err := item.SetNodeColorData(cmd.Context(), node, correction); err != nil {
						return fmt.Errorf("apply correction to %q: %w", name, err)
					}
					applied++
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Applied corrections to %s (node %d)\n", plural(applied, "clip"), node)
				if skipped > 0 {
					fmt.Fprintf(out, "Skipped %s with no matching correction ID\n", plural(skipped, "clip"))
				}
				return nil
			})
		},
	}

	targets.register(cmd)
	cmd.Flags().IntVar(&node, "node", 1, "1-based node to write color data to")
	return cmd
}

// newGradeCommand groups grade copy and template application.
func newGradeCommand(ctx *commandContext) *cobra.Command {
	gradeCmd := &cobra.Command{
		Use:   "grade",
		Short: "Copy grades between clips and apply grade templates",
	}
	gradeCmd.AddCommand(newGradeCopyCommand(ctx))
	gradeCmd.AddCommand(newGradeDRXCommand(ctx))
	return gradeCmd
}

func newGradeCopyCommand(ctx *commandContext) *cobra.Command {
	var targets targetFlags
	var lutsOnly, cdlOnly bool
	var node int

	cmd := &cobra.Command{
		Use:   "copy SOURCE_CLIP",
		Short: "Copy a clip's grade to the targeted clips node by node",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withTimeline(cmd.Context(), func(_ resolve.Project, timeline resolve.Timeline) error {
				source, err := resolve.FindItemByName(cmd.Context(), timeline, args[0])
				if err != nil {
					return err
				}
				items, err := targets.selectTargets(cmd.Context(), timeline)
				if err != nil {
					return err
				}

				// Do not copy the source onto itself. Items from separate
				// listings are distinct wrappers, so compare by clip name.
				filtered := items[:0]
				for _, item := range items {
					name, err := item.Name(cmd.Context())
					if err != nil {
						return err
					}
					if name != args[0] {
						filtered = append(filtered, item)
					}
				}
				if len(filtered) == 0 {
					return fmt.Errorf("no targets besides the source clip")
				}

				results, err := grades.Copy(cmd.Context(), source, filtered, grades.CopyOptions{
					LUTsOnly: lutsOnly,
					CDLOnly:  cdlOnly,
					Node:     node,
				})
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				for _, result := range results {
					fmt.Fprintf(out, "%s: %s copied\n", result.Target, plural(result.NodesCopied, "node"))
				}
				return nil
			})
		},
	}

	targets.register(cmd)
	cmd.Flags().BoolVar(&lutsOnly, "luts-only", false, "Copy only node LUTs")
	cmd.Flags().BoolVar(&cdlOnly, "cdl-only", false, "Copy only node color data")
	cmd.Flags().IntVar(&node, "node", 0, "Copy a single 1-based node (default: all shared nodes)")
	return cmd
}

func newGradeDRXCommand(ctx *commandContext) *cobra.Command {
	var targets targetFlags
	var mode int

	cmd := &cobra.Command{
		Use:   "drx PATH",
		Short: "Apply a grade-exchange template to the targeted clips",
		Long: "Apply a .drx template exported from the host gallery. This is the\n" +
			"supported way to change node structure, since nodes cannot be added\n" +
			"through the scripting surface.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if mode < 0 || mode > 2 {
				return fmt.Errorf("mode must be 0 (no keyframes), 1 (source timecode), or 2 (start frames)")
			}
			return ctx.withTimeline(cmd.Context(), func(_ resolve.Project, timeline resolve.Timeline) error {
				items, err := targets.selectTargets(cmd.Context(), timeline)
				if err != nil {
					return err
				}
				applied, err := grades.ApplyDRX(cmd.Context(), items, args[0], resolve.GradeMode(mode))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Applied %s to %s\n", args[0], plural(applied, "clip"))
				return nil
			})
		},
	}

	targets.register(cmd)
	cmd.Flags().IntVar(&mode, "mode", 0, "Keyframe mode: 0 none, 1 source timecode, 2 start frames")
	return cmd
}
