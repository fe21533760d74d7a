package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"gradectl/internal/mediapool"
	"gradectl/internal/rename"
	"gradectl/internal/resolve"
)

func newClipsCommand(ctx *commandContext) *cobra.Command {
	clipsCmd := &cobra.Command{
		Use:   "clips",
		Short: "Batch operations on clips",
	}
	clipsCmd.AddCommand(newClipsRenameCommand(ctx))
	clipsCmd.AddCommand(newClipsColorCommand(ctx))
	return clipsCmd
}

func newClipsRenameCommand(ctx *commandContext) *cobra.Command {
	var rule rename.Rule
	var replaceArgs []string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "rename",
		Short: "Batch rename media pool clips",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(replaceArgs) > 0 {
				if len(replaceArgs) != 2 {
					return fmt.Errorf("--replace needs a pattern and a template")
				}
				rule.Pattern, rule.Template = replaceArgs[0], replaceArgs[1]
			}

			return ctx.withProject(cmd.Context(), func(project resolve.Project) error {
				pool, err := project.MediaPool(cmd.Context())
				if err != nil {
					return err
				}
				entries, err := mediapool.WalkClips(cmd.Context(), pool)
				if err != nil {
					return err
				}

				clipEntries := make([]rename.ClipEntry, len(entries))
				for i, entry := range entries {
					clipEntries[i] = rename.ClipEntry{Clip: entry.Clip, Folder: entry.Path}
				}

				plan, err := rename.BuildPlan(cmd.Context(), clipEntries, rule)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				for _, change := range plan.Changes {
					fmt.Fprintf(out, "%s: %s -> %s\n", change.Folder, change.OldName, change.NewName)
				}
				for _, skipped := range plan.Skipped {
					fmt.Fprintf(out, "skipped %s (missing metadata)\n", skipped)
				}
				if len(plan.Changes) == 0 {
					fmt.Fprintln(out, "Nothing to rename")
					return nil
				}
				if dryRun {
					fmt.Fprintf(out, "Dry run: %s would be renamed\n", plural(len(plan.Changes), "clip"))
					return nil
				}

				done, err := plan.Apply(cmd.Context())
				if err != nil {
					return fmt.Errorf("%s renamed before failure: %w", plural(done, "clip"), err)
				}
				fmt.Fprintf(out, "Renamed %s\n", plural(done, "clip"))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&rule.Prefix, "prefix", "", "Prepend text to every clip name")
	cmd.Flags().StringVar(&rule.Suffix, "suffix", "", "Append text before the extension")
	cmd.Flags().StringSliceVar(&replaceArgs, "replace", nil, "Regex rename: pattern,template")
	cmd.Flags().StringVar(&rule.SequenceTemplate, "sequential", "", "Sequential template containing {n}")
	cmd.Flags().IntVar(&rule.Start, "start", 1, "First number for --sequential")
	cmd.Flags().IntVar(&rule.Digits, "digits", 3, "Zero padding for --sequential")
	cmd.Flags().StringVar(&rule.MetadataTemplate, "from-metadata", "", "Template with {FieldName} metadata placeholders")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the plan without renaming")
	return cmd
}

func newClipsColorCommand(ctx *commandContext) *cobra.Command {
	colorCmd := &cobra.Command{
		Use:   "color",
		Short: "Manage clip colors on the timeline",
	}
	colorCmd.AddCommand(newClipsColorStatsCommand(ctx))
	colorCmd.AddCommand(newClipsColorListCommand())
	colorCmd.AddCommand(newClipsColorSetCommand(ctx))
	colorCmd.AddCommand(newClipsColorClearCommand(ctx))
	return colorCmd
}

func newClipsColorStatsCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Count timeline clips by clip color",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withTimeline(cmd.Context(), func(_ resolve.Project, timeline resolve.Timeline) error {
				items, err := resolve.SelectItems(cmd.Context(), timeline, resolve.Selector{All: true})
				if err != nil {
					return err
				}

				counts := make(map[string]int)
				uncolored := 0
				for _, item := range items {
					color, err := item.ClipColor(cmd.Context())
					if err != nil {
						return err
					}
					if color == "" {
						uncolored++
						continue
					}
					counts[color]++
				}

				if asJSON {
					return writeJSON(cmd, map[string]any{
						"total":     len(items),
						"by_color":  counts,
						"uncolored": uncolored,
					})
				}

				colors := make([]string, 0, len(counts))
				for color := range counts {
					colors = append(colors, color)
				}
				sort.Strings(colors)

				rows := make([][]string, 0, len(colors)+1)
				for _, color := range colors {
					rows = append(rows, []string{color, strconv.Itoa(counts[color])})
				}
				if uncolored > 0 {
					rows = append(rows, []string{"(none)", strconv.Itoa(uncolored)})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Color", "Clips"},
					rows,
					[]columnAlignment{alignLeft, alignRight},
				))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	return cmd
}

func newClipsColorListCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "list",
		Short:       "List the clip colors the host accepts",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, color := range resolve.ClipColors {
				fmt.Fprintln(cmd.OutOrStdout(), color)
			}
			return nil
		},
	}
}

func newClipsColorSetCommand(ctx *commandContext) *cobra.Command {
	var targets targetFlags

	cmd := &cobra.Command{
		Use:   "set COLOR",
		Short: "Set the clip color on the targeted clips",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			color, ok := resolve.CanonicalClipColor(args[0])
			if !ok {
				return fmt.Errorf("unknown clip color %q (see `gradectl clips color list`)", args[0])
			}
			return ctx.withTimeline(cmd.Context(), func(_ resolve.Project, timeline resolve.Timeline) error {
				items, err := targets.selectTargets(cmd.Context(), timeline)
				if err != nil {
					return err
				}
				for _, item := range items {
					if err := item.SetClipColor(cmd.Context(), color); err != nil {
						name, _ := item.Name(cmd.Context())
						return fmt.Errorf("set color on %q: %w", name, err)
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Set %s on %s\n", color, plural(len(items), "clip"))
				return nil
			})
		},
	}

	targets.register(cmd)
	return cmd
}

func newClipsColorClearCommand(ctx *commandContext) *cobra.Command {
	var targets targetFlags

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear the clip color on the targeted clips",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withTimeline(cmd.Context(), func(_ resolve.Project, timeline resolve.Timeline) error {
				items, err := targets.selectTargets(cmd.Context(), timeline)
				if err != nil {
					return err
				}
				for _, item := range items {
					if err := item.ClearClipColor(cmd.Context()); err != nil {
						name, _ := item.Name(cmd.Context())
						return fmt.Errorf("clear color on %q: %w", name, err)
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared color on %s\n", plural(len(items), "clip"))
				return nil
			})
		},
	}

	targets.register(cmd)
	return cmd
}
