package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"gradectl/internal/mediapool"
	"gradectl/internal/resolve"
)

func newPoolCommand(ctx *commandContext) *cobra.Command {
	poolCmd := &cobra.Command{
		Use:   "pool",
		Short: "Inspect and organize the media pool",
	}
	poolCmd.AddCommand(newPoolStatsCommand(ctx))
	poolCmd.AddCommand(newPoolTreeCommand(ctx))
	poolCmd.AddCommand(newPoolSearchCommand(ctx))
	poolCmd.AddCommand(newPoolOrganizeCommand(ctx))
	poolCmd.AddCommand(newPoolPruneEmptyCommand(ctx))
	return poolCmd
}

func (c *commandContext) withPool(cmd *cobra.Command, fn func(resolve.MediaPool) error) error {
	return c.withProject(cmd.Context(), func(project resolve.Project) error {
		pool, err := project.MediaPool(cmd.Context())
		if err != nil {
			return err
		}
		return fn(pool)
	})
}

func newPoolStatsCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize media pool contents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withPool(cmd, func(pool resolve.MediaPool) error {
				stats, err := mediapool.CollectStats(cmd.Context(), pool)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, stats)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Clips: %d  Bins: %d\n", stats.TotalClips, stats.TotalBins)
				fmt.Fprintln(out, countTable("Resolution", stats.ByResolution))
				fmt.Fprintln(out, countTable("Codec", stats.ByCodec))
				if len(stats.EmptyBins) > 0 {
					fmt.Fprintf(out, "Empty bins: %s\n", strings.Join(stats.EmptyBins, ", "))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of tables")
	return cmd
}

func countTable(label string, counts map[string]int) string {
	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	rows := make([][]string, 0, len(keys))
	for _, key := range keys {
		rows = append(rows, []string{key, strconv.Itoa(counts[key])})
	}
	return renderTable([]string{label, "Clips"}, rows, []columnAlignment{alignLeft, alignRight})
}

func newPoolTreeCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the bin hierarchy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withPool(cmd, func(pool resolve.MediaPool) error {
				tree, err := mediapool.BuildTree(cmd.Context(), pool)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, tree)
				}
				printTree(cmd, tree, 0)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of text")
	return cmd
}

func printTree(cmd *cobra.Command, node *mediapool.TreeNode, depth int) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s%s (%s)\n",
		strings.Repeat("  ", depth), node.Name, plural(node.ClipCount, "clip"))
	for i := range node.Children {
		printTree(cmd, &node.Children[i], depth+1)
	}
}

func newPoolSearchCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search QUERY",
		Short: "Find clips by name or file path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withPool(cmd, func(pool resolve.MediaPool) error {
				matches, err := mediapool.Search(cmd.Context(), pool, args[0])
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if len(matches) == 0 {
					fmt.Fprintln(out, "No clips matched")
					return nil
				}
				rows := make([][]string, 0, len(matches))
				for _, match := range matches {
					name, err := match.Clip.Name(cmd.Context())
					if err != nil {
						return err
					}
					rows = append(rows, []string{name, match.Path})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Clip", "Bin"},
					rows,
					[]columnAlignment{alignLeft, alignLeft},
				))
				return nil
			})
		},
	}
	return cmd
}

func newPoolOrganizeCommand(ctx *commandContext) *cobra.Command {
	var by string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "organize",
		Short: "Move clips into bins grouped by a clip property",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := mediapool.ParseGroupKey(by)
			if err != nil {
				return err
			}
			return ctx.withPool(cmd, func(pool resolve.MediaPool) error {
				result, err := mediapool.Organize(cmd.Context(), pool, key, dryRun)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				bins := make([]string, 0, len(result.ByBin))
				for bin := range result.ByBin {
					bins = append(bins, bin)
				}
				sort.Strings(bins)
				for _, bin := range bins {
					fmt.Fprintf(out, "%s: %s\n", bin, plural(result.ByBin[bin], "clip"))
				}
				if dryRun {
					fmt.Fprintln(out, "Dry run: nothing moved")
				} else {
					fmt.Fprintf(out, "Organized %s into %s\n", plural(len(result.Moves), "clip"), plural(len(bins), "bin"))
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&by, "by", "", "Grouping key: resolution, codec, date, or camera")
	_ = cmd.MarkFlagRequired("by")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the grouping without moving clips")
	return cmd
}

func newPoolPruneEmptyCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "prune-empty",
		Short: "Delete bins with no clips and no subfolders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withPool(cmd, func(pool resolve.MediaPool) error {
				removed, err := mediapool.PruneEmpty(cmd.Context(), pool, dryRun)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				for _, path := range removed {
					fmt.Fprintln(out, path)
				}
				if dryRun {
					fmt.Fprintf(out, "Dry run: %s would be removed\n", plural(len(removed), "bin"))
				} else {
					fmt.Fprintf(out, "Removed %s\n", plural(len(removed), "bin"))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report empty bins without deleting them")
	return cmd
}
