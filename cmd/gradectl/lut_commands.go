package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"gradectl/internal/cube"
	"gradectl/internal/grades"
	"gradectl/internal/luts"
	"gradectl/internal/resolve"
)

func newLUTCommand(ctx *commandContext) *cobra.Command {
	lutCmd := &cobra.Command{
		Use:   "lut",
		Short: "Install, apply, and analyze LUTs",
	}
	lutCmd.AddCommand(newLUTInstallCommand(ctx))
	lutCmd.AddCommand(newLUTApplyCommand(ctx))
	lutCmd.AddCommand(newLUTAnalyzeCommand(ctx))
	return lutCmd
}

func newLUTInstallCommand(ctx *commandContext) *cobra.Command {
	var destDir string
	var overwrite bool
	var noRefresh bool

	cmd := &cobra.Command{
		Use:   "install FILES...",
		Short: "Copy LUT files into the host LUT directory",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			dest := destDir
			if dest == "" {
				dest = cfg.Paths.LUTDir
			}

			results, err := luts.Install(args, luts.Options{DestDir: dest, Overwrite: overwrite})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, r := range results {
				switch r.Status {
				case luts.StatusInstalled:
					fmt.Fprintf(out, "installed %s\n", r.Dest)
				case luts.StatusSkipped:
					fmt.Fprintf(out, "skipped %s: %s\n", r.Source, r.Reason)
				case luts.StatusFailed:
					fmt.Fprintf(out, "failed %s: %s\n", r.Source, r.Reason)
				}
			}

			installed := luts.Installed(results)
			fmt.Fprintf(out, "%s installed to %s\n", plural(installed, "LUT"), dest)
			if installed == 0 || noRefresh {
				return nil
			}

			return ctx.withProject(cmd.Context(), func(project resolve.Project) error {
				if err := project.RefreshLUTList(cmd.Context()); err != nil {
					return fmt.Errorf("refresh host LUT list: %w", err)
				}
				fmt.Fprintln(out, "Host LUT list refreshed")
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&destDir, "dest", "", "Destination directory (defaults to the configured LUT directory)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace LUTs that are already installed")
	cmd.Flags().BoolVar(&noRefresh, "no-refresh", false, "Skip refreshing the host LUT list")
	return cmd
}

func newLUTApplyCommand(ctx *commandContext) *cobra.Command {
	var targets targetFlags
	var node int

	cmd := &cobra.Command{
		Use:   "apply PATH",
		Short: "Set a LUT on a node of the targeted clips",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withTimeline(cmd.Context(), func(_ resolve.Project, timeline resolve.Timeline) error {
				items, err := targets.selectTargets(cmd.Context(), timeline)
				if err != nil {
					return err
				}
				applied, err := grades.ApplyLUT(cmd.Context(), items, node, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Applied %s to %s (node %d)\n", args[0], plural(applied, "clip"), node)
				return nil
			})
		},
	}

	targets.register(cmd)
	cmd.Flags().IntVar(&node, "node", 1, "1-based node to set the LUT on")
	return cmd
}

func newLUTAnalyzeCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:         "analyze FILES...",
		Short:       "Analyze .cube LUT files",
		Args:        cobra.MinimumNArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var analyses []cube.Analysis
			for _, path := range args {
				lut, err := cube.Load(path)
				if err != nil {
					return fmt.Errorf("load %q: %w", path, err)
				}
				analyses = append(analyses, lut.Analyze())
			}

			if asJSON {
				return writeJSON(cmd, analyses)
			}

			out := cmd.OutOrStdout()
			for i, analysis := range analyses {
				if i > 0 {
					fmt.Fprintln(out)
				}
				printAnalysis(cmd, args[i], analysis)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	return cmd
}

func printAnalysis(cmd *cobra.Command, path string, a cube.Analysis) {
	out := cmd.OutOrStdout()
	title := a.Title
	if title == "" {
		title = path
	}
	fmt.Fprintf(out, "%s (%dx%dx%d)\n", title, a.Size, a.Size, a.Size)

	rows := make([][]string, 0, len(a.Channels))
	for _, channel := range []string{"R", "G", "B"} {
		stats, ok := a.Channels[channel]
		if !ok {
			continue
		}
		rows = append(rows, []string{
			channel,
			strconv.FormatFloat(stats.MeanShift, 'f', 4, 64),
			strconv.FormatFloat(stats.MinShift, 'f', 4, 64),
			strconv.FormatFloat(stats.MaxShift, 'f', 4, 64),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Channel", "Mean Shift", "Min", "Max"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight},
	))
	fmt.Fprintf(out, "Contrast: %.4f  Saturation change: %.4f  Temperature: %s\n", a.Contrast, a.SaturationChange, a.ColorTemperature)
	fmt.Fprintf(out, "Shadow lift: %.4f  Highlight rolloff: %.4f\n", a.ShadowLift, a.HighlightRoll)
}
