package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"gradectl/internal/logging"
	"gradectl/internal/renderq"
	"gradectl/internal/resolve"
)

func newRenderCommand(ctx *commandContext) *cobra.Command {
	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "Manage the render queue",
	}
	renderCmd.AddCommand(newRenderStatusCommand(ctx))
	renderCmd.AddCommand(newRenderPresetsCommand())
	renderCmd.AddCommand(newRenderAddCommand(ctx))
	renderCmd.AddCommand(newRenderStartCommand(ctx))
	renderCmd.AddCommand(newRenderClearCompletedCommand(ctx))
	return renderCmd
}

func newRenderStatusCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the render queue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withProject(cmd.Context(), func(project resolve.Project) error {
				jobs, err := project.RenderJobs(cmd.Context())
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, jobs)
				}

				out := cmd.OutOrStdout()
				if len(jobs) == 0 {
					fmt.Fprintln(out, "Render queue is empty")
					return nil
				}
				rows := make([][]string, 0, len(jobs))
				for _, job := range jobs {
					progress := ""
					if job.Status == resolve.JobStatusRendering {
						progress = strconv.Itoa(job.CompletionPercent) + "%"
						if job.TimeRemainingSec > 0 {
							progress += " (" + renderq.FormatTimeRemaining(job.TimeRemainingSec) + " left)"
						}
					}
					rows = append(rows, []string{job.ID, job.Status, job.PresetName, job.TargetDir, progress})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Job", "Status", "Preset", "Output", "Progress"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
				))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	return cmd
}

func newRenderPresetsCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:         "presets",
		Short:       "List the built-in render presets",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			all := renderq.Presets()
			if asJSON {
				return writeJSON(cmd, all)
			}

			rows := make([][]string, 0, len(all))
			for _, preset := range all {
				rows = append(rows, []string{preset.Name, preset.Format, preset.Codec, preset.Description})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Preset", "Format", "Codec", "Description"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	return cmd
}

func newRenderAddCommand(ctx *commandContext) *cobra.Command {
	var preset, output, customName string
	var videoOnly bool

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Queue a render job for the current timeline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if preset == "" {
				preset = cfg.Render.DefaultPreset
			}
			if output == "" {
				output = cfg.Render.OutputDir
			}

			return ctx.withProject(cmd.Context(), func(project resolve.Project) error {
				jobID, err := renderq.Add(cmd.Context(), project, renderq.AddOptions{
					PresetName: preset,
					OutputDir:  output,
					CustomName: customName,
					VideoOnly:  videoOnly,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Queued job %s (%s -> %s)\n", jobID, preset, output)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&preset, "preset", "", "Render preset (defaults to the configured preset)")
	cmd.Flags().StringVar(&output, "output", "", "Output directory (defaults to the configured render dir)")
	cmd.Flags().StringVar(&customName, "name", "", "Custom output name (defaults to the timeline name)")
	cmd.Flags().BoolVar(&videoOnly, "video-only", false, "Skip audio export")
	return cmd
}

func newRenderStartCommand(ctx *commandContext) *cobra.Command {
	var monitor bool

	cmd := &cobra.Command{
		Use:   "start [JOB_IDS...]",
		Short: "Start rendering queued jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			return ctx.withProject(cmd.Context(), func(project resolve.Project) error {
				if err := renderq.Start(cmd.Context(), project, args...); err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, "Rendering started")
				if !monitor {
					return nil
				}

				logger, err := logging.NewFromConfig(cfg)
				if err != nil {
					logger = logging.NewNop()
				}
				m := &renderq.Monitor{
					Project:  project,
					Interval: cfg.Render.PollInterval(),
					LockPath: filepath.Join(cfg.Paths.LogDir, "render-monitor.lock"),
					Logger:   logger,
					OnPoll: func(s renderq.Snapshot) {
						if !s.Rendering {
							return
						}
						for _, job := range s.Jobs {
							if job.Status == resolve.JobStatusRendering {
								fmt.Fprintf(out, "[%s] %s %d%%\n", s.Elapsed.Round(time.Second), job.ID, job.CompletionPercent)
							}
						}
					},
				}
				summary, err := m.Run(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Rendering finished after %s (%d polls)\n", summary.Elapsed.Round(time.Second), summary.Polls)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&monitor, "monitor", false, "Block and poll until rendering finishes")
	return cmd
}

func newRenderClearCompletedCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-completed",
		Short: "Remove finished and cancelled jobs from the queue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withProject(cmd.Context(), func(project resolve.Project) error {
				removed, err := renderq.ClearCompleted(cmd.Context(), project)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", plural(len(removed), "job"))
				return nil
			})
		},
	}
}
