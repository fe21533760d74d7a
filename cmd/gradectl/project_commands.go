package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"gradectl/internal/backup"
	"gradectl/internal/resolve"
)

func newProjectCommand(ctx *commandContext) *cobra.Command {
	projectCmd := &cobra.Command{
		Use:   "project",
		Short: "Back up, restore, and set up projects",
	}
	projectCmd.AddCommand(newProjectBackupCommand(ctx))
	projectCmd.AddCommand(newProjectBackupsCommand(ctx))
	projectCmd.AddCommand(newProjectPruneCommand(ctx))
	projectCmd.AddCommand(newProjectRestoreCommand(ctx))
	projectCmd.AddCommand(newProjectSetupCommand(ctx))
	return projectCmd
}

func newProjectBackupCommand(ctx *commandContext) *cobra.Command {
	var note string

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export the current project to a timestamped .drp archive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return ctx.withHost(func(host resolve.Host) error {
				entry, err := backup.Backup(cmd.Context(), host, cfg.Paths.BackupDir, note)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Backed up %q to %s (%s)\n",
					entry.Project, entry.Path, formatSize(entry.SizeBytes))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&note, "note", "", "Short note appended to the archive name")
	return cmd
}

func newProjectBackupsCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "backups",
		Short: "List backup archives, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			entries, err := backup.List(cfg.Paths.BackupDir)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, entries)
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No backups found")
				return nil
			}
			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				rows = append(rows, []string{
					entry.Project,
					entry.Timestamp.Format("2006-01-02 15:04:05"),
					entry.Note,
					formatSize(entry.SizeBytes),
					entry.Path,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Project", "Created", "Note", "Size", "Path"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	return cmd
}

func newProjectPruneCommand(ctx *commandContext) *cobra.Command {
	var keep int
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete all but the newest backups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			victims, err := backup.Prune(cfg.Paths.BackupDir, keep, dryRun)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(victims) == 0 {
				fmt.Fprintf(out, "Nothing to prune (%d or fewer backups)\n", keep)
				return nil
			}
			for _, victim := range victims {
				if dryRun {
					fmt.Fprintf(out, "would remove %s\n", victim.Path)
				} else {
					fmt.Fprintf(out, "removed %s\n", victim.Path)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&keep, "keep", 5, "Number of newest backups to keep")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report what would be removed without deleting")
	return cmd
}

func newProjectRestoreCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "restore FILE",
		Short: "Import a .drp archive back into the project database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withHost(func(host resolve.Host) error {
				if err := backup.Restore(cmd.Context(), host, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Restored %s\n", args[0])
				return nil
			})
		},
	}
}

func newProjectSetupCommand(ctx *commandContext) *cobra.Command {
	var colorScience, timelineColorspace string

	cmd := &cobra.Command{
		Use:   "setup NAME",
		Short: "Create a project with color management preconfigured",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withHost(func(host resolve.Host) error {
				project, err := host.CreateProject(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Created project %q\n", args[0])
				if err := project.SetSetting(cmd.Context(), "colorScienceMode", colorScience); err != nil {
					return fmt.Errorf("set color science: %w", err)
				}
				fmt.Fprintf(out, "Color science: %s\n", colorScience)
				if err := project.SetSetting(cmd.Context(), "timelineColorSpaceTag", timelineColorspace); err != nil {
					return fmt.Errorf("set timeline color space: %w", err)
				}
				fmt.Fprintf(out, "Timeline color space: %s\n", timelineColorspace)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&colorScience, "color-science", "davinciYRGBColorManaged", "Project color science mode")
	cmd.Flags().StringVar(&timelineColorspace, "timeline-colorspace", "Rec.709-A", "Timeline color space tag")
	return cmd
}

func formatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return strconv.FormatInt(bytes, 10) + " B"
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
