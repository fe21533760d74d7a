package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"gradectl/internal/cdl"
	"gradectl/internal/grades"
	"gradectl/internal/looks"
	"gradectl/internal/resolve"
)

func newLookCommand(ctx *commandContext) *cobra.Command {
	lookCmd := &cobra.Command{
		Use:   "look",
		Short: "Manage the local look library",
	}
	lookCmd.AddCommand(newLookListCommand(ctx))
	lookCmd.AddCommand(newLookShowCommand(ctx))
	lookCmd.AddCommand(newLookApplyCommand(ctx))
	lookCmd.AddCommand(newLookSaveCommand(ctx))
	lookCmd.AddCommand(newLookDeleteCommand(ctx))
	return lookCmd
}

func (c *commandContext) withLookStore(fn func(*looks.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := looks.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func newLookListCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List looks in the library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLookStore(func(store *looks.Store) error {
				all, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, all)
				}

				rows := make([][]string, 0, len(all))
				for _, look := range all {
					rows = append(rows, []string{
						look.Name,
						yesNo(look.Builtin),
						strconv.FormatFloat(look.Correction.Saturation, 'f', 3, 64),
						look.Description,
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Name", "Builtin", "Saturation", "Description"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	return cmd
}

func newLookShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show NAME",
		Short: "Show one look's CDL values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLookStore(func(store *looks.Store) error {
				look, err := store.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, look)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s (builtin: %s)\n", look.Name, yesNo(look.Builtin))
				if look.Description != "" {
					fmt.Fprintln(out, look.Description)
				}
				c := look.Correction
				fmt.Fprintf(out, "Slope:      %.4f %.4f %.4f\n", c.Slope[0], c.Slope[1], c.Slope[2])
				fmt.Fprintf(out, "Offset:     %.4f %.4f %.4f\n", c.Offset[0], c.Offset[1], c.Offset[2])
				fmt.Fprintf(out, "Power:      %.4f %.4f %.4f\n", c.Power[0], c.Power[1], c.Power[2])
				fmt.Fprintf(out, "Saturation: %.4f\n", c.Saturation)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of text")
	return cmd
}

func newLookApplyCommand(ctx *commandContext) *cobra.Command {
	var targets targetFlags
	var node int

	cmd := &cobra.Command{
		Use:   "apply NAME",
		Short: "Apply a look's CDL to the targeted clips",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLookStore(func(store *looks.Store) error {
				look, err := store.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return ctx.withTimeline(cmd.Context(), func(_ resolve.Project, timeline resolve.Timeline) error {
					items, err := targets.selectTargets(cmd.Context(), timeline)
					if err != nil {
						return err
					}
					applied, err := grades.ApplyCDL(cmd.Context(), items, node, look.Correction)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Applied %q to %s (node %d)\n", look.Name, plural(applied, "clip"), node)
					return nil
				})
			})
		},
	}

	targets.register(cmd)
	cmd.Flags().IntVar(&node, "node", 1, "1-based node to write the CDL to")
	return cmd
}

func newLookSaveCommand(ctx *commandContext) *cobra.Command {
	var description string
	var slope, offset, power []float64
	var saturation float64
	var fromClip string
	var node int

	cmd := &cobra.Command{
		Use:   "save NAME",
		Short: "Save a look from explicit CDL values or from a clip's node",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			correction := cdl.Identity()
			correction.Saturation = saturation

			if fromClip != "" {
				err := ctx.withTimeline(cmd.Context(), func(_ resolve.Project, timeline resolve.Timeline) error {
					item, err := resolve.FindItemByName(cmd.Context(), timeline, fromClip)
					if err != nil {
						return err
					}
					correction, err = item.NodeColorData(cmd.Context(), node)
					return err
				})
				if err != nil {
					return err
				}
			} else {
				if err := assignTriple(&correction.Slope, slope, "slope"); err != nil {
					return err
				}
				if err := assignTriple(&correction.Offset, offset, "offset"); err != nil {
					return err
				}
				if err := assignTriple(&correction.Power, power, "power"); err != nil {
					return err
				}
			}

			return ctx.withLookStore(func(store *looks.Store) error {
				saved, err := store.Save(cmd.Context(), looks.Look{
					Name:        args[0],
					Description: description,
					Correction:  correction,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saved look %q (%s)\n", saved.Name, saved.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "Free-form description")
	cmd.Flags().Float64SliceVar(&slope, "slope", nil, "Slope as r,g,b")
	cmd.Flags().Float64SliceVar(&offset, "offset", nil, "Offset as r,g,b")
	cmd.Flags().Float64SliceVar(&power, "power", nil, "Power as r,g,b")
	cmd.Flags().Float64Var(&saturation, "saturation", 1, "Saturation")
	cmd.Flags().StringVar(&fromClip, "from-clip", "", "Read the CDL from this timeline clip instead")
	cmd.Flags().IntVar(&node, "node", 1, "Node to read when using --from-clip")
	return cmd
}

func assignTriple(dst *[3]float64, values []float64, name string) error {
	if values == nil {
		return nil
	}
	if len(values) != 3 {
		return fmt.Errorf("--%s needs exactly three values, got %d", name, len(values))
	}
	copy(dst[:], values)
	return nil
}

func newLookDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a user look",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLookStore(func(store *looks.Store) error {
				if err := store.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted look %q\n", args[0])
				return nil
			})
		},
	}
}
