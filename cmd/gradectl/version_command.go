package main

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"

	"gradectl/internal/resolve"
)

func newVersionCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print the CLI and host versions",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "gradectl %s\n", buildVersion())

			// Host version is best effort; the CLI version still prints when
			// the bridge is down.
			err := ctx.withHost(func(host resolve.Host) error {
				version, err := host.Version(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "host %s\n", version)
				return nil
			})
			if err != nil {
				fmt.Fprintf(out, "host unavailable: %v\n", err)
			}
			return nil
		},
	}
}

func buildVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok || info.Main.Version == "" {
		return "(devel)"
	}
	return info.Main.Version
}
