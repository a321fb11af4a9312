package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is overridden at build time via -ldflags "-X .../cmd.Version=...".
var Version = "dev"

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the CLI version",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := options()
			if err != nil {
				return err
			}

			payload := map[string]interface{}{
				"version": Version,
			}

			if opts.JSONOutput {
				return respond(cmd, opts, true, "version", payload)
			}

			fmt.Fprintln(cmd.OutOrStdout(), Version)
			return nil
		},
	}
}
