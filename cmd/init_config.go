package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teemow/ticktoday/internal/config"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create an example configuration file",
		Long: `Create an example ~/.ticktick.toml for you to fill in with the
client_id and client_secret from the TickTick Developer Center.
Refuses to overwrite an existing file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.WriteExample()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created example configuration file at %s\n", path)
			fmt.Fprintln(cmd.OutOrStdout(), "Edit it with your TickTick API credentials, then run `ticktoday`.")
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "ticktoday version %s\n", version)
		},
	}
}
