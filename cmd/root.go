package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the ticktoday application
var rootCmd = &cobra.Command{
	Use:   "ticktoday",
	Short: "Shows your TickTick tasks that are due today",
	Long: `ticktoday authenticates against the TickTick Open API using the OAuth2
authorization-code flow (capturing the browser redirect on a local
callback port), collects the tasks of all your projects and prints the
ones due today.

Credentials come from ~/.ticktick.toml or from the TICKTICK_CLIENT_ID,
TICKTICK_CLIENT_SECRET, TICKTICK_REDIRECT_URI and TICKTICK_ACCESS_TOKEN
environment variables.`,
	SilenceUsage: true,
}

var verbose bool

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "ticktoday version %s\n" .Version}}`)

	// If no subcommand is provided, run the today command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "today")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		})))
	}

	rootCmd.AddCommand(newTodayCmd())
	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newVersionCmd())
}
