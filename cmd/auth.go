package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/teemow/ticktoday/internal/auth"
	"github.com/teemow/ticktoday/internal/config"
	"github.com/teemow/ticktoday/internal/ticktick"
)

func newAuthCmd() *cobra.Command {
	var authTimeout time.Duration

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Run a browser authorization and print the access token",
		Long: `Run the OAuth2 authorization-code flow against TickTick regardless of
any configured access token, and print the resulting token.

Tokens are not persisted. Export the printed token as
TICKTICK_ACCESS_TOKEN or place it in ~/.ticktick.toml to reuse it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.TickTick.ClientID == "" || cfg.TickTick.ClientSecret == "" {
				return fmt.Errorf("client_id and client_secret are required for authorization: run `ticktoday init` or export %s and %s", config.EnvClientID, config.EnvClientSecret)
			}

			conf := ticktick.OAuthConfig(cfg.TickTick.ClientID, cfg.TickTick.ClientSecret, cfg.TickTick.RedirectURI)
			flow := auth.NewFlow(conf,
				auth.WithTimeout(authTimeout),
				auth.WithOutput(cmd.OutOrStdout()))

			tok, err := flow.Authorize(context.Background())
			if err != nil {
				if hint := authFailureHint(err); hint != "" {
					fmt.Fprintln(cmd.ErrOrStderr(), hint)
				}
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout())
			fmt.Fprintln(cmd.OutOrStdout(), "Authorization successful. Access token:")
			fmt.Fprintln(cmd.OutOrStdout(), tok.AccessToken)
			fmt.Fprintln(cmd.OutOrStdout())
			fmt.Fprintf(cmd.OutOrStdout(), "Export it for later runs: export %s=%s\n", config.EnvAccessToken, tok.AccessToken)
			return nil
		},
	}

	cmd.Flags().DurationVar(&authTimeout, "auth-timeout", auth.DefaultTimeout, "how long to wait for the browser authorization callback")
	return cmd
}
