package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"github.com/teemow/ticktoday/internal/auth"
	"github.com/teemow/ticktoday/internal/config"
	"github.com/teemow/ticktoday/internal/display"
	"github.com/teemow/ticktoday/internal/ticktick"
	"github.com/teemow/ticktoday/internal/today"
)

func newTodayCmd() *cobra.Command {
	var authTimeout time.Duration

	cmd := &cobra.Command{
		Use:   "today",
		Short: "Display the TickTick tasks that are due today",
		Long: `Collect the tasks of all your TickTick projects and display the ones
whose due date or start date falls on the current calendar day.

With a pre-existing access token (config file or TICKTICK_ACCESS_TOKEN)
no browser interaction is needed. Otherwise a one-time browser
authorization is performed; the token is kept in memory only.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			httpClient, err := buildHTTPClient(ctx, cmd, cfg, authTimeout)
			if err != nil {
				if hint := authFailureHint(err); hint != "" {
					fmt.Fprintln(cmd.ErrOrStderr(), hint)
				}
				return err
			}

			client := ticktick.NewClient(httpClient)
			aggregator := today.NewAggregator(client)

			result, err := aggregator.Collect(ctx)
			if err != nil {
				if errors.Is(err, ticktick.ErrUnauthorized) {
					fmt.Fprintln(cmd.ErrOrStderr(), "The access token was rejected. It may have expired; run `ticktoday auth` to obtain a new one.")
				}
				return err
			}

			display.NewRenderer(cmd.OutOrStdout()).Render(result)
			return nil
		},
	}

	cmd.Flags().DurationVar(&authTimeout, "auth-timeout", auth.DefaultTimeout, "how long to wait for the browser authorization callback")
	return cmd
}

// buildHTTPClient resolves authentication in precedence order: a
// pre-supplied access token is used as-is (and its expiry surfaces as
// an API error, never a silent re-authorization); otherwise a one-shot
// browser flow is run.
func buildHTTPClient(ctx context.Context, cmd *cobra.Command, cfg *config.Config, timeout time.Duration) (*http.Client, error) {
	if cfg.TickTick.AccessToken != "" {
		return ticktick.NewBearerClient(ctx, cfg.TickTick.AccessToken), nil
	}

	conf := ticktick.OAuthConfig(cfg.TickTick.ClientID, cfg.TickTick.ClientSecret, cfg.TickTick.RedirectURI)
	flow := auth.NewFlow(conf,
		auth.WithTimeout(timeout),
		auth.WithOutput(cmd.OutOrStdout()))

	tok, err := flow.Authorize(ctx)
	if err != nil {
		return nil, err
	}

	fmt.Fprintln(cmd.OutOrStdout())
	fmt.Fprintf(cmd.OutOrStdout(), "Authorized. To skip the browser next time, export %s=%s\n", config.EnvAccessToken, tok.AccessToken)
	fmt.Fprintln(cmd.OutOrStdout())
	return oauth2.NewClient(ctx, oauth2.StaticTokenSource(tok)), nil
}

// authFailureHint maps authorization failures to a user-facing hint.
// Returns the empty string for errors that need no extra context.
func authFailureHint(err error) string {
	var denied *auth.DeniedError
	var exchange *auth.ExchangeError

	switch {
	case errors.Is(err, auth.ErrTimeout):
		return "No authorization callback was received in time. Run the command again and complete the browser authorization."
	case errors.As(err, &denied):
		return "The authorization was not granted. Approve the request in the browser to continue."
	case errors.As(err, &exchange):
		return "The provider rejected the token exchange. Verify client_id, client_secret and the registered redirect URI."
	default:
		return ""
	}
}
