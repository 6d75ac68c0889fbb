package auth

import (
	"errors"
	"fmt"
)

// ErrTimeout indicates no callback arrived within the configured wait.
// No token exchange has been attempted when this is returned.
var ErrTimeout = errors.New("timed out waiting for the authorization callback")

// DeniedError indicates the user declined authorization, or the
// callback failed the state check. The provider-reported reason is
// surfaced verbatim.
type DeniedError struct {
	Reason string
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("authorization denied: %s", e.Reason)
}

// ExchangeError indicates the provider rejected the token exchange.
// This usually means the client credentials or the redirect URI do not
// match what is registered with the provider.
type ExchangeError struct {
	Err error
}

func (e *ExchangeError) Error() string {
	return fmt.Sprintf("token exchange failed: %v", e.Err)
}

func (e *ExchangeError) Unwrap() error {
	return e.Err
}
