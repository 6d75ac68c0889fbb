// Package auth implements the OAuth2 authorization-code flow against
// TickTick with an embedded local callback capture.
//
// A transient HTTP server is bound to the host and port of the
// configured redirect URI and captures the single redirect the
// authorization page issues back to the application, so the user never
// has to copy a code by hand. The flow races the browser redirect
// against a bounded wait; whichever resolves first wins and the
// listener is torn down on every exit path.
//
// The flow is single-shot per process. Tokens are not persisted and
// not refreshed; both are out of scope for this tool.
package auth
