// Package logging provides structured logging utilities for ticktoday.
//
// This package centralizes logging patterns to ensure consistent,
// structured logging throughout the codebase using the standard
// library's slog package.
//
// Create a logger with standard attributes:
//
//	logger := logging.WithService(slog.Default(), "ticktick")
//	logger.Info("projects fetched",
//	    logging.Status(logging.StatusSuccess))
//
// Sanitize sensitive data before logging:
//
//	logger.Debug("token received", "token", logging.SanitizeToken(tok))
//
// Access tokens are never logged directly; SanitizeToken only reveals
// the token length.
package logging
