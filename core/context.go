package core

import "context"

// Context keys for refresh options
type contextKey string

const suppressHeaderKey contextKey = "suppressHeader"

// WithSuppressHeader marks the context so progress headers are not printed.
// The MCP server and watch mode use it to keep stdout and stderr clean.
func WithSuppressHeader(ctx context.Context) context.Context {
	return context.WithValue(ctx, suppressHeaderKey, true)
}

// shouldSuppressHeader returns whether headers should be suppressed from context
func shouldSuppressHeader(ctx context.Context) bool {
	val := ctx.Value(suppressHeaderKey)
	if val == nil {
		return false // default: show headers
	}
	suppress, ok := val.(bool)
	return ok && suppress
}

const runIDKey contextKey = "runID"

// withRunID attaches the history run ID of the current refresh
func withRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// getRunID returns the history run ID, if the refresh recorded one
func getRunID(ctx context.Context) (string, bool) {
	val, ok := ctx.Value(runIDKey).(string)
	return val, ok && val != ""
}
