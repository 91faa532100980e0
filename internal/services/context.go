package services

import (
	"context"

	"call-directory/pkg/logger"
)

// WithCallerContext stamps the authenticated caller identity onto the
// request context. Handlers read it back to attribute call creation.
func WithCallerContext(ctx context.Context, callerID string) context.Context {
	return context.WithValue(ctx, logger.CallerIdKey, callerID)
}

func CallerFromContext(ctx context.Context) (string, bool) {
	callerID, ok := ctx.Value(logger.CallerIdKey).(string)
	return callerID, ok
}
