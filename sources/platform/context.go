package platform

import (
	"context"
)

var defaultTimeout = GetAsDuration("CONTEXT_TIMEOUT", "15s")

// ContextTimeout bounds a single remote call; the batch itself has no deadline.
func ContextTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, defaultTimeout)
}
