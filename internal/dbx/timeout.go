package dbx

import (
	"context"
	"time"
)

// WithTimeout bounds a single storage call. A non-positive d leaves ctx
// untouched and returns a no-op cancel func.
func WithTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}
