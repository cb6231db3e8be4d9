package httpapi

import (
	"context"
	"net/http"
)

// shutdownCtx is canceled when the daemon begins shutdown so in-flight jobs
// stop instead of outliving the server. Defaults to Background.
var shutdownCtx = context.Background()

// SetBaseContext installs the process lifetime context consulted by job
// handlers. Passing nil restores the default.
func SetBaseContext(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	shutdownCtx = ctx
}

// jobContext derives the context a job runs under: done when the request is
// abandoned, the daemon is shutting down, or the returned cancel runs.
func jobContext(r *http.Request) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		defer cancel()
		select {
		case <-r.Context().Done():
		case <-shutdownCtx.Done():
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}
