package mid

import (
	"context"
	"net/http"
	"time"

	"github.com/ardanlabs/chatchain/foundation/web"
)

// Timeout bounds the time a handler may spend, which for the ledger is the
// time spent sealing blocks. A zero duration leaves the context alone.
func Timeout(d time.Duration) web.Middleware {

	// This is the actual middleware function to be executed.
	m := func(handler web.Handler) web.Handler {

		// Create the handler that will be attached in the middleware chain.
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			if d <= 0 {
				return handler(ctx, w, r)
			}

			ctx, cancel := context.WithTimeout(ctx, d)
			defer cancel()

			return handler(ctx, w, r)
		}

		return h
	}

	return m
}
