package middleware

import (
	"context"

	"github.com/pulselab/backend/pkg/errorx"
	"github.com/pulselab/backend/pkg/router"
	"github.com/pulselab/backend/pkg/xcontext"
)

// UserIDHeader carries the id the edge gateway authenticated. This service
// trusts it, authentication itself lives outside.
const UserIDHeader = "X-User-Id"

func WithIdentity() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		r := xcontext.HTTPRequest(ctx)
		if r == nil {
			return ctx, nil
		}

		if id := r.Header.Get(UserIDHeader); id != "" {
			ctx = xcontext.WithRequestUserID(ctx, id)
		}

		return ctx, nil
	}
}

// MustIdentity rejects requests the gateway did not attribute to a user.
func MustIdentity() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		if xcontext.RequestUserID(ctx) == "" {
			return ctx, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
		}

		return ctx, nil
	}
}
