package middleware

import (
	"context"
	"time"

	"github.com/pulselab/backend/pkg/router"
	"github.com/pulselab/backend/pkg/xcontext"
)

func Logger() router.CloserFunc {
	return func(ctx context.Context) {
		r := xcontext.HTTPRequest(ctx)
		if r == nil {
			return
		}

		elapsed := time.Since(xcontext.StartTime(ctx))
		if err := xcontext.Error(ctx); err != nil {
			xcontext.Logger(ctx).Infof("%s %s (%s): %v", r.Method, r.URL.Path, elapsed, err)
		} else {
			xcontext.Logger(ctx).Infof("%s %s (%s)", r.Method, r.URL.Path, elapsed)
		}
	}
}
