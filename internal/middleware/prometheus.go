package middleware

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/pulselab/backend/internal/common"
	"github.com/pulselab/backend/pkg/errorx"
	"github.com/pulselab/backend/pkg/router"
	"github.com/pulselab/backend/pkg/xcontext"
)

func Prometheus() router.CloserFunc {
	return func(ctx context.Context) {
		r := xcontext.HTTPRequest(ctx)
		if r == nil {
			return
		}

		code := "0"
		if err := xcontext.Error(ctx); err != nil {
			errx := errorx.Error{}
			if errors.As(err, &errx) {
				code = strconv.Itoa(int(errx.Code))
			} else {
				code = strconv.Itoa(int(errorx.Unknown.Code))
			}
		}

		elapsed := time.Since(xcontext.StartTime(ctx))
		common.PromCounters[common.HTTPRequestTotal].
			WithLabelValues(r.URL.Path, code).Inc()
		common.PromHistograms[common.HTTPRequestDurationSeconds].
			WithLabelValues(r.URL.Path, code).Observe(elapsed.Seconds())
	}
}
