package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pulselab/backend/pkg/errorx"
	"github.com/pulselab/backend/pkg/xcontext"
)

func wrapHandler[Request, Response any](
	r *Router,
	method string,
	handler HandlerFunc[Request, Response],
) gin.HandlerFunc {
	return func(ginCtx *gin.Context) {
		ctx := ginCtx.Request.Context()
		ctx = xcontext.WithConfigs(ctx, r.cfg)
		ctx = xcontext.WithLogger(ctx, r.log)
		ctx = xcontext.WithDB(ctx, r.db)
		ctx = xcontext.WithHTTPRequest(ctx, ginCtx.Request)
		ctx = xcontext.WithHTTPWriter(ctx, ginCtx.Writer)
		ctx = xcontext.WithStartTime(ctx, time.Now())
		ctx = xcontext.WithErrorSlot(ctx)
		ctx = xcontext.WithResponseSlot(ctx)

		defer func() {
			for i := len(r.closer) - 1; i >= 0; i-- {
				r.closer[i](ctx)
			}
		}()

		for _, m := range r.before {
			next, err := m(ctx)
			if err != nil {
				// Keep the incoming context, the middleware may have
				// returned none.
				xcontext.SetError(ctx, err)
				writeResponse(ctx)
				return
			}
			ctx = next
		}

		var req Request
		var err error
		switch method {
		case http.MethodGet:
			err = ginCtx.BindQuery(&req)
		case http.MethodPost:
			err = ginCtx.BindJSON(&req)
		}
		if err != nil {
			xcontext.Logger(ctx).Debugf("Cannot bind the request: %v", err)
			xcontext.SetError(ctx, errorx.New(errorx.BadRequest, "Cannot bind the request"))
			writeResponse(ctx)
			return
		}

		resp, err := handler(ctx, &req)
		if err != nil {
			xcontext.SetError(ctx, err)
		} else {
			xcontext.SetResponse(ctx, resp)
		}

		writeResponse(ctx)
	}
}
