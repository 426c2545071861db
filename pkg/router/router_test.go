package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pulselab/backend/config"
	"github.com/pulselab/backend/pkg/errorx"
	"github.com/pulselab/backend/pkg/logger"
	"github.com/pulselab/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func newTestRouter() *Router {
	return New(nil, config.Configs{}, logger.NewLogger(logger.SILENCE))
}

type emptyRequest struct{}

func Test_Router_MiddlewareError(t *testing.T) {
	r := newTestRouter()
	r.Before(func(ctx context.Context) (context.Context, error) {
		return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
	})

	type emptyResponse struct{}
	POST(r, "/doSomething", func(ctx context.Context, _ *emptyRequest) (*emptyResponse, error) {
		t.Fatal("the handler must not run after a middleware error")
		return nil, nil
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/doSomething", strings.NewReader("{}"))
	r.Handler().ServeHTTP(rec, req)

	// The rejected request still gets the error envelope.
	var body struct {
		Code  int64  `json:"code"`
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.EqualValues(t, errorx.Unauthenticated, body.Code)
	require.Equal(t, "You need to authenticate before", body.Error)
}

func Test_Router_MiddlewareDerivesContext(t *testing.T) {
	r := newTestRouter()
	r.Before(func(ctx context.Context) (context.Context, error) {
		return xcontext.WithRequestUserID(ctx, "user1"), nil
	})

	type whoAmIResponse struct {
		UserID string `json:"user_id"`
	}
	GET(r, "/whoAmI", func(ctx context.Context, _ *emptyRequest) (*whoAmIResponse, error) {
		return &whoAmIResponse{UserID: xcontext.RequestUserID(ctx)}, nil
	})

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/whoAmI", nil))

	var body struct {
		Code int64          `json:"code"`
		Data whoAmIResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.EqualValues(t, 0, body.Code)
	require.Equal(t, "user1", body.Data.UserID)
}
