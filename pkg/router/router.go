package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pulselab/backend/config"
	"github.com/pulselab/backend/pkg/logger"
	"gorm.io/gorm"
)

type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// MiddlewareFunc runs before the handler and may derive a new context, e.g.
// to attach the authenticated user id.
type MiddlewareFunc func(ctx context.Context) (context.Context, error)

// CloserFunc runs after the handler regardless of its outcome.
type CloserFunc func(ctx context.Context)

type Router struct {
	engine *gin.Engine
	inner  gin.IRouter

	cfg    config.Configs
	log    logger.Logger
	db     *gorm.DB
	before []MiddlewareFunc
	closer []CloserFunc
}

func New(db *gorm.DB, cfg config.Configs, log logger.Logger) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	return &Router{
		engine: engine,
		inner:  engine,
		cfg:    cfg,
		log:    log,
		db:     db,
	}
}

// Branch returns a router sharing the underlying engine but with an
// independent middleware chain.
func (r *Router) Branch() *Router {
	branch := *r
	branch.before = append([]MiddlewareFunc{}, r.before...)
	branch.closer = append([]CloserFunc{}, r.closer...)
	return &branch
}

func (r *Router) Before(m MiddlewareFunc) {
	r.before = append(r.before, m)
}

func (r *Router) AddCloser(c CloserFunc) {
	r.closer = append(r.closer, c)
}

func (r *Router) Group(pattern string) *Router {
	branch := r.Branch()
	branch.inner = r.inner.Group(pattern)
	return branch
}

func (r *Router) Static(relativePath, root string) {
	r.inner.Static(relativePath, root)
}

// Handle mounts a plain http.Handler, bypassing the middleware chain.
func (r *Router) Handle(pattern string, handler http.Handler) {
	r.inner.GET(pattern, gin.WrapH(handler))
}

func (r *Router) Handler() http.Handler {
	return r.engine
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.inner.GET(pattern, wrapHandler(r, http.MethodGet, handler))
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.inner.POST(pattern, wrapHandler(r, http.MethodPost, handler))
}
