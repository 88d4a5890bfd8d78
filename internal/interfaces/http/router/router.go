package router

import (
	"github.com/gin-gonic/gin"
)

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router manages HTTP route registration
type Router struct {
	engine     *gin.Engine
	apiVersion string
	auth       []gin.HandlerFunc
	public     []RouteRegistrar
	protected  []RouteRegistrar
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithAPIVersion sets the API version prefix (e.g., "v1", "v2")
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// WithAuthMiddleware sets the middleware chain protected routes run behind
func WithAuthMiddleware(middleware ...gin.HandlerFunc) RouterOption {
	return func(r *Router) {
		r.auth = middleware
	}
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RegisterPublic adds a registrar whose routes skip the auth chain
func (r *Router) RegisterPublic(registrar RouteRegistrar) *Router {
	r.public = append(r.public, registrar)
	return r
}

// Register adds a registrar whose routes run behind the auth chain
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.protected = append(r.protected, registrar)
	return r
}

// Setup registers all routes with the engine
func (r *Router) Setup() {
	api := r.engine.Group("/api/" + r.apiVersion)

	for _, registrar := range r.public {
		registrar.RegisterRoutes(api)
	}

	protected := api.Group("", r.auth...)
	for _, registrar := range r.protected {
		registrar.RegisterRoutes(protected)
	}
}
