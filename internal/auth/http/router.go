// Package http is the transport layer: request decoding, boundary
// validation, error mapping and route wiring. All authentication
// decisions live in the service layer.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcitys/mcitys-api/internal/auth/service"
	"github.com/mcitys/mcitys-api/internal/auth/store"
	"github.com/mcitys/mcitys-api/pkg/httpx"
	"github.com/mcitys/mcitys-api/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store store.Store
	cache *redis.Client

	Flow   *service.AuthenticationFlow
	Tokens *service.TokenService
}

func NewRouter(buildVersion string, st store.Store, cache *redis.Client, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		store:        st,
		cache:        cache,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerMFA()
	r.registerSession()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &LoginHandler{Flow: r.Flow}

	// POST /login - strict rate limit (first line against brute force,
	// ahead of the per-IP failure counter)
	r.Mux.Handle("POST /login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		))
}

func (r *Router) registerMFA() {
	h := &MFAHandler{Flow: r.Flow}

	// POST /mfa/send - moderate rate limit (SMS cost control)
	r.Mux.Handle("POST /mfa/send",
		httpx.Chain(http.HandlerFunc(h.HandleSend),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		))

	// POST /mfa/verify - strict rate limit (prevent brute force of codes)
	r.Mux.Handle("POST /mfa/verify",
		httpx.Chain(http.HandlerFunc(h.HandleVerify),
			httpx.RateLimitByIP(httpx.StrictLimit),
		))
}

func (r *Router) registerSession() {
	h := &SessionHandler{Tokens: r.Tokens}

	// POST /logout - no authn requirement, revocation is best effort
	r.Mux.Handle("POST /logout",
		httpx.Chain(http.HandlerFunc(h.HandleLogout),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		))

	// GET /me - requires a live, unrevoked token
	r.Mux.Handle("GET /me",
		httpx.Chain(http.HandlerFunc(h.HandleMe),
			AuthnMiddleware(r.Tokens),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		))
}

func (r *Router) registerSystem() {
	// Health endpoints - lenient limits, monitoring polls frequently
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		))

	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.cache),
			httpx.RateLimitByIP(httpx.LenientLimit),
		))
}
