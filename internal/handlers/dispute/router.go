package dispute

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/NoussaierSalaani/smuppy-dispute-service/internal/domain/ports"
	"github.com/NoussaierSalaani/smuppy-dispute-service/internal/middleware"
)

// RouterDeps bundles everything the HTTP surface needs.
type RouterDeps struct {
	Handler      *Handler
	AdminHandler *AdminHandler
	Auth         *middleware.AuthMiddleware
	WriteLimiter *middleware.RateLimiter
	ReadLimiter  *middleware.RateLimiter
	Security     *middleware.SecurityHeaders
	Metrics      func(http.Handler) http.Handler
	Logger       ports.Logger
}

// NewRouter registers all dispute routes behind the middleware chain:
// request id, security headers, logging, metrics, auth, then per-caller
// rate limiting. Mutating routes fail closed on throttling, listings fail
// open.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(deps.Security.Middleware)
	r.Use(middleware.RequestLogger(deps.Logger))
	if deps.Metrics != nil {
		r.Use(deps.Metrics)
	}

	r.Route("/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(deps.Auth.Authenticate)

			r.Group(func(r chi.Router) {
				r.Use(deps.ReadLimiter.Middleware(false))
				r.Get("/disputes", deps.Handler.List)
				r.Get("/disputes/{disputeID}", deps.Handler.Get)
			})

			r.Group(func(r chi.Router) {
				r.Use(deps.WriteLimiter.Middleware(true))
				r.Post("/disputes/{disputeID}/evidence", deps.Handler.SubmitEvidence)
				r.Post("/disputes/{disputeID}/accept", deps.Handler.Accept)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(deps.Auth.RequireAdmin)

				r.Group(func(r chi.Router) {
					r.Use(deps.ReadLimiter.Middleware(false))
					r.Get("/disputes", deps.AdminHandler.List)
				})

				r.Group(func(r chi.Router) {
					r.Use(deps.WriteLimiter.Middleware(true))
					r.Post("/disputes/{disputeID}/resolve", deps.AdminHandler.Resolve)
				})
			})
		})
	})

	return r
}
