// Package httptransport assembles the HTTP routers. The secure and
// vulnerable APIs share one router builder; the only difference between them
// is the engine and emitter they are wired with.
package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/Alex-byteai/bola-security-demo/internal/auth"
	"github.com/Alex-byteai/bola-security-demo/internal/authz"
	"github.com/Alex-byteai/bola-security-demo/internal/orders"
	"github.com/Alex-byteai/bola-security-demo/internal/payments"
	platformmetrics "github.com/Alex-byteai/bola-security-demo/internal/platform/metrics"
	ratelimitmw "github.com/Alex-byteai/bola-security-demo/internal/ratelimit/middleware"
	"github.com/Alex-byteai/bola-security-demo/internal/securitylog"
	"github.com/Alex-byteai/bola-security-demo/internal/users"
	"github.com/Alex-byteai/bola-security-demo/pkg/platform/httputil"
	adminmw "github.com/Alex-byteai/bola-security-demo/pkg/platform/middleware/admin"
	authmw "github.com/Alex-byteai/bola-security-demo/pkg/platform/middleware/auth"
	requestmw "github.com/Alex-byteai/bola-security-demo/pkg/platform/middleware/request"
)

// APIDeps carries everything one API variant needs. Listener names the
// variant for metrics ("secure" or "vulnerable").
type APIDeps struct {
	Listener string
	Logger   *slog.Logger
	Engine   *authz.Engine
	Emitter  *securitylog.Emitter
	Metrics  *platformmetrics.Metrics

	TokenValidator authmw.TokenValidator

	Auth     *auth.Handler
	Orders   *orders.Handler
	Users    *users.Handler
	Payments *payments.Handler

	// RateLimit is optional; nil disables limiting (demo mode).
	RateLimit *ratelimitmw.Middleware
}

// NewAPIRouter builds the full API for one variant.
func NewAPIRouter(deps APIDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(requestmw.Middleware)
	r.Use(deps.Metrics.Middleware(deps.Listener))

	r.Get("/health", variantHealth(deps.Listener))

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			if deps.RateLimit != nil {
				r.Use(deps.RateLimit.Limit("auth", ratelimitmw.DefaultAuthLimit))
			}
			r.Use(accessLog(deps.Emitter))
			deps.Auth.Register(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(authmw.RequireAuth(deps.TokenValidator, deps.Logger))
			if deps.RateLimit != nil {
				r.Use(deps.RateLimit.Limit("api", ratelimitmw.DefaultAPILimit))
			}
			r.Use(accessLog(deps.Emitter))

			r.Route("/orders", deps.Orders.Register)

			r.Route("/users", func(r chi.Router) {
				deps.Users.Register(r)
				r.Group(func(r chi.Router) {
					r.Use(adminmw.RequireAdmin(deps.Engine, deps.Emitter))
					deps.Users.RegisterAdmin(r)
				})
			})

			r.Route("/payments", func(r chi.Router) {
				deps.Payments.Register(r)
				r.Route("/admin", func(r chi.Router) {
					r.Use(adminmw.RequireAdmin(deps.Engine, deps.Emitter))
					deps.Payments.RegisterAdmin(r)
				})
			})
		})
	})

	return r
}

// variantHealth reports which protections the listener enforces, so probing
// either port tells an operator which variant answered.
func variantHealth(listener string) http.HandlerFunc {
	body := map[string]any{
		"status": listener,
		"protections": []string{
			"ownership validation on orders, users and payments",
			"rate limiting",
			"security event logging",
			"sensitive data masking",
		},
	}
	if listener == "vulnerable" {
		body = map[string]any{
			"status": listener,
			"vulnerabilities": []string{
				"object-level authorization disabled on orders",
				"object-level authorization disabled on users",
				"object-level authorization disabled on payments",
				"sensitive fields served unmasked",
			},
		}
	}
	return func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, body)
	}
}
