package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Alex-byteai/bola-security-demo/internal/monitor"
	platformmetrics "github.com/Alex-byteai/bola-security-demo/internal/platform/metrics"
	"github.com/Alex-byteai/bola-security-demo/internal/securitylog"
	"github.com/Alex-byteai/bola-security-demo/internal/stream"
	"github.com/Alex-byteai/bola-security-demo/pkg/platform/httputil"
	adminmw "github.com/Alex-byteai/bola-security-demo/pkg/platform/middleware/admin"
	authmw "github.com/Alex-byteai/bola-security-demo/pkg/platform/middleware/auth"
	requestmw "github.com/Alex-byteai/bola-security-demo/pkg/platform/middleware/request"
)

// MonitorDeps carries the monitoring listener's dependencies. The log tail
// and stats endpoints require an admin token; the live WebSocket feed and
// the service info stay open like the original dashboard expects.
type MonitorDeps struct {
	Logger  *slog.Logger
	Emitter *securitylog.Emitter
	Metrics *platformmetrics.Metrics

	TokenValidator authmw.TokenValidator
	RoleAuthorizer adminmw.RoleAuthorizer

	Monitor *monitor.Handler
	Stream  *stream.Handler
}

// NewMonitorRouter builds the monitoring listener.
func NewMonitorRouter(deps MonitorDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(requestmw.Middleware)
	r.Use(deps.Metrics.Middleware("monitor"))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	deps.Stream.Register(r)

	r.Route("/api/security", func(r chi.Router) {
		deps.Monitor.RegisterPublic(r)

		r.Group(func(r chi.Router) {
			r.Use(authmw.RequireAuth(deps.TokenValidator, deps.Logger))
			r.Use(adminmw.RequireAdmin(deps.RoleAuthorizer, deps.Emitter))
			deps.Monitor.Register(r)
		})
	})

	return r
}
