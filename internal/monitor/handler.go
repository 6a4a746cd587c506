package monitor

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Alex-byteai/bola-security-demo/internal/securitylog"
	"github.com/Alex-byteai/bola-security-demo/pkg/platform/httputil"
)

const defaultLogTail = 200

type protectedEndpoint struct {
	Method     string `json:"method"`
	Path       string `json:"path"`
	Protection string `json:"protection"`
}

var protectedEndpoints = []protectedEndpoint{
	{"GET", "/api/orders/{id}", "Ownership Validation"},
	{"PUT", "/api/orders/{id}", "Ownership Validation"},
	{"DELETE", "/api/orders/{id}", "Ownership Validation"},
	{"GET", "/api/users/{id}", "Self Access Only"},
	{"PUT", "/api/users/{id}", "Self/Admin Only"},
	{"DELETE", "/api/users/{id}", "Admin Only"},
	{"GET", "/api/users", "Admin Only + Pagination"},
	{"GET", "/api/payments/{id}", "Ownership + Data Masking"},
	{"GET", "/api/payments", "User Scope Only"},
	{"POST", "/api/payments", "Ownership Validation"},
}

// Handler serves the dashboard's REST surface: recent logs, aggregate stats
// and static service info. The live feed is served separately over
// WebSocket.
type Handler struct {
	aggregator *Aggregator
	logPath    string
}

func NewHandler(aggregator *Aggregator, logPath string) *Handler {
	return &Handler{aggregator: aggregator, logPath: logPath}
}

// Register mounts the admin-gated endpoints.
func (h *Handler) Register(r chi.Router) {
	r.Get("/logs", h.logs)
	r.Get("/stats", h.stats)
}

// RegisterPublic mounts the unauthenticated service description.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Get("/info", h.info)
}

func (h *Handler) logs(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 1000 {
		limit = defaultLogTail
	}

	events, err := securitylog.ReadRecent(h.logPath, limit)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if events == nil {
		events = []securitylog.Event{}
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"count":   len(events),
		"logs":    events,
	})
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	bySource, byCategory := h.aggregator.Snapshot()

	categories := make(map[string]any, len(byCategory))
	for category, n := range byCategory {
		categories[string(category)] = map[string]any{
			"label": category.Label(),
			"count": n,
		}
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"success":            true,
		"sources":            bySource,
		"categories":         categories,
		"protectedEndpoints": protectedEndpoints,
	})
}

func (h *Handler) info(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"service": "security-monitor",
		"sources": []string{"secure", "vulnerable"},
		"endpoints": map[string]string{
			"logs":   "/api/security/logs",
			"stats":  "/api/security/stats",
			"stream": "/ws",
		},
	})
}
