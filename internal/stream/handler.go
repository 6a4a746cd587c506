package stream

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/Alex-byteai/bola-security-demo/internal/securitylog"
)

const initialBacklog = 20

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// initialFrame is the first message on every connection: the recent backlog.
type initialFrame struct {
	Type string              `json:"type"`
	Logs []securitylog.Event `json:"logs"`
}

// newFrame carries one live event.
type newFrame struct {
	Type string            `json:"type"`
	Log  securitylog.Event `json:"log"`
}

// Handler serves the live event stream over WebSocket. Every connection
// first receives the last few persisted events, then each new event as it
// lands in the security log.
type Handler struct {
	hub     *Hub
	logPath string
	logger  *slog.Logger
	backlog func(path string, n int) ([]securitylog.Event, error)
}

func NewHandler(hub *Hub, logPath string, logger *slog.Logger) *Handler {
	return &Handler{hub: hub, logPath: logPath, logger: logger, backlog: securitylog.ReadRecent}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/ws", h.serve)
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WarnContext(ctx, "websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	// Subscribe before reading the backlog. An event landing between the
	// two steps then queues on the subscription instead of falling into a
	// gap; a duplicate of a backlog line is acceptable, a lost event is
	// not.
	events, cancel := h.hub.Subscribe()
	defer cancel()

	backlog, err := h.backlog(h.logPath, initialBacklog)
	if err != nil {
		h.logger.WarnContext(ctx, "failed reading log backlog", "error", err)
		backlog = nil
	}
	if backlog == nil {
		backlog = []securitylog.Event{}
	}
	if err := conn.WriteJSON(initialFrame{Type: "initial", Logs: backlog}); err != nil {
		return
	}

	// The read pump exists to notice the peer going away; inbound frames
	// carry no meaning on this endpoint.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			return
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteJSON(newFrame{Type: "new", Log: ev}); err != nil {
				return
			}
		}
	}
}
