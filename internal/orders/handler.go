// Package orders serves the order routes, the primary target of the demo's
// object-level authorization checks.
package orders

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Alex-byteai/bola-security-demo/internal/authz"
	"github.com/Alex-byteai/bola-security-demo/internal/domain"
	"github.com/Alex-byteai/bola-security-demo/internal/orders/models"
	ordersstore "github.com/Alex-byteai/bola-security-demo/internal/orders/store"
	"github.com/Alex-byteai/bola-security-demo/internal/securitylog"
	dErrors "github.com/Alex-byteai/bola-security-demo/pkg/domain-errors"
	"github.com/Alex-byteai/bola-security-demo/pkg/platform/httputil"
	"github.com/Alex-byteai/bola-security-demo/pkg/requestcontext"
)

const maxOrderAmount = 999999

// errNotPermitted is the shared response for denied and absent resources.
// One message, one status; the API never reveals which case occurred.
var errNotPermitted = dErrors.New(dErrors.CodeNotFound, "order not found or not permitted")

// Handler serves the order routes. All routes require an authenticated
// subject in the request context; object-level access goes through the
// authorization engine and every decision that matters is emitted before the
// response is written.
type Handler struct {
	engine  *authz.Engine
	store   ordersstore.OrderStore
	emitter *securitylog.Emitter
	logger  *slog.Logger
}

func NewHandler(engine *authz.Engine, store ordersstore.OrderStore, emitter *securitylog.Emitter, logger *slog.Logger) *Handler {
	return &Handler{engine: engine, store: store, emitter: emitter, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.remove)
}

// authorize parses the id segment and runs the ownership decision. It writes
// the response and emits the event on any non-allow path, returning ok=false.
func (h *Handler) authorize(w http.ResponseWriter, r *http.Request, action securitylog.Action) (domain.Decision, bool) {
	ctx := r.Context()
	subject := requestcontext.Subject(ctx)

	id, err := domain.ParseResourceID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return domain.Decision{}, false
	}

	decision, err := h.engine.Authorize(ctx, subject, domain.ResourceRef{Type: domain.ResourceOrder, ID: id})
	if err != nil {
		if dErrors.IsCode(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(ctx, "authorization failed",
				"request_id", requestcontext.RequestID(ctx),
				"order_id", id,
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return domain.Decision{}, false
	}

	h.emitter.Decision(ctx, decision, action)

	if !decision.Allowed() {
		httputil.WriteError(w, errNotPermitted)
		return decision, false
	}
	return decision, true
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	decision, ok := h.authorize(w, r, securitylog.ActionRead)
	if !ok {
		return
	}

	order, err := h.store.GetByID(r.Context(), decision.Resource.ID)
	if err != nil {
		// Admin reads and unenforced reads reach here for absent orders.
		if dErrors.IsCode(err, dErrors.CodeNotFound) {
			httputil.WriteError(w, errNotPermitted)
			return
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"order":   order.View(),
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	subject := requestcontext.Subject(ctx)

	owned, err := h.store.ListByUser(ctx, subject.ID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	summaries := make([]models.Summary, 0, len(owned))
	for _, order := range owned {
		summaries = append(summaries, order.Summary())
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"count":   len(summaries),
		"orders":  summaries,
	})
}

type createRequest struct {
	Product    string  `json:"product"`
	Amount     float64 `json:"amount"`
	CreditCard string  `json:"creditCard"`
	Address    string  `json:"address"`
	Phone      string  `json:"phone"`
}

func (r createRequest) Validate() error {
	if r.Product == "" {
		return dErrors.New(dErrors.CodeBadRequest, "product is required")
	}
	if r.Amount <= 0 || r.Amount > maxOrderAmount {
		return dErrors.New(dErrors.CodeBadRequest, "amount out of range")
	}
	return nil
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	subject := requestcontext.Subject(ctx)
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[createRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	order, err := h.store.Create(ctx, models.Order{
		UserID:     subject.ID,
		Product:    req.Product,
		Amount:     req.Amount,
		CreditCard: req.CreditCard,
		Address:    req.Address,
		Phone:      req.Phone,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.emitter.Emit(ctx, securitylog.Event{
		Key:          "ORDER_CREATED",
		Severity:     securitylog.SeverityLow,
		SubjectID:    subject.ID,
		SubjectEmail: subject.Email,
		ResourceType: string(domain.ResourceOrder),
		Message:      "order created",
	})

	httputil.WriteJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "order created",
		"orderId": order.ID,
	})
}

type updateRequest struct {
	Status models.Status `json:"status"`
}

func (r updateRequest) Validate() error {
	if !r.Status.Valid() {
		return dErrors.New(dErrors.CodeBadRequest, "invalid status")
	}
	return nil
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[updateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	decision, ok := h.authorize(w, r, securitylog.ActionUpdate)
	if !ok {
		return
	}

	if err := h.store.UpdateStatus(ctx, decision.Resource.ID, req.Status); err != nil {
		if dErrors.IsCode(err, dErrors.CodeNotFound) {
			httputil.WriteError(w, errNotPermitted)
			return
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "order updated",
	})
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	decision, ok := h.authorize(w, r, securitylog.ActionDelete)
	if !ok {
		return
	}

	if err := h.store.Delete(r.Context(), decision.Resource.ID); err != nil {
		if dErrors.IsCode(err, dErrors.CodeNotFound) {
			httputil.WriteError(w, errNotPermitted)
			return
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "order deleted",
	})
}
