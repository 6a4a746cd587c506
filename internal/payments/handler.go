// Package payments serves the payment routes. Bank details stay masked on
// every path out of the API.
package payments

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Alex-byteai/bola-security-demo/internal/authz"
	"github.com/Alex-byteai/bola-security-demo/internal/domain"
	"github.com/Alex-byteai/bola-security-demo/internal/payments/models"
	paymentsstore "github.com/Alex-byteai/bola-security-demo/internal/payments/store"
	"github.com/Alex-byteai/bola-security-demo/internal/securitylog"
	dErrors "github.com/Alex-byteai/bola-security-demo/pkg/domain-errors"
	"github.com/Alex-byteai/bola-security-demo/pkg/platform/httputil"
	"github.com/Alex-byteai/bola-security-demo/pkg/requestcontext"
)

var errNotPermitted = dErrors.New(dErrors.CodeNotFound, "payment not found or not permitted")

// Handler serves the payment routes. Creating a payment requires owning the
// referenced order, so the create path runs an ownership decision against
// the order resource before touching the payment store.
type Handler struct {
	engine  *authz.Engine
	store   paymentsstore.PaymentStore
	emitter *securitylog.Emitter
	logger  *slog.Logger
}

func NewHandler(engine *authz.Engine, store paymentsstore.PaymentStore, emitter *securitylog.Emitter, logger *slog.Logger) *Handler {
	return &Handler{engine: engine, store: store, emitter: emitter, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
}

// RegisterAdmin mounts the cross-user listing. The router wraps this group
// in the admin gate.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Get("/all", h.adminList)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	subject := requestcontext.Subject(ctx)

	id, err := domain.ParseResourceID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	decision, err := h.engine.Authorize(ctx, subject, domain.ResourceRef{Type: domain.ResourcePayment, ID: id})
	if err != nil {
		if dErrors.IsCode(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(ctx, "authorization failed",
				"request_id", requestcontext.RequestID(ctx),
				"payment_id", id,
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	h.emitter.Decision(ctx, decision, securitylog.ActionRead)

	if !decision.Allowed() {
		httputil.WriteError(w, errNotPermitted)
		return
	}

	payment, err := h.store.GetByID(ctx, id)
	if err != nil {
		if dErrors.IsCode(err, dErrors.CodeNotFound) {
			httputil.WriteError(w, errNotPermitted)
			return
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"payment": payment.View(),
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

	views := make([]models.View, 0, len(owned))
	for _, payment := range owned {
		views = append(views, payment.View())
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"count":    len(views),
		"payments": views,
	})
}

type createRequest struct {
	OrderID     int64   `json:"orderId"`
	Amount      float64 `json:"amount"`
	BankAccount string  `json:"bankAccount"`
	Routing     string  `json:"routingNumber"`
}

func (r createRequest) Validate() error {
	if r.OrderID <= 0 {
		return dErrors.New(dErrors.CodeBadRequest, "invalid order id")
	}
	if r.Amount <= 0 {
		return dErrors.New(dErrors.CodeBadRequest, "amount must be positive")
	}
	if len(r.BankAccount) < 4 {
		return dErrors.New(dErrors.CodeBadRequest, "bank account is required")
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

	// Paying for someone else's order is the same class of attack as
	// reading it, so it runs through the engine like any order access.
	decision, err := h.engine.Authorize(ctx, subject, domain.ResourceRef{Type: domain.ResourceOrder, ID: req.OrderID})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.emitter.Decision(ctx, decision, securitylog.ActionRead)
	if !decision.Allowed() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "order not found or not permitted"))
		return
	}

	payment, err := h.store.Create(ctx, models.Payment{
		UserID:        subject.ID,
		OrderID:       req.OrderID,
		Amount:        req.Amount,
		BankAccount:   req.BankAccount,
		RoutingNumber: req.Routing,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.emitter.Emit(ctx, securitylog.Event{
		Key:          "PAYMENT_CREATED",
		Severity:     securitylog.SeverityLow,
		SubjectID:    subject.ID,
		SubjectEmail: subject.Email,
		ResourceType: string(domain.ResourcePayment),
		ResourceID:   strconv.FormatInt(payment.ID, 10),
		Message:      "payment created",
	})

	httputil.WriteJSON(w, http.StatusCreated, map[string]any{
		"success":   true,
		"message":   "payment created",
		"paymentId": payment.ID,
	})
}

func (h *Handler) adminList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	subject := requestcontext.Subject(ctx)

	page, limit := pagination(r)
	all, total, err := h.store.ListAll(ctx, limit, (page-1)*limit)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	views := make([]models.AdminView, 0, len(all))
	for _, payment := range all {
		views = append(views, models.AdminView{View: payment.View(), UserID: payment.UserID})
	}

	h.emitter.Emit(ctx, securitylog.Event{
		Key:          "ADMIN_PAYMENTS_ACCESS",
		Severity:     securitylog.SeverityLow,
		SubjectID:    subject.ID,
		SubjectEmail: subject.Email,
		Message:      "admin listed all payments",
	})

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"count":      len(views),
		"total":      total,
		"page":       page,
		"totalPages": (total + limit - 1) / limit,
		"payments":   views,
	})
}

func pagination(r *http.Request) (page, limit int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return page, limit
}
