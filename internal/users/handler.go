// Package users exposes account records over HTTP. The user resource is
// reflexive: a subject owns exactly the record matching its own id, so the
// ownership decision needs no store lookup.
package users

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Alex-byteai/bola-security-demo/internal/auth"
	authstore "github.com/Alex-byteai/bola-security-demo/internal/auth/store"
	"github.com/Alex-byteai/bola-security-demo/internal/authz"
	"github.com/Alex-byteai/bola-security-demo/internal/domain"
	"github.com/Alex-byteai/bola-security-demo/internal/securitylog"
	dErrors "github.com/Alex-byteai/bola-security-demo/pkg/domain-errors"
	"github.com/Alex-byteai/bola-security-demo/pkg/platform/httputil"
	"github.com/Alex-byteai/bola-security-demo/pkg/requestcontext"
)

var errNotPermitted = dErrors.New(dErrors.CodeNotFound, "user not found or not permitted")

// Handler serves the user routes.
type Handler struct {
	engine  *authz.Engine
	store   authstore.UserStore
	emitter *securitylog.Emitter
	logger  *slog.Logger
}

func NewHandler(engine *authz.Engine, store authstore.UserStore, emitter *securitylog.Emitter, logger *slog.Logger) *Handler {
	return &Handler{engine: engine, store: store, emitter: emitter, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/me/profile", h.profile)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
}

// RegisterAdmin mounts listing and deletion; the router wraps this group in
// the admin gate.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Get("/", h.list)
	r.Delete("/{id}", h.remove)
}

func (h *Handler) authorize(w http.ResponseWriter, r *http.Request, action securitylog.Action) (int64, bool) {
	ctx := r.Context()
	subject := requestcontext.Subject(ctx)

	id, err := domain.ParseResourceID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return 0, false
	}

	decision, err := h.engine.Authorize(ctx, subject, domain.ResourceRef{Type: domain.ResourceUser, ID: id})
	if err != nil {
		httputil.WriteError(w, err)
		return 0, false
	}

	h.emitter.Decision(ctx, decision, action)

	if !decision.Allowed() {
		httputil.WriteError(w, errNotPermitted)
		return 0, false
	}
	return id, true
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.authorize(w, r, securitylog.ActionRead)
	if !ok {
		return
	}
	h.writeProfile(w, r, id)
}

func (h *Handler) profile(w http.ResponseWriter, r *http.Request) {
	subject := requestcontext.Subject(r.Context())
	h.writeProfile(w, r, subject.ID)
}

func (h *Handler) writeProfile(w http.ResponseWriter, r *http.Request, id int64) {
	user, err := h.store.GetByID(r.Context(), id)
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
		"user":    user.Profile(),
	})
}

type updateRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (r updateRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return dErrors.New(dErrors.CodeBadRequest, "name is required")
	}
	if !strings.Contains(r.Email, "@") {
		return dErrors.New(dErrors.CodeBadRequest, "invalid email")
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

	id, ok := h.authorize(w, r, securitylog.ActionUpdate)
	if !ok {
		return
	}

	if err := h.store.Update(ctx, id, req.Name, req.Email); err != nil {
		if dErrors.IsCode(err, dErrors.CodeNotFound) {
			httputil.WriteError(w, errNotPermitted)
			return
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "user updated",
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 100 {
		limit = 10
	}

	users, total, err := h.store.List(ctx, limit, (page-1)*limit)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	profiles := make([]auth.Profile, 0, len(users))
	for _, user := range users {
		profiles = append(profiles, user.Profile())
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"count":      len(profiles),
		"total":      total,
		"page":       page,
		"totalPages": (total + limit - 1) / limit,
		"users":      profiles,
	})
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	subject := requestcontext.Subject(ctx)

	id, err := domain.ParseResourceID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	// Admins cannot delete their own account.
	if id == subject.ID {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "cannot delete own account"))
		return
	}

	if err := h.store.Delete(ctx, id); err != nil {
		if dErrors.IsCode(err, dErrors.CodeNotFound) {
			httputil.WriteError(w, errNotPermitted)
			return
		}
		httputil.WriteError(w, err)
		return
	}

	h.emitter.Emit(ctx, securitylog.Event{
		Key:          "USER_DELETED_BY_ADMIN",
		Severity:     securitylog.SeverityMedium,
		SubjectID:    subject.ID,
		SubjectEmail: subject.Email,
		ResourceType: string(domain.ResourceUser),
		ResourceID:   strconv.FormatInt(id, 10),
		Message:      "user deleted by administrator",
	})

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "user deleted",
	})
}
