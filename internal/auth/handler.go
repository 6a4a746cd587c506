package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Alex-byteai/bola-security-demo/internal/domain"
	dErrors "github.com/Alex-byteai/bola-security-demo/pkg/domain-errors"
	"github.com/Alex-byteai/bola-security-demo/pkg/platform/httputil"
	"github.com/Alex-byteai/bola-security-demo/pkg/requestcontext"
)

// TokenIssuer mints an access token for an authenticated subject.
type TokenIssuer interface {
	Generate(subject domain.Subject) (string, error)
}

// Handler exposes login and registration.
type Handler struct {
	service *Service
	tokens  TokenIssuer
	logger  *slog.Logger
}

func NewHandler(service *Service, tokens TokenIssuer, logger *slog.Logger) *Handler {
	return &Handler{service: service, tokens: tokens, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/login", h.login)
	r.Post("/register", h.register)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r loginRequest) Validate() error {
	if !strings.Contains(r.Email, "@") {
		return dErrors.New(dErrors.CodeBadRequest, "invalid email")
	}
	if r.Password == "" {
		return dErrors.New(dErrors.CodeBadRequest, "password is required")
	}
	return nil
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (r registerRequest) Validate() error {
	if !strings.Contains(r.Email, "@") {
		return dErrors.New(dErrors.CodeBadRequest, "invalid email")
	}
	if len(r.Password) < 6 {
		return dErrors.New(dErrors.CodeBadRequest, "password must be at least 6 characters")
	}
	if strings.TrimSpace(r.Name) == "" {
		return dErrors.New(dErrors.CodeBadRequest, "name is required")
	}
	return nil
}

type loginResponse struct {
	Success bool    `json:"success"`
	Token   string  `json:"token"`
	User    Profile `json:"user"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[loginRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	user, err := h.service.Login(ctx, req.Email, req.Password)
	if err != nil {
		if dErrors.IsCode(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(ctx, "login failed",
				"request_id", requestID,
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	token, err := h.tokens.Generate(user.Subject())
	if err != nil {
		h.logger.ErrorContext(ctx, "token generation failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, dErrors.Wrap(dErrors.CodeInternal, "token generation failed", err))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, loginResponse{
		Success: true,
		Token:   token,
		User:    user.Profile(),
	})
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[registerRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	user, err := h.service.Register(ctx, req.Email, req.Name, req.Password)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "user registered",
		"userId":  user.ID,
	})
}
