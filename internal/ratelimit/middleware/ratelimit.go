// Package middleware applies the request budgets. The API limit keys on the
// authenticated user when present, falling back to client IP; the auth limit
// always keys on IP because login requests carry no identity yet.
package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Alex-byteai/bola-security-demo/internal/ratelimit/models"
	"github.com/Alex-byteai/bola-security-demo/internal/ratelimit/store/bucket"
	"github.com/Alex-byteai/bola-security-demo/internal/securitylog"
	dErrors "github.com/Alex-byteai/bola-security-demo/pkg/domain-errors"
	"github.com/Alex-byteai/bola-security-demo/pkg/platform/httputil"
	"github.com/Alex-byteai/bola-security-demo/pkg/requestcontext"
)

// Default budgets. The global window is generous; the auth window is tight
// because credential stuffing hits login first.
var (
	DefaultAPILimit  = models.Limit{Requests: 1000, Window: 15 * time.Minute}
	DefaultAuthLimit = models.Limit{Requests: 5, Window: time.Minute}
)

// Middleware enforces sliding-window budgets and records breaches in the
// security log.
type Middleware struct {
	store   bucket.Store
	emitter *securitylog.Emitter
	logger  *slog.Logger
}

func New(store bucket.Store, emitter *securitylog.Emitter, logger *slog.Logger) *Middleware {
	return &Middleware{store: store, emitter: emitter, logger: logger}
}

// Limit returns a handler wrapper enforcing the given budget under the
// given scope name.
func (m *Middleware) Limit(scope string, limit models.Limit) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			key := scope + ":" + m.subjectKey(r)

			result, err := m.store.Allow(ctx, key, limit.Requests, limit.Window)
			if err != nil {
				// Fail open: losing the limiter must not take the API down.
				m.logger.ErrorContext(ctx, "rate limit check failed",
					"request_id", requestcontext.RequestID(ctx),
					"scope", scope,
					"error", err,
				)
				next.ServeHTTP(w, r)
				return
			}

			addHeaders(w, result)

			if !result.Allowed {
				subject := requestcontext.Subject(ctx)
				m.emitter.Emit(ctx, securitylog.Event{
					Key:          "RATE_LIMIT_EXCEEDED",
					Severity:     securitylog.SeverityMedium,
					SubjectID:    subject.ID,
					SubjectEmail: subject.Email,
					Method:       r.Method,
					Resource:     r.URL.Path,
					Message:      "rate limit exceeded for scope " + scope,
				})
				w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(result)))
				httputil.WriteError(w, dErrors.New(dErrors.CodeRateLimited, "too many requests"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// subjectKey prefers the authenticated user; unauthenticated requests share
// a per-IP window. Separators are stripped so attacker-controlled header
// values cannot collide scopes.
func (m *Middleware) subjectKey(r *http.Request) string {
	ctx := r.Context()
	if subject := requestcontext.Subject(ctx); !subject.IsZero() {
		return "user:" + strconv.FormatInt(subject.ID, 10)
	}
	ip := requestcontext.ClientIP(ctx)
	if ip == "" {
		ip = r.RemoteAddr
	}
	return "ip:" + sanitizeSegment(ip)
}

func sanitizeSegment(s string) string {
	return strings.Map(func(r rune) rune {
		if r == ':' || r == ' ' || r == '\n' || r == '\r' {
			return '_'
		}
		return r
	}, s)
}

func addHeaders(w http.ResponseWriter, result *models.Result) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
}

func retryAfterSeconds(result *models.Result) int {
	secs := int(time.Until(result.ResetAt).Seconds())
	if secs < 1 {
		secs = 1
	}
	return secs
}
