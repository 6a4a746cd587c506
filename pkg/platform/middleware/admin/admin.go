// Package admin gates routes behind the admin role. Denials are security
// events: a regular user probing admin surfaces is worth triaging.
package admin

import (
	"net/http"

	"github.com/Alex-byteai/bola-security-demo/internal/domain"
	"github.com/Alex-byteai/bola-security-demo/internal/securitylog"
	dErrors "github.com/Alex-byteai/bola-security-demo/pkg/domain-errors"
	"github.com/Alex-byteai/bola-security-demo/pkg/platform/httputil"
	"github.com/Alex-byteai/bola-security-demo/pkg/requestcontext"
)

// RoleAuthorizer is the role-check slice of the authorization engine.
type RoleAuthorizer interface {
	AuthorizeRole(subject domain.Subject, required domain.Role) domain.Decision
}

// RequireAdmin rejects non-admin subjects with 403 and records the attempt.
func RequireAdmin(authorizer RoleAuthorizer, emitter *securitylog.Emitter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			subject := requestcontext.Subject(ctx)

			decision := authorizer.AuthorizeRole(subject, domain.RoleAdmin)
			if !decision.Allowed() {
				emitter.Emit(ctx, securitylog.Event{
					Key:          "ADMIN_ACCESS_DENIED",
					Severity:     securitylog.SeverityMedium,
					SubjectID:    subject.ID,
					SubjectEmail: subject.Email,
					Method:       r.Method,
					Resource:     r.URL.Path,
					Blocked:      true,
					Message:      "non-admin attempted admin endpoint",
				})
				httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "admin role required"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
