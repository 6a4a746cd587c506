// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values. Middleware sets them, services read them, and tests
// inject them without touching net/http.
package requestcontext

import (
	"context"

	"github.com/Alex-byteai/bola-security-demo/internal/domain"
)

// Context key types (unexported for encapsulation).
type (
	subjectKey   struct{}
	requestIDKey struct{}
	clientIPKey  struct{}
)

// WithSubject stores the authenticated subject for the request.
func WithSubject(ctx context.Context, s domain.Subject) context.Context {
	return context.WithValue(ctx, subjectKey{}, s)
}

// Subject retrieves the authenticated subject, or the zero Subject when the
// request is unauthenticated.
func Subject(ctx context.Context) domain.Subject {
	s, ok := ctx.Value(subjectKey{}).(domain.Subject)
	if !ok {
		return domain.Subject{}
	}
	return s
}

// WithRequestID stores the correlation id for the request.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID retrieves the correlation id, or "" when unset.
func RequestID(ctx context.Context) string {
	id, ok := ctx.Value(requestIDKey{}).(string)
	if !ok {
		return ""
	}
	return id
}

// WithClientIP stores the remote client address.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey{}, ip)
}

// ClientIP retrieves the remote client address, or "" when unset.
func ClientIP(ctx context.Context) string {
	ip, ok := ctx.Value(clientIPKey{}).(string)
	if !ok {
		return ""
	}
	return ip
}
