// Package request provides the request-id and client-ip middleware that seeds
// pkg/requestcontext for everything downstream.
package request

import (
	"net"
	"net/http"

	"github.com/google/uuid"

	"github.com/Alex-byteai/bola-security-demo/pkg/requestcontext"
)

const headerRequestID = "X-Request-Id"

// Middleware assigns each request a correlation id (honoring an inbound
// X-Request-Id) and records the client address in the context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(headerRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		ctx = requestcontext.WithClientIP(ctx, clientIP(r))

		w.Header().Set(headerRequestID, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
