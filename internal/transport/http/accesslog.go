package httptransport

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/Alex-byteai/bola-security-demo/internal/securitylog"
	"github.com/Alex-byteai/bola-security-demo/pkg/requestcontext"
)

// accessLog records every completed request in the access log. Security
// events are emitted separately by the handlers; this is the plain traffic
// record.
func accessLog(emitter *securitylog.Emitter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			ctx := r.Context()
			emitter.Access(ctx, securitylog.AccessEntry{
				Method:       r.Method,
				URL:          r.URL.Path,
				IP:           requestcontext.ClientIP(ctx),
				StatusCode:   ww.Status(),
				ResponseTime: time.Since(start).String(),
				User:         requestcontext.Subject(ctx).Email,
			})
		})
	}
}
