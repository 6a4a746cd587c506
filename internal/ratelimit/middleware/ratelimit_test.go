package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/Alex-byteai/bola-security-demo/internal/domain"
	"github.com/Alex-byteai/bola-security-demo/internal/ratelimit/models"
	"github.com/Alex-byteai/bola-security-demo/internal/ratelimit/store/bucket"
	"github.com/Alex-byteai/bola-security-demo/internal/securitylog"
	"github.com/Alex-byteai/bola-security-demo/pkg/requestcontext"
)

type failingStore struct{}

func (failingStore) Allow(context.Context, string, int, time.Duration) (*models.Result, error) {
	return nil, errors.New("bucket store unavailable")
}

func (failingStore) Reset(context.Context, string) error { return nil }

type MiddlewareSuite struct {
	suite.Suite

	mw      *Middleware
	logPath string
	handler http.Handler
}

func TestMiddlewareSuite(t *testing.T) {
	suite.Run(t, new(MiddlewareSuite))
}

func (s *MiddlewareSuite) SetupTest() {
	dir := s.T().TempDir()
	security, err := securitylog.NewSink(filepath.Join(dir, "security.log"), 0, 0)
	s.Require().NoError(err)
	access, err := securitylog.NewSink(filepath.Join(dir, "access.log"), 0, 0)
	s.Require().NoError(err)
	s.T().Cleanup(func() {
		security.Close()
		access.Close()
	})

	logger := slog.New(slog.DiscardHandler)
	emitter := securitylog.NewEmitter(security, access, logger, "secure")
	s.logPath = security.Path()
	s.mw = New(bucket.NewInMemoryStore(), emitter, logger)

	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	s.handler = s.mw.Limit("api", models.Limit{Requests: 2, Window: time.Minute})(ok)
}

func (s *MiddlewareSuite) do(subject domain.Subject, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/orders/1", nil)
	ctx := req.Context()
	if !subject.IsZero() {
		ctx = requestcontext.WithSubject(ctx, subject)
	}
	if ip != "" {
		ctx = requestcontext.WithClientIP(ctx, ip)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req.WithContext(ctx))
	return rec
}

func (s *MiddlewareSuite) TestUnderLimitPassesWithHeaders() {
	rec := s.do(domain.Subject{}, "10.0.0.1")
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("2", rec.Header().Get("X-RateLimit-Limit"))
	s.Equal("1", rec.Header().Get("X-RateLimit-Remaining"))
	s.NotEmpty(rec.Header().Get("X-RateLimit-Reset"))
}

func (s *MiddlewareSuite) TestOverLimitIsRejectedAndLogged() {
	alice := domain.Subject{ID: 1, Email: "alice@example.com"}
	s.do(alice, "")
	s.do(alice, "")
	rec := s.do(alice, "")

	s.Equal(http.StatusTooManyRequests, rec.Code)
	s.NotEmpty(rec.Header().Get("Retry-After"))

	events, err := securitylog.ReadRecent(s.logPath, 10)
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal("RATE_LIMIT_EXCEEDED", events[0].Key)
	s.Equal(securitylog.SeverityMedium, events[0].Severity)
	s.Equal(int64(1), events[0].SubjectID)
}

func (s *MiddlewareSuite) TestSubjectsHaveIndependentWindows() {
	alice := domain.Subject{ID: 1, Email: "alice@example.com"}
	bob := domain.Subject{ID: 2, Email: "bob@example.com"}
	s.do(alice, "")
	s.do(alice, "")
	s.Equal(http.StatusTooManyRequests, s.do(alice, "").Code)
	s.Equal(http.StatusOK, s.do(bob, "").Code)
}

func (s *MiddlewareSuite) TestAnonymousRequestsShareIPWindow() {
	s.do(domain.Subject{}, "10.0.0.1")
	s.do(domain.Subject{}, "10.0.0.1")
	s.Equal(http.StatusTooManyRequests, s.do(domain.Subject{}, "10.0.0.1").Code)
	s.Equal(http.StatusOK, s.do(domain.Subject{}, "10.0.0.2").Code)
}

func TestFailOpenOnStoreError(t *testing.T) {
	dir := t.TempDir()
	security, err := securitylog.NewSink(filepath.Join(dir, "security.log"), 0, 0)
	require.NoError(t, err)
	access, err := securitylog.NewSink(filepath.Join(dir, "access.log"), 0, 0)
	require.NoError(t, err)
	t.Cleanup(func() {
		security.Close()
		access.Close()
	})

	logger := slog.New(slog.DiscardHandler)
	emitter := securitylog.NewEmitter(security, access, logger, "secure")
	mw := New(failingStore{}, emitter, logger)

	handler := mw.Limit("api", DefaultAPILimit)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/orders/1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestSanitizeSegment(t *testing.T) {
	require.Equal(t, "10.0.0.1_8080", sanitizeSegment("10.0.0.1:8080"))
	require.Equal(t, "a_b_c", sanitizeSegment("a b\nc"))
}
