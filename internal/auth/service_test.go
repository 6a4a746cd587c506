package auth_test

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/Alex-byteai/bola-security-demo/internal/auth"
	"github.com/Alex-byteai/bola-security-demo/internal/auth/store"
	"github.com/Alex-byteai/bola-security-demo/internal/securitylog"
	dErrors "github.com/Alex-byteai/bola-security-demo/pkg/domain-errors"
)

type ServiceSuite struct {
	suite.Suite

	service *auth.Service
	logPath string
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	users, err := store.NewSeededUserStore()
	s.Require().NoError(err)

	dir := s.T().TempDir()
	security, err := securitylog.NewSink(filepath.Join(dir, "security.log"), 0, 0)
	s.Require().NoError(err)
	access, err := securitylog.NewSink(filepath.Join(dir, "access.log"), 0, 0)
	s.Require().NoError(err)
	s.T().Cleanup(func() {
		security.Close()
		access.Close()
	})
	s.logPath = security.Path()

	emitter := securitylog.NewEmitter(security, access, slog.New(slog.DiscardHandler), "secure-api")
	s.service = auth.NewService(users, emitter)
}

func (s *ServiceSuite) recentEvents() []securitylog.Event {
	events, err := securitylog.ReadRecent(s.logPath, 10)
	s.Require().NoError(err)
	return events
}

func (s *ServiceSuite) TestLoginWithValidCredentials() {
	user, err := s.service.Login(context.Background(), "alice@example.com", "password123")
	s.Require().NoError(err)
	s.Equal("alice@example.com", user.Email)
	s.Equal(int64(1), user.ID)
	s.False(user.Subject().IsAdmin())
}

func (s *ServiceSuite) TestLoginAdminAccount() {
	user, err := s.service.Login(context.Background(), "admin@example.com", "admin123")
	s.Require().NoError(err)
	s.True(user.Subject().IsAdmin())
}

// Wrong password and unknown email return the same error, so the endpoint
// cannot confirm which emails are registered.
func (s *ServiceSuite) TestLoginFailuresAreIndistinguishable() {
	_, wrongPassword := s.service.Login(context.Background(), "alice@example.com", "nope")
	_, unknownEmail := s.service.Login(context.Background(), "mallory@example.com", "nope")

	s.Require().Error(wrongPassword)
	s.Require().Error(unknownEmail)
	s.Equal(wrongPassword.Error(), unknownEmail.Error())
	s.True(dErrors.IsCode(wrongPassword, dErrors.CodeUnauthorized))
	s.True(dErrors.IsCode(unknownEmail, dErrors.CodeUnauthorized))

	events := s.recentEvents()
	s.Require().Len(events, 2)
	for _, ev := range events {
		s.Equal("AUTH_FAILURE", ev.Key)
		s.Equal(securitylog.SeverityMedium, ev.Severity)
	}
}

func (s *ServiceSuite) TestRegisterThenLogin() {
	created, err := s.service.Register(context.Background(), "dave@example.com", "Dave Lister", "hollyhop6")
	s.Require().NoError(err)
	s.NotZero(created.ID)

	user, err := s.service.Login(context.Background(), "dave@example.com", "hollyhop6")
	s.Require().NoError(err)
	s.Equal(created.ID, user.ID)

	events := s.recentEvents()
	s.Require().Len(events, 1)
	s.Equal("USER_REGISTERED", events[0].Key)
	s.Equal(securitylog.SeverityLow, events[0].Severity)
}

func (s *ServiceSuite) TestRegisterDuplicateEmail() {
	_, err := s.service.Register(context.Background(), "alice@example.com", "Other Alice", "password456")
	s.Require().Error(err)
	s.True(dErrors.IsCode(err, dErrors.CodeConflict))
}
