package auth

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/Alex-byteai/bola-security-demo/internal/securitylog"
	dErrors "github.com/Alex-byteai/bola-security-demo/pkg/domain-errors"
)

// UserStore is the slice of the account store the service needs.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	Create(ctx context.Context, user User) (User, error)
}

// Service verifies credentials and registers accounts. Failed logins always
// produce the same error regardless of whether the account exists, so the
// login endpoint cannot be used to enumerate emails.
type Service struct {
	store   UserStore
	emitter *securitylog.Emitter
}

func NewService(store UserStore, emitter *securitylog.Emitter) *Service {
	return &Service{store: store, emitter: emitter}
}

var errInvalidCredentials = dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")

// Login verifies the email and password and returns the account. Unknown
// email and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (User, error) {
	user, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		if dErrors.IsCode(err, dErrors.CodeNotFound) {
			s.emitFailure(ctx, email, "unknown email")
			return User{}, errInvalidCredentials
		}
		return User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return User{}, dErrors.Wrap(dErrors.CodeInternal, "password comparison failed", err)
		}
		s.emitFailure(ctx, email, "wrong password")
		return User{}, errInvalidCredentials
	}
	return user, nil
}

// Register creates a regular user account. Role escalation is not possible
// through this path; admins are provisioned out of band.
func (s *Service) Register(ctx context.Context, email, name, password string) (User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, dErrors.Wrap(dErrors.CodeInternal, "password hashing failed", err)
	}

	user, err := s.store.Create(ctx, User{
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
	})
	if err != nil {
		return User{}, err
	}

	s.emitter.Emit(ctx, securitylog.Event{
		Key:          "USER_REGISTERED",
		Severity:     securitylog.SeverityLow,
		SubjectID:    user.ID,
		SubjectEmail: user.Email,
		Message:      "new account registered",
	})
	return user, nil
}

func (s *Service) emitFailure(ctx context.Context, email, reason string) {
	s.emitter.Emit(ctx, securitylog.Event{
		Key:          "AUTH_FAILURE",
		Severity:     securitylog.SeverityMedium,
		SubjectEmail: email,
		Message:      "login failed: " + reason,
	})
}
