// Package token issues and validates the JWT access tokens used by both API
// variants. Token contents are deliberately small: the subject id, email, and
// role are everything the authorization engine needs.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Alex-byteai/bola-security-demo/internal/domain"
	dErrors "github.com/Alex-byteai/bola-security-demo/pkg/domain-errors"
)

// Claims represents the JWT claims for access tokens.
type Claims struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Service handles JWT creation and validation.
type Service struct {
	signingKey []byte
	issuer     string
	ttl        time.Duration
}

func NewService(signingKey, issuer string, ttl time.Duration) *Service {
	return &Service{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		ttl:        ttl,
	}
}

// Generate signs an access token for the subject.
func (s *Service) Generate(subject domain.Subject) (string, error) {
	now := time.Now()
	newToken := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: subject.ID,
		Email:  subject.Email,
		Role:   string(subject.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			ID:        uuid.NewString(),
		},
	})

	signedToken, err := newToken.SignedString(s.signingKey)
	if err != nil {
		return "", err
	}
	return signedToken, nil
}

// Validate parses a token string and returns the authenticated subject.
func (s *Service) Validate(tokenString string) (domain.Subject, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Subject{}, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return domain.Subject{}, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return domain.Subject{}, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}

	subject := domain.Subject{
		ID:    claims.UserID,
		Email: claims.Email,
		Role:  domain.Role(claims.Role),
	}
	if subject.ID <= 0 || !subject.Role.Valid() {
		return domain.Subject{}, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	return subject, nil
}
