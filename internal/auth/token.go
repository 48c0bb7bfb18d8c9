// ABOUTME: Session token issuance and verification for admin accounts
// ABOUTME: HS256 JWTs carrying sub + email, verified fail-closed

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is how long an issued session token stays valid.
const DefaultTokenTTL = 7 * 24 * time.Hour

// MinSecretLength is the minimum signing secret size in bytes (HS256 key strength).
const MinSecretLength = 32

// Token errors
var (
	ErrMissingSecret = errors.New("auth: jwt secret is not configured")
	ErrWeakSecret    = fmt.Errorf("auth: jwt secret must be at least %d bytes", MinSecretLength)
	ErrMissingClaim  = errors.New("auth: missing required claim")
)

// Identity is the verified admin identity carried by a session token.
type Identity struct {
	Subject string `json:"sub"`
	Email   string `json:"email"`
}

// sessionClaims is the JWT payload of a session token.
type sessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies session tokens. It is the only holder of the
// signing secret and is safe for concurrent use.
type TokenService struct {
	secret []byte
	now    func() time.Time
}

// TokenOption configures a TokenService.
type TokenOption func(*TokenService)

// WithClock overrides the wall clock used for issued-at and expiry checks.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) {
		s.now = now
	}
}

// NewTokenService creates a token service. It refuses to run without a secret;
// there is no fallback key.
func NewTokenService(secret []byte, opts ...TokenOption) (*TokenService, error) {
	if len(secret) == 0 {
		return nil, ErrMissingSecret
	}
	if len(secret) < MinSecretLength {
		return nil, ErrWeakSecret
	}

	s := &TokenService{
		secret: append([]byte(nil), secret...),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Issue signs a token for the given admin. A non-positive ttl uses DefaultTokenTTL.
func (s *TokenService) Issue(subject, email string, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", fmt.Errorf("%w: sub", ErrMissingClaim)
	}
	if email == "" {
		return "", fmt.Errorf("%w: email", ErrMissingClaim)
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	now := s.now()
	claims := sessionClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, algorithm and expiry and returns the embedded identity.
// Every failure collapses into (nil, false); callers treat that as unauthenticated.
func (s *TokenService) Verify(tokenString string) (*Identity, bool) {
	if tokenString == "" {
		return nil, false
	}

	var claims sessionClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return nil, false
	}

	if claims.Subject == "" || claims.Email == "" {
		return nil, false
	}

	return &Identity{Subject: claims.Subject, Email: claims.Email}, true
}
