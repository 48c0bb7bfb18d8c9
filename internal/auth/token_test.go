// ABOUTME: Unit tests for session token issuance and verification
// ABOUTME: Covers round trips, expiry, algorithm confusion and malformed claims

package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testSecret is a 32-byte secret that meets MinSecretLength.
var testSecret = []byte("portfolio-session-test-secret-32")

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newTestTokenService(t *testing.T, opts ...TokenOption) *TokenService {
	t.Helper()
	svc, err := NewTokenService(testSecret, opts...)
	require.NoError(t, err)
	return svc
}

func signRaw(t *testing.T, method jwt.SigningMethod, claims jwt.Claims, key any) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestNewTokenService_RejectsMissingSecret(t *testing.T) {
	_, err := NewTokenService(nil)
	require.ErrorIs(t, err, ErrMissingSecret)

	_, err = NewTokenService([]byte{})
	require.ErrorIs(t, err, ErrMissingSecret)
}

func TestNewTokenService_RejectsWeakSecret(t *testing.T) {
	_, err := NewTokenService([]byte("too-short"))
	require.ErrorIs(t, err, ErrWeakSecret)
}

func TestTokenService_RoundTrip(t *testing.T) {
	svc := newTestTokenService(t)

	token, err := svc.Issue("admin-1", "owner@example.com", time.Hour)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	id, ok := svc.Verify(token)
	require.True(t, ok)
	assert.Equal(t, "admin-1", id.Subject)
	assert.Equal(t, "owner@example.com", id.Email)
}

func TestTokenService_IssueRequiresClaims(t *testing.T) {
	svc := newTestTokenService(t)

	_, err := svc.Issue("", "owner@example.com", time.Hour)
	require.ErrorIs(t, err, ErrMissingClaim)

	_, err = svc.Issue("admin-1", "", time.Hour)
	require.ErrorIs(t, err, ErrMissingClaim)
}

func TestTokenService_DefaultTTL(t *testing.T) {
	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	token, err := newTestTokenService(t, WithClock(fixedClock(issuedAt))).Issue("admin-1", "owner@example.com", 0)
	require.NoError(t, err)

	almost := newTestTokenService(t, WithClock(fixedClock(issuedAt.Add(DefaultTokenTTL-time.Second))))
	_, ok := almost.Verify(token)
	assert.True(t, ok, "token should still be valid just before seven days")

	after := newTestTokenService(t, WithClock(fixedClock(issuedAt.Add(DefaultTokenTTL+time.Second))))
	_, ok = after.Verify(token)
	assert.False(t, ok, "token should expire after seven days")
}

func TestTokenService_ExpiredToken(t *testing.T) {
	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	token, err := newTestTokenService(t, WithClock(fixedClock(issuedAt))).Issue("admin-1", "owner@example.com", time.Minute)
	require.NoError(t, err)

	later := newTestTokenService(t, WithClock(fixedClock(issuedAt.Add(2*time.Minute))))
	id, ok := later.Verify(token)
	assert.False(t, ok)
	assert.Nil(t, id)
}

func TestTokenService_VerifyRejects(t *testing.T) {
	svc := newTestTokenService(t)
	exp := jwt.NewNumericDate(time.Now().Add(time.Hour))

	otherSecret := []byte("a-completely-different-secret-32")
	other, err := NewTokenService(otherSecret)
	require.NoError(t, err)
	foreign, err := other.Issue("admin-1", "owner@example.com", time.Hour)
	require.NoError(t, err)

	valid, err := svc.Issue("admin-1", "owner@example.com", time.Hour)
	require.NoError(t, err)
	flip := byte('A')
	if valid[len(valid)-2] == 'A' {
		flip = 'B'
	}
	tampered := valid[:len(valid)-2] + string(flip) + valid[len(valid)-1:]

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not-a-jwt"},
		{name: "three junk segments", token: "header.payload.signature"},
		{name: "wrong secret", token: foreign},
		{name: "tampered signature", token: tampered},
		{
			name: "alg none",
			token: signRaw(t, jwt.SigningMethodNone,
				jwt.MapClaims{"sub": "admin-1", "email": "owner@example.com", "exp": exp},
				jwt.UnsafeAllowNoneSignatureType),
		},
		{
			name: "HS512 with the right secret",
			token: signRaw(t, jwt.SigningMethodHS512,
				jwt.MapClaims{"sub": "admin-1", "email": "owner@example.com", "exp": exp},
				testSecret),
		},
		{
			name: "missing email",
			token: signRaw(t, jwt.SigningMethodHS256,
				jwt.MapClaims{"sub": "admin-1", "exp": exp}, testSecret),
		},
		{
			name: "missing sub",
			token: signRaw(t, jwt.SigningMethodHS256,
				jwt.MapClaims{"email": "owner@example.com", "exp": exp}, testSecret),
		},
		{
			name: "empty sub",
			token: signRaw(t, jwt.SigningMethodHS256,
				jwt.MapClaims{"sub": "", "email": "owner@example.com", "exp": exp}, testSecret),
		},
		{
			name: "non-string email",
			token: signRaw(t, jwt.SigningMethodHS256,
				jwt.MapClaims{"sub": "admin-1", "email": 42, "exp": exp}, testSecret),
		},
		{
			name: "no expiry",
			token: signRaw(t, jwt.SigningMethodHS256,
				jwt.MapClaims{"sub": "admin-1", "email": "owner@example.com"}, testSecret),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := svc.Verify(tt.token)
			assert.False(t, ok)
			assert.Nil(t, id)
		})
	}
}
