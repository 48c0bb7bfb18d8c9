// ABOUTME: Tests for admin password hashing and verification
// ABOUTME: Covers matching, mismatching, unknown accounts and cancelled requests

package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword_UsesConfiguredCost(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, PasswordCost, cost)
}

func TestDummyHash_MatchesRealCost(t *testing.T) {
	cost, err := bcrypt.Cost(dummyHash)
	require.NoError(t, err)
	assert.Equal(t, PasswordCost, cost)
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	require.NoError(t, err)

	ctx := context.Background()

	require.NoError(t, VerifyPassword(ctx, hash, "correct horse battery"))
	assert.ErrorIs(t, VerifyPassword(ctx, hash, "wrong password"), ErrPasswordMismatch)
}

func TestVerifyPassword_UnknownAccount(t *testing.T) {
	err := VerifyPassword(context.Background(), "", "anything at all")
	assert.ErrorIs(t, err, ErrPasswordMismatch)
}

func TestVerifyPassword_CancelledContext(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = VerifyPassword(ctx, hash, "correct horse battery")
	assert.ErrorIs(t, err, context.Canceled)
}
