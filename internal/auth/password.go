// ABOUTME: bcrypt password hashing for admin accounts
// ABOUTME: Constant-effort comparison so unknown emails cost the same as wrong passwords

package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt work factor for stored admin password hashes.
const PasswordCost = 12

// ErrPasswordMismatch is returned when a password does not match its hash.
var ErrPasswordMismatch = errors.New("auth: password does not match")

// dummyHash is compared against when the account does not exist, so the
// response time does not reveal which emails are registered. Cost 12 to match
// real hashes.
var dummyHash = []byte("$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW")

// HashPassword hashes a plaintext password for storage.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword compares password against hash. An empty hash stands for an
// unknown account: the dummy hash is compared instead and the result is always
// ErrPasswordMismatch.
//
// The comparison runs off the calling goroutine so a cancelled ctx (client
// gone) returns ctx.Err() immediately instead of waiting on bcrypt.
func VerifyPassword(ctx context.Context, hash, password string) error {
	known := hash != ""
	target := []byte(hash)
	if !known {
		target = dummyHash
	}

	done := make(chan error, 1)
	go func() {
		done <- bcrypt.CompareHashAndPassword(target, []byte(password))
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		if !known {
			return ErrPasswordMismatch
		}
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrPasswordMismatch
		}
		if err != nil {
			return fmt.Errorf("comparing password: %w", err)
		}
		return nil
	}
}
