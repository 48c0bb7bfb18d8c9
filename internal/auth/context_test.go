// ABOUTME: Unit tests for identity context helpers
// ABOUTME: Tests attach, lookup and the panicking accessor

package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentityFromContext(t *testing.T) {
	assert.Nil(t, IdentityFromContext(context.Background()))

	id := &Identity{Subject: "admin-1", Email: "owner@example.com"}
	ctx := WithIdentity(context.Background(), id)
	assert.Same(t, id, IdentityFromContext(ctx))
	assert.Same(t, id, MustIdentityFromContext(ctx))
}

func TestMustIdentityFromContext_Panics(t *testing.T) {
	assert.Panics(t, func() {
		MustIdentityFromContext(context.Background())
	})
}
