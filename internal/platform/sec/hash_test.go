// Copyright (c) 2026 AfterMe. All rights reserved.

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afterme/afterme/internal/platform/sec"
)

func TestHashPassword_FreshSaltPerCall(t *testing.T) {
	first, err := sec.HashPassword("s3cret-password")
	require.NoError(t, err)

	second, err := sec.HashPassword("s3cret-password")
	require.NoError(t, err)

	// Same input must still produce distinct digests (fresh salt each call).
	assert.NotEqual(t, first, second)
	assert.True(t, sec.CheckPasswordHash("s3cret-password", first))
	assert.True(t, sec.CheckPasswordHash("s3cret-password", second))
}

func TestCheckPasswordHash_WrongPassword(t *testing.T) {
	digest, err := sec.HashPassword("correct horse")
	require.NoError(t, err)

	assert.False(t, sec.CheckPasswordHash("battery staple", digest))
}

func TestCheckPasswordHash_MalformedDigest(t *testing.T) {
	tests := []struct {
		name   string
		digest string
	}{
		{"empty", ""},
		{"garbage", "not-a-bcrypt-digest"},
		{"truncated", "$2a$10$abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Must return false, never panic or surface an error.
			assert.False(t, sec.CheckPasswordHash("anything", tt.digest))
		})
	}
}
