package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     bool
	}{
		{"valid", "Abc12345!", true},
		{"valid minimum length", "Ab1!efgh", true},
		{"valid maximum length", "Ab1!" + strings.Repeat("x", 96), true},
		{"too short", "Ab1!efg", false},
		{"too long", "Ab1!" + strings.Repeat("x", 97), false},
		{"empty", "", false},
		{"no uppercase", "abc12345!", false},
		{"no lowercase", "ABC12345!", false},
		{"no digit", "Abcdefgh!", false},
		{"no symbol", "Abc123456", false},
		{"space inside", "Abc 12345!", false},
		{"tab inside", "Abc\t12345!", false},
		{"trailing newline", "Abc12345!\n", false},
		{"unicode letters counted as characters", "Пароль1!", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidatePassword(tt.password))
		})
	}
}

func TestValidatePassword_LengthBoundaries(t *testing.T) {
	for n := 0; n < 8; n++ {
		assert.False(t, ValidatePassword(strings.Repeat("a", n)), "length %d", n)
	}
	for _, n := range []int{101, 150, 500} {
		pw := "Aa1!" + strings.Repeat("b", n-4)
		assert.False(t, ValidatePassword(pw), "length %d", n)
	}
}

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("Abc12345!")
	require.NoError(t, err)
	assert.NotEqual(t, "Abc12345!", hash)

	assert.True(t, CheckPasswordHash("Abc12345!", hash))
	assert.False(t, CheckPasswordHash("Abc12345?", hash))
}

func TestHashPassword_LongPassword(t *testing.T) {
	pw := "Aa1!" + strings.Repeat("z", 96)
	require.True(t, ValidatePassword(pw))

	hash, err := HashPassword(pw)
	require.NoError(t, err)

	assert.True(t, CheckPasswordHash(pw, hash))
	assert.False(t, CheckPasswordHash(pw[:99], hash))
}
