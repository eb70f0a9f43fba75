package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tokenDomain "github.com/allisson/tokengate/internal/token/domain"
)

func TestTokenGenerator_GenerateToken(t *testing.T) {
	generator := NewTokenGenerator()

	t.Run("GeneratesFixedLength", func(t *testing.T) {
		token, err := generator.GenerateToken(tokenDomain.TokenLength)
		require.NoError(t, err)
		assert.Len(t, token, tokenDomain.TokenLength)
	})

	t.Run("UsesOnlyAlphabetCharacters", func(t *testing.T) {
		token, err := generator.GenerateToken(64)
		require.NoError(t, err)
		for _, r := range token {
			assert.True(t, strings.ContainsRune(tokenAlphabet, r),
				"unexpected character %q in token", r)
		}
	})

	t.Run("GeneratesUniqueTokens", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < 100; i++ {
			token, err := generator.GenerateToken(tokenDomain.TokenLength)
			require.NoError(t, err)
			assert.False(t, seen[token], "duplicate token generated")
			seen[token] = true
		}
	})

	t.Run("ZeroLengthReturnsEmpty", func(t *testing.T) {
		token, err := generator.GenerateToken(0)
		require.NoError(t, err)
		assert.Empty(t, token)
	})
}

func TestSanitizeCredential(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "WellFormedTokenUnchanged",
			input: "aB3xK9mPqR7sT2vW5yZ8cD1fG4hJ6kL0",
			want:  "aB3xK9mPqR7sT2vW5yZ8cD1fG4hJ6kL0",
		},
		{
			name:  "HTMLEscaped",
			input: `<script>alert("x")</script>`,
			want:  "&lt;script&gt;alert(&#34;x&#34;)&lt;/script&gt;",
		},
		{
			name:  "ControlCharactersStripped",
			input: "abc\x00def\x1b[31m",
			want:  "abcdef[31m",
		},
		{
			name:  "WhitespaceTrimmed",
			input: "  token  ",
			want:  "token",
		},
		{
			name:  "Empty",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeCredential(tt.input))
		})
	}
}
