// Package service provides token-related services for random token generation
// and credential sanitization.
package service

import (
	"crypto/rand"
	"math/big"

	apperrors "github.com/allisson/tokengate/internal/errors"
)

// tokenAlphabet is the character set for generated token strings.
// Alphanumeric only, so tokens survive cookies, headers, and URLs unescaped.
const tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// TokenGenerator produces opaque bearer token strings.
type TokenGenerator interface {
	// GenerateToken creates a new random token string of the given length.
	GenerateToken(length int) (string, error)
}

// randomTokenGenerator implements TokenGenerator backed by crypto/rand.
type randomTokenGenerator struct{}

// GenerateToken creates a cryptographically secure random token string.
// Each character is drawn uniformly from the token alphabet via
// rand.Int, avoiding modulo bias.
func (g *randomTokenGenerator) GenerateToken(length int) (string, error) {
	max := big.NewInt(int64(len(tokenAlphabet)))
	buf := make([]byte, length)

	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", apperrors.Wrap(err, "failed to generate random token")
		}
		buf[i] = tokenAlphabet[n.Int64()]
	}

	return string(buf), nil
}

// NewTokenGenerator creates a new CSPRNG-backed TokenGenerator.
func NewTokenGenerator() TokenGenerator {
	return &randomTokenGenerator{}
}
