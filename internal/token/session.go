package token

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/dtroode/keepsake-server/internal/model"
)

const (
	// SessionLength is the number of characters in every session token.
	SessionLength = 10
	// Alphabet is the set session tokens are drawn from.
	Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// 62*4 = 248; bytes at or above it are rejected to keep the draw uniform.
const maxUnbiased = byte(len(Alphabet) * (256 / len(Alphabet)))

var _ model.TokenGenerator = (*Session)(nil)

// Session generates fixed-length alphanumeric session tokens.
// Tokens are not checked for collisions.
type Session struct {
	rand   io.Reader
	length int
}

// NewSession creates a Session generator backed by crypto/rand.
func NewSession() *Session {
	return NewSessionWithReader(rand.Reader, SessionLength)
}

// NewSessionWithReader creates a Session generator reading entropy from r.
func NewSessionWithReader(r io.Reader, length int) *Session {
	return &Session{rand: r, length: length}
}

// Generate returns a new token.
func (s *Session) Generate() (string, error) {
	out := make([]byte, 0, s.length)
	buf := make([]byte, s.length)

	for len(out) < s.length {
		if _, err := io.ReadFull(s.rand, buf); err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		for _, b := range buf {
			if b >= maxUnbiased {
				continue
			}
			out = append(out, Alphabet[int(b)%len(Alphabet)])
			if len(out) == s.length {
				break
			}
		}
	}

	return string(out), nil
}
