package services

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"
)

// AuthService checks API tokens presented by callers.
// Only SHA-256 digests are held in memory. With no tokens configured every caller is allowed.
type AuthService struct {
	digests [][sha256.Size]byte
}

// NewAuthService accepts the configured tokens; blank entries are ignored
func NewAuthService(tokens []string) *AuthService {
	s := &AuthService{}
	for _, t := range tokens {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		s.digests = append(s.digests, sha256.Sum256([]byte(t)))
	}
	return s
}

// Enabled reports whether callers must present a token
func (s *AuthService) Enabled() bool {
	return s != nil && len(s.digests) > 0
}

// Verify reports whether token is one of the configured tokens.
// Every digest is compared so timing does not depend on which token matched.
func (s *AuthService) Verify(token string) bool {
	if !s.Enabled() || token == "" {
		return false
	}
	sum := sha256.Sum256([]byte(token))
	matched := 0
	for i := range s.digests {
		matched |= subtle.ConstantTimeCompare(sum[:], s.digests[i][:])
	}
	return matched == 1
}

// TokenID is a short, non-reversible label for logging which token was used
func TokenID(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:4])
}
