// Package invite generates and normalizes short session invite codes.
//
// Codes are the only credential required to join a session; the session's
// public id alone is never sufficient. Keeping the code independent of the
// id defends against enumeration of sequential or guessable identifiers.
package invite

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"strings"
)

// alphabet excludes visually ambiguous characters (0, O, I, 1) so codes
// survive being read aloud or retyped from a screenshot.
const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// CodeLength is the fixed invite code length.
const CodeLength = 8

// NewCode generates a random invite code from a cryptographically secure
// source. Codes are stored and compared upper-case.
func NewCode() (string, error) {
	b := make([]byte, CodeLength)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	for i := range b {
		b[i] = alphabet[int(b[i])%len(alphabet)]
	}
	return string(b), nil
}

// Normalize maps user input to the stored form: trimmed and upper-cased.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Matches reports whether the provided code equals the stored code after
// normalization. The comparison runs in constant time so response timing
// never narrows down the code byte by byte.
func Matches(stored, provided string) bool {
	if stored == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(Normalize(provided))) == 1
}
