package handler

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
)

// generatePKCE returns a fresh verifier and its S256 challenge. The
// verifier stays server-side inside the handshake state record.
func generatePKCE() (verifier string, challenge string) {
	b := make([]byte, 32)
	_, _ = rand.Read(b)

	verifier = base64.RawURLEncoding.EncodeToString(b)

	hash := sha256.Sum256([]byte(verifier))
	challenge = base64.RawURLEncoding.EncodeToString(hash[:])

	return verifier, challenge
}
