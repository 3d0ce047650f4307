package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
)

const PKCEChallengeMethodS256 = "S256"

type PKCEPair struct {
	Verifier  string
	Challenge string
}

// NewPKCEPair returns a 43-character verifier and its S256 challenge.
func NewPKCEPair() (PKCEPair, error) {
	verifier, err := randomURLSafe(32)
	if err != nil {
		return PKCEPair{}, err
	}

	hash := sha256.Sum256([]byte(verifier))
	return PKCEPair{
		Verifier:  verifier,
		Challenge: base64.RawURLEncoding.EncodeToString(hash[:]),
	}, nil
}

func NewState() (string, error) {
	return randomURLSafe(16)
}

func randomURLSafe(n int) (string, error) {
	raw := make([]byte, n)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}
