package signer

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
)

// ErrNoKey is returned when signing is requested but no key was configured.
var ErrNoKey = errors.New("no signing key configured")

// Payload is the canonical content of a signed activation receipt. Field
// order matters: the client verifies against the exact JSON bytes.
type Payload struct {
	LicenseKey string `json:"license_key"`
	HardwareID string `json:"hardware_id"`
	IssuedAt   string `json:"issued_at"`
}

// Signer produces detached RSA signatures over activation receipts. The key
// is loaded once at startup; a nil Signer means signing is disabled and
// Sign fails closed.
type Signer struct {
	key *rsa.PrivateKey
}

// New loads an RSA private key from a PEM file. Both PKCS#1 and PKCS#8
// encodings are accepted.
func New(path string) (*Signer, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read signing key: %w", err)
	}

	block, _ := pem.Decode(raw)
	if block == nil {
		return nil, fmt.Errorf("no PEM block in signing key file %s", path)
	}

	key, err := parsePrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse signing key: %w", err)
	}
	return &Signer{key: key}, nil
}

// FromKey wraps an in-memory key, used by tests.
func FromKey(key *rsa.PrivateKey) *Signer {
	return &Signer{key: key}
}

func parsePrivateKey(der []byte) (*rsa.PrivateKey, error) {
	if key, err := x509.ParsePKCS1PrivateKey(der); err == nil {
		return key, nil
	}
	parsed, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, err
	}
	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("signing key is %T, want RSA", parsed)
	}
	return key, nil
}

// Sign serialises the payload and returns the canonical JSON alongside a
// base64 PKCS#1 v1.5 SHA-256 signature over those exact bytes.
func (s *Signer) Sign(p Payload) (payload string, signature string, err error) {
	if s == nil || s.key == nil {
		return "", "", ErrNoKey
	}

	data, err := json.Marshal(p)
	if err != nil {
		return "", "", err
	}

	digest := sha256.Sum256(data)
	sig, err := rsa.SignPKCS1v15(rand.Reader, s.key, crypto.SHA256, digest[:])
	if err != nil {
		return "", "", fmt.Errorf("failed to sign payload: %w", err)
	}

	return string(data), base64.StdEncoding.EncodeToString(sig), nil
}

// PublicKeyPEM returns the verification key in PEM form for distribution to
// clients.
func (s *Signer) PublicKeyPEM() (string, error) {
	if s == nil || s.key == nil {
		return "", ErrNoKey
	}
	der, err := x509.MarshalPKIXPublicKey(&s.key.PublicKey)
	if err != nil {
		return "", err
	}
	return string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})), nil
}
