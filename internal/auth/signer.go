// Package auth implements request signing for the Kalshi API.
package auth

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"
)

// Request headers attached to every authenticated call.
const (
	HeaderAccessKey       = "KALSHI-ACCESS-KEY"
	HeaderAccessSignature = "KALSHI-ACCESS-SIGNATURE"
	HeaderAccessTimestamp = "KALSHI-ACCESS-TIMESTAMP"
)

// Signer produces a timestamp and signature for one request.
type Signer interface {
	Sign(method, path string) (timestamp, signature string, err error)
}

// RSASigner signs requests with an RSA-PSS signature over
// timestamp + method + path, the scheme the exchange expects.
type RSASigner struct {
	key *rsa.PrivateKey
	now func() time.Time
}

// NewRSASigner wraps the provided private key. The clock override is for
// tests; nil uses wall time.
func NewRSASigner(key *rsa.PrivateKey, now func() time.Time) (*RSASigner, error) {
	if key == nil {
		return nil, errors.New("auth: private key required")
	}
	if now == nil {
		now = time.Now
	}
	return &RSASigner{key: key, now: now}, nil
}

// LoadSigner reads a PEM private key from disk and wraps it in a signer.
func LoadSigner(path string) (*RSASigner, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("auth: read private key: %w", err)
	}
	key, err := ParsePrivateKey(raw)
	if err != nil {
		return nil, err
	}
	return NewRSASigner(key, nil)
}

// ParsePrivateKey decodes a PEM-encoded RSA private key in either PKCS#1 or
// PKCS#8 form.
func ParsePrivateKey(raw []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(raw)
	if block == nil {
		return nil, errors.New("auth: no PEM block found in private key material")
	}
	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}
	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("auth: parse private key: %w", err)
	}
	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, errors.New("auth: private key is not RSA")
	}
	return key, nil
}

// Sign returns the millisecond timestamp and base64 signature for the given
// method and path. The path excludes any query string.
func (s *RSASigner) Sign(method, path string) (string, string, error) {
	timestamp := strconv.FormatInt(s.now().UnixMilli(), 10)
	digest := sha256.Sum256([]byte(timestamp + method + path))
	sig, err := rsa.SignPSS(rand.Reader, s.key, crypto.SHA256, digest[:], &rsa.PSSOptions{
		SaltLength: rsa.PSSSaltLengthEqualsHash,
	})
	if err != nil {
		return "", "", fmt.Errorf("auth: sign request: %w", err)
	}
	return timestamp, base64.StdEncoding.EncodeToString(sig), nil
}

// Headers builds the three authentication headers for one request.
func Headers(signer Signer, keyID, method, path string) (http.Header, error) {
	timestamp, signature, err := signer.Sign(method, path)
	if err != nil {
		return nil, err
	}
	header := make(http.Header, 3)
	header.Set(HeaderAccessKey, keyID)
	header.Set(HeaderAccessSignature, signature)
	header.Set(HeaderAccessTimestamp, timestamp)
	return header, nil
}
