package auth

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key
}

func TestSignProducesVerifiableSignature(t *testing.T) {
	key := testKey(t)
	fixed := time.UnixMilli(1700000000123)
	signer, err := NewRSASigner(key, func() time.Time { return fixed })
	require.NoError(t, err)

	timestamp, signature, err := signer.Sign("GET", "/trade-api/ws/2")
	require.NoError(t, err)
	require.Equal(t, strconv.FormatInt(fixed.UnixMilli(), 10), timestamp)

	raw, err := base64.StdEncoding.DecodeString(signature)
	require.NoError(t, err)

	digest := sha256.Sum256([]byte(timestamp + "GET" + "/trade-api/ws/2"))
	err = rsa.VerifyPSS(&key.PublicKey, crypto.SHA256, digest[:], raw, &rsa.PSSOptions{
		SaltLength: rsa.PSSSaltLengthEqualsHash,
	})
	require.NoError(t, err)
}

func TestParsePrivateKeyPKCS1AndPKCS8(t *testing.T) {
	key := testKey(t)

	pkcs1 := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	parsed, err := ParsePrivateKey(pkcs1)
	require.NoError(t, err)
	require.True(t, key.Equal(parsed))

	der, err := x509.MarshalPKCS8PrivateKey(key)
	require.NoError(t, err)
	pkcs8 := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})
	parsed, err = ParsePrivateKey(pkcs8)
	require.NoError(t, err)
	require.True(t, key.Equal(parsed))
}

func TestParsePrivateKeyRejectsGarbage(t *testing.T) {
	_, err := ParsePrivateKey([]byte("not a key"))
	require.Error(t, err)
}

func TestHeadersCarriesAllThree(t *testing.T) {
	signer, err := NewRSASigner(testKey(t), nil)
	require.NoError(t, err)

	header, err := Headers(signer, "key-123", "GET", "/trade-api/v2/markets")
	require.NoError(t, err)
	require.Equal(t, "key-123", header.Get(HeaderAccessKey))
	require.NotEmpty(t, header.Get(HeaderAccessSignature))
	require.NotEmpty(t, header.Get(HeaderAccessTimestamp))
}
