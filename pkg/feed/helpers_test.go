package feed

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tradewell/kalshi/internal/auth"
)

func testSigner(t *testing.T) auth.Signer {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	signer, err := auth.NewRSASigner(key, nil)
	require.NoError(t, err)
	return signer
}
