package tests

import (
	"bytes"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"

	crypt "github.com/IvanChernomyrdin/go-session-keeper/internal/server/crypto"
)

func TestNewRefreshHandle_Is64RandomBytes(t *testing.T) {
	t.Parallel()

	h, err := crypt.NewRefreshHandle()
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(h)
	require.NoError(t, err)
	require.Len(t, raw, crypt.RefreshHandleBytes)
}

func TestNewRefreshHandle_Unique(t *testing.T) {
	t.Parallel()

	const n = 10000
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		h, err := crypt.NewRefreshHandle()
		require.NoError(t, err)
		_, dup := seen[h]
		require.False(t, dup, "duplicate refresh handle on iteration %d", i)
		seen[h] = struct{}{}
	}
}

func TestHashRefreshHandle(t *testing.T) {
	t.Parallel()

	h1 := crypt.HashRefreshHandle("handle-a")
	h2 := crypt.HashRefreshHandle("handle-a")
	h3 := crypt.HashRefreshHandle("handle-b")

	require.Len(t, h1, 32)
	require.True(t, bytes.Equal(h1, h2))
	require.False(t, bytes.Equal(h1, h3))
}
