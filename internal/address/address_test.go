package address

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	require.Equal(t, "0.0.0.0:8080", Normalize(":8080"))
	require.Equal(t, "localhost:8080", Normalize("localhost:8080"))
	require.Equal(t, "[::1]:0", Normalize("[::1]:0"))
	require.Empty(t, Normalize(""))
}

func TestIsLoopback(t *testing.T) {
	for _, addr := range []string{"localhost:0", "LOCALHOST:80", "127.0.0.1:8080", "[::1]:0", "127.0.0.1"} {
		require.True(t, IsLoopback(addr), addr)
	}

	for _, addr := range []string{":8080", "0.0.0.0:80", "192.168.0.1:80", "example.com:80"} {
		require.False(t, IsLoopback(addr), addr)
	}
}
