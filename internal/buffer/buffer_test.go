package buffer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func pushSegment(t *testing.T, buff *Buffer, text ...string) {
	for _, piece := range text {
		require.True(t, buff.Append([]byte(piece)))
	}

	require.Equal(t, strings.Join(text, ""), string(buff.Finish()))
}

func TestBuffer(t *testing.T) {
	t.Run("segments", func(t *testing.T) {
		buff := New(10, 20)
		pushSegment(t, &buff, "Hello")
		pushSegment(t, &buff, "He", "re")
		require.Zero(t, buff.SegmentLength())
	})

	t.Run("growth preserves previous segments", func(t *testing.T) {
		buff := New(4, 64)
		first := buff
		require.True(t, first.Append([]byte("Hello, ")))
		segment := first.Finish()
		pushSegment(t, &first, "World! It grows")
		require.Equal(t, "Hello, ", string(segment))
	})

	t.Run("overflow", func(t *testing.T) {
		buff := New(4, 8)
		require.True(t, buff.Append([]byte("12345")))
		require.False(t, buff.Append([]byte("6789")))
		require.Equal(t, 5, buff.SegmentLength())
	})

	t.Run("clear", func(t *testing.T) {
		buff := New(4, 8)
		require.True(t, buff.Append([]byte("12345678")))
		buff.Clear()
		require.Zero(t, buff.SegmentLength())
		require.True(t, buff.Append([]byte("87654321")))
	})
}
