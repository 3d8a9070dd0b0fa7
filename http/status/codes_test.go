package status

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStringCode(t *testing.T) {
	for _, code := range KnownCodes {
		require.Equal(t, strconv.Itoa(int(code)), StringCode(code))
		require.NotEmpty(t, Text(code))
	}

	require.Empty(t, Text(Code(299)))
}

func TestHTTPError(t *testing.T) {
	var httpErr HTTPError
	require.True(t, errors.As(ErrBodyTooLarge, &httpErr))
	require.Equal(t, RequestEntityTooLarge, httpErr.Code)
	require.Equal(t, "request body is too large", ErrBodyTooLarge.Error())
	require.False(t, errors.As(ErrPrematureClose, &httpErr))
}
