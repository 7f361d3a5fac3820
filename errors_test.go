package soliton

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStatusString(t *testing.T) {
	require.Equal(t, "ok", StatusOK.String())
	require.Equal(t, "invalid_input", StatusInvalidInput.String())
	require.Equal(t, "auth_fail", StatusAuthFail.String())
	require.Equal(t, "unsupported", StatusUnsupported.String())
	require.Equal(t, "internal", StatusInternal.String())
	require.Equal(t, "unknown", Status(99).String())
}
