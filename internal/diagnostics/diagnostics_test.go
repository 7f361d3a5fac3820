package diagnostics

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// These calls must be safe and side-effect-free observable regardless
// of which build the package was compiled with; the soliton_diag build
// additionally checks actual counting in diagnostics_diag_test.go.
func TestRecordCallsDoNotPanic(t *testing.T) {
	require.NotPanics(t, func() {
		RecordSeal()
		RecordOpen()
		RecordAuthFailure()
		RecordBytes(128)
		_ = Snapshot()
	})
}
