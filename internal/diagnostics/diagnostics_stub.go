//go:build !soliton_diag

package diagnostics

// Counters is a point-in-time snapshot of the diagnostic counters. In
// the default build (no soliton_diag tag) it is always zero.
type Counters struct {
	Seals          uint64
	Opens          uint64
	AuthFailures   uint64
	BytesProcessed uint64
}

// RecordSeal is a no-op in the default build.
func RecordSeal() {}

// RecordOpen is a no-op in the default build.
func RecordOpen() {}

// RecordAuthFailure is a no-op in the default build.
func RecordAuthFailure() {}

// RecordBytes is a no-op in the default build.
func RecordBytes(n int) {}

// Snapshot always returns a zero Counters in the default build.
func Snapshot() Counters { return Counters{} }

// Enabled reports whether the diagnostics build tag is active.
const Enabled = false
