//go:build soliton_diag

// Package diagnostics exposes process-wide seal/open counters, gated
// behind the soliton_diag build tag so that the default build carries
// no atomic-counter overhead on every AEAD call. Build with
// `-tags soliton_diag` to enable them; read them with Snapshot. These
// counters are not exported to Prometheus; provider's Collector keeps
// its own, separate counters.
package diagnostics

import "sync/atomic"

var (
	sealCount      uint64
	openCount      uint64
	authFailCount  uint64
	bytesProcessed uint64
)

// Counters is a point-in-time snapshot of the diagnostic counters.
type Counters struct {
	Seals          uint64
	Opens          uint64
	AuthFailures   uint64
	BytesProcessed uint64
}

// RecordSeal increments the seal counter.
func RecordSeal() { atomic.AddUint64(&sealCount, 1) }

// RecordOpen increments the open counter.
func RecordOpen() { atomic.AddUint64(&openCount, 1) }

// RecordAuthFailure increments the authentication-failure counter.
func RecordAuthFailure() { atomic.AddUint64(&authFailCount, 1) }

// RecordBytes adds n to the cumulative bytes-processed counter.
func RecordBytes(n int) { atomic.AddUint64(&bytesProcessed, uint64(n)) }

// Snapshot reads all counters atomically (though not as a single
// consistent point, since they are independent words).
func Snapshot() Counters {
	return Counters{
		Seals:          atomic.LoadUint64(&sealCount),
		Opens:          atomic.LoadUint64(&openCount),
		AuthFailures:   atomic.LoadUint64(&authFailCount),
		BytesProcessed: atomic.LoadUint64(&bytesProcessed),
	}
}

// Enabled reports whether the diagnostics build tag is active.
const Enabled = true
