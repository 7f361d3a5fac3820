package soliton

import "github.com/Intelligence-Designer/soliton/internal/dispatch"

// CapabilitySet describes the backend this process selected at first
// use, for diagnostics and benchmarking — it is advisory only, never
// required reading before calling any AEAD operation.
type CapabilitySet struct {
	// Tier names the selected backend ("wide", "standard", or "portable").
	Tier string
	// BatchWidth is the number of 16-byte blocks the fused kernel
	// processes per call under this tier: 16, 8, or 1.
	BatchWidth int
}

// Capabilities reports the process-wide backend selection, triggering
// capability detection on first call.
func Capabilities() CapabilitySet {
	b := dispatch.Selected()
	return CapabilitySet{
		Tier:       string(b.Tier),
		BatchWidth: b.BatchWidth,
	}
}
