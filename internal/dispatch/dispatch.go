// Package dispatch selects which GHASH/CTR backend a process runs,
// driven by runtime CPU capability bits rather than a build-time
// choice. None of the three tiers has a real SIMD or AES-NI kernel
// behind it — this module's stand-in for "vector AES + vector CLMUL"
// is still plain Go — but the tiers are not merely the same code at
// different batch widths: TierWide alone drives the fused depth-16
// kernel's reflected-domain Karatsuba GHASH multiply; TierStandard
// drives a separate AES keystream batch folded by the table-nibble
// multiply instead; TierPortable drives that same table-nibble
// multiply one block at a time, with no batching at all. Karatsuba and
// table-nibble are algorithmically distinct GF(2^128) multipliers
// (internal/ghash's clmul.go and tablenibble.go, respectively), proven
// equivalent by that package's own tests — dispatch's job is choosing
// between them, not just a batch size. The selection itself is
// grounded on genuine capability detection, matching how a production
// dispatcher would choose between real assembly kernels: a capability
// discriminator picks a tagged variant once, cached for the life of
// the process, rather than branching on cpuid at every call (the
// "function-pointer table" shape common to this kind of code, here
// reduced to a plain struct since there is nothing to actually swap
// function pointers to).
package dispatch

import (
	"sync"

	"github.com/klauspost/cpuid/v2"
)

// Tier names the selected backend.
type Tier string

const (
	// TierWide uses the depth-16 fused kernel (two depth-8 waves) and
	// the Karatsuba reflected-domain GHASH multiply. Selected when the
	// CPU reports the feature set a real wide-SIMD kernel would want.
	TierWide Tier = "wide"

	// TierStandard encrypts an 8-block AES batch first, then folds the
	// resulting ciphertext into GHASH via the table-nibble multiply —
	// a separate AES pass and an 8-way GHASH fold, not the Karatsuba
	// kernel at a narrower width. For CPUs that support vector
	// execution but not the wider feature set TierWide targets.
	TierStandard Tier = "standard"

	// TierPortable processes one block at a time with the table-nibble
	// GHASH multiply, with no batching at all — the safe fallback for
	// any target, including non-x86 architectures cpuid.v2 also
	// recognizes.
	TierPortable Tier = "portable"
)

// Backend is the result of capability selection: which tier, and the
// block batch width that tier's fused-kernel entry point expects.
type Backend struct {
	Tier       Tier
	BatchWidth int
}

var (
	once     sync.Once
	selected Backend
)

func selectBackend() Backend {
	switch {
	case cpuid.CPU.Has(cpuid.VAES) && cpuid.CPU.Has(cpuid.VPCLMULQDQ):
		return Backend{Tier: TierWide, BatchWidth: 16}
	case cpuid.CPU.Has(cpuid.AESNI) && cpuid.CPU.Has(cpuid.CLMUL):
		return Backend{Tier: TierStandard, BatchWidth: 8}
	default:
		return Backend{Tier: TierPortable, BatchWidth: 1}
	}
}

// Selected returns the process-wide backend decision. The underlying
// cpuid probe and tier selection run exactly once; the result is cached
// for every subsequent call.
func Selected() Backend {
	once.Do(func() {
		selected = selectBackend()
	})
	return selected
}

// resetForTest clears the cached selection so tests can exercise
// Selected's once-only behavior more than once per process.
func resetForTest() {
	once = sync.Once{}
}

// ForceBackend overrides the process-wide backend selection with b,
// bypassing the cpuid probe entirely. It exists for cross-backend
// differential testing — forcing each tier in turn against the same
// inputs and comparing outputs bit-exactly — not for production use;
// genuine capability detection should otherwise always decide this.
// Returns a restore function that undoes the override, so the next
// Selected call re-probes cpuid as normal.
func ForceBackend(b Backend) (restore func()) {
	once.Do(func() {})
	selected = b
	return resetForTest
}
