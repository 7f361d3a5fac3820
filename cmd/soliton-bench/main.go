// Command soliton-bench reports soliton's init-vs-steady-state
// throughput split: how much of a Seal call's time goes to Context.Init
// (key expansion, H=E_K(0), H-power precomputation, J0 derivation)
// versus the per-byte encrypt/authenticate loop. This mirrors the
// original C implementation's profile_init_breakdown and
// profile_processing microbenchmarks, reduced to stdlib timing (no
// rdtsc, no extra dependency) since this harness is a thin collaborator,
// not a subject of the design itself.
package main

import (
	"crypto/rand"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/Intelligence-Designer/soliton"
)

func main() {
	var (
		iterations = flag.Int("iterations", 10000, "number of Init calls to time")
		sizesFlag  = flag.String("sizes", "64,1024,16384,65536", "comma-separated plaintext sizes in bytes")
	)
	flag.Parse()

	caps := soliton.Capabilities()
	fmt.Printf("soliton %s — backend tier=%s batch_width=%d\n", soliton.Version(), caps.Tier, caps.BatchWidth)

	key := make([]byte, soliton.KeySize)
	if _, err := rand.Read(key); err != nil {
		fmt.Fprintln(os.Stderr, "rand.Read:", err)
		os.Exit(1)
	}
	nonce := make([]byte, soliton.NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		fmt.Fprintln(os.Stderr, "rand.Read:", err)
		os.Exit(1)
	}

	reportInitBreakdown(key, nonce, *iterations)
	reportSteadyStateThroughput(key, nonce, parseSizes(*sizesFlag))
}

// reportInitBreakdown times Context.Init in isolation against a warmed
// cache, giving the fixed per-call cost a caller pays before any byte of
// plaintext is processed.
func reportInitBreakdown(key, nonce []byte, iterations int) {
	var ctx soliton.Context
	start := time.Now()
	for i := 0; i < iterations; i++ {
		if err := ctx.Init(key, nonce); err != nil {
			fmt.Fprintln(os.Stderr, "Init:", err)
			os.Exit(1)
		}
	}
	elapsed := time.Since(start)
	ctx.Wipe()

	perCall := elapsed / time.Duration(iterations)
	fmt.Printf("\n[init] %d calls, %s total, %s/call\n", iterations, elapsed, perCall)
}

// reportSteadyStateThroughput times the encrypt-and-tag path at each
// requested size, with Init's cost excluded by running Context.Init once
// and then only Reset (which reuses the round keys and H-powers) before
// each message. Every message is encrypted under the same nonce.
func reportSteadyStateThroughput(key, nonce []byte, sizes []int) {
	var ctx soliton.Context
	if err := ctx.Init(key, nonce); err != nil {
		fmt.Fprintln(os.Stderr, "Init:", err)
		os.Exit(1)
	}
	fmt.Printf("\n[steady-state] encrypt throughput, Init cost excluded\n")

	for _, sz := range sizes {
		pt := make([]byte, sz)
		if _, err := rand.Read(pt); err != nil {
			fmt.Fprintln(os.Stderr, "rand.Read:", err)
			os.Exit(1)
		}
		ct := make([]byte, sz)
		var tag [soliton.TagSize]byte

		const reps = 1000
		start := time.Now()
		for i := 0; i < reps; i++ {
			_ = ctx.Reset(nonce)
			_ = ctx.EncryptUpdate(pt, ct)
			_ = ctx.EncryptFinal(tag[:])
		}
		elapsed := time.Since(start)

		mbPerSec := float64(sz*reps) / elapsed.Seconds() / (1024 * 1024)
		fmt.Printf("  %8d B: %10s total, %8.2f MiB/s\n", sz, elapsed, mbPerSec)
	}
}

func parseSizes(s string) []int {
	var sizes []int
	cur := 0
	have := false
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			if have {
				sizes = append(sizes, cur)
			}
			cur, have = 0, false
			continue
		}
		c := s[i]
		if c < '0' || c > '9' {
			fmt.Fprintf(os.Stderr, "bad -sizes value %q\n", s)
			os.Exit(1)
		}
		cur = cur*10 + int(c-'0')
		have = true
	}
	return sizes
}
