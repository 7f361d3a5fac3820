package provider

import "github.com/prometheus/client_golang/prometheus"

// Collector exposes per-Crypter operation counts as Prometheus metrics,
// the way caddy's admin API registers a CounterVec for its own request
// counts. Unlike internal/diagnostics' build-tag-gated process-wide
// atomics, a Collector is scoped to whichever Crypters it is attached to
// via WithDiagnostics, and is always compiled in — Prometheus dependents
// already pay for the import, so there is no reason to gate this one
// behind a build tag as well.
type Collector struct {
	seals        *prometheus.CounterVec
	opens        *prometheus.CounterVec
	authFailures prometheus.Counter
	bytes        prometheus.Counter
}

// NewCollector builds a Collector and registers its metrics with reg.
// Passing prometheus.DefaultRegisterer is the common case; a caller
// assembling its own registry for tests can pass a fresh one instead.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		seals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "soliton",
			Subsystem: "provider",
			Name:      "seals_total",
			Help:      "Number of Crypter.Encrypt calls, labeled by algorithm.",
		}, []string{"algorithm"}),
		opens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "soliton",
			Subsystem: "provider",
			Name:      "opens_total",
			Help:      "Number of Crypter.Decrypt calls, labeled by algorithm and result.",
		}, []string{"algorithm", "result"}),
		authFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "soliton",
			Subsystem: "provider",
			Name:      "auth_failures_total",
			Help:      "Number of Crypter.Decrypt calls that failed authentication.",
		}),
		bytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "soliton",
			Subsystem: "provider",
			Name:      "bytes_processed_total",
			Help:      "Total plaintext/ciphertext bytes passed to Encrypt or Decrypt.",
		}),
	}
	reg.MustRegister(c.seals, c.opens, c.authFailures, c.bytes)
	return c
}

func (c *Collector) recordSeal(algorithm Algorithm, n int) {
	c.seals.WithLabelValues(string(algorithm)).Inc()
	c.bytes.Add(float64(n))
}

func (c *Collector) recordOpen(algorithm Algorithm, n int, failed bool) {
	result := "ok"
	if failed {
		result = "auth_fail"
		c.authFailures.Inc()
	}
	c.opens.WithLabelValues(string(algorithm), result).Inc()
	c.bytes.Add(float64(n))
}
