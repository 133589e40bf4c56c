package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the dashboard process.
type Metrics struct {
	// Query cache metrics
	CacheHits         prometheus.Counter
	CacheMisses       prometheus.Counter
	DedupedFetches    prometheus.Counter
	StaleDropped      prometheus.Counter
	Invalidations     *prometheus.CounterVec
	ActiveSubscribers prometheus.Gauge

	// Gateway client metrics
	FetchLatency  *prometheus.HistogramVec
	FetchFailures *prometheus.CounterVec

	// Mutation metrics
	Mutations *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics on reg. Pass a fresh
// registry in tests to avoid duplicate registration panics.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "opsdash_cache_hits_total",
			Help: "Total number of query reads served from cache",
		}),
		CacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "opsdash_cache_misses_total",
			Help: "Total number of query reads that had to wait for a fetch",
		}),
		DedupedFetches: factory.NewCounter(prometheus.CounterOpts{
			Name: "opsdash_deduped_fetches_total",
			Help: "Total number of query reads that joined an in-flight fetch",
		}),
		StaleDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "opsdash_stale_responses_dropped_total",
			Help: "Total number of fetch responses discarded because a newer request already completed",
		}),
		Invalidations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "opsdash_invalidations_total",
			Help: "Total number of cache invalidations, labeled by key bucket",
		}, []string{"bucket"}),
		ActiveSubscribers: factory.NewGauge(prometheus.GaugeOpts{
			Name: "opsdash_active_subscribers",
			Help: "Current number of active query subscriptions",
		}),
		FetchLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "opsdash_gateway_fetch_latency_seconds",
			Help:    "Latency of upstream gateway requests in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		FetchFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "opsdash_gateway_fetch_failures_total",
			Help: "Total number of failed upstream gateway requests, labeled by error code",
		}, []string{"code"}),
		Mutations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "opsdash_mutations_total",
			Help: "Total number of entity mutations, labeled by entity and outcome",
		}, []string{"entity", "outcome"}),
	}
}

func (m *Metrics) IncrementCacheHits() {
	m.CacheHits.Inc()
}

func (m *Metrics) IncrementCacheMisses() {
	m.CacheMisses.Inc()
}

func (m *Metrics) IncrementDedupedFetches() {
	m.DedupedFetches.Inc()
}

func (m *Metrics) IncrementStaleDropped() {
	m.StaleDropped.Inc()
}

func (m *Metrics) IncrementInvalidations(bucket string) {
	m.Invalidations.WithLabelValues(bucket).Inc()
}

func (m *Metrics) AddActiveSubscribers(delta int) {
	m.ActiveSubscribers.Add(float64(delta))
}

// ObserveFetchLatency records the latency of one upstream request.
func (m *Metrics) ObserveFetchLatency(method, path string, durationSeconds float64) {
	m.FetchLatency.WithLabelValues(method, path).Observe(durationSeconds)
}

func (m *Metrics) IncrementFetchFailures(code string) {
	m.FetchFailures.WithLabelValues(code).Inc()
}

// IncrementMutations records a mutation attempt's outcome ("success"/"error").
func (m *Metrics) IncrementMutations(entity, outcome string) {
	m.Mutations.WithLabelValues(entity, outcome).Inc()
}
