package miner

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the Prometheus collectors cmd/miner and cmd/pool
// register against their process's default registry.
type Metrics struct {
	SharesValid   prometheus.Counter
	SharesInvalid *prometheus.CounterVec
	BlocksFound   prometheus.Counter
	Hashrate      *prometheus.GaugeVec
	SemiResults   prometheus.Counter
	BufferFlushes prometheus.Counter
}

// NewMetrics constructs and registers the mining-node metric set.
func NewMetrics() *Metrics {
	m := &Metrics{
		SharesValid: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "supradrive",
			Name:      "shares_valid_total",
			Help:      "Valid shares accepted across all workers.",
		}),
		SharesInvalid: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "supradrive",
			Name:      "shares_invalid_total",
			Help:      "Rejected shares, labeled by rejection reason.",
		}, []string{"reason"}),
		BlocksFound: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "supradrive",
			Name:      "blocks_found_total",
			Help:      "Shares that also met the full block difficulty.",
		}),
		Hashrate: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "supradrive",
			Name:      "worker_hashrate",
			Help:      "Estimated hashes per second, per worker thread.",
		}, []string{"worker"}),
		SemiResults: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "supradrive",
			Name:      "semi_results_total",
			Help:      "Candidates whose trailing word passed the cheap filter.",
		}),
		BufferFlushes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "supradrive",
			Name:      "semi_result_buffer_flushes_total",
			Help:      "Times a worker's semi-result buffer was drained.",
		}),
	}

	prometheus.MustRegister(
		m.SharesValid, m.SharesInvalid, m.BlocksFound,
		m.Hashrate, m.SemiResults, m.BufferFlushes,
	)

	return m
}

// ObserveHashrate records worker id's current estimated hash rate.
func (m *Metrics) ObserveHashrate(workerID int, hashesPerSecond float64) {
	m.Hashrate.WithLabelValues(strconv.Itoa(workerID)).Set(hashesPerSecond)
}

// MetricsHandler returns the Prometheus scrape handler for the
// default registry that NewMetrics registers against.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
