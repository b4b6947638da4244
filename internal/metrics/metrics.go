// Package metrics exposes staking engine metrics in Prometheus format.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry collects staking engine metrics in a dedicated Prometheus
// registry so they do not interfere with the default global registry.
// All record methods are safe on a nil receiver, so callers that run
// without metrics can pass nil instead of guarding every call site.
type Registry struct {
	registry *prometheus.Registry

	stakesCreated    *prometheus.CounterVec
	stakesCompleted  *prometheus.CounterVec
	earlyWithdrawals *prometheus.CounterVec
	validationFailed *prometheus.CounterVec

	sweepRuns     prometheus.Counter
	sweepDuration prometheus.Histogram
	activeStakes  prometheus.Gauge

	oracleDuration *prometheus.HistogramVec
	oracleErrors   *prometheus.CounterVec
}

// NewRegistry creates a Registry with all staking metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	stakesCreated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stakeline",
		Name:      "stakes_created_total",
		Help:      "Total number of stakes created, by asset.",
	}, []string{"asset"})

	stakesCompleted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stakeline",
		Name:      "stakes_completed_total",
		Help:      "Total number of stakes completed at maturity, by asset.",
	}, []string{"asset"})

	earlyWithdrawals := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stakeline",
		Name:      "early_withdrawals_total",
		Help:      "Total number of early withdrawals, by asset.",
	}, []string{"asset"})

	validationFailed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stakeline",
		Name:      "validation_failures_total",
		Help:      "Total number of rejected stake creations, by reason.",
	}, []string{"reason"})

	sweepRuns := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "stakeline",
		Name:      "sweep_runs_total",
		Help:      "Total number of expiration sweep runs.",
	})

	sweepDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "stakeline",
		Name:      "sweep_duration_seconds",
		Help:      "Expiration sweep latency.",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
	})

	activeStakes := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "stakeline",
		Name:      "active_stakes",
		Help:      "Number of stakes currently in the active status.",
	})

	oracleDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "stakeline",
		Name:      "oracle_request_duration_seconds",
		Help:      "Balance oracle request latency, by network.",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
	}, []string{"network"})

	oracleErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stakeline",
		Name:      "oracle_errors_total",
		Help:      "Total number of failed balance oracle requests, by network.",
	}, []string{"network"})

	reg.MustRegister(stakesCreated)
	reg.MustRegister(stakesCompleted)
	reg.MustRegister(earlyWithdrawals)
	reg.MustRegister(validationFailed)
	reg.MustRegister(sweepRuns)
	reg.MustRegister(sweepDuration)
	reg.MustRegister(activeStakes)
	reg.MustRegister(oracleDuration)
	reg.MustRegister(oracleErrors)

	return &Registry{
		registry:         reg,
		stakesCreated:    stakesCreated,
		stakesCompleted:  stakesCompleted,
		earlyWithdrawals: earlyWithdrawals,
		validationFailed: validationFailed,
		sweepRuns:        sweepRuns,
		sweepDuration:    sweepDuration,
		activeStakes:     activeStakes,
		oracleDuration:   oracleDuration,
		oracleErrors:     oracleErrors,
	}
}

// RecordStakeCreated increments the created counter for the asset.
func (r *Registry) RecordStakeCreated(asset string) {
	if r == nil {
		return
	}
	r.stakesCreated.WithLabelValues(asset).Inc()
}

// RecordStakeCompleted increments the completed counter for the asset.
func (r *Registry) RecordStakeCompleted(asset string) {
	if r == nil {
		return
	}
	r.stakesCompleted.WithLabelValues(asset).Inc()
}

// RecordEarlyWithdrawal increments the early withdrawal counter for the asset.
func (r *Registry) RecordEarlyWithdrawal(asset string) {
	if r == nil {
		return
	}
	r.earlyWithdrawals.WithLabelValues(asset).Inc()
}

// RecordValidationFailure increments the rejection counter for the reason.
func (r *Registry) RecordValidationFailure(reason string) {
	if r == nil {
		return
	}
	r.validationFailed.WithLabelValues(reason).Inc()
}

// RecordSweep records one sweep run and its duration.
func (r *Registry) RecordSweep(duration time.Duration) {
	if r == nil {
		return
	}
	r.sweepRuns.Inc()
	r.sweepDuration.Observe(duration.Seconds())
}

// SetActiveStakes sets the active stakes gauge.
func (r *Registry) SetActiveStakes(n int) {
	if r == nil {
		return
	}
	r.activeStakes.Set(float64(n))
}

// RecordOracleRequest records one balance oracle call.
func (r *Registry) RecordOracleRequest(network string, duration time.Duration, err error) {
	if r == nil {
		return
	}
	r.oracleDuration.WithLabelValues(network).Observe(duration.Seconds())
	if err != nil {
		r.oracleErrors.WithLabelValues(network).Inc()
	}
}

// Handler returns an HTTP handler serving the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
