// Package metrics exposes Prometheus counters for the simulator.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	tradesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evalsim_trades_total",
			Help: "Total number of simulated trades closed",
		},
		[]string{"symbol", "direction", "result"},
	)

	tradesSkippedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evalsim_trades_skipped_total",
			Help: "Trade requests ignored because no account could take them",
		},
		[]string{"reason"},
	)

	accountsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evalsim_accounts_created_total",
			Help: "Evaluation accounts created",
		},
		[]string{"challenge_type"},
	)

	statusTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evalsim_status_transitions_total",
			Help: "Account lifecycle transitions by resulting status",
		},
		[]string{"challenge_type", "status"},
	)

	phaseAdvancesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "evalsim_phase_advances_total",
			Help: "Two-step accounts moved into phase 2",
		},
	)

	persistErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evalsim_persist_errors_total",
			Help: "State load/save failures that fell back to defaults or were dropped",
		},
		[]string{"op"},
	)
)

func RecordTrade(symbol, direction string, win bool) {
	result := "loss"
	if win {
		result = "win"
	}
	tradesTotal.WithLabelValues(symbol, direction, result).Inc()
}

func RecordSkipped(reason string) {
	tradesSkippedTotal.WithLabelValues(reason).Inc()
}

func RecordAccountCreated(challengeType string) {
	accountsCreatedTotal.WithLabelValues(challengeType).Inc()
}

func RecordStatusTransition(challengeType, status string) {
	statusTransitionsTotal.WithLabelValues(challengeType, status).Inc()
}

func RecordPhaseAdvance() {
	phaseAdvancesTotal.Inc()
}

func RecordPersistError(op string) {
	persistErrorsTotal.WithLabelValues(op).Inc()
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
