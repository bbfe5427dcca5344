package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	suggestionsShown = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "chewsy",
			Name:      "suggestions_shown_total",
			Help:      "Count of restaurant suggestions presented to users.",
		},
	)

	cyclesTerminated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "chewsy",
			Name:      "cycles_terminated_total",
			Help:      "Count of suggestion cycles that ran out of candidates.",
		},
	)

	cyclesRestarted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "chewsy",
			Name:      "cycles_restarted_total",
			Help:      "Count of suggestion cycles restarted after termination.",
		},
	)

	tabulationToggled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chewsy",
			Name:      "tabulation_toggled_total",
			Help:      "Count of listing-view toggles by direction.",
		},
		[]string{"direction"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(suggestionsShown, cyclesTerminated, cyclesRestarted, tabulationToggled)
	})
}

func IncSuggestionShown() {
	suggestionsShown.Inc()
}

func IncCycleTerminated() {
	cyclesTerminated.Inc()
}

func IncCycleRestarted() {
	cyclesRestarted.Inc()
}

func IncTabulationToggled(direction string) {
	tabulationToggled.WithLabelValues(direction).Inc()
}
