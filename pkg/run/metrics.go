package run

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collectors are registered on the default registry and shared by all runs;
// hosting processes expose them however they expose their other metrics.
var (
	runsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "sage",
		Subsystem: "run",
		Name:      "started_total",
		Help:      "Number of runs started.",
	})
	runsFinished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sage",
		Subsystem: "run",
		Name:      "finished_total",
		Help:      "Number of runs reaching a terminal outcome, by outcome.",
	}, []string{"outcome"})
	evalSteps = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "sage",
		Subsystem: "eval",
		Name:      "steps_total",
		Help:      "Number of evaluation steps executed.",
	})
)
