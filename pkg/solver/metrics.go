package solver

import "github.com/prometheus/client_golang/prometheus"

// metrics are the process-wide solve counters a deployment scrapes
// alongside the per-job Telemetry report. Telemetry answers "how did this
// one solve go"; these answer "how is the process doing over its whole
// lifetime" — the two are deliberately separate surfaces.
var (
	jobsSubmitted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "solverforge",
		Name:      "jobs_submitted_total",
		Help:      "Number of solve jobs submitted to a SolverManager.",
	})
	jobsCancelled = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "solverforge",
		Name:      "jobs_cancelled_total",
		Help:      "Number of solve jobs cancelled before completion.",
	})
	movesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "solverforge",
		Name:      "moves_total",
		Help:      "Number of moves evaluated across all solves.",
	})
	bestScoreHard = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "solverforge",
		Name:      "best_hard_score",
		Help:      "Hard level of the most recently reported best score, across all solves.",
	})
)

// Registry is the registry init registers the collectors above with. Kept separate from
// prometheus.DefaultRegisterer so embedding an HTTPServer never silently
// mutates a caller's global registry.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(jobsSubmitted, jobsCancelled, movesTotal, bestScoreHard)
}
