package solver

import (
	"time"

	"github.com/solverforge/solverforge/pkg/score"
)

// Telemetry is the per-solve report carried by the final SolveResult
// (SPEC_FULL.md §4.5); it embeds Director.Analyze's per-constraint
// breakdown and is marshalable to JSON or YAML for CLI --format output.
type Telemetry struct {
	WallTime              time.Duration      `json:"wall_time" yaml:"wall_time"`
	TotalMoves            int64              `json:"total_moves" yaml:"total_moves"`
	MovesPerSecond        float64            `json:"moves_per_second" yaml:"moves_per_second"`
	ScoreCalculations     int64              `json:"score_calculations" yaml:"score_calculations"`
	ScoreCalcsPerSecond   float64            `json:"score_calcs_per_second" yaml:"score_calcs_per_second"`
	AcceptanceRate        float64            `json:"acceptance_rate" yaml:"acceptance_rate"`
	FinalFeasible         bool               `json:"final_feasible" yaml:"final_feasible"`
	FinalScore            string             `json:"final_score" yaml:"final_score"`
	PerConstraintBreakdown map[string]string `json:"per_constraint_breakdown" yaml:"per_constraint_breakdown"`
}

// telemetryAccumulator is the mutable counter set a phase updates as it
// runs; finalize turns it into an immutable Telemetry snapshot.
type telemetryAccumulator struct {
	startedAt         time.Time
	totalMoves        int64
	acceptedMoves     int64
	scoreCalculations int64
}

func newTelemetryAccumulator() *telemetryAccumulator {
	return &telemetryAccumulator{startedAt: time.Now()}
}

func (a *telemetryAccumulator) recordMove(accepted bool) {
	a.totalMoves++
	if accepted {
		a.acceptedMoves++
	}
	movesTotal.Inc()
}

func (a *telemetryAccumulator) recordScoreCalculation() {
	a.scoreCalculations++
}

// finalize renders a Telemetry snapshot. breakdown is rendered via each
// score's String method (spec §6 score string grammar) rather than the
// raw struct, so JSON/YAML output matches what a human reading a log
// would expect.
func (a *telemetryAccumulator) finalize(now time.Time, finalScore score.Score, breakdown map[string]score.Score) Telemetry {
	wall := now.Sub(a.startedAt)
	t := Telemetry{
		WallTime:              wall,
		TotalMoves:            a.totalMoves,
		ScoreCalculations:     a.scoreCalculations,
		PerConstraintBreakdown: make(map[string]string, len(breakdown)),
	}
	if finalScore != nil {
		t.FinalFeasible = finalScore.IsFeasible()
		t.FinalScore = finalScore.String()
	}
	if wall > 0 {
		t.MovesPerSecond = float64(a.totalMoves) / wall.Seconds()
		t.ScoreCalcsPerSecond = float64(a.scoreCalculations) / wall.Seconds()
	}
	if a.totalMoves > 0 {
		t.AcceptanceRate = float64(a.acceptedMoves) / float64(a.totalMoves)
	}
	for name, s := range breakdown {
		t.PerConstraintBreakdown[name] = s.String()
	}
	return t
}
