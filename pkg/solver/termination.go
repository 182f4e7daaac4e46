package solver

import (
	"sync/atomic"
	"time"

	"github.com/solverforge/solverforge/pkg/score"
)

// SolveState is the read-only view a Termination predicate is polled
// against between moves (spec §4.6, "polled between steps").
type SolveState struct {
	StartedAt          time.Time
	Now                time.Time
	StepCount          int64
	BestScore          score.Score
	LastStepScore      score.Score
	LastImprovedAt     time.Time
	LastImprovedAtStep int64
}

// Termination decides whether a phase should stop running moves. Phases
// poll it between moves (spec §5, cooperative cancellation).
type Termination interface {
	ShouldTerminate(s SolveState) bool
}

// TerminationFunc adapts a plain function to Termination.
type TerminationFunc func(s SolveState) bool

func (f TerminationFunc) ShouldTerminate(s SolveState) bool { return f(s) }

// CancelFlag is the word-sized atomic termination flag from spec §5:
// setting it guarantees the phase returns within one additional move.
type CancelFlag struct {
	flag int32
}

// Cancel sets the flag.
func (c *CancelFlag) Cancel() { atomic.StoreInt32(&c.flag, 1) }

// Cancelled reports whether Cancel has been called.
func (c *CancelFlag) Cancelled() bool { return atomic.LoadInt32(&c.flag) != 0 }

// ShouldTerminate implements Termination, so a CancelFlag can be composed
// into an AnyOf alongside the other predicates.
func (c *CancelFlag) ShouldTerminate(SolveState) bool { return c.Cancelled() }

// SecondsSpentLimit terminates once the solve has run for at least d.
func SecondsSpentLimit(d time.Duration) Termination {
	return TerminationFunc(func(s SolveState) bool {
		return s.Now.Sub(s.StartedAt) >= d
	})
}

// UnimprovedSecondsSpentLimit terminates once d has passed since the last
// best-score improvement (measured from StartedAt while there has been none).
func UnimprovedSecondsSpentLimit(d time.Duration) Termination {
	return TerminationFunc(func(s SolveState) bool {
		last := s.LastImprovedAt
		if last.IsZero() {
			last = s.StartedAt
		}
		return s.Now.Sub(last) >= d
	})
}

// StepCountLimit terminates once the solve has run at least n steps.
func StepCountLimit(n int64) Termination {
	return TerminationFunc(func(s SolveState) bool {
		return s.StepCount >= n
	})
}

// UnimprovedStepCountLimit terminates once n steps have passed since the
// last best-score improvement.
func UnimprovedStepCountLimit(n int64) Termination {
	return TerminationFunc(func(s SolveState) bool {
		return s.StepCount-s.LastImprovedAtStep >= n
	})
}

// BestScoreLimit terminates once BestScore is at least as good as limit.
func BestScoreLimit(limit score.Score) Termination {
	return TerminationFunc(func(s SolveState) bool {
		if s.BestScore == nil {
			return false
		}
		c, err := s.BestScore.CompareTo(limit)
		return err == nil && c >= 0
	})
}

// DiminishedReturns terminates when the best score has improved by less
// than minDelta over the last window steps — spec §4.6's "improvement rate
// below threshold over a sliding window". The caller supplies a
// ScoreAsFloat function since only the caller's score kind knows how to
// express "how much better", e.g. the hard level for HardSoftScore; the
// improvement is the difference of two such values.
type DiminishedReturns struct {
	Window    int
	MinDelta  float64
	ScoreAsFloat func(score.Score) float64

	history []float64 // best score, one entry recorded per step seen
}

// ShouldTerminate records s.BestScore and terminates once the improvement
// over the trailing Window steps falls below MinDelta.
func (d *DiminishedReturns) ShouldTerminate(s SolveState) bool {
	if s.BestScore == nil || d.ScoreAsFloat == nil || d.Window <= 0 {
		return false
	}
	d.history = append(d.history, d.ScoreAsFloat(s.BestScore))
	if len(d.history) > d.Window+1 {
		d.history = d.history[len(d.history)-(d.Window+1):]
	}
	if len(d.history) <= d.Window {
		return false
	}
	delta := d.history[len(d.history)-1] - d.history[0]
	if delta < 0 {
		delta = -delta
	}
	return delta < d.MinDelta
}

// AnyOf terminates as soon as any of the given predicates does — the
// usual way a config's several configured limits are combined.
func AnyOf(terms ...Termination) Termination {
	return TerminationFunc(func(s SolveState) bool {
		for _, t := range terms {
			if t == nil {
				continue
			}
			if t.ShouldTerminate(s) {
				return true
			}
		}
		return false
	})
}
