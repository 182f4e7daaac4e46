package solver

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/solverforge/solverforge/pkg/director"
	"github.com/solverforge/solverforge/pkg/score"
)

// BestSolutionEvent is one entry in the streaming sequence a solve emits on
// improvement (spec §4.6). Scores are emitted in strictly monotone-
// improving order (spec §5 ordering guarantee 1) — the manager forwards a
// phase's onStep score only when it is strictly better than the last score
// it forwarded for the same job.
type BestSolutionEvent struct {
	Score score.Score
	At    time.Time
}

// SolveResult is the final report from a completed (or cancelled) solve.
type SolveResult struct {
	ID        uuid.UUID
	Score     score.Score
	Feasible  bool
	Cancelled bool
	Telemetry Telemetry
}

// job tracks one submitted problem's in-flight or completed state.
type job struct {
	id        uuid.UUID
	cancel    *CancelFlag
	best      chan BestSolutionEvent // capacity 1, overwrite-latest
	done      chan struct{}
	mu        sync.Mutex
	result    *SolveResult
	resultErr error
}

// SolverManager runs submitted problems and lets callers stream best-
// solution improvements and fetch the final SolveResult (spec §4.6). Each
// problem gets its own goroutine; the manager shares no mutable solver
// state across jobs, only the job registry.
type SolverManager struct {
	mu   sync.Mutex
	jobs map[uuid.UUID]*job
}

// NewSolverManager creates an empty manager.
func NewSolverManager() *SolverManager {
	return &SolverManager{jobs: make(map[uuid.UUID]*job)}
}

// Submit starts a solve in a new goroutine and returns its job id
// immediately. phases run in order; each phase's own logic (or term)
// decides when to stop. d must already have TakeWorkingSolution called.
func (m *SolverManager) Submit(d *director.Director, phases []Phase, term Termination) uuid.UUID {
	id := uuid.New()
	j := &job{
		id:     id,
		cancel: &CancelFlag{},
		best:   make(chan BestSolutionEvent, 1),
		done:   make(chan struct{}),
	}
	m.mu.Lock()
	m.jobs[id] = j
	m.mu.Unlock()

	jobsSubmitted.Inc()
	go m.run(j, d, phases, term)
	return id
}

func (m *SolverManager) run(j *job, d *director.Director, phases []Phase, term Termination) {
	defer close(j.done)

	ctx := context.Background()
	tel := newTelemetryAccumulator()
	var cancelled bool
	var lastBest score.Score
	for _, phase := range phases {
		combined := AnyOf(term, j.cancel)
		if err := phase.Run(ctx, d, combined, tel, func(s score.Score) {
			if lastBest != nil {
				if c, err := s.CompareTo(lastBest); err != nil || c <= 0 {
					return
				}
			}
			lastBest = s
			if hs, ok := s.(score.HardSoftScore); ok {
				bestScoreHard.Set(float64(hs.Hard))
			}
			pushBest(j.best, BestSolutionEvent{Score: s, At: time.Now()})
		}); err != nil {
			if errors.Is(err, ErrCancelled) {
				cancelled = true
				jobsCancelled.Inc()
				break
			}
			j.mu.Lock()
			j.resultErr = err
			j.mu.Unlock()
			return
		}
		if j.cancel.Cancelled() {
			cancelled = true
			jobsCancelled.Inc()
			break
		}
	}

	finalScore, err := d.CalculateScore()
	if err != nil {
		j.mu.Lock()
		j.resultErr = err
		j.mu.Unlock()
		return
	}
	breakdown := d.Analyze()
	result := &SolveResult{
		ID:        j.id,
		Score:     finalScore,
		Feasible:  finalScore.IsFeasible(),
		Cancelled: cancelled,
		Telemetry: tel.finalize(time.Now(), finalScore, breakdown),
	}
	j.mu.Lock()
	j.result = result
	j.mu.Unlock()
}

// pushBest delivers ev to a capacity-1 channel, overwriting whatever
// unread event is already buffered (spec §5: producer must never block,
// drop-oldest/overwrite-latest is acceptable).
func pushBest(ch chan BestSolutionEvent, ev BestSolutionEvent) {
	for {
		select {
		case ch <- ev:
			return
		default:
			select {
			case <-ch:
			default:
			}
		}
	}
}

// BestSolutions returns the channel a caller polls for improvement events,
// or nil if id is unknown.
func (m *SolverManager) BestSolutions(id uuid.UUID) <-chan BestSolutionEvent {
	m.mu.Lock()
	j := m.jobs[id]
	m.mu.Unlock()
	if j == nil {
		return nil
	}
	return j.best
}

// Cancel sets id's termination flag; the solve returns within one
// additional move (spec §5 cancellation).
func (m *SolverManager) Cancel(id uuid.UUID) {
	m.mu.Lock()
	j := m.jobs[id]
	m.mu.Unlock()
	if j != nil {
		j.cancel.Cancel()
	}
}

// Result blocks until id's solve finishes (or ctx is done) and returns its
// SolveResult.
func (m *SolverManager) Result(ctx context.Context, id uuid.UUID) (*SolveResult, error) {
	m.mu.Lock()
	j := m.jobs[id]
	m.mu.Unlock()
	if j == nil {
		return nil, ErrUnknownJob
	}
	select {
	case <-j.done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.resultErr != nil {
		return nil, j.resultErr
	}
	return j.result, nil
}

// Done returns the channel that closes once id's solve finishes, or nil if
// id is unknown.
func (m *SolverManager) Done(id uuid.UUID) <-chan struct{} {
	m.mu.Lock()
	j := m.jobs[id]
	m.mu.Unlock()
	if j == nil {
		return nil
	}
	return j.done
}

// Poll returns id's result if the solve has already finished, without
// blocking; ok is false while the solve is still running.
func (m *SolverManager) Poll(id uuid.UUID) (result *SolveResult, ok bool, err error) {
	m.mu.Lock()
	j := m.jobs[id]
	m.mu.Unlock()
	if j == nil {
		return nil, false, ErrUnknownJob
	}
	select {
	case <-j.done:
	default:
		return nil, false, nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.result, true, j.resultErr
}
