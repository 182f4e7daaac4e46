package solver

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/solverforge/solverforge/internal/parallel"
	"github.com/solverforge/solverforge/pkg/director"
	"golang.org/x/sync/errgroup"
)

// PartitionJob is one disjoint sub-problem for RunPartitioned: its own
// director (and, through it, its own SERIO network and working solution),
// run through its own phase list. No field here is shared with any other
// PartitionJob (spec §5: "no shared mutable state across partitions").
type PartitionJob struct {
	Director *director.Director
	Phases   []Phase
	Term     Termination
}

// RunPartitioned solves every job concurrently, bounded by an
// internal/parallel.WorkerPool of at most maxWorkers workers, and merges
// results with golang.org/x/sync/errgroup: the first job to return a
// non-ErrCancelled error cancels the group's context, and RunPartitioned
// returns that error once every in-flight job has stopped.
func RunPartitioned(ctx context.Context, jobs []PartitionJob, maxWorkers int) ([]*SolveResult, error) {
	pool := parallel.NewWorkerPool(maxWorkers)
	defer func() {
		pool.Shutdown()
		stats := pool.GetStats().Snapshot()
		log.WithFields(log.Fields{
			"partitions":   len(jobs),
			"workers":      pool.Workers(),
			"tasks_failed": stats.TasksFailed,
			"peak_queue":   stats.PeakQueueDepth,
		}).Debug("partitioned solve finished")
	}()

	g, gctx := errgroup.WithContext(ctx)
	results := make([]*SolveResult, len(jobs))

	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			done := make(chan error, 1)
			submitErr := pool.Submit(gctx, func() {
				done <- runPartition(gctx, job, &results[i])
			})
			if submitErr != nil {
				return submitErr
			}
			return <-done
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func runPartition(ctx context.Context, job PartitionJob, out **SolveResult) error {
	tel := newTelemetryAccumulator()
	var cancelled bool
	for _, phase := range job.Phases {
		if err := phase.Run(ctx, job.Director, job.Term, tel, nil); err != nil {
			if errors.Is(err, ErrCancelled) {
				cancelled = true
				break
			}
			return err
		}
	}
	finalScore, err := job.Director.CalculateScore()
	if err != nil {
		return err
	}
	breakdown := job.Director.Analyze()
	*out = &SolveResult{
		Score:     finalScore,
		Feasible:  finalScore.IsFeasible(),
		Cancelled: cancelled,
		Telemetry: tel.finalize(time.Now(), finalScore, breakdown),
	}
	return nil
}
