// Package parallel provides a worker pool used to run one solver per
// partition concurrently (SPEC_FULL.md §5, partitioned search). Each
// partition builds its own director.Director and serio.Network and shares
// no mutable state with any other partition; the pool only bounds how many
// run at once.
package parallel

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// WorkerPool bounds the number of partitions solved concurrently to a fixed
// worker count. A partitioned solve's job list is the caller's full set of
// disjoint sub-problems, known and fixed before the first Submit
// (RunPartitioned submits exactly len(jobs) tasks and never more); there is
// no unpredictable frontier to elastically scale against, so the pool's
// entire policy is the worker count it was built with.
type WorkerPool struct {
	workers      int
	taskChan     chan func()
	workerWg     sync.WaitGroup
	shutdownChan chan struct{}
	once         sync.Once

	stats *ExecutionStats
}

// NewWorkerPool creates a pool of workers goroutines, each able to run one
// partition at a time. If workers is 0 or negative, it defaults to NumCPU.
// The task queue is buffered to workers deep: RunPartitioned's caller
// chooses workers relative to its own partition count, so a deeper buffer
// would only hide backpressure rather than relieve it.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	pool := &WorkerPool{
		workers:      workers,
		taskChan:     make(chan func(), workers),
		shutdownChan: make(chan struct{}),
		stats:        NewExecutionStats(),
	}
	for i := 0; i < workers; i++ {
		pool.workerWg.Add(1)
		go pool.worker()
	}
	return pool
}

func (wp *WorkerPool) worker() {
	defer wp.workerWg.Done()
	for {
		select {
		case task := <-wp.taskChan:
			if task != nil {
				startTime := time.Now()
				func() {
					defer func() {
						if r := recover(); r != nil {
							wp.stats.RecordTaskFailed(fmt.Errorf("partition task panicked: %v", r))
						}
					}()
					task()
					wp.stats.RecordTaskCompleted(time.Since(startTime))
				}()
			}
		case <-wp.shutdownChan:
			return
		}
	}
}

// Submit queues a partition-solving task, blocking until there is room or
// ctx is cancelled.
func (wp *WorkerPool) Submit(ctx context.Context, task func()) error {
	wp.stats.RecordTaskSubmitted()
	select {
	case <-wp.shutdownChan:
		wp.stats.RecordTaskCancelled()
		return ErrPoolShutdown
	default:
	}
	select {
	case wp.taskChan <- task:
		wp.stats.RecordQueueDepth(len(wp.taskChan))
		return nil
	case <-ctx.Done():
		wp.stats.RecordTaskCancelled()
		return ctx.Err()
	case <-wp.shutdownChan:
		wp.stats.RecordTaskCancelled()
		return ErrPoolShutdown
	}
}

// Shutdown waits for in-flight partitions to finish, then stops the pool.
func (wp *WorkerPool) Shutdown() {
	wp.once.Do(func() {
		close(wp.shutdownChan)
		close(wp.taskChan)
		wp.workerWg.Wait()
		wp.stats.Finalize()
	})
}

// Workers returns the fixed worker count the pool was created with.
func (wp *WorkerPool) Workers() int { return wp.workers }

// GetQueueDepth returns the current number of queued partition tasks.
func (wp *WorkerPool) GetQueueDepth() int { return len(wp.taskChan) }

// GetStats returns the pool's execution statistics collector.
func (wp *WorkerPool) GetStats() *ExecutionStats { return wp.stats }

// ErrPoolShutdown is returned when submitting to a shutdown pool.
var ErrPoolShutdown = fmt.Errorf("worker pool has been shutdown")

// ExecutionStats collects statistics about partition execution; a
// partitioned solve logs a snapshot of them at debug level when it finishes.
type ExecutionStats struct {
	mu sync.RWMutex

	StartTime          time.Time
	EndTime            time.Time
	TotalExecutionTime time.Duration

	TasksSubmitted int64
	TasksCompleted int64
	TasksFailed    int64
	TasksCancelled int64

	PeakQueueDepth    int
	AverageQueueDepth float64

	TasksPerSecond      float64
	AverageTaskDuration time.Duration

	LastError  error
	ErrorCount int64

	queueDepthHistory   []int
	taskDurationHistory []time.Duration
}

// NewExecutionStats creates a zeroed statistics collector.
func NewExecutionStats() *ExecutionStats {
	return &ExecutionStats{StartTime: time.Now()}
}

func (es *ExecutionStats) RecordTaskSubmitted() { atomic.AddInt64(&es.TasksSubmitted, 1) }

func (es *ExecutionStats) RecordTaskCompleted(d time.Duration) {
	atomic.AddInt64(&es.TasksCompleted, 1)
	es.mu.Lock()
	es.taskDurationHistory = append(es.taskDurationHistory, d)
	es.mu.Unlock()
}

func (es *ExecutionStats) RecordTaskFailed(err error) {
	atomic.AddInt64(&es.TasksFailed, 1)
	atomic.AddInt64(&es.ErrorCount, 1)
	es.mu.Lock()
	es.LastError = err
	es.mu.Unlock()
}

func (es *ExecutionStats) RecordTaskCancelled() { atomic.AddInt64(&es.TasksCancelled, 1) }

func (es *ExecutionStats) RecordQueueDepth(depth int) {
	es.mu.Lock()
	defer es.mu.Unlock()
	if depth > es.PeakQueueDepth {
		es.PeakQueueDepth = depth
	}
	es.queueDepthHistory = append(es.queueDepthHistory, depth)
	if len(es.queueDepthHistory) > 1000 {
		es.queueDepthHistory = es.queueDepthHistory[1:]
	}
}

// Finalize computes throughput and averages once the pool has shut down.
func (es *ExecutionStats) Finalize() {
	es.mu.Lock()
	defer es.mu.Unlock()
	es.EndTime = time.Now()
	es.TotalExecutionTime = es.EndTime.Sub(es.StartTime)

	if len(es.queueDepthHistory) > 0 {
		total := 0
		for _, d := range es.queueDepthHistory {
			total += d
		}
		es.AverageQueueDepth = float64(total) / float64(len(es.queueDepthHistory))
	}
	if len(es.taskDurationHistory) > 0 {
		var total time.Duration
		for _, d := range es.taskDurationHistory {
			total += d
		}
		es.AverageTaskDuration = total / time.Duration(len(es.taskDurationHistory))
	}
	if es.TotalExecutionTime > 0 {
		es.TasksPerSecond = float64(es.TasksCompleted) / es.TotalExecutionTime.Seconds()
	}
}

// Snapshot returns a copy of the statistics safe for concurrent reads.
func (es *ExecutionStats) Snapshot() ExecutionStats {
	es.mu.RLock()
	defer es.mu.RUnlock()
	return ExecutionStats{
		StartTime:           es.StartTime,
		EndTime:             es.EndTime,
		TotalExecutionTime:  es.TotalExecutionTime,
		TasksSubmitted:      atomic.LoadInt64(&es.TasksSubmitted),
		TasksCompleted:      atomic.LoadInt64(&es.TasksCompleted),
		TasksFailed:         atomic.LoadInt64(&es.TasksFailed),
		TasksCancelled:      atomic.LoadInt64(&es.TasksCancelled),
		PeakQueueDepth:      es.PeakQueueDepth,
		AverageQueueDepth:   es.AverageQueueDepth,
		TasksPerSecond:      es.TasksPerSecond,
		AverageTaskDuration: es.AverageTaskDuration,
		LastError:           es.LastError,
		ErrorCount:          atomic.LoadInt64(&es.ErrorCount),
	}
}
