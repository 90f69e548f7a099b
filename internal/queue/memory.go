package queue

import (
	"context"
	"sync"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/nextstep/internal/recommend"
)

const (
	defaultWorkers = 2
	defaultBuffer  = 64
)

type MemoryQueue struct {
	tasks   chan recommend.Task
	workers int

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewMemoryQueue(workers, buffer int) *MemoryQueue {
	if workers <= 0 {
		workers = defaultWorkers
	}
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &MemoryQueue{tasks: make(chan recommend.Task, buffer), workers: workers}
}

// Enqueue never waits: a full buffer drops the task with ErrFull.
func (q *MemoryQueue) Enqueue(ctx context.Context, task recommend.Task) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrClosed
	}
	select {
	case q.tasks <- task:
		return nil
	default:
		logutil.GetLogger(ctx).Warn("recommendation queue full, drop task",
			zap.String("job_id", task.JobID), zap.String("resume_id", task.ResumeID))
		return ErrFull
	}
}

func (q *MemoryQueue) Start(ctx context.Context, handler Handler) error {
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.work(ctx, i, handler)
	}
	return nil
}

func (q *MemoryQueue) work(ctx context.Context, id int, handler Handler) {
	defer q.wg.Done()
	logger := logutil.GetLogger(ctx).With(zap.Int("worker", id))
	for task := range q.tasks {
		if err := handler(ctx, task); err != nil {
			logger.Error("handle recommendation task failed",
				zap.String("job_id", task.JobID), zap.String("resume_id", task.ResumeID), zap.Error(err))
		}
	}
}

// Close stops accepting tasks and waits for queued ones to drain.
func (q *MemoryQueue) Close() error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	close(q.tasks)
	q.mu.Unlock()
	q.wg.Wait()
	return nil
}
