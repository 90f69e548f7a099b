// Package queue delivers recommendation tasks to background workers.
package queue

import (
	"context"
	"errors"
	"fmt"

	"github.com/xxxsen/nextstep/internal/config"
	"github.com/xxxsen/nextstep/internal/recommend"
)

var (
	ErrClosed = errors.New("queue closed")
	ErrFull   = errors.New("queue full")
)

const (
	TypeMemory = "memory"
	TypeAMQP   = "amqp"
)

// Handler processes one task. Errors are logged by the queue; the memory
// queue does not retry, the AMQP queue nacks for redelivery.
type Handler func(ctx context.Context, task recommend.Task) error

type Queue interface {
	Enqueue(ctx context.Context, task recommend.Task) error
	// Start launches the consumers; it returns once they are running.
	Start(ctx context.Context, handler Handler) error
	Close() error
}

func New(cfg config.QueueConfig) (Queue, error) {
	switch cfg.Type {
	case "", TypeMemory:
		return NewMemoryQueue(cfg.Workers, cfg.Buffer), nil
	case TypeAMQP:
		return NewAMQPQueue(cfg.URL, cfg.QueueName, cfg.Workers)
	default:
		return nil, fmt.Errorf("unknown queue type: %s", cfg.Type)
	}
}
