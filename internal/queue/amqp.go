package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/streadway/amqp"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/nextstep/internal/recommend"
)

const defaultQueueName = "recommendations"

// consumeChannel is the part of *amqp.Channel a consumer needs.
type consumeChannel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	Qos(prefetchCount, prefetchSize int, global bool) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	Close() error
}

type AMQPQueue struct {
	conn        *amqp.Connection
	openChannel func() (consumeChannel, error)
	queue       string
	workers     int

	mu  sync.Mutex
	pub *amqp.Channel
	wg  sync.WaitGroup
}

func NewAMQPQueue(url, name string, workers int) (*AMQPQueue, error) {
	if name == "" {
		name = defaultQueueName
	}
	if workers <= 0 {
		workers = defaultWorkers
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	pub, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open publish channel: %w", err)
	}
	if err := declare(pub, name); err != nil {
		_ = conn.Close()
		return nil, err
	}
	openChannel := func() (consumeChannel, error) {
		ch, err := conn.Channel()
		if err != nil {
			return nil, err
		}
		return ch, nil
	}
	return &AMQPQueue{conn: conn, openChannel: openChannel, queue: name, workers: workers, pub: pub}, nil
}

func declare(ch consumeChannel, name string) error {
	// durable, not auto-deleted, not exclusive
	if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue %s: %w", name, err)
	}
	return nil
}

func encodeTask(task recommend.Task) ([]byte, error) {
	return json.Marshal(task)
}

func decodeTask(body []byte) (recommend.Task, error) {
	var task recommend.Task
	if err := json.Unmarshal(body, &task); err != nil {
		return task, err
	}
	if task.JobID == "" || task.ResumeID == "" || task.UserID == "" {
		return task, fmt.Errorf("incomplete task payload")
	}
	return task, nil
}

func (q *AMQPQueue) Enqueue(ctx context.Context, task recommend.Task) error {
	body, err := encodeTask(task)
	if err != nil {
		return err
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pub.Publish("", q.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
}

// Start opens one channel per worker. If any worker fails to start, the
// channels opened so far are closed and their consumers have exited by the
// time Start returns.
func (q *AMQPQueue) Start(ctx context.Context, handler Handler) error {
	var started []consumeChannel
	for i := 0; i < q.workers; i++ {
		ch, msgs, err := q.openConsumer()
		if err != nil {
			for _, c := range started {
				_ = c.Close()
			}
			q.wg.Wait()
			return err
		}
		started = append(started, ch)
		q.wg.Add(1)
		go q.consume(ctx, i, ch, msgs, handler)
	}
	return nil
}

func (q *AMQPQueue) openConsumer() (consumeChannel, <-chan amqp.Delivery, error) {
	ch, err := q.openChannel()
	if err != nil {
		return nil, nil, fmt.Errorf("open consume channel: %w", err)
	}
	if err := declare(ch, q.queue); err != nil {
		_ = ch.Close()
		return nil, nil, err
	}
	if err := ch.Qos(1, 0, false); err != nil {
		_ = ch.Close()
		return nil, nil, fmt.Errorf("set qos: %w", err)
	}
	msgs, err := ch.Consume(q.queue, "", false, false, false, false, nil)
	if err != nil {
		_ = ch.Close()
		return nil, nil, fmt.Errorf("consume %s: %w", q.queue, err)
	}
	return ch, msgs, nil
}

func (q *AMQPQueue) consume(ctx context.Context, id int, ch consumeChannel, msgs <-chan amqp.Delivery, handler Handler) {
	defer q.wg.Done()
	defer func() { _ = ch.Close() }()
	logger := logutil.GetLogger(ctx).With(zap.Int("worker", id), zap.String("queue", q.queue))
	for msg := range msgs {
		task, err := decodeTask(msg.Body)
		if err != nil {
			logger.Error("drop malformed task", zap.Error(err))
			_ = msg.Nack(false, false)
			continue
		}
		if err := handler(ctx, task); err != nil {
			logger.Error("handle recommendation task failed",
				zap.String("job_id", task.JobID), zap.String("resume_id", task.ResumeID), zap.Error(err))
			_ = msg.Nack(false, !msg.Redelivered)
			continue
		}
		_ = msg.Ack(false)
	}
}

// Close shuts the connection, which ends every consumer loop.
func (q *AMQPQueue) Close() error {
	err := q.conn.Close()
	q.wg.Wait()
	return err
}
