package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

type Notifier interface {
	Send(ctx context.Context, m Message) error
}

// NotifyQueue delivers messages on a background worker so that callers never
// wait for the mail server. Delivery is best effort: a full queue drops the
// message and failures are only logged.
type NotifyQueue struct {
	notifier    Notifier
	queue       chan Message // 待发送的消息队列
	sendTimeout time.Duration
	log         *zap.Logger

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

func NewNotifyQueue(notifier Notifier, size int, log *zap.Logger) *NotifyQueue {
	if size <= 0 {
		size = 100
	}
	q := &NotifyQueue{
		notifier:    notifier,
		queue:       make(chan Message, size),
		sendTimeout: 30 * time.Second,
		log:         log,
		done:        make(chan struct{}),
	}
	go q.worker()
	return q
}

// Dispatch enqueues m without blocking.
func (q *NotifyQueue) Dispatch(m Message) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		q.log.Warn("notification dropped, queue closed", zap.String("to", m.To))
		return
	}

	select {
	case q.queue <- m:
	default:
		q.log.Warn("notification queue full, dropping message",
			zap.String("to", m.To), zap.String("subject", m.Subject))
	}
}

func (q *NotifyQueue) worker() {
	defer close(q.done)
	for m := range q.queue {
		q.deliver(m)
	}
}

func (q *NotifyQueue) deliver(m Message) {
	ctx, cancel := context.WithTimeout(context.Background(), q.sendTimeout)
	defer cancel()

	if err := q.notifier.Send(ctx, m); err != nil {
		q.log.Error("failed to send notification",
			zap.String("to", m.To), zap.String("subject", m.Subject), zap.Error(err))
		return
	}
	q.log.Info("notification sent", zap.String("to", m.To), zap.String("subject", m.Subject))
}

// Close stops accepting messages and waits until the queued ones are
// delivered or ctx ends.
func (q *NotifyQueue) Close(ctx context.Context) error {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.queue)
	}
	q.mu.Unlock()

	select {
	case <-q.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
