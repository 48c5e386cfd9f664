package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

type fakeNotifier struct {
	mu      sync.Mutex
	sent    []Message
	fail    bool
	release chan struct{}
}

func (n *fakeNotifier) Send(ctx context.Context, m Message) error {
	if n.release != nil {
		<-n.release
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fail {
		return errors.New("smtp down")
	}
	n.sent = append(n.sent, m)
	return nil
}

func (n *fakeNotifier) messages() []Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Message(nil), n.sent...)
}

func TestNotifyQueueDeliversAndDrains(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	n := &fakeNotifier{}
	q := NewNotifyQueue(n, 10, zap.NewNop())
	q.Dispatch(Message{To: "a@x.com", Subject: "one"})
	q.Dispatch(Message{To: "b@x.com", Subject: "two"})

	require.NoError(t, q.Close(context.Background()))
	sent := n.messages()
	require.Len(t, sent, 2)
	assert.Equal(t, "one", sent[0].Subject)
	assert.Equal(t, "two", sent[1].Subject)

	// Closed queues drop silently.
	q.Dispatch(Message{To: "c@x.com", Subject: "late"})
	require.NoError(t, q.Close(context.Background()))
	assert.Len(t, n.messages(), 2)
}

func TestNotifyQueueDropsWhenFull(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	n := &fakeNotifier{release: make(chan struct{})}
	q := NewNotifyQueue(n, 1, zap.NewNop())

	done := make(chan struct{})
	go func() {
		defer close(done)
		// The worker holds at most one message and the buffer one more;
		// the rest must be dropped without blocking.
		for i := 0; i < 10; i++ {
			q.Dispatch(Message{To: "a@x.com", Subject: "spam"})
		}
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Dispatch blocked on a full queue")
	}

	close(n.release)
	require.NoError(t, q.Close(context.Background()))
	got := len(n.messages())
	assert.GreaterOrEqual(t, got, 1)
	assert.LessOrEqual(t, got, 2)
}

func TestNotifyQueueSurvivesSendErrors(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	n := &fakeNotifier{fail: true}
	q := NewNotifyQueue(n, 4, zap.NewNop())
	q.Dispatch(Message{To: "a@x.com", Subject: "one"})
	q.Dispatch(Message{To: "a@x.com", Subject: "two"})

	require.NoError(t, q.Close(context.Background()))
	assert.Empty(t, n.messages())
}

func TestNotifyQueueCloseHonoursContext(t *testing.T) {
	n := &fakeNotifier{release: make(chan struct{})}
	q := NewNotifyQueue(n, 4, zap.NewNop())
	q.Dispatch(Message{To: "a@x.com", Subject: "stuck"})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, q.Close(ctx), context.DeadlineExceeded)

	close(n.release)
	require.NoError(t, q.Close(context.Background()))
}
