package mail

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []Message
	gate chan struct{}
	err  error
}

func (s *recordingSender) Send(ctx context.Context, msg Message) error {
	if s.gate != nil {
		select {
		case <-s.gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg)
	return s.err
}

func (s *recordingSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

func TestDispatcher_DeliversAndDrains(t *testing.T) {
	s := &recordingSender{}
	d := NewDispatcher(s, 2, 10, time.Second)
	for i := 0; i < 5; i++ {
		require.True(t, d.Enqueue(Message{To: "a@x.com"}))
	}
	require.NoError(t, d.Close(context.Background()))
	assert.Equal(t, 5, s.count())
}

func TestDispatcher_EnqueueNeverBlocks(t *testing.T) {
	s := &recordingSender{gate: make(chan struct{})}
	d := NewDispatcher(s, 1, 1, time.Second)

	accepted := 0
	start := time.Now()
	for i := 0; i < 10; i++ {
		if d.Enqueue(Message{To: "a@x.com"}) {
			accepted++
		}
	}
	assert.Less(t, time.Since(start), 100*time.Millisecond)
	assert.Less(t, accepted, 10)

	close(s.gate)
	require.NoError(t, d.Close(context.Background()))
	assert.Equal(t, accepted, s.count())
}

func TestDispatcher_SendErrorDoesNotStopWorker(t *testing.T) {
	s := &recordingSender{err: errors.New("smtp down")}
	d := NewDispatcher(s, 1, 4, time.Second)
	d.Enqueue(Message{To: "a@x.com"})
	d.Enqueue(Message{To: "b@x.com"})
	require.NoError(t, d.Close(context.Background()))
	assert.Equal(t, 2, s.count())
}

func TestLoginCodeMessage(t *testing.T) {
	m := LoginCodeMessage("a@x.com", "123456", 10*time.Minute)
	assert.Equal(t, "a@x.com", m.To)
	assert.Contains(t, m.Text, "123456")
	assert.Contains(t, m.Text, "10")
	assert.Contains(t, m.HTML, "<b>123456</b>")
}

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "a***@x.com", maskEmail("alice@x.com"))
	assert.Equal(t, "***", maskEmail("garbage"))
}

func TestDispatcher_EnqueueAfterCloseIsDropped(t *testing.T) {
	s := &recordingSender{}
	d := NewDispatcher(s, 1, 4, time.Second)
	require.NoError(t, d.Close(context.Background()))

	assert.NotPanics(t, func() {
		assert.False(t, d.Enqueue(Message{To: "a@x.com"}))
	})
	require.NoError(t, d.Close(context.Background()), "second close")
	assert.Equal(t, 0, s.count())
}
