package notify

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockSender struct {
	SendFunc func(recipient, subject, body string) error

	mu   sync.Mutex
	sent []string
}

func (m *MockSender) Send(recipient, subject, body string) error {
	if m.SendFunc != nil {
		return m.SendFunc(recipient, subject, body)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, recipient)
	return nil
}

func (m *MockSender) Sent() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.sent...)
}

func TestDispatcherDelivers(t *testing.T) {
	sender := &MockSender{}
	d := NewDispatcher(sender, 16, 2)

	d.Enqueue("a@example.com", "subject", "body")
	d.Enqueue("b@example.com", "subject", "body")
	d.Stop()

	assert.ElementsMatch(t, []string{"a@example.com", "b@example.com"}, sender.Sent())
}

func TestDispatcherSwallowsSendErrors(t *testing.T) {
	sender := &MockSender{}
	sender.SendFunc = func(recipient, subject, body string) error {
		return errors.New("smtp down")
	}
	d := NewDispatcher(sender, 16, 1)

	// Must not panic or surface the error anywhere.
	d.Enqueue("a@example.com", "subject", "body")
	d.Stop()
}

// A wedged sender must never block Enqueue: the queue absorbs what it can
// and drops the rest.
func TestDispatcherNeverBlocksCaller(t *testing.T) {
	blocked := make(chan struct{})
	sender := &MockSender{}
	sender.SendFunc = func(recipient, subject, body string) error {
		<-blocked
		return nil
	}
	d := NewDispatcher(sender, 2, 1)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			d.Enqueue("a@example.com", "subject", "body")
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Enqueue blocked on a full queue")
	}

	close(blocked)
	d.Stop()
}

func TestDispatcherStopDrainsQueue(t *testing.T) {
	sender := &MockSender{}
	d := NewDispatcher(sender, 64, 1)

	for i := 0; i < 10; i++ {
		d.Enqueue("a@example.com", "subject", "body")
	}
	d.Stop()

	require.Len(t, sender.Sent(), 10, "Stop must wait for queued messages")
}

func TestDispatcherStopIsIdempotent(t *testing.T) {
	d := NewDispatcher(&MockSender{}, 4, 1)
	d.Stop()
	d.Stop()
}
