package notify

import (
	"sync"

	"github.com/taskward-dev/taskward/internal/logger"
)

type notification struct {
	recipient string
	subject   string
	body      string
}

// Dispatcher delivers notifications on background workers. Delivery is
// best-effort: a message is enqueued after its triggering state change has
// committed, and a failed or dropped delivery never reaches the caller and
// never rolls the change back.
type Dispatcher struct {
	sender Sender
	queue  chan notification
	wg     sync.WaitGroup

	stopOnce sync.Once
}

func NewDispatcher(sender Sender, queueSize, workers int) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 256
	}
	if workers <= 0 {
		workers = 1
	}

	d := &Dispatcher{
		sender: sender,
		queue:  make(chan notification, queueSize),
	}
	for range workers {
		d.wg.Add(1)
		go d.worker()
	}
	return d
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for n := range d.queue {
		if err := d.sender.Send(n.recipient, n.subject, n.body); err != nil {
			logger.Log.Warn("notification delivery failed",
				"recipient", n.recipient,
				"subject", n.subject,
				"error", err)
		}
	}
}

// Enqueue hands a notification to the workers and returns immediately.
// When the queue is full the message is dropped, not the caller's request.
func (d *Dispatcher) Enqueue(recipient, subject, body string) {
	select {
	case d.queue <- notification{recipient, subject, body}:
	default:
		logger.Log.Warn("notification queue full, dropping message",
			"recipient", recipient,
			"subject", subject)
	}
}

// Stop drains the queue and waits for in-flight deliveries. Enqueue must not
// be called after Stop.
func (d *Dispatcher) Stop() {
	d.stopOnce.Do(func() {
		close(d.queue)
	})
	d.wg.Wait()
}
