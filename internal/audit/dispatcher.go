package audit

import (
	"log"
	"sync"
)

type Event struct {
	SalonID  *uint
	UserID   *uint
	Action   string
	Entity   string
	EntityID *uint
	Metadata any
}

// Sink persists audit events.
type Sink interface {
	Log(ev Event) error
}

type Dispatcher struct {
	sink  Sink
	queue chan Event
	done  chan struct{}

	// mu guards closed and the send on queue.
	mu     sync.RWMutex
	closed bool
}

func NewDispatcher(sink Sink) *Dispatcher {
	d := &Dispatcher{
		sink:  sink,
		queue: make(chan Event, 100),
		done:  make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)
	for ev := range d.queue {
		if err := d.sink.Log(ev); err != nil {
			log.Println("[Audit] error:", err)
		}
	}
}

// Dispatch never blocks the caller. A full queue or a closed dispatcher
// drops the event.
func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		log.Println("[Audit] dispatcher closed, dropping event", ev.Action)
		return
	}

	select {
	case d.queue <- ev:
	default:
		log.Println("[Audit] queue full, dropping event", ev.Action)
	}
}

// Close drains the queue and stops the worker. Calling it again is a no-op.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	<-d.done
}
