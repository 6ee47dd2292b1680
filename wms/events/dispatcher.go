package events

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Sink receives events on the dispatcher goroutine.
type Sink interface {
	Name() string
	Record(ctx context.Context, e Event) error
}

// Dispatcher fans events out to sinks on a background goroutine. Publish never
// blocks: when the buffer is full the event is dropped and logged.
type Dispatcher struct {
	log   *zap.Logger
	sinks []Sink
	ch    chan Event

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

func NewDispatcher(log *zap.Logger, buffer int, sinks ...Sink) *Dispatcher {
	if buffer <= 0 {
		buffer = 256
	}
	d := &Dispatcher{
		log:   log,
		sinks: sinks,
		ch:    make(chan Event, buffer),
		done:  make(chan struct{}),
	}
	go d.run()
	return d
}

func (d *Dispatcher) Publish(evs ...Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return
	}
	for _, e := range evs {
		select {
		case d.ch <- e:
		default:
			d.log.Warn("event buffer full, dropping event",
				zap.String("type", e.Type),
				zap.String("ref_no", e.RefNo))
		}
	}
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for e := range d.ch {
		for _, s := range d.sinks {
			if err := s.Record(context.Background(), e); err != nil {
				d.log.Error("event sink failed",
					zap.String("sink", s.Name()),
					zap.String("type", e.Type),
					zap.String("ref_no", e.RefNo),
					zap.Error(err))
			}
		}
	}
}

// Close stops accepting events and waits for queued ones to drain or ctx to expire.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.ch)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
