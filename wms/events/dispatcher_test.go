package events_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"fulfillment-wms/wms/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memorySink struct {
	mu   sync.Mutex
	seen []events.Event
	fail bool
}

func (s *memorySink) Name() string { return "memory" }

func (s *memorySink) Record(_ context.Context, e events.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen = append(s.seen, e)
	if s.fail {
		return errors.New("sink down")
	}
	return nil
}

func (s *memorySink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}

func TestDispatcherDeliversToAllSinks(t *testing.T) {
	good := &memorySink{}
	broken := &memorySink{fail: true}
	d := events.NewDispatcher(zap.NewNop(), 16, broken, good)

	d.Publish(
		events.New(events.OrderSubmitted, "ORD-1", "PENDING", "submitted"),
		events.New(events.PickListCreated, "PL-1", "PENDING", "created"),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, d.Close(ctx))

	assert.Equal(t, 2, good.count())
	assert.Equal(t, 2, broken.count())
	assert.Equal(t, "ORD-1", good.seen[0].RefNo)
}

func TestPublishAfterCloseIsIgnored(t *testing.T) {
	sink := &memorySink{}
	d := events.NewDispatcher(zap.NewNop(), 4, sink)
	require.NoError(t, d.Close(context.Background()))

	d.Publish(events.New(events.OrderSubmitted, "ORD-2", "PENDING", ""))
	assert.Equal(t, 0, sink.count())
}

func TestEventWithCopiesAttributes(t *testing.T) {
	base := events.New(events.ManifestCreated, "MAN-1", "CREATED", "").With("carrier_id", "CR-UPS")
	derived := base.With("packages", "3").By("dock-1")

	assert.Len(t, base.Attributes, 1)
	assert.Len(t, derived.Attributes, 2)
	assert.Equal(t, "dock-1", derived.Actor)
	assert.Empty(t, base.Actor)
}

func TestRecorderFiltersByType(t *testing.T) {
	r := &events.Recorder{}
	r.Publish(
		events.New(events.OrderSubmitted, "ORD-1", "PENDING", ""),
		events.New(events.OrderStatusChanged, "ORD-1", "PROCESSING", ""),
	)

	assert.Len(t, r.Events(), 2)
	assert.Len(t, r.OfType(events.OrderStatusChanged), 1)
}
