package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type captureNotifier struct {
	got []Event
}

func (c *captureNotifier) Notify(_ context.Context, evt Event) {
	c.got = append(c.got, evt)
}

func TestEmitFansOut(t *testing.T) {
	a := &captureNotifier{}
	b := &captureNotifier{}
	bus := NewBus(a)
	bus.Register(b)

	bus.Emit(context.Background(), TopicOrderCreated, map[string]any{"order_id": "o1"})

	require.Len(t, a.got, 1)
	require.Len(t, b.got, 1)
	require.Equal(t, TopicOrderCreated, a.got[0].Topic)
	require.Equal(t, "o1", a.got[0].Payload["order_id"])
	require.False(t, a.got[0].At.IsZero())
}

func TestNilBusEmitIsNoop(t *testing.T) {
	var bus *Bus
	bus.Emit(context.Background(), TopicOrderFailed, nil)
}

func TestRegisterIgnoresNil(t *testing.T) {
	bus := NewBus()
	bus.Register(nil)
	bus.Emit(context.Background(), TopicOrderSettled, nil)
}
