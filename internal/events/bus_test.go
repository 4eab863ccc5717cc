package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordingHandler struct {
	calls int
	err   error
}

func (h *recordingHandler) HandleBookingCreated(_ context.Context, _ BookingCreated) error {
	h.calls++
	return h.err
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestBus_DeliversToAllSubscribers(t *testing.T) {
	bus := NewBus(nopLogger{})

	first := &recordingHandler{}
	second := &recordingHandler{}
	bus.SubscribeBookingCreated(first)
	bus.SubscribeBookingCreated(second)

	bus.PublishBookingCreated(context.Background(), BookingCreated{BookingID: 77})
	bus.PublishBookingCreated(context.Background(), BookingCreated{BookingID: 78})

	assert.Equal(t, 2, first.calls)
	assert.Equal(t, 2, second.calls)
}

func TestBus_HandlerErrorDoesNotStopDelivery(t *testing.T) {
	bus := NewBus(nopLogger{})

	failing := &recordingHandler{err: errors.New("downstream unavailable")}
	healthy := &recordingHandler{}
	bus.SubscribeBookingCreated(failing)
	bus.SubscribeBookingCreated(healthy)

	bus.PublishBookingCreated(context.Background(), BookingCreated{BookingID: 77})

	assert.Equal(t, 1, failing.calls)
	assert.Equal(t, 1, healthy.calls)
}

func TestBus_NoSubscribers(t *testing.T) {
	bus := NewBus(nopLogger{})

	// Публикация без подписчиков не паникует
	bus.PublishBookingCreated(context.Background(), BookingCreated{BookingID: 77})
}
