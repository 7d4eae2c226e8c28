package notification

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"drover/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, payload []byte) error {
	args := m.Called(ctx, topic, payload)
	return args.Error(0)
}

func TestQueueAdd(t *testing.T) {
	q := &Queue{}
	q.Add(TopicOfferCreated, models.RoleShipper, models.JSON{"offer_id": 9})
	q.Add(TopicOfferAccepted, models.RoleHauler, models.JSON{"offer_id": 9})

	events := q.Events()
	assert.Len(t, events, 2)
	assert.Equal(t, TopicOfferCreated, events[0].Topic)
	assert.Equal(t, models.RoleShipper, events[0].Audience)
	assert.NotEmpty(t, events[0].ID)
	assert.NotEqual(t, events[0].ID, events[1].ID)
}

func TestDispatch(t *testing.T) {
	t.Run("publishes every queued event", func(t *testing.T) {
		pub := new(MockPublisher)
		pub.On("Publish", mock.Anything, TopicTripStarted, mock.Anything).Return(nil)
		pub.On("Publish", mock.Anything, TopicPaymentFunded, mock.Anything).Return(nil)

		q := &Queue{}
		q.Add(TopicTripStarted, models.RoleShipper, models.JSON{"trip_id": 3})
		q.Add(TopicPaymentFunded, "", models.JSON{"payment_id": 7})

		NewService(pub).Dispatch(context.Background(), q)
		pub.AssertExpectations(t)
	})

	t.Run("payload round-trips as an event envelope", func(t *testing.T) {
		pub := new(MockPublisher)
		var captured []byte
		pub.On("Publish", mock.Anything, TopicDisputeOpened, mock.Anything).
			Run(func(args mock.Arguments) { captured = args.Get(2).([]byte) }).
			Return(nil)

		q := &Queue{}
		q.Add(TopicDisputeOpened, models.RoleAdmin, models.JSON{"dispute_id": float64(11)})
		NewService(pub).Dispatch(context.Background(), q)

		var ev Event
		assert.NoError(t, json.Unmarshal(captured, &ev))
		assert.Equal(t, TopicDisputeOpened, ev.Topic)
		assert.Equal(t, models.RoleAdmin, ev.Audience)
		assert.Equal(t, float64(11), ev.Payload["dispute_id"])
	})

	t.Run("publish failures are swallowed", func(t *testing.T) {
		pub := new(MockPublisher)
		pub.On("Publish", mock.Anything, TopicTripClosed, mock.Anything).Return(errors.New("sink down"))

		q := &Queue{}
		q.Add(TopicTripClosed, "", models.JSON{"trip_id": 3})

		assert.NotPanics(t, func() {
			NewService(pub).Dispatch(context.Background(), q)
		})
	})

	t.Run("nil service and nil queue are no-ops", func(t *testing.T) {
		var s *Service
		assert.NotPanics(t, func() {
			s.Dispatch(context.Background(), &Queue{})
			NewService(nil).Dispatch(context.Background(), nil)
		})
	})
}
