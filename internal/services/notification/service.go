// Package notification carries outbound events from the lifecycle core to
// interested parties. Services queue events while a mutation is in flight
// and dispatch the queue only after the enclosing transaction commits, so a
// delivery failure can never roll back business state.
package notification

import (
	"context"
	"encoding/json"
	"log"

	"drover/internal/models"

	"github.com/google/uuid"
)

// Event topics
const (
	TopicOfferCreated     = "offer.created"
	TopicOfferAccepted    = "offer.accepted"
	TopicOfferWithdrawn   = "offer.withdrawn"
	TopicOfferRejected    = "offer.rejected"
	TopicBookingRequested = "booking.requested"
	TopicBookingAccepted  = "booking.accepted"
	TopicBookingRejected  = "booking.rejected"
	TopicBookingCancelled = "booking.cancelled"
	TopicTripStarted      = "trip.started"
	TopicTripDelivered    = "trip.delivered"
	TopicTripConfirmed    = "trip.confirmed"
	TopicTripClosed       = "trip.closed"
	TopicPaymentFunded    = "payment.funded"
	TopicPaymentReleased  = "payment.released"
	TopicDisputeOpened    = "dispute.opened"
	TopicDisputeResolved  = "dispute.resolved"
	TopicDisputeCancelled = "dispute.cancelled"
	TopicDisputeMessage   = "dispute.message"
)

// Event is one (topic, payload, audience) triple bound for the sink.
type Event struct {
	ID       string      `json:"id"`
	Topic    string      `json:"topic"`
	Audience string      `json:"audience,omitempty"`
	Payload  models.JSON `json:"payload"`
}

// Queue accumulates events during a single operation. Not safe for
// concurrent use; each operation builds its own.
type Queue struct {
	events []Event
}

func (q *Queue) Add(topic, audience string, payload models.JSON) {
	q.events = append(q.events, Event{
		ID:       uuid.NewString(),
		Topic:    topic,
		Audience: audience,
		Payload:  payload,
	})
}

func (q *Queue) Events() []Event { return q.events }

// Publisher is the outbound sink; Redis pub/sub in production.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload []byte) error
}

type Service struct {
	pub Publisher
}

func NewService(pub Publisher) *Service { return &Service{pub: pub} }

// Dispatch drains the queue into the sink. Fire and forget: failures are
// logged and never surfaced to the caller.
func (s *Service) Dispatch(ctx context.Context, q *Queue) {
	if s == nil || s.pub == nil || q == nil {
		return
	}
	for _, ev := range q.Events() {
		data, err := json.Marshal(ev)
		if err != nil {
			log.Printf("notification: marshal %s failed: %v", ev.Topic, err)
			continue
		}
		if err := s.pub.Publish(ctx, ev.Topic, data); err != nil {
			log.Printf("notification: publish %s failed: %v", ev.Topic, err)
		}
	}
}
