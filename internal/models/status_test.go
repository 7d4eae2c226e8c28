package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTripStatusDelivered(t *testing.T) {
	assert.True(t, TripDeliveredPending.Delivered())
	assert.True(t, TripConfirmed.Delivered())
	assert.False(t, TripInProgress.Delivered())
	assert.False(t, TripDisputed.Delivered())
	assert.False(t, TripClosed.Delivered())
}

func TestDisputeStatusActive(t *testing.T) {
	assert.True(t, DisputeOpen.Active())
	assert.True(t, DisputeUnderReview.Active())
	assert.False(t, DisputeResolvedRelease.Active())
	assert.False(t, DisputeCancelled.Active())
}

func TestOfferStatusTerminal(t *testing.T) {
	assert.False(t, OfferPending.Terminal())
	for _, s := range []OfferStatus{OfferWithdrawn, OfferRejected, OfferExpired, OfferAccepted} {
		assert.True(t, s.Terminal(), string(s))
	}
}

func TestPaymentStatusTerminal(t *testing.T) {
	assert.False(t, PaymentAwaitingFunding.Terminal())
	assert.False(t, PaymentEscrowFunded.Terminal())
	assert.False(t, PaymentNotApplicable.Terminal())
	for _, s := range []PaymentStatus{PaymentReleased, PaymentRefunded, PaymentSplit, PaymentCancelled} {
		assert.True(t, s.Terminal(), string(s))
	}
}

func TestBookingConsumesCapacity(t *testing.T) {
	assert.True(t, (&Booking{Status: BookingRequested}).ConsumesCapacity())
	assert.True(t, (&Booking{Status: BookingAccepted}).ConsumesCapacity())
	assert.False(t, (&Booking{Status: BookingRejected}).ConsumesCapacity())
	assert.False(t, (&Booking{Status: BookingCancelled}).ConsumesCapacity())
}

func TestUserCanAcceptWork(t *testing.T) {
	now := time.Now()
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	tests := []struct {
		name string
		user User
		want bool
	}{
		{"subscribed", User{SubscriptionActive: true}, true},
		{"subscribed with lapsed trial", User{SubscriptionActive: true, TrialEndsAt: &past}, true},
		{"inside trial", User{TrialEndsAt: &future}, true},
		{"trial lapsed", User{TrialEndsAt: &past}, false},
		{"no trial no subscription", User{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.user.CanAcceptWork(now))
		})
	}
}

func TestTruckAvailabilityWindowValid(t *testing.T) {
	now := time.Now()
	listing := TruckAvailability{
		AvailableFrom:  now,
		AvailableUntil: now.Add(time.Hour),
	}

	assert.True(t, listing.WindowValid(now))
	assert.True(t, listing.WindowValid(now.Add(30*time.Minute)))
	assert.False(t, listing.WindowValid(now.Add(-time.Second)))
	// The window is half-open: the end instant is already outside it.
	assert.False(t, listing.WindowValid(now.Add(time.Hour)))
}
