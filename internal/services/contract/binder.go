// Package contract reconciles an accepted offer or booking into the single
// commercial agreement a load may carry, creating the trip and its payment
// atomically. The backing variant is resolved exactly once at entry; there
// is no re-dispatch between the offer and booking paths.
package contract

import (
	"fmt"

	"drover/internal/models"
	"drover/internal/repositories"

	"gorm.io/gorm"
)

// Kind discriminates how the agreement was reached.
type Kind int

const (
	// OfferBacked: a hauler's offer on the load was accepted directly.
	OfferBacked Kind = iota + 1
	// BookingBacked: a shipper's booking that referenced an offer was
	// accepted by the hauler.
	BookingBacked
	// TruckListingBacked: a shipper's booking against an advertised truck
	// availability was accepted.
	TruckListingBacked
)

// Source is the tagged union handed to Bind.
type Source struct {
	Kind    Kind
	Load    *models.Load
	Offer   *models.Offer   // set for OfferBacked and BookingBacked
	Booking *models.Booking // set for BookingBacked and TruckListingBacked
}

// ResolveBooking classifies a booking by its canonical discriminator:
// a truck_availability_id makes it listing-backed, otherwise an offer_id
// makes it offer-backed. A booking carrying both is malformed and rejected
// at creation, so seeing one here is an integrity error.
func ResolveBooking(b *models.Booking) (Kind, error) {
	switch {
	case b.TruckAvailabilityID != nil && b.OfferID != nil:
		return 0, ErrAmbiguousBacking
	case b.TruckAvailabilityID != nil:
		return TruckListingBacked, nil
	case b.OfferID != nil:
		return BookingBacked, nil
	default:
		return 0, ErrNoBacking
	}
}

// Binder creates trips and payments from accepted agreements.
type Binder struct {
	loads    repositories.LoadRepository
	offers   repositories.OfferRepository
	trips    repositories.TripRepository
	payments repositories.PaymentRepository
}

func NewBinder(
	loads repositories.LoadRepository,
	offers repositories.OfferRepository,
	trips repositories.TripRepository,
	payments repositories.PaymentRepository,
) *Binder {
	return &Binder{loads: loads, offers: offers, trips: trips, payments: payments}
}

// Bind runs inside the caller's transaction. It verifies the load is still
// unbound, creates the trip and payment together, advances the load, and
// expires sibling offers. Any error rolls the whole acceptance back.
func (b *Binder) Bind(tx *gorm.DB, src Source) (*models.Trip, error) {
	loads := b.loads.WithTx(tx)
	offers := b.offers.WithTx(tx)
	trips := b.trips.WithTx(tx)
	payments := b.payments.WithTx(tx)

	load := src.Load

	bound, err := trips.ExistsForLoad(load.ID)
	if err != nil {
		return nil, err
	}
	if bound || load.AwardedOfferID != nil {
		return nil, ErrLoadAlreadyBound
	}

	haulerID, amount, currency := src.terms()
	mode := load.PaymentMode

	trip := &models.Trip{
		LoadID:      load.ID,
		HaulerID:    haulerID,
		PaymentMode: mode,
		Status:      models.TripPendingEscrow,
	}
	if src.Booking != nil {
		trip.TruckAvailabilityID = src.Booking.TruckAvailabilityID
	}
	if mode == models.PaymentModeDirect {
		// Direct trips have nothing to fund; they are startable at once.
		trip.Status = models.TripReadyToStart
	}
	if err := trips.Create(trip); err != nil {
		return nil, fmt.Errorf("failed to create trip: %w", err)
	}

	payment := &models.Payment{
		TripID:      trip.ID,
		LoadID:      load.ID,
		PayerID:     load.ShipperID,
		PayeeID:     haulerID,
		AmountCents: amount,
		Currency:    currency,
		IsEscrow:    mode == models.PaymentModeEscrow,
		Status:      models.PaymentAwaitingFunding,
	}
	if mode == models.PaymentModeDirect {
		payment.Status = models.PaymentNotApplicable
	}
	if err := payments.Create(payment); err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	trip.PaymentID = payment.ID
	if err := trips.Update(trip); err != nil {
		return nil, err
	}

	// The load leaves the open market the moment a contract binds it.
	load.Status = models.LoadAwaitingEscrow
	if src.Offer != nil {
		load.AwardedOfferID = &src.Offer.ID
	}
	if err := loads.Update(load); err != nil {
		return nil, err
	}

	// Accepting one offer terminates every competing pending offer on the
	// same load; offers on other loads are untouched.
	if src.Offer != nil {
		if err := offers.ExpireSiblings(load.ID, src.Offer.ID); err != nil {
			return nil, err
		}
	}

	return trip, nil
}

// terms extracts the agreed hauler, amount and currency per variant.
func (s Source) terms() (haulerID uint, amountCents int64, currency string) {
	switch s.Kind {
	case OfferBacked:
		return s.Offer.HaulerID, s.Offer.AmountCents, s.Offer.Currency
	case BookingBacked:
		return s.Booking.HaulerID, s.Booking.AmountCents, s.Booking.Currency
	case TruckListingBacked:
		return s.Booking.HaulerID, s.Booking.AmountCents, s.Booking.Currency
	}
	return 0, 0, ""
}
