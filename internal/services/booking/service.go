// Package booking implements shipper requests against advertised truck
// capacity or open offers, and the hauler response path that turns an
// accepted booking into a trip.
package booking

import (
	"context"
	"errors"
	"fmt"
	"log"

	"drover/internal/models"
	"drover/internal/repositories"
	"drover/internal/services/capacity"
	"drover/internal/services/contract"
	"drover/internal/services/notification"

	"gorm.io/gorm"
)

type Service struct {
	bookings repositories.BookingRepository
	loads    repositories.LoadRepository
	offers   repositories.OfferRepository
	listings repositories.TruckAvailabilityRepository
	trips    repositories.TripRepository
	tracker  *capacity.Service
	binder   *contract.Binder
	notifier *notification.Service
	db       repositories.TxRunner
}

func NewService(
	bookings repositories.BookingRepository,
	loads repositories.LoadRepository,
	offers repositories.OfferRepository,
	listings repositories.TruckAvailabilityRepository,
	trips repositories.TripRepository,
	tracker *capacity.Service,
	binder *contract.Binder,
	notifier *notification.Service,
	db repositories.TxRunner,
) *Service {
	return &Service{
		bookings: bookings,
		loads:    loads,
		offers:   offers,
		listings: listings,
		trips:    trips,
		tracker:  tracker,
		binder:   binder,
		notifier: notifier,
		db:       db,
	}
}

type CreateInput struct {
	LoadID              uint
	OfferID             *uint
	TruckAvailabilityID *uint
	Headcount           int
	WeightKg            int
	AmountCents         int64
}

// Create places a shipper booking. The backing is resolved once here —
// listing-backed or offer-backed, never both — and the load's payment mode
// is snapshotted onto the booking, frozen from that point on.
func (s *Service) Create(ctx context.Context, actor models.Actor, in CreateInput) (*models.Booking, error) {
	if in.AmountCents <= 0 {
		return nil, ErrInvalidAmount
	}
	if in.Headcount <= 0 {
		return nil, ErrInvalidHeadcount
	}
	if in.OfferID != nil && in.TruckAvailabilityID != nil {
		return nil, ErrAmbiguousBacking
	}
	if in.OfferID == nil && in.TruckAvailabilityID == nil {
		return nil, ErrNoBacking
	}

	load, err := s.loads.GetByID(in.LoadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLoadNotFound
		}
		return nil, err
	}
	if load.ShipperID != actor.UserID && !actor.IsAdmin() {
		return nil, ErrNotLoadOwner
	}
	if load.Status != models.LoadPublished {
		return nil, ErrLoadNotOpen
	}

	bound, err := s.trips.ExistsForLoad(load.ID)
	if err != nil {
		return nil, err
	}
	if bound || load.AwardedOfferID != nil {
		return nil, contract.ErrLoadAlreadyBound
	}

	booking := &models.Booking{
		LoadID:      load.ID,
		ShipperID:   load.ShipperID,
		Headcount:   in.Headcount,
		WeightKg:    in.WeightKg,
		AmountCents: in.AmountCents,
		Currency:    load.Currency,
		Status:      models.BookingRequested,
		PaymentMode: load.PaymentMode,
	}

	switch {
	case in.TruckAvailabilityID != nil:
		listing, err := s.validateListing(*in.TruckAvailabilityID, in.Headcount, in.WeightKg)
		if err != nil {
			return nil, err
		}
		booking.TruckAvailabilityID = in.TruckAvailabilityID
		booking.HaulerID = listing.HaulerID

	case in.OfferID != nil:
		offer, err := s.offers.GetByID(*in.OfferID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrBookingNotFound
			}
			return nil, err
		}
		if offer.LoadID != load.ID {
			return nil, ErrOfferLoadMismatch
		}
		if offer.Status != models.OfferPending {
			return nil, ErrOfferNotPending
		}
		booking.OfferID = in.OfferID
		booking.HaulerID = offer.HaulerID
	}

	if err := s.bookings.Create(booking); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	s.recompute(ctx, booking)

	q := &notification.Queue{}
	q.Add(notification.TopicBookingRequested, models.RoleHauler, models.JSON{
		"booking_id": booking.ID, "load_id": load.ID, "hauler_id": booking.HaulerID,
	})
	s.notifier.Dispatch(ctx, q)

	return booking, nil
}

// Respond is the hauler's answer to a requested booking. Accepting binds
// the contract: trip and payment are created in the same transaction that
// flips the booking status.
func (s *Service) Respond(ctx context.Context, actor models.Actor, bookingID uint, accept bool) (*models.Trip, error) {
	booking, err := s.get(bookingID)
	if err != nil {
		return nil, err
	}
	if booking.HaulerID != actor.UserID && !actor.IsAdmin() {
		return nil, ErrNotBookingHauler
	}

	if !accept {
		ok, err := s.bookings.TransitionStatus(bookingID, models.BookingRequested, models.BookingRejected)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrNotRequested
		}
		s.recompute(ctx, booking)

		q := &notification.Queue{}
		q.Add(notification.TopicBookingRejected, models.RoleShipper, models.JSON{"booking_id": bookingID})
		s.notifier.Dispatch(ctx, q)
		return nil, nil
	}

	kind, err := contract.ResolveBooking(booking)
	if err != nil {
		return nil, err
	}

	load, err := s.loads.GetByID(booking.LoadID)
	if err != nil {
		return nil, err
	}

	src := contract.Source{Kind: kind, Load: load, Booking: booking}
	if booking.OfferID != nil {
		offer, err := s.offers.GetByID(*booking.OfferID)
		if err != nil {
			return nil, err
		}
		src.Offer = offer
	}

	var trip *models.Trip
	err = s.db.Transaction(func(tx *gorm.DB) error {
		ok, err := s.bookings.WithTx(tx).TransitionStatus(bookingID, models.BookingRequested, models.BookingAccepted)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotRequested
		}

		if src.Offer != nil {
			ok, err := s.offers.WithTx(tx).TransitionStatus(src.Offer.ID, models.OfferPending, models.OfferAccepted)
			if err != nil {
				return err
			}
			if !ok {
				return ErrOfferNotPending
			}
		}

		trip, err = s.binder.Bind(tx, src)
		return err
	})
	if err != nil {
		return nil, err
	}

	// An accepted booking locks its listing; recompute reflects that.
	s.recompute(ctx, booking)

	q := &notification.Queue{}
	q.Add(notification.TopicBookingAccepted, models.RoleShipper, models.JSON{
		"booking_id": bookingID, "trip_id": trip.ID,
	})
	s.notifier.Dispatch(ctx, q)

	return trip, nil
}

// Cancel withdraws a requested booking at the shipper's request.
func (s *Service) Cancel(ctx context.Context, actor models.Actor, bookingID uint) error {
	booking, err := s.get(bookingID)
	if err != nil {
		return err
	}
	if booking.ShipperID != actor.UserID && !actor.IsAdmin() {
		return ErrNotLoadOwner
	}

	ok, err := s.bookings.TransitionStatus(bookingID, models.BookingRequested, models.BookingCancelled)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotRequested
	}

	s.recompute(ctx, booking)

	q := &notification.Queue{}
	q.Add(notification.TopicBookingCancelled, models.RoleHauler, models.JSON{"booking_id": bookingID})
	s.notifier.Dispatch(ctx, q)
	return nil
}

func (s *Service) ListByLoad(ctx context.Context, actor models.Actor, loadID uint) ([]models.Booking, error) {
	load, err := s.loads.GetByID(loadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLoadNotFound
		}
		return nil, err
	}
	if load.ShipperID != actor.UserID && !actor.IsAdmin() {
		return nil, ErrNotLoadOwner
	}
	return s.bookings.ListByLoad(loadID)
}

func (s *Service) ListMine(ctx context.Context, actor models.Actor) ([]models.Booking, error) {
	return s.bookings.ListByHauler(actor.UserID)
}

// validateListing checks a truck listing can take the requested capacity.
func (s *Service) validateListing(listingID uint, headcount, weightKg int) (*models.TruckAvailability, error) {
	listing, err := s.listings.GetByID(listingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, capacity.ErrListingNotFound
		}
		return nil, err
	}
	if !listing.Active {
		return nil, ErrListingInactive
	}

	blocked, err := s.trips.ExistsBlockingForTruck(listing.TruckID)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, ErrTruckOnActiveTrip
	}

	consuming, err := s.bookings.ListConsumingByAvailability(listingID)
	if err != nil {
		return nil, err
	}
	if !listing.AllowShared && len(consuming) > 0 {
		return nil, ErrListingExclusive
	}
	if !capacity.ProjectedFit(listing, consuming, headcount, weightKg) {
		return nil, ErrInsufficientCapacity
	}
	return listing, nil
}

// recompute refreshes the listing's derived active flag after a booking
// state change. Best effort: the flag converges on the next recompute.
func (s *Service) recompute(ctx context.Context, booking *models.Booking) {
	if booking.TruckAvailabilityID == nil {
		return
	}
	if _, err := s.tracker.Recompute(ctx, *booking.TruckAvailabilityID); err != nil {
		log.Printf("capacity recompute for listing %d failed: %v", *booking.TruckAvailabilityID, err)
	}
}

func (s *Service) get(bookingID uint) (*models.Booking, error) {
	booking, err := s.bookings.GetByID(bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return booking, nil
}
