// Package trip owns the physical-fulfillment state machine of a matched
// load. Every transition is a state-guarded update: if the guard no longer
// matches, the update is a no-op and the caller gets a conflict error to
// re-read current state.
package trip

import (
	"context"
	"errors"
	"time"

	"drover/internal/models"
	"drover/internal/repositories"
	"drover/internal/services/notification"

	"gorm.io/gorm"
)

// DefaultReleaseWindow is how long a confirmed escrow sits before the
// auto-release sweep may finalize it.
const DefaultReleaseWindow = 24 * time.Hour

type Service struct {
	trips         repositories.TripRepository
	loads         repositories.LoadRepository
	payments      repositories.PaymentRepository
	notifier      *notification.Service
	db            repositories.TxRunner
	releaseWindow time.Duration
}

func NewService(
	trips repositories.TripRepository,
	loads repositories.LoadRepository,
	payments repositories.PaymentRepository,
	notifier *notification.Service,
	db repositories.TxRunner,
	releaseWindow time.Duration,
) *Service {
	if releaseWindow <= 0 {
		releaseWindow = DefaultReleaseWindow
	}
	return &Service{
		trips:         trips,
		loads:         loads,
		payments:      payments,
		notifier:      notifier,
		db:            db,
		releaseWindow: releaseWindow,
	}
}

func (s *Service) Get(ctx context.Context, actor models.Actor, tripID uint) (*models.Trip, error) {
	trip, load, err := s.getWithLoad(tripID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(actor, trip, load); err != nil {
		return nil, err
	}
	return trip, nil
}

func (s *Service) ListMine(ctx context.Context, actor models.Actor) ([]models.Trip, error) {
	return s.trips.ListByHauler(actor.UserID)
}

// AssignDriver sets the driver and vehicle before the trip starts.
func (s *Service) AssignDriver(ctx context.Context, actor models.Actor, tripID, driverID uint, vehicleRef string) (*models.Trip, error) {
	trip, _, err := s.getWithLoad(tripID)
	if err != nil {
		return nil, err
	}
	if trip.HaulerID != actor.UserID && !actor.IsAdmin() {
		return nil, ErrNotTripHauler
	}
	if trip.Status != models.TripPendingEscrow && trip.Status != models.TripReadyToStart {
		return nil, ErrAlreadyStarted
	}

	trip.DriverID = &driverID
	if vehicleRef != "" {
		trip.VehicleRef = vehicleRef
	}
	if err := s.trips.Update(trip); err != nil {
		return nil, err
	}
	return trip, nil
}

// Start moves the trip into progress and the load into transit. Escrow
// trips must be funded first; direct trips start straight from
// PendingEscrow with no payment check at all.
func (s *Service) Start(ctx context.Context, actor models.Actor, tripID uint) (*models.Trip, error) {
	trip, load, err := s.getWithLoad(tripID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(actor, trip, load); err != nil {
		return nil, err
	}

	from := models.TripReadyToStart
	if trip.PaymentMode == models.PaymentModeDirect && trip.Status == models.TripPendingEscrow {
		from = models.TripPendingEscrow
	}

	now := time.Now()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		ok, err := s.trips.WithTx(tx).TransitionStatus(tripID, from, models.TripInProgress,
			map[string]interface{}{"started_at": now})
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotStartable
		}
		// Dual write: the load follows the trip into transit.
		if _, err := s.loads.WithTx(tx).TransitionStatus(load.ID, models.LoadAwaitingEscrow, models.LoadInTransit); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	q := &notification.Queue{}
	q.Add(notification.TopicTripStarted, "", models.JSON{"trip_id": tripID, "load_id": load.ID})
	s.notifier.Dispatch(ctx, q)

	return s.trips.GetByID(tripID)
}

// MarkDelivered records physical arrival, awaiting shipper confirmation.
func (s *Service) MarkDelivered(ctx context.Context, actor models.Actor, tripID uint) (*models.Trip, error) {
	trip, load, err := s.getWithLoad(tripID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && actor.UserID != trip.HaulerID &&
		(trip.DriverID == nil || actor.UserID != *trip.DriverID) {
		return nil, ErrNotTripHauler
	}

	now := time.Now()
	ok, err := s.trips.TransitionStatus(tripID, models.TripInProgress, models.TripDeliveredPending,
		map[string]interface{}{"delivered_at": now})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotInProgress
	}

	q := &notification.Queue{}
	q.Add(notification.TopicTripDelivered, models.RoleShipper, models.JSON{
		"trip_id": tripID, "load_id": load.ID,
	})
	s.notifier.Dispatch(ctx, q)

	return s.trips.GetByID(tripID)
}

// ConfirmInput carries the optional direct-settlement details the shipper
// may attach when confirming a direct-mode delivery.
type ConfirmInput struct {
	ReceiptMethod    string
	ReceiptReference string
}

// ConfirmDelivery is the shipper's acknowledgement. Escrow trips require a
// funded payment and get an auto-release window scheduled; direct trips get
// a settlement receipt and close immediately.
func (s *Service) ConfirmDelivery(ctx context.Context, actor models.Actor, tripID uint, in ConfirmInput) (*models.Trip, error) {
	trip, load, err := s.getWithLoad(tripID)
	if err != nil {
		return nil, err
	}
	if load.ShipperID != actor.UserID && !actor.IsAdmin() {
		return nil, ErrNotLoadShipper
	}

	payment, err := s.payments.GetByTripID(tripID)
	if err != nil {
		return nil, err
	}

	if trip.PaymentMode == models.PaymentModeEscrow && payment.Status != models.PaymentEscrowFunded {
		return nil, ErrEscrowNotFunded
	}

	now := time.Now()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		trips := s.trips.WithTx(tx)
		loads := s.loads.WithTx(tx)
		payments := s.payments.WithTx(tx)

		ok, err := trips.TransitionStatus(tripID, models.TripDeliveredPending, models.TripConfirmed,
			map[string]interface{}{"confirmed_at": now})
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotAwaitingConfirmation
		}

		if trip.PaymentMode == models.PaymentModeEscrow {
			releaseAt := now.Add(s.releaseWindow)
			if err := payments.SetAutoRelease(payment.ID, &releaseAt); err != nil {
				return err
			}
			return loads.SetStatus(load.ID, models.LoadDelivered)
		}

		// Direct mode: record the off-platform settlement and close out.
		receipt := &models.DirectPaymentReceipt{
			TripID:      tripID,
			PaymentID:   payment.ID,
			AmountCents: payment.AmountCents,
			Method:      in.ReceiptMethod,
			Reference:   in.ReceiptReference,
			ReceivedAt:  now,
		}
		if err := payments.CreateReceipt(receipt); err != nil {
			return err
		}
		if _, err := trips.TransitionStatus(tripID, models.TripConfirmed, models.TripClosed, nil); err != nil {
			return err
		}
		return loads.SetStatus(load.ID, models.LoadCompleted)
	})
	if err != nil {
		return nil, err
	}

	q := &notification.Queue{}
	q.Add(notification.TopicTripConfirmed, "", models.JSON{"trip_id": tripID, "load_id": load.ID})
	s.notifier.Dispatch(ctx, q)

	return s.trips.GetByID(tripID)
}

// authorize restricts transitions to the assigned hauler/driver, the
// shipper of the underlying load, or an administrator.
func (s *Service) authorize(actor models.Actor, trip *models.Trip, load *models.Load) error {
	if actor.IsAdmin() {
		return nil
	}
	if actor.UserID == trip.HaulerID || actor.UserID == load.ShipperID {
		return nil
	}
	if trip.DriverID != nil && actor.UserID == *trip.DriverID {
		return nil
	}
	return ErrNotAuthorized
}

func (s *Service) getWithLoad(tripID uint) (*models.Trip, *models.Load, error) {
	trip, err := s.trips.GetByID(tripID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrTripNotFound
		}
		return nil, nil, err
	}
	load, err := s.loads.GetByID(trip.LoadID)
	if err != nil {
		return nil, nil, err
	}
	return trip, load, nil
}
