// Package dispute suspends and settles contested escrow trips. Opening a
// dispute freezes the auto-release clock; resolution hands the escrowed
// funds to one side or splits them exactly.
package dispute

import (
	"context"
	"errors"
	"time"

	"drover/internal/models"
	"drover/internal/repositories"
	"drover/internal/services/escrow"
	"drover/internal/services/notification"

	"gorm.io/gorm"
)

var validReasons = map[string]bool{
	models.DisputeReasonDamaged:     true,
	models.DisputeReasonShortCount:  true,
	models.DisputeReasonLate:        true,
	models.DisputeReasonNonDelivery: true,
	models.DisputeReasonOther:       true,
}

var validActions = map[string]bool{
	models.DisputeActionRefund:  true,
	models.DisputeActionRelease: true,
	models.DisputeActionSplit:   true,
}

type Service struct {
	disputes      repositories.DisputeRepository
	trips         repositories.TripRepository
	loads         repositories.LoadRepository
	payments      repositories.PaymentRepository
	escrow        *escrow.Service
	notifier      *notification.Service
	db            repositories.TxRunner
	releaseWindow time.Duration
}

func NewService(
	disputes repositories.DisputeRepository,
	trips repositories.TripRepository,
	loads repositories.LoadRepository,
	payments repositories.PaymentRepository,
	escrowSvc *escrow.Service,
	notifier *notification.Service,
	db repositories.TxRunner,
	releaseWindow time.Duration,
) *Service {
	return &Service{
		disputes:      disputes,
		trips:         trips,
		loads:         loads,
		payments:      payments,
		escrow:        escrowSvc,
		notifier:      notifier,
		db:            db,
		releaseWindow: releaseWindow,
	}
}

// OpenInput carries the shipper's or hauler's grievance.
type OpenInput struct {
	Reason          string
	Description     string
	RequestedAction string
}

// Open raises a dispute on a delivered escrow trip. The trip moves to
// disputed and any pending auto-release is cleared in the same transaction,
// so the sweep can never race a freshly opened dispute.
func (s *Service) Open(ctx context.Context, actor models.Actor, tripID uint, in OpenInput) (*models.Dispute, error) {
	if !validReasons[in.Reason] {
		return nil, ErrInvalidReason
	}
	if in.RequestedAction != "" && !validActions[in.RequestedAction] {
		return nil, ErrInvalidAction
	}
	if in.Description == "" {
		return nil, ErrDescriptionMissing
	}

	trip, load, err := s.getTripWithLoad(tripID)
	if err != nil {
		return nil, err
	}
	role, err := s.partyRole(actor, trip, load)
	if err != nil {
		return nil, err
	}

	if trip.PaymentMode != models.PaymentModeEscrow {
		return nil, ErrDirectTrip
	}
	if !trip.Status.Delivered() {
		return nil, ErrNotDelivered
	}

	payment, err := s.payments.GetByTripID(tripID)
	if err != nil {
		return nil, err
	}
	if payment.Status != models.PaymentEscrowFunded {
		return nil, ErrEscrowNotFunded
	}

	exists, err := s.disputes.HasActiveByPayment(payment.ID, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDisputeExists
	}

	dispute := &models.Dispute{
		TripID:          tripID,
		PaymentID:       payment.ID,
		OpenedBy:        actor.UserID,
		OpenerRole:      role,
		Status:          models.DisputeOpen,
		Reason:          in.Reason,
		Description:     in.Description,
		RequestedAction: in.RequestedAction,
	}

	// Snapshot the status the guard must match; the trip was re-read above.
	from := trip.Status
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.disputes.WithTx(tx).Create(dispute); err != nil {
			return err
		}
		ok, err := s.trips.WithTx(tx).TransitionStatus(tripID, from, models.TripDisputed, nil)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotDelivered
		}
		return s.payments.WithTx(tx).SetAutoRelease(payment.ID, nil)
	})
	if err != nil {
		return nil, err
	}

	q := &notification.Queue{}
	q.Add(notification.TopicDisputeOpened, models.RoleAdmin, models.JSON{
		"dispute_id": dispute.ID, "trip_id": tripID, "reason": in.Reason,
	})
	s.notifier.Dispatch(ctx, q)

	return dispute, nil
}

// StartReview is the admin acknowledging the case.
func (s *Service) StartReview(ctx context.Context, actor models.Actor, disputeID uint) (*models.Dispute, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminOnly
	}
	dispute, err := s.get(disputeID)
	if err != nil {
		return nil, err
	}
	ok, err := s.disputes.TransitionStatus(disputeID, models.DisputeOpen, models.DisputeUnderReview, nil)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotOpen
	}
	dispute.Status = models.DisputeUnderReview
	return dispute, nil
}

// ResolveRelease settles the dispute with the full escrow going to the
// hauler.
func (s *Service) ResolveRelease(ctx context.Context, actor models.Actor, disputeID uint) (*models.Dispute, error) {
	return s.resolve(ctx, actor, disputeID, models.DisputeResolvedRelease, models.PaymentReleased, 0, 0)
}

// ResolveRefund settles the dispute with the full escrow returned to the
// shipper.
func (s *Service) ResolveRefund(ctx context.Context, actor models.Actor, disputeID uint) (*models.Dispute, error) {
	return s.resolve(ctx, actor, disputeID, models.DisputeResolvedRefund, models.PaymentRefunded, 0, 0)
}

// ResolveSplit divides the escrow between the parties. The two amounts must
// be non-negative and sum to exactly the escrowed amount; no cent is ever
// created or lost.
func (s *Service) ResolveSplit(ctx context.Context, actor models.Actor, disputeID uint, toHaulerCents, toShipperCents int64) (*models.Dispute, error) {
	return s.resolve(ctx, actor, disputeID, models.DisputeResolvedSplit, models.PaymentSplit, toHaulerCents, toShipperCents)
}

func (s *Service) resolve(
	ctx context.Context,
	actor models.Actor,
	disputeID uint,
	verdict models.DisputeStatus,
	outcome models.PaymentStatus,
	toHaulerCents, toShipperCents int64,
) (*models.Dispute, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminOnly
	}
	dispute, err := s.get(disputeID)
	if err != nil {
		return nil, err
	}
	if dispute.Status != models.DisputeUnderReview {
		return nil, ErrNotUnderReview
	}

	payment, err := s.payments.GetByID(dispute.PaymentID)
	if err != nil {
		return nil, err
	}
	if outcome == models.PaymentSplit {
		if toHaulerCents < 0 || toShipperCents < 0 ||
			toHaulerCents+toShipperCents != payment.AmountCents {
			return nil, ErrSplitMismatch
		}
	}

	now := time.Now()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		extra := map[string]interface{}{
			"resolved_by": actor.UserID,
			"resolved_at": now,
		}
		if outcome == models.PaymentSplit {
			extra["amount_to_hauler_cents"] = toHaulerCents
			extra["amount_to_shipper_cents"] = toShipperCents
		}
		ok, err := s.disputes.WithTx(tx).TransitionStatus(disputeID,
			models.DisputeUnderReview, verdict, extra)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotUnderReview
		}
		return s.escrow.FinalizeLifecycle(tx, payment, outcome, toHaulerCents, toShipperCents)
	})
	if err != nil {
		return nil, err
	}

	q := &notification.Queue{}
	q.Add(notification.TopicDisputeResolved, "", models.JSON{
		"dispute_id": disputeID, "trip_id": dispute.TripID, "verdict": string(verdict),
	})
	s.notifier.Dispatch(ctx, q)

	return s.disputes.GetByID(disputeID)
}

// Cancel withdraws an open dispute. If no other active dispute remains on
// the payment, the trip returns to its pre-dispute delivered state and a
// still-funded escrow gets a fresh auto-release window.
func (s *Service) Cancel(ctx context.Context, actor models.Actor, disputeID uint) (*models.Dispute, error) {
	dispute, err := s.get(disputeID)
	if err != nil {
		return nil, err
	}
	if dispute.OpenedBy != actor.UserID && !actor.IsAdmin() {
		return nil, ErrNotOpener
	}

	trip, err := s.trips.GetByID(dispute.TripID)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		ok, err := s.disputes.WithTx(tx).TransitionStatus(disputeID,
			models.DisputeOpen, models.DisputeCancelled, nil)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotOpen
		}

		remaining, err := s.disputes.WithTx(tx).HasActiveByPayment(dispute.PaymentID, disputeID)
		if err != nil {
			return err
		}
		if remaining {
			return nil
		}

		// Restore the delivered state the dispute interrupted.
		restored := models.TripDeliveredPending
		if trip.ConfirmedAt != nil {
			restored = models.TripConfirmed
		}
		if _, err := s.trips.WithTx(tx).TransitionStatus(dispute.TripID,
			models.TripDisputed, restored, nil); err != nil {
			return err
		}

		if restored == models.TripConfirmed {
			payment, err := s.payments.WithTx(tx).GetByID(dispute.PaymentID)
			if err != nil {
				return err
			}
			if payment.Status == models.PaymentEscrowFunded {
				releaseAt := time.Now().Add(s.releaseWindow)
				return s.payments.WithTx(tx).SetAutoRelease(payment.ID, &releaseAt)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.disputes.GetByID(disputeID)
}

// AddMessage posts to the dispute's directed channel. Parties always talk
// to the admin; only the admin picks a recipient.
func (s *Service) AddMessage(ctx context.Context, actor models.Actor, disputeID uint, recipient, body string) (*models.DisputeMessage, error) {
	if body == "" {
		return nil, ErrEmptyMessage
	}
	dispute, err := s.get(disputeID)
	if err != nil {
		return nil, err
	}

	trip, load, err := s.getTripWithLoad(dispute.TripID)
	if err != nil {
		return nil, err
	}

	var role string
	if actor.IsAdmin() {
		role = models.RoleAdmin
		switch recipient {
		case models.RecipientShipper, models.RecipientHauler, models.RecipientAll:
		default:
			return nil, ErrInvalidRecipient
		}
	} else {
		role, err = s.partyRole(actor, trip, load)
		if err != nil {
			return nil, err
		}
		recipient = models.RecipientAdmin
	}

	msg := &models.DisputeMessage{
		DisputeID:  disputeID,
		SenderID:   actor.UserID,
		SenderRole: role,
		Recipient:  recipient,
		Body:       body,
	}
	if err := s.disputes.CreateMessage(msg); err != nil {
		return nil, err
	}

	q := &notification.Queue{}
	q.Add(notification.TopicDisputeMessage, recipient, models.JSON{
		"dispute_id": disputeID, "message_id": msg.ID,
	})
	s.notifier.Dispatch(ctx, q)

	return msg, nil
}

func (s *Service) ListMessages(ctx context.Context, actor models.Actor, disputeID uint) ([]models.DisputeMessage, error) {
	dispute, err := s.get(disputeID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		trip, load, err := s.getTripWithLoad(dispute.TripID)
		if err != nil {
			return nil, err
		}
		if _, err := s.partyRole(actor, trip, load); err != nil {
			return nil, err
		}
	}
	return s.disputes.ListMessages(disputeID)
}

func (s *Service) Get(ctx context.Context, actor models.Actor, disputeID uint) (*models.Dispute, error) {
	dispute, err := s.get(disputeID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		trip, load, err := s.getTripWithLoad(dispute.TripID)
		if err != nil {
			return nil, err
		}
		if _, err := s.partyRole(actor, trip, load); err != nil {
			return nil, err
		}
	}
	return dispute, nil
}

func (s *Service) ListByTrip(ctx context.Context, actor models.Actor, tripID uint) ([]models.Dispute, error) {
	if !actor.IsAdmin() {
		trip, load, err := s.getTripWithLoad(tripID)
		if err != nil {
			return nil, err
		}
		if _, err := s.partyRole(actor, trip, load); err != nil {
			return nil, err
		}
	}
	return s.disputes.ListByTrip(tripID)
}

// partyRole identifies the caller's side of the trip: shipper, hauler or
// nothing.
func (s *Service) partyRole(actor models.Actor, trip *models.Trip, load *models.Load) (string, error) {
	switch actor.UserID {
	case load.ShipperID:
		return models.RoleShipper, nil
	case trip.HaulerID:
		return models.RoleHauler, nil
	}
	return "", ErrNotTripParty
}

func (s *Service) get(disputeID uint) (*models.Dispute, error) {
	dispute, err := s.disputes.GetByID(disputeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDisputeNotFound
		}
		return nil, err
	}
	return dispute, nil
}

func (s *Service) getTripWithLoad(tripID uint) (*models.Trip, *models.Load, error) {
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
