// Package escrow owns funds custody for trips: provider intent attachment,
// webhook-driven funding, auto-release scheduling, and the atomic
// finalization that settles payment, trip and load together.
package escrow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"drover/internal/models"
	"drover/internal/repositories"
	"drover/internal/services/notification"

	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/paymentintent"
	"gorm.io/gorm"
)

// Provider webhook events the engine understands.
const (
	EventIntentSucceeded = "payment_intent.succeeded"
	EventIntentFailed    = "payment_intent.payment_failed"
)

// IntentClient abstracts the payment provider; stripeClient is the
// production implementation.
type IntentClient interface {
	NewIntent(amountCents int64, currency string) (string, error)
}

type stripeClient struct{}

func NewStripeClient(secretKey string) IntentClient {
	stripe.Key = secretKey
	return stripeClient{}
}

func (stripeClient) NewIntent(amountCents int64, currency string) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountCents),
		Currency: stripe.String(strings.ToLower(currency)),
	}
	pi, err := paymentintent.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe intent creation failed: %w", err)
	}
	return pi.ID, nil
}

type Service struct {
	payments repositories.PaymentRepository
	trips    repositories.TripRepository
	loads    repositories.LoadRepository
	disputes repositories.DisputeRepository
	intents  IntentClient
	notifier *notification.Service
	db       repositories.TxRunner
}

func NewService(
	payments repositories.PaymentRepository,
	trips repositories.TripRepository,
	loads repositories.LoadRepository,
	disputes repositories.DisputeRepository,
	intents IntentClient,
	notifier *notification.Service,
	db repositories.TxRunner,
) *Service {
	return &Service{
		payments: payments,
		trips:    trips,
		loads:    loads,
		disputes: disputes,
		intents:  intents,
		notifier: notifier,
		db:       db,
	}
}

// AttachIntent creates a provider payment-intent for an escrow trip's
// payment. Idempotent: a payment that already carries an intent returns it.
func (s *Service) AttachIntent(ctx context.Context, actor models.Actor, tripID uint) (*models.Payment, error) {
	_, payment, err := s.getEscrowPair(tripID)
	if err != nil {
		return nil, err
	}
	if payment.PayerID != actor.UserID && !actor.IsAdmin() {
		return nil, ErrNotPayer
	}
	if payment.Status != models.PaymentAwaitingFunding {
		return nil, ErrNotAwaitingFunding
	}
	if payment.ProviderRef != "" {
		return payment, nil
	}

	ref, err := s.intents.NewIntent(payment.AmountCents, payment.Currency)
	if err != nil {
		return nil, err
	}
	payment.ProviderRef = ref
	if err := s.payments.Update(payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// HandleProviderEvent maps a webhook (intent_id, event) pair onto the
// payment lifecycle. Safe to re-invoke: funding uses a guarded update, so a
// replayed success event is a no-op.
func (s *Service) HandleProviderEvent(ctx context.Context, intentID, event string) error {
	payment, err := s.payments.GetByProviderRef(intentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUnknownIntent
		}
		return err
	}

	switch event {
	case EventIntentSucceeded:
		return s.markFunded(ctx, payment)
	case EventIntentFailed:
		// Funding stays pending; the payer retries through a new intent.
		return nil
	default:
		return nil
	}
}

// markFunded advances payment and trip together: escrow funding is what
// makes a pending trip startable.
func (s *Service) markFunded(ctx context.Context, payment *models.Payment) error {
	funded := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		ok, err := s.payments.WithTx(tx).TransitionStatus(payment.ID,
			models.PaymentAwaitingFunding, models.PaymentEscrowFunded, nil)
		if err != nil {
			return err
		}
		if !ok {
			// Already funded by an earlier delivery of the same event.
			return nil
		}
		funded = true
		_, err = s.trips.WithTx(tx).TransitionStatus(payment.TripID,
			models.TripPendingEscrow, models.TripReadyToStart, nil)
		return err
	})
	if err != nil {
		return err
	}
	if !funded {
		// A replayed webhook must not announce the funding twice.
		return nil
	}

	q := &notification.Queue{}
	q.Add(notification.TopicPaymentFunded, "", models.JSON{
		"payment_id": payment.ID, "trip_id": payment.TripID,
	})
	s.notifier.Dispatch(ctx, q)
	return nil
}

// ScheduleRelease sets the auto-release timestamp on a funded escrow.
func (s *Service) ScheduleRelease(ctx context.Context, actor models.Actor, tripID uint, at time.Time) (*models.Payment, error) {
	_, payment, err := s.getEscrowPair(tripID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		return nil, ErrAdminOnly
	}
	if payment.Status != models.PaymentEscrowFunded {
		return nil, ErrNotFunded
	}
	if err := s.payments.SetAutoRelease(payment.ID, &at); err != nil {
		return nil, err
	}
	payment.AutoReleaseAt = &at
	return payment, nil
}

// ClearRelease removes a pending auto-release.
func (s *Service) ClearRelease(ctx context.Context, actor models.Actor, tripID uint) error {
	_, payment, err := s.getEscrowPair(tripID)
	if err != nil {
		return err
	}
	if !actor.IsAdmin() {
		return ErrAdminOnly
	}
	return s.payments.SetAutoRelease(payment.ID, nil)
}

// ChangePaymentMode exists so the boundary can answer mode-toggle attempts
// with the dedicated conflict: the mode is fixed at trip creation, always.
func (s *Service) ChangePaymentMode(ctx context.Context, actor models.Actor, tripID uint, mode models.PaymentMode) error {
	if _, err := s.trips.GetByID(tripID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTripNotFound
		}
		return err
	}
	return ErrPaymentModeImmutable
}

// ReleaseNow finalizes a funded escrow immediately (administrator action).
func (s *Service) ReleaseNow(ctx context.Context, actor models.Actor, tripID uint) (*models.Payment, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminOnly
	}
	_, payment, err := s.getEscrowPair(tripID)
	if err != nil {
		return nil, err
	}

	blocked, err := s.disputes.HasActiveByPayment(payment.ID, 0)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, ErrDisputeBlocksRelease
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		return s.FinalizeLifecycle(tx, payment, models.PaymentReleased, 0, 0)
	})
	if err != nil {
		return nil, err
	}

	q := &notification.Queue{}
	q.Add(notification.TopicPaymentReleased, models.RoleHauler, models.JSON{
		"payment_id": payment.ID, "trip_id": payment.TripID,
	})
	s.notifier.Dispatch(ctx, q)

	return s.payments.GetByID(payment.ID)
}

// GetPayment returns the custody record for a trip visible to its parties.
func (s *Service) GetPayment(ctx context.Context, actor models.Actor, tripID uint) (*models.Payment, error) {
	payment, err := s.payments.GetByTripID(tripID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	if payment.PayerID != actor.UserID && payment.PayeeID != actor.UserID && !actor.IsAdmin() {
		return nil, ErrPaymentNotFound
	}
	return payment, nil
}

// GetDirectReceipt returns the off-platform settlement record of a direct
// trip.
func (s *Service) GetDirectReceipt(ctx context.Context, actor models.Actor, tripID uint) (*models.DirectPaymentReceipt, error) {
	payment, err := s.GetPayment(ctx, actor, tripID)
	if err != nil {
		return nil, err
	}
	receipt, err := s.payments.GetReceiptByTripID(payment.TripID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return receipt, nil
}

// FinalizeLifecycle settles payment, trip and load inside the caller's
// transaction: the payment reaches its terminal status, the trip closes and
// the load completes. No partial update is ever observable.
func (s *Service) FinalizeLifecycle(tx *gorm.DB, payment *models.Payment, outcome models.PaymentStatus, toHaulerCents, toShipperCents int64) error {
	extra := map[string]interface{}{"auto_release_at": nil}
	if outcome == models.PaymentSplit {
		extra["split_to_hauler_cents"] = toHaulerCents
		extra["split_to_shipper_cents"] = toShipperCents
	}

	ok, err := s.payments.WithTx(tx).TransitionStatus(payment.ID,
		models.PaymentEscrowFunded, outcome, extra)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFunded
	}

	if _, err := s.trips.WithTx(tx).Close(payment.TripID); err != nil {
		return err
	}
	return s.loads.WithTx(tx).SetStatus(payment.LoadID, models.LoadCompleted)
}

// getEscrowPair loads the trip and its payment, asserting escrow mode
// first: every escrow operation on a direct trip fails with the dedicated
// escrow-disabled conflict.
func (s *Service) getEscrowPair(tripID uint) (*models.Trip, *models.Payment, error) {
	trip, err := s.trips.GetByID(tripID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrTripNotFound
		}
		return nil, nil, err
	}
	if trip.PaymentMode != models.PaymentModeEscrow {
		return nil, nil, ErrEscrowDisabled
	}
	payment, err := s.payments.GetByTripID(tripID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrPaymentNotFound
		}
		return nil, nil, err
	}
	return trip, payment, nil
}
