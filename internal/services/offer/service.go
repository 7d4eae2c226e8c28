// Package offer implements hauler bids on loads: creation, negotiation
// messaging, withdrawal/rejection, and acceptance into a trip.
package offer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"drover/internal/models"
	"drover/internal/repositories"
	"drover/internal/services/contract"
	"drover/internal/services/notification"

	"gorm.io/gorm"
)

type Service struct {
	offers   repositories.OfferRepository
	loads    repositories.LoadRepository
	users    repositories.UserRepository
	binder   *contract.Binder
	notifier *notification.Service
	db       repositories.TxRunner
}

func NewService(
	offers repositories.OfferRepository,
	loads repositories.LoadRepository,
	users repositories.UserRepository,
	binder *contract.Binder,
	notifier *notification.Service,
	db repositories.TxRunner,
) *Service {
	return &Service{
		offers:   offers,
		loads:    loads,
		users:    users,
		binder:   binder,
		notifier: notifier,
		db:       db,
	}
}

type CreateInput struct {
	LoadID      uint
	AmountCents int64
	Currency    string
	Message     string
	ExpiresAt   *time.Time
}

// Create places a hauler bid on a published load. The offer, its
// application message and the re-armed reply gate land in one transaction,
// so an offer is never visible without the message that motivated it.
func (s *Service) Create(ctx context.Context, actor models.Actor, in CreateInput) (*models.Offer, error) {
	if in.AmountCents <= 0 {
		return nil, ErrInvalidAmount
	}

	load, err := s.loads.GetByID(in.LoadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLoadNotFound
		}
		return nil, err
	}
	if load.Status != models.LoadPublished {
		return nil, ErrLoadNotOpen
	}
	if load.ShipperID == actor.UserID {
		return nil, ErrOwnLoad
	}

	exists, err := s.offers.HasActiveByHaulerAndLoad(actor.UserID, load.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrActiveOfferExists
	}

	currency := in.Currency
	if currency == "" {
		currency = load.Currency
	}

	offer := &models.Offer{
		LoadID:      load.ID,
		HaulerID:    actor.UserID,
		CreatedBy:   actor.UserID,
		AmountCents: in.AmountCents,
		Currency:    currency,
		Message:     in.Message,
		Status:      models.OfferPending,
		ExpiresAt:   in.ExpiresAt,
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		offers := s.offers.WithTx(tx)
		if err := offers.Create(offer); err != nil {
			return fmt.Errorf("failed to create offer: %w", err)
		}
		if in.Message == "" {
			return nil
		}

		// Initial application message bypasses the gate.
		msg := &models.OfferMessage{
			OfferID:  offer.ID,
			SenderID: actor.UserID,
			Role:     models.RoleHauler,
			Body:     in.Message,
		}
		if err := offers.CreateMessage(msg); err != nil {
			return err
		}
		// Re-arm so the hauler cannot follow up before the shipper replies.
		if err := offers.SetAwaitingReply(offer.ID, true); err != nil {
			return err
		}
		offer.AwaitingShipperReply = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	q := &notification.Queue{}
	q.Add(notification.TopicOfferCreated, models.RoleShipper, models.JSON{
		"offer_id": offer.ID, "load_id": load.ID, "hauler_id": offer.HaulerID,
		"amount_cents": offer.AmountCents,
	})
	s.notifier.Dispatch(ctx, q)

	return offer, nil
}

type UpdateInput struct {
	AmountCents *int64
	Message     *string
	ExpiresAt   *time.Time
}

// Update edits a pending offer's negotiable fields. Only the creator may
// edit, and only while the offer is still pending.
func (s *Service) Update(ctx context.Context, actor models.Actor, offerID uint, in UpdateInput) (*models.Offer, error) {
	offer, err := s.get(offerID)
	if err != nil {
		return nil, err
	}
	if offer.CreatedBy != actor.UserID && !actor.IsAdmin() {
		return nil, ErrNotOfferOwner
	}
	if offer.Status != models.OfferPending {
		return nil, ErrNotPending
	}

	if in.AmountCents != nil {
		if *in.AmountCents <= 0 {
			return nil, ErrInvalidAmount
		}
		offer.AmountCents = *in.AmountCents
	}
	if in.Message != nil {
		offer.Message = *in.Message
	}
	if in.ExpiresAt != nil {
		offer.ExpiresAt = in.ExpiresAt
	}

	if err := s.offers.Update(offer); err != nil {
		return nil, err
	}
	return offer, nil
}

// Withdraw terminates a pending offer at the hauler's request.
func (s *Service) Withdraw(ctx context.Context, actor models.Actor, offerID uint) error {
	offer, err := s.get(offerID)
	if err != nil {
		return err
	}
	if offer.HaulerID != actor.UserID && !actor.IsAdmin() {
		return ErrNotOfferOwner
	}

	ok, err := s.offers.TransitionStatus(offerID, models.OfferPending, models.OfferWithdrawn)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotPending
	}

	q := &notification.Queue{}
	q.Add(notification.TopicOfferWithdrawn, models.RoleShipper, models.JSON{"offer_id": offerID})
	s.notifier.Dispatch(ctx, q)
	return nil
}

// Reject terminates a pending offer at the shipper's request.
func (s *Service) Reject(ctx context.Context, actor models.Actor, offerID uint) error {
	offer, err := s.get(offerID)
	if err != nil {
		return err
	}
	load, err := s.loads.GetByID(offer.LoadID)
	if err != nil {
		return err
	}
	if load.ShipperID != actor.UserID && !actor.IsAdmin() {
		return ErrNotLoadOwner
	}

	ok, err := s.offers.TransitionStatus(offerID, models.OfferPending, models.OfferRejected)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotPending
	}

	q := &notification.Queue{}
	q.Add(notification.TopicOfferRejected, models.RoleHauler, models.JSON{"offer_id": offerID})
	s.notifier.Dispatch(ctx, q)
	return nil
}

// Accept awards the load to the offer: the offer moves to Accepted, every
// sibling pending offer expires, and the trip and payment are created — all
// in one transaction.
func (s *Service) Accept(ctx context.Context, actor models.Actor, offerID uint) (*models.Trip, error) {
	offer, err := s.get(offerID)
	if err != nil {
		return nil, err
	}
	load, err := s.loads.GetByID(offer.LoadID)
	if err != nil {
		return nil, err
	}
	if load.ShipperID != actor.UserID && !actor.IsAdmin() {
		return nil, ErrNotLoadOwner
	}
	if load.Status != models.LoadPublished {
		return nil, ErrLoadNotOpen
	}

	// Subscription gate applies on the acceptance path only; truck-listing
	// bookings are deliberately not gated here.
	hauler, err := s.users.GetByID(offer.HaulerID)
	if err != nil {
		return nil, err
	}
	if hauler.Role == models.RoleHauler && !hauler.CanAcceptWork(time.Now()) {
		return nil, ErrSubscriptionRequired
	}

	var trip *models.Trip
	err = s.db.Transaction(func(tx *gorm.DB) error {
		ok, err := s.offers.WithTx(tx).TransitionStatus(offerID, models.OfferPending, models.OfferAccepted)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotPending
		}

		trip, err = s.binder.Bind(tx, contract.Source{
			Kind:  contract.OfferBacked,
			Load:  load,
			Offer: offer,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	q := &notification.Queue{}
	q.Add(notification.TopicOfferAccepted, models.RoleHauler, models.JSON{
		"offer_id": offerID, "load_id": load.ID, "trip_id": trip.ID,
	})
	s.notifier.Dispatch(ctx, q)

	return trip, nil
}

// SendMessage appends to the offer's negotiation chat under first-message
// gating: a hauler may not send again until the shipper has replied.
func (s *Service) SendMessage(ctx context.Context, actor models.Actor, offerID uint, body string) (*models.OfferMessage, error) {
	offer, err := s.get(offerID)
	if err != nil {
		return nil, err
	}
	load, err := s.loads.GetByID(offer.LoadID)
	if err != nil {
		return nil, err
	}

	var role string
	switch actor.UserID {
	case offer.HaulerID:
		role = models.RoleHauler
	case load.ShipperID:
		role = models.RoleShipper
	default:
		if !actor.IsAdmin() {
			return nil, ErrNotParticipant
		}
		role = models.RoleAdmin
	}

	if role == models.RoleHauler && offer.AwaitingShipperReply {
		return nil, ErrAwaitingReply
	}

	msg := &models.OfferMessage{
		OfferID:  offerID,
		SenderID: actor.UserID,
		Role:     role,
		Body:     body,
	}
	if err := s.offers.CreateMessage(msg); err != nil {
		return nil, err
	}

	switch role {
	case models.RoleHauler:
		err = s.offers.SetAwaitingReply(offerID, true)
	case models.RoleShipper:
		err = s.offers.SetAwaitingReply(offerID, false)
	}
	if err != nil {
		return nil, err
	}
	return msg, nil
}

func (s *Service) ListMessages(ctx context.Context, actor models.Actor, offerID uint) ([]models.OfferMessage, error) {
	offer, err := s.get(offerID)
	if err != nil {
		return nil, err
	}
	load, err := s.loads.GetByID(offer.LoadID)
	if err != nil {
		return nil, err
	}
	if actor.UserID != offer.HaulerID && actor.UserID != load.ShipperID && !actor.IsAdmin() {
		return nil, ErrNotParticipant
	}
	return s.offers.ListMessages(offerID)
}

func (s *Service) ListByLoad(ctx context.Context, actor models.Actor, loadID uint) ([]models.Offer, error) {
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
	return s.offers.ListByLoad(loadID)
}

func (s *Service) ListMine(ctx context.Context, actor models.Actor) ([]models.Offer, error) {
	return s.offers.ListByHauler(actor.UserID)
}

// ExpireDue terminates pending offers past their expiry. Safe to run
// repeatedly; the guarded update only touches still-pending rows.
func (s *Service) ExpireDue(ctx context.Context) (int64, error) {
	return s.offers.ExpireDue(time.Now())
}

func (s *Service) get(offerID uint) (*models.Offer, error) {
	offer, err := s.offers.GetByID(offerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOfferNotFound
		}
		return nil, err
	}
	return offer, nil
}
