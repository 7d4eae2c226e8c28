// Package load owns the shipment posting lifecycle up to the point a
// contract binds it. After binding, load status is driven by trip and
// payment events, not by this service.
package load

import (
	"context"
	"errors"
	"time"

	"drover/internal/models"
	"drover/internal/repositories"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

var validate = validator.New()

type Service struct {
	loads repositories.LoadRepository
}

func NewService(loads repositories.LoadRepository) *Service {
	return &Service{loads: loads}
}

type CreateInput struct {
	Origin      string             `validate:"required"`
	Destination string             `validate:"required"`
	Headcount   int                `validate:"required,gt=0"`
	WeightKg    int                `validate:"gte=0"`
	StockType   string             `validate:"required"`
	PickupDate  *time.Time         `validate:"omitempty"`
	AskingCents int64              `validate:"required,gt=0"`
	Currency    string             `validate:"omitempty,len=3"`
	PaymentMode models.PaymentMode `validate:"omitempty,oneof=escrow direct"`

	// Must be true when PaymentMode is direct.
	DisclaimerAccepted bool
}

// Create stores a new draft load. Direct-mode loads require the shipper to
// acknowledge that the platform will not hold funds.
func (s *Service) Create(ctx context.Context, actor models.Actor, in CreateInput) (*models.Load, error) {
	if actor.Role != models.RoleShipper && !actor.IsAdmin() {
		return nil, ErrNotShipper
	}
	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	if in.PaymentMode == "" {
		in.PaymentMode = models.PaymentModeEscrow
	}
	if in.Currency == "" {
		in.Currency = "USD"
	}

	load := &models.Load{
		ShipperID:   actor.UserID,
		Status:      models.LoadDraft,
		Origin:      in.Origin,
		Destination: in.Destination,
		Headcount:   in.Headcount,
		WeightKg:    in.WeightKg,
		StockType:   in.StockType,
		PickupDate:  in.PickupDate,
		AskingCents: in.AskingCents,
		Currency:    in.Currency,
		PaymentMode: in.PaymentMode,
	}
	if in.PaymentMode == models.PaymentModeDirect {
		if !in.DisclaimerAccepted {
			return nil, ErrDisclaimerRequired
		}
		now := time.Now()
		load.DirectDisclaimerAcceptedAt = &now
	}

	if err := s.loads.Create(load); err != nil {
		return nil, err
	}
	return load, nil
}

// Publish opens a draft load to offers and bookings.
func (s *Service) Publish(ctx context.Context, actor models.Actor, loadID uint) (*models.Load, error) {
	load, err := s.getOwned(actor, loadID)
	if err != nil {
		return nil, err
	}
	ok, err := s.loads.TransitionStatus(load.ID, models.LoadDraft, models.LoadPublished)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotDraft
	}
	return s.loads.GetByID(loadID)
}

// Cancel withdraws a load that has not yet been bound to a trip.
func (s *Service) Cancel(ctx context.Context, actor models.Actor, loadID uint) (*models.Load, error) {
	load, err := s.getOwned(actor, loadID)
	if err != nil {
		return nil, err
	}

	for _, from := range []models.LoadStatus{models.LoadDraft, models.LoadPublished} {
		ok, err := s.loads.TransitionStatus(load.ID, from, models.LoadCancelled)
		if err != nil {
			return nil, err
		}
		if ok {
			return s.loads.GetByID(loadID)
		}
	}
	return nil, ErrNotCancellable
}

type UpdateInput struct {
	Origin      string
	Destination string
	Headcount   int
	WeightKg    int
	StockType   string
	PickupDate  *time.Time
	AskingCents int64
}

// Update edits a draft load in place. Published loads are immutable; the
// shipper cancels and reposts instead, so haulers never bid on shifting
// terms.
func (s *Service) Update(ctx context.Context, actor models.Actor, loadID uint, in UpdateInput) (*models.Load, error) {
	load, err := s.getOwned(actor, loadID)
	if err != nil {
		return nil, err
	}
	if load.Status != models.LoadDraft {
		return nil, ErrNotDraft
	}

	if in.Origin != "" {
		load.Origin = in.Origin
	}
	if in.Destination != "" {
		load.Destination = in.Destination
	}
	if in.Headcount > 0 {
		load.Headcount = in.Headcount
	}
	if in.WeightKg > 0 {
		load.WeightKg = in.WeightKg
	}
	if in.StockType != "" {
		load.StockType = in.StockType
	}
	if in.PickupDate != nil {
		load.PickupDate = in.PickupDate
	}
	if in.AskingCents > 0 {
		load.AskingCents = in.AskingCents
	}

	if err := s.loads.Update(load); err != nil {
		return nil, err
	}
	return load, nil
}

func (s *Service) Get(ctx context.Context, loadID uint) (*models.Load, error) {
	load, err := s.loads.GetByID(loadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLoadNotFound
		}
		return nil, err
	}
	return load, nil
}

func (s *Service) ListMine(ctx context.Context, actor models.Actor) ([]models.Load, error) {
	return s.loads.ListByShipper(actor.UserID)
}

// ListOpen is the hauler-facing load board.
func (s *Service) ListOpen(ctx context.Context, origin, destination, stockType string) ([]models.Load, error) {
	return s.loads.ListOpen(origin, destination, stockType)
}

func (s *Service) getOwned(actor models.Actor, loadID uint) (*models.Load, error) {
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
	return load, nil
}
