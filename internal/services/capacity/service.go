// Package capacity tracks hauler-published truck availability windows and
// recomputes their derived active flag as bookings consume capacity.
package capacity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"drover/internal/models"
	"drover/internal/repositories"
	"drover/internal/repositories/cache"

	"gorm.io/gorm"
)

type Service struct {
	listings repositories.TruckAvailabilityRepository
	bookings repositories.BookingRepository
	trips    repositories.TripRepository
	cache    *cache.CacheService
}

func NewService(
	listings repositories.TruckAvailabilityRepository,
	bookings repositories.BookingRepository,
	trips repositories.TripRepository,
	cacheSvc *cache.CacheService,
) *Service {
	return &Service{
		listings: listings,
		bookings: bookings,
		trips:    trips,
		cache:    cacheSvc,
	}
}

// CreateListingInput carries the fields a hauler advertises.
type CreateListingInput struct {
	TruckID           uint
	Origin            string
	Destination       string
	OriginLat         *float64
	OriginLng         *float64
	DestinationLat    *float64
	DestinationLng    *float64
	AvailableFrom     time.Time
	AvailableUntil    time.Time
	CapacityHeadcount int
	CapacityWeightKg  int
	AllowShared       bool
}

func (s *Service) CreateListing(ctx context.Context, actor models.Actor, in CreateListingInput) (*models.TruckAvailability, error) {
	if !in.AvailableUntil.After(in.AvailableFrom) {
		return nil, ErrInvalidWindow
	}
	if in.CapacityHeadcount <= 0 {
		return nil, ErrInvalidCapacity
	}

	listing := &models.TruckAvailability{
		HaulerID:          actor.UserID,
		TruckID:           in.TruckID,
		Origin:            in.Origin,
		Destination:       in.Destination,
		OriginLat:         in.OriginLat,
		OriginLng:         in.OriginLng,
		DestinationLat:    in.DestinationLat,
		DestinationLng:    in.DestinationLng,
		AvailableFrom:     in.AvailableFrom,
		AvailableUntil:    in.AvailableUntil,
		CapacityHeadcount: in.CapacityHeadcount,
		CapacityWeightKg:  in.CapacityWeightKg,
		AllowShared:       in.AllowShared,
		Active:            true,
	}
	if err := s.listings.Create(listing); err != nil {
		return nil, fmt.Errorf("failed to create listing: %w", err)
	}
	return listing, nil
}

// Deactivate takes a listing out of circulation on explicit hauler action.
// A listing with an accepted booking cannot be removed; the booking owns it.
func (s *Service) Deactivate(ctx context.Context, actor models.Actor, listingID uint) error {
	listing, err := s.listings.GetByID(listingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrListingNotFound
		}
		return err
	}
	if listing.HaulerID != actor.UserID && !actor.IsAdmin() {
		return ErrNotListingOwner
	}

	accepted, err := s.bookings.HasAcceptedByAvailability(listingID)
	if err != nil {
		return err
	}
	if accepted {
		return ErrAcceptedBookingExists
	}

	if err := s.listings.SetActive(listingID, false); err != nil {
		return err
	}
	s.invalidate(ctx, listingID)
	return nil
}

func (s *Service) Search(ctx context.Context, q repositories.AvailabilitySearch) ([]models.TruckAvailability, error) {
	return s.listings.SearchActive(q)
}

func (s *Service) ListForHauler(ctx context.Context, haulerID uint) ([]models.TruckAvailability, error) {
	return s.listings.ListByHauler(haulerID)
}

func (s *Service) GetListing(ctx context.Context, id uint) (*models.TruckAvailability, error) {
	if s.cache != nil {
		if listing, ok, _ := s.cache.GetListing(ctx, id); ok {
			return listing, nil
		}
	}
	listing, err := s.listings.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	if s.cache != nil {
		s.cache.CacheListing(ctx, listing)
	}
	return listing, nil
}

// Recompute re-derives the active flag from current data and persists it.
// Idempotent: redundant invocations converge on the same value. Returns the
// resulting flag.
func (s *Service) Recompute(ctx context.Context, listingID uint) (bool, error) {
	listing, err := s.listings.GetByID(listingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrListingNotFound
		}
		return false, err
	}

	consuming, err := s.bookings.ListConsumingByAvailability(listingID)
	if err != nil {
		return false, err
	}

	truckBlocked, err := s.trips.ExistsBlockingForTruck(listing.TruckID)
	if err != nil {
		return false, err
	}

	active := Evaluate(listing, consuming, truckBlocked, time.Now())
	if active != listing.Active {
		if err := s.listings.SetActive(listingID, active); err != nil {
			return listing.Active, err
		}
	}
	s.invalidate(ctx, listingID)
	return active, nil
}

// Evaluate applies the capacity rule against a snapshot of current data.
// The flag is true only when every condition holds:
//   - the availability window covers now
//   - the truck is not attached to a non-terminal trip
//   - no booking has reached Accepted (an accepted booking locks the listing)
//   - exclusivity is not violated (allow_shared=false admits no booking)
//   - cumulative Requested+Accepted headcount/weight is below capacity
func Evaluate(listing *models.TruckAvailability, consuming []models.Booking, truckBlocked bool, now time.Time) bool {
	if !listing.WindowValid(now) {
		return false
	}
	if truckBlocked {
		return false
	}

	var headcount, weight int
	for i := range consuming {
		b := &consuming[i]
		if !b.ConsumesCapacity() {
			continue
		}
		if b.Status == models.BookingAccepted {
			return false
		}
		if !listing.AllowShared {
			return false
		}
		headcount += b.Headcount
		weight += b.WeightKg
	}

	if headcount >= listing.CapacityHeadcount {
		return false
	}
	if listing.CapacityWeightKg > 0 && weight >= listing.CapacityWeightKg {
		return false
	}
	return true
}

// ProjectedFit reports whether adding a request for the given headcount and
// weight would still fit inside the listing's advertised capacity.
func ProjectedFit(listing *models.TruckAvailability, consuming []models.Booking, headcount, weightKg int) bool {
	var usedHead, usedWeight int
	for i := range consuming {
		if consuming[i].ConsumesCapacity() {
			usedHead += consuming[i].Headcount
			usedWeight += consuming[i].WeightKg
		}
	}
	if usedHead+headcount > listing.CapacityHeadcount {
		return false
	}
	if listing.CapacityWeightKg > 0 && usedWeight+weightKg > listing.CapacityWeightKg {
		return false
	}
	return true
}

func (s *Service) invalidate(ctx context.Context, listingID uint) {
	if s.cache != nil {
		if err := s.cache.InvalidateListing(ctx, listingID); err != nil {
			// stale cache entries expire on TTL anyway
			return
		}
	}
}
