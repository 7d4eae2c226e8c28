package repositories

import (
	"drover/internal/models"

	"gorm.io/gorm"
)

type TripRepository interface {
	WithTx(tx *gorm.DB) TripRepository
	Create(trip *models.Trip) error
	GetByID(id uint) (*models.Trip, error)
	GetByLoadID(loadID uint) (*models.Trip, error)
	Update(trip *models.Trip) error
	ListByHauler(haulerID uint) ([]models.Trip, error)
	// TransitionStatus performs a state-guarded update with optional extra
	// column writes. False means the guard did not match.
	TransitionStatus(id uint, from, to models.TripStatus, extra map[string]interface{}) (bool, error)
	// Close moves the trip to its terminal state regardless of the prior
	// status. Idempotent: closing a closed trip is a no-op.
	Close(id uint) (bool, error)
	// ExistsBlockingForTruck reports whether the physical truck behind any
	// availability listing is tied up by a non-terminal trip.
	ExistsBlockingForTruck(truckID uint) (bool, error)
	ExistsForLoad(loadID uint) (bool, error)
}

type tripRepository struct {
	db *gorm.DB
}

func NewTripRepository(db *gorm.DB) TripRepository {
	return &tripRepository{db: db}
}

func (r *tripRepository) WithTx(tx *gorm.DB) TripRepository {
	return &tripRepository{db: tx}
}

func (r *tripRepository) Create(trip *models.Trip) error {
	return r.db.Create(trip).Error
}

func (r *tripRepository) GetByID(id uint) (*models.Trip, error) {
	var trip models.Trip
	err := r.db.First(&trip, id).Error
	return &trip, err
}

func (r *tripRepository) GetByLoadID(loadID uint) (*models.Trip, error) {
	var trip models.Trip
	err := r.db.Where("load_id = ?", loadID).First(&trip).Error
	return &trip, err
}

func (r *tripRepository) Update(trip *models.Trip) error {
	return r.db.Save(trip).Error
}

func (r *tripRepository) ListByHauler(haulerID uint) ([]models.Trip, error) {
	var trips []models.Trip
	err := r.db.Where("hauler_id = ?", haulerID).Order("created_at DESC").Find(&trips).Error
	return trips, err
}

func (r *tripRepository) TransitionStatus(id uint, from, to models.TripStatus, extra map[string]interface{}) (bool, error) {
	updates := map[string]interface{}{"status": to}
	for k, v := range extra {
		updates[k] = v
	}
	res := r.db.Model(&models.Trip{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	return res.RowsAffected > 0, res.Error
}

func (r *tripRepository) Close(id uint) (bool, error) {
	res := r.db.Model(&models.Trip{}).
		Where("id = ? AND status <> ?", id, models.TripClosed).
		Update("status", models.TripClosed)
	return res.RowsAffected > 0, res.Error
}

func (r *tripRepository) ExistsBlockingForTruck(truckID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Trip{}).
		Joins("JOIN truck_availabilities ON truck_availabilities.id = trips.truck_availability_id").
		Where("truck_availabilities.truck_id = ? AND trips.status <> ?", truckID, models.TripClosed).
		Count(&count).Error
	return count > 0, err
}

func (r *tripRepository) ExistsForLoad(loadID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Trip{}).Where("load_id = ?", loadID).Count(&count).Error
	return count > 0, err
}
