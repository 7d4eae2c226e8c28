package repositories

import (
	"time"

	"drover/internal/models"

	"gorm.io/gorm"
)

// AvailabilitySearch filters active listings for shippers.
type AvailabilitySearch struct {
	Origin      string
	Destination string
	Date        *time.Time
}

type TruckAvailabilityRepository interface {
	WithTx(tx *gorm.DB) TruckAvailabilityRepository
	Create(listing *models.TruckAvailability) error
	GetByID(id uint) (*models.TruckAvailability, error)
	ListByHauler(haulerID uint) ([]models.TruckAvailability, error)
	SearchActive(q AvailabilitySearch) ([]models.TruckAvailability, error)
	SetActive(id uint, active bool) error
}

type truckAvailabilityRepository struct {
	db *gorm.DB
}

func NewTruckAvailabilityRepository(db *gorm.DB) TruckAvailabilityRepository {
	return &truckAvailabilityRepository{db: db}
}

func (r *truckAvailabilityRepository) WithTx(tx *gorm.DB) TruckAvailabilityRepository {
	return &truckAvailabilityRepository{db: tx}
}

func (r *truckAvailabilityRepository) Create(listing *models.TruckAvailability) error {
	return r.db.Create(listing).Error
}

func (r *truckAvailabilityRepository) GetByID(id uint) (*models.TruckAvailability, error) {
	var listing models.TruckAvailability
	err := r.db.First(&listing, id).Error
	return &listing, err
}

func (r *truckAvailabilityRepository) ListByHauler(haulerID uint) ([]models.TruckAvailability, error) {
	var listings []models.TruckAvailability
	err := r.db.Where("hauler_id = ?", haulerID).Order("available_from ASC").Find(&listings).Error
	return listings, err
}

func (r *truckAvailabilityRepository) SearchActive(q AvailabilitySearch) ([]models.TruckAvailability, error) {
	query := r.db.Where("active = ?", true)
	if q.Origin != "" {
		query = query.Where("origin ILIKE ?", "%"+q.Origin+"%")
	}
	if q.Destination != "" {
		query = query.Where("destination ILIKE ?", "%"+q.Destination+"%")
	}
	if q.Date != nil {
		query = query.Where("available_from <= ? AND available_until > ?", *q.Date, *q.Date)
	}

	var listings []models.TruckAvailability
	err := query.Order("available_from ASC").Find(&listings).Error
	return listings, err
}

func (r *truckAvailabilityRepository) SetActive(id uint, active bool) error {
	return r.db.Model(&models.TruckAvailability{}).Where("id = ?", id).
		Update("active", active).Error
}
