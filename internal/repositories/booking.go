package repositories

import (
	"drover/internal/models"

	"gorm.io/gorm"
)

type BookingRepository interface {
	WithTx(tx *gorm.DB) BookingRepository
	Create(booking *models.Booking) error
	GetByID(id uint) (*models.Booking, error)
	ListByLoad(loadID uint) ([]models.Booking, error)
	ListByHauler(haulerID uint) ([]models.Booking, error)
	// ListConsumingByAvailability returns the bookings counting against a
	// truck listing's capacity (Requested + Accepted).
	ListConsumingByAvailability(availabilityID uint) ([]models.Booking, error)
	HasAcceptedByAvailability(availabilityID uint) (bool, error)
	TransitionStatus(id uint, from, to models.BookingStatus) (bool, error)
}

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) WithTx(tx *gorm.DB) BookingRepository {
	return &bookingRepository{db: tx}
}

func (r *bookingRepository) Create(booking *models.Booking) error {
	return r.db.Create(booking).Error
}

func (r *bookingRepository) GetByID(id uint) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.First(&booking, id).Error
	return &booking, err
}

func (r *bookingRepository) ListByLoad(loadID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.Where("load_id = ?", loadID).Order("created_at DESC").Find(&bookings).Error
	return bookings, err
}

func (r *bookingRepository) ListByHauler(haulerID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.Where("hauler_id = ?", haulerID).Order("created_at DESC").Find(&bookings).Error
	return bookings, err
}

func (r *bookingRepository) ListConsumingByAvailability(availabilityID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.Where("truck_availability_id = ? AND status IN ?",
		availabilityID, []models.BookingStatus{models.BookingRequested, models.BookingAccepted}).
		Find(&bookings).Error
	return bookings, err
}

func (r *bookingRepository) HasAcceptedByAvailability(availabilityID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Booking{}).
		Where("truck_availability_id = ? AND status = ?", availabilityID, models.BookingAccepted).
		Count(&count).Error
	return count > 0, err
}

func (r *bookingRepository) TransitionStatus(id uint, from, to models.BookingStatus) (bool, error) {
	res := r.db.Model(&models.Booking{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return res.RowsAffected > 0, res.Error
}
