package repositories

import (
	"drover/internal/models"

	"gorm.io/gorm"
)

type LoadRepository interface {
	WithTx(tx *gorm.DB) LoadRepository
	Create(load *models.Load) error
	GetByID(id uint) (*models.Load, error)
	Update(load *models.Load) error
	ListByShipper(shipperID uint) ([]models.Load, error)
	// ListOpen returns published loads haulers may bid on, newest first.
	// Empty filter values are ignored.
	ListOpen(origin, destination, stockType string) ([]models.Load, error)
	// TransitionStatus performs a state-guarded update and reports whether
	// a row actually changed. A false return means the precondition no
	// longer held; callers re-read current state.
	TransitionStatus(id uint, from, to models.LoadStatus) (bool, error)
	SetStatus(id uint, to models.LoadStatus) error
}

type loadRepository struct {
	db *gorm.DB
}

func NewLoadRepository(db *gorm.DB) LoadRepository {
	return &loadRepository{db: db}
}

func (r *loadRepository) WithTx(tx *gorm.DB) LoadRepository {
	return &loadRepository{db: tx}
}

func (r *loadRepository) Create(load *models.Load) error {
	return r.db.Create(load).Error
}

func (r *loadRepository) GetByID(id uint) (*models.Load, error) {
	var load models.Load
	err := r.db.First(&load, id).Error
	return &load, err
}

func (r *loadRepository) Update(load *models.Load) error {
	return r.db.Save(load).Error
}

func (r *loadRepository) ListByShipper(shipperID uint) ([]models.Load, error) {
	var loads []models.Load
	err := r.db.Where("shipper_id = ?", shipperID).Order("created_at DESC").Find(&loads).Error
	return loads, err
}

func (r *loadRepository) ListOpen(origin, destination, stockType string) ([]models.Load, error) {
	query := r.db.Where("status = ?", models.LoadPublished)
	if origin != "" {
		query = query.Where("origin = ?", origin)
	}
	if destination != "" {
		query = query.Where("destination = ?", destination)
	}
	if stockType != "" {
		query = query.Where("stock_type = ?", stockType)
	}
	var loads []models.Load
	err := query.Order("created_at DESC").Find(&loads).Error
	return loads, err
}

func (r *loadRepository) TransitionStatus(id uint, from, to models.LoadStatus) (bool, error) {
	res := r.db.Model(&models.Load{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return res.RowsAffected > 0, res.Error
}

func (r *loadRepository) SetStatus(id uint, to models.LoadStatus) error {
	return r.db.Model(&models.Load{}).Where("id = ?", id).Update("status", to).Error
}
