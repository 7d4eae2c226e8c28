package repositories

import (
	"drover/internal/models"

	"gorm.io/gorm"
)

type DisputeRepository interface {
	WithTx(tx *gorm.DB) DisputeRepository
	Create(dispute *models.Dispute) error
	GetByID(id uint) (*models.Dispute, error)
	Update(dispute *models.Dispute) error
	ListByTrip(tripID uint) ([]models.Dispute, error)
	// HasActiveByPayment reports whether an Open or UnderReview dispute
	// exists on the payment, optionally excluding one dispute ID.
	HasActiveByPayment(paymentID uint, excludeID uint) (bool, error)
	TransitionStatus(id uint, from, to models.DisputeStatus, extra map[string]interface{}) (bool, error)
	CreateMessage(msg *models.DisputeMessage) error
	ListMessages(disputeID uint) ([]models.DisputeMessage, error)
}

type disputeRepository struct {
	db *gorm.DB
}

func NewDisputeRepository(db *gorm.DB) DisputeRepository {
	return &disputeRepository{db: db}
}

func (r *disputeRepository) WithTx(tx *gorm.DB) DisputeRepository {
	return &disputeRepository{db: tx}
}

func (r *disputeRepository) Create(dispute *models.Dispute) error {
	return r.db.Create(dispute).Error
}

func (r *disputeRepository) GetByID(id uint) (*models.Dispute, error) {
	var dispute models.Dispute
	err := r.db.First(&dispute, id).Error
	return &dispute, err
}

func (r *disputeRepository) Update(dispute *models.Dispute) error {
	return r.db.Save(dispute).Error
}

func (r *disputeRepository) ListByTrip(tripID uint) ([]models.Dispute, error) {
	var disputes []models.Dispute
	err := r.db.Where("trip_id = ?", tripID).Order("created_at DESC").Find(&disputes).Error
	return disputes, err
}

func (r *disputeRepository) HasActiveByPayment(paymentID uint, excludeID uint) (bool, error) {
	query := r.db.Model(&models.Dispute{}).
		Where("payment_id = ? AND status IN ?", paymentID,
			[]models.DisputeStatus{models.DisputeOpen, models.DisputeUnderReview})
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	err := query.Count(&count).Error
	return count > 0, err
}

func (r *disputeRepository) TransitionStatus(id uint, from, to models.DisputeStatus, extra map[string]interface{}) (bool, error) {
	updates := map[string]interface{}{"status": to}
	for k, v := range extra {
		updates[k] = v
	}
	res := r.db.Model(&models.Dispute{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	return res.RowsAffected > 0, res.Error
}

func (r *disputeRepository) CreateMessage(msg *models.DisputeMessage) error {
	return r.db.Create(msg).Error
}

func (r *disputeRepository) ListMessages(disputeID uint) ([]models.DisputeMessage, error) {
	var msgs []models.DisputeMessage
	err := r.db.Where("dispute_id = ?", disputeID).Order("created_at ASC").Find(&msgs).Error
	return msgs, err
}
