package repositories

import (
	"time"

	"drover/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PaymentRepository interface {
	WithTx(tx *gorm.DB) PaymentRepository
	Create(payment *models.Payment) error
	GetByID(id uint) (*models.Payment, error)
	GetByTripID(tripID uint) (*models.Payment, error)
	GetByProviderRef(ref string) (*models.Payment, error)
	Update(payment *models.Payment) error
	TransitionStatus(id uint, from, to models.PaymentStatus, extra map[string]interface{}) (bool, error)
	SetAutoRelease(id uint, at *time.Time) error
	// ListDueReleaseIDs returns candidates for the auto-release sweep; the
	// dispute check is re-done under lock, this is only the pre-filter.
	ListDueReleaseIDs(now time.Time, limit int) ([]uint, error)
	// LockForRelease fetches one payment under FOR UPDATE SKIP LOCKED.
	// A gorm.ErrRecordNotFound return means a concurrent sweep holds the
	// row; the caller skips it.
	LockForRelease(id uint) (*models.Payment, error)
	CreateReceipt(receipt *models.DirectPaymentReceipt) error
	GetReceiptByTripID(tripID uint) (*models.DirectPaymentReceipt, error)
}

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) WithTx(tx *gorm.DB) PaymentRepository {
	return &paymentRepository{db: tx}
}

func (r *paymentRepository) Create(payment *models.Payment) error {
	return r.db.Create(payment).Error
}

func (r *paymentRepository) GetByID(id uint) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.First(&payment, id).Error
	return &payment, err
}

func (r *paymentRepository) GetByTripID(tripID uint) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.Where("trip_id = ?", tripID).First(&payment).Error
	return &payment, err
}

func (r *paymentRepository) GetByProviderRef(ref string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.Where("provider_ref = ?", ref).First(&payment).Error
	return &payment, err
}

func (r *paymentRepository) Update(payment *models.Payment) error {
	return r.db.Save(payment).Error
}

func (r *paymentRepository) TransitionStatus(id uint, from, to models.PaymentStatus, extra map[string]interface{}) (bool, error) {
	updates := map[string]interface{}{"status": to}
	for k, v := range extra {
		updates[k] = v
	}
	res := r.db.Model(&models.Payment{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	return res.RowsAffected > 0, res.Error
}

func (r *paymentRepository) SetAutoRelease(id uint, at *time.Time) error {
	return r.db.Model(&models.Payment{}).Where("id = ?", id).
		Update("auto_release_at", at).Error
}

func (r *paymentRepository) ListDueReleaseIDs(now time.Time, limit int) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Payment{}).
		Where("status = ? AND auto_release_at IS NOT NULL AND auto_release_at <= ?",
			models.PaymentEscrowFunded, now).
		Limit(limit).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *paymentRepository) LockForRelease(id uint) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		First(&payment, id).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) CreateReceipt(receipt *models.DirectPaymentReceipt) error {
	return r.db.Create(receipt).Error
}

func (r *paymentRepository) GetReceiptByTripID(tripID uint) (*models.DirectPaymentReceipt, error) {
	var receipt models.DirectPaymentReceipt
	err := r.db.Where("trip_id = ?", tripID).First(&receipt).Error
	return &receipt, err
}
