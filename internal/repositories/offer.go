package repositories

import (
	"time"

	"drover/internal/models"

	"gorm.io/gorm"
)

type OfferRepository interface {
	WithTx(tx *gorm.DB) OfferRepository
	Create(offer *models.Offer) error
	GetByID(id uint) (*models.Offer, error)
	Update(offer *models.Offer) error
	ListByLoad(loadID uint) ([]models.Offer, error)
	ListByHauler(haulerID uint) ([]models.Offer, error)
	// HasActiveByHaulerAndLoad enforces the one-non-terminal-offer rule.
	HasActiveByHaulerAndLoad(haulerID, loadID uint) (bool, error)
	TransitionStatus(id uint, from, to models.OfferStatus) (bool, error)
	// ExpireSiblings marks every other pending offer on the load expired.
	ExpireSiblings(loadID, acceptedOfferID uint) error
	// ExpireDue terminates pending offers whose expiry has passed and
	// returns how many rows were affected.
	ExpireDue(now time.Time) (int64, error)
	CreateMessage(msg *models.OfferMessage) error
	ListMessages(offerID uint) ([]models.OfferMessage, error)
	SetAwaitingReply(offerID uint, awaiting bool) error
}

type offerRepository struct {
	db *gorm.DB
}

func NewOfferRepository(db *gorm.DB) OfferRepository {
	return &offerRepository{db: db}
}

func (r *offerRepository) WithTx(tx *gorm.DB) OfferRepository {
	return &offerRepository{db: tx}
}

func (r *offerRepository) Create(offer *models.Offer) error {
	return r.db.Create(offer).Error
}

func (r *offerRepository) GetByID(id uint) (*models.Offer, error) {
	var offer models.Offer
	err := r.db.First(&offer, id).Error
	return &offer, err
}

func (r *offerRepository) Update(offer *models.Offer) error {
	return r.db.Save(offer).Error
}

func (r *offerRepository) ListByLoad(loadID uint) ([]models.Offer, error) {
	var offers []models.Offer
	err := r.db.Where("load_id = ?", loadID).Order("created_at DESC").Find(&offers).Error
	return offers, err
}

func (r *offerRepository) ListByHauler(haulerID uint) ([]models.Offer, error) {
	var offers []models.Offer
	err := r.db.Where("hauler_id = ?", haulerID).Order("created_at DESC").Find(&offers).Error
	return offers, err
}

func (r *offerRepository) HasActiveByHaulerAndLoad(haulerID, loadID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Offer{}).
		Where("hauler_id = ? AND load_id = ? AND status = ?", haulerID, loadID, models.OfferPending).
		Count(&count).Error
	return count > 0, err
}

func (r *offerRepository) TransitionStatus(id uint, from, to models.OfferStatus) (bool, error) {
	res := r.db.Model(&models.Offer{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return res.RowsAffected > 0, res.Error
}

func (r *offerRepository) ExpireSiblings(loadID, acceptedOfferID uint) error {
	return r.db.Model(&models.Offer{}).
		Where("load_id = ? AND id <> ? AND status = ?", loadID, acceptedOfferID, models.OfferPending).
		Update("status", models.OfferExpired).Error
}

func (r *offerRepository) ExpireDue(now time.Time) (int64, error) {
	res := r.db.Model(&models.Offer{}).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at <= ?", models.OfferPending, now).
		Update("status", models.OfferExpired)
	return res.RowsAffected, res.Error
}

func (r *offerRepository) CreateMessage(msg *models.OfferMessage) error {
	return r.db.Create(msg).Error
}

func (r *offerRepository) ListMessages(offerID uint) ([]models.OfferMessage, error) {
	var msgs []models.OfferMessage
	err := r.db.Where("offer_id = ?", offerID).Order("created_at ASC").Find(&msgs).Error
	return msgs, err
}

func (r *offerRepository) SetAwaitingReply(offerID uint, awaiting bool) error {
	return r.db.Model(&models.Offer{}).Where("id = ?", offerID).
		Update("awaiting_shipper_reply", awaiting).Error
}
