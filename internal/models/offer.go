package models

import (
	"time"

	"gorm.io/gorm"
)

// Offer is a hauler's bid on a Load. At most one non-terminal offer may
// exist per hauler per load.
type Offer struct {
	gorm.Model
	LoadID      uint        `gorm:"not null;index" json:"load_id"`
	HaulerID    uint        `gorm:"not null;index" json:"hauler_id"`
	CreatedBy   uint        `gorm:"not null" json:"created_by"`
	AmountCents int64       `gorm:"not null" json:"amount_cents"`
	Currency    string      `gorm:"type:varchar(3);not null;default:'USD'" json:"currency"`
	Message     string      `gorm:"type:text" json:"message"`
	Status      OfferStatus `gorm:"type:varchar(16);not null;default:'pending'" json:"status"`
	ExpiresAt   *time.Time  `gorm:"index" json:"expires_at,omitempty"`

	// AwaitingShipperReply gates the hauler's chat channel: while true the
	// hauler may not send another message until the shipper has replied.
	AwaitingShipperReply bool `gorm:"default:false" json:"awaiting_shipper_reply"`
}

func (Offer) TableName() string { return "offers" }

// OfferMessage is one entry in the negotiation chat attached to an offer.
type OfferMessage struct {
	gorm.Model
	OfferID  uint   `gorm:"not null;index" json:"offer_id"`
	SenderID uint   `gorm:"not null" json:"sender_id"`
	Role     string `gorm:"type:varchar(16);not null" json:"role"`
	Body     string `gorm:"type:text;not null" json:"body"`
}

func (OfferMessage) TableName() string { return "offer_messages" }
