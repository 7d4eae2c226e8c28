package models

import (
	"time"

	"gorm.io/gorm"
)

// Load is a shipment request posted by a shipper. Its status is driven
// externally by trip and payment events once negotiation starts.
type Load struct {
	gorm.Model
	ShipperID      uint        `gorm:"not null;index" json:"shipper_id"`
	Status         LoadStatus  `gorm:"type:varchar(32);not null;default:'draft'" json:"status"`
	Origin         string      `gorm:"not null" json:"origin"`
	Destination    string      `gorm:"not null" json:"destination"`
	Headcount      int         `gorm:"not null" json:"headcount"`
	WeightKg       int         `json:"weight_kg"`
	StockType      string      `json:"stock_type"`
	PickupDate     *time.Time  `json:"pickup_date,omitempty"`
	AskingCents    int64       `gorm:"not null" json:"asking_cents"`
	Currency       string      `gorm:"type:varchar(3);not null;default:'USD'" json:"currency"`
	PaymentMode    PaymentMode `gorm:"type:varchar(16);not null;default:'escrow'" json:"payment_mode"`
	AwardedOfferID *uint       `gorm:"index" json:"awarded_offer_id,omitempty"`

	// Direct mode requires the shipper to acknowledge that the platform
	// holds no funds. Recorded once, immutable thereafter.
	DirectDisclaimerAcceptedAt *time.Time `json:"direct_disclaimer_accepted_at,omitempty"`
}

func (Load) TableName() string { return "loads" }
