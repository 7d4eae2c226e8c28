package models

import (
	"time"

	"gorm.io/gorm"
)

// Payment is the custody record for a trip's funds. For direct-mode trips
// the row exists but never progresses past NotApplicable; a
// DirectPaymentReceipt substitutes for escrow tracking.
type Payment struct {
	gorm.Model
	TripID        uint          `gorm:"not null;uniqueIndex" json:"trip_id"`
	LoadID        uint          `gorm:"not null;index" json:"load_id"`
	PayerID       uint          `gorm:"not null" json:"payer_id"`
	PayeeID       uint          `gorm:"not null" json:"payee_id"`
	AmountCents   int64         `gorm:"not null" json:"amount_cents"`
	Currency      string        `gorm:"type:varchar(3);not null;default:'USD'" json:"currency"`
	Status        PaymentStatus `gorm:"type:varchar(32);not null;default:'awaiting_funding'" json:"status"`
	IsEscrow      bool          `gorm:"not null" json:"is_escrow"`
	ProviderRef   string        `gorm:"index" json:"provider_ref,omitempty"`
	AutoReleaseAt *time.Time    `gorm:"index" json:"auto_release_at,omitempty"`

	// Split resolution outcome; both zero unless Status is PaymentSplit.
	SplitToHaulerCents  int64 `json:"split_to_hauler_cents,omitempty"`
	SplitToShipperCents int64 `json:"split_to_shipper_cents,omitempty"`
}

func (Payment) TableName() string { return "payments" }

// DirectPaymentReceipt records an off-platform settlement for a direct-mode
// trip. Created once, when delivery is confirmed.
type DirectPaymentReceipt struct {
	gorm.Model
	TripID      uint      `gorm:"not null;uniqueIndex" json:"trip_id"`
	PaymentID   uint      `gorm:"not null" json:"payment_id"`
	AmountCents int64     `gorm:"not null" json:"amount_cents"`
	Method      string    `json:"method,omitempty"`
	Reference   string    `json:"reference,omitempty"`
	ReceivedAt  time.Time `gorm:"not null" json:"received_at"`
}

func (DirectPaymentReceipt) TableName() string { return "direct_payment_receipts" }
