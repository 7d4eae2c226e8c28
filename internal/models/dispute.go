package models

import (
	"time"

	"gorm.io/gorm"
)

// Dispute reason codes
const (
	DisputeReasonDamaged     = "stock_damaged"
	DisputeReasonShortCount  = "short_headcount"
	DisputeReasonLate        = "late_delivery"
	DisputeReasonNonDelivery = "non_delivery"
	DisputeReasonOther       = "other"
)

// Requested actions
const (
	DisputeActionRefund  = "refund"
	DisputeActionRelease = "release"
	DisputeActionSplit   = "split"
)

// Dispute message recipients. Non-admin messages are always addressed to
// RecipientAdmin; admin messages carry an explicit recipient.
const (
	RecipientAdmin   = "admin"
	RecipientShipper = "shipper"
	RecipientHauler  = "hauler"
	RecipientAll     = "all"
)

// Dispute suspends the payment/trip lifecycle of a funded escrow. At most
// one open or under-review dispute may exist per payment.
type Dispute struct {
	gorm.Model
	TripID          uint          `gorm:"not null;index" json:"trip_id"`
	PaymentID       uint          `gorm:"not null;index" json:"payment_id"`
	OpenedBy        uint          `gorm:"not null" json:"opened_by"`
	OpenerRole      string        `gorm:"type:varchar(16);not null" json:"opener_role"`
	Status          DisputeStatus `gorm:"type:varchar(24);not null;default:'open'" json:"status"`
	Reason          string        `gorm:"type:varchar(32);not null" json:"reason"`
	Description     string        `gorm:"type:text" json:"description"`
	RequestedAction string        `gorm:"type:varchar(16)" json:"requested_action"`
	ResolvedBy      *uint         `json:"resolved_by,omitempty"`
	ResolvedAt      *time.Time    `json:"resolved_at,omitempty"`

	// Populated for split resolutions only.
	AmountToHaulerCents  int64 `json:"amount_to_hauler_cents,omitempty"`
	AmountToShipperCents int64 `json:"amount_to_shipper_cents,omitempty"`
}

func (Dispute) TableName() string { return "disputes" }

// DisputeMessage is one entry in a dispute's directed message channel.
type DisputeMessage struct {
	gorm.Model
	DisputeID  uint   `gorm:"not null;index" json:"dispute_id"`
	SenderID   uint   `gorm:"not null" json:"sender_id"`
	SenderRole string `gorm:"type:varchar(16);not null" json:"sender_role"`
	Recipient  string `gorm:"type:varchar(16);not null" json:"recipient"`
	Body       string `gorm:"type:text;not null" json:"body"`
}

func (DisputeMessage) TableName() string { return "dispute_messages" }
