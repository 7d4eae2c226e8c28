package models

import (
	"time"

	"gorm.io/gorm"
)

// Trip is the execution record for a matched load. It is created atomically
// with its Payment when an offer or booking is accepted. PaymentMode is
// copied from the load at creation and immutable thereafter.
type Trip struct {
	gorm.Model
	LoadID              uint        `gorm:"not null;uniqueIndex" json:"load_id"`
	HaulerID            uint        `gorm:"not null;index" json:"hauler_id"`
	DriverID            *uint       `gorm:"index" json:"driver_id,omitempty"`
	VehicleRef          string      `json:"vehicle_ref,omitempty"`
	TruckAvailabilityID *uint       `gorm:"index" json:"truck_availability_id,omitempty"`
	Status              TripStatus  `gorm:"type:varchar(40);not null;default:'pending_escrow'" json:"status"`
	PaymentMode         PaymentMode `gorm:"type:varchar(16);not null" json:"payment_mode"`
	PaymentID           uint        `gorm:"index" json:"payment_id"`
	StartedAt           *time.Time  `json:"started_at,omitempty"`
	DeliveredAt         *time.Time  `json:"delivered_at,omitempty"`
	ConfirmedAt         *time.Time  `json:"confirmed_at,omitempty"`
}

func (Trip) TableName() string { return "trips" }

// Blocking reports whether the trip ties up its truck: any non-terminal
// trip keeps the underlying availability listing out of circulation.
func (t *Trip) Blocking() bool { return !t.Status.Terminal() }
