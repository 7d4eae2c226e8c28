package models

import "gorm.io/gorm"

// Booking is a shipper's request against a hauler's advertised truck
// capacity, or the system-created record of an accepted offer. Exactly one
// of OfferID / TruckAvailabilityID is set; creation rejects both.
type Booking struct {
	gorm.Model
	LoadID              uint          `gorm:"not null;index" json:"load_id"`
	HaulerID            uint          `gorm:"not null;index" json:"hauler_id"`
	ShipperID           uint          `gorm:"not null;index" json:"shipper_id"`
	OfferID             *uint         `gorm:"index" json:"offer_id,omitempty"`
	TruckAvailabilityID *uint         `gorm:"index" json:"truck_availability_id,omitempty"`
	Headcount           int           `gorm:"not null" json:"headcount"`
	WeightKg            int           `json:"weight_kg"`
	AmountCents         int64         `gorm:"not null" json:"amount_cents"`
	Currency            string        `gorm:"type:varchar(3);not null;default:'USD'" json:"currency"`
	Status              BookingStatus `gorm:"type:varchar(16);not null;default:'requested'" json:"status"`

	// PaymentMode is snapshotted from the load at creation and frozen;
	// a later change to the load cannot retroactively alter the booking.
	PaymentMode PaymentMode `gorm:"type:varchar(16);not null" json:"payment_mode"`
}

func (Booking) TableName() string { return "bookings" }

// ConsumesCapacity reports whether the booking counts against a truck
// listing's advertised headcount/weight.
func (b *Booking) ConsumesCapacity() bool {
	return b.Status == BookingRequested || b.Status == BookingAccepted
}
