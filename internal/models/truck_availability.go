package models

import (
	"time"

	"gorm.io/gorm"
)

// TruckAvailability is a hauler's advertised capacity window. Active is
// derived state: it must only ever be written by the capacity tracker's
// recompute, never toggled directly by business logic.
type TruckAvailability struct {
	gorm.Model
	HaulerID          uint      `gorm:"not null;index" json:"hauler_id"`
	TruckID           uint      `gorm:"not null;index" json:"truck_id"`
	Origin            string    `gorm:"not null" json:"origin"`
	Destination       string    `gorm:"not null" json:"destination"`
	OriginLat         *float64  `json:"origin_lat,omitempty"`
	OriginLng         *float64  `json:"origin_lng,omitempty"`
	DestinationLat    *float64  `json:"destination_lat,omitempty"`
	DestinationLng    *float64  `json:"destination_lng,omitempty"`
	AvailableFrom     time.Time `gorm:"not null" json:"available_from"`
	AvailableUntil    time.Time `gorm:"not null;index" json:"available_until"`
	CapacityHeadcount int       `gorm:"not null" json:"capacity_headcount"`
	CapacityWeightKg  int       `json:"capacity_weight_kg"`
	AllowShared       bool      `gorm:"default:true" json:"allow_shared"`
	Active            bool      `gorm:"default:true;index" json:"active"`
}

func (TruckAvailability) TableName() string { return "truck_availabilities" }

// WindowValid reports whether the listing's time window covers now.
func (t *TruckAvailability) WindowValid(now time.Time) bool {
	return !now.Before(t.AvailableFrom) && now.Before(t.AvailableUntil)
}
