package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Email        string `gorm:"uniqueIndex;not null"`
	Password     string `gorm:"not null"`
	Name         string `gorm:"not null"`
	Phone        string `gorm:"uniqueIndex;not null"`
	Role         string `gorm:"default:'shipper'"`
	CompanyName  string
	Status       string `gorm:"default:'active'"`
	LastLoginAt  time.Time
	TokenVersion int `gorm:"default:1"`

	// Individual haulers start on a free trial; offer acceptance is gated
	// on this once the trial lapses.
	SubscriptionActive bool       `gorm:"default:false"`
	TrialEndsAt        *time.Time
}

// CanAcceptWork reports whether a hauler account is allowed to take on new
// trips: either subscribed or still inside the trial window.
func (u *User) CanAcceptWork(now time.Time) bool {
	if u.SubscriptionActive {
		return true
	}
	return u.TrialEndsAt != nil && now.Before(*u.TrialEndsAt)
}
