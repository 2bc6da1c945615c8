// Package entity defines the domain entities for the auth feature.
package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// User represents a registered user in the system.
type User struct {
	ID uint `gorm:"primaryKey"`

	Username string `gorm:"size:64;not null;default:''"`

	// Email is stored lowercased and trimmed. It must be unique across all users.
	Email string `gorm:"uniqueIndex;size:255;not null"`

	// Password is a bcrypt hash. Empty for users created through an external identity provider.
	Password string `gorm:"size:255;not null;default:''"`

	// InvestedTotal is owned by the portfolio store and always equals the
	// cost basis of the user's open positions.
	InvestedTotal decimal.Decimal `gorm:"type:decimal(20,8);not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
