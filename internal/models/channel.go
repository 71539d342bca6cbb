package models

import "time"

// Channel is one receiving UPI identifier in the rotation pool. At most one
// channel is active at any time; the allocator serializes every transition.
type Channel struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	UPIID        string    `gorm:"uniqueIndex;not null" json:"upi_id"`
	Ordinal      int       `gorm:"uniqueIndex;not null" json:"position"`
	SuccessCount int       `gorm:"not null;default:0" json:"successful_payments"`
	TotalDone    int       `gorm:"not null;default:0" json:"total_payments"`
	Capacity     int       `gorm:"not null" json:"max_payments"`
	Active       bool      `gorm:"not null;default:false" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
