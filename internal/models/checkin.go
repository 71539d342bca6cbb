package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Checkin records one claimed daily bonus. The unique index makes the
// once-per-day rule a database invariant, not just a service check.
type Checkin struct {
	ID        uint            `gorm:"primarykey" json:"id"`
	UserID    uint            `gorm:"uniqueIndex:idx_checkin_day;not null" json:"user_id"`
	Amount    decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"amount"`
	Day       string          `gorm:"column:checkin_date;uniqueIndex:idx_checkin_day;not null" json:"checkin_date"`
	CreatedAt time.Time       `json:"created_at"`
}
