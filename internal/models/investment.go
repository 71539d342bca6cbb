package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Investment statuses
const (
	InvestmentActive    = "active"
	InvestmentCompleted = "completed"
)

// Investment is one accruing position. TotalProfit grows only through the
// accrual engine, at most once per elapsed accrual period.
type Investment struct {
	ID            uint            `gorm:"primarykey" json:"id"`
	UserID        uint            `gorm:"index;not null" json:"user_id"`
	PlanName      string          `gorm:"not null" json:"plan_name"`
	Amount        decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"amount"`
	DailyProfit   decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"daily_profit"`
	TotalProfit   decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"total_profit"`
	PeriodsPaid   int             `gorm:"not null;default:0" json:"periods_paid"`
	Days          int             `gorm:"not null" json:"days"`
	Status        string          `gorm:"not null;default:'active'" json:"status"`
	LastAccrualAt *time.Time      `json:"last_growth_time,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}
