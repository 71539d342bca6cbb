package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Withdrawal statuses
const (
	WithdrawalPending  = "pending"
	WithdrawalApproved = "approved"
	WithdrawalDenied   = "denied"
)

// Withdrawal is a user's request to cash out. It exists before any balance
// change; the debit movement is created only when an admin approves.
type Withdrawal struct {
	ID              uint            `gorm:"primarykey" json:"id"`
	UserID          uint            `gorm:"index;not null" json:"user_id"`
	RequestedAmount decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"requested_amount"`
	Status          string          `gorm:"not null;default:'pending'" json:"status"`
	PayoutID        string          `gorm:"not null" json:"upi_id"`
	Reason          string          `json:"reason,omitempty"`
	AdminID         *uint           `json:"admin_id,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
