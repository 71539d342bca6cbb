package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Movement kinds. The kind implies the direction of the balance change.
const (
	MovementRecharge         = "recharge"
	MovementWithdraw         = "withdraw"
	MovementInvest           = "invest"
	MovementAccrual          = "daily_bonus"
	MovementCheckin          = "checkin_bonus"
	MovementWithdrawReversal = "withdraw_reversal"
)

// Movement statuses
const (
	StatusPending             = "pending"
	StatusVerificationPending = "verification_pending"
	StatusCompleted           = "completed"
	StatusRejected            = "rejected"
)

// Movement is one audited balance change. Rows are append-only: once a
// movement reaches a terminal status nothing but the governed status
// transition in the payment state machine may have touched it, and
// balance_before / balance_after are filled exactly once, when the ledger
// engine applies the change.
type Movement struct {
	ID            uint             `gorm:"primarykey" json:"id"`
	UserID        uint             `gorm:"index;not null" json:"user_id"`
	Kind          string           `gorm:"not null" json:"type"`
	Amount        decimal.Decimal  `gorm:"type:decimal(14,2);not null" json:"amount"`
	Status        string           `gorm:"not null;default:'pending'" json:"status"`
	BalanceBefore *decimal.Decimal `gorm:"type:decimal(14,2)" json:"old_balance,omitempty"`
	BalanceAfter  *decimal.Decimal `gorm:"type:decimal(14,2)" json:"new_balance,omitempty"`
	Remark        string           `json:"remarks,omitempty"`
	AdminID       *uint            `json:"admin_id,omitempty"`
	PayoutID      string           `json:"upi_id,omitempty"`
	Reference     string           `json:"utr_number,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// Terminal reports whether no further status transition is defined.
func (m *Movement) Terminal() bool {
	return m.Status == StatusCompleted || m.Status == StatusRejected
}
