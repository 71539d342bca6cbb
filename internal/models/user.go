package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is the account record. The balance and the cumulative counters are
// only ever mutated by the ledger engine; every change produces a Movement.
type User struct {
	ID            uint            `gorm:"primarykey" json:"id"`
	Phone         string          `gorm:"uniqueIndex;not null" json:"phone"`
	PasswordHash  string          `gorm:"not null" json:"-"`
	Balance       decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"balance"`
	TotalRecharge decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"total_recharge"`
	TotalWithdraw decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"total_withdraw"`
	TotalWelfare  decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"total_welfare"`
	ReferralCode  string          `gorm:"uniqueIndex;not null" json:"referral_code"`
	ReferredBy    string          `json:"referred_by,omitempty"`
	Role          string          `gorm:"not null;default:'user'" json:"role"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
