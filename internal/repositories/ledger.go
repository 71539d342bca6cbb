// Package repositories provides the data access layer. It owns the database
// handle, the schema migration at startup, and the repository interfaces the
// services are written against.
package repositories

import (
	"errors"

	"github.com/shopspring/decimal"

	"paygrow/internal/models"
)

var (
	ErrAccountNotFound    = errors.New("account not found")
	ErrMovementNotFound   = errors.New("movement not found")
	ErrWithdrawalNotFound = errors.New("withdrawal not found")
	ErrInvestmentNotFound = errors.New("investment not found")
	ErrDuplicateCheckin   = errors.New("already checked in for this day")
)

// PlatformTotals aggregates the admin dashboard numbers.
type PlatformTotals struct {
	TotalUsers    int64           `json:"totalUsers"`
	TotalBalance  decimal.Decimal `json:"totalBalance"`
	TotalRecharge decimal.Decimal `json:"totalRecharge"`
	TotalWithdraw decimal.Decimal `json:"totalWithdraw"`
}

// InvestmentTotals aggregates investment statistics across the platform.
type InvestmentTotals struct {
	TotalInvested     decimal.Decimal `json:"totalInvested"`
	TotalProfit       decimal.Decimal `json:"totalProfit"`
	ActiveInvestments int64           `json:"activeInvestments"`
	TotalInvestors    int64           `json:"totalInvestors"`
}

// PendingWithdrawal is a pending request joined with the owner's phone for
// the admin review screen.
type PendingWithdrawal struct {
	models.Withdrawal
	Phone string `json:"phone"`
}

// LedgerRepository is the single store behind accounts, movements,
// withdrawal requests, investment positions and check-ins.
//
// ExecuteInTransaction runs fn against a repository bound to one database
// transaction; everything fn does commits or rolls back as a unit. The
// ForUpdate getters take a row lock inside such a transaction, so a
// read-then-write of the same account is atomic with respect to other
// writers.
type LedgerRepository interface {
	ExecuteInTransaction(fn func(LedgerRepository) error) error

	// Accounts
	CreateAccount(acct *models.User) error
	GetAccount(id uint) (*models.User, error)
	GetAccountByPhone(phone string) (*models.User, error)
	GetAccountByReferralCode(code string) (*models.User, error)
	GetAccountForUpdate(id uint) (*models.User, error)
	SaveAccount(acct *models.User) error
	ListAccounts() ([]models.User, error)
	PlatformTotals() (*PlatformTotals, error)

	// Movements
	CreateMovement(m *models.Movement) error
	GetMovement(id uint) (*models.Movement, error)
	GetMovementForUpdate(id uint) (*models.Movement, error)
	SaveMovement(m *models.Movement) error
	ListMovementsByAccount(accountID uint, limit int) ([]models.Movement, error)
	ListMovements(limit int) ([]models.Movement, error)
	ListPendingMovements() ([]models.Movement, error)

	// Withdrawal requests
	CreateWithdrawal(w *models.Withdrawal) error
	GetWithdrawalForUpdate(id uint) (*models.Withdrawal, error)
	SaveWithdrawal(w *models.Withdrawal) error
	ListWithdrawalsByAccount(accountID uint, limit int) ([]models.Withdrawal, error)
	ListPendingWithdrawals() ([]PendingWithdrawal, error)

	// Investment positions
	CreateInvestment(p *models.Investment) error
	GetInvestmentForUpdate(id uint) (*models.Investment, error)
	SaveInvestment(p *models.Investment) error
	ListActiveInvestments() ([]models.Investment, error)
	ListInvestmentsByAccount(accountID uint) ([]models.Investment, error)
	InvestmentTotals() (*InvestmentTotals, error)

	// Check-ins
	HasCheckin(accountID uint, day string) (bool, error)
	CreateCheckin(c *models.Checkin) error
}
