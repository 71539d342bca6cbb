package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"paygrow/internal/models"
)

type ledgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) ExecuteInTransaction(fn func(LedgerRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&ledgerRepository{db: tx})
	})
}

// ---- Accounts ----

func (r *ledgerRepository) CreateAccount(acct *models.User) error {
	if err := r.db.Create(acct).Error; err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (r *ledgerRepository) GetAccount(id uint) (*models.User, error) {
	var acct models.User
	if err := r.db.First(&acct, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &acct, nil
}

func (r *ledgerRepository) GetAccountByPhone(phone string) (*models.User, error) {
	var acct models.User
	if err := r.db.Where("phone = ?", phone).First(&acct).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &acct, nil
}

func (r *ledgerRepository) GetAccountByReferralCode(code string) (*models.User, error) {
	var acct models.User
	if err := r.db.Where("referral_code = ?", code).First(&acct).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &acct, nil
}

func (r *ledgerRepository) GetAccountForUpdate(id uint) (*models.User, error) {
	var acct models.User
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&acct, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to lock account: %w", err)
	}
	return &acct, nil
}

func (r *ledgerRepository) SaveAccount(acct *models.User) error {
	if err := r.db.Save(acct).Error; err != nil {
		return fmt.Errorf("failed to save account: %w", err)
	}
	return nil
}

func (r *ledgerRepository) ListAccounts() ([]models.User, error) {
	var accts []models.User
	if err := r.db.Order("created_at DESC").Find(&accts).Error; err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accts, nil
}

func (r *ledgerRepository) PlatformTotals() (*PlatformTotals, error) {
	var totals PlatformTotals
	err := r.db.Model(&models.User{}).
		Select(`COUNT(*) as total_users,
			COALESCE(SUM(balance), 0) as total_balance,
			COALESCE(SUM(total_recharge), 0) as total_recharge,
			COALESCE(SUM(total_withdraw), 0) as total_withdraw`).
		Scan(&totals).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get platform totals: %w", err)
	}
	return &totals, nil
}

// ---- Movements ----

func (r *ledgerRepository) CreateMovement(m *models.Movement) error {
	if err := r.db.Create(m).Error; err != nil {
		return fmt.Errorf("failed to create movement: %w", err)
	}
	return nil
}

func (r *ledgerRepository) GetMovement(id uint) (*models.Movement, error) {
	var m models.Movement
	if err := r.db.First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMovementNotFound
		}
		return nil, fmt.Errorf("failed to get movement: %w", err)
	}
	return &m, nil
}

func (r *ledgerRepository) GetMovementForUpdate(id uint) (*models.Movement, error) {
	var m models.Movement
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&m, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMovementNotFound
		}
		return nil, fmt.Errorf("failed to lock movement: %w", err)
	}
	return &m, nil
}

func (r *ledgerRepository) SaveMovement(m *models.Movement) error {
	if err := r.db.Save(m).Error; err != nil {
		return fmt.Errorf("failed to save movement: %w", err)
	}
	return nil
}

func (r *ledgerRepository) ListMovementsByAccount(accountID uint, limit int) ([]models.Movement, error) {
	var ms []models.Movement
	err := r.db.Where("user_id = ?", accountID).
		Order("created_at DESC").
		Limit(limit).
		Find(&ms).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list movements: %w", err)
	}
	return ms, nil
}

func (r *ledgerRepository) ListMovements(limit int) ([]models.Movement, error) {
	var ms []models.Movement
	if err := r.db.Order("created_at DESC").Limit(limit).Find(&ms).Error; err != nil {
		return nil, fmt.Errorf("failed to list movements: %w", err)
	}
	return ms, nil
}

func (r *ledgerRepository) ListPendingMovements() ([]models.Movement, error) {
	var ms []models.Movement
	err := r.db.Where("status IN ?", []string{models.StatusPending, models.StatusVerificationPending}).
		Order("created_at DESC").
		Find(&ms).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list pending movements: %w", err)
	}
	return ms, nil
}

// ---- Withdrawal requests ----

func (r *ledgerRepository) CreateWithdrawal(w *models.Withdrawal) error {
	if err := r.db.Create(w).Error; err != nil {
		return fmt.Errorf("failed to create withdrawal: %w", err)
	}
	return nil
}

func (r *ledgerRepository) GetWithdrawalForUpdate(id uint) (*models.Withdrawal, error) {
	var w models.Withdrawal
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&w, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWithdrawalNotFound
		}
		return nil, fmt.Errorf("failed to lock withdrawal: %w", err)
	}
	return &w, nil
}

func (r *ledgerRepository) SaveWithdrawal(w *models.Withdrawal) error {
	if err := r.db.Save(w).Error; err != nil {
		return fmt.Errorf("failed to save withdrawal: %w", err)
	}
	return nil
}

func (r *ledgerRepository) ListWithdrawalsByAccount(accountID uint, limit int) ([]models.Withdrawal, error) {
	var ws []models.Withdrawal
	err := r.db.Where("user_id = ?", accountID).
		Order("created_at DESC").
		Limit(limit).
		Find(&ws).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list withdrawals: %w", err)
	}
	return ws, nil
}

func (r *ledgerRepository) ListPendingWithdrawals() ([]PendingWithdrawal, error) {
	var ws []PendingWithdrawal
	err := r.db.Model(&models.Withdrawal{}).
		Select("withdrawals.*, users.phone").
		Joins("JOIN users ON users.id = withdrawals.user_id").
		Where("withdrawals.status = ?", models.WithdrawalPending).
		Order("withdrawals.created_at DESC").
		Scan(&ws).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list pending withdrawals: %w", err)
	}
	return ws, nil
}

// ---- Investment positions ----

func (r *ledgerRepository) CreateInvestment(p *models.Investment) error {
	if err := r.db.Create(p).Error; err != nil {
		return fmt.Errorf("failed to create investment: %w", err)
	}
	return nil
}

func (r *ledgerRepository) GetInvestmentForUpdate(id uint) (*models.Investment, error) {
	var p models.Investment
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvestmentNotFound
		}
		return nil, fmt.Errorf("failed to lock investment: %w", err)
	}
	return &p, nil
}

func (r *ledgerRepository) SaveInvestment(p *models.Investment) error {
	if err := r.db.Save(p).Error; err != nil {
		return fmt.Errorf("failed to save investment: %w", err)
	}
	return nil
}

func (r *ledgerRepository) ListActiveInvestments() ([]models.Investment, error) {
	var ps []models.Investment
	err := r.db.Where("status = ?", models.InvestmentActive).Find(&ps).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active investments: %w", err)
	}
	return ps, nil
}

func (r *ledgerRepository) ListInvestmentsByAccount(accountID uint) ([]models.Investment, error) {
	var ps []models.Investment
	err := r.db.Where("user_id = ?", accountID).
		Order("created_at DESC").
		Find(&ps).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list investments: %w", err)
	}
	return ps, nil
}

func (r *ledgerRepository) InvestmentTotals() (*InvestmentTotals, error) {
	var totals InvestmentTotals
	err := r.db.Model(&models.Investment{}).
		Select(`COALESCE(SUM(amount), 0) as total_invested,
			COALESCE(SUM(total_profit), 0) as total_profit,
			COALESCE(SUM(CASE WHEN status = 'active' THEN 1 ELSE 0 END), 0) as active_investments,
			COUNT(DISTINCT user_id) as total_investors`).
		Scan(&totals).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get investment totals: %w", err)
	}
	return &totals, nil
}

// ---- Check-ins ----

func (r *ledgerRepository) HasCheckin(accountID uint, day string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Checkin{}).
		Where("user_id = ? AND checkin_date = ?", accountID, day).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check check-in: %w", err)
	}
	return count > 0, nil
}

func (r *ledgerRepository) CreateCheckin(c *models.Checkin) error {
	if err := r.db.Create(c).Error; err != nil {
		return fmt.Errorf("failed to create check-in: %w", err)
	}
	return nil
}
