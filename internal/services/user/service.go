// Package user serves account-facing reads and the daily check-in bonus.
package user

import (
	"context"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"paygrow/internal/models"
	"paygrow/internal/repositories"
	"paygrow/internal/repositories/cache"
	"paygrow/internal/services/ledger"
)

const dayFormat = "2006-01-02"

type Service struct {
	repo   repositories.LedgerRepository
	engine *ledger.Service
	cache  *cache.CacheService

	checkinMin int
	checkinMax int
}

// NewService builds the user service. cache may be nil.
func NewService(repo repositories.LedgerRepository, engine *ledger.Service, c *cache.CacheService, checkinMin, checkinMax int) *Service {
	return &Service{
		repo:       repo,
		engine:     engine,
		cache:      c,
		checkinMin: checkinMin,
		checkinMax: checkinMax,
	}
}

// Profile returns the account, served from cache when possible.
func (s *Service) Profile(ctx context.Context, accountID uint) (*models.User, error) {
	if s.cache != nil {
		var cached models.User
		found, err := s.cache.Get(ctx, s.cache.AccountKey(accountID), &cached)
		if err != nil {
			log.WithError(err).Warn("profile cache read failed")
		} else if found {
			return &cached, nil
		}
	}

	acct, err := s.repo.GetAccount(accountID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, s.cache.AccountKey(accountID), acct); err != nil {
			log.WithError(err).Warn("profile cache write failed")
		}
	}
	return acct, nil
}

// DailyCheckin grants the once-per-day random bonus. The check-in row and
// the credit commit together.
func (s *Service) DailyCheckin(ctx context.Context, accountID uint, now time.Time) (*models.Movement, error) {
	day := now.Format(dayFormat)
	span := s.checkinMax - s.checkinMin + 1
	amount := decimal.NewFromInt(int64(s.checkinMin + rand.Intn(span)))

	var movement *models.Movement
	err := s.repo.ExecuteInTransaction(func(tx repositories.LedgerRepository) error {
		claimed, err := tx.HasCheckin(accountID, day)
		if err != nil {
			return err
		}
		if claimed {
			return ErrAlreadyCheckedIn
		}

		movement, err = s.engine.ApplyIn(tx, ledger.Operation{
			AccountID: accountID,
			Kind:      models.MovementCheckin,
			Amount:    amount,
			Remark:    "daily check-in",
		})
		if err != nil {
			return err
		}

		return tx.CreateCheckin(&models.Checkin{
			UserID: accountID,
			Amount: amount,
			Day:    day,
		})
	})
	if err != nil {
		return nil, err
	}

	s.engine.InvalidateAccount(ctx, accountID)
	return movement, nil
}

// Movements lists the account's recent ledger history.
func (s *Service) Movements(accountID uint, limit int) ([]models.Movement, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repo.ListMovementsByAccount(accountID, limit)
}

// Withdrawals lists the account's cash-out requests.
func (s *Service) Withdrawals(accountID uint, limit int) ([]models.Withdrawal, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repo.ListWithdrawalsByAccount(accountID, limit)
}
