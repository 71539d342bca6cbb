// Package investment sells accruing positions and runs the periodic profit
// sweep. A position pays its fixed daily profit at most once per accrual
// period, advancing its accrual clock only when the credit commits, so a
// sweep that runs twice pays once.
package investment

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"paygrow/internal/models"
	"paygrow/internal/repositories"
	"paygrow/internal/services/ledger"
)

// Plan is the single offering: a fixed daily profit over a fixed number of
// days.
type Plan struct {
	Name        string
	DailyProfit decimal.Decimal
	Days        int
	Period      time.Duration
}

type Service struct {
	repo   repositories.LedgerRepository
	engine *ledger.Service
	plan   Plan
}

func NewService(repo repositories.LedgerRepository, engine *ledger.Service, plan Plan) *Service {
	return &Service{repo: repo, engine: engine, plan: plan}
}

// SweepResult summarizes one accrual sweep.
type SweepResult struct {
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`
	Total     int `json:"total"`
}

// Create debits the purchase amount and opens the position, atomically. The
// accrual clock starts at purchase time, so the first profit arrives one
// full period later.
func (s *Service) Create(ctx context.Context, accountID uint, amount decimal.Decimal) (*models.Investment, error) {
	if !amount.IsPositive() {
		return nil, ledger.ErrInvalidAmount
	}

	now := time.Now()
	var position *models.Investment
	err := s.repo.ExecuteInTransaction(func(tx repositories.LedgerRepository) error {
		_, err := s.engine.ApplyIn(tx, ledger.Operation{
			AccountID: accountID,
			Kind:      models.MovementInvest,
			Amount:    amount,
			Remark:    s.plan.Name,
		})
		if err != nil {
			return err
		}

		position = &models.Investment{
			UserID:        accountID,
			PlanName:      s.plan.Name,
			Amount:        amount,
			DailyProfit:   s.plan.DailyProfit,
			Days:          s.plan.Days,
			Status:        models.InvestmentActive,
			LastAccrualAt: &now,
		}
		return tx.CreateInvestment(position)
	})
	if err != nil {
		return nil, err
	}

	s.engine.InvalidateAccount(ctx, accountID)
	log.WithFields(log.Fields{
		"account_id":    accountID,
		"investment_id": position.ID,
		"amount":        amount.String(),
	}).Info("investment opened")
	return position, nil
}

// RunSweep pays the daily profit to every active position whose accrual
// period has elapsed as of now. Each position is its own transaction; one
// failing position does not stop the sweep.
func (s *Service) RunSweep(ctx context.Context, now time.Time) (*SweepResult, error) {
	positions, err := s.repo.ListActiveInvestments()
	if err != nil {
		return nil, err
	}

	result := &SweepResult{Total: len(positions)}
	for _, p := range positions {
		paid, err := s.accrueOne(ctx, p.ID, now)
		if err != nil {
			log.WithError(err).WithField("investment_id", p.ID).Error("accrual failed for position")
			result.Skipped++
			continue
		}
		if paid {
			result.Processed++
		} else {
			result.Skipped++
		}
	}

	log.WithFields(log.Fields{
		"processed": result.Processed,
		"skipped":   result.Skipped,
		"total":     result.Total,
	}).Info("accrual sweep finished")
	return result, nil
}

// accrueOne credits one period of profit if due. The position is re-read
// under a row lock, so concurrent sweeps cannot double-pay.
func (s *Service) accrueOne(ctx context.Context, id uint, now time.Time) (bool, error) {
	var paid bool
	var accountID uint
	err := s.repo.ExecuteInTransaction(func(tx repositories.LedgerRepository) error {
		p, err := tx.GetInvestmentForUpdate(id)
		if err != nil {
			return err
		}
		if p.Status != models.InvestmentActive {
			return nil
		}
		if p.LastAccrualAt == nil {
			// Legacy rows without a clock: start one now, pay next period.
			p.LastAccrualAt = &now
			return tx.SaveInvestment(p)
		}
		if now.Sub(*p.LastAccrualAt) < s.plan.Period {
			return nil
		}

		_, err = s.engine.ApplyIn(tx, ledger.Operation{
			AccountID: p.UserID,
			Kind:      models.MovementAccrual,
			Amount:    p.DailyProfit,
			Remark:    p.PlanName,
		})
		if err != nil {
			return err
		}

		p.TotalProfit = p.TotalProfit.Add(p.DailyProfit)
		p.PeriodsPaid++
		p.LastAccrualAt = &now
		if p.PeriodsPaid >= p.Days {
			p.Status = models.InvestmentCompleted
		}
		paid = true
		accountID = p.UserID
		return tx.SaveInvestment(p)
	})
	if err != nil {
		return false, err
	}
	if paid {
		s.engine.InvalidateAccount(ctx, accountID)
	}
	return paid, nil
}

// Summary is a user's aggregate investment view.
type Summary struct {
	Positions     []models.Investment `json:"investments"`
	ActiveCount   int                 `json:"active_count"`
	TotalInvested decimal.Decimal     `json:"total_invested"`
	TotalProfit   decimal.Decimal     `json:"total_profit"`
}

// ListByAccount returns the user's positions with totals.
func (s *Service) ListByAccount(accountID uint) (*Summary, error) {
	positions, err := s.repo.ListInvestmentsByAccount(accountID)
	if err != nil {
		return nil, err
	}
	sum := &Summary{Positions: positions}
	for _, p := range positions {
		if p.Status == models.InvestmentActive {
			sum.ActiveCount++
		}
		sum.TotalInvested = sum.TotalInvested.Add(p.Amount)
		sum.TotalProfit = sum.TotalProfit.Add(p.TotalProfit)
	}
	return sum, nil
}

// Stats returns the platform-wide investment totals.
func (s *Service) Stats() (*repositories.InvestmentTotals, error) {
	return s.repo.InvestmentTotals()
}

// CurrentPlan exposes the plan terms for the catalog endpoint.
func (s *Service) CurrentPlan() Plan {
	return s.plan
}
