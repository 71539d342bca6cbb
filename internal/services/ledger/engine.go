package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"paygrow/internal/models"
	"paygrow/internal/repositories"
)

// Invalidator drops cached account state after a committed mutation.
type Invalidator interface {
	InvalidateAccount(ctx context.Context, accountID uint) error
}

type Service struct {
	repo  repositories.LedgerRepository
	cache Invalidator
}

// NewService builds the engine. cache may be nil.
func NewService(repo repositories.LedgerRepository, cache Invalidator) *Service {
	return &Service{repo: repo, cache: cache}
}

// Apply runs the operation in its own transaction and returns the movement
// that records it.
func (s *Service) Apply(ctx context.Context, op Operation) (*models.Movement, error) {
	var movement *models.Movement
	err := s.repo.ExecuteInTransaction(func(tx repositories.LedgerRepository) error {
		m, err := s.ApplyIn(tx, op)
		if err != nil {
			return err
		}
		movement = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, op.AccountID)
	return movement, nil
}

// ApplyIn applies the operation against a repository already bound to a
// transaction. Callers composing several steps into one atomic unit use this
// form; they own the transaction and the cache invalidation.
func (s *Service) ApplyIn(tx repositories.LedgerRepository, op Operation) (*models.Movement, error) {
	if !op.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	isCredit := credits[op.Kind]
	if !isCredit && !debits[op.Kind] {
		return nil, ErrUnknownKind
	}

	acct, err := tx.GetAccountForUpdate(op.AccountID)
	if err != nil {
		return nil, err
	}

	before := acct.Balance
	if isCredit {
		acct.Balance = before.Add(op.Amount)
	} else {
		if before.LessThan(op.Amount) {
			return nil, ErrInsufficientFunds
		}
		acct.Balance = before.Sub(op.Amount)
	}
	after := acct.Balance

	switch op.Kind {
	case models.MovementRecharge:
		acct.TotalRecharge = acct.TotalRecharge.Add(op.Amount)
	case models.MovementWithdraw:
		acct.TotalWithdraw = acct.TotalWithdraw.Add(op.Amount)
	case models.MovementWithdrawReversal:
		acct.TotalWithdraw = acct.TotalWithdraw.Sub(op.Amount)
	case models.MovementCheckin:
		acct.TotalWelfare = acct.TotalWelfare.Add(op.Amount)
	}

	movement, err := s.writeMovement(tx, op, &before, &after)
	if err != nil {
		return nil, err
	}

	if err := tx.SaveAccount(acct); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"account_id": op.AccountID,
		"kind":       op.Kind,
		"amount":     op.Amount.String(),
		"balance":    after.String(),
	}).Info("ledger movement applied")

	return movement, nil
}

// writeMovement either completes the referenced pending movement in place or
// inserts a fresh completed row.
func (s *Service) writeMovement(tx repositories.LedgerRepository, op Operation, before, after *decimal.Decimal) (*models.Movement, error) {
	if op.CompleteMovementID != 0 {
		m, err := tx.GetMovementForUpdate(op.CompleteMovementID)
		if err != nil {
			return nil, err
		}
		if m.Terminal() {
			return nil, ErrAlreadyApplied
		}
		m.Status = models.StatusCompleted
		m.BalanceBefore = before
		m.BalanceAfter = after
		if op.ActorID != nil {
			m.AdminID = op.ActorID
		}
		if op.Remark != "" {
			m.Remark = op.Remark
		}
		if err := tx.SaveMovement(m); err != nil {
			return nil, err
		}
		return m, nil
	}

	reference := op.Reference
	if reference == "" {
		reference = uuid.NewString()
	}
	m := &models.Movement{
		UserID:        op.AccountID,
		Kind:          op.Kind,
		Amount:        op.Amount,
		Status:        models.StatusCompleted,
		BalanceBefore: before,
		BalanceAfter:  after,
		Remark:        op.Remark,
		AdminID:       op.ActorID,
		PayoutID:      op.PayoutID,
		Reference:     reference,
	}
	if err := tx.CreateMovement(m); err != nil {
		return nil, err
	}
	return m, nil
}

// InvalidateAccount drops cached state for the account. Callers composing
// transactions through ApplyIn call this once their transaction commits.
func (s *Service) InvalidateAccount(ctx context.Context, accountID uint) {
	s.invalidate(ctx, accountID)
}

func (s *Service) invalidate(ctx context.Context, accountID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateAccount(ctx, accountID); err != nil {
		log.WithError(err).WithField("account_id", accountID).Warn("failed to invalidate account cache")
	}
}
