// Package payment drives the lifecycle of recharges and withdrawals. A
// recharge moves pending -> verification_pending -> completed | rejected; a
// withdrawal request moves pending -> approved | denied. Only the approval
// transitions touch balances, and they do so through the ledger engine.
package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"paygrow/internal/models"
	"paygrow/internal/repositories"
	"paygrow/internal/services/ledger"
	"paygrow/internal/services/rotation"
)

type Service struct {
	repo          repositories.LedgerRepository
	engine        *ledger.Service
	channels      *rotation.Service
	minWithdrawal decimal.Decimal
}

func NewService(repo repositories.LedgerRepository, engine *ledger.Service, channels *rotation.Service, minWithdrawal decimal.Decimal) *Service {
	return &Service{
		repo:          repo,
		engine:        engine,
		channels:      channels,
		minWithdrawal: minWithdrawal,
	}
}

// InitiateRecharge opens a pending recharge against the currently active
// payment channel. No balance changes yet.
func (s *Service) InitiateRecharge(ctx context.Context, accountID uint, amount decimal.Decimal) (*RechargeIntent, error) {
	if !amount.IsPositive() {
		return nil, ledger.ErrInvalidAmount
	}
	if _, err := s.repo.GetAccount(accountID); err != nil {
		return nil, err
	}

	ch, err := s.channels.ActiveChannel()
	if err != nil {
		return nil, err
	}

	m := &models.Movement{
		UserID:   accountID,
		Kind:     models.MovementRecharge,
		Amount:   amount,
		Status:   models.StatusPending,
		PayoutID: ch.UPIID,
	}
	if err := s.repo.CreateMovement(m); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"account_id":  accountID,
		"movement_id": m.ID,
		"amount":      amount.String(),
		"upi_id":      ch.UPIID,
	}).Info("recharge initiated")

	return &RechargeIntent{MovementID: m.ID, PayUPIID: ch.UPIID, Position: ch.Ordinal, Amount: amount}, nil
}

// SubmitReference attaches the bank transaction reference to a pending
// recharge and queues it for admin verification.
func (s *Service) SubmitReference(ctx context.Context, accountID, movementID uint, reference string) error {
	if reference == "" {
		return ErrMissingReference
	}
	return s.repo.ExecuteInTransaction(func(tx repositories.LedgerRepository) error {
		m, err := tx.GetMovementForUpdate(movementID)
		if err != nil {
			return err
		}
		if m.UserID != accountID || m.Kind != models.MovementRecharge {
			return repositories.ErrMovementNotFound
		}
		if m.Status != models.StatusPending {
			return ErrAlreadyProcessed
		}
		m.Reference = reference
		m.Status = models.StatusVerificationPending
		return tx.SaveMovement(m)
	})
}

// ApproveRecharge credits the account and completes the movement. The
// engine re-checks the movement status under its row lock, so approving
// twice credits once.
func (s *Service) ApproveRecharge(ctx context.Context, adminID, movementID uint) (*models.Movement, error) {
	m, err := s.repo.GetMovement(movementID)
	if err != nil {
		return nil, err
	}
	if m.Kind != models.MovementRecharge {
		return nil, repositories.ErrMovementNotFound
	}
	if m.Terminal() {
		return nil, ErrAlreadyProcessed
	}

	applied, err := s.engine.Apply(ctx, ledger.Operation{
		AccountID:          m.UserID,
		Kind:               models.MovementRecharge,
		Amount:             m.Amount,
		ActorID:            &adminID,
		CompleteMovementID: m.ID,
	})
	if err != nil {
		if errors.Is(err, ledger.ErrAlreadyApplied) {
			return nil, ErrAlreadyProcessed
		}
		return nil, err
	}

	// The credit is committed; a rotation failure must not undo it.
	if _, err := s.channels.RecordSuccess(); err != nil {
		log.WithError(err).WithField("movement_id", m.ID).Warn("failed to count payment against channel")
	}

	return applied, nil
}

// RejectRecharge marks the movement rejected without touching the balance.
func (s *Service) RejectRecharge(ctx context.Context, adminID, movementID uint, reason string) error {
	return s.repo.ExecuteInTransaction(func(tx repositories.LedgerRepository) error {
		m, err := tx.GetMovementForUpdate(movementID)
		if err != nil {
			return err
		}
		if m.Kind != models.MovementRecharge {
			return repositories.ErrMovementNotFound
		}
		if m.Terminal() {
			return ErrAlreadyProcessed
		}
		m.Status = models.StatusRejected
		m.AdminID = &adminID
		m.Remark = reason
		return tx.SaveMovement(m)
	})
}

// InitiateWithdrawal records a cash-out request. The balance is checked but
// not reserved; the authoritative check happens again at approval time.
func (s *Service) InitiateWithdrawal(ctx context.Context, accountID uint, amount decimal.Decimal, payoutID string) (*models.Withdrawal, error) {
	if !amount.IsPositive() {
		return nil, ledger.ErrInvalidAmount
	}
	if amount.LessThan(s.minWithdrawal) {
		return nil, fmt.Errorf("%w: minimum is %s", ErrBelowMinimum, s.minWithdrawal.String())
	}

	acct, err := s.repo.GetAccount(accountID)
	if err != nil {
		return nil, err
	}
	if acct.Balance.LessThan(amount) {
		return nil, ledger.ErrInsufficientFunds
	}

	w := &models.Withdrawal{
		UserID:          accountID,
		RequestedAmount: amount,
		Status:          models.WithdrawalPending,
		PayoutID:        payoutID,
	}
	if err := s.repo.CreateWithdrawal(w); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"account_id":    accountID,
		"withdrawal_id": w.ID,
		"amount":        amount.String(),
	}).Info("withdrawal requested")

	return w, nil
}

// ApproveWithdrawal debits the account and marks the request approved, as
// one transaction. An account that can no longer cover the amount fails the
// approval with ErrInsufficientFunds and the request stays pending.
func (s *Service) ApproveWithdrawal(ctx context.Context, adminID, withdrawalID uint) error {
	var accountID uint
	err := s.repo.ExecuteInTransaction(func(tx repositories.LedgerRepository) error {
		w, err := tx.GetWithdrawalForUpdate(withdrawalID)
		if err != nil {
			return err
		}
		if w.Status != models.WithdrawalPending {
			return ErrAlreadyProcessed
		}

		_, err = s.engine.ApplyIn(tx, ledger.Operation{
			AccountID: w.UserID,
			Kind:      models.MovementWithdraw,
			Amount:    w.RequestedAmount,
			ActorID:   &adminID,
			PayoutID:  w.PayoutID,
			Remark:    fmt.Sprintf("withdrawal #%d approved", w.ID),
		})
		if err != nil {
			return err
		}

		w.Status = models.WithdrawalApproved
		w.AdminID = &adminID
		accountID = w.UserID
		return tx.SaveWithdrawal(w)
	})
	if err != nil {
		return err
	}

	s.engine.InvalidateAccount(ctx, accountID)
	return nil
}

// DenyWithdrawal refuses the request. Denying an already approved request
// reverses the debit through the engine before marking it denied.
func (s *Service) DenyWithdrawal(ctx context.Context, adminID, withdrawalID uint, reason string) error {
	if reason == "" {
		reason = "Denied by admin"
	}
	var accountID uint
	var reversed bool
	err := s.repo.ExecuteInTransaction(func(tx repositories.LedgerRepository) error {
		w, err := tx.GetWithdrawalForUpdate(withdrawalID)
		if err != nil {
			return err
		}
		switch w.Status {
		case models.WithdrawalPending:
		case models.WithdrawalApproved:
			_, err = s.engine.ApplyIn(tx, ledger.Operation{
				AccountID: w.UserID,
				Kind:      models.MovementWithdrawReversal,
				Amount:    w.RequestedAmount,
				ActorID:   &adminID,
				Remark:    fmt.Sprintf("withdrawal #%d reversed", w.ID),
			})
			if err != nil {
				return err
			}
			reversed = true
		default:
			return ErrAlreadyProcessed
		}

		w.Status = models.WithdrawalDenied
		w.AdminID = &adminID
		w.Reason = reason
		accountID = w.UserID
		return tx.SaveWithdrawal(w)
	})
	if err != nil {
		return err
	}

	if reversed {
		s.engine.InvalidateAccount(ctx, accountID)
	}
	return nil
}

// PendingRecharges lists recharges awaiting admin review.
func (s *Service) PendingRecharges() ([]models.Movement, error) {
	return s.repo.ListPendingMovements()
}

// PendingWithdrawals lists open cash-out requests with the owner's phone.
func (s *Service) PendingWithdrawals() ([]repositories.PendingWithdrawal, error) {
	return s.repo.ListPendingWithdrawals()
}
