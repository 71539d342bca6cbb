package ledger

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paygrow/internal/models"
	"paygrow/internal/repositories/memory"
)

func newTestAccount(t *testing.T, store *memory.Store, balance string) *models.User {
	t.Helper()
	acct := &models.User{
		Phone:        "9876543210",
		PasswordHash: "x",
		Balance:      decimal.RequireFromString(balance),
		ReferralCode: "REF123",
		Role:         models.RoleUser,
	}
	require.NoError(t, store.Ledger().CreateAccount(acct))
	return acct
}

func TestApplyCreditUpdatesBalanceAndCounters(t *testing.T) {
	store := memory.NewStore()
	acct := newTestAccount(t, store, "100")
	svc := NewService(store.Ledger(), nil)

	m, err := svc.Apply(context.Background(), Operation{
		AccountID: acct.ID,
		Kind:      models.MovementRecharge,
		Amount:    decimal.RequireFromString("500"),
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusCompleted, m.Status)
	assert.True(t, m.BalanceBefore.Equal(decimal.RequireFromString("100")))
	assert.True(t, m.BalanceAfter.Equal(decimal.RequireFromString("600")))

	got, err := store.Ledger().GetAccount(acct.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.RequireFromString("600")))
	assert.True(t, got.TotalRecharge.Equal(decimal.RequireFromString("500")))
}

func TestApplyDebitRejectsOverdraft(t *testing.T) {
	store := memory.NewStore()
	acct := newTestAccount(t, store, "100")
	svc := NewService(store.Ledger(), nil)

	_, err := svc.Apply(context.Background(), Operation{
		AccountID: acct.ID,
		Kind:      models.MovementWithdraw,
		Amount:    decimal.RequireFromString("100.01"),
	})
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	got, err := store.Ledger().GetAccount(acct.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.RequireFromString("100")))

	ms, err := store.Ledger().ListMovementsByAccount(acct.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, ms, "a rejected debit must leave no movement behind")
}

func TestApplyExactBalanceDebitSucceeds(t *testing.T) {
	store := memory.NewStore()
	acct := newTestAccount(t, store, "250")
	svc := NewService(store.Ledger(), nil)

	_, err := svc.Apply(context.Background(), Operation{
		AccountID: acct.ID,
		Kind:      models.MovementInvest,
		Amount:    decimal.RequireFromString("250"),
	})
	require.NoError(t, err)

	got, _ := store.Ledger().GetAccount(acct.ID)
	assert.True(t, got.Balance.IsZero())
}

func TestApplyRejectsInvalidInput(t *testing.T) {
	store := memory.NewStore()
	acct := newTestAccount(t, store, "100")
	svc := NewService(store.Ledger(), nil)

	_, err := svc.Apply(context.Background(), Operation{
		AccountID: acct.ID,
		Kind:      models.MovementRecharge,
		Amount:    decimal.Zero,
	})
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.Apply(context.Background(), Operation{
		AccountID: acct.ID,
		Kind:      "transfer",
		Amount:    decimal.RequireFromString("10"),
	})
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestApplyWithdrawReversalReducesCounter(t *testing.T) {
	store := memory.NewStore()
	acct := newTestAccount(t, store, "1000")
	svc := NewService(store.Ledger(), nil)

	_, err := svc.Apply(context.Background(), Operation{
		AccountID: acct.ID,
		Kind:      models.MovementWithdraw,
		Amount:    decimal.RequireFromString("400"),
	})
	require.NoError(t, err)

	_, err = svc.Apply(context.Background(), Operation{
		AccountID: acct.ID,
		Kind:      models.MovementWithdrawReversal,
		Amount:    decimal.RequireFromString("400"),
	})
	require.NoError(t, err)

	got, _ := store.Ledger().GetAccount(acct.ID)
	assert.True(t, got.Balance.Equal(decimal.RequireFromString("1000")))
	assert.True(t, got.TotalWithdraw.IsZero())
}

func TestApplyCompletesPendingMovementInPlace(t *testing.T) {
	store := memory.NewStore()
	acct := newTestAccount(t, store, "0")
	svc := NewService(store.Ledger(), nil)

	pending := &models.Movement{
		UserID: acct.ID,
		Kind:   models.MovementRecharge,
		Amount: decimal.RequireFromString("500"),
		Status: models.StatusVerificationPending,
	}
	require.NoError(t, store.Ledger().CreateMovement(pending))

	admin := uint(99)
	m, err := svc.Apply(context.Background(), Operation{
		AccountID:          acct.ID,
		Kind:               models.MovementRecharge,
		Amount:             pending.Amount,
		ActorID:            &admin,
		CompleteMovementID: pending.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, pending.ID, m.ID)
	assert.Equal(t, models.StatusCompleted, m.Status)
	require.NotNil(t, m.AdminID)
	assert.Equal(t, admin, *m.AdminID)

	ms, _ := store.Ledger().ListMovementsByAccount(acct.ID, 0)
	assert.Len(t, ms, 1, "completion must not insert a second row")

	// A second approval of the same movement must not credit again.
	_, err = svc.Apply(context.Background(), Operation{
		AccountID:          acct.ID,
		Kind:               models.MovementRecharge,
		Amount:             pending.Amount,
		CompleteMovementID: pending.ID,
	})
	assert.ErrorIs(t, err, ErrAlreadyApplied)

	got, _ := store.Ledger().GetAccount(acct.ID)
	assert.True(t, got.Balance.Equal(decimal.RequireFromString("500")))
}

func TestApplyConcurrentDebitsNeverOverdraw(t *testing.T) {
	store := memory.NewStore()
	acct := newTestAccount(t, store, "100")
	svc := NewService(store.Ledger(), nil)

	const workers = 10
	results := make(chan error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Apply(context.Background(), Operation{
				AccountID: acct.ID,
				Kind:      models.MovementWithdraw,
				Amount:    decimal.RequireFromString("60"),
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var ok, rejected int
	for err := range results {
		if err == nil {
			ok++
		} else {
			assert.ErrorIs(t, err, ErrInsufficientFunds)
			rejected++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, workers-1, rejected)

	got, _ := store.Ledger().GetAccount(acct.ID)
	assert.True(t, got.Balance.Equal(decimal.RequireFromString("40")))
}
