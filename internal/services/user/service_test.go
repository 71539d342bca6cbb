package user

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paygrow/internal/models"
	"paygrow/internal/repositories/memory"
	"paygrow/internal/services/ledger"
)

func newFixture(t *testing.T) (*Service, *memory.Store, *models.User) {
	t.Helper()
	store := memory.NewStore()
	engine := ledger.NewService(store.Ledger(), nil)
	svc := NewService(store.Ledger(), engine, nil, 10, 60)

	acct := &models.User{
		Phone:        "9000000003",
		PasswordHash: "x",
		ReferralCode: "USR001",
		Role:         models.RoleUser,
	}
	require.NoError(t, store.Ledger().CreateAccount(acct))
	return svc, store, acct
}

func TestDailyCheckinOncePerDay(t *testing.T) {
	svc, store, acct := newFixture(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	m, err := svc.DailyCheckin(ctx, acct.ID, now)
	require.NoError(t, err)
	assert.Equal(t, models.MovementCheckin, m.Kind)
	assert.True(t, m.Amount.GreaterThanOrEqual(decimal.NewFromInt(10)))
	assert.True(t, m.Amount.LessThanOrEqual(decimal.NewFromInt(60)))

	got, _ := store.Ledger().GetAccount(acct.ID)
	assert.True(t, got.Balance.Equal(m.Amount))
	assert.True(t, got.TotalWelfare.Equal(m.Amount))

	// Same day, later hour: refused, nothing credited.
	_, err = svc.DailyCheckin(ctx, acct.ID, now.Add(6*time.Hour))
	assert.ErrorIs(t, err, ErrAlreadyCheckedIn)

	after, _ := store.Ledger().GetAccount(acct.ID)
	assert.True(t, after.Balance.Equal(m.Amount))

	// Next day works again.
	_, err = svc.DailyCheckin(ctx, acct.ID, now.AddDate(0, 0, 1))
	require.NoError(t, err)
}

func TestProfileFallsBackToStore(t *testing.T) {
	svc, _, acct := newFixture(t)

	got, err := svc.Profile(context.Background(), acct.ID)
	require.NoError(t, err)
	assert.Equal(t, acct.Phone, got.Phone)
}

func TestMovementListingDefaultsLimit(t *testing.T) {
	svc, store, acct := newFixture(t)

	for i := 0; i < 3; i++ {
		require.NoError(t, store.Ledger().CreateMovement(&models.Movement{
			UserID: acct.ID,
			Kind:   models.MovementRecharge,
			Amount: decimal.NewFromInt(int64(100 + i)),
			Status: models.StatusCompleted,
		}))
	}

	ms, err := svc.Movements(acct.ID, 0)
	require.NoError(t, err)
	assert.Len(t, ms, 3)
	// Newest first.
	assert.True(t, ms[0].Amount.Equal(decimal.NewFromInt(102)))
}
