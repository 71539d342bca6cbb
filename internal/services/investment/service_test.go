package investment

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

var testPlan = Plan{
	Name:        "Daily Growth Plan",
	DailyProfit: decimal.RequireFromString("100"),
	Days:        365,
	Period:      24 * time.Hour,
}

func newFixture(t *testing.T, balance string) (*Service, *memory.Store, *models.User) {
	t.Helper()
	store := memory.NewStore()
	engine := ledger.NewService(store.Ledger(), nil)
	svc := NewService(store.Ledger(), engine, testPlan)

	acct := &models.User{
		Phone:        "9000000002",
		PasswordHash: "x",
		Balance:      decimal.RequireFromString(balance),
		ReferralCode: "XYZ789",
		Role:         models.RoleUser,
	}
	require.NoError(t, store.Ledger().CreateAccount(acct))
	return svc, store, acct
}

func TestCreateDebitsAndOpensPosition(t *testing.T) {
	svc, store, acct := newFixture(t, "1000")

	p, err := svc.Create(context.Background(), acct.ID, decimal.RequireFromString("1000"))
	require.NoError(t, err)
	assert.Equal(t, models.InvestmentActive, p.Status)
	require.NotNil(t, p.LastAccrualAt)

	got, _ := store.Ledger().GetAccount(acct.ID)
	assert.True(t, got.Balance.IsZero())

	ms, _ := store.Ledger().ListMovementsByAccount(acct.ID, 0)
	require.Len(t, ms, 1)
	assert.Equal(t, models.MovementInvest, ms[0].Kind)
}

func TestCreateInsufficientFundsRollsBack(t *testing.T) {
	svc, store, acct := newFixture(t, "500")

	_, err := svc.Create(context.Background(), acct.ID, decimal.RequireFromString("1000"))
	assert.ErrorIs(t, err, ledger.ErrInsufficientFunds)

	positions, _ := store.Ledger().ListInvestmentsByAccount(acct.ID)
	assert.Empty(t, positions)
}

func TestSweepPaysAfterPeriodElapsed(t *testing.T) {
	svc, store, acct := newFixture(t, "1000")
	ctx := context.Background()

	_, err := svc.Create(ctx, acct.ID, decimal.RequireFromString("1000"))
	require.NoError(t, err)

	// Too early: nothing due.
	res, err := svc.RunSweep(ctx, time.Now().Add(23*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 0, res.Processed)
	assert.Equal(t, 1, res.Skipped)

	res, err = svc.RunSweep(ctx, time.Now().Add(25*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Processed)

	got, _ := store.Ledger().GetAccount(acct.ID)
	assert.True(t, got.Balance.Equal(decimal.RequireFromString("100")))

	ms, _ := store.Ledger().ListMovementsByAccount(acct.ID, 0)
	require.Len(t, ms, 2)
	assert.Equal(t, models.MovementAccrual, ms[0].Kind)
}

func TestSweepIsIdempotentWithinPeriod(t *testing.T) {
	svc, store, acct := newFixture(t, "1000")
	ctx := context.Background()

	_, err := svc.Create(ctx, acct.ID, decimal.RequireFromString("1000"))
	require.NoError(t, err)

	due := time.Now().Add(25 * time.Hour)
	res, err := svc.RunSweep(ctx, due)
	require.NoError(t, err)
	require.Equal(t, 1, res.Processed)

	// Re-running at the same instant pays nothing more.
	res, err = svc.RunSweep(ctx, due)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Processed)

	got, _ := store.Ledger().GetAccount(acct.ID)
	assert.True(t, got.Balance.Equal(decimal.RequireFromString("100")))
}

func TestSweepStartsClockForLegacyPositions(t *testing.T) {
	svc, store, acct := newFixture(t, "0")
	ctx := context.Background()

	p := &models.Investment{
		UserID:      acct.ID,
		PlanName:    testPlan.Name,
		Amount:      decimal.RequireFromString("1000"),
		DailyProfit: testPlan.DailyProfit,
		Days:        testPlan.Days,
		Status:      models.InvestmentActive,
	}
	require.NoError(t, store.Ledger().CreateInvestment(p))

	res, err := svc.RunSweep(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 0, res.Processed)
	assert.Equal(t, 1, res.Skipped)

	got, _ := store.Ledger().GetInvestmentForUpdate(p.ID)
	assert.NotNil(t, got.LastAccrualAt)

	a, err := store.Ledger().GetAccount(acct.ID)
	require.NoError(t, err)
	assert.True(t, a.Balance.IsZero())
}

func TestPositionCompletesAfterFinalPeriod(t *testing.T) {
	shortPlan := testPlan
	shortPlan.Days = 2

	store := memory.NewStore()
	engine := ledger.NewService(store.Ledger(), nil)
	svc := NewService(store.Ledger(), engine, shortPlan)

	acct := &models.User{Phone: "9", PasswordHash: "x", Balance: decimal.RequireFromString("1000"), ReferralCode: "R", Role: models.RoleUser}
	require.NoError(t, store.Ledger().CreateAccount(acct))

	ctx := context.Background()
	p, err := svc.Create(ctx, acct.ID, decimal.RequireFromString("1000"))
	require.NoError(t, err)

	for day := 1; day <= 3; day++ {
		_, err := svc.RunSweep(ctx, time.Now().Add(time.Duration(day)*25*time.Hour))
		require.NoError(t, err)
	}

	got, _ := store.Ledger().GetInvestmentForUpdate(p.ID)
	assert.Equal(t, models.InvestmentCompleted, got.Status)
	assert.Equal(t, 2, got.PeriodsPaid)
	assert.True(t, got.TotalProfit.Equal(decimal.RequireFromString("200")))

	// Day 3 paid nothing: the position had already completed.
	a, _ := store.Ledger().GetAccount(acct.ID)
	assert.True(t, a.Balance.Equal(decimal.RequireFromString("200")))
}

func TestListByAccountTotals(t *testing.T) {
	svc, _, acct := newFixture(t, "3000")
	ctx := context.Background()

	_, err := svc.Create(ctx, acct.ID, decimal.RequireFromString("1000"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, acct.ID, decimal.RequireFromString("2000"))
	require.NoError(t, err)

	sum, err := svc.ListByAccount(acct.ID)
	require.NoError(t, err)
	assert.Len(t, sum.Positions, 2)
	assert.True(t, sum.TotalInvested.Equal(decimal.RequireFromString("3000")))
	assert.True(t, sum.TotalProfit.IsZero())
}
