package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paygrow/internal/config"
	"paygrow/internal/models"
	"paygrow/internal/repositories/memory"
	"paygrow/internal/utils"
)

func newService(t *testing.T) (*Service, *memory.Store) {
	t.Helper()
	cfg := &config.Config{
		JWTSecret:     "test-secret",
		TokenTTL:      time.Hour,
		AdminUsername: "ops",
		AdminPassword: "ops-secret",
	}
	store := memory.NewStore()
	return NewService(store.Ledger(), cfg), store
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	user, token, err := svc.Register(ctx, "9876543210", "hunter22", "")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NotEmpty(t, user.ReferralCode)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NotEqual(t, "hunter22", user.PasswordHash)

	claims, err := utils.ParseToken(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	_, _, err = svc.Login(ctx, "9876543210", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	got, token, err := svc.Login(ctx, "9876543210", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.NotEmpty(t, token)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "123", "hunter22", "")
	assert.ErrorIs(t, err, ErrInvalidPhone)

	_, _, err = svc.Register(ctx, "9876543210", "abc", "")
	assert.ErrorIs(t, err, ErrWeakPassword)

	_, _, err = svc.Register(ctx, "9876543210", "hunter22", "NOSUCH01")
	assert.ErrorIs(t, err, ErrInvalidReferral)

	_, _, err = svc.Register(ctx, "9876543210", "hunter22", "")
	require.NoError(t, err)
	_, _, err = svc.Register(ctx, "9876543210", "hunter22", "")
	assert.ErrorIs(t, err, ErrPhoneTaken)
}

func TestRegisterWithReferral(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	referrer, _, err := svc.Register(ctx, "9876543210", "hunter22", "")
	require.NoError(t, err)

	invited, _, err := svc.Register(ctx, "9876543211", "hunter22", referrer.ReferralCode)
	require.NoError(t, err)
	assert.Equal(t, referrer.ReferralCode, invited.ReferredBy)
}

func TestAdminLogin(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.AdminLogin("ops", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	token, err := svc.AdminLogin("ops", "ops-secret")
	require.NoError(t, err)

	claims, err := utils.ParseToken(token, "test-secret")
	require.NoError(t, err)
	assert.True(t, claims.IsAdmin())
}
