// Package auth handles registration, login and token issuance.
package auth

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"

	"paygrow/internal/config"
	"paygrow/internal/models"
	"paygrow/internal/repositories"
	"paygrow/internal/utils"
)

type Service struct {
	repo repositories.LedgerRepository
	cfg  *config.Config
}

func NewService(repo repositories.LedgerRepository, cfg *config.Config) *Service {
	return &Service{repo: repo, cfg: cfg}
}

// Register creates an account and returns it with a signed token. A referral
// code, when given, must belong to an existing user and is recorded on the
// new account.
func (s *Service) Register(ctx context.Context, phone, password, referralCode string) (*models.User, string, error) {
	if len(phone) < 10 {
		return nil, "", ErrInvalidPhone
	}
	if len(password) < 6 {
		return nil, "", ErrWeakPassword
	}

	if _, err := s.repo.GetAccountByPhone(phone); err == nil {
		return nil, "", ErrPhoneTaken
	} else if !errors.Is(err, repositories.ErrAccountNotFound) {
		return nil, "", err
	}

	if referralCode != "" {
		if _, err := s.repo.GetAccountByReferralCode(referralCode); err != nil {
			if errors.Is(err, repositories.ErrAccountNotFound) {
				return nil, "", ErrInvalidReferral
			}
			return nil, "", err
		}
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, "", err
	}

	user := &models.User{
		Phone:        phone,
		PasswordHash: hash,
		ReferralCode: utils.GenerateReferralCode(),
		ReferredBy:   referralCode,
		Role:         models.RoleUser,
	}
	if err := s.repo.CreateAccount(user); err != nil {
		return nil, "", err
	}

	token, err := utils.GenerateToken(user, s.cfg.JWTSecret, s.cfg.TokenTTL)
	if err != nil {
		return nil, "", err
	}

	log.WithFields(log.Fields{"user_id": user.ID, "phone": phone}).Info("user registered")
	return user, token, nil
}

// Login verifies the credentials and returns the account with a signed token.
func (s *Service) Login(ctx context.Context, phone, password string) (*models.User, string, error) {
	user, err := s.repo.GetAccountByPhone(phone)
	if err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(user, s.cfg.JWTSecret, s.cfg.TokenTTL)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// AdminLogin checks the operator credentials configured in the environment
// and issues an admin token not tied to a database account.
func (s *Service) AdminLogin(username, password string) (string, error) {
	if s.cfg.AdminUsername == "" || username != s.cfg.AdminUsername || password != s.cfg.AdminPassword {
		return "", ErrInvalidCredentials
	}
	admin := &models.User{Phone: username, Role: models.RoleAdmin}
	return utils.GenerateToken(admin, s.cfg.JWTSecret, s.cfg.TokenTTL)
}
