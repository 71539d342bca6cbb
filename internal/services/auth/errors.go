package auth

import "errors"

var (
	ErrInvalidPhone       = errors.New("a valid phone number is required")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
	ErrPhoneTaken         = errors.New("phone number already registered")
	ErrInvalidReferral    = errors.New("referral code does not exist")
	ErrInvalidCredentials = errors.New("invalid phone or password")
)
