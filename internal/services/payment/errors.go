package payment

import "errors"

var (
	ErrAlreadyProcessed = errors.New("request already processed")
	ErrBelowMinimum     = errors.New("amount below the minimum withdrawal")
	ErrMissingReference = errors.New("transaction reference is required")
)
