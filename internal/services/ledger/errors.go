package ledger

import "errors"

var (
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrInsufficientFunds = errors.New("insufficient balance")
	ErrUnknownKind       = errors.New("unknown movement kind")
	ErrAlreadyApplied    = errors.New("movement already in a terminal status")
)
