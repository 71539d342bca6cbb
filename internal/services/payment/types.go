package payment

import "github.com/shopspring/decimal"

// RechargeIntent is handed back when a user starts a recharge: the movement
// to quote in the reference submission and the channel to pay into.
type RechargeIntent struct {
	MovementID uint            `json:"order_id"`
	PayUPIID   string          `json:"upi_id"`
	Position   int             `json:"position"`
	Amount     decimal.Decimal `json:"amount"`
}
