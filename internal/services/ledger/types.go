package ledger

import (
	"github.com/shopspring/decimal"

	"paygrow/internal/models"
)

// Operation is one requested balance change. The Kind decides the direction;
// unknown kinds are rejected rather than defaulted.
type Operation struct {
	AccountID uint
	Kind      string
	Amount    decimal.Decimal
	Remark    string

	// ActorID identifies the admin who triggered the change, when any.
	ActorID *uint

	// PayoutID and Reference carry the external payment coordinates onto
	// the movement row.
	PayoutID  string
	Reference string

	// CompleteMovementID, when set, completes that existing pending
	// movement in place instead of inserting a new row. Used when a
	// recharge that already has an audit row is approved.
	CompleteMovementID uint
}

// credits and debits partition the known movement kinds.
var credits = map[string]bool{
	models.MovementRecharge:         true,
	models.MovementAccrual:          true,
	models.MovementCheckin:          true,
	models.MovementWithdrawReversal: true,
}

var debits = map[string]bool{
	models.MovementWithdraw: true,
	models.MovementInvest:   true,
}
