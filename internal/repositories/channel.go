package repositories

import (
	"errors"

	"paygrow/internal/models"
)

var (
	ErrChannelNotFound = errors.New("channel not found")
	ErrNoActiveChannel = errors.New("no active channel")
)

// ChannelTotals aggregates rotation pool statistics. TotalPayments is the
// lifetime count; it survives the per-cycle counter resets.
type ChannelTotals struct {
	TotalChannels int64 `json:"totalChannels"`
	TotalPayments int64 `json:"totalPayments"`
}

// ChannelRepository stores the rotation pool. "Exactly one active channel"
// is a cross-row invariant, so every state transition runs inside
// ExecuteInTransaction.
type ChannelRepository interface {
	ExecuteInTransaction(fn func(ChannelRepository) error) error

	Create(ch *models.Channel) error
	Get(id uint) (*models.Channel, error)
	Save(ch *models.Channel) error
	Delete(id uint) error
	List() ([]models.Channel, error)
	Count() (int64, error)

	// GetActiveForUpdate returns the active channel under a row lock, or
	// ErrNoActiveChannel when the flag is set nowhere.
	GetActiveForUpdate() (*models.Channel, error)
	GetActive() (*models.Channel, error)

	// FirstByOrdinal returns the lowest-ordinal channel; NextAfter the
	// lowest ordinal strictly greater than the given one. Both return
	// ErrChannelNotFound when no such row exists.
	FirstByOrdinal() (*models.Channel, error)
	NextAfter(ordinal int) (*models.Channel, error)
	MaxOrdinal() (int, error)

	Totals() (*ChannelTotals, error)
}
