// Package memory provides in-memory implementations of the repository
// interfaces for tests. Transactions snapshot the whole dataset and restore
// it when the callback fails, giving the same commit-or-rollback behavior
// the database-backed repositories have.
package memory

import (
	"fmt"
	"sync"

	"paygrow/internal/models"
)

type dataset struct {
	accounts    map[uint]models.User
	movements   map[uint]models.Movement
	withdrawals map[uint]models.Withdrawal
	investments map[uint]models.Investment
	channels    map[uint]models.Channel
	checkins    map[string]models.Checkin
	seq         map[string]uint
}

func newDataset() *dataset {
	return &dataset{
		accounts:    make(map[uint]models.User),
		movements:   make(map[uint]models.Movement),
		withdrawals: make(map[uint]models.Withdrawal),
		investments: make(map[uint]models.Investment),
		channels:    make(map[uint]models.Channel),
		checkins:    make(map[string]models.Checkin),
		seq:         make(map[string]uint),
	}
}

func (d *dataset) nextID(entity string) uint {
	d.seq[entity]++
	return d.seq[entity]
}

func (d *dataset) clone() *dataset {
	c := newDataset()
	for k, v := range d.accounts {
		c.accounts[k] = v
	}
	for k, v := range d.movements {
		c.movements[k] = v
	}
	for k, v := range d.withdrawals {
		c.withdrawals[k] = v
	}
	for k, v := range d.investments {
		c.investments[k] = v
	}
	for k, v := range d.channels {
		c.channels[k] = v
	}
	for k, v := range d.checkins {
		c.checkins[k] = v
	}
	for k, v := range d.seq {
		c.seq[k] = v
	}
	return c
}

func checkinKey(accountID uint, day string) string {
	return fmt.Sprintf("%d:%s", accountID, day)
}

// Store is the shared backing state. Ledger() and Channels() return views
// implementing the repository interfaces; both views see the same data.
type Store struct {
	mu sync.Mutex
	d  *dataset
}

func NewStore() *Store {
	return &Store{d: newDataset()}
}

// Ledger returns a LedgerRepository view over the store.
func (s *Store) Ledger() *LedgerStore {
	return &LedgerStore{s: s}
}

// Channels returns a ChannelRepository view over the store.
func (s *Store) Channels() *ChannelStore {
	return &ChannelStore{s: s}
}
