// Package rotation manages the pool of receiving payment channels. Exactly
// one channel is active at a time; when it has collected its configured
// number of successful payments the allocator moves the active flag to the
// next position, wrapping around at the end of the pool.
package rotation

import (
	"errors"

	log "github.com/sirupsen/logrus"

	"paygrow/internal/models"
	"paygrow/internal/repositories"
)

type Service struct {
	repo            repositories.ChannelRepository
	defaultCapacity int
}

func NewService(repo repositories.ChannelRepository, defaultCapacity int) *Service {
	return &Service{repo: repo, defaultCapacity: defaultCapacity}
}

// ActiveChannel returns the channel new payments should target. When no
// channel carries the active flag the pool self-heals by activating the
// lowest position.
func (s *Service) ActiveChannel() (*models.Channel, error) {
	ch, err := s.repo.GetActive()
	if err == nil {
		return ch, nil
	}
	if !errors.Is(err, repositories.ErrNoActiveChannel) {
		return nil, err
	}

	var healed *models.Channel
	err = s.repo.ExecuteInTransaction(func(tx repositories.ChannelRepository) error {
		// Re-check under the transaction; another request may have
		// healed the pool already.
		if ch, err := tx.GetActiveForUpdate(); err == nil {
			healed = ch
			return nil
		} else if !errors.Is(err, repositories.ErrNoActiveChannel) {
			return err
		}

		first, err := tx.FirstByOrdinal()
		if err != nil {
			if errors.Is(err, repositories.ErrChannelNotFound) {
				return ErrNoChannelsAvailable
			}
			return err
		}
		first.Active = true
		if err := tx.Save(first); err != nil {
			return err
		}
		healed = first
		log.WithField("position", first.Ordinal).Warn("no active payment channel, activated lowest position")
		return nil
	})
	if err != nil {
		return nil, err
	}
	return healed, nil
}

// RecordSuccess counts one confirmed payment against the active channel and
// rotates to the next position once the channel reaches capacity. It returns
// the channel the payment was counted against.
func (s *Service) RecordSuccess() (*models.Channel, error) {
	var used *models.Channel
	err := s.repo.ExecuteInTransaction(func(tx repositories.ChannelRepository) error {
		ch, err := tx.GetActiveForUpdate()
		if err != nil {
			if !errors.Is(err, repositories.ErrNoActiveChannel) {
				return err
			}
			ch, err = tx.FirstByOrdinal()
			if err != nil {
				if errors.Is(err, repositories.ErrChannelNotFound) {
					return ErrNoChannelsAvailable
				}
				return err
			}
			ch.Active = true
		}

		ch.SuccessCount++
		ch.TotalDone++
		if ch.SuccessCount >= ch.Capacity {
			out, err := s.rotateFrom(tx, ch)
			if err != nil {
				return err
			}
			used = out
			return nil
		}
		if err := tx.Save(ch); err != nil {
			return err
		}
		used = ch
		return nil
	})
	if err != nil {
		return nil, err
	}
	return used, nil
}

// rotateFrom deactivates the full channel and activates the next position,
// wrapping to the lowest ordinal past the end of the pool. The outgoing
// counter is reset so the channel starts a fresh cycle on its next turn.
func (s *Service) rotateFrom(tx repositories.ChannelRepository, full *models.Channel) (*models.Channel, error) {
	outgoing := *full
	full.Active = false
	full.SuccessCount = 0
	if err := tx.Save(full); err != nil {
		return nil, err
	}

	next, err := tx.NextAfter(full.Ordinal)
	if errors.Is(err, repositories.ErrChannelNotFound) {
		next, err = tx.FirstByOrdinal()
	}
	if err != nil {
		return nil, err
	}
	next.Active = true
	if err := tx.Save(next); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"from_position": outgoing.Ordinal,
		"to_position":   next.Ordinal,
	}).Info("payment channel rotated")
	return &outgoing, nil
}

// Add appends a channel at the end of the pool. The first channel added to
// an empty pool starts active.
func (s *Service) Add(upiID string, capacity int) (*models.Channel, error) {
	if capacity <= 0 {
		capacity = s.defaultCapacity
	}

	var created *models.Channel
	err := s.repo.ExecuteInTransaction(func(tx repositories.ChannelRepository) error {
		max, err := tx.MaxOrdinal()
		if err != nil {
			return err
		}
		count, err := tx.Count()
		if err != nil {
			return err
		}
		ch := &models.Channel{
			UPIID:    upiID,
			Ordinal:  max + 1,
			Capacity: capacity,
			Active:   count == 0,
		}
		if err := tx.Create(ch); err != nil {
			return err
		}
		created = ch
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Update changes a channel's UPI id and/or capacity.
func (s *Service) Update(id uint, upiID string, capacity int) (*models.Channel, error) {
	var updated *models.Channel
	err := s.repo.ExecuteInTransaction(func(tx repositories.ChannelRepository) error {
		ch, err := tx.Get(id)
		if err != nil {
			return err
		}
		if upiID != "" {
			ch.UPIID = upiID
		}
		if capacity > 0 {
			ch.Capacity = capacity
		}
		if err := tx.Save(ch); err != nil {
			return err
		}
		updated = ch
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Remove deletes a channel. When the active channel is removed the pool is
// left without an active flag; the next read self-heals it.
func (s *Service) Remove(id uint) error {
	return s.repo.Delete(id)
}

func (s *Service) List() ([]models.Channel, error) {
	return s.repo.List()
}

// Stats is the admin view of the pool: the channel currently receiving
// payments plus lifetime totals.
type Stats struct {
	Active        *models.Channel `json:"active_channel"`
	TotalChannels int64           `json:"total_channels"`
	TotalPayments int64           `json:"total_payments"`
}

func (s *Service) PoolStats() (*Stats, error) {
	totals, err := s.repo.Totals()
	if err != nil {
		return nil, err
	}
	stats := &Stats{
		TotalChannels: totals.TotalChannels,
		TotalPayments: totals.TotalPayments,
	}
	if active, err := s.repo.GetActive(); err == nil {
		stats.Active = active
	} else if !errors.Is(err, repositories.ErrNoActiveChannel) {
		return nil, err
	}
	return stats, nil
}
