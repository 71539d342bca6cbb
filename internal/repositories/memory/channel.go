package memory

import (
	"sort"
	"time"

	"paygrow/internal/models"
	"paygrow/internal/repositories"
)

// ChannelStore implements repositories.ChannelRepository over a Store.
type ChannelStore struct {
	s  *Store
	tx *dataset
}

func (c *ChannelStore) run(fn func(*dataset) error) error {
	if c.tx != nil {
		return fn(c.tx)
	}
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	return fn(c.s.d)
}

func (c *ChannelStore) ExecuteInTransaction(fn func(repositories.ChannelRepository) error) error {
	if c.tx != nil {
		return fn(c)
	}
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	snapshot := c.s.d.clone()
	if err := fn(&ChannelStore{s: c.s, tx: c.s.d}); err != nil {
		c.s.d = snapshot
		return err
	}
	return nil
}

func (c *ChannelStore) Create(ch *models.Channel) error {
	return c.run(func(d *dataset) error {
		ch.ID = d.nextID("channel")
		ch.CreatedAt = time.Now()
		ch.UpdatedAt = ch.CreatedAt
		d.channels[ch.ID] = *ch
		return nil
	})
}

func (c *ChannelStore) Get(id uint) (*models.Channel, error) {
	var out models.Channel
	err := c.run(func(d *dataset) error {
		ch, ok := d.channels[id]
		if !ok {
			return repositories.ErrChannelNotFound
		}
		out = ch
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *ChannelStore) Save(ch *models.Channel) error {
	return c.run(func(d *dataset) error {
		if _, ok := d.channels[ch.ID]; !ok {
			return repositories.ErrChannelNotFound
		}
		ch.UpdatedAt = time.Now()
		d.channels[ch.ID] = *ch
		return nil
	})
}

func (c *ChannelStore) Delete(id uint) error {
	return c.run(func(d *dataset) error {
		if _, ok := d.channels[id]; !ok {
			return repositories.ErrChannelNotFound
		}
		delete(d.channels, id)
		return nil
	})
}

func (c *ChannelStore) List() ([]models.Channel, error) {
	var out []models.Channel
	_ = c.run(func(d *dataset) error {
		for _, ch := range d.channels {
			out = append(out, ch)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Ordinal < out[j].Ordinal })
	return out, nil
}

func (c *ChannelStore) Count() (int64, error) {
	var n int64
	_ = c.run(func(d *dataset) error {
		n = int64(len(d.channels))
		return nil
	})
	return n, nil
}

func (c *ChannelStore) GetActiveForUpdate() (*models.Channel, error) {
	return c.GetActive()
}

func (c *ChannelStore) GetActive() (*models.Channel, error) {
	var out *models.Channel
	err := c.run(func(d *dataset) error {
		for _, ch := range d.channels {
			ch := ch
			if ch.Active && (out == nil || ch.Ordinal < out.Ordinal) {
				out = &ch
			}
		}
		if out == nil {
			return repositories.ErrNoActiveChannel
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ChannelStore) FirstByOrdinal() (*models.Channel, error) {
	var out *models.Channel
	err := c.run(func(d *dataset) error {
		for _, ch := range d.channels {
			ch := ch
			if out == nil || ch.Ordinal < out.Ordinal {
				out = &ch
			}
		}
		if out == nil {
			return repositories.ErrChannelNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ChannelStore) NextAfter(ordinal int) (*models.Channel, error) {
	var out *models.Channel
	err := c.run(func(d *dataset) error {
		for _, ch := range d.channels {
			ch := ch
			if ch.Ordinal > ordinal && (out == nil || ch.Ordinal < out.Ordinal) {
				out = &ch
			}
		}
		if out == nil {
			return repositories.ErrChannelNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ChannelStore) MaxOrdinal() (int, error) {
	var max int
	_ = c.run(func(d *dataset) error {
		for _, ch := range d.channels {
			if ch.Ordinal > max {
				max = ch.Ordinal
			}
		}
		return nil
	})
	return max, nil
}

func (c *ChannelStore) Totals() (*repositories.ChannelTotals, error) {
	totals := &repositories.ChannelTotals{}
	_ = c.run(func(d *dataset) error {
		for _, ch := range d.channels {
			totals.TotalChannels++
			totals.TotalPayments += int64(ch.TotalDone)
		}
		return nil
	})
	return totals, nil
}
