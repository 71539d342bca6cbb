package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"paygrow/internal/models"
)

type channelRepository struct {
	db *gorm.DB
}

func NewChannelRepository(db *gorm.DB) ChannelRepository {
	return &channelRepository{db: db}
}

func (r *channelRepository) ExecuteInTransaction(fn func(ChannelRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&channelRepository{db: tx})
	})
}

func (r *channelRepository) Create(ch *models.Channel) error {
	if err := r.db.Create(ch).Error; err != nil {
		return fmt.Errorf("failed to create channel: %w", err)
	}
	return nil
}

func (r *channelRepository) Get(id uint) (*models.Channel, error) {
	var ch models.Channel
	if err := r.db.First(&ch, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChannelNotFound
		}
		return nil, fmt.Errorf("failed to get channel: %w", err)
	}
	return &ch, nil
}

func (r *channelRepository) Save(ch *models.Channel) error {
	if err := r.db.Save(ch).Error; err != nil {
		return fmt.Errorf("failed to save channel: %w", err)
	}
	return nil
}

func (r *channelRepository) Delete(id uint) error {
	result := r.db.Delete(&models.Channel{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete channel: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrChannelNotFound
	}
	return nil
}

func (r *channelRepository) List() ([]models.Channel, error) {
	var chs []models.Channel
	if err := r.db.Order("ordinal ASC").Find(&chs).Error; err != nil {
		return nil, fmt.Errorf("failed to list channels: %w", err)
	}
	return chs, nil
}

func (r *channelRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Channel{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count channels: %w", err)
	}
	return count, nil
}

func (r *channelRepository) GetActiveForUpdate() (*models.Channel, error) {
	var ch models.Channel
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("active = ?", true).
		Order("ordinal ASC").
		First(&ch).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveChannel
		}
		return nil, fmt.Errorf("failed to lock active channel: %w", err)
	}
	return &ch, nil
}

func (r *channelRepository) GetActive() (*models.Channel, error) {
	var ch models.Channel
	err := r.db.Where("active = ?", true).Order("ordinal ASC").First(&ch).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveChannel
		}
		return nil, fmt.Errorf("failed to get active channel: %w", err)
	}
	return &ch, nil
}

func (r *channelRepository) FirstByOrdinal() (*models.Channel, error) {
	var ch models.Channel
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Order("ordinal ASC").
		First(&ch).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChannelNotFound
		}
		return nil, fmt.Errorf("failed to get first channel: %w", err)
	}
	return &ch, nil
}

func (r *channelRepository) NextAfter(ordinal int) (*models.Channel, error) {
	var ch models.Channel
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("ordinal > ?", ordinal).
		Order("ordinal ASC").
		First(&ch).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChannelNotFound
		}
		return nil, fmt.Errorf("failed to get next channel: %w", err)
	}
	return &ch, nil
}

func (r *channelRepository) MaxOrdinal() (int, error) {
	var max int
	err := r.db.Model(&models.Channel{}).
		Select("COALESCE(MAX(ordinal), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, fmt.Errorf("failed to get max ordinal: %w", err)
	}
	return max, nil
}

func (r *channelRepository) Totals() (*ChannelTotals, error) {
	var totals ChannelTotals
	err := r.db.Model(&models.Channel{}).
		Select("COUNT(*) as total_channels, COALESCE(SUM(total_done), 0) as total_payments").
		Scan(&totals).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get channel totals: %w", err)
	}
	return &totals, nil
}
