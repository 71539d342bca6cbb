package repositories

import (
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"paygrow/internal/config"
	"paygrow/internal/models"
)

// DBConfig holds database connection pool configuration.
type DBConfig struct {
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

var dbConfig = DBConfig{
	MaxIdleConns:    10,
	MaxOpenConns:    100,
	ConnMaxLifetime: time.Hour,
	ConnMaxIdleTime: time.Minute * 30,
}

// InitDB connects to PostgreSQL, configures the connection pool and runs
// the schema migration.
func InitDB(cfg *config.Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{}
	if cfg.IsProduction() {
		gormCfg.Logger = gormlogger.Default.LogMode(gormlogger.Warn)
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN()), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxIdleConns(dbConfig.MaxIdleConns)
	sqlDB.SetMaxOpenConns(dbConfig.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(dbConfig.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(dbConfig.ConnMaxIdleTime)

	err = db.AutoMigrate(
		&models.User{},
		&models.Movement{},
		&models.Withdrawal{},
		&models.Investment{},
		&models.Channel{},
		&models.Checkin{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return db, nil
}

// SeedChannels inserts the configured payment channels when the pool is
// empty. The seed is a comma-separated list of UPI ids; the first entry
// starts active.
func SeedChannels(db *gorm.DB, cfg *config.Config) error {
	if cfg.ChannelSeed == "" {
		return nil
	}

	repo := NewChannelRepository(db)
	count, err := repo.Count()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	ids := strings.Split(cfg.ChannelSeed, ",")
	for i, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		ch := &models.Channel{
			UPIID:    id,
			Ordinal:  i + 1,
			Capacity: cfg.ChannelCapacity,
			Active:   i == 0,
		}
		if err := repo.Create(ch); err != nil {
			return err
		}
		log.WithFields(log.Fields{"upi_id": id, "position": ch.Ordinal}).Info("seeded payment channel")
	}
	return nil
}
