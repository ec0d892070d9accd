package database

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sangkips/salesledger/internal/config"
	"github.com/sangkips/salesledger/internal/domain/entity"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens the database selected by DB_DRIVER
func NewDB(cfg *config.DatabaseConfig, debug bool) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN())
	case "postgres", "":
		dialector = postgres.New(postgres.Config{
			DSN:                  cfg.DSN(),
			PreferSimpleProtocol: true, // disables implicit prepared statement usage
		})
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	logLevel := logger.Warn
	if debug {
		logLevel = logger.Info
	}

	db, err := Open(dialector, logger.Default.LogMode(logLevel))
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if cfg.Driver == "sqlite" {
		// SQLite allows a single writer
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
	}

	log.Info().Str("driver", cfg.Driver).Msg("connected to database")
	return db, nil
}

// Open wraps gorm.Open with the settings every dialect shares. Timestamps
// are always written in UTC.
func Open(dialector gorm.Dialector, gormLogger logger.Interface) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Info().Msg("running database migrations")

	err := db.AutoMigrate(
		// Catalog
		&entity.Category{},
		&entity.Product{},
		&entity.Stock{},

		// Parties
		&entity.Customer{},
		&entity.Location{},
		&entity.Seller{},

		// Sales and ledger
		&entity.Discount{},
		&entity.Sale{},
		&entity.SaleLine{},
		&entity.ProfitRecord{},

		// System
		&entity.IdempotencyKey{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info().Msg("database migrations completed")
	return nil
}

// SeedSellers creates the configured sellers that do not exist yet
func SeedSellers(db *gorm.DB, cfg config.SeedConfig) error {
	for _, s := range cfg.Sellers {
		var count int64
		if err := db.Model(&entity.Seller{}).Where("username = ?", s.Username).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to look up seller %s: %w", s.Username, err)
		}
		if count > 0 {
			continue
		}

		seller := entity.Seller{Username: s.Username, Email: s.Email}
		if err := seller.SetPassword(cfg.Password); err != nil {
			log.Warn().Err(err).Str("username", s.Username).Msg("failed to hash seller password")
			continue
		}
		if err := db.Create(&seller).Error; err != nil {
			log.Warn().Err(err).Str("username", s.Username).Msg("failed to create seller")
			continue
		}
		log.Info().Str("username", s.Username).Msg("seller created")
	}
	return nil
}
