package database

import (
	"fmt"
	"time"

	"stockledger/internal/config"
	"stockledger/internal/model"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewConnection opens the ledger store, applies pool settings and migrates the schema.
// Relations between ledger tables are weak references: an item can be deleted while
// history rows still point at it, so no foreign keys are created.
func NewConnection(cfg config.PostgresConfig, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Second)

	err = db.AutoMigrate(
		&model.Category{},
		&model.Batch{},
		&model.InventoryItem{},
		&model.Sale{},
		&model.Restock{},
		&model.Expense{},
		&model.StockMovement{},
	)
	if err != nil {
		log.Warn("failed to auto-migrate models", zap.Error(err))
	}
	// superseded by the case-insensitive idx_categories_owner_lower_name
	if m := db.Migrator(); m.HasIndex(&model.Category{}, "idx_categories_owner_name") {
		if err := m.DropIndex(&model.Category{}, "idx_categories_owner_name"); err != nil {
			log.Warn("failed to drop case-sensitive category index", zap.Error(err))
		}
	}

	return db, nil
}
