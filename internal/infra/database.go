package infra

import (
	"fmt"

	"github.com/fadesignlk/stock-master-api/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx and runs AutoMigrate
// to create or update all tables. gen_random_uuid() defaults require the
// pgcrypto extension on PostgreSQL < 13, so it is created up front.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		return nil, fmt.Errorf("pgcrypto extension: %w", err)
	}

	if err := RunMigrations(db); err != nil {
		return nil, fmt.Errorf("AutoMigrate: %w", err)
	}
	return db, nil
}

// RunMigrations applies the schema; also used by the seed command and
// integration tests.
func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Brand{},
		&model.Category{},
		&model.Location{},
		&model.Supplier{},
		&model.Customer{},
		&model.Product{},
		&model.Stock{},
		&model.PurchaseOrder{},
		&model.PurchaseOrderItem{},
		&model.Sale{},
		&model.SaleItem{},
	)
}
