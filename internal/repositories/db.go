// Package repositories provides the data access layer. Every aggregate of
// the marketplace has an interface + GORM implementation pair; the *gorm.DB
// handle is injected explicitly so services can be wired against an
// isolated store in tests.
package repositories

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	"drover/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TxRunner is the one capability services need from the store handle:
// running a function inside a single transaction. *gorm.DB satisfies it;
// tests substitute a runner that invokes the callback directly.
type TxRunner interface {
	Transaction(fc func(tx *gorm.DB) error, opts ...*sql.TxOptions) error
}

// DBConfig holds database connection settings.
type DBConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// Open connects to Postgres, applies pool settings and runs migrations.
// The returned handle is the single store dependency passed to every
// repository; there is no package-level connection.
func Open(cfg DBConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.Host, cfg.User, cfg.Password, cfg.Name, cfg.Port)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// Ignore "record not found" noise in logs
	db.Logger = logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("✅ PostgreSQL connected & migrations applied successfully!")
	return db, nil
}

// Migrate runs schema migrations for all marketplace entities.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Load{},
		&models.Offer{},
		&models.OfferMessage{},
		&models.Booking{},
		&models.TruckAvailability{},
		&models.Trip{},
		&models.Payment{},
		&models.DirectPaymentReceipt{},
		&models.Dispute{},
		&models.DisputeMessage{},
	)
}
