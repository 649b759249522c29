// Package database opens the ledger store connection.
package database

import (
	"errors"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	infrarepo "github.com/xbank/xbank/infra/repository"
	"github.com/xbank/xbank/pkg/config"
)

// New opens a Postgres connection and migrates the ledger schema.
func New(cfg config.DB) (*gorm.DB, error) {
	if cfg.URL == "" {
		return nil, errors.New("database URL is not set")
	}
	db, err := gorm.Open(postgres.Open(cfg.URL), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}
	err = db.AutoMigrate(
		&infrarepo.Account{},
		&infrarepo.Transaction{},
		&infrarepo.Notification{},
	)
	if err != nil {
		return nil, err
	}
	return db, nil
}
