package database

import (
	"context"

	"github.com/kaixxz/MediNote/internal/config"
	"github.com/kaixxz/MediNote/internal/model"
	"github.com/kaixxz/MediNote/pkg/database"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func NewConnection(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	return database.NewConnection(context.Background(), cfg.Database, logger)
}

// Migrate creates or updates the ledger, draft and report tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&model.Account{}, &model.Transaction{}, &model.Draft{}, &model.Report{})
}
