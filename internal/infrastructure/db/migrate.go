package db

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/leadflow/crm-import/internal/infrastructure/db/models"
)

// DefaultStages seeds an empty pipeline. Imported leads land on the first one.
var DefaultStages = []string{"Prospecção", "Qualificação", "Proposta", "Negociação", "Fechamento"}

func Migrate(ctx context.Context, db *gorm.DB) error {
	tx := db.WithContext(ctx)

	if err := tx.Exec(`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`).Error; err != nil {
		return fmt.Errorf("enable pgcrypto: %w", err)
	}

	if err := tx.AutoMigrate(
		&models.Profile{},
		&models.Company{},
		&models.PipelineStage{},
		&models.Opportunity{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	var stages int64
	if err := tx.Model(&models.PipelineStage{}).Count(&stages).Error; err != nil {
		return fmt.Errorf("count pipeline stages: %w", err)
	}
	if stages > 0 {
		return nil
	}

	seed := make([]models.PipelineStage, 0, len(DefaultStages))
	for i, name := range DefaultStages {
		seed = append(seed, models.PipelineStage{Name: name, Position: i + 1})
	}
	if err := tx.Create(&seed).Error; err != nil {
		return fmt.Errorf("seed pipeline stages: %w", err)
	}
	return nil
}
