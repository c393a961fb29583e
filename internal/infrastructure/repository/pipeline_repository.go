package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	domain "github.com/leadflow/crm-import/internal/domain/company"
	"github.com/leadflow/crm-import/internal/infrastructure/db/models"
)

type PipelineStageRepository struct {
	db *gorm.DB
}

func NewPipelineStageRepository(db *gorm.DB) *PipelineStageRepository {
	return &PipelineStageRepository{db: db}
}

// First returns the stage with the lowest position.
func (r *PipelineStageRepository) First(ctx context.Context) (*domain.PipelineStage, error) {
	var row models.PipelineStage

	err := r.db.WithContext(ctx).Order("position ASC").First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNoPipelineStage
		}
		return nil, fmt.Errorf("get first pipeline stage: %w", err)
	}

	return &domain.PipelineStage{ID: row.ID, Name: row.Name, Position: row.Position}, nil
}

type AuditLogRepository struct {
	db *gorm.DB
}

func NewAuditLogRepository(db *gorm.DB) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

func (r *AuditLogRepository) Record(ctx context.Context, entry domain.AuditEntry) error {
	details, err := json.Marshal(entry.Details)
	if err != nil {
		return fmt.Errorf("encode audit details: %w", err)
	}

	row := models.AuditLog{
		UserID:     entry.UserID,
		Action:     entry.Action,
		EntityType: entry.EntityType,
		Details:    datatypes.JSON(details),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("create audit log: %w", err)
	}
	return nil
}
