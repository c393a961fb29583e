package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	domain "github.com/leadflow/crm-import/internal/domain/company"
	"github.com/leadflow/crm-import/internal/infrastructure/db/models"
)

type RosterRepository struct {
	db *gorm.DB
}

func NewRosterRepository(db *gorm.DB) *RosterRepository {
	return &RosterRepository{db: db}
}

func (r *RosterRepository) ListActive(ctx context.Context) ([]domain.RosterEntry, error) {
	var rows []models.Profile

	err := r.db.WithContext(ctx).
		Select("id", "full_name", "role").
		Where("active = ? AND role IN ?", true, []string{string(domain.RoleAdmin), string(domain.RoleSalesperson)}).
		Order("full_name").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list roster: %w", err)
	}

	entries := make([]domain.RosterEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, domain.RosterEntry{
			ID:   row.ID,
			Name: row.FullName,
			Role: domain.Role(row.Role),
		})
	}
	return entries, nil
}
