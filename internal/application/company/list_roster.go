package company

import (
	"context"
	"fmt"

	domain "github.com/leadflow/crm-import/internal/domain/company"
)

type ListRoster interface {
	Execute(ctx context.Context) ([]domain.RosterEntry, error)
}

type listRoster struct {
	repo domain.RosterRepository
}

func NewListRoster(repo domain.RosterRepository) ListRoster {
	return &listRoster{repo: repo}
}

func (uc *listRoster) Execute(ctx context.Context) ([]domain.RosterEntry, error) {
	entries, err := uc.repo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrListRoster, err)
	}
	if entries == nil {
		entries = []domain.RosterEntry{}
	}
	return entries, nil
}
