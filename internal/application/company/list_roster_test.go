package company_test

import (
	"context"
	"errors"
	"testing"

	app "github.com/leadflow/crm-import/internal/application/company"
	domain "github.com/leadflow/crm-import/internal/domain/company"
)

func TestListRosterSuccess(t *testing.T) {
	t.Parallel()

	uc := app.NewListRoster(&fakeRosterRepository{entries: []domain.RosterEntry{
		{ID: "u-1", Name: "Ana", Role: domain.RoleAdmin},
	}})

	out, err := uc.Execute(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(out) != 1 || out[0].Name != "Ana" {
		t.Fatalf("unexpected roster: %+v", out)
	}
}

func TestListRosterEmptyIsNotNil(t *testing.T) {
	t.Parallel()

	out, err := app.NewListRoster(&fakeRosterRepository{}).Execute(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if out == nil {
		t.Fatal("expected empty slice, got nil")
	}
}

func TestListRosterRepositoryError(t *testing.T) {
	t.Parallel()

	_, err := app.NewListRoster(&fakeRosterRepository{err: errDBDown}).Execute(context.Background())
	if !errors.Is(err, app.ErrListRoster) {
		t.Fatalf("expected ErrListRoster, got %v", err)
	}
}
