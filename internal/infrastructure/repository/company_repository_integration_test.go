package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	domain "github.com/leadflow/crm-import/internal/domain/company"
	"github.com/leadflow/crm-import/internal/infrastructure/repository"
)

func TestCompanyRepositoryIntegration(t *testing.T) {
	gdb, pool := openIntegrationDB(t)
	ctx := context.Background()

	companies := repository.NewCompanyRepository(pool)
	opportunities := repository.NewOpportunityRepository(pool)
	stages := repository.NewPipelineStageRepository(gdb)

	revenue := 1500000.75
	employees := 42
	owner := uuid.NewString()

	id, err := companies.Insert(ctx, domain.Company{
		Name:              "Padaria Pão Quente",
		CNPJ:              "11.222.333/0001-81",
		Type:              domain.TypeLead,
		AnnualRevenue:     &revenue,
		NumberOfEmployees: &employees,
		OwnerID:           owner,
		ContactRole:       "Sócio",
	})
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("expected uuid id, got %q", id)
	}

	exists, err := companies.ExistsByCNPJ(ctx, "11222333000181")
	if err != nil {
		t.Fatalf("exists failed: %v", err)
	}
	if !exists {
		t.Fatal("expected cnpj to exist regardless of punctuation")
	}

	_, err = companies.Insert(ctx, domain.Company{Name: "Outra", CNPJ: "11222333000181", Type: "Cliente", OwnerID: owner})
	if !errors.Is(err, domain.ErrDuplicateTaxID) {
		t.Fatalf("expected ErrDuplicateTaxID, got %v", err)
	}

	// companies without a tax id never collide
	for i := 0; i < 2; i++ {
		if _, err := companies.Insert(ctx, domain.Company{Name: "Sem CNPJ", Type: domain.TypeLead, OwnerID: owner}); err != nil {
			t.Fatalf("insert without cnpj failed: %v", err)
		}
	}

	stage, err := stages.First(ctx)
	if err != nil {
		t.Fatalf("first stage failed: %v", err)
	}
	if stage.Position != 1 {
		t.Fatalf("expected first stage, got position %d", stage.Position)
	}

	oppID, err := opportunities.Insert(ctx, domain.Opportunity{
		CompanyID:   id,
		StageID:     stage.ID,
		OwnerID:     owner,
		Title:       "Padaria Pão Quente",
		Value:       revenue,
		Probability: domain.DefaultOpportunityProbability,
	})
	if err != nil {
		t.Fatalf("insert opportunity failed: %v", err)
	}

	var value float64
	if err := gdb.Raw("SELECT value::float8 FROM opportunities WHERE id = ?", oppID).Scan(&value).Error; err != nil {
		t.Fatalf("read opportunity failed: %v", err)
	}
	if value != 1500000.75 {
		t.Fatalf("unexpected opportunity value: %v", value)
	}
}
