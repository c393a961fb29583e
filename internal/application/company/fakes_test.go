package company_test

import (
	"context"
	"errors"
	"fmt"

	domain "github.com/leadflow/crm-import/internal/domain/company"
)

type fakeCompanyRepository struct {
	existing  map[string]bool
	inserted  []domain.Company
	insertErr map[string]error
	existsErr error
}

func newFakeCompanyRepository(cnpjs ...string) *fakeCompanyRepository {
	r := &fakeCompanyRepository{existing: map[string]bool{}, insertErr: map[string]error{}}
	for _, c := range cnpjs {
		r.existing[c] = true
	}
	return r
}

func (r *fakeCompanyRepository) ExistsByCNPJ(_ context.Context, cnpj string) (bool, error) {
	if r.existsErr != nil {
		return false, r.existsErr
	}
	return r.existing[domain.DigitsOnly(cnpj)] || r.existing[cnpj], nil
}

func (r *fakeCompanyRepository) Insert(_ context.Context, c domain.Company) (string, error) {
	if err, ok := r.insertErr[c.Name]; ok {
		return "", err
	}
	r.inserted = append(r.inserted, c)
	if c.CNPJ != "" {
		r.existing[domain.DigitsOnly(c.CNPJ)] = true
	}
	return fmt.Sprintf("company-%d", len(r.inserted)), nil
}

type fakeOpportunityRepository struct {
	inserted []domain.Opportunity
	err      error
}

func (r *fakeOpportunityRepository) Insert(_ context.Context, o domain.Opportunity) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	r.inserted = append(r.inserted, o)
	return fmt.Sprintf("opp-%d", len(r.inserted)), nil
}

type fakeStageRepository struct {
	stage *domain.PipelineStage
	err   error
	calls int
}

func (r *fakeStageRepository) First(context.Context) (*domain.PipelineStage, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	if r.stage == nil {
		return nil, domain.ErrNoPipelineStage
	}
	return r.stage, nil
}

type fakeAuditRepository struct {
	entries []domain.AuditEntry
	err     error
}

func (r *fakeAuditRepository) Record(_ context.Context, e domain.AuditEntry) error {
	if r.err != nil {
		return r.err
	}
	r.entries = append(r.entries, e)
	return nil
}

type fakeRosterRepository struct {
	entries []domain.RosterEntry
	err     error
}

func (r *fakeRosterRepository) ListActive(context.Context) ([]domain.RosterEntry, error) {
	return r.entries, r.err
}

var errDBDown = errors.New("db down")

var firstStage = &domain.PipelineStage{ID: "stage-prospect", Name: "Prospecção", Position: 1}
