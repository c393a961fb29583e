package company

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	domain "github.com/leadflow/crm-import/internal/domain/company"
)

type CreateCompanyInput struct {
	UserID  string
	Role    domain.Role
	Company domain.CompanyInsert
}

type CreateCompanyOutput struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	CNPJ          string `json:"cnpj,omitempty"`
	Type          string `json:"type"`
	OwnerID       string `json:"owner_id"`
	OpportunityID string `json:"opportunity_id,omitempty"`
	Warning       string `json:"warning,omitempty"`
}

type CreateCompany interface {
	Execute(ctx context.Context, in CreateCompanyInput) (CreateCompanyOutput, error)
}

type createCompany struct {
	companies     domain.CompanyRepository
	opportunities domain.OpportunityRepository
	stages        domain.PipelineStageRepository
	validate      *validator.Validate
	logger        zerolog.Logger
}

func NewCreateCompany(
	companies domain.CompanyRepository,
	opportunities domain.OpportunityRepository,
	stages domain.PipelineStageRepository,
	logger zerolog.Logger,
) CreateCompany {
	return &createCompany{
		companies:     companies,
		opportunities: opportunities,
		stages:        stages,
		validate:      newValidator(),
		logger:        logger,
	}
}

// Execute creates one company. Unlike the bulk path, the CNPJ must pass the
// check digit test here.
func (uc *createCompany) Execute(ctx context.Context, in CreateCompanyInput) (CreateCompanyOutput, error) {
	c := in.Company
	c.Name = strings.TrimSpace(c.Name)
	c.CNPJ = strings.TrimSpace(c.CNPJ)
	c.Email = strings.TrimSpace(c.Email)

	if err := uc.validate.Struct(c); err != nil {
		return CreateCompanyOutput{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if err := authorizeOwner(in.UserID, in.Role, c.OwnerID); err != nil {
		return CreateCompanyOutput{}, err
	}

	if c.CNPJ != "" {
		exists, err := uc.companies.ExistsByCNPJ(ctx, c.CNPJ)
		if err != nil {
			return CreateCompanyOutput{}, fmt.Errorf("%w: %v", ErrCreateCompany, err)
		}
		if exists {
			return CreateCompanyOutput{}, ErrDuplicateCompany
		}
	}

	company := c.ToCompany()
	if company.Type == "" {
		company.Type = domain.TypeLead
	}
	if company.OwnerID == "" {
		company.OwnerID = in.UserID
	}

	id, err := uc.companies.Insert(ctx, company)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateTaxID) {
			return CreateCompanyOutput{}, ErrDuplicateCompany
		}
		return CreateCompanyOutput{}, fmt.Errorf("%w: %v", ErrCreateCompany, err)
	}
	company.ID = id

	out := CreateCompanyOutput{
		ID:      id,
		Name:    company.Name,
		CNPJ:    company.CNPJ,
		Type:    company.Type,
		OwnerID: company.OwnerID,
	}

	if company.IsLead() {
		oppID, err := uc.openOpportunity(ctx, company)
		if err != nil {
			uc.logger.Warn().Err(err).Str("company_id", id).Msg("lead opportunity not created")
			out.Warning = fmt.Sprintf("oportunidade não criada: %v", err)
		}
		out.OpportunityID = oppID
	}

	uc.logger.Info().Str("company_id", id).Str("user_id", in.UserID).Msg("company created")
	return out, nil
}

func (uc *createCompany) openOpportunity(ctx context.Context, c domain.Company) (string, error) {
	stage, err := uc.stages.First(ctx)
	if err != nil {
		return "", err
	}
	if stage == nil {
		return "", domain.ErrNoPipelineStage
	}
	return uc.opportunities.Insert(ctx, domain.NewLeadOpportunity(c, *stage))
}
