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

const AuditActionBulkImport = "companies.bulk_import"

// Row messages returned to the user, one per submitted company.
const (
	MsgNameRequired   = "Nome da empresa é obrigatório"
	msgDuplicateCNPJ  = "CNPJ %s já existe"
	msgInsertFailed   = "Erro ao inserir empresa: %v"
	msgImported       = "Empresa %s importada com sucesso"
	msgImportedNoDeal = "Empresa %s importada, mas a oportunidade não foi criada: %v"
)

type BulkImportCompaniesInput struct {
	UserID  string
	Role    domain.Role
	Request domain.BulkInsertRequest
}

type BulkImportCompanies interface {
	Execute(ctx context.Context, in BulkImportCompaniesInput) (domain.ImportResult, error)
}

type bulkImportCompanies struct {
	companies     domain.CompanyRepository
	opportunities domain.OpportunityRepository
	stages        domain.PipelineStageRepository
	audit         domain.AuditLogRepository
	validate      *validator.Validate
	logger        zerolog.Logger
}

func NewBulkImportCompanies(
	companies domain.CompanyRepository,
	opportunities domain.OpportunityRepository,
	stages domain.PipelineStageRepository,
	audit domain.AuditLogRepository,
	logger zerolog.Logger,
) BulkImportCompanies {
	return &bulkImportCompanies{
		companies:     companies,
		opportunities: opportunities,
		stages:        stages,
		audit:         audit,
		validate:      newValidator(),
		logger:        logger,
	}
}

func (uc *bulkImportCompanies) Execute(ctx context.Context, in BulkImportCompaniesInput) (domain.ImportResult, error) {
	if err := uc.validate.Struct(in.Request); err != nil {
		return domain.ImportResult{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if err := authorizeOwner(in.UserID, in.Role, in.Request.OwnerID); err != nil {
		return domain.ImportResult{}, err
	}

	defaultOwner := in.Request.OwnerID
	if defaultOwner == "" {
		defaultOwner = in.UserID
	}

	run := &bulkRun{uc: uc, defaultOwner: defaultOwner}
	result := domain.ImportResult{
		Total:   len(in.Request.Companies),
		Details: make([]domain.ImportDetail, 0, len(in.Request.Companies)),
	}

	for i, row := range in.Request.Companies {
		detail, warned := run.importRow(ctx, i+1, row)
		switch detail.Status {
		case domain.DetailSuccess:
			result.SuccessCount++
		default:
			result.ErrorCount++
		}
		if warned {
			result.WarningCount++
		}
		result.Details = append(result.Details, detail)
	}

	uc.recordAudit(ctx, in.UserID, defaultOwner, result)

	uc.logger.Info().
		Str("user_id", in.UserID).
		Int("total", result.Total).
		Int("success", result.SuccessCount).
		Int("errors", result.ErrorCount).
		Int("warnings", result.WarningCount).
		Msg("bulk company import finished")

	return result, nil
}

// bulkRun carries the state shared by the rows of one request. The pipeline
// stage is looked up at most once.
type bulkRun struct {
	uc           *bulkImportCompanies
	defaultOwner string

	stage       *domain.PipelineStage
	stageErr    error
	stageLoaded bool
}

func (r *bulkRun) importRow(ctx context.Context, rowNum int, row domain.CompanyInsert) (domain.ImportDetail, bool) {
	fail := func(msg string) (domain.ImportDetail, bool) {
		return domain.ImportDetail{Row: rowNum, Status: domain.DetailError, Message: msg}, false
	}

	name := strings.TrimSpace(row.Name)
	if name == "" {
		return fail(MsgNameRequired)
	}

	cnpj := strings.TrimSpace(row.CNPJ)
	if cnpj != "" {
		exists, err := r.uc.companies.ExistsByCNPJ(ctx, cnpj)
		if err != nil {
			return fail(fmt.Sprintf(msgInsertFailed, err))
		}
		if exists {
			return fail(fmt.Sprintf(msgDuplicateCNPJ, cnpj))
		}
	}

	c := row.ToCompany()
	c.Name = name
	c.CNPJ = cnpj
	if c.Type == "" {
		c.Type = domain.TypeLead
	}
	if c.OwnerID == "" {
		c.OwnerID = r.defaultOwner
	}

	id, err := r.uc.companies.Insert(ctx, c)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateTaxID) {
			return fail(fmt.Sprintf(msgDuplicateCNPJ, cnpj))
		}
		r.uc.logger.Warn().Err(err).Int("row", rowNum).Msg("company insert failed")
		return fail(fmt.Sprintf(msgInsertFailed, err))
	}
	c.ID = id

	if c.IsLead() {
		if err := r.openOpportunity(ctx, c); err != nil {
			r.uc.logger.Warn().Err(err).Str("company_id", id).Msg("lead opportunity not created")
			return domain.ImportDetail{
				Row:     rowNum,
				Status:  domain.DetailSuccess,
				Message: fmt.Sprintf(msgImportedNoDeal, name, err),
			}, true
		}
	}

	return domain.ImportDetail{
		Row:     rowNum,
		Status:  domain.DetailSuccess,
		Message: fmt.Sprintf(msgImported, name),
	}, false
}

func (r *bulkRun) openOpportunity(ctx context.Context, c domain.Company) error {
	if !r.stageLoaded {
		r.stage, r.stageErr = r.uc.stages.First(ctx)
		r.stageLoaded = true
	}
	if r.stageErr != nil {
		return r.stageErr
	}
	if r.stage == nil {
		return domain.ErrNoPipelineStage
	}
	_, err := r.uc.opportunities.Insert(ctx, domain.NewLeadOpportunity(c, *r.stage))
	return err
}

func (uc *bulkImportCompanies) recordAudit(ctx context.Context, userID, ownerID string, result domain.ImportResult) {
	err := uc.audit.Record(ctx, domain.AuditEntry{
		UserID:     userID,
		Action:     AuditActionBulkImport,
		EntityType: "company",
		Details: map[string]any{
			"total":    result.Total,
			"success":  result.SuccessCount,
			"errors":   result.ErrorCount,
			"warnings": result.WarningCount,
			"owner_id": ownerID,
		},
	})
	if err != nil {
		uc.logger.Error().Err(err).Str("user_id", userID).Msg("audit log entry not recorded")
	}
}

// CallerInserter runs bulk imports in-process on behalf of one caller.
type CallerInserter struct {
	UseCase BulkImportCompanies
	UserID  string
	Role    domain.Role
}

func (c CallerInserter) BulkInsert(ctx context.Context, req domain.BulkInsertRequest) (domain.ImportResult, error) {
	return c.UseCase.Execute(ctx, BulkImportCompaniesInput{UserID: c.UserID, Role: c.Role, Request: req})
}
