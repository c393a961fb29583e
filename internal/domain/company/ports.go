package company

import "context"

type RosterRepository interface {
	ListActive(ctx context.Context) ([]RosterEntry, error)
}

type CompanyRepository interface {
	ExistsByCNPJ(ctx context.Context, cnpj string) (bool, error)
	Insert(ctx context.Context, c Company) (string, error)
}

type OpportunityRepository interface {
	Insert(ctx context.Context, o Opportunity) (string, error)
}

type PipelineStageRepository interface {
	First(ctx context.Context) (*PipelineStage, error)
}

type AuditLogRepository interface {
	Record(ctx context.Context, entry AuditEntry) error
}

type PreviewStore interface {
	Save(ctx context.Context, session PreviewSession) error
	Get(ctx context.Context, id string) (*PreviewSession, error)
	ClaimSubmission(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}
