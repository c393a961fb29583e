package companyimport

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	domain "github.com/leadflow/crm-import/internal/domain/company"
)

// SheetParser turns an uploaded file into raw rows keyed by header.
type SheetParser interface {
	Parse(ctx context.Context, filename string, body io.Reader) ([]domain.RawRow, error)
}

type PreviewImportInput struct {
	UserID   string
	Filename string
	Size     int64
	Body     io.Reader
}

type PreviewImportOutput struct {
	SessionID  string                     `json:"session_id"`
	Filename   string                     `json:"filename"`
	ValidCount int                        `json:"valid_count"`
	ErrorCount int                        `json:"error_count"`
	Records    Page[domain.ImportRecord] `json:"records"`
}

type PreviewImport interface {
	Execute(ctx context.Context, in PreviewImportInput) (PreviewImportOutput, error)
}

type previewImport struct {
	parser      SheetParser
	roster      domain.RosterRepository
	store       domain.PreviewStore
	maxFileSize int64
	logger      zerolog.Logger
}

func NewPreviewImport(parser SheetParser, roster domain.RosterRepository, store domain.PreviewStore, maxFileSize int64, logger zerolog.Logger) PreviewImport {
	return &previewImport{
		parser:      parser,
		roster:      roster,
		store:       store,
		maxFileSize: maxFileSize,
		logger:      logger,
	}
}

func (uc *previewImport) Execute(ctx context.Context, in PreviewImportInput) (PreviewImportOutput, error) {
	if err := CheckFile(in.Filename, in.Size, uc.maxFileSize); err != nil {
		return PreviewImportOutput{}, err
	}

	rows, err := uc.parser.Parse(ctx, in.Filename, in.Body)
	if err != nil {
		return PreviewImportOutput{}, err
	}

	roster, err := uc.roster.ListActive(ctx)
	if err != nil {
		return PreviewImportOutput{}, fmt.Errorf("%w: %v", ErrLoadRoster, err)
	}

	records, err := Prepare(rows, roster)
	if err != nil {
		return PreviewImportOutput{}, err
	}

	session := domain.PreviewSession{
		ID:        uuid.NewString(),
		UserID:    in.UserID,
		Filename:  in.Filename,
		Records:   records,
		CreatedAt: time.Now().UTC(),
	}
	if err := uc.store.Save(ctx, session); err != nil {
		return PreviewImportOutput{}, fmt.Errorf("%w: %v", ErrSavePreview, err)
	}

	valid, invalid := session.Counts()
	uc.logger.Info().
		Str("session_id", session.ID).
		Str("filename", in.Filename).
		Int("rows", len(rows)).
		Int("valid", valid).
		Int("invalid", invalid).
		Msg("import preview built")

	return PreviewImportOutput{
		SessionID:  session.ID,
		Filename:   session.Filename,
		ValidCount: valid,
		ErrorCount: invalid,
		Records:    Paginate(records, 1),
	}, nil
}

// FilterRecords keeps records with the given status; an empty status keeps all.
func FilterRecords(records []domain.ImportRecord, status domain.RecordStatus) []domain.ImportRecord {
	if status == "" {
		return records
	}
	out := make([]domain.ImportRecord, 0, len(records))
	for _, r := range records {
		if r.Status == status {
			out = append(out, r)
		}
	}
	return out
}
