package companyimport

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	domain "github.com/leadflow/crm-import/internal/domain/company"
)

// InserterFor returns the bulk inserter that submits on behalf of a caller.
type InserterFor func(userID string, role domain.Role) BulkInserter

type PreviewPageInput struct {
	SessionID string
	UserID    string
	Page      int
	Status    domain.RecordStatus
}

type PreviewPageOutput struct {
	SessionID  string                    `json:"session_id"`
	Filename   string                    `json:"filename"`
	ValidCount int                       `json:"valid_count"`
	ErrorCount int                       `json:"error_count"`
	Submitted  bool                      `json:"submitted"`
	Records    Page[domain.ImportRecord] `json:"records"`
}

type SubmitPreviewInput struct {
	SessionID      string
	UserID         string
	Role           domain.Role
	DefaultOwnerID string
}

type ResultPageInput struct {
	SessionID string
	UserID    string
	Page      int
}

type ResultPageOutput struct {
	SessionID string                    `json:"session_id"`
	Total     int                       `json:"total"`
	Success   int                       `json:"success"`
	Errors    int                       `json:"errors"`
	Warnings  int                       `json:"warnings"`
	Details   Page[domain.ImportDetail] `json:"details"`
}

// PreviewSessions serves the stored previews of the server-hosted import flow.
type PreviewSessions struct {
	store       domain.PreviewStore
	inserterFor InserterFor
	logger      zerolog.Logger
}

func NewPreviewSessions(store domain.PreviewStore, inserterFor InserterFor, logger zerolog.Logger) *PreviewSessions {
	return &PreviewSessions{store: store, inserterFor: inserterFor, logger: logger}
}

func (s *PreviewSessions) Page(ctx context.Context, in PreviewPageInput) (PreviewPageOutput, error) {
	session, err := s.owned(ctx, in.SessionID, in.UserID)
	if err != nil {
		return PreviewPageOutput{}, err
	}

	valid, invalid := session.Counts()
	return PreviewPageOutput{
		SessionID:  session.ID,
		Filename:   session.Filename,
		ValidCount: valid,
		ErrorCount: invalid,
		Submitted:  session.Result != nil,
		Records:    Paginate(FilterRecords(session.Records, in.Status), in.Page),
	}, nil
}

// Submit sends the valid records of a preview. A preview is submitted at most
// once; later attempts get domain.ErrAlreadySubmitted. Request checks run
// before the claim so a rejected request leaves the preview submittable.
func (s *PreviewSessions) Submit(ctx context.Context, in SubmitPreviewInput) (ResultPageOutput, error) {
	session, err := s.owned(ctx, in.SessionID, in.UserID)
	if err != nil {
		return ResultPageOutput{}, err
	}
	if session.Result != nil {
		return ResultPageOutput{}, domain.ErrAlreadySubmitted
	}
	if in.DefaultOwnerID != "" {
		if _, err := uuid.Parse(in.DefaultOwnerID); err != nil {
			return ResultPageOutput{}, fmt.Errorf("%w: %q", ErrInvalidOwner, in.DefaultOwnerID)
		}
	}
	if !domain.CanAssign(in.UserID, in.Role, in.DefaultOwnerID) {
		return ResultPageOutput{}, ErrForbiddenOwner
	}
	if valid, _ := session.Counts(); valid == 0 {
		return ResultPageOutput{}, ErrNothingToSubmit
	}

	if err := s.store.ClaimSubmission(ctx, session.ID); err != nil {
		return ResultPageOutput{}, err
	}

	defaultOwner := in.DefaultOwnerID
	if defaultOwner == "" {
		defaultOwner = in.UserID
	}

	submitter := NewSubmitter(s.inserterFor(in.UserID, in.Role), s.logger)
	result, err := submitter.Submit(ctx, SubmitInput{Records: session.Records, DefaultOwnerID: defaultOwner})
	if err != nil {
		return ResultPageOutput{}, err
	}

	session.Result = &result
	if err := s.store.Save(ctx, *session); err != nil {
		// the companies are already written; only the stored result is lost
		s.logger.Error().Err(err).Str("session_id", session.ID).Msg("import result not stored")
	}

	return resultPage(session.ID, result, 1), nil
}

func (s *PreviewSessions) Result(ctx context.Context, in ResultPageInput) (ResultPageOutput, error) {
	session, err := s.owned(ctx, in.SessionID, in.UserID)
	if err != nil {
		return ResultPageOutput{}, err
	}
	if session.Result == nil {
		return ResultPageOutput{}, fmt.Errorf("%w: preview %s has not been submitted", domain.ErrPreviewNotFound, session.ID)
	}
	return resultPage(session.ID, *session.Result, in.Page), nil
}

func (s *PreviewSessions) Discard(ctx context.Context, sessionID, userID string) error {
	if _, err := s.owned(ctx, sessionID, userID); err != nil {
		return err
	}
	return s.store.Delete(ctx, sessionID)
}

// owned loads a session, hiding sessions of other users behind not found.
func (s *PreviewSessions) owned(ctx context.Context, sessionID, userID string) (*domain.PreviewSession, error) {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, domain.ErrPreviewNotFound
	}
	return session, nil
}

func resultPage(sessionID string, result domain.ImportResult, page int) ResultPageOutput {
	details := result.Details
	if details == nil {
		details = []domain.ImportDetail{}
	}
	return ResultPageOutput{
		SessionID: sessionID,
		Total:     result.Total,
		Success:   result.SuccessCount,
		Errors:    result.ErrorCount,
		Warnings:  result.WarningCount,
		Details:   Paginate(details, page),
	}
}
