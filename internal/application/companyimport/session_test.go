package companyimport_test

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	app "github.com/leadflow/crm-import/internal/application/companyimport"
	domain "github.com/leadflow/crm-import/internal/domain/company"
)

type mapStore struct {
	mu       sync.Mutex
	sessions map[string]domain.PreviewSession
	claimed  map[string]bool
}

func newMapStore(sessions ...domain.PreviewSession) *mapStore {
	s := &mapStore{sessions: map[string]domain.PreviewSession{}, claimed: map[string]bool{}}
	for _, session := range sessions {
		s.sessions[session.ID] = session
	}
	return s
}

func (s *mapStore) Save(_ context.Context, session domain.PreviewSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
	return nil
}

func (s *mapStore) Get(_ context.Context, id string) (*domain.PreviewSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrPreviewNotFound
	}
	return &session, nil
}

func (s *mapStore) ClaimSubmission(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.claimed[id] {
		return domain.ErrAlreadySubmitted
	}
	s.claimed[id] = true
	return nil
}

func (s *mapStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

const (
	ownerUser = "7c9e6679-7425-40de-944b-e07fc1f90ae7"
	otherUser = "9b2d3c4e-1f2a-4b5c-8d7e-6f8a9b0c1d2e"
)

func sampleSession() domain.PreviewSession {
	records := make([]domain.ImportRecord, 0, 60)
	for i := 0; i < 60; i++ {
		status := domain.RecordValid
		if i%4 == 0 {
			status = domain.RecordError
		}
		records = append(records, domain.ImportRecord{
			Line:   i + 2,
			Status: status,
			Fields: map[string]string{app.FieldName: "Empresa"},
		})
	}
	return domain.PreviewSession{ID: "s-1", UserID: ownerUser, Filename: "empresas.csv", Records: records}
}

func okInserter(calls *int) app.InserterFor {
	return func(string, domain.Role) app.BulkInserter {
		return app.BulkInserterFunc(func(_ context.Context, req domain.BulkInsertRequest) (domain.ImportResult, error) {
			*calls++
			res := domain.ImportResult{Total: len(req.Companies), SuccessCount: len(req.Companies)}
			for i := range req.Companies {
				res.Details = append(res.Details, domain.ImportDetail{Row: i + 1, Status: domain.DetailSuccess})
			}
			return res, nil
		})
	}
}

func TestPreviewSessionsPage(t *testing.T) {
	t.Parallel()

	sessions := app.NewPreviewSessions(newMapStore(sampleSession()), okInserter(new(int)), zerolog.Nop())

	out, err := sessions.Page(context.Background(), app.PreviewPageInput{SessionID: "s-1", UserID: ownerUser, Page: 2})
	require.NoError(t, err)
	assert.Equal(t, 45, out.ValidCount)
	assert.Equal(t, 15, out.ErrorCount)
	assert.Equal(t, 2, out.Records.Page)
	assert.Len(t, out.Records.Items, 10)

	errs, err := sessions.Page(context.Background(), app.PreviewPageInput{
		SessionID: "s-1", UserID: ownerUser, Page: 9, Status: domain.RecordError,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, errs.Records.Page)
	assert.Equal(t, 15, errs.Records.Total)

	_, err = sessions.Page(context.Background(), app.PreviewPageInput{SessionID: "s-1", UserID: otherUser})
	require.ErrorIs(t, err, domain.ErrPreviewNotFound)
}

func TestPreviewSessionsSubmitOnce(t *testing.T) {
	t.Parallel()

	calls := 0
	store := newMapStore(sampleSession())
	sessions := app.NewPreviewSessions(store, okInserter(&calls), zerolog.Nop())

	in := app.SubmitPreviewInput{SessionID: "s-1", UserID: ownerUser, Role: domain.RoleSalesperson}
	out, err := sessions.Submit(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, 45, out.Total)
	assert.Equal(t, 45, out.Success)
	assert.Len(t, out.Details.Items, 45)

	_, err = sessions.Submit(context.Background(), in)
	require.ErrorIs(t, err, domain.ErrAlreadySubmitted)
	assert.Equal(t, 1, calls)

	res, err := sessions.Result(context.Background(), app.ResultPageInput{SessionID: "s-1", UserID: ownerUser, Page: 1})
	require.NoError(t, err)
	assert.Equal(t, 45, res.Success)
}

func TestPreviewSessionsSubmitRules(t *testing.T) {
	t.Parallel()

	calls := 0
	allInvalid := domain.PreviewSession{ID: "s-2", UserID: ownerUser, Records: []domain.ImportRecord{
		{Line: 2, Status: domain.RecordError},
	}}
	sessions := app.NewPreviewSessions(newMapStore(sampleSession(), allInvalid), okInserter(&calls), zerolog.Nop())

	_, err := sessions.Submit(context.Background(), app.SubmitPreviewInput{
		SessionID: "s-1", UserID: ownerUser, Role: domain.RoleSalesperson, DefaultOwnerID: otherUser,
	})
	require.ErrorIs(t, err, app.ErrForbiddenOwner)

	_, err = sessions.Submit(context.Background(), app.SubmitPreviewInput{SessionID: "s-2", UserID: ownerUser})
	require.ErrorIs(t, err, app.ErrNothingToSubmit)

	_, err = sessions.Result(context.Background(), app.ResultPageInput{SessionID: "s-1", UserID: ownerUser})
	require.ErrorIs(t, err, domain.ErrPreviewNotFound)

	// an admin may hand the batch to someone else
	_, err = sessions.Submit(context.Background(), app.SubmitPreviewInput{
		SessionID: "s-1", UserID: ownerUser, Role: domain.RoleAdmin, DefaultOwnerID: otherUser,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestPreviewSessionsDiscard(t *testing.T) {
	t.Parallel()

	store := newMapStore(sampleSession())
	sessions := app.NewPreviewSessions(store, okInserter(new(int)), zerolog.Nop())

	require.ErrorIs(t, sessions.Discard(context.Background(), "s-1", otherUser), domain.ErrPreviewNotFound)
	require.NoError(t, sessions.Discard(context.Background(), "s-1", ownerUser))

	_, err := sessions.Page(context.Background(), app.PreviewPageInput{SessionID: "s-1", UserID: ownerUser})
	require.ErrorIs(t, err, domain.ErrPreviewNotFound)
}

func TestPreviewSessionsRejectsMalformedOwnerWithoutClaiming(t *testing.T) {
	t.Parallel()

	calls := 0
	store := newMapStore(sampleSession())
	sessions := app.NewPreviewSessions(store, okInserter(&calls), zerolog.Nop())

	_, err := sessions.Submit(context.Background(), app.SubmitPreviewInput{
		SessionID: "s-1", UserID: ownerUser, Role: domain.RoleAdmin, DefaultOwnerID: "not-a-uuid",
	})
	require.ErrorIs(t, err, app.ErrInvalidOwner)
	assert.Zero(t, calls)
	assert.False(t, store.claimed["s-1"])

	out, err := sessions.Submit(context.Background(), app.SubmitPreviewInput{
		SessionID: "s-1", UserID: ownerUser, Role: domain.RoleAdmin, DefaultOwnerID: otherUser,
	})
	require.NoError(t, err)
	assert.Equal(t, 45, out.Success)
	assert.Equal(t, 1, calls)
}

func TestPreviewSessionsSubmittedSessionStaysSubmitted(t *testing.T) {
	t.Parallel()

	calls := 0
	submitted := sampleSession()
	submitted.Result = &domain.ImportResult{Total: 45, SuccessCount: 45}
	// the claim marker is gone, as when it expires before the session
	store := newMapStore(submitted)
	sessions := app.NewPreviewSessions(store, okInserter(&calls), zerolog.Nop())

	_, err := sessions.Submit(context.Background(), app.SubmitPreviewInput{SessionID: "s-1", UserID: ownerUser})
	require.ErrorIs(t, err, domain.ErrAlreadySubmitted)
	assert.Zero(t, calls)
	assert.False(t, store.claimed["s-1"])
}
