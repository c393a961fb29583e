package session

import (
	"context"
	"sync"
	"time"

	domain "github.com/leadflow/crm-import/internal/domain/company"
)

type memoryEntry struct {
	session   domain.PreviewSession
	claimed   bool
	expiresAt time.Time
}

// MemoryStore keeps previews in process. Entries expire ttl after their last
// save and are swept lazily.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]*memoryEntry
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]*memoryEntry),
	}
}

func (s *MemoryStore) Save(_ context.Context, session domain.PreviewSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweep()
	entry, ok := s.entries[session.ID]
	if !ok {
		entry = &memoryEntry{}
		s.entries[session.ID] = entry
	}
	entry.session = session
	entry.expiresAt = s.now().Add(s.ttl)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*domain.PreviewSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.live(id)
	if !ok {
		return nil, domain.ErrPreviewNotFound
	}
	session := entry.session
	return &session, nil
}

func (s *MemoryStore) ClaimSubmission(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.live(id)
	if !ok {
		return domain.ErrPreviewNotFound
	}
	if entry.claimed {
		return domain.ErrAlreadySubmitted
	}
	entry.claimed = true
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, id)
	return nil
}

func (s *MemoryStore) live(id string) (*memoryEntry, bool) {
	entry, ok := s.entries[id]
	if !ok {
		return nil, false
	}
	if !s.now().Before(entry.expiresAt) {
		delete(s.entries, id)
		return nil, false
	}
	return entry, true
}

func (s *MemoryStore) sweep() {
	now := s.now()
	for id, entry := range s.entries {
		if !now.Before(entry.expiresAt) {
			delete(s.entries, id)
		}
	}
}
