package memory

import (
	"context"
	"sync"
	"time"

	"github.com/ErlanBelekov/task-api/internal/domain"
)

// VerificationStore keeps pending codes in process memory. Entries survive
// until overwritten, deleted, purged, or the process exits.
type VerificationStore struct {
	mu      sync.RWMutex
	entries map[string]domain.VerificationEntry
}

func NewVerificationStore() *VerificationStore {
	return &VerificationStore{entries: make(map[string]domain.VerificationEntry)}
}

func (s *VerificationStore) Put(_ context.Context, entry domain.VerificationEntry) error {
	entry.Email = domain.NormalizeEmail(entry.Email)

	s.mu.Lock()
	s.entries[entry.Email] = entry
	s.mu.Unlock()
	return nil
}

func (s *VerificationStore) Get(_ context.Context, email string) (*domain.VerificationEntry, error) {
	s.mu.RLock()
	entry, ok := s.entries[domain.NormalizeEmail(email)]
	s.mu.RUnlock()

	if !ok {
		return nil, domain.ErrVerificationNotFound
	}
	return &entry, nil
}

func (s *VerificationStore) Delete(_ context.Context, email string) error {
	s.mu.Lock()
	delete(s.entries, domain.NormalizeEmail(email))
	s.mu.Unlock()
	return nil
}

// PurgeExpired drops every entry whose expiry is at or before now and
// reports how many were removed.
func (s *VerificationStore) PurgeExpired(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for email, entry := range s.entries {
		if entry.Expired(now) {
			delete(s.entries, email)
			removed++
		}
	}
	return removed, nil
}

// Len reports the number of entries currently held.
func (s *VerificationStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
