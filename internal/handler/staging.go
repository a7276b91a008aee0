package handler

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"kintai-backend/internal/reconcile"
)

// stagedImport is a parsed upload waiting for the user's conflict choices.
type stagedImport struct {
	userID    uint
	conflicts []reconcile.Conflict
	incoming  *reconcile.DaySet
	expires   time.Time
}

// ImportStaging holds pending imports between the upload and the resolution
// request, keyed by an opaque token handed to the client. Entries expire so
// abandoned uploads do not accumulate.
type ImportStaging struct {
	mu      sync.Mutex
	entries map[string]*stagedImport
	ttl     time.Duration
}

func NewImportStaging(ttl time.Duration) *ImportStaging {
	s := &ImportStaging{
		entries: make(map[string]*stagedImport),
		ttl:     ttl,
	}
	go func() {
		for {
			time.Sleep(time.Minute)
			s.mu.Lock()
			now := time.Now()
			for token, e := range s.entries {
				if now.After(e.expires) {
					delete(s.entries, token)
				}
			}
			s.mu.Unlock()
		}
	}()
	return s
}

// Put stages an import and returns its token.
func (s *ImportStaging) Put(userID uint, conflicts []reconcile.Conflict, incoming *reconcile.DaySet) string {
	token := uuid.NewString()
	s.mu.Lock()
	s.entries[token] = &stagedImport{
		userID:    userID,
		conflicts: conflicts,
		incoming:  incoming,
		expires:   time.Now().Add(s.ttl),
	}
	s.mu.Unlock()
	return token
}

// Take removes and returns the staged import for token, but only for the
// user that staged it.
func (s *ImportStaging) Take(token string, userID uint) (*stagedImport, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[token]
	if !ok || e.userID != userID || time.Now().After(e.expires) {
		return nil, false
	}
	delete(s.entries, token)
	return e, true
}
