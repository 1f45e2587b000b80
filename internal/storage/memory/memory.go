package memory

import (
	"sync"
	"time"

	"github.com/MikhailRaia/qr-generator/internal/form"
)

type entry struct {
	controller *form.Controller
	lastSeen   time.Time
}

// Storage implements in-memory FormStorage.
type Storage struct {
	forms map[string]*entry
	mutex sync.RWMutex
	now   func() time.Time
}

// NewStorage creates a new in-memory storage instance.
func NewStorage() *Storage {
	return &Storage{
		forms: make(map[string]*entry),
		now:   time.Now,
	}
}

// GetOrCreate returns the form instance for id, creating it with create if it does not exist.
// Either way the instance is marked as seen.
func (s *Storage) GetOrCreate(id string, create func() *form.Controller) *form.Controller {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	e, found := s.forms[id]
	if !found {
		e = &entry{controller: create()}
		s.forms[id] = e
	}
	e.lastSeen = s.now()

	return e.controller
}

// Get retrieves an existing form instance without touching it.
func (s *Storage) Get(id string) (*form.Controller, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	e, found := s.forms[id]
	if !found {
		return nil, false
	}

	return e.controller, true
}

func (e *entry) idle(cutoff time.Time) bool {
	return e.lastSeen.Before(cutoff) && !e.controller.State().Busy()
}

// IdleSince lists instances last seen before cutoff. Instances with a submission in flight are skipped.
func (s *Storage) IdleSince(cutoff time.Time) []string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var ids []string
	for id, e := range s.forms {
		if e.idle(cutoff) {
			ids = append(ids, id)
		}
	}

	return ids
}

// DeleteIdle removes the given instances and returns how many were removed.
// Instances seen at or after cutoff, or submitting, are kept.
func (s *Storage) DeleteIdle(ids []string, cutoff time.Time) int {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	deleted := 0
	for _, id := range ids {
		e, found := s.forms[id]
		if !found || !e.idle(cutoff) {
			continue
		}
		delete(s.forms, id)
		deleted++
	}

	return deleted
}

// Len returns the number of live instances.
func (s *Storage) Len() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return len(s.forms)
}
