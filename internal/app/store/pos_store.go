package store

import (
	"sync"

	"github.com/brewbot/brewbot-backend/internal/app/model"
)

// POSStore holds the most recently uploaded POS dataset. A single
// process-wide slot: each successful upload replaces the previous dataset
// wholesale, last writer wins. There is no session binding; concurrent
// uploaders share the slot.
type POSStore struct {
	mu      sync.RWMutex
	dataset *model.Dataset
}

func NewPOSStore() *POSStore {
	return &POSStore{}
}

// Set replaces the stored dataset.
func (s *POSStore) Set(dataset *model.Dataset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dataset = dataset
}

// Get returns the stored dataset, or nil when nothing has been uploaded.
func (s *POSStore) Get() *model.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dataset
}
