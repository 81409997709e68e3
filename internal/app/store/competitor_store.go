package store

import (
	"sync"

	"github.com/brewbot/brewbot-backend/internal/app/model"
)

// CompetitorStore holds the competitor list from the most recent nearby
// search. Same single-slot semantics as POSStore: replaced wholesale on each
// successful search, last writer wins.
type CompetitorStore struct {
	mu          sync.RWMutex
	competitors []model.Competitor
}

func NewCompetitorStore() *CompetitorStore {
	return &CompetitorStore{}
}

// Set replaces the stored competitor list.
func (s *CompetitorStore) Set(competitors []model.Competitor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.competitors = competitors
}

// Get returns the stored competitor list, or nil when no search has run.
func (s *CompetitorStore) Get() []model.Competitor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.competitors
}
