package store

import (
	"testing"

	"github.com/brewbot/brewbot-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
)

func TestPOSStore_LastWriterWins(t *testing.T) {
	s := NewPOSStore()
	assert.Nil(t, s.Get())

	first := &model.Dataset{Filename: "jan.csv"}
	second := &model.Dataset{Filename: "feb.csv"}

	s.Set(first)
	assert.Equal(t, "jan.csv", s.Get().Filename)

	s.Set(second)
	assert.Equal(t, "feb.csv", s.Get().Filename)
}

func TestCompetitorStore_LastWriterWins(t *testing.T) {
	s := NewCompetitorStore()
	assert.Nil(t, s.Get())

	s.Set([]model.Competitor{{ID: "a", Name: "Sunrise Coffee"}})
	s.Set([]model.Competitor{{ID: "b", Name: "Mint & Matcha"}, {ID: "c", Name: "Bean There"}})

	got := s.Get()
	assert.Len(t, got, 2)
	assert.Equal(t, "b", got[0].ID)
}
