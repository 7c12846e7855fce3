// Package inventory loads the raw vehicle list from the outside world and
// keeps the latest copy available to the rest of the service.
package inventory

import (
	"context"
	"sync"
	"time"

	"luxe-marketplace/internal/models"
)

// Source provides the raw inventory. Implementations: APIClient,
// CachedSource and the database repositories.
type Source interface {
	FetchVehicles(ctx context.Context) ([]models.Vehicle, error)
}

// Snapshot holds the most recent raw inventory. Readers get copies.
type Snapshot struct {
	mu        sync.RWMutex
	vehicles  []models.Vehicle
	byID      map[int]int
	updatedAt time.Time
}

func NewSnapshot() *Snapshot {
	return &Snapshot{byID: make(map[int]int)}
}

// Replace installs a new list.
func (s *Snapshot) Replace(vehicles []models.Vehicle) {
	copied := make([]models.Vehicle, len(vehicles))
	byID := make(map[int]int, len(vehicles))
	for i := range vehicles {
		copied[i] = vehicles[i].Clone()
		if _, dup := byID[vehicles[i].ID]; !dup {
			byID[vehicles[i].ID] = i
		}
	}

	s.mu.Lock()
	s.vehicles = copied
	s.byID = byID
	s.updatedAt = time.Now()
	s.mu.Unlock()
}

// Vehicles returns a copy of the current list.
func (s *Snapshot) Vehicles() []models.Vehicle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Vehicle, len(s.vehicles))
	for i := range s.vehicles {
		out[i] = s.vehicles[i].Clone()
	}
	return out
}

// Vehicle looks up one record by id.
func (s *Snapshot) Vehicle(id int) (models.Vehicle, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.byID[id]
	if !ok {
		return models.Vehicle{}, false
	}
	return s.vehicles[i].Clone(), true
}

func (s *Snapshot) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.vehicles)
}

// UpdatedAt is zero until the first Replace.
func (s *Snapshot) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updatedAt
}
