package catalog

import (
	"sort"

	"luxe-marketplace/internal/metrics"
	"luxe-marketplace/internal/models"
)

// MaxCompare is the capacity of the compare set.
const MaxCompare = 3

// Store is the state of one browsing session: the raw inventory snapshot,
// the current filters and sort key, the liked ids and the compare set.
//
// A Store is not safe for concurrent use. Every method runs to completion on
// the caller's goroutine; callers that share a Store must serialize access.
type Store struct {
	engine *Engine

	vehicles []models.Vehicle
	filters  Filters
	sortKey  SortKey
	likes    map[int]struct{}
	compare  []models.Vehicle

	// version changes whenever vehicles (including the IsLiked mirror) change.
	version uint64
	cache   *displayCache
}

type displayCache struct {
	version uint64
	filters string
	sortKey SortKey
	list    []models.Vehicle
}

// NewStore creates a session over a copy of vehicles with no filters and the
// featured ordering. Records already flagged IsLiked seed the likes set.
func NewStore(engine *Engine, vehicles []models.Vehicle) *Store {
	s := &Store{
		engine:  engine,
		sortKey: SortFeatured,
		likes:   make(map[int]struct{}),
	}
	for i := range vehicles {
		if vehicles[i].IsLiked {
			s.likes[vehicles[i].ID] = struct{}{}
		}
	}
	s.SetVehicles(vehicles)
	return s
}

// SetVehicles replaces the raw snapshot, e.g. after an inventory refresh.
// The likes set is projected onto the new records, and likes for ids that
// left the snapshot are dropped.
func (s *Store) SetVehicles(vehicles []models.Vehicle) {
	s.vehicles = make([]models.Vehicle, len(vehicles))
	present := make(map[int]struct{}, len(vehicles))
	for i := range vehicles {
		v := vehicles[i].Clone()
		_, v.IsLiked = s.likes[v.ID]
		s.vehicles[i] = v
		present[v.ID] = struct{}{}
	}
	for id := range s.likes {
		if _, ok := present[id]; !ok {
			delete(s.likes, id)
		}
	}
	s.version++
}

// Vehicles returns a copy of the raw snapshot.
func (s *Store) Vehicles() []models.Vehicle {
	out := make([]models.Vehicle, len(s.vehicles))
	for i := range s.vehicles {
		out[i] = s.vehicles[i].Clone()
	}
	return out
}

// Vehicle looks up a record in the raw snapshot.
func (s *Store) Vehicle(id int) (models.Vehicle, bool) {
	for i := range s.vehicles {
		if s.vehicles[i].ID == id {
			return s.vehicles[i].Clone(), true
		}
	}
	return models.Vehicle{}, false
}

// SetFilters replaces the filters wholesale.
func (s *Store) SetFilters(f Filters) {
	s.filters = f
}

// Filters returns the current filters.
func (s *Store) Filters() Filters {
	return s.filters
}

// SetSortKey sets the ordering for the display list.
func (s *Store) SetSortKey(key SortKey) {
	s.sortKey = key
}

// SortKey returns the current ordering.
func (s *Store) SortKey() SortKey {
	return s.sortKey
}

// DisplayList returns the filtered and sorted view of the snapshot. The result
// is recomputed only when the snapshot, filters or sort key changed.
func (s *Store) DisplayList() []models.Vehicle {
	key := s.filters.Key()
	c := s.cache
	if c == nil || c.version != s.version || c.filters != key || c.sortKey != s.sortKey {
		c = &displayCache{
			version: s.version,
			filters: key,
			sortKey: s.sortKey,
			list:    s.engine.ComputeDisplayList(s.vehicles, s.filters, s.sortKey),
		}
		s.cache = c
	}

	out := make([]models.Vehicle, len(c.list))
	for i := range c.list {
		out[i] = c.list[i].Clone()
	}
	return out
}

// ToggleLike flips id in the likes set and the IsLiked flag of the matching
// record together. An id missing from the snapshot is ignored. It returns the
// liked state after the call.
func (s *Store) ToggleLike(id int) bool {
	found := false
	for i := range s.vehicles {
		if s.vehicles[i].ID == id {
			found = true
			break
		}
	}
	if !found {
		metrics.SelectionEvents.WithLabelValues("like", "unknown").Inc()
		return false
	}

	_, liked := s.likes[id]
	liked = !liked
	if liked {
		s.likes[id] = struct{}{}
	} else {
		delete(s.likes, id)
	}
	for i := range s.vehicles {
		if s.vehicles[i].ID == id {
			s.vehicles[i].IsLiked = liked
		}
	}
	for i := range s.compare {
		if s.compare[i].ID == id {
			s.compare[i].IsLiked = liked
		}
	}
	s.version++

	if liked {
		metrics.SelectionEvents.WithLabelValues("like", "liked").Inc()
	} else {
		metrics.SelectionEvents.WithLabelValues("like", "unliked").Inc()
	}
	return liked
}

// Likes returns the liked ids in ascending order.
func (s *Store) Likes() []int {
	ids := make([]int, 0, len(s.likes))
	for id := range s.likes {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// IsLiked reports whether id is in the likes set.
func (s *Store) IsLiked(id int) bool {
	_, ok := s.likes[id]
	return ok
}

// AddToCompare appends v unless a record with the same id is already present
// or the set is full. It reports whether v was added.
func (s *Store) AddToCompare(v models.Vehicle) bool {
	for i := range s.compare {
		if s.compare[i].ID == v.ID {
			metrics.SelectionEvents.WithLabelValues("compare_add", "duplicate").Inc()
			return false
		}
	}
	if len(s.compare) >= MaxCompare {
		metrics.SelectionEvents.WithLabelValues("compare_add", "full").Inc()
		return false
	}
	s.compare = append(s.compare, v.Clone())
	metrics.SelectionEvents.WithLabelValues("compare_add", "added").Inc()
	return true
}

// RemoveFromCompare drops the member with id, if any.
func (s *Store) RemoveFromCompare(id int) {
	for i := range s.compare {
		if s.compare[i].ID == id {
			s.compare = append(s.compare[:i], s.compare[i+1:]...)
			metrics.SelectionEvents.WithLabelValues("compare_remove", "removed").Inc()
			return
		}
	}
}

// ClearCompareList empties the compare set.
func (s *Store) ClearCompareList() {
	s.compare = nil
	metrics.SelectionEvents.WithLabelValues("compare_clear", "cleared").Inc()
}

// CompareList returns the compare set in insertion order.
func (s *Store) CompareList() []models.Vehicle {
	out := make([]models.Vehicle, len(s.compare))
	for i := range s.compare {
		out[i] = s.compare[i].Clone()
	}
	return out
}
