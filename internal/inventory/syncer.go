package inventory

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"luxe-marketplace/internal/metrics"
	"luxe-marketplace/internal/models"
)

var ErrSyncInProgress = errors.New("inventory sync already running")

// Repository persists fetched inventory.
type Repository interface {
	SaveVehicles(ctx context.Context, vehicles []models.Vehicle) error
}

// Indexer pushes inventory into the search engine.
type Indexer interface {
	IndexVehicles(vehicles []models.Vehicle) error
}

// Refresher receives every new snapshot (the session manager).
type Refresher interface {
	Refresh(vehicles []models.Vehicle)
}

type invalidator interface {
	Invalidate(ctx context.Context) error
}

// SyncResult summarizes one run.
type SyncResult struct {
	Total      int           `json:"total"`
	NewIDs     []int         `json:"newIds"`
	RemovedIDs []int         `json:"removedIds"`
	ChangedIDs []int         `json:"changedIds"`
	Duration   time.Duration `json:"duration"`
}

// Syncer refreshes the snapshot from a Source. Repository, Indexer and
// Refresher are optional.
type Syncer struct {
	source     Source
	snapshot   *Snapshot
	repo       Repository
	indexer    Indexer
	refreshers []Refresher
	logger     *zap.Logger

	mu      sync.Mutex
	running bool
	last    *SyncResult
}

func NewSyncer(source Source, snapshot *Snapshot, logger *zap.Logger) *Syncer {
	return &Syncer{
		source:   source,
		snapshot: snapshot,
		logger:   logger.With(zap.String("component", "inventory_sync")),
	}
}

func (s *Syncer) WithRepository(repo Repository) *Syncer {
	s.repo = repo
	return s
}

func (s *Syncer) WithIndexer(indexer Indexer) *Syncer {
	s.indexer = indexer
	return s
}

func (s *Syncer) AddRefresher(r Refresher) *Syncer {
	s.refreshers = append(s.refreshers, r)
	return s
}

// Sync fetches the inventory and installs it. On error the previous
// snapshot stays in place. force skips the read-through cache.
func (s *Syncer) Sync(ctx context.Context, force bool) (*SyncResult, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil, ErrSyncInProgress
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	result, err := s.sync(ctx, force)
	if err != nil {
		metrics.InventorySyncs.WithLabelValues("error").Inc()
		s.logger.Error("inventory sync failed", zap.Error(err))
		return nil, err
	}
	metrics.InventorySyncs.WithLabelValues("success").Inc()

	s.mu.Lock()
	s.last = result
	s.mu.Unlock()
	return result, nil
}

func (s *Syncer) sync(ctx context.Context, force bool) (*SyncResult, error) {
	start := time.Now()

	if force {
		if inv, ok := s.source.(invalidator); ok {
			if err := inv.Invalidate(ctx); err != nil {
				s.logger.Warn("cache invalidation failed", zap.Error(err))
			}
		}
	}

	vehicles, err := s.source.FetchVehicles(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}

	if s.repo != nil {
		if err := s.repo.SaveVehicles(ctx, vehicles); err != nil {
			return nil, fmt.Errorf("save: %w", err)
		}
	}

	result := Diff(s.snapshot.Vehicles(), vehicles)
	s.snapshot.Replace(vehicles)
	metrics.InventorySize.Set(float64(len(vehicles)))

	for _, r := range s.refreshers {
		r.Refresh(vehicles)
	}

	// Search is auxiliary; a failed reindex does not fail the sync.
	if s.indexer != nil {
		if err := s.indexer.IndexVehicles(vehicles); err != nil {
			s.logger.Warn("search reindex failed", zap.Error(err))
		}
	}

	result.Duration = time.Since(start)
	s.logger.Info("inventory synced",
		zap.Int("total", result.Total),
		zap.Int("new", len(result.NewIDs)),
		zap.Int("removed", len(result.RemovedIDs)),
		zap.Int("changed", len(result.ChangedIDs)),
		zap.Duration("duration", result.Duration))
	return result, nil
}

// Last returns the most recent successful result, or nil.
func (s *Syncer) Last() *SyncResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Diff compares two inventory lists by id. Id lists are sorted ascending.
func Diff(previous, current []models.Vehicle) *SyncResult {
	prevMap := make(map[int]*models.Vehicle, len(previous))
	for i := range previous {
		prevMap[previous[i].ID] = &previous[i]
	}
	currMap := make(map[int]*models.Vehicle, len(current))
	for i := range current {
		currMap[current[i].ID] = &current[i]
	}

	result := &SyncResult{
		Total:      len(current),
		NewIDs:     []int{},
		RemovedIDs: []int{},
		ChangedIDs: []int{},
	}
	for id, v := range currMap {
		old, exists := prevMap[id]
		if !exists {
			result.NewIDs = append(result.NewIDs, id)
		} else if hasVehicleChanged(old, v) {
			result.ChangedIDs = append(result.ChangedIDs, id)
		}
	}
	for id := range prevMap {
		if _, exists := currMap[id]; !exists {
			result.RemovedIDs = append(result.RemovedIDs, id)
		}
	}

	slices.Sort(result.NewIDs)
	slices.Sort(result.RemovedIDs)
	slices.Sort(result.ChangedIDs)
	return result
}

func hasVehicleChanged(old, new *models.Vehicle) bool {
	return old.Brand != new.Brand ||
		old.Model != new.Model ||
		old.Year != new.Year ||
		old.Price != new.Price ||
		old.OriginalPrice != new.OriginalPrice ||
		old.Savings != new.Savings ||
		old.Mileage != new.Mileage ||
		old.FuelType != new.FuelType ||
		old.Location != new.Location ||
		old.Condition != new.Condition ||
		old.Image != new.Image ||
		old.Views != new.Views ||
		!slices.Equal(old.Features, new.Features)
}
