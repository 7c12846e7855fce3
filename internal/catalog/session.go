package catalog

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"luxe-marketplace/internal/metrics"
	"luxe-marketplace/internal/models"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrTooManySessions = errors.New("session limit reached")
)

// session pairs a Store with the lock that serializes access to it.
type session struct {
	mu       sync.Mutex
	store    *Store
	lastSeen time.Time
}

// SessionManager keeps one Store per shopper. Each Store is only touched
// while its session lock is held.
type SessionManager struct {
	engine      *Engine
	logger      *zap.Logger
	maxSessions int
	now         func() time.Time

	mu       sync.RWMutex
	sessions map[string]*session
	vehicles []models.Vehicle
}

// NewSessionManager creates a manager. maxSessions <= 0 means unlimited.
func NewSessionManager(engine *Engine, logger *zap.Logger, maxSessions int) *SessionManager {
	return &SessionManager{
		engine:      engine,
		logger:      logger.With(zap.String("component", "sessions")),
		maxSessions: maxSessions,
		now:         time.Now,
		sessions:    make(map[string]*session),
	}
}

// Create starts a session over the current inventory snapshot.
func (m *SessionManager) Create() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.maxSessions > 0 && len(m.sessions) >= m.maxSessions {
		return "", ErrTooManySessions
	}

	id := uuid.NewString()
	m.sessions[id] = &session{
		store:    NewStore(m.engine, m.vehicles),
		lastSeen: m.now(),
	}
	metrics.ActiveSessions.Set(float64(len(m.sessions)))
	m.logger.Debug("session created", zap.String("session_id", id))
	return id, nil
}

// With runs fn against the session's Store while holding its lock.
func (m *SessionManager) With(id string, fn func(s *Store) error) error {
	m.mu.RLock()
	sess, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return ErrSessionNotFound
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.lastSeen = m.now()
	return fn(sess.store)
}

// Delete ends a session. It reports whether the session existed.
func (m *SessionManager) Delete(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return false
	}
	delete(m.sessions, id)
	metrics.ActiveSessions.Set(float64(len(m.sessions)))
	return true
}

// Count returns the number of live sessions.
func (m *SessionManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Refresh installs a new inventory snapshot for future sessions and pushes it
// into every live one.
func (m *SessionManager) Refresh(vehicles []models.Vehicle) {
	m.mu.Lock()
	m.vehicles = make([]models.Vehicle, len(vehicles))
	for i := range vehicles {
		m.vehicles[i] = vehicles[i].Clone()
	}
	live := make([]*session, 0, len(m.sessions))
	for _, sess := range m.sessions {
		live = append(live, sess)
	}
	m.mu.Unlock()

	for _, sess := range live {
		sess.mu.Lock()
		sess.store.SetVehicles(vehicles)
		sess.mu.Unlock()
	}
	m.logger.Info("sessions refreshed",
		zap.Int("sessions", len(live)),
		zap.Int("vehicles", len(vehicles)))
}

// Expire removes sessions idle for longer than idle and returns how many
// were removed.
func (m *SessionManager) Expire(idle time.Duration) int {
	cutoff := m.now().Add(-idle)

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, sess := range m.sessions {
		sess.mu.Lock()
		stale := sess.lastSeen.Before(cutoff)
		sess.mu.Unlock()
		if stale {
			delete(m.sessions, id)
			removed++
		}
	}
	metrics.ActiveSessions.Set(float64(len(m.sessions)))
	return removed
}
