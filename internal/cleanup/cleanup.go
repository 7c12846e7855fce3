package cleanup

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Sessions is the part of the session manager the sweeper needs.
type Sessions interface {
	Expire(idle time.Duration) int
	Count() int
}

// Service removes shopper sessions that have been idle too long
type Service struct {
	sessions Sessions
	idle     time.Duration
	logger   *zap.Logger

	mu           sync.Mutex
	totalExpired int
	runs         int
	last         *Result
}

// Result holds the result of one sweep
type Result struct {
	ExpiredCount   int       `json:"expired_count"`
	RemainingCount int       `json:"remaining_count"`
	IdleTimeout    string    `json:"idle_timeout"`
	ExecutedAt     time.Time `json:"executed_at"`
}

// NewService creates a new cleanup service. idle <= 0 falls back to one hour.
func NewService(sessions Sessions, idle time.Duration, logger *zap.Logger) *Service {
	if idle <= 0 {
		idle = time.Hour
	}
	return &Service{
		sessions: sessions,
		idle:     idle,
		logger:   logger.With(zap.String("component", "session_cleanup")),
	}
}

// Run expires idle sessions once
func (s *Service) Run() *Result {
	expired := s.sessions.Expire(s.idle)
	result := &Result{
		ExpiredCount:   expired,
		RemainingCount: s.sessions.Count(),
		IdleTimeout:    s.idle.String(),
		ExecutedAt:     time.Now(),
	}

	s.mu.Lock()
	s.totalExpired += expired
	s.runs++
	s.last = result
	s.mu.Unlock()

	if expired > 0 {
		s.logger.Info("expired idle sessions",
			zap.Int("expired", expired),
			zap.Int("remaining", result.RemainingCount))
	} else {
		s.logger.Debug("no idle sessions to expire", zap.Int("remaining", result.RemainingCount))
	}
	return result
}

// GetStats returns cumulative sweep statistics
func (s *Service) GetStats() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := map[string]interface{}{
		"runs":          s.runs,
		"total_expired": s.totalExpired,
		"idle_timeout":  s.idle.String(),
	}
	if s.last != nil {
		stats["last_run"] = s.last
	}
	return stats
}
