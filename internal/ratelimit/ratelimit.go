package ratelimit

import (
	"sync"
	"time"
)

// RateLimiter enforces sliding-window request limits per client key
type RateLimiter struct {
	requestsPerMinute int
	requestsPerHour   int
	requestsPerDay    int
	enabled           bool
	now               func() time.Time

	clients map[string]*windows
	mu      sync.Mutex
}

// windows tracks one client's recent requests
type windows struct {
	minute []time.Time
	hour   []time.Time
	day    []time.Time
}

// NewRateLimiter creates a new rate limiter with the given limits.
// A limit <= 0 is not enforced.
func NewRateLimiter(requestsPerMinute, requestsPerHour, requestsPerDay int, enabled bool) *RateLimiter {
	return &RateLimiter{
		requestsPerMinute: requestsPerMinute,
		requestsPerHour:   requestsPerHour,
		requestsPerDay:    requestsPerDay,
		enabled:           enabled,
		now:               time.Now,
		clients:           make(map[string]*windows),
	}
}

// Allow checks and records a request for key.
// Returns true if allowed, false if a limit is exceeded
func (rl *RateLimiter) Allow(key string) bool {
	if !rl.enabled {
		return true
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	w, ok := rl.clients[key]
	if !ok {
		w = &windows{}
		rl.clients[key] = w
	}
	w.cleanup(now)

	if exceeded(len(w.minute), rl.requestsPerMinute) ||
		exceeded(len(w.hour), rl.requestsPerHour) ||
		exceeded(len(w.day), rl.requestsPerDay) {
		return false
	}

	w.minute = append(w.minute, now)
	w.hour = append(w.hour, now)
	w.day = append(w.day, now)
	return true
}

func exceeded(count, limit int) bool {
	return limit > 0 && count >= limit
}

// cleanup removes expired entries from the time windows
func (w *windows) cleanup(now time.Time) {
	w.minute = filterTimes(w.minute, now.Add(-1*time.Minute))
	w.hour = filterTimes(w.hour, now.Add(-1*time.Hour))
	w.day = filterTimes(w.day, now.Add(-24*time.Hour))
}

// filterTimes keeps only times after the cutoff
func filterTimes(times []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(times) && !times[i].After(cutoff) {
		i++
	}
	return times[i:]
}

// Prune forgets clients with no requests in the last day
func (rl *RateLimiter) Prune() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	removed := 0
	for key, w := range rl.clients {
		w.cleanup(now)
		if len(w.day) == 0 {
			delete(rl.clients, key)
			removed++
		}
	}
	return removed
}

// GetStats returns statistics for key
func (rl *RateLimiter) GetStats(key string) Stats {
	if !rl.enabled {
		return Stats{Enabled: false}
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	var minute, hour, day int
	if w, ok := rl.clients[key]; ok {
		w.cleanup(rl.now())
		minute, hour, day = len(w.minute), len(w.hour), len(w.day)
	}

	return Stats{
		Enabled:             true,
		TrackedClients:      len(rl.clients),
		RequestsLastMinute:  minute,
		RequestsLastHour:    hour,
		RequestsLastDay:     day,
		LimitPerMinute:      rl.requestsPerMinute,
		LimitPerHour:        rl.requestsPerHour,
		LimitPerDay:         rl.requestsPerDay,
		RemainingThisMinute: max(0, rl.requestsPerMinute-minute),
		RemainingThisHour:   max(0, rl.requestsPerHour-hour),
		RemainingThisDay:    max(0, rl.requestsPerDay-day),
	}
}

// Stats contains rate limiter statistics
type Stats struct {
	Enabled             bool `json:"enabled"`
	TrackedClients      int  `json:"tracked_clients"`
	RequestsLastMinute  int  `json:"requests_last_minute"`
	RequestsLastHour    int  `json:"requests_last_hour"`
	RequestsLastDay     int  `json:"requests_last_day"`
	LimitPerMinute      int  `json:"limit_per_minute"`
	LimitPerHour        int  `json:"limit_per_hour"`
	LimitPerDay         int  `json:"limit_per_day"`
	RemainingThisMinute int  `json:"remaining_this_minute"`
	RemainingThisHour   int  `json:"remaining_this_hour"`
	RemainingThisDay    int  `json:"remaining_this_day"`
}

// Reset clears all tracked requests (useful for testing)
func (rl *RateLimiter) Reset() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.clients = make(map[string]*windows)
}
