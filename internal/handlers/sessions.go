package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"luxe-marketplace/internal/catalog"
	"luxe-marketplace/internal/metrics"
	"luxe-marketplace/internal/models"
)

var ErrVehicleNotFound = errors.New("vehicle not found")

// SessionHandler exposes the per-shopper selection state
type SessionHandler struct {
	sessions *catalog.SessionManager
	logger   *zap.Logger
}

func NewSessionHandler(sessions *catalog.SessionManager, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		logger:   logger.With(zap.String("component", "session_api")),
	}
}

// SessionState is the full view of one shopper's session
type SessionState struct {
	ID          string              `json:"id"`
	Filters     catalog.FilterInput `json:"filters"`
	SortKey     catalog.SortKey     `json:"sortKey"`
	Likes       []int               `json:"likes"`
	CompareList []models.Vehicle    `json:"compareList"`
	Vehicles    []models.Vehicle    `json:"vehicles"`
	Count       int                 `json:"count"`
}

func stateOf(id string, s *catalog.Store) SessionState {
	display := s.DisplayList()
	return SessionState{
		ID:          id,
		Filters:     s.Filters().Input(),
		SortKey:     s.SortKey(),
		Likes:       s.Likes(),
		CompareList: s.CompareList(),
		Vehicles:    display,
		Count:       len(display),
	}
}

// update runs fn against the session and answers with the resulting state.
func (h *SessionHandler) update(c *gin.Context, fn func(s *catalog.Store)) {
	id := c.Param("id")
	var state SessionState
	err := h.sessions.With(id, func(s *catalog.Store) error {
		fn(s)
		state = stateOf(id, s)
		return nil
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (h *SessionHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, catalog.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, catalog.ErrTooManySessions):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		h.logger.Error("session request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// Create starts a session
func (h *SessionHandler) Create(c *gin.Context) {
	id, err := h.sessions.Create()
	if err != nil {
		h.respondError(c, err)
		return
	}

	var state SessionState
	if err := h.sessions.With(id, func(s *catalog.Store) error {
		state = stateOf(id, s)
		return nil
	}); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, state)
}

// Get returns the session state
func (h *SessionHandler) Get(c *gin.Context) {
	h.update(c, func(s *catalog.Store) {})
}

// SetFilters replaces all filters at once
func (h *SessionHandler) SetFilters(c *gin.Context) {
	var in catalog.FilterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	filters := catalog.ParseFilters(in)
	h.update(c, func(s *catalog.Store) { s.SetFilters(filters) })
}

type sortRequest struct {
	SortKey string `json:"sortKey" binding:"required"`
}

// SetSort changes the ordering. Unknown keys fall back to featured.
func (h *SessionHandler) SetSort(c *gin.Context) {
	var req sortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	key := catalog.ParseSortKey(req.SortKey)
	h.update(c, func(s *catalog.Store) { s.SetSortKey(key) })
}

// ToggleLike flips the like flag. Unknown vehicle ids leave the state unchanged.
func (h *SessionHandler) ToggleLike(c *gin.Context) {
	vehicleID, ok := parseID(c, "vehicleId")
	if !ok {
		return
	}
	h.update(c, func(s *catalog.Store) { s.ToggleLike(vehicleID) })
}

// AddToCompare appends the vehicle to the compare list when there is room
func (h *SessionHandler) AddToCompare(c *gin.Context) {
	vehicleID, ok := parseID(c, "vehicleId")
	if !ok {
		return
	}
	h.update(c, func(s *catalog.Store) {
		v, known := s.Vehicle(vehicleID)
		if !known {
			metrics.SelectionEvents.WithLabelValues("compare_add", "unknown").Inc()
			return
		}
		s.AddToCompare(v)
	})
}

// RemoveFromCompare drops the vehicle from the compare list
func (h *SessionHandler) RemoveFromCompare(c *gin.Context) {
	vehicleID, ok := parseID(c, "vehicleId")
	if !ok {
		return
	}
	h.update(c, func(s *catalog.Store) { s.RemoveFromCompare(vehicleID) })
}

// ClearCompare empties the compare list
func (h *SessionHandler) ClearCompare(c *gin.Context) {
	h.update(c, func(s *catalog.Store) { s.ClearCompareList() })
}

// Delete ends the session
func (h *SessionHandler) Delete(c *gin.Context) {
	if !h.sessions.Delete(c.Param("id")) {
		h.respondError(c, catalog.ErrSessionNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}
