package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pulsedash/pulse-platform/internal/analytics"
	"github.com/pulsedash/pulse-platform/pkg/redis"
)

// Server exposes the analytics pipeline over HTTP
type Server struct {
	orchestrator *analytics.Orchestrator
	cache        *analytics.ResultCache
	redis        redis.Client
	logger       *slog.Logger
}

// NewServer creates a new API server
func NewServer(orchestrator *analytics.Orchestrator, cache *analytics.ResultCache, redisClient redis.Client, logger *slog.Logger) *Server {
	return &Server{
		orchestrator: orchestrator,
		cache:        cache,
		redis:        redisClient,
		logger:       logger,
	}
}

// Handler returns the HTTP handler with all API routes registered
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/venues/", s.handleVenues)
	return mux
}

// handleVenues routes /api/v1/venues/{venueId}/analytics and
// /api/v1/venues/{venueId}/live
func (s *Server) handleVenues(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/venues/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" {
		s.writeError(w, http.StatusNotFound, "not found")
		return
	}
	venueID := parts[0]

	switch parts[1] {
	case "analytics":
		s.handleAnalytics(w, r, venueID)
	case "live":
		s.handleLive(w, r, venueID)
	default:
		s.writeError(w, http.StatusNotFound, "not found")
	}
}

// handleAnalytics serves a full period analytics result, memoized per
// (venue, range)
func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request, venueID string) {
	requestID := uuid.New().String()
	started := time.Now()

	rangeParam := r.URL.Query().Get("range")
	if rangeParam == "" {
		rangeParam = string(analytics.Range7d)
	}

	rng, err := analytics.ParseRangeToken(rangeParam)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid range: %s", rangeParam))
		return
	}

	ctx := r.Context()

	if cached := s.cache.Get(ctx, venueID, rng); cached != nil {
		s.logger.Info("Analytics request served from cache",
			"request_id", requestID,
			"venue_id", venueID,
			"range", string(rng),
			"duration_ms", time.Since(started).Milliseconds())
		s.writeJSON(w, http.StatusOK, cached)
		return
	}

	result, err := s.orchestrator.Run(ctx, venueID, rng)
	if err != nil {
		s.logger.Error("Analytics computation failed",
			"request_id", requestID,
			"venue_id", venueID,
			"range", string(rng),
			"error", err)
		s.writeError(w, http.StatusBadGateway, "analytics temporarily unavailable")
		return
	}

	s.cache.Put(ctx, venueID, rng, result)

	s.logger.Info("Analytics request computed",
		"request_id", requestID,
		"venue_id", venueID,
		"range", string(rng),
		"duration_ms", time.Since(started).Milliseconds())

	s.writeJSON(w, http.StatusOK, result)
}

// handleLive serves the latest cached reading for a venue
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request, venueID string) {
	fields, err := s.redis.HGetAll(r.Context(), redis.LatestReadingKey(venueID))
	if err != nil {
		s.logger.Error("Failed to read latest reading", "venue_id", venueID, "error", err)
		s.writeError(w, http.StatusBadGateway, "live data temporarily unavailable")
		return
	}
	if len(fields) == 0 {
		s.writeError(w, http.StatusNotFound, "no live data for venue")
		return
	}

	s.writeJSON(w, http.StatusOK, fields)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
