package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/XavierBriggs/fortuna/services/gridiron/internal/db"
	"github.com/XavierBriggs/fortuna/services/gridiron/internal/registry"
	"github.com/XavierBriggs/fortuna/services/gridiron/pkg/models"
	"github.com/go-chi/chi/v5"
)

const (
	defaultPlayerLimit  = 20
	maxPlayerLimit      = 1000
	defaultScatterLimit = 50
	queryTimeout        = 5 * time.Second
)

// Handler contains dependencies for HTTP handlers
type Handler struct {
	db       db.StatsDB
	registry *registry.Registry
}

// NewHandler creates a new handler with dependencies
func NewHandler(database db.StatsDB, reg *registry.Registry) *Handler {
	return &Handler{
		db:       database,
		registry: reg,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	// Check database connectivity
	if err := h.db.Ping(ctx); err != nil {
		respondError(w, http.StatusServiceUnavailable, "database unhealthy", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"service":   "stats-api",
	})
}

// GetSeasonStats returns every receiving row for a season, or all seasons
// GET /stats?season={year}
func (h *Handler) GetSeasonStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	season, err := parseOptionalInt(r, "season")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	st, err := h.registry.Get("receiving")
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	rows, err := h.db.SeasonRows(ctx, st.Table, season)
	if err != nil {
		h.internalError(w, "failed to retrieve season stats", err)
		return
	}

	respondJSON(w, http.StatusOK, rows)
}

// GetPlayers returns players ranked by the summed stat within the year window
// GET /{statType}/players?query&limit&offset&startYear&endYear&stat
func (h *Handler) GetPlayers(w http.ResponseWriter, r *http.Request) {
	st, ok := h.statType(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	startYear, err := parseOptionalInt(r, "startYear")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	endYear, err := parseOptionalInt(r, "endYear")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	limit := parseIntParam(r, "limit", defaultPlayerLimit)
	if limit <= 0 {
		limit = defaultPlayerLimit
	}
	if limit > maxPlayerLimit {
		limit = maxPlayerLimit
	}
	offset := parseIntParam(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	stat := r.URL.Query().Get("stat")
	if stat == "" {
		stat = st.DefaultStat
	}

	players, err := h.db.SearchPlayers(ctx, st.Table, models.PlayerQuery{
		Query:     r.URL.Query().Get("query"),
		Stat:      stat,
		StartYear: startYear,
		EndYear:   endYear,
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		h.queryError(w, "failed to retrieve players", err)
		return
	}

	respondJSON(w, http.StatusOK, players)
}

// GetNumericColumns returns the stat columns usable as chart selectors
// GET /{statType}/numeric-columns
func (h *Handler) GetNumericColumns(w http.ResponseWriter, r *http.Request) {
	st, ok := h.statType(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	cols, err := h.db.NumericColumns(ctx, st.Table)
	if err != nil {
		h.queryError(w, "failed to retrieve numeric columns", err)
		return
	}

	respondJSON(w, http.StatusOK, cols)
}

// GetPlayerStats returns one {season, <stat>} row per season for a player
// GET /{statType}/player-stats?player&stat
func (h *Handler) GetPlayerStats(w http.ResponseWriter, r *http.Request) {
	st, ok := h.statType(w, r)
	if !ok {
		return
	}

	player := r.URL.Query().Get("player")
	if player == "" {
		http.Error(w, "Missing player param", http.StatusBadRequest)
		return
	}
	stat := r.URL.Query().Get("stat")
	if stat == "" {
		stat = st.DefaultStat
	}

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	series, err := h.db.PlayerSeries(ctx, st.Table, player, stat)
	if err != nil {
		h.queryError(w, "failed to retrieve player stats", err)
		return
	}

	rows := make([]map[string]interface{}, 0, len(series))
	for _, sv := range series {
		rows = append(rows, map[string]interface{}{
			"season": sv.Season,
			stat:     sv.Value,
		})
	}

	respondJSON(w, http.StatusOK, rows)
}

// GetScatterData returns per-player aggregates of two stats
// GET /{statType}/scatter-data?primaryStat&secondaryStat&startYear&endYear&aggregate&limit
func (h *Handler) GetScatterData(w http.ResponseWriter, r *http.Request) {
	st, ok := h.statType(w, r)
	if !ok {
		return
	}

	q, err := parseScatterQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	points, err := h.db.Scatter(ctx, st.Table, q)
	if err != nil {
		h.queryError(w, "failed to retrieve scatter data", err)
		return
	}

	rows := make([]map[string]interface{}, 0, len(points))
	for _, p := range points {
		rows = append(rows, map[string]interface{}{
			"player":        p.Player,
			q.PrimaryStat:   p.Primary,
			q.SecondaryStat: p.Secondary,
		})
	}

	respondJSON(w, http.StatusOK, rows)
}

func parseScatterQuery(r *http.Request) (models.ScatterQuery, error) {
	values := r.URL.Query()
	q := models.ScatterQuery{
		PrimaryStat:   values.Get("primaryStat"),
		SecondaryStat: values.Get("secondaryStat"),
		Aggregate:     values.Get("aggregate"),
		Limit:         parseIntParam(r, "limit", defaultScatterLimit),
	}

	if q.PrimaryStat == "" || q.SecondaryStat == "" {
		return q, errors.New("Both primaryStat and secondaryStat are required")
	}
	if q.Aggregate == "" {
		q.Aggregate = models.AggregateAverage
	}
	if q.Aggregate != models.AggregateTotal && q.Aggregate != models.AggregateAverage {
		return q, errors.New("Aggregate must be 'total' or 'average'")
	}
	if q.Limit <= 0 {
		q.Limit = defaultScatterLimit
	}
	if q.Limit > maxPlayerLimit {
		q.Limit = maxPlayerLimit
	}

	var err error
	if q.StartYear, err = parseOptionalInt(r, "startYear"); err != nil {
		return q, err
	}
	if q.EndYear, err = parseOptionalInt(r, "endYear"); err != nil {
		return q, err
	}
	return q, nil
}

// statType resolves the {statType} URL parameter, writing a 404 when unknown
func (h *Handler) statType(w http.ResponseWriter, r *http.Request) (registry.StatType, bool) {
	key := chi.URLParam(r, "statType")
	st, err := h.registry.Get(key)
	if err != nil {
		http.Error(w, fmt.Sprintf("Unknown stat type: %s", key), http.StatusNotFound)
		return registry.StatType{}, false
	}
	return st, true
}

// queryError maps database errors onto plain-text responses
func (h *Handler) queryError(w http.ResponseWriter, message string, err error) {
	if errors.Is(err, db.ErrInvalidStat) {
		http.Error(w, "Invalid stat column", http.StatusBadRequest)
		return
	}
	h.internalError(w, message, err)
}

func (h *Handler) internalError(w http.ResponseWriter, message string, err error) {
	slog.Error(message, "error", err)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

func parseIntParam(r *http.Request, param string, defaultValue int) int {
	valueStr := r.URL.Query().Get(param)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

// parseOptionalInt returns nil for an absent parameter and an error for a malformed one
func parseOptionalInt(r *http.Request, param string) (*int, error) {
	valueStr := r.URL.Query().Get(param)
	if valueStr == "" {
		return nil, nil
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return nil, fmt.Errorf("Invalid %s: %s", param, valueStr)
	}

	return &value, nil
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("error encoding response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	errResp := models.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	}

	if err != nil {
		slog.Error(message, "error", err)
	}

	if err := json.NewEncoder(w).Encode(errResp); err != nil {
		slog.Error("error encoding error response", "error", err)
	}
}
