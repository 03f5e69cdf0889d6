package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/XavierBriggs/fortuna/services/gridiron/internal/export"
	"github.com/XavierBriggs/fortuna/services/gridiron/pkg/models"
)

const summaryTopN = 10

// SummaryHandler draws the season leaderboard chart
type SummaryHandler struct {
	*Handler
	defaultSeason int
}

// NewSummaryHandler creates a summary handler; seasons default to defaultSeason
func NewSummaryHandler(h *Handler, defaultSeason int) *SummaryHandler {
	return &SummaryHandler{Handler: h, defaultSeason: defaultSeason}
}

// GetSummaryChart renders the top receivers by yards for a season as PNG
// GET /summary.png?season={year}
func (h *SummaryHandler) GetSummaryChart(w http.ResponseWriter, r *http.Request) {
	season := parseIntParam(r, "season", h.defaultSeason)
	if raw := r.URL.Query().Get("season"); raw != "" {
		if _, err := strconv.Atoi(raw); err != nil {
			http.Error(w, fmt.Sprintf("Invalid season: %s", raw), http.StatusBadRequest)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	st, err := h.registry.Get("receiving")
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	leaders, err := h.db.Scatter(ctx, st.Table, models.ScatterQuery{
		PrimaryStat:   st.DefaultStat,
		SecondaryStat: st.DefaultStat,
		StartYear:     &season,
		EndYear:       &season,
		Aggregate:     models.AggregateTotal,
		Limit:         summaryTopN,
	})
	if err != nil {
		h.queryError(w, "failed to retrieve season leaders", err)
		return
	}

	var buf bytes.Buffer
	err = export.LeaderboardPNG(&buf, leaders, export.Options{
		Title:  fmt.Sprintf("Top %d Receiving Yards - %d", summaryTopN, season),
		YLabel: "Yards",
		Colors: []string{"steelblue"},
	})
	if errors.Is(err, export.ErrNoData) {
		http.Error(w, fmt.Sprintf("No data for season %d", season), http.StatusNotFound)
		return
	}
	if err != nil {
		h.internalError(w, "failed to render summary chart", err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
