// Package web serves the dashboard page and upgrades browsers to
// WebSocket sessions.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"slices"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/XavierBriggs/fortuna/services/gridiron/internal/hub"
	"github.com/XavierBriggs/fortuna/services/gridiron/internal/planner"
	"github.com/XavierBriggs/fortuna/services/gridiron/internal/session"
)

//go:embed static
var staticFiles embed.FS

// Handler manages the dashboard HTTP endpoints
type Handler struct {
	ctx      context.Context
	hub      *hub.Hub
	queries  planner.QueryService
	cfg      session.Config
	page     PageData
	upgrader websocket.Upgrader
	log      *slog.Logger
}

// NewHandler creates a handler. Sessions live until ctx ends or their
// browser disconnects. An empty origins list accepts any origin.
func NewHandler(ctx context.Context, h *hub.Hub, qs planner.QueryService, cfg session.Config, statTypes, origins []string, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		ctx:     ctx,
		hub:     h,
		queries: qs,
		cfg:     cfg,
		page: PageData{
			Title:        "Gridiron Stats",
			StatTypes:    statTypes,
			DatasetStart: cfg.DatasetStart,
			DatasetEnd:   cfg.DatasetEnd,
			WSPath:       "/ws",
		},
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return len(origins) == 0 || origin == "" || slices.Contains(origins, origin)
			},
		},
		log: logger,
	}
}

// HandleIndex renders the dashboard shell
func (h *Handler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	templ.Handler(Page(h.page)).ServeHTTP(w, r)
}

// Static serves the page's script and stylesheet
func (h *Handler) Static() http.Handler {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}

// HandleWebSocket upgrades the connection and starts a session for it
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "error", err)
		return
	}

	id := uuid.New().String()
	c := session.NewClient(conn, h.log.With("session", id))
	s := session.New(id, h.queries, c, h.cfg, h.log)

	// use the handler context, not the request context
	ctx, cancel := context.WithCancel(h.ctx)
	h.hub.Start(ctx, s)
	go func() {
		<-s.Done()
		cancel()
	}()
	go c.WritePump(ctx)
	go func() {
		c.ReadPump(ctx, s.Deliver)
		s.Close()
	}()

	h.log.Info("✓ WebSocket connection established", "session", id)
}

// HandleChartPNG exports a session's current chart
func (h *Handler) HandleChartPNG(w http.ResponseWriter, r *http.Request) {
	s, ok := h.hub.Get(chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, "Unknown session", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	if err := s.WriteChartPNG(r.Context(), w); err != nil {
		w.Header().Del("Content-Type")
		switch {
		case errors.Is(err, session.ErrNotReady):
			http.Error(w, "Chart is not ready", http.StatusConflict)
		case errors.Is(err, session.ErrClosed):
			http.Error(w, "Unknown session", http.StatusNotFound)
		default:
			h.log.Error("chart export failed", "session", s.ID, "error", err)
			http.Error(w, "Failed to render chart", http.StatusInternalServerError)
		}
	}
}

// HandleHealth returns service health
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	health := map[string]interface{}{
		"status":          "healthy",
		"service":         "dashboard",
		"active_sessions": h.hub.GetSessionCount(),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(health)
}

// HandleSessions returns hub metrics
func (h *Handler) HandleSessions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.hub.GetMetrics())
}
