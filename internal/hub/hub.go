package hub

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/XavierBriggs/fortuna/services/gridiron/internal/metrics"
	"github.com/XavierBriggs/fortuna/services/gridiron/internal/session"
)

// Hub tracks the connected dashboard sessions
type Hub struct {
	sessions   map[string]*session.Session
	sessionsMu sync.RWMutex

	// running session loops
	wg sync.WaitGroup

	totalConnections int64
	metricsMu        sync.Mutex

	log *slog.Logger
}

// NewHub creates a new Hub instance
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		sessions: make(map[string]*session.Session),
		log:      logger.With("component", "hub"),
	}
}

// Run reports metrics until ctx ends, then closes every session
func (h *Hub) Run(ctx context.Context) {
	h.log.Info("✓ Hub started")

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return
		case <-ticker.C:
			m := h.GetMetrics()
			h.log.Info("📊 Hub metrics",
				"active_sessions", m["active_sessions"],
				"total_connections", m["total_connections"])
		}
	}
}

// Start registers s and runs its loop until it stops, then unregisters it
func (h *Hub) Start(ctx context.Context, s *session.Session) {
	h.register(s)
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		defer h.unregister(s)
		s.Run(ctx)
	}()
}

// Get returns the session with id
func (h *Hub) Get(id string) (*session.Session, bool) {
	h.sessionsMu.RLock()
	defer h.sessionsMu.RUnlock()
	s, ok := h.sessions[id]
	return s, ok
}

// GetSessionCount returns the number of active sessions
func (h *Hub) GetSessionCount() int {
	h.sessionsMu.RLock()
	defer h.sessionsMu.RUnlock()
	return len(h.sessions)
}

// GetMetrics returns hub metrics
func (h *Hub) GetMetrics() map[string]interface{} {
	active := h.GetSessionCount()

	h.metricsMu.Lock()
	total := h.totalConnections
	h.metricsMu.Unlock()

	return map[string]interface{}{
		"active_sessions":   active,
		"total_connections": total,
	}
}

// Wait blocks until every session loop has returned or ctx ends
func (h *Hub) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Hub) register(s *session.Session) {
	h.sessionsMu.Lock()
	h.sessions[s.ID] = s
	count := len(h.sessions)
	h.sessionsMu.Unlock()

	h.metricsMu.Lock()
	h.totalConnections++
	h.metricsMu.Unlock()

	metrics.ActiveSessions.Inc()
	h.log.Info("session connected", "session", s.ID, "total", count)
}

func (h *Hub) unregister(s *session.Session) {
	h.sessionsMu.Lock()
	_, ok := h.sessions[s.ID]
	delete(h.sessions, s.ID)
	count := len(h.sessions)
	h.sessionsMu.Unlock()

	if ok {
		metrics.ActiveSessions.Dec()
		h.log.Info("session disconnected", "session", s.ID, "total", count)
	}
}

// shutdown closes all sessions
func (h *Hub) shutdown() {
	h.sessionsMu.RLock()
	defer h.sessionsMu.RUnlock()

	h.log.Info("🛑 Shutting down hub", "active_sessions", len(h.sessions))
	for _, s := range h.sessions {
		s.Close()
	}
}
