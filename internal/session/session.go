// Package session hosts one browser's dashboard: a State Store, its
// Planner and the chart Stage, all driven from a single event loop
// goroutine. Everything the loop owns is touched only from that goroutine;
// other goroutines reach it through Post.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/XavierBriggs/fortuna/services/gridiron/internal/metrics"
	"github.com/XavierBriggs/fortuna/services/gridiron/internal/planner"
	"github.com/XavierBriggs/fortuna/services/gridiron/internal/render"
	"github.com/XavierBriggs/fortuna/services/gridiron/internal/state"
	"github.com/XavierBriggs/fortuna/services/gridiron/pkg/models"
)

const eventBufferSize = 64

// Outbox delivers server messages to the browser without blocking
type Outbox interface {
	TrySend(msg models.ServerMessage) bool
}

// Config holds the dataset defaults a session starts from
type Config struct {
	DatasetStart  int
	DatasetEnd    int
	DefaultPoints int
}

// Session is one connected dashboard
type Session struct {
	ID string

	cfg     Config
	log     *slog.Logger
	out     Outbox
	store   *state.Store
	planner *planner.Planner
	vp      *render.Viewport
	stage   *render.Stage

	events    chan func()
	done      chan struct{}
	closeOnce sync.Once

	connectedAt   time.Time
	sent          atomic.Int64
	received      atomic.Int64
	lastMessageAt atomic.Int64

	// loop-owned
	dirty       bool
	stateDirty  bool
	lastStatus  *models.StatusPayload
	lastOptions *models.OptionsPayload
	frameTitle  string
	view        View
}

// New creates a session; Run starts its loop
func New(id string, qs planner.QueryService, out Outbox, cfg Config, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Session{
		ID:          id,
		cfg:         cfg,
		log:         logger.With("session", id),
		out:         out,
		store:       state.NewStore(state.Initial(cfg.DatasetStart, cfg.DatasetEnd, cfg.DefaultPoints)),
		vp:          render.NewViewport(),
		events:      make(chan func(), eventBufferSize),
		done:        make(chan struct{}),
		connectedAt: time.Now(),
	}
	s.stage = render.NewStage(s.vp, s.sendFrame)
	s.planner = planner.New(s.store, qs, s, planner.Options{
		DatasetStart: cfg.DatasetStart,
		DatasetEnd:   cfg.DatasetEnd,
		Logger:       s.log,
		OnUpdate:     func() { s.dirty = true },
	})
	return s
}

// Post queues fn to run on the session loop. It is dropped once the
// session has closed.
func (s *Session) Post(fn func()) {
	select {
	case s.events <- fn:
	case <-s.done:
	}
}

// Deliver hands a browser message to the loop
func (s *Session) Deliver(msg models.ClientMessage) {
	s.received.Add(1)
	s.lastMessageAt.Store(time.Now().UnixNano())
	s.Post(func() { s.handle(msg) })
}

// Close stops the loop. It is safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}

// Done is closed when the session has been asked to stop
func (s *Session) Done() <-chan struct{} { return s.done }

// Run drives the session until ctx is cancelled or Close is called
func (s *Session) Run(ctx context.Context) {
	s.store.Subscribe(func(prev, next state.AppState) {
		s.dirty = true
		s.stateDirty = true
	})
	s.planner.Start()
	s.dirty, s.stateDirty = true, true
	s.flush()

	for {
		select {
		case <-ctx.Done():
			s.Close()
			s.shutdown()
			return
		case <-s.done:
			s.shutdown()
			return
		case fn := <-s.events:
			fn()
			s.flush()
		}
	}
}

func (s *Session) shutdown() {
	s.planner.Stop()
	s.stage.Unmount()
	s.log.Debug("session loop stopped")
}

// handle runs on the loop for each browser message
func (s *Session) handle(msg models.ClientMessage) {
	switch msg.Type {
	case models.MessageTypeDispatch:
		var p models.DispatchPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			s.sendError("invalid_payload", "failed to parse dispatch payload")
			return
		}
		action, err := state.DecodeAction(p.Type, p.Payload)
		if err != nil {
			s.sendError("invalid_action", err.Error())
			return
		}
		if up, ok := action.(state.UpdatePlayers); ok {
			if name := duplicatePlayer(up.Players); name != "" {
				s.sendError("duplicate_player", fmt.Sprintf("%s is already selected", name))
				// resend state so the browser reverts the row
				s.stateDirty = true
				return
			}
		}
		s.store.Dispatch(action)

	case models.MessageTypeResize:
		var p models.ResizePayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			s.sendError("invalid_payload", "failed to parse resize payload")
			return
		}
		s.vp.Resize(render.Size{Width: p.Width, Height: p.Height})

	case models.MessageTypeHover:
		var p models.HoverPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			s.sendError("invalid_payload", "failed to parse hover payload")
			return
		}
		s.stage.Hover(p.Key)

	case models.MessageTypeHoverEnd:
		s.stage.HoverEnd()

	case models.MessageTypeSearchPlayers:
		var p models.SearchPlayersPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			s.sendError("invalid_payload", "failed to parse search payload")
			return
		}
		s.planner.SearchPlayers(p.Query, p.Offset)

	case models.MessageTypeRetry:
		s.planner.Refresh()

	case models.MessageTypeHeartbeat:
		s.send(models.MessageTypeHeartbeat, s.stats())

	default:
		s.sendError("unknown_message_type", fmt.Sprintf("unknown message type: %s", msg.Type))
	}
}

// flush pushes whatever the last event changed to the browser
func (s *Session) flush() {
	if s.stateDirty {
		s.stateDirty = false
		s.send(models.MessageTypeState, s.store.State())
	}
	if !s.dirty {
		return
	}
	s.dirty = false

	st := s.store.State()
	snap := s.planner.Snapshot()
	s.view = Compose(st, snap, s.cfg.DatasetStart, s.cfg.DatasetEnd)

	status := models.StatusPayload{
		Message: s.view.Message,
		Ready:   s.view.Ready(),
		Loading: s.view.Loading,
		Title:   s.view.Title,
	}
	if s.lastStatus == nil || *s.lastStatus != status {
		s.lastStatus = &status
		s.send(models.MessageTypeStatus, status)
	}

	switch {
	case s.view.Ready():
		s.stage.Show(s.view.Chart, s.view.Title)
	case !s.view.Loading:
		// a missing selection takes the chart down; while loading the
		// browser hides it and the next data reconciles against it
		s.stage.Unmount()
	}

	options := models.OptionsPayload{
		StatColumns:  nonNil(snap.Columns),
		Players:      nonNil(snap.PlayerOptions),
		PlayersQuery: snap.Search.Query,
		PlayersMore:  snap.Search.HasMore,
		YearChoices:  nonNilInts(st.AvailableYears),
	}
	if snap.Search.Query != "" || len(snap.Search.Players) > 0 {
		options.Players = nonNil(snap.Search.Players)
	}
	if s.lastOptions == nil || !equalOptions(*s.lastOptions, options) {
		s.lastOptions = &options
		s.send(models.MessageTypeOptions, options)
	}
}

func (s *Session) sendFrame(f render.Frame) {
	if f.Empty() && f.Title == s.frameTitle {
		return
	}
	s.frameTitle = f.Title
	if s.send(models.MessageTypeFrame, f) {
		metrics.FramesSent.Inc()
	}
}

// send queues a message for the browser. A client too slow to keep up
// is disconnected since later frames build on the ones it missed.
func (s *Session) send(kind string, payload interface{}) bool {
	ok := s.out.TrySend(models.ServerMessage{
		Type:      kind,
		Payload:   payload,
		Timestamp: time.Now(),
	})
	if !ok {
		metrics.DroppedMessages.Inc()
		s.log.Warn("client buffer full, closing session", "message_type", kind)
		s.Close()
		return false
	}
	s.sent.Add(1)
	return true
}

func (s *Session) sendError(code, message string) {
	s.send(models.MessageTypeError, models.ErrorMessage{Code: code, Message: message})
}

func (s *Session) stats() models.ConnectionStats {
	var last time.Time
	if ns := s.lastMessageAt.Load(); ns > 0 {
		last = time.Unix(0, ns)
	}
	return models.ConnectionStats{
		SessionID:        s.ID,
		ConnectedAt:      s.connectedAt,
		MessagesSent:     s.sent.Load(),
		MessagesReceived: s.received.Load(),
		LastMessageAt:    last,
		StateID:          s.store.State().StateID,
	}
}

// duplicatePlayer returns the first non-blank name that appears twice
func duplicatePlayer(players []string) string {
	seen := make(map[string]bool, len(players))
	for _, p := range players {
		if p == "" {
			continue
		}
		if seen[p] {
			return p
		}
		seen[p] = true
	}
	return ""
}

func equalOptions(a, b models.OptionsPayload) bool {
	return slices.Equal(a.StatColumns, b.StatColumns) &&
		slices.Equal(a.Players, b.Players) &&
		a.PlayersQuery == b.PlayersQuery &&
		a.PlayersMore == b.PlayersMore &&
		slices.Equal(a.YearChoices, b.YearChoices)
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

func nonNilInts(v []int) []int {
	if v == nil {
		return []int{}
	}
	return v
}
