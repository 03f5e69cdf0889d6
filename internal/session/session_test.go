package session

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XavierBriggs/fortuna/services/gridiron/internal/readiness"
	"github.com/XavierBriggs/fortuna/services/gridiron/internal/render"
	"github.com/XavierBriggs/fortuna/services/gridiron/internal/state"
	"github.com/XavierBriggs/fortuna/services/gridiron/pkg/models"
)

type stubQueries struct{}

func (stubQueries) PlayerSeries(_ context.Context, _, player, _ string) ([]models.SeasonValue, error) {
	if player == "Player A" {
		return []models.SeasonValue{{Season: 2020, Value: 1100}, {Season: 2021, Value: 1250}}, nil
	}
	return []models.SeasonValue{{Season: 2021, Value: 900}, {Season: 2022, Value: 1010}}, nil
}

func (stubQueries) Scatter(context.Context, string, models.ScatterQuery) ([]models.ScatterPoint, error) {
	return []models.ScatterPoint{{Player: "Player A", Primary: 1250, Secondary: 9}}, nil
}

func (stubQueries) Players(context.Context, string, models.PlayerQuery) ([]string, error) {
	return []string{"Player A", "Player B"}, nil
}

func (stubQueries) NumericColumns(context.Context, string) ([]string, error) {
	return []string{"yards", "touchdowns"}, nil
}

type outbox struct {
	ch chan models.ServerMessage
}

func (o *outbox) TrySend(msg models.ServerMessage) bool {
	select {
	case o.ch <- msg:
		return true
	default:
		return false
	}
}

// next returns the first message of kind that satisfies match
func (o *outbox) next(t *testing.T, kind string, match func(models.ServerMessage) bool) models.ServerMessage {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case msg := <-o.ch:
			if msg.Type == kind && (match == nil || match(msg)) {
				return msg
			}
		case <-deadline:
			t.Fatalf("no %s message", kind)
		}
	}
}

func startSession(t *testing.T) (*Session, *outbox) {
	t.Helper()
	out := &outbox{ch: make(chan models.ServerMessage, 512)}
	s := New("test-session", stubQueries{}, out, Config{DatasetStart: 2007, DatasetEnd: 2024, DefaultPoints: 50},
		slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(stopped)
	}()
	t.Cleanup(func() {
		cancel()
		<-stopped
	})
	return s, out
}

func dispatch(s *Session, kind string, payload string) {
	body, _ := json.Marshal(models.DispatchPayload{Type: kind, Payload: json.RawMessage(payload)})
	s.Deliver(models.ClientMessage{Type: models.MessageTypeDispatch, Payload: body})
}

func statusIs(want func(models.StatusPayload) bool) func(models.ServerMessage) bool {
	return func(msg models.ServerMessage) bool {
		return want(msg.Payload.(models.StatusPayload))
	}
}

func TestSession_InitialStatusIsFirstStep(t *testing.T) {
	_, out := startSession(t)

	out.next(t, models.MessageTypeState, nil)
	msg := out.next(t, models.MessageTypeStatus, nil)
	status := msg.Payload.(models.StatusPayload)
	assert.Equal(t, readiness.MsgSelectChartType, status.Message)
	assert.False(t, status.Ready)
}

func TestSession_BarChartBecomesReady(t *testing.T) {
	s, out := startSession(t)

	dispatch(s, "update_chart_type", `{"chartType":"bar"}`)
	dispatch(s, "update_stat_type", `{"statType":"receiving"}`)
	dispatch(s, "update_players", `{"players":["Player A","Player B"]}`)
	dispatch(s, "update_primary_stat", `{"primaryStat":"yards"}`)

	out.next(t, models.MessageTypeStatus, statusIs(func(p models.StatusPayload) bool {
		return p.Message == "Loading stats for Player A, Player B..."
	}))
	ready := out.next(t, models.MessageTypeStatus, statusIs(func(p models.StatusPayload) bool { return p.Ready }))
	assert.Equal(t, "Grouped Yards by Season", ready.Payload.(models.StatusPayload).Title)

	msg := out.next(t, models.MessageTypeFrame, nil)
	frame := msg.Payload.(render.Frame)
	assert.Equal(t, render.KindBar, frame.Chart)
	assert.Equal(t, "Grouped Yards by Season", frame.Title)
	keys := map[string]bool{}
	for _, op := range frame.Ops {
		keys[op.Key] = true
	}
	assert.True(t, keys["bar:2022:Player B"])

	var png bytes.Buffer
	require.NoError(t, s.WriteChartPNG(context.Background(), &png))
	assert.True(t, bytes.HasPrefix(png.Bytes(), []byte("\x89PNG")))
}

func TestSession_ErrorsAndHeartbeat(t *testing.T) {
	s, out := startSession(t)

	s.Deliver(models.ClientMessage{Type: "subscribe"})
	msg := out.next(t, models.MessageTypeError, nil)
	assert.Equal(t, "unknown_message_type", msg.Payload.(models.ErrorMessage).Code)

	dispatch(s, "update_players", `{"players":"nope"}`)
	msg = out.next(t, models.MessageTypeError, nil)
	assert.Equal(t, "invalid_action", msg.Payload.(models.ErrorMessage).Code)

	s.Deliver(models.ClientMessage{Type: models.MessageTypeHeartbeat})
	msg = out.next(t, models.MessageTypeHeartbeat, nil)
	stats := msg.Payload.(models.ConnectionStats)
	assert.Equal(t, "test-session", stats.SessionID)
	assert.Equal(t, int64(3), stats.MessagesReceived)
}

func TestSession_RejectsDuplicatePlayers(t *testing.T) {
	s, out := startSession(t)
	out.next(t, models.MessageTypeState, nil)

	dispatch(s, "update_players", `{"players":["Player A","","Player A"]}`)
	msg := out.next(t, models.MessageTypeError, nil)
	assert.Equal(t, "duplicate_player", msg.Payload.(models.ErrorMessage).Code)

	msg = out.next(t, models.MessageTypeState, nil)
	assert.Equal(t, []string{""}, msg.Payload.(state.AppState).Players)

	dispatch(s, "update_players", `{"players":["Player A","","Player B"]}`)
	msg = out.next(t, models.MessageTypeState, nil)
	assert.Equal(t, []string{"Player A", "", "Player B"}, msg.Payload.(state.AppState).Players)
}

func TestSession_ChartNotReadyForExport(t *testing.T) {
	s, out := startSession(t)
	out.next(t, models.MessageTypeStatus, nil)

	err := s.WriteChartPNG(context.Background(), io.Discard)
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestSession_SlowClientIsClosed(t *testing.T) {
	out := &outbox{ch: make(chan models.ServerMessage)}
	s := New("slow", stubQueries{}, out, Config{DatasetStart: 2007, DatasetEnd: 2024}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	done := make(chan struct{})
	go func() {
		s.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("session kept running with a blocked client")
	}
	assert.ErrorIs(t, s.WriteChartPNG(context.Background(), io.Discard), ErrClosed)
}
