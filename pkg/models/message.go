package models

import (
	"encoding/json"
	"time"
)

// Message types for dashboard WebSocket communication
const (
	// client → server
	MessageTypeDispatch      = "dispatch"
	MessageTypeResize        = "resize"
	MessageTypeHover         = "hover"
	MessageTypeHoverEnd      = "hover_end"
	MessageTypeSearchPlayers = "search_players"
	MessageTypeRetry         = "retry"

	// server → client
	MessageTypeState   = "state"
	MessageTypeFrame   = "frame"
	MessageTypeStatus  = "status"
	MessageTypeOptions = "options"

	// both directions
	MessageTypeHeartbeat = "heartbeat"
	MessageTypeError     = "error"
)

// ClientMessage represents a message from the browser to the dashboard
type ClientMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ServerMessage represents a message from the dashboard to the browser
type ServerMessage struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// DispatchPayload carries a reducer action from the browser
type DispatchPayload struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// ResizePayload reports the host viewport size in CSS pixels
type ResizePayload struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// HoverPayload identifies the element under the pointer
type HoverPayload struct {
	Key string `json:"key"`
}

// SearchPlayersPayload requests one page of the ranked player list
type SearchPlayersPayload struct {
	Query  string `json:"query"`
	Offset int    `json:"offset"`
}

// StatusPayload is the single line shown in place of a chart
type StatusPayload struct {
	Message string `json:"message"`
	Ready   bool   `json:"ready"`
	Loading bool   `json:"loading"`
	Title   string `json:"title,omitempty"`
}

// OptionsPayload lists the selectable values for the sidebar controls
type OptionsPayload struct {
	StatColumns  []string `json:"stat_columns"`
	Players      []string `json:"players"`
	PlayersQuery string   `json:"players_query"`
	PlayersMore  bool     `json:"players_more"`
	YearChoices  []int    `json:"year_choices"`
}

// ConnectionStats represents session connection statistics
type ConnectionStats struct {
	SessionID        string    `json:"session_id"`
	ConnectedAt      time.Time `json:"connected_at"`
	MessagesSent     int64     `json:"messages_sent"`
	MessagesReceived int64     `json:"messages_received"`
	LastMessageAt    time.Time `json:"last_message_at"`
	StateID          int64     `json:"state_id"`
}

// ErrorMessage represents an error message
type ErrorMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
