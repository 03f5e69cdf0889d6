package state

import (
	"encoding/json"
	"strings"
)

// StatType is a stat category; the zero value means unset
type StatType string

const (
	StatReceiving StatType = "receiving"
	StatRushing   StatType = "rushing"
	StatPassing   StatType = "passing"
)

// Valid reports whether t is a known stat category
func (t StatType) Valid() bool {
	switch t {
	case StatReceiving, StatRushing, StatPassing:
		return true
	}
	return false
}

// ChartType is a chart kind; the zero value means unset
type ChartType string

const (
	ChartBar     ChartType = "bar"
	ChartLine    ChartType = "line"
	ChartScatter ChartType = "scatter"
)

// Valid reports whether t is a known chart kind
func (t ChartType) Valid() bool {
	switch t {
	case ChartBar, ChartLine, ChartScatter:
		return true
	}
	return false
}

// Aggregate is the scatter reduction; the zero value means unset
type Aggregate string

const (
	AggregateTotal   Aggregate = "total"
	AggregateAverage Aggregate = "average"
)

// Valid reports whether a is a known reduction
func (a Aggregate) Valid() bool {
	return a == AggregateTotal || a == AggregateAverage
}

// Scatter point limits
const (
	DefaultNumberOfPoints = 50
	MaxNumberOfPoints     = 1000
)

// AppState is the complete UI selection state of one dashboard session
type AppState struct {
	StatType       StatType
	ChartType      ChartType
	Players        []string
	PrimaryStat    string
	SecondaryStat  string
	Aggregate      Aggregate
	StartYear      *int
	EndYear        *int
	AvailableYears []int
	NumberOfPoints int
	LastChange     Action
	StateID        int64
}

// Initial returns the state a new session starts with: every season of the
// dataset available, one empty player row and no selections.
func Initial(startYear, endYear, numberOfPoints int) AppState {
	years := make([]int, 0, endYear-startYear+1)
	for y := startYear; y <= endYear; y++ {
		years = append(years, y)
	}
	if numberOfPoints < 1 || numberOfPoints > MaxNumberOfPoints {
		numberOfPoints = DefaultNumberOfPoints
	}
	return AppState{
		Players:        []string{""},
		AvailableYears: years,
		NumberOfPoints: numberOfPoints,
		StateID:        1,
	}
}

// NonBlankPlayers returns the selected player names in row order,
// skipping empty rows and repeats
func (s AppState) NonBlankPlayers() []string {
	seen := make(map[string]bool, len(s.Players))
	names := make([]string, 0, len(s.Players))
	for _, p := range s.Players {
		if strings.TrimSpace(p) == "" || seen[p] {
			continue
		}
		seen[p] = true
		names = append(names, p)
	}
	return names
}

// YearBounds resolves the selected year window, falling back to the given
// dataset bounds where a bound is unset
func (s AppState) YearBounds(defaultStart, defaultEnd int) (int, int) {
	start, end := defaultStart, defaultEnd
	if s.StartYear != nil {
		start = *s.StartYear
	}
	if s.EndYear != nil {
		end = *s.EndYear
	}
	return start, end
}

// Clone returns a deep copy of s
func (s AppState) Clone() AppState {
	c := s
	c.Players = append([]string(nil), s.Players...)
	c.AvailableYears = append([]int(nil), s.AvailableYears...)
	if s.StartYear != nil {
		v := *s.StartYear
		c.StartYear = &v
	}
	if s.EndYear != nil {
		v := *s.EndYear
		c.EndYear = &v
	}
	return c
}

// wireState is the JSON shape sent to the browser
type wireState struct {
	StatType       *StatType  `json:"statType"`
	ChartType      *ChartType `json:"chartType"`
	Players        []string   `json:"players"`
	PrimaryStat    *string    `json:"primaryStat"`
	SecondaryStat  *string    `json:"secondaryStat"`
	Aggregate      *Aggregate `json:"aggregate"`
	StartYear      *int       `json:"startYear"`
	EndYear        *int       `json:"endYear"`
	AvailableYears []int      `json:"availableYears"`
	NumberOfPoints int        `json:"numberOfPoints"`
	LastChange     *wireEvent `json:"lastChange"`
	StateID        int64      `json:"stateID"`
}

type wireEvent struct {
	Type    string `json:"type"`
	Payload Action `json:"payload"`
}

func nullable[T comparable](v T) *T {
	var zero T
	if v == zero {
		return nil
	}
	return &v
}

// MarshalJSON encodes unset selections as null
func (s AppState) MarshalJSON() ([]byte, error) {
	w := wireState{
		StatType:       nullable(s.StatType),
		ChartType:      nullable(s.ChartType),
		Players:        s.Players,
		PrimaryStat:    nullable(s.PrimaryStat),
		SecondaryStat:  nullable(s.SecondaryStat),
		Aggregate:      nullable(s.Aggregate),
		StartYear:      s.StartYear,
		EndYear:        s.EndYear,
		AvailableYears: s.AvailableYears,
		NumberOfPoints: s.NumberOfPoints,
		StateID:        s.StateID,
	}
	if w.Players == nil {
		w.Players = []string{}
	}
	if w.AvailableYears == nil {
		w.AvailableYears = []int{}
	}
	if s.LastChange != nil {
		w.LastChange = &wireEvent{Type: s.LastChange.Type(), Payload: s.LastChange}
	}
	return json.Marshal(w)
}
