// Package planner derives the network queries a dashboard session needs
// from its AppState and owns the chart-data caches those queries fill.
//
// The planner subscribes to a state.Store. Every committed transition is
// compared slice by slice with the previous state; a pipeline whose fetch
// key changed issues new requests. Requests run off the session loop and
// their completions are posted back to it, where each one is checked
// against the key derived from the current state before it is committed.
// A Planner is confined to its session loop and is not safe for concurrent use.
package planner

import (
	"context"
	"log/slog"

	"github.com/XavierBriggs/fortuna/services/gridiron/internal/state"
	"github.com/XavierBriggs/fortuna/services/gridiron/pkg/models"
)

// QueryService is the stats API as consumed by the planner
type QueryService interface {
	PlayerSeries(ctx context.Context, statType, player, stat string) ([]models.SeasonValue, error)
	Scatter(ctx context.Context, statType string, q models.ScatterQuery) ([]models.ScatterPoint, error)
	Players(ctx context.Context, statType string, q models.PlayerQuery) ([]string, error)
	NumericColumns(ctx context.Context, statType string) ([]string, error)
}

// Poster runs fn on the session loop
type Poster interface {
	Post(fn func())
}

// Status of one pipeline's cache
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusFailed  Status = "failed"
)

// Page size of the incremental player search
const SearchPageSize = 20

// Size of the player option list fetched for the selectors
const PlayerOptionLimit = 1000

// Options configures a Planner
type Options struct {
	DatasetStart int
	DatasetEnd   int
	Logger       *slog.Logger
	// OnUpdate is called on the session loop whenever Snapshot may have changed
	OnUpdate func()
}

// SearchResult is the accumulated state of the incremental player search
type SearchResult struct {
	Query   string
	Players []string
	HasMore bool
	Status  Status
}

// Snapshot is the chart-data view a renderer draws from
type Snapshot struct {
	// Players in selection order for the committed series
	Players []string
	// Series is the year-filtered view of the fetched series
	Series map[string][]models.SeasonValue
	// Years is the displayed year axis
	Years         []int
	SeriesStatus  Status
	Scatter       []models.ScatterPoint
	ScatterStatus Status

	Columns       []string
	ColumnsStatus Status
	PlayerOptions []string
	Search        SearchResult
}

// Planner owns the series, scatter, year-filter and option pipelines of one session
type Planner struct {
	store *state.Store
	qs    QueryService
	post  Poster
	opts  Options
	log   *slog.Logger

	ctx         context.Context
	cancel      context.CancelFunc
	unsubscribe func()
	stopped     bool

	series  seriesPipeline
	scatter scatterPipeline
	columns columnsPipeline
	options playerOptionsPipeline
	search  searchPipeline

	filtered map[string][]models.SeasonValue
	years    []int
}

// New creates a planner for store. Call Start to begin observing it.
func New(store *state.Store, qs QueryService, post Poster, opts Options) *Planner {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Planner{
		store:  store,
		qs:     qs,
		post:   post,
		opts:   opts,
		log:    opts.Logger.With("component", "planner"),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start subscribes to the store and plans for its current state
func (p *Planner) Start() {
	p.unsubscribe = p.store.Subscribe(p.onChange)
	p.onChange(state.AppState{}, p.store.State())
}

// Stop unsubscribes and cancels every in-flight request. Completions that
// arrive afterwards are discarded.
func (p *Planner) Stop() {
	if p.stopped {
		return
	}
	p.stopped = true
	if p.unsubscribe != nil {
		p.unsubscribe()
	}
	p.cancel()
}

// Refresh re-issues the current series and scatter requests even when
// their keys are unchanged
func (p *Planner) Refresh() {
	if p.stopped {
		return
	}
	s := p.store.State()
	if key, ok := seriesKeyFor(s); ok {
		p.startSeries(key)
	}
	if key, ok := scatterKeyFor(s, p.opts.DatasetStart, p.opts.DatasetEnd); ok {
		p.startScatter(key)
	}
	p.notify()
}

// Snapshot returns a copy of the current chart-data view
func (p *Planner) Snapshot() Snapshot {
	snap := Snapshot{
		Players:       append([]string(nil), p.series.players...),
		Series:        make(map[string][]models.SeasonValue, len(p.filtered)),
		Years:         append([]int(nil), p.years...),
		SeriesStatus:  p.series.status,
		Scatter:       append([]models.ScatterPoint(nil), p.scatter.points...),
		ScatterStatus: p.scatter.status,
		Columns:       append([]string(nil), p.columns.columns...),
		ColumnsStatus: p.columns.status,
		PlayerOptions: append([]string(nil), p.options.players...),
		Search: SearchResult{
			Query:   p.search.query,
			Players: append([]string(nil), p.search.players...),
			HasMore: p.search.hasMore,
			Status:  p.search.status,
		},
	}
	for player, points := range p.filtered {
		snap.Series[player] = append([]models.SeasonValue(nil), points...)
	}
	for _, st := range []*Status{&snap.SeriesStatus, &snap.ScatterStatus, &snap.ColumnsStatus, &snap.Search.Status} {
		if *st == "" {
			*st = StatusIdle
		}
	}
	return snap
}

// onChange runs on the session loop for every committed transition
func (p *Planner) onChange(prev, next state.AppState) {
	if p.stopped {
		return
	}

	p.planSeries(next)
	p.planScatter(next)
	p.planColumns(prev, next)
	p.planPlayerOptions(next)

	if next.ChartType != state.ChartScatter && yearInputsChanged(prev, next) {
		p.applyYearFilter(next)
	}

	p.notify()
}

func (p *Planner) notify() {
	if p.opts.OnUpdate != nil {
		p.opts.OnUpdate()
	}
}

// complete posts a completion back to the loop, dropping it after Stop
func (p *Planner) complete(fn func()) {
	p.post.Post(func() {
		if p.stopped {
			return
		}
		fn()
		p.notify()
	})
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalYear(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func yearInputsChanged(prev, next state.AppState) bool {
	return !equalYear(prev.StartYear, next.StartYear) ||
		!equalYear(prev.EndYear, next.EndYear) ||
		!equalInts(prev.AvailableYears, next.AvailableYears) ||
		prev.ChartType != next.ChartType
}
