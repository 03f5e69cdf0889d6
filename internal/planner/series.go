package planner

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/XavierBriggs/fortuna/services/gridiron/internal/metrics"
	"github.com/XavierBriggs/fortuna/services/gridiron/internal/state"
	"github.com/XavierBriggs/fortuna/services/gridiron/pkg/models"
)

// seriesKey identifies one batch of time-series requests
type seriesKey struct {
	statType state.StatType
	stat     string
	players  string // non-blank players joined by \x00, in row order
}

func (k seriesKey) playerList() []string {
	return strings.Split(k.players, "\x00")
}

func (k seriesKey) String() string {
	return fmt.Sprintf("%s/%s[%s]", k.statType, k.stat, strings.ReplaceAll(k.players, "\x00", ","))
}

type seriesPipeline struct {
	key     seriesKey
	active  bool
	gen     uint64
	cancel  context.CancelFunc
	status  Status
	players []string
	// original holds the unfiltered fetched series per player
	original map[string][]models.SeasonValue
}

func (sp *seriesPipeline) reset() {
	if sp.cancel != nil {
		sp.cancel()
		sp.cancel = nil
	}
	sp.key = seriesKey{}
	sp.active = false
	sp.gen++
	sp.status = StatusIdle
	sp.players = nil
	sp.original = nil
}

// seriesKeyFor derives the series fetch key, reporting false when the
// series pipeline has nothing to fetch for s
func seriesKeyFor(s state.AppState) (seriesKey, bool) {
	if s.ChartType != state.ChartBar && s.ChartType != state.ChartLine {
		return seriesKey{}, false
	}
	players := s.NonBlankPlayers()
	if s.StatType == "" || s.PrimaryStat == "" || len(players) == 0 {
		return seriesKey{}, false
	}
	return seriesKey{
		statType: s.StatType,
		stat:     s.PrimaryStat,
		players:  strings.Join(players, "\x00"),
	}, true
}

func (p *Planner) planSeries(s state.AppState) {
	key, ok := seriesKeyFor(s)
	if !ok {
		if p.series.active || p.series.original != nil {
			p.series.reset()
			p.filtered, p.years = nil, nil
		}
		return
	}
	if p.series.active && key == p.series.key {
		return
	}
	p.startSeries(key)
}

// startSeries fans out one request per player and joins them before
// posting a single completion
func (p *Planner) startSeries(key seriesKey) {
	if p.series.cancel != nil {
		p.series.cancel()
	}
	ctx, cancel := context.WithCancel(p.ctx)
	p.series.gen++
	gen := p.series.gen
	p.series.key = key
	p.series.active = true
	p.series.cancel = cancel
	p.series.status = StatusLoading
	p.series.original = nil
	p.filtered, p.years = nil, nil

	players := key.playerList()
	go func() {
		results := make([][]models.SeasonValue, len(players))
		g, gctx := errgroup.WithContext(ctx)
		for i, player := range players {
			i, player := i, player
			g.Go(func() error {
				points, err := p.qs.PlayerSeries(gctx, string(key.statType), player, key.stat)
				if err != nil {
					return fmt.Errorf("series for %q: %w", player, err)
				}
				results[i] = points
				return nil
			})
		}
		err := g.Wait()
		p.complete(func() { p.commitSeries(gen, key, players, results, err) })
	}()
}

func (p *Planner) commitSeries(gen uint64, key seriesKey, players []string, results [][]models.SeasonValue, err error) {
	current, ok := seriesKeyFor(p.store.State())
	if !ok || current != key || !p.series.active || gen != p.series.gen {
		metrics.PlannerFetches.WithLabelValues("series", "stale").Inc()
		p.log.Debug("dropped stale series response", "key", key.String())
		return
	}
	p.series.cancel = nil

	if err != nil {
		metrics.PlannerFetches.WithLabelValues("series", "failed").Inc()
		p.log.Warn("series fetch failed", "pipeline", "series", "key", key.String(), "error", err)
		p.series.status = StatusFailed
		p.series.original = nil
		p.series.players = nil
		p.filtered, p.years = nil, nil
		return
	}

	original := make(map[string][]models.SeasonValue, len(players))
	for i, player := range players {
		points := append([]models.SeasonValue(nil), results[i]...)
		slices.SortFunc(points, func(a, b models.SeasonValue) int { return a.Season - b.Season })
		original[player] = points
	}
	p.series.original = original
	p.series.players = players
	p.series.status = StatusReady
	metrics.PlannerFetches.WithLabelValues("series", "committed").Inc()

	years := UnionYears(original)
	p.store.Dispatch(state.UpdateAvailableYears{AvailableYears: years})
	// the dispatch above re-runs the filter only when availableYears changed
	p.applyYearFilter(p.store.State())
}

// UnionYears returns the sorted, de-duplicated seasons observed across series
func UnionYears(series map[string][]models.SeasonValue) []int {
	years := []int{}
	for _, points := range series {
		for _, pt := range points {
			years = append(years, pt.Season)
		}
	}
	slices.Sort(years)
	return slices.Compact(years)
}
