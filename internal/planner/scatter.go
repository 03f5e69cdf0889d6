package planner

import (
	"context"
	"fmt"

	"github.com/XavierBriggs/fortuna/services/gridiron/internal/metrics"
	"github.com/XavierBriggs/fortuna/services/gridiron/internal/state"
	"github.com/XavierBriggs/fortuna/services/gridiron/pkg/models"
)

// scatterKey is the full parameter tuple of one aggregate request
type scatterKey struct {
	statType  state.StatType
	primary   string
	secondary string
	start     int
	end       int
	aggregate state.Aggregate
	limit     int
}

func (k scatterKey) String() string {
	return fmt.Sprintf("%s/%s~%s/%d-%d/%s/%d", k.statType, k.primary, k.secondary, k.start, k.end, k.aggregate, k.limit)
}

func (k scatterKey) query() models.ScatterQuery {
	start, end := k.start, k.end
	return models.ScatterQuery{
		PrimaryStat:   k.primary,
		SecondaryStat: k.secondary,
		StartYear:     &start,
		EndYear:       &end,
		Aggregate:     string(k.aggregate),
		Limit:         k.limit,
	}
}

type scatterPipeline struct {
	key    scatterKey
	active bool
	gen    uint64
	cancel context.CancelFunc
	status Status
	points []models.ScatterPoint
}

func (sp *scatterPipeline) reset() {
	if sp.cancel != nil {
		sp.cancel()
		sp.cancel = nil
	}
	sp.key = scatterKey{}
	sp.active = false
	sp.gen++
	sp.status = StatusIdle
	sp.points = nil
}

// scatterKeyFor applies the year and aggregate defaults, reporting false
// when the scatter pipeline has nothing to fetch for s
func scatterKeyFor(s state.AppState, defaultStart, defaultEnd int) (scatterKey, bool) {
	if s.ChartType != state.ChartScatter || s.StatType == "" || s.PrimaryStat == "" || s.SecondaryStat == "" {
		return scatterKey{}, false
	}
	start, end := s.YearBounds(defaultStart, defaultEnd)
	agg := s.Aggregate
	if agg == "" {
		agg = state.AggregateAverage
	}
	limit := s.NumberOfPoints
	if limit < 1 {
		limit = state.DefaultNumberOfPoints
	}
	return scatterKey{
		statType:  s.StatType,
		primary:   s.PrimaryStat,
		secondary: s.SecondaryStat,
		start:     start,
		end:       end,
		aggregate: agg,
		limit:     limit,
	}, true
}

func (p *Planner) planScatter(s state.AppState) {
	key, ok := scatterKeyFor(s, p.opts.DatasetStart, p.opts.DatasetEnd)
	if !ok {
		if p.scatter.active || p.scatter.points != nil {
			p.scatter.reset()
		}
		return
	}
	if p.scatter.active && key == p.scatter.key {
		return
	}
	p.startScatter(key)
}

func (p *Planner) startScatter(key scatterKey) {
	if p.scatter.cancel != nil {
		p.scatter.cancel()
	}
	ctx, cancel := context.WithCancel(p.ctx)
	p.scatter.gen++
	gen := p.scatter.gen
	p.scatter.key = key
	p.scatter.active = true
	p.scatter.cancel = cancel
	p.scatter.status = StatusLoading
	p.scatter.points = nil

	go func() {
		points, err := p.qs.Scatter(ctx, string(key.statType), key.query())
		p.complete(func() { p.commitScatter(gen, key, points, err) })
	}()
}

func (p *Planner) commitScatter(gen uint64, key scatterKey, points []models.ScatterPoint, err error) {
	current, ok := scatterKeyFor(p.store.State(), p.opts.DatasetStart, p.opts.DatasetEnd)
	if !ok || current != key || !p.scatter.active || gen != p.scatter.gen {
		metrics.PlannerFetches.WithLabelValues("scatter", "stale").Inc()
		p.log.Debug("dropped stale scatter response", "key", key.String())
		return
	}
	p.scatter.cancel = nil

	if err != nil {
		metrics.PlannerFetches.WithLabelValues("scatter", "failed").Inc()
		p.log.Warn("scatter fetch failed", "pipeline", "scatter", "key", key.String(), "error", err)
		p.scatter.status = StatusFailed
		p.scatter.points = nil
		return
	}

	metrics.PlannerFetches.WithLabelValues("scatter", "committed").Inc()
	p.scatter.points = points
	p.scatter.status = StatusReady
}
