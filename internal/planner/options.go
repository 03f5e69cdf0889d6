package planner

import (
	"context"
	"fmt"

	"github.com/XavierBriggs/fortuna/services/gridiron/internal/metrics"
	"github.com/XavierBriggs/fortuna/services/gridiron/internal/state"
	"github.com/XavierBriggs/fortuna/services/gridiron/pkg/models"
)

type columnsPipeline struct {
	statType state.StatType
	gen      uint64
	cancel   context.CancelFunc
	status   Status
	columns  []string
}

// playerOptionsKey is the filter tuple shared by the option list and the search
type playerOptionsKey struct {
	statType state.StatType
	stat     string
	start    *int
	end      *int
}

func (k playerOptionsKey) equal(o playerOptionsKey) bool {
	return k.statType == o.statType && k.stat == o.stat && equalYear(k.start, o.start) && equalYear(k.end, o.end)
}

func (k playerOptionsKey) query(q string, limit, offset int) models.PlayerQuery {
	return models.PlayerQuery{
		Query:     q,
		Stat:      k.stat,
		StartYear: k.start,
		EndYear:   k.end,
		Limit:     limit,
		Offset:    offset,
	}
}

func (k playerOptionsKey) String() string {
	return fmt.Sprintf("%s/%s", k.statType, k.stat)
}

func playerOptionsKeyFor(s state.AppState) (playerOptionsKey, bool) {
	if s.StatType == "" {
		return playerOptionsKey{}, false
	}
	c := s.Clone()
	return playerOptionsKey{statType: c.StatType, stat: c.PrimaryStat, start: c.StartYear, end: c.EndYear}, true
}

type playerOptionsPipeline struct {
	key     playerOptionsKey
	active  bool
	gen     uint64
	cancel  context.CancelFunc
	status  Status
	players []string
}

type searchPipeline struct {
	key     playerOptionsKey
	query   string
	gen     uint64
	cancel  context.CancelFunc
	status  Status
	players []string
	seen    map[string]bool
	hasMore bool
}

func (sp *searchPipeline) clear() {
	if sp.cancel != nil {
		sp.cancel()
		sp.cancel = nil
	}
	sp.gen++
	sp.query = ""
	sp.status = StatusIdle
	sp.players = nil
	sp.seen = nil
	sp.hasMore = false
}

func (p *Planner) planColumns(prev, next state.AppState) {
	if next.StatType == p.columns.statType && prev.StatType == next.StatType {
		return
	}
	if p.columns.cancel != nil {
		p.columns.cancel()
		p.columns.cancel = nil
	}
	p.columns.gen++
	p.columns.statType = next.StatType
	p.columns.columns = nil
	if next.StatType == "" {
		p.columns.status = StatusIdle
		return
	}
	p.columns.status = StatusLoading

	ctx, cancel := context.WithCancel(p.ctx)
	p.columns.cancel = cancel
	gen, statType := p.columns.gen, next.StatType
	go func() {
		columns, err := p.qs.NumericColumns(ctx, string(statType))
		p.complete(func() {
			if gen != p.columns.gen || p.store.State().StatType != statType {
				metrics.PlannerFetches.WithLabelValues("columns", "stale").Inc()
				return
			}
			p.columns.cancel = nil
			if err != nil {
				metrics.PlannerFetches.WithLabelValues("columns", "failed").Inc()
				p.log.Warn("numeric columns fetch failed", "pipeline", "columns", "key", statType, "error", err)
				p.columns.status = StatusFailed
				return
			}
			metrics.PlannerFetches.WithLabelValues("columns", "committed").Inc()
			p.columns.columns = columns
			p.columns.status = StatusReady
		})
	}()
}

func (p *Planner) planPlayerOptions(s state.AppState) {
	key, ok := playerOptionsKeyFor(s)
	if !ok {
		if p.options.active {
			if p.options.cancel != nil {
				p.options.cancel()
			}
			p.options = playerOptionsPipeline{gen: p.options.gen + 1, status: StatusIdle}
			p.search.clear()
		}
		return
	}
	if p.options.active && key.equal(p.options.key) {
		return
	}
	if p.options.cancel != nil {
		p.options.cancel()
	}
	// the accumulated search belongs to the old filters
	if !key.equal(p.search.key) {
		p.search.clear()
		p.search.key = key
	}

	ctx, cancel := context.WithCancel(p.ctx)
	p.options.gen++
	p.options.key = key
	p.options.active = true
	p.options.cancel = cancel
	p.options.status = StatusLoading
	gen := p.options.gen

	go func() {
		players, err := p.qs.Players(ctx, string(key.statType), key.query("", PlayerOptionLimit, 0))
		p.complete(func() {
			current, ok := playerOptionsKeyFor(p.store.State())
			if !ok || !current.equal(key) || gen != p.options.gen {
				metrics.PlannerFetches.WithLabelValues("players", "stale").Inc()
				return
			}
			p.options.cancel = nil
			if err != nil {
				metrics.PlannerFetches.WithLabelValues("players", "failed").Inc()
				p.log.Warn("player options fetch failed", "pipeline", "players", "key", key.String(), "error", err)
				p.options.status = StatusFailed
				return
			}
			metrics.PlannerFetches.WithLabelValues("players", "committed").Inc()
			p.options.players = players
			p.options.status = StatusReady
		})
	}()
}

// SearchPlayers fetches one page of players matching query under the
// current stat type, stat and year window. A new query resets the
// accumulated results; later pages append names not seen before.
func (p *Planner) SearchPlayers(query string, offset int) {
	if p.stopped {
		return
	}
	key, ok := playerOptionsKeyFor(p.store.State())
	if !ok {
		return
	}
	if offset < 0 {
		offset = 0
	}
	if query != p.search.query || !key.equal(p.search.key) || offset == 0 {
		p.search.clear()
		p.search.key = key
		p.search.query = query
	}
	if p.search.cancel != nil {
		p.search.cancel()
	}

	ctx, cancel := context.WithCancel(p.ctx)
	p.search.gen++
	p.search.cancel = cancel
	p.search.status = StatusLoading
	gen := p.search.gen

	go func() {
		page, err := p.qs.Players(ctx, string(key.statType), key.query(query, SearchPageSize, offset))
		p.complete(func() {
			current, ok := playerOptionsKeyFor(p.store.State())
			if !ok || !current.equal(key) || gen != p.search.gen || p.search.query != query {
				metrics.PlannerFetches.WithLabelValues("search", "stale").Inc()
				return
			}
			p.search.cancel = nil
			if err != nil {
				metrics.PlannerFetches.WithLabelValues("search", "failed").Inc()
				p.log.Warn("player search failed", "pipeline", "search", "query", query, "offset", offset, "error", err)
				p.search.status = StatusFailed
				return
			}
			metrics.PlannerFetches.WithLabelValues("search", "committed").Inc()
			if p.search.seen == nil {
				p.search.seen = make(map[string]bool)
			}
			for _, name := range page {
				if !p.search.seen[name] {
					p.search.seen[name] = true
					p.search.players = append(p.search.players, name)
				}
			}
			p.search.hasMore = len(page) == SearchPageSize
			p.search.status = StatusReady
		})
	}()
	p.notify()
}
