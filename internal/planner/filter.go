package planner

import (
	"github.com/XavierBriggs/fortuna/services/gridiron/internal/state"
	"github.com/XavierBriggs/fortuna/services/gridiron/pkg/models"
)

// FilterSeries selects the seasons of original inside [start, end] and
// returns the displayed year axis, which is availableYears inside the same
// window. original is never modified.
func FilterSeries(original map[string][]models.SeasonValue, availableYears []int, start, end int) (map[string][]models.SeasonValue, []int) {
	filtered := make(map[string][]models.SeasonValue, len(original))
	for player, points := range original {
		kept := make([]models.SeasonValue, 0, len(points))
		for _, pt := range points {
			if pt.Season >= start && pt.Season <= end {
				kept = append(kept, pt)
			}
		}
		filtered[player] = kept
	}

	years := make([]int, 0, len(availableYears))
	for _, y := range availableYears {
		if y >= start && y <= end {
			years = append(years, y)
		}
	}
	return filtered, years
}

// applyYearFilter rebuilds the filtered view from the original cache
func (p *Planner) applyYearFilter(s state.AppState) {
	if p.series.original == nil {
		p.filtered, p.years = nil, nil
		return
	}
	start, end := s.YearBounds(p.opts.DatasetStart, p.opts.DatasetEnd)
	p.filtered, p.years = FilterSeries(p.series.original, s.AvailableYears, start, end)
}
