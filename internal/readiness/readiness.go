// Package readiness decides whether a chart can be drawn for an AppState
// and, when it cannot, which single selection the user should make next.
package readiness

import "github.com/XavierBriggs/fortuna/services/gridiron/internal/state"

// Messages returned by NextStep
const (
	MsgSelectChartType     = "Please select a chart type to get started"
	MsgSelectStatType      = "Please select a stat type"
	MsgSelectPrimaryStat   = "Please select a primary stat"
	MsgSelectSecondaryStat = "Please select a secondary stat"
	MsgSelectAggregate     = "Please select an aggregate type"
	MsgSelectStatAndPlayer = "Please select a stat and a player"
	MsgSelectStat          = "Please select a stat"
	MsgSelectPlayer        = "Please select a player"
	MsgReady               = "Chart is ready!"
)

// NextStep returns the first unmet requirement for the active chart type,
// or MsgReady with ready set once every requirement is met.
func NextStep(s state.AppState) (message string, ready bool) {
	if s.ChartType == "" {
		return MsgSelectChartType, false
	}
	if s.StatType == "" {
		return MsgSelectStatType, false
	}

	if s.ChartType == state.ChartScatter {
		switch {
		case s.PrimaryStat == "":
			return MsgSelectPrimaryStat, false
		case s.SecondaryStat == "":
			return MsgSelectSecondaryStat, false
		case s.Aggregate == "":
			return MsgSelectAggregate, false
		}
		return MsgReady, true
	}

	hasStat := s.PrimaryStat != ""
	hasPlayers := len(s.NonBlankPlayers()) > 0
	switch {
	case !hasStat && !hasPlayers:
		return MsgSelectStatAndPlayer, false
	case !hasStat:
		return MsgSelectStat, false
	case !hasPlayers:
		return MsgSelectPlayer, false
	}
	return MsgReady, true
}
