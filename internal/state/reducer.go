package state

// Reduce applies a to s and reports whether the transition was accepted.
// An accepted transition records a as LastChange and advances StateID by
// exactly one. A rejected or unknown action returns s unchanged.
// s is never mutated.
func Reduce(s AppState, a Action) (AppState, bool) {
	next := s.Clone()

	switch act := a.(type) {
	case UpdateChartType:
		if !act.ChartType.Valid() {
			return s, false
		}
		next.ChartType = act.ChartType

	case UpdateStatType:
		if !act.StatType.Valid() {
			return s, false
		}
		next.StatType = act.StatType
		next.Players = []string{""}
		next.PrimaryStat = ""
		next.SecondaryStat = ""

	case UpdateStartYear:
		if !act.Year.Present() {
			return s, false
		}
		next.StartYear = yearOrNil(act.Year)

	case UpdateEndYear:
		if !act.Year.Present() {
			return s, false
		}
		next.EndYear = yearOrNil(act.Year)

	case UpdateAvailableYears:
		if act.AvailableYears == nil {
			return s, false
		}
		next.AvailableYears = append([]int{}, act.AvailableYears...)

	case UpdatePlayers:
		if act.Players == nil {
			return s, false
		}
		next.Players = append([]string{}, act.Players...)
		if len(next.Players) == 0 {
			next.Players = []string{""}
		}

	case AddPlayer:
		next.Players = append(next.Players, "")

	case RemovePlayer:
		player, ok := act.Player.Get()
		if !ok {
			return s, false
		}
		idx := indexOf(next.Players, player)
		if idx < 0 {
			return s, false
		}
		next.Players = append(next.Players[:idx], next.Players[idx+1:]...)
		if len(next.Players) == 0 {
			next.Players = []string{""}
		}

	case UpdatePrimaryStat:
		if !act.Stat.Present() {
			return s, false
		}
		next.PrimaryStat, _ = act.Stat.Get()

	case UpdateSecondaryStat:
		if !act.Stat.Present() {
			return s, false
		}
		next.SecondaryStat, _ = act.Stat.Get()

	case UpdateAggregate:
		if !act.Aggregate.Present() {
			return s, false
		}
		agg, ok := act.Aggregate.Get()
		if ok && !agg.Valid() {
			return s, false
		}
		next.Aggregate = agg

	case UpdateNumberOfPoints:
		if act.NumberOfPoints < 1 || act.NumberOfPoints > MaxNumberOfPoints {
			return s, false
		}
		next.NumberOfPoints = act.NumberOfPoints

	default:
		return s, false
	}

	next.LastChange = a
	next.StateID = s.StateID + 1
	return next, true
}

func yearOrNil(f Field[int]) *int {
	year, ok := f.Get()
	if !ok {
		return nil
	}
	return &year
}

func indexOf(items []string, v string) int {
	for i, item := range items {
		if item == v {
			return i
		}
	}
	return -1
}
