package state

// Action is a state transition request. The set of actions is closed:
// only types in this package implement it.
type Action interface {
	// Type returns the wire name of the action kind
	Type() string
	isAction()
}

// Wire names of the action kinds
const (
	TypeUpdateChartType      = "update_chart_type"
	TypeUpdateStatType       = "update_stat_type"
	TypeUpdateStartYear      = "update_start_year"
	TypeUpdateEndYear        = "update_end_year"
	TypeUpdateAvailableYears = "update_available_years"
	TypeUpdatePlayers        = "update_players"
	TypeAddPlayer            = "add_player"
	TypeRemovePlayer         = "remove_player"
	TypeUpdatePrimaryStat    = "update_primary_stat"
	TypeUpdateSecondaryStat  = "update_secondary_stat"
	TypeUpdateAggregate      = "update_aggregate"
	TypeUpdateNumberOfPoints = "update_number_of_points"
)

// UpdateChartType selects the chart kind
type UpdateChartType struct {
	ChartType ChartType `json:"chartType"`
}

// UpdateStatType selects the stat category and resets every stat-dependent selection
type UpdateStatType struct {
	StatType StatType `json:"statType"`
}

// UpdateStartYear sets or clears the lower season bound
type UpdateStartYear struct {
	Year Field[int] `json:"year,omitzero"`
}

// UpdateEndYear sets or clears the upper season bound
type UpdateEndYear struct {
	Year Field[int] `json:"year,omitzero"`
}

// UpdateAvailableYears replaces the seasons with data. Issued by the planner,
// never by the user. A nil slice is an absent payload.
type UpdateAvailableYears struct {
	AvailableYears []int `json:"availableYears"`
}

// UpdatePlayers replaces the player rows wholesale. A nil slice is an absent payload.
type UpdatePlayers struct {
	Players []string `json:"players"`
}

// AddPlayer appends an empty player row
type AddPlayer struct{}

// RemovePlayer removes the first row equal to Player
type RemovePlayer struct {
	Player Field[string] `json:"player,omitzero"`
}

// UpdatePrimaryStat sets or clears the primary stat column
type UpdatePrimaryStat struct {
	Stat Field[string] `json:"primaryStat,omitzero"`
}

// UpdateSecondaryStat sets or clears the secondary stat column
type UpdateSecondaryStat struct {
	Stat Field[string] `json:"secondaryStat,omitzero"`
}

// UpdateAggregate sets or clears the scatter reduction
type UpdateAggregate struct {
	Aggregate Field[Aggregate] `json:"aggregate,omitzero"`
}

// UpdateNumberOfPoints sets the scatter point cap, 1 to MaxNumberOfPoints
type UpdateNumberOfPoints struct {
	NumberOfPoints int `json:"numberOfPoints"`
}

// Unknown is an action kind this package does not recognise; reducing it is a no-op
type Unknown struct {
	Kind string `json:"-"`
}

func (UpdateChartType) Type() string      { return TypeUpdateChartType }
func (UpdateStatType) Type() string       { return TypeUpdateStatType }
func (UpdateStartYear) Type() string      { return TypeUpdateStartYear }
func (UpdateEndYear) Type() string        { return TypeUpdateEndYear }
func (UpdateAvailableYears) Type() string { return TypeUpdateAvailableYears }
func (UpdatePlayers) Type() string        { return TypeUpdatePlayers }
func (AddPlayer) Type() string            { return TypeAddPlayer }
func (RemovePlayer) Type() string         { return TypeRemovePlayer }
func (UpdatePrimaryStat) Type() string    { return TypeUpdatePrimaryStat }
func (UpdateSecondaryStat) Type() string  { return TypeUpdateSecondaryStat }
func (UpdateAggregate) Type() string      { return TypeUpdateAggregate }
func (UpdateNumberOfPoints) Type() string { return TypeUpdateNumberOfPoints }
func (u Unknown) Type() string            { return u.Kind }

func (UpdateChartType) isAction()      {}
func (UpdateStatType) isAction()       {}
func (UpdateStartYear) isAction()      {}
func (UpdateEndYear) isAction()        {}
func (UpdateAvailableYears) isAction() {}
func (UpdatePlayers) isAction()        {}
func (AddPlayer) isAction()            {}
func (RemovePlayer) isAction()         {}
func (UpdatePrimaryStat) isAction()    {}
func (UpdateSecondaryStat) isAction()  {}
func (UpdateAggregate) isAction()      {}
func (UpdateNumberOfPoints) isAction() {}
func (Unknown) isAction()              {}
