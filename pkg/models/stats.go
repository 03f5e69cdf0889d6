package models

// SeasonValue is one season of a player's time series for a single stat column
type SeasonValue struct {
	Season int     `json:"season" db:"season"`
	Value  float64 `json:"value" db:"value"`
}

// ScatterPoint is one player's aggregated pair of stats over a year window
type ScatterPoint struct {
	Player    string  `json:"player" db:"player"`
	Primary   float64 `json:"primary" db:"primary_value"`
	Secondary float64 `json:"secondary" db:"secondary_value"`
}

// PlayerRow is a ranked player name returned by the players search
type PlayerRow struct {
	Player string `json:"player" db:"player"`
}

// PlayerQuery holds the filters for a ranked player search
type PlayerQuery struct {
	Query     string
	Stat      string
	StartYear *int
	EndYear   *int
	Limit     int
	Offset    int
}

// ScatterQuery holds the parameters for a scatter aggregate request
type ScatterQuery struct {
	PrimaryStat   string
	SecondaryStat string
	StartYear     *int
	EndYear       *int
	Aggregate     string // "total" or "average"
	Limit         int
}

// Aggregate reductions accepted by the scatter endpoint
const (
	AggregateTotal   = "total"
	AggregateAverage = "average"
)

// ErrorResponse represents an error returned as JSON
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
