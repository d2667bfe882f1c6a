package domain

// Summary holds the dashboard's headline tile counts.
type Summary struct {
	Active    int `json:"active"`
	Cancelled int `json:"cancelled"`
	Pending   int `json:"pending"`
	Total     int `json:"total"`
}

// CostAnalysis aggregates the parseable cost strings of a collection.
// Records whose cost fails to parse contribute nothing and are not counted.
type CostAnalysis struct {
	Total             float64 `json:"total"`
	Average           float64 `json:"average"`
	RequestsWithCost  int     `json:"requests_with_cost"`
}

// TimeAnalysis aggregates durations over records carrying both dates.
type TimeAnalysis struct {
	AvgDurationDays   float64 `json:"avg_duration_days"`
	RequestsWithDates int     `json:"requests_with_dates"`
}

// CostRange is one bucket of the cost distribution chart.
type CostRange struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// TrendPoint is one calendar day of the trailing creation trend.
type TrendPoint struct {
	Date  string `json:"date"` // "2006-01-02"
	Count int    `json:"count"`
}

// Stats is the full view-ready statistics document produced by the
// aggregator over an arbitrary (typically filtered) collection.
type Stats struct {
	Summary       Summary            `json:"summary"`
	CostAnalysis  CostAnalysis       `json:"cost_analysis"`
	TimeAnalysis  TimeAnalysis       `json:"time_analysis"`
	ApprovalRate  int                `json:"approval_rate"` // whole percent
	TopTeam       string             `json:"top_team"`      // "None" when no team data
	ByStatus      map[string]int     `json:"by_status"`
	ByEnvironment map[string]int     `json:"by_environment"`
	ByTeam        map[string]int     `json:"by_team"`
	CostByTeam    map[string]float64 `json:"cost_by_team"`
	CostRanges    []CostRange        `json:"cost_ranges"`
	Trend         []TrendPoint       `json:"trend"`
}

// CalendarDay is one day of a month view together with the requests whose
// exclusion window covers it.
type CalendarDay struct {
	Date     string             `json:"date"` // "2006-01-02"
	Requests []ExclusionRequest `json:"requests"`
}
