package models

import "time"

// Reading is a single timestamped observation for one statistic. Optional
// fields are pointers; a nil field means the reading does not carry that
// value. Readings are immutable once created.
type Reading struct {
	Start time.Time
	Mean  *float64
	Min   *float64
	Max   *float64
	Sum   *float64
	State *float64
}

// HourlySummary is the aggregation unit accepted by the platform's
// long-term statistics store. Start/End span exactly one clock hour.
type HourlySummary struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Mean  *float64  `json:"mean,omitempty"`
	Min   *float64  `json:"min,omitempty"`
	Max   *float64  `json:"max,omitempty"`
	Sum   *float64  `json:"sum,omitempty"`
	State *float64  `json:"state,omitempty"`
}

// StatisticMetadata describes one external statistic. It is registered with
// the platform before any summaries referencing its id are submitted.
type StatisticMetadata struct {
	StatisticID       string `json:"statistic_id"`
	Name              string `json:"name"`
	UnitOfMeasurement string `json:"unit_of_measurement"`
	HasMean           bool   `json:"has_mean"`
	HasSum            bool   `json:"has_sum"`
}

// StatisticPoint is one bucket of a history query response.
type StatisticPoint struct {
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Mean   *float64  `json:"mean,omitempty"`
	Min    *float64  `json:"min,omitempty"`
	Max    *float64  `json:"max,omitempty"`
	Sum    *float64  `json:"sum,omitempty"`
	State  *float64  `json:"state,omitempty"`
	Change *float64  `json:"change,omitempty"`
}

// StatisticSeries is the per-identifier payload of a history query.
type StatisticSeries struct {
	Metadata   StatisticMetadata `json:"metadata"`
	Statistics []StatisticPoint  `json:"statistics"`
}

// Float returns a pointer to v, for building readings inline.
func Float(v float64) *float64 {
	return &v
}
