package analytics

import "math"

// Direction tags which way a trend points.
type Direction string

// Direction constants.
const (
	DirectionUp      Direction = "up"
	DirectionDown    Direction = "down"
	DirectionNeutral Direction = "neutral"
)

// Trend compares a current period value against the previous period.
// Percentage is nil exactly when both periods are zero; a positive current
// over a zero baseline saturates at 100 instead of dividing by zero.
type Trend struct {
	Current    int       `json:"current"`
	Previous   int       `json:"previous"`
	Percentage *int      `json:"percentage"`
	Direction  Direction `json:"direction"`
}

// CalculateTrend derives the signed percentage change between two period
// totals. The calculator is window-agnostic; callers pass precomputed totals.
func CalculateTrend(current, previous int) Trend {
	if previous == 0 {
		t := Trend{Current: current, Previous: previous, Direction: DirectionNeutral}
		if current > 0 {
			pct := 100
			t.Percentage = &pct
			t.Direction = DirectionUp
		}
		return t
	}

	pct := int(math.Round(float64(current-previous) / float64(previous) * 100))
	dir := DirectionNeutral
	switch {
	case pct > 0:
		dir = DirectionUp
	case pct < 0:
		dir = DirectionDown
	}

	return Trend{Current: current, Previous: previous, Percentage: &pct, Direction: dir}
}
