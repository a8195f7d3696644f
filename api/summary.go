package api

import (
	"github.com/montanaflynn/stats"
	"github.com/paulmach/orb/geo"
	"github.com/rotblauer/sinuosity/common"
	"github.com/rotblauer/sinuosity/conceptual"
	"github.com/rotblauer/sinuosity/types/channel"
	"math"
)

// Summary describes the windowed sinuosity series of one channel.
// Statistics are over the defined (finite) sinuosity values only,
// and are NaN when there are none.
type Summary struct {
	ID     conceptual.ChannelID
	Points int

	// GeodesicLength is the haversine length of the trace, in meters.
	GeodesicLength float64
	// PlanarLength is the arc length in the local projection, in meters.
	PlanarLength float64
	// AxisLength is the straightened along-axis extent, in meters.
	AxisLength float64

	Undefined int

	Mean   float64
	Median float64
	Min    float64
	Max    float64
	P90    float64
}

func Summarize(t *channel.Table) Summary {
	s := Summary{
		ID:             t.ID,
		Points:         t.Len(),
		GeodesicLength: geo.Length(t.Points),
		PlanarLength:   t.Planar.Length(),
		Mean:           math.NaN(),
		Median:         math.NaN(),
		Min:            math.NaN(),
		Max:            math.NaN(),
		P90:            math.NaN(),
	}
	if n := t.Straightened.Len(); n > 0 {
		s.AxisLength = t.Straightened.X[n-1] - t.Straightened.X[0]
	}
	if t.Windowed == nil {
		return s
	}
	s.Undefined = len(t.Windowed.Undefined)

	data := stats.Float64Data(common.Finite(t.Windowed.Sinuosity))
	if data.Len() == 0 {
		return s
	}
	s.Mean, _ = data.Mean()
	s.Median, _ = data.Median()
	s.Min, _ = data.Min()
	s.Max, _ = data.Max()
	s.P90, _ = data.Percentile(90)
	return s
}

// LogAttrs returns the summary as slog key/value pairs, rounded for display.
func (s Summary) LogAttrs() []any {
	return []any{
		"channel", s.ID,
		"points", s.Points,
		"length", common.DecimalToFixed(s.GeodesicLength, 1),
		"axis", common.DecimalToFixed(s.AxisLength, 1),
		"undefined", s.Undefined,
		"mean", common.DecimalToFixed(s.Mean, 4),
		"median", common.DecimalToFixed(s.Median, 4),
		"min", common.DecimalToFixed(s.Min, 4),
		"max", common.DecimalToFixed(s.Max, 4),
		"p90", common.DecimalToFixed(s.P90, 4),
	}
}
