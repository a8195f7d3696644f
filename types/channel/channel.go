package channel

import (
	"errors"
	"fmt"
	"github.com/paulmach/orb"
	"github.com/rotblauer/sinuosity/conceptual"
)

// ErrInsufficientData is returned when a trace has too few points for an operation.
var ErrInsufficientData = errors.New("insufficient data")

// Trace is a channel centerline as read from a geometry source.
// Points are (longitude, latitude) pairs in degrees, ordered streamwise.
// The ordering is meaningful and is preserved by every derived table.
type Trace struct {
	ID     conceptual.ChannelID
	Points orb.LineString
}

// NewTrace creates a trace from an id and (lon, lat) pairs.
func NewTrace(id conceptual.ChannelID, points ...orb.Point) Trace {
	ls := make(orb.LineString, len(points))
	copy(ls, points)
	return Trace{ID: id, Points: ls}
}

func (t Trace) Len() int {
	return len(t.Points)
}

func (t Trace) IsEmpty() bool {
	return len(t.Points) == 0
}

func (t Trace) String() string {
	return fmt.Sprintf("trace %q (%d points)", t.ID, len(t.Points))
}

// Validate checks that the trace has enough points to be projected
// and that all coordinates are plausible degrees.
func (t Trace) Validate() error {
	if t.IsEmpty() {
		return fmt.Errorf("%w: trace %q has no points", ErrInsufficientData, t.ID)
	}
	for i, p := range t.Points {
		if p.Lon() < -180 || p.Lon() > 180 || p.Lat() < -90 || p.Lat() > 90 {
			return fmt.Errorf("trace %q: point %d out of range: %v", t.ID, i, p)
		}
	}
	return nil
}

// DropRepeatedVertices returns a copy of ls without consecutive duplicate points.
// Repeated reference vertices would otherwise produce zero-length axis segments.
func DropRepeatedVertices(ls orb.LineString) orb.LineString {
	out := make(orb.LineString, 0, len(ls))
	for i, p := range ls {
		if i > 0 && p.Equal(out[len(out)-1]) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Planar is a trace projected into a local metric frame, annotated with arc length.
// All columns have one entry per trace point, in trace order.
type Planar struct {
	// Origin is the (lon, lat) mapped to (0, 0).
	Origin orb.Point

	X, Y []float64

	// SegLen is the distance to the previous point; zero for the first point.
	SegLen []float64

	// Arc is the cumulative sum of SegLen.
	Arc []float64
}

func (p *Planar) Len() int {
	if p == nil {
		return 0
	}
	return len(p.X)
}

// LineString returns the planar points as an orb.LineString in meters.
func (p *Planar) LineString() orb.LineString {
	ls := make(orb.LineString, len(p.X))
	for i := range p.X {
		ls[i] = orb.Point{p.X[i], p.Y[i]}
	}
	return ls
}

// Length is the total arc length, in meters.
func (p *Planar) Length() float64 {
	if p.Len() == 0 {
		return 0
	}
	return p.Arc[len(p.Arc)-1]
}

// Straightened is an observed trace re-expressed relative to a reference axis.
// X runs along the reference arc length, Y is the signed perpendicular offset.
type Straightened struct {
	X, Y   []float64
	SegLen []float64
}

func (s *Straightened) Len() int {
	if s == nil {
		return 0
	}
	return len(s.X)
}

// Windowed is the tapered windowed sinuosity series of a straightened trace.
type Windowed struct {
	// Position is the window-weighted straightened x position.
	Position []float64

	// Sinuosity is the window-weighted streamwise length over direct length.
	// It is NaN where the direct length of the window is zero.
	Sinuosity []float64

	// Undefined lists the indices with NaN sinuosity.
	Undefined []int
}

func (w *Windowed) Len() int {
	if w == nil {
		return 0
	}
	return len(w.Sinuosity)
}
