// Package axis projects planar points onto the segments of a reference axis.
//
// Each segment defines a local frame: the along-axis coordinate is the
// distance from the segment start in the segment direction, offset by the
// reference arc length at the segment start; the cross-axis coordinate is the
// signed perpendicular distance from the segment line. Every projection also
// carries a weight which depends only on where along the segment the point
// falls, peaking around the segment midpoint.
package axis

import (
	"errors"
	"fmt"
	"github.com/golang/geo/r2"
	"github.com/rotblauer/sinuosity/types/channel"
	"math"
)

// ErrDegenerateSegment is matched by DegenerateSegmentError.
var ErrDegenerateSegment = errors.New("degenerate reference segment")

// DegenerateSegmentError is returned for a zero-length reference segment.
type DegenerateSegmentError struct {
	// Index is the segment index, which is the index of its end vertex.
	Index int
}

func (e *DegenerateSegmentError) Error() string {
	return fmt.Sprintf("%v: segment %d has zero length", ErrDegenerateSegment, e.Index)
}

func (e *DegenerateSegmentError) Is(target error) bool {
	return target == ErrDegenerateSegment
}

const (
	// weightOffset is added to the clamped midpoint distance in the weight denominator.
	weightOffset = 0.6
	// weightFloor clamps the midpoint distance, flattening the weight over the central part of the segment.
	weightFloor = 0.4
)

// MaxWeight is the weight of any point projecting within 0.4 segment lengths of the midpoint.
// It is 1.
var MaxWeight = Weight(0.5)

// Weight returns the blending weight for a point whose projection falls at
// fractional position u along a segment (0 at the start, 1 at the end).
//
//	w = 1 / (0.6 + max(|u - 0.5|, 0.4))^2
//
// The clamp caps the weight at 1 over the central 80% of the segment,
// and it decays smoothly, never reaching zero, outside of that.
func Weight(u float64) float64 {
	d := math.Max(math.Abs(u-0.5), weightFloor)
	return 1 / ((weightOffset + d) * (weightOffset + d))
}

// Segment is one piece of the reference axis between consecutive vertices.
type Segment struct {
	Index int

	// R0 and R1 are the reference arc lengths at A0 and A1.
	R0, R1 float64

	A0, A1 r2.Point
}

// Segments returns the segments of a reference axis, in order.
// A reference with fewer than two points has no segments.
func Segments(ref *channel.Planar) []Segment {
	if ref.Len() < 2 {
		return nil
	}
	out := make([]Segment, 0, ref.Len()-1)
	for i := 1; i < ref.Len(); i++ {
		out = append(out, Segment{
			Index: i,
			R0:    ref.Arc[i-1],
			R1:    ref.Arc[i],
			A0:    r2.Point{X: ref.X[i-1], Y: ref.Y[i-1]},
			A1:    r2.Point{X: ref.X[i], Y: ref.Y[i]},
		})
	}
	return out
}

// Vector is the segment direction, A1 - A0.
func (s Segment) Vector() r2.Point {
	return s.A1.Sub(s.A0)
}

// Len is the planar length of the segment.
func (s Segment) Len() float64 {
	return s.Vector().Norm()
}

// Validate returns a DegenerateSegmentError if the segment has zero (or non-finite) length.
func (s Segment) Validate() error {
	alen := s.Len()
	if alen == 0 || math.IsNaN(alen) || math.IsInf(alen, 0) {
		return &DegenerateSegmentError{Index: s.Index}
	}
	return nil
}

// Projection is a point expressed in a segment's frame.
type Projection struct {
	// TX is the along-axis coordinate in reference arc length.
	TX float64
	// TY is the signed perpendicular distance from the segment line.
	// It is positive for points to the right of the segment direction.
	TY float64
	// U is the fractional position of the projection along the segment.
	U float64
	// Weight is Weight(U).
	Weight float64
}

// Project expresses p in the segment's frame.
func (s Segment) Project(p r2.Point) (Projection, error) {
	if err := s.Validate(); err != nil {
		return Projection{}, err
	}
	return s.project(s.Vector(), s.Len(), p), nil
}

func (s Segment) project(av r2.Point, alen float64, p r2.Point) Projection {
	os := p.Sub(s.A0)
	along := os.Dot(av) / alen
	perp := os.Cross(av) / alen
	u := along / alen
	return Projection{
		TX:     along + s.R0,
		TY:     perp,
		U:      u,
		Weight: Weight(u),
	}
}

// ProjectAll projects every (xs[i], ys[i]) onto the segment,
// returning parallel slices of along-axis coordinates, cross-axis coordinates and weights.
func (s Segment) ProjectAll(xs, ys []float64) (tx, ty, w []float64, err error) {
	if len(xs) != len(ys) {
		return nil, nil, nil, fmt.Errorf("project: mismatched coordinates: %d x, %d y", len(xs), len(ys))
	}
	if err := s.Validate(); err != nil {
		return nil, nil, nil, err
	}
	av, alen := s.Vector(), s.Len()
	tx = make([]float64, len(xs))
	ty = make([]float64, len(xs))
	w = make([]float64, len(xs))
	for i := range xs {
		pr := s.project(av, alen, r2.Point{X: xs[i], Y: ys[i]})
		tx[i], ty[i], w[i] = pr.TX, pr.TY, pr.Weight
	}
	return tx, ty, w, nil
}
