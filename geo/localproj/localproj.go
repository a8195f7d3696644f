// Package localproj projects geographic coordinates into a local planar frame
// measured in meters from an origin point.
//
// The earth is approximated as a sphere, and the east-west scale factor is
// fixed at the origin latitude rather than evaluated per point. Distortion
// grows with east-west extent, which is acceptable for river reaches
// but not for continental-scale traces.
package localproj

import (
	"fmt"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/rotblauer/sinuosity/params"
	"github.com/rotblauer/sinuosity/types/channel"
	"math"
)

// Projector maps (lon, lat) degrees to (x, y) meters relative to an origin.
type Projector struct {
	origin orb.Point
	north  float64
	east   float64
}

// NewProjector returns a projector centered on origin for a sphere of the given radius.
func NewProjector(origin orb.Point, earthRadius float64) *Projector {
	north := 2 * math.Pi * earthRadius / 360
	return &Projector{
		origin: origin,
		north:  north,
		east:   north * math.Cos(origin.Lat()*math.Pi/180),
	}
}

// Origin is the (lon, lat) mapped to (0, 0).
func (p *Projector) Origin() orb.Point {
	return p.origin
}

// NorthFactor is meters per degree of latitude.
func (p *Projector) NorthFactor() float64 {
	return p.north
}

// EastFactor is meters per degree of longitude at the origin latitude.
func (p *Projector) EastFactor() float64 {
	return p.east
}

// Point projects a (lon, lat) point to (x, y) meters.
func (p *Projector) Point(pt orb.Point) orb.Point {
	return orb.Point{
		(pt.Lon() - p.origin.Lon()) * p.east,
		(pt.Lat() - p.origin.Lat()) * p.north,
	}
}

// Project projects points relative to the first point, using the default earth radius.
func Project(points orb.LineString) (*channel.Planar, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("project: %w: no points", channel.ErrInsufficientData)
	}
	return ProjectFrom(points[0], points)
}

// ProjectFrom projects points relative to origin, using the default earth radius.
func ProjectFrom(origin orb.Point, points orb.LineString) (*channel.Planar, error) {
	return NewProjector(origin, params.DefaultProjectionConfig.EarthRadius).Project(points)
}

// Project projects points and annotates them with segment and arc lengths.
func (p *Projector) Project(points orb.LineString) (*channel.Planar, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("project: %w: no points", channel.ErrInsufficientData)
	}
	out := &channel.Planar{
		Origin: p.origin,
		X:      make([]float64, len(points)),
		Y:      make([]float64, len(points)),
	}
	for i, pt := range points {
		xy := p.Point(pt)
		out.X[i], out.Y[i] = xy[0], xy[1]
	}
	out.SegLen, out.Arc = ArcLength(out.X, out.Y)
	return out, nil
}

// ArcLength returns, for each point, the euclidean distance to the previous point
// and the cumulative sum of those distances. Both are zero at the first point.
func ArcLength(xs, ys []float64) (seg, arc []float64) {
	seg = make([]float64, len(xs))
	arc = make([]float64, len(xs))
	for i := 1; i < len(xs); i++ {
		seg[i] = planar.Distance(orb.Point{xs[i-1], ys[i-1]}, orb.Point{xs[i], ys[i]})
		arc[i] = arc[i-1] + seg[i]
	}
	return seg, arc
}

// Annotate recomputes the segment and arc length columns of a planar trace in place.
// It is used after the planar points have been edited, eg. by simplification.
func Annotate(pl *channel.Planar) {
	pl.SegLen, pl.Arc = ArcLength(pl.X, pl.Y)
}

// FromLineString builds a planar trace from points already in meters.
func FromLineString(origin orb.Point, ls orb.LineString) *channel.Planar {
	pl := &channel.Planar{
		Origin: origin,
		X:      make([]float64, len(ls)),
		Y:      make([]float64, len(ls)),
	}
	for i, pt := range ls {
		pl.X[i], pl.Y[i] = pt[0], pt[1]
	}
	Annotate(pl)
	return pl
}
