// Package warp straightens an observed trace against a reference axis.
//
// Every observed point is projected onto every reference segment and the
// per-segment projections are blended by their weights. The result is a
// weighted average over all segments, not a nearest-segment assignment, so
// the straightened frame varies smoothly across segment joints.
package warp

import (
	"errors"
	"fmt"
	"github.com/rotblauer/sinuosity/geo/axis"
	"github.com/rotblauer/sinuosity/geo/localproj"
	"github.com/rotblauer/sinuosity/params"
	"github.com/rotblauer/sinuosity/types/channel"
	"gonum.org/v1/gonum/floats"
	"math"
)

// ErrZeroWeight is returned when an observed point gets no weight from any reference segment.
var ErrZeroWeight = errors.New("zero cumulative weight")

// blend is the running weighted sum over reference segments.
type blend struct {
	tx, ty, w []float64
	scratch   []float64
}

func newBlend(n int) *blend {
	return &blend{
		tx:      make([]float64, n),
		ty:      make([]float64, n),
		w:       make([]float64, n),
		scratch: make([]float64, n),
	}
}

// fold adds one segment's weighted projections of all observed points.
func (b *blend) fold(seg axis.Segment, xs, ys []float64) error {
	tx, ty, w, err := seg.ProjectAll(xs, ys)
	if err != nil {
		return err
	}
	floats.Add(b.tx, floats.MulTo(b.scratch, tx, w))
	floats.Add(b.ty, floats.MulTo(b.scratch, ty, w))
	floats.Add(b.w, w)
	return nil
}

// result divides the weighted sums by the cumulative weights.
func (b *blend) result() (x, y []float64, err error) {
	for i, w := range b.w {
		if w == 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, nil, fmt.Errorf("%w: observed point %d (weight %v)", ErrZeroWeight, i, w)
		}
	}
	x = floats.DivTo(make([]float64, len(b.w)), b.tx, b.w)
	y = floats.DivTo(make([]float64, len(b.w)), b.ty, b.w)
	return x, y, nil
}

// Warp straightens obs against the reference axis ref.
// Both traces must be in the same planar frame.
func Warp(ref, obs *channel.Planar, config *params.WarpConfig) (*channel.Straightened, error) {
	segs := axis.Segments(ref)
	if len(segs) == 0 {
		return nil, fmt.Errorf("warp: %w: reference has %d points, need at least 2", channel.ErrInsufficientData, ref.Len())
	}
	return WarpSegments(segs, obs, config)
}

// WarpSegments straightens obs against prebuilt reference segments.
// It is useful when many traces are warped against the same reference.
func WarpSegments(segs []axis.Segment, obs *channel.Planar, config *params.WarpConfig) (*channel.Straightened, error) {
	if config == nil {
		config = params.DefaultWarpConfig
	}
	if len(segs) == 0 {
		return nil, fmt.Errorf("warp: %w: no reference segments", channel.ErrInsufficientData)
	}
	if obs.Len() == 0 {
		return nil, fmt.Errorf("warp: %w: no observed points", channel.ErrInsufficientData)
	}

	b := newBlend(obs.Len())
	for _, seg := range segs {
		if err := b.fold(seg, obs.X, obs.Y); err != nil {
			return nil, fmt.Errorf("warp: %w", err)
		}
	}
	x, y, err := b.result()
	if err != nil {
		return nil, fmt.Errorf("warp: %w", err)
	}

	out := &channel.Straightened{X: x, Y: y}
	if config.LegacyXOnlySegLen {
		out.SegLen, _ = localproj.ArcLength(x, x)
	} else {
		out.SegLen, _ = localproj.ArcLength(x, y)
	}
	return out, nil
}
