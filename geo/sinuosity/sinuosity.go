// Package sinuosity computes a Gaussian-tapered windowed sinuosity series
// over a straightened channel trace.
//
// At every index c the window weights are w[i] = exp(-((i-c)/L)^2), by index
// distance rather than arc length, and the local sinuosity is the weighted
// streamwise length divided by the weighted direct (along-axis) length.
// The window is unbounded, so each index costs a full pass over the trace:
// the computation is O(N^2), which suits single-reach traces of up to a few
// thousand points.
package sinuosity

import (
	"errors"
	"fmt"
	"github.com/rotblauer/sinuosity/params"
	"github.com/rotblauer/sinuosity/types/channel"
	"gonum.org/v1/gonum/floats"
	"math"
)

var (
	ErrInvalidWindow      = errors.New("invalid window length")
	ErrUndefinedSinuosity = errors.New("undefined sinuosity")
)

// UndefinedSinuosityError lists the indices whose window has zero net direct length,
// eg. where the channel doubles back on itself within the window.
type UndefinedSinuosityError struct {
	Indices []int
}

func (e *UndefinedSinuosityError) Error() string {
	if len(e.Indices) == 1 {
		return fmt.Sprintf("%v: zero direct length at index %d", ErrUndefinedSinuosity, e.Indices[0])
	}
	return fmt.Sprintf("%v: zero direct length at %d indices, first %d", ErrUndefinedSinuosity, len(e.Indices), e.Indices[0])
}

func (e *UndefinedSinuosityError) Is(target error) bool {
	return target == ErrUndefinedSinuosity
}

// CheckDefined returns an UndefinedSinuosityError if any index of w is undefined.
func CheckDefined(w *channel.Windowed) error {
	if w == nil || len(w.Undefined) == 0 {
		return nil
	}
	return &UndefinedSinuosityError{Indices: append([]int(nil), w.Undefined...)}
}

// Kernel returns the taper weight for every index distance 0..n-1.
func Kernel(n int, length float64) []float64 {
	k := make([]float64, n)
	for d := range k {
		r := float64(d) / length
		k[d] = math.Exp(-r * r)
	}
	return k
}

// window fills w with the kernel centered on c.
func window(w, kernel []float64, c int) {
	for i := range w {
		d := i - c
		if d < 0 {
			d = -d
		}
		w[i] = kernel[d]
	}
}

// UnitDisplacements returns the along-axis progress of each point: x[i] - x[i-1], zero at i=0.
func UnitDisplacements(x []float64) []float64 {
	out := make([]float64, len(x))
	for i := 1; i < len(x); i++ {
		out[i] = x[i] - x[i-1]
	}
	return out
}

// undefinedTolerance bounds the net direct length, relative to the streamwise
// length of the same window, below which sinuosity is undefined. Windows that
// double back on themselves net to floating residue rather than exact zero.
const undefinedTolerance = 1e-9

// Windowed computes the windowed position and sinuosity at every index of st.
// An index whose |direct| <= undefinedTolerance*|streamwise| is NaN and listed
// in Undefined.
func Windowed(st *channel.Straightened, config *params.SinuosityConfig) (*channel.Windowed, error) {
	if config == nil {
		config = params.DefaultSinuosityConfig
	}
	if !(config.WindowLength > 0) || math.IsInf(config.WindowLength, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWindow, config.WindowLength)
	}
	n := st.Len()
	if n == 0 {
		return nil, fmt.Errorf("sinuosity: %w: empty trace", channel.ErrInsufficientData)
	}
	if len(st.Y) != n || len(st.SegLen) != n {
		return nil, fmt.Errorf("sinuosity: mismatched columns: x=%d y=%d segleng=%d", n, len(st.Y), len(st.SegLen))
	}

	kernel := Kernel(n, config.WindowLength)
	unit := UnitDisplacements(st.X)
	w := make([]float64, n)

	out := &channel.Windowed{
		Position:  make([]float64, n),
		Sinuosity: make([]float64, n),
	}
	for c := 0; c < n; c++ {
		window(w, kernel, c)
		sum := floats.Sum(w)
		out.Position[c] = floats.Dot(w, st.X) / sum
		streamwise := floats.Dot(w, st.SegLen) / sum
		direct := floats.Dot(w, unit) / sum

		s := streamwise / direct
		if math.Abs(direct) <= undefinedTolerance*math.Abs(streamwise) || math.IsNaN(s) || math.IsInf(s, 0) {
			out.Sinuosity[c] = math.NaN()
			out.Undefined = append(out.Undefined, c)
			continue
		}
		out.Sinuosity[c] = s
	}

	if config.Strict {
		if err := CheckDefined(out); err != nil {
			return nil, err
		}
	}
	return out, nil
}
