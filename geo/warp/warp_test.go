package warp

import (
	"errors"
	"github.com/golang/geo/r2"
	"github.com/paulmach/orb"
	"github.com/rotblauer/sinuosity/geo/axis"
	"github.com/rotblauer/sinuosity/geo/localproj"
	"github.com/rotblauer/sinuosity/params"
	"github.com/rotblauer/sinuosity/types/channel"
	"math"
	"testing"
)

func near(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

func planarOf(ls orb.LineString) *channel.Planar {
	return localproj.FromLineString(orb.Point{}, ls)
}

// TestWarpSingleSegmentIdentity checks that with one reference segment
// the blend reduces to that segment's projection.
func TestWarpSingleSegmentIdentity(t *testing.T) {
	ref := planarOf(orb.LineString{{10, -5}, {70, 75}})
	obs := planarOf(orb.LineString{{0, 0}, {15, 3}, {40, 40}, {90, 10}, {-30, 120}, {200, -200}})
	st, err := Warp(ref, obs, params.DefaultWarpConfig)
	if err != nil {
		t.Fatal(err)
	}
	seg := axis.Segments(ref)[0]
	for i := range obs.X {
		pr, err := seg.Project(r2.Point{X: obs.X[i], Y: obs.Y[i]})
		if err != nil {
			t.Fatal(err)
		}
		if !near(st.X[i], pr.TX) || !near(st.Y[i], pr.TY) {
			t.Errorf("point %d: expected (%v, %v), got (%v, %v)", i, pr.TX, pr.TY, st.X[i], st.Y[i])
		}
	}
}

func TestWarpStraightReference(t *testing.T) {
	ref := planarOf(orb.LineString{{0, 0}, {100, 0}, {200, 0}, {300, 0}})
	obs := planarOf(orb.LineString{{0, 0}, {50, -10}, {150, 20}, {250, -5}, {300, 0}})
	st, err := Warp(ref, obs, nil)
	if err != nil {
		t.Fatal(err)
	}
	if st.Len() != obs.Len() {
		t.Fatalf("expected %d straightened points, got %d", obs.Len(), st.Len())
	}
	// Along a straight reference every segment agrees, so the blend is exact.
	for i := range obs.X {
		if !near(st.X[i], obs.X[i]) {
			t.Errorf("point %d: expected x=%v, got %v", i, obs.X[i], st.X[i])
		}
		if !near(st.Y[i], -obs.Y[i]) {
			t.Errorf("point %d: expected y=%v, got %v", i, -obs.Y[i], st.Y[i])
		}
	}
}

func TestWarpBlendsAcrossSegments(t *testing.T) {
	ref := planarOf(orb.LineString{{0, 0}, {100, 0}, {100, 100}})
	obs := planarOf(orb.LineString{{50, 0}})
	st, err := Warp(ref, obs, nil)
	if err != nil {
		t.Fatal(err)
	}
	// First segment: midpoint, tx=50, ty=0, w=1.
	// Second segment: u=0, tx=100, ty=-50, w=1/1.1^2.
	w2 := 1 / (1.1 * 1.1)
	wantX := (50*1 + 100*w2) / (1 + w2)
	wantY := (0*1 + -50*w2) / (1 + w2)
	if !near(st.X[0], wantX) || !near(st.Y[0], wantY) {
		t.Errorf("expected (%v, %v), got (%v, %v)", wantX, wantY, st.X[0], st.Y[0])
	}
}

func TestWarpSegLenUsesDy(t *testing.T) {
	ref := planarOf(orb.LineString{{0, 0}, {100, 0}})
	obs := planarOf(orb.LineString{{50, 0}, {50, -10}, {50, -20}, {53, -24}})
	st, err := Warp(ref, obs, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{0, 10, 10, 5}
	for i := range want {
		if !near(st.SegLen[i], want[i]) {
			t.Errorf("segleng[%d]: expected %v, got %v", i, want[i], st.SegLen[i])
		}
	}

	// The legacy defect measured (dx, dx).
	legacy, err := Warp(ref, obs, &params.WarpConfig{LegacyXOnlySegLen: true})
	if err != nil {
		t.Fatal(err)
	}
	wantLegacy := []float64{0, 0, 0, 3 * math.Sqrt2}
	for i := range wantLegacy {
		if !near(legacy.SegLen[i], wantLegacy[i]) {
			t.Errorf("legacy segleng[%d]: expected %v, got %v", i, wantLegacy[i], legacy.SegLen[i])
		}
	}
}

func TestWarpInsufficientReference(t *testing.T) {
	obs := planarOf(orb.LineString{{0, 0}, {1, 1}})
	for _, ref := range []*channel.Planar{
		planarOf(orb.LineString{}),
		planarOf(orb.LineString{{0, 0}}),
	} {
		_, err := Warp(ref, obs, nil)
		if !errors.Is(err, channel.ErrInsufficientData) {
			t.Errorf("reference of %d points: expected ErrInsufficientData, got %v", ref.Len(), err)
		}
	}
	_, err := Warp(planarOf(orb.LineString{{0, 0}, {1, 0}}), planarOf(orb.LineString{}), nil)
	if !errors.Is(err, channel.ErrInsufficientData) {
		t.Errorf("empty observed: expected ErrInsufficientData, got %v", err)
	}
}

func TestWarpDegenerateReference(t *testing.T) {
	ref := planarOf(orb.LineString{{0, 0}, {10, 0}, {10, 0}, {20, 0}})
	obs := planarOf(orb.LineString{{0, 1}, {5, 1}})
	_, err := Warp(ref, obs, nil)
	if !errors.Is(err, axis.ErrDegenerateSegment) {
		t.Fatalf("expected ErrDegenerateSegment, got %v", err)
	}
	var dse *axis.DegenerateSegmentError
	if !errors.As(err, &dse) || dse.Index != 2 {
		t.Errorf("expected degenerate segment 2, got %v", err)
	}
}

func TestWarpNaNWeight(t *testing.T) {
	ref := planarOf(orb.LineString{{0, 0}, {10, 0}})
	obs := &channel.Planar{X: []float64{math.NaN()}, Y: []float64{0}}
	_, err := Warp(ref, obs, nil)
	if !errors.Is(err, ErrZeroWeight) {
		t.Fatalf("expected ErrZeroWeight, got %v", err)
	}
}

func TestWarpCurvedReference(t *testing.T) {
	// A quarter circle reference with traces following it outside and inside at a fixed offset.
	radius, offset := 1000.0, 20.0
	ref, outer, inner := orb.LineString{}, orb.LineString{}, orb.LineString{}
	for i := 0; i <= 90; i++ {
		a := float64(i) * math.Pi / 180
		ref = append(ref, orb.Point{radius * math.Sin(a), radius * math.Cos(a)})
		outer = append(outer, orb.Point{(radius + offset) * math.Sin(a), (radius + offset) * math.Cos(a)})
		inner = append(inner, orb.Point{(radius - offset) * math.Sin(a), (radius - offset) * math.Cos(a)})
	}
	rp := planarOf(ref)
	so, err := Warp(rp, planarOf(outer), nil)
	if err != nil {
		t.Fatal(err)
	}
	si, err := Warp(rp, planarOf(inner), nil)
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < so.Len(); i++ {
		if so.X[i] <= so.X[i-1] || si.X[i] <= si.X[i-1] {
			t.Fatalf("point %d: expected increasing straightened x", i)
		}
	}
	// Outer and inner traces straighten to opposite sides of the axis.
	for i := 10; i <= 80; i++ {
		if so.Y[i] >= 0 || si.Y[i] <= 0 {
			t.Errorf("point %d: expected outer y < 0 < inner y, got %v, %v", i, so.Y[i], si.Y[i])
		}
	}
	// By symmetry the middle point lands at half the reference arc length.
	if mid := rp.Length() / 2; math.Abs(so.X[45]-mid) > 1 || math.Abs(si.X[45]-mid) > 1 {
		t.Errorf("expected middle x about %v, got %v, %v", mid, so.X[45], si.X[45])
	}
}
