package localproj

import (
	"errors"
	"github.com/paulmach/orb"
	"github.com/rotblauer/sinuosity/params"
	"github.com/rotblauer/sinuosity/types/channel"
	"math"
	"testing"
)

func TestProjectEmpty(t *testing.T) {
	_, err := Project(orb.LineString{})
	if !errors.Is(err, channel.ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

func TestProjectOrigin(t *testing.T) {
	ls := orb.LineString{{-114.0877518, 46.9292804}, {-114.087, 46.93}, {-114.086, 46.931}}
	pl, err := Project(ls)
	if err != nil {
		t.Fatal(err)
	}
	if pl.X[0] != 0 || pl.Y[0] != 0 {
		t.Errorf("expected origin at (0, 0), got (%v, %v)", pl.X[0], pl.Y[0])
	}
	if pl.SegLen[0] != 0 || pl.Arc[0] != 0 {
		t.Errorf("expected zero first segleng and arc, got %v, %v", pl.SegLen[0], pl.Arc[0])
	}
	if !pl.Origin.Equal(ls[0]) {
		t.Errorf("expected origin %v, got %v", ls[0], pl.Origin)
	}
	if pl.Len() != len(ls) {
		t.Errorf("expected %d points, got %d", len(ls), pl.Len())
	}
}

func TestProjectSinglePoint(t *testing.T) {
	pl, err := Project(orb.LineString{{10, 50}})
	if err != nil {
		t.Fatal(err)
	}
	if pl.Len() != 1 || pl.X[0] != 0 || pl.Y[0] != 0 || pl.Arc[0] != 0 {
		t.Errorf("unexpected single point projection: %+v", pl)
	}
}

// TestProjectFixedLatitude checks that along a parallel through the origin
// x is exactly the east factor times the longitude offset.
func TestProjectFixedLatitude(t *testing.T) {
	lat0 := 45.5
	ls := orb.LineString{}
	for i := 0; i < 20; i++ {
		ls = append(ls, orb.Point{-111.7 + float64(i)*0.001, lat0})
	}
	pl, err := Project(ls)
	if err != nil {
		t.Fatal(err)
	}
	north := 2 * math.Pi * params.EarthRadius / 360
	east := north * math.Cos(lat0*math.Pi/180)
	for i, p := range ls {
		want := (p.Lon() - ls[0].Lon()) * east
		if pl.X[i] != want {
			t.Errorf("point %d: expected x=%v, got %v", i, want, pl.X[i])
		}
		if pl.Y[i] != 0 {
			t.Errorf("point %d: expected y=0, got %v", i, pl.Y[i])
		}
	}
	// Arc length along a straight line equals the x extent.
	if got, want := pl.Length(), pl.X[len(pl.X)-1]; math.Abs(got-want) > 1e-6 {
		t.Errorf("expected length %v, got %v", want, got)
	}
}

func TestProjectorFactors(t *testing.T) {
	p := NewProjector(orb.Point{0, 60}, params.EarthRadius)
	if got := p.EastFactor() / p.NorthFactor(); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("expected east/north = cos(60) = 0.5, got %v", got)
	}
	// One degree of latitude is about 111.3 km on this sphere.
	if math.Abs(p.NorthFactor()-111319.49) > 0.01 {
		t.Errorf("unexpected north factor %v", p.NorthFactor())
	}
	xy := p.Point(orb.Point{1, 61})
	if math.Abs(xy[0]-p.EastFactor()) > 1e-9 || math.Abs(xy[1]-p.NorthFactor()) > 1e-9 {
		t.Errorf("unexpected projection %v", xy)
	}
}

func TestProjectFromSharedOrigin(t *testing.T) {
	origin := orb.Point{10, 50}
	pl, err := ProjectFrom(origin, orb.LineString{{10.001, 50}, {10.002, 50}})
	if err != nil {
		t.Fatal(err)
	}
	if pl.X[0] <= 0 {
		t.Errorf("expected positive x relative to a western origin, got %v", pl.X[0])
	}
	if pl.SegLen[0] != 0 {
		t.Errorf("first segleng must be zero regardless of origin, got %v", pl.SegLen[0])
	}
}

func TestArcLength(t *testing.T) {
	xs := []float64{0, 3, 3, 6}
	ys := []float64{0, 4, 4, 8}
	seg, arc := ArcLength(xs, ys)
	wantSeg := []float64{0, 5, 0, 5}
	wantArc := []float64{0, 5, 5, 10}
	for i := range xs {
		if seg[i] != wantSeg[i] {
			t.Errorf("seg[%d]: expected %v, got %v", i, wantSeg[i], seg[i])
		}
		if arc[i] != wantArc[i] {
			t.Errorf("arc[%d]: expected %v, got %v", i, wantArc[i], arc[i])
		}
	}
}

func TestFromLineString(t *testing.T) {
	pl := FromLineString(orb.Point{}, orb.LineString{{0, 0}, {0, 10}, {10, 10}})
	if pl.Length() != 20 {
		t.Errorf("expected length 20, got %v", pl.Length())
	}
	ls := pl.LineString()
	if !ls.Equal(orb.LineString{{0, 0}, {0, 10}, {10, 10}}) {
		t.Errorf("unexpected round trip %v", ls)
	}
}
