package channel

import (
	"errors"
	"github.com/paulmach/orb"
	"math"
	"testing"
)

func TestTraceValidate(t *testing.T) {
	if err := NewTrace("empty").Validate(); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData, got %v", err)
	}
	if err := NewTrace("bad", orb.Point{0, 0}, orb.Point{181, 0}).Validate(); err == nil {
		t.Error("expected out of range error")
	}
	if err := NewTrace("ok", orb.Point{-106.68, 35.05}).Validate(); err != nil {
		t.Errorf("unexpected error %v", err)
	}
}

func TestNewTraceCopies(t *testing.T) {
	points := []orb.Point{{1, 2}, {3, 4}}
	tr := NewTrace("x", points...)
	points[0] = orb.Point{9, 9}
	if tr.Points[0] != (orb.Point{1, 2}) {
		t.Error("expected trace points to be copied")
	}
}

func TestDropRepeatedVertices(t *testing.T) {
	ls := orb.LineString{{0, 0}, {0, 0}, {1, 0}, {1, 0}, {1, 0}, {2, 0}, {0, 0}}
	got := DropRepeatedVertices(ls)
	want := orb.LineString{{0, 0}, {1, 0}, {2, 0}, {0, 0}}
	if !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	if len(DropRepeatedVertices(nil)) != 0 {
		t.Error("expected empty result")
	}
}

func TestNilTablesLen(t *testing.T) {
	var p *Planar
	var s *Straightened
	var w *Windowed
	if p.Len() != 0 || s.Len() != 0 || w.Len() != 0 || p.Length() != 0 {
		t.Error("expected zero lengths for nil tables")
	}
}

func testTable() *Table {
	tr := NewTrace("2016", orb.Point{-106.68, 35.05}, orb.Point{-106.679, 35.05})
	table := NewTable(tr)
	table.Planar = &Planar{Origin: tr.Points[0], X: []float64{0, 91}, Y: []float64{0, 0}, SegLen: []float64{0, 91}, Arc: []float64{0, 91}}
	table.Straightened = &Straightened{X: []float64{0, 91}, Y: []float64{-1, -1}, SegLen: []float64{0, 91}}
	table.Windowed = &Windowed{Position: []float64{30, 61}, Sinuosity: []float64{math.NaN(), 1}, Undefined: []int{0}}
	return table
}

func TestTableRow(t *testing.T) {
	table := testTable()
	r := table.Row(1)
	if r.Lng != -106.679 || r.Lat != 35.05 {
		t.Errorf("unexpected row coordinates %v, %v", r.Lng, r.Lat)
	}
	if *r.X != 91 || *r.Arc != 91 || *r.StraightenedY != -1 || *r.WindowedX != 61 || *r.WindowedSin != 1 {
		t.Errorf("unexpected row %+v", r)
	}
	if table.Row(0).WindowedSin != nil {
		t.Error("expected nil sinuosity for NaN")
	}

	bare := NewTable(table.Trace).Row(0)
	if bare.X != nil || bare.StraightenedX != nil || bare.WindowedX != nil {
		t.Errorf("expected no derived columns, got %+v", bare)
	}
	if len(table.Rows()) != 2 {
		t.Error("expected 2 rows")
	}
}

func TestTableFeatures(t *testing.T) {
	table := testTable()
	features, err := table.PointFeatures()
	if err != nil {
		t.Fatal(err)
	}
	if len(features) != 2 {
		t.Fatalf("expected 2 features, got %d", len(features))
	}
	f := features[1]
	if f.Properties.MustString("channel") != "2016" || f.Properties.MustInt("index") != 1 {
		t.Errorf("unexpected properties %v", f.Properties)
	}
	if f.Properties.MustFloat64("segleng") != 91 {
		t.Errorf("expected segleng 91, got %v", f.Properties["segleng"])
	}
	if v, ok := features[0].Properties["windowedsin"]; !ok || v != nil {
		t.Errorf("expected null windowedsin, got %v", v)
	}

	line := table.Feature()
	if line.ID != "2016" || line.Properties.MustInt("undefined") != 1 || line.Properties.MustFloat64("length") != 91 {
		t.Errorf("unexpected line feature properties %v", line.Properties)
	}
	if ls := table.StraightenedLineString(); len(ls) != 2 || ls[1] != (orb.Point{91, -1}) {
		t.Errorf("unexpected straightened line %v", ls)
	}
}

func TestDedupeFunc(t *testing.T) {
	dedupe, err := NewDedupeFunc(8)
	if err != nil {
		t.Fatal(err)
	}
	a := NewTrace("a", orb.Point{1, 2}, orb.Point{3, 4})
	same := NewTrace("a", orb.Point{1, 2}, orb.Point{3, 4})
	otherID := NewTrace("b", orb.Point{1, 2}, orb.Point{3, 4})
	otherPoints := NewTrace("a", orb.Point{1, 2}, orb.Point{3, 5})
	if !dedupe(a) {
		t.Error("expected first trace to pass")
	}
	if dedupe(same) {
		t.Error("expected identical trace to be dropped")
	}
	if !dedupe(otherID) || !dedupe(otherPoints) {
		t.Error("expected distinct traces to pass")
	}
	if _, err := NewDedupeFunc(0); err == nil {
		t.Error("expected error for zero cache size")
	}
}
