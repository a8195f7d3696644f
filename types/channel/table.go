package channel

import (
	"encoding/json"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"math"
)

// Table is a channel trace with the derived tables attached alongside it.
// Derived tables are nil until the corresponding pipeline stage has run.
// A Table is owned by a single pipeline run and never shared across traces.
type Table struct {
	Trace

	Planar       *Planar
	Straightened *Straightened
	Windowed     *Windowed
}

// NewTable creates a table for the trace with no derived columns.
func NewTable(t Trace) *Table {
	return &Table{Trace: t}
}

// Row is one index of a Table, flattened into its named columns.
// Columns of stages that have not run are nil.
type Row struct {
	Lat    float64  `json:"lat"`
	Lng    float64  `json:"lng"`
	X      *float64 `json:"x,omitempty"`
	Y      *float64 `json:"y,omitempty"`
	SegLen *float64 `json:"segleng,omitempty"`
	Arc    *float64 `json:"ar,omitempty"`

	StraightenedX      *float64 `json:"straightenedx,omitempty"`
	StraightenedY      *float64 `json:"straightenedy,omitempty"`
	StraightenedSegLen *float64 `json:"straightenedsegleng,omitempty"`

	WindowedX   *float64 `json:"windowedx,omitempty"`
	WindowedSin *float64 `json:"windowedsin"`
}

// finite returns a pointer to v, or nil for NaN and infinities,
// which JSON cannot represent.
func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// Row returns the i'th row of the table.
func (t *Table) Row(i int) Row {
	p := t.Points[i]
	r := Row{Lat: p.Lat(), Lng: p.Lon()}
	if t.Planar.Len() > i {
		r.X = finite(t.Planar.X[i])
		r.Y = finite(t.Planar.Y[i])
		r.SegLen = finite(t.Planar.SegLen[i])
		r.Arc = finite(t.Planar.Arc[i])
	}
	if t.Straightened.Len() > i {
		r.StraightenedX = finite(t.Straightened.X[i])
		r.StraightenedY = finite(t.Straightened.Y[i])
		r.StraightenedSegLen = finite(t.Straightened.SegLen[i])
	}
	if t.Windowed.Len() > i {
		r.WindowedX = finite(t.Windowed.Position[i])
		r.WindowedSin = finite(t.Windowed.Sinuosity[i])
	}
	return r
}

// Rows returns all rows of the table, in trace order.
func (t *Table) Rows() []Row {
	rows := make([]Row, t.Len())
	for i := range rows {
		rows[i] = t.Row(i)
	}
	return rows
}

// Properties returns the row as a geojson property map.
func (r Row) Properties() (geojson.Properties, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	props := geojson.Properties{}
	if err := json.Unmarshal(data, &props); err != nil {
		return nil, err
	}
	return props, nil
}

// PointFeatures renders each row as a GeoJSON point feature at its (lon, lat).
func (t *Table) PointFeatures() ([]*geojson.Feature, error) {
	out := make([]*geojson.Feature, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		props, err := t.Row(i).Properties()
		if err != nil {
			return nil, err
		}
		f := geojson.NewFeature(t.Points[i])
		f.Properties = props
		f.Properties["channel"] = t.ID.String()
		f.Properties["index"] = i
		out = append(out, f)
	}
	return out, nil
}

// Feature renders the channel as a single LineString feature.
func (t *Table) Feature() *geojson.Feature {
	f := geojson.NewFeature(t.Points.Clone())
	f.ID = t.ID.String()
	f.Properties["channel"] = t.ID.String()
	f.Properties["points"] = t.Len()
	if t.Planar != nil {
		f.Properties["length"] = math.Round(t.Planar.Length())
		f.Properties["origin"] = []float64{t.Planar.Origin.Lon(), t.Planar.Origin.Lat()}
	}
	if t.Windowed != nil {
		f.Properties["undefined"] = len(t.Windowed.Undefined)
	}
	return f
}

// StraightenedLineString returns the straightened trace as planar geometry, in meters.
func (t *Table) StraightenedLineString() orb.LineString {
	if t.Straightened == nil {
		return nil
	}
	ls := make(orb.LineString, t.Straightened.Len())
	for i := range ls {
		ls[i] = orb.Point{t.Straightened.X[i], t.Straightened.Y[i]}
	}
	return ls
}
