package reader

import (
	"context"
	"fmt"
	"github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
	"github.com/rotblauer/sinuosity/params"
	"github.com/rotblauer/sinuosity/types/channel"
	"log/slog"
	"strings"
)

// Shapefile reads PolyLine records of an ESRI shapefile.
// The channel id comes from the IDProperty attribute field, or the first field.
type Shapefile struct {
	path   string
	config *params.InputConfig
}

func (r *Shapefile) Read(ctx context.Context) ([]channel.Trace, error) {
	sr, err := shp.Open(r.path)
	if err != nil {
		return nil, err
	}
	defer sr.Close()

	field := -1
	for i, f := range sr.Fields() {
		if r.config.IDProperty == "" || strings.EqualFold(f.String(), r.config.IDProperty) {
			field = i
			break
		}
	}
	if field < 0 && r.config.IDProperty != "" {
		slog.Warn("Shapefile id field not found, using record index", "path", r.path, "field", r.config.IDProperty)
	}

	var traces []channel.Trace
	for sr.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, shape := sr.Shape()
		ls, err := shapeLine(shape)
		if err != nil {
			return nil, fmt.Errorf("%s: record %d: %w", r.path, n, err)
		}
		var featureID interface{}
		if field >= 0 {
			featureID = strings.Trim(sr.ReadAttribute(n, field), " \x00")
		}
		traces = append(traces, channel.NewTrace(resolveID("", nil, featureID, n), ls...))
	}
	if err := sr.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", r.path, err)
	}
	return finish(ctx, traces, r.config)
}

// shapeLine concatenates a (multi-part) polyline's points in order.
func shapeLine(shape shp.Shape) (orb.LineString, error) {
	var points []shp.Point
	switch s := shape.(type) {
	case *shp.PolyLine:
		points = s.Points
	case *shp.PolyLineZ:
		points = s.Points
	case *shp.PolyLineM:
		points = s.Points
	case *shp.Null:
		return orb.LineString{}, nil
	default:
		return nil, fmt.Errorf("%w: shape %T", ErrUnsupportedGeometry, shape)
	}
	ls := make(orb.LineString, len(points))
	for i, p := range points {
		ls[i] = orb.Point{p.X, p.Y}
	}
	return ls, nil
}
