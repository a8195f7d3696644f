package reader

import (
	"context"
	"fmt"
	"github.com/paulmach/orb/geojson"
	"github.com/rotblauer/sinuosity/params"
	"github.com/rotblauer/sinuosity/store/flat"
	"github.com/rotblauer/sinuosity/types/channel"
	"github.com/tidwall/gjson"
	"io"
	"os"
	"path/filepath"
)

// GeoJSON reads a FeatureCollection, or a single Feature, of line features.
type GeoJSON struct {
	path   string
	gz     bool
	config *params.InputConfig
}

func (r *GeoJSON) Read(ctx context.Context) ([]channel.Trace, error) {
	data, err := readAll(r.path, r.gz)
	if err != nil {
		return nil, err
	}
	var features []*geojson.Feature
	switch typ := gjson.GetBytes(data, "type").String(); typ {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", r.path, err)
		}
		features = fc.Features
	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", r.path, err)
		}
		features = []*geojson.Feature{f}
	default:
		return nil, fmt.Errorf("%s: %w: geojson type %q", r.path, ErrUnsupportedFormat, typ)
	}

	traces := make([]channel.Trace, 0, len(features))
	for i, f := range features {
		t, err := traceOf(f, i, r.config.IDProperty)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", r.path, err)
		}
		traces = append(traces, t)
	}
	return finish(ctx, traces, r.config)
}

func traceOf(f *geojson.Feature, index int, idProperty string) (channel.Trace, error) {
	ls, err := lineOf(f.Geometry)
	if err != nil {
		return channel.Trace{}, fmt.Errorf("feature %d: %w", index, err)
	}
	id := resolveID(idProperty, f.Properties, f.ID, index)
	return channel.NewTrace(id, ls...), nil
}

func readAll(path string, gz bool) ([]byte, error) {
	if !gz {
		return os.ReadFile(path)
	}
	gzr, err := flat.NewFlatWithRoot(filepath.Dir(path)).NamedGZReader(filepath.Base(path))
	if err != nil {
		return nil, err
	}
	defer gzr.Close()
	return io.ReadAll(gzr)
}
