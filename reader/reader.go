// Package reader loads channel traces from GeoJSON, NDJSON and shapefile inputs.
package reader

import (
	"context"
	"errors"
	"fmt"
	"github.com/paulmach/orb"
	"github.com/rotblauer/sinuosity/conceptual"
	"github.com/rotblauer/sinuosity/params"
	"github.com/rotblauer/sinuosity/stream"
	"github.com/rotblauer/sinuosity/types/channel"
	"log/slog"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
)

var ErrUnsupportedFormat = errors.New("unsupported input format")
var ErrUnsupportedGeometry = errors.New("unsupported geometry")

// Reader reads all channel traces from a source, in source order.
type Reader interface {
	Read(ctx context.Context) ([]channel.Trace, error)
}

// Open returns a Reader for path chosen by its extension.
// A trailing .gz is allowed for GeoJSON and NDJSON.
func Open(path string, config *params.InputConfig) (Reader, error) {
	if config == nil {
		config = params.DefaultInputConfig
	}
	name := strings.ToLower(filepath.Base(path))
	gz := strings.HasSuffix(name, ".gz")
	name = strings.TrimSuffix(name, ".gz")

	switch filepath.Ext(name) {
	case ".geojson", ".json":
		return &GeoJSON{path: path, gz: gz, config: config}, nil
	case ".ndjson", ".geojsonl", ".jsonl":
		return &NDJSON{path: path, gz: gz, config: config}, nil
	case ".shp":
		if gz {
			return nil, fmt.Errorf("%w: compressed shapefile %s", ErrUnsupportedFormat, path)
		}
		return &Shapefile{path: path, config: config}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// ReadFile opens and reads path in one go.
func ReadFile(ctx context.Context, path string, config *params.InputConfig) ([]channel.Trace, error) {
	r, err := Open(path, config)
	if err != nil {
		return nil, err
	}
	return r.Read(ctx)
}

// resolveID picks the channel id of the index'th feature:
// the configured property, then the feature id, then the index.
func resolveID(property string, props map[string]interface{}, featureID interface{}, index int) conceptual.ChannelID {
	if property != "" {
		if v, ok := props[property]; ok {
			if s := idString(v); s != "" {
				return conceptual.ChannelID(s)
			}
		}
	}
	if s := idString(featureID); s != "" {
		return conceptual.ChannelID(s)
	}
	return conceptual.ChannelID(strconv.Itoa(index))
}

func idString(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return strings.TrimSpace(fmt.Sprint(x))
	}
}

// lineOf flattens a geometry into one ordered trace.
// Parts of multi-geometries are concatenated in order, as shapefile parts are.
func lineOf(g orb.Geometry) (orb.LineString, error) {
	switch geom := g.(type) {
	case nil:
		return orb.LineString{}, nil
	case orb.LineString:
		return geom, nil
	case orb.MultiLineString:
		var out orb.LineString
		for _, part := range geom {
			out = append(out, part...)
		}
		return out, nil
	case orb.MultiPoint:
		return orb.LineString(geom), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedGeometry, g.GeoJSONType())
}

// finish applies the id filter and dedupe to traces, preserving order.
func finish(ctx context.Context, traces []channel.Trace, config *params.InputConfig) ([]channel.Trace, error) {
	in := stream.Slice(ctx, traces)
	if len(config.Only) > 0 {
		in = stream.Filter(ctx, func(t channel.Trace) bool {
			return slices.Contains(config.Only, t.ID.String())
		}, in)
	}
	if config.Dedupe {
		size := params.DefaultDedupeCacheSize
		if len(traces) > size {
			size = len(traces)
		}
		dedupe, err := channel.NewDedupeFunc(size)
		if err != nil {
			return nil, err
		}
		in = stream.Filter(ctx, dedupe, in)
	}
	out := stream.Collect(ctx, in)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if dropped := len(traces) - len(out); dropped > 0 {
		slog.Debug("Filtered traces", "read", len(traces), "kept", len(out))
	}
	return out, nil
}
