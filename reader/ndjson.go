package reader

import (
	"context"
	"fmt"
	"github.com/paulmach/orb/geojson"
	"github.com/rotblauer/sinuosity/params"
	"github.com/rotblauer/sinuosity/store/flat"
	"github.com/rotblauer/sinuosity/stream"
	"github.com/rotblauer/sinuosity/types/channel"
	"github.com/tidwall/gjson"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// NDJSON reads one GeoJSON feature per line.
type NDJSON struct {
	path   string
	gz     bool
	config *params.InputConfig
}

func (r *NDJSON) Read(ctx context.Context) ([]channel.Trace, error) {
	var in io.ReadCloser
	if r.gz {
		gzr, err := flat.NewFlatWithRoot(filepath.Dir(r.path)).NamedGZReader(filepath.Base(r.path))
		if err != nil {
			return nil, err
		}
		in = gzr
	} else {
		f, err := os.Open(r.path)
		if err != nil {
			return nil, err
		}
		in = f
	}
	defer in.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	idPath := ""
	if r.config.IDProperty != "" {
		idPath = "properties." + gjsonEscape(r.config.IDProperty)
	}
	maxLine := r.config.MaxLineSize
	if maxLine <= 0 {
		maxLine = params.DefaultInputConfig.MaxLineSize
	}

	lines, errs := stream.Lines(ctx, in, maxLine)
	var traces []channel.Trace
	for line := range lines {
		index := len(traces)
		f, err := geojson.UnmarshalFeature(line)
		if err != nil {
			cancel()
			for range lines {
			}
			return nil, fmt.Errorf("%s: line %d: %w", r.path, index+1, err)
		}
		ls, err := lineOf(f.Geometry)
		if err != nil {
			cancel()
			for range lines {
			}
			return nil, fmt.Errorf("%s: line %d: %w", r.path, index+1, err)
		}
		var props map[string]interface{}
		if idPath != "" {
			if v := gjson.GetBytes(line, idPath); v.Exists() {
				props = map[string]interface{}{r.config.IDProperty: v.Value()}
			}
		}
		id := resolveID(r.config.IDProperty, props, gjson.GetBytes(line, "id").Value(), index)
		traces = append(traces, channel.NewTrace(id, ls...))
	}
	if err := <-errs; err != nil {
		return nil, fmt.Errorf("%s: %w", r.path, err)
	}
	return finish(ctx, traces, r.config)
}

// gjsonEscape escapes gjson path syntax characters in a literal key.
func gjsonEscape(key string) string {
	var sb strings.Builder
	for _, c := range key {
		switch c {
		case '.', '*', '?', '|', '#', '@', '\\':
			sb.WriteByte('\\')
		}
		sb.WriteRune(c)
	}
	return sb.String()
}
