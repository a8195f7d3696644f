package api

import (
	"context"
	"errors"
	"fmt"
	"github.com/paulmach/orb/simplify"
	"github.com/rotblauer/sinuosity/events"
	"github.com/rotblauer/sinuosity/geo/axis"
	"github.com/rotblauer/sinuosity/geo/localproj"
	"github.com/rotblauer/sinuosity/geo/sinuosity"
	"github.com/rotblauer/sinuosity/geo/warp"
	"github.com/rotblauer/sinuosity/params"
	"github.com/rotblauer/sinuosity/types/channel"
	"golang.org/x/sync/errgroup"
	"log/slog"
	"time"
)

// Reach is a reference axis prepared for straightening observed channel traces.
// It is read-only after construction and safe for concurrent use.
type Reach struct {
	// Reference is the reference trace after vertex cleanup.
	Reference channel.Trace

	// Axis is the projected (and optionally simplified) reference axis, in meters.
	Axis *channel.Planar

	segments  []axis.Segment
	projector *localproj.Projector
	config    *params.Config
	logger    *slog.Logger
}

// NewReach prepares reference as the axis for a reach.
// The reference axis is projected relative to its own first point.
func NewReach(reference channel.Trace, config *params.Config) (*Reach, error) {
	if config == nil {
		config = params.DefaultConfig()
	}
	logger := slog.With("reach", reference.ID.String())

	if config.DropRepeatedVertices {
		n := reference.Len()
		reference = channel.NewTrace(reference.ID, channel.DropRepeatedVertices(reference.Points)...)
		if dropped := n - reference.Len(); dropped > 0 {
			logger.Warn("Dropped repeated reference vertices", "dropped", dropped)
		}
	}
	if err := reference.Validate(); err != nil {
		return nil, fmt.Errorf("reference: %w", err)
	}
	if reference.Len() < 2 {
		return nil, fmt.Errorf("reference: %w: %d points, need at least 2", channel.ErrInsufficientData, reference.Len())
	}

	projector := localproj.NewProjector(reference.Points[0], config.EarthRadius)
	planar, err := projector.Project(reference.Points)
	if err != nil {
		return nil, fmt.Errorf("reference: %w", err)
	}
	if config.SimplifyThreshold > 0 {
		n := planar.Len()
		ls := simplify.DouglasPeucker(config.SimplifyThreshold).LineString(planar.LineString())
		planar = localproj.FromLineString(planar.Origin, ls)
		logger.Info("Simplified reference axis", "threshold", config.SimplifyThreshold, "before", n, "after", planar.Len())
	}

	segments := axis.Segments(planar)
	for _, seg := range segments {
		if err := seg.Validate(); err != nil {
			return nil, fmt.Errorf("reference: %w", err)
		}
	}
	logger.Debug("Reach ready", "vertices", planar.Len(), "length", planar.Length())

	return &Reach{
		Reference: reference,
		Axis:      planar,
		segments:  segments,
		projector: projector,
		config:    config,
		logger:    logger,
	}, nil
}

// ReferenceTable returns the reference trace with its projected columns attached.
// It is nil-Planar when the axis was simplified, since the vertices no longer correspond.
func (r *Reach) ReferenceTable() *channel.Table {
	t := channel.NewTable(r.Reference)
	if r.Axis.Len() == r.Reference.Len() {
		t.Planar = r.Axis
	}
	return t
}

// Process runs one observed trace through the pipeline:
// local projection, straightening against the axis, and windowed sinuosity.
// The returned table is owned by the caller.
func (r *Reach) Process(ctx context.Context, trace channel.Trace) (*channel.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := trace.Validate(); err != nil {
		return nil, fmt.Errorf("channel %s: %w", trace.ID, err)
	}
	table := channel.NewTable(trace)

	projector := r.projector
	if !r.config.SharedOrigin {
		projector = localproj.NewProjector(trace.Points[0], r.config.EarthRadius)
	}
	planar, err := projector.Project(trace.Points)
	if err != nil {
		return nil, fmt.Errorf("channel %s: %w", trace.ID, err)
	}
	table.Planar = planar

	straightened, err := warp.WarpSegments(r.segments, planar, &r.config.WarpConfig)
	if err != nil {
		return nil, fmt.Errorf("channel %s: %w", trace.ID, err)
	}
	table.Straightened = straightened

	windowed, err := sinuosity.Windowed(straightened, &r.config.SinuosityConfig)
	if err != nil {
		return nil, fmt.Errorf("channel %s: %w", trace.ID, err)
	}
	table.Windowed = windowed

	if len(windowed.Undefined) > 0 {
		r.logger.Warn("Undefined sinuosity", "channel", trace.ID, "indices", len(windowed.Undefined))
	}
	return table, nil
}

// ProcessAll processes traces concurrently, at most workers at a time.
// Results are returned in input order; a trace that fails leaves a nil entry
// and its error is joined into the returned error.
// Each successful table is sent on events.ProcessedChannelFeed.
func (r *Reach) ProcessAll(ctx context.Context, traces []channel.Trace, workers int) ([]*channel.Table, error) {
	if workers <= 0 {
		workers = params.DefaultWorkersN
	}
	started := time.Now()
	meter := newProgressMeter(r.logger, 5*time.Second)
	defer meter.stop()

	results := make([]*channel.Table, len(traces))
	errs := make([]error, len(traces))

	g := new(errgroup.Group)
	g.SetLimit(workers)
	for i := range traces {
		if ctx.Err() != nil {
			errs[i] = fmt.Errorf("channel %s: %w", traces[i].ID, ctx.Err())
			continue
		}
		g.Go(func() error {
			table, err := r.Process(ctx, traces[i])
			if err != nil {
				r.logger.Error("Failed to process channel", "channel", traces[i].ID, "error", err)
				errs[i] = err
				return nil
			}
			results[i] = table
			meter.mark(table.ID, table.Len())
			events.ProcessedChannelFeed.Send(table)
			return nil
		})
	}
	_ = g.Wait()

	err := errors.Join(errs...)
	r.logger.Info("Processed channels",
		"channels", len(traces),
		"failed", countErrs(errs),
		"elapsed", time.Since(started).Round(time.Millisecond))
	return results, err
}

func countErrs(errs []error) (n int) {
	for _, err := range errs {
		if err != nil {
			n++
		}
	}
	return
}
