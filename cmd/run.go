/*
Copyright © 2024 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rotblauer/sinuosity/api"
	"github.com/rotblauer/sinuosity/common"
	"github.com/rotblauer/sinuosity/conceptual"
	"github.com/rotblauer/sinuosity/events"
	"github.com/rotblauer/sinuosity/params"
	"github.com/rotblauer/sinuosity/reader"
	"github.com/rotblauer/sinuosity/store/flat"
	"github.com/rotblauer/sinuosity/types/channel"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Compute windowed sinuosity of observed channels against a reference axis",
	Long: `

Every observed channel trace is projected into the reference axis' local planar frame,
straightened against the axis by a weighted blend of per-segment projections,
and given a Gaussian-windowed sinuosity series.

Flags:

  --reference       Reference axis file (required).
  --reference-id    Id of the reference feature, when the reference file has several.
  --observed        Observed channel traces file (required).
  --id-property     Property (or shapefile field) naming each channel, eg. a survey year.
  --only            Process only these channel ids.
  --window          Gaussian window length, in points. (Default is 50.)
  --strict          Fail a channel with any undefined (zero direct length) window.
  --shared-origin   Project observed traces relative to the reference origin instead of their own first point.
  --simplify        Douglas-Peucker threshold for the reference axis, in meters. (Default 0 is off.)
  --legacy-segleng  Measure straightened segment lengths from (dx, dx), as older tooling did.
  --workers         Number of channels processed in parallel.
  --out             Output root directory. Empty to skip writing.
  --dedupe          Drop repeated identical channel traces. (Default is true.)

Examples:

  sinuosity run --reference axis.shp --observed channels.shp --id-property year --window 50
  sinuosity run --reference axis.geojson --observed surveys.ndjson.gz --only 1998,2016 --out ./out

Output:

  <out>/reference.geojson
  <out>/channels/<id>/rows.ndjson.gz   one point feature per trace point
  <out>/channels/<id>/channel.geojson  the channel line with summary properties
`,
	Run: func(cmd *cobra.Command, args []string) {
		setDefaultSlog(cmd, args)

		ctx, cancel := common.InterruptibleContext(context.Background())
		defer cancel()

		opts := runOptionsFromViper()
		if _, err := runSinuosity(ctx, opts, os.Stdout); err != nil {
			slog.Error("Run failed", "error", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("reference", "", "Reference axis file")
	runCmd.Flags().String("reference-id", "", "Id of the reference feature")
	runCmd.Flags().String("observed", "", "Observed channel traces file")
	runCmd.Flags().String("id-property", params.DefaultInputConfig.IDProperty, "Feature property (or shapefile field) holding the channel id")
	runCmd.Flags().StringSlice("only", nil, "Process only these channel ids")
	runCmd.Flags().Float64("window", params.DefaultSinuosityConfig.WindowLength, "Gaussian window length, in points")
	runCmd.Flags().Bool("strict", params.DefaultSinuosityConfig.Strict, "Fail channels with undefined windows")
	runCmd.Flags().Bool("shared-origin", params.DefaultProjectionConfig.SharedOrigin, "Project observed traces relative to the reference origin")
	runCmd.Flags().Float64("simplify", params.DefaultReferenceConfig.SimplifyThreshold, "Douglas-Peucker threshold for the reference axis, in meters")
	runCmd.Flags().Bool("legacy-segleng", params.DefaultWarpConfig.LegacyXOnlySegLen, "Straightened segment length from (dx, dx)")
	runCmd.Flags().Int("workers", params.DefaultWorkersN, "Number of channels processed in parallel")
	runCmd.Flags().String("out", params.DatadirRoot, "Output root directory, empty to skip writing")
	runCmd.Flags().Bool("dedupe", params.DefaultInputConfig.Dedupe, "Drop repeated identical channel traces")
}

type runOptions struct {
	Reference   string
	ReferenceID conceptual.ChannelID
	Observed    string
	Input       params.InputConfig
	Config      *params.Config
	Workers     int
	Out         string
}

func runOptionsFromViper() runOptions {
	config := params.DefaultConfig()
	config.WindowLength = viper.GetFloat64("window")
	config.Strict = viper.GetBool("strict")
	config.SharedOrigin = viper.GetBool("shared-origin")
	config.SimplifyThreshold = viper.GetFloat64("simplify")
	config.LegacyXOnlySegLen = viper.GetBool("legacy-segleng")

	input := *params.DefaultInputConfig
	input.IDProperty = viper.GetString("id-property")
	input.Only = viper.GetStringSlice("only")
	input.Dedupe = viper.GetBool("dedupe")

	return runOptions{
		Reference:   viper.GetString("reference"),
		ReferenceID: conceptual.ChannelID(viper.GetString("reference-id")),
		Observed:    viper.GetString("observed"),
		Input:       input,
		Config:      config,
		Workers:     viper.GetInt("workers"),
		Out:         viper.GetString("out"),
	}
}

// selectReference picks the reference trace by id,
// or the only (else first) trace when no id is given.
func selectReference(refs []channel.Trace, id conceptual.ChannelID) (channel.Trace, error) {
	if len(refs) == 0 {
		return channel.Trace{}, fmt.Errorf("reference: %w: no features", channel.ErrInsufficientData)
	}
	if id.Empty() {
		if len(refs) > 1 {
			slog.Warn("Several reference features, using the first", "id", refs[0].ID, "features", len(refs))
		}
		return refs[0], nil
	}
	for _, r := range refs {
		if r.ID == id {
			return r, nil
		}
	}
	return channel.Trace{}, fmt.Errorf("reference %q not found among %d features", id, len(refs))
}

func runSinuosity(ctx context.Context, opts runOptions, w io.Writer) ([]api.Summary, error) {
	if opts.Reference == "" || opts.Observed == "" {
		return nil, errors.New("both --reference and --observed are required")
	}
	started := time.Now()

	refInput := opts.Input
	refInput.Only = nil
	refInput.Dedupe = false
	refs, err := reader.ReadFile(ctx, opts.Reference, &refInput)
	if err != nil {
		return nil, fmt.Errorf("read reference: %w", err)
	}
	ref, err := selectReference(refs, opts.ReferenceID)
	if err != nil {
		return nil, err
	}
	reach, err := api.NewReach(ref, opts.Config)
	if err != nil {
		return nil, err
	}

	traces, err := reader.ReadFile(ctx, opts.Observed, &opts.Input)
	if err != nil {
		return nil, fmt.Errorf("read observed: %w", err)
	}
	points := 0
	for _, t := range traces {
		points += t.Len()
	}
	slog.Info("Read channels", "path", opts.Observed, "channels", len(traces), "points", humanize.Comma(int64(points)))

	if opts.Out == "" {
		tables, err := reach.ProcessAll(ctx, traces, opts.Workers)
		summaries := printSummaries(w, tables)
		slog.Info("Done", "elapsed", time.Since(started).Round(time.Millisecond))
		return summaries, err
	}

	store := flat.NewFlatWithRoot(opts.Out)
	if err := writeReference(store, reach); err != nil {
		return nil, err
	}

	// Tables are written as they are processed.
	processed := make(chan *channel.Table, opts.Workers+1)
	sub := events.ProcessedChannelFeed.Subscribe(processed)
	writeErrs := make(chan error, 1)
	go func() {
		var errs []error
		for t := range processed {
			dir, err := store.WriteTable(t)
			if err != nil {
				errs = append(errs, fmt.Errorf("write channel %s: %w", t.ID, err))
				continue
			}
			slog.Debug("Wrote channel", "channel", t.ID, "dir", dir)
		}
		writeErrs <- errors.Join(errs...)
	}()

	tables, processErr := reach.ProcessAll(ctx, traces, opts.Workers)
	sub.Unsubscribe()
	close(processed)
	writeErr := <-writeErrs

	summaries := printSummaries(w, tables)
	slog.Info("Done", "out", store.Path(), "elapsed", time.Since(started).Round(time.Millisecond))
	return summaries, errors.Join(processErr, writeErr)
}

func writeReference(store *flat.Flat, reach *api.Reach) error {
	if err := store.MkdirAll(); err != nil {
		return err
	}
	data, err := reach.ReferenceTable().Feature().MarshalJSON()
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(store.Path(), params.ReferenceFileName), data, 0660)
}

// printSummaries writes one line per processed channel and returns their summaries.
func printSummaries(w io.Writer, tables []*channel.Table) []api.Summary {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Channel", "Points", "Length", "Mean", "Median", "Min", "Max", "P90", "Undefined"})
	var out []api.Summary
	for _, tab := range tables {
		if tab == nil {
			continue
		}
		s := api.Summarize(tab)
		out = append(out, s)
		slog.Debug("Summary", s.LogAttrs()...)
		t.AppendRow(table.Row{
			s.ID,
			humanize.Comma(int64(s.Points)),
			fmt.Sprintf("%.1f", s.GeodesicLength),
			fmt.Sprintf("%.4f", s.Mean),
			fmt.Sprintf("%.4f", s.Median),
			fmt.Sprintf("%.4f", s.Min),
			fmt.Sprintf("%.4f", s.Max),
			fmt.Sprintf("%.4f", s.P90),
			s.Undefined,
		})
	}
	t.Style().Options = table.OptionsNoBordersAndSeparators
	fmt.Fprintln(w, t.Render())
	return out
}
