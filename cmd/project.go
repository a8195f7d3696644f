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
	"encoding/json"
	"fmt"
	"github.com/rotblauer/sinuosity/common"
	"github.com/rotblauer/sinuosity/geo/localproj"
	"github.com/rotblauer/sinuosity/params"
	"github.com/rotblauer/sinuosity/reader"
	"github.com/rotblauer/sinuosity/types/channel"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"io"
	"log/slog"
	"os"
)

// projectCmd represents the project command
var projectCmd = &cobra.Command{
	Use:   "project <file>",
	Short: "Project channel traces to local planar coordinates",
	Long: `

Each trace is projected relative to its own first point
and written to stdout as NDJSON rows: channel, lat, lng, x, y, segleng, ar.

Examples:

  sinuosity project channels.shp --id-property year | jq -c 'select(.channel == "2016")'
`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		setDefaultSlog(cmd, args)

		ctx, cancel := common.InterruptibleContext(context.Background())
		defer cancel()

		input := *params.DefaultInputConfig
		input.IDProperty = viper.GetString("id-property")
		input.Dedupe = false
		if err := runProject(ctx, args[0], &input, viper.GetFloat64("earth-radius"), os.Stdout); err != nil {
			slog.Error("Project failed", "error", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(projectCmd)

	projectCmd.Flags().String("id-property", params.DefaultInputConfig.IDProperty, "Feature property (or shapefile field) holding the channel id")
	projectCmd.Flags().Float64("earth-radius", params.EarthRadius, "Spherical earth radius, in meters")
}

type projectedRow struct {
	Channel string `json:"channel"`
	channel.Row
}

func runProject(ctx context.Context, path string, input *params.InputConfig, earthRadius float64, w io.Writer) error {
	traces, err := reader.ReadFile(ctx, path, input)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	for _, t := range traces {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := t.Validate(); err != nil {
			return err
		}
		planar, err := localproj.NewProjector(t.Points[0], earthRadius).Project(t.Points)
		if err != nil {
			return fmt.Errorf("channel %s: %w", t.ID, err)
		}
		table := channel.NewTable(t)
		table.Planar = planar
		for i := 0; i < table.Len(); i++ {
			if err := enc.Encode(projectedRow{Channel: t.ID.String(), Row: table.Row(i)}); err != nil {
				return err
			}
		}
	}
	return nil
}
