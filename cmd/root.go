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
	"fmt"
	"github.com/mitchellh/go-homedir"
	"github.com/rotblauer/sinuosity/common"
	"github.com/rotblauer/sinuosity/params"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"log/slog"
	"os"
	"strings"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sinuosity",
	Short: "Windowed sinuosity of river channel centerlines",
	Long: `Straighten surveyed river channel centerlines against a reference axis
and compute a Gaussian-windowed sinuosity series along each of them.

Inputs are GeoJSON (.geojson, .json), NDJSON features (.ndjson), optionally gzipped,
or ESRI shapefiles (.shp) of (multi)line features in longitude, latitude degrees.

Flags may also be set in a config file ($HOME/.sinuosity.yaml)
or in environment variables, eg. SINUOSITY_WINDOW=25.
`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/"+params.ConfigFileBaseName+".yaml)")
	rootCmd.PersistentFlags().String("verbosity", "info", "Log level: debug, info, warn, error")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".sinuosity" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(params.ConfigFileBaseName)
	}

	viper.SetEnvPrefix(params.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// bindFlags makes the command's flags (and the persistent root flags)
// resolvable through viper, so config file and env values apply to unset flags.
// Binding happens when the command runs since commands share flag names.
func bindFlags(flags ...*pflag.FlagSet) {
	for _, fs := range flags {
		if err := viper.BindPFlags(fs); err != nil {
			cobra.CheckErr(err)
		}
	}
}

func setDefaultSlog(cmd *cobra.Command, args []string) {
	bindFlags(cmd.Flags(), cmd.InheritedFlags())
	level, err := common.ParseSlogLevel(viper.GetString("verbosity"))
	if err != nil {
		slog.Warn("Invalid verbosity, using info", "error", err)
		level = slog.LevelInfo
	}
	slog.SetLogLoggerLevel(level)
	slog.Debug("Command", "name", cmd.Name(), "args", args)
}
