/*
Copyright © 2017 the CPGrid authors.
This file is part of CPGrid.

CPGrid is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

CPGrid is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with CPGrid.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package cpgridutil wires the cpgrid library into a command-line
// interface: configuration handling, logging, and the individual
// commands.
package cpgridutil

import (
	"fmt"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/cpgrid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var log *logrus.Logger

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	log = logrus.StandardLogger()
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Options are the configuration options available to CPGrid.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "GridData",
			usage: `
              GridData is the path to the saved grid data file (gob format,
              as written by the cpgrid library). The path can include
              environment variables.`,
			defaultVal: "cpgrid.gob",
			flagsets: []*pflag.FlagSet{summaryCmd.Flags(), gravityCmd.Flags(),
				locateCmd.Flags()},
		},
		{
			name: "Gravity.FieldData",
			usage: `
              Gravity.FieldData is the path to the gob file holding the
              solution fields of the two report steps to compare.`,
			defaultVal: "fields.gob",
			flagsets:   []*pflag.FlagSet{gravityCmd.Flags()},
		},
		{
			name: "Gravity.Stations",
			usage: `
              Gravity.Stations lists the measurement stations, one string
              per station in the format "name,x,y,depth".`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{gravityCmd.Flags()},
		},
		{
			name: "Locate.Point",
			usage: `
              Locate.Point is the "x,y,z" position to locate in the grid.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{locateCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("CPGRID")

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch v := option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, v, option.usage)
				} else {
					set.StringP(option.name, option.shorthand, v, option.usage)
				}
			case []string:
				if option.shorthand == "" {
					set.StringSlice(option.name, v, option.usage)
				} else {
					set.StringSliceP(option.name, option.shorthand, v, option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, v, option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, v, option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(summaryCmd)
	Root.AddCommand(gravityCmd)
	Root.AddCommand(locateCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("cpgrid: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "cpgrid",
	Short: "A corner-point grid engine for reservoir post-processing.",
	Long: `CPGrid loads corner-point reservoir grids and answers geometric
queries against them: index conversions, cell volumes, point location,
and time-lapse gravimetric responses at surface stations.

Configuration can be changed by using a configuration file (and providing
the path to the file using the --config flag), by using command-line
arguments, or by setting environment variables in the format 'CPGRID_var'
where 'var' is the name of the variable to be set.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of CPGrid.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("CPGrid v%s\n", cpgrid.Version)
	},
	DisableAutoGenTag: true,
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Describe a saved grid",
	Long: `summary prints the dimensions, active-cell counts, and LGR
hierarchy of a saved grid.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Summary(cmd.OutOrStdout())
	},
	DisableAutoGenTag: true,
}

var gravityCmd = &cobra.Command{
	Use:   "gravity",
	Short: "Calculate time-lapse gravity responses",
	Long: `gravity calculates the change in vertical gravity at each
measurement station caused by fluid-mass redistribution between two
report steps.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Gravity(cmd.OutOrStdout())
	},
	DisableAutoGenTag: true,
}

var locateCmd = &cobra.Command{
	Use:   "locate",
	Short: "Find the cell containing a point",
	Long: `locate reports the logical coordinates and indices of the grid
cell containing the given point, if any.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Locate(cmd.OutOrStdout())
	},
	DisableAutoGenTag: true,
}
