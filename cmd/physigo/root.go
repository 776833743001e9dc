package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/celldyn/physigo/mcds"
)

// newRootCmd wires the physigo command tree. Every flag is also
// reachable through a PHYSIGO_* environment variable.
func newRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("physigo")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:           "physigo",
		Short:         "Post-process PhysiCell simulation output",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	pf := root.PersistentFlags()
	pf.Bool("verbose", false, "log progress to stderr")
	pf.String("settings", "PhysiCell_settings.xml", "settings file name inside the output directory (empty disables)")
	pf.Bool("no-microenv", false, "skip the microenvironment data")
	pf.Bool("no-graph", false, "skip the cell graph files")
	cobra.CheckErr(v.BindPFlags(pf))

	root.AddCommand(
		newInfoCmd(v),
		newGraphGMLCmd(v),
		newPlotContourCmd(v),
		newPlotCellsCmd(v),
		newPlotTimeseriesCmd(v),
		newGifCmd(v),
		newMovieCmd(v),
	)
	return root
}

// loadOptions translates the persistent flags into loader options.
func loadOptions(v *viper.Viper) (mcds.Options, error) {
	opts := mcds.DefaultOptions()
	opts.SettingXML = v.GetString("settings")
	opts.Microenv = !v.GetBool("no-microenv")
	opts.Graph = !v.GetBool("no-graph")

	if v.GetBool("verbose") {
		log, err := zap.NewDevelopment()
		if err != nil {
			return opts, err
		}
		opts.Logger = log
	}
	return opts, nil
}
