package main

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/celldyn/physigo/mcds"
	"github.com/celldyn/physigo/series"
)

// newInfoCmd prints a snapshot summary.
func newInfoCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "info <output.xml>",
		Short: "Summarize one time step",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := loadOptions(v)
			if err != nil {
				return err
			}
			s, err := mcds.Load(args[0], opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "snapshot:    %s\n", s.BaseName())
			fmt.Fprintf(out, "software:    %s (%s)\n", s.PhysiCellVersion(), s.MultiCellDSVersion())
			fmt.Fprintf(out, "created:     %s\n", s.Timestamp())
			fmt.Fprintf(out, "time:        %g %s\n", s.Time(), s.TimeUnit())
			fmt.Fprintf(out, "runtime:     %g %s\n", s.Runtime(), s.RuntimeUnit())
			fmt.Fprintf(out, "substrates:  %s\n", strings.Join(s.SubstrateNames(), ", "))
			fmt.Fprintf(out, "cells:       %d\n", s.Cells().Len())
			if g, err := s.Graph(mcds.NeighborGraph); err == nil {
				fmt.Fprintf(out, "neighbor:    %d nodes, %d edges\n", g.Len(), g.EdgeCount())
			}
			if g, err := s.Graph(mcds.AttachedGraph); err == nil {
				fmt.Fprintf(out, "attached:    %d nodes, %d edges\n", g.Len(), g.EdgeCount())
			}
			return nil
		},
	}
}

// newGraphGMLCmd exports cell graphs as GML, for one snapshot or a
// whole directory.
func newGraphGMLCmd(v *viper.Viper) *cobra.Command {
	var (
		graphType string
		edgeAttr  bool
		nodeAttr  []string
	)
	cmd := &cobra.Command{
		Use:   "graph-gml <output.xml | output-dir>",
		Short: "Export cell graphs as GML files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := loadOptions(v)
			if err != nil {
				return err
			}

			info, err := os.Stat(args[0])
			if err != nil {
				return err
			}
			var paths []string
			if info.IsDir() {
				ts, err := series.New(args[0], opts)
				if err != nil {
					return err
				}
				if paths, err = ts.MakeGraphGML(mcds.GraphType(graphType), edgeAttr, nodeAttr); err != nil {
					return err
				}
			} else {
				s, err := mcds.Load(args[0], opts)
				if err != nil {
					return err
				}
				path, err := s.MakeGraphGML(mcds.GraphType(graphType), edgeAttr, nodeAttr)
				if err != nil {
					return err
				}
				paths = []string{path}
			}
			for _, path := range paths {
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&graphType, "type", string(mcds.NeighborGraph), "graph type: neighbor or attached")
	cmd.Flags().BoolVar(&edgeAttr, "edge-attr", true, "attach cell center distances to edges")
	cmd.Flags().StringSliceVar(&nodeAttr, "node-attr", nil, "cell table columns to copy onto nodes")
	return cmd
}

// newPlotContourCmd renders a contour image series.
func newPlotContourCmd(v *viper.Viper) *cobra.Command {
	var (
		z          float64
		ext        string
		cmap       string
		levels     int
		vmin, vmax float64
		lines      bool
		grid       bool
		title      string
		bg         string
		width      int
		height     int
	)
	cmd := &cobra.Command{
		Use:   "plot-contour <output-dir> <substrate>",
		Short: "Render a substrate z-slice image per time step",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := loadOptions(v)
			if err != nil {
				return err
			}
			ts, err := series.New(args[0], opts)
			if err != nil {
				return err
			}

			popts := series.DefaultPlotOptions()
			popts.ZSlice = z
			popts.Ext = ext
			popts.Render.Cmap = cmap
			popts.Render.Levels = levels
			popts.Render.VMin = vmin
			popts.Render.VMax = vmax
			popts.Render.Fill = !lines
			popts.Render.Grid = grid
			popts.Render.Title = title
			popts.Render.BgColor = bg
			popts.Render.FigSizePx = [2]int{width, height}

			dir, err := ts.PlotContour(args[1], popts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
	cmd.Flags().Float64Var(&z, "z", 0, "z position of the rendered plane")
	cmd.Flags().StringVar(&ext, "ext", "jpeg", "image format: jpeg, png or tiff")
	cmd.Flags().StringVar(&cmap, "cmap", "viridis", "colormap: viridis, plasma, jet or gray")
	cmd.Flags().IntVar(&levels, "levels", 25, "number of contour bands")
	cmd.Flags().Float64Var(&vmin, "min", math.NaN(), "color scale minimum (default: series minimum)")
	cmd.Flags().Float64Var(&vmax, "max", math.NaN(), "color scale maximum (default: series maximum)")
	cmd.Flags().BoolVar(&lines, "lines", false, "draw band boundary lines instead of filled bands")
	cmd.Flags().BoolVar(&grid, "grid", false, "overlay grid lines")
	cmd.Flags().StringVar(&title, "title", "", "image title (default: substrate, z and time)")
	cmd.Flags().StringVar(&bg, "bg", "", "background color name or #rrggbb")
	cmd.Flags().IntVar(&width, "width", 640, "image width in pixels")
	cmd.Flags().IntVar(&height, "height", 480, "image height in pixels")
	return cmd
}

// newPlotCellsCmd renders a cell scatter image series.
func newPlotCellsCmd(v *viper.Viper) *cobra.Command {
	var (
		z          float64
		ext        string
		cmap       string
		vmin, vmax float64
		marker     int
		grid       bool
		title      string
		bg         string
		width      int
		height     int
	)
	cmd := &cobra.Command{
		Use:   "plot-cells <output-dir> <column>",
		Short: "Render a cell scatter image per time step",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := loadOptions(v)
			if err != nil {
				return err
			}
			ts, err := series.New(args[0], opts)
			if err != nil {
				return err
			}

			popts := series.DefaultPlotOptions()
			popts.ZSlice = z
			popts.Ext = ext
			popts.Render.Cmap = cmap
			popts.Render.VMin = vmin
			popts.Render.VMax = vmax
			popts.Render.MarkerPx = marker
			popts.Render.Grid = grid
			popts.Render.Title = title
			popts.Render.BgColor = bg
			popts.Render.FigSizePx = [2]int{width, height}

			dir, err := ts.PlotCells(args[1], popts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
	cmd.Flags().Float64Var(&z, "z", 0, "z position of the rendered plane")
	cmd.Flags().StringVar(&ext, "ext", "jpeg", "image format: jpeg, png or tiff")
	cmd.Flags().StringVar(&cmap, "cmap", "viridis", "colormap: viridis, plasma, jet or gray")
	cmd.Flags().Float64Var(&vmin, "min", math.NaN(), "color scale minimum (default: series minimum)")
	cmd.Flags().Float64Var(&vmax, "max", math.NaN(), "color scale maximum (default: series maximum)")
	cmd.Flags().IntVar(&marker, "marker", 6, "scatter dot diameter in pixels")
	cmd.Flags().BoolVar(&grid, "grid", false, "overlay grid lines")
	cmd.Flags().StringVar(&title, "title", "", "image title (default: column, z, time and cell count)")
	cmd.Flags().StringVar(&bg, "bg", "", "background color name or #rrggbb")
	cmd.Flags().IntVar(&width, "width", 640, "image width in pixels")
	cmd.Flags().IntVar(&height, "height", 480, "image height in pixels")
	return cmd
}

// newPlotTimeseriesCmd renders an aggregated cell variable chart.
func newPlotTimeseriesCmd(v *viper.Viper) *cobra.Command {
	var (
		cat   string
		num   string
		agg   string
		ext   string
		title string
	)
	cmd := &cobra.Command{
		Use:   "plot-timeseries <output-dir>",
		Short: "Chart an aggregated cell variable over simulation time",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := loadOptions(v)
			if err != nil {
				return err
			}
			ts, err := series.New(args[0], opts)
			if err != nil {
				return err
			}

			topts := series.DefaultTimeseriesOptions()
			topts.Ext = ext
			topts.Title = title
			path, err := ts.PlotTimeseries(cat, num, series.Aggregate(agg), topts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().StringVar(&cat, "cat", "cell_type", "categorical column grouping the cells (empty: all cells)")
	cmd.Flags().StringVar(&num, "num", "", "numeric column to aggregate (empty: count cells)")
	cmd.Flags().StringVar(&agg, "aggregate", string(series.Mean), "mean, median, min, max, sum or count")
	cmd.Flags().StringVar(&ext, "ext", "png", "chart format: png or svg")
	cmd.Flags().StringVar(&title, "title", "", "chart title")
	return cmd
}

// newGifCmd assembles rendered frames into an animated GIF.
func newGifCmd(_ *viper.Viper) *cobra.Command {
	var iface string
	cmd := &cobra.Command{
		Use:   "gif <frame-dir>",
		Short: "Assemble rendered frames into an animated GIF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := series.MakeGif(args[0], iface)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().StringVar(&iface, "interface", "jpeg", "frame image format to collect")
	return cmd
}

// newMovieCmd assembles rendered frames into an MJPEG AVI.
func newMovieCmd(_ *viper.Viper) *cobra.Command {
	var (
		iface     string
		framerate int
	)
	cmd := &cobra.Command{
		Use:   "movie <frame-dir>",
		Short: "Assemble rendered frames into an MJPEG movie",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := series.MakeMovie(args[0], iface, framerate)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().StringVar(&iface, "interface", "jpeg", "frame image format to collect")
	cmd.Flags().IntVar(&framerate, "framerate", 12, "frames per second")
	return cmd
}
