package series

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/wcharczuk/go-chart/v2"
	"go.uber.org/zap"

	"github.com/celldyn/physigo/contour"
	"github.com/celldyn/physigo/mcds"
)

// Aggregate names the reduction applied per category and time step.
type Aggregate string

// Supported aggregates.
const (
	Mean   Aggregate = "mean"
	Median Aggregate = "median"
	Min    Aggregate = "min"
	Max    Aggregate = "max"
	Sum    Aggregate = "sum"
	Count  Aggregate = "count"
)

// TimeseriesOptions controls PlotTimeseries output.
type TimeseriesOptions struct {
	// Ext selects the chart format: png (default) or svg.
	Ext string
	// Title overrides the generated chart title.
	Title string
	// FigSizePx is the chart width and height, default 640x480.
	FigSizePx [2]int
}

// DefaultTimeseriesOptions returns a 640x480 png chart.
func DefaultTimeseriesOptions() TimeseriesOptions {
	return TimeseriesOptions{Ext: "png", FigSizePx: [2]int{640, 480}}
}

// PlotTimeseries aggregates a numeric cell variable per category over
// simulation time and renders one line per category into
// <outputPath>/timeseries_<cat>_<num>_<agg>.<ext>, returning the
// path. An empty focusCat pools all cells into one "total" line; an
// empty focusNum counts cells instead of aggregating a column.
func (s *Series) PlotTimeseries(focusCat, focusNum string, agg Aggregate, opts TimeseriesOptions) (string, error) {
	if !validAggregate(agg) {
		return "", fmt.Errorf("%w: %q", ErrBadAggregate, agg)
	}
	ext := opts.Ext
	if ext == "" {
		ext = "png"
	}
	var provider chart.RendererProvider
	switch ext {
	case "png":
		provider = chart.PNG
	case "svg":
		provider = chart.SVG
	default:
		return "", fmt.Errorf("%w: chart format %q", contour.ErrBadExtension, ext)
	}

	// category -> time-aligned values; steps without the category get NaN
	curves := make(map[string][]float64)
	times := s.Times()
	for n, step := range s.steps {
		grouped, err := groupStep(step, focusCat, focusNum)
		if err != nil {
			return "", err
		}
		for cat, values := range grouped {
			// steps where the category is absent stay at zero
			if _, ok := curves[cat]; !ok {
				curves[cat] = make([]float64, len(times))
			}
			curves[cat][n] = reduce(values, agg)
		}
	}

	cats := make([]string, 0, len(curves))
	for cat := range curves {
		cats = append(cats, cat)
	}
	sort.Strings(cats)

	lines := make([]chart.Series, 0, len(cats))
	for i, cat := range cats {
		lines = append(lines, chart.ContinuousSeries{
			Name:    cat,
			XValues: times,
			YValues: curves[cat],
			Style: chart.Style{
				StrokeColor: chart.GetDefaultColor(i),
				StrokeWidth: 2.0,
			},
		})
	}

	catName, numName := focusNames(focusCat, focusNum)
	title := opts.Title
	if title == "" {
		title = fmt.Sprintf("%s %s %s", catName, numName, agg)
	}
	w, h := opts.FigSizePx[0], opts.FigSizePx[1]
	if w <= 0 {
		w = 640
	}
	if h <= 0 {
		h = 480
	}

	yAxis := chart.YAxis{Name: fmt.Sprintf("%s (%s)", numName, agg)}
	if lo, hi := curveRange(curves); lo == hi {
		// a flat chart needs an explicit range to stay renderable
		yAxis.Range = &chart.ContinuousRange{Min: lo - 1, Max: hi + 1}
	}

	graph := chart.Chart{
		Title:  title,
		Width:  w,
		Height: h,
		XAxis:  chart.XAxis{Name: "time (" + s.steps[0].TimeUnit() + ")"},
		YAxis:  yAxis,
		Series: lines,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	out := filepath.Join(s.path, fmt.Sprintf("timeseries_%s_%s_%s.%s", catName, numName, agg, ext))
	f, err := os.Create(out)
	if err != nil {
		return "", fmt.Errorf("series: %w", err)
	}
	if err = graph.Render(provider, f); err != nil {
		f.Close()
		return "", fmt.Errorf("series: render %s: %w", out, err)
	}
	if err = f.Close(); err != nil {
		return "", fmt.Errorf("series: %w", err)
	}
	s.log.Info("wrote timeseries", zap.String("file", out))
	return out, nil
}

func validAggregate(agg Aggregate) bool {
	switch agg {
	case Mean, Median, Min, Max, Sum, Count:
		return true
	}
	return false
}

func focusNames(focusCat, focusNum string) (string, string) {
	if focusCat == "" {
		focusCat = "total"
	}
	if focusNum == "" {
		focusNum = "count"
	}
	return focusCat, focusNum
}

// groupStep buckets the numeric values of one snapshot by category
// label.
func groupStep(step *mcds.Snapshot, focusCat, focusNum string) (map[string][]float64, error) {
	cells := step.Cells()

	var cat *mcds.Column
	if focusCat != "" {
		var err error
		if cat, err = cells.Column(focusCat); err != nil {
			return nil, err
		}
	}
	var num *mcds.Column
	if focusNum != "" {
		var err error
		if num, err = cells.Column(focusNum); err != nil {
			return nil, err
		}
	}

	out := make(map[string][]float64)
	for r := 0; r < cells.Len(); r++ {
		key := "total"
		if cat != nil {
			key = categoryLabel(cat, r)
		}
		v := 1.0
		if num != nil {
			v = num.Float(r)
		}
		out[key] = append(out[key], v)
	}
	return out, nil
}

func categoryLabel(c *mcds.Column, r int) string {
	if c.Kind == mcds.KindString {
		return c.String(r)
	}
	return strconv.FormatFloat(c.Float(r), 'g', -1, 64)
}

// curveRange scans every curve for the global value extent.
func curveRange(curves map[string][]float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, values := range curves {
		for _, v := range values {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	return lo, hi
}

// reduce applies the aggregate to one bucket.
func reduce(values []float64, agg Aggregate) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	switch agg {
	case Count:
		return float64(len(values))
	case Sum, Mean:
		sum := 0.0
		for _, v := range values {
			sum += v
		}
		if agg == Sum {
			return sum
		}
		return sum / float64(len(values))
	case Min:
		out := values[0]
		for _, v := range values[1:] {
			if v < out {
				out = v
			}
		}
		return out
	case Max:
		out := values[0]
		for _, v := range values[1:] {
			if v > out {
				out = v
			}
		}
		return out
	default: // Median
		sorted := append([]float64(nil), values...)
		sort.Float64s(sorted)
		mid := len(sorted) / 2
		if len(sorted)%2 == 1 {
			return sorted[mid]
		}
		return (sorted[mid-1] + sorted[mid]) / 2
	}
}
