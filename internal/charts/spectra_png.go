package charts

import (
	"bytes"
	"fmt"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"gmmbatch/internal/models"
)

const (
	pngWidth  = 900
	pngHeight = 500
)

// SeriesName labels one (row, model) curve
func SeriesName(row int, model string) string {
	return fmt.Sprintf("Row %d %s", row+1, model)
}

// RenderSpectraPNG draws median spectra, one line per row and model
func (cg *ChartGenerator) RenderSpectraPNG(rows []models.RowSpectra) ([]byte, error) {
	var series []chart.Series
	xMin, xMax := math.Inf(1), math.Inf(-1)
	yMax := 0.0

	i := 0
	for _, row := range rows {
		for _, spec := range row.Spectra {
			if spec.Len() == 0 {
				continue
			}
			medians := spec.Medians()
			for k, p := range spec.Periods {
				xMin = math.Min(xMin, p)
				xMax = math.Max(xMax, p)
				yMax = math.Max(yMax, medians[k])
			}

			color := chart.GetDefaultColor(i)
			series = append(series, chart.ContinuousSeries{
				Name: SeriesName(row.Index, spec.Model),
				Style: chart.Style{
					StrokeColor: color,
					StrokeWidth: 2,
					DotColor:    color,
					DotWidth:    3,
				},
				XValues: spec.Periods,
				YValues: medians,
			})
			i++
		}
	}
	if len(series) == 0 {
		return nil, fmt.Errorf("no spectra to chart")
	}

	// go-chart refuses a zero-width range, which a single IMT produces
	if xMax-xMin == 0 {
		xMin, xMax = xMin-0.5, xMax+0.5
	}
	if yMax == 0 {
		yMax = 1
	}

	graph := chart.Chart{
		Title: cg.title,
		TitleStyle: chart.Style{
			FontSize:  14,
			FontColor: drawing.ColorBlack,
		},
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		Width:  pngWidth,
		Height: pngHeight,
		XAxis: chart.XAxis{
			Name:      "Period (s)",
			NameStyle: chart.Style{FontSize: 11},
			Style:     chart.Style{FontSize: 9},
			Range:     &chart.ContinuousRange{Min: xMin, Max: xMax},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.2f", f)
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			Name:      "Median ground motion (g)",
			NameStyle: chart.Style{FontSize: 11},
			Style:     chart.Style{FontSize: 9},
			Range:     &chart.ContinuousRange{Min: 0, Max: yMax * 1.1},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.3f", f)
				}
				return ""
			},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render spectra chart: %w", err)
	}
	return buf.Bytes(), nil
}
