package charts

import (
	"bytes"
	"fmt"

	echarts "github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"gmmbatch/internal/models"
)

// RenderSpectraHTML builds a standalone interactive page with one line per
// row and model. Periods go on a value axis so uneven spacing is preserved.
func (cg *ChartGenerator) RenderSpectraHTML(rows []models.RowSpectra) (string, error) {
	line := echarts.NewLine()
	line.SetGlobalOptions(
		echarts.WithInitializationOpts(opts.Initialization{
			PageTitle: cg.title,
			Theme:     types.ThemeWesteros,
			Width:     "900px",
			Height:    "500px",
		}),
		echarts.WithTitleOpts(opts.Title{
			Title:    cg.title,
			Subtitle: "Median ground motion by period",
		}),
		echarts.WithTooltipOpts(opts.Tooltip{Show: true, Trigger: "axis"}),
		echarts.WithLegendOpts(opts.Legend{Show: true, Top: "bottom"}),
		echarts.WithXAxisOpts(opts.XAxis{Name: "Period (s)", Type: "value"}),
		echarts.WithYAxisOpts(opts.YAxis{Name: "Median (g)", Type: "value"}),
	)

	count := 0
	for _, row := range rows {
		for _, spec := range row.Spectra {
			medians := spec.Medians()
			points := make([]opts.LineData, spec.Len())
			for i, p := range spec.Periods {
				points[i] = opts.LineData{Value: []float64{p, medians[i]}}
			}
			line.AddSeries(SeriesName(row.Index, spec.Model), points)
			count++
		}
	}
	if count == 0 {
		return "", fmt.Errorf("no spectra to chart")
	}
	line.SetSeriesOptions(echarts.WithLineChartOpts(opts.LineChart{ShowSymbol: true}))

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		return "", fmt.Errorf("failed to render interactive chart: %w", err)
	}
	return buf.String(), nil
}
