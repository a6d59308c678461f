package charts

// ChartGenerator renders spectrum charts for a batch
type ChartGenerator struct {
	title string
}

// NewChartGenerator creates a generator; title labels every chart
func NewChartGenerator(title string) *ChartGenerator {
	if title == "" {
		title = "Response Spectra"
	}
	return &ChartGenerator{title: title}
}
