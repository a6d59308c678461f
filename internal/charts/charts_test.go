package charts

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gmmbatch/internal/models"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func sampleRows() []models.RowSpectra {
	periods := []float64{0, 0.1, 0.2, 1.0}
	var rows []models.RowSpectra
	for i, offset := range []float64{0, -0.45, -0.9} {
		means := make([]float64, len(periods))
		for k, p := range periods {
			means[k] = -1 + offset - p
		}
		rows = append(rows, models.RowSpectra{
			Index: i,
			Spectra: []models.SpectrumResult{{
				Model:   "AB_06_PRIME",
				Periods: periods,
				Means:   means,
				Sigmas:  []float64{0.6, 0.61, 0.62, 0.7},
			}},
		})
	}
	return rows
}

func TestRenderSpectraPNG(t *testing.T) {
	cg := NewChartGenerator("")

	img, err := cg.RenderSpectraPNG(sampleRows())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(img, pngMagic))
}

func TestRenderSpectraPNGSinglePeriod(t *testing.T) {
	rows := []models.RowSpectra{{
		Spectra: []models.SpectrumResult{{
			Model: "AB_06_PRIME", Periods: []float64{0.2}, Means: []float64{math.Log(0.3)}, Sigmas: []float64{0.6},
		}},
	}}

	img, err := NewChartGenerator("SA0P2").RenderSpectraPNG(rows)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(img, pngMagic))
}

func TestRenderSpectraPNGEmpty(t *testing.T) {
	_, err := NewChartGenerator("").RenderSpectraPNG(nil)
	assert.Error(t, err)
}

func TestRenderSpectraHTML(t *testing.T) {
	page, err := NewChartGenerator("Dip sweep").RenderSpectraHTML(sampleRows())
	require.NoError(t, err)

	assert.Contains(t, page, "echarts")
	assert.Contains(t, page, "Dip sweep")
	for i := 0; i < 3; i++ {
		assert.Contains(t, page, SeriesName(i, "AB_06_PRIME"))
	}
}

func TestRenderSpectraHTMLEmpty(t *testing.T) {
	_, err := NewChartGenerator("").RenderSpectraHTML([]models.RowSpectra{{Index: 0}})
	assert.Error(t, err)
}

func TestSeriesName(t *testing.T) {
	assert.Equal(t, "Row 1 AB_06_PRIME", SeriesName(0, "AB_06_PRIME"))
}
