package reports

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"gmmbatch/internal/charts"
	"gmmbatch/internal/logger"
	"gmmbatch/internal/models"
	"gmmbatch/internal/storage"
)

// Output file names within a run folder
const (
	RequestFile   = "request.csv"
	ResponseFile  = "response.json"
	SpectraJSON   = "spectra.json"
	SpectraCSV    = "spectra.csv"
	SpectraPNG    = "spectra.png"
	SpectraHTML   = "spectra_chart.html"
	SummaryFile   = "summary.md"
	IndexHTMLFile = storage.IndexFile
)

// GeneratedFiles holds every file produced for one run
type GeneratedFiles struct {
	FolderPath string
	Files      map[string][]byte
}

// Names returns the file names in a stable order with the index last
func (g *GeneratedFiles) Names() []string {
	names := make([]string, 0, len(g.Files))
	for name := range g.Files {
		if name != IndexHTMLFile {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	if _, ok := g.Files[IndexHTMLFile]; ok {
		names = append(names, IndexHTMLFile)
	}
	return names
}

// FileGenerator produces the files of a run from its batch
type FileGenerator struct {
	charts *charts.ChartGenerator
	html   *HTMLBuilder
}

// NewFileGenerator creates a new file generator
func NewFileGenerator(chartGen *charts.ChartGenerator) *FileGenerator {
	return &FileGenerator{
		charts: chartGen,
		html:   NewHTMLBuilder(),
	}
}

// Generate builds request, response, spectra, charts and the index page.
// Chart failures are logged and the page is built without them.
func (fg *FileGenerator) Generate(run *RunInfo) (*GeneratedFiles, error) {
	if run.Batch == nil {
		return nil, fmt.Errorf("run %s has no batch", run.ID)
	}
	batch := run.Batch

	files := &GeneratedFiles{
		FolderPath: storage.GenerateRunFolderPath(run.Timestamp, run.ID),
		Files:      make(map[string][]byte),
	}

	files.Files[RequestFile] = batch.Payload.Body

	resp, err := json.MarshalIndent(batch.Response, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode response: %w", err)
	}
	files.Files[ResponseFile] = resp

	spectra, err := json.MarshalIndent(batch.Rows, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode spectra: %w", err)
	}
	files.Files[SpectraJSON] = spectra

	table, err := SpectraTable(batch.Rows)
	if err != nil {
		return nil, err
	}
	files.Files[SpectraCSV] = table

	page := PageData{Version: run.Version, GeneratedAt: run.Timestamp.UTC().Format("2006-01-02 15:04:05 UTC")}
	if img, err := fg.charts.RenderSpectraPNG(batch.Rows); err != nil {
		logger.Warn("Failed to render spectra PNG", map[string]interface{}{"error": err.Error()})
	} else {
		files.Files[SpectraPNG] = img
		page.ImageFile = SpectraPNG
	}
	if chart, err := fg.charts.RenderSpectraHTML(batch.Rows); err != nil {
		logger.Warn("Failed to render interactive chart", map[string]interface{}{"error": err.Error()})
	} else {
		files.Files[SpectraHTML] = []byte(chart)
		page.ChartFile = SpectraHTML
	}

	summary := BuildSummaryMarkdown(run)
	files.Files[SummaryFile] = []byte(summary)

	page.Title = "GMM Batch Run " + run.ID
	page.Files = files.Names()
	index, err := fg.html.BuildPage(summary, page)
	if err != nil {
		return nil, fmt.Errorf("failed to build index page: %w", err)
	}
	files.Files[IndexHTMLFile] = []byte(index)

	logger.Debug("Generated run files", map[string]interface{}{
		"folder": files.FolderPath,
		"files":  len(files.Files),
	})
	return files, nil
}

// SpectraTable writes one CSV record per (row, model, period)
func SpectraTable(rows []models.RowSpectra) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write([]string{"row", "gmm", "period", "mean_ln", "median_g", "sigma"})

	format := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	for _, row := range rows {
		for _, spec := range row.Spectra {
			medians := spec.Medians()
			for i := range spec.Periods {
				w.Write([]string{
					strconv.Itoa(row.Index),
					spec.Model,
					format(spec.Periods[i]),
					format(spec.Means[i]),
					format(medians[i]),
					format(spec.Sigmas[i]),
				})
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to write spectra CSV: %w", err)
	}
	return buf.Bytes(), nil
}
