package reports

import (
	"fmt"
	"strings"
	"time"

	"gmmbatch/internal/client"
	"gmmbatch/internal/models"
)

// RunInfo describes one completed batch for reporting
type RunInfo struct {
	ID        string
	Timestamp time.Time
	InputFile string
	Service   models.Service
	Version   string
	Batch     *client.Batch
}

// BuildSummaryMarkdown renders run metadata, the model selection and the
// resolved input of every row as markdown.
func BuildSummaryMarkdown(run *RunInfo) string {
	var b strings.Builder
	batch := run.Batch

	fmt.Fprintf(&b, "# GMM Batch Run %s\n\n", run.ID)
	fmt.Fprintf(&b, "- **Generated:** %s\n", run.Timestamp.UTC().Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(&b, "- **Provider:** %s\n", batch.Provider)
	fmt.Fprintf(&b, "- **Service:** %s\n", run.Service)
	if run.InputFile != "" {
		fmt.Fprintf(&b, "- **Input:** `%s`\n", run.InputFile)
	}
	fmt.Fprintf(&b, "- **Models:** %s\n", strings.Join(batch.Payload.Selection.Models, ", "))
	imt := batch.Payload.Selection.IMT
	if imt == "" {
		imt = "spectrum"
	}
	fmt.Fprintf(&b, "- **IMT:** %s\n", imt)
	fmt.Fprintf(&b, "- **Rows:** %d\n", len(batch.Rows))
	if run.Version != "" {
		fmt.Fprintf(&b, "- **Version:** %s\n", run.Version)
	}

	b.WriteString("\n## Resolved inputs\n\n")
	b.WriteString("| Row |")
	for _, f := range models.Fields {
		fmt.Fprintf(&b, " %s |", f.ID)
	}
	b.WriteString("\n|---|")
	for range models.Fields {
		b.WriteString("---|")
	}
	b.WriteString("\n")
	for _, row := range batch.Rows {
		fmt.Fprintf(&b, "| %d |", row.Index+1)
		for _, f := range models.Fields {
			v, ok := row.Request.Input[f.ID]
			cell := "-"
			if ok {
				cell = v.Format(f.ID)
			}
			fmt.Fprintf(&b, " %s |", cell)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n## Spectra\n\n")
	b.WriteString("| Row | Model | Periods | Min period (s) | Max period (s) | Peak median (g) |\n")
	b.WriteString("|---|---|---|---|---|---|\n")
	for _, row := range batch.Rows {
		for _, spec := range row.Spectra {
			peak := 0.0
			for _, m := range spec.Medians() {
				if m > peak {
					peak = m
				}
			}
			fmt.Fprintf(&b, "| %d | %s | %d | %g | %g | %.4g |\n",
				row.Index+1, spec.Model, spec.Len(), spec.Periods[0], spec.Periods[spec.Len()-1], peak)
		}
	}
	return b.String()
}
