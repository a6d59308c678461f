package storage

import (
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// IndexFile marks a completed run folder
const IndexFile = "index.html"

// NewRunID returns a short random identifier for a run
func NewRunID() string {
	return strings.SplitN(uuid.NewString(), "-", 2)[0]
}

// GenerateRunFolderPath generates the folder a run is stored under.
// Format: YYYY/MM/DD/GmmRun-YYYY-MM-DD-HH-MM-SS-<id>
func GenerateRunFolderPath(timestamp time.Time, runID string) string {
	timestamp = timestamp.UTC()
	folder := fmt.Sprintf("%04d/%02d/%02d/GmmRun-%04d-%02d-%02d-%02d-%02d-%02d",
		timestamp.Year(), timestamp.Month(), timestamp.Day(),
		timestamp.Year(), timestamp.Month(), timestamp.Day(),
		timestamp.Hour(), timestamp.Minute(), timestamp.Second())
	if runID != "" {
		folder += "-" + runID
	}
	return folder
}

// GetContentType determines the MIME content type based on file extension
func GetContentType(filename string) string {
	switch strings.ToLower(path.Ext(filename)) {
	case ".json":
		return "application/json"
	case ".csv":
		return "text/csv"
	case ".txt":
		return "text/plain"
	case ".html":
		return "text/html"
	case ".md":
		return "text/markdown"
	case ".png":
		return "image/png"
	default:
		return "application/octet-stream"
	}
}

// runsFromObjects keeps the folders of index files, newest first
func runsFromObjects(names []string, limit int) []string {
	var runs []string
	for _, name := range names {
		if path.Base(name) == IndexFile {
			runs = append(runs, path.Dir(name))
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(runs)))
	if limit > 0 && limit < len(runs) {
		runs = runs[:limit]
	}
	return runs
}
