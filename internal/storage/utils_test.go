package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateRunFolderPath(t *testing.T) {
	tests := []struct {
		name      string
		timestamp time.Time
		runID     string
		expected  string
	}{
		{
			name:      "standard date and time",
			timestamp: time.Date(2025, 9, 17, 14, 30, 45, 0, time.UTC),
			runID:     "a1b2c3d4",
			expected:  "2025/09/17/GmmRun-2025-09-17-14-30-45-a1b2c3d4",
		},
		{
			name:      "single digit month and day",
			timestamp: time.Date(2025, 3, 5, 8, 7, 6, 0, time.UTC),
			runID:     "ffff0000",
			expected:  "2025/03/05/GmmRun-2025-03-05-08-07-06-ffff0000",
		},
		{
			name:      "converted to UTC",
			timestamp: time.Date(2024, 12, 31, 20, 0, 0, 0, time.FixedZone("PST", -8*3600)),
			runID:     "x",
			expected:  "2025/01/01/GmmRun-2025-01-01-04-00-00-x",
		},
		{
			name:      "no run id",
			timestamp: time.Date(2024, 2, 29, 12, 15, 30, 0, time.UTC),
			expected:  "2024/02/29/GmmRun-2024-02-29-12-15-30",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GenerateRunFolderPath(tt.timestamp, tt.runID))
		})
	}
}

func TestNewRunID(t *testing.T) {
	a, b := NewRunID(), NewRunID()
	assert.Len(t, a, 8)
	assert.NotEqual(t, a, b)
}

func TestGetContentType(t *testing.T) {
	tests := map[string]string{
		"response.json": "application/json",
		"request.csv":   "text/csv",
		"index.html":    "text/html",
		"summary.md":    "text/markdown",
		"spectra.png":   "image/png",
		"SPECTRA.PNG":   "image/png",
		"notes.txt":     "text/plain",
		"blob.bin":      "application/octet-stream",
		"noextension":   "application/octet-stream",
	}
	for name, want := range tests {
		assert.Equal(t, want, GetContentType(name), name)
	}
}

func TestRunsFromObjects(t *testing.T) {
	names := []string{
		"2025/01/02/GmmRun-2025-01-02-00-00-00-b/index.html",
		"2025/01/02/GmmRun-2025-01-02-00-00-00-b/spectra.png",
		"2025/01/01/GmmRun-2025-01-01-00-00-00-a/index.html",
		"2025/01/03/GmmRun-2025-01-03-00-00-00-c/response.json",
	}

	assert.Equal(t, []string{
		"2025/01/02/GmmRun-2025-01-02-00-00-00-b",
		"2025/01/01/GmmRun-2025-01-01-00-00-00-a",
	}, runsFromObjects(names, 0))
	assert.Equal(t, []string{"2025/01/02/GmmRun-2025-01-02-00-00-00-b"}, runsFromObjects(names, 1))
	assert.Empty(t, runsFromObjects(nil, 5))
}
