package models

import (
	"strconv"
	"strings"
)

// ImtPeriod returns the spectral period in seconds for an IMT id.
// PGA maps to 0; SA0P2 style ids map to their period. Other IMTs
// (PGV, AI, ...) have no period.
func ImtPeriod(imt string) (float64, bool) {
	id := strings.ToUpper(strings.TrimSpace(imt))
	if id == "PGA" {
		return 0, true
	}
	if !strings.HasPrefix(id, "SA") {
		return 0, false
	}
	p, err := strconv.ParseFloat(strings.Replace(id[2:], "P", ".", 1), 64)
	if err != nil {
		return 0, false
	}
	return p, true
}
