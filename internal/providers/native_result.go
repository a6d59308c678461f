package providers

import (
	"fmt"

	"gmmbatch/internal/models"
)

// spectrumFromBuffers trims the native output buffers to the count the
// library reported. A count beyond the buffers means the library wanted more
// room than it was given.
func spectrumFromBuffers(n int, periods, means, sigmas []float64) (Spectrum, error) {
	if n < 0 {
		return Spectrum{}, fmt.Errorf("nshmp_gmm_spectrum returned %d", n)
	}
	capacity := min(len(periods), len(means), len(sigmas))
	if n > capacity {
		return Spectrum{}, fmt.Errorf("nshmp_gmm_spectrum reported %d periods, buffer holds %d", n, capacity)
	}
	return Spectrum{
		Periods: append([]float64(nil), periods[:n]...),
		Means:   append([]float64(nil), means[:n]...),
		Sigmas:  append([]float64(nil), sigmas[:n]...),
	}, nil
}

// inputVector returns the scenario vector passed to the native library
func inputVector(input models.Scenario) ([]float64, error) {
	vec := input.Vector()
	if len(vec) == 0 {
		return nil, fmt.Errorf("empty input vector")
	}
	return vec, nil
}
