//go:build cgo_nshmp

package providers

/*
#cgo LDFLAGS: -ldl
#include <dlfcn.h>
#include <stdlib.h>

// int nshmp_gmm_spectrum(gmm, input, n_input, periods, means, sigmas, capacity)
// returns the number of periods written, or a negative error code.
typedef int (*nshmp_spectrum_fn)(const char*, const double*, int, double*, double*, double*, int);

// int nshmp_gmm_calc(gmm, imt, input, n_input, mean, sigma) returns 0 on success.
typedef int (*nshmp_calc_fn)(const char*, const char*, const double*, int, double*, double*);

static int call_spectrum(void* fn, const char* gmm, const double* in, int n,
		double* periods, double* means, double* sigmas, int capacity) {
	return ((nshmp_spectrum_fn)fn)(gmm, in, n, periods, means, sigmas, capacity);
}

static int call_calc(void* fn, const char* gmm, const char* imt, const double* in, int n,
		double* mean, double* sigma) {
	return ((nshmp_calc_fn)fn)(gmm, imt, in, n, mean, sigma);
}
*/
import "C"

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unsafe"

	"gmmbatch/internal/models"
)

const maxSpectrumPeriods = 128

// nativeLibrary calls a shared object exporting the nshmp GMM C symbols
type nativeLibrary struct {
	mu       sync.Mutex
	path     string
	handle   unsafe.Pointer
	spectrum unsafe.Pointer
	calc     unsafe.Pointer
}

// OpenLibrary loads the native GMM library from path
func OpenLibrary(path string) (Library, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("%w: failed to get home directory: %w", models.ErrTransport, err)
		}
		path = filepath.Join(home, path[1:])
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %w: %w", models.ErrTransport, ErrLibraryUnavailable, err)
	}

	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))

	handle := C.dlopen(cpath, C.RTLD_NOW|C.RTLD_LOCAL)
	if handle == nil {
		return nil, fmt.Errorf("%w: %w: %s", models.ErrTransport, ErrLibraryUnavailable, C.GoString(C.dlerror()))
	}

	lib := &nativeLibrary{path: path, handle: handle}
	for name, dst := range map[string]*unsafe.Pointer{
		"nshmp_gmm_spectrum": &lib.spectrum,
		"nshmp_gmm_calc":     &lib.calc,
	} {
		cname := C.CString(name)
		sym := C.dlsym(handle, cname)
		C.free(unsafe.Pointer(cname))
		if sym == nil {
			C.dlclose(handle)
			return nil, fmt.Errorf("%w: %w: symbol %s not found in %s", models.ErrTransport, ErrLibraryUnavailable, name, path)
		}
		*dst = sym
	}
	return lib, nil
}

// Spectrum implements Library
func (l *nativeLibrary) Spectrum(gmm string, input models.Scenario) (Spectrum, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	vec, err := inputVector(input)
	if err != nil {
		return Spectrum{}, err
	}
	periods := make([]float64, maxSpectrumPeriods)
	means := make([]float64, maxSpectrumPeriods)
	sigmas := make([]float64, maxSpectrumPeriods)

	cgmm := C.CString(gmm)
	defer C.free(unsafe.Pointer(cgmm))

	n := C.call_spectrum(l.spectrum, cgmm,
		(*C.double)(unsafe.Pointer(&vec[0])), C.int(len(vec)),
		(*C.double)(unsafe.Pointer(&periods[0])),
		(*C.double)(unsafe.Pointer(&means[0])),
		(*C.double)(unsafe.Pointer(&sigmas[0])),
		C.int(maxSpectrumPeriods))
	return spectrumFromBuffers(int(n), periods, means, sigmas)
}

// GroundMotion implements Library
func (l *nativeLibrary) GroundMotion(gmm, imt string, input models.Scenario) (GroundMotion, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	vec, err := inputVector(input)
	if err != nil {
		return GroundMotion{}, err
	}
	var mean, sigma C.double

	cgmm := C.CString(gmm)
	defer C.free(unsafe.Pointer(cgmm))
	cimt := C.CString(imt)
	defer C.free(unsafe.Pointer(cimt))

	rc := C.call_calc(l.calc, cgmm, cimt,
		(*C.double)(unsafe.Pointer(&vec[0])), C.int(len(vec)),
		&mean, &sigma)
	if rc != 0 {
		return GroundMotion{}, fmt.Errorf("nshmp_gmm_calc returned %d", int(rc))
	}
	return GroundMotion{Mean: float64(mean), Sigma: float64(sigma)}, nil
}

// Close implements Library
func (l *nativeLibrary) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.handle != nil {
		C.dlclose(l.handle)
		l.handle = nil
	}
	return nil
}
