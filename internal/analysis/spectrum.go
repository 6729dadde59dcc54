package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns the magnitude of the first half of the FFT of data,
// after removing its mean and zero padding it to a power of two.
func PowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}

	n := 1
	for n < len(data) {
		n *= 2
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	padded := make([]float64, n)
	for i, v := range data {
		padded[i] = v - mean
	}

	spectrum := fft.FFTReal(padded)
	ps := make([]float64, n/2+1)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantFrequency returns the frequency in hz of the strongest non-DC
// bin of data sampled every dt seconds, with its magnitude. Signals shorter
// than four samples or without variation report zero.
func DominantFrequency(data []float64, dt float64) (float64, float64) {
	if len(data) < 4 || dt <= 0 {
		return 0, 0
	}

	ps := PowerSpectrum(data)
	maxIdx := 0
	maxPower := 0.0
	for i := 1; i < len(ps); i++ {
		if ps[i] > maxPower {
			maxPower = ps[i]
			maxIdx = i
		}
	}
	if maxIdx == 0 || maxPower < 1e-9 {
		return 0, 0
	}

	n := 2 * (len(ps) - 1)
	return float64(maxIdx) / (float64(n) * dt), maxPower
}
