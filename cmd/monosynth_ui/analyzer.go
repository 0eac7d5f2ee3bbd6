package main

import (
	"math"
	"math/cmplx"
	"sync"

	algofft "github.com/cwbudde/algo-fft"
)

const (
	fftSize    = 2048
	ringBufLen = 16384
)

type analyzer struct {
	mu         sync.Mutex
	sampleRate int
	ring       []float32 // mono ring buffer
	writePos   int

	forward func() // FFT of frame into spec
	window  []float64
	frame   []float64
	spec    []complex128
}

func newAnalyzer(sampleRate int) (*analyzer, error) {
	plan, err := algofft.NewPlanReal64(fftSize)
	if err != nil {
		return nil, err
	}
	window := make([]float64, fftSize)
	for i := range window {
		window[i] = 0.5 * (1.0 - math.Cos(2.0*math.Pi*float64(i)/float64(fftSize-1)))
	}
	a := &analyzer{
		sampleRate: sampleRate,
		ring:       make([]float32, ringBufLen),
		window:     window,
		frame:      make([]float64, fftSize),
		spec:       make([]complex128, fftSize/2+1),
	}
	a.forward = func() { plan.Forward(a.spec, a.frame) }
	return a, nil
}

// Tap is called from the audio thread. It never waits: a buffer that arrives
// while the UI is copying is skipped.
func (a *analyzer) Tap(samples []float32) {
	if !a.mu.TryLock() {
		return
	}
	for i := 0; i+1 < len(samples); i += 2 {
		a.ring[a.writePos] = samples[i] // L == R
		a.writePos = (a.writePos + 1) % ringBufLen
	}
	a.mu.Unlock()
}

// Snapshot copies the newest n samples into dst (resized as needed).
func (a *analyzer) Snapshot(dst []float32, n int) []float32 {
	n = min(n, ringBufLen)
	if cap(dst) < n {
		dst = make([]float32, n)
	}
	dst = dst[:n]
	a.mu.Lock()
	start := (a.writePos - n + ringBufLen) % ringBufLen
	for i := 0; i < n; i++ {
		dst[i] = a.ring[(start+i)%ringBufLen]
	}
	a.mu.Unlock()
	return dst
}

// Magnitudes runs a Hann-windowed real FFT over the last fftSize samples and
// returns per-bin magnitudes normalized by the frame size. The slice is
// reused between calls.
func (a *analyzer) Magnitudes(samples []float32) []float64 {
	off := len(samples) - fftSize
	for i := range a.frame {
		a.frame[i] = float64(samples[off+i]) * a.window[i]
	}
	a.forward()
	mags := a.frame[:len(a.spec)]
	for i, c := range a.spec {
		mags[i] = cmplx.Abs(c) / fftSize
	}
	return mags
}
