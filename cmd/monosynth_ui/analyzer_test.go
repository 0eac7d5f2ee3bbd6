package main

import (
	"math"
	"testing"
)

func TestAnalyzerSnapshotReturnsNewest(t *testing.T) {
	a, err := newAnalyzer(48000)
	if err != nil {
		t.Fatalf("new analyzer: %v", err)
	}
	stereo := make([]float32, 0, 2*(ringBufLen+10))
	for i := 0; i < ringBufLen+10; i++ {
		stereo = append(stereo, float32(i), float32(i))
	}
	a.Tap(stereo)
	snap := a.Snapshot(nil, 4)
	for i, v := range snap {
		if want := float32(ringBufLen + 6 + i); v != want {
			t.Fatalf("snap[%d]=%v want %v", i, v, want)
		}
	}
}

func TestAnalyzerMagnitudesPeakAtTone(t *testing.T) {
	a, err := newAnalyzer(48000)
	if err != nil {
		t.Fatalf("new analyzer: %v", err)
	}
	const bin = 100
	samples := make([]float32, fftSize)
	for i := range samples {
		samples[i] = float32(math.Sin(2 * math.Pi * bin * float64(i) / fftSize))
	}
	mags := a.Magnitudes(samples)
	best := 0
	for i := range mags {
		if mags[i] > mags[best] {
			best = i
		}
	}
	if best != bin {
		t.Fatalf("peak bin=%d want %d", best, bin)
	}
}
