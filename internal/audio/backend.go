package audio

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownBackend is returned for a backend name that is not compiled in.
var ErrUnknownBackend = errors.New("audio: unknown backend")

// Backend names a real-time output implementation.
type Backend string

const (
	BackendEbiten Backend = "ebiten"
	BackendOto    Backend = "oto"
)

func ParseBackend(name string) (Backend, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(name))); b {
	case BackendEbiten, BackendOto:
		return b, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
}

// Output is a running device stream.
type Output interface {
	Play()
	Pause()
	IsPlaying() bool
	Stop() error
}

// Open creates a paused output for source on the chosen backend.
func Open(backend Backend, sampleRate int, source SampleSource) (Output, error) {
	switch backend {
	case BackendEbiten:
		return NewPlayer(sampleRate, source)
	case BackendOto:
		return NewOtoPlayer(sampleRate, source)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}
