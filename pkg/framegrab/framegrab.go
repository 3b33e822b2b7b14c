// Package framegrab extracts a single RGB24 frame from an in-memory video file.
//
// The default backends are pure Go: an ISO BMFF demuxer built on mp4ff,
// intra-frame decoders for Motion JPEG, uncompressed video and VP8 key
// frames, and a BT.601 pixel converter.
package framegrab

import (
	"context"
	"fmt"

	"github.com/user/framegrab/pkg/adapters/mp4demux"
	"github.com/user/framegrab/pkg/adapters/rgbconverter"
	"github.com/user/framegrab/pkg/adapters/smartdecoder"
	"github.com/user/framegrab/pkg/extract"
	"github.com/user/framegrab/pkg/ports"
)

// version is set at build time with -ldflags "-X github.com/user/framegrab/pkg/framegrab.version=..."
var version = "0.1.0"

// Version returns the library version.
func Version() string {
	return version
}

// Option configures an Extractor created by New.
type Option func(*extract.Options)

// WithMaxPackets caps the packets read while decoding. A negative value disables the cap.
func WithMaxPackets(n int) Option {
	return func(o *extract.Options) {
		o.MaxPackets = n
	}
}

// WithLogger sets the logger for stage debug output.
func WithLogger(logger ports.Logger) Option {
	return func(o *extract.Options) {
		o.Logger = logger
	}
}

// New creates an Extractor wired with the default backends.
func New(opts ...Option) *extract.Extractor {
	var options extract.Options
	for _, opt := range opts {
		opt(&options)
	}
	return extract.New(mp4demux.New(), smartdecoder.New(), rgbconverter.New(), options)
}

var defaultExtractor = New()

// ExtractVideoFrame returns the first frame at or after t seconds as packed RGB24.
// It never panics; every failure is returned as an extract.Failure.
func ExtractVideoFrame(input []byte, t float64) extract.Result {
	return defaultExtractor.ExtractResult(context.Background(), input, t)
}

// Environment describes what the default backends can read.
type Environment struct {
	Version    string
	Containers []string
	Codecs     []string
}

// CheckEnvironment reports the supported containers and codecs, and fails
// if a decoder for any of them cannot be created.
func CheckEnvironment() (Environment, error) {
	env := Environment{
		Version:    version,
		Containers: []string{"mp4", "mov", "fmp4"},
	}

	factory := smartdecoder.New()
	for _, codec := range smartdecoder.SupportedCodecs() {
		stream := ports.StreamInfo{Type: ports.MediaVideo, Codec: codec.FourCC(), Width: 16, Height: 16}
		decoder, err := factory.NewDecoder(stream)
		if err != nil {
			return env, fmt.Errorf("decoder for %s: %w", codec, err)
		}
		decoder.Close()
		env.Codecs = append(env.Codecs, string(codec))
	}
	return env, nil
}
