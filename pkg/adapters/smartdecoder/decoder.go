// Package smartdecoder selects a pure-Go decoder from a stream's codec tag.
package smartdecoder

import (
	"errors"
	"fmt"

	"github.com/user/framegrab/pkg/adapters/codecdetect"
	"github.com/user/framegrab/pkg/adapters/intraframe"
	"github.com/user/framegrab/pkg/adapters/mjpegdecoder"
	"github.com/user/framegrab/pkg/adapters/rawdecoder"
	"github.com/user/framegrab/pkg/adapters/vp8decoder"
	"github.com/user/framegrab/pkg/ports"
)

// Codec represents the video codec type (re-exported from codecdetect).
type Codec = codecdetect.Codec

const (
	// CodecMJPEG represents Motion JPEG.
	CodecMJPEG = codecdetect.CodecMJPEG
	// CodecRGB24 represents uncompressed packed RGB.
	CodecRGB24 = codecdetect.CodecRGB24
	// CodecI420 represents uncompressed planar 4:2:0.
	CodecI420 = codecdetect.CodecI420
	// CodecYV12 represents uncompressed planar 4:2:0 with swapped chroma.
	CodecYV12 = codecdetect.CodecYV12
	// CodecVP8 represents VP8.
	CodecVP8 = codecdetect.CodecVP8
	// CodecUnknown represents an unknown codec.
	CodecUnknown = codecdetect.CodecUnknown
)

// Backend represents the decoding backend used.
type Backend string

const (
	// BackendImageJPEG is the standard library JPEG decoder.
	BackendImageJPEG Backend = "image/jpeg"
	// BackendRaw slices uncompressed samples.
	BackendRaw Backend = "raw"
	// BackendXImageVP8 is golang.org/x/image/vp8 (key frames only).
	BackendXImageVP8 Backend = "x/image/vp8"
)

// Info contains information about the selected decoder.
type Info struct {
	// Codec is the detected codec.
	Codec Codec
	// Backend is the decoding backend being used.
	Backend Backend
}

// ErrUnsupportedCodec is returned when no decoder handles the stream's codec.
// It wraps ports.ErrUnsupportedCodec.
var ErrUnsupportedCodec = fmt.Errorf("smartdecoder: %w", ports.ErrUnsupportedCodec)

// Factory implements ports.DecoderFactory.
type Factory struct{}

// New creates a new decoder factory.
func New() *Factory {
	return &Factory{}
}

// NewDecoder creates a decoder for the stream.
func (f *Factory) NewDecoder(stream ports.StreamInfo) (ports.Decoder, error) {
	d, _, err := NewForStream(stream)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// NewForStream creates a decoder for the stream and reports which backend serves it.
func NewForStream(stream ports.StreamInfo) (*intraframe.Decoder, Info, error) {
	codec := codecdetect.FromFourCC(stream.Codec)

	switch codec {
	case CodecMJPEG:
		info := Info{Codec: codec, Backend: BackendImageJPEG}
		return intraframe.New(mjpegdecoder.New()), info, nil

	case CodecRGB24, CodecI420, CodecYV12:
		layout := rawdecoder.LayoutRGB24
		switch codec {
		case CodecI420:
			layout = rawdecoder.LayoutI420
		case CodecYV12:
			layout = rawdecoder.LayoutYV12
		}
		raw, err := rawdecoder.New(layout, stream.Width, stream.Height)
		if err != nil {
			if errors.Is(err, rawdecoder.ErrInvalidDimensions) {
				return nil, Info{}, fmt.Errorf("%s stream #%d: %v: %w", codec, stream.Index, err, ErrUnsupportedCodec)
			}
			return nil, Info{}, err
		}
		return intraframe.New(raw), Info{Codec: codec, Backend: BackendRaw}, nil

	case CodecVP8:
		info := Info{Codec: codec, Backend: BackendXImageVP8}
		return intraframe.New(vp8decoder.New()), info, nil

	default:
		return nil, Info{}, fmt.Errorf("codec %q: %w", stream.Codec, ErrUnsupportedCodec)
	}
}

// SupportedCodecs lists the codecs this factory can decode.
func SupportedCodecs() []Codec {
	return []Codec{CodecMJPEG, CodecRGB24, CodecI420, CodecYV12, CodecVP8}
}

var _ ports.DecoderFactory = (*Factory)(nil)
