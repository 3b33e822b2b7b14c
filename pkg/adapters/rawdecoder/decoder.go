// Package rawdecoder decodes uncompressed video samples.
package rawdecoder

import (
	"errors"
	"fmt"

	"github.com/user/framegrab/pkg/ports"
)

// Layout is the memory layout of an uncompressed sample.
type Layout int

const (
	// LayoutRGB24 is packed 8-bit RGB, rows optionally padded.
	LayoutRGB24 Layout = iota
	// LayoutI420 is planar 4:2:0 in Y, U, V order.
	LayoutI420
	// LayoutYV12 is planar 4:2:0 in Y, V, U order.
	LayoutYV12
)

var (
	// ErrInvalidDimensions is returned for non-positive frame sizes.
	ErrInvalidDimensions = errors.New("rawdecoder: invalid dimensions")
	// ErrShortSample is returned when a sample is smaller than one frame.
	ErrShortSample = errors.New("rawdecoder: sample too short")
)

// Decoder slices raw samples into frame planes.
type Decoder struct {
	layout Layout
	width  int
	height int
}

// New creates a decoder for frames of the given layout and size.
func New(layout Layout, width, height int) (*Decoder, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%dx%d: %w", width, height, ErrInvalidDimensions)
	}
	return &Decoder{layout: layout, width: width, height: height}, nil
}

// DecodePacket returns a frame referencing a copy of data.
func (d *Decoder) DecodePacket(data []byte) (ports.DecodedFrame, bool, error) {
	frame := ports.DecodedFrame{
		Width:  d.width,
		Height: d.height,
		Range:  ports.RangeLimited,
	}

	switch d.layout {
	case LayoutRGB24:
		rowLen := d.width * 3
		if len(data) < rowLen*d.height {
			return frame, false, fmt.Errorf("%d bytes for %dx%d rgb24: %w", len(data), d.width, d.height, ErrShortSample)
		}
		// Rows are padded when the sample is larger than the packed frame
		stride := len(data) / d.height
		frame.Format = ports.PixelFormatRGB24
		frame.Range = ports.RangeFull
		frame.Planes = []ports.Plane{{Data: clone(data[:stride*d.height]), Stride: stride}}

	case LayoutI420, LayoutYV12:
		cw, ch := (d.width+1)/2, (d.height+1)/2
		ySize, cSize := d.width*d.height, cw*ch
		if len(data) < ySize+2*cSize {
			return frame, false, fmt.Errorf("%d bytes for %dx%d yuv420p: %w", len(data), d.width, d.height, ErrShortSample)
		}
		buf := clone(data[:ySize+2*cSize])
		y := ports.Plane{Data: buf[:ySize], Stride: d.width}
		first := ports.Plane{Data: buf[ySize : ySize+cSize], Stride: cw}
		second := ports.Plane{Data: buf[ySize+cSize:], Stride: cw}
		frame.Format = ports.PixelFormatYUV420P
		if d.layout == LayoutI420 {
			frame.Planes = []ports.Plane{y, first, second}
		} else {
			frame.Planes = []ports.Plane{y, second, first}
		}

	default:
		return frame, false, fmt.Errorf("rawdecoder: unknown layout %d", d.layout)
	}

	return frame, true, nil
}

// The container buffer is caller-owned, so frames never alias it.
func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
