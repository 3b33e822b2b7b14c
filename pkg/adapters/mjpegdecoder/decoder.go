// Package mjpegdecoder decodes Motion JPEG samples.
package mjpegdecoder

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"

	"golang.org/x/image/draw"

	"github.com/user/framegrab/pkg/ports"
)

// ErrNotJPEG is returned when a sample does not start with a JPEG SOI marker.
var ErrNotJPEG = errors.New("mjpegdecoder: sample is not a JPEG image")

// Decoder decodes each sample as a standalone JPEG image.
type Decoder struct{}

// New creates a new MJPEG decoder.
func New() *Decoder {
	return &Decoder{}
}

// DecodePacket decodes one JPEG image.
func (d *Decoder) DecodePacket(data []byte) (ports.DecodedFrame, bool, error) {
	if len(data) < 2 || data[0] != 0xFF || data[1] != 0xD8 {
		return ports.DecodedFrame{}, false, ErrNotJPEG
	}

	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		return ports.DecodedFrame{}, false, fmt.Errorf("decode jpeg: %w", err)
	}

	return FrameFromImage(img), true, nil
}

// FrameFromImage describes a decoded image as a frame without copying planar data.
// Images that are neither YCbCr nor Gray are drawn into RGBA.
func FrameFromImage(img image.Image) ports.DecodedFrame {
	b := img.Bounds()
	frame := ports.DecodedFrame{
		Width:  b.Dx(),
		Height: b.Dy(),
		Range:  ports.RangeFull,
	}

	switch m := img.(type) {
	case *image.YCbCr:
		if format, ok := subsampleFormat(m.SubsampleRatio); ok {
			yi := m.YOffset(b.Min.X, b.Min.Y)
			ci := m.COffset(b.Min.X, b.Min.Y)
			frame.Format = format
			frame.Planes = []ports.Plane{
				{Data: m.Y[yi:], Stride: m.YStride},
				{Data: m.Cb[ci:], Stride: m.CStride},
				{Data: m.Cr[ci:], Stride: m.CStride},
			}
			return frame
		}
	case *image.Gray:
		frame.Format = ports.PixelFormatGray8
		frame.Planes = []ports.Plane{{Data: m.Pix[m.PixOffset(b.Min.X, b.Min.Y):], Stride: m.Stride}}
		return frame
	}

	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	frame.Format = ports.PixelFormatRGBA
	frame.Planes = []ports.Plane{{Data: rgba.Pix, Stride: rgba.Stride}}
	return frame
}

func subsampleFormat(r image.YCbCrSubsampleRatio) (ports.PixelFormat, bool) {
	switch r {
	case image.YCbCrSubsampleRatio444:
		return ports.PixelFormatYUV444P, true
	case image.YCbCrSubsampleRatio422:
		return ports.PixelFormatYUV422P, true
	case image.YCbCrSubsampleRatio420:
		return ports.PixelFormatYUV420P, true
	case image.YCbCrSubsampleRatio440:
		return ports.PixelFormatYUV440P, true
	case image.YCbCrSubsampleRatio411:
		return ports.PixelFormatYUV411P, true
	case image.YCbCrSubsampleRatio410:
		return ports.PixelFormatYUV410P, true
	default:
		return ports.PixelFormatUnknown, false
	}
}
