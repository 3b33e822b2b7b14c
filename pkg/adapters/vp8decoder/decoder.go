// Package vp8decoder decodes VP8 key frames with golang.org/x/image/vp8.
// Inter frames are skipped: they yield no picture and no error.
package vp8decoder

import (
	"bytes"
	"fmt"
	"image"

	"golang.org/x/image/vp8"

	"github.com/user/framegrab/pkg/ports"
)

// Decoder decodes VP8 key frames.
type Decoder struct {
	dec *vp8.Decoder
}

// New creates a new VP8 decoder.
func New() *Decoder {
	return &Decoder{dec: vp8.NewDecoder()}
}

// DecodePacket decodes one VP8 frame.
func (d *Decoder) DecodePacket(data []byte) (ports.DecodedFrame, bool, error) {
	d.dec.Init(bytes.NewReader(data), len(data))

	fh, err := d.dec.DecodeFrameHeader()
	if err != nil {
		return ports.DecodedFrame{}, false, fmt.Errorf("decode vp8 header: %w", err)
	}
	if !fh.KeyFrame {
		return ports.DecodedFrame{}, false, nil
	}

	img, err := d.dec.DecodeFrame()
	if err != nil {
		return ports.DecodedFrame{}, false, fmt.Errorf("decode vp8 frame: %w", err)
	}

	return copyFrame(img), true, nil
}

// copyFrame packs the visible area into fresh planes. The vp8 decoder
// reuses its image between frames and pads it to whole macroblocks.
func copyFrame(img *image.YCbCr) ports.DecodedFrame {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	cw, ch := (w+1)/2, (h+1)/2

	y := make([]byte, w*h)
	for row := 0; row < h; row++ {
		src := img.YOffset(b.Min.X, b.Min.Y+row)
		copy(y[row*w:(row+1)*w], img.Y[src:src+w])
	}

	cb := make([]byte, cw*ch)
	cr := make([]byte, cw*ch)
	for row := 0; row < ch; row++ {
		src := img.COffset(b.Min.X, b.Min.Y+row*2)
		copy(cb[row*cw:(row+1)*cw], img.Cb[src:src+cw])
		copy(cr[row*cw:(row+1)*cw], img.Cr[src:src+cw])
	}

	return ports.DecodedFrame{
		Width:  w,
		Height: h,
		Format: ports.PixelFormatYUV420P,
		Range:  ports.RangeLimited,
		Planes: []ports.Plane{
			{Data: y, Stride: w},
			{Data: cb, Stride: cw},
			{Data: cr, Stride: cw},
		},
	}
}
