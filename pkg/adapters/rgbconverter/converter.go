// Package rgbconverter converts decoded frames to packed 8-bit RGB.
package rgbconverter

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/user/framegrab/pkg/ports"
)

// Converter implements ports.PixelConverter.
type Converter struct{}

// New creates a new converter.
func New() *Converter {
	return &Converter{}
}

// chroma subsampling as log2 shifts
type subsampling struct {
	sx, sy uint
}

var yuvFormats = map[ports.PixelFormat]subsampling{
	ports.PixelFormatYUV444P: {0, 0},
	ports.PixelFormatYUV422P: {1, 0},
	ports.PixelFormatYUV420P: {1, 1},
	ports.PixelFormatYUV440P: {0, 1},
	ports.PixelFormatYUV411P: {2, 0},
	ports.PixelFormatYUV410P: {2, 1},
}

// ToRGB24 returns width*height*3 bytes of RGB with no row padding.
func (c *Converter) ToRGB24(frame ports.DecodedFrame) ([]byte, error) {
	w, h := frame.Width, frame.Height
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%dx%d frame: %w", w, h, ports.ErrUnsupportedPixelFormat)
	}

	if ss, ok := yuvFormats[frame.Format]; ok {
		return yuvToRGB(frame, ss)
	}

	switch frame.Format {
	case ports.PixelFormatRGB24:
		return packedToRGB(frame, 3)
	case ports.PixelFormatRGBA:
		return packedToRGB(frame, 4)
	case ports.PixelFormatNRGBA:
		return nrgbaToRGB(frame)
	case ports.PixelFormatGray8:
		return grayToRGB(frame)
	default:
		return nil, fmt.Errorf("%s: %w", frame.Format, ports.ErrUnsupportedPixelFormat)
	}
}

func yuvToRGB(frame ports.DecodedFrame, ss subsampling) ([]byte, error) {
	w, h := frame.Width, frame.Height
	if len(frame.Planes) < 3 {
		return nil, fmt.Errorf("%s with %d planes: %w", frame.Format, len(frame.Planes), ports.ErrUnsupportedPixelFormat)
	}
	cw := (w + (1 << ss.sx) - 1) >> ss.sx
	ch := (h + (1 << ss.sy) - 1) >> ss.sy
	yp, up, vp := frame.Planes[0], frame.Planes[1], frame.Planes[2]
	if err := checkPlane(yp, w, h, 1); err != nil {
		return nil, err
	}
	if err := checkPlane(up, cw, ch, 1); err != nil {
		return nil, err
	}
	if err := checkPlane(vp, cw, ch, 1); err != nil {
		return nil, err
	}

	out := make([]byte, w*h*3)
	full := frame.Range == ports.RangeFull
	for y := 0; y < h; y++ {
		yRow := y * yp.Stride
		uRow := (y >> ss.sy) * up.Stride
		vRow := (y >> ss.sy) * vp.Stride
		for x := 0; x < w; x++ {
			yVal := yp.Data[yRow+x]
			uVal := up.Data[uRow+(x>>ss.sx)]
			vVal := vp.Data[vRow+(x>>ss.sx)]

			idx := (y*w + x) * 3
			if full {
				out[idx], out[idx+1], out[idx+2] = color.YCbCrToRGB(yVal, uVal, vVal)
				continue
			}
			r, g, b := limitedToRGB(int(yVal), int(uVal), int(vVal))
			out[idx], out[idx+1], out[idx+2] = r, g, b
		}
	}
	return out, nil
}

// limitedToRGB applies BT.601 video-range coefficients in 8.8 fixed point.
func limitedToRGB(yVal, uVal, vVal int) (uint8, uint8, uint8) {
	c := yVal - 16
	d := uVal - 128
	e := vVal - 128

	r := clamp((298*c + 409*e + 128) >> 8)
	g := clamp((298*c - 100*d - 208*e + 128) >> 8)
	b := clamp((298*c + 516*d + 128) >> 8)
	return uint8(r), uint8(g), uint8(b)
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

func packedToRGB(frame ports.DecodedFrame, bpp int) ([]byte, error) {
	w, h := frame.Width, frame.Height
	if len(frame.Planes) < 1 {
		return nil, fmt.Errorf("%s without planes: %w", frame.Format, ports.ErrUnsupportedPixelFormat)
	}
	p := frame.Planes[0]
	if err := checkPlane(p, w, h, bpp); err != nil {
		return nil, err
	}

	out := make([]byte, w*h*3)
	if bpp == 3 {
		for y := 0; y < h; y++ {
			copy(out[y*w*3:(y+1)*w*3], p.Data[y*p.Stride:y*p.Stride+w*3])
		}
		return out, nil
	}

	for y := 0; y < h; y++ {
		src := p.Data[y*p.Stride:]
		dst := out[y*w*3:]
		for x := 0; x < w; x++ {
			copy(dst[x*3:x*3+3], src[x*bpp:x*bpp+3])
		}
	}
	return out, nil
}

// nrgbaToRGB composites non-premultiplied pixels over black.
func nrgbaToRGB(frame ports.DecodedFrame) ([]byte, error) {
	w, h := frame.Width, frame.Height
	if len(frame.Planes) < 1 {
		return nil, fmt.Errorf("nrgba without planes: %w", ports.ErrUnsupportedPixelFormat)
	}
	p := frame.Planes[0]
	if err := checkPlane(p, w, h, 4); err != nil {
		return nil, err
	}

	src := &image.NRGBA{Pix: p.Data, Stride: p.Stride, Rect: image.Rect(0, 0, w, h)}
	dst := image.NewRGBA(src.Rect)
	draw.Draw(dst, dst.Bounds(), image.Black, image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), src, image.Point{}, draw.Over)

	return packedToRGB(ports.DecodedFrame{
		Width:  w,
		Height: h,
		Format: ports.PixelFormatRGBA,
		Planes: []ports.Plane{{Data: dst.Pix, Stride: dst.Stride}},
	}, 4)
}

func grayToRGB(frame ports.DecodedFrame) ([]byte, error) {
	w, h := frame.Width, frame.Height
	if len(frame.Planes) < 1 {
		return nil, fmt.Errorf("gray without planes: %w", ports.ErrUnsupportedPixelFormat)
	}
	p := frame.Planes[0]
	if err := checkPlane(p, w, h, 1); err != nil {
		return nil, err
	}

	full := frame.Range == ports.RangeFull
	out := make([]byte, w*h*3)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := p.Data[y*p.Stride+x]
			if !full {
				v, _, _ = limitedToRGB(int(v), 128, 128)
			}
			idx := (y*w + x) * 3
			out[idx], out[idx+1], out[idx+2] = v, v, v
		}
	}
	return out, nil
}

// checkPlane verifies that a plane holds rows of width*bpp bytes.
func checkPlane(p ports.Plane, width, height, bpp int) error {
	rowLen := width * bpp
	if p.Stride < rowLen {
		return fmt.Errorf("stride %d below row length %d: %w", p.Stride, rowLen, ports.ErrUnsupportedPixelFormat)
	}
	if need := p.Stride*(height-1) + rowLen; len(p.Data) < need {
		return fmt.Errorf("plane has %d bytes, need %d: %w", len(p.Data), need, ports.ErrUnsupportedPixelFormat)
	}
	return nil
}

var _ ports.PixelConverter = (*Converter)(nil)
