package mocks

import (
	"fmt"
	"image"
	"image/color"

	"github.com/user/framegrab/pkg/ports"
)

// EncodeCall records a call to Renderer.EncodeImage.
type EncodeCall struct {
	Bounds  image.Rectangle
	Format  ports.ImageFormat
	Quality int
}

// Renderer is a mock implementation of ports.Renderer.
type Renderer struct {
	CreateCanvasFunc func(width, height int, bg color.Color) ports.Canvas
	EncodeImageFunc  func(img image.Image, format ports.ImageFormat, quality int) ([]byte, error)
	ResizeImageFunc  func(img image.Image, width, height int) image.Image

	Canvases    []*Canvas
	EncodeCalls []EncodeCall
	ResizeCalls []image.Point
}

func (m *Renderer) CreateCanvas(width, height int, bg color.Color) ports.Canvas {
	if m.CreateCanvasFunc != nil {
		return m.CreateCanvasFunc(width, height, bg)
	}
	c := &Canvas{width: width, height: height}
	m.Canvases = append(m.Canvases, c)
	return c
}

// EncodeImage returns "<format>:<w>x<h>" unless overridden.
func (m *Renderer) EncodeImage(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
	m.EncodeCalls = append(m.EncodeCalls, EncodeCall{Bounds: img.Bounds(), Format: format, Quality: quality})
	if m.EncodeImageFunc != nil {
		return m.EncodeImageFunc(img, format, quality)
	}
	b := img.Bounds()
	return []byte(fmt.Sprintf("%s:%dx%d", format, b.Dx(), b.Dy())), nil
}

func (m *Renderer) ResizeImage(img image.Image, width, height int) image.Image {
	m.ResizeCalls = append(m.ResizeCalls, image.Pt(width, height))
	if m.ResizeImageFunc != nil {
		return m.ResizeImageFunc(img, width, height)
	}
	return image.NewRGBA(image.Rect(0, 0, width, height))
}

var _ ports.Renderer = (*Renderer)(nil)

// TextCall records a call to Canvas.DrawText.
type TextCall struct {
	Text  string
	X, Y  int
	Style ports.TextStyle
}

// Canvas is a mock implementation of ports.Canvas.
// Text measures 8 pixels per rune and 16 pixels high.
type Canvas struct {
	width  int
	height int
	img    *image.RGBA

	Images []image.Image
	Rects  []image.Rectangle
	Texts  []TextCall
}

func (m *Canvas) DrawImage(img image.Image, x, y int) {
	m.Images = append(m.Images, img)
}

func (m *Canvas) DrawRect(x, y, w, h int, c color.Color) {
	m.Rects = append(m.Rects, image.Rect(x, y, x+w, y+h))
}

func (m *Canvas) DrawText(text string, x, y int, style ports.TextStyle) {
	m.Texts = append(m.Texts, TextCall{Text: text, X: x, Y: y, Style: style})
}

func (m *Canvas) MeasureText(text string, style ports.TextStyle) (float64, float64) {
	return float64(8 * len([]rune(text))), 16
}

func (m *Canvas) ToImage() image.Image {
	if m.img != nil {
		return m.img
	}
	return image.NewRGBA(image.Rect(0, 0, m.width, m.height))
}

var _ ports.Canvas = (*Canvas)(nil)
