package extract

import (
	"image"

	"github.com/user/framegrab/pkg/pipeline"
)

// ErrorCode classifies an extraction failure (re-exported from pipeline).
type ErrorCode = pipeline.ErrorCode

// Error is a classified extraction failure (re-exported from pipeline).
type Error = pipeline.Error

const (
	// InternalError is any fault not otherwise classified, including recovered panics.
	InternalError = pipeline.CodeInternal
	// InvalidInput is an empty buffer or a negative or non-finite time.
	InvalidInput = pipeline.CodeInvalidInput
	// UnsupportedFormat is a buffer that is not a recognized container.
	UnsupportedFormat = pipeline.CodeUnsupportedFormat
	// Corrupt is a recognized container with broken structure or bitstream.
	Corrupt = pipeline.CodeCorrupt
	// NoVideoStream is a container without a video track.
	NoVideoStream = pipeline.CodeNoVideoStream
	// UnsupportedCodec is a video track that no decoder accepts.
	UnsupportedCodec = pipeline.CodeUnsupportedCodec
	// SeekFailed is a seek the container could not satisfy.
	SeekFailed = pipeline.CodeSeekFailed
	// DecodeTimeout is the packet-scan cap being hit.
	DecodeTimeout = pipeline.CodeDecodeTimeout
	// FrameNotFound is a stream that produced no usable frame.
	FrameNotFound = pipeline.CodeFrameNotFound
	// ConversionFailed is a frame the pixel converter cannot interpret.
	ConversionFailed = pipeline.CodeConversionFailed
)

// CodeOf returns the code carried by err, or InternalError.
func CodeOf(err error) ErrorCode {
	return pipeline.CodeOf(err)
}

// RGBBuffer is a decoded frame as packed RGB24.
// Pixels is row-major, 3 bytes per pixel, with no row padding.
type RGBBuffer struct {
	Width  uint32
	Height uint32
	Pixels []byte
}

// Image copies the buffer into an opaque RGBA image.
func (b RGBBuffer) Image() *image.RGBA {
	w, h := int(b.Width), int(b.Height)
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i, j := 0, 0; i+2 < len(b.Pixels) && j < len(img.Pix); i, j = i+3, j+4 {
		img.Pix[j] = b.Pixels[i]
		img.Pix[j+1] = b.Pixels[i+1]
		img.Pix[j+2] = b.Pixels[i+2]
		img.Pix[j+3] = 0xFF
	}
	return img
}

// Result is the outcome of one extraction: either Success or Failure.
type Result interface {
	// OK reports whether the result is a Success.
	OK() bool
	isResult()
}

// Success carries the extracted frame.
type Success struct {
	Frame RGBBuffer
}

// Failure carries a classified error. Callers must branch on Code, not Message.
type Failure struct {
	Code    ErrorCode
	Message string
}

func (Success) OK() bool { return true }
func (Failure) OK() bool { return false }

func (Success) isResult() {}
func (Failure) isResult() {}

// NewResult folds a Go-style return into a Result.
func NewResult(frame *RGBBuffer, err error) Result {
	if err != nil {
		return Failure{Code: CodeOf(err), Message: err.Error()}
	}
	if frame == nil {
		return Failure{Code: InternalError, Message: "extraction returned no frame"}
	}
	return Success{Frame: *frame}
}
