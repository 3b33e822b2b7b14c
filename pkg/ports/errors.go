package ports

import "errors"

// Sentinel errors shared by codec adapters. Adapters wrap them with context
// and callers classify failures with errors.Is.
var (
	// ErrUnsupportedFormat is returned when a buffer is not a recognized container.
	ErrUnsupportedFormat = errors.New("unsupported container format")

	// ErrCorrupt is returned when container or bitstream structure is broken.
	ErrCorrupt = errors.New("corrupt media data")

	// ErrStreamNotFound is returned when no stream of the requested type exists.
	ErrStreamNotFound = errors.New("stream not found")

	// ErrUnsupportedCodec is returned when no decoder can be initialized for a stream.
	ErrUnsupportedCodec = errors.New("unsupported codec")

	// ErrNotSeekable is returned when a seek cannot be satisfied.
	ErrNotSeekable = errors.New("stream not seekable")

	// ErrAgain is returned by Decoder.ReceiveFrame when more input is needed.
	ErrAgain = errors.New("decoder needs more input")

	// ErrUnsupportedPixelFormat is returned when a frame layout cannot be converted.
	ErrUnsupportedPixelFormat = errors.New("unsupported pixel format")
)
