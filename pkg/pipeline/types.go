package pipeline

import (
	"github.com/user/framegrab/pkg/ports"
)

// =============================================================================
// Open Stage Types
// =============================================================================

// OpenInput contains the buffer to open.
type OpenInput struct {
	Data []byte // Complete encoded container, caller-owned
}

// OpenResult contains the opened container.
type OpenResult struct {
	Container ports.Container
	Streams   []ports.StreamInfo
}

// =============================================================================
// Select Stage Types
// =============================================================================

// SelectInput contains the container to pick a video stream from.
type SelectInput struct {
	Container ports.Container
}

// SelectResult contains the selected stream and its decoder.
type SelectResult struct {
	Stream  ports.StreamInfo
	Decoder ports.Decoder
}

// =============================================================================
// Seek Stage Types
// =============================================================================

// SeekInput contains parameters for the coarse seek.
type SeekInput struct {
	Container   ports.Container
	Decoder     ports.Decoder
	Stream      ports.StreamInfo
	TimeSeconds float64
}

// SeekResult contains the planned seek position.
type SeekResult struct {
	TargetTS int64 // Target timestamp in the stream time base
}

// =============================================================================
// Decode Stage Types
// =============================================================================

// DefaultMaxPackets is the default packet-scan cap of the decode loop.
const DefaultMaxPackets = 50000

// DecodeInput contains parameters for the decode loop.
type DecodeInput struct {
	Container   ports.Container
	Decoder     ports.Decoder
	Stream      ports.StreamInfo
	TimeSeconds float64
	MaxPackets  int // Packet-scan cap (<= 0 disables the cap)
}

// DecodeResult contains the selected frame and loop statistics.
type DecodeResult struct {
	Frame          ports.DecodedFrame
	PacketsScanned int  // Packets read from the container, all streams
	FramesDecoded  int  // Frames received from the decoder, including the selected one
	Drained        bool // Frame came from the end-of-stream drain
	Fallback       bool // No frame reached the target; the last decoded frame was used
}

// =============================================================================
// Convert Stage Types
// =============================================================================

// ConvertInput contains the frame to convert.
type ConvertInput struct {
	Frame ports.DecodedFrame
}

// ConvertResult contains packed RGB24 pixels.
type ConvertResult struct {
	Width  int
	Height int
	Pixels []byte // len == Width*Height*3
}
