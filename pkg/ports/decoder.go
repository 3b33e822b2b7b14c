package ports

// PixelFormat is the memory layout of a decoded frame.
type PixelFormat int

const (
	PixelFormatUnknown PixelFormat = iota
	PixelFormatYUV420P
	PixelFormatYUV422P
	PixelFormatYUV444P
	PixelFormatYUV440P
	PixelFormatYUV411P
	PixelFormatYUV410P
	PixelFormatGray8
	PixelFormatRGB24
	PixelFormatRGBA
	PixelFormatNRGBA
)

// String returns the conventional name of the pixel format.
func (f PixelFormat) String() string {
	switch f {
	case PixelFormatYUV420P:
		return "yuv420p"
	case PixelFormatYUV422P:
		return "yuv422p"
	case PixelFormatYUV444P:
		return "yuv444p"
	case PixelFormatYUV440P:
		return "yuv440p"
	case PixelFormatYUV411P:
		return "yuv411p"
	case PixelFormatYUV410P:
		return "yuv410p"
	case PixelFormatGray8:
		return "gray"
	case PixelFormatRGB24:
		return "rgb24"
	case PixelFormatRGBA:
		return "rgba"
	case PixelFormatNRGBA:
		return "nrgba"
	default:
		return "unknown"
	}
}

// ColorRange tells how luma and chroma samples map to RGB.
type ColorRange int

const (
	// RangeLimited is the BT.601 video range (Y 16-235, C 16-240).
	RangeLimited ColorRange = iota
	// RangeFull is the JPEG range (0-255).
	RangeFull
)

// Plane is one plane of pixel data. Stride may exceed the visible row width.
type Plane struct {
	Data   []byte
	Stride int
}

// DecodedFrame is an uncompressed picture produced by a Decoder.
type DecodedFrame struct {
	Width  int
	Height int
	Format PixelFormat
	Range  ColorRange
	Planes []Plane
	PTS    int64
	HasPTS bool
}

// Decoder turns packets of one stream into decoded frames.
// A decoder may buffer packets and emit frames later.
type Decoder interface {
	// SendPacket submits a compressed packet.
	SendPacket(pkt Packet) error

	// ReceiveFrame returns the next decoded frame. It returns ErrAgain
	// when more input is needed and io.EOF once drained after SendEOF.
	ReceiveFrame() (DecodedFrame, error)

	// SendEOF signals that no more packets follow.
	SendEOF() error

	// Flush discards buffered state, e.g. after a seek.
	Flush()

	// Close releases decoder resources.
	Close() error
}

// DecoderFactory creates decoders for streams.
type DecoderFactory interface {
	// NewDecoder returns a decoder configured for the stream.
	// Returns an error wrapping ErrUnsupportedCodec when the codec cannot be initialized.
	NewDecoder(stream StreamInfo) (Decoder, error)
}

// PixelConverter converts decoded frames into packed RGB.
type PixelConverter interface {
	// ToRGB24 returns width*height*3 bytes of interleaved RGB with no row padding.
	// Returns an error wrapping ErrUnsupportedPixelFormat when the frame cannot be interpreted.
	ToRGB24(frame DecodedFrame) ([]byte, error)
}
