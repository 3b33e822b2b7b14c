package mocks

import (
	"fmt"
	"io"

	"github.com/user/framegrab/pkg/ports"
)

// Decoder is a mock implementation of ports.Decoder.
// By default every packet yields one 2x2 RGB24 frame carrying the packet PTS.
// Delay holds that many frames back until SendEOF, like a reordering decoder.
type Decoder struct {
	Delay int

	SendPacketFunc   func(pkt ports.Packet) error
	ReceiveFrameFunc func() (ports.DecodedFrame, error)
	SendEOFFunc      func() error
	// FrameFunc builds the frame produced for a packet.
	FrameFunc func(pkt ports.Packet) ports.DecodedFrame

	// Recorded calls for verification
	SentPackets []ports.Packet
	EOFSent     bool
	FlushCalls  int
	Closed      bool

	pending []ports.DecodedFrame
}

func (m *Decoder) SendPacket(pkt ports.Packet) error {
	m.SentPackets = append(m.SentPackets, pkt)
	if m.SendPacketFunc != nil {
		return m.SendPacketFunc(pkt)
	}
	if m.FrameFunc != nil {
		m.pending = append(m.pending, m.FrameFunc(pkt))
	} else {
		m.pending = append(m.pending, RGBFrame(2, 2, pkt.PTS, pkt.HasPTS, pkt.Data))
	}
	return nil
}

func (m *Decoder) ReceiveFrame() (ports.DecodedFrame, error) {
	if m.ReceiveFrameFunc != nil {
		return m.ReceiveFrameFunc()
	}
	if len(m.pending) > m.Delay || (m.EOFSent && len(m.pending) > 0) {
		f := m.pending[0]
		m.pending = m.pending[1:]
		return f, nil
	}
	if m.EOFSent {
		return ports.DecodedFrame{}, io.EOF
	}
	return ports.DecodedFrame{}, ports.ErrAgain
}

func (m *Decoder) SendEOF() error {
	m.EOFSent = true
	if m.SendEOFFunc != nil {
		return m.SendEOFFunc()
	}
	return nil
}

func (m *Decoder) Flush() {
	m.FlushCalls++
	m.pending = nil
	m.EOFSent = false
}

func (m *Decoder) Close() error {
	m.Closed = true
	return nil
}

var _ ports.Decoder = (*Decoder)(nil)

// RGBFrame returns a packed RGB24 frame whose pixels are all set from seed.
func RGBFrame(width, height int, pts int64, hasPTS bool, seed []byte) ports.DecodedFrame {
	var v byte
	if len(seed) > 0 {
		v = seed[0]
	}
	data := make([]byte, width*height*3)
	for i := range data {
		data[i] = v
	}
	return ports.DecodedFrame{
		Width:  width,
		Height: height,
		Format: ports.PixelFormatRGB24,
		Range:  ports.RangeFull,
		Planes: []ports.Plane{{Data: data, Stride: width * 3}},
		PTS:    pts,
		HasPTS: hasPTS,
	}
}

// DecoderFactory is a mock implementation of ports.DecoderFactory.
type DecoderFactory struct {
	NewDecoderFunc func(stream ports.StreamInfo) (ports.Decoder, error)

	// Recorded calls for verification
	Created []*Decoder
	Streams []ports.StreamInfo
}

func (m *DecoderFactory) NewDecoder(stream ports.StreamInfo) (ports.Decoder, error) {
	m.Streams = append(m.Streams, stream)
	if m.NewDecoderFunc != nil {
		return m.NewDecoderFunc(stream)
	}
	if stream.Codec == "unsupported" {
		return nil, fmt.Errorf("mock: %s: %w", stream.Codec, ports.ErrUnsupportedCodec)
	}
	d := &Decoder{}
	m.Created = append(m.Created, d)
	return d, nil
}

var _ ports.DecoderFactory = (*DecoderFactory)(nil)

// PixelConverter is a mock implementation of ports.PixelConverter.
// By default it copies packed RGB24 rows and rejects every other format.
type PixelConverter struct {
	ToRGB24Func func(frame ports.DecodedFrame) ([]byte, error)

	// Recorded calls for verification
	Converted []ports.DecodedFrame
}

func (m *PixelConverter) ToRGB24(frame ports.DecodedFrame) ([]byte, error) {
	m.Converted = append(m.Converted, frame)
	if m.ToRGB24Func != nil {
		return m.ToRGB24Func(frame)
	}
	if frame.Format != ports.PixelFormatRGB24 || len(frame.Planes) == 0 {
		return nil, fmt.Errorf("mock: %s: %w", frame.Format, ports.ErrUnsupportedPixelFormat)
	}
	rowLen := frame.Width * 3
	out := make([]byte, 0, rowLen*frame.Height)
	p := frame.Planes[0]
	for y := 0; y < frame.Height; y++ {
		out = append(out, p.Data[y*p.Stride:y*p.Stride+rowLen]...)
	}
	return out, nil
}

var _ ports.PixelConverter = (*PixelConverter)(nil)
