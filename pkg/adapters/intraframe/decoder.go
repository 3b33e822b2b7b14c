// Package intraframe adapts codecs that decode each packet on its own
// to the send/receive decoder model.
package intraframe

import (
	"errors"
	"fmt"
	"io"

	"github.com/user/framegrab/pkg/ports"
)

var (
	// ErrClosed is returned when the decoder is used after Close.
	ErrClosed = errors.New("intraframe: decoder closed")
	// ErrAfterEOF is returned when a packet is sent after SendEOF.
	ErrAfterEOF = errors.New("intraframe: packet sent after end of stream")
)

// FrameDecoder decodes the payload of one packet.
// ok is false when the packet yields no picture, e.g. a skipped inter frame.
type FrameDecoder interface {
	DecodePacket(data []byte) (frame ports.DecodedFrame, ok bool, err error)
}

// Decoder implements ports.Decoder on top of a FrameDecoder.
// Frames come out in packet order and carry the packet timestamp.
type Decoder struct {
	fd      FrameDecoder
	pending []ports.DecodedFrame
	eof     bool
	closed  bool
}

// New wraps a FrameDecoder.
func New(fd FrameDecoder) *Decoder {
	return &Decoder{fd: fd}
}

// SendPacket decodes the packet immediately.
func (d *Decoder) SendPacket(pkt ports.Packet) error {
	if d.closed {
		return ErrClosed
	}
	if d.eof {
		return ErrAfterEOF
	}

	frame, ok, err := d.fd.DecodePacket(pkt.Data)
	if err != nil {
		return fmt.Errorf("decode packet (pts %d): %v: %w", pkt.PTS, err, ports.ErrCorrupt)
	}
	if !ok {
		return nil
	}

	frame.PTS = pkt.PTS
	frame.HasPTS = pkt.HasPTS
	d.pending = append(d.pending, frame)
	return nil
}

// ReceiveFrame returns the oldest decoded frame.
func (d *Decoder) ReceiveFrame() (ports.DecodedFrame, error) {
	if d.closed {
		return ports.DecodedFrame{}, ErrClosed
	}
	if len(d.pending) > 0 {
		frame := d.pending[0]
		d.pending = d.pending[1:]
		return frame, nil
	}
	if d.eof {
		return ports.DecodedFrame{}, io.EOF
	}
	return ports.DecodedFrame{}, ports.ErrAgain
}

// SendEOF marks the end of input.
func (d *Decoder) SendEOF() error {
	if d.closed {
		return ErrClosed
	}
	d.eof = true
	return nil
}

// Flush drops pending frames and accepts input again.
func (d *Decoder) Flush() {
	d.pending = nil
	d.eof = false
}

// Close releases the decoder.
func (d *Decoder) Close() error {
	d.closed = true
	d.pending = nil
	return nil
}

var _ ports.Decoder = (*Decoder)(nil)
