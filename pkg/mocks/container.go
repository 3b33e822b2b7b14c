// Package mocks provides mock implementations for testing.
package mocks

import (
	"fmt"
	"io"

	"github.com/user/framegrab/pkg/ports"
)

// Demuxer is a mock implementation of ports.Demuxer.
type Demuxer struct {
	OpenFunc func(data []byte) (ports.Container, error)

	// Container is returned by Open when OpenFunc is nil.
	Container *Container

	// Recorded calls for verification
	OpenCalls int
}

func (m *Demuxer) Open(data []byte) (ports.Container, error) {
	m.OpenCalls++
	if m.OpenFunc != nil {
		return m.OpenFunc(data)
	}
	if m.Container == nil {
		return nil, fmt.Errorf("mock: %w", ports.ErrUnsupportedFormat)
	}
	return m.Container, nil
}

var _ ports.Demuxer = (*Demuxer)(nil)

// Container is a mock implementation of ports.Container backed by a packet list.
// The default SeekBackward lands on the last keyframe of the stream at or
// before the target, or on the first packet when there is none.
type Container struct {
	StreamList []ports.StreamInfo
	Packets    []ports.Packet

	BestStreamFunc   func(t ports.MediaType) (ports.StreamInfo, error)
	SeekBackwardFunc func(streamIndex int, ts int64) error
	ReadPacketFunc   func() (ports.Packet, error)
	CloseFunc        func() error

	// Recorded calls for verification
	SeekCalls   []SeekCall
	PacketsRead int
	Closed      bool

	pos int
}

// SeekCall records a call to SeekBackward.
type SeekCall struct {
	StreamIndex int
	TS          int64
}

func (m *Container) Streams() []ports.StreamInfo {
	return m.StreamList
}

func (m *Container) BestStream(t ports.MediaType) (ports.StreamInfo, error) {
	if m.BestStreamFunc != nil {
		return m.BestStreamFunc(t)
	}
	for _, s := range m.StreamList {
		if s.Type == t {
			return s, nil
		}
	}
	return ports.StreamInfo{}, fmt.Errorf("mock: %s: %w", t, ports.ErrStreamNotFound)
}

func (m *Container) SeekBackward(streamIndex int, ts int64) error {
	m.SeekCalls = append(m.SeekCalls, SeekCall{StreamIndex: streamIndex, TS: ts})
	if m.SeekBackwardFunc != nil {
		return m.SeekBackwardFunc(streamIndex, ts)
	}
	m.pos = 0
	for i, p := range m.Packets {
		if p.StreamIndex == streamIndex && p.Keyframe && p.PTS <= ts {
			m.pos = i
		}
	}
	return nil
}

func (m *Container) ReadPacket() (ports.Packet, error) {
	if m.ReadPacketFunc != nil {
		m.PacketsRead++
		return m.ReadPacketFunc()
	}
	if m.pos >= len(m.Packets) {
		return ports.Packet{}, io.EOF
	}
	p := m.Packets[m.pos]
	m.pos++
	m.PacketsRead++
	return p, nil
}

func (m *Container) Close() error {
	m.Closed = true
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

var _ ports.Container = (*Container)(nil)

// VideoStream returns a video StreamInfo with a 1/timescale time base.
func VideoStream(index int, timescale int64, width, height int) ports.StreamInfo {
	return ports.StreamInfo{
		Index:    index,
		Type:     ports.MediaVideo,
		Codec:    "mock",
		TimeBase: ports.Rational{Num: 1, Den: timescale},
		Width:    width,
		Height:   height,
	}
}

// FramePackets returns count packets for a stream spaced step ticks apart.
// Every gop-th packet is a keyframe (gop <= 0 makes every packet a keyframe).
func FramePackets(streamIndex, count int, step int64, gop int) []ports.Packet {
	packets := make([]ports.Packet, 0, count)
	for i := 0; i < count; i++ {
		ts := int64(i) * step
		packets = append(packets, ports.Packet{
			StreamIndex: streamIndex,
			PTS:         ts,
			HasPTS:      true,
			DTS:         ts,
			Keyframe:    gop <= 0 || i%gop == 0,
			Data:        []byte{byte(i)},
		})
	}
	return packets
}
