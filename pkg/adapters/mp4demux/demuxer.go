// Package mp4demux reads ISO BMFF (MP4/MOV) files held in memory.
// Both progressive files and fragmented files are supported.
package mp4demux

import (
	"bytes"
	"fmt"
	"io"
	"sort"

	"github.com/Eyevinn/mp4ff/mp4"
	"github.com/user/framegrab/pkg/ports"
)

// Demuxer opens MP4 buffers with mp4ff.
type Demuxer struct{}

// New creates a new MP4 demuxer.
func New() *Demuxer {
	return &Demuxer{}
}

// Open parses data as an MP4 file. The buffer is referenced, not copied,
// and must not be modified while the container is open.
func (d *Demuxer) Open(data []byte) (ports.Container, error) {
	boxes, err := scanBoxes(data)
	if err != nil {
		return nil, err
	}
	if !hasBox(boxes, "moov") {
		return nil, fmt.Errorf("no moov box: %w", ports.ErrCorrupt)
	}

	f, err := decodeFile(data)
	if err != nil {
		return nil, err
	}

	tracks, err := indexTracks(f, data)
	if err != nil {
		return nil, err
	}

	return newContainer(tracks), nil
}

// decodeFile runs the mp4ff parser, turning its panics on malformed
// payloads into ErrCorrupt.
func decodeFile(data []byte) (f *mp4.File, err error) {
	defer func() {
		if r := recover(); r != nil {
			f = nil
			err = fmt.Errorf("parse mp4: %v: %w", r, ports.ErrCorrupt)
		}
	}()

	f, err = mp4.DecodeFile(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse mp4: %v: %w", err, ports.ErrCorrupt)
	}
	return f, nil
}

func indexTracks(f *mp4.File, data []byte) (tracks []*track, err error) {
	defer func() {
		if r := recover(); r != nil {
			tracks = nil
			err = fmt.Errorf("index samples: %v: %w", r, ports.ErrCorrupt)
		}
	}()
	return buildTracks(f, data)
}

// packetRef addresses one sample in the interleaved packet order.
type packetRef struct {
	track  int
	sample int
}

// Container serves packets of all tracks interleaved by decode time.
type Container struct {
	tracks []*track
	order  []packetRef
	// position of each track's samples within order
	orderIndex [][]int
	cursor     int
	closed     bool
}

func newContainer(tracks []*track) *Container {
	c := &Container{
		tracks:     tracks,
		orderIndex: make([][]int, len(tracks)),
	}

	for ti, t := range tracks {
		for si := range t.samples {
			c.order = append(c.order, packetRef{track: ti, sample: si})
		}
	}
	sort.SliceStable(c.order, func(i, j int) bool {
		a, b := c.order[i], c.order[j]
		ta, tb := c.tracks[a.track], c.tracks[b.track]
		da := ta.info.TimeBase.Seconds(ta.samples[a.sample].dts)
		db := tb.info.TimeBase.Seconds(tb.samples[b.sample].dts)
		if da != db {
			return da < db
		}
		return a.track < b.track
	})

	for ti, t := range tracks {
		c.orderIndex[ti] = make([]int, len(t.samples))
	}
	for pos, ref := range c.order {
		c.orderIndex[ref.track][ref.sample] = pos
	}

	return c
}

// Streams returns one descriptor per track, in file order.
func (c *Container) Streams() []ports.StreamInfo {
	streams := make([]ports.StreamInfo, len(c.tracks))
	for i, t := range c.tracks {
		streams[i] = t.info
	}
	return streams
}

// BestStream prefers tracks with samples, then the largest picture, then the lowest index.
func (c *Container) BestStream(mt ports.MediaType) (ports.StreamInfo, error) {
	var best *track
	for _, t := range c.tracks {
		if t.info.Type != mt {
			continue
		}
		if best == nil || better(t, best) {
			best = t
		}
	}
	if best == nil {
		return ports.StreamInfo{}, fmt.Errorf("no %s track: %w", mt, ports.ErrStreamNotFound)
	}
	return best.info, nil
}

func better(a, b *track) bool {
	aHas, bHas := len(a.samples) > 0, len(b.samples) > 0
	if aHas != bHas {
		return aHas
	}
	return a.info.Width*a.info.Height > b.info.Width*b.info.Height
}

// SeekBackward moves the cursor to the last sync sample of the stream whose
// presentation time is at or before ts. Targets before the first sync sample
// land on the first one. A stream without samples leaves the cursor at the end.
func (c *Container) SeekBackward(streamIndex int, ts int64) error {
	if streamIndex < 0 || streamIndex >= len(c.tracks) {
		return fmt.Errorf("stream %d out of range: %w", streamIndex, ports.ErrNotSeekable)
	}
	t := c.tracks[streamIndex]
	if len(t.samples) == 0 {
		c.cursor = len(c.order)
		return nil
	}

	target := -1
	first := -1
	for i, s := range t.samples {
		if !s.sync {
			continue
		}
		if first < 0 {
			first = i
		}
		if s.pts <= ts {
			target = i
		}
	}
	if first < 0 {
		return fmt.Errorf("stream %d has no sync samples: %w", streamIndex, ports.ErrNotSeekable)
	}
	if target < 0 {
		target = first
	}

	c.cursor = c.orderIndex[streamIndex][target]
	return nil
}

// ReadPacket returns the next packet, or io.EOF.
func (c *Container) ReadPacket() (ports.Packet, error) {
	if c.closed || c.cursor >= len(c.order) {
		return ports.Packet{}, io.EOF
	}
	ref := c.order[c.cursor]
	c.cursor++

	s := c.tracks[ref.track].samples[ref.sample]
	return ports.Packet{
		StreamIndex: ref.track,
		PTS:         s.pts,
		HasPTS:      true,
		DTS:         s.dts,
		Keyframe:    s.sync,
		Data:        s.data,
	}, nil
}

// Close releases the sample index.
func (c *Container) Close() error {
	c.closed = true
	c.tracks = nil
	c.order = nil
	c.orderIndex = nil
	return nil
}

var (
	_ ports.Demuxer   = (*Demuxer)(nil)
	_ ports.Container = (*Container)(nil)
)
