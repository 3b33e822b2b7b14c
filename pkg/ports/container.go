// Package ports defines the interfaces between the extraction pipeline,
// the CLI orchestration and their adapters.
package ports

import "fmt"

// MediaType identifies the kind of an elementary stream.
type MediaType int

const (
	// MediaOther is any stream that is neither video nor audio (subtitles, timed metadata).
	MediaOther MediaType = iota
	// MediaVideo is a video stream.
	MediaVideo
	// MediaAudio is an audio stream.
	MediaAudio
)

// String returns the string representation of the media type.
func (t MediaType) String() string {
	switch t {
	case MediaVideo:
		return "video"
	case MediaAudio:
		return "audio"
	default:
		return "other"
	}
}

// Rational is a fraction used for stream time bases.
type Rational struct {
	Num int64
	Den int64
}

// Valid reports whether the rational can be used as a time base.
func (r Rational) Valid() bool {
	return r.Num > 0 && r.Den > 0
}

// Seconds converts a timestamp expressed in this time base to seconds.
func (r Rational) Seconds(ts int64) float64 {
	if !r.Valid() {
		return 0
	}
	return float64(ts) * float64(r.Num) / float64(r.Den)
}

// StreamInfo describes one elementary stream inside a container.
type StreamInfo struct {
	Index       int       // Position in the container's stream list
	Type        MediaType // Video, audio or other
	Codec       string    // Codec tag, e.g. the sample entry fourcc ("jpeg", "vp08")
	TimeBase    Rational  // Unit of PTS/DTS values
	Duration    int64     // Duration in TimeBase units (0 = unknown)
	Width       int       // Coded width for video streams
	Height      int       // Coded height for video streams
	SampleCount int       // Number of packets indexed for this stream
}

// DurationSeconds returns the stream duration in seconds, or 0 if unknown.
func (s StreamInfo) DurationSeconds() float64 {
	return s.TimeBase.Seconds(s.Duration)
}

// String formats the stream for logs and CLI output.
func (s StreamInfo) String() string {
	if s.Type == MediaVideo {
		return fmt.Sprintf("#%d %s %s %dx%d %.3fs", s.Index, s.Type, s.Codec, s.Width, s.Height, s.DurationSeconds())
	}
	return fmt.Sprintf("#%d %s %s %.3fs", s.Index, s.Type, s.Codec, s.DurationSeconds())
}

// Packet is a unit of compressed data belonging to one stream.
type Packet struct {
	StreamIndex int
	PTS         int64
	HasPTS      bool
	DTS         int64
	Keyframe    bool
	Data        []byte
}

// Demuxer opens in-memory media buffers.
type Demuxer interface {
	// Open probes and opens data as a container. The buffer must stay
	// unmodified until the returned Container is closed.
	// Errors wrap ErrUnsupportedFormat or ErrCorrupt.
	Open(data []byte) (Container, error)
}

// Container is an opened, demuxable media buffer.
type Container interface {
	// Streams returns the stream descriptors in index order.
	Streams() []StreamInfo

	// BestStream returns the preferred stream of the given type.
	// Returns an error wrapping ErrStreamNotFound when there is none.
	BestStream(t MediaType) (StreamInfo, error)

	// SeekBackward positions the packet reader on the last keyframe of
	// the stream whose timestamp is at or before ts.
	SeekBackward(streamIndex int, ts int64) error

	// ReadPacket returns the next packet in container order.
	// Returns io.EOF when no packets remain.
	ReadPacket() (Packet, error)

	// Close releases the container.
	Close() error
}
