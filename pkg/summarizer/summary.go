// Package summarizer provides summary generation for extraction results.
package summarizer

import "time"

// Summary contains all data collected during one extraction.
type Summary struct {
	// Metadata
	GeneratedAt time.Time

	// Input file
	Input InputInfo

	// Selected video stream
	Stream StreamInfo

	// Requested extraction
	Request RequestInfo

	// Selected frame
	Frame FrameInfo

	// Written image
	Output OutputInfo
}

// InputInfo describes the input file.
type InputInfo struct {
	Path        string
	FileSize    int64
	StreamCount int
}

// StreamInfo describes the selected video stream.
type StreamInfo struct {
	Index       int
	Codec       string
	Width       int
	Height      int
	TimeBase    string
	DurationSec float64 // 0 when unknown
}

// RequestInfo contains the extraction parameters.
type RequestInfo struct {
	TimeSeconds float64
	MaxPackets  int
}

// FrameInfo describes the decoded frame that was selected.
type FrameInfo struct {
	PTSSeconds     float64
	HasPTS         bool
	Fallback       bool // requested time was past the last frame
	SourceFormat   string
	Width          int
	Height         int
	PacketsScanned int
	FramesDecoded  int
}

// OutputInfo describes the written image.
type OutputInfo struct {
	Path      string
	Format    string
	Width     int
	Height    int
	FileSize  int64
	Annotated bool
}

// NewSummary creates a new Summary with the current timestamp.
func NewSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Now(),
	}
}

// Builder provides a fluent interface for building a Summary.
type Builder struct {
	summary *Summary
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		summary: NewSummary(),
	}
}

// WithInput sets input file information.
func (b *Builder) WithInput(path string, size int64, streams int) *Builder {
	b.summary.Input = InputInfo{
		Path:        path,
		FileSize:    size,
		StreamCount: streams,
	}
	return b
}

// WithStream sets the selected stream.
func (b *Builder) WithStream(stream StreamInfo) *Builder {
	b.summary.Stream = stream
	return b
}

// WithRequest sets the extraction parameters.
func (b *Builder) WithRequest(timeSeconds float64, maxPackets int) *Builder {
	b.summary.Request = RequestInfo{
		TimeSeconds: timeSeconds,
		MaxPackets:  maxPackets,
	}
	return b
}

// WithFrame sets the selected frame.
func (b *Builder) WithFrame(frame FrameInfo) *Builder {
	b.summary.Frame = frame
	return b
}

// WithOutput sets output image information.
func (b *Builder) WithOutput(output OutputInfo) *Builder {
	b.summary.Output = output
	return b
}

// Build returns the constructed Summary.
func (b *Builder) Build() *Summary {
	return b.summary
}
