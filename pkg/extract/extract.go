// Package extract runs the single-frame extraction pipeline:
// open, select, seek, decode and convert.
package extract

import (
	"context"

	"github.com/user/framegrab/pkg/adapters/logger"
	"github.com/user/framegrab/pkg/pipeline"
	"github.com/user/framegrab/pkg/ports"
	"github.com/user/framegrab/pkg/stages/convert"
	"github.com/user/framegrab/pkg/stages/decode"
	"github.com/user/framegrab/pkg/stages/open"
	"github.com/user/framegrab/pkg/stages/seek"
	"github.com/user/framegrab/pkg/stages/selector"
)

// Options configures an Extractor.
type Options struct {
	// MaxPackets caps the packets read by the decode loop. Zero selects
	// pipeline.DefaultMaxPackets; a negative value disables the cap.
	MaxPackets int

	// Logger receives stage debug output. Nil discards it.
	Logger ports.Logger
}

// Report describes a successful extraction in more detail than RGBBuffer.
type Report struct {
	Frame RGBBuffer

	Streams []ports.StreamInfo
	Stream  ports.StreamInfo

	TargetTS     int64
	FramePTS     int64
	FrameHasPTS  bool
	SourceFormat ports.PixelFormat

	PacketsScanned int
	FramesDecoded  int
	Drained        bool
	Fallback       bool
}

// FrameSeconds returns the selected frame's timestamp in seconds, or -1 if it has none.
func (r *Report) FrameSeconds() float64 {
	if !r.FrameHasPTS {
		return -1
	}
	return r.Stream.TimeBase.Seconds(r.FramePTS)
}

// Extractor extracts frames with injected codec backends.
// It holds no per-call state and may be shared between goroutines.
type Extractor struct {
	openStage    pipeline.Stage[pipeline.OpenInput, pipeline.OpenResult]
	selectStage  pipeline.Stage[pipeline.SelectInput, pipeline.SelectResult]
	seekStage    pipeline.Stage[pipeline.SeekInput, pipeline.SeekResult]
	decodeStage  pipeline.Stage[pipeline.DecodeInput, pipeline.DecodeResult]
	convertStage pipeline.Stage[pipeline.ConvertInput, pipeline.ConvertResult]
	maxPackets   int
	logger       ports.Logger
}

// New creates an Extractor from codec backends.
func New(demuxer ports.Demuxer, decoders ports.DecoderFactory, converter ports.PixelConverter, opts Options) *Extractor {
	log := opts.Logger
	if log == nil {
		log = logger.NewNoop()
	}
	maxPackets := opts.MaxPackets
	if maxPackets == 0 {
		maxPackets = pipeline.DefaultMaxPackets
	}

	return &Extractor{
		openStage:    open.NewStage(demuxer, log),
		selectStage:  selector.NewStage(decoders, log),
		seekStage:    seek.NewStage(log),
		decodeStage:  decode.NewStage(log),
		convertStage: convert.NewStage(converter, log),
		maxPackets:   maxPackets,
		logger:       log,
	}
}

// Extract returns the first frame at or after timeSeconds.
// Errors are *Error values; use CodeOf to classify them.
func (e *Extractor) Extract(ctx context.Context, input []byte, timeSeconds float64) (*RGBBuffer, error) {
	report, err := e.Run(ctx, input, timeSeconds)
	if err != nil {
		return nil, err
	}
	return &report.Frame, nil
}

// ExtractResult is Extract folded into a Result.
func (e *Extractor) ExtractResult(ctx context.Context, input []byte, timeSeconds float64) Result {
	return NewResult(e.Extract(ctx, input, timeSeconds))
}

// Run executes the pipeline and returns a detailed report.
// A panic in any stage is recovered into an InternalError.
func (e *Extractor) Run(ctx context.Context, input []byte, timeSeconds float64) (report *Report, err error) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("Recovered from panic during extraction: %v", r)
			report = nil
			err = pipeline.Errorf(pipeline.CodeInternal, "internal fault: %v", r)
		}
	}()

	opened, err := e.openStage.Execute(ctx, pipeline.OpenInput{Data: input})
	if err != nil {
		return nil, err
	}
	defer opened.Container.Close()

	selected, err := e.selectStage.Execute(ctx, pipeline.SelectInput{Container: opened.Container})
	if err != nil {
		return nil, err
	}
	defer selected.Decoder.Close()

	seeked, err := e.seekStage.Execute(ctx, pipeline.SeekInput{
		Container:   opened.Container,
		Decoder:     selected.Decoder,
		Stream:      selected.Stream,
		TimeSeconds: timeSeconds,
	})
	if err != nil {
		return nil, err
	}

	decoded, err := e.decodeStage.Execute(ctx, pipeline.DecodeInput{
		Container:   opened.Container,
		Decoder:     selected.Decoder,
		Stream:      selected.Stream,
		TimeSeconds: timeSeconds,
		MaxPackets:  e.maxPackets,
	})
	if err != nil {
		return nil, err
	}

	converted, err := e.convertStage.Execute(ctx, pipeline.ConvertInput{Frame: decoded.Frame})
	if err != nil {
		return nil, err
	}

	return &Report{
		Frame: RGBBuffer{
			Width:  uint32(converted.Width),
			Height: uint32(converted.Height),
			Pixels: converted.Pixels,
		},
		Streams:        opened.Streams,
		Stream:         selected.Stream,
		TargetTS:       seeked.TargetTS,
		FramePTS:       decoded.Frame.PTS,
		FrameHasPTS:    decoded.Frame.HasPTS,
		SourceFormat:   decoded.Frame.Format,
		PacketsScanned: decoded.PacketsScanned,
		FramesDecoded:  decoded.FramesDecoded,
		Drained:        decoded.Drained,
		Fallback:       decoded.Fallback,
	}, nil
}

// ProbeResult lists the streams of a container and the one extraction would use.
type ProbeResult struct {
	Streams []ports.StreamInfo
	Video   *ports.StreamInfo
}

// Probe opens the container and reports its streams without decoding.
func (e *Extractor) Probe(ctx context.Context, input []byte) (result *ProbeResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = pipeline.Errorf(pipeline.CodeInternal, "internal fault: %v", r)
		}
	}()

	opened, err := e.openStage.Execute(ctx, pipeline.OpenInput{Data: input})
	if err != nil {
		return nil, err
	}
	defer opened.Container.Close()

	result = &ProbeResult{Streams: opened.Streams}
	if best, err := opened.Container.BestStream(ports.MediaVideo); err == nil {
		result.Video = &best
	}
	return result, nil
}
