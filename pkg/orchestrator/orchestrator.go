// Package orchestrator coordinates file input, frame extraction and image output.
package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"math"
	"path/filepath"
	"strings"

	"github.com/user/framegrab/pkg/extract"
	"github.com/user/framegrab/pkg/ports"
)

// Config contains the settings for one extraction.
type Config struct {
	// Input
	InputPath   string
	TimeSeconds float64

	// Output
	OutputPath string
	Format     ports.ImageFormat
	Quality    int // JPEG quality (1-100)
	Width      int // Resize to this width keeping the aspect ratio; 0 keeps the frame size

	// Annotation
	Annotate bool
	FontPath string
	FontSize float64
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Format:   ports.FormatPNG,
		Quality:  90,
		FontSize: 14,
	}
}

// FormatFromPath infers the image format from the file extension, defaulting to PNG.
func FormatFromPath(path string) ports.ImageFormat {
	format, _ := ports.ParseImageFormat(strings.ToLower(filepath.Ext(path)))
	return format
}

// Extractor runs the frame extraction pipeline on an in-memory buffer.
type Extractor interface {
	Run(ctx context.Context, input []byte, timeSeconds float64) (*extract.Report, error)
	Probe(ctx context.Context, input []byte) (*extract.ProbeResult, error)
}

// Orchestrator connects the extractor to the file system and image encoder.
type Orchestrator struct {
	extractor Extractor
	renderer  ports.Renderer
	fs        ports.FileSystem
	sink      ports.DebugSink
	logger    ports.Logger
}

// New creates a new Orchestrator.
func New(
	extractor Extractor,
	renderer ports.Renderer,
	fs ports.FileSystem,
	sink ports.DebugSink,
	logger ports.Logger,
) *Orchestrator {
	return &Orchestrator{
		extractor: extractor,
		renderer:  renderer,
		fs:        fs,
		sink:      sink,
		logger:    logger,
	}
}

// Run reads the input file, extracts one frame and writes it as an image.
func (o *Orchestrator) Run(ctx context.Context, config Config) (RunResult, error) {
	o.logger.Info("Reading %s", config.InputPath)
	input, err := o.fs.ReadFile(config.InputPath)
	if err != nil {
		o.logger.Error("Extraction failed: %v", err)
		return RunResult{}, fmt.Errorf("read input: %w", err)
	}

	result := RunResult{
		InputPath:        config.InputPath,
		InputSize:        int64(len(input)),
		RequestedSeconds: config.TimeSeconds,
	}

	// 1. Extract
	o.logger.Info("Extracting frame at %.3fs", config.TimeSeconds)
	report, err := o.extractor.Run(ctx, input, config.TimeSeconds)
	if err != nil {
		o.logger.Error("Extraction failed: %v", err)
		return result, fmt.Errorf("extract: %w", err)
	}
	frame := report.Frame
	o.logger.Info("Frame %dx%d at %.3fs (%d packets read, %d frames decoded)",
		frame.Width, frame.Height, report.FrameSeconds(), report.PacketsScanned, report.FramesDecoded)
	if report.Fallback {
		o.logger.Warn("Requested time is past the end of the stream, using the last frame")
	}

	result.Streams = report.Streams
	result.Stream = report.Stream
	result.FrameSeconds = report.FrameSeconds()
	result.FrameHasPTS = report.FrameHasPTS
	result.Fallback = report.Fallback
	result.SourceFormat = report.SourceFormat.String()
	result.PacketsScanned = report.PacketsScanned
	result.FramesDecoded = report.FramesDecoded
	result.FrameWidth = int(frame.Width)
	result.FrameHeight = int(frame.Height)

	var img image.Image = frame.Image()
	o.saveDebug(report, img)

	// 2. Resize
	if w, h := scaledSize(result.FrameWidth, result.FrameHeight, config.Width); w != result.FrameWidth || h != result.FrameHeight {
		o.logger.Info("Resizing frame to %dx%d", w, h)
		img = o.renderer.ResizeImage(img, w, h)
	}

	// 3. Annotate
	if config.Annotate {
		o.logger.Info("Annotating frame")
		img = o.annotate(img, frameLabel(report, config.TimeSeconds), config)
	}

	// 4. Encode
	data, err := o.renderer.EncodeImage(img, config.Format, config.Quality)
	if err != nil {
		o.logger.Error("Failed to write output: %v", err)
		return result, fmt.Errorf("encode %s: %w", config.Format, err)
	}

	// 5. Write output file
	if err := o.fs.WriteFile(config.OutputPath, data); err != nil {
		o.logger.Error("Failed to write output: %v", err)
		return result, fmt.Errorf("write output: %w", err)
	}
	o.logger.Info("Output saved to %s", config.OutputPath)

	b := img.Bounds()
	result.OutputPath = config.OutputPath
	result.OutputFormat = config.Format.String()
	result.OutputWidth = b.Dx()
	result.OutputHeight = b.Dy()
	result.OutputSize = int64(len(data))
	result.Annotated = config.Annotate

	return result, nil
}

// Probe reads the input file and lists its streams.
func (o *Orchestrator) Probe(ctx context.Context, inputPath string) (*extract.ProbeResult, error) {
	o.logger.Info("Probing %s", inputPath)
	input, err := o.fs.ReadFile(inputPath)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	probe, err := o.extractor.Probe(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("probe: %w", err)
	}
	o.logger.Info("Found %d streams", len(probe.Streams))

	if o.sink.Enabled() {
		if data, err := json.MarshalIndent(probe.Streams, "", "  "); err == nil {
			o.warnDebug(o.sink.SaveStreamsJSON(data))
		}
	}

	return probe, nil
}

func (o *Orchestrator) saveDebug(report *extract.Report, img image.Image) {
	if !o.sink.Enabled() {
		return
	}

	if data, err := json.MarshalIndent(report.Streams, "", "  "); err == nil {
		o.warnDebug(o.sink.SaveStreamsJSON(data))
	}
	if data, err := json.MarshalIndent(newDebugReport(report), "", "  "); err == nil {
		o.warnDebug(o.sink.SaveResultJSON(data))
	}
	o.warnDebug(o.sink.SaveFrame(img))
}

func (o *Orchestrator) warnDebug(err error) {
	if err != nil {
		o.logger.Warn("Failed to save debug output: %v", err)
	}
}

// annotate stamps label on a dark box in the bottom-left corner.
func (o *Orchestrator) annotate(img image.Image, label string, config Config) image.Image {
	b := img.Bounds()
	canvas := o.renderer.CreateCanvas(b.Dx(), b.Dy(), color.Black)
	canvas.DrawImage(img, 0, 0)

	style := ports.TextStyle{
		FontSize: config.FontSize,
		FontPath: config.FontPath,
		Color:    color.White,
		Align:    ports.AlignLeft,
	}
	tw, th := canvas.MeasureText(label, style)

	const pad = 4
	boxW := int(math.Ceil(tw)) + pad*2
	boxH := int(math.Ceil(th)) + pad*2
	boxY := b.Dy() - boxH
	canvas.DrawRect(0, boxY, boxW, boxH, color.RGBA{A: 160})
	canvas.DrawText(label, pad, boxY+boxH/2, style)

	return canvas.ToImage()
}

// frameLabel formats the selected frame's time, or the requested time for
// frames without a timestamp.
func frameLabel(report *extract.Report, requested float64) string {
	if report.FrameHasPTS {
		return fmt.Sprintf("%.3fs", report.FrameSeconds())
	}
	return fmt.Sprintf("~%.3fs", requested)
}

// scaledSize returns the output size for a target width, keeping the aspect ratio.
func scaledSize(w, h, target int) (int, int) {
	if target <= 0 || w <= 0 || target == w {
		return w, h
	}
	scaled := int(math.Round(float64(h) * float64(target) / float64(w)))
	if scaled < 1 {
		scaled = 1
	}
	return target, scaled
}

// debugReport is the JSON form of an extraction report, without pixel data.
type debugReport struct {
	Stream         ports.StreamInfo `json:"stream"`
	TargetTS       int64            `json:"targetTs"`
	FramePTS       *int64           `json:"framePts"`
	FrameSeconds   *float64         `json:"frameSeconds"`
	SourceFormat   string           `json:"sourceFormat"`
	Width          uint32           `json:"width"`
	Height         uint32           `json:"height"`
	PacketsScanned int              `json:"packetsScanned"`
	FramesDecoded  int              `json:"framesDecoded"`
	Drained        bool             `json:"drained"`
	Fallback       bool             `json:"fallback"`
}

func newDebugReport(r *extract.Report) debugReport {
	d := debugReport{
		Stream:         r.Stream,
		TargetTS:       r.TargetTS,
		SourceFormat:   r.SourceFormat.String(),
		Width:          r.Frame.Width,
		Height:         r.Frame.Height,
		PacketsScanned: r.PacketsScanned,
		FramesDecoded:  r.FramesDecoded,
		Drained:        r.Drained,
		Fallback:       r.Fallback,
	}
	if r.FrameHasPTS {
		pts, secs := r.FramePTS, r.FrameSeconds()
		d.FramePTS = &pts
		d.FrameSeconds = &secs
	}
	return d
}

// RunResult contains the results of a run for summary generation.
type RunResult struct {
	// Input information
	InputPath        string
	InputSize        int64
	RequestedSeconds float64

	// Stream information
	Streams []ports.StreamInfo
	Stream  ports.StreamInfo

	// Frame information
	FrameSeconds   float64 // -1 when the frame has no timestamp
	FrameHasPTS    bool
	Fallback       bool
	SourceFormat   string
	FrameWidth     int
	FrameHeight    int
	PacketsScanned int
	FramesDecoded  int

	// Output information
	OutputPath   string
	OutputFormat string
	OutputWidth  int
	OutputHeight int
	OutputSize   int64
	Annotated    bool
}
