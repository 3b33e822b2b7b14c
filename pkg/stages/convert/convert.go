// Package convert implements the pixel conversion stage.
package convert

import (
	"context"

	"github.com/user/framegrab/pkg/pipeline"
	"github.com/user/framegrab/pkg/ports"
)

// Stage converts the selected frame into packed RGB24.
type Stage struct {
	converter ports.PixelConverter
	logger    ports.Logger
}

// NewStage creates a new convert stage.
func NewStage(converter ports.PixelConverter, logger ports.Logger) *Stage {
	return &Stage{
		converter: converter,
		logger:    logger.WithComponent("convert"),
	}
}

// Execute converts the frame.
func (s *Stage) Execute(ctx context.Context, input pipeline.ConvertInput) (pipeline.ConvertResult, error) {
	result := pipeline.ConvertResult{}
	frame := input.Frame

	if frame.Width <= 0 || frame.Height <= 0 {
		return result, pipeline.Errorf(pipeline.CodeConversionFailed, "invalid frame size %dx%d", frame.Width, frame.Height)
	}

	s.logger.Debug("Converting %dx%d %s frame to rgb24", frame.Width, frame.Height, frame.Format)

	pixels, err := s.converter.ToRGB24(frame)
	if err != nil {
		return result, pipeline.NewError(pipeline.CodeConversionFailed, "convert "+frame.Format.String()+" frame", err)
	}

	want := frame.Width * frame.Height * 3
	if len(pixels) != want {
		return result, pipeline.Errorf(pipeline.CodeConversionFailed, "converter returned %d bytes, want %d", len(pixels), want)
	}

	result.Width = frame.Width
	result.Height = frame.Height
	result.Pixels = pixels
	return result, nil
}
