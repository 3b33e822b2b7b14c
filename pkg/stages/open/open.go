// Package open implements the container reader stage.
package open

import (
	"context"
	"errors"

	"github.com/user/framegrab/pkg/pipeline"
	"github.com/user/framegrab/pkg/ports"
)

// Stage opens an in-memory buffer as a demuxed container.
type Stage struct {
	demuxer ports.Demuxer
	logger  ports.Logger
}

// NewStage creates a new open stage.
func NewStage(demuxer ports.Demuxer, logger ports.Logger) *Stage {
	return &Stage{
		demuxer: demuxer,
		logger:  logger.WithComponent("open"),
	}
}

// Execute opens the buffer. The caller owns the returned container and must close it.
func (s *Stage) Execute(ctx context.Context, input pipeline.OpenInput) (pipeline.OpenResult, error) {
	result := pipeline.OpenResult{}

	if len(input.Data) == 0 {
		return result, pipeline.Errorf(pipeline.CodeInvalidInput, "input buffer is empty")
	}

	s.logger.Debug("Opening container from %d bytes", len(input.Data))

	container, err := s.demuxer.Open(input.Data)
	if err != nil {
		if errors.Is(err, ports.ErrUnsupportedFormat) {
			return result, pipeline.NewError(pipeline.CodeUnsupportedFormat, "open container", err)
		}
		return result, pipeline.NewError(pipeline.CodeCorrupt, "open container", err)
	}

	result.Container = container
	result.Streams = container.Streams()

	s.logger.Debug("Container opened with %d streams", len(result.Streams))
	return result, nil
}
