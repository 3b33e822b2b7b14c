// Package selector implements the video stream selection stage.
package selector

import (
	"context"
	"errors"

	"github.com/user/framegrab/pkg/pipeline"
	"github.com/user/framegrab/pkg/ports"
)

// Stage picks the container's best video stream and initializes a decoder for it.
type Stage struct {
	decoders ports.DecoderFactory
	logger   ports.Logger
}

// NewStage creates a new selector stage.
func NewStage(decoders ports.DecoderFactory, logger ports.Logger) *Stage {
	return &Stage{
		decoders: decoders,
		logger:   logger.WithComponent("selector"),
	}
}

// Execute selects the stream. The caller owns the returned decoder and must close it.
func (s *Stage) Execute(ctx context.Context, input pipeline.SelectInput) (pipeline.SelectResult, error) {
	result := pipeline.SelectResult{}

	stream, err := input.Container.BestStream(ports.MediaVideo)
	if err != nil {
		if errors.Is(err, ports.ErrStreamNotFound) {
			return result, pipeline.NewError(pipeline.CodeNoVideoStream, "select video stream", err)
		}
		return result, pipeline.NewError(pipeline.CodeCorrupt, "select video stream", err)
	}

	s.logger.Debug("Selected stream #%d (%s, %dx%d)", stream.Index, stream.Codec, stream.Width, stream.Height)

	decoder, err := s.decoders.NewDecoder(stream)
	if err != nil {
		return result, pipeline.NewError(pipeline.CodeUnsupportedCodec, "initialize decoder for "+quoteCodec(stream.Codec), err)
	}

	result.Stream = stream
	result.Decoder = decoder
	return result, nil
}

func quoteCodec(codec string) string {
	if codec == "" {
		return "unknown codec"
	}
	return "codec \"" + codec + "\""
}
