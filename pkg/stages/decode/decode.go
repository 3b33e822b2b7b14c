// Package decode implements the frame search loop.
package decode

import (
	"context"
	"errors"
	"io"

	"github.com/user/framegrab/pkg/pipeline"
	"github.com/user/framegrab/pkg/ports"
)

// timeEpsilon absorbs rounding when a frame timestamp is converted back to seconds.
const timeEpsilon = 1e-9

// Stage reads packets forward from the seek position until a decoded frame
// reaches the requested time.
type Stage struct {
	logger ports.Logger
}

// NewStage creates a new decode stage.
func NewStage(logger ports.Logger) *Stage {
	return &Stage{
		logger: logger.WithComponent("decode"),
	}
}

// Execute runs the decode loop.
func (s *Stage) Execute(ctx context.Context, input pipeline.DecodeInput) (pipeline.DecodeResult, error) {
	l := &loop{
		input:  input,
		logger: s.logger,
	}
	return l.run(ctx)
}

type loop struct {
	input  pipeline.DecodeInput
	logger ports.Logger

	result  pipeline.DecodeResult
	last    ports.DecodedFrame
	hasLast bool
}

func (l *loop) run(ctx context.Context) (pipeline.DecodeResult, error) {
	in := l.input

	for {
		select {
		case <-ctx.Done():
			return l.result, pipeline.NewError(pipeline.CodeDecodeTimeout, "decode cancelled", ctx.Err())
		default:
		}

		pkt, err := in.Container.ReadPacket()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return l.result, pipeline.NewError(pipeline.CodeCorrupt, "read packet", err)
		}
		// a stream of exactly MaxPackets packets still reaches end of stream
		if in.MaxPackets > 0 && l.result.PacketsScanned >= in.MaxPackets {
			return l.result, pipeline.Errorf(pipeline.CodeDecodeTimeout,
				"no frame at %.3fs after scanning %d packets", in.TimeSeconds, l.result.PacketsScanned)
		}
		l.result.PacketsScanned++

		if pkt.StreamIndex != in.Stream.Index {
			continue
		}

		if err := in.Decoder.SendPacket(pkt); err != nil {
			return l.result, pipeline.NewError(pipeline.CodeCorrupt, "send packet", err)
		}

		found, err := l.drain()
		if err != nil {
			return l.result, err
		}
		if found {
			return l.result, nil
		}
	}

	l.logger.Debug("End of stream after %d packets, draining decoder", l.result.PacketsScanned)

	if err := in.Decoder.SendEOF(); err != nil {
		return l.result, pipeline.NewError(pipeline.CodeCorrupt, "send end of stream", err)
	}
	found, err := l.drain()
	if err != nil {
		return l.result, err
	}
	if found {
		l.result.Drained = true
		return l.result, nil
	}

	if l.hasLast {
		l.logger.Debug("No frame at or after %.3fs, using last decoded frame", in.TimeSeconds)
		l.result.Frame = l.last
		l.result.Fallback = true
		return l.result, nil
	}

	return l.result, pipeline.Errorf(pipeline.CodeFrameNotFound,
		"no decodable frame at or after %.3fs", in.TimeSeconds)
}

// drain receives frames until the decoder needs input or one qualifies.
func (l *loop) drain() (bool, error) {
	for {
		frame, err := l.input.Decoder.ReceiveFrame()
		if errors.Is(err, ports.ErrAgain) || errors.Is(err, io.EOF) {
			return false, nil
		}
		if err != nil {
			return false, pipeline.NewError(pipeline.CodeCorrupt, "receive frame", err)
		}
		l.result.FramesDecoded++

		if l.qualifies(frame) {
			l.result.Frame = frame
			l.logger.Debug("Selected frame pts=%d after %d frames", frame.PTS, l.result.FramesDecoded)
			return true, nil
		}
		l.last = frame
		l.hasLast = true
	}
}

// qualifies reports whether the frame is the first one at or after the requested time.
// Frames without a timestamp are accepted as-is.
func (l *loop) qualifies(frame ports.DecodedFrame) bool {
	if !frame.HasPTS {
		return true
	}
	pts := l.input.Stream.TimeBase.Seconds(frame.PTS)
	return pts+timeEpsilon >= l.input.TimeSeconds
}
