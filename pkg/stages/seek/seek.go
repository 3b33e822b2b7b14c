// Package seek implements the coarse seek stage.
package seek

import (
	"context"
	"math"

	"github.com/user/framegrab/pkg/pipeline"
	"github.com/user/framegrab/pkg/ports"
)

// Stage positions the container on the last keyframe at or before the requested time.
type Stage struct {
	logger ports.Logger
}

// NewStage creates a new seek stage.
func NewStage(logger ports.Logger) *Stage {
	return &Stage{
		logger: logger.WithComponent("seek"),
	}
}

// Execute validates the time, seeks backward and flushes the decoder.
func (s *Stage) Execute(ctx context.Context, input pipeline.SeekInput) (pipeline.SeekResult, error) {
	result := pipeline.SeekResult{}

	t := input.TimeSeconds
	if math.IsNaN(t) || math.IsInf(t, 0) || t < 0 {
		return result, pipeline.Errorf(pipeline.CodeInvalidInput, "invalid timestamp %v: must be a finite, non-negative number of seconds", t)
	}

	tb := input.Stream.TimeBase
	if !tb.Valid() {
		return result, pipeline.Errorf(pipeline.CodeCorrupt, "stream #%d has invalid time base %d/%d", input.Stream.Index, tb.Num, tb.Den)
	}

	result.TargetTS = TargetTimestamp(t, tb)

	if d := input.Stream.DurationSeconds(); d > 0 && t > d {
		s.logger.Debug("Requested time %.3fs is past the stream duration %.3fs", t, d)
	}
	s.logger.Debug("Seeking stream #%d to ts %d", input.Stream.Index, result.TargetTS)

	if err := input.Container.SeekBackward(input.Stream.Index, result.TargetTS); err != nil {
		return result, pipeline.NewError(pipeline.CodeSeekFailed, "seek", err)
	}
	input.Decoder.Flush()

	return result, nil
}

// TargetTimestamp converts seconds to the time base, rounding down.
// Results that overflow int64 saturate to math.MaxInt64.
func TargetTimestamp(seconds float64, tb ports.Rational) int64 {
	v := math.Floor(seconds * float64(tb.Den) / float64(tb.Num))
	if v >= math.MaxInt64 {
		return math.MaxInt64
	}
	if v < 0 {
		return 0
	}
	return int64(v)
}
