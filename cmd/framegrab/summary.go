package main

import (
	"fmt"

	"github.com/user/framegrab/pkg/orchestrator"
	"github.com/user/framegrab/pkg/summarizer"
)

// buildSummary converts a run result to a summary.
func buildSummary(result orchestrator.RunResult, maxPackets int) *summarizer.Summary {
	stream := result.Stream
	timeBase := ""
	if stream.TimeBase.Valid() {
		timeBase = fmt.Sprintf("%d/%d", stream.TimeBase.Num, stream.TimeBase.Den)
	}

	return summarizer.NewBuilder().
		WithInput(result.InputPath, result.InputSize, len(result.Streams)).
		WithStream(summarizer.StreamInfo{
			Index:       stream.Index,
			Codec:       stream.Codec,
			Width:       stream.Width,
			Height:      stream.Height,
			TimeBase:    timeBase,
			DurationSec: stream.DurationSeconds(),
		}).
		WithRequest(result.RequestedSeconds, maxPackets).
		WithFrame(summarizer.FrameInfo{
			PTSSeconds:     result.FrameSeconds,
			HasPTS:         result.FrameHasPTS,
			Fallback:       result.Fallback,
			SourceFormat:   result.SourceFormat,
			Width:          result.FrameWidth,
			Height:         result.FrameHeight,
			PacketsScanned: result.PacketsScanned,
			FramesDecoded:  result.FramesDecoded,
		}).
		WithOutput(summarizer.OutputInfo{
			Path:      result.OutputPath,
			Format:    result.OutputFormat,
			Width:     result.OutputWidth,
			Height:    result.OutputHeight,
			FileSize:  result.OutputSize,
			Annotated: result.Annotated,
		}).
		Build()
}
