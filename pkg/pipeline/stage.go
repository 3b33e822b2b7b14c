// Package pipeline holds the stage contract, the stage inputs and results,
// and the classified error shared by the extraction stages.
package pipeline

import "context"

// Stage is one step of frame extraction. A failing stage returns a *Error.
type Stage[In, Out any] interface {
	Execute(ctx context.Context, input In) (Out, error)
}
