package ports

import (
	"image"
)

// DebugSink abstracts debug output for intermediate results.
// It allows saving intermediate processing results for debugging purposes.
type DebugSink interface {
	// Enabled returns true if debug output is enabled.
	Enabled() bool

	// SaveStreamsJSON saves the probed stream list as JSON.
	SaveStreamsJSON(data []byte) error

	// SaveResultJSON saves the extraction report as JSON.
	SaveResultJSON(data []byte) error

	// SaveFrame saves the extracted frame before annotation and encoding.
	SaveFrame(img image.Image) error
}
