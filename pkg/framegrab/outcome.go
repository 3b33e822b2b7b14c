package framegrab

import "github.com/user/framegrab/pkg/extract"

// Outcome is a flat form of extract.Result for callers that cannot
// switch on Go types, such as the WASM bindings.
type Outcome struct {
	Success      bool
	Width        int
	Height       int
	Pixels       []byte
	ErrorCode    int
	ErrorName    string
	ErrorMessage string
}

// Flatten converts a Result to an Outcome. A nil result is an InternalError.
func Flatten(r extract.Result) Outcome {
	switch r := r.(type) {
	case extract.Success:
		return Outcome{
			Success: true,
			Width:   int(r.Frame.Width),
			Height:  int(r.Frame.Height),
			Pixels:  r.Frame.Pixels,
		}
	case extract.Failure:
		return Outcome{
			ErrorCode:    int(r.Code),
			ErrorName:    r.Code.String(),
			ErrorMessage: r.Message,
		}
	default:
		return Outcome{
			ErrorCode:    int(extract.InternalError),
			ErrorName:    extract.InternalError.String(),
			ErrorMessage: "no result",
		}
	}
}
