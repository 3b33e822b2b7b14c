package pipeline

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a pipeline failure. Values are stable because they
// cross the foreign-function boundary as plain integers.
type ErrorCode int

const (
	// CodeInternal is any fault not otherwise classified.
	CodeInternal ErrorCode = iota
	// CodeInvalidInput is an empty buffer or an invalid timestamp.
	CodeInvalidInput
	// CodeUnsupportedFormat is a buffer that cannot be probed as a container.
	CodeUnsupportedFormat
	// CodeCorrupt is a container or bitstream whose structure is broken.
	CodeCorrupt
	// CodeNoVideoStream is a container without a video track.
	CodeNoVideoStream
	// CodeUnsupportedCodec is a video track no decoder can be initialized for.
	CodeUnsupportedCodec
	// CodeSeekFailed is a seek rejected by the container.
	CodeSeekFailed
	// CodeDecodeTimeout is the packet-scan cap being exceeded.
	CodeDecodeTimeout
	// CodeFrameNotFound is a stream exhausted without any usable frame.
	CodeFrameNotFound
	// CodeConversionFailed is a decoded frame the pixel converter cannot interpret.
	CodeConversionFailed
)

// String returns the name of the error code.
func (c ErrorCode) String() string {
	switch c {
	case CodeInternal:
		return "InternalError"
	case CodeInvalidInput:
		return "InvalidInput"
	case CodeUnsupportedFormat:
		return "UnsupportedFormat"
	case CodeCorrupt:
		return "Corrupt"
	case CodeNoVideoStream:
		return "NoVideoStream"
	case CodeUnsupportedCodec:
		return "UnsupportedCodec"
	case CodeSeekFailed:
		return "SeekFailed"
	case CodeDecodeTimeout:
		return "DecodeTimeout"
	case CodeFrameNotFound:
		return "FrameNotFound"
	case CodeConversionFailed:
		return "ConversionFailed"
	default:
		return fmt.Sprintf("ErrorCode(%d)", int(c))
	}
}

// Error is a classified pipeline failure.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

// NewError creates an Error with the given code. err may be nil.
func NewError(code ErrorCode, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// Errorf creates an Error with a formatted message and no cause.
func Errorf(code ErrorCode, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	switch {
	case e.Err == nil:
		return e.Message
	case e.Message == "":
		return e.Err.Error()
	default:
		return e.Message + ": " + e.Err.Error()
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// CodeOf returns the code of the first *Error in err's chain, or
// CodeInternal if there is none.
func CodeOf(err error) ErrorCode {
	var perr *Error
	if errors.As(err, &perr) {
		return perr.Code
	}
	return CodeInternal
}
