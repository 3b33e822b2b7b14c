// Package codecdetect maps MP4 sample entry types to codec families.
package codecdetect

// Codec represents a video codec family.
type Codec string

const (
	CodecMJPEG   Codec = "mjpeg"
	CodecRGB24   Codec = "rgb24"
	CodecI420    Codec = "i420"
	CodecYV12    Codec = "yv12"
	CodecVP8     Codec = "vp8"
	CodecVP9     Codec = "vp9"
	CodecH264    Codec = "h264"
	CodecH265    Codec = "h265"
	CodecAV1     Codec = "av1"
	CodecUnknown Codec = "unknown"
)

// FromFourCC returns the codec family of a sample entry type.
func FromFourCC(fourcc string) Codec {
	switch fourcc {
	case "jpeg", "mjpa", "mjpg", "MJPG", "AVDJ", "dmb1":
		return CodecMJPEG
	case "raw ":
		return CodecRGB24
	case "I420", "i420", "IYUV":
		return CodecI420
	case "yv12", "YV12":
		return CodecYV12
	case "vp08":
		return CodecVP8
	case "vp09":
		return CodecVP9
	case "avc1", "avc3":
		return CodecH264
	case "hvc1", "hev1":
		return CodecH265
	case "av01":
		return CodecAV1
	default:
		return CodecUnknown
	}
}

var canonicalFourCC = map[Codec]string{
	CodecMJPEG: "jpeg",
	CodecRGB24: "raw ",
	CodecI420:  "I420",
	CodecYV12:  "yv12",
	CodecVP8:   "vp08",
	CodecVP9:   "vp09",
	CodecH264:  "avc1",
	CodecH265:  "hvc1",
	CodecAV1:   "av01",
}

// FourCC returns the usual sample entry type of the codec, or "" if unknown.
func (c Codec) FourCC() string {
	return canonicalFourCC[c]
}
