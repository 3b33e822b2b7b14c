package codecdetect

import "testing"

func TestFromFourCC(t *testing.T) {
	tests := []struct {
		fourcc string
		want   Codec
	}{
		{"jpeg", CodecMJPEG},
		{"mjpa", CodecMJPEG},
		{"raw ", CodecRGB24},
		{"I420", CodecI420},
		{"yv12", CodecYV12},
		{"vp08", CodecVP8},
		{"avc1", CodecH264},
		{"hev1", CodecH265},
		{"av01", CodecAV1},
		{"xxxx", CodecUnknown},
		{"", CodecUnknown},
	}

	for _, tt := range tests {
		if got := FromFourCC(tt.fourcc); got != tt.want {
			t.Errorf("FromFourCC(%q) = %s, want %s", tt.fourcc, got, tt.want)
		}
	}
}

func TestCodec_FourCC(t *testing.T) {
	for _, c := range []Codec{CodecMJPEG, CodecRGB24, CodecI420, CodecYV12, CodecVP8, CodecVP9, CodecH264, CodecH265, CodecAV1} {
		if got := FromFourCC(c.FourCC()); got != c {
			t.Errorf("FromFourCC(%q) = %s, want %s", c.FourCC(), got, c)
		}
	}
	if CodecUnknown.FourCC() != "" {
		t.Errorf("expected empty fourcc for unknown codec, got %q", CodecUnknown.FourCC())
	}
}
