package framegrab

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"image/color"
	"sync"
	"testing"

	"github.com/user/framegrab/internal/testvideo"
	"github.com/user/framegrab/pkg/extract"
)

// limitedGray is the RGB value of a limited-range luma sample with neutral chroma.
func limitedGray(y byte) byte {
	v := (298*(int(y)-16) + 128) >> 8
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}

func mustSucceed(t *testing.T, result extract.Result) extract.RGBBuffer {
	t.Helper()
	switch r := result.(type) {
	case extract.Success:
		return r.Frame
	case extract.Failure:
		t.Fatalf("expected success, got %s: %s", r.Code, r.Message)
	default:
		t.Fatalf("unexpected result type %T", result)
	}
	return extract.RGBBuffer{}
}

func TestExtractVideoFrame_I420(t *testing.T) {
	// 10 frames, 100ms apart, frame n has luma 100+n
	data := testvideo.MustBuild(t, testvideo.I420Video(6, 4, 10, 100))

	tests := []struct {
		name  string
		time  float64
		frame int
	}{
		{"zero", 0, 0},
		{"between frames", 0.35, 4},
		{"exact timestamp", 0.3, 3},
		{"last frame", 0.9, 9},
		{"past the end", 100, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame := mustSucceed(t, ExtractVideoFrame(data, tt.time))

			if frame.Width != 6 || frame.Height != 4 {
				t.Fatalf("expected 6x4, got %dx%d", frame.Width, frame.Height)
			}
			if len(frame.Pixels) != 6*4*3 {
				t.Fatalf("expected 72 bytes, got %d", len(frame.Pixels))
			}
			want := limitedGray(byte(100 + tt.frame))
			for i, b := range frame.Pixels {
				if b != want {
					t.Fatalf("byte %d: expected %d (frame %d), got %d", i, want, tt.frame, b)
				}
			}
		})
	}
}

func TestExtractVideoFrame_GOP(t *testing.T) {
	track := testvideo.I420Video(4, 4, 12, 50)
	track.GOP = 4

	data := testvideo.MustBuild(t, track)
	frame := mustSucceed(t, ExtractVideoFrame(data, 0.65))

	// seeks back to the keyframe at 400ms and decodes forward to 700ms
	if want := limitedGray(57); frame.Pixels[0] != want {
		t.Errorf("expected frame 7 value %d, got %d", want, frame.Pixels[0])
	}
}

func TestExtractVideoFrame_RGB(t *testing.T) {
	track := testvideo.Track{
		Handler:   "video",
		Codec:     "raw ",
		Width:     3,
		Height:    2,
		Timescale: 25,
		FrameDur:  1,
		Samples: [][]byte{
			testvideo.SolidRGB(3, 2, 10, 20, 30),
			testvideo.SolidRGB(3, 2, 40, 50, 60),
		},
	}
	data := testvideo.MustBuild(t, track)

	frame := mustSucceed(t, ExtractVideoFrame(data, 0.04))
	want := bytes.Repeat([]byte{40, 50, 60}, 6)
	if !bytes.Equal(frame.Pixels, want) {
		t.Errorf("expected %v, got %v", want, frame.Pixels)
	}
}

func TestExtractVideoFrame_MJPEG(t *testing.T) {
	red, err := testvideo.SolidJPEG(16, 16, color.RGBA{R: 220, G: 20, B: 20, A: 255})
	if err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	blue, err := testvideo.SolidJPEG(16, 16, color.RGBA{R: 20, G: 20, B: 220, A: 255})
	if err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}

	data := testvideo.MustBuild(t, testvideo.Track{
		Handler:   "video",
		Codec:     "jpeg",
		Width:     16,
		Height:    16,
		Timescale: 30,
		FrameDur:  1,
		Samples:   [][]byte{red, blue},
	})

	frame := mustSucceed(t, ExtractVideoFrame(data, 0.02))
	if frame.Width != 16 || frame.Height != 16 {
		t.Fatalf("expected 16x16, got %dx%d", frame.Width, frame.Height)
	}
	r, g, b := frame.Pixels[0], frame.Pixels[1], frame.Pixels[2]
	if b < 180 || r > 60 || g > 60 {
		t.Errorf("expected the blue frame, got (%d,%d,%d)", r, g, b)
	}
}

func TestExtractVideoFrame_WithAudio(t *testing.T) {
	data := testvideo.MustBuild(t, testvideo.AudioTrack(30), testvideo.I420Video(4, 4, 5, 30))

	frame := mustSucceed(t, ExtractVideoFrame(data, 0.2))
	if want := limitedGray(32); frame.Pixels[0] != want {
		t.Errorf("expected frame 2 value %d, got %d", want, frame.Pixels[0])
	}
}

func TestExtractVideoFrame_Progressive(t *testing.T) {
	track := testvideo.I420Video(4, 2, 12, 70)
	track.GOP = 4
	track.SamplesPerChunk = 5
	data := testvideo.MustBuildProgressive(t, track, testvideo.AudioTrack(20))

	tests := []struct {
		name  string
		time  float64
		frame int
	}{
		{"zero", 0, 0},
		{"inside a chunk", 0.25, 3},
		{"after a keyframe", 0.51, 6},
		{"past the end", 9, 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame := mustSucceed(t, ExtractVideoFrame(data, tt.time))
			if frame.Width != 4 || frame.Height != 2 {
				t.Fatalf("expected 4x2, got %dx%d", frame.Width, frame.Height)
			}
			if want := limitedGray(byte(70 + tt.frame)); frame.Pixels[0] != want {
				t.Errorf("expected frame %d value %d, got %d", tt.frame, want, frame.Pixels[0])
			}
		})
	}
}

func TestExtractVideoFrame_HugeSampleCount(t *testing.T) {
	data := testvideo.MustBuildProgressive(t, testvideo.I420Video(4, 4, 3, 0))
	idx := bytes.Index(data, []byte("stsz"))
	if idx < 0 {
		t.Fatal("no stsz box")
	}
	// uniform-size stsz: the sample count follows version, flags and size
	binary.BigEndian.PutUint32(data[idx+12:], 0x7FFFFFFF)

	failure, ok := ExtractVideoFrame(data, 0).(extract.Failure)
	if !ok {
		t.Fatal("expected Failure")
	}
	if failure.Code != extract.Corrupt {
		t.Errorf("expected Corrupt, got %s (%s)", failure.Code, failure.Message)
	}
}

func TestExtractVideoFrame_Failures(t *testing.T) {
	valid := testvideo.MustBuild(t, testvideo.I420Video(4, 4, 3, 0))
	audioOnly := testvideo.MustBuild(t, testvideo.AudioTrack(5))
	h264 := testvideo.MustBuild(t, testvideo.Track{
		Handler:   "video",
		Codec:     "avc1",
		Width:     16,
		Height:    16,
		Timescale: 1000,
		FrameDur:  40,
		Samples:   [][]byte{{0, 0, 0, 1, 0x65}},
	})

	tests := []struct {
		name  string
		input []byte
		time  float64
		want  extract.ErrorCode
	}{
		{"empty input", nil, 0, extract.InvalidInput},
		{"negative time", valid, -0.5, extract.InvalidInput},
		{"not a video", []byte("definitely not a video file at all"), 0, extract.UnsupportedFormat},
		{"truncated", valid[:len(valid)-5], 0, extract.Corrupt},
		{"no video stream", audioOnly, 0, extract.NoVideoStream},
		{"unsupported codec", h264, 0, extract.UnsupportedCodec},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ExtractVideoFrame(tt.input, tt.time)
			failure, ok := result.(extract.Failure)
			if !ok {
				t.Fatalf("expected Failure, got %T", result)
			}
			if failure.Code != tt.want {
				t.Errorf("expected %s, got %s (%s)", tt.want, failure.Code, failure.Message)
			}
			if failure.Message == "" {
				t.Error("expected a message")
			}
		})
	}
}

func TestNew_MaxPackets(t *testing.T) {
	track := testvideo.I420Video(4, 4, 10, 0)
	track.GOP = 10
	data := testvideo.MustBuild(t, track)

	_, err := New(WithMaxPackets(3)).Extract(context.Background(), data, 0.9)
	if code := extract.CodeOf(err); code != extract.DecodeTimeout {
		t.Errorf("expected DecodeTimeout, got %s (%v)", code, err)
	}

	if _, err := New(WithMaxPackets(-1)).Extract(context.Background(), data, 0.9); err != nil {
		t.Errorf("unexpected error with the cap disabled: %v", err)
	}
}

func TestExtractVideoFrame_LeavesInputUntouched(t *testing.T) {
	data := testvideo.MustBuild(t, testvideo.I420Video(4, 4, 3, 0))
	orig := append([]byte(nil), data...)

	first := mustSucceed(t, ExtractVideoFrame(data, 0.1))
	second := mustSucceed(t, ExtractVideoFrame(data, 0.1))

	if !bytes.Equal(data, orig) {
		t.Error("input buffer was modified")
	}
	if !bytes.Equal(first.Pixels, second.Pixels) {
		t.Error("repeated extraction returned different pixels")
	}
}

func TestExtractor_Concurrent(t *testing.T) {
	data := testvideo.MustBuild(t, testvideo.I420Video(4, 4, 8, 60))
	ex := New()

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for n := 0; n < 8; n++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			frame, err := ex.Extract(context.Background(), data, float64(n)/10)
			if err != nil {
				errs <- err
				return
			}
			if want := limitedGray(byte(60 + n)); frame.Pixels[0] != want {
				errs <- fmt.Errorf("t=%.1f: expected %d, got %d", float64(n)/10, want, frame.Pixels[0])
			}
		}(n)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}

func TestCheckEnvironment(t *testing.T) {
	env, err := CheckEnvironment()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if env.Version != Version() || env.Version == "" {
		t.Errorf("unexpected version %q", env.Version)
	}
	if len(env.Codecs) != 5 {
		t.Errorf("expected 5 codecs, got %v", env.Codecs)
	}
	if len(env.Containers) == 0 {
		t.Error("expected containers")
	}
}
