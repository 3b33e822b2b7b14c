package filesink

import (
	"errors"
	"image"
	"path/filepath"
	"testing"

	"github.com/user/framegrab/pkg/mocks"
	"github.com/user/framegrab/pkg/ports"
)

// testBaseDir is a platform-independent base directory for tests
var testBaseDir = filepath.Join("debug")

func TestSink_Enabled(t *testing.T) {
	sink := New(testBaseDir, mocks.NewFileSystem(), &mocks.Renderer{})

	if !sink.Enabled() {
		t.Error("expected Enabled to return true")
	}
}

func TestSink_SaveJSON(t *testing.T) {
	tests := []struct {
		name string
		save func(*Sink, []byte) error
		file string
	}{
		{"streams", (*Sink).SaveStreamsJSON, "streams.json"},
		{"result", (*Sink).SaveResultJSON, "result.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := mocks.NewFileSystem()
			sink := New(testBaseDir, fs, &mocks.Renderer{})

			data := []byte(`{"test": true}`)
			if err := tt.save(sink, data); err != nil {
				t.Fatalf("save failed: %v", err)
			}

			expectedPath := filepath.Join(testBaseDir, tt.file)
			saved, ok := fs.GetFile(expectedPath)
			if !ok {
				t.Fatalf("expected file to be saved at %s", expectedPath)
			}
			if string(saved) != string(data) {
				t.Errorf("expected %q, got %q", data, saved)
			}
			if ok, _ := fs.Exists(testBaseDir); !ok {
				t.Error("expected debug directory to be created")
			}
		})
	}
}

func TestSink_SaveFrame(t *testing.T) {
	fs := mocks.NewFileSystem()
	renderer := &mocks.Renderer{}
	sink := New(testBaseDir, fs, renderer)

	img := image.NewRGBA(image.Rect(0, 0, 16, 8))
	if err := sink.SaveFrame(img); err != nil {
		t.Fatalf("SaveFrame failed: %v", err)
	}

	saved, ok := fs.GetFile(filepath.Join(testBaseDir, "frame.png"))
	if !ok {
		t.Fatal("expected frame.png to be saved")
	}
	if string(saved) != "png:16x8" {
		t.Errorf("unexpected content %q", saved)
	}
	if len(renderer.EncodeCalls) != 1 || renderer.EncodeCalls[0].Format != ports.FormatPNG {
		t.Errorf("expected one PNG encode, got %+v", renderer.EncodeCalls)
	}
}

func TestSink_SaveFrameEncodeError(t *testing.T) {
	fs := mocks.NewFileSystem()
	encodeErr := errors.New("encoder broken")
	renderer := &mocks.Renderer{
		EncodeImageFunc: func(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
			return nil, encodeErr
		},
	}
	sink := New(testBaseDir, fs, renderer)

	err := sink.SaveFrame(image.NewRGBA(image.Rect(0, 0, 1, 1)))
	if !errors.Is(err, encodeErr) {
		t.Errorf("expected encode error, got %v", err)
	}
	if len(fs.GetAllFiles()) != 0 {
		t.Error("expected no files to be written")
	}
}
