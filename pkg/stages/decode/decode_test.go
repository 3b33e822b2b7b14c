package decode

import (
	"context"
	"errors"
	"testing"

	"github.com/user/framegrab/pkg/adapters/logger"
	"github.com/user/framegrab/pkg/mocks"
	"github.com/user/framegrab/pkg/pipeline"
	"github.com/user/framegrab/pkg/ports"
)

// 10 frames at 100ms intervals in a 1/1000 time base.
func newInput(decoder *mocks.Decoder, timeSeconds float64) (pipeline.DecodeInput, *mocks.Container) {
	stream := mocks.VideoStream(0, 1000, 2, 2)
	container := &mocks.Container{
		StreamList: []ports.StreamInfo{stream},
		Packets:    mocks.FramePackets(0, 10, 100, 5),
	}
	return pipeline.DecodeInput{
		Container:   container,
		Decoder:     decoder,
		Stream:      stream,
		TimeSeconds: timeSeconds,
		MaxPackets:  pipeline.DefaultMaxPackets,
	}, container
}

func TestStage_Execute(t *testing.T) {
	tests := []struct {
		name    string
		time    float64
		wantPTS int64
	}{
		{"first frame", 0, 0},
		{"exact", 0.3, 300},
		{"between frames picks next", 0.25, 300},
		{"last frame", 0.9, 900},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input, _ := newInput(&mocks.Decoder{}, tt.time)

			stage := NewStage(logger.NewNoop())
			result, err := stage.Execute(context.Background(), input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.Frame.PTS != tt.wantPTS {
				t.Errorf("expected pts %d, got %d", tt.wantPTS, result.Frame.PTS)
			}
			if result.Fallback {
				t.Error("unexpected fallback")
			}
		})
	}
}

func TestStage_Execute_SkipsForeignStreams(t *testing.T) {
	decoder := &mocks.Decoder{}
	input, container := newInput(decoder, 0.2)
	audio := mocks.FramePackets(1, 10, 100, 0)
	interleaved := make([]ports.Packet, 0, 20)
	for i := range container.Packets {
		interleaved = append(interleaved, audio[i], container.Packets[i])
	}
	container.Packets = interleaved

	stage := NewStage(logger.NewNoop())
	result, err := stage.Execute(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Frame.PTS != 200 {
		t.Errorf("expected pts 200, got %d", result.Frame.PTS)
	}
	for _, p := range decoder.SentPackets {
		if p.StreamIndex != 0 {
			t.Fatalf("decoder received a packet from stream #%d", p.StreamIndex)
		}
	}
	if result.PacketsScanned != 6 {
		t.Errorf("expected 6 packets scanned, got %d", result.PacketsScanned)
	}
}

func TestStage_Execute_DrainsDelayedFrames(t *testing.T) {
	decoder := &mocks.Decoder{Delay: 3}
	input, _ := newInput(decoder, 0.9)

	stage := NewStage(logger.NewNoop())
	result, err := stage.Execute(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !decoder.EOFSent {
		t.Error("expected end of stream to be signalled")
	}
	if !result.Drained {
		t.Error("expected frame to come from the drain")
	}
	if result.Frame.PTS != 900 {
		t.Errorf("expected pts 900, got %d", result.Frame.PTS)
	}
}

func TestStage_Execute_PastEndReturnsLastFrame(t *testing.T) {
	input, _ := newInput(&mocks.Decoder{}, 60)

	stage := NewStage(logger.NewNoop())
	result, err := stage.Execute(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.Fallback {
		t.Error("expected fallback to the last frame")
	}
	if result.Frame.PTS != 900 {
		t.Errorf("expected last pts 900, got %d", result.Frame.PTS)
	}
	if result.FramesDecoded != 10 {
		t.Errorf("expected 10 frames decoded, got %d", result.FramesDecoded)
	}
}

func TestStage_Execute_FrameWithoutPTSWins(t *testing.T) {
	decoder := &mocks.Decoder{
		FrameFunc: func(pkt ports.Packet) ports.DecodedFrame {
			return mocks.RGBFrame(2, 2, 0, false, pkt.Data)
		},
	}
	input, _ := newInput(decoder, 0.5)

	stage := NewStage(logger.NewNoop())
	result, err := stage.Execute(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.FramesDecoded != 1 {
		t.Errorf("expected the first frame to be selected, decoded %d", result.FramesDecoded)
	}
}

func TestStage_Execute_DuplicateTimestampsFirstWins(t *testing.T) {
	stream := mocks.VideoStream(0, 1000, 2, 2)
	container := &mocks.Container{
		Packets: []ports.Packet{
			{PTS: 0, HasPTS: true, Keyframe: true, Data: []byte{1}},
			{PTS: 100, HasPTS: true, Data: []byte{2}},
			{PTS: 100, HasPTS: true, Data: []byte{3}},
		},
	}

	stage := NewStage(logger.NewNoop())
	result, err := stage.Execute(context.Background(), pipeline.DecodeInput{
		Container:   container,
		Decoder:     &mocks.Decoder{},
		Stream:      stream,
		TimeSeconds: 0.1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := result.Frame.Planes[0].Data[0]; got != 2 {
		t.Errorf("expected the first frame at 100ms, got frame %d", got)
	}
}

func TestStage_Execute_FrameNotFound(t *testing.T) {
	decoder := &mocks.Decoder{
		SendPacketFunc: func(pkt ports.Packet) error { return nil },
	}
	input, _ := newInput(decoder, 0)

	stage := NewStage(logger.NewNoop())
	_, err := stage.Execute(context.Background(), input)
	if code := pipeline.CodeOf(err); code != pipeline.CodeFrameNotFound {
		t.Errorf("expected FrameNotFound, got %s (%v)", code, err)
	}
}

func TestStage_Execute_EmptyStream(t *testing.T) {
	input, container := newInput(&mocks.Decoder{}, 0)
	container.Packets = nil

	stage := NewStage(logger.NewNoop())
	_, err := stage.Execute(context.Background(), input)
	if code := pipeline.CodeOf(err); code != pipeline.CodeFrameNotFound {
		t.Errorf("expected FrameNotFound, got %s", code)
	}
}

func TestStage_Execute_PacketCap(t *testing.T) {
	endless := 0
	decoder := &mocks.Decoder{
		SendPacketFunc: func(pkt ports.Packet) error { return nil },
	}
	input, container := newInput(decoder, 0)
	container.ReadPacketFunc = func() (ports.Packet, error) {
		endless++
		return ports.Packet{StreamIndex: 0, PTS: int64(endless), HasPTS: true}, nil
	}
	input.MaxPackets = 25

	stage := NewStage(logger.NewNoop())
	result, err := stage.Execute(context.Background(), input)
	if code := pipeline.CodeOf(err); code != pipeline.CodeDecodeTimeout {
		t.Fatalf("expected DecodeTimeout, got %s (%v)", code, err)
	}
	if result.PacketsScanned != 25 {
		t.Errorf("expected exactly 25 packets scanned, got %d", result.PacketsScanned)
	}
}

func TestStage_Execute_CapEqualsPacketCount(t *testing.T) {
	tests := []struct {
		name         string
		time         float64
		wantPTS      int64
		wantFallback bool
	}{
		{"last frame", 0.9, 900, false},
		{"past the end", 5, 900, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input, _ := newInput(&mocks.Decoder{}, tt.time)
			input.MaxPackets = 10

			stage := NewStage(logger.NewNoop())
			result, err := stage.Execute(context.Background(), input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.Frame.PTS != tt.wantPTS || result.Fallback != tt.wantFallback {
				t.Errorf("expected pts %d fallback %v, got pts %d fallback %v",
					tt.wantPTS, tt.wantFallback, result.Frame.PTS, result.Fallback)
			}
			if result.PacketsScanned != 10 {
				t.Errorf("expected 10 packets scanned, got %d", result.PacketsScanned)
			}
		})
	}

	// one packet short of the stream still trips the cap
	input, _ := newInput(&mocks.Decoder{}, 5)
	input.MaxPackets = 9
	_, err := NewStage(logger.NewNoop()).Execute(context.Background(), input)
	if code := pipeline.CodeOf(err); code != pipeline.CodeDecodeTimeout {
		t.Errorf("expected DecodeTimeout with a cap of 9, got %s (%v)", code, err)
	}
}

func TestStage_Execute_CapDisabled(t *testing.T) {
	input, _ := newInput(&mocks.Decoder{}, 0.9)
	input.MaxPackets = 0

	stage := NewStage(logger.NewNoop())
	if _, err := stage.Execute(context.Background(), input); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestStage_Execute_Cancelled(t *testing.T) {
	input, _ := newInput(&mocks.Decoder{}, 0.5)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stage := NewStage(logger.NewNoop())
	_, err := stage.Execute(ctx, input)
	if code := pipeline.CodeOf(err); code != pipeline.CodeDecodeTimeout {
		t.Errorf("expected DecodeTimeout, got %s", code)
	}
	if !errors.Is(err, context.Canceled) {
		t.Error("expected context.Canceled in the chain")
	}
}

func TestStage_Execute_DecoderErrors(t *testing.T) {
	tests := []struct {
		name    string
		decoder *mocks.Decoder
	}{
		{"send packet", &mocks.Decoder{
			SendPacketFunc: func(pkt ports.Packet) error { return errors.New("bad bitstream") },
		}},
		{"receive frame", &mocks.Decoder{
			ReceiveFrameFunc: func() (ports.DecodedFrame, error) { return ports.DecodedFrame{}, errors.New("bad frame") },
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input, _ := newInput(tt.decoder, 0)

			stage := NewStage(logger.NewNoop())
			_, err := stage.Execute(context.Background(), input)
			if code := pipeline.CodeOf(err); code != pipeline.CodeCorrupt {
				t.Errorf("expected Corrupt, got %s", code)
			}
		})
	}
}

func TestStage_Execute_ReadError(t *testing.T) {
	input, container := newInput(&mocks.Decoder{}, 0)
	container.ReadPacketFunc = func() (ports.Packet, error) {
		return ports.Packet{}, errors.New("truncated sample")
	}

	stage := NewStage(logger.NewNoop())
	_, err := stage.Execute(context.Background(), input)
	if code := pipeline.CodeOf(err); code != pipeline.CodeCorrupt {
		t.Errorf("expected Corrupt, got %s", code)
	}
}
