package mocks

import (
	"image"
	"sync"

	"github.com/user/framegrab/pkg/ports"
)

// DebugSink is a mock implementation of ports.DebugSink.
type DebugSink struct {
	mu sync.RWMutex

	enabled bool

	StreamsJSON []byte
	ResultJSON  []byte
	Frame       image.Image
}

// NewDebugSink creates a new mock DebugSink.
func NewDebugSink(enabled bool) *DebugSink {
	return &DebugSink{enabled: enabled}
}

func (m *DebugSink) Enabled() bool {
	return m.enabled
}

func (m *DebugSink) SaveStreamsJSON(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StreamsJSON = data
	return nil
}

func (m *DebugSink) SaveResultJSON(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ResultJSON = data
	return nil
}

func (m *DebugSink) SaveFrame(img image.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Frame = img
	return nil
}

var _ ports.DebugSink = (*DebugSink)(nil)
