package mp4demux

import (
	"encoding/binary"
	"fmt"

	"github.com/user/framegrab/pkg/ports"
)

// topLevelBoxes are the box types accepted at file level.
var topLevelBoxes = map[string]bool{
	"ftyp": true, "styp": true, "moov": true, "moof": true, "mdat": true,
	"free": true, "skip": true, "wide": true, "uuid": true, "sidx": true,
	"ssix": true, "mfra": true, "meta": true, "pdin": true, "emsg": true,
	"prft": true, "udta": true,
}

// leadingBoxes are the types a recognizable file may start with.
var leadingBoxes = map[string]bool{
	"ftyp": true, "styp": true, "moov": true, "free": true, "skip": true,
	"wide": true, "mdat": true, "uuid": true,
}

type boxHeader struct {
	Type   string
	Offset int64
	Size   int64
}

// scanBoxes walks the top-level box headers without decoding payloads.
// Box sizes are checked against the buffer so that the full parse never
// allocates for lengths the input cannot contain.
func scanBoxes(data []byte) ([]boxHeader, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("%d bytes is too short for a box header: %w", len(data), ports.ErrUnsupportedFormat)
	}

	var boxes []boxHeader
	total := int64(len(data))
	var pos int64

	for pos < total {
		if total-pos < 8 {
			return nil, fmt.Errorf("trailing %d bytes at offset %d: %w", total-pos, pos, ports.ErrCorrupt)
		}

		size := int64(binary.BigEndian.Uint32(data[pos:]))
		boxType := string(data[pos+4 : pos+8])
		headerLen := int64(8)

		if len(boxes) == 0 && !leadingBoxes[boxType] {
			return nil, fmt.Errorf("unknown leading box %q: %w", printable(boxType), ports.ErrUnsupportedFormat)
		}
		if !topLevelBoxes[boxType] {
			return nil, fmt.Errorf("unexpected box %q at offset %d: %w", printable(boxType), pos, ports.ErrCorrupt)
		}

		switch size {
		case 0:
			size = total - pos
		case 1:
			if total-pos < 16 {
				return nil, fmt.Errorf("truncated large box %q at offset %d: %w", boxType, pos, ports.ErrCorrupt)
			}
			large := binary.BigEndian.Uint64(data[pos+8:])
			if large > uint64(total-pos) {
				return nil, fmt.Errorf("box %q at offset %d claims %d bytes, %d available: %w", boxType, pos, large, total-pos, ports.ErrCorrupt)
			}
			size = int64(large)
			headerLen = 16
		}

		if size < headerLen {
			return nil, fmt.Errorf("box %q at offset %d has invalid size %d: %w", boxType, pos, size, ports.ErrCorrupt)
		}
		if size > total-pos {
			return nil, fmt.Errorf("box %q at offset %d claims %d bytes, %d available: %w", boxType, pos, size, total-pos, ports.ErrCorrupt)
		}

		boxes = append(boxes, boxHeader{Type: boxType, Offset: pos, Size: size})
		pos += size
	}

	return boxes, nil
}

func hasBox(boxes []boxHeader, boxType string) bool {
	for _, b := range boxes {
		if b.Type == boxType {
			return true
		}
	}
	return false
}

func printable(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c < 0x20 || c > 0x7e {
			b[i] = '.'
		}
	}
	return string(b)
}
