// Package testvideo builds small fragmented and progressive MP4 files for tests.
package testvideo

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"testing"

	"github.com/Eyevinn/mp4ff/mp4"
)

// Track describes one track of a generated file.
type Track struct {
	Handler   string // "video" or "audio"
	Codec     string // sample entry fourcc, empty for none
	Width     int
	Height    int
	Timescale uint32
	FrameDur  uint32 // duration of each sample in Timescale units
	GOP       int    // keyframe interval; <= 1 makes every sample a keyframe
	Samples   [][]byte

	// CompositionOffsets are per-sample pts-dts offsets; nil means none.
	CompositionOffsets []int32
	// SamplesPerChunk groups samples into chunks in progressive files.
	SamplesPerChunk int
}

func (t Track) isSync(n int) bool {
	return t.GOP <= 1 || n%t.GOP == 0
}

func (t Track) compositionOffset(n int) int32 {
	if n < len(t.CompositionOffsets) {
		return t.CompositionOffsets[n]
	}
	return 0
}

// Build writes ftyp, moov and one moof/mdat fragment per track.
func Build(tracks ...Track) ([]byte, error) {
	if len(tracks) == 0 {
		return nil, fmt.Errorf("no tracks")
	}

	init := mp4.CreateEmptyInit()
	trackIDs := make([]uint32, len(tracks))

	for i, t := range tracks {
		init.AddEmptyTrack(t.Timescale, t.Handler, "en")
		trak := init.Moov.Traks[len(init.Moov.Traks)-1]
		trackIDs[i] = trak.Tkhd.TrackID

		if t.Handler == "video" {
			if t.Codec != "" {
				entry := mp4.CreateVisualSampleEntryBox(t.Codec, uint16(t.Width), uint16(t.Height), nil)
				trak.Mdia.Minf.Stbl.Stsd.AddChild(entry)
			}
			trak.Tkhd.Width = mp4.Fixed32(t.Width << 16)
			trak.Tkhd.Height = mp4.Fixed32(t.Height << 16)
		}
	}

	var buf bytes.Buffer

	ftyp := mp4.NewFtyp("isom", 0x200, []string{"isom", "iso6", "mp41"})
	if err := ftyp.Encode(&buf); err != nil {
		return nil, fmt.Errorf("encode ftyp: %w", err)
	}
	if err := init.Moov.Encode(&buf); err != nil {
		return nil, fmt.Errorf("encode moov: %w", err)
	}

	seq := uint32(1)
	for i, t := range tracks {
		if len(t.Samples) == 0 {
			continue
		}

		frag, err := mp4.CreateFragment(seq, trackIDs[i])
		if err != nil {
			return nil, fmt.Errorf("create fragment: %w", err)
		}
		seq++

		for n, data := range t.Samples {
			flags := mp4.NonSyncSampleFlags
			if t.isSync(n) {
				flags = mp4.SyncSampleFlags
			}
			frag.AddFullSample(mp4.FullSample{
				Sample: mp4.Sample{
					Flags:                 flags,
					Size:                  uint32(len(data)),
					Dur:                   t.FrameDur,
					CompositionTimeOffset: t.compositionOffset(n),
				},
				DecodeTime: uint64(n) * uint64(t.FrameDur),
				Data:       data,
			})
		}

		if err := frag.Encode(&buf); err != nil {
			return nil, fmt.Errorf("encode fragment: %w", err)
		}
	}

	return buf.Bytes(), nil
}

// BuildProgressive writes ftyp, a moov with full sample tables, and one
// mdat holding every track's samples track by track. Equal-sized samples
// are described by a uniform stsz size. The first track must have samples.
func BuildProgressive(tracks ...Track) ([]byte, error) {
	if len(tracks) == 0 {
		return nil, fmt.Errorf("no tracks")
	}

	ftyp := mp4.NewFtyp("isom", 0x200, []string{"isom", "iso2", "mp41"})
	moov := mp4.NewMoovBox()
	moov.AddChild(mp4.CreateMvhd())
	mdat := &mp4.MdatBox{}

	var stcos []*mp4.StcoBox
	for i, t := range tracks {
		trak := mp4.CreateEmptyTrak(uint32(i+1), t.Timescale, t.Handler, "und")
		moov.AddChild(trak)
		moov.Mvhd.NextTrackID = uint32(i + 2)

		stbl := trak.Mdia.Minf.Stbl
		if t.Handler == "video" {
			if t.Codec != "" {
				stbl.Stsd.AddChild(mp4.CreateVisualSampleEntryBox(t.Codec, uint16(t.Width), uint16(t.Height), nil))
			}
			trak.Tkhd.Width = mp4.Fixed32(t.Width << 16)
			trak.Tkhd.Height = mp4.Fixed32(t.Height << 16)
		}
		if len(t.Samples) == 0 {
			continue
		}

		n := len(t.Samples)
		perChunk := max(t.SamplesPerChunk, 1)
		stbl.Stts.SampleCount = []uint32{uint32(n)}
		stbl.Stts.SampleTimeDelta = []uint32{t.FrameDur}
		if err := stbl.Stsc.AddEntry(1, uint32(perChunk), 1); err != nil {
			return nil, fmt.Errorf("stsc: %w", err)
		}

		stbl.Stsz.SampleNumber = uint32(n)
		if uniform := sameSize(t.Samples); uniform > 0 {
			stbl.Stsz.SampleUniformSize = uint32(uniform)
		} else {
			for _, data := range t.Samples {
				stbl.Stsz.SampleSize = append(stbl.Stsz.SampleSize, uint32(len(data)))
			}
		}

		// chunk offsets are relative to the mdat payload until the layout is known
		for c := 0; c < n; c += perChunk {
			stbl.Stco.ChunkOffset = append(stbl.Stco.ChunkOffset, uint32(mdat.DataLength()))
			for _, data := range t.Samples[c:min(c+perChunk, n)] {
				mdat.AddSampleData(data)
			}
		}
		stcos = append(stcos, stbl.Stco)

		if t.GOP > 1 {
			stss := &mp4.StssBox{}
			for s := 0; s < n; s++ {
				if t.isSync(s) {
					stss.SampleNumber = append(stss.SampleNumber, uint32(s+1))
				}
			}
			stbl.AddChild(stss)
		}
		if len(t.CompositionOffsets) > 0 {
			counts := make([]uint32, n)
			offsets := make([]int32, n)
			for s := range counts {
				counts[s] = 1
				offsets[s] = t.compositionOffset(s)
			}
			ctts := &mp4.CttsBox{}
			if err := ctts.AddSampleCountsAndOffset(counts, offsets); err != nil {
				return nil, fmt.Errorf("ctts: %w", err)
			}
			stbl.AddChild(ctts)
		}
	}

	base := ftyp.Size() + moov.Size() + mdat.HeaderSize()
	for _, stco := range stcos {
		for i := range stco.ChunkOffset {
			stco.ChunkOffset[i] += uint32(base)
		}
	}

	var buf bytes.Buffer
	for _, box := range []mp4.Box{ftyp, moov, mdat} {
		if err := box.Encode(&buf); err != nil {
			return nil, fmt.Errorf("encode %s: %w", box.Type(), err)
		}
	}
	return buf.Bytes(), nil
}

// sameSize returns the common sample size, or 0 when sizes differ.
func sameSize(samples [][]byte) int {
	size := len(samples[0])
	for _, s := range samples[1:] {
		if len(s) != size {
			return 0
		}
	}
	return size
}

// MustBuildProgressive is BuildProgressive that fails the test on error.
func MustBuildProgressive(tb testing.TB, tracks ...Track) []byte {
	tb.Helper()
	data, err := BuildProgressive(tracks...)
	if err != nil {
		tb.Fatalf("build progressive test video: %v", err)
	}
	return data
}

// MustBuild is Build that fails the test on error.
func MustBuild(tb testing.TB, tracks ...Track) []byte {
	tb.Helper()
	data, err := Build(tracks...)
	if err != nil {
		tb.Fatalf("build test video: %v", err)
	}
	return data
}

// I420Video returns a video track of count solid-color I420 frames.
// Frame n has luma base+n so frames can be told apart after decoding.
func I420Video(width, height, count int, base byte) Track {
	samples := make([][]byte, count)
	for n := range samples {
		samples[n] = SolidI420(width, height, base+byte(n), 128, 128)
	}
	return Track{
		Handler:   "video",
		Codec:     "I420",
		Width:     width,
		Height:    height,
		Timescale: 1000,
		FrameDur:  100,
		GOP:       1,
		Samples:   samples,
	}
}

// AudioTrack returns an audio track with count opaque samples.
func AudioTrack(count int) Track {
	samples := make([][]byte, count)
	for n := range samples {
		samples[n] = []byte{0xDE, 0xAD, byte(n)}
	}
	return Track{
		Handler:   "audio",
		Timescale: 48000,
		FrameDur:  1024,
		Samples:   samples,
	}
}

// SolidI420 returns one planar 4:2:0 frame filled with a single color.
func SolidI420(width, height int, y, u, v byte) []byte {
	cw, ch := (width+1)/2, (height+1)/2
	frame := make([]byte, width*height+2*cw*ch)
	for i := 0; i < width*height; i++ {
		frame[i] = y
	}
	for i := 0; i < cw*ch; i++ {
		frame[width*height+i] = u
		frame[width*height+cw*ch+i] = v
	}
	return frame
}

// SolidRGB returns one packed RGB24 frame filled with a single color.
func SolidRGB(width, height int, r, g, b byte) []byte {
	frame := make([]byte, width*height*3)
	for i := 0; i < len(frame); i += 3 {
		frame[i], frame[i+1], frame[i+2] = r, g, b
	}
	return frame
}

// SolidJPEG returns a baseline JPEG of a single color.
func SolidJPEG(width, height int, c color.Color) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
