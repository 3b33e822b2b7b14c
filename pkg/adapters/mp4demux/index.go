package mp4demux

import (
	"fmt"

	"github.com/Eyevinn/mp4ff/mp4"
	"github.com/user/framegrab/pkg/ports"
)

// sampleIsNonSync is the sample_is_non_sync_sample bit of ISO BMFF sample flags.
const sampleIsNonSync = 0x00010000

type sample struct {
	dts  int64
	pts  int64
	dur  int64
	sync bool
	data []byte
}

type track struct {
	info    ports.StreamInfo
	trackID uint32
	samples []sample
}

// buildTracks indexes every track of a decoded file.
func buildTracks(f *mp4.File, data []byte) ([]*track, error) {
	moov := f.Moov
	if f.IsFragmented() && f.Init != nil && f.Init.Moov != nil {
		moov = f.Init.Moov
	}
	if moov == nil {
		return nil, fmt.Errorf("no moov box: %w", ports.ErrCorrupt)
	}

	tracks := make([]*track, 0, len(moov.Traks))
	for i, trak := range moov.Traks {
		t, err := newTrack(i, trak)
		if err != nil {
			return nil, err
		}

		if f.IsFragmented() {
			err = t.indexFragments(f, trexFor(moov, t.trackID))
		} else {
			err = t.indexSampleTable(trak, data)
		}
		if err != nil {
			return nil, fmt.Errorf("track %d: %w", t.trackID, err)
		}

		t.info.SampleCount = len(t.samples)
		if t.info.Duration == 0 && len(t.samples) > 0 {
			last := t.samples[len(t.samples)-1]
			t.info.Duration = last.dts + last.dur - t.samples[0].dts
		}
		tracks = append(tracks, t)
	}

	return tracks, nil
}

func newTrack(index int, trak *mp4.TrakBox) (*track, error) {
	if trak.Tkhd == nil || trak.Mdia == nil || trak.Mdia.Mdhd == nil {
		return nil, fmt.Errorf("trak %d is missing tkhd or mdhd: %w", index, ports.ErrCorrupt)
	}

	t := &track{
		trackID: trak.Tkhd.TrackID,
		info: ports.StreamInfo{
			Index:    index,
			Type:     mediaType(trak),
			TimeBase: ports.Rational{Num: 1, Den: int64(trak.Mdia.Mdhd.Timescale)},
			Duration: int64(trak.Mdia.Mdhd.Duration),
			Width:    int(trak.Tkhd.Width >> 16),
			Height:   int(trak.Tkhd.Height >> 16),
		},
	}

	// The first sample entry describes the track
	if minf := trak.Mdia.Minf; minf != nil && minf.Stbl != nil && minf.Stbl.Stsd != nil && len(minf.Stbl.Stsd.Children) > 0 {
		entry := minf.Stbl.Stsd.Children[0]
		t.info.Codec = entry.Type()
		if vse, ok := entry.(*mp4.VisualSampleEntryBox); ok && vse.Width > 0 && vse.Height > 0 {
			t.info.Width = int(vse.Width)
			t.info.Height = int(vse.Height)
		}
	}

	return t, nil
}

func mediaType(trak *mp4.TrakBox) ports.MediaType {
	if trak.Mdia.Hdlr == nil {
		return ports.MediaOther
	}
	switch trak.Mdia.Hdlr.HandlerType {
	case "vide":
		return ports.MediaVideo
	case "soun":
		return ports.MediaAudio
	default:
		return ports.MediaOther
	}
}

func trexFor(moov *mp4.MoovBox, trackID uint32) *mp4.TrexBox {
	if moov.Mvex != nil {
		for _, trex := range moov.Mvex.Trexs {
			if trex.TrackID == trackID {
				return trex
			}
		}
	}
	return &mp4.TrexBox{TrackID: trackID}
}

// indexFragments collects the track's samples from every moof/mdat pair.
func (t *track) indexFragments(f *mp4.File, trex *mp4.TrexBox) error {
	for _, seg := range f.Segments {
		for _, frag := range seg.Fragments {
			if frag.Moof == nil || !fragmentHasTrack(frag, t.trackID) {
				continue
			}

			samples, err := frag.GetFullSamples(trex)
			if err != nil {
				return fmt.Errorf("get samples: %v: %w", err, ports.ErrCorrupt)
			}

			for _, s := range samples {
				dts := int64(s.DecodeTime)
				t.samples = append(t.samples, sample{
					dts:  dts,
					pts:  dts + int64(s.CompositionTimeOffset),
					dur:  int64(s.Dur),
					sync: s.Flags&sampleIsNonSync == 0,
					data: s.Data,
				})
			}
		}
	}
	return nil
}

func fragmentHasTrack(frag *mp4.Fragment, trackID uint32) bool {
	for _, traf := range frag.Moof.Trafs {
		if traf.Tfhd != nil && traf.Tfhd.TrackID == trackID {
			return true
		}
	}
	return false
}

// indexSampleTable locates the track's samples in a progressive file.
// Sample sizes and chunk offsets come from untrusted tables and are checked
// against the buffer before anything is allocated for them.
func (t *track) indexSampleTable(trak *mp4.TrakBox, data []byte) error {
	if trak.Mdia.Minf == nil || trak.Mdia.Minf.Stbl == nil {
		return fmt.Errorf("no sample table: %w", ports.ErrCorrupt)
	}
	stbl := trak.Mdia.Minf.Stbl
	if stbl.Stsz == nil || stbl.Stsz.GetNrSamples() == 0 {
		return nil
	}
	if stbl.Stsc == nil || len(stbl.Stsc.Entries) == 0 || stbl.Stts == nil {
		return fmt.Errorf("missing stsc or stts box: %w", ports.ErrCorrupt)
	}
	if stbl.Stco == nil && stbl.Co64 == nil {
		return fmt.Errorf("no stco or co64 box: %w", ports.ErrCorrupt)
	}

	count := stbl.Stsz.GetNrSamples()
	if uniform := uint64(stbl.Stsz.SampleUniformSize); uniform > 0 && uint64(count)*uniform > uint64(len(data)) {
		return fmt.Errorf("%d samples of %d bytes exceed the %d byte buffer: %w", count, uniform, len(data), ports.ErrCorrupt)
	}

	times := newSampleClock(stbl.Stts)
	t.samples = make([]sample, 0, min(int(count), len(data)))

	chunk, offset := -1, uint64(0)
	for nr := uint32(1); nr <= count; nr++ {
		chunkNr, _, err := stbl.Stsc.ChunkNrFromSampleNr(int(nr))
		if err != nil {
			return fmt.Errorf("sample %d: chunk lookup: %v: %w", nr, err, ports.ErrCorrupt)
		}
		if chunkNr != chunk {
			if offset, err = chunkOffset(stbl, chunkNr); err != nil {
				return fmt.Errorf("sample %d: %w", nr, err)
			}
			chunk = chunkNr
		}

		size := uint64(stbl.Stsz.GetSampleSize(int(nr)))
		if offset > uint64(len(data)) || size > uint64(len(data))-offset {
			return fmt.Errorf("sample %d: %d bytes at offset %d exceed the %d byte buffer: %w", nr, size, offset, len(data), ports.ErrCorrupt)
		}

		dts, dur, err := times.next()
		if err != nil {
			return fmt.Errorf("sample %d: %w", nr, err)
		}
		cto, err := compositionOffset(stbl.Ctts, nr)
		if err != nil {
			return fmt.Errorf("sample %d: %w", nr, err)
		}

		t.samples = append(t.samples, sample{
			dts:  dts,
			pts:  dts + cto,
			dur:  dur,
			sync: stbl.Stss == nil || stbl.Stss.IsSyncSample(nr),
			data: data[offset : offset+size],
		})
		offset += size
	}
	return nil
}

// chunkOffset returns the file offset of a 1-based chunk.
func chunkOffset(stbl *mp4.StblBox, chunkNr int) (uint64, error) {
	if stbl.Stco != nil {
		offset, err := stbl.Stco.GetOffset(chunkNr)
		if err != nil {
			return 0, fmt.Errorf("chunk offset: %v: %w", err, ports.ErrCorrupt)
		}
		return offset, nil
	}
	if chunkNr < 1 || chunkNr > len(stbl.Co64.ChunkOffset) {
		return 0, fmt.Errorf("chunk %d out of range: %w", chunkNr, ports.ErrCorrupt)
	}
	return stbl.Co64.ChunkOffset[chunkNr-1], nil
}

// compositionOffset returns the ctts offset of a 1-based sample, or 0 without ctts.
func compositionOffset(ctts *mp4.CttsBox, nr uint32) (int64, error) {
	if ctts == nil {
		return 0, nil
	}
	if n := len(ctts.EndSampleNr); n < 2 || nr > ctts.EndSampleNr[n-1] {
		return 0, fmt.Errorf("ctts covers fewer samples than stsz: %w", ports.ErrCorrupt)
	}
	return int64(ctts.GetCompositionTimeOffset(nr)), nil
}

// sampleClock walks the stts run-length table one sample at a time.
type sampleClock struct {
	stts  *mp4.SttsBox
	entry int
	left  uint32
	dts   int64
}

func newSampleClock(stts *mp4.SttsBox) *sampleClock {
	return &sampleClock{stts: stts, entry: -1}
}

// next returns the decode time and duration of the following sample.
func (c *sampleClock) next() (int64, int64, error) {
	for c.left == 0 {
		c.entry++
		if c.entry >= len(c.stts.SampleCount) || c.entry >= len(c.stts.SampleTimeDelta) {
			return 0, 0, fmt.Errorf("stts covers fewer samples than stsz: %w", ports.ErrCorrupt)
		}
		c.left = c.stts.SampleCount[c.entry]
	}
	c.left--

	dts := c.dts
	dur := int64(c.stts.SampleTimeDelta[c.entry])
	c.dts += dur
	return dts, dur, nil
}
