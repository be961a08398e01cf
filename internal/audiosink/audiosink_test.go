package audiosink

import "testing"

type fakeSource struct {
	batches [][]float32
	index   int
}

func (f *fakeSource) GetAudioSamples() []float32 {
	if f.index >= len(f.batches) {
		return nil
	}
	batch := f.batches[f.index]
	f.index++
	return batch
}

func TestStreamReadEncodesMonoSamplesAsStereoPCM(t *testing.T) {
	source := &fakeSource{batches: [][]float32{{1.0, -1.0}}}
	s := NewStream(source, 1.0)

	buf := make([]byte, 8) // 2 samples * 4 bytes/frame
	n, err := s.Read(buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if n != 8 {
		t.Fatalf("n = %d, want 8", n)
	}

	// First sample (+1.0) -> max positive int16, little endian, both channels.
	maxLo, maxHi := buf[0], buf[1]
	if maxLo != 0xFF || maxHi != 0x7F {
		t.Errorf("positive sample encoded as %02X%02X, want FF7F", maxHi, maxLo)
	}
	if buf[2] != maxLo || buf[3] != maxHi {
		t.Error("right channel does not mirror left channel for positive sample")
	}

	// Second sample (-1.0) -> max negative int16.
	minLo, minHi := buf[4], buf[5]
	if minLo != 0x01 || minHi != 0x80 {
		t.Errorf("negative sample encoded as %02X%02X, want 8001", minHi, minLo)
	}
}

func TestStreamReadEmitsSilenceWhenSourceStarved(t *testing.T) {
	source := &fakeSource{}
	s := NewStream(source, 1.0)

	buf := make([]byte, 16)
	n, err := s.Read(buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if n != 16 {
		t.Fatalf("n = %d, want 16", n)
	}
	for i, b := range buf {
		if b != 0 {
			t.Fatalf("buf[%d] = %#x, want 0 (silence)", i, b)
		}
	}
}

func TestStreamReadAppliesVolumeScaling(t *testing.T) {
	source := &fakeSource{batches: [][]float32{{1.0}}}
	s := NewStream(source, 0.5)

	buf := make([]byte, 4)
	if _, err := s.Read(buf); err != nil {
		t.Fatalf("Read: %v", err)
	}

	got := int16(uint16(buf[0]) | uint16(buf[1])<<8)
	want := int16(32767 / 2)
	if diff := got - want; diff < -1 || diff > 1 {
		t.Errorf("scaled sample = %d, want ~%d", got, want)
	}
}

func TestStreamReadCarriesPartialBatchAcrossReads(t *testing.T) {
	source := &fakeSource{batches: [][]float32{{0.5, -0.5, 0.25}}}
	s := NewStream(source, 1.0)

	first := make([]byte, 4) // room for exactly one encoded sample
	if _, err := s.Read(first); err != nil {
		t.Fatalf("Read: %v", err)
	}

	second := make([]byte, 8) // remaining two samples
	n, err := s.Read(second)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if n != 8 {
		t.Fatalf("n = %d, want 8", n)
	}
	if source.index != 1 {
		t.Errorf("source called %d times, want exactly 1 (batch should be fully consumed before a new one is pulled)", source.index)
	}
}

func TestSetVolumeClampsOutOfRangeValues(t *testing.T) {
	s := NewStream(&fakeSource{}, 0.5)
	s.SetVolume(2.0)
	if s.volume != 1.0 {
		t.Errorf("volume = %v, want clamped to 1.0", s.volume)
	}
	s.SetVolume(-1.0)
	if s.volume != 0 {
		t.Errorf("volume = %v, want clamped to 0.0", s.volume)
	}
}
