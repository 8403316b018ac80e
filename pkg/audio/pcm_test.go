package audio

import (
	"math"
	"testing"
)

// samplesToBytes encodes int16 samples as little-endian PCM.
func samplesToBytes(samples []int16) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		out[i*2] = byte(s)
		out[i*2+1] = byte(s >> 8)
	}
	return out
}

func bytesToSamples(pcm []byte) []int16 {
	out := make([]int16, len(pcm)/2)
	for i := range out {
		out[i] = int16(pcm[i*2]) | int16(pcm[i*2+1])<<8
	}
	return out
}

func TestSamples(t *testing.T) {
	pcm := samplesToBytes([]int16{0, 16384, -16384, 32767, -32768})
	got, err := Samples(pcm)
	if err != nil {
		t.Fatalf("Samples() error = %v", err)
	}
	want := []float32{0, 0.5, -0.5, 32767.0 / 32768.0, -1}
	if len(got) != len(want) {
		t.Fatalf("Samples() returned %d samples, want %d", len(got), len(want))
	}
	for i := range want {
		if math.Abs(float64(got[i]-want[i])) > 1e-6 {
			t.Errorf("sample %d = %f, want %f", i, got[i], want[i])
		}
	}
}

func TestSamplesOddLength(t *testing.T) {
	if _, err := Samples([]byte{0x01, 0x02, 0x03}); err == nil {
		t.Error("Samples() with odd byte count should fail")
	}
}

func TestStereoToMono(t *testing.T) {
	// L=1000, R=2000 per frame -> mono 1500.
	stereo := samplesToBytes([]int16{1000, 2000, -1000, -2000})
	mono := bytesToSamples(StereoToMono(stereo))
	want := []int16{1500, -1500}
	if len(mono) != len(want) {
		t.Fatalf("StereoToMono() returned %d samples, want %d", len(mono), len(want))
	}
	for i := range want {
		if mono[i] != want[i] {
			t.Errorf("sample %d = %d, want %d", i, mono[i], want[i])
		}
	}
}

func TestResampleMono16SameRate(t *testing.T) {
	pcm := samplesToBytes([]int16{1, 2, 3})
	got := ResampleMono16(pcm, 16000, 16000)
	if len(got) != len(pcm) {
		t.Errorf("same-rate resample changed length: got %d, want %d", len(got), len(pcm))
	}
}

func TestResampleMono16Downsample(t *testing.T) {
	// 8 samples at 32 kHz -> 4 samples at 16 kHz.
	pcm := samplesToBytes([]int16{0, 100, 200, 300, 400, 500, 600, 700})
	got := bytesToSamples(ResampleMono16(pcm, 32000, 16000))
	if len(got) != 4 {
		t.Fatalf("downsample returned %d samples, want 4", len(got))
	}
	// Decimation by 2 should pick every other sample exactly.
	want := []int16{0, 200, 400, 600}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestResampleMono16Upsample(t *testing.T) {
	pcm := samplesToBytes([]int16{0, 1000})
	got := bytesToSamples(ResampleMono16(pcm, 8000, 16000))
	if len(got) != 4 {
		t.Fatalf("upsample returned %d samples, want 4", len(got))
	}
	// Linear interpolation midpoint between 0 and 1000.
	if got[1] != 500 {
		t.Errorf("interpolated sample = %d, want 500", got[1])
	}
}

func TestNormalize(t *testing.T) {
	stereo := samplesToBytes([]int16{16384, 16384, -16384, -16384})
	got, err := Normalize(stereo, 16000, 2, 16000)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Normalize() returned %d samples, want 2", len(got))
	}
	if math.Abs(float64(got[0])-0.5) > 1e-6 {
		t.Errorf("sample 0 = %f, want 0.5", got[0])
	}
}

func TestNormalizeBadChannels(t *testing.T) {
	if _, err := Normalize([]byte{0, 0}, 16000, 3, 16000); err == nil {
		t.Error("Normalize() with 3 channels should fail")
	}
}
