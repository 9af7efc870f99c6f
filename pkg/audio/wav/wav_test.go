package wav

import (
	"math"
	"testing"

	"github.com/earshot-audio/earshot/pkg/audio/pcm"
)

func sineBuffer(freq float64, format pcm.Format, frames int) *pcm.Buffer {
	samples := make([]float32, frames*format.Channels)
	for i := 0; i < frames; i++ {
		t := float64(i) / float64(format.SampleRate)
		v := float32(0.5 * math.Sin(2*math.Pi*freq*t))
		for ch := 0; ch < format.Channels; ch++ {
			samples[i*format.Channels+ch] = v
		}
	}
	return &pcm.Buffer{Samples: samples, Format: format}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	orig := sineBuffer(440, pcm.Mono44k1, 4410)

	data, err := Encode(orig)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Format != orig.Format {
		t.Errorf("format = %v, want %v", got.Format, orig.Format)
	}
	if len(got.Samples) != len(orig.Samples) {
		t.Fatalf("decoded %d samples, want %d", len(got.Samples), len(orig.Samples))
	}
	for i := range got.Samples {
		if diff := math.Abs(float64(got.Samples[i] - orig.Samples[i])); diff > 1.0/32000 {
			t.Fatalf("sample %d differs by %f", i, diff)
		}
	}
}

func TestDecodeStereo(t *testing.T) {
	orig := sineBuffer(880, pcm.Stereo48k, 960)
	data, err := Encode(orig)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Format.Channels != 2 || got.Format.SampleRate != 48000 {
		t.Errorf("format = %v, want stereo 48k", got.Format)
	}
	if got.Frames() != 960 {
		t.Errorf("frames = %d, want 960", got.Frames())
	}
}

func TestDecodeRejectsMalformed(t *testing.T) {
	valid, err := Encode(sineBuffer(440, pcm.Mono44k1, 441))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	truncated := make([]byte, 20)
	copy(truncated, valid)

	notRIFF := append([]byte(nil), valid...)
	copy(notRIFF[0:4], "JUNK")

	wrongDepth := append([]byte(nil), valid...)
	wrongDepth[34] = 8 // BitsPerSample

	tests := []struct {
		name string
		data []byte
	}{
		{"truncated", truncated},
		{"not RIFF", notRIFF},
		{"8-bit depth", wrongDepth},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(tt.data); err == nil {
				t.Error("malformed WAV accepted")
			}
		})
	}
}
