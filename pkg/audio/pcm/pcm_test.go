package pcm

import (
	"testing"
	"time"
)

func TestFormatValidate(t *testing.T) {
	tests := []struct {
		name    string
		format  Format
		wantErr bool
	}{
		{"mono 44.1k", Format{SampleRate: 44100, Channels: 1}, false},
		{"stereo 48k", Format{SampleRate: 48000, Channels: 2}, false},
		{"odd rate", Format{SampleRate: 11025, Channels: 1}, false},
		{"zero rate", Format{SampleRate: 0, Channels: 1}, true},
		{"negative rate", Format{SampleRate: -44100, Channels: 1}, true},
		{"zero channels", Format{SampleRate: 44100, Channels: 0}, true},
		{"three channels", Format{SampleRate: 44100, Channels: 3}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.format.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	f := Mono44k1
	if got := f.Duration(44100); got != time.Second {
		t.Errorf("Duration(44100) = %v, want 1s", got)
	}
	if got := f.SamplesInDuration(time.Second); got != 44100 {
		t.Errorf("SamplesInDuration(1s) = %d, want 44100", got)
	}

	st := Stereo48k
	if got := st.SamplesInDuration(time.Second); got != 96000 {
		t.Errorf("stereo SamplesInDuration(1s) = %d, want 96000", got)
	}
	if got := st.Frames(96000); got != 48000 {
		t.Errorf("stereo Frames(96000) = %d, want 48000", got)
	}
}

func TestBufferValidate(t *testing.T) {
	tests := []struct {
		name    string
		buf     Buffer
		wantErr bool
	}{
		{
			"valid mono",
			Buffer{Samples: make([]float32, 441), Format: Mono44k1},
			false,
		},
		{
			"valid stereo",
			Buffer{Samples: make([]float32, 200), Format: Stereo48k},
			false,
		},
		{
			"empty",
			Buffer{Samples: nil, Format: Mono44k1},
			true,
		},
		{
			"misaligned stereo",
			Buffer{Samples: make([]float32, 201), Format: Stereo48k},
			true,
		},
		{
			"bad format",
			Buffer{Samples: make([]float32, 300), Format: Format{SampleRate: 44100, Channels: 3}},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.buf.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestBufferClone(t *testing.T) {
	buf := &Buffer{Samples: []float32{0.1, 0.2, 0.3, 0.4}, Format: Stereo44k1}
	clone := buf.Clone()

	if clone.Format != buf.Format {
		t.Errorf("clone format = %v, want %v", clone.Format, buf.Format)
	}
	if len(clone.Samples) != len(buf.Samples) {
		t.Fatalf("clone has %d samples, want %d", len(clone.Samples), len(buf.Samples))
	}

	clone.Samples[0] = 9
	if buf.Samples[0] == 9 {
		t.Error("mutating the clone changed the original buffer")
	}
}
