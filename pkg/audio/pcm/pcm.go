package pcm

import (
	"errors"
	"fmt"
	"time"
)

// Common stream layouts.
var (
	// Mono44k1 represents audio/F32; rate=44100; channels=1
	Mono44k1 = Format{SampleRate: 44100, Channels: 1}
	// Stereo44k1 represents audio/F32; rate=44100; channels=2
	Stereo44k1 = Format{SampleRate: 44100, Channels: 2}
	// Mono48k represents audio/F32; rate=48000; channels=1
	Mono48k = Format{SampleRate: 48000, Channels: 1}
	// Stereo48k represents audio/F32; rate=48000; channels=2
	Stereo48k = Format{SampleRate: 48000, Channels: 2}
)

// Format describes the layout of an interleaved PCM stream.
type Format struct {
	// SampleRate is the number of frames per second in Hz.
	SampleRate int

	// Channels is the number of interleaved channels. Only mono and
	// stereo layouts are supported.
	Channels int
}

// Validate reports whether the format describes a supported layout.
func (f Format) Validate() error {
	if f.SampleRate <= 0 {
		return fmt.Errorf("pcm: sample rate must be positive, got %d", f.SampleRate)
	}
	switch f.Channels {
	case 1, 2:
	default:
		return fmt.Errorf("pcm: channel count must be 1 or 2, got %d", f.Channels)
	}
	return nil
}

// Frames returns the number of frames represented by the given number of
// interleaved samples.
func (f Format) Frames(samples int) int {
	return samples / f.Channels
}

// SamplesInDuration returns the number of interleaved samples in the given
// duration.
func (f Format) SamplesInDuration(d time.Duration) int {
	return int(time.Duration(f.SampleRate)*d/time.Second) * f.Channels
}

// Duration returns the play time of the given number of frames.
func (f Format) Duration(frames int) time.Duration {
	return time.Duration(frames) * time.Second / time.Duration(f.SampleRate)
}

// String returns a human-readable string representation of the format.
func (f Format) String() string {
	return fmt.Sprintf("audio/F32; rate=%d; channels=%d", f.SampleRate, f.Channels)
}

// Buffer is one variable-length chunk of interleaved float32 PCM audio.
type Buffer struct {
	// Samples holds the interleaved sample data.
	Samples []float32

	// Format describes the layout of Samples.
	Format Format
}

// Frames returns the number of frames in the buffer.
func (b *Buffer) Frames() int {
	return b.Format.Frames(len(b.Samples))
}

// Duration returns the play time of the buffer.
func (b *Buffer) Duration() time.Duration {
	return b.Format.Duration(b.Frames())
}

// Validate reports whether the buffer is well formed: a supported format,
// at least one frame of data, and a sample count aligned to the channel
// count. Malformed buffers are rejected, never repaired.
func (b *Buffer) Validate() error {
	if err := b.Format.Validate(); err != nil {
		return err
	}
	if len(b.Samples) == 0 {
		return errors.New("pcm: buffer holds no samples")
	}
	if len(b.Samples)%b.Format.Channels != 0 {
		return fmt.Errorf("pcm: %d samples not aligned to %d channels",
			len(b.Samples), b.Format.Channels)
	}
	return nil
}

// Clone returns a deep copy of the buffer. Consumers that retain audio past
// the call that handed it to them must copy it first.
func (b *Buffer) Clone() *Buffer {
	samples := make([]float32, len(b.Samples))
	copy(samples, b.Samples)
	return &Buffer{Samples: samples, Format: b.Format}
}
