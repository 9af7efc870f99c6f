// Package pcm provides types for working with interleaved float32 PCM audio.
//
// The package defines the Format and Buffer types used throughout the
// recognition pipeline. A Format describes the stream layout (sample rate and
// channel count), a Buffer carries one variable-length chunk of interleaved
// samples together with its format.
//
// Buffers are validated, never converted: a buffer whose layout does not match
// what the consumer expects is rejected rather than resampled or remixed.
//
// Example usage:
//
//	format := pcm.Mono44k1
//
//	// One second of silence.
//	buf := &pcm.Buffer{
//	    Samples: make([]float32, format.SamplesInDuration(time.Second)),
//	    Format:  format,
//	}
//	if err := buf.Validate(); err != nil {
//	    // handle malformed audio
//	}
package pcm
