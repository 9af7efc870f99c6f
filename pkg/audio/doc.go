// Package audio provides audio format utilities.
//
// This package serves as an umbrella for audio-related sub-packages:
//
//   - pcm: interleaved float32 PCM buffers and stream formats
//   - wav: decoding and encoding 16-bit PCM WAV files
//
// Example usage:
//
//	import (
//	    "github.com/earshot-audio/earshot/pkg/audio/pcm"
//	    "github.com/earshot-audio/earshot/pkg/audio/wav"
//	)
//
//	buf, err := wav.Decode(data)
//	chunk := &pcm.Buffer{Samples: samples, Format: pcm.Mono44k1}
package audio
