// Package wav decodes 16-bit PCM WAV files into float32 buffers.
//
// Only canonical headers are accepted (PCM format tag, 16-bit depth, mono or
// stereo). Anything else is an error: the recognition pipeline validates and
// rejects, it never converts.
package wav

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/earshot-audio/earshot/pkg/audio/pcm"
)

// header is the canonical 44-byte WAV file header.
type header struct {
	ChunkID       [4]byte // "RIFF"
	ChunkSize     uint32
	Format        [4]byte // "WAVE"
	Subchunk1ID   [4]byte // "fmt "
	Subchunk1Size uint32
	AudioFormat   uint16 // 1 for PCM
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	Subchunk2ID   [4]byte // "data"
	Subchunk2Size uint32
}

const headerSize = 44

// Decode parses a 16-bit PCM WAV file into an interleaved float32 buffer,
// with samples scaled to [-1, 1].
func Decode(data []byte) (*pcm.Buffer, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("wav: file too short: need at least %d bytes, got %d", headerSize, len(data))
	}

	var h header
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("wav: read header: %w", err)
	}

	if string(h.ChunkID[:]) != "RIFF" {
		return nil, fmt.Errorf("wav: missing RIFF header")
	}
	if string(h.Format[:]) != "WAVE" {
		return nil, fmt.Errorf("wav: missing WAVE format")
	}
	if string(h.Subchunk1ID[:]) != "fmt " {
		return nil, fmt.Errorf("wav: missing fmt chunk")
	}
	if string(h.Subchunk2ID[:]) != "data" {
		return nil, fmt.Errorf("wav: missing data chunk")
	}
	if h.AudioFormat != 1 {
		return nil, fmt.Errorf("wav: unsupported audio format %d (only PCM is supported)", h.AudioFormat)
	}
	if h.BitsPerSample != 16 {
		return nil, fmt.Errorf("wav: unsupported bit depth %d (only 16-bit is supported)", h.BitsPerSample)
	}

	format := pcm.Format{
		SampleRate: int(h.SampleRate),
		Channels:   int(h.NumChannels),
	}
	if err := format.Validate(); err != nil {
		return nil, err
	}

	dataSize := int(h.Subchunk2Size)
	if dataSize <= 0 || dataSize%2 != 0 {
		return nil, fmt.Errorf("wav: invalid data chunk size %d", dataSize)
	}
	if headerSize+dataSize > len(data) {
		return nil, fmt.Errorf("wav: data chunk claims %d bytes, file has %d", dataSize, len(data)-headerSize)
	}

	raw := data[headerSize : headerSize+dataSize]
	samples := make([]float32, dataSize/2)
	for i := range samples {
		s := int16(binary.LittleEndian.Uint16(raw[i*2:]))
		samples[i] = float32(s) / 32768
	}

	buf := &pcm.Buffer{Samples: samples, Format: format}
	if err := buf.Validate(); err != nil {
		return nil, err
	}
	return buf, nil
}

// Encode writes an interleaved float32 buffer as a 16-bit PCM WAV file.
// Samples outside [-1, 1] are clipped.
func Encode(buf *pcm.Buffer) ([]byte, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}

	dataSize := uint32(len(buf.Samples) * 2)
	h := header{
		ChunkID:       [4]byte{'R', 'I', 'F', 'F'},
		ChunkSize:     36 + dataSize,
		Format:        [4]byte{'W', 'A', 'V', 'E'},
		Subchunk1ID:   [4]byte{'f', 'm', 't', ' '},
		Subchunk1Size: 16,
		AudioFormat:   1,
		NumChannels:   uint16(buf.Format.Channels),
		SampleRate:    uint32(buf.Format.SampleRate),
		ByteRate:      uint32(buf.Format.SampleRate * buf.Format.Channels * 2),
		BlockAlign:    uint16(buf.Format.Channels * 2),
		BitsPerSample: 16,
		Subchunk2ID:   [4]byte{'d', 'a', 't', 'a'},
		Subchunk2Size: dataSize,
	}

	out := bytes.NewBuffer(make([]byte, 0, headerSize+int(dataSize)))
	if err := binary.Write(out, binary.LittleEndian, h); err != nil {
		return nil, fmt.Errorf("wav: write header: %w", err)
	}
	for _, sample := range buf.Samples {
		v := sample
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}
		if err := binary.Write(out, binary.LittleEndian, int16(v*32767)); err != nil {
			return nil, fmt.Errorf("wav: write data: %w", err)
		}
	}
	return out.Bytes(), nil
}
