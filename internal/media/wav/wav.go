// Package wav decodes RIFF/WAVE files holding 16-bit PCM, the format the
// transcode step produces. Samples come back as float64 in [-1, 1], with
// multi-channel audio downmixed to mono by averaging.
package wav

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

const pcmFormat = 1

// Audio is a decoded waveform.
type Audio struct {
	SampleRate int
	Channels   int
	Samples    []float64
}

// Duration reports the decoded length in seconds.
func (a *Audio) Duration() float64 {
	if a == nil || a.SampleRate <= 0 {
		return 0
	}
	return float64(len(a.Samples)) / float64(a.SampleRate)
}

type format struct {
	audioFormat   uint16
	channels      uint16
	sampleRate    uint32
	bitsPerSample uint16
}

// DecodeFile reads and decodes the WAV file at path.
func DecodeFile(path string) (*Audio, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open wav: %w", err)
	}
	defer file.Close()
	audio, err := Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return audio, nil
}

// Decode parses a RIFF/WAVE stream. The fmt chunk must precede the data
// chunk and declare uncompressed 16-bit PCM. Unknown chunks are skipped.
func Decode(r io.Reader) (*Audio, error) {
	var header [12]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("read riff header: %w", err)
	}
	if string(header[0:4]) != "RIFF" {
		return nil, errors.New("not a RIFF stream")
	}
	if string(header[8:12]) != "WAVE" {
		return nil, errors.New("not a WAVE stream")
	}

	var fmtChunk *format
	for {
		var chunkHeader [8]byte
		if _, err := io.ReadFull(r, chunkHeader[:]); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return nil, errors.New("missing data chunk")
			}
			return nil, fmt.Errorf("read chunk header: %w", err)
		}
		chunkID := string(chunkHeader[0:4])
		chunkSize := binary.LittleEndian.Uint32(chunkHeader[4:8])

		switch chunkID {
		case "fmt ":
			parsed, err := parseFormat(r, chunkSize)
			if err != nil {
				return nil, err
			}
			fmtChunk = parsed
		case "data":
			if fmtChunk == nil {
				return nil, errors.New("data chunk before fmt chunk")
			}
			return decodeData(r, fmtChunk, chunkSize)
		default:
			if err := skipChunk(r, chunkSize); err != nil {
				return nil, fmt.Errorf("skip %q chunk: %w", chunkID, err)
			}
		}
	}
}

func parseFormat(r io.Reader, size uint32) (*format, error) {
	if size < 16 {
		return nil, fmt.Errorf("fmt chunk too small: %d bytes", size)
	}
	payload := make([]byte, size)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("read fmt chunk: %w", err)
	}
	if size%2 == 1 {
		if _, err := io.CopyN(io.Discard, r, 1); err != nil {
			return nil, fmt.Errorf("skip fmt padding: %w", err)
		}
	}
	parsed := &format{
		audioFormat:   binary.LittleEndian.Uint16(payload[0:2]),
		channels:      binary.LittleEndian.Uint16(payload[2:4]),
		sampleRate:    binary.LittleEndian.Uint32(payload[4:8]),
		bitsPerSample: binary.LittleEndian.Uint16(payload[14:16]),
	}
	if parsed.audioFormat != pcmFormat {
		return nil, fmt.Errorf("unsupported audio format %d, want PCM", parsed.audioFormat)
	}
	if parsed.bitsPerSample != 16 {
		return nil, fmt.Errorf("unsupported bit depth %d, want 16", parsed.bitsPerSample)
	}
	if parsed.channels == 0 {
		return nil, errors.New("zero channel count")
	}
	if parsed.sampleRate == 0 {
		return nil, errors.New("zero sample rate")
	}
	return parsed, nil
}

func decodeData(r io.Reader, fmtChunk *format, size uint32) (*Audio, error) {
	payload := make([]byte, size)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("read data chunk: %w", err)
	}
	channels := int(fmtChunk.channels)
	frameBytes := channels * 2
	frames := len(payload) / frameBytes

	samples := make([]float64, frames)
	for frame := 0; frame < frames; frame++ {
		base := frame * frameBytes
		var sum float64
		for ch := 0; ch < channels; ch++ {
			raw := int16(binary.LittleEndian.Uint16(payload[base+ch*2 : base+ch*2+2]))
			sum += float64(raw) / 32768.0
		}
		samples[frame] = sum / float64(channels)
	}
	return &Audio{
		SampleRate: int(fmtChunk.sampleRate),
		Channels:   channels,
		Samples:    samples,
	}, nil
}

func skipChunk(r io.Reader, size uint32) error {
	// Chunks are word-aligned, so odd sizes carry one padding byte.
	if size%2 == 1 {
		size++
	}
	_, err := io.CopyN(io.Discard, r, int64(size))
	return err
}
