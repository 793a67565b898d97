package audio

import (
	"bytes"
	"errors"
	"path"
	"strings"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/wav"
)

const (
	formatWAV  = "wav"
	formatFLAC = "flac"
	formatMP3  = "mp3"
	formatOgg  = "ogg"
	formatM4A  = "m4a"
)

var errEmptySound = errors.New("no audio samples")

// decode picks a decoder from the name's extension, falling back to the
// data's magic bytes.
func decode(name string, data []byte) (beep.Streamer, beep.Format, error) {
	switch detectFormat(name, data) {
	case formatWAV:
		return wav.Decode(bytes.NewReader(data))
	case formatFLAC:
		return flac.Decode(bytes.NewReader(data))
	case formatMP3:
		return decodeMP3(data)
	case formatOgg:
		return decodeOgg(data)
	case formatM4A:
		return decodeM4A(data)
	default:
		return nil, beep.Format{}, ErrUnsupportedFormat
	}
}

func detectFormat(name string, data []byte) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".wav", ".wave":
		return formatWAV
	case ".flac":
		return formatFLAC
	case ".mp3":
		return formatMP3
	case ".ogg", ".oga", ".opus":
		return formatOgg
	case ".m4a", ".mp4":
		return formatM4A
	}
	return sniffFormat(data)
}

func sniffFormat(data []byte) string {
	switch {
	case len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WAVE":
		return formatWAV
	case bytes.HasPrefix(data, []byte("fLaC")):
		return formatFLAC
	case bytes.HasPrefix(data, []byte("OggS")):
		return formatOgg
	case len(data) >= 8 && string(data[4:8]) == "ftyp":
		return formatM4A
	case bytes.HasPrefix(data, []byte("ID3")),
		len(data) >= 2 && data[0] == 0xFF && data[1]&0xE0 == 0xE0:
		return formatMP3
	}
	return ""
}

// pcmStreamer streams already decoded stereo frames.
type pcmStreamer struct {
	frames [][2]float64
	pos    int
}

func (p *pcmStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	if p.pos >= len(p.frames) {
		return 0, false
	}
	n = copy(samples, p.frames[p.pos:])
	p.pos += n
	return n, true
}

func (p *pcmStreamer) Err() error { return nil }

// appendInterleaved converts interleaved float32 samples to stereo frames,
// duplicating mono and dropping channels past the second.
func appendInterleaved(frames [][2]float64, pcm []float32, channels int) [][2]float64 {
	if channels <= 0 {
		return frames
	}
	for i := 0; i+channels <= len(pcm); i += channels {
		left := float64(pcm[i])
		right := left
		if channels > 1 {
			right = float64(pcm[i+1])
		}
		frames = append(frames, [2]float64{left, right})
	}
	return frames
}
