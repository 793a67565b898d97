package audio

import (
	"encoding/binary"
	"errors"
	"io"

	"github.com/gopxl/beep/v2"
	"github.com/llehouerou/go-mp3"
)

// decodeMP3 decodes a whole MP3 with llehouerou/go-mp3, which always
// outputs 16-bit stereo.
func decodeMP3(data []byte) (beep.Streamer, beep.Format, error) {
	decoder, err := mp3.NewDecoder(newMemFile(data))
	if err != nil {
		return nil, beep.Format{}, err
	}

	sampleRate := decoder.SampleRate()
	if sampleRate == 0 {
		return nil, beep.Format{}, errors.New("mp3: invalid sample rate")
	}

	raw, err := io.ReadAll(decoder)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, beep.Format{}, err
	}

	// 4 bytes per frame (stereo 16-bit)
	frames := make([][2]float64, len(raw)/4)
	for i := range frames {
		left := int16(binary.LittleEndian.Uint16(raw[i*4:]))    //nolint:gosec // audio samples
		right := int16(binary.LittleEndian.Uint16(raw[i*4+2:])) //nolint:gosec // audio samples
		frames[i][0] = float64(left) / 32768.0
		frames[i][1] = float64(right) / 32768.0
	}

	format := beep.Format{
		SampleRate:  beep.SampleRate(sampleRate),
		NumChannels: 2,
		Precision:   2,
	}
	return &pcmStreamer{frames: frames}, format, nil
}
