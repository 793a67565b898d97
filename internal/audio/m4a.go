package audio

import (
	"context"
	"errors"

	"github.com/gopxl/beep/v2"
	"github.com/llehouerou/alac"
	"github.com/llehouerou/go-faad2"
	"github.com/llehouerou/go-m4a"
)

var errUnsupportedM4ACodec = errors.New("unsupported codec in M4A container")

// decodeM4A decodes a whole M4A/MP4 file holding AAC (faad2) or ALAC.
func decodeM4A(data []byte) (beep.Streamer, beep.Format, error) {
	container, err := m4a.Open(newMemFile(data))
	if err != nil {
		return nil, beep.Format{}, err
	}

	channels := int(container.Channels())
	sampleSize := int(container.SampleSize())
	if channels == 0 {
		return nil, beep.Format{}, errUnsupportedM4ACodec
	}

	var frames [][2]float64
	switch container.Codec() {
	case m4a.CodecAAC:
		frames, err = decodeAAC(container, channels)
	case m4a.CodecALAC:
		frames, err = decodeALAC(container, channels, sampleSize)
	default:
		err = errUnsupportedM4ACodec
	}
	if err != nil {
		return nil, beep.Format{}, err
	}

	format := beep.Format{
		SampleRate:  beep.SampleRate(container.SampleRate()),
		NumChannels: 2,
		Precision:   2,
	}
	return &pcmStreamer{frames: frames}, format, nil
}

func decodeAAC(container *m4a.Reader, channels int) ([][2]float64, error) {
	ctx := context.Background()
	decoder, err := faad2.NewDecoder(ctx)
	if err != nil {
		return nil, err
	}
	defer decoder.Close(ctx)
	if err := decoder.Init(ctx, container.CodecConfig()); err != nil {
		return nil, err
	}

	var frames [][2]float64
	for i := range container.SampleCount() {
		sample, err := container.ReadSample(i)
		if err != nil {
			return nil, err
		}
		pcm, err := decoder.Decode(ctx, sample)
		if err != nil {
			return nil, err
		}
		frames = appendInt16(frames, pcm, channels)
	}
	return frames, nil
}

func decodeALAC(container *m4a.Reader, channels, sampleSize int) ([][2]float64, error) {
	decoder, err := alac.NewWithConfig(alac.Config{
		SampleRate:  int(container.SampleRate()),
		SampleSize:  sampleSize,
		NumChannels: channels,
		FrameSize:   4096, // ALAC default
	})
	if err != nil {
		return nil, err
	}

	var frames [][2]float64
	for i := range container.SampleCount() {
		sample, err := container.ReadSample(i)
		if err != nil {
			return nil, err
		}
		raw := decoder.Decode(sample)
		if sampleSize == 24 {
			frames = appendPCM24(frames, raw, channels)
		} else {
			frames = appendPCM16(frames, raw, channels)
		}
	}
	return frames, nil
}

func appendInt16(frames [][2]float64, pcm []int16, channels int) [][2]float64 {
	for i := 0; i+channels <= len(pcm); i += channels {
		left := float64(pcm[i]) / 32768.0
		right := left
		if channels > 1 {
			right = float64(pcm[i+1]) / 32768.0
		}
		frames = append(frames, [2]float64{left, right})
	}
	return frames
}

func appendPCM16(frames [][2]float64, data []byte, channels int) [][2]float64 {
	bytesPerFrame := 2 * channels
	for off := 0; off+bytesPerFrame <= len(data); off += bytesPerFrame {
		left := int16(data[off]) | int16(data[off+1])<<8
		right := left
		if channels > 1 {
			right = int16(data[off+2]) | int16(data[off+3])<<8
		}
		frames = append(frames, [2]float64{float64(left) / 32768.0, float64(right) / 32768.0})
	}
	return frames
}

func appendPCM24(frames [][2]float64, data []byte, channels int) [][2]float64 {
	bytesPerFrame := 3 * channels
	for off := 0; off+bytesPerFrame <= len(data); off += bytesPerFrame {
		left := int24(data[off:])
		right := left
		if channels > 1 {
			right = int24(data[off+3:])
		}
		frames = append(frames, [2]float64{float64(left) / 8388608.0, float64(right) / 8388608.0})
	}
	return frames
}

// int24 reads a little-endian signed 24-bit sample.
func int24(b []byte) int32 {
	v := int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
	if v&0x800000 != 0 {
		v |= ^0xFFFFFF
	}
	return v
}
