package audio

import (
	"bytes"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
)

// Output mixes streamers to a device. Lock guards every streamer the
// output plays: Stream is only called with it held.
type Output interface {
	Play(s beep.Streamer)
	Lock()
	Unlock()
}

// speakerOutput plays through beep's global speaker.
type speakerOutput struct{}

func (speakerOutput) Play(s beep.Streamer) { speaker.Play(s) }
func (speakerOutput) Lock()                { speaker.Lock() }
func (speakerOutput) Unlock()              { speaker.Unlock() }

// Config configures the speaker engine.
type Config struct {
	SampleRate int
	Buffer     time.Duration
}

// DefaultConfig returns 44.1kHz with a 100ms device buffer.
func DefaultConfig() Config {
	return Config{SampleRate: 44100, Buffer: 100 * time.Millisecond}
}

var (
	speakerOnce sync.Once
	speakerRate beep.SampleRate
	speakerErr  error
)

var _ Engine = (*Speaker)(nil)

// Speaker is an Engine playing through the system audio device.
type Speaker struct {
	out  Output
	rate beep.SampleRate
}

// NewSpeaker initializes the audio device and returns an engine using it.
// The device is initialized once per process; later calls reuse its
// sample rate.
func NewSpeaker(cfg Config) (*Speaker, error) {
	def := DefaultConfig()
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = def.SampleRate
	}
	if cfg.Buffer <= 0 {
		cfg.Buffer = def.Buffer
	}

	speakerOnce.Do(func() {
		speakerRate = beep.SampleRate(cfg.SampleRate)
		speakerErr = speaker.Init(speakerRate, speakerRate.N(cfg.Buffer))
	})
	if speakerErr != nil {
		return nil, speakerErr
	}
	return NewEngine(speakerOutput{}, int(speakerRate)), nil
}

// NewEngine returns an engine playing through out, resampling every sound
// to sampleRate.
func NewEngine(out Output, sampleRate int) *Speaker {
	return &Speaker{out: out, rate: beep.SampleRate(sampleRate)}
}

// SampleRate returns the rate every sound is resampled to.
func (s *Speaker) SampleRate() int { return int(s.rate) }

// Decode implements Engine. The whole sound is decoded and resampled to
// the engine rate up front.
func (s *Speaker) Decode(name string, r io.Reader) (Handle, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	buf, err := s.decodeBuffer(name, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, name, err)
	}
	return newVoice(s.out, name, buf), nil
}

func (s *Speaker) decodeBuffer(name string, data []byte) (*beep.Buffer, error) {
	stream, format, err := decode(name, data)
	if err != nil {
		return nil, err
	}
	if c, ok := stream.(io.Closer); ok {
		defer c.Close()
	}

	var resampled beep.Streamer = stream
	if format.SampleRate != s.rate {
		resampled = beep.Resample(4, format.SampleRate, s.rate, stream)
	}

	buf := beep.NewBuffer(beep.Format{SampleRate: s.rate, NumChannels: 2, Precision: 2})
	buf.Append(resampled)
	if err := stream.Err(); err != nil {
		return nil, err
	}
	if buf.Len() == 0 {
		return nil, errEmptySound
	}
	return buf, nil
}

// memFile adapts in-memory data to decoders expecting a file.
type memFile struct {
	*bytes.Reader
}

func newMemFile(data []byte) memFile { return memFile{bytes.NewReader(data)} }

func (memFile) Close() error { return nil }
