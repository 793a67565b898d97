package audio

import (
	"encoding/binary"
	"errors"

	"github.com/jfreymuth/vorbis"
	"github.com/jj11hh/opus"
)

// Opus always decodes at 48kHz.
const opusSampleRate = 48000

var (
	errUnknownOggCodec             = errors.New("ogg: unknown codec (not Opus or Vorbis)")
	errInvalidVorbisHeader         = errors.New("vorbis: invalid identification header")
	errInvalidOpusHead             = errors.New("opus: invalid OpusHead")
	errUnsupportedOpus             = errors.New("opus: unsupported version")
	errVorbisDecoderNotInitialized = errors.New("vorbis: decoder not initialized (headers incomplete)")
	errVorbisBufferTooSmall        = errors.New("vorbis: output buffer too small")
)

// oggCodec decodes the packets of one logical Ogg stream.
type oggCodec interface {
	SampleRate() int
	Channels() int
	// PreSkip returns frames to drop at stream start (0 for Vorbis).
	PreSkip() int
	// GranuleToSamples converts a granule position to a frame count.
	GranuleToSamples(granule int64) int64
	// AddHeaderPacket feeds a header packet and reports whether all
	// headers have been received.
	AddHeaderPacket(packet []byte) (complete bool, err error)
	// Decode decodes one packet into interleaved pcm and returns the
	// number of frames written.
	Decode(packet []byte, pcm []float32) (samplesPerChannel int, err error)
}

func detectOggCodec(firstPacket []byte) (oggCodec, error) {
	if len(firstPacket) >= 8 && string(firstPacket[:8]) == "OpusHead" {
		return newOpusCodec(firstPacket)
	}
	if len(firstPacket) >= 7 && firstPacket[0] == 0x01 && string(firstPacket[1:7]) == "vorbis" {
		return newVorbisCodec(firstPacket)
	}
	return nil, errUnknownOggCodec
}

type opusCodec struct {
	decoder  *opus.Decoder
	channels int
	preSkip  int
}

func newOpusCodec(packet []byte) (*opusCodec, error) {
	if len(packet) < 19 {
		return nil, errInvalidOpusHead
	}
	if packet[8] != 1 {
		return nil, errUnsupportedOpus
	}
	channels := int(packet[9])
	if channels == 0 {
		return nil, errInvalidOpusHead
	}

	decoder, err := opus.NewDecoder(opusSampleRate, channels)
	if err != nil {
		return nil, err
	}
	return &opusCodec{
		decoder:  decoder,
		channels: channels,
		preSkip:  int(binary.LittleEndian.Uint16(packet[10:12])),
	}, nil
}

func (c *opusCodec) SampleRate() int { return opusSampleRate }
func (c *opusCodec) Channels() int   { return c.channels }
func (c *opusCodec) PreSkip() int    { return c.preSkip }

func (c *opusCodec) GranuleToSamples(granule int64) int64 {
	if granule < 0 {
		return -1
	}
	return granule - int64(c.preSkip)
}

// The OpusTags packet is the only other header.
func (c *opusCodec) AddHeaderPacket(_ []byte) (bool, error) { return true, nil }

func (c *opusCodec) Decode(packet []byte, pcm []float32) (int, error) {
	return c.decoder.DecodeFloat32(packet, pcm)
}

type vorbisCodec struct {
	decoder       *vorbis.Decoder
	channels      int
	sampleRate    int
	headerPackets [][]byte
}

// newVorbisCodec reads the identification header: packet type, "vorbis",
// a 4-byte version, channel count, then a little-endian sample rate.
func newVorbisCodec(packet []byte) (*vorbisCodec, error) {
	if len(packet) < 16 {
		return nil, errInvalidVorbisHeader
	}
	if binary.LittleEndian.Uint32(packet[7:11]) != 0 {
		return nil, errInvalidVorbisHeader
	}
	if packet[11] == 0 {
		return nil, errInvalidVorbisHeader
	}

	ident := make([]byte, len(packet))
	copy(ident, packet)
	return &vorbisCodec{
		channels:      int(packet[11]),
		sampleRate:    int(binary.LittleEndian.Uint32(packet[12:16])),
		headerPackets: [][]byte{ident},
	}, nil
}

func (c *vorbisCodec) SampleRate() int { return c.sampleRate }
func (c *vorbisCodec) Channels() int   { return c.channels }
func (c *vorbisCodec) PreSkip() int    { return 0 }

func (c *vorbisCodec) GranuleToSamples(granule int64) int64 { return granule }

// AddHeaderPacket collects the comment and setup headers, then
// initializes the decoder.
func (c *vorbisCodec) AddHeaderPacket(packet []byte) (bool, error) {
	if c.decoder != nil {
		return true, nil
	}
	c.headerPackets = append(c.headerPackets, packet)
	if len(c.headerPackets) < 3 {
		return false, nil
	}

	decoder := &vorbis.Decoder{}
	for _, hdr := range c.headerPackets {
		if err := decoder.ReadHeader(hdr); err != nil {
			return false, err
		}
	}
	c.decoder = decoder
	c.headerPackets = nil
	return true, nil
}

func (c *vorbisCodec) Decode(packet []byte, pcm []float32) (int, error) {
	if c.decoder == nil {
		return 0, errVorbisDecoderNotInitialized
	}
	samples, err := c.decoder.Decode(packet)
	if err != nil {
		return 0, err
	}
	if len(pcm) < len(samples) {
		return 0, errVorbisBufferTooSmall
	}
	n := copy(pcm, samples)
	return n / c.channels, nil
}
