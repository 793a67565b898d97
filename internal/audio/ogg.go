package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"

	"github.com/gopxl/beep/v2"
)

var (
	errInvalidOggMagic   = errors.New("ogg: invalid capture pattern")
	errInvalidOggVersion = errors.New("ogg: unsupported version")
	errNoOggPackets      = errors.New("ogg: no packets")
)

// oggPageHeader is the fixed part of an Ogg page plus its segment table.
type oggPageHeader struct {
	GranulePos   int64
	SerialNumber uint32
	SequenceNum  uint32
	NumSegments  uint8
	SegmentTable []uint8
}

func parseOggPageHeader(r io.Reader) (*oggPageHeader, error) {
	var buf [27]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, err
	}
	if string(buf[0:4]) != "OggS" {
		return nil, errInvalidOggMagic
	}
	if buf[4] != 0 {
		return nil, errInvalidOggVersion
	}

	hdr := &oggPageHeader{
		GranulePos:   int64(binary.LittleEndian.Uint64(buf[6:14])), //nolint:gosec // granule is signed
		SerialNumber: binary.LittleEndian.Uint32(buf[14:18]),
		SequenceNum:  binary.LittleEndian.Uint32(buf[18:22]),
		// checksum at buf[22:26] is not validated
		NumSegments: buf[26],
	}
	if hdr.NumSegments > 0 {
		hdr.SegmentTable = make([]uint8, hdr.NumSegments)
		if _, err := io.ReadFull(r, hdr.SegmentTable); err != nil {
			return nil, err
		}
	}
	return hdr, nil
}

// oggPacketReader assembles packets from consecutive pages, joining
// packets that span page boundaries.
type oggPacketReader struct {
	r       io.Reader
	pending [][]byte
	partial []byte
	granule int64
}

func newOggPacketReader(r io.Reader) *oggPacketReader {
	return &oggPacketReader{r: r, granule: -1}
}

// next returns the next complete packet, or io.EOF.
func (p *oggPacketReader) next() ([]byte, error) {
	for len(p.pending) == 0 {
		if err := p.readPage(); err != nil {
			return nil, err
		}
	}
	pkt := p.pending[0]
	p.pending = p.pending[1:]
	return pkt, nil
}

func (p *oggPacketReader) readPage() error {
	hdr, err := parseOggPageHeader(p.r)
	if err != nil {
		// a clean end of data between pages ends the stream
		if errors.Is(err, io.EOF) {
			return io.EOF
		}
		return err
	}
	if hdr.GranulePos >= 0 {
		p.granule = hdr.GranulePos
	}

	for _, size := range hdr.SegmentTable {
		seg := make([]byte, size)
		if _, err := io.ReadFull(p.r, seg); err != nil {
			return err
		}
		p.partial = append(p.partial, seg...)
		// a lacing value below 255 terminates the packet
		if size < 255 {
			p.pending = append(p.pending, p.partial)
			p.partial = nil
		}
	}
	return nil
}

// lastGranule returns the granule position of the last page read, or -1.
func (p *oggPacketReader) lastGranule() int64 { return p.granule }

// decodeOgg decodes a whole Ogg Vorbis or Opus stream.
func decodeOgg(data []byte) (beep.Streamer, beep.Format, error) {
	packets := newOggPacketReader(bytes.NewReader(data))

	first, err := packets.next()
	if errors.Is(err, io.EOF) {
		return nil, beep.Format{}, errNoOggPackets
	}
	if err != nil {
		return nil, beep.Format{}, err
	}
	codec, err := detectOggCodec(first)
	if err != nil {
		return nil, beep.Format{}, err
	}

	for complete := false; !complete; {
		pkt, err := packets.next()
		if err != nil {
			return nil, beep.Format{}, err
		}
		if complete, err = codec.AddHeaderPacket(pkt); err != nil {
			return nil, beep.Format{}, err
		}
	}

	frames, err := decodeOggPackets(packets, codec)
	if err != nil {
		return nil, beep.Format{}, err
	}

	format := beep.Format{
		SampleRate:  beep.SampleRate(codec.SampleRate()),
		NumChannels: 2,
		Precision:   2,
	}
	return &pcmStreamer{frames: frames}, format, nil
}

func decodeOggPackets(packets *oggPacketReader, codec oggCodec) ([][2]float64, error) {
	channels := codec.Channels()
	// 120ms at 48kHz is the largest Opus frame; Vorbis blocks are smaller
	pcm := make([]float32, 8192*channels)

	var frames [][2]float64
	skip := codec.PreSkip()
	for {
		pkt, err := packets.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(pkt) == 0 {
			continue
		}
		n, err := codec.Decode(pkt, pcm)
		if err != nil {
			return nil, err
		}
		out := pcm[:n*channels]
		if skip > 0 {
			drop := min(skip, n)
			out = out[drop*channels:]
			skip -= drop
		}
		frames = appendInterleaved(frames, out, channels)
	}

	// the final granule position marks the exact end of the stream
	if g := codec.GranuleToSamples(packets.lastGranule()); g >= 0 && g < int64(len(frames)) {
		frames = frames[:g]
	}
	return frames, nil
}
