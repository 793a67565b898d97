package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// oggPage builds a page holding the given segment lacing and body.
func oggPage(granule int64, lacing []byte, body []byte) []byte {
	var b bytes.Buffer
	b.WriteString("OggS")
	b.WriteByte(0) // version
	b.WriteByte(0) // flags
	var g [8]byte
	binary.LittleEndian.PutUint64(g[:], uint64(granule)) //nolint:gosec // test data
	b.Write(g[:])
	b.Write(make([]byte, 12)) // serial, sequence, checksum
	b.WriteByte(byte(len(lacing)))
	b.Write(lacing)
	b.Write(body)
	return b.Bytes()
}

func TestParseOggPageHeader(t *testing.T) {
	page := oggPage(1234, []byte{3, 2}, []byte("abcde"))

	hdr, err := parseOggPageHeader(bytes.NewReader(page))
	require.NoError(t, err)
	assert.Equal(t, int64(1234), hdr.GranulePos)
	assert.Equal(t, uint8(2), hdr.NumSegments)
	assert.Equal(t, []uint8{3, 2}, hdr.SegmentTable)
}

func TestParseOggPageHeader_Invalid(t *testing.T) {
	bad := oggPage(0, nil, nil)
	copy(bad, "Oggx")
	_, err := parseOggPageHeader(bytes.NewReader(bad))
	assert.ErrorIs(t, err, errInvalidOggMagic)

	version := oggPage(0, nil, nil)
	version[4] = 1
	_, err = parseOggPageHeader(bytes.NewReader(version))
	assert.ErrorIs(t, err, errInvalidOggVersion)
}

func TestOggPacketReader_JoinsPacketsAcrossPages(t *testing.T) {
	long := bytes.Repeat([]byte{'x'}, 300)

	var stream []byte
	stream = append(stream, oggPage(-1, []byte{2, 255}, append([]byte("hi"), long[:255]...))...)
	stream = append(stream, oggPage(77, []byte{45, 1}, append(long[255:], 'z'))...)

	r := newOggPacketReader(bytes.NewReader(stream))

	pkt, err := r.next()
	require.NoError(t, err)
	assert.Equal(t, []byte("hi"), pkt)

	pkt, err = r.next()
	require.NoError(t, err)
	assert.Equal(t, long, pkt)

	pkt, err = r.next()
	require.NoError(t, err)
	assert.Equal(t, []byte("z"), pkt)
	assert.Equal(t, int64(77), r.lastGranule())

	_, err = r.next()
	assert.True(t, errors.Is(err, io.EOF))
}

func TestDetectOggCodec(t *testing.T) {
	_, err := detectOggCodec([]byte("FLAC stream"))
	assert.ErrorIs(t, err, errUnknownOggCodec)

	_, err = detectOggCodec([]byte("OpusHead"))
	assert.ErrorIs(t, err, errInvalidOpusHead)

	ident := make([]byte, 30)
	ident[0] = 0x01
	copy(ident[1:], "vorbis")
	ident[11] = 2
	binary.LittleEndian.PutUint32(ident[12:], 44100)
	codec, err := detectOggCodec(ident)
	require.NoError(t, err)
	assert.Equal(t, 2, codec.Channels())
	assert.Equal(t, 44100, codec.SampleRate())
	assert.Equal(t, 0, codec.PreSkip())
}

func TestOpusCodec_GranuleSubtractsPreSkip(t *testing.T) {
	head := make([]byte, 19)
	copy(head, "OpusHead")
	head[8] = 1
	head[9] = 2
	binary.LittleEndian.PutUint16(head[10:], 312)
	binary.LittleEndian.PutUint32(head[12:], 44100)

	codec, err := newOpusCodec(head)
	require.NoError(t, err)
	assert.Equal(t, opusSampleRate, codec.SampleRate())
	assert.Equal(t, 312, codec.PreSkip())
	assert.Equal(t, int64(688), codec.GranuleToSamples(1000))
	assert.Equal(t, int64(-1), codec.GranuleToSamples(-1))
}
