package audio

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMock_Decode(t *testing.T) {
	m := NewMock()
	h, err := m.Decode("a.wav", strings.NewReader("data"))
	require.NoError(t, err)

	assert.Equal(t, "a.wav", h.Name())
	assert.Equal(t, []string{"a.wav"}, m.DecodeCalls())
	require.Len(t, m.Handles(), 1)
	assert.Equal(t, time.Second, h.Duration())

	m.SetDecodeError(ErrDecode)
	_, err = m.Decode("b.wav", strings.NewReader("data"))
	assert.ErrorIs(t, err, ErrDecode)
	assert.Len(t, m.Handles(), 1)
}

func TestMockHandle_Lifecycle(t *testing.T) {
	m := NewMock()
	h, err := m.Decode("a.wav", strings.NewReader(""))
	require.NoError(t, err)
	mh := h.(*MockHandle)

	done := mh.Play()
	assert.True(t, mh.IsPlaying())
	assert.False(t, mh.Advance(500*time.Millisecond))
	assert.Equal(t, 500*time.Millisecond, mh.Position())

	mh.Stop()
	assert.False(t, (<-done).Finished)
	assert.Equal(t, 500*time.Millisecond, mh.Position())

	done = mh.Play()
	assert.True(t, mh.Advance(500*time.Millisecond))
	assert.True(t, (<-done).Finished)
	assert.Equal(t, time.Duration(0), mh.Position())
	assert.Equal(t, 2, mh.Plays())
}

func TestMockHandle_Loops(t *testing.T) {
	m := NewMock()
	h, _ := m.Decode("a.wav", strings.NewReader(""))
	mh := h.(*MockHandle)

	mh.SetLoops(2)
	done := mh.Play()
	assert.False(t, mh.Advance(2500*time.Millisecond))
	assert.True(t, mh.Advance(500*time.Millisecond))
	assert.True(t, (<-done).Finished)

	mh.SetLoops(-5)
	assert.Equal(t, LoopForever, mh.Loops())
	mh.Play()
	for range 100 {
		require.False(t, mh.Advance(time.Second))
	}
}

func TestMockHandle_Close(t *testing.T) {
	m := NewMock()
	h, _ := m.Decode("a.wav", strings.NewReader(""))
	mh := h.(*MockHandle)

	done := mh.Play()
	require.NoError(t, mh.Close())
	assert.False(t, (<-done).Finished)
	assert.True(t, mh.Closed())
	assert.False(t, (<-mh.Play()).Finished)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("read failed") }

func TestMock_DecodeReadError(t *testing.T) {
	m := NewMock()
	_, err := m.Decode("a.wav", failingReader{})
	require.Error(t, err)
	assert.Empty(t, m.DecodeCalls())
}
