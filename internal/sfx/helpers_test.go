package sfx

import (
	"bytes"
	"log/slog"
	"strings"
	"sync"
	"testing/fstest"

	"github.com/llehouerou/soundfx/internal/audio"
	"github.com/llehouerou/soundfx/internal/resource"
)

// logSink collects log output written from any goroutine.
type logSink struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *logSink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *logSink) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

// errors counts ERROR records.
func (s *logSink) errors() int {
	return strings.Count(s.String(), "level=ERROR")
}

func testBundle() resource.Bundle {
	return resource.FS(fstest.MapFS{
		"chime.wav":    {Data: []byte("chime")},
		"click.wav":    {Data: []byte("click")},
		"loop.ogg":     {Data: []byte("loop")},
		"ui/alert.mp3": {Data: []byte("alert")},
	}, "test")
}

func newTestRegistry(opts ...Option) (*Registry, *audio.Mock, *logSink) {
	engine := audio.NewMock()
	logs := &logSink{}
	logger := slog.New(slog.NewTextHandler(logs, nil))
	opts = append([]Option{WithLogger(logger)}, opts...)
	return New(engine, opts...), engine, logs
}

// handlesNamed returns the mock handles decoded for name.
func handlesNamed(engine *audio.Mock, name string) []*audio.MockHandle {
	var out []*audio.MockHandle
	for _, h := range engine.Handles() {
		if h.Name() == name {
			out = append(out, h)
		}
	}
	return out
}
