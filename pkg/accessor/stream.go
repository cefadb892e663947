package accessor

import (
	"bufio"
	"io"
	"sync"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/rc-project/rc/pkg/errclass"
)

type streamState int

const (
	streamOpen streamState = iota
	streamClosed
	streamInvalidated
)

// Stream is a read handle into one container file. Streams are tracked by the
// accessor that issued them: closing the accessor, or writing through it,
// invalidates every stream it handed out. Reads on an invalid stream return
// zero bytes and an E_CLOSED error.
type Stream struct {
	mu    sync.Mutex
	name  string
	rc    io.ReadCloser
	set   *streamSet
	state streamState
}

// Name returns the container path the stream was opened for.
func (s *Stream) Name() string {
	return s.name
}

// Read implements io.Reader.
func (s *Stream) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case streamClosed:
		return 0, errclass.ErrClosed.WithMessagef("stream %s is closed", s.name)
	case streamInvalidated:
		return 0, errclass.ErrClosed.WithMessagef("stream %s was invalidated by its container", s.name)
	}
	return s.rc.Read(p)
}

// Close releases the stream. Closing twice is a no-op.
func (s *Stream) Close() error {
	s.mu.Lock()
	if s.state != streamOpen {
		s.mu.Unlock()
		return nil
	}
	s.state = streamClosed
	err := s.rc.Close()
	s.mu.Unlock()

	s.set.remove(s)
	return err
}

// Valid reports whether the stream can still be read.
func (s *Stream) Valid() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == streamOpen
}

func (s *Stream) invalidate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != streamOpen {
		return nil
	}
	s.state = streamInvalidated
	return s.rc.Close()
}

// streamSet tracks the open streams of one accessor.
type streamSet struct {
	mu      sync.Mutex
	streams map[*Stream]struct{}
}

func (t *streamSet) track(name string, rc io.ReadCloser) *Stream {
	s := &Stream{name: name, rc: rc, set: t}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.streams == nil {
		t.streams = make(map[*Stream]struct{})
	}
	t.streams[s] = struct{}{}
	return s
}

func (t *streamSet) remove(s *Stream) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.streams, s)
}

func (t *streamSet) len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.streams)
}

// invalidateAll invalidates every tracked stream and forgets them. The first
// close error is returned.
func (t *streamSet) invalidateAll() error {
	t.mu.Lock()
	streams := t.streams
	t.streams = nil
	t.mu.Unlock()

	var first error
	for s := range streams {
		if err := s.invalidate(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// closeAll closes every stream in m, returning the first error.
func closeAll(m map[string]*Stream) error {
	var first error
	for _, s := range m {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// TextReader decodes a Stream as UTF-8 text. A UTF-8 or UTF-16 byte order
// mark is honoured and stripped.
type TextReader struct {
	*bufio.Reader
	stream *Stream
}

func newTextReader(s *Stream) *TextReader {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	return &TextReader{
		Reader: bufio.NewReader(transform.NewReader(s, dec)),
		stream: s,
	}
}

// Close closes the underlying stream.
func (t *TextReader) Close() error {
	return t.stream.Close()
}
