package input

import (
	"io"
	"os"
	"sync"

	"github.com/matzehuels/logle/pkg/errors"
)

// Source is an owned input stream. See the package documentation for the
// ownership rules.
type Source struct {
	name string
	r    io.Reader
	c    io.Closer

	once     sync.Once
	closeErr error
}

// Open opens the file at path. Failures are EXTERNAL and include the path.
func Open(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeExternal, err, "Error opening file: %s", path)
	}
	return &Source{name: path, r: f, c: f}, nil
}

// FromReader wraps r as a source named name. If r is an io.Closer it is
// closed with the source.
func FromReader(name string, r io.Reader) *Source {
	s := &Source{name: name, r: r}
	if c, ok := r.(io.Closer); ok {
		s.c = c
	}
	return s
}

// Name returns the path or name the source was created with.
func (s *Source) Name() string { return s.name }

// Read implements io.Reader.
func (s *Source) Read(p []byte) (int, error) { return s.r.Read(p) }

// Close releases the underlying stream. Only the first call has an effect;
// later calls return the first call's result.
func (s *Source) Close() error {
	s.once.Do(func() {
		if s.c == nil {
			return
		}
		if err := s.c.Close(); err != nil {
			s.closeErr = errors.Wrap(errors.ErrCodeExternal, err, "Error closing file: %s", s.name)
		}
	})
	return s.closeErr
}
