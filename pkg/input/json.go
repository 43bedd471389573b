package input

import (
	"encoding/json"
	"io"

	"github.com/matzehuels/logle/pkg/errors"
)

// ReadJSON takes ownership of src, decodes one JSON document into v and
// closes src. Trailing data after the document is an error.
func ReadJSON(src *Source, v any) error {
	dec := json.NewDecoder(src)
	err := dec.Decode(v)
	if err == nil {
		if _, terr := dec.Token(); terr != io.EOF {
			err = errors.New(errors.ErrCodeInvalidArgument, "unexpected data after JSON document")
		}
	}
	cerr := src.Close()
	if err != nil {
		if err == io.EOF {
			return errors.New(errors.ErrCodeInvalidArgument, "JSON input %s is empty", src.Name())
		}
		return errors.Wrap(errors.ErrCodeInvalidArgument, err, "malformed JSON in %s", src.Name())
	}
	return cerr
}

// Events iterates over the JSON objects of an event source.
type Events interface {
	// Next decodes the next event into v. It returns io.EOF, after closing
	// the source, once all events have been read.
	Next(v any) error
	Close() error
}

// FullJSON reads events from a single JSON object whose values are the
// events, in document order:
//
//	{"event_0": {...}, "event_1": {...}}
type FullJSON struct {
	src     *Source
	dec     *json.Decoder
	started bool
}

// NewFullJSON takes ownership of src.
func NewFullJSON(src *Source) *FullJSON {
	return &FullJSON{src: src, dec: json.NewDecoder(src)}
}

// Next implements Events.
func (f *FullJSON) Next(v any) error {
	if !f.started {
		f.started = true
		tok, err := f.dec.Token()
		if err != nil {
			return f.fail(err)
		}
		if d, ok := tok.(json.Delim); !ok || d != '{' {
			return f.fail(errors.New(errors.ErrCodeInvalidArgument, "expected a JSON object of events"))
		}
	}
	if !f.dec.More() {
		if _, err := f.dec.Token(); err != nil {
			return f.fail(err)
		}
		if err := f.src.Close(); err != nil {
			return err
		}
		return io.EOF
	}
	if _, err := f.dec.Token(); err != nil {
		return f.fail(err)
	}
	if err := f.dec.Decode(v); err != nil {
		return f.fail(err)
	}
	return nil
}

func (f *FullJSON) fail(err error) error {
	f.src.Close()
	if errors.GetCode(err) != "" {
		return err
	}
	return errors.Wrap(errors.ErrCodeInvalidArgument, err, "malformed JSON in %s", f.src.Name())
}

// Close implements Events.
func (f *FullJSON) Close() error { return f.src.Close() }

// StreamJSON reads a stream of JSON objects, typically one per line.
type StreamJSON struct {
	src *Source
	dec *json.Decoder
}

// NewStreamJSON takes ownership of src.
func NewStreamJSON(src *Source) *StreamJSON {
	return &StreamJSON{src: src, dec: json.NewDecoder(src)}
}

// Next implements Events.
func (s *StreamJSON) Next(v any) error {
	err := s.dec.Decode(v)
	if err == io.EOF {
		if cerr := s.src.Close(); cerr != nil {
			return cerr
		}
		return io.EOF
	}
	if err != nil {
		s.src.Close()
		return errors.Wrap(errors.ErrCodeInvalidArgument, err, "malformed JSON stream in %s", s.src.Name())
	}
	return nil
}

// Close implements Events.
func (s *StreamJSON) Close() error { return s.src.Close() }
