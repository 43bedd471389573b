package input

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/matzehuels/logle/pkg/errors"
)

// Record is one CSV row addressed by header name.
type Record struct {
	Line   int
	fields []string
	header map[string]int
}

// Get returns the value of the named column and whether the column exists.
func (r Record) Get(col string) (string, bool) {
	i, ok := r.header[col]
	if !ok || i >= len(r.fields) {
		return "", false
	}
	return r.fields[i], true
}

// CSVReader reads header-addressed records from a CSV source.
type CSVReader struct {
	src    *Source
	r      *csv.Reader
	header map[string]int
	cols   []string
}

// NewCSVReader takes ownership of src and reads its header row. Header names
// are trimmed and lowercased. An empty or malformed input is
// INVALID_ARGUMENT and closes src.
func NewCSVReader(src *Source) (*CSVReader, error) {
	r := csv.NewReader(src)
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	cols, err := r.Read()
	if err != nil {
		src.Close()
		if err == io.EOF {
			return nil, errors.New(errors.ErrCodeInvalidArgument, "CSV input %s has no header row", src.Name())
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidArgument, err, "malformed CSV in %s", src.Name())
	}

	header := make(map[string]int, len(cols))
	for i, c := range cols {
		c = strings.ToLower(strings.TrimSpace(c))
		cols[i] = c
		header[c] = i
	}
	return &CSVReader{src: src, r: r, header: header, cols: cols}, nil
}

// Columns returns the normalized header names.
func (c *CSVReader) Columns() []string { return append([]string(nil), c.cols...) }

// Require returns INVALID_ARGUMENT naming the first missing column.
func (c *CSVReader) Require(cols ...string) error {
	for _, col := range cols {
		if _, ok := c.header[col]; !ok {
			return errors.New(errors.ErrCodeInvalidArgument, "CSV input %s is missing column %q", c.src.Name(), col)
		}
	}
	return nil
}

// Next returns the next record. At the end of input it closes the source and
// returns io.EOF. Malformed rows are INVALID_ARGUMENT and close the source.
func (c *CSVReader) Next() (Record, error) {
	fields, err := c.r.Read()
	if err == io.EOF {
		if cerr := c.src.Close(); cerr != nil {
			return Record{}, cerr
		}
		return Record{}, io.EOF
	}
	if err != nil {
		c.src.Close()
		return Record{}, errors.Wrap(errors.ErrCodeInvalidArgument, err, "malformed CSV in %s", c.src.Name())
	}
	line, _ := c.r.FieldPos(0)
	return Record{Line: line, fields: fields, header: c.header}, nil
}

// Close closes the underlying source.
func (c *CSVReader) Close() error { return c.src.Close() }
