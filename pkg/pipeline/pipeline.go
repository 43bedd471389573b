// Package pipeline runs one analysis from input file to rendered output.
//
// A run selects an analyzer, opens its input, builds the labeled graph,
// optionally derives a transformed graph and renders it as DOT, SVG or JSON.
// CLI and HTTP entry points share this package so validation, caching and
// error kinds are identical for both.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, logger)
//	res, err := runner.Run(ctx, pipeline.Options{
//	    Analyzer: "mail",
//	    CSVFile:  "access.csv",
//	    Format:   pipeline.FormatDOT,
//	})
//	if err != nil {
//	    return err
//	}
//	fmt.Print(string(res.Text))
//
// # Errors
//
// Every failure is an *errors.Error. Selector and missing-input problems are
// INVALID_ARGUMENT, unreadable files EXTERNAL, and graph construction errors
// propagate with their own codes. When OutputFile is set, a file is written
// only after the text is fully rendered, so no partial output survives a
// failed run.
package pipeline

import (
	"slices"
	"time"

	"github.com/matzehuels/logle/pkg/analyzer"
	"github.com/matzehuels/logle/pkg/errors"
)

// Output formats.
const (
	FormatDOT  = "dot"
	FormatJSON = "json"
	FormatSVG  = "svg"
)

// DefaultFormat is used when Options.Format is empty.
const DefaultFormat = FormatDOT

// TTLRender is how long rendered output stays cached.
const TTLRender = 7 * 24 * time.Hour

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatDOT:  true,
	FormatJSON: true,
	FormatSVG:  true,
}

// InvalidAnalyzerMessage is returned for a missing or unknown analyzer.
const InvalidAnalyzerMessage = "Invalid analysis. The analysis must be one of 'curio', 'mail', or 'plaso'."

// InputKind says how an input source is laid out.
type InputKind string

// Input kinds.
const (
	InputCSV        InputKind = "csv"
	InputJSON       InputKind = "json"
	InputJSONStream InputKind = "jsonstream"
)

// Options contains the configuration of one analysis run.
type Options struct {
	Analyzer       string  `json:"analyzer" toml:"analyzer" yaml:"analyzer"`
	CSVFile        string  `json:"csv_file,omitempty" toml:"csv_file" yaml:"csv_file"`
	JSONFile       string  `json:"json_file,omitempty" toml:"json_file" yaml:"json_file"`
	JSONStreamFile string  `json:"json_stream_file,omitempty" toml:"json_stream_file" yaml:"json_stream_file"`
	OutputFile     string  `json:"output_file,omitempty" toml:"output_file" yaml:"output_file"`
	Format         string  `json:"format,omitempty" toml:"format" yaml:"format"`
	Delete         []int64 `json:"delete,omitempty" toml:"delete" yaml:"delete"`
	// MergeParallel collapses edges that repeat the same endpoints and label.
	MergeParallel bool `json:"merge_parallel,omitempty" toml:"merge_parallel" yaml:"merge_parallel"`
	// Detailed adds node and edge ids to DOT and SVG labels.
	Detailed bool `json:"detailed,omitempty" toml:"detailed" yaml:"detailed"`
	// Refresh bypasses the cache lookup but still stores the result.
	Refresh bool `json:"-" toml:"-" yaml:"-"`
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidArgument, "invalid format %q: must be one of dot, json, svg", format)
	}
	return nil
}

// ValidateAnalyzer checks the analyzer selector.
func ValidateAnalyzer(name string) error {
	if !slices.Contains(analyzer.Names(), name) {
		return errors.New(errors.ErrCodeInvalidArgument, InvalidAnalyzerMessage)
	}
	return nil
}

// ValidateInput checks that kind is an input the named analyzer reads.
func ValidateInput(name string, kind InputKind) error {
	switch {
	case name == analyzer.Mail && kind == InputCSV,
		name == analyzer.Curio && kind == InputJSON,
		name == analyzer.Plaso && (kind == InputJSON || kind == InputJSONStream):
		return nil
	}
	return errors.New(errors.ErrCodeInvalidArgument, "the %s analyzer does not read %s input", name, kind)
}

// ValidateAndSetDefaults checks the selector, the required input and the
// file paths, and fills in the default format. The analyzer is checked first: an invalid selector
// is reported the same way regardless of the other fields.
func (o *Options) ValidateAndSetDefaults() error {
	if err := ValidateAnalyzer(o.Analyzer); err != nil {
		return err
	}
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	if err := ValidateFormat(o.Format); err != nil {
		return err
	}
	path, _, err := o.input()
	if err != nil {
		return err
	}
	if err := errors.ValidateFilePath("input file", path); err != nil {
		return err
	}
	return errors.ValidateFilePath("output file", o.OutputFile)
}

// input returns the file the selected analyzer reads and its layout.
func (o *Options) input() (string, InputKind, error) {
	switch o.Analyzer {
	case analyzer.Mail:
		if o.CSVFile == "" {
			return "", "", errors.New(errors.ErrCodeInvalidArgument, "The mail analyzer requires a CSV input file.")
		}
		return o.CSVFile, InputCSV, nil
	case analyzer.Curio:
		if o.JSONFile == "" {
			return "", "", errors.New(errors.ErrCodeInvalidArgument, "The Curio analyzer requires a JSON input file.")
		}
		return o.JSONFile, InputJSON, nil
	case analyzer.Plaso:
		switch {
		case o.JSONFile != "":
			return o.JSONFile, InputJSON, nil
		case o.JSONStreamFile != "":
			return o.JSONStreamFile, InputJSONStream, nil
		}
		return "", "", errors.New(errors.ErrCodeInvalidArgument, "The Plaso analyzer requires a JSON or JSON stream input file.")
	}
	return "", "", errors.New(errors.ErrCodeInvalidArgument, InvalidAnalyzerMessage)
}

// Stats describes a finished run.
type Stats struct {
	Records      int           // input records read
	Skipped      int           // records that produced nothing
	Nodes        int           // nodes in the rendered graph
	Edges        int           // edges in the rendered graph
	NodesRemoved int           // nodes dropped by transforms
	EdgesRemoved int           // edges dropped by transforms
	Duration     time.Duration // wall time of the run
}

// Result is the outcome of a successful run.
type Result struct {
	RunID    string
	Analyzer string
	Format   string
	Text     []byte
	// OutputFile is the path written, empty if nothing was written.
	OutputFile string
	CacheHit   bool
	Stats      Stats
}
