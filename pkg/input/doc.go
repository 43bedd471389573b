// Package input provides owned input handles and the record readers built on
// them.
//
// # Ownership
//
// A [Source] wraps one open input stream. It is handed to exactly one
// reader ([NewCSVReader], [ReadJSON], [NewFullJSON], [NewStreamJSON]), which
// takes ownership: the reader closes the source when input is exhausted,
// when it fails, or when its own Close is called, whichever comes first.
// Closing is idempotent, so a deferred Close after a successful read is
// harmless. Callers must not read from a source after handing it over.
//
//	src, err := input.Open(path)
//	if err != nil {
//	    return err // EXTERNAL: "Error opening file: <path>"
//	}
//	records, err := input.NewCSVReader(src)
//	if err != nil {
//	    return err
//	}
//	defer records.Close()
//
// # Errors
//
// Open failures are EXTERNAL and name the path. Malformed CSV or JSON is
// INVALID_ARGUMENT and names the source.
package input
