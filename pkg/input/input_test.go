package input

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/logle/pkg/errors"
)

// trackingReader counts Close calls.
type trackingReader struct {
	io.Reader
	closes int
}

func (r *trackingReader) Close() error {
	r.closes++
	return nil
}

func track(s string) (*trackingReader, *Source) {
	r := &trackingReader{Reader: strings.NewReader(s)}
	return r, FromReader("test", r)
}

func TestOpen_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.csv")
	_, err := Open(path)
	if !errors.Is(err, errors.ErrCodeExternal) {
		t.Fatalf("error = %v, want EXTERNAL", err)
	}
	if !strings.Contains(errors.UserMessage(err), path) {
		t.Errorf("message %q does not contain path", errors.UserMessage(err))
	}
}

func TestOpen_CloseIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.csv")
	if err := os.WriteFile(path, []byte("a\n1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	src, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if src.Name() != path {
		t.Errorf("Name() = %q", src.Name())
	}
	if err := src.Close(); err != nil {
		t.Fatalf("first Close() error: %v", err)
	}
	if err := src.Close(); err != nil {
		t.Fatalf("second Close() error: %v", err)
	}
}

func TestCSVReader(t *testing.T) {
	r, src := track(" User , Account\nalice,a1\nbob, b1\n")
	csv, err := NewCSVReader(src)
	if err != nil {
		t.Fatal(err)
	}
	if err := csv.Require("user", "account"); err != nil {
		t.Fatalf("Require() error: %v", err)
	}
	if err := csv.Require("address"); !errors.Is(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("Require(missing) error = %v", err)
	}

	var users []string
	for {
		rec, err := csv.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		u, _ := rec.Get("user")
		a, _ := rec.Get("account")
		users = append(users, u+"/"+a)
	}
	if strings.Join(users, ",") != "alice/a1,bob/b1" {
		t.Errorf("records = %v", users)
	}
	if r.closes != 1 {
		t.Errorf("source closed %d times at EOF, want 1", r.closes)
	}
	_ = csv.Close()
	if r.closes != 1 {
		t.Errorf("Close after EOF closed the stream again")
	}
}

func TestCSVReader_Empty(t *testing.T) {
	r, src := track("")
	_, err := NewCSVReader(src)
	if !errors.Is(err, errors.ErrCodeInvalidArgument) {
		t.Fatalf("error = %v, want INVALID_ARGUMENT", err)
	}
	if r.closes != 1 {
		t.Errorf("source not closed on error")
	}
}

func TestCSVReader_Malformed(t *testing.T) {
	r, src := track("a,b\n\"unterminated,1\n")
	csv, err := NewCSVReader(src)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := csv.Next(); !errors.Is(err, errors.ErrCodeInvalidArgument) {
		t.Fatalf("error = %v, want INVALID_ARGUMENT", err)
	}
	if r.closes != 1 {
		t.Errorf("source not closed on error")
	}
}

func TestReadJSON(t *testing.T) {
	var doc struct {
		Events []int `json:"events"`
	}
	r, src := track(`{"events": [1, 2, 3]}`)
	if err := ReadJSON(src, &doc); err != nil {
		t.Fatal(err)
	}
	if len(doc.Events) != 3 || r.closes != 1 {
		t.Errorf("events = %v, closes = %d", doc.Events, r.closes)
	}

	for _, bad := range []string{"", "{", `{"a":1} {"b":2}`} {
		r, src := track(bad)
		if err := ReadJSON(src, &doc); !errors.Is(err, errors.ErrCodeInvalidArgument) {
			t.Errorf("ReadJSON(%q) error = %v, want INVALID_ARGUMENT", bad, err)
		}
		if r.closes != 1 {
			t.Errorf("ReadJSON(%q) did not close source", bad)
		}
	}
}

type event struct {
	N int `json:"n"`
}

func drain(t *testing.T, ev Events) ([]int, error) {
	t.Helper()
	var ns []int
	for {
		var e event
		err := ev.Next(&e)
		if err == io.EOF {
			return ns, nil
		}
		if err != nil {
			return ns, err
		}
		ns = append(ns, e.N)
	}
}

func TestFullJSON(t *testing.T) {
	r, src := track(`{"event_1": {"n": 1}, "event_0": {"n": 0}, "event_2": {"n": 2}}`)
	ns, err := drain(t, NewFullJSON(src))
	if err != nil {
		t.Fatal(err)
	}
	// Document order, not key order.
	if len(ns) != 3 || ns[0] != 1 || ns[1] != 0 || ns[2] != 2 {
		t.Errorf("events = %v", ns)
	}
	if r.closes != 1 {
		t.Errorf("closes = %d, want 1", r.closes)
	}
}

func TestFullJSON_Errors(t *testing.T) {
	for _, bad := range []string{"", "[1,2]", `{"a": {"n": 1}`} {
		r, src := track(bad)
		_, err := drain(t, NewFullJSON(src))
		if !errors.Is(err, errors.ErrCodeInvalidArgument) {
			t.Errorf("FullJSON(%q) error = %v, want INVALID_ARGUMENT", bad, err)
		}
		if r.closes != 1 {
			t.Errorf("FullJSON(%q) did not close source", bad)
		}
	}
}

func TestStreamJSON(t *testing.T) {
	r, src := track("{\"n\": 4}\n{\"n\": 5}\n\n{\"n\": 6}\n")
	ns, err := drain(t, NewStreamJSON(src))
	if err != nil {
		t.Fatal(err)
	}
	if len(ns) != 3 || ns[2] != 6 {
		t.Errorf("events = %v", ns)
	}
	if r.closes != 1 {
		t.Errorf("closes = %d, want 1", r.closes)
	}

	r, src = track("{\"n\": 4}\n{oops}\n")
	if _, err := drain(t, NewStreamJSON(src)); !errors.Is(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("error = %v, want INVALID_ARGUMENT", err)
	}
	if r.closes != 1 {
		t.Errorf("closes = %d, want 1", r.closes)
	}
}
