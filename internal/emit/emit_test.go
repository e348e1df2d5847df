package emit

import (
	"errors"
	"strings"
	"testing"
)

func TestLineIndentsByScopeLevel(t *testing.T) {
	var out strings.Builder
	e := New(&out, false)
	e.CurrentScopeLevel = 2
	e.Line("i32.add", "")

	want := "    i32.add\n"
	if out.String() != want {
		t.Errorf("got %q, want %q", out.String(), want)
	}
}

func TestLineAnnotationOnlyWhenExplain(t *testing.T) {
	tests := []struct {
		name    string
		explain bool
		want    string
	}{
		{"explain off drops annotation", false, "i32.add\n"},
		{"explain on keeps annotation", true, "i32.add ;; note\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out strings.Builder
			e := New(&out, tt.explain)
			e.Line("i32.add", "note")
			if out.String() != tt.want {
				t.Errorf("got %q, want %q", out.String(), tt.want)
			}
		})
	}
}

func TestRawLineIgnoresScopeLevel(t *testing.T) {
	var out strings.Builder
	e := New(&out, false)
	e.CurrentScopeLevel = 5
	e.RawLine("(module", 0, "")

	want := "(module\n"
	if out.String() != want {
		t.Errorf("got %q, want %q", out.String(), want)
	}
}

func TestErrPropagatesWriteFailure(t *testing.T) {
	e := New(failingWriter{}, false)
	e.Line("i32.add", "")
	if e.Err() == nil {
		t.Fatal("expected Err() to report the write failure")
	}
}

type failingWriter struct{}

var errWrite = errors.New("write failed")

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errWrite
}
