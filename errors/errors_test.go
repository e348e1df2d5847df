package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:    PhaseSplit,
				Kind:     KindUnsupportedOpcode,
				Function: "accessor_read",
				Offset:   42,
				Opcode:   "f32.add",
				Detail:   "opcode is outside the supported subset",
			},
			contains: []string{"[split]", "unsupported_opcode", "accessor_read", "42", "f32.add", "outside the supported subset"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase:  PhaseParse,
				Kind:   KindMalformed,
				Offset: -1,
			},
			contains: []string{"[parse]", "malformed"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseIO,
				Kind:   KindIO,
				Offset: -1,
				Detail: "read input file",
				Cause:  errors.New("permission denied"),
			},
			contains: []string{"[io]", "io", "read input file", "caused by", "permission denied"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{Phase: PhaseSplit, Kind: KindUnbalancedStack, Cause: cause, Offset: -1}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}
	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{Phase: PhaseSplit, Kind: KindUnsupportedOpcode, Offset: -1}

	if !err.Is(&Error{Phase: PhaseSplit, Kind: KindUnsupportedOpcode}) {
		t.Error("Is should match same phase and kind")
	}
	if err.Is(&Error{Phase: PhaseParse, Kind: KindUnsupportedOpcode}) {
		t.Error("Is should not match different phase")
	}
	if err.Is(&Error{Phase: PhaseSplit, Kind: KindUnbalancedStack}) {
		t.Error("Is should not match different kind")
	}

	target := &Error{Phase: PhaseSplit, Kind: KindUnsupportedOpcode}
	if !errors.Is(err, target) {
		t.Error("errors.Is should match")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseSplit, KindUnsupportedOpcode).
		Function("f").
		Offset(17).
		Opcode("f64.add").
		Cause(cause).
		Detail("expected %s, got %s", "i32.add", "f64.add").
		Build()

	if err.Phase != PhaseSplit {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseSplit)
	}
	if err.Kind != KindUnsupportedOpcode {
		t.Errorf("Kind = %v, want %v", err.Kind, KindUnsupportedOpcode)
	}
	if err.Function != "f" {
		t.Errorf("Function = %v, want f", err.Function)
	}
	if err.Offset != 17 {
		t.Errorf("Offset = %v, want 17", err.Offset)
	}
	if err.Opcode != "f64.add" {
		t.Errorf("Opcode = %v, want f64.add", err.Opcode)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "expected i32.add, got f64.add" {
		t.Errorf("Detail = %v, want 'expected i32.add, got f64.add'", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("UnsupportedOpcode", func(t *testing.T) {
		err := UnsupportedOpcode("f", 10, "f32.add")
		if err.Kind != KindUnsupportedOpcode {
			t.Errorf("Kind = %v, want %v", err.Kind, KindUnsupportedOpcode)
		}
		if err.Opcode != "f32.add" {
			t.Errorf("Opcode = %v, want f32.add", err.Opcode)
		}
	})

	t.Run("UnbalancedStack", func(t *testing.T) {
		err := UnbalancedStack("f", 3, "pop on empty stack")
		if err.Kind != KindUnbalancedStack {
			t.Errorf("Kind = %v, want %v", err.Kind, KindUnbalancedStack)
		}
	})

	t.Run("UnbalancedScope", func(t *testing.T) {
		err := UnbalancedScope("f", 3, "end without matching block")
		if err.Kind != KindUnbalancedScope {
			t.Errorf("Kind = %v, want %v", err.Kind, KindUnbalancedScope)
		}
	})

	t.Run("Malformed", func(t *testing.T) {
		err := Malformed(5, "unexpected token")
		if err.Kind != KindMalformed {
			t.Errorf("Kind = %v, want %v", err.Kind, KindMalformed)
		}
	})

	t.Run("IO", func(t *testing.T) {
		err := IO("read failed", errors.New("eof"))
		if err.Kind != KindIO {
			t.Errorf("Kind = %v, want %v", err.Kind, KindIO)
		}
	})

	t.Run("Usage", func(t *testing.T) {
		err := Usage("missing file path")
		if err.Kind != KindUsage {
			t.Errorf("Kind = %v, want %v", err.Kind, KindUsage)
		}
	})
}
