package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in the pipeline the error occurred.
type Phase string

const (
	PhaseParse   Phase = "parse"   // tokenizing / parsing WAT source
	PhaseExtract Phase = "extract" // recovering function signatures and locals from the AST
	PhaseSplit   Phase = "split"   // abstract interpretation and microtransaction splitting
	PhaseEmit    Phase = "emit"    // textual emission of the transformed module
	PhaseIO      Phase = "io"      // reading the input file / writing output
	PhaseUsage   Phase = "usage"  // CLI argument parsing
)

// Kind categorizes the error.
type Kind string

const (
	KindMalformed         Kind = "malformed"          // the WAT source did not parse
	KindUnsupportedOpcode Kind = "unsupported_opcode"  // opcode outside the enumerated subset
	KindUnbalancedStack   Kind = "unbalanced_stack"    // pop on empty stack, or below scope.stack_start
	KindUnbalancedScope   Kind = "unbalanced_scope"    // End without matching Block, or scope search ran off the suffix
	KindIO                Kind = "io"                  // file read/write failure
	KindUsage             Kind = "usage"               // bad CLI invocation
)

// Error is the structured error type used throughout the transform.
//
// Offset, when non-negative, is the byte offset of the source construct that
// triggered the error (an instruction, in the common case); Opcode, when
// set, names the offending mnemonic.
type Error struct {
	Cause    error
	Phase    Phase
	Kind     Kind
	Detail   string
	Opcode   string
	Function string
	Offset   int
}

func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Function != "" {
		b.WriteString(" in ")
		b.WriteString(e.Function)
	}
	if e.Offset >= 0 {
		fmt.Fprintf(&b, " at offset %d", e.Offset)
	}
	if e.Opcode != "" {
		fmt.Fprintf(&b, " (%q)", e.Opcode)
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error, if any.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by Phase and Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Phase == t.Phase && e.Kind == t.Kind
}

// Builder provides structured error construction.
type Builder struct {
	err Error
}

// New creates a new error builder. Offset defaults to -1 (unset).
func New(phase Phase, kind Kind) *Builder {
	return &Builder{err: Error{Phase: phase, Kind: kind, Offset: -1}}
}

func (b *Builder) Offset(offset int) *Builder {
	b.err.Offset = offset
	return b
}

func (b *Builder) Opcode(op string) *Builder {
	b.err.Opcode = op
	return b
}

func (b *Builder) Function(name string) *Builder {
	b.err.Function = name
	return b
}

func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for the taxonomy named in spec.md section 7.

// UnsupportedOpcode reports an opcode outside the enumerated supported subset.
func UnsupportedOpcode(function string, offset int, opcode string) *Error {
	return &Error{
		Phase:    PhaseSplit,
		Kind:     KindUnsupportedOpcode,
		Function: function,
		Offset:   offset,
		Opcode:   opcode,
		Detail:   "opcode is outside the supported subset",
	}
}

// UnbalancedStack reports a pop against an empty stack or below the
// enclosing scope's stack_start.
func UnbalancedStack(function string, offset int, detail string) *Error {
	return &Error{
		Phase:    PhaseSplit,
		Kind:     KindUnbalancedStack,
		Function: function,
		Offset:   offset,
		Detail:   detail,
	}
}

// UnbalancedScope reports an End without a matching Block, or a scope-end
// search that ran off the instruction suffix.
func UnbalancedScope(function string, offset int, detail string) *Error {
	return &Error{
		Phase:    PhaseSplit,
		Kind:     KindUnbalancedScope,
		Function: function,
		Offset:   offset,
		Detail:   detail,
	}
}

// Malformed reports a WAT source that failed to parse.
func Malformed(offset int, detail string) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindMalformed,
		Offset: offset,
		Detail: detail,
	}
}

// IO wraps a file read/write failure.
func IO(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseIO,
		Kind:   KindIO,
		Offset: -1,
		Detail: detail,
		Cause:  cause,
	}
}

// Usage reports a bad CLI invocation.
func Usage(detail string) *Error {
	return &Error{
		Phase:  PhaseUsage,
		Kind:   KindUsage,
		Offset: -1,
		Detail: detail,
	}
}
