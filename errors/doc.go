// Package errors provides structured error types for the chop-up transform.
//
// Errors are categorized by Phase (where in the pipeline the error occurred)
// and Kind (error category). Every error raised by the transform is fatal:
// the transform is all-or-nothing, so there is no recovery path and no
// partial-output guarantee once an *Error has been returned.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseSplit, errors.KindUnsupportedOpcode).
//		Offset(instr.Offset).
//		Detail("opcode %q is outside the supported subset", instr.Text).
//		Build()
//
// Or use the convenience constructors for the common cases named in the
// design (unsupported opcode, unbalanced stack, unbalanced scope, usage).
package errors
