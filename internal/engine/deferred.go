package engine

import "github.com/wippyai/chop-up/internal/types"

// DeferredSplit is the closure of everything needed to emit one
// microtransaction later: its name, the culprit memory op that forced the
// split, the remaining (already-annotated) instructions after the
// culprit, and owned snapshots of the AbstractStack and ScopeStack at the
// moment of the split (spec.md section 3 — these must be copies, since the
// originating interpreter walk continues mutating its own live stacks).
type DeferredSplit struct {
	Name string
	// BaseName is the original top-level function's own name — constant
	// across every generation of resumption, so further splits discovered
	// while resuming this one stay flatly named "<BaseName>_<n>" rather than
	// accumulating a suffix per generation (spec.md section 3).
	BaseName     string
	Shape        *FuncShape
	Culprit      MemOp
	Instructions []AnnotatedInstr
	Stack        []types.StackValue
	Scopes       []Scope
	LocalRefs    []LocalRef
}
