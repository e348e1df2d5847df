package engine

import (
	"fmt"

	"github.com/wippyai/chop-up/internal/types"
)

var errUnderflow = fmt.Errorf("pop from empty stack")

// AbstractStack is the splitter's model of the wasm operand stack: a plain
// slice of StackValue, each carrying its type and safety tag. It never
// inspects concrete values — only the shape and safety that flow through
// it (spec.md section 4.1).
type AbstractStack []types.StackValue

// Push appends a value to the top of the stack.
func (s *AbstractStack) Push(v types.StackValue) {
	*s = append(*s, v)
}

// Pop removes and returns the top value. It fails on an empty stack, which
// signals a malformed or unsupported instruction sequence rather than a
// normal condition.
func (s *AbstractStack) Pop() (types.StackValue, error) {
	n := len(*s)
	if n == 0 {
		return types.StackValue{}, errUnderflow
	}
	v := (*s)[n-1]
	*s = (*s)[:n-1]
	return v, nil
}

// Clear empties the stack, modeling a bare `return`.
func (s *AbstractStack) Clear() {
	*s = nil
}

// Len reports the current depth.
func (s AbstractStack) Len() int {
	return len(s)
}

// Snapshot returns an independent copy of the current stack contents, for
// recording as an AnnotatedInstr's PreStack.
func (s AbstractStack) Snapshot() []types.StackValue {
	out := make([]types.StackValue, len(s))
	copy(out, s)
	return out
}

// Restore replaces the stack contents with a previously captured snapshot.
func (s *AbstractStack) Restore(snapshot []types.StackValue) {
	*s = append(AbstractStack(nil), snapshot...)
}

// Apply transforms the stack by eff, popping and pushing as described.
func (s *AbstractStack) Apply(eff StackEffect) error {
	if eff.Return {
		s.Clear()
		return nil
	}

	safety := eff.PushSafe

	for i := 0; i < eff.RemoveN; i++ {
		v, err := s.Pop()
		if err != nil {
			return err
		}
		if eff.PreservesSafety && eff.RemoveN == 1 {
			safety = safety || v.Safe
		}
	}

	if eff.Push != nil {
		s.Push(types.StackValue{Type: *eff.Push, Safe: safety})
	}
	return nil
}

// Scope is one entry of lexically nested `block`/`end` structure as the
// interpreter walks a function body. StackDepth is the abstract stack depth
// at the moment the block opened, used to compute the stack slice a
// post-split restore needs to replay (spec.md section 4.6).
type Scope struct {
	Label      string // empty for an anonymous block
	StackDepth int
}

// ScopeStack is the stack of currently open blocks, outermost first.
type ScopeStack []Scope

// Push opens a new scope.
func (s *ScopeStack) Push(sc Scope) {
	*s = append(*s, sc)
}

// Pop closes the innermost open scope.
func (s *ScopeStack) Pop() (Scope, error) {
	n := len(*s)
	if n == 0 {
		return Scope{}, fmt.Errorf("end with no matching block")
	}
	sc := (*s)[n-1]
	*s = (*s)[:n-1]
	return sc, nil
}

// Snapshot returns an independent copy, for recording as an
// AnnotatedInstr's PreScopes so a later deferred split can replay the
// enclosing block structure.
func (s ScopeStack) Snapshot() []Scope {
	out := make([]Scope, len(s))
	copy(out, s)
	return out
}
