package engine

import (
	"github.com/wippyai/chop-up/errors"
	"github.com/wippyai/chop-up/internal/types"
	"github.com/wippyai/chop-up/internal/wat"
)

// AnnotatedInstr pairs a decoded instruction with a snapshot of the
// abstract operand stack and scope stack taken immediately before its
// effect is applied (spec.md section 3). These snapshots are what later
// drives split decisions, save/restore emission, and indentation — the
// emission pass (walk.go) never re-derives stack state, it only reads what
// Annotate already computed.
type AnnotatedInstr struct {
	Instr     wat.Instr
	PreStack  []types.StackValue
	PreScopes []Scope
}

// Annotate is the abstract interpreter (spec.md section 4.2): a single
// forward pass over a function's body that, for every instruction, records
// the stack/scope state immediately before that instruction and then
// applies its StackEffect (plus Block/End scope bookkeeping) to advance
// state for the next one.
func Annotate(fn *wat.Func) ([]AnnotatedInstr, error) {
	localTypes := LocalTypes(fn)

	var stack AbstractStack
	var scopes ScopeStack
	out := make([]AnnotatedInstr, 0, len(fn.Body))

	for _, instr := range fn.Body {
		annotated := AnnotatedInstr{
			Instr:     instr,
			PreStack:  stack.Snapshot(),
			PreScopes: scopes.Snapshot(),
		}

		op, ok := Classify(instr.Mnemonic)
		if !ok {
			return nil, errors.UnsupportedOpcode(fn.Name, instr.Offset, instr.Mnemonic)
		}

		eff, err := EffectFor(instr, localTypes)
		if err != nil {
			return nil, errors.UnbalancedStack(fn.Name, instr.Offset, err.Error())
		}
		if err := stack.Apply(eff); err != nil {
			return nil, errors.UnbalancedStack(fn.Name, instr.Offset, err.Error())
		}

		switch op {
		case OpBlock:
			scopes.Push(Scope{Label: instr.Label, StackDepth: stack.Len()})
		case OpEnd:
			if _, err := scopes.Pop(); err != nil {
				return nil, errors.UnbalancedScope(fn.Name, instr.Offset, err.Error())
			}
		}

		if n := len(scopes); n > 0 && stack.Len() < scopes[n-1].StackDepth {
			return nil, errors.UnbalancedStack(fn.Name, instr.Offset, "stack underflows enclosing scope")
		}

		out = append(out, annotated)
	}

	return out, nil
}
