package engine

import (
	"fmt"

	"github.com/wippyai/chop-up/errors"
	"github.com/wippyai/chop-up/internal/emit"
	"github.com/wippyai/chop-up/internal/wat"
)

// WalkAnnotated is the emission pass over an already-annotated instruction
// sequence (spec.md sections 4.4 and 4.6): it emits ordinary instructions
// verbatim, special-cases Block/End/Return, and — on a memory op that
// needs a split — hands off to setupSplit and returns immediately with
// whatever DeferredSplits that produced. It never re-derives stack state:
// every decision reads the PreStack/PreScopes snapshots Annotate already
// computed. baseName identifies the function currently being walked, for
// error reporting; rootName is the original top-level function's own name,
// which every split discovered along the way is named after (spec.md
// section 3: "<base_function_name>_<n>"), regardless of how many
// generations of resumption led here.
func WalkAnnotated(
	em *emit.Emitter,
	table *MicrotransactionTable,
	baseName string,
	rootName string,
	instrs []AnnotatedInstr,
	shape *FuncShape,
	localRefs []LocalRef,
	splitCount int,
	skipSafeSplits bool,
) ([]*DeferredSplit, error) {
	for i, a := range instrs {
		op, ok := Classify(a.Instr.Mnemonic)
		if !ok {
			return nil, errors.UnsupportedOpcode(baseName, a.Instr.Offset, a.Instr.Mnemonic)
		}

		if IsMemoryOp(op) {
			offset, err := wat.MemargOffset(a.Instr.Text)
			if err != nil {
				return nil, errors.UnbalancedStack(baseName, a.Instr.Offset, err.Error())
			}
			memOp, _ := ClassifyMemOp(op, offset)
			needs, err := NeedsSplit(memOp, a.PreStack, skipSafeSplits)
			if err != nil {
				return nil, errors.UnbalancedStack(baseName, a.Instr.Offset, err.Error())
			}
			if needs {
				return setupSplit(em, table, baseName, rootName, splitCount, a, memOp, instrs[i+1:], shape, localRefs, skipSafeSplits)
			}
		}

		em.CurrentScopeLevel = len(a.PreScopes)

		switch op {
		case OpBlock:
			em.Line(blockOpenLine(a.Instr.Label), "")
		case OpEnd:
			if n := len(a.PreScopes); n > 0 {
				em.CurrentScopeLevel = n - 1
			}
			em.Line(")", "")
		case OpReturn:
			if len(a.PreStack) == 0 {
				em.Line("i32.const 0", "Return NULL")
			}
			em.Line(a.Instr.Text, "")
		default:
			em.Line(a.Instr.Text, "")
		}
	}

	em.CurrentScopeLevel = 0
	em.Line(")", "")
	return nil, nil
}

// blockOpenLine renders a block's opening line, preserving its label when
// it has one.
func blockOpenLine(label string) string {
	if label != "" {
		return "(block $" + label
	}
	return "(block"
}

// indexOfScopeEnd finds, within a suffix of instructions starting right
// after a culprit inside an open Block, the position of the `end` that
// closes that same block — accounting for any nested blocks opened along
// the way (spec.md section 4.6's "matching End").
func indexOfScopeEnd(instrs []AnnotatedInstr) (int, error) {
	level := 1
	for i, a := range instrs {
		op, ok := Classify(a.Instr.Mnemonic)
		if !ok {
			continue
		}
		switch op {
		case OpEnd:
			level--
		case OpBlock:
			level++
		}
		if level == 0 {
			return i, nil
		}
		if level < 0 {
			return 0, fmt.Errorf("unbalanced scope delimiters")
		}
	}
	return 0, fmt.Errorf("unbalanced scope delimiters")
}
