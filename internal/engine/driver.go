package engine

import (
	"fmt"

	"github.com/wippyai/chop-up/internal/emit"
	"github.com/wippyai/chop-up/internal/wat"
)

// Split runs the whole fixed-point split driver for one function (spec.md
// section 4.6): functions the ignore predicate rejects pass through
// untouched; everything else is annotated, walked, and — as long as the
// walk keeps handing back DeferredSplits — resumed, one microtransaction at
// a time, until the queue runs dry.
func Split(em *emit.Emitter, table *MicrotransactionTable, fn *wat.Func, skipSafeSplits bool) error {
	if wat.Ignore(*fn) {
		emitVerbatim(em, fn)
		return nil
	}

	shape := NewFuncShape(fn)
	localRefs := LocalRefs(fn)
	table.RecordEntry(fn.Name)

	annotated, err := Annotate(fn)
	if err != nil {
		return err
	}

	EmitSignature(em, fn.Name, shape)
	EmitLocals(em, localRefs)

	queue, err := WalkAnnotated(em, table, fn.Name, fn.Name, annotated, shape, localRefs, 0, skipSafeSplits)
	if err != nil {
		return err
	}

	splitCount := 1
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]

		more, err := Resume(em, table, next, splitCount, skipSafeSplits)
		if err != nil {
			return err
		}
		queue = append(queue, more...)
		splitCount++
	}

	return nil
}

// emitVerbatim reproduces an ignored function exactly as it appeared,
// skipping the renaming/injection that only applies to transformed
// functions (spec.md section 4.7).
func emitVerbatim(em *emit.Emitter, fn *wat.Func) {
	line := "(func $" + fn.Name
	for _, p := range fn.Params {
		if p.Name != "" {
			line += fmt.Sprintf(" (param $%s %s)", p.Name, p.Type)
		} else {
			line += fmt.Sprintf(" (param %s)", p.Type)
		}
	}
	for _, r := range fn.Results {
		line += fmt.Sprintf(" (result %s)", r)
	}
	em.RawLine(line, 0, "")
	em.CurrentScopeLevel = 1

	for _, l := range fn.Locals {
		if l.Name != "" {
			em.Line(fmt.Sprintf("(local $%s %s)", l.Name, l.Type), "")
		} else {
			em.Line(fmt.Sprintf("(local %s)", l.Type), "")
		}
	}

	level := 1
	for _, instr := range fn.Body {
		switch instr.Mnemonic {
		case "end":
			level--
			em.CurrentScopeLevel = level
			em.Line(instr.Text, "")
		case "block", "loop", "if":
			em.CurrentScopeLevel = level
			em.Line(instr.Text, "")
			level++
		default:
			em.CurrentScopeLevel = level
			em.Line(instr.Text, "")
		}
	}

	em.CurrentScopeLevel = 0
	em.Line(")", "")
}
