package engine

import (
	"fmt"

	"github.com/wippyai/chop-up/errors"
	"github.com/wippyai/chop-up/internal/emit"
	"github.com/wippyai/chop-up/internal/types"
)

// setupSplit is the pre-split emitter plus the scope-exiting special case
// of the split driver (spec.md sections 4.4 and 4.6): it emits the
// culprit-specific prologue and common suspension tail, enqueues (or
// deduplicates) the DeferredSplit for the culprit's continuation, and then
// either closes the current function — the culprit was not inside any open
// Block — or emits a `return` and keeps emitting the function's post-scope
// tail as the same microtransaction: a `return` exits the whole function
// regardless of block nesting, but the enclosing block's `end` (and
// anything after it) still needs well-formed, balanced text, so that
// unreachable tail is walked too.
func setupSplit(
	em *emit.Emitter,
	table *MicrotransactionTable,
	baseName string,
	rootName string,
	splitCount int,
	culprit AnnotatedInstr,
	op MemOp,
	remaining []AnnotatedInstr,
	shape *FuncShape,
	localRefs []LocalRef,
	skipSafeSplits bool,
) ([]*DeferredSplit, error) {
	var deferred []*DeferredSplit

	newSplit, err := emitPreSplit(em, table, baseName, rootName, splitCount, culprit, op, remaining, shape, localRefs)
	if err != nil {
		return nil, err
	}
	if newSplit != nil {
		deferred = append(deferred, newSplit)
	}

	if len(culprit.PreScopes) == 0 {
		em.CurrentScopeLevel = 0
		em.Line(")", "")
		return deferred, nil
	}

	em.Line("return", "")

	scopeEnd, err := indexOfScopeEnd(remaining)
	if err != nil {
		return nil, errors.UnbalancedScope(baseName, culprit.Instr.Offset, err.Error())
	}
	tailSplits, err := WalkAnnotated(em, table, baseName, rootName, remaining[scopeEnd:], shape, localRefs, splitCount+1, skipSafeSplits)
	if err != nil {
		return nil, err
	}
	deferred = append(deferred, tailSplits...)
	return deferred, nil
}

// emitPreSplit emits the culprit-specific prologue and the common
// suspension tail (spec.md section 4.4), then either reuses an existing
// MicrotransactionTable entry for this culprit's source offset or
// registers a new one and returns its DeferredSplit.
func emitPreSplit(
	em *emit.Emitter,
	table *MicrotransactionTable,
	baseName string,
	rootName string,
	splitCount int,
	culprit AnnotatedInstr,
	op MemOp,
	remaining []AnnotatedInstr,
	shape *FuncShape,
	localRefs []LocalRef,
) (*DeferredSplit, error) {
	stack := AbstractStack(append([]types.StackValue(nil), culprit.PreStack...))

	switch op.Kind {
	case MemLoad:
		if _, err := stack.Pop(); err != nil {
			return nil, errors.UnbalancedStack(baseName, culprit.Instr.Offset, err.Error())
		}
		em.Line("local.set $"+addressLocal, "Save address for load")
		em.Line("local.get $"+utxLocal, "")
		em.Line("local.get $"+addressLocal, "")
		em.Line(fmt.Sprintf("i32.const %d", op.Offset), "Convert offset to value")
		em.Line("i32.add", "")
		em.Line("i32.store", "")
	case MemStore:
		// The value was pushed after the address, so it pops first.
		if _, err := stack.Pop(); err != nil {
			return nil, errors.UnbalancedStack(baseName, culprit.Instr.Offset, err.Error())
		}
		if _, err := stack.Pop(); err != nil {
			return nil, errors.UnbalancedStack(baseName, culprit.Instr.Offset, err.Error())
		}
		juggler := jugglerLocal(op.Type)
		em.Line("local.set $"+juggler, "Save value for store")
		em.Line("local.set $"+addressLocal, "Save address for store")
		em.Line("local.get $"+stateLocal, "")
		em.Line("local.get $"+juggler, "")
		em.Line(op.Type.String()+".store", "")
		em.Line("local.get $"+utxLocal, "")
		em.Line("local.get $"+addressLocal, "")
		em.Line(fmt.Sprintf("i32.const %d", op.Offset), "Convert offset to value")
		em.Line("i32.add", "")
		em.Line("i32.store", "")
	}

	em.Line("local.get $"+utxLocal, "Save naddr = 1")
	em.Line("i32.const 1", "")
	em.Line(fmt.Sprintf("i32.store8 offset=%d", utxFlagOff), "")

	stackStart := 0
	if n := len(culprit.PreScopes); n > 0 {
		stackStart = culprit.PreScopes[n-1].StackDepth
	}
	if stackStart > len(stack) {
		stackStart = len(stack)
	}

	offset := utxDataBase
	for i := len(stack) - 1; i >= stackStart; i-- {
		v := stack[i]
		juggler := jugglerLocal(v.Type)
		em.Line("local.set $"+juggler, "")
		em.Line("local.get $"+utxLocal, "")
		em.Line("local.get $"+juggler, "")
		em.Line(fmt.Sprintf("%s.store offset=%d", v.Type.String(), offset), "")
		offset += v.Type.Size()
	}
	for _, ref := range localRefs {
		em.Line("local.get $"+utxLocal, "")
		em.Line("local.get "+ref.Text(), "")
		em.Line(fmt.Sprintf("%s.store offset=%d", ref.Type.String(), offset), "")
		offset += ref.Type.Size()
	}

	existingIndex, exists := table.Lookup(culprit.Instr.Offset)
	index := existingIndex
	if !exists {
		index = table.Len() // position the new entry will occupy
	}
	em.Line(fmt.Sprintf("i32.const %d", index+1), "Return index to next microtransaction")

	if exists {
		return nil, nil
	}

	name := fmt.Sprintf("%s_%d", rootName, splitCount+1)
	table.Append(culprit.Instr.Offset, name)

	return &DeferredSplit{
		Name:         name,
		BaseName:     rootName,
		Shape:        shape,
		Culprit:      op,
		Instructions: remaining,
		Stack:        stack,
		Scopes:       culprit.PreScopes,
		LocalRefs:    localRefs,
	}, nil
}
