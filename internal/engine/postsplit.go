package engine

import (
	"fmt"

	"github.com/wippyai/chop-up/internal/emit"
	"github.com/wippyai/chop-up/internal/types"
)

// Resume emits one deferred microtransaction in full (spec.md section 4.5):
// its signature and locals, the restore phase that rebuilds the locals and
// operand stack the split saved, the replay of the culprit memory op itself
// against the saved utx/state values, and finally the resumption of
// WalkAnnotated over the instructions that follow the culprit.
func Resume(em *emit.Emitter, table *MicrotransactionTable, split *DeferredSplit, splitCount int, skipSafeSplits bool) ([]*DeferredSplit, error) {
	EmitSignature(em, split.Name, split.Shape)
	EmitLocals(em, split.LocalRefs)

	offsets := saveOffsets(split.Stack, stackStartFor(split.Scopes))
	localOffsets := localSaveOffsets(split.Stack, stackStartFor(split.Scopes), split.LocalRefs)

	restoreLocals(em, split.LocalRefs, localOffsets)

	stack := AbstractStack(nil)
	level := 1
	prevDepth := 0
	for _, sc := range split.Scopes {
		restoreStackRange(em, &stack, split.Stack, offsets, prevDepth, sc.StackDepth)
		em.CurrentScopeLevel = level
		em.Line(blockOpenLine(sc.Label), "")
		level++
		prevDepth = sc.StackDepth
	}
	restoreStackRange(em, &stack, split.Stack, offsets, prevDepth, len(split.Stack))
	em.CurrentScopeLevel = level

	replayCulprit(em, split.Culprit, &stack)

	return WalkAnnotated(em, table, split.Name, split.BaseName, split.Instructions, split.Shape, split.LocalRefs, splitCount, skipSafeSplits)
}

// stackStartFor is the abstract stack depth at the innermost open scope, or
// 0 at function-body level — the boundary emitPreSplit used to decide how
// much of the stack needed saving at all.
func stackStartFor(scopes []Scope) int {
	if n := len(scopes); n > 0 {
		return scopes[n-1].StackDepth
	}
	return 0
}

// saveOffsets recomputes the byte offset emitPreSplit assigned each saved
// stack slot, in the same top-down order it assigned them, so Resume can
// read each slot back without needing to have witnessed the original save.
func saveOffsets(stack []types.StackValue, stackStart int) map[int]int {
	offsets := make(map[int]int, len(stack))
	offset := utxDataBase
	for i := len(stack) - 1; i >= stackStart; i-- {
		offsets[i] = offset
		offset += stack[i].Type.Size()
	}
	return offsets
}

// localSaveOffsets continues the same running offset past the saved stack
// slots, one per LocalRef, matching emitPreSplit's serialization order.
func localSaveOffsets(stack []types.StackValue, stackStart int, localRefs []LocalRef) map[int]int {
	offset := utxDataBase
	for i := len(stack) - 1; i >= stackStart; i-- {
		offset += stack[i].Type.Size()
	}
	offsets := make(map[int]int, len(localRefs))
	for i, ref := range localRefs {
		offsets[i] = offset
		offset += ref.Type.Size()
	}
	return offsets
}

// restoreLocals reloads every saved local's value from the utx record back
// into its own local slot.
func restoreLocals(em *emit.Emitter, localRefs []LocalRef, offsets map[int]int) {
	for i, ref := range localRefs {
		em.Line("local.get $"+utxLocal, "")
		em.Line(fmt.Sprintf("%s.load offset=%d", ref.Type.String(), offsets[i]), "")
		em.Line("local.set "+ref.Text(), "")
	}
}

// restoreStackRange pushes saved stack slots from lo (inclusive) to hi
// (exclusive) back onto the operand stack, bottom first, mirroring
// emitPreSplit's top-first save order in reverse.
func restoreStackRange(em *emit.Emitter, stack *AbstractStack, saved []types.StackValue, offsets map[int]int, lo, hi int) {
	for i := lo; i < hi; i++ {
		v := saved[i]
		em.Line("local.get $"+utxLocal, "")
		em.Line(fmt.Sprintf("%s.load offset=%d", v.Type.String(), offsets[i]), "")
		stack.Push(v)
	}
}

// replayCulprit re-performs the memory op that forced the split, using the
// address and (for a store) value the prologue persisted into the utx and
// state records.
func replayCulprit(em *emit.Emitter, op MemOp, stack *AbstractStack) {
	em.Line("local.get $"+utxLocal, "")
	em.Line("i32.load", "Restore effective address")
	switch op.Kind {
	case MemLoad:
		em.Line(op.Type.String()+".load", "")
		stack.Push(types.StackValue{Type: op.Type, Safe: false})
	case MemStore:
		em.Line("local.get $"+stateLocal, "")
		em.Line(op.Type.String()+".load", "Restore saved value")
		em.Line(op.Type.String()+".store", "")
	}
}
