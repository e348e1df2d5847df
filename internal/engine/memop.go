package engine

import "github.com/wippyai/chop-up/internal/types"

// MemOpKind distinguishes a load from a store culprit.
type MemOpKind int

const (
	MemLoad MemOpKind = iota
	MemStore
)

// MemOp is a classified memory instruction: its direction, the data type it
// moves, and its static offset= immediate (spec.md section 3).
type MemOp struct {
	Kind   MemOpKind
	Type   types.DataType
	Offset int
}

// ClassifyMemOp recognizes a supported load/store opcode and resolves its
// MemOp, or ok=false if op is not a memory instruction.
func ClassifyMemOp(op Opcode, offset int) (MemOp, bool) {
	switch op {
	case OpI32Load:
		return MemOp{Kind: MemLoad, Type: types.I32, Offset: offset}, true
	case OpI32Load16U:
		return MemOp{Kind: MemLoad, Type: types.I32, Offset: offset}, true
	case OpI64Load:
		return MemOp{Kind: MemLoad, Type: types.I64, Offset: offset}, true
	case OpI64Load32U:
		return MemOp{Kind: MemLoad, Type: types.I64, Offset: offset}, true
	case OpI32Store:
		return MemOp{Kind: MemStore, Type: types.I32, Offset: offset}, true
	case OpI32Store8:
		return MemOp{Kind: MemStore, Type: types.I32, Offset: offset}, true
	case OpI32Store16:
		return MemOp{Kind: MemStore, Type: types.I32, Offset: offset}, true
	case OpI64Store:
		return MemOp{Kind: MemStore, Type: types.I64, Offset: offset}, true
	default:
		return MemOp{}, false
	}
}
