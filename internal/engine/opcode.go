package engine

// Opcode is the closed set of instructions the splitter understands.
// Any mnemonic outside this set is a fatal UnsupportedOpcode (spec.md
// section 4.1): the input is assumed type-correct, but it is not assumed
// to stay inside this enumerated subset.
type Opcode int

const (
	OpReturn Opcode = iota
	OpEnd
	OpBlock
	OpBr

	OpLocalGet
	OpLocalTee
	OpLocalSet
	OpDrop
	OpBrIf

	OpI32Load
	OpI32Load16U
	OpI32WrapI64
	OpI32Eqz

	OpI64Load
	OpI64Load32U
	OpI64ExtendI32U

	OpI32Const
	OpI64Const
	OpF32Const
	OpF64Const

	OpI32Mul
	OpI32Add
	OpI32Sub
	OpI32Eq
	OpI32Ne
	OpI32Shl
	OpI32Xor
	OpI32And
	OpI32GtU
	OpI32GtS
	OpI32LtU
	OpI32LtS
	OpI64GtU
	OpI64GtS
	OpI64LtU
	OpI64LtS
	OpI64Eq
	OpI64Ne
	OpF32Gt
	OpF64Gt

	OpI64Mul
	OpI64Add
	OpI64Sub
	OpI64Xor

	OpI32Store
	OpI32Store8
	OpI32Store16
	OpI64Store
)

// mnemonics maps every supported WAT opcode to its Opcode constant. This is
// the classifier table of spec.md section 4.1, shaped after the
// map[string]Info opcode tables used elsewhere in the retrieval pack for
// textual WAT (go-interpreter/wagon-style), narrowed to the enumerated
// subset this transform supports.
var mnemonics = map[string]Opcode{
	"return": OpReturn,
	"end":    OpEnd,
	"block":  OpBlock,
	"br":     OpBr,

	"local.get": OpLocalGet,
	"local.tee": OpLocalTee,
	"local.set": OpLocalSet,
	"drop":      OpDrop,
	"br_if":     OpBrIf,

	"i32.load":     OpI32Load,
	"i32.load16_u": OpI32Load16U,
	"i32.wrap_i64": OpI32WrapI64,
	"i32.eqz":      OpI32Eqz,

	"i64.load":        OpI64Load,
	"i64.load32_u":    OpI64Load32U,
	"i64.extend_i32_u": OpI64ExtendI32U,

	"i32.const": OpI32Const,
	"i64.const": OpI64Const,
	"f32.const": OpF32Const,
	"f64.const": OpF64Const,

	"i32.mul":  OpI32Mul,
	"i32.add":  OpI32Add,
	"i32.sub":  OpI32Sub,
	"i32.eq":   OpI32Eq,
	"i32.ne":   OpI32Ne,
	"i32.shl":  OpI32Shl,
	"i32.xor":  OpI32Xor,
	"i32.and":  OpI32And,
	"i32.gt_u": OpI32GtU,
	"i32.gt_s": OpI32GtS,
	"i32.lt_u": OpI32LtU,
	"i32.lt_s": OpI32LtS,
	"i64.gt_u": OpI64GtU,
	"i64.gt_s": OpI64GtS,
	"i64.lt_u": OpI64LtU,
	"i64.lt_s": OpI64LtS,
	"i64.eq":   OpI64Eq,
	"i64.ne":   OpI64Ne,
	"f32.gt":   OpF32Gt,
	"f64.gt":   OpF64Gt,

	"i64.mul": OpI64Mul,
	"i64.add": OpI64Add,
	"i64.sub": OpI64Sub,
	"i64.xor": OpI64Xor,

	"i32.store":   OpI32Store,
	"i32.store8":  OpI32Store8,
	"i32.store16": OpI32Store16,
	"i64.store":   OpI64Store,
}

// Classify maps a verbatim opcode mnemonic to its Opcode. ok is false for
// any mnemonic outside the enumerated supported subset.
func Classify(mnemonic string) (Opcode, bool) {
	op, ok := mnemonics[mnemonic]
	return op, ok
}

// IsMemoryOp reports whether op is a load or store this splitter may need
// to chop a microtransaction boundary around.
func IsMemoryOp(op Opcode) bool {
	switch op {
	case OpI32Load, OpI32Load16U, OpI64Load, OpI64Load32U,
		OpI32Store, OpI32Store8, OpI32Store16, OpI64Store:
		return true
	default:
		return false
	}
}
