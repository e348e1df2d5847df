package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wippyai/chop-up/internal/types"
	"github.com/wippyai/chop-up/internal/wat"
)

// StackEffect describes how one instruction transforms the abstract stack:
// how many values it pops, what (if anything) it pushes, and whether safety
// survives the operation. This is the Go shape of the original transform's
// StackEffect::from_wast_instruction / update_stack pair (spec.md section
// 4.1): safety never crosses a binary operator, but — faithfully
// reproduced here rather than "corrected" — it does cross i32.load,
// i32.load16_u, i32.eqz and i32.wrap_i64, while the i64-producing loads and
// i64.extend_i32_u do not carry it forward. local.tee is likewise a
// stack no-op in the source grammar this was built from: it neither pops
// nor pushes, relying on the fact that tee leaves the same value on top it
// found there.
type StackEffect struct {
	// Return clears the abstract stack entirely (a bare `return`).
	Return bool
	// RemoveN is how many values this instruction pops.
	RemoveN int
	// Push is the type of value pushed, or nil if nothing is pushed.
	Push *types.DataType
	// PreservesSafety ORs the popped value's safety into the pushed
	// value's safety. Only meaningful when RemoveN == 1.
	PreservesSafety bool
	// PushSafe is the baseline safety baked into the pushed value before
	// PreservesSafety is applied — used by local.get, where safety comes
	// from the referenced local rather than from anything popped.
	PushSafe bool
}

var (
	typeI32 = types.I32
	typeI64 = types.I64
	typeF32 = types.F32
	typeF64 = types.F64
)

// staticEffects holds every supported opcode whose effect depends only on
// the mnemonic, not on its immediate. local.get is handled separately since
// its pushed type and safety depend on which local it names.
var staticEffects = map[Opcode]StackEffect{
	OpReturn: {Return: true},

	// block/end/br/local.tee are stack no-ops: scope bookkeeping for
	// block/end is driven by the scope stack, not by abstract-stack
	// popping, and local.tee's pop-then-push-same-value nets to nothing.
	OpBlock:    {},
	OpEnd:      {},
	OpBr:       {},
	OpLocalTee: {},

	OpDrop: {RemoveN: 1},
	OpBrIf: {RemoveN: 1},

	OpI64Load:       {RemoveN: 1, Push: &typeI64},
	OpI64Load32U:    {RemoveN: 1, Push: &typeI64},
	OpI64ExtendI32U: {RemoveN: 1, Push: &typeI64},

	OpI32WrapI64: {RemoveN: 1, Push: &typeI32, PreservesSafety: true},
	OpI32Load:    {RemoveN: 1, Push: &typeI32, PreservesSafety: true},
	OpI32Load16U: {RemoveN: 1, Push: &typeI32, PreservesSafety: true},
	OpI32Eqz:     {RemoveN: 1, Push: &typeI32, PreservesSafety: true},

	OpI32Const: {Push: &typeI32},
	OpI64Const: {Push: &typeI64},
	OpF32Const: {Push: &typeF32},
	OpF64Const: {Push: &typeF64},

	OpI32Mul: {RemoveN: 2, Push: &typeI32},
	OpI32Add: {RemoveN: 2, Push: &typeI32},
	OpI32Sub: {RemoveN: 2, Push: &typeI32},
	OpI32Eq:  {RemoveN: 2, Push: &typeI32},
	OpI32Ne:  {RemoveN: 2, Push: &typeI32},
	OpI32Shl: {RemoveN: 2, Push: &typeI32},
	OpI32Xor: {RemoveN: 2, Push: &typeI32},
	OpI32And: {RemoveN: 2, Push: &typeI32},
	OpI32GtU: {RemoveN: 2, Push: &typeI32},
	OpI32GtS: {RemoveN: 2, Push: &typeI32},
	OpI32LtU: {RemoveN: 2, Push: &typeI32},
	OpI32LtS: {RemoveN: 2, Push: &typeI32},
	OpI64GtU: {RemoveN: 2, Push: &typeI32},
	OpI64GtS: {RemoveN: 2, Push: &typeI32},
	OpI64LtU: {RemoveN: 2, Push: &typeI32},
	OpI64LtS: {RemoveN: 2, Push: &typeI32},
	OpI64Eq:  {RemoveN: 2, Push: &typeI32},
	OpI64Ne:  {RemoveN: 2, Push: &typeI32},
	OpF32Gt:  {RemoveN: 2, Push: &typeI32},
	OpF64Gt:  {RemoveN: 2, Push: &typeI32},

	OpI64Mul: {RemoveN: 2, Push: &typeI64},
	OpI64Add: {RemoveN: 2, Push: &typeI64},
	OpI64Sub: {RemoveN: 2, Push: &typeI64},
	OpI64Xor: {RemoveN: 2, Push: &typeI64},

	OpI32Store:   {RemoveN: 2},
	OpI32Store8:  {RemoveN: 2},
	OpI32Store16: {RemoveN: 2},
	OpI64Store:   {RemoveN: 2},
}

// EffectFor resolves the StackEffect of instr. localTypes is the function's
// combined local-index lookup as built by LocalTypes, needed only for
// numeric local.get immediates at index >= 3.
func EffectFor(instr wat.Instr, localTypes []types.DataType) (StackEffect, error) {
	op, ok := Classify(instr.Mnemonic)
	if !ok {
		return StackEffect{}, fmt.Errorf("unsupported opcode %q", instr.Mnemonic)
	}

	if op == OpLocalGet {
		return localGetEffect(instr, localTypes)
	}

	eff, ok := staticEffects[op]
	if !ok {
		return StackEffect{}, fmt.Errorf("no stack effect registered for %q", instr.Mnemonic)
	}
	return eff, nil
}

// localGetEffect resolves local.get's pushed type and safety. Numeric
// indices below 3 are the virtually-prefixed tx/state/culprit parameters
// spec.md section 4.1 assumes every function leads with: they always
// resolve to a safe i32 regardless of how the function actually declares
// its first three parameters. Index 3 and above resolve against localTypes.
// A named ($id) local.get always defaults to i32, with safety derived
// solely from whether the name is "tx" or "state".
func localGetEffect(instr wat.Instr, localTypes []types.DataType) (StackEffect, error) {
	imm := immediate(instr.Text)
	if imm == "" {
		return StackEffect{}, fmt.Errorf("local.get at offset %d missing an index", instr.Offset)
	}

	if strings.HasPrefix(imm, "$") {
		name := strings.TrimPrefix(imm, "$")
		return StackEffect{Push: &typeI32, PushSafe: name == "tx" || name == "state"}, nil
	}

	idx, err := strconv.Atoi(imm)
	if err != nil {
		return StackEffect{}, fmt.Errorf("local.get at offset %d has malformed index %q", instr.Offset, imm)
	}
	if idx < 3 {
		return StackEffect{Push: &typeI32, PushSafe: true}, nil
	}
	pos := idx - 3
	if pos >= len(localTypes) {
		return StackEffect{}, fmt.Errorf("local.get at offset %d references out-of-range index %d", instr.Offset, idx)
	}
	ty := localTypes[pos]
	return StackEffect{Push: &ty, PushSafe: false}, nil
}

// immediate returns the second whitespace-separated field of an
// instruction's verbatim text, or "" if it has none.
func immediate(text string) string {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return ""
	}
	return fields[1]
}
