// Package types holds the value-type and abstract-stack vocabulary shared by
// the WAT extractor and the splitting engine.
package types

// DataType is one of the four WebAssembly MVP numeric value types.
type DataType byte

const (
	I32 DataType = iota
	I64
	F32
	F64
)

// String returns the WAT mnemonic for the type ("i32", "i64", "f32", "f64").
func (d DataType) String() string {
	switch d {
	case I32:
		return "i32"
	case I64:
		return "i64"
	case F32:
		return "f32"
	case F64:
		return "f64"
	default:
		return "unknown"
	}
}

// Size returns the byte width of the type's typed memory slot.
func (d DataType) Size() int {
	switch d {
	case I32, F32:
		return 4
	case I64, F64:
		return 8
	default:
		return 4
	}
}

// ParseDataType maps a WAT type mnemonic to a DataType. ok is false for any
// mnemonic outside {i32, i64, f32, f64}.
func ParseDataType(mnemonic string) (DataType, bool) {
	switch mnemonic {
	case "i32":
		return I32, true
	case "i64":
		return I64, true
	case "f32":
		return F32, true
	case "f64":
		return F64, true
	default:
		return 0, false
	}
}

// StackValue is a typed abstract-stack slot together with its safety tag.
//
// Safe is monotonic: once a value is known to be derived (transitively,
// through safety-preserving unary ops) from one of the first three function
// parameters or a local named "tx"/"state", it stays safe. Safety never
// flows across a binary operator.
type StackValue struct {
	Type DataType
	Safe bool
}
