// Package wat holds the WAT-source-level AST that the splitter consumes.
//
// Parsing WAT text into this AST, and re-emitting passthrough module
// members, are the "external collaborator" concerns spec.md section 1
// declares out of scope for the core transform — this package exists so the
// module is runnable end to end, grounded on the tokenizer/parser shape used
// elsewhere in the retrieval pack for WAT text (go-interpreter/wagon,
// wippyai/wasm-runtime's wat package), simplified to the flat, already-
// desugared instruction stream spec.md assumes is handed to the splitter
// (real folded s-expression bodies are out of scope; every scenario in
// spec.md section 8 is written in the flat form this parser accepts).
package wat

import "github.com/wippyai/chop-up/internal/types"

// Instr is one decoded instruction: its opcode mnemonic, its verbatim
// source text (mnemonic plus any immediate), and its source byte offset.
// This is the "Instruction" of spec.md section 3, minus the stack/scope
// snapshots — those are attached by the abstract interpreter as it walks
// the sequence (internal/engine).
type Instr struct {
	Mnemonic string
	Text     string
	Label    string // block labels ($name), empty otherwise
	Offset   int
}

// Param is a named or positional parameter/local declaration.
type Param struct {
	Name string // empty if positional
	Type types.DataType
}

// Func is an extracted function: its identity, signature, and body.
type Func struct {
	Name      string
	Params    []Param
	Results   []types.DataType
	Locals    []Param
	Body      []Instr
	NameIsAST bool // true when the source gave the function an explicit $id
}

// Module is the parsed top-level structure: the functions, in source order,
// plus every other top-level field kept as verbatim passthrough text.
type Module struct {
	Funcs       []Func
	Passthrough []PassthroughMember
}

// PassthroughMember is a non-func top-level module field (type, import,
// memory, table, global, export, data, start, …) that the transform copies
// into the output unchanged, exactly as transform.rs does by slicing the
// original source at the field's recorded byte offset rather than
// re-serializing it.
type PassthroughMember struct {
	Text   string
	Offset int
}
