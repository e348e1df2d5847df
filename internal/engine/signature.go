package engine

import (
	"fmt"

	"github.com/wippyai/chop-up/internal/emit"
	"github.com/wippyai/chop-up/internal/types"
	"github.com/wippyai/chop-up/internal/wat"
)

// FuncShape is the part of a transformed function's signature that every
// microtransaction split off from it shares: its parameter list (with the
// first two renamed to the conventional $utx/$state regardless of what the
// source called them) and its single I32 result (spec.md sections 4.5(a)
// and 6).
type FuncShape struct {
	Params  []wat.Param
	Results []types.DataType
}

// NewFuncShape builds a FuncShape from an extracted, non-ignored function.
func NewFuncShape(fn *wat.Func) *FuncShape {
	return &FuncShape{Params: fn.Params, Results: fn.Results}
}

// EmitSignature writes a function's opening "(func $name (param ...) ...
// (result ...)" line, under the given name — the original top-level
// function's own name for its entry microtransaction, or a synthetic
// `<fn>_<n>` name for a deferred continuation.
func EmitSignature(em *emit.Emitter, name string, shape *FuncShape) {
	line := "(func $" + name
	for i, p := range shape.Params {
		pname := p.Name
		switch i {
		case 0:
			pname = utxLocal
		case 1:
			pname = stateLocal
		}
		if pname != "" {
			line += fmt.Sprintf(" (param $%s %s)", pname, p.Type)
		} else {
			line += fmt.Sprintf(" (param %s)", p.Type)
		}
	}
	for _, r := range shape.Results {
		line += fmt.Sprintf(" (result %s)", r)
	}
	em.RawLine(line, 0, "")
	em.CurrentScopeLevel = 1
}

// reservedLocals are injected into every transformed function's local
// declaration list whether or not the source declared them (spec.md
// section 9, "Open question — reserved local slots").
var reservedLocals = []LocalRef{
	{Name: addressLocal, Type: types.I32},
	{Name: "i32_juggler", Type: types.I32},
	{Name: "i64_juggler", Type: types.I64},
	{Name: "f32_juggler", Type: types.F32},
	{Name: "f64_juggler", Type: types.F64},
}

// EmitLocals writes one "(local $name type)" line per declared local,
// followed by the reserved address/juggler locals every transformed
// function needs regardless of whether a split ever uses them. Declaring
// the reserved locals last keeps the function's own locals at their source
// indices, so numeric local.get/local.set immediates stay valid.
func EmitLocals(em *emit.Emitter, localRefs []LocalRef) {
	for _, r := range localRefs {
		if r.Name != "" {
			em.Line(fmt.Sprintf("(local $%s %s)", r.Name, r.Type), "")
		} else {
			em.Line(fmt.Sprintf("(local %s)", r.Type), "")
		}
	}
	for _, r := range reservedLocals {
		em.Line(fmt.Sprintf("(local $%s %s)", r.Name, r.Type), "")
	}
}
