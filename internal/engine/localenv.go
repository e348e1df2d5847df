package engine

import (
	"strconv"

	"github.com/wippyai/chop-up/internal/types"
	"github.com/wippyai/chop-up/internal/wat"
)

// LocalRef is a concrete reference to one function local (beyond the first
// three virtually-prefixed parameters): its wasm-level index, its source
// name if it was declared with one, and its type.
type LocalRef struct {
	Index int
	Name  string
	Type  types.DataType
}

// Text renders the reference as it should appear in a local.get/local.set
// immediate: "$name" if named, else the bare numeric index.
func (r LocalRef) Text() string {
	if r.Name != "" {
		return "$" + r.Name
	}
	return strconv.Itoa(r.Index)
}

// LocalRefs builds the ordered list of every local beyond the first three
// virtually-prefixed parameters: the function's remaining declared
// parameters followed by its declared locals, each carrying its real
// wasm-level index. This is what the pre-split/post-split emitters walk to
// save and restore a microtransaction's locals across a split boundary
// (spec.md section 4.4/4.5).
func LocalRefs(fn *wat.Func) []LocalRef {
	var out []LocalRef
	idx := len(fn.Params)
	if len(fn.Params) > 3 {
		for i, p := range fn.Params[3:] {
			out = append(out, LocalRef{Index: 3 + i, Name: p.Name, Type: p.Type})
		}
	}
	for _, l := range fn.Locals {
		out = append(out, LocalRef{Index: idx, Name: l.Name, Type: l.Type})
		idx++
	}
	return out
}

// LocalTypes is LocalRefs narrowed to just the type sequence, used by
// EffectFor to resolve numeric local.get immediates at index >= 3 without
// needing the full reference.
func LocalTypes(fn *wat.Func) []types.DataType {
	refs := LocalRefs(fn)
	out := make([]types.DataType, len(refs))
	for i, r := range refs {
		out[i] = r.Type
	}
	return out
}
