// Package analysis provides the minimal module-introspection the Rust
// original's module_analysis::print_accessors pass offered (spec.md section
// 1 keeps a full accessor-pattern analysis out of scope) — reporting which
// functions the ignore predicate passes through unchanged.
package analysis

import "github.com/wippyai/chop-up/internal/wat"

// ListIgnored reports the names, in source order, of every function in mod
// that the ignore predicate (spec.md section 4.7) passes through unchanged
// rather than splitting.
func ListIgnored(mod *wat.Module) []string {
	var out []string
	for _, fn := range mod.Funcs {
		if wat.Ignore(fn) {
			out = append(out, fn.Name)
		}
	}
	return out
}
