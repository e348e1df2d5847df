package wat

import "github.com/wippyai/chop-up/internal/types"

// Ignore reports whether fn should pass through untouched rather than be
// split into microtransactions (spec.md section 4.7). The predicate is
// conservative: a function is only transformed when its signature matches
// the expected microtransaction shape of `(utx: i32, state: i32, …) -> i32`
// — at least three parameters whose first three types are I32, returning a
// single I32. Any richer or narrower signature is treated as passthrough
// rather than an error.
func Ignore(fn Func) bool {
	if len(fn.Params) < 3 {
		return true
	}
	for _, p := range fn.Params[:3] {
		if p.Type != types.I32 {
			return true
		}
	}
	if len(fn.Results) != 1 || fn.Results[0] != types.I32 {
		return true
	}
	return false
}
