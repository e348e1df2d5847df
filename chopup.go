// Package chopup implements the microtransaction splitter: a WAT-to-WAT
// source transform that rewrites functions operating on persisted
// transaction/state records so that every memory access that might trap on
// an unpaged address becomes its own resumable continuation (spec.md
// section 1).
//
// The pipeline is parse (internal/wat) -> split (internal/engine) -> emit
// (internal/emit), orchestrated here the way the teacher pack's own runtime
// façade sequences parse/validate/execute behind a single entry point.
package chopup

import (
	"io"
	"sort"

	"go.uber.org/zap"

	"github.com/wippyai/chop-up/errors"
	"github.com/wippyai/chop-up/internal/emit"
	"github.com/wippyai/chop-up/internal/engine"
	"github.com/wippyai/chop-up/internal/prettyprint"
	"github.com/wippyai/chop-up/internal/wat"
)

// Config controls optional transform behavior.
type Config struct {
	// SkipSafeSplits elides a split when the abstract interpreter can prove
	// the access is already safe (spec.md section 4.3).
	SkipSafeSplits bool
	// Explain annotates emitted lines with trailing ";; " comments
	// describing what each emitted block does.
	Explain bool
}

// Transform parses src as a single WAT module, splits every eligible
// function into microtransactions, and writes the resulting module to w.
func Transform(src string, w io.Writer, cfg Config) error {
	return TransformLogged(src, w, cfg, zap.NewNop())
}

// TransformLogged is Transform plus one Info line per split function (name,
// microtransaction count) and one Warn line per function the ignore
// predicate passed through untouched — the level of detail the teacher's
// linker logs for module wiring.
func TransformLogged(src string, w io.Writer, cfg Config, logger *zap.Logger) error {
	mod, err := wat.Parse(src)
	if err != nil {
		return err
	}

	em := emit.New(w, cfg.Explain)
	em.RawLine("(module", 0, "")
	em.CurrentScopeLevel = 1

	table := &engine.MicrotransactionTable{}
	for i := range mod.Funcs {
		fn := &mod.Funcs[i]
		if wat.Ignore(*fn) {
			logger.Warn("passthrough function", zap.String("func", fn.Name))
			if err := engine.Split(em, table, fn, cfg.SkipSafeSplits); err != nil {
				return err
			}
			continue
		}

		before := table.Len()
		if err := engine.Split(em, table, fn, cfg.SkipSafeSplits); err != nil {
			return err
		}
		logger.Info("split function", zap.String("func", fn.Name), zap.Int("microtransactions", table.Len()-before))
	}

	members := append([]wat.PassthroughMember(nil), mod.Passthrough...)
	sort.Slice(members, func(i, j int) bool { return members[i].Offset < members[j].Offset })
	for _, m := range members {
		em.RawLine(m.Text, 1, "")
	}

	em.CurrentScopeLevel = 0
	em.RawLine(")", 0, "")

	if err := em.Err(); err != nil {
		return errors.IO("writing transformed module", err)
	}
	return nil
}

// PrettyPrint parses src and writes a styled dump of its functions to w,
// gated by colorEnabled (spec.md section 5's supplemented `-p` feature).
func PrettyPrint(src string, w io.Writer, colorEnabled bool) error {
	mod, err := wat.Parse(src)
	if err != nil {
		return err
	}
	prettyprint.Dump(w, mod, colorEnabled)
	return nil
}
