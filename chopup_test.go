package chopup

import (
	"strings"
	"testing"

	"github.com/wippyai/chop-up/errors"
)

// These mirror spec.md's testable scenarios S1-S6: a single load/store that
// either elides or forces a split, offset-safety propagation through
// arithmetic, multiple independent culprits, a split inside a nested block,
// and an unsupported opcode aborting the whole transform.

func TestTransformScenarios(t *testing.T) {
	tests := []struct {
		name        string
		src         string
		cfg         Config
		wantContain []string
		wantErr     bool
	}{
		{
			name: "S1_safe_load_elided_with_skip_safe",
			src:  `(module (func $f (param i32 i32 i32) (result i32) local.get 0 i32.load return))`,
			cfg:  Config{SkipSafeSplits: true},
			wantContain: []string{
				"(func $f",
				"i32.load",
				"return",
			},
		},
		{
			name: "S2_same_without_skip_safe_splits",
			src:  `(module (func $f (param i32 i32 i32) (result i32) local.get 0 i32.load return))`,
			cfg:  Config{SkipSafeSplits: false},
			wantContain: []string{
				"i32.store8 offset=63",
				"i32.const 1",
				"(func $f_1",
				"i32.load",
				"i32.load",
			},
		},
		{
			name: "S3_arithmetic_clears_safety_split_even_with_skip_safe",
			src:  `(module (func $f (param i32 i32 i32) (result i32) local.get 0 i32.const 4 i32.add i32.load return))`,
			cfg:  Config{SkipSafeSplits: true},
			wantContain: []string{
				"(func $f_1",
			},
		},
		{
			name: "S4_two_independent_culprits_two_table_entries",
			src: `(module (func $f (param i32 i32 i32) (result i32)
				local.get 0 i32.load
				local.get 0 i32.const 4 i32.add i32.load
				return))`,
			cfg: Config{SkipSafeSplits: false},
			wantContain: []string{
				"i32.const 2",
				"i32.const 3",
				"(func $f_1",
				"(func $f_2",
			},
		},
		{
			name: "S5_split_inside_block_then_tail_after_end",
			src: `(module (func $f (param i32 i32 i32) (result i32)
				block
				local.get 0 i32.load
				end
				i32.const 7
				return))`,
			cfg: Config{SkipSafeSplits: false},
			wantContain: []string{
				"(func $f_1",
				"i32.const 7",
			},
		},
		{
			name:    "S6_unsupported_opcode_aborts",
			src:     `(module (func $f (param i32 i32 i32) (result i32) local.get 0 f32.add return))`,
			cfg:     Config{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out strings.Builder
			err := Transform(tt.src, &out, tt.cfg)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got none; output:\n%s", out.String())
				}
				var e *errors.Error
				if !asError(err, &e) {
					t.Fatalf("expected *errors.Error, got %T: %v", err, err)
				}
				if e.Kind != errors.KindUnsupportedOpcode {
					t.Fatalf("expected KindUnsupportedOpcode, got %s", e.Kind)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			got := out.String()
			for _, want := range tt.wantContain {
				if !strings.Contains(got, want) {
					t.Errorf("output missing %q; full output:\n%s", want, got)
				}
			}
		})
	}
}

func asError(err error, target **errors.Error) bool {
	e, ok := err.(*errors.Error)
	if !ok {
		return false
	}
	*target = e
	return true
}
