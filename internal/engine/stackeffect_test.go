package engine

import (
	"testing"

	"github.com/wippyai/chop-up/internal/types"
	"github.com/wippyai/chop-up/internal/wat"
)

func TestEffectForSafetyPropagation(t *testing.T) {
	tests := []struct {
		name          string
		mnemonic      string
		wantPreserves bool
		wantRemoveN   int
		wantPush      *types.DataType
	}{
		{"i32.load preserves safety", "i32.load", true, 1, &typeI32},
		{"i32.load16_u preserves safety", "i32.load16_u", true, 1, &typeI32},
		{"i32.eqz preserves safety", "i32.eqz", true, 1, &typeI32},
		{"i32.wrap_i64 preserves safety", "i32.wrap_i64", true, 1, &typeI32},
		{"i64.load does not preserve safety", "i64.load", false, 1, &typeI64},
		{"i64.load32_u does not preserve safety", "i64.load32_u", false, 1, &typeI64},
		{"i64.extend_i32_u does not preserve safety", "i64.extend_i32_u", false, 1, &typeI64},
		{"i32.add never preserves safety", "i32.add", false, 2, &typeI32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eff, err := EffectFor(wat.Instr{Mnemonic: tt.mnemonic, Text: tt.mnemonic}, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if eff.PreservesSafety != tt.wantPreserves {
				t.Errorf("PreservesSafety = %v, want %v", eff.PreservesSafety, tt.wantPreserves)
			}
			if eff.RemoveN != tt.wantRemoveN {
				t.Errorf("RemoveN = %d, want %d", eff.RemoveN, tt.wantRemoveN)
			}
			if (eff.Push == nil) != (tt.wantPush == nil) {
				t.Fatalf("Push nil-ness mismatch: got %v, want %v", eff.Push, tt.wantPush)
			}
			if eff.Push != nil && *eff.Push != *tt.wantPush {
				t.Errorf("Push = %v, want %v", *eff.Push, *tt.wantPush)
			}
		})
	}
}

func TestLocalTeeIsStackNoOp(t *testing.T) {
	eff, err := EffectFor(wat.Instr{Mnemonic: "local.tee", Text: "local.tee 0"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if eff.RemoveN != 0 || eff.Push != nil {
		t.Errorf("local.tee should be a no-op, got RemoveN=%d Push=%v", eff.RemoveN, eff.Push)
	}
}

func TestLocalGetSafety(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantSafe bool
	}{
		{"index 0 is safe (utx)", "local.get 0", true},
		{"index 1 is safe (state)", "local.get 1", true},
		{"index 2 is safe (third reserved param)", "local.get 2", true},
		{"index 3 is not safe", "local.get 3", false},
		{"named $tx is safe", "local.get $tx", true},
		{"named $state is safe", "local.get $state", true},
		{"named $other is not safe", "local.get $other", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eff, err := EffectFor(wat.Instr{Mnemonic: "local.get", Text: tt.text}, []types.DataType{types.I32, types.I64})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if eff.PushSafe != tt.wantSafe {
				t.Errorf("PushSafe = %v, want %v", eff.PushSafe, tt.wantSafe)
			}
		})
	}
}

func TestEffectForUnsupportedOpcode(t *testing.T) {
	if _, err := EffectFor(wat.Instr{Mnemonic: "f32.add", Text: "f32.add"}, nil); err == nil {
		t.Fatal("expected an error for an unsupported opcode")
	}
}
