package wat

import (
	"testing"

	"github.com/wippyai/chop-up/internal/types"
)

func TestParseFunc(t *testing.T) {
	src := `(module (func $f (param i32 i32 i32) (result i32) local.get 0 i32.load return))`
	mod, err := Parse(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mod.Funcs) != 1 {
		t.Fatalf("expected 1 func, got %d", len(mod.Funcs))
	}
	fn := mod.Funcs[0]
	if fn.Name != "f" {
		t.Errorf("Name = %q, want %q", fn.Name, "f")
	}
	if len(fn.Params) != 3 {
		t.Fatalf("expected 3 params, got %d", len(fn.Params))
	}
	for _, p := range fn.Params {
		if p.Type != types.I32 {
			t.Errorf("param type = %v, want I32", p.Type)
		}
	}
	if len(fn.Results) != 1 || fn.Results[0] != types.I32 {
		t.Fatalf("unexpected results: %v", fn.Results)
	}

	wantMnemonics := []string{"local.get", "i32.load", "return"}
	if len(fn.Body) != len(wantMnemonics) {
		t.Fatalf("expected %d instructions, got %d", len(wantMnemonics), len(fn.Body))
	}
	for i, want := range wantMnemonics {
		if fn.Body[i].Mnemonic != want {
			t.Errorf("instr[%d].Mnemonic = %q, want %q", i, fn.Body[i].Mnemonic, want)
		}
	}
	if fn.Body[0].Text != "local.get 0" {
		t.Errorf("Body[0].Text = %q, want %q", fn.Body[0].Text, "local.get 0")
	}
}

func TestParsePassthroughMember(t *testing.T) {
	src := `(module (memory 1) (func $f (param i32 i32 i32) (result i32) local.get 0 i32.load return))`
	mod, err := Parse(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mod.Passthrough) != 1 {
		t.Fatalf("expected 1 passthrough member, got %d", len(mod.Passthrough))
	}
	if mod.Passthrough[0].Text != "(memory 1)" {
		t.Errorf("passthrough text = %q, want %q", mod.Passthrough[0].Text, "(memory 1)")
	}
}

func TestParseBlockLabel(t *testing.T) {
	src := `(module (func $f (param i32 i32 i32) (result i32) block $loop_body local.get 0 i32.load end return))`
	mod, err := Parse(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fn := mod.Funcs[0]
	if fn.Body[0].Mnemonic != "block" || fn.Body[0].Label != "loop_body" {
		t.Errorf("block instr = %+v, want label %q", fn.Body[0], "loop_body")
	}
}

func TestParseMalformed(t *testing.T) {
	if _, err := Parse(`(module (func $f`); err == nil {
		t.Fatal("expected an error for unterminated function")
	}
}

func TestMemargOffset(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"i32.load", 0},
		{"i32.load offset=4", 4},
		{"i32.store offset=63 align=1", 63},
	}
	for _, tt := range tests {
		got, err := MemargOffset(tt.text)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != tt.want {
			t.Errorf("MemargOffset(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}
