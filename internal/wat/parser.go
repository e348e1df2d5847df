package wat

import (
	"strconv"
	"strings"

	"github.com/wippyai/chop-up/errors"
	"github.com/wippyai/chop-up/internal/types"
)

// Parse tokenizes and parses a WAT source string containing a single module
// into the AST the splitter consumes.
func Parse(src string) (*Module, error) {
	toks := tokenize(src)
	p := &parser{src: src, toks: toks}
	return p.parseModule()
}

type parser struct {
	src  string
	toks []token
	pos  int
}

func (p *parser) peek() (token, bool) {
	if p.pos >= len(p.toks) {
		return token{}, false
	}
	return p.toks[p.pos], true
}

func (p *parser) next() (token, bool) {
	t, ok := p.peek()
	if ok {
		p.pos++
	}
	return t, ok
}

func (p *parser) expect(kind tokenKind) (token, error) {
	t, ok := p.next()
	if !ok || t.kind != kind {
		off := len(p.src)
		if ok {
			off = t.offset
		}
		return token{}, errors.Malformed(off, "unexpected end of input or token")
	}
	return t, nil
}

func (p *parser) parseModule() (*Module, error) {
	if _, err := p.expect(tokLParen); err != nil {
		return nil, err
	}
	head, err := p.expect(tokAtom)
	if err != nil {
		return nil, err
	}
	if head.text != "module" {
		return nil, errors.Malformed(head.offset, "expected 'module'")
	}

	mod := &Module{}
	for {
		t, ok := p.peek()
		if !ok {
			return nil, errors.Malformed(len(p.src), "unterminated module")
		}
		if t.kind == tokRParen {
			p.pos++
			break
		}
		if err := p.parseTopLevelField(mod); err != nil {
			return nil, err
		}
	}
	return mod, nil
}

// parseTopLevelField consumes one '(' ... ')' top-level form, either
// extracting it as a Func or keeping it verbatim as a PassthroughMember.
func (p *parser) parseTopLevelField(mod *Module) error {
	open, err := p.expect(tokLParen)
	if err != nil {
		return err
	}
	head, err := p.expect(tokAtom)
	if err != nil {
		return err
	}

	if head.text == "func" {
		fn, err := p.parseFunc(open.offset)
		if err != nil {
			return err
		}
		mod.Funcs = append(mod.Funcs, fn)
		return nil
	}

	end, err := p.skipToMatchingParen()
	if err != nil {
		return err
	}
	mod.Passthrough = append(mod.Passthrough, PassthroughMember{
		Text:   strings.TrimSpace(p.src[open.offset : end+1]),
		Offset: open.offset,
	})
	return nil
}

// skipToMatchingParen assumes the opening '(' has already been consumed and
// skips tokens until (and including) its matching ')'. It returns that
// token's byte offset.
func (p *parser) skipToMatchingParen() (int, error) {
	depth := 1
	for {
		t, ok := p.next()
		if !ok {
			return 0, errors.Malformed(len(p.src), "unbalanced parentheses")
		}
		switch t.kind {
		case tokLParen:
			depth++
		case tokRParen:
			depth--
			if depth == 0 {
				return t.offset, nil
			}
		}
	}
}

// parseFunc parses a (func ...) form. '(' and 'func' have already been
// consumed; openOffset is the byte offset of the opening '('.
func (p *parser) parseFunc(openOffset int) (Func, error) {
	var fn Func

	if t, ok := p.peek(); ok && t.kind == tokAtom && strings.HasPrefix(t.text, "$") {
		p.pos++
		fn.Name = strings.TrimPrefix(t.text, "$")
		fn.NameIsAST = true
	}

	for {
		t, ok := p.peek()
		if !ok {
			return fn, errors.Malformed(openOffset, "unterminated function")
		}
		if t.kind != tokLParen {
			break
		}
		// Lookahead for param/result/local, otherwise this paren starts the body.
		save := p.pos
		p.pos++
		kw, ok := p.peek()
		if !ok || kw.kind != tokAtom || (kw.text != "param" && kw.text != "result" && kw.text != "local") {
			p.pos = save
			break
		}
		p.pos++
		switch kw.text {
		case "param":
			params, err := p.parseTypedList()
			if err != nil {
				return fn, err
			}
			fn.Params = append(fn.Params, params...)
		case "local":
			locals, err := p.parseTypedList()
			if err != nil {
				return fn, err
			}
			fn.Locals = append(fn.Locals, locals...)
		case "result":
			for {
				t, ok := p.peek()
				if !ok {
					return fn, errors.Malformed(openOffset, "unterminated result")
				}
				if t.kind == tokRParen {
					p.pos++
					break
				}
				p.pos++
				ty, ok := types.ParseDataType(t.text)
				if !ok {
					return fn, errors.Malformed(t.offset, "unsupported result type "+t.text)
				}
				fn.Results = append(fn.Results, ty)
			}
		}
	}

	body, err := p.parseInstrStream(openOffset)
	if err != nil {
		return fn, err
	}
	fn.Body = body
	return fn, nil
}

// parseTypedList parses the body of a (param ...) or (local ...) form,
// where it is either one "$name type" pair or a bare list of types.
// The opening '(' and keyword have already been consumed; this consumes up
// to and including the matching ')'.
func (p *parser) parseTypedList() ([]Param, error) {
	var name string
	if t, ok := p.peek(); ok && t.kind == tokAtom && strings.HasPrefix(t.text, "$") {
		p.pos++
		name = strings.TrimPrefix(t.text, "$")
	}

	var out []Param
	for {
		t, ok := p.next()
		if !ok {
			return nil, errors.Malformed(0, "unterminated param/local")
		}
		if t.kind == tokRParen {
			break
		}
		ty, ok := types.ParseDataType(t.text)
		if !ok {
			return nil, errors.Malformed(t.offset, "unsupported value type "+t.text)
		}
		out = append(out, Param{Name: name, Type: ty})
	}
	return out, nil
}

// parseInstrStream consumes the function body up to the func's own closing
// paren. Nested '(' / ')' pairs that merely group a sequence of
// instructions (rather than introduce a param/result/local) are decorative
// in this AST — spec.md assumes an already-flattened instruction list is
// provided — so they are dropped rather than tracked as extra scopes; scope
// nesting here is driven entirely by the block/end opcodes themselves.
func (p *parser) parseInstrStream(funcOpenOffset int) ([]Instr, error) {
	var out []Instr
	depth := 1 // the func's own '(' is already open
	for depth > 0 {
		t, ok := p.next()
		if !ok {
			return nil, errors.Malformed(funcOpenOffset, "unterminated function body")
		}
		switch t.kind {
		case tokLParen:
			depth++
		case tokRParen:
			depth--
		case tokAtom:
			instr, err := p.parseInstr(t)
			if err != nil {
				return nil, err
			}
			out = append(out, instr)
		}
	}
	return out, nil
}

// parseInstr consumes the immediates (if any) that follow an opcode atom
// and builds the verbatim Instr record.
func (p *parser) parseInstr(op token) (Instr, error) {
	instr := Instr{Mnemonic: op.text, Offset: op.offset, Text: op.text}

	switch op.text {
	case "local.get", "local.set", "local.tee", "br", "br_if":
		arg, ok := p.peek()
		if ok && arg.kind == tokAtom {
			p.pos++
			instr.Text += " " + arg.text
		}
	case "block":
		arg, ok := p.peek()
		if ok && arg.kind == tokAtom && strings.HasPrefix(arg.text, "$") {
			p.pos++
			instr.Label = strings.TrimPrefix(arg.text, "$")
			instr.Text += " " + arg.text
		}
	case "i32.const", "i64.const", "f32.const", "f64.const":
		arg, ok := p.peek()
		if ok && arg.kind == tokAtom {
			p.pos++
			instr.Text += " " + arg.text
		}
	case "i32.load", "i32.load16_u", "i64.load", "i64.load32_u",
		"i32.store", "i32.store8", "i32.store16", "i64.store":
		for {
			arg, ok := p.peek()
			if !ok || arg.kind != tokAtom || !(strings.HasPrefix(arg.text, "offset=") || strings.HasPrefix(arg.text, "align=")) {
				break
			}
			p.pos++
			instr.Text += " " + arg.text
		}
	}
	return instr, nil
}

// MemargOffset extracts the numeric value of an "offset=N" immediate from an
// instruction's verbatim text, defaulting to 0 when absent.
func MemargOffset(text string) (int, error) {
	for _, field := range strings.Fields(text) {
		if v, ok := strings.CutPrefix(field, "offset="); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return 0, err
			}
			return n, nil
		}
	}
	return 0, nil
}
