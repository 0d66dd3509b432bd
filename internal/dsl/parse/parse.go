package parse

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/mirage-fw/core/internal/dsl/token"
)

// sortedKinds must be kept in sorted order; probed with sort.Search, mirroring
// the original tokenizer/parser's binary_search-over-sorted-array discipline.
type sortedKinds []token.Kind

func (s sortedKinds) contains(k token.Kind) bool {
	i := sort.Search(len(s), func(i int) bool { return s[i] >= k })
	return i < len(s) && s[i] == k
}

func newSorted(kinds ...token.Kind) sortedKinds {
	s := append(sortedKinds{}, kinds...)
	sort.Slice(s, func(i, j int) bool { return s[i] < s[j] })
	return s
}

var (
	frontDisallowedTokens = newSorted(
		token.Comma, token.Plus, token.String,
		token.ParamQuickly, token.ParamSlowly, token.ParamRepeatedly,
		token.ParamAtHumanSpeed, token.ParamUntilReleased,
		token.ParamMs, token.ParamSec, token.ParamMin,
	)
	backDisallowedTokens = newSorted(token.Comma, token.Plus)
	allowedRunTokens     = newSorted(
		token.Comma, token.Plus, token.String, token.Decimal, token.Hex, token.Identifier,
		token.ActionPress, token.ActionRelease, token.ActionClick, token.ActionWait,
		token.ActionSwitchTo, token.ActionToggle, token.ActionLeave, token.ActionType,
		token.ActionResetKeyboard, token.ActionBootloader, token.ActionHome,
		token.ActionNothing, token.ActionPassThrough, token.ActionReloadKeyMaps,
		token.ActionMouseMoveUp, token.ActionMouseMoveDown, token.ActionMouseMoveLeft,
		token.ActionMouseMoveRight, token.ActionMouseMoveCenter,
		token.ActionMouseScrollUp, token.ActionMouseScrollDown, token.ActionMouseScrollLeft,
		token.ActionMouseScrollRight, token.ActionMouseScrollCenter,
		token.ActionMouseClickLeft, token.ActionMouseClickRight, token.ActionMouseClickCenter,
		token.ActionMouseClickBackwards, token.ActionMouseClickForwards,
		token.ParamQuickly, token.ParamSlowly, token.ParamRepeatedly,
		token.ParamAtHumanSpeed, token.ParamUntilReleased,
		token.ParamMs, token.ParamSec, token.ParamMin,
	)
)

func kindToOperation(k token.Kind) (Operation, bool) {
	switch k {
	case token.OpPress:
		return OpPress, true
	case token.OpClick:
		return OpClick, true
	case token.OpHold:
		return OpHold, true
	case token.OpDoubleClick:
		return OpDoubleClick, true
	case token.OpRelease:
		return OpRelease, true
	}
	return 0, false
}

// Parse groups tok into a File per the grammar in the keymap DSL spec.
func Parse(toks []token.Token) (*File, error) {
	p := &parser{toks: toks}
	f := &File{}

	for !p.atEnd() {
		t := p.peek()
		switch {
		case t.Kind == token.TopOtherKeysFallThrough:
			p.advance()
			f.Directives = append(f.Directives, OtherKeysFallThrough)
		case t.Kind == token.TopBlockOtherKeys:
			p.advance()
			f.Directives = append(f.Directives, BlockOtherKeys)
		case t.Kind == token.RowLit:
			bindings, err := p.parseBindingGroup()
			if err != nil {
				return nil, err
			}
			f.Bindings = append(f.Bindings, bindings...)
		default:
			return nil, fmt.Errorf("Line %d: Expected row literal or directive, saw: %s", t.LineNumber, t.Lexeme)
		}
	}

	return f, nil
}

type parser struct {
	toks []token.Token
	pos  int
}

func (p *parser) atEnd() bool { return p.pos >= len(p.toks) }
func (p *parser) peek() token.Token { return p.toks[p.pos] }
func (p *parser) advance() token.Token {
	t := p.toks[p.pos]
	p.pos++
	return t
}

func parseIntSuffix(lexeme string) (int, error) {
	n, err := strconv.Atoi(lexeme[1:])
	if err != nil {
		return 0, err
	}
	return n, nil
}

// parseBindingGroup parses "ROW_LIT ',' KEY_LIT ':' (OperationBlock+ | InlineAction)".
func (p *parser) parseBindingGroup() ([]Binding, error) {
	rowTok := p.advance()
	row, err := parseIntSuffix(rowTok.Lexeme)
	if err != nil {
		return nil, fmt.Errorf("Line %d: Invalid row literal: %s", rowTok.LineNumber, rowTok.Lexeme)
	}

	if p.atEnd() || p.peek().Kind != token.Comma {
		return nil, fmt.Errorf("Line %d: Expected ',', saw: %s", rowTok.LineNumber, p.lexemeOrEOF())
	}
	p.advance()

	if p.atEnd() || p.peek().Kind != token.KeyLit {
		return nil, fmt.Errorf("Line %d: Expected key literal, saw: %s", rowTok.LineNumber, p.lexemeOrEOF())
	}
	keyTok := p.advance()
	key, err := parseIntSuffix(keyTok.Lexeme)
	if err != nil {
		return nil, fmt.Errorf("Line %d: Invalid key literal: %s", keyTok.LineNumber, keyTok.Lexeme)
	}

	if p.atEnd() || p.peek().Kind != token.Colon {
		return nil, fmt.Errorf("Line %d: Expected ':', saw: %s", keyTok.LineNumber, p.lexemeOrEOF())
	}
	p.advance()

	if !p.atEnd() && p.peek().Kind.IsOperation() {
		var out []Binding
		for !p.atEnd() && p.peek().Kind.IsOperation() {
			opTok := p.advance()
			op, _ := kindToOperation(opTok.Kind)
			if p.atEnd() || p.peek().Kind != token.Colon {
				return nil, fmt.Errorf("Line %d: Expected ':', saw: %s", opTok.LineNumber, p.lexemeOrEOF())
			}
			p.advance()
			run, err := p.parseActionRun(opTok.LineNumber)
			if err != nil {
				return nil, err
			}
			out = append(out, Binding{Row: row, Key: key, Operation: op, Run: run, Line: opTok.LineNumber})
		}
		return out, nil
	}

	run, err := p.parseActionRun(rowTok.LineNumber)
	if err != nil {
		return nil, err
	}
	return []Binding{{Row: row, Key: key, Operation: OpPress, Run: run, Line: rowTok.LineNumber}}, nil
}

// parseActionRun consumes tokens into an ActionRun, enforcing the
// front/back disallowed-token edge rules and the no-double-plus rule.
func (p *parser) parseActionRun(blockLine int) ([]token.Token, error) {
	start := p.pos
	if p.atEnd() {
		return nil, fmt.Errorf("Line %d: Token not allowed at start of action", blockLine)
	}
	if frontDisallowedTokens.contains(p.peek().Kind) {
		return nil, fmt.Errorf("Line %d: Token not allowed at start of action", blockLine)
	}

	lastWasPlus := false
	for !p.atEnd() {
		t := p.peek()
		if t.Kind == token.RowLit || !allowedRunTokens.contains(t.Kind) {
			break
		}
		if t.Kind == token.Plus {
			if lastWasPlus {
				return nil, fmt.Errorf("Line %d: Cannot have two consecutive '+'", t.LineNumber)
			}
			lastWasPlus = true
		} else {
			lastWasPlus = false
		}
		p.advance()
	}

	run := p.toks[start:p.pos]
	if len(run) == 0 {
		return nil, fmt.Errorf("Line %d: Token not allowed at start of action", blockLine)
	}
	if backDisallowedTokens.contains(run[len(run)-1].Kind) {
		return nil, fmt.Errorf("Line %d: Token not allowed at end of action: %s", run[len(run)-1].LineNumber, run[len(run)-1].Lexeme)
	}
	return run, nil
}

func (p *parser) lexemeOrEOF() string {
	if p.atEnd() {
		return "<eof>"
	}
	return p.peek().Lexeme
}
