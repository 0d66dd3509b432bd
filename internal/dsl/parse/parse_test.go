package parse

import (
	"testing"

	"github.com/mirage-fw/core/internal/dsl/token"
)

func mustTokenize(t *testing.T, src string) []token.Token {
	t.Helper()
	toks, err := token.Tokenize(src)
	if err != nil {
		t.Fatalf("tokenize %q: %v", src, err)
	}
	return toks
}

func TestParseInlineBindingDefaultsToPress(t *testing.T) {
	f, err := Parse(mustTokenize(t, "R0,K1: click A"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.Bindings) != 1 {
		t.Fatalf("got %d bindings, want 1: %+v", len(f.Bindings), f.Bindings)
	}
	b := f.Bindings[0]
	if b.Row != 0 || b.Key != 1 || b.Operation != OpPress {
		t.Errorf("got %+v", b)
	}
}

func TestParseOperationBlock(t *testing.T) {
	f, err := Parse(mustTokenize(t, "R2,K3: on hold: switch to NavLayer until released"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.Bindings) != 1 || f.Bindings[0].Operation != OpHold {
		t.Fatalf("got %+v", f.Bindings)
	}
}

func TestParseLeadingCommaIsError(t *testing.T) {
	_, err := Parse(mustTokenize(t, "R0,K0: , press A"))
	if err == nil {
		t.Fatal("expected error for leading comma in action run")
	}
}

func TestParseDoublePlusIsError(t *testing.T) {
	toks := mustTokenize(t, `R0,K0: press LEFTCTRL`)
	plus := token.Token{Kind: token.Plus, Lexeme: "+", LineNumber: 1}
	ident := token.Token{Kind: token.Identifier, Lexeme: "A", LineNumber: 1}
	toks = append(toks, plus, plus, ident)
	_, err := Parse(toks)
	if err == nil {
		t.Fatal("expected error for two consecutive '+'")
	}
}

func TestParseTopLevelDirective(t *testing.T) {
	f, err := Parse(mustTokenize(t, "other keys fall through\nR0,K0: press A"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.Directives) != 1 || f.Directives[0] != OtherKeysFallThrough {
		t.Fatalf("got %+v", f.Directives)
	}
	if len(f.Bindings) != 1 {
		t.Fatalf("got %+v", f.Bindings)
	}
}
