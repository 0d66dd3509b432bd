package token

import "testing"

func TestTokenizeBasicBinding(t *testing.T) {
	toks, err := Tokenize(`R0,K1: click A`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantKinds := []Kind{RowLit, Comma, KeyLit, Colon, ActionClick, Identifier}
	if len(toks) != len(wantKinds) {
		t.Fatalf("got %d tokens, want %d: %+v", len(toks), len(wantKinds), toks)
	}
	for i, k := range wantKinds {
		if toks[i].Kind != k {
			t.Errorf("token %d: got kind %v, want %v (%+v)", i, toks[i].Kind, k, toks[i])
		}
	}
}

func TestTokenizeOperationTags(t *testing.T) {
	cases := map[string]Kind{
		"on press":        OpPress,
		"on click":        OpClick,
		"on hold":         OpHold,
		"on double-click": OpDoubleClick,
		"on release":      OpRelease,
	}
	for src, want := range cases {
		toks, err := Tokenize(src)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", src, err)
		}
		if len(toks) != 1 || toks[0].Kind != want {
			t.Errorf("%q: got %+v, want single token of kind %v", src, toks, want)
		}
	}
}

func TestTokenizeMouseDirections(t *testing.T) {
	toks, err := Tokenize("mouse move up")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(toks) != 1 || toks[0].Kind != ActionMouseMoveUp {
		t.Fatalf("got %+v", toks)
	}

	toks, err = Tokenize("mouse click back")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(toks) != 1 || toks[0].Kind != ActionMouseClickBackwards {
		t.Fatalf("back alias failed, got %+v", toks)
	}
}

func TestTokenizeMultiwordFailureFallsBackToIdentifierWord(t *testing.T) {
	toks, err := Tokenize("on vacation")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(toks) != 2 {
		t.Fatalf("got %+v, want 2 tokens (identifier 'on', identifier 'vacation')", toks)
	}
	if toks[0].Kind != Identifier || toks[0].Lexeme != "on" {
		t.Errorf("got %+v, want identifier 'on'", toks[0])
	}
	if toks[1].Kind != Identifier || toks[1].Lexeme != "vacation" {
		t.Errorf("got %+v, want identifier 'vacation'", toks[1])
	}
}

func TestTokenizeHexLiteral(t *testing.T) {
	toks, err := Tokenize("0x1F")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(toks) != 1 || toks[0].Kind != Hex || toks[0].Lexeme != "0x1F" {
		t.Fatalf("got %+v", toks)
	}

	if _, err := Tokenize("0x"); err == nil {
		t.Fatal("expected error for bare 0x")
	}
}

func TestTokenizeUnterminatedString(t *testing.T) {
	if _, err := Tokenize(`type "hello`); err == nil {
		t.Fatal("expected unterminated string error")
	}
}

func TestTokenizeComment(t *testing.T) {
	toks, err := Tokenize("R0,K0: press A # trailing comment\nR0,K1: press B")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var rowCount int
	for _, tok := range toks {
		if tok.Kind == RowLit {
			rowCount++
		}
	}
	if rowCount != 2 {
		t.Fatalf("expected 2 row literals across both lines, got %d (%+v)", rowCount, toks)
	}
}

func TestTokenizeTopLevelDirectives(t *testing.T) {
	toks, err := Tokenize("other keys fall through")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(toks) != 1 || toks[0].Kind != TopOtherKeysFallThrough {
		t.Fatalf("got %+v", toks)
	}

	toks, err = Tokenize("block other keys")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(toks) != 1 || toks[0].Kind != TopBlockOtherKeys {
		t.Fatalf("got %+v", toks)
	}
}
