package build

import (
	"testing"

	"github.com/mirage-fw/core/internal/action"
	"github.com/mirage-fw/core/internal/dsl/parse"
	"github.com/mirage-fw/core/internal/dsl/token"
	"github.com/mirage-fw/core/internal/layerid"
)

func tokenize(t *testing.T, src string) []token.Token {
	t.Helper()
	toks, err := token.Tokenize(src)
	if err != nil {
		t.Fatalf("tokenize(%q): %v", src, err)
	}
	return toks
}

func TestBuildPressSingleKey(t *testing.T) {
	toks := tokenize(t, "press A")
	a, err := Build(toks, parse.OpPress)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	keys, ok := a.(*action.Keys)
	if !ok || keys.Mode != action.KeysPress {
		t.Fatalf("got %#v", a)
	}
}

func TestBuildGenericKeyCombo(t *testing.T) {
	toks := tokenize(t, "LEFTCTRL+C")
	a, err := Build(toks, parse.OpPress)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	keys, ok := a.(*action.Keys)
	if !ok || keys.Mode != action.KeysGeneric || len(keys.Keycodes) != 2 {
		t.Fatalf("got %#v", a)
	}
}

func TestBuildHexLiteralAlone(t *testing.T) {
	toks := tokenize(t, "0x1A")
	a, err := Build(toks, parse.OpPress)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	keys := a.(*action.Keys)
	if len(keys.Keycodes) != 1 || keys.Keycodes[0] != 0x1A {
		t.Fatalf("got %#v", keys)
	}
}

func TestBuildHexLiteralNotAloneErrors(t *testing.T) {
	toks := tokenize(t, "0x1A B")
	if _, err := Build(toks, parse.OpPress); err == nil {
		t.Fatalf("expected error for hex literal sharing a key group without '+'")
	}
}

func TestBuildUnknownKeyNameErrors(t *testing.T) {
	toks := tokenize(t, "press NOTAREALKEY")
	if _, err := Build(toks, parse.OpPress); err == nil {
		t.Fatalf("expected error for unknown key name")
	}
}

func TestBuildConsecutivePlusErrors(t *testing.T) {
	toks := tokenize(t, "A++B")
	if _, err := Build(toks, parse.OpPress); err == nil {
		t.Fatalf("expected error for consecutive '+'")
	}
}

func TestBuildWait(t *testing.T) {
	toks := tokenize(t, "wait 250 ms")
	a, err := Build(toks, parse.OpPress)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	d, ok := a.(*action.Delay)
	if !ok || d.DurationMs != 250 {
		t.Fatalf("got %#v", a)
	}
}

func TestBuildSwitchTo(t *testing.T) {
	toks := tokenize(t, "switch to Symbols")
	a, err := Build(toks, parse.OpPress)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	lo, ok := a.(*action.LayerOp)
	if !ok || lo.Kind != action.LayerSwitchTo || lo.TargetLayerHash != layerid.Hash("Symbols") {
		t.Fatalf("got %#v", a)
	}
}

func TestBuildTemporarySwitchRequiresHold(t *testing.T) {
	toks := tokenize(t, "switch to Symbols until released")
	if _, err := Build(toks, parse.OpPress); err == nil {
		t.Fatalf("expected error: TemporaryLayerAction can only bind to On Hold")
	}
	a, err := Build(toks, parse.OpHold)
	if err != nil {
		t.Fatalf("Build on hold: %v", err)
	}
	lo, ok := a.(*action.LayerOp)
	if !ok || lo.Kind != action.LayerTemporary {
		t.Fatalf("got %#v", a)
	}
}

func TestBuildSwitchToMissingLayerName(t *testing.T) {
	toks := tokenize(t, "switch to until released")
	if _, err := Build(toks, parse.OpHold); err == nil {
		t.Fatalf("expected error for missing layer name")
	}
}

func TestBuildNullaryTerminalRejectsParams(t *testing.T) {
	toks := tokenize(t, "reset keyboard now")
	if _, err := Build(toks, parse.OpPress); err == nil {
		t.Fatalf("expected error: nullary action shouldn't have parameters")
	}
}

func TestBuildResetKeyboard(t *testing.T) {
	toks := tokenize(t, "reset keyboard")
	a, err := Build(toks, parse.OpPress)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if a != action.ResetKeeb {
		t.Fatalf("got %#v", a)
	}
}

func TestBuildTypeDefaultDelay(t *testing.T) {
	toks := tokenize(t, `type "hi"`)
	a, err := Build(toks, parse.OpPress)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	typ, ok := a.(*action.Typer)
	if !ok || typ.KeystrokeDelay != 10 || string(typ.Payload) != "hi" {
		t.Fatalf("got %#v", a)
	}
}

func TestBuildTypeQuickly(t *testing.T) {
	toks := tokenize(t, `type "hi" quickly`)
	a, err := Build(toks, parse.OpPress)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	typ := a.(*action.Typer)
	if typ.KeystrokeDelay != 0 {
		t.Fatalf("got %#v", typ)
	}
}

func TestBuildTypeMultipleSpeedsErrors(t *testing.T) {
	toks := tokenize(t, `type "hi" quickly slowly`)
	if _, err := Build(toks, parse.OpPress); err == nil {
		t.Fatalf("expected error for multiple speeds")
	}
}

func TestBuildTypeSubstitutions(t *testing.T) {
	toks := tokenize(t, `type "say [DOUBLE QUOTES]hi[DOUBLE QUOTES][RETURN]"`)
	a, err := Build(toks, parse.OpPress)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	typ := a.(*action.Typer)
	want := "say \"hi\"\n"
	if string(typ.Payload) != want {
		t.Fatalf("got %q want %q", typ.Payload, want)
	}
}

func TestBuildMouseMoveUpIsNegative(t *testing.T) {
	toks := tokenize(t, "mouse move up 50")
	a, err := Build(toks, parse.OpPress)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	m, ok := a.(*action.MouseMove)
	if !ok || m.Axis != action.AxisUpDown || m.Speed != -50 {
		t.Fatalf("got %#v", a)
	}
}

func TestBuildMouseScrollLeftIsNegative(t *testing.T) {
	toks := tokenize(t, "mouse scroll left 20")
	a, err := Build(toks, parse.OpPress)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	m, ok := a.(*action.MouseScroll)
	if !ok || m.Axis != action.AxisLeftRight || m.Speed != -20 {
		t.Fatalf("got %#v", a)
	}
}

func TestBuildMouseClickLeft(t *testing.T) {
	toks := tokenize(t, "mouse click left")
	a, err := Build(toks, parse.OpPress)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	m, ok := a.(*action.MouseClick)
	if !ok || m.ButtonMask != 1<<0 {
		t.Fatalf("got %#v", a)
	}
}

func TestBuildSequenceOnComma(t *testing.T) {
	toks := tokenize(t, "press A, press B")
	a, err := Build(toks, parse.OpPress)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	seq, ok := a.(*action.Sequence)
	if !ok || len(seq.Items) != 2 {
		t.Fatalf("got %#v", a)
	}
}
