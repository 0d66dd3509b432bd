// Package build translates an ActionRun (a token slice produced by the
// parser) plus the Operation it will bind to into a single typed
// action.BoundAction, grounded on the original firmware's
// parse_action_token/parse_key_codes/parse_time (src/parser.cc).
package build

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mirage-fw/core/internal/action"
	"github.com/mirage-fw/core/internal/dsl/keynames"
	"github.com/mirage-fw/core/internal/dsl/parse"
	"github.com/mirage-fw/core/internal/dsl/token"
	"github.com/mirage-fw/core/internal/layerid"
)

// Build turns run into a BoundAction. run is first split on top-level commas
// into action clauses; a single clause is returned unwrapped, more than one
// is wrapped in a Sequence.
func Build(run []token.Token, op parse.Operation) (action.BoundAction, error) {
	clauses := splitOnComma(run)
	if len(clauses) == 1 {
		return buildClause(clauses[0], op)
	}

	items := make([]action.BoundAction, 0, len(clauses))
	for _, clause := range clauses {
		a, err := buildClause(clause, op)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return &action.Sequence{Items: items}, nil
}

func splitOnComma(run []token.Token) [][]token.Token {
	var out [][]token.Token
	start := 0
	for i, t := range run {
		if t.Kind == token.Comma {
			out = append(out, run[start:i])
			start = i + 1
		}
	}
	out = append(out, run[start:])
	return out
}

func errAt(line int, format string, args ...interface{}) error {
	return fmt.Errorf("Line %d: %s", line, fmt.Sprintf(format, args...))
}

func buildClause(clause []token.Token, op parse.Operation) (action.BoundAction, error) {
	if len(clause) == 0 {
		return nil, fmt.Errorf("empty action clause")
	}

	first := clause[0]
	switch first.Kind {
	case token.ActionPress:
		codes, err := parseKeyCodes(clause[1:], first.LineNumber)
		if err != nil {
			return nil, err
		}
		if len(codes) == 0 {
			return nil, errAt(first.LineNumber, "Press action requires key parameter")
		}
		return &action.Keys{Mode: action.KeysPress, Keycodes: codes}, nil

	case token.ActionRelease:
		codes, err := parseKeyCodes(clause[1:], first.LineNumber)
		if err != nil {
			return nil, err
		}
		if len(codes) == 0 {
			return nil, errAt(first.LineNumber, "Release action requires key parameter")
		}
		return &action.Keys{Mode: action.KeysRelease, Keycodes: codes}, nil

	case token.ActionClick:
		codes, err := parseKeyCodes(clause[1:], first.LineNumber)
		if err != nil {
			return nil, err
		}
		if len(codes) == 0 {
			return nil, errAt(first.LineNumber, "Click action requires key parameter")
		}
		return &action.Keys{Mode: action.KeysClick, Keycodes: codes}, nil

	case token.ActionWait:
		ms, err := parseTimeLiteral(clause[1:], first.LineNumber)
		if err != nil {
			return nil, err
		}
		return &action.Delay{DurationMs: ms}, nil

	case token.ActionSwitchTo:
		return buildSwitchTo(clause, op, first.LineNumber)

	case token.ActionToggle:
		name, err := concatName(clause[1:], first.LineNumber, "Toggle action requires layer parameter")
		if err != nil {
			return nil, err
		}
		return &action.LayerOp{Kind: action.LayerToggle, TargetLayerHash: layerid.Hash(name)}, nil

	case token.ActionLeave:
		name, err := concatName(clause[1:], first.LineNumber, "Leave action requires layer parameter")
		if err != nil {
			return nil, err
		}
		return &action.LayerOp{Kind: action.LayerLeave, TargetLayerHash: layerid.Hash(name)}, nil

	case token.ActionResetKeyboard:
		if len(clause) != 1 {
			return nil, errAt(first.LineNumber, "Reset Keyboard action shouldn't have any parameters")
		}
		return action.ResetKeeb, nil

	case token.ActionBootloader:
		if len(clause) != 1 {
			return nil, errAt(first.LineNumber, "Bootloader action shouldn't have any parameters")
		}
		return action.KeebBootloader, nil

	case token.ActionHome:
		if len(clause) != 1 {
			return nil, errAt(first.LineNumber, "Home action shouldn't have any parameters")
		}
		return &action.LayerOp{Kind: action.LayerHome, TargetLayerHash: layerid.BaseLayer}, nil

	case token.ActionNothing:
		if len(clause) != 1 {
			return nil, errAt(first.LineNumber, "Nothing action shouldn't have any parameters")
		}
		return action.Nothing, nil

	case token.ActionPassThrough:
		if len(clause) != 1 {
			return nil, errAt(first.LineNumber, "Pass through action shouldn't have any parameters")
		}
		return action.PassThrough, nil

	case token.ActionReloadKeyMaps:
		if len(clause) != 1 {
			return nil, errAt(first.LineNumber, "Reload Key Maps action shouldn't have any parameters")
		}
		return action.ReloadKeymap, nil

	case token.ActionType:
		return buildTyper(clause, first.LineNumber)

	case token.ActionMouseMoveUp, token.ActionMouseMoveDown, token.ActionMouseMoveLeft, token.ActionMouseMoveRight:
		return buildMouseMove(clause, first.LineNumber)

	case token.ActionMouseScrollUp, token.ActionMouseScrollDown, token.ActionMouseScrollLeft, token.ActionMouseScrollRight:
		return buildMouseScroll(clause, first.LineNumber)

	case token.ActionMouseClickLeft:
		return buildMouseClick(clause, 1<<0, first.LineNumber)
	case token.ActionMouseClickRight:
		return buildMouseClick(clause, 1<<1, first.LineNumber)
	case token.ActionMouseClickCenter:
		return buildMouseClick(clause, 1<<2, first.LineNumber)
	case token.ActionMouseClickBackwards:
		return buildMouseClick(clause, 1<<3, first.LineNumber)
	case token.ActionMouseClickForwards:
		return buildMouseClick(clause, 1<<4, first.LineNumber)
	}

	// No action tag: the whole clause is a generic key combination.
	codes, err := parseKeyCodes(clause, first.LineNumber)
	if err != nil {
		return nil, err
	}
	if len(codes) == 0 {
		return nil, errAt(first.LineNumber, "Expected key combination")
	}
	return &action.Keys{Mode: action.KeysGeneric, Keycodes: codes}, nil
}

func buildSwitchTo(clause []token.Token, op parse.Operation, line int) (action.BoundAction, error) {
	if len(clause) == 1 {
		return nil, errAt(line, "Switch to action requires layer parameter")
	}
	rest := clause[1:]

	if len(rest) == 1 && rest[0].Kind == token.ParamUntilReleased {
		return nil, errAt(line, "Missing layer name for temporary switch: %s", lexemes(clause))
	}

	if rest[len(rest)-1].Kind == token.ParamUntilReleased {
		if op != parse.OpHold {
			return nil, errAt(line, "TemporaryLayerAction can only bind to On Hold")
		}
		name := concatLexemes(rest[:len(rest)-1])
		return &action.LayerOp{Kind: action.LayerTemporary, TargetLayerHash: layerid.Hash(name)}, nil
	}

	name := concatLexemes(rest)
	return &action.LayerOp{Kind: action.LayerSwitchTo, TargetLayerHash: layerid.Hash(name)}, nil
}

func concatName(rest []token.Token, line int, missingMsg string) (string, error) {
	if len(rest) == 0 {
		return "", errAt(line, missingMsg)
	}
	return concatLexemes(rest), nil
}

func concatLexemes(toks []token.Token) string {
	var b strings.Builder
	for _, t := range toks {
		b.WriteString(t.Lexeme)
	}
	return b.String()
}

func lexemes(toks []token.Token) string {
	var b strings.Builder
	for i, t := range toks {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(t.Lexeme)
	}
	return b.String()
}

// parseKeyCodes splits the clause on '+' into key groups; each group is
// either a single hex literal or the concatenation of its token lexemes
// matched case-insensitively against the key-name table.
func parseKeyCodes(toks []token.Token, line int) ([]byte, error) {
	if len(toks) == 0 {
		return nil, nil
	}

	var groups [][]token.Token
	cur := []token.Token{}
	for _, t := range toks {
		if t.Kind == token.Plus {
			groups = append(groups, cur)
			cur = []token.Token{}
			continue
		}
		cur = append(cur, t)
	}
	groups = append(groups, cur)

	codes := make([]byte, 0, len(groups))
	for _, group := range groups {
		if len(group) == 0 {
			return nil, errAt(line, "Cannot have two consecutive '+'")
		}

		if group[0].Kind == token.Hex {
			if len(group) != 1 {
				return nil, errAt(group[0].LineNumber, "Hex literals must be separated by '+'")
			}
			v, err := strconv.ParseUint(group[0].Lexeme[2:], 16, 8)
			if err != nil {
				return nil, errAt(group[0].LineNumber, "Invalid hex literal: %s", group[0].Lexeme)
			}
			codes = append(codes, byte(v))
			continue
		}

		name := concatLexemes(group)
		code, ok := keynames.Lookup(name)
		if !ok {
			return nil, errAt(group[0].LineNumber, "Invalid Action or Key: '%s'", group[0].Lexeme)
		}
		codes = append(codes, code)
	}

	return codes, nil
}

// parseTimeLiteral expects exactly two tokens: a decimal number followed by
// a unit (ms/sec/min), converting to milliseconds.
func parseTimeLiteral(toks []token.Token, line int) (uint32, error) {
	if len(toks) != 2 {
		return 0, errAt(line, "Expected 2 time parameters, saw: %d", len(toks))
	}
	duration, unit := toks[0], toks[1]
	if duration.Kind != token.Decimal {
		return 0, errAt(duration.LineNumber, "Expected number in time literal")
	}
	n, err := strconv.ParseUint(duration.Lexeme, 10, 32)
	if err != nil {
		return 0, errAt(duration.LineNumber, "Invalid number in time literal: %s", duration.Lexeme)
	}

	switch unit.Kind {
	case token.ParamMs:
		return uint32(n), nil
	case token.ParamSec:
		return uint32(n * 1000), nil
	case token.ParamMin:
		return uint32(n * 1000 * 60), nil
	}
	return 0, errAt(unit.LineNumber, "Expected units in time literal")
}

// typerReplacements applies the three payload substitutions defined by the
// DSL, in a fixed order.
var typerReplacements = []struct{ from, to string }{
	{"[DOUBLE QUOTES]", "\""},
	{"[SINGLE QUOTE]", "'"},
	{"[RETURN]", "\n"},
}

// defaultKeystrokeDelayMs is the delay applied when no speed directive or
// explicit time literal is present, matching the original's default.
const defaultKeystrokeDelayMs = 10

func buildTyper(clause []token.Token, line int) (action.BoundAction, error) {
	if len(clause) == 1 {
		return nil, errAt(line, "Type action missing text parameter")
	}
	strTok := clause[1]
	if strTok.Kind != token.String {
		return nil, errAt(line, "Type action's first parameter must be quoted text")
	}

	raw := strTok.Lexeme
	if len(raw) >= 2 {
		raw = raw[1 : len(raw)-1]
	}
	for _, r := range typerReplacements {
		raw = strings.ReplaceAll(raw, r.from, r.to)
	}

	delay := uint32(defaultKeystrokeDelayMs)
	repeating := false
	speedCount := 0
	var timeToks []token.Token

	for _, t := range clause[2:] {
		switch t.Kind {
		case token.ParamRepeatedly:
			repeating = true
		case token.ParamSlowly:
			delay = 200
			speedCount++
		case token.ParamQuickly:
			delay = 0
			speedCount++
		case token.ParamAtHumanSpeed:
			delay = 50
			speedCount++
		case token.Decimal, token.ParamMs, token.ParamSec, token.ParamMin:
			timeToks = append(timeToks, t)
		}
	}

	if len(timeToks) != 0 && len(timeToks) != 2 {
		return nil, errAt(line, "Incorrect number of time tokens provided")
	}
	if len(timeToks) == 2 {
		ms, err := parseTimeLiteral(timeToks, line)
		if err != nil {
			return nil, err
		}
		delay = ms
		speedCount++
	}

	if speedCount > 1 {
		return nil, errAt(line, "Multiple speeds set for Type action. Please select one.\n\t%s", lexemes(clause))
	}

	return &action.Typer{
		Payload:        []byte(raw),
		KeystrokeDelay: delay,
		RepeatDelayMs:  0,
		Repeating:      repeating,
	}, nil
}

func parseMouseSpeed(clause []token.Token, line int) (int, error) {
	if len(clause) != 2 {
		return 0, errAt(line, "Expected speed parameter")
	}
	speedTok := clause[1]
	if speedTok.Kind != token.Decimal {
		return 0, errAt(speedTok.LineNumber, "Expected speed for mouse move")
	}
	n, err := strconv.Atoi(speedTok.Lexeme)
	if err != nil {
		return 0, errAt(speedTok.LineNumber, "Invalid speed: %s", speedTok.Lexeme)
	}
	if n < 0 || n > 100 {
		return 0, errAt(speedTok.LineNumber, "Speed must be in range 0-100")
	}
	return n, nil
}

func buildMouseMove(clause []token.Token, line int) (action.BoundAction, error) {
	n, err := parseMouseSpeed(clause, line)
	if err != nil {
		return nil, err
	}
	kind := clause[0].Kind
	axis := action.AxisUpDown
	if kind == token.ActionMouseMoveLeft || kind == token.ActionMouseMoveRight {
		axis = action.AxisLeftRight
	}
	speed := n
	if kind == token.ActionMouseMoveUp || kind == token.ActionMouseMoveLeft {
		speed = -speed
	}
	return &action.MouseMove{Axis: axis, Speed: int8(speed)}, nil
}

func buildMouseScroll(clause []token.Token, line int) (action.BoundAction, error) {
	n, err := parseMouseSpeed(clause, line)
	if err != nil {
		return nil, err
	}
	kind := clause[0].Kind
	axis := action.AxisUpDown
	if kind == token.ActionMouseScrollLeft || kind == token.ActionMouseScrollRight {
		axis = action.AxisLeftRight
	}
	speed := n
	if kind == token.ActionMouseScrollDown || kind == token.ActionMouseScrollLeft {
		speed = -speed
	}
	return &action.MouseScroll{Axis: axis, Speed: int8(speed)}, nil
}

func buildMouseClick(clause []token.Token, mask uint8, line int) (action.BoundAction, error) {
	if len(clause) != 1 {
		return nil, errAt(line, "Mouse click action shouldn't have any parameters")
	}
	return &action.MouseClick{ButtonMask: mask}, nil
}
