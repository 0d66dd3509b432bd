package token

import "strings"

// checkpoint/restore let a multiword recognition attempt lookahead past the
// first word and back out cleanly if the full phrase does not match.
type checkpoint struct {
	pos  int
	line int
}

func (l *lexer) mark() checkpoint { return checkpoint{pos: l.pos, line: l.line} }
func (l *lexer) restore(c checkpoint) { l.pos = c.pos; l.line = c.line }

// matchWord skips whitespace/comments then tries to consume exactly the word
// w (case-insensitive). On failure the lexer position may be past the
// skipped whitespace and past a scanned non-matching word; callers must
// restore from a checkpoint on failure.
func (l *lexer) matchWord(w string) bool {
	l.skipWhitespaceAndComments()
	if l.atEnd() || !isAlnum(l.peek()) {
		return false
	}
	got := l.scanWord()
	return strings.EqualFold(got, w)
}

// matchDoubleClick matches the literal "double-click" (hyphenated) word
// immediately following "on ".
func (l *lexer) matchDoubleClick() bool {
	l.skipWhitespaceAndComments()
	if l.atEnd() || !isAlnum(l.peek()) {
		return false
	}
	first := l.scanWord()
	if !strings.EqualFold(first, "double") {
		return false
	}
	if l.atEnd() || l.peek() != '-' {
		return false
	}
	l.advance()
	if l.atEnd() || !isAlnum(l.peek()) {
		return false
	}
	second := l.scanWord()
	return strings.EqualFold(second, "click")
}

// tryMultiword attempts, in priority order, every multiword keyword phrase
// that begins with the already-scanned word. It returns (token, true) on a
// full match and leaves the lexer positioned after the phrase; on any
// mismatch it restores the lexer to the position right after the first word
// and returns (zero, false), so the caller falls through to single-word
// keyword / identifier handling.
func (l *lexer) tryMultiword(lower string, startOffset, startLine int) (Token, bool) {
	afterFirstWord := l.mark()

	switch lower {
	case "on":
		if l.matchWord("press") {
			return l.finish(OpPress, startOffset, startLine), true
		}
		l.restore(afterFirstWord)
		if l.matchWord("click") {
			return l.finish(OpClick, startOffset, startLine), true
		}
		l.restore(afterFirstWord)
		if l.matchWord("hold") {
			return l.finish(OpHold, startOffset, startLine), true
		}
		l.restore(afterFirstWord)
		if l.matchDoubleClick() {
			return l.finish(OpDoubleClick, startOffset, startLine), true
		}
		l.restore(afterFirstWord)
		if l.matchWord("release") {
			return l.finish(OpRelease, startOffset, startLine), true
		}
		l.restore(afterFirstWord)

	case "mouse":
		for _, verb := range []string{"move", "scroll", "click"} {
			if l.matchWord(verb) {
				if kind, ok := l.matchMouseDirection(verb); ok {
					return l.finish(kind, startOffset, startLine), true
				}
			}
			l.restore(afterFirstWord)
		}

	case "switch":
		if l.matchWord("to") {
			return l.finish(ActionSwitchTo, startOffset, startLine), true
		}
		l.restore(afterFirstWord)

	case "reset":
		if l.matchWord("keyboard") {
			return l.finish(ActionResetKeyboard, startOffset, startLine), true
		}
		l.restore(afterFirstWord)

	case "pass":
		if l.matchWord("through") {
			return l.finish(ActionPassThrough, startOffset, startLine), true
		}
		l.restore(afterFirstWord)

	case "reload":
		if l.matchWord("key") && l.matchWord("maps") {
			return l.finish(ActionReloadKeyMaps, startOffset, startLine), true
		}
		l.restore(afterFirstWord)

	case "at":
		if l.matchWord("human") && l.matchWord("speed") {
			return l.finish(ParamAtHumanSpeed, startOffset, startLine), true
		}
		l.restore(afterFirstWord)

	case "until":
		if l.matchWord("released") {
			return l.finish(ParamUntilReleased, startOffset, startLine), true
		}
		l.restore(afterFirstWord)

	case "other":
		if l.matchWord("keys") && l.matchWord("fall") && l.matchWord("through") {
			return l.finish(TopOtherKeysFallThrough, startOffset, startLine), true
		}
		l.restore(afterFirstWord)

	case "block":
		if l.matchWord("other") && l.matchWord("keys") {
			return l.finish(TopBlockOtherKeys, startOffset, startLine), true
		}
		l.restore(afterFirstWord)
	}

	return Token{}, false
}

func (l *lexer) finish(kind Kind, startOffset, startLine int) Token {
	return Token{
		Kind:         kind,
		Lexeme:       string(l.src[startOffset:l.pos]),
		SourceOffset: startOffset,
		Length:       l.pos - startOffset,
		LineNumber:   startLine,
	}
}

// matchMouseDirection consumes the direction word following a matched
// mouse verb ("move"|"scroll"|"click") and maps (verb, direction) to the
// corresponding action kind. "back" is an alias for "backwards".
func (l *lexer) matchMouseDirection(verb string) (Kind, bool) {
	save := l.mark()
	l.skipWhitespaceAndComments()
	if l.atEnd() || !isAlnum(l.peek()) {
		l.restore(save)
		return Invalid, false
	}
	dir := strings.ToLower(l.scanWord())
	if dir == "back" {
		dir = "backwards"
	}

	table := map[string]map[string]Kind{
		"move": {
			"up": ActionMouseMoveUp, "down": ActionMouseMoveDown,
			"left": ActionMouseMoveLeft, "right": ActionMouseMoveRight,
			"center": ActionMouseMoveCenter,
		},
		"scroll": {
			"up": ActionMouseScrollUp, "down": ActionMouseScrollDown,
			"left": ActionMouseScrollLeft, "right": ActionMouseScrollRight,
			"center": ActionMouseScrollCenter,
		},
		"click": {
			"left": ActionMouseClickLeft, "right": ActionMouseClickRight,
			"center": ActionMouseClickCenter, "backwards": ActionMouseClickBackwards,
			"forwards": ActionMouseClickForwards,
		},
	}

	if kind, ok := table[verb][dir]; ok {
		return kind, true
	}
	l.restore(save)
	return Invalid, false
}
