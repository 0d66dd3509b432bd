// Package token lexes keymap source text into a flat token sequence.
package token

// Kind enumerates the closed set of token kinds the tokenizer can produce.
type Kind int

const (
	Invalid Kind = iota

	Comma
	Plus
	Colon
	String

	RowLit
	KeyLit
	Decimal
	Hex
	Identifier

	OpPress
	OpClick
	OpHold
	OpDoubleClick
	OpRelease

	ActionPress
	ActionRelease
	ActionClick
	ActionWait
	ActionSwitchTo
	ActionToggle
	ActionLeave
	ActionType
	ActionResetKeyboard
	ActionBootloader
	ActionHome
	ActionNothing
	ActionPassThrough
	ActionReloadKeyMaps
	ActionMouseMoveUp
	ActionMouseMoveDown
	ActionMouseMoveLeft
	ActionMouseMoveRight
	ActionMouseMoveCenter
	ActionMouseScrollUp
	ActionMouseScrollDown
	ActionMouseScrollLeft
	ActionMouseScrollRight
	ActionMouseScrollCenter
	ActionMouseClickLeft
	ActionMouseClickRight
	ActionMouseClickCenter
	ActionMouseClickBackwards
	ActionMouseClickForwards

	ParamQuickly
	ParamSlowly
	ParamRepeatedly
	ParamAtHumanSpeed
	ParamUntilReleased
	ParamMs
	ParamSec
	ParamMin

	TopOtherKeysFallThrough
	TopBlockOtherKeys
)

// Token is a single lexed unit with its source location.
type Token struct {
	Kind         Kind
	Lexeme       string
	SourceOffset int
	Length       int
	LineNumber   int
}

// IsOperation reports whether k is one of the five operation tags.
func (k Kind) IsOperation() bool {
	switch k {
	case OpPress, OpClick, OpHold, OpDoubleClick, OpRelease:
		return true
	}
	return false
}

// IsParameter reports whether k is one of the PARAMETER_* tags.
func (k Kind) IsParameter() bool {
	switch k {
	case ParamQuickly, ParamSlowly, ParamRepeatedly, ParamAtHumanSpeed,
		ParamUntilReleased, ParamMs, ParamSec, ParamMin:
		return true
	}
	return false
}

// IsAction reports whether k is one of the ACTION_* tags.
func (k Kind) IsAction() bool {
	switch k {
	case ActionPress, ActionRelease, ActionClick, ActionWait, ActionSwitchTo,
		ActionToggle, ActionLeave, ActionType, ActionResetKeyboard, ActionBootloader,
		ActionHome, ActionNothing, ActionPassThrough, ActionReloadKeyMaps,
		ActionMouseMoveUp, ActionMouseMoveDown, ActionMouseMoveLeft, ActionMouseMoveRight,
		ActionMouseMoveCenter, ActionMouseScrollUp, ActionMouseScrollDown,
		ActionMouseScrollLeft, ActionMouseScrollRight, ActionMouseScrollCenter,
		ActionMouseClickLeft, ActionMouseClickRight, ActionMouseClickCenter,
		ActionMouseClickBackwards, ActionMouseClickForwards:
		return true
	}
	return false
}
