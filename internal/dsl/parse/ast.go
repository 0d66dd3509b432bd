// Package parse groups a token sequence into top-level directives and
// per-key bindings, per the keymap DSL grammar.
package parse

import "github.com/mirage-fw/core/internal/dsl/token"

// Operation is one of the five user gestures a binding can key off of.
type Operation int

const (
	OpPress Operation = iota
	OpClick
	OpHold
	OpDoubleClick
	OpRelease
)

// Directive is a top-level file-wide flag.
type Directive int

const (
	OtherKeysFallThrough Directive = iota
	BlockOtherKeys
)

// Binding is a single (row, key, operation) -> action-token-run triple as
// produced by the grammar; the action builder (internal/dsl/build) turns
// Run into a typed BoundAction.
type Binding struct {
	Row       int
	Key       int
	Operation Operation
	Run       []token.Token
	Line      int
}

// File is the parse result for one keymap source file.
type File struct {
	Directives []Directive
	Bindings   []Binding
}
