// Package errs holds the error taxonomy sentinels: one per failure class,
// wrapped at the stage boundary that produced them so callers can
// discriminate with errors.Is without string matching.
package errs

import "errors"

var (
	// ErrLex marks tokenizer failures (unterminated string, malformed hex,
	// unexpected character). Fatal to the offending file only.
	ErrLex = errors.New("lex error")

	// ErrParse marks grammar failures (missing comma/colon, bad run edges,
	// double '+'). Fatal to the offending file only.
	ErrParse = errors.New("parse error")

	// ErrSemantic marks action-builder failures (unknown key name,
	// out-of-range mouse speed, Temporary off-HOLD, missing parameters).
	// Fatal to the offending file only.
	ErrSemantic = errors.New("semantic error")

	// ErrFatalSetup marks boot-time failures that prevent the runtime from
	// starting at all (storage init, queue construction).
	ErrFatalSetup = errors.New("fatal setup error")
)
