// Package diag implements rick's single compile-time error taxonomy
// (spec.md §7) and the fatal runtime-fault path, following the
// teacher's split between a structural ParseError (runtime/parser/errors.go)
// and a CLI-facing formatted error (cli/errors.go).
package diag

import (
	"fmt"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/rickyang/rick/internal/token"
)

// Kind enumerates every compile-time error from spec.md §7.
type Kind int

const (
	UnclosedString Kind = iota
	NumberParseFailure
	IllegalCharacter
	IllegalEscapeCode
	IdentifierTooLong
	NonPrintableInString
	MalformedFuncdef
	Expected
	MissingTypeSpecifier
	TypeMismatch
)

func (k Kind) String() string {
	switch k {
	case UnclosedString:
		return "unclosed string"
	case NumberParseFailure:
		return "number parse failure"
	case IllegalCharacter:
		return "illegal character"
	case IllegalEscapeCode:
		return "illegal escape code"
	case IdentifierTooLong:
		return "identifier too long"
	case NonPrintableInString:
		return "non-printable byte in string"
	case MalformedFuncdef:
		return "malformed function definition"
	case Expected:
		return "unexpected token"
	case MissingTypeSpecifier:
		return "missing type specifier"
	case TypeMismatch:
		return "type mismatch"
	default:
		return "error"
	}
}

// Error is a single fatal compile-time diagnostic: a Kind, a human
// message, and the Pos it occurred at. There is no recovery phase and
// no batching (spec.md §7) — the first Error constructed terminates
// compilation.
type Error struct {
	Kind       Kind
	Pos        token.Pos
	Message    string
	Suggestion string // optional "did you mean" text, see Suggest
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", e.Suggestion)
	}
	return msg
}

// New builds an Error of the given kind at pos with a formatted message.
func New(kind Kind, pos token.Pos, format string, args ...any) *Error {
	return &Error{Kind: kind, Pos: pos, Message: fmt.Sprintf(format, args...)}
}

// Suggest finds the closest match to name among candidates by
// case-insensitive Levenshtein edit distance
// (github.com/lithammer/fuzzysearch's LevenshteinDistance), so typos
// with transposed or missing letters are still matched. An empty result
// means no sufficiently close candidate exists; callers should omit
// the suggestion rather than offer a misleading one.
func Suggest(name string, candidates []string) string {
	best, bestDist := "", -1
	for _, c := range candidates {
		d := fuzzy.LevenshteinDistance(strings.ToLower(name), strings.ToLower(c))
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	// A distance larger than the candidate's own length is not a
	// meaningful suggestion — it means almost nothing matched.
	if bestDist < 0 || bestDist > len(best) {
		return ""
	}
	return best
}

// Render formats err the way spec.md §7 requires:
// "rick: <file>: <line>:<col> error: <message>".
func Render(file string, err *Error) string {
	return fmt.Sprintf("rick: %s: %s error: %s", file, err.Pos, err.Error())
}

// Fault is a fatal runtime error (division by zero, out-of-bounds
// index, bad `read` coercion, non-integer return from main). The
// evaluator returns a Fault up through its calls and stops evaluating;
// a rick program cannot observe or handle it. RenderFault is the one
// place a Fault becomes text, at the process's fatal-abort boundary.
type Fault struct {
	Message     string
	Fingerprint string // optional blake2b source fingerprint, see Fingerprint
}

func (f *Fault) Error() string { return f.Message }

// RenderFault formats a Fault the way uncaught runtime errors are
// reported: "rick: <file>: runtime error: <message>", with the source
// fingerprint appended whenever the Fault carries one, so bug reports
// can be correlated to the exact source text that triggered them.
func RenderFault(file string, f *Fault) string {
	if f.Fingerprint == "" {
		return fmt.Sprintf("rick: %s: runtime error: %s", file, f.Message)
	}
	return fmt.Sprintf("rick: %s: runtime error: %s (source %s)", file, f.Message, f.Fingerprint)
}
