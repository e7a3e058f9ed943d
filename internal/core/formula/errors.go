package formula

import "fmt"

// ErrorKind distinguishes a malformed expression from a well-formed expression
// that cannot be evaluated (typically a missing variable).
type ErrorKind int

const (
	// KindSyntax means the formula failed to parse.
	KindSyntax ErrorKind = iota
	// KindEvaluation means the formula parsed but could not be evaluated
	// against the supplied context.
	KindEvaluation
)

// Error is the single error type reported for formula failures; callers
// distinguish the sub-kinds by Kind or message content.
type Error struct {
	Kind    ErrorKind
	Formula string
	Detail  string
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindSyntax:
		return fmt.Sprintf("invalid formula syntax: %s - %s", e.Formula, e.Detail)
	default:
		return fmt.Sprintf("formula evaluation error: %s - %s", e.Formula, e.Detail)
	}
}

func syntaxError(formula, detail string) *Error {
	return &Error{Kind: KindSyntax, Formula: formula, Detail: detail}
}

func evalError(formula, detail string) *Error {
	return &Error{Kind: KindEvaluation, Formula: formula, Detail: detail}
}
