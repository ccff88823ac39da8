package diagnostics

import (
	"fmt"
	"strings"

	"github.com/funvibe/tally/internal/token"
	"github.com/funvibe/tally/internal/typesystem"
)

// ErrorCode identifies the family of a diagnostic.
type ErrorCode string

const (
	ErrA001 ErrorCode = "A001" // Unresolved identifier
	ErrA002 ErrorCode = "A002" // Unknown type
	ErrA003 ErrorCode = "A003" // Type mismatch
	ErrA004 ErrorCode = "A004" // Redeclaration
	ErrA005 ErrorCode = "A005" // Unresolvable type
	ErrA006 ErrorCode = "A006" // Unresolved function, constructor, method or property
	ErrA007 ErrorCode = "A007" // Misplaced or missing return
	ErrA008 ErrorCode = "A008" // Missing entry point
	ErrR001 ErrorCode = "R001" // Runtime fault
)

var codeTitles = map[ErrorCode]string{
	ErrA001: "unresolved identifier",
	ErrA002: "unknown type",
	ErrA003: "type error",
	ErrA004: "redeclaration",
	ErrA005: "unresolvable type",
	ErrA006: "unresolved member",
	ErrA007: "invalid return",
	ErrA008: "missing entry point",
	ErrR001: "runtime error",
}

// Title is the short human description of the code.
func (c ErrorCode) Title() string {
	if t, ok := codeTitles[c]; ok {
		return t
	}
	return "error"
}

// DiagnosticError is one report handed to a Handler.
// Verifier diagnostics carry the offending and expected type sets.
type DiagnosticError struct {
	Code      ErrorCode
	Token     token.Token
	File      string
	Message   string
	Offending []typesystem.Type
	Expected  []typesystem.Type
}

func (e *DiagnosticError) Error() string {
	var sb strings.Builder
	if e.File != "" {
		sb.WriteString(e.File)
		sb.WriteString(":")
	}
	if !e.Token.IsZero() {
		fmt.Fprintf(&sb, "%d:%d: ", e.Token.Line, e.Token.Column)
	}
	fmt.Fprintf(&sb, "%s [%s]: %s", e.Code.Title(), e.Code, e.Message)
	if len(e.Offending) > 0 {
		sb.WriteString(" (got ")
		sb.WriteString(joinTypes(e.Offending))
		if len(e.Expected) > 0 {
			sb.WriteString(", expected ")
			sb.WriteString(joinTypes(e.Expected))
		}
		sb.WriteString(")")
	}
	return sb.String()
}

// NewError builds a diagnostic at tok.
func NewError(code ErrorCode, tok token.Token, format string, args ...interface{}) *DiagnosticError {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	return &DiagnosticError{Code: code, Token: tok, Message: msg}
}

// NewTypeError builds an A003 diagnostic with the offending and expected types.
func NewTypeError(tok token.Token, offending, expected []typesystem.Type, format string, args ...interface{}) *DiagnosticError {
	err := NewError(ErrA003, tok, format, args...)
	err.Offending = offending
	err.Expected = expected
	return err
}

// WithTypes attaches type sets to an existing diagnostic.
func (e *DiagnosticError) WithTypes(offending, expected []typesystem.Type) *DiagnosticError {
	e.Offending = offending
	e.Expected = expected
	return e
}

func joinTypes(ts []typesystem.Type) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		if t == nil {
			parts[i] = "?"
			continue
		}
		parts[i] = t.String()
	}
	return strings.Join(parts, " | ")
}
