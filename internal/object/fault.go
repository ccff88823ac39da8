package object

import (
	"fmt"

	"github.com/funvibe/tally/internal/token"
	"github.com/funvibe/tally/internal/typesystem"
)

// FaultKind classifies runtime faults.
type FaultKind int

const (
	FaultOverflow FaultKind = iota
	FaultZeroDivision
	FaultNullReference
	FaultIndexOutOfRange
	FaultUnsupportedOperation
	FaultUnresolvedFunction
	FaultUnresolvedMethod
	FaultUnresolvedConstructor
	FaultUnresolvedProperty
	FaultUnresolvedVariable
	FaultRateLookup
	FaultStackOverflow
)

var faultNames = [...]string{
	FaultOverflow:              "Overflow",
	FaultZeroDivision:          "ZeroDivision",
	FaultNullReference:         "NullReference",
	FaultIndexOutOfRange:       "IndexOutOfRange",
	FaultUnsupportedOperation:  "UnsupportedOperation",
	FaultUnresolvedFunction:    "UnresolvedFunction",
	FaultUnresolvedMethod:      "UnresolvedMethod",
	FaultUnresolvedConstructor: "UnresolvedConstructor",
	FaultUnresolvedProperty:    "UnresolvedProperty",
	FaultUnresolvedVariable:    "UnresolvedVariable",
	FaultRateLookup:            "RateLookup",
	FaultStackOverflow:         "StackOverflow",
}

func (k FaultKind) String() string {
	if int(k) >= 0 && int(k) < len(faultNames) {
		return faultNames[k]
	}
	return "Fault"
}

// Fault is a fatal runtime condition. It travels up the evaluator like a
// return value and is reported once by the driver.
//
// The position is attached lazily: the innermost node that sees an
// unpositioned fault stamps its token with At.
type Fault struct {
	Kind    FaultKind
	Message string
	Token   token.Token
}

func NewFault(kind FaultKind, format string, args ...interface{}) *Fault {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	return &Fault{Kind: kind, Message: msg}
}

func (f *Fault) Type() ObjectType { return FAULT_OBJ }
func (f *Fault) Inspect() string {
	if f.Positioned() {
		return fmt.Sprintf("%s at %d:%d: %s", f.Kind, f.Token.Line, f.Token.Column, f.Message)
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}
func (f *Fault) RuntimeType() typesystem.Type { return typesystem.None }

func (f *Fault) Error() string { return f.Inspect() }

// Positioned reports whether a source position has been attached.
func (f *Fault) Positioned() bool { return !f.Token.IsZero() }

// At stamps tok on the fault unless it already carries a position.
func (f *Fault) At(tok token.Token) *Fault {
	if f != nil && !f.Positioned() {
		f.Token = tok
	}
	return f
}

func unsupported(op string, left, right Object) *Fault {
	if right == nil {
		return NewFault(FaultUnsupportedOperation, "operator %s not supported for %s", op, left.RuntimeType())
	}
	return NewFault(FaultUnsupportedOperation, "operator %s not supported for %s and %s",
		op, left.RuntimeType(), right.RuntimeType())
}

func zeroDivision() *Fault {
	return NewFault(FaultZeroDivision, "division by zero")
}
