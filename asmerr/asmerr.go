// Package asmerr defines the error kinds reported by the assembler and the
// disassembler.
//
// Every failure of the pipelines is an *Error carrying a Kind. Callers test the
// kind with errors.Is:
//
//	if errors.Is(err, asmerr.UnresolvedSymbol) { ... }
//
// The assembler attaches the 1-based source line, the disassembler the byte
// offset of the offending word.
package asmerr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind categorizes an error.
type Kind int

const (
	UnknownMnemonic Kind = iota + 1
	UnresolvedSymbol
	MalformedLiteral
	LiteralOutOfRange
	UnknownOperand
	OperandKindMismatch
	AmbiguousEncoding
	UnknownEncoding
	TruncatedStream
	MalformedLine
	DuplicateSymbol
	InvalidTable
)

var kindNames = map[Kind]string{
	UnknownMnemonic:     "UnknownMnemonic",
	UnresolvedSymbol:    "UnresolvedSymbol",
	MalformedLiteral:    "MalformedLiteral",
	LiteralOutOfRange:   "LiteralOutOfRange",
	UnknownOperand:      "UnknownOperand",
	OperandKindMismatch: "OperandKindMismatch",
	AmbiguousEncoding:   "AmbiguousEncoding",
	UnknownEncoding:     "UnknownEncoding",
	TruncatedStream:     "TruncatedStream",
	MalformedLine:       "MalformedLine",
	DuplicateSymbol:     "DuplicateSymbol",
	InvalidTable:        "InvalidTable",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error makes a Kind usable as an errors.Is target.
func (k Kind) Error() string {
	return k.String()
}

// Error is a positioned, kinded error.
type Error struct {
	Kind   Kind
	Line   int   // 1-based source line, 0 if not applicable
	Offset int64 // byte offset in a word stream, -1 if not applicable
	Token  string
	Msg    string
	Err    error
}

// New creates an error of the given kind with no position.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{
		Kind:   kind,
		Offset: -1,
		Msg:    fmt.Sprintf(format, args...),
	}
}

// WithToken records the token that caused the error.
func (e *Error) WithToken(token string) *Error {
	e.Token = token
	return e
}

// Wrap records an underlying cause.
func (e *Error) Wrap(err error) *Error {
	e.Err = err
	return e
}

func (e *Error) Error() string {
	var sb strings.Builder

	switch {
	case e.Line > 0:
		fmt.Fprintf(&sb, "line %d: ", e.Line)
	case e.Offset >= 0:
		fmt.Fprintf(&sb, "offset 0x%x: ", e.Offset)
	}

	sb.WriteString(e.Kind.String())

	if e.Msg != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Msg)
	}

	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}

	return sb.String()
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is this error's Kind.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

// KindOf extracts the Kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// AtLine attaches a source line to err. Errors that already carry a line keep
// it; errors that are not *Error are wrapped as MalformedLine.
func AtLine(err error, line int) error {
	if err == nil {
		return nil
	}

	var e *Error
	if !errors.As(err, &e) {
		return &Error{Kind: MalformedLine, Line: line, Offset: -1, Err: err}
	}

	if e.Line == 0 {
		e.Line = line
	}

	return err
}

// AtOffset attaches a stream offset to err. Non-*Error values are wrapped as
// UnknownEncoding.
func AtOffset(err error, offset int64) error {
	if err == nil {
		return nil
	}

	var e *Error
	if !errors.As(err, &e) {
		return &Error{Kind: UnknownEncoding, Offset: offset, Err: err}
	}

	if e.Offset < 0 {
		e.Offset = offset
	}

	return err
}
