// Package miproto implements the request/response correlator, the
// event dispatcher, and the command encoder that sit between the raw
// mi grammar and the session façade (spec §4.4-4.6).
package miproto

import (
	"fmt"

	"github.com/dbgmi/gomi/mi"
)

// TransportError wraps an underlying stream failure. It is fatal to
// the session (spec §7).
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("miproto: transport error: %s", e.Err) }
func (e *TransportError) Unwrap() error { return e.Err }

// ProtocolParseError wraps a grammar rejection. The bad line is
// logged and processing continues (spec §7).
type ProtocolParseError struct {
	Line string
	Err  error
}

func (e *ProtocolParseError) Error() string {
	return fmt.Sprintf("miproto: could not parse record %q: %s", e.Line, e.Err)
}
func (e *ProtocolParseError) Unwrap() error { return e.Err }

// ProtocolShapeError reports that a well-formed record was missing a
// field a façade operation required.
type ProtocolShapeError struct {
	Operation string
	Field     string
}

func (e *ProtocolShapeError) Error() string {
	return fmt.Sprintf("miproto: %s: required field %q missing from result", e.Operation, e.Field)
}

// DebuggerError wraps a "^error" result.
type DebuggerError struct {
	Msg  string
	Code string // optional
}

func (e *DebuggerError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("miproto: debugger error [%s]: %s", e.Code, e.Msg)
	}
	return fmt.Sprintf("miproto: debugger error: %s", e.Msg)
}

// UnexpectedResultError reports a result record carrying a token with
// no matching pending command. It is logged, not propagated to any
// caller (spec §7).
type UnexpectedResultError struct {
	Token uint64
}

func (e *UnexpectedResultError) Error() string {
	return fmt.Sprintf("miproto: result for unknown token %d", e.Token)
}

// SessionEnded reports that "^exit" was received; every pending
// command resolves with this error and the session becomes terminal.
type SessionEnded struct{}

func (SessionEnded) Error() string { return "miproto: session ended (^exit received)" }

// SessionClosed reports that the session was ended locally (or the
// stream disconnected) while a command was still outstanding.
type SessionClosed struct{}

func (SessionClosed) Error() string { return "miproto: session closed" }

// EncoderError reports invalid arguments supplied to a façade
// operation; it never reaches the wire (spec §7).
type EncoderError struct {
	Operation string
	Reason    string
}

func (e *EncoderError) Error() string {
	return fmt.Sprintf("miproto: cannot encode %s: %s", e.Operation, e.Reason)
}

// shapeErrorFor is a small helper so façade result-mappers in package
// session can build a ProtocolShapeError without importing the field
// validation logic twice.
func shapeErrorFor(operation, field string) error {
	return &ProtocolShapeError{Operation: operation, Field: field}
}

// RequireString extracts a required Const field from data, or returns
// a ProtocolShapeError naming operation and field.
func RequireString(data mi.Tuple, operation, field string) (string, error) {
	v, ok := data.Str(field)
	if !ok {
		return "", shapeErrorFor(operation, field)
	}
	return v, nil
}

// OptionalString extracts an optional Const field from data; a
// missing field is returned as "" with ok=false, never an error
// (spec §4.3: "Missing-but-optional fields -> leave absent").
func OptionalString(data mi.Tuple, field string) (string, bool) {
	return data.Str(field)
}
