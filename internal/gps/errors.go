// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gps

import "fmt"

// ErrorKind classifies a decode failure. Every kind is terminal: the same
// sentence will fail the same way on retry.
//
// ErrorKind implements error so callers can match with errors.Is:
//
//	if errors.Is(err, gps.InvalidCoordinate) { ... }
type ErrorKind string

const (
	MalformedSentence ErrorKind = "malformed sentence"
	InvalidTimestamp  ErrorKind = "invalid timestamp"
	InvalidCoordinate ErrorKind = "invalid coordinate"
	InvalidSpeed      ErrorKind = "invalid speed"
	InvalidBearing    ErrorKind = "invalid bearing"
)

func (k ErrorKind) Error() string { return string(k) }

// DecodeError reports which field of a sentence failed and why.
type DecodeError struct {
	Kind  ErrorKind
	Field string // sentence field name, e.g. "latitude"
	Value string // raw token that failed
	Err   error  // underlying cause, may be nil
}

func (e *DecodeError) Error() string {
	msg := "gps: " + string(e.Kind)
	if e.Field != "" {
		msg += " in " + e.Field
	}
	msg += fmt.Sprintf(" (%q)", e.Value)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Is matches the error kind, so errors.Is(err, InvalidSpeed) holds for any
// speed failure regardless of field or value.
func (e *DecodeError) Is(target error) bool {
	k, ok := target.(ErrorKind)
	return ok && k == e.Kind
}

func newDecodeError(kind ErrorKind, value string, cause error) *DecodeError {
	return &DecodeError{Kind: kind, Value: value, Err: cause}
}

// inField stamps the sentence field name onto a converter error.
func inField(err error, field string) error {
	de, ok := err.(*DecodeError)
	if !ok {
		return err
	}
	annotated := *de
	annotated.Field = field
	return &annotated
}
