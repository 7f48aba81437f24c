// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gps

import (
	"strings"

	"github.com/pkg/errors"
)

const (
	// SentenceTag is the first token of every accepted sentence.
	SentenceTag = "$GPRMC"

	// MinFields is the token count of the standard GPRMC layout through the
	// checksum field.
	MinFields = 12

	fieldDelimiter = ","
)

// ValidationMode selects how the shape validator treats a sentence.
type ValidationMode int

const (
	// ValidationLenient rejects a sentence only when it is both too short and
	// carries the wrong tag. A short $GPRMC sentence, or a long sentence with
	// another tag, passes and fails later at the first bad field.
	ValidationLenient ValidationMode = iota

	// ValidationStrict rejects a sentence when it is too short or carries the
	// wrong tag.
	ValidationStrict
)

func (m ValidationMode) String() string {
	switch m {
	case ValidationLenient:
		return "lenient"
	case ValidationStrict:
		return "strict"
	default:
		return "unknown"
	}
}

// Tokenize splits sentence into its comma-delimited fields and runs the
// lenient shape check.
func Tokenize(sentence string) ([]string, error) {
	return TokenizeWith(sentence, ValidationLenient)
}

// TokenizeWith splits sentence on commas, keeping empty fields, and checks
// its shape according to mode. The checksum token is never inspected.
func TokenizeWith(sentence string, mode ValidationMode) ([]string, error) {
	tokens := strings.Split(sentence, fieldDelimiter)

	short := len(tokens) < MinFields
	wrongTag := tokens[0] != SentenceTag

	var reject bool
	switch mode {
	case ValidationStrict:
		reject = short || wrongTag
	default:
		// NOTE: both conditions must hold. This matches the behaviour of the
		// deployed decoder; use ValidationStrict for the tighter check.
		reject = short && wrongTag
	}
	if reject {
		return nil, &DecodeError{
			Kind:  MalformedSentence,
			Field: "sentence",
			Value: sentence,
			Err:   errors.Errorf("%d fields, tag %q", len(tokens), tokens[0]),
		}
	}
	return tokens, nil
}

// rawSentence is the positional GPRMC layout. Tokens missing from a short
// sentence are left empty and fail in their own converter.
type rawSentence struct {
	Tag       string
	Time      string // hhmmss.sss
	Status    string // A / V
	Latitude  string // ddmm.mmmm
	NS        string
	Longitude string // dddmm.mmmm
	EW        string
	Speed     string // knots
	Course    string // degrees
	Date      string // ddmmyy
	MagVar    string
	MagVarDir string
}

func newRawSentence(tokens []string) rawSentence {
	at := func(i int) string {
		if i < len(tokens) {
			return tokens[i]
		}
		return ""
	}
	return rawSentence{
		Tag:       at(0),
		Time:      at(1),
		Status:    at(2),
		Latitude:  at(3),
		NS:        at(4),
		Longitude: at(5),
		EW:        at(6),
		Speed:     at(7),
		Course:    at(8),
		Date:      at(9),
		MagVar:    at(10),
		MagVarDir: at(11),
	}
}
