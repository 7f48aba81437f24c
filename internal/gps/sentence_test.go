// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gps

import (
	"errors"
	"testing"
)

const sampleRMC = "$GPRMC,161229.487,A,3723.2475,N,12158.3416,W,0.13,309.62,120598,,,*10"

func TestTokenize_KeepsEmptyFields(t *testing.T) {
	tokens, err := Tokenize(sampleRMC)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(tokens) != 13 {
		t.Fatalf("expected 13 tokens, got %d", len(tokens))
	}
	if tokens[10] != "" || tokens[11] != "" {
		t.Fatalf("expected empty magnetic variation fields, got %q %q", tokens[10], tokens[11])
	}
	if tokens[12] != "*10" {
		t.Fatalf("expected checksum token, got %q", tokens[12])
	}
}

func TestTokenize_ShapeRules(t *testing.T) {
	longWrongTag := "$GPXXX,161229.487,A,3723.2475,N,12158.3416,W,0.13,309.62,120598,,,*10"
	shortRightTag := "$GPRMC,161229.487,A"
	shortWrongTag := "$GPGGA,161229.487,A"

	cases := []struct {
		name     string
		sentence string
		mode     ValidationMode
		reject   bool
	}{
		{"lenient ok", sampleRMC, ValidationLenient, false},
		{"lenient short only", shortRightTag, ValidationLenient, false},
		{"lenient tag only", longWrongTag, ValidationLenient, false},
		{"lenient both", shortWrongTag, ValidationLenient, true},
		{"lenient empty", "", ValidationLenient, true},
		{"strict ok", sampleRMC, ValidationStrict, false},
		{"strict short only", shortRightTag, ValidationStrict, true},
		{"strict tag only", longWrongTag, ValidationStrict, true},
		{"strict both", shortWrongTag, ValidationStrict, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := TokenizeWith(tc.sentence, tc.mode)
			if !tc.reject {
				if err != nil {
					t.Fatalf("unexpected err: %v", err)
				}
				return
			}
			if !errors.Is(err, MalformedSentence) {
				t.Fatalf("expected MalformedSentence, got %v", err)
			}
		})
	}
}

func TestTokenize_ChecksumNotInspected(t *testing.T) {
	if _, err := Tokenize("$GPRMC,161229.487,A,3723.2475,N,12158.3416,W,0.13,309.62,120598,,,*ZZ"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}

func TestValidationModeString(t *testing.T) {
	if ValidationLenient.String() != "lenient" || ValidationStrict.String() != "strict" {
		t.Fatalf("unexpected mode names %q %q", ValidationLenient, ValidationStrict)
	}
}
