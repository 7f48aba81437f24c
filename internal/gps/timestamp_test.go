// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gps

import (
	"errors"
	"testing"
	"time"
)

func TestParseTimestamp_AppliesOffset(t *testing.T) {
	got, err := ParseTimestamp("161229.487", "120598")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	want := time.Date(2098, time.May, 13, 0, 12, 29, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if got.Sub(time.Date(2098, time.May, 12, 16, 12, 29, 0, time.UTC)) != 28800*time.Second {
		t.Fatalf("expected a fixed 8h shift")
	}
}

func TestParseTimestamp_IgnoresFraction(t *testing.T) {
	a, err := ParseTimestamp("081412.99", "180113")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	b, err := ParseTimestamp("081412", "180113")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !a.Equal(b) {
		t.Fatalf("fraction changed result: %v vs %v", a, b)
	}
	if a.Year() != 2013 {
		t.Fatalf("expected year 2013, got %d", a.Year())
	}
}

func TestParseTimestamp_CenturyBase(t *testing.T) {
	got, err := ParseTimestamp("000000", "010100")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.Year() != 2000 || got.Hour() != 8 {
		t.Fatalf("unexpected %v", got)
	}
}

func TestParseTimestamp_Invalid(t *testing.T) {
	cases := []struct {
		name, hhmmss, ddmmyy string
	}{
		{"empty time", "", "120598"},
		{"empty date", "161229", ""},
		{"short time", "1612", "120598"},
		{"short date", "161229", "1205"},
		{"hour", "241229", "120598"},
		{"minute", "166029", "120598"},
		{"second", "161260", "120598"},
		{"non numeric", "1a1229", "120598"},
		{"signed", "+11229", "120598"},
		{"day zero", "161229", "000598"},
		{"day", "161229", "320598"},
		{"month zero", "161229", "120098"},
		{"month", "161229", "121398"},
		{"april 31", "161229", "310498"},
		{"feb 29 non leap", "161229", "290201"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseTimestamp(tc.hhmmss, tc.ddmmyy)
			if !errors.Is(err, InvalidTimestamp) {
				t.Fatalf("expected InvalidTimestamp, got %v", err)
			}
		})
	}
}

func TestParseTimestamp_LeapDay(t *testing.T) {
	if _, err := ParseTimestamp("120000", "290224"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}
