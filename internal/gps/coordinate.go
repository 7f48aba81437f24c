// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gps

import (
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// CoordinatePrecision is the number of fractional digits kept in decimal
// degrees. Extra digits are truncated, not rounded.
const CoordinatePrecision = 8

var (
	hundred = decimal.NewFromInt(100)
	sixty   = decimal.NewFromInt(60)
)

// ParseCoordinate converts an NMEA (d)ddmm.mmmm value and its hemisphere
// letter to signed decimal degrees. S and W are negative.
//
// The conversion is done in decimal on the raw token, so truncation to
// CoordinatePrecision digits is exact.
func ParseCoordinate(raw, hemisphere string) (float64, error) {
	var limit decimal.Decimal
	switch hemisphere {
	case "N", "S":
		limit = decimal.NewFromInt(90)
	case "E", "W":
		limit = decimal.NewFromInt(180)
	default:
		return 0, newDecodeError(InvalidCoordinate, hemisphere, errors.New("hemisphere must be N, S, E or W"))
	}

	s, err := numericToken(raw)
	if err != nil {
		return 0, newDecodeError(InvalidCoordinate, raw, err)
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return 0, newDecodeError(InvalidCoordinate, raw, errors.Wrap(err, "not a number"))
	}
	if v.IsNegative() {
		return 0, newDecodeError(InvalidCoordinate, raw, errors.New("negative magnitude"))
	}

	degrees, minutes := v.QuoRem(hundred, 0)
	if minutes.GreaterThanOrEqual(sixty) {
		return 0, newDecodeError(InvalidCoordinate, raw, errors.Errorf("minutes %s out of range", minutes))
	}
	if degrees.GreaterThan(limit) || (degrees.Equal(limit) && !minutes.IsZero()) {
		return 0, newDecodeError(InvalidCoordinate, raw, errors.Errorf("%s degrees exceeds %s", v.Div(hundred), limit))
	}

	fraction, _ := minutes.QuoRem(sixty, CoordinatePrecision)
	deg := degrees.Add(fraction)
	if hemisphere == "S" || hemisphere == "W" {
		deg = deg.Neg()
	}
	out, _ := deg.Float64()
	return out, nil
}

// ParseLatitude is ParseCoordinate restricted to the N and S hemispheres.
func ParseLatitude(raw, ns string) (float64, error) {
	if ns != "N" && ns != "S" {
		return 0, newDecodeError(InvalidCoordinate, ns, errors.New("latitude hemisphere must be N or S"))
	}
	return ParseCoordinate(raw, ns)
}

// ParseLongitude is ParseCoordinate restricted to the E and W hemispheres.
func ParseLongitude(raw, ew string) (float64, error) {
	if ew != "E" && ew != "W" {
		return 0, newDecodeError(InvalidCoordinate, ew, errors.New("longitude hemisphere must be E or W"))
	}
	return ParseCoordinate(raw, ew)
}

// numericToken trims raw and checks it is an optionally signed run of digits
// with at most one decimal point. Exponents, hex floats, underscores, NaN and
// Inf are rejected.
func numericToken(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", errors.New("empty field")
	}
	body := s
	if body[0] == '+' || body[0] == '-' {
		body = body[1:]
	}
	digits, dots := 0, 0
	for _, c := range body {
		switch {
		case c >= '0' && c <= '9':
			digits++
		case c == '.':
			dots++
		default:
			return "", errors.Errorf("unexpected character %q", c)
		}
	}
	if digits == 0 || dots > 1 {
		return "", errors.New("not a decimal number")
	}
	return s, nil
}

// parseNumber parses a plain decimal NMEA number as a float.
func parseNumber(raw string) (float64, error) {
	s, err := numericToken(raw)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.Wrap(err, "not a number")
	}
	if math.IsInf(v, 0) {
		return 0, errors.New("not a finite number")
	}
	return v, nil
}
