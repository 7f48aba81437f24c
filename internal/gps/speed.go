// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gps

import (
	"math"

	"github.com/pkg/errors"
)

// KnotsToKmh converts one knot (nautical mile per hour) to km/h.
const KnotsToKmh = 1.852

// ParseSpeed converts a speed-over-ground field in knots to km/h.
func ParseSpeed(knots string) (float64, error) {
	v, err := parseNumber(knots)
	if err != nil {
		return 0, newDecodeError(InvalidSpeed, knots, err)
	}
	if v < 0 {
		return 0, newDecodeError(InvalidSpeed, knots, errors.New("negative speed"))
	}
	if v == 0 {
		// "-0" would otherwise yield negative zero.
		return 0, nil
	}
	kmh := v * KnotsToKmh
	if math.IsInf(kmh, 0) {
		return 0, newDecodeError(InvalidSpeed, knots, errors.New("speed overflows km/h"))
	}
	return kmh, nil
}
