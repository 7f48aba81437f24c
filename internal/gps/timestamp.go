// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gps

import (
	"time"

	"github.com/pkg/errors"
)

const (
	// UTCOffset is added to every decoded timestamp. Receivers report UTC;
	// fixes are stored in the deployment's local time (UTC+8). It is fixed
	// and never inferred from the sentence.
	UTCOffset = 8 * time.Hour

	// centuryBase expands the two-digit year. Dates outside 2000-2099 cannot
	// be represented.
	centuryBase = 2000
)

// ParseTimestamp combines the hhmmss(.sss) time and ddmmyy date fields into
// an instant, read as UTC and shifted by UTCOffset. Fractional seconds are
// dropped.
func ParseTimestamp(hhmmss, ddmmyy string) (time.Time, error) {
	if len(hhmmss) < 6 {
		return time.Time{}, newDecodeError(InvalidTimestamp, hhmmss, errors.New("time shorter than hhmmss"))
	}
	if len(ddmmyy) < 6 {
		return time.Time{}, newDecodeError(InvalidTimestamp, ddmmyy, errors.New("date shorter than ddmmyy"))
	}

	var parts [6]int
	fields := [6]struct {
		src      string
		name     string
		min, max int
	}{
		{hhmmss[0:2], "hour", 0, 23},
		{hhmmss[2:4], "minute", 0, 59},
		{hhmmss[4:6], "second", 0, 59},
		{ddmmyy[0:2], "day", 1, 31},
		{ddmmyy[2:4], "month", 1, 12},
		{ddmmyy[4:6], "year", 0, 99},
	}
	for i, p := range fields {
		n, ok := atoi2(p.src)
		if !ok {
			return time.Time{}, newDecodeError(InvalidTimestamp, p.src, errors.Errorf("%s is not numeric", p.name))
		}
		if n < p.min || n > p.max {
			return time.Time{}, newDecodeError(InvalidTimestamp, p.src, errors.Errorf("%s %d out of range", p.name, n))
		}
		parts[i] = n
	}

	hour, minute, second := parts[0], parts[1], parts[2]
	day, month, year := parts[3], time.Month(parts[4]), centuryBase+parts[5]

	t := time.Date(year, month, day, hour, minute, second, 0, time.UTC)
	if t.Day() != day {
		// time.Date normalises 31 April to 1 May.
		return time.Time{}, newDecodeError(InvalidTimestamp, ddmmyy, errors.Errorf("day %d out of range for %s %d", day, month, year))
	}
	return t.Add(UTCOffset), nil
}

// atoi2 parses exactly two ASCII digits.
func atoi2(s string) (int, bool) {
	if len(s) != 2 {
		return 0, false
	}
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}
