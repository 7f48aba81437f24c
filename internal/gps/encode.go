// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gps

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	nmea "github.com/adrianmo/go-nmea"
)

// Encode renders f as a GPRMC sentence with a valid *hh checksum. The
// timestamp is shifted back by UTCOffset, so Decode(Encode(f)) reproduces f
// to CoordinatePrecision. Magnetic variation is left empty.
func Encode(f Fix) string {
	t := f.Timestamp.Add(-UTCOffset).UTC()

	status := f.Status
	if status == "" {
		status = "V"
		if f.Valid {
			status = StatusActive
		}
	}

	ns, ew := "N", "E"
	if f.Latitude < 0 {
		ns = "S"
	}
	if f.Longitude < 0 {
		ew = "W"
	}

	course := f.Angle
	if course == "" {
		course = strconv.FormatFloat(f.BearingDeg, 'f', -1, 64)
	}

	fields := []string{
		strings.TrimPrefix(SentenceTag, "$"),
		t.Format("150405.000"),
		status,
		encodeCoordinate(f.Latitude, 2),
		ns,
		encodeCoordinate(f.Longitude, 3),
		ew,
		strconv.FormatFloat(f.SpeedKmh/KnotsToKmh, 'f', -1, 64),
		course,
		t.Format("020106"),
		"", // magnetic variation
		"", // variation hemisphere
		"",
	}
	body := strings.Join(fields, fieldDelimiter)
	return "$" + body + "*" + nmea.Checksum(body)
}

// encodeCoordinate writes |deg| as degrees followed by zero padded minutes.
// Ten minute digits keep the round trip well inside CoordinatePrecision.
func encodeCoordinate(deg float64, degWidth int) string {
	abs := math.Abs(deg)
	whole := math.Trunc(abs)
	minutes := (abs - whole) * 60
	if minutes >= 59.99999999995 {
		whole++
		minutes = 0
	}
	return fmt.Sprintf("%0*d%013.10f", degWidth, int(whole), minutes)
}
