// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gps

// StatusActive marks a valid fix; "V" (void) or anything else is invalid.
const StatusActive = "A"

// Decoder decodes GPRMC sentences. The zero value uses ValidationLenient.
// A Decoder holds no state and is safe for concurrent use.
type Decoder struct {
	Mode ValidationMode
}

// Decode decodes one complete GPRMC sentence with lenient validation.
func Decode(sentence string) (Fix, error) {
	return Decoder{}.Decode(sentence)
}

// Decode tokenizes, validates and assembles sentence into a Fix. The first
// failing field is reported as a *DecodeError.
func (d Decoder) Decode(sentence string) (Fix, error) {
	tokens, err := TokenizeWith(sentence, d.Mode)
	if err != nil {
		return Fix{}, err
	}
	return Assemble(tokens)
}

// Assemble converts validated tokens into a Fix. Converters run in the order
// timestamp, latitude, longitude, speed, course and the first failure is
// returned as is; nothing is defaulted.
//
// A void fix ("V") is still decoded as long as its fields are well formed.
func Assemble(tokens []string) (Fix, error) {
	raw := newRawSentence(tokens)

	ts, err := ParseTimestamp(raw.Time, raw.Date)
	if err != nil {
		return Fix{}, inField(err, "time/date")
	}
	lat, err := ParseLatitude(raw.Latitude, raw.NS)
	if err != nil {
		return Fix{}, inField(err, "latitude")
	}
	lon, err := ParseLongitude(raw.Longitude, raw.EW)
	if err != nil {
		return Fix{}, inField(err, "longitude")
	}
	speed, err := ParseSpeed(raw.Speed)
	if err != nil {
		return Fix{}, inField(err, "speed")
	}

	// A stationary receiver's course is noise: it may be empty or garbage
	// and still yields Stopped.
	bearing, bearingErr := parseNumber(raw.Course)
	if bearingErr != nil && speed != 0 {
		return Fix{}, inField(newDecodeError(InvalidBearing, raw.Course, bearingErr), "course")
	}
	dir, err := ClassifyDirection(bearing, speed)
	if err != nil {
		if de, ok := err.(*DecodeError); ok {
			de.Value = raw.Course
		}
		return Fix{}, inField(err, "course")
	}

	return Fix{
		Valid:      raw.Status == StatusActive,
		Status:     raw.Status,
		Timestamp:  ts,
		Latitude:   lat,
		Longitude:  lon,
		SpeedKmh:   speed,
		BearingDeg: bearing,
		Angle:      raw.Course,
		Direction:  dir,
	}, nil
}
