// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gps

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
)

// Direction is the compass sector a course over ground falls in, or Stopped
// when the receiver is not moving.
type Direction uint8

const (
	Stopped Direction = iota
	North
	NorthByEast
	NorthEast
	EastByNorth
	East
	EastBySouth
	SouthEast
	SouthByEast
	South
	SouthByWest
	SouthWest
	WestBySouth
	West
	WestByNorth
	NorthWest
	NorthByWest
)

var directionNames = [...]string{
	Stopped:     "Stopped",
	North:       "North",
	NorthByEast: "North by East",
	NorthEast:   "North-East",
	EastByNorth: "East by North",
	East:        "East",
	EastBySouth: "East by South",
	SouthEast:   "South-East",
	SouthByEast: "South by East",
	South:       "South",
	SouthByWest: "South by West",
	SouthWest:   "South-West",
	WestBySouth: "West by South",
	West:        "West",
	WestByNorth: "West by North",
	NorthWest:   "North-West",
	NorthByWest: "North by West",
}

// Chinese labels, as shown on the UTC+8 deployment's displays.
var directionNamesCN = [...]string{
	Stopped:     "停止",
	North:       "北",
	NorthByEast: "北偏东",
	NorthEast:   "东北",
	EastByNorth: "东偏北",
	East:        "东",
	EastBySouth: "东偏南",
	SouthEast:   "东南",
	SouthByEast: "南偏东",
	South:       "南",
	SouthByWest: "南偏西",
	SouthWest:   "西南",
	WestBySouth: "西偏南",
	West:        "西",
	WestByNorth: "西偏北",
	NorthWest:   "西北",
	NorthByWest: "北偏西",
}

func (d Direction) String() string {
	if int(d) < len(directionNames) {
		return directionNames[d]
	}
	return fmt.Sprintf("Direction(%d)", uint8(d))
}

// Chinese returns the Chinese label for d.
func (d Direction) Chinese() string {
	if int(d) < len(directionNamesCN) {
		return directionNamesCN[d]
	}
	return d.String()
}

func (d Direction) MarshalText() ([]byte, error) {
	if int(d) >= len(directionNames) {
		return nil, errors.Errorf("gps: unknown direction %d", uint8(d))
	}
	return []byte(directionNames[d]), nil
}

func (d *Direction) UnmarshalText(text []byte) error {
	for i, name := range directionNames {
		if name == string(text) {
			*d = Direction(i)
			return nil
		}
	}
	return errors.Errorf("gps: unknown direction %q", text)
}

// sector is a closed bearing interval [lo, hi].
type sector struct {
	dir    Direction
	lo, hi float64
}

// sectors is scanned in order and the first match wins, so a bearing on a
// shared boundary goes to the earlier entry. North appears twice to cover
// the wrap at 360 without modular arithmetic.
var sectors = [17]sector{
	{North, 0, 11.25},
	{NorthByEast, 11.25, 33.75},
	{NorthEast, 33.75, 56.25},
	{EastByNorth, 56.25, 78.75},
	{East, 78.75, 101.25},
	{EastBySouth, 101.25, 123.75},
	{SouthEast, 123.75, 146.25},
	{SouthByEast, 146.25, 168.75},
	{South, 168.75, 191.25},
	{SouthByWest, 191.25, 213.75},
	{SouthWest, 213.75, 236.25},
	{WestBySouth, 236.25, 258.75},
	{West, 258.75, 281.25},
	{WestByNorth, 281.25, 303.75},
	{NorthWest, 303.75, 326.25},
	{NorthByWest, 326.25, 348.75},
	{North, 348.75, 360},
}

// ClassifyDirection maps a course over ground to its compass sector.
// A zero speed returns Stopped whatever the bearing holds; otherwise the
// bearing must lie in [0, 360].
func ClassifyDirection(bearingDeg, speedKmh float64) (Direction, error) {
	if speedKmh == 0 {
		return Stopped, nil
	}
	if math.IsNaN(bearingDeg) {
		return 0, newDecodeError(InvalidBearing, "NaN", errors.New("bearing is not a number"))
	}
	for _, s := range sectors {
		if bearingDeg >= s.lo && bearingDeg <= s.hi {
			return s.dir, nil
		}
	}
	return 0, newDecodeError(InvalidBearing, fmt.Sprint(bearingDeg), errors.New("bearing outside [0, 360]"))
}
