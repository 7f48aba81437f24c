package gps

import (
	"encoding/json"
	"time"

	geo "github.com/kellydunn/golang-geo"
)

// DateTimeLayout is the layout of Fix.DateTime.
const DateTimeLayout = "2006-01-02 15:04:05"

// Fix is one decoded GPRMC sentence. It is a plain value; decoding never
// hands out partially filled fixes.
type Fix struct {
	Valid  bool   // status field is exactly "A"
	Status string // raw status token

	// Timestamp is the receiver's UTC time shifted by UTCOffset.
	Timestamp time.Time

	Latitude  float64 // decimal degrees, + north
	Longitude float64 // decimal degrees, + east

	SpeedKmh   float64
	BearingDeg float64 // course over ground as reported
	Angle      string  // raw course token
	Direction  Direction
}

// DateTime formats the timestamp as "2006-01-02 15:04:05".
func (f Fix) DateTime() string {
	return f.Timestamp.Format(DateTimeLayout)
}

// Unix returns the timestamp in epoch seconds.
func (f Fix) Unix() int64 {
	return f.Timestamp.Unix()
}

// Point returns the fix position for distance and bearing math.
func (f Fix) Point() *geo.Point {
	return geo.NewPoint(f.Latitude, f.Longitude)
}

// fixJSON is the wire form published over MQTT and HTTP.
type fixJSON struct {
	Timestamp   int64     `json:"timestamp"`
	DateTime    string    `json:"datetime"`
	Time        string    `json:"time"`
	Date        string    `json:"date"`
	Latitude    float64   `json:"lat"`
	Longitude   float64   `json:"lon"`
	SpeedKmh    float64   `json:"speed_kmh"`
	CourseDeg   float64   `json:"course_deg"`
	Angle       string    `json:"angle"`
	Direction   Direction `json:"direction"`
	DirectionCN string    `json:"direction_cn"`
	Validity    string    `json:"validity"`
	Valid       bool      `json:"valid"`
}

func (f Fix) MarshalJSON() ([]byte, error) {
	return json.Marshal(fixJSON{
		Timestamp:   f.Unix(),
		DateTime:    f.DateTime(),
		Time:        f.Timestamp.Format("15:04:05"),
		Date:        f.Timestamp.Format("2006-01-02"),
		Latitude:    f.Latitude,
		Longitude:   f.Longitude,
		SpeedKmh:    f.SpeedKmh,
		CourseDeg:   f.BearingDeg,
		Angle:       f.Angle,
		Direction:   f.Direction,
		DirectionCN: f.Direction.Chinese(),
		Validity:    f.Status,
		Valid:       f.Valid,
	})
}

func (f *Fix) UnmarshalJSON(data []byte) error {
	var w fixJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*f = Fix{
		Valid:      w.Valid,
		Status:     w.Validity,
		Timestamp:  time.Unix(w.Timestamp, 0).UTC(),
		Latitude:   w.Latitude,
		Longitude:  w.Longitude,
		SpeedKmh:   w.SpeedKmh,
		BearingDeg: w.CourseDeg,
		Angle:      w.Angle,
		Direction:  w.Direction,
	}
	return nil
}
