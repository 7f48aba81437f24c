// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Command gprmc_decode decodes GPRMC sentences given as arguments or on
// stdin, and encodes synthetic sentences for testing receivers and
// consumers.
//
// Run:
//
//	gprmc_decode decode '$GPRMC,161229.487,A,3723.2475,N,12158.3416,W,0.13,309.62,120598,,,*10'
//	cat capture.nmea | gprmc_decode decode --json
//	gprmc_decode encode --lat 37.38745833 --lon -121.97236 --speed-kmh 12 --bearing 90
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/relabs-tech/gprmc/internal/gps"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "gprmc_decode",
		Usage: "decode and encode NMEA GPRMC sentences",
		Commands: []*cli.Command{
			{
				Name:      "decode",
				Usage:     "decode sentences from arguments, or from stdin one per line",
				ArgsUsage: "[SENTENCE...]",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "strict", Usage: "reject sentences that are short or not tagged $GPRMC"},
					&cli.BoolFlag{Name: "json", Usage: "print fixes as JSON lines"},
				},
				Action: runDecode,
			},
			{
				Name:  "encode",
				Usage: "print a synthetic GPRMC sentence",
				Flags: []cli.Flag{
					&cli.Float64Flag{Name: "lat", Usage: "latitude, decimal degrees"},
					&cli.Float64Flag{Name: "lon", Usage: "longitude, decimal degrees"},
					&cli.Float64Flag{Name: "speed-kmh", Usage: "speed over ground"},
					&cli.Float64Flag{Name: "bearing", Usage: "course over ground, degrees"},
					&cli.StringFlag{Name: "time", Usage: "receiver UTC time, RFC 3339 (default now)"},
					&cli.BoolFlag{Name: "void", Usage: "mark the fix void (status V)"},
				},
				Action: runEncode,
			},
		},
	}
}

func runDecode(c *cli.Context) error {
	dec := gps.Decoder{}
	if c.Bool("strict") {
		dec.Mode = gps.ValidationStrict
	}

	var src io.Reader = c.App.Reader
	if c.Args().Present() {
		src = strings.NewReader(strings.Join(c.Args().Slice(), "\n"))
	}

	failures, err := decodeLines(src, c.App.Writer, c.App.ErrWriter, dec, c.Bool("json"))
	if err != nil {
		return err
	}
	if failures > 0 {
		return cli.Exit(fmt.Sprintf("%d sentence(s) failed to decode", failures), 1)
	}
	return nil
}

// decodeLines decodes each non-blank line of r and reports how many failed.
func decodeLines(r io.Reader, out, errOut io.Writer, dec gps.Decoder, asJSON bool) (int, error) {
	failures := 0
	enc := json.NewEncoder(out)
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fix, err := dec.Decode(line)
		if err != nil {
			failures++
			fmt.Fprintf(errOut, "line %d: %v\n", lineNum, err)
			continue
		}
		if asJSON {
			if err := enc.Encode(fix); err != nil {
				return failures, err
			}
			continue
		}
		fmt.Fprintln(out, formatFix(fix))
	}
	return failures, scanner.Err()
}

func formatFix(f gps.Fix) string {
	return fmt.Sprintf("valid=%v datetime=%s lat=%.8f lon=%.8f speed=%.4fkm/h course=%s direction=%s (%s)",
		f.Valid, f.DateTime(), f.Latitude, f.Longitude, f.SpeedKmh, f.Angle, f.Direction, f.Direction.Chinese())
}

func runEncode(c *cli.Context) error {
	receiverTime := time.Now().UTC().Truncate(time.Second)
	if s := c.String("time"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return cli.Exit(fmt.Sprintf("invalid --time %q: %v", s, err), 1)
		}
		receiverTime = t.UTC()
	}

	fix, err := buildFix(c.Float64("lat"), c.Float64("lon"), c.Float64("speed-kmh"), c.Float64("bearing"), receiverTime, !c.Bool("void"))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	fmt.Fprintln(c.App.Writer, gps.Encode(fix))
	return nil
}

// buildFix assembles a Fix from decimal inputs, applying the same range
// rules as the decoder.
func buildFix(lat, lon, speedKmh, bearing float64, receiverTime time.Time, valid bool) (gps.Fix, error) {
	if lat < -90 || lat > 90 {
		return gps.Fix{}, fmt.Errorf("latitude %v out of range", lat)
	}
	if lon < -180 || lon > 180 {
		return gps.Fix{}, fmt.Errorf("longitude %v out of range", lon)
	}
	if speedKmh < 0 {
		return gps.Fix{}, fmt.Errorf("speed %v is negative", speedKmh)
	}
	if y := receiverTime.Year(); y < 2000 || y > 2099 {
		return gps.Fix{}, fmt.Errorf("year %d cannot be encoded as ddmmyy", y)
	}
	dir, err := gps.ClassifyDirection(bearing, speedKmh)
	if err != nil {
		return gps.Fix{}, err
	}
	status := "V"
	if valid {
		status = gps.StatusActive
	}
	return gps.Fix{
		Valid:      valid,
		Status:     status,
		Timestamp:  receiverTime.Add(gps.UTCOffset),
		Latitude:   lat,
		Longitude:  lon,
		SpeedKmh:   speedKmh,
		BearingDeg: bearing,
		Direction:  dir,
	}, nil
}
