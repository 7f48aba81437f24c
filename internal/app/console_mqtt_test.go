package app

import (
	"strings"
	"testing"

	"github.com/relabs-tech/gprmc/internal/gps"
)

func TestFixPrinter_TracksDistance(t *testing.T) {
	var p fixPrinter

	first := p.format(gps.Fix{Valid: true, Latitude: 0, Longitude: 0, SpeedKmh: 10, Direction: gps.East})
	if !strings.Contains(first, "step=0.000km") || !strings.Contains(first, "东") {
		t.Fatalf("unexpected first line %q", first)
	}

	// One degree of longitude on the equator is ~111.2 km.
	p.format(gps.Fix{Valid: true, Latitude: 0, Longitude: 1, SpeedKmh: 10, Direction: gps.East})
	if p.totalKm < 110 || p.totalKm > 112.5 {
		t.Fatalf("unexpected total %v", p.totalKm)
	}

	// Void fixes do not move the reference point.
	void := p.format(gps.Fix{Valid: false, Latitude: 50, Longitude: 50})
	if !strings.HasSuffix(void, "VOID") {
		t.Fatalf("expected VOID marker, got %q", void)
	}
	if p.last.Lng() != 1 {
		t.Fatalf("void fix moved reference to %v", p.last)
	}
}
