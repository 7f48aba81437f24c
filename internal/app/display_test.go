package app

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"periph.io/x/conn/v3/i2c"

	"github.com/relabs-tech/gprmc/internal/gps"
)

func TestFixLines(t *testing.T) {
	f := gps.Fix{
		Valid:      true,
		Latitude:   37.38745833,
		Longitude:  -121.97236,
		SpeedKmh:   0.24076,
		BearingDeg: 309.62,
		Direction:  gps.NorthWest,
	}
	want := []string{
		"37.38746N OK",
		"121.97236W",
		"0.2km/h 310",
		"North-West",
	}
	if diff := cmp.Diff(want, fixLines(f, true)); diff != "" {
		t.Fatalf("lines mismatch (-want +got):\n%s", diff)
	}

	f.Valid = false
	f.Latitude = -1
	if got := fixLines(f, true)[0]; got != "1.00000S VOID" {
		t.Fatalf("unexpected first line %q", got)
	}
	if got := fixLines(gps.Fix{}, false); got[2] != "Waiting..." {
		t.Fatalf("unexpected waiting screen %q", got)
	}
}

func countOn(pix []byte) int {
	n := 0
	for _, b := range pix {
		for ; b != 0; b &= b - 1 {
			n++
		}
	}
	return n
}

func TestRenderFix_DrawsPixels(t *testing.T) {
	blank := renderLines()
	if countOn(blank.Pix) != 0 {
		t.Fatalf("expected blank frame")
	}
	img := renderFix(gps.Fix{Valid: true, Direction: gps.Stopped}, true)
	if img.Bounds().Dx() != displayWidth || img.Bounds().Dy() != displayHeight {
		t.Fatalf("unexpected bounds %v", img.Bounds())
	}
	if countOn(img.Pix) == 0 {
		t.Fatalf("expected text pixels")
	}
}

type recordingBus struct {
	i2c.Bus
	addrs []uint16
}

func (b *recordingBus) Tx(addr uint16, w, r []byte) error {
	b.addrs = append(b.addrs, addr)
	return nil
}

func TestAddrBus_RewritesAddress(t *testing.T) {
	rec := &recordingBus{}
	bus := addrBus{Bus: rec, addr: 0x3D}
	for _, addr := range []uint16{0x3C, 0x00} {
		if err := bus.Tx(addr, []byte{0xAE}, nil); err != nil {
			t.Fatalf("tx: %v", err)
		}
	}
	if diff := cmp.Diff([]uint16{0x3D, 0x3D}, rec.addrs); diff != "" {
		t.Fatalf("addresses mismatch (-want +got):\n%s", diff)
	}
}
