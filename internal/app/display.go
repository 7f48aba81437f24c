package app

import (
	"encoding/json"
	"fmt"
	"image"
	"log"
	"math"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/gprmc/internal/config"
	"github.com/relabs-tech/gprmc/internal/gps"
)

const (
	displayWidth  = 128
	displayHeight = 64
	lineHeight    = 13
)

// displayState holds the latest fix for the display loop.
type displayState struct {
	mu      sync.RWMutex
	fix     gps.Fix
	haveFix bool
}

func (s *displayState) set(f gps.Fix) {
	s.mu.Lock()
	s.fix = f
	s.haveFix = true
	s.mu.Unlock()
}

func (s *displayState) get() (gps.Fix, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fix, s.haveFix
}

// addrBus sends every transaction to addr. ssd1306.NewI2C always talks to
// 0x3C, so panels strapped to 0x3D need the rewrite.
type addrBus struct {
	i2c.Bus
	addr uint16
}

func (b addrBus) Tx(_ uint16, w, r []byte) error {
	return b.Bus.Tx(b.addr, w, r)
}

func RunDisplay(cfg *config.Config) error {
	// Initialize periph
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("failed to initialize periph: %w", err)
	}

	// Open I2C bus
	bus, err := i2creg.Open("")
	if err != nil {
		return fmt.Errorf("failed to open I2C bus: %w", err)
	}
	defer bus.Close()

	dev, err := ssd1306.NewI2C(addrBus{Bus: bus, addr: cfg.DisplayI2CAddr}, &ssd1306.DefaultOpts)
	if err != nil {
		return fmt.Errorf("failed to initialize display: %w", err)
	}
	log.Printf("display: initialized at 0x%02X", cfg.DisplayI2CAddr)

	if err := draw(dev, renderLines("GPRMC fix", "Looking for", "sats")); err != nil {
		log.Printf("display: error showing splash: %v", err)
	}

	state := &displayState{}

	// Connect to MQTT
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDDisplay)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	defer client.Disconnect(250)
	log.Printf("display: connected to MQTT broker at %s", cfg.MQTTBroker)

	token := client.Subscribe(cfg.TopicGPS, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var f gps.Fix
		if err := json.Unmarshal(msg.Payload(), &f); err != nil {
			log.Printf("display: gps unmarshal error: %v", err)
			return
		}
		state.set(f)
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("display: subscribed to %s", cfg.TopicGPS)

	ticker := time.NewTicker(time.Duration(cfg.DisplayUpdateInterval) * time.Millisecond)
	defer ticker.Stop()

	log.Println("display: starting update loop")
	for range ticker.C {
		f, ok := state.get()
		if err := draw(dev, renderFix(f, ok)); err != nil {
			log.Printf("display: error updating display: %v", err)
		}
	}
	return nil
}

func draw(dev *ssd1306.Dev, img *image1bit.VerticalLSB) error {
	return dev.Draw(dev.Bounds(), img, image.Point{})
}

// fixLines lays out a fix as up to four 7x13 text rows.
func fixLines(f gps.Fix, haveFix bool) []string {
	if !haveFix {
		return []string{"", "GPS Position", "Waiting..."}
	}

	latDir := "N"
	if f.Latitude < 0 {
		latDir = "S"
	}
	lonDir := "E"
	if f.Longitude < 0 {
		lonDir = "W"
	}
	status := "OK"
	if !f.Valid {
		status = "VOID"
	}
	return []string{
		fmt.Sprintf("%.5f%s %s", math.Abs(f.Latitude), latDir, status),
		fmt.Sprintf("%.5f%s", math.Abs(f.Longitude), lonDir),
		fmt.Sprintf("%.1fkm/h %.0f", f.SpeedKmh, f.BearingDeg),
		f.Direction.String(),
	}
}

func renderFix(f gps.Fix, haveFix bool) *image1bit.VerticalLSB {
	return renderLines(fixLines(f, haveFix)...)
}

func renderLines(lines ...string) *image1bit.VerticalLSB {
	img := image1bit.NewVerticalLSB(image.Rect(0, 0, displayWidth, displayHeight))

	drawer := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{image1bit.On},
		Face: basicfont.Face7x13,
	}
	for i, line := range lines {
		if i*lineHeight >= displayHeight {
			break
		}
		drawer.Dot = fixed.P(0, (i+1)*lineHeight)
		drawer.DrawString(line)
	}
	return img
}
