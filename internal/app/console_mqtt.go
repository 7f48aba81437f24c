package app

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	geo "github.com/kellydunn/golang-geo"

	"github.com/relabs-tech/gprmc/internal/config"
	"github.com/relabs-tech/gprmc/internal/gps"
)

// fixPrinter formats fixes for the console and tracks the distance covered
// between consecutive valid fixes.
type fixPrinter struct {
	mu      sync.Mutex
	last    *geo.Point
	totalKm float64
}

func (p *fixPrinter) format(f gps.Fix) string {
	p.mu.Lock()
	defer p.mu.Unlock()

	stepKm := 0.0
	if f.Valid {
		pt := f.Point()
		if p.last != nil {
			stepKm = p.last.GreatCircleDistance(pt)
			p.totalKm += stepKm
		}
		p.last = pt
	}

	validity := "VOID"
	if f.Valid {
		validity = "OK"
	}
	return fmt.Sprintf(
		"[GPS ]  %s lat=%.8f lon=%.8f speed=%.2fkm/h course=%.2f° %s (%s) step=%.3fkm total=%.3fkm %s",
		f.DateTime(), f.Latitude, f.Longitude, f.SpeedKmh, f.BearingDeg,
		f.Direction, f.Direction.Chinese(), stepKm, p.totalKm, validity,
	)
}

// RunConsoleMQTT prints every fix published on cfg.TopicGPS, and decode
// failures on cfg.TopicGPSErrors when configured.
func RunConsoleMQTT(cfg *config.Config) error {
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDConsole)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("console: connected to MQTT broker at %s", cfg.MQTTBroker)

	printer := &fixPrinter{}
	gpsToken := client.Subscribe(cfg.TopicGPS, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var f gps.Fix
		if err := json.Unmarshal(msg.Payload(), &f); err != nil {
			log.Printf("console: gps unmarshal error: %v", err)
			return
		}
		fmt.Println(printer.format(f))
	})
	gpsToken.Wait()
	if gpsToken.Error() != nil {
		return gpsToken.Error()
	}
	log.Printf("console: subscribed to %s", cfg.TopicGPS)

	if cfg.TopicGPSErrors != "" {
		errToken := client.Subscribe(cfg.TopicGPSErrors, 0, func(_ mqtt.Client, msg mqtt.Message) {
			var failure DecodeFailure
			if err := json.Unmarshal(msg.Payload(), &failure); err != nil {
				log.Printf("console: decode failure unmarshal error: %v", err)
				return
			}
			fmt.Printf("[ERR ]  %s field=%s value=%q: %s\n", failure.Kind, failure.Field, failure.Value, failure.Sentence)
		})
		errToken.Wait()
		if errToken.Error() != nil {
			return errToken.Error()
		}
		log.Printf("console: subscribed to %s", cfg.TopicGPSErrors)
	}

	// Wait for Ctrl+C
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("console: shutting down")
	client.Disconnect(250)
	return nil
}
