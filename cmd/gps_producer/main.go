package main

import (
	"flag"
	"log"

	"github.com/relabs-tech/gprmc/internal/app"
	"github.com/relabs-tech/gprmc/internal/config"
)

func main() {
	configPath := flag.String("config", "gprmc_config.txt", "path to configuration file")
	flag.Parse()

	log.Println("starting gprmc GPS producer (NMEA → MQTT)")

	// Load configuration
	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunGPSProducer(config.Get()); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
