package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gprmc_config.txt")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const minimal = `
# broker
MQTT_BROKER=tcp://localhost:1883
TOPIC_GPS=gprmc/fix
GPS_SERIAL_PORT=/dev/serial0
GPS_BAUD_RATE=9600
`

func TestLoad_MinimalAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimal))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := defaults()
	want.MQTTBroker = "tcp://localhost:1883"
	want.TopicGPS = "gprmc/fix"
	want.GPSSerialPort = "/dev/serial0"
	want.GPSBaudRate = 9600
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_AllKeys(t *testing.T) {
	body := minimal + `
MQTT_CLIENT_ID_GPS = gps-1
MQTT_CLIENT_ID_CONSOLE=console-1
MQTT_CLIENT_ID_WEB=web-1
MQTT_CLIENT_ID_DISPLAY=display-1
TOPIC_GPS_ERRORS=gprmc/errors
GPS_STRICT_VALIDATION=true
GPS_VERIFY_CHECKSUM=false
WEB_SERVER_PORT=9090
DISPLAY_I2C_ADDR=0x3D
DISPLAY_UPDATE_INTERVAL=250
`
	cfg, err := Load(writeConfig(t, body))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.MQTTClientIDGPS != "gps-1" || cfg.MQTTClientIDDisplay != "display-1" {
		t.Fatalf("client ids not applied: %+v", cfg)
	}
	if !cfg.GPSStrictValidation || cfg.GPSVerifyChecksum {
		t.Fatalf("gps flags not applied: %+v", cfg)
	}
	if cfg.TopicGPSErrors != "gprmc/errors" || cfg.WebServerPort != 9090 {
		t.Fatalf("unexpected %+v", cfg)
	}
	if cfg.DisplayI2CAddr != 0x3D || cfg.DisplayUpdateInterval != 250 {
		t.Fatalf("display settings not applied: %+v", cfg)
	}
}

func TestLoad_Errors(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"unknown key", minimal + "FOO=bar\n", "unknown config key"},
		{"no equals", minimal + "JUSTAKEY\n", "invalid config line"},
		{"bad baud", strings.Replace(minimal, "9600", "fast", 1), "GPS_BAUD_RATE"},
		{"bad bool", minimal + "GPS_STRICT_VALIDATION=maybe\n", "GPS_STRICT_VALIDATION"},
		{"bad port", minimal + "WEB_SERVER_PORT=70000\n", "WEB_SERVER_PORT"},
		{"missing broker", strings.Replace(minimal, "MQTT_BROKER=tcp://localhost:1883", "", 1), "MQTT_BROKER is required"},
		{"missing topic", strings.Replace(minimal, "TOPIC_GPS=gprmc/fix", "", 1), "TOPIC_GPS is required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.body))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Fatalf("expected error")
	}
}

func TestInitGlobal(t *testing.T) {
	if err := InitGlobal(writeConfig(t, minimal)); err != nil {
		t.Fatalf("init: %v", err)
	}
	if Get() == nil || Get().TopicGPS != "gprmc/fix" {
		t.Fatalf("unexpected global config %+v", Get())
	}
	// Second call is a no-op.
	if err := InitGlobal("does-not-exist"); err != nil {
		t.Fatalf("second init: %v", err)
	}
}
