package app

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	nmea "github.com/adrianmo/go-nmea"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	serial "github.com/jacobsa/go-serial/serial"
	"go.uber.org/multierr"

	"github.com/relabs-tech/gprmc/internal/config"
	"github.com/relabs-tech/gprmc/internal/gps"
)

// Publisher sends one payload to a topic.
type Publisher interface {
	Publish(topic string, payload []byte) error
}

// mqttPublisher publishes retained QoS 0 messages and waits for each token.
type mqttPublisher struct {
	client mqtt.Client
}

func (p mqttPublisher) Publish(topic string, payload []byte) error {
	token := p.client.Publish(topic, 0, true, payload)
	token.Wait()
	return token.Error()
}

// DecodeFailure is the payload published when a sentence cannot be decoded.
type DecodeFailure struct {
	Sentence string `json:"sentence"`
	Kind     string `json:"kind"`
	Field    string `json:"field,omitempty"`
	Value    string `json:"value,omitempty"`
	Error    string `json:"error"`
}

func newDecodeFailure(sentence string, err error) DecodeFailure {
	out := DecodeFailure{Sentence: sentence, Error: err.Error()}
	var de *gps.DecodeError
	if errors.As(err, &de) {
		out.Kind = string(de.Kind)
		out.Field = de.Field
		out.Value = de.Value
	}
	return out
}

// ProducerStats counts what the line processor did with its input.
type ProducerStats struct {
	Lines          int
	Fixes          int
	Skipped        int // blank, non-NMEA or non-RMC lines
	ChecksumErrors int
	DecodeErrors   int
	PublishErrors  int // marshal or broker failures; the line is dropped
}

// LineProcessor turns raw receiver lines into published fixes.
type LineProcessor struct {
	Decoder        gps.Decoder
	VerifyChecksum bool
	Publisher      Publisher
	FixTopic       string
	ErrorTopic     string // empty: decode failures are only logged

	Stats ProducerStats
}

// Process handles a single line read from the receiver. Failures are logged
// and counted in Stats; none of them stop the caller's read loop.
func (p *LineProcessor) Process(line string) {
	p.Stats.Lines++

	line = strings.TrimSpace(line)
	if line == "" || !strings.HasPrefix(line, "$") {
		p.Stats.Skipped++
		return
	}

	if p.VerifyChecksum {
		if err := verifyChecksum(line); err != nil {
			p.Stats.ChecksumErrors++
			log.Printf("gps producer: dropping %q: %v", line, err)
			return
		}
	}
	if !isRMC(line) {
		// GGA, GSA, GSV etc. are not decoded here.
		p.Stats.Skipped++
		return
	}

	fix, err := p.Decoder.Decode(line)
	if err != nil {
		p.Stats.DecodeErrors++
		log.Printf("gps producer: %v", err)
		if p.ErrorTopic != "" {
			p.publish(p.ErrorTopic, newDecodeFailure(line, err))
		}
		return
	}

	if !p.publish(p.FixTopic, fix) {
		return
	}
	p.Stats.Fixes++
	log.Printf("gps producer: published fix %s lat=%.8f lon=%.8f %.2fkm/h %s valid=%v",
		fix.DateTime(), fix.Latitude, fix.Longitude, fix.SpeedKmh, fix.Direction, fix.Valid)
}

// publish marshals v and sends it to topic, reporting whether it went out.
func (p *LineProcessor) publish(topic string, v any) bool {
	payload, err := json.Marshal(v)
	if err != nil {
		p.Stats.PublishErrors++
		log.Printf("gps producer: marshal for %s: %v", topic, err)
		return false
	}
	if err := p.Publisher.Publish(topic, payload); err != nil {
		// paho reconnects on its own; keep reading the receiver.
		p.Stats.PublishErrors++
		log.Printf("gps producer: publish to %s: %v", topic, err)
		return false
	}
	return true
}

// Run processes lines from r until EOF or a read error.
func (p *LineProcessor) Run(r io.Reader) error {
	reader := bufio.NewReader(r)
	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			p.Process(line)
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("gps read: %w", err)
		}
	}
}

// verifyChecksum checks the framing and *hh checksum of an NMEA line.
func verifyChecksum(line string) error {
	star := strings.LastIndexByte(line, '*')
	if star == -1 {
		return errors.New("nmea: missing checksum")
	}
	got := strings.TrimSpace(line[star+1:])
	if len(got) < 2 {
		return errors.New("nmea: short checksum")
	}
	want := nmea.Checksum(line[1:star])
	if !strings.EqualFold(got[:2], want) {
		return fmt.Errorf("nmea: checksum mismatch (got %s, want %s)", got[:2], want)
	}
	return nil
}

// isRMC reports whether the line's tag names a GPRMC sentence.
func isRMC(line string) bool {
	tag, _, _ := strings.Cut(line, ",")
	return tag == gps.SentenceTag
}

// RunGPSProducer opens the GPS serial port, decodes GPRMC sentences, and
// publishes fixes as JSON to cfg.TopicGPS.
func RunGPSProducer(cfg *config.Config) (err error) {
	// ---- 1) Connect to MQTT broker ----
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDGPS)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	defer client.Disconnect(250)
	log.Printf("gps producer: connected to MQTT broker at %s", cfg.MQTTBroker)

	// ---- 2) Open GPS serial port ----
	serialOpts := serial.OpenOptions{
		PortName:              cfg.GPSSerialPort,
		BaudRate:              uint(cfg.GPSBaudRate),
		DataBits:              8,
		StopBits:              1,
		MinimumReadSize:       1,
		ParityMode:            serial.PARITY_NONE,
		InterCharacterTimeout: 0,
	}

	port, err := serial.Open(serialOpts)
	if err != nil {
		return fmt.Errorf("open %s: %w", cfg.GPSSerialPort, err)
	}
	defer func() { err = multierr.Append(err, port.Close()) }()
	log.Printf("gps producer: serial port opened on %s at %d baud", serialOpts.PortName, serialOpts.BaudRate)

	mode := gps.ValidationLenient
	if cfg.GPSStrictValidation {
		mode = gps.ValidationStrict
	}
	proc := &LineProcessor{
		Decoder:        gps.Decoder{Mode: mode},
		VerifyChecksum: cfg.GPSVerifyChecksum,
		Publisher:      mqttPublisher{client: client},
		FixTopic:       cfg.TopicGPS,
		ErrorTopic:     cfg.TopicGPSErrors,
	}
	log.Printf("gps producer: %s validation, checksum verification %v", mode, cfg.GPSVerifyChecksum)

	err = proc.Run(port)
	log.Printf("gps producer: stopped after %+v", proc.Stats)
	return err
}
