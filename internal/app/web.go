package app

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gorilla/websocket"

	"github.com/relabs-tech/gprmc/internal/config"
	"github.com/relabs-tech/gprmc/internal/gps"
)

// maxSentenceBytes bounds POST /api/decode bodies. A GPRMC sentence is well
// under 100 bytes.
const maxSentenceBytes = 1024

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // served on the local network only
	},
}

// fixHub keeps the latest fix and fans new ones out to websocket clients.
type fixHub struct {
	mu   sync.RWMutex
	last gps.Fix
	have bool
	subs map[chan gps.Fix]struct{}
}

func newFixHub() *fixHub {
	return &fixHub{subs: make(map[chan gps.Fix]struct{})}
}

func (h *fixHub) update(f gps.Fix) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.last = f
	h.have = true
	for ch := range h.subs {
		select {
		case ch <- f:
		default:
			// slow client, drop
		}
	}
}

func (h *fixHub) latest() (gps.Fix, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.last, h.have
}

// subscribe registers a channel and returns it with the current fix, if any.
func (h *fixHub) subscribe() (ch chan gps.Fix, cur gps.Fix, have bool, cancel func()) {
	ch = make(chan gps.Fix, 8)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	cur, have = h.last, h.have
	h.mu.Unlock()
	return ch, cur, have, func() {
		h.mu.Lock()
		delete(h.subs, ch)
		h.mu.Unlock()
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("web: json encode error: %v", err)
	}
}

func (h *fixHub) handleLatest(w http.ResponseWriter, r *http.Request) {
	f, ok := h.latest()
	if !ok {
		http.Error(w, "no data yet", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

// handleDecode decodes the sentence in the request body. ?strict=1 selects
// strict shape validation.
func handleDecode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	dec := gps.Decoder{}
	if v := r.URL.Query().Get("strict"); v != "" {
		strict, err := strconv.ParseBool(v)
		if err != nil {
			http.Error(w, fmt.Sprintf("invalid strict value %q", v), http.StatusBadRequest)
			return
		}
		if strict {
			dec.Mode = gps.ValidationStrict
		}
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxSentenceBytes+1))
	if err != nil {
		http.Error(w, "read error", http.StatusBadRequest)
		return
	}
	if len(body) > maxSentenceBytes {
		http.Error(w, "sentence too long", http.StatusRequestEntityTooLarge)
		return
	}

	sentence := strings.TrimSpace(string(body))
	fix, err := dec.Decode(sentence)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, newDecodeFailure(sentence, err))
		return
	}
	writeJSON(w, http.StatusOK, fix)
}

// handleStream pushes every new fix to the websocket client as JSON.
func (h *fixHub) handleStream(w http.ResponseWriter, r *http.Request) {
	ch, cur, have, cancel := h.subscribe()
	defer cancel()

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("web: websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	// Reader goroutine only watches for the client going away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Printf("web: websocket error: %v", err)
				}
				return
			}
		}
	}()

	if have {
		if err := conn.WriteJSON(cur); err != nil {
			return
		}
	}
	for {
		select {
		case f := <-ch:
			if err := conn.WriteJSON(f); err != nil {
				log.Printf("web: websocket write error: %v", err)
				return
			}
		case <-done:
			return
		}
	}
}

func newWebMux(hub *fixHub, staticDir string) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/gps", hub.handleLatest)
	mux.HandleFunc("/api/decode", handleDecode)
	mux.HandleFunc("/ws/gps", hub.handleStream)
	if staticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(staticDir)))
	}
	return mux
}

// RunWeb subscribes to decoded fixes and serves them over HTTP and
// websocket, next to an on-demand decode endpoint.
func RunWeb(cfg *config.Config) error {
	hub := newFixHub()

	// 1) Connect to MQTT broker
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDWeb)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	defer client.Disconnect(250)
	log.Printf("web: connected to MQTT broker at %s", cfg.MQTTBroker)

	// 2) Subscribe to fixes and update the hub on each message
	token := client.Subscribe(cfg.TopicGPS, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var f gps.Fix
		if err := json.Unmarshal(msg.Payload(), &f); err != nil {
			log.Printf("web: MQTT payload unmarshal error: %v", err)
			return
		}
		hub.update(f)
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("web: subscribed to MQTT topic %s", cfg.TopicGPS)

	// 3) Static files from ./web as the root
	addr := fmt.Sprintf(":%d", cfg.WebServerPort)
	log.Printf("web: listening on %s", addr)
	return http.ListenAndServe(addr, newWebMux(hub, "web"))
}
