// Event Viewer - Live webhook event display
// Consumes forwarded webhook events from Kafka and displays via WebSocket to browser
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/segmentio/kafka-go"
	"github.com/tidwall/gjson"
)

// ViewerEvent is the normalized row pushed to connected browsers.
type ViewerEvent struct {
	Event     string `json:"event"`
	BotID     string `json:"botId"`
	Detail    string `json:"detail"`
	Timestamp int64  `json:"timestamp"`
}

// Hub manages WebSocket connections
type Hub struct {
	clients    map[*websocket.Conn]bool
	broadcast  chan ViewerEvent
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	mu         sync.RWMutex
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

func newHub() *Hub {
	return &Hub{
		clients:    make(map[*websocket.Conn]bool),
		broadcast:  make(chan ViewerEvent, 100),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
	}
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			h.clients[conn] = true
			h.mu.Unlock()
			log.Printf("Client connected. Total: %d", len(h.clients))

		case conn := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
			}
			h.mu.Unlock()
			log.Printf("Client disconnected. Total: %d", len(h.clients))

		case event := <-h.broadcast:
			h.mu.RLock()
			for conn := range h.clients {
				err := conn.WriteJSON(event)
				if err != nil {
					log.Printf("Write error: %v", err)
					conn.Close()
					delete(h.clients, conn)
				}
			}
			h.mu.RUnlock()
		}
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local dev
	},
}

func wsHandler(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("WebSocket upgrade error: %v", err)
			return
		}
		hub.register <- conn

		// Keep connection alive, handle disconnects
		go func() {
			defer func() {
				hub.unregister <- conn
			}()
			for {
				_, _, err := conn.ReadMessage()
				if err != nil {
					break
				}
			}
		}()
	}
}

// describe renders one line per event type for the browser table.
func describe(payload gjson.Result) ViewerEvent {
	event := payload.Get("event").String()
	data := payload.Get("data")

	out := ViewerEvent{
		Event:     event,
		BotID:     data.Get("bot_id").String(),
		Timestamp: time.Now().UnixMilli(),
	}

	switch event {
	case "bot.status_change":
		out.Detail = data.Get("status.code").String()
	case "transcript.data":
		speaker := data.Get("data.participant.name").String()
		if speaker == "" {
			speaker = "Unknown"
		}
		words := data.Get("data.words").Array()
		texts := make([]string, 0, len(words))
		for _, w := range words {
			texts = append(texts, w.Get("text").String())
		}
		out.Detail = speaker + ": " + truncate(strings.Join(texts, " "), 80)
	case "participant_events.join", "participant_events.leave":
		out.Detail = data.Get("data.participant.name").String()
	default:
		out.Detail = truncate(data.Raw, 80)
	}
	return out
}

func consumeKafka(ctx context.Context, hub *Hub, brokers, topic string) {
	// Use partition reader without consumer group (works better through port-forward)
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:   strings.Split(brokers, ","),
		Topic:     topic,
		Partition: 0, // Read from partition 0 only (simplest for demo)
		MinBytes:  1,
		MaxBytes:  10e6,
	})
	defer reader.Close()

	// Start from the latest offset (only show new messages)
	reader.SetOffsetAt(ctx, time.Now().Add(-1*time.Hour)) // Last hour of messages

	log.Printf("Consuming from Kafka topic: %s partition 0 (last hour)", topic)

	for {
		select {
		case <-ctx.Done():
			return
		default:
			msg, err := reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				log.Printf("Kafka read error on %s: %v", topic, err)
				time.Sleep(time.Second)
				continue
			}

			payload := gjson.ParseBytes(msg.Value)
			if !payload.IsObject() {
				log.Printf("Skipping non-JSON message at offset %d", msg.Offset)
				continue
			}

			event := describe(payload)
			log.Printf("Received %s bot=%s %s", event.Event, event.BotID, event.Detail)
			hub.broadcast <- event
		}
	}
}

const indexHTML = `<!DOCTYPE html>
<html>
<head><title>Webhook Event Viewer</title>
<style>
body { font-family: monospace; background: #111; color: #ddd; margin: 2em; }
table { border-collapse: collapse; width: 100%; }
td, th { padding: 4px 12px; border-bottom: 1px solid #333; text-align: left; }
.event { color: #8bc34a; }
</style>
</head>
<body>
<h2>Webhook Events</h2>
<table id="events"><tr><th>Time</th><th>Event</th><th>Bot</th><th>Detail</th></tr></table>
<script>
const ws = new WebSocket("ws://" + location.host + "/ws");
ws.onmessage = (m) => {
  const e = JSON.parse(m.data);
  const row = document.getElementById("events").insertRow(1);
  row.insertCell(0).textContent = new Date(e.timestamp).toLocaleTimeString();
  row.insertCell(1).innerHTML = '<span class="event">' + e.event + '</span>';
  row.insertCell(2).textContent = e.botId;
  row.insertCell(3).textContent = e.detail;
};
</script>
</body>
</html>`

func main() {
	port := flag.String("port", "8081", "HTTP server port")
	brokers := flag.String("brokers", "localhost:9092", "Kafka brokers (comma-separated)")
	topic := flag.String("topic", "meeting.webhook.events", "Webhook event topic")
	flag.Parse()

	hub := newHub()
	go hub.run()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go consumeKafka(ctx, hub, *brokers, *topic)

	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(indexHTML))
	})

	// WebSocket endpoint
	http.HandleFunc("/ws", wsHandler(hub))

	log.Printf("Event Viewer starting on http://localhost:%s", *port)
	log.Printf("   Kafka brokers: %s", *brokers)
	log.Printf("   Topic: %s", *topic)

	if err := http.ListenAndServe(":"+*port, nil); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
