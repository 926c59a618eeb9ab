package events

import (
	"context"
	"testing"
)

func TestNew_DisabledMode(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
	}{
		{"disabled", &Config{Enabled: false, Brokers: []string{"localhost:9092"}}},
		{"no brokers", &Config{Enabled: true, Brokers: []string{}}},
		{"empty brokers", &Config{Enabled: true, Brokers: nil}},
		{"nil config", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.cfg)
			if p == nil {
				t.Fatal("expected non-nil publisher")
			}
			if p.enabled {
				t.Error("expected publisher to be disabled")
			}
			if p.writer != nil {
				t.Error("expected nil writer when disabled")
			}
		})
	}
}

func TestNew_ConfigValues(t *testing.T) {
	cfg := &Config{
		Enabled:   false,
		Brokers:   []string{"localhost:9092"},
		Topic:     "meeting.webhook.events",
		Principal: "test-principal",
	}

	p := New(cfg)

	if p.principal != "test-principal" {
		t.Errorf("expected principal 'test-principal', got %s", p.principal)
	}
	if p.topic != "meeting.webhook.events" {
		t.Errorf("expected topic 'meeting.webhook.events', got %s", p.topic)
	}
	if p.Enabled() {
		t.Error("expected Enabled() to report false")
	}
}

func TestPublisher_Publish_Disabled(t *testing.T) {
	p := New(&Config{Enabled: false})

	event := map[string]string{"event": "bot.status_change"}
	err := p.Publish(context.Background(), "bot-123", "bot.status_change", event)

	if err != nil {
		t.Errorf("expected no error when disabled, got %v", err)
	}
}

func TestPublisher_Publish_InvalidJSON(t *testing.T) {
	p := New(&Config{Enabled: false})

	// Create an unmarshalable value (channel)
	event := make(chan int)
	err := p.Publish(context.Background(), "bot-123", "bot.status_change", event)

	if err == nil {
		t.Error("expected error for unmarshalable event")
	}
}

func TestPublisher_Close_NoWriter(t *testing.T) {
	p := New(&Config{Enabled: false})

	err := p.Close()
	if err != nil {
		t.Errorf("expected no error closing disabled publisher, got %v", err)
	}
}

func TestPublisher_Close_NilWriter(t *testing.T) {
	p := &Publisher{writer: nil}

	err := p.Close()
	if err != nil {
		t.Errorf("expected no error closing publisher with nil writer, got %v", err)
	}
}

type testEvent struct {
	Event string `json:"event"`
	BotID string `json:"bot_id"`
}

func TestPublisher_Publish_ValidEvent(t *testing.T) {
	p := New(&Config{
		Enabled:   false,
		Topic:     "meeting.webhook.events",
		Principal: "test-svc",
	})

	event := testEvent{
		Event: "transcript.data",
		BotID: "bot-123",
	}

	err := p.Publish(context.Background(), "bot-123", "transcript.data", event)
	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}
