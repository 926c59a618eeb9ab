package http

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"meeting-assistant-service/internal/app"
	"meeting-assistant-service/internal/config"
	"meeting-assistant-service/internal/events"
	"meeting-assistant-service/internal/recall"
	"meeting-assistant-service/internal/service/assistant"
	"meeting-assistant-service/internal/service/meetingdata"
)

const testSecretKey = "dGVzdC13ZWJob29rLWtleQ==" // base64("test-webhook-key")

// fixture wires a full router against fake provider and AI servers.
type fixture struct {
	api      *httptest.Server
	provider *httptest.Server
	ai       *httptest.Server

	providerStatus int
	providerBody   string
}

func newFixture(t *testing.T, apiKey, webhookSecret string) *fixture {
	t.Helper()

	f := &fixture{
		providerStatus: http.StatusOK,
		providerBody: `{
			"id": "bot-9",
			"meeting_url": "https://meet.example/xyz",
			"status_changes": [{"code": "joining", "created_at": "2024-03-01T10:00:00Z"}]
		}`,
	}

	providerMux := http.NewServeMux()
	providerMux.HandleFunc("/bot/", func(w http.ResponseWriter, r *http.Request) {
		if f.providerStatus != http.StatusOK {
			w.WriteHeader(f.providerStatus)
		}
		w.Write([]byte(f.providerBody))
	})
	f.provider = httptest.NewServer(providerMux)
	t.Cleanup(f.provider.Close)

	aiMux := http.NewServeMux()
	aiMux.HandleFunc("/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "cmpl-1",
			"object": "chat.completion",
			"choices": [{"index": 0, "finish_reason": "stop",
				"message": {"role": "assistant", "content": "Alice asked about the budget."}}]
		}`))
	})
	f.ai = httptest.NewServer(aiMux)
	t.Cleanup(f.ai.Close)

	cfg := &config.Configuration{
		Service: config.ServiceConfig{Port: "0", Principal: "test"},
		Recall: config.RecallConfig{
			APIKey:  apiKey,
			Timeout: 5 * time.Second,
		},
		Webhook: config.WebhookConfig{Secret: webhookSecret},
		AI: config.AIConfig{
			APIKey:      "ai-key",
			BaseURL:     f.ai.URL,
			Model:       "gemini-2.0-flash",
			MaxTokens:   500,
			Temperature: 0.7,
		},
		Observability: config.ObservabilityConfig{LogLevel: "error"},
	}

	provider := recall.NewWithBaseURL(apiKey, f.provider.URL, 5*time.Second)
	application := app.New(cfg)
	handlers := NewHandlers(
		cfg,
		provider,
		meetingdata.New(provider),
		assistant.New(cfg.AI),
		events.New(nil),
		application.Logger,
	)

	f.api = httptest.NewServer(NewRouter(application, handlers))
	t.Cleanup(f.api.Close)
	return f
}

func postJSON(t *testing.T, url, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	return resp, decoded
}

func TestCreateBot_MissingMeetingURL(t *testing.T) {
	f := newFixture(t, "key", "")

	resp, body := postJSON(t, f.api.URL+"/api/bot", `{}`)

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
	if body["error"] != "meeting_url is required" {
		t.Errorf("unexpected error: %v", body["error"])
	}
}

func TestCreateBot_MissingAPIKey(t *testing.T) {
	f := newFixture(t, "", "")

	resp, body := postJSON(t, f.api.URL+"/api/bot", `{"meeting_url": "https://meet.example/xyz"}`)

	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", resp.StatusCode)
	}
	if body["error"] != "RECALL_API_KEY is not configured" {
		t.Errorf("unexpected error: %v", body["error"])
	}
}

func TestCreateBot_Success(t *testing.T) {
	f := newFixture(t, "key", "")

	resp, body := postJSON(t, f.api.URL+"/api/bot", `{"meeting_url": "https://meet.example/xyz"}`)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if body["success"] != true {
		t.Error("expected success: true")
	}
	if body["bot_id"] != "bot-9" {
		t.Errorf("expected bot_id bot-9, got %v", body["bot_id"])
	}
	if body["status"] != "joining" {
		t.Errorf("expected status joining, got %v", body["status"])
	}
	if _, ok := body["full_response"]; !ok {
		t.Error("expected full_response to be present")
	}
}

func TestCreateBot_ProviderError(t *testing.T) {
	f := newFixture(t, "key", "")
	f.providerStatus = http.StatusForbidden
	f.providerBody = `{"detail": "invalid key"}`

	resp, body := postJSON(t, f.api.URL+"/api/bot", `{"meeting_url": "https://meet.example/xyz"}`)

	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", resp.StatusCode)
	}
	if body["error"] != "Failed to create bot" {
		t.Errorf("unexpected error: %v", body["error"])
	}
	if body["status"] != float64(http.StatusForbidden) {
		t.Errorf("expected provider status 403 in body, got %v", body["status"])
	}
	details, ok := body["details"].(map[string]any)
	if !ok || details["detail"] != "invalid key" {
		t.Errorf("expected provider details passed through, got %v", body["details"])
	}
}

func TestGetBot_Success(t *testing.T) {
	f := newFixture(t, "key", "")

	resp, err := http.Get(f.api.URL + "/api/bot/bot-9")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if body["bot_id"] != "bot-9" {
		t.Errorf("expected bot_id bot-9, got %v", body["bot_id"])
	}
	if body["status"] != "joining" {
		t.Errorf("expected status joining, got %v", body["status"])
	}
	if body["is_complete"] != false {
		t.Error("expected is_complete false")
	}
}

func TestGetBot_ProviderFailure(t *testing.T) {
	f := newFixture(t, "key", "")
	f.providerStatus = http.StatusNotFound
	f.providerBody = `{"detail": "not found"}`

	resp, err := http.Get(f.api.URL + "/api/bot/missing")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if body["error"] != "Failed to fetch bot data" {
		t.Errorf("unexpected error: %v", body["error"])
	}
	if body["bot_id"] != "missing" {
		t.Errorf("expected bot_id echoed back, got %v", body["bot_id"])
	}
}

func signWebhook(t *testing.T, msgID, timestamp, body string) string {
	t.Helper()
	key, err := base64.StdEncoding.DecodeString(testSecretKey)
	if err != nil {
		t.Fatalf("bad test key: %v", err)
	}
	mac := hmac.New(sha256.New, key)
	fmt.Fprintf(mac, "%s.%s.%s", msgID, timestamp, body)
	return "v1," + base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func postWebhook(t *testing.T, url, body string, headers map[string]string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("bad request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestWebhook_ValidSignature(t *testing.T) {
	f := newFixture(t, "key", "whsec_"+testSecretKey)

	body := `{"event": "bot.status_change", "data": {"bot_id": "bot-9", "status": {"code": "done"}}}`
	resp := postWebhook(t, f.api.URL+"/api/webhook", body, map[string]string{
		"svix-msg-id":    "msg_1",
		"svix-timestamp": "1709290000",
		"svix-signature": signWebhook(t, "msg_1", "1709290000", body),
	})

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if decoded["received"] != true {
		t.Errorf("expected received: true, got %v", decoded)
	}
}

func TestWebhook_InvalidSignature(t *testing.T) {
	f := newFixture(t, "key", "whsec_"+testSecretKey)

	body := `{"event": "transcript.data", "data": {}}`
	resp := postWebhook(t, f.api.URL+"/api/webhook", body, map[string]string{
		"svix-msg-id":    "msg_2",
		"svix-timestamp": "1709290001",
		"svix-signature": "v1,Zm9yZ2VkLXNpZ25hdHVyZQ==",
	})

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}

	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if decoded["error"] != "Invalid signature" {
		t.Errorf("unexpected error: %v", decoded["error"])
	}
}

func TestWebhook_NoSignatureHeadersSkipsVerification(t *testing.T) {
	f := newFixture(t, "key", "whsec_"+testSecretKey)

	body := `{"event": "participant_events.join", "data": {"data": {"participant": {"name": "Alice"}}}}`
	resp := postWebhook(t, f.api.URL+"/api/webhook", body, nil)

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 when signature headers are absent, got %d", resp.StatusCode)
	}
}

func TestWebhook_MalformedPayload(t *testing.T) {
	f := newFixture(t, "key", "")

	resp := postWebhook(t, f.api.URL+"/api/webhook", `not json at all`, nil)

	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}

	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if decoded["error"] != "Webhook processing failed" {
		t.Errorf("unexpected error: %v", decoded["error"])
	}
}

func TestChat_MissingMessage(t *testing.T) {
	f := newFixture(t, "key", "")

	resp, body := postJSON(t, f.api.URL+"/api/ai/chat", `{"meeting_data": {}}`)

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
	if body["error"] != "Message is required" {
		t.Errorf("unexpected error: %v", body["error"])
	}
}

func TestChat_Success(t *testing.T) {
	f := newFixture(t, "key", "")

	resp, body := postJSON(t, f.api.URL+"/api/ai/chat", `{
		"message": "What did Alice ask about?",
		"meeting_data": {"participants": [{"name": "Alice"}]}
	}`)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if body["response"] != "Alice asked about the budget." {
		t.Errorf("unexpected response: %v", body["response"])
	}
}

func TestHealthEndpoints(t *testing.T) {
	f := newFixture(t, "key", "")

	for _, path := range []string{"/v1/liveness", "/v1/readiness"} {
		resp, err := http.Get(f.api.URL + path)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, resp.StatusCode)
		}
	}
}
