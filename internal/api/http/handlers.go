package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"meeting-assistant-service/internal/config"
	"meeting-assistant-service/internal/events"
	"meeting-assistant-service/internal/models"
	"meeting-assistant-service/internal/observability/metrics"
	"meeting-assistant-service/internal/recall"
	"meeting-assistant-service/internal/service/assistant"
	"meeting-assistant-service/internal/service/meetingdata"
	"meeting-assistant-service/internal/webhook"
)

// Handlers holds the request handlers for the service API.
type Handlers struct {
	cfg       *config.Configuration
	provider  *recall.Client
	meetings  *meetingdata.Service
	assistant *assistant.Service
	publisher *events.Publisher
	metrics   *metrics.Metrics
	logger    zerolog.Logger
}

// NewHandlers wires the API handlers to their dependencies.
func NewHandlers(
	cfg *config.Configuration,
	provider *recall.Client,
	meetings *meetingdata.Service,
	ai *assistant.Service,
	publisher *events.Publisher,
	logger zerolog.Logger,
) *Handlers {
	return &Handlers{
		cfg:       cfg,
		provider:  provider,
		meetings:  meetings,
		assistant: ai,
		publisher: publisher,
		metrics:   metrics.DefaultMetrics,
		logger:    logger,
	}
}

type createBotRequest struct {
	MeetingURL string `json:"meeting_url"`
}

// CreateBot sends a recording bot into the meeting and returns the
// provider-assigned identifier with the initial status.
func (h *Handlers) CreateBot(w http.ResponseWriter, r *http.Request) {
	var req createBotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.MeetingURL == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "meeting_url is required"})
		return
	}

	if h.cfg.Recall.APIKey == "" {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "RECALL_API_KEY is not configured"})
		return
	}

	h.logger.Info().Str("meetingURL", req.MeetingURL).Msg("Creating recording bot")

	bot, err := h.provider.CreateBot(r.Context(), req.MeetingURL)
	h.metrics.RecordBotCreated(err)
	if err != nil {
		h.logger.Error().Err(err).Msg("Bot creation failed")
		status := 0
		details := any(err.Error())
		var apiErr *recall.APIError
		if errors.As(err, &apiErr) {
			status = apiErr.StatusCode
			if json.Valid([]byte(apiErr.Body)) {
				details = json.RawMessage(apiErr.Body)
			} else {
				details = apiErr.Body
			}
		}
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error":   "Failed to create bot",
			"details": details,
			"status":  status,
		})
		return
	}

	h.logger.Info().
		Str("botID", bot.ID).
		Str("status", bot.Status).
		Msg("Bot created")

	writeJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"bot_id":        bot.ID,
		"status":        bot.Status,
		"full_response": json.RawMessage(bot.Raw),
	})
}

// GetBot returns the unified meeting record for a bot, recomputed from the
// provider's current snapshot.
func (h *Handlers) GetBot(w http.ResponseWriter, r *http.Request) {
	botID := chi.URLParam(r, "id")

	data, err := h.meetings.Assemble(r.Context(), botID)
	if err != nil {
		h.logger.Error().Err(err).Str("botID", botID).Msg("Bot data fetch failed")
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error":   "Failed to fetch bot data",
			"details": err.Error(),
			"bot_id":  botID,
		})
		return
	}

	writeJSON(w, http.StatusOK, data)
}

// Webhook receives provider event notifications, verifies the svix signature
// when the shared secret is configured, logs recognized events, and forwards
// them to Kafka when enabled.
func (h *Handlers) Webhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "Webhook processing failed"})
		return
	}

	sig := webhook.Signature{
		MsgID:     r.Header.Get("svix-msg-id"),
		Timestamp: r.Header.Get("svix-timestamp"),
		Header:    r.Header.Get("svix-signature"),
	}

	// Verification only runs when all headers and the secret are present.
	if sig.Complete() && h.cfg.Webhook.Secret != "" {
		err := webhook.Verify(h.cfg.Webhook.Secret, sig, body)
		switch {
		case errors.Is(err, webhook.ErrSignatureMismatch):
			h.logger.Warn().Str("msgID", sig.MsgID).Msg("Invalid webhook signature")
			h.metrics.RecordWebhookRejected()
			writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "Invalid signature"})
			return
		case err != nil:
			h.logger.Warn().Err(err).Msg("Signature verification failed")
		default:
			h.logger.Debug().Str("msgID", sig.MsgID).Msg("Webhook signature verified")
		}
	}

	payload := gjson.ParseBytes(body)
	event := payload.Get("event").String()
	if !payload.IsObject() || event == "" {
		h.logger.Error().Msg("Malformed webhook payload")
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "Webhook processing failed"})
		return
	}

	h.logWebhookEvent(event, payload.Get("data"), sig.MsgID)
	h.metrics.RecordWebhookEvent(event)

	if h.publisher.Enabled() {
		key := payload.Get("data.bot_id").String()
		if err := h.publisher.Publish(r.Context(), key, event, json.RawMessage(body)); err != nil {
			h.logger.Error().Err(err).Str("event", event).Msg("Webhook forward failed")
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"received": true})
}

func (h *Handlers) logWebhookEvent(event string, data gjson.Result, msgID string) {
	logger := h.logger.With().Str("event", event).Str("msgID", msgID).Logger()

	switch event {
	case "bot.status_change":
		botID := data.Get("bot_id").String()
		status := data.Get("status.code").String()
		logger.Info().
			Str("botID", botID).
			Str("status", status).
			Msg("Bot status changed")
		if status == string(models.StatusDone) {
			logger.Info().Str("botID", botID).Msg("Meeting ended, transcript ready")
		}
	case "transcript.data":
		speaker := data.Get("data.participant.name").String()
		if speaker == "" {
			speaker = "Unknown"
		}
		texts := make([]string, 0)
		for _, word := range data.Get("data.words").Array() {
			texts = append(texts, word.Get("text").String())
		}
		text := strings.Join(texts, " ")
		if len(text) > 100 {
			text = text[:100]
		}
		logger.Info().
			Str("speaker", speaker).
			Str("text", text).
			Msg("Transcript data received")
	case "participant_events.join":
		logger.Info().
			Str("participant", participantName(data)).
			Msg("Participant joined")
	case "participant_events.leave":
		logger.Info().
			Str("participant", participantName(data)).
			Msg("Participant left")
	default:
		logger.Info().Msg("Webhook event received")
	}
}

func participantName(data gjson.Result) string {
	if name := data.Get("data.participant.name").String(); name != "" {
		return name
	}
	return "Unknown"
}

type chatRequest struct {
	Message     string          `json:"message"`
	MeetingData json.RawMessage `json:"meeting_data"`
}

// Chat forwards a user question about the meeting to the assistant.
func (h *Handlers) Chat(w http.ResponseWriter, r *http.Request) {
	if !h.assistant.Configured() {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "GEMINI_API_KEY is not configured"})
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Message is required"})
		return
	}

	answer, err := h.assistant.Answer(r.Context(), req.Message, req.MeetingData)
	if err != nil {
		h.logger.Error().Err(err).Msg("Assistant request failed")
		writeJSON(w, assistant.StatusCode(err), map[string]any{"error": "Failed to get response from assistant"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"response": answer})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
