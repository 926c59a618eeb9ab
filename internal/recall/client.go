// Package recall is the client for the meeting-recording provider's REST API.
// Provider payloads are loosely shaped, so parsing is tolerant: missing fields
// normalize to zero values instead of failing the whole response.
package recall

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"

	"meeting-assistant-service/internal/config"
	"meeting-assistant-service/internal/models"
	"meeting-assistant-service/internal/observability/metrics"
)

// APIError is a non-2xx response from the provider. The status code is
// carried so handlers can pass it through to the caller.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("provider returned status %d: %s", e.StatusCode, e.Body)
}

// Client talks to the recording provider.
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	metrics    *metrics.Metrics
}

// New creates a provider client for the configured region.
func New(cfg config.RecallConfig) *Client {
	return NewWithBaseURL(cfg.APIKey, fmt.Sprintf("https://%s.recall.ai/api/v1", cfg.Region), cfg.Timeout)
}

// NewWithBaseURL creates a provider client against an explicit base URL.
// Used by tests to point at a local server.
func NewWithBaseURL(apiKey, baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		apiKey:     apiKey,
		baseURL:    baseURL,
		metrics:    metrics.DefaultMetrics,
	}
}

// BaseURL returns the API base URL the client is pointed at.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// CreatedBot is the provider's response to a bot creation request.
type CreatedBot struct {
	ID     string
	Status string
	Raw    json.RawMessage
}

// MediaShortcuts holds the artifact download URLs extracted from a completed
// recording, plus the meeting metadata object when present.
type MediaShortcuts struct {
	VideoMixedURL        string
	TranscriptURL        string
	ParticipantEventsURL string
	ParticipantsURL      string
	MeetingMetadata      map[string]any
}

// Recording is the normalized view of a bot's recording entry.
type Recording struct {
	ID             string
	Done           bool
	MediaShortcuts MediaShortcuts
}

// Bot is the normalized view of the provider's bot payload.
type Bot struct {
	ID            string
	MeetingURL    any
	CreatedAt     string
	StatusChanges []models.StatusChange
	Recording     *Recording
}

// CreateBot asks the provider to send a recording bot into the meeting, with
// native streaming transcription, participant events, and all media types
// enabled.
func (c *Client) CreateBot(ctx context.Context, meetingURL string) (*CreatedBot, error) {
	payload := map[string]any{
		"meeting_url": meetingURL,
		"bot_name":    "Meeting Assistant",
		"recording_config": map[string]any{
			"transcript": map[string]any{
				"provider": map[string]any{
					"recallai_streaming": map[string]any{
						"language_code":    "auto",
						"filter_profanity": false,
						"mode":             "prioritize_accuracy",
					},
				},
			},
			"participant_events": map[string]any{},
			"video_mixed_mp4":    map[string]any{},
			"audio_mixed_mp3":    map[string]any{},
			"audio_separate_wav": map[string]any{},
			"video_separate_mp4": map[string]any{},
			"meeting_metadata":   map[string]any{},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	raw, err := c.do(ctx, http.MethodPost, c.baseURL+"/bot/", bytes.NewReader(body), "create_bot", true)
	if err != nil {
		return nil, err
	}

	status := gjson.GetBytes(raw, "status_changes.0.code").String()
	if status == "" {
		status = "created"
	}

	return &CreatedBot{
		ID:     gjson.GetBytes(raw, "id").String(),
		Status: status,
		Raw:    raw,
	}, nil
}

// GetBot fetches the bot record and normalizes the parts this service reads.
func (c *Client) GetBot(ctx context.Context, botID string) (*Bot, error) {
	raw, err := c.do(ctx, http.MethodGet, c.baseURL+"/bot/"+url.PathEscape(botID), nil, "get_bot", true)
	if err != nil {
		return nil, err
	}
	return parseBot(raw), nil
}

func parseBot(raw []byte) *Bot {
	bot := &Bot{
		ID:        gjson.GetBytes(raw, "id").String(),
		CreatedAt: gjson.GetBytes(raw, "created_at").String(),
	}
	if v := gjson.GetBytes(raw, "meeting_url"); v.Exists() {
		bot.MeetingURL = v.Value()
	}

	if sc := gjson.GetBytes(raw, "status_changes"); sc.IsArray() {
		// Tolerant decode: entries that fail to unmarshal are skipped.
		var changes []models.StatusChange
		if err := json.Unmarshal([]byte(sc.Raw), &changes); err == nil {
			bot.StatusChanges = changes
		}
	}

	rec := gjson.GetBytes(raw, "recordings.0")
	if !rec.Exists() {
		return bot
	}

	recording := &Recording{
		ID:   rec.Get("id").String(),
		Done: rec.Get("status.code").String() == "done",
	}

	shortcuts := rec.Get("media_shortcuts")
	if shortcuts.Exists() {
		recording.MediaShortcuts = MediaShortcuts{
			VideoMixedURL:        shortcuts.Get("video_mixed.data.download_url").String(),
			TranscriptURL:        shortcuts.Get("transcript.data.download_url").String(),
			ParticipantEventsURL: shortcuts.Get("participant_events.data.participant_events_download_url").String(),
			ParticipantsURL:      shortcuts.Get("participant_events.data.participants_download_url").String(),
		}
		if meta := shortcuts.Get("meeting_metadata.data"); meta.IsObject() {
			m, ok := meta.Value().(map[string]any)
			if ok {
				recording.MediaShortcuts.MeetingMetadata = m
			}
		}
	}

	bot.Recording = recording
	return bot
}

// DownloadTranscript fetches and decodes the transcript artifact. A payload
// that is not an array yields an empty transcript.
func (c *Client) DownloadTranscript(ctx context.Context, downloadURL string) ([]models.Utterance, error) {
	raw, err := c.do(ctx, http.MethodGet, downloadURL, nil, "download_transcript", false)
	if err != nil {
		return nil, err
	}
	var transcript []models.Utterance
	if err := json.Unmarshal(raw, &transcript); err != nil {
		return nil, nil
	}
	return transcript, nil
}

// DownloadParticipantEvents fetches and decodes the participant-events
// artifact.
func (c *Client) DownloadParticipantEvents(ctx context.Context, downloadURL string) ([]models.ParticipantEvent, error) {
	raw, err := c.do(ctx, http.MethodGet, downloadURL, nil, "download_participant_events", false)
	if err != nil {
		return nil, err
	}
	var events []models.ParticipantEvent
	if err := json.Unmarshal(raw, &events); err != nil {
		return nil, nil
	}
	return events, nil
}

// DownloadParticipants fetches the participants-list artifact. Entries keep
// their provider shape since the service passes them through untouched.
func (c *Client) DownloadParticipants(ctx context.Context, downloadURL string) ([]map[string]any, error) {
	raw, err := c.do(ctx, http.MethodGet, downloadURL, nil, "download_participants", false)
	if err != nil {
		return nil, err
	}
	var participants []map[string]any
	if err := json.Unmarshal(raw, &participants); err != nil {
		return nil, nil
	}
	return participants, nil
}

// ListMediaTracks looks up media artifacts of one kind ("audio_mixed",
// "audio_separate", "video_separate") for a recording and returns the tracks
// that carry a download URL.
func (c *Client) ListMediaTracks(ctx context.Context, kind, recordingID string) ([]models.MediaTrack, error) {
	endpoint := fmt.Sprintf("%s/%s/?recording_id=%s", c.baseURL, kind, url.QueryEscape(recordingID))
	raw, err := c.do(ctx, http.MethodGet, endpoint, nil, kind, true)
	if err != nil {
		return nil, err
	}

	var tracks []models.MediaTrack
	gjson.GetBytes(raw, "results").ForEach(func(_, result gjson.Result) bool {
		downloadURL := result.Get("data.download_url").String()
		if downloadURL == "" {
			return true
		}
		name := result.Get("metadata.participant_name").String()
		if name == "" {
			name = "Unknown"
		}
		format := result.Get("data.format").String()
		if format == "" {
			format = "unknown"
		}
		track := models.MediaTrack{
			URL:             downloadURL,
			ParticipantName: name,
			Format:          format,
			CreatedAt:       result.Get("created_at").String(),
		}
		if id := result.Get("metadata.participant_id"); id.Exists() {
			track.ParticipantID = id.Value()
		}
		tracks = append(tracks, track)
		return true
	})
	return tracks, nil
}

func (c *Client) do(ctx context.Context, method, rawURL string, body io.Reader, endpoint string, authed bool) ([]byte, error) {
	start := time.Now()
	raw, err := c.doOnce(ctx, method, rawURL, body, authed)
	c.metrics.RecordProviderRequest(endpoint, err, time.Since(start).Seconds())
	return raw, err
}

func (c *Client) doOnce(ctx context.Context, method, rawURL string, body io.Reader, authed bool) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, err
	}
	if authed {
		req.Header.Set("Authorization", c.apiKey)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return raw, nil
}
