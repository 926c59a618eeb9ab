// Package assistant proxies user questions about a meeting to a
// generative-language provider, grounding them in a bounded excerpt of the
// meeting record.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openaigo "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/tidwall/gjson"

	"meeting-assistant-service/internal/config"
	"meeting-assistant-service/internal/observability/metrics"
)

const (
	maxTranscriptExcerpts = 10
	maxExcerptChars       = 120
	maxChatMessages       = 5
)

const systemPromptPrefix = "You are a helpful meeting assistant. You have access to the following meeting information:"

const systemPromptSuffix = "Provide a helpful, natural response. Do not summarize the entire meeting unless asked. Just answer the specific question based on the meeting data available."

// Service answers meeting questions through an OpenAI-compatible chat
// completion endpoint.
type Service struct {
	cfg     config.AIConfig
	client  openaigo.Client
	metrics *metrics.Metrics
}

// New builds the assistant service. The API key is checked per request so the
// rest of the service works without one.
func New(cfg config.AIConfig) *Service {
	client := openaigo.NewClient(
		option.WithBaseURL(strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")),
		option.WithAPIKey(strings.TrimSpace(cfg.APIKey)),
	)
	return &Service{
		cfg:     cfg,
		client:  client,
		metrics: metrics.DefaultMetrics,
	}
}

// Configured reports whether an API key is available.
func (s *Service) Configured() bool {
	return strings.TrimSpace(s.cfg.APIKey) != ""
}

// Answer builds the meeting context from the raw meeting-data excerpt and
// forwards the question. meetingData may be any subset of the unified bot
// record; missing sections are skipped.
func (s *Service) Answer(ctx context.Context, message string, meetingData []byte) (string, error) {
	start := time.Now()

	system := systemPromptPrefix + "\n\n" + BuildContext(gjson.ParseBytes(meetingData)) + "\n\n" + systemPromptSuffix

	completion, err := s.client.Chat.Completions.New(ctx, openaigo.ChatCompletionNewParams{
		Model: openaigo.ChatModel(s.cfg.Model),
		Messages: []openaigo.ChatCompletionMessageParamUnion{
			openaigo.SystemMessage(system),
			openaigo.UserMessage(message),
		},
		Temperature: openaigo.Float(s.cfg.Temperature),
		MaxTokens:   openaigo.Int(int64(s.cfg.MaxTokens)),
	})
	s.metrics.RecordAssistantRequest(err, time.Since(start).Seconds())
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		return "Unable to generate response", nil
	}
	return completion.Choices[0].Message.Content, nil
}

// StatusCode extracts the upstream HTTP status from a provider error, falling
// back to 500.
func StatusCode(err error) int {
	var apiErr *openaigo.Error
	if errors.As(err, &apiErr) && apiErr.StatusCode > 0 {
		return apiErr.StatusCode
	}
	return 500
}

// BuildContext renders the natural-language context block from a meeting-data
// excerpt: participant names, up to 10 truncated transcript excerpts, up to 5
// chat messages, and the keyword list.
func BuildContext(data gjson.Result) string {
	var parts []string

	if participants := data.Get("participants").Array(); len(participants) > 0 {
		names := make([]string, 0, len(participants))
		for _, p := range participants {
			names = append(names, p.Get("name").String())
		}
		parts = append(parts, "Meeting Participants: "+strings.Join(names, ", "))
	}

	if transcript := data.Get("transcript").Array(); len(transcript) > 0 {
		parts = append(parts, "Recent Transcript Excerpts:")
		for i, item := range transcript {
			if i >= maxTranscriptExcerpts {
				break
			}
			text := utteranceText(item)
			if text == "" {
				continue
			}
			speaker := item.Get("participant.name").String()
			if speaker == "" {
				speaker = "Unknown"
			}
			parts = append(parts, speaker+": "+truncate(text, maxExcerptChars))
		}
	}

	if chats := data.Get("chat_messages").Array(); len(chats) > 0 {
		parts = append(parts, fmt.Sprintf("Chat Messages (%d total):", len(chats)))
		for i, msg := range chats {
			if i >= maxChatMessages {
				break
			}
			parts = append(parts, msg.Get("participant_name").String()+": "+msg.Get("text").String())
		}
	}

	if keywords := data.Get("summary.keywords").Array(); len(keywords) > 0 {
		words := make([]string, 0, len(keywords))
		for _, kw := range keywords {
			if w := kw.Get("word"); w.Exists() {
				words = append(words, w.String())
			} else {
				words = append(words, kw.String())
			}
		}
		parts = append(parts, "Key Topics Discussed: "+strings.Join(words, ", "))
	}

	return strings.Join(parts, "\n")
}

// utteranceText joins the utterance's word texts, falling back to a flat text
// field some payloads carry instead.
func utteranceText(item gjson.Result) string {
	words := item.Get("words").Array()
	texts := make([]string, 0, len(words))
	for _, w := range words {
		texts = append(texts, w.Get("text").String())
	}
	if joined := strings.Join(texts, " "); joined != "" {
		return joined
	}
	return item.Get("text").String()
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
