// Package meetingdata assembles the unified meeting record from provider
// artifacts and derived statistics.
package meetingdata

import (
	"context"

	"meeting-assistant-service/internal/models"
	"meeting-assistant-service/internal/observability/logging"
	"meeting-assistant-service/internal/observability/metrics"
	"meeting-assistant-service/internal/recall"
	"meeting-assistant-service/internal/stats"
)

// Service fetches bot state and recording artifacts from the provider and
// derives the unified meeting record. It holds no per-meeting state; every
// call recomputes from the provider's current snapshot.
type Service struct {
	client  *recall.Client
	metrics *metrics.Metrics
}

// New creates a meeting data service backed by the given provider client.
func New(client *recall.Client) *Service {
	return &Service{
		client:  client,
		metrics: metrics.DefaultMetrics,
	}
}

// Assemble fetches the bot and, when its recording is complete, each
// ancillary artifact. Artifact fetches are independent and best-effort: a
// failure leaves that slot empty and assembly continues. Only the initial bot
// fetch is fatal to the request.
func (s *Service) Assemble(ctx context.Context, botID string) (*models.MeetingData, error) {
	logger := logging.WithBot(botID)

	bot, err := s.client.GetBot(ctx, botID)
	if err != nil {
		return nil, err
	}

	currentStatus := models.LatestStatus(bot.StatusChanges)
	isComplete := currentStatus == models.StatusDone
	s.metrics.RecordBotFetch(isComplete)

	logger.Info().
		Str("status", string(currentStatus)).
		Bool("isComplete", isComplete).
		Msg("Bot retrieved")

	var (
		transcript        []models.Utterance
		participantEvents []models.ParticipantEvent
		participants      []map[string]any
		chatMessages      []models.ChatMessage
		meetingMetadata   map[string]any
		media             models.Media
		recordingID       string
	)

	if bot.Recording != nil {
		recordingID = bot.Recording.ID
		recLogger := logging.WithRecording(botID, recordingID)

		if bot.Recording.Done {
			report := newArtifactReport(recLogger)
			shortcuts := bot.Recording.MediaShortcuts
			meetingMetadata = shortcuts.MeetingMetadata
			media.VideoMixed = shortcuts.VideoMixedURL

			transcript = s.fetchTranscript(ctx, shortcuts.TranscriptURL, report)
			participantEvents = s.fetchParticipantEvents(ctx, shortcuts.ParticipantEventsURL, report)
			chatMessages = extractChatMessages(participantEvents)
			participants = s.fetchParticipants(ctx, shortcuts.ParticipantsURL, report)

			media.AudioMixed = s.lookupAudioMixed(ctx, recordingID, report)
			media.AudioSeparate = s.lookupTracks(ctx, "audio_separate", recordingID, report)
			media.VideoSeparate = s.lookupTracks(ctx, "video_separate", recordingID, report)

			recLogger.Info().
				Int("utterances", len(transcript)).
				Int("participantEvents", len(participantEvents)).
				Int("chatMessages", len(chatMessages)).
				Str("transcriptOutcome", string(report.outcome("transcript"))).
				Msg("Recording artifacts assembled")
		} else {
			recLogger.Debug().Msg("Recording still processing")
		}
	}

	media.AudioSeparateCount = len(media.AudioSeparate)
	media.VideoSeparateCount = len(media.VideoSeparate)
	if media.AudioSeparate == nil {
		media.AudioSeparate = []models.MediaTrack{}
	}
	if media.VideoSeparate == nil {
		media.VideoSeparate = []models.MediaTrack{}
	}

	participantStats := stats.ExtractParticipantStats(transcript)
	durationMs := stats.CalculateDuration(bot.StatusChanges)
	summary := stats.GenerateSummary(transcript, participantStats, chatMessages)
	timeline := stats.BuildTimeline(transcript, chatMessages)

	totalWords := 0
	for _, u := range transcript {
		totalWords += len(u.Words)
	}

	data := &models.MeetingData{
		BotID:      bot.ID,
		Status:     string(currentStatus),
		IsComplete: isComplete,

		MeetingMetadata: orEmptyMap(meetingMetadata),
		MeetingURL:      bot.MeetingURL,

		Duration: models.Duration{
			Milliseconds: durationMs,
			Formatted:    stats.FormatDuration(durationMs),
		},

		ParticipantStats: participantStats,

		Transcript:               orEmpty(transcript),
		TranscriptUtteranceCount: len(transcript),
		TranscriptWordCount:      totalWords,

		ChatMessages:     orEmpty(chatMessages),
		ChatMessageCount: len(chatMessages),

		Summary:  summary,
		Timeline: orEmpty(timeline),

		Media: media,

		ParticipantEvents:     orEmpty(participantEvents),
		ParticipantEventCount: len(participantEvents),
		StatusChanges:         orEmpty(bot.StatusChanges),

		CreatedAt:   bot.CreatedAt,
		RecordingID: recordingID,
	}

	// The provider's participant list wins when present; otherwise the
	// derived stats stand in so the UI always has something to render.
	if len(participants) > 0 {
		data.Participants = participants
		data.ParticipantCount = len(participants)
	} else {
		data.Participants = participantStats
		data.ParticipantCount = len(participantStats)
	}

	return data, nil
}

func (s *Service) fetchTranscript(ctx context.Context, url string, report *artifactReport) []models.Utterance {
	if url == "" {
		report.record("transcript", OutcomeAbsent, nil)
		return nil
	}
	transcript, err := s.client.DownloadTranscript(ctx, url)
	if err != nil {
		report.record("transcript", OutcomeFailed, err)
		return nil
	}
	report.record("transcript", OutcomeFetched, nil)
	return transcript
}

func (s *Service) fetchParticipantEvents(ctx context.Context, url string, report *artifactReport) []models.ParticipantEvent {
	if url == "" {
		report.record("participant_events", OutcomeAbsent, nil)
		return nil
	}
	events, err := s.client.DownloadParticipantEvents(ctx, url)
	if err != nil {
		report.record("participant_events", OutcomeFailed, err)
		return nil
	}
	report.record("participant_events", OutcomeFetched, nil)
	return events
}

func (s *Service) fetchParticipants(ctx context.Context, url string, report *artifactReport) []map[string]any {
	if url == "" {
		report.record("participants", OutcomeAbsent, nil)
		return nil
	}
	participants, err := s.client.DownloadParticipants(ctx, url)
	if err != nil {
		report.record("participants", OutcomeFailed, err)
		return nil
	}
	report.record("participants", OutcomeFetched, nil)
	return participants
}

func (s *Service) lookupAudioMixed(ctx context.Context, recordingID string, report *artifactReport) string {
	tracks, err := s.client.ListMediaTracks(ctx, "audio_mixed", recordingID)
	if err != nil {
		report.record("audio_mixed", OutcomeFailed, err)
		return ""
	}
	if len(tracks) == 0 {
		report.record("audio_mixed", OutcomeAbsent, nil)
		return ""
	}
	report.record("audio_mixed", OutcomeFetched, nil)
	return tracks[0].URL
}

func (s *Service) lookupTracks(ctx context.Context, kind, recordingID string, report *artifactReport) []models.MediaTrack {
	tracks, err := s.client.ListMediaTracks(ctx, kind, recordingID)
	if err != nil {
		report.record(kind, OutcomeFailed, err)
		return nil
	}
	if len(tracks) == 0 {
		report.record(kind, OutcomeAbsent, nil)
		return nil
	}
	report.record(kind, OutcomeFetched, nil)
	return tracks
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func orEmptyMap(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
