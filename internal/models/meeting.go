// Package models defines the data structures for meeting recordings.
package models

// StatusChange is one entry in the bot's lifecycle history as reported by the
// recording provider. The sequence is append-only and ordered by the provider.
type StatusChange struct {
	Code      StatusCode `json:"code"`
	SubCode   string     `json:"sub_code,omitempty"`
	Message   string     `json:"message,omitempty"`
	CreatedAt string     `json:"created_at"`
}

// Participant identifies a speaker as reported by the provider.
type Participant struct {
	ID   any    `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// Timestamp is a provider timestamp with an offset relative to recording start.
type Timestamp struct {
	Absolute string  `json:"absolute,omitempty"`
	Relative float64 `json:"relative"`
}

// Word is a single transcribed word with its timing. Either timestamp may be
// missing in provider output; consumers must treat a nil timestamp as unknown
// rather than zero.
type Word struct {
	Text           string     `json:"text"`
	StartTimestamp *Timestamp `json:"start_timestamp,omitempty"`
	EndTimestamp   *Timestamp `json:"end_timestamp,omitempty"`
}

// Utterance is one contiguous block of speech attributed to a single speaker.
// Speaker is a legacy flat field some provider payloads carry instead of the
// structured participant record.
type Utterance struct {
	Participant *Participant `json:"participant,omitempty"`
	Speaker     string       `json:"speaker,omitempty"`
	Words       []Word       `json:"words,omitempty"`
}

// SpeakerName resolves the display name for the utterance, falling back to
// the legacy speaker field and finally "Unknown".
func (u Utterance) SpeakerName() string {
	if u.Participant != nil && u.Participant.Name != "" {
		return u.Participant.Name
	}
	if u.Speaker != "" {
		return u.Speaker
	}
	return "Unknown"
}

// ParticipantEvent is one raw entry from the provider's participant-events
// artifact. Only events carrying chat data are reshaped; everything else is
// passed through verbatim.
type ParticipantEvent struct {
	Participant *Participant          `json:"participant,omitempty"`
	Data        *ParticipantEventData `json:"data,omitempty"`
	Timestamp   *Timestamp            `json:"timestamp,omitempty"`
	Action      string                `json:"action,omitempty"`
}

// ParticipantEventData is the payload of a participant event. Text is a
// pointer so that a chat message can be told apart from a non-chat event.
type ParticipantEventData struct {
	Text *string `json:"text,omitempty"`
	To   string  `json:"to,omitempty"`
}

// ChatMessage is a chat event extracted from the participant-events artifact.
type ChatMessage struct {
	ParticipantName string   `json:"participant_name"`
	ParticipantID   any      `json:"participant_id,omitempty"`
	Text            string   `json:"text"`
	To              string   `json:"to,omitempty"`
	TimestampAbs    string   `json:"timestamp_absolute,omitempty"`
	TimestampRel    *float64 `json:"timestamp_relative_seconds,omitempty"`
}

// ParticipantStat is the per-speaker aggregate derived from the transcript.
// Name is the identity key; there is no participant-ID reconciliation.
type ParticipantStat struct {
	Name                  string  `json:"name"`
	SpeakingTimeSeconds   float64 `json:"speaking_time_seconds"`
	SpeakingTimeFormatted string  `json:"speaking_time_formatted"`
	WordCount             int     `json:"word_count"`
	Utterances            int     `json:"utterances"`
}

// Keyword is one entry of the word-frequency extraction.
type Keyword struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// SummaryOverview holds the headline numbers for the meeting summary.
type SummaryOverview struct {
	TotalUtterances      int `json:"total_utterances"`
	TotalWords           int `json:"total_words"`
	AvgWordsPerUtterance int `json:"avg_words_per_utterance"`
	TotalParticipants    int `json:"total_participants"`
	TotalChatMessages    int `json:"total_chat_messages"`
}

// SpeakerActivity is one row of the most-active-speakers table.
type SpeakerActivity struct {
	Name         string `json:"name"`
	WordCount    int    `json:"word_count"`
	SpeakingTime string `json:"speaking_time"`
	Utterances   int    `json:"utterances"`
}

// ChatActivity summarizes in-meeting chat usage.
type ChatActivity struct {
	TotalMessages          int `json:"total_messages"`
	ParticipantsWhoChatted int `json:"participants_who_chatted"`
}

// Summary is the derived meeting summary. When no transcript is available,
// Available is false and Message explains why.
type Summary struct {
	Available          bool              `json:"available"`
	Message            string            `json:"message,omitempty"`
	Overview           *SummaryOverview  `json:"overview,omitempty"`
	Keywords           []Keyword         `json:"keywords,omitempty"`
	MostActiveSpeakers []SpeakerActivity `json:"most_active_speakers,omitempty"`
	ChatActivity       *ChatActivity     `json:"chat_activity,omitempty"`
}

// TimelineEvent is a unit of the merged display timeline: either a run of
// consecutive same-speaker words ("speech") or a single chat message ("chat").
type TimelineEvent struct {
	Type    string   `json:"type"`
	Speaker string   `json:"speaker"`
	Time    float64  `json:"time"`
	Words   []string `json:"words,omitempty"`
	Text    string   `json:"text,omitempty"`
}

// MediaTrack is one per-participant audio or video track.
type MediaTrack struct {
	URL             string `json:"url"`
	ParticipantID   any    `json:"participant_id,omitempty"`
	ParticipantName string `json:"participant_name"`
	Format          string `json:"format"`
	CreatedAt       string `json:"created_at,omitempty"`
}

// Media holds the download URLs for all recording outputs.
type Media struct {
	VideoMixed         string       `json:"video_mixed,omitempty"`
	AudioMixed         string       `json:"audio_mixed,omitempty"`
	VideoSeparate      []MediaTrack `json:"video_separate"`
	AudioSeparate      []MediaTrack `json:"audio_separate"`
	VideoSeparateCount int          `json:"video_separate_count"`
	AudioSeparateCount int          `json:"audio_separate_count"`
}

// Duration is the derived meeting duration.
type Duration struct {
	Milliseconds int64  `json:"milliseconds"`
	Formatted    string `json:"formatted"`
}

// MeetingData is the unified record returned by the bot-data endpoint. All of
// it is recomputed from the provider's current snapshot on every request.
type MeetingData struct {
	BotID      string `json:"bot_id"`
	Status     string `json:"status"`
	IsComplete bool   `json:"is_complete"`

	MeetingMetadata map[string]any `json:"meeting_metadata"`
	MeetingURL      any            `json:"meeting_url"`

	Duration Duration `json:"duration"`

	Participants     any               `json:"participants"`
	ParticipantCount int               `json:"participant_count"`
	ParticipantStats []ParticipantStat `json:"participant_stats"`

	Transcript               []Utterance `json:"transcript"`
	TranscriptUtteranceCount int         `json:"transcript_utterance_count"`
	TranscriptWordCount      int         `json:"transcript_word_count"`

	ChatMessages     []ChatMessage `json:"chat_messages"`
	ChatMessageCount int           `json:"chat_message_count"`

	Summary  Summary         `json:"summary"`
	Timeline []TimelineEvent `json:"timeline"`

	Media Media `json:"media"`

	ParticipantEvents     []ParticipantEvent `json:"participant_events"`
	ParticipantEventCount int                `json:"participant_events_count"`
	StatusChanges         []StatusChange     `json:"status_changes"`

	CreatedAt   string `json:"created_at,omitempty"`
	RecordingID string `json:"recording_id,omitempty"`
}
