package stats

import (
	"testing"

	"meeting-assistant-service/internal/models"
)

func ts(rel float64) *models.Timestamp {
	return &models.Timestamp{Relative: rel}
}

func utterance(name string, words ...models.Word) models.Utterance {
	return models.Utterance{
		Participant: &models.Participant{Name: name},
		Words:       words,
	}
}

func word(text string, start, end float64) models.Word {
	return models.Word{Text: text, StartTimestamp: ts(start), EndTimestamp: ts(end)}
}

func TestExtractParticipantStats_SingleUtterance(t *testing.T) {
	transcript := []models.Utterance{
		utterance("Alice", word("hi", 0, 1)),
	}

	got := ExtractParticipantStats(transcript)
	if len(got) != 1 {
		t.Fatalf("expected 1 stat, got %d", len(got))
	}
	p := got[0]
	if p.Name != "Alice" {
		t.Errorf("expected name Alice, got %s", p.Name)
	}
	if p.SpeakingTimeSeconds != 1 {
		t.Errorf("expected speaking time 1s, got %v", p.SpeakingTimeSeconds)
	}
	if p.WordCount != 1 {
		t.Errorf("expected word count 1, got %d", p.WordCount)
	}
	if p.Utterances != 1 {
		t.Errorf("expected 1 utterance, got %d", p.Utterances)
	}
	if p.SpeakingTimeFormatted != "1s" {
		t.Errorf("expected formatted time '1s', got %q", p.SpeakingTimeFormatted)
	}
}

func TestExtractParticipantStats_FirstSeenOrderAndMerging(t *testing.T) {
	transcript := []models.Utterance{
		utterance("Bob", word("one", 0, 1), word("two", 1, 2)),
		utterance("Alice", word("three", 3, 4)),
		utterance("Bob", word("four", 5, 8)),
	}

	got := ExtractParticipantStats(transcript)
	if len(got) != 2 {
		t.Fatalf("expected 2 stats, got %d", len(got))
	}
	if got[0].Name != "Bob" || got[1].Name != "Alice" {
		t.Fatalf("expected first-seen order [Bob Alice], got [%s %s]", got[0].Name, got[1].Name)
	}
	if got[0].SpeakingTimeSeconds != 5 {
		t.Errorf("expected Bob speaking time 5s, got %v", got[0].SpeakingTimeSeconds)
	}
	if got[0].WordCount != 3 {
		t.Errorf("expected Bob word count 3, got %d", got[0].WordCount)
	}
	if got[0].Utterances != 2 {
		t.Errorf("expected Bob 2 utterances, got %d", got[0].Utterances)
	}
}

func TestExtractParticipantStats_SpanIncludesPauses(t *testing.T) {
	// First word ends at 1, second starts at 9: the 8s gap still counts.
	transcript := []models.Utterance{
		utterance("Alice", word("start", 0, 1), word("end", 9, 10)),
	}

	got := ExtractParticipantStats(transcript)
	if got[0].SpeakingTimeSeconds != 10 {
		t.Errorf("expected first-to-last span 10s, got %v", got[0].SpeakingTimeSeconds)
	}
}

func TestExtractParticipantStats_InvalidTimingStillCountsWords(t *testing.T) {
	tests := []struct {
		name       string
		transcript []models.Utterance
	}{
		{
			name: "missing start timestamp",
			transcript: []models.Utterance{
				utterance("Alice", models.Word{Text: "hi", EndTimestamp: ts(2)}, word("there", 2, 3)),
			},
		},
		{
			name: "missing end timestamp",
			transcript: []models.Utterance{
				utterance("Alice", word("hi", 0, 1), models.Word{Text: "there", StartTimestamp: ts(1)}),
			},
		},
		{
			name: "reversed span",
			transcript: []models.Utterance{
				utterance("Alice", word("hi", 5, 6), word("there", 6, 2)),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractParticipantStats(tt.transcript)
			if len(got) != 1 {
				t.Fatalf("expected 1 stat, got %d", len(got))
			}
			if got[0].SpeakingTimeSeconds != 0 {
				t.Errorf("expected no speaking time, got %v", got[0].SpeakingTimeSeconds)
			}
			if got[0].WordCount != 2 {
				t.Errorf("expected word count 2 regardless of timing, got %d", got[0].WordCount)
			}
			if got[0].Utterances != 1 {
				t.Errorf("expected 1 utterance, got %d", got[0].Utterances)
			}
		})
	}
}

func TestExtractParticipantStats_EmptyUtterance(t *testing.T) {
	transcript := []models.Utterance{
		{Participant: &models.Participant{Name: "Alice"}},
	}

	got := ExtractParticipantStats(transcript)
	if got[0].Utterances != 1 {
		t.Errorf("empty utterance should still count, got %d", got[0].Utterances)
	}
	if got[0].WordCount != 0 || got[0].SpeakingTimeSeconds != 0 {
		t.Errorf("empty utterance should contribute no words or time")
	}
}

func TestExtractParticipantStats_SpeakerFallback(t *testing.T) {
	transcript := []models.Utterance{
		{Speaker: "Legacy Bob", Words: []models.Word{word("hi", 0, 1)}},
		{Words: []models.Word{word("mystery", 1, 2)}},
	}

	got := ExtractParticipantStats(transcript)
	if len(got) != 2 {
		t.Fatalf("expected 2 stats, got %d", len(got))
	}
	if got[0].Name != "Legacy Bob" {
		t.Errorf("expected legacy speaker fallback, got %s", got[0].Name)
	}
	if got[1].Name != "Unknown" {
		t.Errorf("expected Unknown fallback, got %s", got[1].Name)
	}
}

func TestExtractParticipantStats_UtteranceCountConserved(t *testing.T) {
	transcript := []models.Utterance{
		utterance("A", word("x", 0, 1)),
		utterance("B"),
		utterance("A", word("y", 2, 3)),
		{Speaker: "C", Words: []models.Word{word("z", 4, 5)}},
	}

	got := ExtractParticipantStats(transcript)
	total := 0
	for _, p := range got {
		total += p.Utterances
	}
	if total != len(transcript) {
		t.Errorf("utterance counts should sum to %d, got %d", len(transcript), total)
	}
}
