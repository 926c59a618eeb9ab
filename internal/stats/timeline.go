package stats

import (
	"sort"

	"meeting-assistant-service/internal/models"
)

// BuildTimeline merges transcript words and chat messages into one
// chronologically ordered, speaker-grouped sequence. Every transcript word
// becomes an individual speech event and every chat message a chat event;
// both are sorted by relative time with a stable sort, so on exact time ties
// speech precedes chat (speech events are enumerated first). A left-to-right
// pass then coalesces consecutive same-speaker speech events into one group;
// chat events always stand alone and close the current speech group.
func BuildTimeline(transcript []models.Utterance, chatMessages []models.ChatMessage) []models.TimelineEvent {
	type flatEvent struct {
		kind    string
		time    float64
		speaker string
		text    string
	}

	var events []flatEvent

	for _, u := range transcript {
		speaker := unknownOrName(u)
		for _, w := range u.Words {
			t := 0.0
			if w.StartTimestamp != nil {
				t = w.StartTimestamp.Relative
			}
			events = append(events, flatEvent{kind: "speech", time: t, speaker: speaker, text: w.Text})
		}
	}

	for _, m := range chatMessages {
		t := 0.0
		if m.TimestampRel != nil {
			t = *m.TimestampRel
		}
		events = append(events, flatEvent{kind: "chat", time: t, speaker: m.ParticipantName, text: m.Text})
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].time < events[j].time
	})

	var grouped []models.TimelineEvent
	var current *models.TimelineEvent

	for _, ev := range events {
		if ev.kind == "chat" {
			if current != nil {
				grouped = append(grouped, *current)
				current = nil
			}
			grouped = append(grouped, models.TimelineEvent{
				Type:    "chat",
				Speaker: ev.speaker,
				Time:    ev.time,
				Text:    ev.text,
			})
			continue
		}

		if current != nil && current.Speaker == ev.speaker {
			current.Words = append(current.Words, ev.text)
			continue
		}
		if current != nil {
			grouped = append(grouped, *current)
		}
		current = &models.TimelineEvent{
			Type:    "speech",
			Speaker: ev.speaker,
			Time:    ev.time,
			Words:   []string{ev.text},
		}
	}

	if current != nil {
		grouped = append(grouped, *current)
	}

	return grouped
}

func unknownOrName(u models.Utterance) string {
	if u.Participant != nil && u.Participant.Name != "" {
		return u.Participant.Name
	}
	return "Unknown"
}
