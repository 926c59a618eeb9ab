package meetingdata

import "meeting-assistant-service/internal/models"

// extractChatMessages filters the raw participant-events sequence down to
// chat messages: events carrying a text payload addressed to someone. All
// other event kinds (joins, leaves, mute toggles) are left to the raw
// pass-through field.
func extractChatMessages(events []models.ParticipantEvent) []models.ChatMessage {
	var messages []models.ChatMessage
	for _, ev := range events {
		if ev.Data == nil || ev.Data.Text == nil || ev.Data.To == "" {
			continue
		}

		msg := models.ChatMessage{
			ParticipantName: "Unknown",
			Text:            *ev.Data.Text,
			To:              ev.Data.To,
		}
		if ev.Participant != nil {
			if ev.Participant.Name != "" {
				msg.ParticipantName = ev.Participant.Name
			}
			msg.ParticipantID = ev.Participant.ID
		}
		if ev.Timestamp != nil {
			msg.TimestampAbs = ev.Timestamp.Absolute
			rel := ev.Timestamp.Relative
			msg.TimestampRel = &rel
		}
		messages = append(messages, msg)
	}
	return messages
}
