package stats

import (
	"math"
	"sort"

	"meeting-assistant-service/internal/models"
)

// maxActiveSpeakers caps the most-active-speakers table in the summary.
const maxActiveSpeakers = 5

// GenerateSummary composes overview numbers, keywords, speaker activity and
// chat activity into a single summary record. An empty transcript yields an
// unavailable summary with an explanatory message.
func GenerateSummary(transcript []models.Utterance, participants []models.ParticipantStat, chatMessages []models.ChatMessage) models.Summary {
	if len(transcript) == 0 {
		return models.Summary{
			Available: false,
			Message:   "No transcript available for summary generation",
		}
	}

	totalWords := 0
	for _, u := range transcript {
		totalWords += len(u.Words)
	}

	avgWords := 0
	if len(transcript) > 0 {
		avgWords = int(math.Round(float64(totalWords) / float64(len(transcript))))
	}

	// Top speakers by word count, stable so equal counts keep first-seen order.
	active := make([]models.ParticipantStat, len(participants))
	copy(active, participants)
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].WordCount > active[j].WordCount
	})
	if len(active) > maxActiveSpeakers {
		active = active[:maxActiveSpeakers]
	}

	speakers := make([]models.SpeakerActivity, 0, len(active))
	for _, p := range active {
		speakers = append(speakers, models.SpeakerActivity{
			Name:         p.Name,
			WordCount:    p.WordCount,
			SpeakingTime: p.SpeakingTimeFormatted,
			Utterances:   p.Utterances,
		})
	}

	chatters := make(map[string]struct{})
	for _, m := range chatMessages {
		chatters[m.ParticipantName] = struct{}{}
	}

	return models.Summary{
		Available: true,
		Overview: &models.SummaryOverview{
			TotalUtterances:      len(transcript),
			TotalWords:           totalWords,
			AvgWordsPerUtterance: avgWords,
			TotalParticipants:    len(participants),
			TotalChatMessages:    len(chatMessages),
		},
		Keywords:           ExtractKeywords(transcript),
		MostActiveSpeakers: speakers,
		ChatActivity: &models.ChatActivity{
			TotalMessages:          len(chatMessages),
			ParticipantsWhoChatted: len(chatters),
		},
	}
}
