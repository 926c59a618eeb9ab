package stats

import "meeting-assistant-service/internal/models"

// ExtractParticipantStats folds the transcript into one accumulator per
// distinct speaker name, in first-seen order. Speaking time is measured from
// the first word's start to the last word's end of each utterance, so pauses
// inside an utterance count as speaking time. An utterance with an invalid or
// reversed time span still contributes its word count; an utterance with no
// words still counts as an utterance.
func ExtractParticipantStats(transcript []models.Utterance) []models.ParticipantStat {
	byName := make(map[string]*models.ParticipantStat)
	order := make([]string, 0, len(transcript))

	for _, u := range transcript {
		speaker := u.SpeakerName()

		stat, ok := byName[speaker]
		if !ok {
			stat = &models.ParticipantStat{Name: speaker}
			byName[speaker] = stat
			order = append(order, speaker)
		}

		if len(u.Words) > 0 {
			first := u.Words[0]
			last := u.Words[len(u.Words)-1]

			if first.StartTimestamp != nil && last.EndTimestamp != nil {
				duration := last.EndTimestamp.Relative - first.StartTimestamp.Relative
				if duration >= 0 {
					stat.SpeakingTimeSeconds += duration
				}
			}

			stat.WordCount += len(u.Words)
		}

		stat.Utterances++
	}

	out := make([]models.ParticipantStat, 0, len(order))
	for _, name := range order {
		stat := *byName[name]
		stat.SpeakingTimeFormatted = FormatDuration(int64(stat.SpeakingTimeSeconds * 1000))
		out = append(out, stat)
	}
	return out
}
