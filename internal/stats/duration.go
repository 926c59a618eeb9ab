// Package stats derives aggregate meeting statistics from provider artifacts.
// Every function in this package is total: malformed or missing input degrades
// to zero values and empty slices, never to an error.
package stats

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"meeting-assistant-service/internal/models"
)

// CalculateDuration derives the elapsed meeting time in milliseconds from the
// bot's status-change history: first in-call marker to first terminal marker.
// Returns 0 when either marker is missing or a timestamp fails to parse. The
// result is not clamped; inconsistent provider timestamps can yield a negative
// value, which FormatDuration renders as "0m 0s".
func CalculateDuration(changes []models.StatusChange) int64 {
	var joined, ended *models.StatusChange
	for i := range changes {
		if joined == nil && changes[i].Code.InCall() {
			joined = &changes[i]
		}
		if ended == nil && changes[i].Code.IsTerminal() {
			ended = &changes[i]
		}
	}

	if joined == nil || ended == nil {
		log.Debug().
			Bool("joinedFound", joined != nil).
			Bool("endedFound", ended != nil).
			Msg("Missing status events for duration calculation")
		return 0
	}

	start, err := time.Parse(time.RFC3339Nano, joined.CreatedAt)
	if err != nil {
		log.Debug().Err(err).Str("createdAt", joined.CreatedAt).Msg("Invalid joined timestamp")
		return 0
	}
	end, err := time.Parse(time.RFC3339Nano, ended.CreatedAt)
	if err != nil {
		log.Debug().Err(err).Str("createdAt", ended.CreatedAt).Msg("Invalid ended timestamp")
		return 0
	}

	return end.Sub(start).Milliseconds()
}

// FormatDuration renders milliseconds as a human-readable duration. Zero or
// negative input renders as "0m 0s"; leading zero units are omitted otherwise.
func FormatDuration(ms int64) string {
	if ms <= 0 {
		return "0m 0s"
	}

	seconds := ms / 1000
	minutes := seconds / 60
	hours := minutes / 60

	remMinutes := minutes % 60
	remSeconds := seconds % 60

	switch {
	case hours > 0:
		return fmt.Sprintf("%dh %dm %ds", hours, remMinutes, remSeconds)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, remSeconds)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}
