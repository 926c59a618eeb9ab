package meetingdata

import (
	"github.com/rs/zerolog"

	"meeting-assistant-service/internal/observability/metrics"
)

// Outcome classifies one best-effort artifact fetch.
type Outcome string

const (
	// OutcomeFetched - artifact was downloaded and decoded.
	OutcomeFetched Outcome = "fetched"
	// OutcomeAbsent - the provider exposed no URL for the artifact.
	OutcomeAbsent Outcome = "absent"
	// OutcomeFailed - the fetch was attempted and failed; the slot keeps its
	// zero value and assembly continues.
	OutcomeFailed Outcome = "failed"
)

// artifactReport collects the per-slot outcome of an assembly pass. Failures
// are logged and counted but never abort the response.
type artifactReport struct {
	logger  zerolog.Logger
	metrics *metrics.Metrics
	slots   map[string]Outcome
}

func newArtifactReport(logger zerolog.Logger) *artifactReport {
	return &artifactReport{
		logger:  logger,
		metrics: metrics.DefaultMetrics,
		slots:   make(map[string]Outcome),
	}
}

func (r *artifactReport) record(artifact string, outcome Outcome, err error) {
	r.slots[artifact] = outcome
	r.metrics.RecordArtifactDownload(artifact, string(outcome))

	switch outcome {
	case OutcomeFetched:
		r.logger.Debug().Str("artifact", artifact).Msg("Artifact fetched")
	case OutcomeAbsent:
		r.logger.Debug().Str("artifact", artifact).Msg("Artifact not available")
	case OutcomeFailed:
		r.logger.Warn().Err(err).Str("artifact", artifact).Msg("Artifact fetch failed, continuing without it")
	}
}

// outcome returns the recorded outcome for an artifact, or OutcomeAbsent if
// the slot was never touched.
func (r *artifactReport) outcome(artifact string) Outcome {
	if o, ok := r.slots[artifact]; ok {
		return o
	}
	return OutcomeAbsent
}
