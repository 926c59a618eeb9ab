package models

// StatusCode is a bot lifecycle status reported by the recording provider.
type StatusCode string

// Known provider status codes.
const (
	StatusReady              StatusCode = "ready"
	StatusJoiningCall        StatusCode = "joining_call"
	StatusInWaitingRoom      StatusCode = "in_waiting_room"
	StatusInCallNotRecording StatusCode = "in_call_not_recording"
	StatusInCallRecording    StatusCode = "in_call_recording"
	StatusCallEnded          StatusCode = "call_ended"
	StatusDone               StatusCode = "done"
	StatusFatal              StatusCode = "fatal"
)

// IsTerminal returns true if the bot has reached a final state and no further
// status changes will arrive. Clients stop polling on a terminal status.
func (c StatusCode) IsTerminal() bool {
	return c == StatusDone || c == StatusFatal
}

// InCall returns true if the status marks the bot as joined to the meeting.
// The first in-call entry of the status history is the joined marker used for
// duration calculation.
func (c StatusCode) InCall() bool {
	return c == StatusInCallNotRecording || c == StatusInCallRecording
}

// LatestStatus returns the code of the most recent status change, or "unknown"
// if the history is empty.
func LatestStatus(changes []StatusChange) StatusCode {
	if len(changes) == 0 {
		return "unknown"
	}
	return changes[len(changes)-1].Code
}
