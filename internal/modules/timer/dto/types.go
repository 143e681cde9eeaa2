package dto

import "time"

type ConfigInput struct {
	Focus   time.Duration
	Break   time.Duration
	Subject string
}

type Snapshot struct {
	Mode         string
	Phase        string
	Remaining    time.Duration
	Focus        time.Duration
	Break        time.Duration
	Subject      string
	Outcome      string
	Mood         string
	MoodValue    string
	SessionID    int64
	SessionKnown bool
	SaveErr      string
	Cycle        uint64
	Generation   uint64
}

// Mode, phase, mood and outcome values as reported in Snapshot.
const (
	ModeFocus = "focus"
	ModeBreak = "break"

	PhaseIdle     = "idle"
	PhaseRunning  = "running"
	PhasePaused   = "paused"
	PhaseFinished = "finished"

	MoodNone     = "none"
	MoodPending  = "pending"
	MoodRecorded = "recorded"
	MoodSkipped  = "skipped"

	OutcomeFocused    = "Focused"
	OutcomeDistracted = "Distracted"
)

// TickResult tells the caller whether to schedule another tick and, when
// a countdown finished, what finished.
type TickResult struct {
	Running   bool
	Completed bool
	Mode      string
	Subject   string
	Planned   time.Duration
	At        time.Time
}

// SaveTicket carries a session to persist in the background.
type SaveTicket struct {
	Cycle     uint64
	StartedAt time.Time
	EndedAt   time.Time
	Date      time.Time
	Focus     time.Duration
	Break     time.Duration
	Subject   string
	Outcome   string
}

type SaveResult struct {
	Cycle     uint64
	SessionID int64
	Err       error
}

// MoodTicket carries a mood to attach to an already saved session.
type MoodTicket struct {
	Cycle     uint64
	SessionID int64
	Value     string
}
