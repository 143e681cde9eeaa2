package dto

import "time"

const (
	EventFocusComplete = "focus_complete"
	EventBreakComplete = "break_complete"
)

// Event announces that a countdown reached zero.
type Event struct {
	Kind     string        `json:"kind"`
	Subject  string        `json:"subject,omitempty"`
	Duration time.Duration `json:"duration_ns"`
	At       time.Time     `json:"at"`
}

type Failure struct {
	Target string
	Err    string
}

// Report lists where an event was delivered. Failures never reach the
// timer; they are kept for diagnostics.
type Report struct {
	Delivered []string
	Failures  []Failure
}

type PluginInfo struct {
	Name    string
	Version string
	Binary  string
	Enabled bool
	Events  []string
}

type DoctorResult struct {
	Name            string
	BinaryReachable bool
	ChecksumValid   bool
	LifecycleOK     bool
	Error           string
}
