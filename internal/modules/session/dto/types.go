package dto

import "time"

type RecordInput struct {
	StartedAt     time.Time
	EndedAt       time.Time
	FocusDuration time.Duration
	BreakDuration time.Duration
	Subject       string
	Outcome       string
}

type SessionOutput struct {
	ID             int64         `json:"id"`
	StartedAt      time.Time     `json:"started_at"`
	EndedAt        time.Time     `json:"ended_at"`
	FocusDuration  time.Duration `json:"focus_duration_ns"`
	BreakDuration  time.Duration `json:"break_duration_ns"`
	ActualDuration time.Duration `json:"actual_duration_ns"`
	Subject        string        `json:"subject,omitempty"`
	Outcome        string        `json:"outcome"`
	Date           time.Time     `json:"date"`
	Mood           string        `json:"mood,omitempty"`
}

// ListQuery filters by end time. Zero bounds are open; Limit 0 means no limit.
type ListQuery struct {
	Limit  int
	After  time.Time
	Before time.Time
}

type ExportOutput struct {
	Dir         string
	Notes       []string
	SummaryPath string
}
