package dto

import "time"

// AddInput records a mood. SessionID 0 means a standalone entry; a zero At
// is stamped with the current time.
type AddInput struct {
	At        time.Time
	Value     string
	SessionID int64
	Note      string
}

// UpdateInput edits an entry. Nil fields are left unchanged.
type UpdateInput struct {
	ID    int64
	Value *string
	Note  *string
}

type EntryOutput struct {
	ID        int64     `json:"id"`
	At        time.Time `json:"at"`
	Value     string    `json:"value"`
	SessionID int64     `json:"session_id,omitempty"`
	Note      string    `json:"note,omitempty"`
}
