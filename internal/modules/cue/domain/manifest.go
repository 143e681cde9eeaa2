package domain

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

type EventKind string

const (
	EventFocusComplete EventKind = "focus_complete"
	EventBreakComplete EventKind = "break_complete"
)

var (
	ErrPluginDisabled   = errors.New("plugin is disabled")
	ErrChecksumMismatch = errors.New("plugin checksum mismatch")
	ErrPluginTimeout    = errors.New("plugin timeout")
)

var sha256Pattern = regexp.MustCompile(`^[a-f0-9]{64}$`)

func (k EventKind) Validate() error {
	switch k {
	case EventFocusComplete, EventBreakComplete:
		return nil
	default:
		return fmt.Errorf("unknown event kind: %s", k)
	}
}

type Event struct {
	Kind     EventKind
	Subject  string
	Duration time.Duration
	At       time.Time
}

// Manifest describes one cue plugin binary and the events it wants.
type Manifest struct {
	Name    string      `json:"name"`
	Version string      `json:"version"`
	Binary  string      `json:"binary"`
	SHA256  string      `json:"sha256"`
	Enabled bool        `json:"enabled"`
	Events  []EventKind `json:"events"`
}

func (m Manifest) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("plugin name is required")
	}
	if m.Version == "" {
		return fmt.Errorf("plugin version is required")
	}
	if m.Binary == "" {
		return fmt.Errorf("plugin binary path is required")
	}
	if !sha256Pattern.MatchString(m.SHA256) {
		return fmt.Errorf("plugin sha256 must be lowercase 64-char hex")
	}
	if len(m.Events) == 0 {
		return fmt.Errorf("plugin events are required")
	}
	seen := map[EventKind]struct{}{}
	for _, kind := range m.Events {
		if err := kind.Validate(); err != nil {
			return err
		}
		if _, ok := seen[kind]; ok {
			return fmt.Errorf("duplicate event: %s", kind)
		}
		seen[kind] = struct{}{}
	}
	return nil
}

func (m Manifest) Handles(kind EventKind) bool {
	for _, k := range m.Events {
		if k == kind {
			return true
		}
	}
	return false
}

type Metadata struct {
	Name    string
	Version string
	Events  []EventKind
}
