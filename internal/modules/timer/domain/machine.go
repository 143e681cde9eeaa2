// Package domain holds the focus/break cycle as a pure state machine. It
// performs no I/O and keeps no clock; callers pass the current time.
package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"moodooro/internal/platform/clock"
	apperrors "moodooro/internal/platform/errors"
)

var (
	ErrInvalidTransition = errors.New("transition not allowed in current state")
	ErrStaleTick         = errors.New("stale tick")
	ErrInvalidOutcome    = errors.New("outcome must be Focused or Distracted")
)

const (
	DefaultFocus = 25 * time.Minute
	DefaultBreak = 5 * time.Minute
	// DemoFocus is used when focus is configured as zero minutes.
	DemoFocus = 5 * time.Second

	tick = time.Second
)

type Mode int

const (
	ModeFocus Mode = iota
	ModeBreak
)

func (m Mode) String() string {
	if m == ModeBreak {
		return "break"
	}
	return "focus"
}

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseRunning
	PhasePaused
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseRunning:
		return "running"
	case PhasePaused:
		return "paused"
	case PhaseFinished:
		return "finished"
	default:
		return "idle"
	}
}

type MoodState int

const (
	MoodNone MoodState = iota
	MoodPending
	MoodRecorded
	MoodSkipped
)

func (s MoodState) String() string {
	switch s {
	case MoodPending:
		return "pending"
	case MoodRecorded:
		return "recorded"
	case MoodSkipped:
		return "skipped"
	default:
		return "none"
	}
}

func (s MoodState) resolved() bool {
	return s == MoodRecorded || s == MoodSkipped
}

type Outcome string

const (
	OutcomeUnset      Outcome = ""
	OutcomeFocused    Outcome = "Focused"
	OutcomeDistracted Outcome = "Distracted"
)

func ParseOutcome(s string) (Outcome, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "focused":
		return OutcomeFocused, nil
	case "distracted":
		return OutcomeDistracted, nil
	default:
		return OutcomeUnset, fmt.Errorf("%w: %q", ErrInvalidOutcome, s)
	}
}

// DefaultSubject labels sessions saved without a subject.
func DefaultSubject(t time.Time) string {
	return "Study session - " + t.Format("2006-01-02")
}

// Completion is returned by Tick when a countdown reaches zero.
type Completion struct {
	Mode    Mode
	Subject string
	Planned time.Duration
	At      time.Time
}

// SessionDraft is the record to persist for a saved focus run.
type SessionDraft struct {
	Cycle     uint64
	StartedAt time.Time
	EndedAt   time.Time
	Date      time.Time
	Focus     time.Duration
	Break     time.Duration
	Subject   string
	Outcome   Outcome
}

func (d SessionDraft) Actual() time.Duration {
	return d.EndedAt.Sub(d.StartedAt)
}

// MoodUpdate attaches Value to the session saved in Cycle.
type MoodUpdate struct {
	Cycle     uint64
	SessionID int64
	Value     string
}

type Snapshot struct {
	Mode         Mode
	Phase        Phase
	Remaining    time.Duration
	Focus        time.Duration
	Break        time.Duration
	Subject      string
	Outcome      Outcome
	Mood         MoodState
	MoodValue    string
	SessionID    int64
	SessionKnown bool
	SaveErr      error
	Cycle        uint64
	Generation   uint64
}

// Machine is not safe for concurrent use. It is driven from one goroutine.
type Machine struct {
	focus   time.Duration
	brk     time.Duration
	subject string

	mode      Mode
	phase     Phase
	remaining time.Duration
	finished  time.Time

	outcome      Outcome
	mood         MoodState
	moodValue    string
	sessionID    int64
	sessionKnown bool
	saveErr      error

	cycle uint64
	gen   uint64
}

// NewMachine returns an idle machine. A zero focus selects the demo
// countdown; a zero break selects DefaultBreak.
func NewMachine(focus, brk time.Duration, subject string) *Machine {
	m := &Machine{cycle: 1}
	m.configure(focus, brk, subject)
	m.remaining = m.focus
	return m
}

func (m *Machine) Snapshot() Snapshot {
	return Snapshot{
		Mode:         m.mode,
		Phase:        m.phase,
		Remaining:    m.remaining,
		Focus:        m.focus,
		Break:        m.brk,
		Subject:      m.subject,
		Outcome:      m.outcome,
		Mood:         m.mood,
		MoodValue:    m.moodValue,
		SessionID:    m.sessionID,
		SessionKnown: m.sessionKnown,
		SaveErr:      m.saveErr,
		Cycle:        m.cycle,
		Generation:   m.gen,
	}
}

// Configure changes durations and subject. Only allowed while idle.
func (m *Machine) Configure(focus, brk time.Duration, subject string) error {
	if m.phase != PhaseIdle {
		return ErrInvalidTransition
	}
	if focus < 0 || brk < 0 {
		return fmt.Errorf("%w: durations must be non-negative", apperrors.ErrInvalidInput)
	}
	m.configure(focus, brk, subject)
	m.mode = ModeFocus
	m.remaining = m.focus
	return nil
}

func (m *Machine) configure(focus, brk time.Duration, subject string) {
	if focus <= 0 {
		focus = DemoFocus
	}
	if brk <= 0 {
		brk = DefaultBreak
	}
	m.focus = focus
	m.brk = brk
	m.subject = strings.TrimSpace(subject)
}

// Start runs the countdown and returns the generation its ticks must carry.
func (m *Machine) Start(time.Time) (uint64, error) {
	switch m.phase {
	case PhaseIdle, PhasePaused:
	case PhaseFinished:
		if m.mode != ModeFocus || !m.mood.resolved() {
			return 0, ErrInvalidTransition
		}
		m.newCycle()
	default:
		return 0, ErrInvalidTransition
	}
	m.phase = PhaseRunning
	m.gen++
	return m.gen, nil
}

// Tick advances a running countdown by one second. A tick carrying an old
// generation, or arriving while not running, changes nothing.
func (m *Machine) Tick(gen uint64, now time.Time) (Completion, bool, error) {
	if m.phase != PhaseRunning || gen != m.gen {
		return Completion{}, false, ErrStaleTick
	}
	m.remaining -= tick
	if m.remaining > 0 {
		return Completion{}, false, nil
	}
	m.remaining = 0
	done := Completion{Mode: m.mode, Subject: m.subject, At: now}
	if m.mode == ModeBreak {
		done.Planned = m.brk
		m.newCycle()
		m.phase = PhaseIdle
		return done, true, nil
	}
	done.Planned = m.focus
	m.phase = PhaseFinished
	m.finished = now
	return done, true, nil
}

func (m *Machine) Pause() error {
	if m.phase != PhaseRunning {
		return ErrInvalidTransition
	}
	m.phase = PhasePaused
	m.gen++
	return nil
}

// Reset returns to an idle focus countdown from any state. Nothing is
// recorded for a run in progress.
func (m *Machine) Reset() {
	m.newCycle()
	m.phase = PhaseIdle
	m.gen++
}

// SaveOutcome ends the focus run with outcome and returns the session to
// persist. A running or paused focus countdown may be saved early, in
// which case the elapsed time is recorded.
func (m *Machine) SaveOutcome(outcome string, now time.Time) (SessionDraft, error) {
	if m.mode != ModeFocus {
		return SessionDraft{}, ErrInvalidTransition
	}
	var end time.Time
	var actual time.Duration
	switch m.phase {
	case PhaseFinished:
		if m.outcome != OutcomeUnset {
			return SessionDraft{}, ErrInvalidTransition
		}
		end, actual = m.finished, m.focus
	case PhaseRunning, PhasePaused:
		actual = m.focus - m.remaining
		if actual <= 0 {
			return SessionDraft{}, ErrInvalidTransition
		}
		end = now
	default:
		return SessionDraft{}, ErrInvalidTransition
	}
	parsed, err := ParseOutcome(outcome)
	if err != nil {
		return SessionDraft{}, err
	}

	if m.phase != PhaseFinished {
		m.phase = PhaseFinished
		m.finished = end
		m.gen++
	}
	m.outcome = parsed
	m.mood = MoodPending
	m.saveErr = nil

	subject := m.subject
	if subject == "" {
		subject = DefaultSubject(end)
	}
	return SessionDraft{
		Cycle:     m.cycle,
		StartedAt: end.Add(-actual),
		EndedAt:   end,
		Date:      clock.StartOfDay(end),
		Focus:     m.focus,
		Break:     m.brk,
		Subject:   subject,
		Outcome:   parsed,
	}, nil
}

// SessionSaved applies the result of persisting the draft of cycle. It
// reports whether the result was applied; results for an earlier cycle are
// dropped.
func (m *Machine) SessionSaved(cycle uint64, id int64, err error) bool {
	if cycle != m.cycle || m.outcome == OutcomeUnset {
		return false
	}
	if err != nil {
		m.saveErr = err
		return true
	}
	m.sessionID = id
	m.sessionKnown = true
	m.saveErr = nil
	return true
}

// RecordMood resolves a pending mood against the saved session. It fails
// with apperrors.ErrSessionNotPersisted while the session has no id.
func (m *Machine) RecordMood(value string) (MoodUpdate, error) {
	if m.mood != MoodPending {
		return MoodUpdate{}, ErrInvalidTransition
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return MoodUpdate{}, fmt.Errorf("%w: mood is required", apperrors.ErrInvalidInput)
	}
	if !m.sessionKnown {
		return MoodUpdate{}, apperrors.ErrSessionNotPersisted
	}
	m.mood = MoodRecorded
	m.moodValue = value
	return MoodUpdate{Cycle: m.cycle, SessionID: m.sessionID, Value: value}, nil
}

func (m *Machine) SkipMood() error {
	if m.mood != MoodPending {
		return ErrInvalidTransition
	}
	m.mood = MoodSkipped
	return nil
}

// StartBreak runs the break countdown once the mood step is resolved.
func (m *Machine) StartBreak(time.Time) (uint64, error) {
	if m.mode != ModeFocus || m.phase != PhaseFinished || !m.mood.resolved() {
		return 0, ErrInvalidTransition
	}
	m.mode = ModeBreak
	m.remaining = m.brk
	m.phase = PhaseRunning
	m.gen++
	return m.gen, nil
}

// newCycle clears per-cycle state and restores the focus countdown.
func (m *Machine) newCycle() {
	m.mode = ModeFocus
	m.remaining = m.focus
	m.finished = time.Time{}
	m.outcome = OutcomeUnset
	m.mood = MoodNone
	m.moodValue = ""
	m.sessionID = 0
	m.sessionKnown = false
	m.saveErr = nil
	m.cycle++
}
