package domain

import (
	"errors"
	"testing"
	"time"

	apperrors "moodooro/internal/platform/errors"
)

var t0 = time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

// runTicks delivers n ticks for gen, one second apart starting at from.
func runTicks(t *testing.T, m *Machine, gen uint64, from time.Time, n int) (Completion, bool) {
	t.Helper()
	var done Completion
	var finished bool
	for i := 1; i <= n; i++ {
		c, ok, err := m.Tick(gen, from.Add(time.Duration(i)*time.Second))
		if err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
		if ok {
			done, finished = c, true
		}
	}
	return done, finished
}

func mustStart(t *testing.T, m *Machine, now time.Time) uint64 {
	t.Helper()
	gen, err := m.Start(now)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	return gen
}

func TestCountdownReachesExactlyZero(t *testing.T) {
	t.Parallel()
	for _, focus := range []time.Duration{time.Second, 5 * time.Second, 90 * time.Second, 25 * time.Minute} {
		m := NewMachine(focus, 0, "")
		gen := mustStart(t, m, t0)
		if m.Snapshot().Phase != PhaseRunning {
			t.Fatalf("%s: expected running", focus)
		}
		done, ok := runTicks(t, m, gen, t0, int(focus/time.Second))
		snap := m.Snapshot()
		if !ok || done.Mode != ModeFocus || done.Planned != focus {
			t.Fatalf("%s: expected focus completion, got %+v ok=%v", focus, done, ok)
		}
		if snap.Phase != PhaseFinished || snap.Remaining != 0 {
			t.Fatalf("%s: expected finished at zero, got %s %s", focus, snap.Phase, snap.Remaining)
		}
		if _, _, err := m.Tick(gen, t0); !errors.Is(err, ErrStaleTick) {
			t.Fatalf("%s: tick after finish must be ignored, got %v", focus, err)
		}
	}
}

func TestZeroFocusIsDemoCountdown(t *testing.T) {
	t.Parallel()
	m := NewMachine(0, 0, "")
	snap := m.Snapshot()
	if snap.Remaining != DemoFocus || snap.Break != DefaultBreak {
		t.Fatalf("expected demo focus and default break, got %s %s", snap.Remaining, snap.Break)
	}
}

func TestPauseResumeKeepsRemaining(t *testing.T) {
	t.Parallel()
	m := NewMachine(25*time.Minute, 5*time.Minute, "")
	gen := mustStart(t, m, t0)
	runTicks(t, m, gen, t0, 10)
	if err := m.Pause(); err != nil {
		t.Fatalf("pause: %v", err)
	}
	paused := m.Snapshot().Remaining
	if paused != 24*time.Minute+50*time.Second {
		t.Fatalf("expected 24:50 remaining, got %s", paused)
	}
	if _, _, err := m.Tick(gen, t0.Add(11*time.Second)); !errors.Is(err, ErrStaleTick) {
		t.Fatalf("tick after pause must be stale, got %v", err)
	}
	if err := m.Pause(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("pause while paused must fail, got %v", err)
	}

	resumed := mustStart(t, m, t0.Add(time.Minute))
	if resumed == gen {
		t.Fatalf("resume must issue a new generation")
	}
	if got := m.Snapshot().Remaining; got != paused {
		t.Fatalf("resume drifted: %s != %s", got, paused)
	}
	if _, _, err := m.Tick(gen, t0.Add(time.Minute)); !errors.Is(err, ErrStaleTick) {
		t.Fatalf("old generation must stay stale after resume, got %v", err)
	}
	runTicks(t, m, resumed, t0.Add(time.Minute), 1)
	if got := m.Snapshot().Remaining; got != paused-time.Second {
		t.Fatalf("expected one tick of progress, got %s", got)
	}
}

func TestStartWhileRunningIsIgnored(t *testing.T) {
	t.Parallel()
	m := NewMachine(time.Minute, 0, "")
	gen := mustStart(t, m, t0)
	if _, err := m.Start(t0); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
	if m.Snapshot().Generation != gen {
		t.Fatalf("ignored start must not change generation")
	}
}

func TestResetFromEveryState(t *testing.T) {
	t.Parallel()
	focus := 3 * time.Second
	states := map[string]func(m *Machine){
		"idle": func(*Machine) {},
		"running": func(m *Machine) {
			gen, _ := m.Start(t0)
			_, _, _ = m.Tick(gen, t0.Add(time.Second))
		},
		"paused": func(m *Machine) {
			gen, _ := m.Start(t0)
			_, _, _ = m.Tick(gen, t0.Add(time.Second))
			_ = m.Pause()
		},
		"finished": func(m *Machine) {
			gen, _ := m.Start(t0)
			for i := 1; i <= 3; i++ {
				_, _, _ = m.Tick(gen, t0.Add(time.Duration(i)*time.Second))
			}
		},
		"mood pending": func(m *Machine) {
			gen, _ := m.Start(t0)
			for i := 1; i <= 3; i++ {
				_, _, _ = m.Tick(gen, t0.Add(time.Duration(i)*time.Second))
			}
			_, _ = m.SaveOutcome("Focused", t0)
			m.SessionSaved(m.Snapshot().Cycle, 7, nil)
		},
		"break running": func(m *Machine) {
			gen, _ := m.Start(t0)
			for i := 1; i <= 3; i++ {
				_, _, _ = m.Tick(gen, t0.Add(time.Duration(i)*time.Second))
			}
			_, _ = m.SaveOutcome("Focused", t0)
			_ = m.SkipMood()
			_, _ = m.StartBreak(t0)
		},
	}
	for name, setup := range states {
		m := NewMachine(focus, 0, "")
		setup(m)
		before := m.Snapshot()
		m.Reset()
		snap := m.Snapshot()
		if snap.Phase != PhaseIdle || snap.Mode != ModeFocus || snap.Remaining != focus {
			t.Fatalf("%s: expected idle focus at full duration, got %s %s %s", name, snap.Mode, snap.Phase, snap.Remaining)
		}
		if snap.Outcome != OutcomeUnset || snap.Mood != MoodNone || snap.SessionKnown || snap.SaveErr != nil {
			t.Fatalf("%s: reset left cycle state behind: %+v", name, snap)
		}
		if snap.Generation == before.Generation {
			t.Fatalf("%s: reset must cancel pending ticks", name)
		}
	}
}

func TestPauseThenResetRestoresFullDuration(t *testing.T) {
	t.Parallel()
	m := NewMachine(25*time.Minute, 5*time.Minute, "")
	gen := mustStart(t, m, t0)
	runTicks(t, m, gen, t0, 10)
	if err := m.Pause(); err != nil {
		t.Fatalf("pause: %v", err)
	}
	m.Reset()
	snap := m.Snapshot()
	if snap.Remaining != 25*time.Minute || snap.Phase != PhaseIdle {
		t.Fatalf("expected idle at 25:00, got %s %s", snap.Phase, snap.Remaining)
	}
}

func TestSaveOutcomeAfterCompletion(t *testing.T) {
	t.Parallel()
	m := NewMachine(5*time.Second, 5*time.Minute, "")
	gen := mustStart(t, m, t0)
	done, _ := runTicks(t, m, gen, t0, 5)

	draft, err := m.SaveOutcome("distracted", t0.Add(time.Hour))
	if err != nil {
		t.Fatalf("save outcome: %v", err)
	}
	if draft.Outcome != OutcomeDistracted || draft.Actual() != 5*time.Second {
		t.Fatalf("unexpected draft: %+v", draft)
	}
	if !draft.EndedAt.Equal(done.At) {
		t.Fatalf("draft must end at completion time, got %s want %s", draft.EndedAt, done.At)
	}
	if draft.Subject != "Study session - 2026-06-01" {
		t.Fatalf("expected default subject, got %q", draft.Subject)
	}
	if !draft.Date.Equal(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected date bucket %s", draft.Date)
	}
	if snap := m.Snapshot(); snap.Mood != MoodPending || snap.Outcome != OutcomeDistracted {
		t.Fatalf("expected mood pending, got %+v", snap)
	}
	if _, err := m.SaveOutcome("Focused", t0); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("second outcome must be refused, got %v", err)
	}
}

func TestEarlySaveRecordsElapsedTime(t *testing.T) {
	t.Parallel()
	m := NewMachine(25*time.Minute, 5*time.Minute, "Calculus")
	gen := mustStart(t, m, t0)
	runTicks(t, m, gen, t0, 90)
	now := t0.Add(90 * time.Second)

	draft, err := m.SaveOutcome("Focused", now)
	if err != nil {
		t.Fatalf("early save: %v", err)
	}
	if draft.Actual() != 90*time.Second {
		t.Fatalf("expected elapsed 90s, got %s", draft.Actual())
	}
	if draft.Focus != 25*time.Minute || draft.Subject != "Calculus" || !draft.EndedAt.Equal(now) {
		t.Fatalf("unexpected draft: %+v", draft)
	}
	if _, _, err := m.Tick(gen, now.Add(time.Second)); !errors.Is(err, ErrStaleTick) {
		t.Fatalf("early save must stop the countdown, got %v", err)
	}
}

func TestSaveOutcomeRefusals(t *testing.T) {
	t.Parallel()
	m := NewMachine(time.Minute, 0, "")
	if _, err := m.SaveOutcome("Focused", t0); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("idle save must fail, got %v", err)
	}
	mustStart(t, m, t0)
	if _, err := m.SaveOutcome("Focused", t0); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("save with nothing elapsed must fail, got %v", err)
	}
	gen := m.Snapshot().Generation
	runTicks(t, m, gen, t0, 60)
	if _, err := m.SaveOutcome("Completed", t0); !errors.Is(err, ErrInvalidOutcome) {
		t.Fatalf("expected invalid outcome, got %v", err)
	}
	if snap := m.Snapshot(); snap.Outcome != OutcomeUnset || snap.Mood != MoodNone {
		t.Fatalf("invalid outcome must not change state: %+v", snap)
	}
}

func TestStartRefusedUntilMoodResolved(t *testing.T) {
	t.Parallel()
	m := NewMachine(2*time.Second, 0, "")
	gen := mustStart(t, m, t0)
	runTicks(t, m, gen, t0, 2)
	if _, err := m.Start(t0); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("start with outcome unset must fail, got %v", err)
	}
	if _, err := m.SaveOutcome("Focused", t0); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := m.Start(t0); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("start with mood pending must fail, got %v", err)
	}
	cycle := m.Snapshot().Cycle
	if err := m.SkipMood(); err != nil {
		t.Fatalf("skip: %v", err)
	}
	mustStart(t, m, t0)
	snap := m.Snapshot()
	if snap.Cycle != cycle+1 || snap.Remaining != 2*time.Second || snap.Outcome != OutcomeUnset {
		t.Fatalf("expected a fresh cycle, got %+v", snap)
	}
}

func TestRecordMoodAttachesToSavedSession(t *testing.T) {
	t.Parallel()
	m := NewMachine(time.Second, 0, "")
	gen := mustStart(t, m, t0)
	runTicks(t, m, gen, t0, 1)
	draft, err := m.SaveOutcome("Focused", t0)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	if _, err := m.RecordMood("Bagus"); !errors.Is(err, apperrors.ErrSessionNotPersisted) {
		t.Fatalf("expected not persisted before save result, got %v", err)
	}
	if m.Snapshot().Mood != MoodPending {
		t.Fatalf("refused mood must stay pending")
	}
	if !m.SessionSaved(draft.Cycle, 41, nil) {
		t.Fatalf("save result for current cycle must apply")
	}
	update, err := m.RecordMood(" Bagus ")
	if err != nil {
		t.Fatalf("record mood: %v", err)
	}
	if update.SessionID != 41 || update.Value != "Bagus" {
		t.Fatalf("unexpected mood update: %+v", update)
	}
	if _, err := m.RecordMood("Baik"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("second mood must be refused, got %v", err)
	}
}

func TestSaveFailureKeepsMoodUnavailableButSkippable(t *testing.T) {
	t.Parallel()
	m := NewMachine(time.Second, 0, "")
	gen := mustStart(t, m, t0)
	runTicks(t, m, gen, t0, 1)
	draft, _ := m.SaveOutcome("Focused", t0)

	m.SessionSaved(draft.Cycle, 0, errors.New("disk full"))
	if m.Snapshot().SaveErr == nil {
		t.Fatalf("save error must be kept")
	}
	if _, err := m.RecordMood("Bagus"); !errors.Is(err, apperrors.ErrSessionNotPersisted) {
		t.Fatalf("expected not persisted, got %v", err)
	}
	if err := m.SkipMood(); err != nil {
		t.Fatalf("skip after failed save: %v", err)
	}
	if m.Snapshot().Mood != MoodSkipped {
		t.Fatalf("expected skipped")
	}
	if err := m.SkipMood(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("skip is only valid while pending, got %v", err)
	}
}

func TestLateSaveResultIsDropped(t *testing.T) {
	t.Parallel()
	m := NewMachine(time.Second, 0, "")
	gen := mustStart(t, m, t0)
	runTicks(t, m, gen, t0, 1)
	draft, _ := m.SaveOutcome("Focused", t0)
	m.Reset()

	gen = mustStart(t, m, t0)
	runTicks(t, m, gen, t0, 1)
	if _, err := m.SaveOutcome("Distracted", t0); err != nil {
		t.Fatalf("save: %v", err)
	}
	if m.SessionSaved(draft.Cycle, 99, nil) {
		t.Fatalf("result of an earlier cycle must be dropped")
	}
	if m.Snapshot().SessionKnown {
		t.Fatalf("late id must not attach to the new cycle")
	}
}

func TestBreakReturnsToIdleWithFocusDuration(t *testing.T) {
	t.Parallel()
	focus, brk := 25*time.Minute, 5*time.Minute
	m := NewMachine(focus, brk, "")
	gen := mustStart(t, m, t0)
	runTicks(t, m, gen, t0, int(focus/time.Second))
	if _, err := m.StartBreak(t0); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("break before mood resolved must fail, got %v", err)
	}
	if _, err := m.SaveOutcome("Focused", t0); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := m.SkipMood(); err != nil {
		t.Fatalf("skip: %v", err)
	}

	gen, err := m.StartBreak(t0)
	if err != nil {
		t.Fatalf("start break: %v", err)
	}
	snap := m.Snapshot()
	if snap.Mode != ModeBreak || snap.Phase != PhaseRunning || snap.Remaining != brk {
		t.Fatalf("expected running break of %s, got %+v", brk, snap)
	}
	runTicks(t, m, gen, t0, 60)
	if err := m.Pause(); err != nil {
		t.Fatalf("pause break: %v", err)
	}
	gen = mustStart(t, m, t0)
	done, ok := runTicks(t, m, gen, t0, int(brk/time.Second)-60)
	if !ok || done.Mode != ModeBreak {
		t.Fatalf("expected break completion, got %+v", done)
	}
	snap = m.Snapshot()
	if snap.Phase != PhaseIdle || snap.Mode != ModeFocus || snap.Remaining != focus {
		t.Fatalf("expected idle focus at %s, got %s %s %s", focus, snap.Mode, snap.Phase, snap.Remaining)
	}
}

func TestConfigureOnlyWhileIdle(t *testing.T) {
	t.Parallel()
	m := NewMachine(time.Minute, 0, "")
	if err := m.Configure(10*time.Minute, 2*time.Minute, " Physics "); err != nil {
		t.Fatalf("configure: %v", err)
	}
	snap := m.Snapshot()
	if snap.Remaining != 10*time.Minute || snap.Break != 2*time.Minute || snap.Subject != "Physics" {
		t.Fatalf("unexpected configuration: %+v", snap)
	}
	mustStart(t, m, t0)
	if err := m.Configure(time.Minute, 0, ""); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("configure while running must fail, got %v", err)
	}
	m.Reset()
	if err := m.Configure(-time.Minute, 0, ""); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("negative focus must fail, got %v", err)
	}
}
