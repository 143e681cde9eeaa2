package usecase

import (
	"context"

	"go.uber.org/zap"

	cuedto "moodooro/internal/modules/cue/dto"
	"moodooro/internal/modules/timer/domain"
	timerdto "moodooro/internal/modules/timer/dto"
	timerin "moodooro/internal/modules/timer/port/in"
	timerout "moodooro/internal/modules/timer/port/out"
	"moodooro/internal/platform/clock"
)

type Interactor struct {
	machine  *domain.Machine
	recorder timerout.SessionRecorder
	notifier timerout.Notifier
	clock    clock.Clock
	logger   *zap.Logger
}

func NewInteractor(cfg timerdto.ConfigInput, recorder timerout.SessionRecorder, notifier timerout.Notifier, clk clock.Clock, logger *zap.Logger) timerin.Usecase {
	return &Interactor{
		machine:  domain.NewMachine(cfg.Focus, cfg.Break, cfg.Subject),
		recorder: recorder,
		notifier: notifier,
		clock:    clk,
		logger:   logger,
	}
}

func (i *Interactor) Snapshot() timerdto.Snapshot {
	s := i.machine.Snapshot()
	out := timerdto.Snapshot{
		Mode:         s.Mode.String(),
		Phase:        s.Phase.String(),
		Remaining:    s.Remaining,
		Focus:        s.Focus,
		Break:        s.Break,
		Subject:      s.Subject,
		Outcome:      string(s.Outcome),
		Mood:         s.Mood.String(),
		MoodValue:    s.MoodValue,
		SessionID:    s.SessionID,
		SessionKnown: s.SessionKnown,
		Cycle:        s.Cycle,
		Generation:   s.Generation,
	}
	if s.SaveErr != nil {
		out.SaveErr = s.SaveErr.Error()
	}
	return out
}

func (i *Interactor) Configure(input timerdto.ConfigInput) error {
	return i.machine.Configure(input.Focus, input.Break, input.Subject)
}

func (i *Interactor) Start() (uint64, error) {
	return i.machine.Start(i.clock.Now())
}

func (i *Interactor) Tick(gen uint64) (timerdto.TickResult, error) {
	done, finished, err := i.machine.Tick(gen, i.clock.Now())
	if err != nil {
		return timerdto.TickResult{}, err
	}
	if !finished {
		return timerdto.TickResult{Running: true}, nil
	}
	return timerdto.TickResult{
		Completed: true,
		Mode:      done.Mode.String(),
		Subject:   done.Subject,
		Planned:   done.Planned,
		At:        done.At,
	}, nil
}

func (i *Interactor) Pause() error {
	return i.machine.Pause()
}

func (i *Interactor) Reset() {
	i.machine.Reset()
}

func (i *Interactor) SaveOutcome(outcome string) (timerdto.SaveTicket, error) {
	draft, err := i.machine.SaveOutcome(outcome, i.clock.Now())
	if err != nil {
		return timerdto.SaveTicket{}, err
	}
	return timerdto.SaveTicket{
		Cycle:     draft.Cycle,
		StartedAt: draft.StartedAt,
		EndedAt:   draft.EndedAt,
		Date:      draft.Date,
		Focus:     draft.Focus,
		Break:     draft.Break,
		Subject:   draft.Subject,
		Outcome:   string(draft.Outcome),
	}, nil
}

func (i *Interactor) SessionSaved(result timerdto.SaveResult) bool {
	return i.machine.SessionSaved(result.Cycle, result.SessionID, result.Err)
}

func (i *Interactor) RecordMood(value string) (timerdto.MoodTicket, error) {
	update, err := i.machine.RecordMood(value)
	if err != nil {
		return timerdto.MoodTicket{}, err
	}
	return timerdto.MoodTicket{Cycle: update.Cycle, SessionID: update.SessionID, Value: update.Value}, nil
}

func (i *Interactor) SkipMood() error {
	return i.machine.SkipMood()
}

func (i *Interactor) StartBreak() (uint64, error) {
	return i.machine.StartBreak(i.clock.Now())
}

// PersistSession writes ticket. The result is applied with SessionSaved on
// the goroutine that owns the timer.
func (i *Interactor) PersistSession(ctx context.Context, ticket timerdto.SaveTicket) timerdto.SaveResult {
	id, err := i.recorder.Record(ctx, ticket)
	if err != nil {
		i.logger.Warn("save session", zap.Uint64("cycle", ticket.Cycle), zap.Error(err))
	}
	return timerdto.SaveResult{Cycle: ticket.Cycle, SessionID: id, Err: err}
}

func (i *Interactor) AttachMood(ctx context.Context, ticket timerdto.MoodTicket) error {
	if err := i.recorder.AttachMood(ctx, ticket.SessionID, ticket.Value); err != nil {
		i.logger.Warn("record mood", zap.Int64("session_id", ticket.SessionID), zap.Error(err))
		return err
	}
	return nil
}

// Notify dispatches completion cues. Cue failures are logged only.
func (i *Interactor) Notify(ctx context.Context, result timerdto.TickResult) {
	if !result.Completed || i.notifier == nil {
		return
	}
	kind := cuedto.EventFocusComplete
	if result.Mode == timerdto.ModeBreak {
		kind = cuedto.EventBreakComplete
	}
	report := i.notifier.Notify(ctx, cuedto.Event{
		Kind:     kind,
		Subject:  result.Subject,
		Duration: result.Planned,
		At:       result.At,
	})
	for _, f := range report.Failures {
		i.logger.Debug("cue failed", zap.String("target", f.Target), zap.String("error", f.Err))
	}
}
