package usecase

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"moodooro/internal/modules/session/domain"
	sessiondto "moodooro/internal/modules/session/dto"
	sessionin "moodooro/internal/modules/session/port/in"
	sessionout "moodooro/internal/modules/session/port/out"
	"moodooro/internal/modules/session/service"
	"moodooro/internal/platform/stream"
)

type Interactor struct {
	svc *service.SessionService
}

func NewInteractor(svc *service.SessionService) sessionin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Record(ctx context.Context, input sessiondto.RecordInput) (sessiondto.SessionOutput, error) {
	outcome, err := domain.ParseOutcome(input.Outcome)
	if err != nil {
		return sessiondto.SessionOutput{}, err
	}
	session, err := i.svc.Record(ctx, domain.Session{
		StartedAt:     input.StartedAt,
		EndedAt:       input.EndedAt,
		FocusDuration: input.FocusDuration,
		BreakDuration: input.BreakDuration,
		Subject:       input.Subject,
		Outcome:       outcome,
	})
	if err != nil {
		return sessiondto.SessionOutput{}, err
	}
	return toOutput(session), nil
}

func (i *Interactor) SetMood(ctx context.Context, id int64, mood string) error {
	return i.svc.SetMood(ctx, id, mood)
}

func (i *Interactor) Get(ctx context.Context, id int64) (sessiondto.SessionOutput, error) {
	session, err := i.svc.Get(ctx, id)
	if err != nil {
		return sessiondto.SessionOutput{}, err
	}
	return toOutput(session), nil
}

func (i *Interactor) List(ctx context.Context, query sessiondto.ListQuery) ([]sessiondto.SessionOutput, error) {
	sessions, err := i.svc.Find(ctx, sessionout.Filter{After: query.After, Before: query.Before, Limit: query.Limit})
	if err != nil {
		return nil, err
	}
	return toOutputs(sessions), nil
}

func (i *Interactor) Recent(ctx context.Context, limit int) ([]sessiondto.SessionOutput, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive")
	}
	return i.List(ctx, sessiondto.ListQuery{Limit: limit})
}

func (i *Interactor) After(ctx context.Context, t time.Time) ([]sessiondto.SessionOutput, error) {
	return i.List(ctx, sessiondto.ListQuery{After: t})
}

func (i *Interactor) ClearAll(ctx context.Context) (int64, error) {
	return i.svc.ClearAll(ctx)
}

func (i *Interactor) WatchRecent(ctx context.Context, limit int) (<-chan stream.Result[[]sessiondto.SessionOutput], error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive")
	}
	feed := i.svc.Feed("recent."+strconv.Itoa(limit), sessionout.Filter{Limit: limit})
	return watch(ctx, feed)
}

func (i *Interactor) WatchAfter(ctx context.Context, t time.Time) (<-chan stream.Result[[]sessiondto.SessionOutput], error) {
	feed := i.svc.Feed("after."+strconv.FormatInt(t.UnixMilli(), 10), sessionout.Filter{After: t})
	return watch(ctx, feed)
}

func (i *Interactor) Export(ctx context.Context, dir string) (sessiondto.ExportOutput, error) {
	if dir == "" {
		return sessiondto.ExportOutput{}, fmt.Errorf("export dir is required")
	}
	notes, summary, err := i.svc.Export(ctx, dir)
	if err != nil {
		return sessiondto.ExportOutput{}, err
	}
	return sessiondto.ExportOutput{Dir: dir, Notes: notes, SummaryPath: summary}, nil
}

// watch maps a domain feed onto dto values for the subscriber.
func watch(ctx context.Context, feed *stream.Feed[[]domain.Session]) (<-chan stream.Result[[]sessiondto.SessionOutput], error) {
	in, err := feed.Subscribe(ctx)
	if err != nil {
		return nil, err
	}
	out := make(chan stream.Result[[]sessiondto.SessionOutput], 1)
	go func() {
		defer close(out)
		for res := range in {
			mapped := stream.Result[[]sessiondto.SessionOutput]{Err: res.Err}
			if res.Err == nil {
				mapped.Value = toOutputs(res.Value)
			}
			select {
			case <-out:
			default:
			}
			out <- mapped
		}
	}()
	return out, nil
}

func toOutputs(sessions []domain.Session) []sessiondto.SessionOutput {
	out := make([]sessiondto.SessionOutput, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, toOutput(s))
	}
	return out
}

func toOutput(s domain.Session) sessiondto.SessionOutput {
	return sessiondto.SessionOutput{
		ID:             s.ID,
		StartedAt:      s.StartedAt,
		EndedAt:        s.EndedAt,
		FocusDuration:  s.FocusDuration,
		BreakDuration:  s.BreakDuration,
		ActualDuration: s.ActualDuration(),
		Subject:        s.Subject,
		Outcome:        string(s.Outcome),
		Date:           s.Date,
		Mood:           s.Mood,
	}
}
