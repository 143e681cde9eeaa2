package usecase

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"moodooro/internal/modules/mood/domain"
	mooddto "moodooro/internal/modules/mood/dto"
	moodin "moodooro/internal/modules/mood/port/in"
	moodout "moodooro/internal/modules/mood/port/out"
	"moodooro/internal/modules/mood/service"
	apperrors "moodooro/internal/platform/errors"
	"moodooro/internal/platform/stream"
)

type Interactor struct {
	svc *service.MoodService
}

func NewInteractor(svc *service.MoodService) moodin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Add(ctx context.Context, input mooddto.AddInput) (mooddto.EntryOutput, error) {
	if input.SessionID < 0 {
		return mooddto.EntryOutput{}, fmt.Errorf("%w: session id must be positive", apperrors.ErrInvalidInput)
	}
	entry := domain.Entry{At: input.At, Value: input.Value, Note: input.Note}
	if input.SessionID > 0 {
		entry.SessionID = domain.SessionRef(input.SessionID)
	}
	saved, err := i.svc.Add(ctx, entry)
	if err != nil {
		return mooddto.EntryOutput{}, err
	}
	return toOutput(saved), nil
}

func (i *Interactor) Update(ctx context.Context, input mooddto.UpdateInput) (mooddto.EntryOutput, error) {
	entry, err := i.svc.Update(ctx, input.ID, input.Value, input.Note)
	if err != nil {
		return mooddto.EntryOutput{}, err
	}
	return toOutput(entry), nil
}

func (i *Interactor) Delete(ctx context.Context, id int64) error {
	return i.svc.Delete(ctx, id)
}

func (i *Interactor) DeleteAll(ctx context.Context) (int64, error) {
	return i.svc.DeleteAll(ctx)
}

func (i *Interactor) Get(ctx context.Context, id int64) (mooddto.EntryOutput, error) {
	entry, err := i.svc.Get(ctx, id)
	if err != nil {
		return mooddto.EntryOutput{}, err
	}
	return toOutput(entry), nil
}

func (i *Interactor) List(ctx context.Context) ([]mooddto.EntryOutput, error) {
	return i.find(ctx, moodout.Filter{})
}

func (i *Interactor) BySession(ctx context.Context, sessionID int64) ([]mooddto.EntryOutput, error) {
	if sessionID <= 0 {
		return nil, fmt.Errorf("%w: session id must be positive", apperrors.ErrInvalidInput)
	}
	return i.find(ctx, moodout.Filter{SessionID: sessionID})
}

func (i *Interactor) Between(ctx context.Context, from, to time.Time) ([]mooddto.EntryOutput, error) {
	return i.find(ctx, moodout.Filter{From: from, To: to})
}

func (i *Interactor) ByOutcome(ctx context.Context, outcome string) ([]mooddto.EntryOutput, error) {
	if outcome == "" {
		return nil, fmt.Errorf("%w: outcome is required", apperrors.ErrInvalidInput)
	}
	return i.find(ctx, moodout.Filter{Outcome: outcome})
}

func (i *Interactor) WatchBetween(ctx context.Context, from, to time.Time) (<-chan stream.Result[[]mooddto.EntryOutput], error) {
	key := "between." + strconv.FormatInt(from.UnixMilli(), 10) + "." + strconv.FormatInt(to.UnixMilli(), 10)
	in, err := i.svc.Feed(key, moodout.Filter{From: from, To: to}).Subscribe(ctx)
	if err != nil {
		return nil, err
	}
	out := make(chan stream.Result[[]mooddto.EntryOutput], 1)
	go func() {
		defer close(out)
		for res := range in {
			mapped := stream.Result[[]mooddto.EntryOutput]{Err: res.Err}
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

func (i *Interactor) find(ctx context.Context, filter moodout.Filter) ([]mooddto.EntryOutput, error) {
	entries, err := i.svc.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	return toOutputs(entries), nil
}

func toOutputs(entries []domain.Entry) []mooddto.EntryOutput {
	out := make([]mooddto.EntryOutput, 0, len(entries))
	for _, e := range entries {
		out = append(out, toOutput(e))
	}
	return out
}

func toOutput(e domain.Entry) mooddto.EntryOutput {
	out := mooddto.EntryOutput{ID: e.ID, At: e.At, Value: e.Value, Note: e.Note}
	if e.SessionID.Valid {
		out.SessionID = e.SessionID.ID
	}
	return out
}
