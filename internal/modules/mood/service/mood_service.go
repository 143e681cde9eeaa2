package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"moodooro/internal/modules/mood/domain"
	moodout "moodooro/internal/modules/mood/port/out"
	"moodooro/internal/platform/clock"
	apperrors "moodooro/internal/platform/errors"
	"moodooro/internal/platform/stream"
	"moodooro/internal/platform/tx"
)

type MoodService struct {
	repo   moodout.Repository
	clock  clock.Clock
	bus    *stream.Bus
	logger *zap.Logger
}

func NewMoodService(repo moodout.Repository, clk clock.Clock, bus *stream.Bus, logger *zap.Logger) *MoodService {
	return &MoodService{repo: repo, clock: clk, bus: bus, logger: logger}
}

// Add stores entry. A linked session must exist; the store reports
// apperrors.ErrNotFound otherwise.
func (s *MoodService) Add(ctx context.Context, entry domain.Entry) (domain.Entry, error) {
	entry.Normalize()
	if entry.At.IsZero() {
		entry.At = s.clock.Now()
	}
	if err := entry.Validate(); err != nil {
		return domain.Entry{}, err
	}
	id, err := s.repo.Insert(ctx, entry)
	if err != nil {
		return domain.Entry{}, err
	}
	entry.ID = id
	s.changed(ctx)
	return entry, nil
}

// Update edits value and note. The timestamp and session link are fixed.
func (s *MoodService) Update(ctx context.Context, id int64, value, note *string) (domain.Entry, error) {
	entry, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Entry{}, err
	}
	if value != nil {
		entry.Value = *value
	}
	if note != nil {
		entry.Note = *note
	}
	entry.Normalize()
	if err := entry.Validate(); err != nil {
		return domain.Entry{}, err
	}
	if err := s.repo.Update(ctx, entry); err != nil {
		return domain.Entry{}, err
	}
	s.changed(ctx)
	return entry, nil
}

func (s *MoodService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.changed(ctx)
	return nil
}

func (s *MoodService) DeleteAll(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}
	s.changed(ctx)
	return n, nil
}

func (s *MoodService) Get(ctx context.Context, id int64) (domain.Entry, error) {
	return s.repo.Get(ctx, id)
}

func (s *MoodService) Find(ctx context.Context, filter moodout.Filter) ([]domain.Entry, error) {
	if filter.Outcome != "" {
		outcome, err := normalizeOutcome(filter.Outcome)
		if err != nil {
			return nil, err
		}
		filter.Outcome = outcome
	}
	if !filter.From.IsZero() && !filter.To.IsZero() && filter.To.Before(filter.From) {
		return nil, fmt.Errorf("%w: range ends before it starts", apperrors.ErrInvalidInput)
	}
	return s.repo.Find(ctx, filter)
}

// Feed re-reads filter whenever moods change. Session writes matter too:
// clearing sessions unlinks entries.
func (s *MoodService) Feed(key string, filter moodout.Filter) *stream.Feed[[]domain.Entry] {
	return stream.NewFeed(s.bus, "moods."+key, func(ctx context.Context) ([]domain.Entry, error) {
		return s.Find(ctx, filter)
	}, stream.TopicMoods)
}

func (s *MoodService) changed(ctx context.Context) {
	if s.bus == nil {
		return
	}
	tx.AfterCommit(ctx, func() {
		if err := s.bus.Publish(stream.TopicMoods); err != nil {
			s.logger.Warn("publish change", zap.String("topic", stream.TopicMoods), zap.Error(err))
		}
	})
}

func normalizeOutcome(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "focused":
		return "Focused", nil
	case "distracted":
		return "Distracted", nil
	default:
		return "", fmt.Errorf("%w: unknown outcome %q", apperrors.ErrInvalidInput, s)
	}
}
