package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"moodooro/internal/modules/session/domain"
	sessionout "moodooro/internal/modules/session/port/out"
	"moodooro/internal/platform/clock"
	apperrors "moodooro/internal/platform/errors"
	"moodooro/internal/platform/stream"
	"moodooro/internal/platform/tx"
)

type SessionService struct {
	repo    sessionout.Repository
	journal sessionout.Journal
	bus     *stream.Bus
	logger  *zap.Logger
}

func NewSessionService(repo sessionout.Repository, journal sessionout.Journal, bus *stream.Bus, logger *zap.Logger) *SessionService {
	return &SessionService{repo: repo, journal: journal, bus: bus, logger: logger}
}

// Record stores a finished session. The date bucket is the start of the
// day the session ended on.
func (s *SessionService) Record(ctx context.Context, session domain.Session) (domain.Session, error) {
	session.Subject = strings.TrimSpace(session.Subject)
	session.Date = clock.StartOfDay(session.EndedAt)
	session.Mood = ""
	if err := session.Validate(); err != nil {
		return domain.Session{}, err
	}
	id, err := s.repo.Insert(ctx, session)
	if err != nil {
		return domain.Session{}, err
	}
	session.ID = id
	s.changed(ctx, stream.TopicSessions)
	return session, nil
}

func (s *SessionService) SetMood(ctx context.Context, id int64, mood string) error {
	mood = strings.TrimSpace(mood)
	if mood == "" {
		return fmt.Errorf("%w: mood is required", apperrors.ErrInvalidInput)
	}
	if err := s.repo.UpdateMood(ctx, id, mood); err != nil {
		return err
	}
	s.changed(ctx, stream.TopicSessions)
	return nil
}

func (s *SessionService) Get(ctx context.Context, id int64) (domain.Session, error) {
	return s.repo.Get(ctx, id)
}

func (s *SessionService) Find(ctx context.Context, filter sessionout.Filter) ([]domain.Session, error) {
	if filter.Limit < 0 {
		return nil, fmt.Errorf("%w: limit must be non-negative", apperrors.ErrInvalidInput)
	}
	return s.repo.Find(ctx, filter)
}

// ClearAll removes every session. Linked mood entries lose their reference,
// so mood subscribers are notified as well.
func (s *SessionService) ClearAll(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}
	s.changed(ctx, stream.TopicSessions)
	s.changed(ctx, stream.TopicMoods)
	return n, nil
}

func (s *SessionService) Feed(key string, filter sessionout.Filter) *stream.Feed[[]domain.Session] {
	return stream.NewFeed(s.bus, "sessions."+key, func(ctx context.Context) ([]domain.Session, error) {
		return s.repo.Find(ctx, filter)
	}, stream.TopicSessions)
}

func (s *SessionService) Export(ctx context.Context, dir string) ([]string, string, error) {
	if s.journal == nil {
		return nil, "", fmt.Errorf("journal exporter is not configured")
	}
	sessions, err := s.repo.Find(ctx, sessionout.Filter{})
	if err != nil {
		return nil, "", err
	}
	paths := make([]string, 0, len(sessions))
	for _, session := range sessions {
		path, err := s.journal.WriteSession(ctx, dir, session)
		if err != nil {
			return nil, "", err
		}
		paths = append(paths, path)
	}
	summary, err := s.journal.WriteSummary(ctx, dir, sessions)
	if err != nil {
		return nil, "", err
	}
	return paths, summary, nil
}

// changed publishes after the surrounding transaction commits, so that
// feed re-reads observe the write.
func (s *SessionService) changed(ctx context.Context, topic string) {
	if s.bus == nil {
		return
	}
	tx.AfterCommit(ctx, func() {
		if err := s.bus.Publish(topic); err != nil {
			s.logger.Warn("publish change", zap.String("topic", topic), zap.Error(err))
		}
	})
}
