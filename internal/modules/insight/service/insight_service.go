package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"moodooro/internal/modules/insight/domain"
	insightdto "moodooro/internal/modules/insight/dto"
	mooddto "moodooro/internal/modules/mood/dto"
	moodin "moodooro/internal/modules/mood/port/in"
	sessiondto "moodooro/internal/modules/session/dto"
	sessionin "moodooro/internal/modules/session/port/in"
	"moodooro/internal/platform/clock"
)

type InsightService struct {
	sessions sessionin.Usecase
	moods    moodin.Usecase
	clock    clock.Clock
	logger   *zap.Logger
}

func NewInsightService(sessions sessionin.Usecase, moods moodin.Usecase, clk clock.Clock, logger *zap.Logger) *InsightService {
	return &InsightService{sessions: sessions, moods: moods, clock: clk, logger: logger}
}

func (s *InsightService) Weekly(ctx context.Context) (insightdto.WeeklyStats, error) {
	now := s.clock.Now()
	from := domain.WindowStart(now)
	sessions, err := s.sessions.After(ctx, from)
	if err != nil {
		return weeklyError(now), err
	}
	moods, err := s.moods.Between(ctx, from, time.Time{})
	if err != nil {
		return weeklyError(now), err
	}
	return weekly(now, sessions, moods), nil
}

// WatchWeekly follows the window ending at subscription time.
func (s *InsightService) WatchWeekly(ctx context.Context) (<-chan insightdto.WeeklyStats, error) {
	now := s.clock.Now()
	from := domain.WindowStart(now)
	sessions, err := s.sessions.WatchAfter(ctx, from)
	if err != nil {
		return nil, err
	}
	moods, err := s.moods.WatchBetween(ctx, from, time.Time{})
	if err != nil {
		return nil, err
	}
	return combineLatest(ctx, sessions, moods,
		func(ss []sessiondto.SessionOutput, ms []mooddto.EntryOutput) insightdto.WeeklyStats {
			return weekly(now, ss, ms)
		},
		func(err error) insightdto.WeeklyStats {
			s.logger.Warn("weekly stats stream", zap.Error(err))
			return weeklyError(now)
		},
	), nil
}

func (s *InsightService) Dashboard(ctx context.Context) (insightdto.Dashboard, error) {
	now := s.clock.Now()
	recent, err := s.sessions.Recent(ctx, domain.RecentLimit)
	if err != nil {
		return dashboardError(), err
	}
	week, err := s.sessions.After(ctx, domain.WindowStart(now))
	if err != nil {
		return dashboardError(), err
	}
	return dashboard(now, recent, week), nil
}

func (s *InsightService) WatchDashboard(ctx context.Context) (<-chan insightdto.Dashboard, error) {
	now := s.clock.Now()
	recent, err := s.sessions.WatchRecent(ctx, domain.RecentLimit)
	if err != nil {
		return nil, err
	}
	week, err := s.sessions.WatchAfter(ctx, domain.WindowStart(now))
	if err != nil {
		return nil, err
	}
	return combineLatest(ctx, recent, week,
		func(r, w []sessiondto.SessionOutput) insightdto.Dashboard {
			return dashboard(now, r, w)
		},
		func(err error) insightdto.Dashboard {
			s.logger.Warn("dashboard stream", zap.Error(err))
			return dashboardError()
		},
	), nil
}

func weekly(now time.Time, sessions []sessiondto.SessionOutput, moods []mooddto.EntryOutput) insightdto.WeeklyStats {
	w := domain.ComputeWeekly(now, sessionFacts(sessions), moodFacts(moods))
	out := insightdto.WeeklyStats{
		From:           w.From,
		To:             w.To,
		Sessions:       w.Sessions,
		TotalMinutes:   w.TotalMinutes,
		AverageMinutes: w.AverageMinutes,
		Focused:        w.Focused,
		Distracted:     w.Distracted,
		Moods:          make([]insightdto.DailyMood, 0, len(w.Moods)),
	}
	for _, m := range w.Moods {
		out.Moods = append(out.Moods, insightdto.DailyMood{Day: m.Day, Score: m.Score, Label: m.Label, Entries: m.Entries})
	}
	return out
}

func weeklyError(now time.Time) insightdto.WeeklyStats {
	return insightdto.WeeklyStats{
		From:  domain.WindowStart(now),
		To:    now,
		Moods: []insightdto.DailyMood{},
		Err:   insightdto.LoadError,
	}
}

func dashboard(now time.Time, recent, week []sessiondto.SessionOutput) insightdto.Dashboard {
	facts := sessionFacts(week)
	w := domain.ComputeWeekly(now, facts, nil)
	return insightdto.Dashboard{
		Recent:        recent,
		TodayMinutes:  domain.TodayMinutes(now, facts),
		WeeklyAverage: w.AverageMinutes,
	}
}

func dashboardError() insightdto.Dashboard {
	return insightdto.Dashboard{Recent: []sessiondto.SessionOutput{}, Err: "Failed to load sessions"}
}

func sessionFacts(sessions []sessiondto.SessionOutput) []domain.SessionFact {
	out := make([]domain.SessionFact, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, domain.SessionFact{EndedAt: s.EndedAt, Actual: s.ActualDuration, Outcome: s.Outcome})
	}
	return out
}

func moodFacts(entries []mooddto.EntryOutput) []domain.MoodFact {
	out := make([]domain.MoodFact, 0, len(entries))
	for _, e := range entries {
		out = append(out, domain.MoodFact{At: e.At, Value: e.Value})
	}
	return out
}
