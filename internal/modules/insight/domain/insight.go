package domain

import (
	"sort"
	"strings"
	"time"

	"moodooro/internal/platform/clock"
)

const (
	WindowDays = 7
	// MaxDailyMoods caps the per-day mood rows of a weekly summary.
	MaxDailyMoods = 7
	RecentLimit   = 5
)

var moodScores = map[string]float64{
	"bagus":      1.0,
	"baik":       1.0,
	"biasa":      0.5,
	"tidak baik": 0.25,
	"buruk":      0.1,
}

// Score maps a mood label to [0,1]. Unknown labels score 0.
func Score(label string) float64 {
	return moodScores[strings.ToLower(strings.TrimSpace(label))]
}

// Label maps an averaged score back to a mood label.
func Label(score float64) string {
	switch {
	case score > 0.7:
		return "Bagus"
	case score > 0.5:
		return "Baik"
	case score >= 0.35:
		return "Biasa"
	case score >= 0.15:
		return "Tidak Baik"
	default:
		return "Buruk"
	}
}

type SessionFact struct {
	EndedAt time.Time
	Actual  time.Duration
	Outcome string
}

type MoodFact struct {
	At    time.Time
	Value string
}

type DailyMood struct {
	Day     time.Time
	Score   float64
	Label   string
	Entries int
}

type Weekly struct {
	From           time.Time
	To             time.Time
	Sessions       int
	TotalMinutes   int
	AverageMinutes int
	Focused        int
	Distracted     int
	Moods          []DailyMood
}

// WindowStart is the inclusive lower bound of the weekly window ending at now.
func WindowStart(now time.Time) time.Time {
	return now.AddDate(0, 0, -WindowDays)
}

// ComputeWeekly aggregates facts that fall inside the window ending at now.
func ComputeWeekly(now time.Time, sessions []SessionFact, moods []MoodFact) Weekly {
	from := WindowStart(now)
	w := Weekly{From: from, To: now, Moods: []DailyMood{}}

	var total time.Duration
	for _, s := range sessions {
		if s.EndedAt.Before(from) {
			continue
		}
		w.Sessions++
		total += s.Actual
		switch strings.ToLower(s.Outcome) {
		case "focused":
			w.Focused++
		case "distracted":
			w.Distracted++
		}
	}
	w.TotalMinutes = int(total / time.Minute)
	w.AverageMinutes = w.TotalMinutes / WindowDays

	type bucket struct {
		sum float64
		n   int
	}
	days := map[time.Time]*bucket{}
	for _, m := range moods {
		if m.At.Before(from) {
			continue
		}
		day := clock.StartOfDay(m.At)
		b, ok := days[day]
		if !ok {
			b = &bucket{}
			days[day] = b
		}
		b.sum += Score(m.Value)
		b.n++
	}
	for day, b := range days {
		score := b.sum / float64(b.n)
		w.Moods = append(w.Moods, DailyMood{Day: day, Score: score, Label: Label(score), Entries: b.n})
	}
	sort.Slice(w.Moods, func(i, j int) bool { return w.Moods[i].Day.After(w.Moods[j].Day) })
	if len(w.Moods) > MaxDailyMoods {
		w.Moods = w.Moods[:MaxDailyMoods]
	}
	return w
}

// TodayMinutes sums the focus minutes of sessions that ended today.
func TodayMinutes(now time.Time, sessions []SessionFact) int {
	today := clock.StartOfDay(now)
	var total time.Duration
	for _, s := range sessions {
		if !s.EndedAt.Before(today) {
			total += s.Actual
		}
	}
	return int(total / time.Minute)
}
