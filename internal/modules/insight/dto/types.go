package dto

import (
	"time"

	sessiondto "moodooro/internal/modules/session/dto"
)

// LoadError is the message shown when weekly statistics cannot be read.
const LoadError = "Failed to load weekly statistics"

type DailyMood struct {
	Day     time.Time `json:"day"`
	Score   float64   `json:"score"`
	Label   string    `json:"label"`
	Entries int       `json:"entries"`
}

// WeeklyStats summarises the seven days ending at To. When Err is set the
// collections are empty and the counters zero.
type WeeklyStats struct {
	From           time.Time   `json:"from"`
	To             time.Time   `json:"to"`
	Sessions       int         `json:"sessions"`
	TotalMinutes   int         `json:"total_minutes"`
	AverageMinutes int         `json:"average_minutes"`
	Focused        int         `json:"focused"`
	Distracted     int         `json:"distracted"`
	Moods          []DailyMood `json:"moods"`
	Err            string      `json:"error,omitempty"`
}

type Dashboard struct {
	Recent        []sessiondto.SessionOutput `json:"recent"`
	TodayMinutes  int                        `json:"today_minutes"`
	WeeklyAverage int                        `json:"weekly_average"`
	Err           string                     `json:"error,omitempty"`
}
