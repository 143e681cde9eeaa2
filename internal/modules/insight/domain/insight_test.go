package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreAndLabel(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 1.0, Score(" BAGUS "))
	assert.Equal(t, 0.25, Score("Tidak Baik"))
	assert.Equal(t, 0.0, Score("sleepy"))

	cases := map[float64]string{
		1.0:  "Bagus",
		0.71: "Bagus",
		0.7:  "Baik",
		0.51: "Baik",
		0.5:  "Biasa",
		0.35: "Biasa",
		0.34: "Tidak Baik",
		0.15: "Tidak Baik",
		0.1:  "Buruk",
		0:    "Buruk",
	}
	for score, want := range cases {
		assert.Equal(t, want, Label(score), "score %v", score)
	}
}

func TestComputeWeekly(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 8, 10, 20, 0, 0, 0, time.UTC)
	sessions := []SessionFact{
		{EndedAt: now.Add(-time.Hour), Actual: 25 * time.Minute, Outcome: "Focused"},
		{EndedAt: now.AddDate(0, 0, -2), Actual: 25*time.Minute + 40*time.Second, Outcome: "Distracted"},
		{EndedAt: now.AddDate(0, 0, -6), Actual: 20 * time.Minute, Outcome: "Focused"},
		{EndedAt: now.AddDate(0, 0, -9), Actual: 50 * time.Minute, Outcome: "Focused"},
	}
	moods := []MoodFact{
		{At: now.Add(-2 * time.Hour), Value: "Bagus"},
		{At: now.Add(-3 * time.Hour), Value: "Biasa"},
		{At: now.AddDate(0, 0, -1), Value: "buruk"},
		{At: now.AddDate(0, 0, -8), Value: "Bagus"},
	}

	w := ComputeWeekly(now, sessions, moods)
	assert.Equal(t, 3, w.Sessions)
	assert.Equal(t, 70, w.TotalMinutes)
	assert.Equal(t, 10, w.AverageMinutes)
	assert.Equal(t, 2, w.Focused)
	assert.Equal(t, 1, w.Distracted)

	require.Len(t, w.Moods, 2)
	assert.Equal(t, time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC), w.Moods[0].Day)
	assert.InDelta(t, 0.75, w.Moods[0].Score, 1e-9)
	assert.Equal(t, "Bagus", w.Moods[0].Label)
	assert.Equal(t, 2, w.Moods[0].Entries)
	assert.Equal(t, "Buruk", w.Moods[1].Label)
}

func TestComputeWeeklyCapsDailyMoods(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 8, 10, 23, 0, 0, 0, time.UTC)
	var moods []MoodFact
	for h := 0; h <= 7*24; h += 12 {
		moods = append(moods, MoodFact{At: now.Add(-time.Duration(h) * time.Hour), Value: "Baik"})
	}
	w := ComputeWeekly(now, nil, moods)
	require.Len(t, w.Moods, MaxDailyMoods)
	for i := 1; i < len(w.Moods); i++ {
		assert.True(t, w.Moods[i-1].Day.After(w.Moods[i].Day))
	}
	assert.Equal(t, 0, w.TotalMinutes)
}

func TestTodayMinutes(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)
	got := TodayMinutes(now, []SessionFact{
		{EndedAt: now.Add(-time.Hour), Actual: 25 * time.Minute},
		{EndedAt: now.Add(-10 * time.Hour), Actual: 25 * time.Minute},
	})
	assert.Equal(t, 25, got)
}
