package usecase_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	cuedto "moodooro/internal/modules/cue/dto"
	moodout "moodooro/internal/modules/mood/adapter/out"
	moodin "moodooro/internal/modules/mood/port/in"
	moodservice "moodooro/internal/modules/mood/service"
	moodusecase "moodooro/internal/modules/mood/usecase"
	sessionout "moodooro/internal/modules/session/adapter/out"
	sessiondto "moodooro/internal/modules/session/dto"
	sessionin "moodooro/internal/modules/session/port/in"
	sessionservice "moodooro/internal/modules/session/service"
	sessionusecase "moodooro/internal/modules/session/usecase"
	timerout "moodooro/internal/modules/timer/adapter/out"
	timerdto "moodooro/internal/modules/timer/dto"
	timerin "moodooro/internal/modules/timer/port/in"
	"moodooro/internal/modules/timer/usecase"
	apperrors "moodooro/internal/platform/errors"
	"moodooro/internal/platform/id"
	"moodooro/internal/platform/sqlitedb"
	"moodooro/internal/platform/stream"
)

// stepClock only moves when the test advances it.
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *stepClock) advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type recordingNotifier struct {
	events []cuedto.Event
}

func (n *recordingNotifier) Notify(_ context.Context, event cuedto.Event) cuedto.Report {
	n.events = append(n.events, event)
	return cuedto.Report{Failures: []cuedto.Failure{{Target: "bell", Err: "no terminal"}}}
}

type harness struct {
	timer    timerin.Usecase
	sessions sessionin.Usecase
	moods    moodin.Usecase
	clock    *stepClock
	notifier *recordingNotifier
}

func newHarness(t *testing.T, focus time.Duration) harness {
	t.Helper()
	db, err := sqlitedb.Open(context.Background(), filepath.Join(t.TempDir(), "moodooro.db"))
	require.NoError(t, err)
	bus := stream.NewBus(zap.NewNop(), id.UUID{})
	t.Cleanup(func() {
		_ = bus.Close()
		_ = db.Close()
	})
	clk := &stepClock{now: time.Date(2026, 7, 3, 14, 0, 0, 0, time.Local)}
	sessions := sessionusecase.NewInteractor(sessionservice.NewSessionService(
		sessionout.NewSQLiteRepository(db), sessionout.NewMarkdownJournal(), bus, zap.NewNop()))
	moods := moodusecase.NewInteractor(moodservice.NewMoodService(
		moodout.NewSQLiteRepository(db), clk, bus, zap.NewNop()))
	notifier := &recordingNotifier{}
	timer := usecase.NewInteractor(
		timerdto.ConfigInput{Focus: focus, Break: 5 * time.Minute},
		timerout.NewRecorder(sessions, moods, db),
		notifier, clk, zap.NewNop(),
	)
	return harness{timer: timer, sessions: sessions, moods: moods, clock: clk, notifier: notifier}
}

// run ticks gen until the countdown completes and returns the completion.
func (h harness) run(t *testing.T, gen uint64) timerdto.TickResult {
	t.Helper()
	for i := 0; i < 100000; i++ {
		h.clock.advance(time.Second)
		res, err := h.timer.Tick(gen)
		require.NoError(t, err)
		if res.Completed {
			return res
		}
		require.True(t, res.Running)
	}
	t.Fatalf("countdown never completed")
	return timerdto.TickResult{}
}

func TestDemoSessionRecordsOutcomeThenMoodOnSameRecord(t *testing.T) {
	t.Parallel()
	h := newHarness(t, 0)
	ctx := context.Background()

	gen, err := h.timer.Start()
	require.NoError(t, err)
	done := h.run(t, gen)
	assert.Equal(t, timerdto.ModeFocus, done.Mode)
	h.timer.Notify(ctx, done)
	require.Len(t, h.notifier.events, 1)
	assert.Equal(t, cuedto.EventFocusComplete, h.notifier.events[0].Kind)

	ticket, err := h.timer.SaveOutcome("Distracted")
	require.NoError(t, err)
	result := h.timer.PersistSession(ctx, ticket)
	require.NoError(t, result.Err)
	require.True(t, h.timer.SessionSaved(result))

	all, err := h.sessions.List(ctx, sessiondto.ListQuery{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Distracted", all[0].Outcome)
	assert.Equal(t, 5*time.Second, all[0].ActualDuration)
	assert.Equal(t, "Study session - 2026-07-03", all[0].Subject)

	mood, err := h.timer.RecordMood("Buruk")
	require.NoError(t, err)
	assert.Equal(t, result.SessionID, mood.SessionID)
	require.NoError(t, h.timer.AttachMood(ctx, mood))

	all, err = h.sessions.List(ctx, sessiondto.ListQuery{})
	require.NoError(t, err)
	require.Len(t, all, 1, "a mood update must not create a session")
	assert.Equal(t, result.SessionID, all[0].ID)
	assert.Equal(t, "Buruk", all[0].Mood)

	linked, err := h.moods.BySession(ctx, result.SessionID)
	require.NoError(t, err)
	require.Len(t, linked, 1)
	assert.Equal(t, "Buruk", linked[0].Value)
	assert.Equal(t, timerdto.MoodRecorded, h.timer.Snapshot().Mood)
}

func TestMoodBeforeSaveCompletesIsRefused(t *testing.T) {
	t.Parallel()
	h := newHarness(t, 25*time.Minute)
	ctx := context.Background()

	gen, err := h.timer.Start()
	require.NoError(t, err)
	for i := 0; i < 30; i++ {
		h.clock.advance(time.Second)
		_, err := h.timer.Tick(gen)
		require.NoError(t, err)
	}
	ticket, err := h.timer.SaveOutcome("Focused")
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, ticket.EndedAt.Sub(ticket.StartedAt))

	_, err = h.timer.RecordMood("Bagus")
	assert.ErrorIs(t, err, apperrors.ErrSessionNotPersisted)
	assert.Equal(t, timerdto.MoodPending, h.timer.Snapshot().Mood)

	h.timer.SessionSaved(h.timer.PersistSession(ctx, ticket))
	mood, err := h.timer.RecordMood("Bagus")
	require.NoError(t, err)
	require.NoError(t, h.timer.AttachMood(ctx, mood))

	got, err := h.sessions.Get(ctx, mood.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "Bagus", got.Mood)
}

func TestSkipMoodWritesNothingAndBreakRestoresFocus(t *testing.T) {
	t.Parallel()
	h := newHarness(t, 25*time.Minute)
	ctx := context.Background()

	gen, err := h.timer.Start()
	require.NoError(t, err)
	h.run(t, gen)
	ticket, err := h.timer.SaveOutcome("Focused")
	require.NoError(t, err)
	h.timer.SessionSaved(h.timer.PersistSession(ctx, ticket))
	require.NoError(t, h.timer.SkipMood())

	entries, err := h.moods.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
	stored, err := h.sessions.List(ctx, sessiondto.ListQuery{})
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Empty(t, stored[0].Mood)

	gen, err = h.timer.StartBreak()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, h.timer.Snapshot().Remaining)
	done := h.run(t, gen)
	assert.Equal(t, timerdto.ModeBreak, done.Mode)
	h.timer.Notify(ctx, done)
	assert.Equal(t, cuedto.EventBreakComplete, h.notifier.events[len(h.notifier.events)-1].Kind)

	snap := h.timer.Snapshot()
	assert.Equal(t, timerdto.PhaseIdle, snap.Phase)
	assert.Equal(t, timerdto.ModeFocus, snap.Mode)
	assert.Equal(t, 25*time.Minute, snap.Remaining)
}

func TestResetDiscardsRunInProgress(t *testing.T) {
	t.Parallel()
	h := newHarness(t, 25*time.Minute)
	ctx := context.Background()

	gen, err := h.timer.Start()
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		h.clock.advance(time.Second)
		_, err := h.timer.Tick(gen)
		require.NoError(t, err)
	}
	require.NoError(t, h.timer.Pause())
	assert.Equal(t, 24*time.Minute+50*time.Second, h.timer.Snapshot().Remaining)

	h.timer.Reset()
	snap := h.timer.Snapshot()
	assert.Equal(t, timerdto.PhaseIdle, snap.Phase)
	assert.Equal(t, 25*time.Minute, snap.Remaining)

	_, err = h.timer.Tick(gen)
	assert.Error(t, err)
	stored, err := h.sessions.List(ctx, sessiondto.ListQuery{})
	require.NoError(t, err)
	assert.Empty(t, stored)
}

type failingRecorder struct{}

func (failingRecorder) Record(context.Context, timerdto.SaveTicket) (int64, error) {
	return 0, errors.New("database is locked")
}

func (failingRecorder) AttachMood(context.Context, int64, string) error {
	return errors.New("database is locked")
}

func TestFailedSaveLeavesCycleResettable(t *testing.T) {
	t.Parallel()
	clk := &stepClock{now: time.Date(2026, 7, 3, 14, 0, 0, 0, time.UTC)}
	timer := usecase.NewInteractor(timerdto.ConfigInput{Focus: 2 * time.Second}, failingRecorder{}, nil, clk, zap.NewNop())

	gen, err := timer.Start()
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		clk.advance(time.Second)
		_, err := timer.Tick(gen)
		require.NoError(t, err)
	}
	ticket, err := timer.SaveOutcome("Focused")
	require.NoError(t, err)
	result := timer.PersistSession(context.Background(), ticket)
	require.Error(t, result.Err)
	require.True(t, timer.SessionSaved(result))
	assert.Equal(t, "database is locked", timer.Snapshot().SaveErr)

	_, err = timer.RecordMood("Bagus")
	assert.ErrorIs(t, err, apperrors.ErrSessionNotPersisted)
	timer.Reset()
	assert.Equal(t, timerdto.PhaseIdle, timer.Snapshot().Phase)
	assert.Empty(t, timer.Snapshot().SaveErr)
}
