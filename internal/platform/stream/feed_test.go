package stream_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"moodooro/internal/platform/id"
	"moodooro/internal/platform/stream"
)

func next[T any](t *testing.T, ch <-chan stream.Result[T]) stream.Result[T] {
	t.Helper()
	select {
	case res, ok := <-ch:
		require.True(t, ok, "feed closed unexpectedly")
		return res
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for feed value")
	}
	return stream.Result[T]{}
}

func TestFeedReplaysLatestAndRereadsOnChange(t *testing.T) {
	t.Parallel()
	bus := stream.NewBus(zap.NewNop(), id.UUID{})
	defer bus.Close()

	var value, loads atomic.Int64
	value.Store(1)
	feed := stream.NewFeed(bus, "count", func(context.Context) (int64, error) {
		loads.Add(1)
		return value.Load(), nil
	}, stream.TopicSessions)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	first, err := feed.Subscribe(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), next(t, first).Value)

	second, err := feed.Subscribe(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), next(t, second).Value)
	require.Equal(t, int64(1), loads.Load(), "second subscriber must be served from replay")

	value.Store(2)
	require.NoError(t, bus.Publish(stream.TopicSessions))
	require.Equal(t, int64(2), next(t, first).Value)
	require.Equal(t, int64(2), next(t, second).Value)
}

func TestFeedIgnoresOtherTopicsAndClosesOnCancel(t *testing.T) {
	t.Parallel()
	bus := stream.NewBus(zap.NewNop(), id.UUID{})
	defer bus.Close()

	feed := stream.NewFeed(bus, "moods-only", func(context.Context) (string, error) {
		return "ok", nil
	}, stream.TopicMoods)

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := feed.Subscribe(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", next(t, ch).Value)

	require.NoError(t, bus.Publish(stream.TopicSessions))
	select {
	case res := <-ch:
		t.Fatalf("unexpected delivery for unrelated topic: %+v", res)
	case <-time.After(100 * time.Millisecond):
	}

	cancel()
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-ch:
			return !ok
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)
}

func TestBusVersionGrowsPerTopic(t *testing.T) {
	t.Parallel()
	bus := stream.NewBus(zap.NewNop(), id.UUID{})
	defer bus.Close()

	require.NoError(t, bus.Publish(stream.TopicSessions))
	require.NoError(t, bus.Publish(stream.TopicMoods))
	require.NoError(t, bus.Publish(stream.TopicMoods))
	require.Equal(t, uint64(1), bus.Version(stream.TopicSessions))
	require.Equal(t, uint64(3), bus.Version(stream.TopicSessions, stream.TopicMoods))
}
