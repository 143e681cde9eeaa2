package stream

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Result is one delivery on a feed: either a value or the read error.
type Result[T any] struct {
	Value T
	Err   error
}

type Loader[T any] func(ctx context.Context) (T, error)

// Feed is a query re-run whenever any of its topics changes. Subscribers are
// independent; each gets the latest value on subscribe, served from the
// replay cache when no write happened since the last read.
type Feed[T any] struct {
	bus    *Bus
	key    string
	topics []string
	load   Loader[T]
}

type replayEntry struct {
	version uint64
	value   any
}

// NewFeed binds load to topics. key must identify the query and its
// parameters; feeds sharing a key share replayed values.
func NewFeed[T any](bus *Bus, key string, load Loader[T], topics ...string) *Feed[T] {
	return &Feed[T]{bus: bus, key: key, topics: topics, load: load}
}

// Subscribe starts a subscription that lives until ctx ends, at which point
// the returned channel is closed. A consumer slower than the writes only
// ever sees the newest pending value.
func (f *Feed[T]) Subscribe(ctx context.Context) (<-chan Result[T], error) {
	changed := make(chan struct{}, 1)
	for _, topic := range f.topics {
		msgs, err := f.bus.pubsub.Subscribe(ctx, topic)
		if err != nil {
			return nil, fmt.Errorf("subscribe %s: %w", topic, err)
		}
		go func() {
			for msg := range msgs {
				msg.Ack()
				select {
				case changed <- struct{}{}:
				default:
				}
			}
		}()
	}

	out := make(chan Result[T], 1)
	go func() {
		defer close(out)
		f.emit(ctx, out)
		for {
			select {
			case <-ctx.Done():
				return
			case <-changed:
				f.emit(ctx, out)
			}
		}
	}()
	return out, nil
}

// Get returns the current value without subscribing.
func (f *Feed[T]) Get(ctx context.Context) (T, error) {
	res := f.current(ctx)
	return res.Value, res.Err
}

func (f *Feed[T]) emit(ctx context.Context, out chan Result[T]) {
	res := f.current(ctx)
	if ctx.Err() != nil {
		return
	}
	select {
	case <-out:
	default:
	}
	out <- res
}

func (f *Feed[T]) current(ctx context.Context) Result[T] {
	version := f.bus.Version(f.topics...)
	if cached, ok := f.bus.replay.Get(f.key); ok {
		if entry, ok := cached.(replayEntry); ok && entry.version == version {
			if v, ok := entry.value.(T); ok {
				return Result[T]{Value: v}
			}
		}
	}
	v, err := f.load(ctx)
	if err != nil {
		f.bus.logger.Warn("feed read failed", zap.String("feed", f.key), zap.Error(err))
		return Result[T]{Err: err}
	}
	f.bus.replay.SetDefault(f.key, replayEntry{version: version, value: v})
	return Result[T]{Value: v}
}
