// Package stream turns committed writes into change notifications and
// re-read feeds. Publishers announce that a topic changed; each feed
// subscription re-runs its query and delivers the newest result.
package stream

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"moodooro/internal/platform/id"
	"moodooro/internal/platform/logging"
)

const (
	TopicSessions = "sessions"
	TopicMoods    = "moods"

	replayTTL     = 5 * time.Minute
	replayCleanup = 10 * time.Minute
)

// Publisher announces that the data behind a topic changed.
type Publisher interface {
	Publish(topic string) error
}

type Bus struct {
	pubsub *gochannel.GoChannel
	ids    id.Generator
	logger *zap.Logger
	replay *cache.Cache

	mu       sync.Mutex
	versions map[string]uint64
}

func NewBus(logger *zap.Logger, ids id.Generator) *Bus {
	return &Bus{
		pubsub:   gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 16}, logging.NewWatermillAdapter(logger.Named("bus"))),
		ids:      ids,
		logger:   logger,
		replay:   cache.New(replayTTL, replayCleanup),
		versions: map[string]uint64{},
	}
}

func (b *Bus) Publish(topic string) error {
	b.mu.Lock()
	b.versions[topic]++
	version := b.versions[topic]
	b.mu.Unlock()

	msg := message.NewMessage(b.ids.New(), nil)
	msg.Metadata.Set("version", strconv.FormatUint(version, 10))
	if err := b.pubsub.Publish(topic, msg); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

// Version sums the change counters of topics. It only ever grows, so a
// cached value tagged with an older version is stale.
func (b *Bus) Version(topics ...string) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	var v uint64
	for _, t := range topics {
		v += b.versions[t]
	}
	return v
}

func (b *Bus) Close() error {
	return b.pubsub.Close()
}
