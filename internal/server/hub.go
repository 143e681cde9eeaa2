package server

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	insightdto "moodooro/internal/modules/insight/dto"
)

// Hub fans the weekly insights feed out to websocket clients. New clients
// get the latest value on register.
type Hub struct {
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	latest     []byte
	logger     *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run owns the client set until ctx ends or the feed closes, then closes
// every client's send channel.
func (h *Hub) Run(ctx context.Context, feed <-chan insightdto.WeeklyStats) {
	defer func() {
		close(h.done)
		for c := range h.clients {
			close(c.send)
			delete(h.clients, c)
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return

		case c := <-h.register:
			h.clients[c] = struct{}{}
			if h.latest != nil {
				h.deliver(c, h.latest)
			}
			h.logger.Debug("ws client registered", zap.Int("clients", len(h.clients)))

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}

		case stats, ok := <-feed:
			if !ok {
				return
			}
			data, err := json.Marshal(message{Type: "weekly", Data: stats})
			if err != nil {
				h.logger.Warn("encode weekly stats", zap.Error(err))
				continue
			}
			h.latest = data
			for c := range h.clients {
				h.deliver(c, data)
			}
		}
	}
}

// Register adds c unless the hub has stopped.
func (h *Hub) Register(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// deliver drops clients whose buffer is full.
func (h *Hub) deliver(c *Client, data []byte) {
	select {
	case c.send <- data:
	default:
		h.logger.Warn("ws client too slow, dropping")
		delete(h.clients, c)
		close(c.send)
	}
}

type message struct {
	Type string                 `json:"type"`
	Data insightdto.WeeklyStats `json:"data"`
}
