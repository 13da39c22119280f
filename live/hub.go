// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package live

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/danielhkuo/reva-evote/metrics"
	"github.com/danielhkuo/reva-evote/models"
)

// Message types
const (
	TypeResults = "results"
)

// Message is the JSON frame pushed to subscribers.
type Message struct {
	Type    string                   `json:"type"`
	Results []models.PositionResults `json:"results"`
}

// Hub fans results out to every connected subscriber.
// All subscriber bookkeeping happens on the Run goroutine.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}
	clients    map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
		done:       make(chan struct{}),
		clients:    make(map[*Client]struct{}),
	}
}

// Run serves the hub until ctx is done, then disconnects everyone.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case c := <-h.register:
			h.clients[c] = struct{}{}
			metrics.LiveSubscribers.Inc()

		case c := <-h.unregister:
			h.drop(c)

		case msg := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					// Subscriber is not keeping up
					slog.Warn("dropping slow live subscriber", "remote", c.remote)
					h.drop(c)
				}
			}

		case <-ctx.Done():
			for c := range h.clients {
				h.drop(c)
			}
			return
		}
	}
}

func (h *Hub) drop(c *Client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
	metrics.LiveSubscribers.Dec()
}

// PublishResults queues a results frame for every subscriber.
// It never blocks; when the queue is full the frame is dropped.
func (h *Hub) PublishResults(results []models.PositionResults) {
	data, err := encode(results)
	if err != nil {
		slog.Error("failed to encode live results", "error", err)
		return
	}

	select {
	case h.broadcast <- data:
	default:
		slog.Warn("live broadcast queue full, frame dropped")
	}
}

func encode(results []models.PositionResults) ([]byte, error) {
	return json.Marshal(Message{Type: TypeResults, Results: results})
}
