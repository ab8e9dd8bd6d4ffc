// Package session serves editing sessions over websockets. Every
// connection owns one engine, driven only from that connection's read
// loop.
package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/inamate/annotator/internal/engine"
	"github.com/inamate/annotator/internal/persist"
	"github.com/inamate/annotator/internal/store"
)

// Loader returns the last saved shapes of an image.
type Loader interface {
	Latest(ctx context.Context, imageID string) (persist.Snapshot, error)
}

// SinkFactory returns the change sink for an image.
type SinkFactory interface {
	For(imageID string) store.Sink
}

type Hub struct {
	opts   engine.Options
	loader Loader
	sinks  SinkFactory

	mu      sync.RWMutex
	clients map[string]*Client // clientID -> client

	register   chan *Client
	unregister chan *Client
	quit       chan struct{}
	done       chan struct{}
	stopOnce   sync.Once
}

// NewHub returns a hub whose sessions use opts. loader and sinks may be
// nil when persistence is disabled.
func NewHub(opts engine.Options, loader Loader, sinks SinkFactory) *Hub {
	return &Hub{
		opts:       opts,
		loader:     loader,
		sinks:      sinks,
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-h.quit:
			h.closeAll()
			return
		}
	}
}

// Register adds client and sends it the welcome message. It reports false
// once the hub has stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Stop closes every session and waits for Run to return.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.quit) })
	<-h.done
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	h.clients[client.ClientID] = client
	h.mu.Unlock()

	client.sendPayload(TypeWelcome, 0, WelcomePayload{
		SessionID: client.SessionID,
		ClientID:  client.ClientID,
		Labels:    h.opts.Labels.Labels(),
	})
	slog.Info("client joined", "client", client.ClientID, "session", client.SessionID)
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client.ClientID]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, client.ClientID)
	client.closeSend()
	h.mu.Unlock()

	slog.Info("client left", "client", client.ClientID, "session", client.SessionID)
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		c.closeSend()
		delete(h.clients, id)
	}
	slog.Info("all sessions closed")
}
