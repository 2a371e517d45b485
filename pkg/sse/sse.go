package sse

import (
	"encoding/json"
	"io"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Event is a named server-sent event addressed to one user.
type Event struct {
	UserID string
	Name   string
	Data   []byte
}

type client struct {
	userID string
	events chan Event
}

// Manager fans events out to every open stream of a user.
type Manager struct {
	mu         sync.RWMutex
	clients    map[string]map[*client]struct{}
	register   chan *client
	unregister chan *client
	broadcast  chan Event
	done       chan struct{}
	log        *zap.Logger
}

func NewManager(log *zap.Logger) *Manager {
	return &Manager{
		clients:    make(map[string]map[*client]struct{}),
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan Event, 256),
		done:       make(chan struct{}),
		log:        log.Named("sse"),
	}
}

// Run owns the client registry until Stop is called.
func (m *Manager) Run() {
	for {
		select {
		case c := <-m.register:
			m.mu.Lock()
			if m.clients[c.userID] == nil {
				m.clients[c.userID] = make(map[*client]struct{})
			}
			m.clients[c.userID][c] = struct{}{}
			m.mu.Unlock()

		case c := <-m.unregister:
			m.mu.Lock()
			if set, ok := m.clients[c.userID]; ok {
				if _, ok := set[c]; ok {
					delete(set, c)
					close(c.events)
				}
				if len(set) == 0 {
					delete(m.clients, c.userID)
				}
			}
			m.mu.Unlock()

		case evt := <-m.broadcast:
			m.mu.RLock()
			for c := range m.clients[evt.UserID] {
				select {
				case c.events <- evt:
				default:
					m.log.Warn("dropping event for slow client", zap.String("user_id", evt.UserID), zap.String("event", evt.Name))
				}
			}
			m.mu.RUnlock()

		case <-m.done:
			m.mu.Lock()
			for _, set := range m.clients {
				for c := range set {
					close(c.events)
				}
			}
			m.clients = make(map[string]map[*client]struct{})
			m.mu.Unlock()
			return
		}
	}
}

// Stop terminates Run and closes all streams.
func (m *Manager) Stop() {
	close(m.done)
}

// ClientCount returns the number of open streams for userID.
func (m *Manager) ClientCount(userID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients[userID])
}

// SendToUser queues an event. It never blocks the caller.
func (m *Manager) SendToUser(userID, event string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		m.log.Error("failed to marshal event", zap.String("event", event), zap.Error(err))
		return
	}

	select {
	case m.broadcast <- Event{UserID: userID, Name: event, Data: data}:
	default:
		m.log.Warn("event queue full", zap.String("user_id", userID), zap.String("event", event))
	}
}

// ServeHTTP streams events for userID until the request ends.
func (m *Manager) ServeHTTP(c *gin.Context, userID string) {
	cl := &client{userID: userID, events: make(chan Event, 16)}

	select {
	case m.register <- cl:
	case <-m.done:
		return
	}
	defer func() {
		select {
		case m.unregister <- cl:
		case <-m.done:
		}
	}()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	c.SSEvent("ready", gin.H{"user_id": userID})
	c.Writer.Flush()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case evt, ok := <-cl.events:
			if !ok {
				return false
			}
			c.SSEvent(evt.Name, string(evt.Data))
			return true
		case <-ctx.Done():
			return false
		}
	})
}
