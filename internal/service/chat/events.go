package chat

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/johncabili/portfolio/backend/internal/model/chat"
)

// EventType names a widget notification.
type EventType string

const (
	EventState        EventType = "state"
	EventMessage      EventType = "message"
	EventTyping       EventType = "typing"
	EventQuickReplies EventType = "quick_replies"
	EventSound        EventType = "sound"
	EventEffect       EventType = "effect"
	EventReset        EventType = "reset"
)

// Event is pushed to every subscriber of a session.
type Event struct {
	Type      EventType `json:"type"`
	SessionID string    `json:"sessionId"`
	Data      any       `json:"data,omitempty"`
	Timestamp int64     `json:"timestamp"`
}

// StateChange is the payload of EventState.
type StateChange struct {
	State  chat.State `json:"state"`
	Reason string     `json:"reason,omitempty"`
}

// Typing is the payload of EventTyping.
type Typing struct {
	Typing bool `json:"typing"`
}

// QuickReplies is the payload of EventQuickReplies.
type QuickReplies struct {
	Topic   chat.Topic        `json:"topic,omitempty"`
	Replies []chat.QuickReply `json:"replies"`
}

// Sound asks the client to play the notification cue. Playback failures are
// the client's to swallow.
type Sound struct {
	URL    string  `json:"url"`
	Volume float64 `json:"volume"`
}

// Broker fans widget events out to per-session subscribers. Publishing never
// blocks: a subscriber whose buffer is full misses the event.
type Broker struct {
	mu     sync.RWMutex
	subs   map[string]map[int]chan Event
	nextID int
	buffer int
	logger *zap.Logger
}

// NewBroker creates a Broker with the given per-subscriber buffer.
func NewBroker(buffer int, logger *zap.Logger) *Broker {
	if buffer <= 0 {
		buffer = 32
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Broker{
		subs:   make(map[string]map[int]chan Event),
		buffer: buffer,
		logger: logger,
	}
}

// Subscribe registers a listener for sessionID. The returned func detaches it
// and is safe to call more than once.
func (b *Broker) Subscribe(sessionID string) (<-chan Event, func()) {
	ch := make(chan Event, b.buffer)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	if b.subs[sessionID] == nil {
		b.subs[sessionID] = make(map[int]chan Event)
	}
	b.subs[sessionID][id] = ch
	b.mu.Unlock()

	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if set, ok := b.subs[sessionID]; ok {
			if c, ok := set[id]; ok {
				delete(set, id)
				close(c)
			}
			if len(set) == 0 {
				delete(b.subs, sessionID)
			}
		}
	}
}

// Publish delivers ev to the session's subscribers.
func (b *Broker) Publish(ev Event) {
	if ev.Timestamp == 0 {
		ev.Timestamp = time.Now().UnixMilli()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs[ev.SessionID] {
		select {
		case ch <- ev:
		default:
			b.logger.Warn("dropping widget event for slow subscriber",
				zap.String("session_id", ev.SessionID),
				zap.String("type", string(ev.Type)))
		}
	}
}

// CloseSession detaches and closes every subscriber of sessionID.
func (b *Broker) CloseSession(sessionID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, ch := range b.subs[sessionID] {
		close(ch)
		delete(b.subs[sessionID], id)
	}
	delete(b.subs, sessionID)
}

// Subscribers counts listeners of sessionID.
func (b *Broker) Subscribers(sessionID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[sessionID])
}
