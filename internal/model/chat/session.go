package chat

import "time"

// State is the widget-level lifecycle state.
type State string

const (
	StateClosed     State = "closed"
	StateOpenIdle   State = "open-idle"
	StateOpenTyping State = "open-typing"
)

// Open reports whether the widget panel is visible.
func (s State) Open() bool {
	return s == StateOpenIdle || s == StateOpenTyping
}

// Topic selects a contextual quick-reply set. The empty topic shows none.
type Topic string

const (
	TopicNone     Topic = ""
	TopicInitial  Topic = "initial"
	TopicHello    Topic = "hello"
	TopicHire     Topic = "hire"
	TopicServices Topic = "services"
	TopicContact  Topic = "contact"
	TopicResume   Topic = "resume"
)

// Session captures a transient anonymous widget instance.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}

// Snapshot is the externally visible widget state.
type Snapshot struct {
	Session
	State          State        `json:"state"`
	Messages       []Message    `json:"messages"`
	Topic          Topic        `json:"topic,omitempty"`
	ContextReplies []QuickReply `json:"contextReplies"`
	QuickReplies   []QuickReply `json:"quickReplies"`
	Muted          bool         `json:"muted"`
	Pending        int          `json:"pending"`
}
