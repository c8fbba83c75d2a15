package chat

import "time"

// Message is one visible turn of the widget conversation.
type Message struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	IsBot     bool      `json:"isBot"`
	Timestamp time.Time `json:"timestamp"`
}

// DisplayTime renders the timestamp the way the widget shows it under a bubble.
func (m Message) DisplayTime() string {
	return m.Timestamp.Local().Format("03:04 PM")
}

// QuickReply is a suggestion button shown under the input box.
type QuickReply struct {
	Text     string `json:"text"`
	Response string `json:"response"`
}

// Truncate keeps the newest max messages, preserving order.
func Truncate(messages []Message, max int) []Message {
	if max <= 0 || len(messages) <= max {
		return messages
	}
	return append([]Message(nil), messages[len(messages)-max:]...)
}
