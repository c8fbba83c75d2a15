package chat

import (
	"testing"
	"time"
)

func TestTruncateKeepsNewest(t *testing.T) {
	var msgs []Message
	for i := int64(1); i <= 25; i++ {
		msgs = append(msgs, Message{ID: i})
	}

	got := Truncate(msgs, 20)
	if len(got) != 20 || got[0].ID != 6 || got[19].ID != 25 {
		t.Fatalf("unexpected window: first=%d last=%d len=%d", got[0].ID, got[len(got)-1].ID, len(got))
	}

	got[0].ID = 99
	if msgs[5].ID != 6 {
		t.Fatalf("Truncate must not alias the input when it drops messages")
	}

	if short := Truncate(msgs[:3], 20); len(short) != 3 {
		t.Fatalf("short transcript should be unchanged, got %d", len(short))
	}
}

func TestDisplayTime(t *testing.T) {
	m := Message{Timestamp: time.Date(2024, 5, 1, 14, 7, 0, 0, time.Local)}
	if got := m.DisplayTime(); got != "02:07 PM" {
		t.Fatalf("unexpected display time %q", got)
	}
}

func TestStateOpen(t *testing.T) {
	if StateClosed.Open() || !StateOpenIdle.Open() || !StateOpenTyping.Open() {
		t.Fatalf("unexpected Open() results")
	}
}
