package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Fatalf("unexpected addr %q", cfg.Server.Addr)
	}
	if cfg.Chat.MaxMessages != 20 || cfg.Chat.TypingMin != time.Second || cfg.Chat.TypingJitter != 500*time.Millisecond {
		t.Fatalf("unexpected chat defaults: %+v", cfg.Chat)
	}
	if cfg.Chat.FollowUpDelay != 1500*time.Millisecond {
		t.Fatalf("unexpected follow-up delay %s", cfg.Chat.FollowUpDelay)
	}
}

func TestLoadPortForms(t *testing.T) {
	cases := map[string]string{
		"9090":           ":9090",
		":7070":          ":7070",
		"127.0.0.1:8081": "127.0.0.1:8081",
	}
	for in, want := range cases {
		t.Run(in, func(t *testing.T) {
			t.Setenv("PORT", in)
			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load err: %v", err)
			}
			if cfg.Server.Addr != want {
				t.Fatalf("got %q want %q", cfg.Server.Addr, want)
			}
		})
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("PORT", "80 80")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for PORT with spaces")
	}

	t.Setenv("PORT", "8080")
	t.Setenv("CHAT_MAX_MESSAGES", "0")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for zero message cap")
	}

	t.Setenv("CHAT_MAX_MESSAGES", "20")
	t.Setenv("CHAT_TYPING_MIN", "soon")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unparsable duration")
	}
}

func TestOptionalBackends(t *testing.T) {
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("REDIS_ADDR", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if !cfg.SMTP.Enabled() || cfg.SMTP.Port != 587 {
		t.Fatalf("expected SMTP enabled on default port: %+v", cfg.SMTP)
	}
	if cfg.Redis.Enabled() {
		t.Fatalf("expected Redis disabled")
	}
}
