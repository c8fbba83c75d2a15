package utils

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRespondError(t *testing.T) {
	resp := httptest.NewRecorder()
	RespondError(resp, http.StatusConflict, "chat widget is closed")

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.Code)
	}
	if ct := resp.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}
	if body := strings.TrimSpace(resp.Body.String()); body != `{"error":"chat widget is closed"}` {
		t.Fatalf("unexpected body %s", body)
	}
}

func TestDecodeJSONAcceptsEmptyBody(t *testing.T) {
	var payload struct {
		Open bool `json:"open"`
	}
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	if err := DecodeJSON(httptest.NewRecorder(), req, &payload); err != nil {
		t.Fatalf("DecodeJSON err: %v", err)
	}

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"open":`))
	if err := DecodeJSON(httptest.NewRecorder(), req, &payload); err == nil {
		t.Fatalf("expected error for truncated body")
	}
}

func TestSendSSEEvent(t *testing.T) {
	resp := httptest.NewRecorder()
	SetupSSEHeaders(resp)
	if err := SendSSEEvent(resp, resp, "typing", map[string]bool{"typing": true}); err != nil {
		t.Fatalf("SendSSEEvent err: %v", err)
	}
	if got := resp.Body.String(); got != "event: typing\ndata: {\"typing\":true}\n\n" {
		t.Fatalf("unexpected frame %q", got)
	}
	if !resp.Flushed {
		t.Fatalf("expected flush")
	}
}
