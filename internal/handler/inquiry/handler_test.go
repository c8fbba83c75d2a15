package inquiry

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/johncabili/portfolio/backend/internal/model/assistant"
	chatservice "github.com/johncabili/portfolio/backend/internal/service/chat"
	inquiryservice "github.com/johncabili/portfolio/backend/internal/service/inquiry"
)

type stubSender struct {
	err   error
	count int
}

func (s *stubSender) Send(context.Context, inquiryservice.Mail) error {
	s.count++
	return s.err
}

func setup(t *testing.T, sender inquiryservice.Sender) (*chi.Mux, string) {
	t.Helper()
	chatSvc := chatservice.NewService(assistant.Seed()[0], nil)
	snap, _ := chatSvc.CreateSession(context.Background(), true)
	r := chi.NewRouter()
	New(chatSvc, inquiryservice.NewRelay(sender, "owner@example.com", nil), nil).RegisterRoutes(r)
	return r, snap.ID
}

func post(r http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader([]byte(body)))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestInquiryStatusCodes(t *testing.T) {
	sender := &stubSender{}
	r, id := setup(t, sender)
	path := "/sessions/" + id + "/inquiries"

	if resp := post(r, path, `{"kind":"job","replyTo":"ada@example.com","body":"Hello"}`); resp.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", resp.Code)
	}
	if sender.count != 1 {
		t.Fatalf("expected one send, got %d", sender.count)
	}
	if resp := post(r, path, `{"kind":"job","replyTo":"nope","body":"Hello"}`); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if resp := post(r, "/sessions/missing/inquiries", `{}`); resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}

	sender.err = errors.New("connection refused")
	if resp := post(r, path, `{"kind":"job","replyTo":"ada@example.com","body":"Hello"}`); resp.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.Code)
	}
}

func TestInquiryDisabledRelay(t *testing.T) {
	r, id := setup(t, inquiryservice.NewDisabledSender("smtp not configured"))
	resp := post(r, "/sessions/"+id+"/inquiries", `{"kind":"general","replyTo":"ada@example.com","body":"Hello"}`)
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.Code)
	}
}
