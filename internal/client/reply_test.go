//go:build !integration

package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func newTestClient(t *testing.T, base string) *ReplyClient {
	t.Helper()
	logger := zerolog.Nop()
	rc, err := NewReplyClient(base, &logger)
	if err != nil {
		t.Fatal(err)
	}
	return rc
}

func TestGetReply(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/chat" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var req struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Error(err)
		}
		if req.Message != "hello" {
			t.Errorf("message = %q", req.Message)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"reply": "Hi there!"})
	}))
	defer backend.Close()

	rc := newTestClient(t, backend.URL)
	if got := rc.GetReply(context.Background(), "hello"); got != "Hi there!" {
		t.Errorf("reply = %q", got)
	}
}

func TestGetReplyBackendError(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "model unavailable"})
	}))
	defer backend.Close()

	rc := newTestClient(t, backend.URL)
	if got := rc.GetReply(context.Background(), "hello"); got != Fallback {
		t.Errorf("reply = %q, want fallback", got)
	}
}

func TestGetReplyEmptyReplyBody(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"reply": ""})
	}))
	defer backend.Close()

	rc := newTestClient(t, backend.URL)
	if got := rc.GetReply(context.Background(), "hello"); got != Fallback {
		t.Errorf("reply = %q, want fallback", got)
	}
}

func TestGetReplyBackendUnreachable(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	backend.Close() // refuse connections from here on

	rc := newTestClient(t, backend.URL)
	if got := rc.GetReply(context.Background(), "hello"); got != Fallback {
		t.Errorf("reply = %q, want fallback", got)
	}
}

func TestNewReplyClientValidation(t *testing.T) {
	logger := zerolog.Nop()
	if _, err := NewReplyClient("", &logger); err == nil {
		t.Error("expected error for empty base url")
	}
}
