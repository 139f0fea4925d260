package gemini

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"careercompass-backend/internal/llm"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient("test-key", "gemini-2.5-flash", 5*time.Second)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	c.baseURL = srv.URL
	return c, srv
}

func TestGenerateExtractsCandidateText(t *testing.T) {
	var gotPath, gotKey string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Data Engineer\nML Engineer"}]}}]}`))
	})

	out, err := c.Generate(context.Background(), "recommend jobs")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out != "Data Engineer\nML Engineer" {
		t.Errorf("unexpected text: %q", out)
	}
	if gotPath != "/models/gemini-2.5-flash:generateContent" {
		t.Errorf("unexpected path: %q", gotPath)
	}
	if gotKey != "test-key" {
		t.Errorf("unexpected key param: %q", gotKey)
	}
}

func TestGenerateSendsPromptInBody(t *testing.T) {
	var gotBody string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		b := make([]byte, r.ContentLength)
		r.Body.Read(b)
		gotBody = string(b)
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"ok"}]}}]}`))
	})

	if _, err := c.Generate(context.Background(), "the prompt"); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(gotBody, `"contents"`) || !strings.Contains(gotBody, "the prompt") {
		t.Errorf("unexpected request body: %q", gotBody)
	}
}

func TestGenerateNon2xx(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":{"message":"key invalid"}}`))
	})

	_, err := c.Generate(context.Background(), "p")
	var statusErr *llm.StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.StatusCode != http.StatusForbidden {
		t.Errorf("status = %d, want 403", statusErr.StatusCode)
	}
	if !strings.Contains(statusErr.Body, "key invalid") {
		t.Errorf("body not captured: %q", statusErr.Body)
	}
}

func TestGenerateFallsBackToRawBody(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"unexpected":"shape"}`))
	})

	out, err := c.Generate(context.Background(), "p")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out != `{"unexpected":"shape"}` {
		t.Errorf("expected raw body fallback, got %q", out)
	}
}

func TestNewClientValidation(t *testing.T) {
	if _, err := NewClient("", "m", time.Second); err == nil {
		t.Error("expected error for missing api key")
	}
	if _, err := NewClient("k", " ", time.Second); err == nil {
		t.Error("expected error for missing model")
	}
}
