package embedding

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOpenAIClient_Embed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer key" {
			t.Errorf("unexpected auth header %q", r.Header.Get("Authorization"))
		}
		_, _ = w.Write([]byte(`{"data":[{"embedding":[0.1,0.2,0.3]}]}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient("key")
	c.baseURL = srv.URL

	emb, err := c.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(emb) != 3 {
		t.Errorf("expected 3 dims, got %d", len(emb))
	}
}

func TestOpenAIClient_EmptyData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient("key")
	c.baseURL = srv.URL

	if _, err := c.Embed(context.Background(), "hello"); err == nil {
		t.Error("expected error for empty data")
	}
}

func TestMockClient_Deterministic(t *testing.T) {
	c := NewMockClient()
	a, _ := c.Embed(context.Background(), "vector index")
	b, _ := c.Embed(context.Background(), "Vector  INDEX")

	if len(a) != Dimensions {
		t.Fatalf("expected %d dims, got %d", Dimensions, len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("embeddings differ at %d", i)
		}
	}
}

func TestNewClient(t *testing.T) {
	if _, err := NewClient(ProviderOpenAI, ""); err == nil {
		t.Error("expected error without api key")
	}
	if _, err := NewClient("nope", "k"); err == nil {
		t.Error("expected error for unknown provider")
	}
	if _, err := NewClient(ProviderMock, ""); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
