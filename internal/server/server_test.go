package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ziadkadry99/notebase/internal/cache"
	"github.com/ziadkadry99/notebase/internal/db"
	"github.com/ziadkadry99/notebase/internal/metadata"
	"github.com/ziadkadry99/notebase/internal/notes"
	"github.com/ziadkadry99/notebase/internal/retriever"
	"github.com/ziadkadry99/notebase/internal/synth"
	"github.com/ziadkadry99/notebase/internal/vectordb"
)

// stubEmbedder gives every text the same vector; enough to exercise
// the HTTP surface.
type stubEmbedder struct{}

func (stubEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0.1}
	}
	return out, nil
}

func (stubEmbedder) Dimensions() int { return 2 }
func (stubEmbedder) Name() string    { return "stub" }

func setupServer(t *testing.T, noteFiles map[string]string) *Server {
	t.Helper()

	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	index, err := vectordb.NewMemory(stubEmbedder{})
	if err != nil {
		t.Fatalf("NewMemory: %v", err)
	}

	dir := t.TempDir()
	for name, content := range noteFiles {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	meta := metadata.NewStore(database)
	loader := notes.NewLoader(dir, nil, nil)
	rtr := retriever.New(loader, meta, index, stubEmbedder{}, 5)

	if len(noteFiles) > 0 {
		if _, err := rtr.IndexAll(context.Background(), nil); err != nil {
			t.Fatalf("IndexAll: %v", err)
		}
	}

	engine := synth.New(rtr, meta, nil, "")
	responseCache := cache.New(database, time.Hour)
	return New(Config{Port: 0}, engine, responseCache, 5)
}

func TestHealthCheck(t *testing.T) {
	srv := setupServer(t, nil)

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %q, want ok", body["status"])
	}
}

func TestSearchRequiresQuery(t *testing.T) {
	srv := setupServer(t, nil)

	req := httptest.NewRequest("POST", "/api/search", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing query, got %d", w.Code)
	}
}

func TestSearchEmptyCorpus(t *testing.T) {
	srv := setupServer(t, nil)

	req := httptest.NewRequest("POST", "/api/search", strings.NewReader(`{"query":"anything"}`))
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var body struct {
		Results []json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Results == nil {
		t.Error("results must be an empty array, not null")
	}
	if len(body.Results) != 0 {
		t.Errorf("got %d results from empty corpus", len(body.Results))
	}
}

func TestSearchReturnsIndexedNotes(t *testing.T) {
	srv := setupServer(t, map[string]string{
		"note.md": "---\ntitle: My Note\ntags: ml\n---\nBody text.",
	})

	req := httptest.NewRequest("POST", "/api/search", strings.NewReader(`{"query":"ml"}`))
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var body struct {
		Results []retriever.Result `json:"results"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(body.Results) != 1 || body.Results[0].Title != "My Note" {
		t.Errorf("results = %v", body.Results)
	}
}

func TestAskEmptyCorpus(t *testing.T) {
	srv := setupServer(t, nil)

	req := httptest.NewRequest("POST", "/api/ask", strings.NewReader(`{"query":"anything"}`))
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body synth.AnswerResult
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Answer != synth.NoResultsAnswer {
		t.Errorf("answer = %q, want the fixed no-results message", body.Answer)
	}
	if body.Confidence != 0 {
		t.Errorf("confidence = %f, want 0", body.Confidence)
	}
}

func TestReflectRejectsBadDays(t *testing.T) {
	srv := setupServer(t, nil)

	req := httptest.NewRequest("GET", "/api/reflect?days=banana", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad days, got %d", w.Code)
	}
}

func TestStatsIncludesCache(t *testing.T) {
	srv := setupServer(t, map[string]string{"a.md": "content"})

	req := httptest.NewRequest("GET", "/api/stats", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["total_notes"].(float64) != 1 {
		t.Errorf("total_notes = %v, want 1", body["total_notes"])
	}
	if _, ok := body["cache"]; !ok {
		t.Error("stats payload missing cache section")
	}
}

func TestCORSHeaders(t *testing.T) {
	srv := setupServer(t, nil)
	srv.cfg.AllowAll = true
	srv.router = srv.buildRouter()

	req := httptest.NewRequest("OPTIONS", "/healthz", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("expected CORS Allow-Origin header")
	}
}
