package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// SampleOrderReply is an assistant reply that carries a complete order
const SampleOrderReply = "Your booking is confirmed.\nOrder ID: NTS-1234\nMode: SEA\nRoute: Singapore-Chennai"

// MinimalPDF is enough bytes for an upload fixture; the client never parses it
var MinimalPDF = []byte("%PDF-1.4\n1 0 obj<<>>endobj\ntrailer<<>>\n%%EOF\n")

// RecordedRequest is one call observed by FakeBackend
type RecordedRequest struct {
	Method      string
	Path        string
	Query       string
	ContentType string
	Body        []byte
}

// FakeBackend is an httptest server speaking the Captain backend routes.
// Handlers can be replaced per route; unhandled routes return 404.
type FakeBackend struct {
	Server *httptest.Server

	mu       sync.Mutex
	handlers map[string]http.HandlerFunc
	requests []RecordedRequest
}

// NewFakeBackend starts a backend whose chat route echoes SampleOrderReply
// and whose history route returns an empty array.
func NewFakeBackend(t *testing.T) *FakeBackend {
	t.Helper()
	fb := &FakeBackend{handlers: make(map[string]http.HandlerFunc)}
	fb.Handle("/api/chat", func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"reply": SampleOrderReply})
	})
	fb.Handle("/api/history", func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, []interface{}{})
	})

	fb.Server = httptest.NewServer(http.HandlerFunc(fb.serve))
	t.Cleanup(fb.Server.Close)
	return fb
}

// URL returns the base URL of the fake backend
func (fb *FakeBackend) URL() string {
	return fb.Server.URL
}

// Handle replaces the handler for path
func (fb *FakeBackend) Handle(path string, h http.HandlerFunc) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.handlers[path] = h
}

// Requests returns the calls observed so far
func (fb *FakeBackend) Requests() []RecordedRequest {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	out := make([]RecordedRequest, len(fb.requests))
	copy(out, fb.requests)
	return out
}

// Count returns how many calls hit path
func (fb *FakeBackend) Count(path string) int {
	n := 0
	for _, r := range fb.Requests() {
		if r.Path == path {
			n++
		}
	}
	return n
}

func (fb *FakeBackend) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	_ = r.Body.Close()
	r.Body = io.NopCloser(strings.NewReader(string(body)))

	fb.mu.Lock()
	fb.requests = append(fb.requests, RecordedRequest{
		Method:      r.Method,
		Path:        r.URL.Path,
		Query:       r.URL.RawQuery,
		ContentType: r.Header.Get("Content-Type"),
		Body:        body,
	})
	h, ok := fb.handlers[r.URL.Path]
	fb.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	h(w, r)
}

// WriteJSON writes v as a JSON response with the given status
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
