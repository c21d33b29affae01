package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/hanzitree/pkg/dictionary"
	"github.com/matzehuels/hanzitree/pkg/hanzi"
	"github.com/matzehuels/hanzitree/pkg/notes"
	"github.com/matzehuels/hanzitree/pkg/store/memory"
)

var testWords = []hanzi.Word{
	{Character: "一", Pinyin: "yī", Definition: "one"},
	{Character: "二", Pinyin: "èr", Definition: "two"},
	{Character: "三", Pinyin: "sān", Definition: "three"},
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	s, err := New(Config{
		Repository: memory.New(),
		Notes:      notes.NewMemoryStore(),
		Dictionary: dictionary.New(testWords),
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, ts *httptest.Server, method, path string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		if err := json.NewEncoder(&buf).Encode(b); err != nil {
			t.Fatal(err)
		}
	}
	req, err := http.NewRequest(method, ts.URL+path, &buf)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func expectError(t *testing.T, resp *http.Response, status int, detail string) {
	t.Helper()
	if resp.StatusCode != status {
		t.Fatalf("status = %d, want %d", resp.StatusCode, status)
	}
	body := decode[ErrorResponse](t, resp)
	if detail != "" && body.Detail != detail {
		t.Errorf("detail = %q, want %q", body.Detail, detail)
	}
}

func addWord(t *testing.T, ts *httptest.Server, w hanzi.Word) hanzi.Character {
	t.Helper()
	resp := do(t, ts, http.MethodPost, "/add", w)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST /add status = %d", resp.StatusCode)
	}
	return decode[hanzi.Character](t, resp)
}

func TestRoot(t *testing.T) {
	ts := newTestServer(t)
	resp := do(t, ts, http.MethodGet, "/", nil)
	if got := decode[Message](t, resp); got.Message != HealthMessage {
		t.Errorf("message = %q", got.Message)
	}
}

func TestAddAndList(t *testing.T) {
	ts := newTestServer(t)

	c := addWord(t, ts, hanzi.Word{Character: "一", Pinyin: "yī"})
	if c.ID <= 0 || c.Character != "一" || c.Familiarity != 0 {
		t.Errorf("added = %+v", c)
	}
	addWord(t, ts, hanzi.Word{Character: "二"})

	chars := decode[[]hanzi.Character](t, do(t, ts, http.MethodGet, "/characters", nil))
	if len(chars) != 2 || chars[0].Character != "一" || chars[1].Character != "二" {
		t.Errorf("GET /characters = %+v", chars)
	}

	page := decode[[]hanzi.Character](t, do(t, ts, http.MethodGet, "/characters?skip=1&limit=5", nil))
	if len(page) != 1 || page[0].Character != "二" {
		t.Errorf("GET /characters?skip=1 = %+v", page)
	}

	expectError(t, do(t, ts, http.MethodGet, "/characters?limit=abc", nil), http.StatusBadRequest, "")
}

func TestAddErrors(t *testing.T) {
	ts := newTestServer(t)
	addWord(t, ts, hanzi.Word{Character: "一"})

	tests := []struct {
		name   string
		body   any
		status int
		detail string
	}{
		{"duplicate", hanzi.Word{Character: "一"}, http.StatusBadRequest, "Word already known!"},
		{"duplicate with spaces", hanzi.Word{Character: " 一 "}, http.StatusBadRequest, "Word already known!"},
		{"empty character", hanzi.Word{Character: ""}, http.StatusUnprocessableEntity, ""},
		{"negative familiarity", hanzi.Word{Character: "二", Familiarity: -1}, http.StatusUnprocessableEntity, ""},
		{"malformed body", "{not json", http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectError(t, do(t, ts, http.MethodPost, "/add", tt.body), tt.status, tt.detail)
		})
	}
}

func TestGetAndDeleteCharacter(t *testing.T) {
	ts := newTestServer(t)
	c := addWord(t, ts, hanzi.Word{Character: "三", Definition: "three"})
	path := "/characters/" + c.Key()

	got := decode[hanzi.Character](t, do(t, ts, http.MethodGet, path, nil))
	if got.ID != c.ID || got.Definition != "three" {
		t.Errorf("GET %s = %+v", path, got)
	}

	resp := do(t, ts, http.MethodDelete, path, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("DELETE status = %d", resp.StatusCode)
	}
	if deleted := decode[hanzi.Character](t, resp); deleted.ID != c.ID {
		t.Errorf("DELETE returned %+v", deleted)
	}

	expectError(t, do(t, ts, http.MethodDelete, path, nil), http.StatusNotFound, "Character not found")
	expectError(t, do(t, ts, http.MethodGet, path, nil), http.StatusNotFound, "Character not found")
	expectError(t, do(t, ts, http.MethodGet, "/characters/abc", nil), http.StatusBadRequest, "")
}

func TestSuggest(t *testing.T) {
	ts := newTestServer(t)
	addWord(t, ts, hanzi.Word{Character: "一"})
	addWord(t, ts, hanzi.Word{Character: "二"})

	for range 10 {
		w := decode[hanzi.Word](t, do(t, ts, http.MethodGet, "/suggest", nil))
		if w.Character != "三" {
			t.Fatalf("suggested %q, want the only unknown word 三", w.Character)
		}
	}

	addWord(t, ts, hanzi.Word{Character: "三"})
	expectError(t, do(t, ts, http.MethodGet, "/suggest", nil), http.StatusNotFound, "No new words to suggest!")
}

func TestSearch(t *testing.T) {
	ts := newTestServer(t)
	c := addWord(t, ts, hanzi.Word{Character: "二"})

	results := decode[[]SearchResult](t, do(t, ts, http.MethodGet, "/search?q=er", nil))
	if len(results) != 1 || results[0].Character != "二" {
		t.Fatalf("search er = %+v", results)
	}
	if !results[0].Known || results[0].ID == nil || *results[0].ID != c.ID {
		t.Errorf("known flag = %+v", results[0])
	}

	results = decode[[]SearchResult](t, do(t, ts, http.MethodGet, "/search?q=three", nil))
	if len(results) != 1 || results[0].Known || results[0].ID != nil {
		t.Errorf("search three = %+v", results)
	}

	expectError(t, do(t, ts, http.MethodGet, "/search", nil), http.StatusBadRequest, "")
}

func TestNotes(t *testing.T) {
	ts := newTestServer(t)
	c := addWord(t, ts, hanzi.Word{Character: "一"})
	path := "/notes/" + c.Key()

	expectError(t, do(t, ts, http.MethodGet, path, nil), http.StatusNotFound, "Notes not found")

	resp := do(t, ts, http.MethodPut, path, notes.Entry{Notes: "a single stroke", Pinyin: "yi1"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("PUT status = %d", resp.StatusCode)
	}
	put := decode[notes.Entry](t, resp)
	if put.UpdatedAt.IsZero() {
		t.Error("PUT response missing updated_at")
	}

	got := decode[notes.Entry](t, do(t, ts, http.MethodGet, path, nil))
	if got.Notes != "a single stroke" || got.Pinyin != "yi1" || !got.UpdatedAt.Equal(put.UpdatedAt) {
		t.Errorf("GET notes = %+v", got)
	}

	expectError(t, do(t, ts, http.MethodPut, "/notes/999", notes.Entry{Notes: "x"}), http.StatusNotFound, "Character not found")

	if resp := do(t, ts, http.MethodDelete, path, nil); resp.StatusCode != http.StatusNoContent {
		t.Errorf("DELETE notes status = %d", resp.StatusCode)
	}
	expectError(t, do(t, ts, http.MethodGet, path, nil), http.StatusNotFound, "")
}

func TestDeleteCharacterClearsNotes(t *testing.T) {
	ts := newTestServer(t)
	c := addWord(t, ts, hanzi.Word{Character: "一"})
	do(t, ts, http.MethodPut, "/notes/"+c.Key(), notes.Entry{Notes: "x"})
	do(t, ts, http.MethodDelete, "/characters/"+c.Key(), nil)
	expectError(t, do(t, ts, http.MethodGet, "/notes/"+c.Key(), nil), http.StatusNotFound, "")
}

func TestTree(t *testing.T) {
	ts := newTestServer(t)
	for _, w := range []string{"一", "二", "三", "四", "五", "六", "七", "八", "九", "十", "人", "大"} {
		addWord(t, ts, hanzi.Word{Character: w})
	}

	resp := do(t, ts, http.MethodGet, "/tree?width=1200&style=simple", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /tree status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	var body bytes.Buffer
	_, _ = body.ReadFrom(resp.Body)
	if got := strings.Count(body.String(), "<path "); got != 4 {
		t.Errorf("svg has %d connectors, want 4", got)
	}

	resp = do(t, ts, http.MethodGet, "/tree?format=json", nil)
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("json Content-Type = %q", ct)
	}
	var layout struct {
		Tiers [][]string `json:"tiers"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&layout); err != nil {
		t.Fatal(err)
	}
	if len(layout.Tiers) != 2 || len(layout.Tiers[0]) != 4 || len(layout.Tiers[1]) != 8 {
		t.Errorf("tiers = %v", layout.Tiers)
	}

	tests := []struct {
		query string
	}{
		{"format=gif"},
		{"style=neon"},
		{"width=wide"},
		{"width=-5"},
		{"pinyin=maybe"},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			expectError(t, do(t, ts, http.MethodGet, "/tree?"+tt.query, nil), http.StatusBadRequest, "")
		})
	}
}

func TestRequestID(t *testing.T) {
	ts := newTestServer(t)

	resp := do(t, ts, http.MethodGet, "/", nil)
	if id := resp.Header.Get(RequestIDHeader); len(id) != 36 {
		t.Errorf("generated request id = %q, want a uuid", id)
	}

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	resp2, err := ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp2.Body.Close()
	if id := resp2.Header.Get(RequestIDHeader); id != "abc-123" {
		t.Errorf("request id = %q, want caller's abc-123", id)
	}
}

func TestCORS(t *testing.T) {
	ts := newTestServer(t)

	req, _ := http.NewRequest(http.MethodOptions, ts.URL+"/add", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "content-type")
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("preflight status = %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Allow-Origin = %q", got)
	}
	if got := resp.Header.Get("Access-Control-Allow-Headers"); got != "content-type" {
		t.Errorf("Allow-Headers = %q", got)
	}

	plain := do(t, ts, http.MethodGet, "/", nil)
	if got := plain.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Allow-Origin without Origin = %q", got)
	}
}

func TestNotFoundRoute(t *testing.T) {
	ts := newTestServer(t)
	expectError(t, do(t, ts, http.MethodGet, "/nope", nil), http.StatusNotFound, "Not Found")
}

func TestNewRequiresRepository(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatal("expected error without repository")
	}
}

func TestListenAndServeShutdown(t *testing.T) {
	s, err := New(Config{Addr: "127.0.0.1:0", Repository: memory.New()})
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ListenAndServe() = %v, want nil after cancel", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
