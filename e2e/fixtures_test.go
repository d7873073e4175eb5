//go:build e2e && unix

package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

type fakeHit struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Name    string `json:"name"`
	Snippet string `json:"snippet"`
}

type fakeCard struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Name  string `json:"name"`
	Story string `json:"story"`
}

// fakeService is a lookup service answering from memory
type fakeService struct {
	*httptest.Server

	mu       sync.Mutex
	cards    []fakeCard
	failing  bool
	requests []string // types parameter of every search, in order
}

func newFakeService(t *testing.T, cards ...fakeCard) *fakeService {
	t.Helper()
	fs := &fakeService{cards: cards}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /search", fs.search)
	mux.HandleFunc("GET /articles/{id}", fs.article)
	fs.Server = httptest.NewServer(mux)
	t.Cleanup(fs.Close)
	return fs
}

// SetFailing makes every search answer 500
func (fs *fakeService) SetFailing(failing bool) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.failing = failing
}

// TypesRequested returns the types parameter of every search received so far
func (fs *fakeService) TypesRequested() []string {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return append([]string(nil), fs.requests...)
}

func (fs *fakeService) search(w http.ResponseWriter, r *http.Request) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	q := r.URL.Query().Get("q")
	types := r.URL.Query().Get("types")
	fs.requests = append(fs.requests, types)

	if fs.failing {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"error":"internal","message":"boom"}`)
		return
	}

	hits := []fakeHit{}
	for _, c := range fs.cards {
		if types != "" && !strings.Contains(","+types+",", ","+c.Type+",") {
			continue
		}
		if strings.Contains(c.Story, q) || strings.Contains(c.Name, q) {
			snippet, _, _ := strings.Cut(c.Story, "\n")
			hits = append(hits, fakeHit{ID: c.ID, Type: c.Type, Name: c.Name, Snippet: snippet})
		}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"query": q, "total": len(hits), "results": hits})
}

func (fs *fakeService) article(w http.ResponseWriter, r *http.Request) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	id := r.PathValue("id")
	for _, c := range fs.cards {
		if c.ID == id {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(c)
			return
		}
	}
	w.WriteHeader(http.StatusNotFound)
	fmt.Fprint(w, `{"error":"not_found","message":"no such card"}`)
}

// winterCards returns n cards mentioning 雪, alternating between two categories.
// Only the first line of a story is used as the snippet.
func winterCards(n int) []fakeCard {
	cards := make([]fakeCard, n)
	for i := range cards {
		typ := "主线剧情"
		if i%2 == 1 {
			typ = "逆闻"
		}
		cards[i] = fakeCard{
			ID:    fmt.Sprintf("card-%02d", i+1),
			Type:  typ,
			Name:  fmt.Sprintf("初雪%02d", i+1),
			Story: fmt.Sprintf("第%d场雪落在钟楼上。\n钟声响了%d下。", i+1, i+1),
		}
	}
	return cards
}
