package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"snowthaw/internal/domain"
	"snowthaw/internal/gateway"
	"snowthaw/internal/ingest"
	"snowthaw/internal/store"
)

// HandleSearch answers GET /articles/search?q=&types=
func (s *Server) HandleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		s.writeError(w, http.StatusBadRequest, "missing_query", "Query is required")
		return
	}
	if !utf8.ValidString(query) {
		s.writeError(w, http.StatusBadRequest, "invalid_query", "Query must be valid UTF-8")
		return
	}

	var types []string
	for _, item := range strings.Split(r.URL.Query().Get("types"), ",") {
		if item = strings.TrimSpace(item); item != "" {
			types = append(types, item)
		}
	}

	hits, err := s.store.Search(r.Context(), store.SearchParams{
		Query:       query,
		Types:       types,
		Limit:       s.opts.SearchLimit,
		Window:      s.opts.SnippetWindow,
		MaxSnippets: s.opts.MaxSnippets,
	})
	if err != nil {
		s.logger.Errorf("search %q: %v", query, err)
		s.writeError(w, http.StatusInternalServerError, "search_failed", "Search failed")
		return
	}

	s.writeJSON(w, http.StatusOK, gateway.Response{
		Query:   query,
		Total:   len(hits),
		Results: hits,
	})
}

// HandleArticle answers GET /articles/{id}
func (s *Server) HandleArticle(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	card, err := s.store.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "not_found", fmt.Sprintf("Article %s not found", id))
		return
	}
	if err != nil {
		s.logger.Errorf("loading article %s: %v", id, err)
		s.writeError(w, http.StatusInternalServerError, "database_error", "Failed to load article")
		return
	}
	s.writeJSON(w, http.StatusOK, card)
}

// HandleCreateCard answers POST /admin/cards
func (s *Server) HandleCreateCard(w http.ResponseWriter, r *http.Request) {
	var req CreateCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid_json", fmt.Sprintf("Failed to parse request body: %v", err))
		return
	}

	name := strings.TrimSpace(req.Name)
	if n := utf8.RuneCountInString(name); n == 0 || n > maxNameRunes {
		s.writeError(w, http.StatusBadRequest, "invalid_name", fmt.Sprintf("name must be 1 to %d characters", maxNameRunes))
		return
	}
	story := strings.TrimSpace(req.Story)
	if story == "" {
		s.writeError(w, http.StatusBadRequest, "invalid_story", "story is required")
		return
	}
	typ, err := domain.ResolveCardType(req.Type)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid_type", err.Error())
		return
	}

	card := ingest.NewCard(typ, name, story)
	if err := s.store.InsertMany(r.Context(), []domain.Card{card}); err != nil {
		s.logger.Errorf("creating card: %v", err)
		s.writeError(w, http.StatusInternalServerError, "database_error", "Failed to store card")
		return
	}

	s.announce([]string{card.Name})
	s.writeJSON(w, http.StatusCreated, card)
}

// HandleUpload answers POST /admin/cards/upload with multipart field "files"
func (s *Server) HandleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.opts.MaxUploadBytes); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid_form", fmt.Sprintf("Failed to parse upload: %v", err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		s.writeError(w, http.StatusBadRequest, "no_files", "No files uploaded")
		return
	}

	typ, err := domain.ResolveCardType(r.FormValue("type"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid_type", err.Error())
		return
	}

	now := time.Now().UTC()
	cards := make([]domain.Card, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			s.logger.Warnf("opening upload %s: %v", fh.Filename, err)
			continue
		}
		raw, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			s.logger.Warnf("reading upload %s: %v", fh.Filename, err)
			continue
		}

		story, err := ingest.ReadStory(fh.Filename, raw)
		if errors.Is(err, ingest.ErrUnsupported) {
			story, err = ingest.Decode(raw), nil
		}
		if err != nil || story == "" {
			s.logger.Warnf("skipping upload %s: no text", fh.Filename)
			continue
		}

		card := ingest.NewCard(typ, ingest.Stem(fh.Filename), story)
		card.CreatedAt = now
		cards = append(cards, card)
	}

	if len(cards) == 0 {
		s.writeError(w, http.StatusBadRequest, "no_valid_files", "No valid files")
		return
	}

	if err := s.store.InsertMany(r.Context(), cards); err != nil {
		s.logger.Errorf("storing uploads: %v", err)
		s.writeError(w, http.StatusInternalServerError, "database_error", "Failed to store cards")
		return
	}

	names := make([]string, len(cards))
	for i, c := range cards {
		names[i] = c.Name
	}
	s.announce(names)
	s.writeJSON(w, http.StatusOK, UploadSummary{Inserted: len(cards), Names: names})
}

// HandleHealth answers GET /health
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	n, err := s.store.Count(r.Context())
	if err != nil {
		s.writeError(w, http.StatusServiceUnavailable, "database_error", err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Cards:     n,
		Timestamp: time.Now().UTC(),
	})
}

func (s *Server) announce(names []string) {
	s.logger.Infof("stored %d cards", len(names))
	if s.bus != nil {
		s.bus.Publish(domain.CardsImportedEvent{Names: names})
	}
}
