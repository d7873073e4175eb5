package api

import (
	"net/http"
)

// RegisterRoutes installs every endpoint on mux
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /articles/search", s.HandleSearch)
	mux.HandleFunc("GET /articles/{id}", s.HandleArticle)
	mux.Handle("POST /admin/cards", s.authMiddleware(http.HandlerFunc(s.HandleCreateCard)))
	mux.Handle("POST /admin/cards/upload", s.authMiddleware(http.HandlerFunc(s.HandleUpload)))
	mux.HandleFunc("GET /health", s.HandleHealth)
}
