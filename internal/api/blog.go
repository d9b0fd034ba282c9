package api

import (
	"net/http"
)

func (s *Server) handleBlogList(w http.ResponseWriter, r *http.Request) {
	page, limit := pagination(r)
	q := r.URL.Query()

	posts, total, err := s.blog.List(r.Context(), q.Get("category"), q.Get("tag"), q.Get("search"), page, limit)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, map[string]any{
		"posts": posts,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

func (s *Server) handleBlogGet(w http.ResponseWriter, r *http.Request) {
	post, err := s.blog.GetBySlug(r.Context(), chiURLParam(r, "slug"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, post)
}
