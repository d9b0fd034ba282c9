package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleJobList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	jobs, filters, err := s.jobs.List(r.Context(), q.Get("department"), q.Get("location"), q.Get("type"), q.Get("search"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, map[string]any{
		"jobs":    jobs,
		"filters": filters,
	})
}

func (s *Server) handleJobGet(w http.ResponseWriter, r *http.Request) {
	job, err := s.jobs.GetBySlug(r.Context(), chiURLParam(r, "slug"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, job)
}

func chiURLParam(r *http.Request, name string) string {
	return chi.URLParam(r, name)
}
