package api

import (
	"encoding/json"
	"io"
	"net/http"

	"ethidata/internal/validation"
	apperrors "ethidata/pkg/errors"
)

func (s *Server) handleResourceList(w http.ResponseWriter, r *http.Request) {
	resources, err := s.resources.List(r.Context(), r.URL.Query().Get("type"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, map[string]any{"resources": resources})
}

func (s *Server) handleResourceGet(w http.ResponseWriter, r *http.Request) {
	resource, err := s.resources.GetBySlug(r.Context(), chiURLParam(r, "slug"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, resource)
}

func (s *Server) handleResourceDownload(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "id")
	if err != nil {
		respondError(w, apperrors.New(apperrors.ErrCodeNotFound, "Resource not found"))
		return
	}

	// Ungated downloads may come with an empty body.
	var in validation.ResourceDownloadInput
	if decodeErr := json.NewDecoder(r.Body).Decode(&in); decodeErr != nil && decodeErr != io.EOF {
		respondError(w, apperrors.New(apperrors.ErrCodeBadRequest, "Invalid request body"))
		return
	}

	result, err := s.resources.Download(r.Context(), id, &in)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, result)
}

func (s *Server) handleResourceStats(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	stats, err := s.resources.Stats(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, stats)
}
