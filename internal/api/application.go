package api

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"ethidata/internal/validation"
	apperrors "ethidata/pkg/errors"
)

func (s *Server) handleApplicationSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(s.cfg.Upload.MaxFileSize + 1<<20); err != nil {
		respondError(w, apperrors.New(apperrors.ErrCodeBadRequest, "Invalid multipart form"))
		return
	}

	in := validation.ApplicationInput{
		JobID:       r.FormValue("jobId"),
		Name:        r.FormValue("name"),
		Email:       r.FormValue("email"),
		Phone:       r.FormValue("phone"),
		CoverLetter: r.FormValue("coverLetter"),
		LinkedIn:    r.FormValue("linkedIn"),
	}

	var resume *multipart.FileHeader
	file, header, err := r.FormFile("resume")
	switch {
	case err == nil:
		file.Close()
		resume = header
	case errors.Is(err, http.ErrMissingFile):
		// Absence is a domain rule violation, reported by the service.
	default:
		respondError(w, apperrors.New(apperrors.ErrCodeBadRequest, "Invalid resume upload"))
		return
	}

	result, err := s.applications.Submit(r.Context(), &in, resume)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusCreated, result)
}

func (s *Server) handleApplicationList(w http.ResponseWriter, r *http.Request) {
	page, limit := pagination(r)
	status := r.URL.Query().Get("status")

	var jobID uint
	if raw := r.URL.Query().Get("jobId"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			respondError(w, apperrors.New(apperrors.ErrCodeBadRequest, "Invalid job ID"))
			return
		}
		jobID = uint(parsed)
	}

	apps, total, err := s.applications.List(r.Context(), jobID, status, page, limit)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, map[string]any{
		"applications": apps,
		"total":        total,
		"page":         page,
		"limit":        limit,
	})
}

func (s *Server) handleApplicationGet(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	app, err := s.applications.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, app)
}

func (s *Server) handleApplicationStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, apperrors.New(apperrors.ErrCodeBadRequest, "Invalid request body"))
		return
	}

	app, err := s.applications.UpdateStatus(r.Context(), id, body.Status)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, app)
}
