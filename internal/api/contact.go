package api

import (
	"encoding/json"
	"net/http"

	"ethidata/internal/validation"
	apperrors "ethidata/pkg/errors"
)

func (s *Server) handleContactSubmit(w http.ResponseWriter, r *http.Request) {
	var in validation.ContactInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, apperrors.New(apperrors.ErrCodeBadRequest, "Invalid request body"))
		return
	}

	result, err := s.contacts.Submit(r.Context(), &in)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusCreated, result)
}

func (s *Server) handleContactList(w http.ResponseWriter, r *http.Request) {
	page, limit := pagination(r)
	status := r.URL.Query().Get("status")

	contacts, total, err := s.contacts.List(r.Context(), status, page, limit)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, map[string]any{
		"contacts": contacts,
		"total":    total,
		"page":     page,
		"limit":    limit,
	})
}

func (s *Server) handleContactStatus(w http.ResponseWriter, r *http.Request) {
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

	contact, err := s.contacts.UpdateStatus(r.Context(), id, body.Status)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, contact)
}
