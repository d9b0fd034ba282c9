package api

import (
	"encoding/json"
	"net/http"

	"ethidata/internal/validation"
	apperrors "ethidata/pkg/errors"
)

func (s *Server) handleEventList(w http.ResponseWriter, r *http.Request) {
	eventType := r.URL.Query().Get("type")

	var upcoming *bool
	switch r.URL.Query().Get("upcoming") {
	case "true":
		v := true
		upcoming = &v
	case "false":
		v := false
		upcoming = &v
	}

	events, err := s.events.List(r.Context(), eventType, upcoming)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, map[string]any{"events": events})
}

func (s *Server) handleEventGet(w http.ResponseWriter, r *http.Request) {
	event, err := s.events.GetBySlug(r.Context(), chiURLParam(r, "slug"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, event)
}

func (s *Server) handleEventRegister(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "id")
	if err != nil {
		respondError(w, apperrors.New(apperrors.ErrCodeNotFound, "Event not found or no longer accepting registrations"))
		return
	}

	var in validation.EventRegistrationInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, apperrors.New(apperrors.ErrCodeBadRequest, "Invalid request body"))
		return
	}

	result, err := s.events.Register(r.Context(), id, &in)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusCreated, result)
}

func (s *Server) handleEventRegistrations(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	regs, err := s.events.Registrations(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, map[string]any{
		"registrations": regs,
		"total":         len(regs),
	})
}
