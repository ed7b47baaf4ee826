package web

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleGetThresholds(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.deps.Settings.Thresholds(r.Context()))
}

// handlePutThresholds saves all three thresholds. Omitted fields keep their
// current value.
func (s *Server) handlePutThresholds(w http.ResponseWriter, r *http.Request) {
	t := s.deps.Settings.Thresholds(r.Context())
	if err := decodeJSON(w, r, &t); err != nil {
		respondError(w, r, err)
		return
	}
	if err := s.deps.Settings.Save(r.Context(), t); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, t)
}

type programmeRequest struct {
	Name string `json:"name"`
}

// decodeProgramme reads a programmeRequest with the name trimmed.
func decodeProgramme(w http.ResponseWriter, r *http.Request) (programmeRequest, error) {
	var req programmeRequest
	err := decodeJSON(w, r, &req)
	req.Name = strings.TrimSpace(req.Name)
	return req, err
}

func (s *Server) handleListProgrammes(w http.ResponseWriter, r *http.Request) {
	names, err := s.deps.Programmes.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, names)
}

func (s *Server) handleAddProgramme(w http.ResponseWriter, r *http.Request) {
	req, err := decodeProgramme(w, r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := s.deps.Programmes.Add(r.Context(), req.Name); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, req)
}

func (s *Server) handleRenameProgramme(w http.ResponseWriter, r *http.Request) {
	req, err := decodeProgramme(w, r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := s.deps.Programmes.Rename(r.Context(), chi.URLParam(r, "name"), req.Name); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, req)
}

func (s *Server) handleDeleteProgramme(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Programmes.Delete(r.Context(), chi.URLParam(r, "name")); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
