package web

import (
	"net/http"

	"github.com/JonMunkholm/classmonitor/internal/core"
	"github.com/go-chi/chi/v5"
)

// handleListStudents returns every student, or those matching ?q=.
func (s *Server) handleListStudents(w http.ResponseWriter, r *http.Request) {
	students, err := s.deps.Students.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	if students == nil {
		students = []core.Student{}
	}
	writeJSON(w, students)
}

func (s *Server) handleGetStudent(w http.ResponseWriter, r *http.Request) {
	st, ok, err := s.deps.Students.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	if !ok {
		respondError(w, r, core.ErrStudentNotFound)
		return
	}
	writeJSON(w, st)
}

func (s *Server) handleCreateStudent(w http.ResponseWriter, r *http.Request) {
	var st core.Student
	if err := decodeJSON(w, r, &st); err != nil {
		respondError(w, r, err)
		return
	}
	st = st.Normalize()

	if err := s.deps.Students.Add(r.Context(), st); err != nil {
		respondError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/students/"+st.StudentID)
	writeJSONStatus(w, http.StatusCreated, st)
}

// handleUpdateStudent replaces the student named in the path. The body's
// studentId, if present, must match the path.
func (s *Server) handleUpdateStudent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var st core.Student
	if err := decodeJSON(w, r, &st); err != nil {
		respondError(w, r, err)
		return
	}
	st = st.Normalize()
	if st.StudentID != "" && st.StudentID != id {
		respondError(w, r, requestError{status: http.StatusBadRequest, msg: "Student ID in body does not match the URL"})
		return
	}
	st.StudentID = id

	exists, err := s.deps.Students.Exists(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if !exists {
		respondError(w, r, core.ErrStudentNotFound)
		return
	}

	if err := s.deps.Students.Update(r.Context(), st); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, st)
}

// handleDeleteStudent is idempotent: deleting an unknown id still succeeds.
func (s *Server) handleDeleteStudent(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Students.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
