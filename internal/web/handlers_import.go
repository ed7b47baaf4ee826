package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/JonMunkholm/classmonitor/internal/core"
	"github.com/JonMunkholm/classmonitor/internal/logging"
	"github.com/go-chi/chi/v5"
)

// handleImport accepts a multipart upload (field "file") and starts a
// background import. It answers 202 with the import id.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	maxSize := s.importCfg.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondError(w, r, requestError{status: http.StatusRequestEntityTooLarge,
				msg: fmt.Sprintf("File too large (limit %d bytes)", maxSize)})
			return
		}
		respondError(w, r, requestError{status: http.StatusBadRequest, msg: "Invalid multipart form"})
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, r, requestError{status: http.StatusBadRequest, msg: "No file provided"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(w, r, fmt.Errorf("read upload: %w", err))
		return
	}

	id, err := s.deps.Imports.Start(r.Context(), header.Filename, data)
	if err != nil {
		respondError(w, r, err)
		return
	}

	logging.WithFields(r.Context(), "import_id", id, "file", header.Filename).
		Info("import queued", "bytes", len(data))

	w.Header().Set("Location", "/api/import/"+id)
	writeJSONStatus(w, http.StatusAccepted, map[string]string{"id": id})
}

// handleImportStatus returns the status of an import. With ?wait=true it
// blocks until the import finishes or the request ends.
func (s *Server) handleImportStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if wait, _ := strconv.ParseBool(r.URL.Query().Get("wait")); wait {
		if _, err := s.deps.Imports.Wait(r.Context(), id); err != nil {
			respondError(w, r, err)
			return
		}
	}

	status, err := s.deps.Imports.Status(id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, status)
}

func (s *Server) handleImportQueueStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.deps.Imports.LimiterStatus())
}

// handleExport streams students as CSV. ?set= selects all, top or at-risk.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	set, err := core.ParseExportSet(r.URL.Query().Get("set"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	students, err := s.deps.Students.FindAll(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	report := core.NewReport(students, s.deps.Settings.Thresholds(r.Context()))

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="students-%s.csv"`, set))
	if err := core.Export(w, report.Select(set)); err != nil {
		logging.FromContext(r.Context()).Error("export failed", "set", set, "error", err)
	}
}
