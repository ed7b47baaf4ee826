package web

import (
	"net/http"
	"strconv"

	"github.com/JonMunkholm/classmonitor/internal/core"
)

// SummaryResponse is the body of GET /api/reports/summary.
type SummaryResponse struct {
	Total         int               `json:"total"`
	Thresholds    core.Thresholds   `json:"thresholds"`
	Bands         map[core.Band]int `json:"bands"`
	Programmes    map[string]int    `json:"programmes"`
	Distribution  map[int]int       `json:"distribution"`
	AtRisk        []core.Student    `json:"atRisk"`
	TopPerformers []core.Student    `json:"topPerformers"`
}

// handleReportSummary reports over all students. Optional ?programme=,
// ?level= and ?limit= narrow the top performers list.
func (s *Server) handleReportSummary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	level, err := optionalInt(q.Get("level"))
	if err != nil {
		respondError(w, r, requestError{status: http.StatusBadRequest, msg: "level must be a whole number"})
		return
	}
	limit, err := optionalInt(q.Get("limit"))
	if err != nil {
		respondError(w, r, requestError{status: http.StatusBadRequest, msg: "limit must be a whole number"})
		return
	}

	students, err := s.deps.Students.FindAll(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	thresholds := s.deps.Settings.Thresholds(r.Context())
	report := core.NewReport(students, thresholds)

	writeJSON(w, SummaryResponse{
		Total:         len(students),
		Thresholds:    thresholds,
		Bands:         report.BandCounts(),
		Programmes:    report.ProgrammeSummary(),
		Distribution:  report.GPADistribution(),
		AtRisk:        report.AtRisk(),
		TopPerformers: report.TopPerformers(q.Get("programme"), level, limit),
	})
}

func optionalInt(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}
