package web

// errors.go turns errors into JSON responses. The technical error is logged
// with the request id; the client receives the mapped core.UserMessage.

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/JonMunkholm/classmonitor/internal/core"
	"github.com/JonMunkholm/classmonitor/internal/logging"
)

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// requestError is a malformed-request failure detected by the web layer.
type requestError struct {
	status int
	msg    string
}

func (e requestError) Error() string { return e.msg }

// statusFor picks the HTTP status for err.
func statusFor(err error) int {
	var re requestError
	switch {
	case errors.As(err, &re):
		return re.status
	case core.IsValidation(err),
		errors.Is(err, core.ErrUnknownThreshold),
		errors.Is(err, core.ErrUnknownExportSet):
		return http.StatusBadRequest
	case core.IsDuplicateKey(err):
		return http.StatusConflict
	case errors.Is(err, core.ErrStudentNotFound), errors.Is(err, core.ErrImportNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrTooManyImports):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs err and writes its JSON error response.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)

	var msg core.UserMessage
	var re requestError
	if errors.As(err, &re) {
		msg = core.UserMessage{Message: re.msg, Action: "Fix the request and try again", Code: "REQ001"}
	} else {
		msg = core.MapError(err)
	}

	logger := logging.FromContext(r.Context())
	attrs := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", msg.Code,
	}
	if status >= http.StatusInternalServerError {
		logger.Error("request error", attrs...)
	} else {
		logger.Warn("request rejected", attrs...)
	}

	if status == http.StatusTooManyRequests {
		w.Header().Set("Retry-After", "30")
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})
}
