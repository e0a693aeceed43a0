package web

// errors.go turns errors into JSON responses.
//
// The full technical error is logged with the request ID; the client gets
// the mapped user message from core.MapError.

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/JonMunkholm/extblend/internal/core"
	"github.com/JonMunkholm/extblend/internal/logging"
	"github.com/JonMunkholm/extblend/internal/workbook"
)

// ErrorResponse is the JSON body of every API error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
	// Log carries the processing messages when a run failed validation.
	Log []core.LogEntry `json:"log,omitempty"`
}

// respondError logs err and writes the mapped message with the status
// statusFor picks. err must be non-nil; log may be nil.
func respondError(w http.ResponseWriter, r *http.Request, err error, log *core.ProcessingLog) {
	status := statusFor(err)
	ue := core.NewUserError(err)
	msg := ue.User

	logger := logging.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		logger.Error("request error", "path", r.URL.Path, "status", status, "error", ue.Technical.Error(), "code", msg.Code)
	} else {
		logger.Warn("request rejected", "path", r.URL.Path, "status", status, "error", ue.Technical.Error(), "code", msg.Code)
	}

	resp := ErrorResponse{
		Error:   ue.Error(),
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	}
	if log != nil {
		resp.Log = log.Entries
	}

	render.Status(r, status)
	render.JSON(w, r, resp)
}

// statusFor maps an error to an HTTP status.
func statusFor(err error) int {
	var schemaErr *core.SchemaError
	var maxBytes *http.MaxBytesError

	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &maxBytes), errors.Is(err, errFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &schemaErr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrMissingInput),
		errors.Is(err, workbook.ErrEmptyFile),
		errors.Is(err, workbook.ErrInvalidWorkbook),
		errors.Is(err, workbook.ErrUnsupportedFormat),
		errors.Is(err, errBadForm):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrTooManyRuns):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		// Client went away; nginx convention.
		return 499
	default:
		return http.StatusInternalServerError
	}
}
