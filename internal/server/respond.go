package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/goliatone/go-onboard/pkg/onboarding"
	"github.com/goliatone/go-onboard/pkg/orchestrator"
	"github.com/goliatone/go-onboard/pkg/render"
)

// StatusError pairs an error with the HTTP status it maps to.
type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

// StatusCode reports the mapped status, defaulting to 500.
func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

var errSignedOut = StatusError{Code: http.StatusUnauthorized, Err: errors.New("sign in required")}

// statusFor maps domain errors to HTTP statuses.
func statusFor(err error) int {
	var statusErr StatusError
	switch {
	case errors.As(err, &statusErr):
		return statusErr.StatusCode()
	case errors.Is(err, onboarding.ErrNotFound), errors.Is(err, orchestrator.ErrUnknownFlow):
		return http.StatusNotFound
	case errors.Is(err, onboarding.ErrCompanyExists), errors.Is(err, onboarding.ErrNoCompany):
		return http.StatusConflict
	case errors.Is(err, onboarding.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

type errorBody struct {
	Error  string              `json:"error"`
	Fields map[string][]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError responds with the mapped status. Server errors are logged and
// their detail withheld from the client.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	message := err.Error()
	if status >= http.StatusInternalServerError {
		s.logger.ErrorContext(r.Context(), "request failed", "request_id", RequestIDFrom(r.Context()), "error", err)
		message = http.StatusText(status)
	}
	writeJSON(w, status, errorBody{Error: message})
}

func (s *Server) writePage(w http.ResponseWriter, r *http.Request, status int, name, title string, content any, opts render.RenderOptions) {
	opts.Theme = s.theme(r)
	out, err := s.html.Page(r.Context(), name, title, content, opts)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "render page failed", "page", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", s.html.ContentType())
	w.WriteHeader(status)
	_, _ = w.Write(out)
}

func (s *Server) writeErrorPage(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	message := err.Error()
	if status >= http.StatusInternalServerError {
		s.logger.ErrorContext(r.Context(), "request failed", "request_id", RequestIDFrom(r.Context()), "error", err)
		message = "Something went wrong. Please try again."
	}
	content := map[string]any{"status": http.StatusText(status), "message": message}
	s.writePage(w, r, status, "error", http.StatusText(status), content, render.RenderOptions{})
}
