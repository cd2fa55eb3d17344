package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/goliatone/go-onboard/pkg/onboarding"
	"github.com/goliatone/go-onboard/pkg/validation"
)

const maxBodyBytes = 1 << 20

func (s *Server) apiDashboard(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFrom(r.Context())
	if !ok {
		s.writeError(w, r, errSignedOut)
		return
	}
	dashboard, err := s.svc.Dashboard(r.Context(), identity.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboard)
}

func (s *Server) apiListCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := s.svc.Companies(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, companies)
}

func (s *Server) apiCreateCompany(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFrom(r.Context())
	if !ok {
		s.writeError(w, r, errSignedOut)
		return
	}
	values, ok := s.validateBody(w, r, onboarding.OperationCreateCompany)
	if !ok {
		return
	}
	company, err := s.svc.CreateCompany(r.Context(), identity.ID, identity.Email, onboarding.CompanyInputFrom(values))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, company)
}

func (s *Server) apiListLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := s.svc.Locations(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, locations)
}

func (s *Server) apiCreateLocation(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFrom(r.Context())
	if !ok {
		s.writeError(w, r, errSignedOut)
		return
	}
	values, ok := s.validateBody(w, r, onboarding.OperationCreateLocation)
	if !ok {
		return
	}
	input, err := onboarding.LocationInputFrom(values)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	location, err := s.svc.CreateLocation(r.Context(), identity.ID, input)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, location)
}

func (s *Server) apiSegments(w http.ResponseWriter, r *http.Request) {
	segments, err := s.svc.Segments(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, segments)
}

func (s *Server) apiListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.svc.Users(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) apiUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.svc.User(r.Context(), r.PathValue("identityID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) apiCreateUser(w http.ResponseWriter, r *http.Request) {
	if _, ok := IdentityFrom(r.Context()); !ok {
		s.writeError(w, r, errSignedOut)
		return
	}
	values, ok := s.validateBody(w, r, "createUser")
	if !ok {
		return
	}
	identityID, _ := values["identityId"].(string)
	user, created, err := s.svc.EnsureUser(r.Context(), identityID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, user)
}

// apiWebhook receives identity provider events. The provider is trusted as a
// network peer; payload signatures are not checked.
func (s *Server) apiWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, r, StatusError{Code: http.StatusBadRequest, Err: err})
		return
	}
	event, err := onboarding.ParseWebhook(body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	user, handled, err := s.svc.HandleWebhook(r.Context(), event)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	payload := map[string]any{"id": event.ID, "type": event.Type, "handled": handled}
	if handled {
		payload["user"] = user
	}
	writeJSON(w, http.StatusOK, payload)
}

// validateBody decodes a JSON object and validates it against the request
// schema of operation. Invalid bodies get a 422 with field messages.
func (s *Server) validateBody(w http.ResponseWriter, r *http.Request, operation string) (map[string]any, bool) {
	var raw map[string]any
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		s.writeError(w, r, StatusError{Code: http.StatusBadRequest, Err: fmt.Errorf("decode body: %w", err)})
		return nil, false
	}
	validator, err := s.orch.Validator(operation)
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	result := validator.Validate(stringValues(raw))
	if !result.Valid {
		writeJSON(w, http.StatusUnprocessableEntity, validationBody(result))
		return nil, false
	}
	return result.Values, true
}

func validationBody(result validation.Result) errorBody {
	message := "validation failed"
	if len(result.Form) > 0 {
		message = strings.Join(result.Form, "; ")
	}
	return errorBody{Error: message, Fields: result.Fields}
}

func stringValues(raw map[string]any) map[string]string {
	out := make(map[string]string, len(raw))
	for key, value := range raw {
		switch v := value.(type) {
		case nil:
			continue
		case string:
			out[key] = v
		default:
			out[key] = fmt.Sprint(v)
		}
	}
	return out
}
