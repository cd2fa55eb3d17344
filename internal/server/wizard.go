package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/goliatone/go-onboard/pkg/onboarding"
	"github.com/goliatone/go-onboard/pkg/orchestrator"
	"github.com/goliatone/go-onboard/pkg/render"
)

const (
	problemSetup    = "There was a problem... There was an issue setting up your company. Please try again."
	problemLocation = "There was a problem... There was an issue creating your location. Please try again."
	problemExists   = "You have already set up a company."
)

// prepareFunc returns the values a flow starts from, or a redirect when the
// flow does not apply to the signed-in user.
type prepareFunc func(ctx context.Context, identity Identity) (seed map[string]map[string]string, redirect string, err error)

// completeFunc stores the validated values of a finished flow and returns
// where to send the user.
type completeFunc func(ctx context.Context, identity Identity, values map[string]map[string]any) (redirect string, err error)

type wizardRoute struct {
	s        *Server
	flowID   string
	path     string
	prepare  prepareFunc
	complete completeFunc
	problem  string
}

func (s *Server) wizard(flowID, path string, prepare prepareFunc, complete completeFunc, problem string) wizardRoute {
	return wizardRoute{s: s, flowID: flowID, path: path, prepare: prepare, complete: complete, problem: problem}
}

// show renders the flow at ?step=n. An index past the end of the flow is
// corrected once and the browser redirected to the canonical URL.
func (h wizardRoute) show(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := IdentityFrom(ctx)
	seed, redirect, err := h.prepare(ctx, identity)
	if err != nil {
		h.s.writeErrorPage(w, r, err)
		return
	}
	if redirect != "" {
		http.Redirect(w, r, redirect, http.StatusSeeOther)
		return
	}

	corrected := -1
	session, err := h.s.orch.Start(h.flowID,
		orchestrator.WithValues(seed),
		orchestrator.WithStep(atoi(r.URL.Query().Get("step"))),
		orchestrator.WithTheme(h.s.themeName, h.s.themeVariant),
		orchestrator.WithCorrection(func(index int) { corrected = index }),
	)
	if err != nil {
		h.s.writeErrorPage(w, r, err)
		return
	}
	if corrected >= 0 && r.URL.Query().Has("step") {
		http.Redirect(w, r, h.path+"?step="+strconv.Itoa(corrected), http.StatusSeeOther)
		return
	}
	h.render(w, r, session, http.StatusOK)
}

// submit applies the posted navigation. action=back retreats without
// validating, a jump value moves to an earlier step and anything else
// validates the active step and advances; on the last step the flow is
// completed and stored.
func (h wizardRoute) submit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := r.ParseForm(); err != nil {
		h.s.writeErrorPage(w, r, StatusError{Code: http.StatusBadRequest, Err: err})
		return
	}
	identity, _ := IdentityFrom(ctx)
	seed, redirect, err := h.prepare(ctx, identity)
	if err != nil {
		h.s.writeErrorPage(w, r, err)
		return
	}
	if redirect != "" {
		http.Redirect(w, r, redirect, http.StatusSeeOther)
		return
	}

	posted := render.GroupValues(r.PostForm)
	session, err := h.s.orch.Start(h.flowID,
		orchestrator.WithValues(seed),
		orchestrator.WithValues(posted),
		orchestrator.WithStep(atoi(r.PostForm.Get("step"))),
		orchestrator.WithTheme(h.s.themeName, h.s.themeVariant),
	)
	if err != nil {
		h.s.writeErrorPage(w, r, err)
		return
	}
	step, _ := session.Step()
	current := posted[step.ID]

	if jump := strings.TrimSpace(r.PostForm.Get("jump")); jump != "" {
		session.Update(current)
		session.Jump(atoi(jump))
		h.render(w, r, session, http.StatusOK)
		return
	}
	if r.PostForm.Get("action") == "back" {
		session.Back(current)
		h.render(w, r, session, http.StatusOK)
		return
	}

	last := session.Index() == session.Len()-1
	valid, err := session.Next(ctx, current)
	if err != nil {
		h.s.writeErrorPage(w, r, err)
		return
	}
	if !valid {
		h.render(w, r, session, http.StatusUnprocessableEntity)
		return
	}
	if !last {
		h.render(w, r, session, http.StatusOK)
		return
	}

	values, err := session.Complete(ctx)
	if errors.Is(err, orchestrator.ErrIncomplete) {
		h.render(w, r, session, http.StatusUnprocessableEntity)
		return
	}
	if err != nil {
		h.s.writeErrorPage(w, r, err)
		return
	}
	target, err := h.complete(ctx, identity, values)
	if err != nil {
		status := statusFor(err)
		switch {
		case errors.Is(err, onboarding.ErrCompanyExists):
			session.Fail(problemExists)
		default:
			h.s.logger.ErrorContext(ctx, "wizard completion failed",
				"request_id", RequestIDFrom(ctx), "flow", h.flowID, "error", err)
			session.Fail(h.problem)
		}
		h.render(w, r, session, status)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (h wizardRoute) render(w http.ResponseWriter, r *http.Request, session *orchestrator.Session, status int) {
	out, err := session.Render(r.Context(), "html", h.path)
	if err != nil {
		h.s.writeErrorPage(w, r, err)
		return
	}
	w.Header().Set("Content-Type", h.s.html.ContentType())
	w.WriteHeader(status)
	_, _ = w.Write(out)
}

func (s *Server) prepareSetup(ctx context.Context, identity Identity) (map[string]map[string]string, string, error) {
	_, err := s.svc.CompanyOf(ctx, identity.ID)
	switch {
	case err == nil:
		return nil, "/dashboard", nil
	case errors.Is(err, onboarding.ErrNoCompany):
		return nil, "", nil
	default:
		return nil, "", err
	}
}

func (s *Server) prepareLocation(ctx context.Context, identity Identity) (map[string]map[string]string, string, error) {
	company, err := s.svc.CompanyOf(ctx, identity.ID)
	switch {
	case errors.Is(err, onboarding.ErrNoCompany):
		return nil, "/account-setup", nil
	case err != nil:
		return nil, "", err
	}
	return map[string]map[string]string{"company": company.Defaults()}, "", nil
}

func (s *Server) completeSetup(ctx context.Context, identity Identity, values map[string]map[string]any) (string, error) {
	if _, err := s.svc.CompleteSetup(ctx, identity.ID, identity.Email, values); err != nil {
		return "", err
	}
	return "/dashboard?notice=created", nil
}

func (s *Server) completeLocation(ctx context.Context, identity Identity, values map[string]map[string]any) (string, error) {
	input, err := onboarding.LocationInputFrom(values[onboarding.OperationCreateLocation])
	if err != nil {
		return "", err
	}
	if _, err := s.svc.CreateLocation(ctx, identity.ID, input); err != nil {
		return "", err
	}
	return "/dashboard?notice=location", nil
}

func atoi(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return n
}
