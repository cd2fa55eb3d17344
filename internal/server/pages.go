package server

import (
	"net/http"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-onboard/pkg/render"
)

const noticeCompanyCreated = "Successfully created your company."

var notices = map[string]string{
	"created":  noticeCompanyCreated,
	"location": "Successfully created your location.",
}

func (s *Server) theme(r *http.Request) *theme.RendererConfig {
	cfg, err := s.orch.Theme(s.themeName, s.themeVariant)
	if err != nil {
		s.logger.WarnContext(r.Context(), "theme unavailable", "theme", s.themeName, "variant", s.themeVariant, "error", err)
		return nil
	}
	return cfg
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	returnTo := r.URL.Query().Get("redirect_url")
	if !strings.HasPrefix(returnTo, "/") || strings.HasPrefix(returnTo, "//") {
		returnTo = ""
	}
	s.writePage(w, r, http.StatusOK, "sign-in", "Sign in", map[string]any{"returnTo": returnTo}, render.RenderOptions{})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFrom(r.Context())
	dashboard, err := s.svc.Dashboard(r.Context(), identity.ID)
	if err != nil {
		s.writeErrorPage(w, r, err)
		return
	}
	opts := render.RenderOptions{Notice: notices[r.URL.Query().Get("notice")]}
	s.writePage(w, r, http.StatusOK, "dashboard", "Dashboard", dashboard, opts)
}
