// Package server is the HTTP host of the onboarding application: the account
// setup wizard, the dashboard, the JSON API and the identity webhook.
package server

import (
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/goliatone/go-onboard/components/states"
	"github.com/goliatone/go-onboard/pkg/onboarding"
	"github.com/goliatone/go-onboard/pkg/orchestrator"
	"github.com/goliatone/go-onboard/pkg/renderers/html"
)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used for access logs and failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithIdentityHeader names the header carrying the identity asserted by the
// upstream identity proxy.
func WithIdentityHeader(name string) Option {
	return func(s *Server) {
		if name = strings.TrimSpace(name); name != "" {
			s.identityHeader = name
		}
	}
}

// WithEmailHeader names the header carrying the signed-in user's email.
func WithEmailHeader(name string) Option {
	return func(s *Server) {
		if name = strings.TrimSpace(name); name != "" {
			s.emailHeader = name
		}
	}
}

// WithTheme selects the theme used for every page.
func WithTheme(name, variant string) Option {
	return func(s *Server) {
		s.themeName = name
		s.themeVariant = variant
	}
}

// WithHTML replaces the HTML renderer used for pages.
func WithHTML(renderer *html.Renderer) Option {
	return func(s *Server) {
		if renderer != nil {
			s.html = renderer
		}
	}
}

// WithStates replaces the state component serving /api/states.
func WithStates(component *states.Component) Option {
	return func(s *Server) {
		if component != nil {
			s.states = component
		}
	}
}

// WithSetupFlow selects the flow served at /account-setup.
func WithSetupFlow(id string) Option {
	return func(s *Server) {
		if id = strings.TrimSpace(id); id != "" {
			s.setupFlow = id
		}
	}
}

// WithStatic replaces the files served under /static/.
func WithStatic(files fs.FS) Option {
	return func(s *Server) {
		if files != nil {
			s.static = files
		}
	}
}

// Server routes requests to the wizard, pages and API handlers.
type Server struct {
	svc  *onboarding.Service
	orch *orchestrator.Orchestrator
	html *html.Renderer

	states         *states.Component
	static         fs.FS
	logger         *slog.Logger
	identityHeader string
	emailHeader    string
	themeName      string
	themeVariant   string
	setupFlow      string

	mux     *http.ServeMux
	handler http.Handler
}

// New builds the server. svc and orch are required.
func New(svc *onboarding.Service, orch *orchestrator.Orchestrator, options ...Option) (*Server, error) {
	if svc == nil {
		return nil, fmt.Errorf("server: missing onboarding service")
	}
	if orch == nil {
		return nil, fmt.Errorf("server: missing orchestrator")
	}
	s := &Server{
		svc:            svc,
		orch:           orch,
		logger:         slog.Default(),
		identityHeader: "X-Identity-User",
		emailHeader:    "X-Identity-Email",
		setupFlow:      "account-setup",
		static:         html.StaticFS(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	if s.html == nil {
		renderer, err := orch.Renderer("html")
		if err != nil {
			return nil, fmt.Errorf("server: %w", err)
		}
		htmlRenderer, ok := renderer.(*html.Renderer)
		if !ok {
			return nil, fmt.Errorf("server: renderer %q cannot render pages", renderer.Name())
		}
		s.html = htmlRenderer
	}
	if s.states == nil {
		s.states = states.New()
	}
	if _, err := orch.Flow(s.setupFlow); err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}
	if err := s.routes(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Server) routes() error {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
	})
	mux.HandleFunc("GET /sign-in", s.handleSignIn)
	mux.HandleFunc("GET /dashboard", s.handleDashboard)

	setup := s.wizard(s.setupFlow, "/account-setup", s.prepareSetup, s.completeSetup, problemSetup)
	mux.HandleFunc("GET /account-setup", setup.show)
	mux.HandleFunc("POST /account-setup", setup.submit)
	addLocation := s.wizard("add-location", "/locations/new", s.prepareLocation, s.completeLocation, problemLocation)
	mux.HandleFunc("GET /locations/new", addLocation.show)
	mux.HandleFunc("POST /locations/new", addLocation.submit)

	mux.HandleFunc("GET /api/dashboard", s.apiDashboard)
	mux.HandleFunc("GET /api/companies", s.apiListCompanies)
	mux.HandleFunc("POST /api/companies", s.apiCreateCompany)
	mux.HandleFunc("GET /api/locations", s.apiListLocations)
	mux.HandleFunc("POST /api/locations", s.apiCreateLocation)
	mux.HandleFunc("GET /api/segments", s.apiSegments)
	mux.HandleFunc("GET /api/users", s.apiListUsers)
	mux.HandleFunc("GET /api/users/{identityID}", s.apiUser)
	mux.HandleFunc("POST /api/users", s.apiCreateUser)
	mux.HandleFunc("POST /api/webhook/user", s.apiWebhook)
	if _, err := s.states.RegisterRoutes(mux, ""); err != nil {
		return fmt.Errorf("server: %w", err)
	}

	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(s.static)))

	s.mux = mux
	s.handler = chain(mux, s.requestID, s.accessLog, s.recoverPanics, s.identity)
	return nil
}

// Handler returns the routed handler wrapped in the request id, access log,
// recovery and identity middleware.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}
