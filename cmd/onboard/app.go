package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	onboard "github.com/goliatone/go-onboard"
	"github.com/goliatone/go-onboard/components/states"
	"github.com/goliatone/go-onboard/internal/store/sqlite"
	"github.com/goliatone/go-onboard/pkg/config"
	"github.com/goliatone/go-onboard/pkg/flows"
	"github.com/goliatone/go-onboard/pkg/onboarding"
	"github.com/goliatone/go-onboard/pkg/orchestrator"
	"github.com/goliatone/go-onboard/pkg/render"
	"github.com/goliatone/go-onboard/pkg/renderers/html"
)

// app holds what every command needs: the migrated store and the service
// over it.
type app struct {
	cfg    config.Config
	logger *slog.Logger
	store  *sqlite.Store
	svc    *onboarding.Service
	states *states.Component
}

func openApp(ctx context.Context, cfg config.Config) (*app, error) {
	logger := slog.Default()
	store, err := sqlite.Open(cfg.Database.Path, sqlite.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	applied, err := store.Migrate(ctx)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	if len(applied) > 0 {
		logger.Info("applied migrations", "path", cfg.Database.Path, "migrations", applied)
	}
	return &app{
		cfg:    cfg,
		logger: logger,
		store:  store,
		svc:    onboarding.NewService(store, onboarding.WithLogger(logger)),
		states: states.New(),
	}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

// orchestrator loads the reference data and builds the wizard orchestrator
// with the configured flows and templates. extra renderers are registered
// next to the HTML renderer.
func (a *app) orchestrator(ctx context.Context, extra ...render.Renderer) (*orchestrator.Orchestrator, error) {
	ref, err := onboard.LoadReference(ctx, a.svc, a.states, time.Now)
	if err != nil {
		return nil, err
	}

	page, err := html.New(
		html.WithSiteTitle(a.cfg.Server.SiteTitle),
		html.WithTemplatesDir(a.cfg.Wizard.TemplatesDir),
	)
	if err != nil {
		return nil, fmt.Errorf("html renderer: %w", err)
	}
	registry := render.NewRegistry()
	if err := registry.Register(page); err != nil {
		return nil, err
	}
	for _, renderer := range extra {
		if err := registry.Register(renderer); err != nil {
			return nil, err
		}
	}

	options := []orchestrator.Option{
		orchestrator.WithRegistry(registry),
		orchestrator.WithLogger(a.logger),
	}
	if dir := a.cfg.Wizard.FlowsDir; dir != "" {
		store, err := flows.LoadFS(os.DirFS(dir))
		if err != nil {
			return nil, fmt.Errorf("load flows from %s: %w", dir, err)
		}
		options = append(options, orchestrator.WithFlows(store))
	}
	return onboard.NewOrchestrator(ref, options...)
}
