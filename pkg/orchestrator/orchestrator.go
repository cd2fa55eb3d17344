package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-onboard/pkg/flows"
	"github.com/goliatone/go-onboard/pkg/model"
	"github.com/goliatone/go-onboard/pkg/openapi"
	"github.com/goliatone/go-onboard/pkg/render"
	"github.com/goliatone/go-onboard/pkg/renderers/html"
	"github.com/goliatone/go-onboard/pkg/themes"
	"github.com/goliatone/go-onboard/pkg/validation"
)

const defaultRendererName = "html"

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithFlows injects the flow store.
func WithFlows(store *flows.Store) Option {
	return func(o *Orchestrator) {
		o.flows = store
	}
}

// WithCatalog injects the operation catalog forms and schemas come from.
func WithCatalog(catalog *openapi.Catalog) Option {
	return func(o *Orchestrator) {
		o.catalog = catalog
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a caller omits one.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithTransformer registers a Transformer run against every step form.
// Repeated calls chain.
func WithTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		if t != nil {
			o.transformers = append(o.transformers, t)
		}
	}
}

// WithRefinements attaches refinements to the validator of operation.
func WithRefinements(operation string, refinements ...validation.Refinement) Option {
	return func(o *Orchestrator) {
		if o.refinements == nil {
			o.refinements = make(map[string][]validation.Refinement)
		}
		o.refinements[operation] = append(o.refinements[operation], refinements...)
	}
}

// WithThemeSelector passes a go-theme selector used to resolve tokens and
// partials before rendering.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(o *Orchestrator) {
		o.themes = selector
	}
}

// WithThemeFallbacks sets the partials used when a theme leaves them unset.
func WithThemeFallbacks(fallbacks map[string]string) Option {
	return func(o *Orchestrator) {
		o.themeFallbacks = fallbacks
	}
}

// WithLogger sets the logger; slog.Default() is used otherwise.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// ErrUnknownFlow is returned when a flow id is not registered.
var ErrUnknownFlow = errors.New("orchestrator: unknown flow")

// Orchestrator holds the load-once registries a wizard needs. It is safe for
// concurrent use once constructed; Sessions are not.
type Orchestrator struct {
	flows           *flows.Store
	catalog         *openapi.Catalog
	registry        *render.Registry
	defaultRenderer string
	transformers    []Transformer
	refinements     map[string][]validation.Refinement
	themes          theme.ThemeSelector
	themeFallbacks  map[string]string
	logger          *slog.Logger
	initialiseErr   error

	mu         sync.Mutex
	validators map[string]*validation.Validator
}

// New constructs an Orchestrator. Missing collaborators are initialised with
// the embedded flows, the embedded API description, the HTML renderer and the
// bundled theme. Initialisation failures surface on first use through Err.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
		validators:      make(map[string]*validation.Validator),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Err reports a failure to initialise a default collaborator.
func (o *Orchestrator) Err() error {
	return o.initialiseErr
}

// Flows exposes the flow store.
func (o *Orchestrator) Flows() *flows.Store {
	return o.flows
}

// Catalog exposes the operation catalog.
func (o *Orchestrator) Catalog() *openapi.Catalog {
	return o.catalog
}

// Flow looks up a flow by id.
func (o *Orchestrator) Flow(id string) (flows.Flow, error) {
	if err := o.initialiseErr; err != nil {
		return flows.Flow{}, err
	}
	flow, ok := o.flows.Flow(id)
	if !ok {
		return flows.Flow{}, fmt.Errorf("%w: %q", ErrUnknownFlow, id)
	}
	return flow, nil
}

// StepForm builds the form of step: the request form of its operation,
// narrowed to the step's fields in the step's order, then transformed.
func (o *Orchestrator) StepForm(ctx context.Context, step flows.StepConfig) (model.FormModel, error) {
	if err := ctx.Err(); err != nil {
		return model.FormModel{}, err
	}
	if err := o.initialiseErr; err != nil {
		return model.FormModel{}, err
	}
	full, err := o.catalog.Form(step.Operation)
	if err != nil {
		return model.FormModel{}, fmt.Errorf("orchestrator: step %s: %w", step.ID, err)
	}
	form := full.Subset(step.Fields)
	if len(form.Fields) != len(step.Fields) {
		return model.FormModel{}, fmt.Errorf("orchestrator: step %s names fields missing from %s", step.ID, step.Operation)
	}
	for _, t := range o.transformers {
		if err := t.Transform(ctx, step, &form); err != nil {
			return model.FormModel{}, fmt.Errorf("orchestrator: transform step %s: %w", step.ID, err)
		}
	}
	return form, nil
}

// Validator returns the compiled validator of operation. Validators are
// compiled once and cached.
func (o *Orchestrator) Validator(operation string) (*validation.Validator, error) {
	if err := o.initialiseErr; err != nil {
		return nil, err
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if v, ok := o.validators[operation]; ok {
		return v, nil
	}
	raw, err := o.catalog.RequestSchema(operation)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}
	v, err := validation.Compile(raw,
		validation.WithName(operation),
		validation.WithRefinements(o.refinements[operation]...),
	)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}
	o.validators[operation] = v
	return v, nil
}

// Renderer returns the named renderer, or the default when name is empty.
func (o *Orchestrator) Renderer(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}
	target := name
	if target == "" {
		target = o.defaultRenderer
	}
	renderer, err := o.registry.Get(target)
	if err == nil {
		return renderer, nil
	}
	if name != "" {
		return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
	}
	return o.registry.Get("")
}

// Theme resolves the renderer configuration for name/variant. A nil config
// and nil error mean no selector is configured.
func (o *Orchestrator) Theme(name, variant string) (*theme.RendererConfig, error) {
	if o.themes == nil {
		return nil, nil
	}
	return themes.Resolve(o.themes, name, variant, o.themeFallbacks)
}

func (o *Orchestrator) applyDefaults() {
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.flows == nil {
		store, err := flows.Default()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: load flows: %w", err)
			return
		}
		o.flows = store
	}
	if o.catalog == nil {
		catalog, err := openapi.Parse(context.Background(), openapi.DefaultDocument())
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: parse api description: %w", err)
			return
		}
		o.catalog = catalog
	}
	if o.registry == nil {
		o.registry = render.NewRegistry()
		renderer, err := html.New()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
			return
		}
		o.registry.MustRegister(renderer)
	}
	if o.themes == nil {
		selector, err := themes.DefaultSelector("")
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default theme: %w", err)
			return
		}
		o.themes = selector
	}
	if o.themeFallbacks == nil {
		o.themeFallbacks = html.DefaultPartials()
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
	for _, id := range o.flows.IDs() {
		flow, _ := o.flows.Flow(id)
		for _, op := range flow.Operations() {
			if _, ok := o.catalog.Operation(op); !ok {
				o.initialiseErr = fmt.Errorf("orchestrator: flow %s references unknown operation %q", id, op)
				return
			}
		}
	}
}
