package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-onboard/pkg/flows"
	"github.com/goliatone/go-onboard/pkg/render"
	"github.com/goliatone/go-onboard/pkg/wizard"
)

// ErrIncomplete is returned by Complete when a step fails validation. The
// session is moved to the first failing step with its messages set.
var ErrIncomplete = errors.New("orchestrator: flow incomplete")

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithStep positions the session at index. Out of range values are clamped
// on first evaluation.
func WithStep(index int) SessionOption {
	return func(s *Session) {
		s.initial = index
	}
}

// WithValues seeds the values entered so far, keyed by step id then field.
func WithValues(values map[string]map[string]string) SessionOption {
	return func(s *Session) {
		for step, fields := range values {
			s.values[step] = cloneStrings(fields)
		}
	}
}

// WithTheme selects the theme and variant used for rendering.
func WithTheme(name, variant string) SessionOption {
	return func(s *Session) {
		s.themeName = name
		s.themeVariant = variant
	}
}

// WithCorrection forwards index corrections to fn, e.g. to rewrite a step
// query parameter that pointed past the end of the flow.
func WithCorrection(fn wizard.CorrectionFunc) SessionOption {
	return func(s *Session) {
		s.onCorrect = fn
	}
}

// Session is one run of a flow. It is not safe for concurrent use.
type Session struct {
	orch   *Orchestrator
	flow   flows.Flow
	wizard *wizard.Flow[flows.StepConfig]

	initial      int
	onCorrect    wizard.CorrectionFunc
	themeName    string
	themeVariant string

	values     map[string]map[string]string
	errors     map[string][]string
	formErrors []string
	notice     string
}

// Start opens a session over the flow registered as flowID.
func (o *Orchestrator) Start(flowID string, options ...SessionOption) (*Session, error) {
	flow, err := o.Flow(flowID)
	if err != nil {
		return nil, err
	}
	s := &Session{
		orch:   o,
		flow:   flow,
		values: make(map[string]map[string]string),
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	s.wizard = flow.Wizard(wizard.WithInitialStep(s.initial), wizard.WithCorrection(s.onCorrect))
	return s, nil
}

// Flow returns the flow definition.
func (s *Session) Flow() flows.Flow {
	return s.flow
}

// Index reports the active step index.
func (s *Session) Index() int {
	return s.wizard.Index()
}

// Len reports the number of steps.
func (s *Session) Len() int {
	return s.wizard.Len()
}

// Step returns the active step configuration.
func (s *Session) Step() (flows.StepConfig, bool) {
	step, ok := s.wizard.Active()
	return step.Content, ok
}

// Errors returns the field messages of the active step.
func (s *Session) Errors() map[string][]string {
	return s.errors
}

// Values returns a copy of every step's values.
func (s *Session) Values() map[string]map[string]string {
	out := make(map[string]map[string]string, len(s.values))
	for step, fields := range s.values {
		out[step] = cloneStrings(fields)
	}
	return out
}

// StepValues returns the values of step, seeded from its prefill step when
// nothing has been entered for it yet.
func (s *Session) StepValues(step flows.StepConfig) map[string]string {
	if values, ok := s.values[step.ID]; ok {
		return cloneStrings(values)
	}
	out := make(map[string]string)
	source, ok := s.values[step.Prefill]
	if step.Prefill == "" || !ok {
		return out
	}
	for _, name := range step.Fields {
		if value, ok := source[name]; ok && strings.TrimSpace(value) != "" {
			out[name] = value
		}
	}
	return out
}

// Update records values for the active step, keeping only the step's fields.
// A nil map leaves the stored values untouched.
func (s *Session) Update(values map[string]string) {
	step, ok := s.Step()
	if !ok || values == nil {
		return
	}
	kept := make(map[string]string, len(step.Fields))
	for _, name := range step.Fields {
		if value, ok := values[name]; ok {
			kept[name] = value
		}
	}
	s.values[step.ID] = kept
}

// Fail sets a form-level message for the next render.
func (s *Session) Fail(message string) {
	if message = strings.TrimSpace(message); message != "" {
		s.formErrors = append(s.formErrors, message)
	}
}

// Notify sets a confirmation banner for the next render.
func (s *Session) Notify(message string) {
	s.notice = strings.TrimSpace(message)
}

// Next records values for the active step, validates the step's fields and
// advances only when they are valid. It reports the validity.
func (s *Session) Next(ctx context.Context, values map[string]string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	step, ok := s.Step()
	if !ok {
		return false, nil
	}
	s.Update(values)
	v, err := s.orch.Validator(step.Operation)
	if err != nil {
		return false, err
	}
	result := v.ValidateFields(s.payload(step.Operation), step.Fields)
	s.errors = result.Fields
	s.formErrors = nil
	before := s.wizard.Index()
	after := s.wizard.Next(result.Valid)
	s.orch.logger.DebugContext(ctx, "wizard next",
		"flow", s.flow.ID, "step", step.ID, "valid", result.Valid, "from", before, "to", after)
	if result.Valid {
		s.errors = nil
	}
	return result.Valid, nil
}

// Back records values without validating them and retreats one step.
func (s *Session) Back(values map[string]string) int {
	s.Update(values)
	s.errors = nil
	s.formErrors = nil
	return s.wizard.Back()
}

// Jump moves to an earlier step. Steps ahead of the active one are reachable
// only through Next, so their validation cannot be skipped.
func (s *Session) Jump(index int) bool {
	if index < 0 || index >= s.wizard.Index() {
		return false
	}
	s.errors = nil
	s.formErrors = nil
	s.wizard.Jump(index)
	return true
}

// Complete validates every operation of the flow against the values of all
// its steps and returns the coerced values per operation. On failure the
// session moves to the first step holding a failing field and ErrIncomplete
// is returned.
func (s *Session) Complete(ctx context.Context) (map[string]map[string]any, error) {
	out := make(map[string]map[string]any)
	for _, op := range s.flow.Operations() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		v, err := s.orch.Validator(op)
		if err != nil {
			return nil, err
		}
		result := v.Validate(s.payload(op))
		if !result.Valid {
			index, fields := s.failingStep(op, result.Fields)
			s.wizard.Jump(index)
			s.errors = fields
			s.formErrors = result.Form
			return nil, fmt.Errorf("%w: step %d", ErrIncomplete, index+1)
		}
		out[op] = result.Values
	}
	return out, nil
}

func (s *Session) failingStep(op string, failed map[string][]string) (int, map[string][]string) {
	for i, step := range s.wizard.Steps() {
		if step.Content.Operation != op {
			continue
		}
		fields := make(map[string][]string)
		for _, name := range step.Content.Fields {
			if msgs, ok := failed[name]; ok {
				fields[name] = msgs
			}
		}
		if len(fields) > 0 {
			return i, fields
		}
	}
	return s.wizard.Index(), nil
}

// payload merges the values of every step submitting op. Later steps win.
func (s *Session) payload(op string) map[string]string {
	out := make(map[string]string)
	for _, step := range s.wizard.Steps() {
		if step.Content.Operation != op {
			continue
		}
		for name, value := range s.StepValues(step.Content) {
			out[name] = value
		}
	}
	return out
}

// View builds the renderer view of the active step.
func (s *Session) View(ctx context.Context) (render.StepView, error) {
	step, ok := s.Step()
	if !ok {
		return render.StepView{}, fmt.Errorf("orchestrator: flow %s has no steps", s.flow.ID)
	}
	form, err := s.orch.StepForm(ctx, step)
	if err != nil {
		return render.StepView{}, err
	}
	title, description := step.Title, step.Description
	if override := form.Metadata["step.title"]; override != "" {
		title = override
	}
	if override := form.Metadata["step.description"]; override != "" {
		description = override
	}
	submit := s.flow.SubmitLabel
	if label := form.Metadata["submitLabel"]; label != "" && submit == "" {
		submit = label
	}
	return render.StepView{
		FlowID:      s.flow.ID,
		FlowTitle:   s.flow.Title,
		StepID:      step.ID,
		Title:       title,
		Description: description,
		Index:       s.wizard.Index(),
		Count:       s.wizard.Len(),
		Progress:    s.wizard.Progress(),
		Form:        form,
		HasPrev:     s.wizard.HasPrev(),
		HasNext:     s.wizard.HasNext(),
		SubmitLabel: submit,
	}, nil
}

// RenderOptions returns the per-render data of the active step: its values,
// messages, the other steps' values as hidden inputs and the theme.
func (s *Session) RenderOptions(action string) (render.RenderOptions, error) {
	opts := render.RenderOptions{
		Action:     action,
		Errors:     s.errors,
		FormErrors: s.formErrors,
		Notice:     s.notice,
	}
	if step, ok := s.Step(); ok {
		values := s.StepValues(step)
		opts.Values = make(map[string]any, len(values))
		for name, value := range values {
			opts.Values[name] = value
		}
		opts.Hidden = render.CarryFields(s.values, step.ID)
	}
	cfg, err := s.orch.Theme(s.themeName, s.themeVariant)
	if err != nil {
		return render.RenderOptions{}, err
	}
	opts.Theme = cfg
	return opts, nil
}

// Render draws the active step with the named renderer.
func (s *Session) Render(ctx context.Context, rendererName, action string) ([]byte, error) {
	renderer, err := s.orch.Renderer(rendererName)
	if err != nil {
		return nil, err
	}
	view, err := s.View(ctx)
	if err != nil {
		return nil, err
	}
	opts, err := s.RenderOptions(action)
	if err != nil {
		return nil, err
	}
	out, err := renderer.Render(ctx, view, opts)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render step %s: %w", view.StepID, err)
	}
	return out, nil
}

func cloneStrings(src map[string]string) map[string]string {
	out := make(map[string]string, len(src))
	for key, value := range src {
		out[key] = value
	}
	return out
}
