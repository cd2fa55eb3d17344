package flows

import "github.com/goliatone/go-onboard/pkg/wizard"

// Store holds parsed flows keyed by id. It is safe for concurrent readers
// when treated as immutable after construction.
type Store struct {
	flows map[string]Flow
}

// Flow describes a wizard.
type Flow struct {
	ID          string       `json:"id" yaml:"id"`
	Source      string       `json:"-" yaml:"-"`
	Title       string       `json:"title" yaml:"title"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty"`
	SubmitLabel string       `json:"submitLabel,omitempty" yaml:"submitLabel,omitempty"`
	Steps       []StepConfig `json:"steps" yaml:"steps"`
}

// StepConfig is one entry of a flow.
type StepConfig struct {
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Order       int      `json:"order,omitempty" yaml:"order,omitempty"`
	Operation   string   `json:"operation" yaml:"operation"`
	Fields      []string `json:"fields" yaml:"fields"`
	// Prefill names a record whose values seed the step, e.g. "company".
	Prefill string `json:"prefill,omitempty" yaml:"prefill,omitempty"`
}

// WizardSteps converts the flow into wizard steps carrying their config.
// Ordering by Order happens in wizard.Flow.
func (f Flow) WizardSteps() []wizard.Step[StepConfig] {
	steps := make([]wizard.Step[StepConfig], len(f.Steps))
	for i, cfg := range f.Steps {
		steps[i] = wizard.Step[StepConfig]{Title: cfg.Title, Order: cfg.Order, Content: cfg}
	}
	return steps
}

// Wizard builds a wizard.Flow positioned according to opts.
func (f Flow) Wizard(opts ...wizard.Option) *wizard.Flow[StepConfig] {
	return wizard.NewFlow(f.WizardSteps(), opts...)
}

// Step looks up a step by id.
func (f Flow) Step(id string) (StepConfig, bool) {
	for _, step := range f.Steps {
		if step.ID == id {
			return step, true
		}
	}
	return StepConfig{}, false
}

// Operations lists the distinct operations referenced by the flow in step
// order.
func (f Flow) Operations() []string {
	seen := make(map[string]struct{}, len(f.Steps))
	var out []string
	for _, step := range f.Steps {
		if _, ok := seen[step.Operation]; ok {
			continue
		}
		seen[step.Operation] = struct{}{}
		out = append(out, step.Operation)
	}
	return out
}
