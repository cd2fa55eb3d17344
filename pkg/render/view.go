package render

import (
	"github.com/goliatone/go-onboard/pkg/model"
	"github.com/goliatone/go-onboard/pkg/wizard"
)

// StepView is everything a renderer needs to draw the active step of a flow.
type StepView struct {
	FlowID      string
	FlowTitle   string
	StepID      string
	Title       string
	Description string
	// Index is the clamped, zero-based position of the step.
	Index    int
	Count    int
	Progress []wizard.Marker
	Form     model.FormModel
	HasPrev  bool
	HasNext  bool
	// SubmitLabel replaces "Next" on the last step.
	SubmitLabel string
}

// IsLast reports whether the view shows the final step.
func (v StepView) IsLast() bool {
	return v.Count > 0 && v.Index == v.Count-1
}

// Position is the 1-based step number shown to users.
func (v StepView) Position() int {
	return v.Index + 1
}
