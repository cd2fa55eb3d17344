package render

import theme "github.com/goliatone/go-theme"

// RenderOptions carry per-request data that does not belong to the step view
// itself.
type RenderOptions struct {
	// Action is the URL the step form posts to.
	Action string
	// Values pre-populates the step's controls, keyed by field name.
	Values map[string]any
	// Errors holds inline messages keyed by field name.
	Errors map[string][]string
	// FormErrors are shown above the form, e.g. a failed submission.
	FormErrors []string
	// Notice is a one-off confirmation banner.
	Notice string
	// Hidden carries values of the other steps so a multi-page wizard can be
	// submitted in one request at the end.
	Hidden []HiddenField
	// Theme supplies tokens and CSS variables; nil renders unthemed.
	Theme *theme.RendererConfig
}
