// Package onboard wires the account setup wizard together: the embedded flow
// definitions and API description, the reference data that feeds selects and
// validation refinements, and the bundled HTML assets.
//
// Most applications only need NewOrchestrator:
//
//	ref, err := onboard.LoadReference(ctx, service, states.New(), time.Now)
//	orch, err := onboard.NewOrchestrator(ref)
//	session, err := orch.Start(onboard.FlowAccountSetup)
package onboard

import (
	"io/fs"

	"github.com/goliatone/go-onboard/pkg/orchestrator"
	"github.com/goliatone/go-onboard/pkg/render"
	"github.com/goliatone/go-onboard/pkg/renderers/html"
)

// Flow ids of the embedded flow definitions.
const (
	FlowAccountSetup = "account-setup"
	FlowAddLocation  = "add-location"
)

// RenderOptions aliases render.RenderOptions.
type RenderOptions = render.RenderOptions

// Session aliases orchestrator.Session.
type Session = orchestrator.Session

// EmbeddedTemplates exposes the bundled HTML templates so callers can extend
// them through html.WithTemplatesFS.
func EmbeddedTemplates() fs.FS {
	return html.TemplatesFS()
}

// StaticFS exposes the bundled stylesheet for mounting under /static/.
func StaticFS() fs.FS {
	return html.StaticFS()
}
