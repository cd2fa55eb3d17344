package render

import (
	"context"
)

// Renderer draws one wizard step: the progress indicator, the step's fields
// and the back/next controls.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, view StepView, options RenderOptions) ([]byte, error)
}
