package tui

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-onboard/pkg/render"
)

// Wizard is the host side of a terminal wizard: it builds the active step,
// validates submitted values and moves between steps.
type Wizard interface {
	View(ctx context.Context) (render.StepView, error)
	RenderOptions(action string) (render.RenderOptions, error)
	Next(ctx context.Context, values map[string]string) (bool, error)
	Back(values map[string]string) int
}

const (
	navNext = "next"
	navBack = "back"
)

// Run walks w until the last step is submitted with valid values. Each
// iteration renders the active step, then asks whether to continue or go
// back; the Back choice is offered only when a previous step exists.
// Invalid steps are shown again with their messages.
func (r *Renderer) Run(ctx context.Context, w Wizard) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		view, err := w.View(ctx)
		if err != nil {
			return err
		}
		opts, err := w.RenderOptions("")
		if err != nil {
			return err
		}
		raw, err := r.Render(ctx, view, opts)
		if err != nil {
			return err
		}
		var values map[string]string
		if err := json.Unmarshal(raw, &values); err != nil {
			return fmt.Errorf("tui: decode step values: %w", err)
		}

		action, err := r.navigate(ctx, view)
		if err != nil {
			return err
		}
		if action == navBack {
			w.Back(values)
			continue
		}

		valid, err := w.Next(ctx, values)
		if err != nil {
			return err
		}
		if !valid {
			if err := r.driver.Info(ctx, "Please correct the highlighted fields."); err != nil {
				return err
			}
			continue
		}
		if view.IsLast() {
			return nil
		}
	}
}

func (r *Renderer) navigate(ctx context.Context, view render.StepView) (string, error) {
	if !view.HasPrev {
		return navNext, nil
	}
	next := "Next"
	if view.IsLast() {
		next = view.SubmitLabel
		if next == "" {
			next = "Submit"
		}
	}
	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      "Continue?",
		Options:      []string{next, "Back"},
		DefaultIndex: 0,
	})
	if err != nil {
		return "", err
	}
	if idx == 1 {
		return navBack, nil
	}
	return navNext, nil
}
