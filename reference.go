package onboard

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/goliatone/go-onboard/components/states"
	"github.com/goliatone/go-onboard/pkg/model"
	"github.com/goliatone/go-onboard/pkg/onboarding"
	"github.com/goliatone/go-onboard/pkg/orchestrator"
	"github.com/goliatone/go-onboard/pkg/validation"
)

// Messages of the reference data checks.
const (
	MessageCompanyState  = "Please choose a state for your organization"
	MessageLocationState = "Only available states are allowed"
	MessageSegment       = "Please choose a valid segment"
	MessageCategory      = "Please choose a valid category"
	MessageFutureYear    = "Please choose the current year or a past year."
)

// SegmentSource lists segments with their categories; onboarding.Service
// satisfies it.
type SegmentSource interface {
	Segments(ctx context.Context) ([]onboarding.Segment, error)
}

// Reference is the data selects and refinements are built from. It is loaded
// once at start up and treated as immutable.
type Reference struct {
	States   []states.State
	Segments []onboarding.Segment
	// Now reports the current time for the start year check.
	Now func() time.Time
}

// LoadReference reads the state list from component and the segments from
// source.
func LoadReference(ctx context.Context, source SegmentSource, component *states.Component, now func() time.Time) (Reference, error) {
	list, err := component.States()
	if err != nil {
		return Reference{}, fmt.Errorf("load states: %w", err)
	}
	var segments []onboarding.Segment
	if source != nil {
		if segments, err = source.Segments(ctx); err != nil {
			return Reference{}, fmt.Errorf("load segments: %w", err)
		}
	}
	if now == nil {
		now = time.Now
	}
	return Reference{States: list, Segments: segments, Now: now}, nil
}

// StateOptions returns the select options of the state fields.
func (r Reference) StateOptions() []model.Option {
	out := make([]model.Option, 0, len(r.States))
	for _, state := range r.States {
		out = append(out, model.Option{Value: state.Code, Label: state.Name})
	}
	return out
}

// SegmentOptions returns the select options of the segment field.
func (r Reference) SegmentOptions() []model.Option {
	out := make([]model.Option, 0, len(r.Segments))
	for _, segment := range r.Segments {
		out = append(out, model.Option{Value: formatID(segment.ID), Label: segment.Name})
	}
	return out
}

// CategoryOptions returns the category options grouped by segment name, so
// dependent selects can filter them by the chosen segment.
func (r Reference) CategoryOptions() []model.Option {
	var out []model.Option
	for _, segment := range r.Segments {
		for _, category := range segment.Categories {
			out = append(out, model.Option{Value: formatID(category.ID), Label: category.Name, Group: segment.Name})
		}
	}
	return out
}

// Options returns the orchestrator options that install the reference data:
// select options for state, segment and category, and the refinements that
// reject values outside them.
func (r Reference) Options() []orchestrator.Option {
	codes := states.Codes(r.States)
	segmentIDs := make([]string, 0, len(r.Segments))
	categories := make(map[string][]string, len(r.Segments))
	for _, segment := range r.Segments {
		id := formatID(segment.ID)
		segmentIDs = append(segmentIDs, id)
		for _, category := range segment.Categories {
			categories[id] = append(categories[id], formatID(category.ID))
		}
	}

	return []orchestrator.Option{
		orchestrator.WithTransformer(orchestrator.FieldOptions("state", static(r.StateOptions()))),
		orchestrator.WithTransformer(orchestrator.FieldOptions("segment", static(r.SegmentOptions()))),
		orchestrator.WithTransformer(orchestrator.FieldOptions("category", static(r.CategoryOptions()))),
		orchestrator.WithRefinements(onboarding.OperationCreateCompany,
			validation.OneOf("state", codes, MessageCompanyState),
		),
		orchestrator.WithRefinements(onboarding.OperationCreateLocation,
			validation.OneOf("state", codes, MessageLocationState),
			validation.OneOf("segment", segmentIDs, MessageSegment),
			validation.DependsOn("category", "segment", categories, MessageCategory),
			validation.NotAfterYear("startYear", r.Now, MessageFutureYear),
		),
	}
}

// NewOrchestrator builds an orchestrator over the embedded flows and API
// description with the reference data installed. options are applied after
// the reference options.
func NewOrchestrator(ref Reference, options ...orchestrator.Option) (*orchestrator.Orchestrator, error) {
	all := append(ref.Options(), options...)
	orch := orchestrator.New(all...)
	if err := orch.Err(); err != nil {
		return nil, err
	}
	return orch, nil
}

func static(options []model.Option) orchestrator.OptionsLoader {
	return func(context.Context) ([]model.Option, error) {
		return options, nil
	}
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
