package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/goliatone/go-onboard/pkg/flows"
	"github.com/goliatone/go-onboard/pkg/model"
)

// Transformer mutates the form of a single wizard step after it has been
// narrowed to the step's fields and before it is rendered or prompted.
type Transformer interface {
	Transform(ctx context.Context, step flows.StepConfig, form *model.FormModel) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, step flows.StepConfig, form *model.FormModel) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, step flows.StepConfig, form *model.FormModel) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, step, form)
}

// Chain runs transformers in order and stops at the first error.
func Chain(transformers ...Transformer) Transformer {
	return TransformerFunc(func(ctx context.Context, step flows.StepConfig, form *model.FormModel) error {
		for _, t := range transformers {
			if t == nil {
				continue
			}
			if err := t.Transform(ctx, step, form); err != nil {
				return err
			}
		}
		return nil
	})
}

// OptionsLoader returns the selectable values of a field.
type OptionsLoader func(ctx context.Context) ([]model.Option, error)

// FieldOptions fills the options of every field called field, in any step,
// from load. Reference data (state codes, segments) reaches selects this way.
func FieldOptions(field string, load OptionsLoader) Transformer {
	return TransformerFunc(func(ctx context.Context, _ flows.StepConfig, form *model.FormModel) error {
		if load == nil {
			return nil
		}
		for i := range form.Fields {
			if form.Fields[i].Name != field {
				continue
			}
			options, err := load(ctx)
			if err != nil {
				return fmt.Errorf("options for %s: %w", field, err)
			}
			form.Fields[i].Options = options
		}
		return nil
	})
}

// PresetTransformer applies declarative field patches loaded from JSON. Patches
// under "fields" apply to every step; patches under "steps.<id>.fields"
// apply to that step only and win over the shared ones:
//
//	{
//	  "fields": {"zip": {"label": "ZIP Code"}},
//	  "steps": {
//	    "location": {"fields": {"name": {"label": "Location Name"}}}
//	  }
//	}
type PresetTransformer struct {
	document presetDocument
}

type presetDocument struct {
	Fields map[string]fieldPatch  `json:"fields"`
	Steps  map[string]stepPatches `json:"steps"`
}

type stepPatches struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Fields      map[string]fieldPatch `json:"fields"`
}

type fieldPatch struct {
	Label       string            `json:"label"`
	Description string            `json:"description"`
	Placeholder string            `json:"placeholder"`
	Metadata    map[string]string `json:"metadata"`
	UIHints     map[string]string `json:"uiHints"`
}

// NewPresetTransformer constructs a transformer from raw JSON bytes.
func NewPresetTransformer(data []byte) (*PresetTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("preset transformer: document is empty")
	}
	var document presetDocument
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("preset transformer: parse document: %w", err)
	}
	return &PresetTransformer{document: document}, nil
}

// NewPresetTransformerFromFS loads a preset document from fsys.
func NewPresetTransformerFromFS(fsys fs.FS, path string) (*PresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("preset transformer: read %s: %w", path, err)
	}
	return NewPresetTransformer(data)
}

// Transform applies the shared patches, then the step's own.
func (t *PresetTransformer) Transform(ctx context.Context, step flows.StepConfig, form *model.FormModel) error {
	if form == nil {
		return errors.New("preset transformer: form model is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	applyPatches(form, t.document.Fields)
	if patches, ok := t.document.Steps[step.ID]; ok {
		applyPatches(form, patches.Fields)
		if patches.Title != "" {
			form.Metadata = mergeStringMap(form.Metadata, map[string]string{"step.title": patches.Title})
		}
		if patches.Description != "" {
			form.Metadata = mergeStringMap(form.Metadata, map[string]string{"step.description": patches.Description})
		}
	}
	return nil
}

func applyPatches(form *model.FormModel, patches map[string]fieldPatch) {
	for name, patch := range patches {
		for i := range form.Fields {
			if form.Fields[i].Name == name {
				applyFieldPatch(&form.Fields[i], patch)
			}
		}
	}
}

func applyFieldPatch(field *model.Field, patch fieldPatch) {
	if patch.Label != "" {
		field.Label = patch.Label
	}
	if patch.Description != "" {
		field.Description = patch.Description
	}
	if patch.Placeholder != "" {
		field.Placeholder = patch.Placeholder
	}
	if len(patch.Metadata) > 0 {
		field.Metadata = mergeStringMap(field.Metadata, patch.Metadata)
	}
	if len(patch.UIHints) > 0 {
		field.UIHints = mergeStringMap(field.UIHints, patch.UIHints)
	}
}

func mergeStringMap(dst, src map[string]string) map[string]string {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]string, len(src))
	}
	for key, value := range src {
		dst[key] = value
	}
	return dst
}
