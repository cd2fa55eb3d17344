package openapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-onboard/pkg/model"
)

// Operation is the subset of an OpenAPI operation the wizard relies on.
type Operation struct {
	ID          string
	Method      string
	Path        string
	Summary     string
	Description string
	Request     *openapi3.Schema
	Extensions  map[string]any
}

// Option customises catalog construction.
type Option func(*Catalog)

// WithLabeler overrides the label generator used for fields lacking an
// explicit x-onboard label.
func WithLabeler(labeler func(string) string) Option {
	return func(c *Catalog) {
		if labeler != nil {
			c.labeler = labeler
		}
	}
}

// Catalog indexes the operations of a parsed document by operationId. It is
// immutable after Parse and safe for concurrent readers.
type Catalog struct {
	spec       *openapi3.T
	operations map[string]Operation
	labeler    func(string) string
}

// Parse loads and validates doc, collecting every operation.
func Parse(ctx context.Context, doc Document, options ...Option) (*Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(doc.raw) == 0 {
		return nil, errors.New("openapi parser: document payload is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(doc.raw)
	if err != nil {
		return nil, fmt.Errorf("openapi parser: load %s: %w", doc.location, err)
	}
	if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("openapi parser: validate %s: %w", doc.location, err)
	}

	catalog := &Catalog{
		spec:       spec,
		operations: make(map[string]Operation),
		labeler:    model.DefaultLabeler,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(catalog)
	}

	if spec.Paths == nil || spec.Paths.Len() == 0 {
		return nil, errors.New("openapi parser: document does not contain any paths")
	}
	for path, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for method, operation := range item.Operations() {
			catalog.collect(method, path, operation)
		}
	}
	if len(catalog.operations) == 0 {
		return nil, errors.New("openapi parser: no operations extracted")
	}
	return catalog, nil
}

// MustParse panics on parse failure. Intended for the embedded document.
func MustParse(ctx context.Context, doc Document, options ...Option) *Catalog {
	catalog, err := Parse(ctx, doc, options...)
	if err != nil {
		panic(err)
	}
	return catalog
}

func (c *Catalog) collect(method, path string, operation *openapi3.Operation) {
	if operation == nil {
		return
	}
	id := operation.OperationID
	if id == "" {
		id = strings.ToLower(method) + ":" + path
	}
	c.operations[id] = Operation{
		ID:          id,
		Method:      strings.ToUpper(method),
		Path:        path,
		Summary:     operation.Summary,
		Description: operation.Description,
		Request:     requestSchema(operation.RequestBody),
		Extensions:  operation.Extensions,
	}
}

func requestSchema(body *openapi3.RequestBodyRef) *openapi3.Schema {
	if body == nil || body.Value == nil {
		return nil
	}
	content := body.Value.Content
	for _, mediaType := range []string{"application/json", "application/x-www-form-urlencoded"} {
		if mt, ok := content[mediaType]; ok && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

// Title reports the document title.
func (c *Catalog) Title() string {
	if c == nil || c.spec == nil || c.spec.Info == nil {
		return ""
	}
	return c.spec.Info.Title
}

// Operation returns the operation registered under id.
func (c *Catalog) Operation(id string) (Operation, bool) {
	if c == nil {
		return Operation{}, false
	}
	op, ok := c.operations[id]
	return op, ok
}

// OperationIDs lists the known operations, sorted.
func (c *Catalog) OperationIDs() []string {
	if c == nil {
		return nil
	}
	ids := make([]string, 0, len(c.operations))
	for id := range c.operations {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// RequestSchema returns the JSON encoding of the operation's request body
// schema, with references already resolved. It is the input for
// validation.Compile.
func (c *Catalog) RequestSchema(id string) ([]byte, error) {
	op, ok := c.Operation(id)
	if !ok {
		return nil, fmt.Errorf("openapi: operation %q not found", id)
	}
	if op.Request == nil {
		return nil, fmt.Errorf("openapi: operation %q has no request body", id)
	}
	raw, err := json.Marshal(op.Request)
	if err != nil {
		return nil, fmt.Errorf("openapi: encode request schema for %q: %w", id, err)
	}
	return raw, nil
}
