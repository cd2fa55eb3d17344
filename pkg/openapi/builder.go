package openapi

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-onboard/pkg/model"
)

const (
	extensionNamespace = "x-onboard"
	messagesExtension  = "x-messages"
	orderHint          = "order"
)

// Form converts the request body of the named operation into a FormModel.
// Properties are ordered by their x-onboard order hint, then by name.
func (c *Catalog) Form(id string) (model.FormModel, error) {
	op, ok := c.Operation(id)
	if !ok {
		return model.FormModel{}, fmt.Errorf("openapi: operation %q not found", id)
	}
	if op.Request == nil {
		return model.FormModel{}, fmt.Errorf("openapi: operation %q has no request body", id)
	}
	if !hasType(op.Request, openapi3.TypeObject) && len(op.Request.Properties) == 0 {
		return model.FormModel{}, fmt.Errorf("openapi: operation %q request body is not an object", id)
	}

	form := model.FormModel{
		OperationID: op.ID,
		Endpoint:    op.Path,
		Method:      op.Method,
		Summary:     op.Summary,
		Description: op.Description,
		Metadata:    stringMap(op.Extensions[extensionNamespace]),
	}

	required := make(map[string]struct{}, len(op.Request.Required))
	for _, name := range op.Request.Required {
		required[name] = struct{}{}
	}

	for _, name := range orderedProperties(op.Request.Properties) {
		ref := op.Request.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		_, isRequired := required[name]
		form.Fields = append(form.Fields, c.field(name, ref.Value, isRequired))
	}
	return form, nil
}

func (c *Catalog) field(name string, schema *openapi3.Schema, required bool) model.Field {
	hints := stringMap(schema.Extensions[extensionNamespace])

	field := model.Field{
		Name:        name,
		Type:        fieldType(schema),
		Format:      schema.Format,
		Required:    required,
		Description: schema.Description,
		Default:     schema.Default,
	}

	field.Label = hints["label"]
	if field.Label == "" {
		field.Label = schema.Title
	}
	if field.Label == "" {
		field.Label = c.labeler(name)
	}
	field.Placeholder = hints["placeholder"]
	delete(hints, "label")
	delete(hints, "placeholder")
	if len(hints) > 0 {
		field.UIHints = hints
	}

	if len(schema.Enum) > 0 {
		field.Enum = append([]any(nil), schema.Enum...)
		for _, value := range schema.Enum {
			text := fmt.Sprint(value)
			field.Options = append(field.Options, model.Option{Value: text, Label: text})
		}
	}

	field.Validations = validations(schema)
	if messages := stringMap(schema.Extensions[messagesExtension]); len(messages) > 0 {
		field.Metadata = make(map[string]string, len(messages))
		for keyword, message := range messages {
			field.Metadata["message."+keyword] = message
		}
	}
	return field
}

func validations(schema *openapi3.Schema) []model.ValidationRule {
	var rules []model.ValidationRule
	if schema.Min != nil {
		rules = append(rules, valueRule(model.ValidationRuleMin, formatFloat(*schema.Min)))
	}
	if schema.Max != nil {
		rules = append(rules, valueRule(model.ValidationRuleMax, formatFloat(*schema.Max)))
	}
	if schema.MinLength > 0 {
		rules = append(rules, valueRule(model.ValidationRuleMinLength, strconv.FormatUint(schema.MinLength, 10)))
	}
	if schema.MaxLength != nil {
		rules = append(rules, valueRule(model.ValidationRuleMaxLength, strconv.FormatUint(*schema.MaxLength, 10)))
	}
	if schema.Pattern != "" {
		rules = append(rules, model.ValidationRule{
			Kind:   model.ValidationRulePattern,
			Params: map[string]string{"pattern": schema.Pattern},
		})
	}
	return rules
}

func valueRule(kind, value string) model.ValidationRule {
	return model.ValidationRule{Kind: kind, Params: map[string]string{"value": value}}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func fieldType(schema *openapi3.Schema) model.FieldType {
	switch {
	case hasType(schema, openapi3.TypeInteger):
		return model.FieldTypeInteger
	case hasType(schema, openapi3.TypeNumber):
		return model.FieldTypeNumber
	case hasType(schema, openapi3.TypeBoolean):
		return model.FieldTypeBoolean
	default:
		return model.FieldTypeString
	}
}

func hasType(schema *openapi3.Schema, want string) bool {
	if schema == nil || schema.Type == nil {
		return false
	}
	for _, t := range schema.Type.Slice() {
		if t == want {
			return true
		}
	}
	return false
}

func orderedProperties(props openapi3.Schemas) []string {
	type entry struct {
		name  string
		order int
	}
	entries := make([]entry, 0, len(props))
	for name, ref := range props {
		order := len(props)
		if ref != nil && ref.Value != nil {
			if raw, ok := stringMap(ref.Value.Extensions[extensionNamespace])[orderHint]; ok {
				if n, err := strconv.Atoi(raw); err == nil {
					order = n
				}
			}
		}
		entries = append(entries, entry{name: name, order: order})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].order != entries[j].order {
			return entries[i].order < entries[j].order
		}
		return entries[i].name < entries[j].name
	})
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.name
	}
	return names
}

// stringMap flattens an extension object into string values. Non-scalar
// members are skipped.
func stringMap(value any) map[string]string {
	raw, ok := value.(map[string]any)
	if !ok || len(raw) == 0 {
		return nil
	}
	out := make(map[string]string, len(raw))
	for key, val := range raw {
		switch v := val.(type) {
		case string:
			out[key] = v
		case bool:
			out[key] = strconv.FormatBool(v)
		case float64:
			out[key] = formatFloat(v)
		case int:
			out[key] = strconv.Itoa(v)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Messages returns the x-messages map of a request property, keyed by
// validation keyword.
func (c *Catalog) Messages(id, property string) map[string]string {
	op, ok := c.Operation(id)
	if !ok || op.Request == nil {
		return nil
	}
	ref, ok := op.Request.Properties[property]
	if !ok || ref == nil || ref.Value == nil {
		return nil
	}
	return stringMap(ref.Value.Extensions[messagesExtension])
}
