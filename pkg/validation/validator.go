// Package validation checks submitted form values against the JSON Schema of
// an operation's request body and reports human readable messages per field.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	defaultMessageKey = "default"
	schemaBaseURL     = "https://onboard.local/schemas/"
)

// keywordOrder ranks keywords so the most fundamental failure is reported
// first for a field.
var keywordOrder = map[string]int{
	"required":  0,
	"type":      1,
	"minLength": 2,
	"maxLength": 3,
	"minimum":   4,
	"maximum":   5,
	"pattern":   6,
	"enum":      7,
	"format":    8,
}

// Issue is a single validation failure.
type Issue struct {
	Field   string `json:"field,omitempty"`
	Keyword string `json:"keyword,omitempty"`
	Message string `json:"message"`
}

// Result is the outcome of validating one submission.
type Result struct {
	Valid  bool                `json:"valid"`
	Fields map[string][]string `json:"fields,omitempty"`
	Form   []string            `json:"form,omitempty"`
	Values map[string]any      `json:"values,omitempty"`
}

// FirstError returns the leading message reported for field.
func (r Result) FirstError(field string) string {
	if msgs := r.Fields[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// Validator validates submissions for one request schema. It is immutable and
// safe for concurrent use.
type Validator struct {
	name        string
	schema      *jsonschema.Schema
	properties  map[string]property
	refinements []Refinement
	fallback    string
	printer     *message.Printer
}

type property struct {
	types    []string
	messages map[string]string
}

// Option customises a Validator.
type Option func(*Validator)

// WithName sets the resource name used when compiling the schema.
func WithName(name string) Option {
	return func(v *Validator) {
		if name = strings.TrimSpace(name); name != "" {
			v.name = name
		}
	}
}

// WithRefinements registers checks that depend on data outside the schema.
func WithRefinements(refinements ...Refinement) Option {
	return func(v *Validator) {
		v.refinements = append(v.refinements, refinements...)
	}
}

// WithFallbackMessage overrides the message used when neither the keyword nor
// a default message is configured for a property.
func WithFallbackMessage(msg string) Option {
	return func(v *Validator) {
		if msg != "" {
			v.fallback = msg
		}
	}
}

// Compile builds a Validator from a raw JSON Schema document.
func Compile(raw []byte, options ...Option) (*Validator, error) {
	v := &Validator{
		name:    "request",
		printer: message.NewPrinter(language.English),
	}
	for _, opt := range options {
		if opt != nil {
			opt(v)
		}
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("validation: decode schema %s: %w", v.name, err)
	}

	url := schemaBaseURL + v.name + ".json"
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("validation: add schema %s: %w", v.name, err)
	}
	schema, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("validation: compile schema %s: %w", v.name, err)
	}
	v.schema = schema

	props, err := readProperties(raw)
	if err != nil {
		return nil, fmt.Errorf("validation: read properties %s: %w", v.name, err)
	}
	v.properties = props
	return v, nil
}

// MustCompile panics when Compile fails.
func MustCompile(raw []byte, options ...Option) *Validator {
	v, err := Compile(raw, options...)
	if err != nil {
		panic(err)
	}
	return v
}

func readProperties(raw []byte) (map[string]property, error) {
	var doc struct {
		Properties map[string]struct {
			Type     json.RawMessage   `json:"type"`
			Messages map[string]string `json:"x-messages"`
		} `json:"properties"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	out := make(map[string]property, len(doc.Properties))
	for name, prop := range doc.Properties {
		p := property{messages: prop.Messages}
		if len(prop.Type) > 0 {
			var single string
			if err := json.Unmarshal(prop.Type, &single); err == nil {
				p.types = []string{single}
			} else {
				var many []string
				if err := json.Unmarshal(prop.Type, &many); err != nil {
					return nil, fmt.Errorf("property %q: invalid type", name)
				}
				p.types = many
			}
		}
		out[name] = p
	}
	return out, nil
}

// Validate checks every property of the schema.
func (v *Validator) Validate(values map[string]string) Result {
	return v.validate(values, nil)
}

// ValidateFields checks the submission but only reports, and only gates
// validity on, the named fields. Wizard steps use it to validate the subset of
// a request schema they render.
func (v *Validator) ValidateFields(values map[string]string, fields []string) Result {
	scope := make(map[string]struct{}, len(fields))
	for _, name := range fields {
		scope[name] = struct{}{}
	}
	return v.validate(values, scope)
}

func (v *Validator) validate(values map[string]string, scope map[string]struct{}) Result {
	result := Result{Fields: make(map[string][]string)}

	instance := v.coerce(values)
	result.Values = instance

	var issues []Issue
	if err := v.schema.Validate(roundTrip(instance)); err != nil {
		var verr *jsonschema.ValidationError
		if !errors.As(err, &verr) {
			result.Form = append(result.Form, err.Error())
			return result
		}
		issues = v.collect(verr, nil)
	}

	failed := make(map[string]struct{})
	for _, issue := range issues {
		failed[issue.Field] = struct{}{}
	}
	for _, refinement := range v.refinements {
		if _, ok := failed[refinement.Field]; ok {
			continue
		}
		if refinement.Check == nil || refinement.Check(instance) {
			continue
		}
		issues = append(issues, Issue{Field: refinement.Field, Keyword: "refine", Message: refinement.Message})
		failed[refinement.Field] = struct{}{}
	}

	sortIssues(issues)
	for _, issue := range issues {
		if issue.Field == "" {
			result.Form = appendUnique(result.Form, issue.Message)
			continue
		}
		if scope != nil {
			if _, ok := scope[issue.Field]; !ok {
				continue
			}
		}
		result.Fields[issue.Field] = appendUnique(result.Fields[issue.Field], issue.Message)
	}

	if len(result.Fields) == 0 {
		result.Fields = nil
	}
	result.Valid = len(result.Fields) == 0 && len(result.Form) == 0
	return result
}

// coerce converts raw form strings into the JSON types their properties
// declare. Blank values are dropped so "required" applies to them.
func (v *Validator) coerce(values map[string]string) map[string]any {
	out := make(map[string]any, len(values))
	for name, raw := range values {
		text := strings.TrimSpace(raw)
		if text == "" {
			continue
		}
		prop, known := v.properties[name]
		if !known {
			continue
		}
		out[name] = coerceValue(text, raw, prop.types)
	}
	return out
}

func coerceValue(text, raw string, types []string) any {
	for _, t := range types {
		switch t {
		case "integer":
			if n, err := strconv.ParseInt(text, 10, 64); err == nil {
				return n
			}
		case "number":
			if f, err := strconv.ParseFloat(text, 64); err == nil {
				return f
			}
		case "boolean":
			if b, err := strconv.ParseBool(text); err == nil {
				return b
			}
			if text == "on" {
				return true
			}
		case "string":
			return raw
		}
	}
	return raw
}

// roundTrip re-decodes the instance so numbers reach the validator as
// json.Number, the representation it expects.
func roundTrip(instance map[string]any) any {
	encoded, err := json.Marshal(instance)
	if err != nil {
		return instance
	}
	decoded, err := jsonschema.UnmarshalJSON(bytes.NewReader(encoded))
	if err != nil {
		return instance
	}
	return decoded
}

func (v *Validator) collect(verr *jsonschema.ValidationError, out []Issue) []Issue {
	if len(verr.Causes) > 0 {
		for _, cause := range verr.Causes {
			out = v.collect(cause, out)
		}
		return out
	}

	if required, ok := verr.ErrorKind.(*kind.Required); ok {
		for _, missing := range required.Missing {
			out = append(out, Issue{Field: missing, Keyword: "required", Message: v.message(missing, "required", verr)})
		}
		return out
	}

	keyword := ""
	if path := verr.ErrorKind.KeywordPath(); len(path) > 0 {
		keyword = path[len(path)-1]
	}
	field := strings.Join(verr.InstanceLocation, ".")
	return append(out, Issue{Field: field, Keyword: keyword, Message: v.message(field, keyword, verr)})
}

func (v *Validator) message(field, keyword string, verr *jsonschema.ValidationError) string {
	if prop, ok := v.properties[field]; ok {
		if msg := prop.messages[keyword]; msg != "" {
			return msg
		}
		if msg := prop.messages[defaultMessageKey]; msg != "" {
			return msg
		}
	}
	if v.fallback != "" {
		return v.fallback
	}
	return verr.ErrorKind.LocalizedString(v.printer)
}

func sortIssues(issues []Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		if issues[i].Field != issues[j].Field {
			return issues[i].Field < issues[j].Field
		}
		return rank(issues[i].Keyword) < rank(issues[j].Keyword)
	})
}

func rank(keyword string) int {
	if r, ok := keywordOrder[keyword]; ok {
		return r
	}
	return len(keywordOrder)
}

func appendUnique(list []string, msg string) []string {
	for _, existing := range list {
		if existing == msg {
			return list
		}
	}
	return append(list, msg)
}
