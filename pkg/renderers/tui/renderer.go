package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"github.com/muesli/termenv"

	"github.com/goliatone/go-onboard/pkg/model"
	"github.com/goliatone/go-onboard/pkg/render"
)

// Renderer implements render.Renderer for terminal sessions. Render prompts
// for every field of the step and returns the entered values as a JSON
// object of strings keyed by field name.
type Renderer struct {
	driver  PromptDriver
	out     io.Writer
	profile termenv.Profile
	text    *bluemonday.Policy
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver on stdout).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		out:     os.Stdout,
		profile: -1,
		text:    bluemonday.StrictPolicy(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver(r.out)
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	return "application/json"
}

// Render prints the progress indicator and heading of view, then prompts each
// field. Values in opts seed the prompts and messages in opts are printed
// above the field they belong to.
func (r *Renderer) Render(ctx context.Context, view render.StepView, opts render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.driver == nil {
		return nil, ErrNoDriver
	}
	styles := NewStyles(r.out, opts.Theme, r.profile)

	lines := []string{
		styles.Progress(view.Progress),
		styles.Title.Render(fmt.Sprintf("Step %d of %d: %s", view.Position(), view.Count, view.Title)),
	}
	if text := r.plain(view.Description); text != "" {
		lines = append(lines, styles.Muted.Render(text))
	}
	if opts.Notice != "" {
		lines = append(lines, styles.Success.Render("✓ "+opts.Notice))
	}
	for _, msg := range render.MergeFormErrors(opts.FormErrors) {
		lines = append(lines, styles.Error.Render("✗ "+msg))
	}
	for _, line := range lines {
		if err := r.driver.Info(ctx, line); err != nil {
			return nil, err
		}
	}

	values := make(map[string]string, len(view.Form.Fields))
	for _, field := range view.Form.Fields {
		for _, msg := range opts.Errors[field.Name] {
			if err := r.driver.Info(ctx, styles.Error.Render("✗ "+msg)); err != nil {
				return nil, err
			}
		}
		value, err := r.promptField(ctx, styles, view.Form, field, current(opts.Values, field), values)
		if err != nil {
			return nil, err
		}
		values[field.Name] = value
	}
	return json.Marshal(values)
}

func current(values map[string]any, field model.Field) string {
	if value, ok := values[field.Name]; ok && value != nil {
		return fmt.Sprint(value)
	}
	if field.Default != nil {
		return fmt.Sprint(field.Default)
	}
	return ""
}

func (r *Renderer) promptField(ctx context.Context, styles Styles, form model.FormModel, field model.Field, value string, entered map[string]string) (string, error) {
	label := displayLabel(field)
	help := r.displayHelp(field)

	if options := choices(form, field, entered); len(options) > 0 {
		return r.promptSelect(ctx, label, help, options, value)
	}
	if field.Type == model.FieldTypeBoolean {
		yes, err := r.driver.Confirm(ctx, ConfirmConfig{Message: label, Default: value == "true", Help: help})
		if err != nil {
			return "", err
		}
		return strconv.FormatBool(yes), nil
	}

	rules := collectRules(field)
	for {
		response, err := r.driver.Input(ctx, InputConfig{Message: label, Default: value, Help: help})
		if err != nil {
			return "", err
		}
		if msg := rules.check(response); msg != "" {
			if err := r.driver.Info(ctx, styles.Error.Render("✗ "+msg)); err != nil {
				return "", err
			}
			value = response
			continue
		}
		return strings.TrimSpace(response), nil
	}
}

func (r *Renderer) promptSelect(ctx context.Context, label, help string, options []model.Option, value string) (string, error) {
	labels := make([]string, len(options))
	selected := -1
	for i, option := range options {
		labels[i] = option.Label
		if labels[i] == "" {
			labels[i] = option.Value
		}
		if option.Group != "" {
			labels[i] = option.Group + " / " + labels[i]
		}
		if option.Value == value {
			selected = i
		}
	}
	for {
		idx, err := r.driver.Select(ctx, SelectConfig{Message: label, Options: labels, DefaultIndex: selected, Help: help})
		if err != nil {
			return "", err
		}
		if idx >= 0 && idx < len(options) {
			return options[idx].Value, nil
		}
	}
}

// choices returns the options of field. A field hinting dependsOn only offers
// the options grouped under the label of the parent value already entered.
func choices(form model.FormModel, field model.Field, entered map[string]string) []model.Option {
	if len(field.Options) == 0 {
		return nil
	}
	parentName := field.Hint("dependsOn")
	if parentName == "" {
		return field.Options
	}
	parent, ok := form.Field(parentName)
	if !ok {
		return field.Options
	}
	group := ""
	for _, option := range parent.Options {
		if option.Value == entered[parentName] {
			group = option.Label
			break
		}
	}
	if group == "" {
		return field.Options
	}
	var out []model.Option
	for _, option := range field.Options {
		if option.Group == group {
			option.Group = ""
			out = append(out, option)
		}
	}
	if len(out) == 0 {
		return field.Options
	}
	return out
}

func displayLabel(field model.Field) string {
	label := field.Label
	if label == "" {
		label = model.DefaultLabeler(field.Name)
	}
	if field.Required {
		label += " *"
	}
	return label
}

func (r *Renderer) displayHelp(field model.Field) string {
	parts := make([]string, 0, 2)
	if text := r.plain(field.Description); text != "" {
		parts = append(parts, text)
	}
	if field.Placeholder != "" {
		parts = append(parts, "e.g. "+field.Placeholder)
	}
	return strings.Join(parts, " ")
}

// plain strips markup from descriptions written for the HTML renderer.
func (r *Renderer) plain(markup string) string {
	if strings.TrimSpace(markup) == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(r.text.Sanitize(markup)))
}

// rules mirror the request schema closely enough to catch typos before the
// step is submitted; the session's validator remains authoritative.
type rules struct {
	field   model.Field
	minLen  *int
	maxLen  *int
	min     *float64
	max     *float64
	pattern *regexp.Regexp
}

func collectRules(field model.Field) rules {
	out := rules{field: field}
	for _, v := range field.Validations {
		switch v.Kind {
		case model.ValidationRuleMin:
			if val, err := strconv.ParseFloat(v.Params["value"], 64); err == nil {
				out.min = &val
			}
		case model.ValidationRuleMax:
			if val, err := strconv.ParseFloat(v.Params["value"], 64); err == nil {
				out.max = &val
			}
		case model.ValidationRuleMinLength:
			if val, err := strconv.Atoi(v.Params["value"]); err == nil {
				out.minLen = &val
			}
		case model.ValidationRuleMaxLength:
			if val, err := strconv.Atoi(v.Params["value"]); err == nil {
				out.maxLen = &val
			}
		case model.ValidationRulePattern:
			if expr := v.Params["pattern"]; expr != "" {
				if re, err := regexp.Compile(expr); err == nil {
					out.pattern = re
				}
			}
		}
	}
	return out
}

// check returns the message for the first failing rule, or "".
func (r rules) check(raw string) string {
	value := strings.TrimSpace(raw)
	if value == "" {
		if r.field.Required {
			return r.message("required", "This field is required")
		}
		return ""
	}
	if r.minLen != nil && utf8.RuneCountInString(value) < *r.minLen {
		return r.message("minLength", fmt.Sprintf("Must contain at least %d character(s)", *r.minLen))
	}
	if r.maxLen != nil && utf8.RuneCountInString(value) > *r.maxLen {
		return r.message("maxLength", fmt.Sprintf("Must contain at most %d character(s)", *r.maxLen))
	}
	if r.pattern != nil && !r.pattern.MatchString(value) {
		return r.message("pattern", "Invalid format")
	}
	if r.field.Type == model.FieldTypeInteger || r.field.Type == model.FieldTypeNumber {
		number, err := strconv.ParseFloat(value, 64)
		if err != nil || (r.field.Type == model.FieldTypeInteger && number != float64(int64(number))) {
			return r.message("type", "Please enter a number")
		}
		if r.min != nil && number < *r.min {
			return r.message("minimum", fmt.Sprintf("Must be at least %v", *r.min))
		}
		if r.max != nil && number > *r.max {
			return r.message("maximum", fmt.Sprintf("Must be at most %v", *r.max))
		}
	}
	return ""
}

func (r rules) message(keyword, fallback string) string {
	if msg := r.field.Metadata["message."+keyword]; msg != "" {
		return msg
	}
	if msg := r.field.Metadata["message.default"]; msg != "" {
		return msg
	}
	return fallback
}
