// Package html renders wizard steps and application pages as server-side
// HTML using pongo2 templates.
package html

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-onboard/pkg/model"
	"github.com/goliatone/go-onboard/pkg/render"
	"github.com/goliatone/go-onboard/pkg/themes"
	"github.com/goliatone/go-onboard/pkg/wizard"
)

//go:embed templates
var embeddedTemplates embed.FS

//go:embed static
var embeddedStatic embed.FS

// TemplatesFS returns the bundled templates.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}

// StaticFS returns the bundled stylesheet directory.
func StaticFS() fs.FS {
	sub, err := fs.Sub(embeddedStatic, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Partial keys a theme may override.
const (
	PartialProgress = "wizard.progress"
	PartialField    = "wizard.field"
)

// DefaultPartials are used when the theme does not override a partial.
func DefaultPartials() map[string]string {
	return map[string]string{
		PartialProgress: "partials/progress.tpl",
		PartialField:    "partials/field.tpl",
	}
}

// Option configures the renderer.
type Option func(*config)

type config struct {
	templates fs.FS
	title     string
}

// WithTemplatesFS supplies an alternate template bundle.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		if files != nil {
			cfg.templates = files
		}
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path != "" {
			cfg.templates = os.DirFS(path)
		}
	}
}

// WithSiteTitle sets the document title suffix.
func WithSiteTitle(title string) Option {
	return func(cfg *config) {
		if title = strings.TrimSpace(title); title != "" {
			cfg.title = title
		}
	}
}

// Renderer implements render.Renderer for browsers.
type Renderer struct {
	engine *Engine
	title  string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the renderer.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templates: TemplatesFS(), title: "Onboard"}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	engine, err := NewEngine(cfg.templates, ".tpl")
	if err != nil {
		return nil, fmt.Errorf("html renderer: %w", err)
	}
	return &Renderer{engine: engine, title: cfg.title}, nil
}

// Name implements render.Renderer.
func (r *Renderer) Name() string { return "html" }

// ContentType implements render.Renderer.
func (r *Renderer) ContentType() string { return "text/html; charset=utf-8" }

// Render draws the wizard page for view.
func (r *Renderer) Render(ctx context.Context, view render.StepView, opts render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	nextLabel := "Next"
	if view.IsLast() {
		nextLabel = view.SubmitLabel
		if nextLabel == "" {
			nextLabel = "Submit"
		}
	}

	data := wizardPage{
		pageData:   r.page(view.FlowTitle, opts),
		Flow:       view.FlowID,
		FlowTitle:  view.FlowTitle,
		Action:     opts.Action,
		Progress:   view.Progress,
		Hidden:     hiddenInputs(opts.Hidden),
		FormErrors: render.MergeFormErrors(opts.FormErrors),
		Notice:     opts.Notice,
		Step: stepData{
			ID:          view.StepID,
			Title:       view.Title,
			Description: view.Description,
			Index:       view.Index,
			Position:    view.Position(),
			Count:       view.Count,
		},
		Nav: navData{
			HasPrev:   view.HasPrev,
			HasNext:   view.HasNext,
			IsLast:    view.IsLast(),
			NextLabel: nextLabel,
		},
	}
	for _, field := range view.Form.Fields {
		data.Fields = append(data.Fields, buildField(view.StepID, field, opts.Values[field.Name], opts.Errors[field.Name]))
	}
	return r.engine.Execute("wizard", data)
}

// Page renders one of the application pages ("dashboard", "sign-in",
// "error") with the supplied content.
func (r *Renderer) Page(ctx context.Context, name, title string, content any, opts render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data := contentPage{
		pageData:   r.page(title, opts),
		Content:    content,
		FormErrors: render.MergeFormErrors(opts.FormErrors),
		Notice:     opts.Notice,
	}
	return r.engine.Execute(name, data)
}

func (r *Renderer) page(title string, opts render.RenderOptions) pageData {
	full := r.title
	if title != "" {
		full = title + " | " + r.title
	}
	return pageData{Title: full, Site: r.title, Theme: buildTheme(opts.Theme)}
}

type pageData struct {
	Title string    `json:"title"`
	Site  string    `json:"site"`
	Theme themeData `json:"theme"`
}

type contentPage struct {
	pageData
	Content    any      `json:"content"`
	FormErrors []string `json:"formErrors,omitempty"`
	Notice     string   `json:"notice,omitempty"`
}

type wizardPage struct {
	pageData
	Flow       string          `json:"flow"`
	FlowTitle  string          `json:"flowTitle"`
	Action     string          `json:"action"`
	Progress   []wizard.Marker `json:"progress"`
	Step       stepData        `json:"step"`
	Fields     []fieldData     `json:"fields"`
	Hidden     []hiddenData    `json:"hidden,omitempty"`
	FormErrors []string        `json:"formErrors,omitempty"`
	Notice     string          `json:"notice,omitempty"`
	Nav        navData         `json:"nav"`
}

type themeData struct {
	Name       string            `json:"name,omitempty"`
	Variant    string            `json:"variant,omitempty"`
	CSS        string            `json:"css,omitempty"`
	Stylesheet string            `json:"stylesheet"`
	Partials   map[string]string `json:"partials"`
}

type stepData struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Index       int    `json:"index"`
	Position    int    `json:"position"`
	Count       int    `json:"count"`
}

type navData struct {
	HasPrev   bool   `json:"hasPrev"`
	HasNext   bool   `json:"hasNext"`
	IsLast    bool   `json:"isLast"`
	NextLabel string `json:"nextLabel"`
}

type hiddenData struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type fieldData struct {
	Name        string        `json:"name"`
	Key         string        `json:"key"`
	ID          string        `json:"id"`
	Label       string        `json:"label"`
	Widget      string        `json:"widget"`
	InputType   string        `json:"inputType"`
	Required    bool          `json:"required"`
	Placeholder string        `json:"placeholder,omitempty"`
	Description string        `json:"description,omitempty"`
	Value       string        `json:"value"`
	Errors      []string      `json:"errors,omitempty"`
	Options     []optionData  `json:"options,omitempty"`
	Groups      []optionGroup `json:"groups,omitempty"`
	MaxLength   string        `json:"maxLength,omitempty"`
}

type optionData struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

type optionGroup struct {
	Label   string       `json:"label"`
	Options []optionData `json:"options"`
}

func buildTheme(cfg *theme.RendererConfig) themeData {
	partials := DefaultPartials()
	data := themeData{Stylesheet: "/static/onboard.css"}
	if cfg != nil {
		data.Name = cfg.Theme
		data.Variant = cfg.Variant
		data.CSS = themes.CSSDeclarations(cfg)
		if cfg.AssetURL != nil {
			data.Stylesheet = cfg.AssetURL("stylesheet")
		}
		for key, value := range cfg.Partials {
			if _, known := partials[key]; known && value != "" {
				partials[key] = value
			}
		}
	}
	// Template keys cannot contain dots.
	data.Partials = map[string]string{
		"progress": partials[PartialProgress],
		"field":    partials[PartialField],
	}
	return data
}

func hiddenInputs(fields []render.HiddenField) []hiddenData {
	if len(fields) == 0 {
		return nil
	}
	out := make([]hiddenData, 0, len(fields))
	for _, field := range fields {
		if field.Name == "" {
			continue
		}
		out = append(out, hiddenData{Name: field.Name, Value: field.Value})
	}
	return out
}

func buildField(step string, field model.Field, value any, errors []string) fieldData {
	key := render.FieldKey(step, field.Name)
	data := fieldData{
		Name:        field.Name,
		Key:         key,
		ID:          "field-" + strings.NewReplacer(".", "-", " ", "-").Replace(key),
		Label:       field.Label,
		Required:    field.Required,
		Placeholder: field.Placeholder,
		Description: Sanitize(field.Description),
		Errors:      errors,
		Widget:      "input",
		InputType:   inputType(field),
	}
	if value != nil {
		data.Value = fmt.Sprint(value)
	} else if field.Default != nil {
		data.Value = fmt.Sprint(field.Default)
	}
	if rule, ok := field.Rule(model.ValidationRuleMaxLength); ok {
		data.MaxLength = rule.Params["value"]
	}

	if field.Hint("widget") == "select" || len(field.Options) > 0 {
		data.Widget = "select"
		data.Options, data.Groups = buildOptions(field.Options, data.Value)
	}
	return data
}

func inputType(field model.Field) string {
	if hint := field.Hint("inputType"); hint != "" {
		return hint
	}
	switch field.Type {
	case model.FieldTypeInteger, model.FieldTypeNumber:
		return "number"
	case model.FieldTypeBoolean:
		return "checkbox"
	default:
		return "text"
	}
}

// buildOptions returns ungrouped options and, for options carrying a Group,
// optgroups in first-seen order.
func buildOptions(options []model.Option, selected string) ([]optionData, []optionGroup) {
	var (
		flat   []optionData
		groups []optionGroup
		index  = make(map[string]int)
	)
	for _, option := range options {
		entry := optionData{Value: option.Value, Label: option.Label, Selected: option.Value == selected}
		if entry.Label == "" {
			entry.Label = option.Value
		}
		if option.Group == "" {
			flat = append(flat, entry)
			continue
		}
		pos, ok := index[option.Group]
		if !ok {
			pos = len(groups)
			index[option.Group] = pos
			groups = append(groups, optionGroup{Label: option.Group})
		}
		groups[pos].Options = append(groups[pos].Options, entry)
	}
	return flat, groups
}
