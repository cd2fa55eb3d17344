// Package themes resolves go-theme manifests into the renderer configuration
// consumed by the HTML renderer: merged design tokens, CSS variables, partial
// overrides and an asset resolver.
package themes

import (
	"fmt"
	"path"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// DefaultTheme is the name of the bundled manifest.
const DefaultTheme = "onboard"

// Selector implements theme.ThemeSelector over a fixed set of manifests.
type Selector struct {
	manifests      map[string]*theme.Manifest
	defaultTheme   string
	defaultVariant string
}

var _ theme.ThemeSelector = (*Selector)(nil)

// NewSelector validates manifests through a go-theme registry and returns a
// selector defaulting to defaultTheme/defaultVariant.
func NewSelector(defaultTheme, defaultVariant string, manifests ...*theme.Manifest) (*Selector, error) {
	registry := theme.NewRegistry()
	selector := &Selector{
		manifests:      make(map[string]*theme.Manifest, len(manifests)),
		defaultTheme:   strings.TrimSpace(defaultTheme),
		defaultVariant: strings.TrimSpace(defaultVariant),
	}
	for _, manifest := range manifests {
		if manifest == nil {
			continue
		}
		if err := registry.Register(manifest); err != nil {
			return nil, fmt.Errorf("themes: register %q: %w", manifest.Name, err)
		}
		selector.manifests[manifest.Name] = manifest
	}
	if selector.defaultTheme == "" {
		selector.defaultTheme = DefaultTheme
	}
	if _, ok := selector.manifests[selector.defaultTheme]; !ok {
		return nil, fmt.Errorf("themes: default theme %q is not registered", selector.defaultTheme)
	}
	return selector, nil
}

// Select resolves name/variant, falling back to the defaults when empty.
// Unknown variants are rejected; the empty variant selects the base manifest.
func (s *Selector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = s.defaultTheme
	}
	variant = strings.TrimSpace(variant)
	if variant == "" && name == s.defaultTheme {
		variant = s.defaultVariant
	}

	manifest, ok := s.manifests[name]
	if !ok {
		return nil, fmt.Errorf("themes: theme %q not found", name)
	}
	if variant != "" {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("themes: theme %q has no variant %q", name, variant)
		}
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}

// Names lists the registered themes, sorted.
func (s *Selector) Names() []string {
	names := make([]string, 0, len(s.manifests))
	for name := range s.manifests {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve selects a theme and converts it to a renderer configuration.
func Resolve(selector theme.ThemeSelector, name, variant string, fallbacks map[string]string) (*theme.RendererConfig, error) {
	if selector == nil {
		return nil, fmt.Errorf("themes: selector is nil")
	}
	selection, err := selector.Select(name, variant)
	if err != nil {
		return nil, err
	}
	return RendererConfig(selection, fallbacks), nil
}

// RendererConfig merges the manifest and the selected variant. Variant tokens,
// templates and asset files override the base; fallbacks fill partials the
// manifest leaves unset. Every token becomes a "--<token>" CSS variable.
func RendererConfig(selection *theme.Selection, fallbacks map[string]string) *theme.RendererConfig {
	cfg := &theme.RendererConfig{
		Partials: make(map[string]string),
		Tokens:   make(map[string]string),
		CSSVars:  make(map[string]string),
	}
	for key, value := range fallbacks {
		cfg.Partials[key] = value
	}
	if selection == nil || selection.Manifest == nil {
		cfg.AssetURL = func(name string) string { return name }
		return cfg
	}

	cfg.Theme = selection.Theme
	cfg.Variant = selection.Variant
	manifest := selection.Manifest

	prefix := manifest.Assets.Prefix
	files := make(map[string]string, len(manifest.Assets.Files))
	for key, value := range manifest.Assets.Files {
		files[key] = value
	}
	copyInto(cfg.Tokens, manifest.Tokens)
	copyInto(cfg.Partials, manifest.Templates)

	if variant, ok := manifest.Variants[selection.Variant]; ok {
		copyInto(cfg.Tokens, variant.Tokens)
		copyInto(cfg.Partials, variant.Templates)
		copyInto(files, variant.Assets.Files)
		if variant.Assets.Prefix != "" {
			prefix = variant.Assets.Prefix
		}
	}

	for key, value := range cfg.Tokens {
		cfg.CSSVars["--"+key] = value
	}
	cfg.AssetURL = assetResolver(prefix, files)
	return cfg
}

func assetResolver(prefix string, files map[string]string) func(string) string {
	return func(name string) string {
		file, ok := files[name]
		if !ok {
			file = name
		}
		if strings.HasPrefix(file, "http://") || strings.HasPrefix(file, "https://") || prefix == "" {
			return file
		}
		return path.Join(prefix, file)
	}
}

func copyInto(dst, src map[string]string) {
	for key, value := range src {
		dst[key] = value
	}
}

// CSSDeclarations renders the CSS variables of cfg as a sorted declaration
// block body, e.g. "--brand: #0284c7; --complete: #16a34a;".
func CSSDeclarations(cfg *theme.RendererConfig) string {
	if cfg == nil || len(cfg.CSSVars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(cfg.CSSVars))
	for key := range cfg.CSSVars {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	var b strings.Builder
	for i, key := range keys {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(cfg.CSSVars[key])
		b.WriteByte(';')
	}
	return b.String()
}
