package themes

import (
	"testing"

	theme "github.com/goliatone/go-theme"
)

func TestResolve_DefaultTheme(t *testing.T) {
	selector, err := DefaultSelector("")
	if err != nil {
		t.Fatalf("selector: %v", err)
	}
	cfg, err := Resolve(selector, "", "", map[string]string{"wizard.field": "partials/field.tpl"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.Theme != DefaultTheme || cfg.Variant != "" {
		t.Fatalf("unexpected selection %s/%s", cfg.Theme, cfg.Variant)
	}
	if cfg.CSSVars["--step-done"] != "#16a34a" {
		t.Fatalf("expected css vars derived from tokens, got %v", cfg.CSSVars)
	}
	if cfg.Partials["wizard.field"] != "partials/field.tpl" {
		t.Fatalf("expected fallback partial, got %v", cfg.Partials)
	}
	if got := cfg.AssetURL("stylesheet"); got != "/static/onboard.css" {
		t.Fatalf("unexpected stylesheet url %q", got)
	}
	if got := cfg.AssetURL("logo.svg"); got != "/static/logo.svg" {
		t.Fatalf("unexpected passthrough url %q", got)
	}
}

func TestResolve_VariantOverrides(t *testing.T) {
	selector, err := DefaultSelector("dark")
	if err != nil {
		t.Fatalf("selector: %v", err)
	}
	cfg, err := Resolve(selector, "", "", nil)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.Variant != "dark" {
		t.Fatalf("expected default variant dark, got %q", cfg.Variant)
	}
	if cfg.Tokens["surface"] != "#111827" || cfg.Tokens["brand"] != "#0284c7" {
		t.Fatalf("expected variant tokens merged over base, got %v", cfg.Tokens)
	}
}

func TestSelect_Errors(t *testing.T) {
	selector, err := DefaultSelector("")
	if err != nil {
		t.Fatalf("selector: %v", err)
	}
	if _, err := selector.Select("missing", ""); err == nil {
		t.Fatalf("expected unknown theme error")
	}
	if _, err := selector.Select(DefaultTheme, "neon"); err == nil {
		t.Fatalf("expected unknown variant error")
	}
	if _, err := NewSelector("absent", ""); err == nil {
		t.Fatalf("expected error for unregistered default")
	}
	if _, err := Resolve(nil, "", "", nil); err == nil {
		t.Fatalf("expected nil selector error")
	}
}

func TestRendererConfig_NilSelection(t *testing.T) {
	cfg := RendererConfig(nil, map[string]string{"a": "b"})
	if cfg.Partials["a"] != "b" || cfg.AssetURL("x.css") != "x.css" {
		t.Fatalf("unexpected config for nil selection: %+v", cfg)
	}
}

func TestCSSDeclarations(t *testing.T) {
	cfg := &theme.RendererConfig{CSSVars: map[string]string{"--b": "2", "--a": "1"}}
	if got := CSSDeclarations(cfg); got != "--a: 1; --b: 2;" {
		t.Fatalf("unexpected declarations %q", got)
	}
	if CSSDeclarations(nil) != "" {
		t.Fatalf("expected empty declarations for nil config")
	}
}
