package themes

import theme "github.com/goliatone/go-theme"

// DefaultManifest is the bundled look: sky for the active step, green for
// completed steps and their connectors, grey for pending steps.
func DefaultManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    DefaultTheme,
		Version: "1.0.0",
		Tokens: map[string]string{
			"brand":        "#0284c7",
			"step-active":  "#0ea5e9",
			"step-done":    "#16a34a",
			"step-pending": "#d1d5db",
			"surface":      "#ffffff",
			"text":         "#111827",
			"danger":       "#dc2626",
		},
		Assets: theme.Assets{
			Prefix: "/static",
			Files: map[string]string{
				"stylesheet": "onboard.css",
			},
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"surface":      "#111827",
					"text":         "#f9fafb",
					"step-pending": "#4b5563",
				},
			},
		},
	}
}

// DefaultSelector returns a selector holding only the bundled manifest.
func DefaultSelector(variant string) (*Selector, error) {
	return NewSelector(DefaultTheme, variant, DefaultManifest())
}
