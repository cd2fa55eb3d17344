package tui

import (
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	theme "github.com/goliatone/go-theme"
	"github.com/muesli/termenv"

	"github.com/goliatone/go-onboard/pkg/wizard"
)

// Palette fallbacks, matching the bundled theme tokens.
const (
	colorDone    = "#16a34a"
	colorActive  = "#0ea5e9"
	colorPending = "#9ca3af"
	colorDanger  = "#dc2626"
)

// Styles holds the lipgloss styles used for terminal output.
type Styles struct {
	Complete lipgloss.Style
	Active   lipgloss.Style
	Pending  lipgloss.Style
	Title    lipgloss.Style
	Muted    lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
}

// NewStyles builds styles bound to a renderer for out. Colours come from the
// theme tokens step-done, step-active, step-pending and danger when cfg
// carries them. profile overrides colour detection; pass -1 to detect.
func NewStyles(out io.Writer, cfg *theme.RendererConfig, profile termenv.Profile) Styles {
	r := lipgloss.NewRenderer(out)
	if profile >= 0 {
		r.SetColorProfile(profile)
	}
	done := token(cfg, "step-done", colorDone)
	active := token(cfg, "step-active", colorActive)
	pending := token(cfg, "step-pending", colorPending)
	danger := token(cfg, "danger", colorDanger)
	return Styles{
		Complete: r.NewStyle().Foreground(lipgloss.Color(done)),
		Active:   r.NewStyle().Foreground(lipgloss.Color(active)).Bold(true),
		Pending:  r.NewStyle().Foreground(lipgloss.Color(pending)),
		Title:    r.NewStyle().Bold(true),
		Muted:    r.NewStyle().Foreground(lipgloss.Color(pending)),
		Error:    r.NewStyle().Foreground(lipgloss.Color(danger)),
		Success:  r.NewStyle().Foreground(lipgloss.Color(done)),
	}
}

func token(cfg *theme.RendererConfig, name, fallback string) string {
	if cfg != nil {
		if value := strings.TrimSpace(cfg.Tokens[name]); value != "" {
			return value
		}
	}
	return fallback
}

// Progress draws the step indicator on one line, e.g.
// "✓ 1 About You ─── ● 2 Company ─── ○ 3 Location". Connectors into reached
// steps use the complete colour.
func (s Styles) Progress(markers []wizard.Marker) string {
	var b strings.Builder
	for i, marker := range markers {
		if i > 0 {
			connector := s.Pending
			if marker.Reached {
				connector = s.Complete
			}
			b.WriteString(" ")
			b.WriteString(connector.Render("───"))
			b.WriteString(" ")
		}
		label := strconv.Itoa(marker.Position)
		if marker.Title != "" {
			label += " " + marker.Title
		}
		switch marker.Status {
		case wizard.StatusComplete:
			b.WriteString(s.Complete.Render("✓ " + label))
		case wizard.StatusActive:
			b.WriteString(s.Active.Render("● " + label))
		default:
			b.WriteString(s.Pending.Render("○ " + label))
		}
	}
	return b.String()
}
