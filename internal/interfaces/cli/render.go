package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/shopspring/decimal"

	"github.com/ministock/backend/internal/application/assistant"
)

const barWidth = 24

// Renderer turns assistant responses into terminal text.
type Renderer struct {
	markdown *glamour.TermRenderer
}

// RendererOption configures a Renderer.
type RendererOption func(*rendererOptions)

type rendererOptions struct {
	style    string
	wordWrap int
	plain    bool
}

// WithStyle selects a glamour standard style ("dark", "light", "notty", ...).
func WithStyle(style string) RendererOption {
	return func(o *rendererOptions) { o.style = style }
}

// WithWordWrap sets the wrap column.
func WithWordWrap(width int) RendererOption {
	return func(o *rendererOptions) { o.wordWrap = width }
}

// WithPlain disables markdown rendering; text is printed as is.
func WithPlain() RendererOption {
	return func(o *rendererOptions) { o.plain = true }
}

// NewRenderer creates a renderer. Without a style the terminal background
// is detected.
func NewRenderer(opts ...RendererOption) (*Renderer, error) {
	o := &rendererOptions{wordWrap: 80}
	for _, opt := range opts {
		opt(o)
	}
	if o.plain {
		return &Renderer{}, nil
	}

	termOpts := []glamour.TermRendererOption{glamour.WithWordWrap(o.wordWrap)}
	if o.style != "" {
		termOpts = append(termOpts, glamour.WithStandardStyle(o.style))
	} else {
		termOpts = append(termOpts, glamour.WithAutoStyle())
	}
	md, err := glamour.NewTermRenderer(termOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	return &Renderer{markdown: md}, nil
}

// Markdown renders one markdown block. Rendering errors fall back to the
// raw text.
func (r *Renderer) Markdown(text string) string {
	if r.markdown == nil {
		return strings.TrimRight(text, "\n") + "\n"
	}
	// Line breaks in replies are significant.
	out, err := r.markdown.Render(strings.ReplaceAll(text, "\n", "  \n"))
	if err != nil {
		return strings.TrimRight(text, "\n") + "\n"
	}
	return out
}

// Response renders the reply text followed by its chart, if any.
func (r *Renderer) Response(resp assistant.Response) string {
	var b strings.Builder
	b.WriteString(r.Markdown(resp.Text))
	if resp.Chart != nil {
		b.WriteString(Chart(*resp.Chart))
	}
	return b.String()
}

// Chart draws a chart descriptor with text bars.
func Chart(c assistant.ChartDescriptor) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n  %s\n", c.Title)

	switch c.Kind {
	case assistant.ChartPie:
		total := decimal.Zero
		for _, p := range c.Series {
			total = total.Add(p.Value)
		}
		for _, p := range c.Series {
			pct := decimal.Zero
			if total.IsPositive() {
				pct = p.Value.Div(total).Mul(decimal.NewFromInt(100))
			}
			fmt.Fprintf(&b, "  %-18s %s %5s%%\n", clip(p.Label, 18), bar(p.Value, total), pct.StringFixed(1))
		}
	case assistant.ChartBar:
		peak := decimal.Zero
		for _, p := range c.Series {
			peak = decimal.Max(peak, p.Value)
		}
		for _, p := range c.Series {
			fmt.Fprintf(&b, "  %-18s %s %s\n", clip(p.Label, 18), bar(p.Value, peak), p.Value.StringFixed(2))
		}
	case assistant.ChartLine:
		peak := decimal.Zero
		for _, m := range c.Monthly {
			peak = decimal.Max(peak, m.Income, m.Expense)
		}
		for _, m := range c.Monthly {
			fmt.Fprintf(&b, "  %-9s ↑ %s %s\n", m.Label, bar(m.Income, peak), m.Income.StringFixed(2))
			fmt.Fprintf(&b, "  %-9s ↓ %s %s\n", "", bar(m.Expense, peak), m.Expense.StringFixed(2))
		}
	case assistant.ChartSummary:
		if s := c.Summary; s != nil {
			fmt.Fprintf(&b, "  Ingresos  $%s\n", s.Income.StringFixed(2))
			fmt.Fprintf(&b, "  Gastos    $%s\n", s.Expense.StringFixed(2))
			fmt.Fprintf(&b, "  Balance   $%s\n", s.Balance.StringFixed(2))
		}
	}
	return b.String()
}

func bar(value, peak decimal.Decimal) string {
	n := 0
	if peak.IsPositive() && value.IsPositive() {
		n = int(value.Div(peak).Mul(decimal.NewFromInt(barWidth)).Round(0).IntPart())
		n = max(n, 1)
	}
	return strings.Repeat("█", n) + strings.Repeat("·", barWidth-n)
}

func clip(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}
