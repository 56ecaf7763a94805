package chart

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/GustavoCaso/expenseview/internal/util"
)

const (
	defaultWidth = 60
	minBarWidth  = 10
	barRune      = "█"
	labelWidth   = 14
)

var palette = []lipgloss.Color{
	"#FF6384",
	"#36A2EB",
	"#FFCE56",
	"#4BC0C0",
	"#9966FF",
	"#FF9F40",
	"#FF6384",
	"#C9CBCF",
}

var titleStyle = lipgloss.NewStyle().
	Bold(true).
	MarginBottom(1)

var trendStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#4BC0C0"))

// TerminalRenderer draws charts as horizontal bar blocks. Doughnut charts show
// each slice as a colored bar with its share of the total; line charts show
// one bar per point scaled to the largest value.
type TerminalRenderer struct {
	mu    sync.Mutex
	width int
}

func NewTerminalRenderer(width int) *TerminalRenderer {
	r := &TerminalRenderer{}
	r.SetWidth(width)
	return r
}

// SetWidth applies to charts rendered afterwards.
func (r *TerminalRenderer) SetWidth(width int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if width <= 0 {
		width = defaultWidth
	}
	r.width = width
}

func (r *TerminalRenderer) Render(c Chart) (Instance, error) {
	r.mu.Lock()
	width := r.width
	r.mu.Unlock()

	if err := c.validate(); err != nil {
		return nil, err
	}

	var body string
	switch c.Kind {
	case Doughnut:
		body = renderShares(c, width)
	case Line:
		body = renderSeries(c, width)
	default:
		return nil, fmt.Errorf("unsupported chart kind %q", c.Kind)
	}

	view := lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(c.Title), body)

	return &terminalChart{view: view}, nil
}

func renderShares(c Chart, width int) string {
	total := decimal.Zero
	for _, v := range c.Values {
		total = total.Add(v)
	}

	barSpace := barWidth(width)
	rows := make([]string, 0, len(c.Labels))

	for i, label := range c.Labels {
		share := decimal.Zero
		if total.IsPositive() {
			share = c.Values[i].Div(total)
		}

		size := int(share.Mul(decimal.NewFromInt(int64(barSpace))).Round(0).IntPart())
		style := lipgloss.NewStyle().Foreground(palette[i%len(palette)])

		rows = append(rows, fmt.Sprintf("%s %s %s (%s%%)",
			padLabel(label),
			style.Render(strings.Repeat(barRune, size)),
			util.Dollars(c.Values[i]),
			share.Mul(decimal.NewFromInt(100)).StringFixed(1),
		))
	}

	return strings.Join(rows, "\n")
}

func renderSeries(c Chart, width int) string {
	highest := decimal.Zero
	for _, v := range c.Values {
		if v.GreaterThan(highest) {
			highest = v
		}
	}

	barSpace := barWidth(width)
	rows := make([]string, 0, len(c.Labels))

	for i, label := range c.Labels {
		size := 0
		if highest.IsPositive() && c.Values[i].IsPositive() {
			size = int(c.Values[i].Div(highest).Mul(decimal.NewFromInt(int64(barSpace))).Round(0).IntPart())
		}

		rows = append(rows, fmt.Sprintf("%s %s %s",
			padLabel(label),
			trendStyle.Render(strings.Repeat(barRune, size)),
			util.Dollars(c.Values[i]),
		))
	}

	return strings.Join(rows, "\n")
}

// barWidth leaves room for the label and the amount column.
func barWidth(width int) int {
	available := width - labelWidth - 24
	if available < minBarWidth {
		return minBarWidth
	}
	return available
}

func padLabel(label string) string {
	if len(label) > labelWidth {
		label = label[:labelWidth-1] + "…"
	}
	return fmt.Sprintf("%-*s", labelWidth, label)
}

type terminalChart struct {
	mu        sync.Mutex
	view      string
	destroyed bool
}

func (t *terminalChart) View() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.destroyed {
		return ""
	}
	return t.view
}

func (t *terminalChart) Destroy() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.destroyed = true
	t.view = ""
}
