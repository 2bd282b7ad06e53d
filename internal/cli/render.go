package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"spese/internal/core"
)

// Theme colors
var (
	ColorBorder    = lipgloss.Color("#282726")
	ColorTextDim   = lipgloss.Color("#575653")
	ColorTextMuted = lipgloss.Color("#6F6E69")
	ColorText      = lipgloss.Color("#FFFCF0")
	ColorAccent    = lipgloss.Color("#3AA99F")
	ColorGreen     = lipgloss.Color("#879A39")
	ColorOrange    = lipgloss.Color("#DA702C")
	ColorRed       = lipgloss.Color("#D14D41")
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Align(lipgloss.Center)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	valueStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	mutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	amountStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	warnStyle = lipgloss.NewStyle().
			Foreground(ColorOrange)

	errorStyle = lipgloss.NewStyle().
			Foreground(ColorRed)

	dimStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)
)

// Table represents a bordered text table for CLI output.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// RenderTitle renders a centered title bar in a bordered box.
func RenderTitle(title string) string {
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Width(45).
		Align(lipgloss.Center).
		Padding(0, 1)

	return border.Render(titleStyle.Render(title))
}

// RenderTable renders a bordered table with headers and rows. Every column
// but the first is right-aligned.
func RenderTable(t Table) string {
	if len(t.Rows) == 0 && len(t.Headers) == 0 {
		return ""
	}

	numCols := len(t.Headers)
	if numCols == 0 {
		numCols = len(t.Rows[0])
	}

	widths := make([]int, numCols)
	for i, h := range t.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < numCols && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}

	var b strings.Builder

	if t.Title != "" {
		b.WriteString("  ")
		b.WriteString(headerStyle.Render(t.Title))
		b.WriteString("\n")
	}

	b.WriteString(horizontalRule("╭", "┬", "╮", widths))

	if len(t.Headers) > 0 {
		b.WriteString(renderRow(t.Headers, widths, headerStyle))
		b.WriteString(horizontalRule("├", "┼", "┤", widths))
	}

	for _, row := range t.Rows {
		b.WriteString(renderRow(row, widths, valueStyle))
	}

	b.WriteString(horizontalRule("╰", "┴", "╯", widths))

	return b.String()
}

func horizontalRule(left, mid, right string, widths []int) string {
	var b strings.Builder
	b.WriteString(dimStyle.Render(left))
	for i, w := range widths {
		b.WriteString(dimStyle.Render(strings.Repeat("─", w+2)))
		if i < len(widths)-1 {
			b.WriteString(dimStyle.Render(mid))
		}
	}
	b.WriteString(dimStyle.Render(right))
	b.WriteString("\n")
	return b.String()
}

func renderRow(cells []string, widths []int, style lipgloss.Style) string {
	var b strings.Builder
	b.WriteString(dimStyle.Render("│"))
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		pad := strings.Repeat(" ", w-lipgloss.Width(cell))
		var padded string
		if i == 0 {
			padded = " " + cell + pad + " "
		} else {
			padded = " " + pad + cell + " "
		}
		b.WriteString(style.Render(padded))
		if i < len(widths)-1 {
			b.WriteString(dimStyle.Render("│"))
		}
	}
	b.WriteString(dimStyle.Render("│"))
	b.WriteString("\n")
	return b.String()
}

// ExpenseTable lays out expenses as Category / ID / Date / Amount rows. The
// first column is left-aligned, the rest right-aligned.
func ExpenseTable(title string, expenses []core.Expense) Table {
	t := Table{
		Title:   title,
		Headers: []string{"Category", "ID", "Date", "Amount"},
	}
	for _, e := range expenses {
		t.Rows = append(t.Rows, []string{
			e.Category,
			fmt.Sprintf("%d", e.ID),
			e.Date.String(),
			FormatMoney(e.Amount),
		})
	}
	return t
}

// RenderHorizontalBar renders one labelled bar scaled against maxValue.
func RenderHorizontalBar(label string, labelWidth int, value, maxValue core.Money, maxWidth int) string {
	barLen := 0
	if maxValue.Cents > 0 && value.Cents > 0 {
		barLen = int(value.Cents * int64(maxWidth) / maxValue.Cents)
		if barLen == 0 {
			barLen = 1
		}
	}
	return fmt.Sprintf("  %-*s %s %s",
		labelWidth, label,
		amountStyle.Render(strings.Repeat("█", barLen)),
		mutedStyle.Render(FormatMoney(value)))
}

// RenderCategoryBars renders category totals as a horizontal bar chart.
func RenderCategoryBars(totals []core.CategoryAmount, maxWidth int) string {
	if len(totals) == 0 {
		return ""
	}
	labelWidth := 0
	var maxValue core.Money
	for _, ct := range totals {
		if w := lipgloss.Width(ct.Name); w > labelWidth {
			labelWidth = w
		}
		if ct.Amount.Cents > maxValue.Cents {
			maxValue = ct.Amount
		}
	}

	var b strings.Builder
	for _, ct := range totals {
		b.WriteString(RenderHorizontalBar(ct.Name, labelWidth, ct.Amount, maxValue, maxWidth))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderInfo renders a muted informational line.
func RenderInfo(msg string) string {
	return "  " + mutedStyle.Render(msg)
}

// RenderWarning renders a highlighted warning line.
func RenderWarning(msg string) string {
	return "  " + warnStyle.Render(msg)
}

// RenderError renders a user-facing error line.
func RenderError(msg string) string {
	return "  " + errorStyle.Render(msg)
}
