// Package components provides reusable TUI components.
package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// FillRow represents an executed order in the fills table.
type FillRow struct {
	Timestamp     string
	Direction     string
	Pair          string
	Size          string
	OutAmount     string
	ProfitPercent decimal.Decimal
	Reason        string
}

// FillsComponent renders the executed orders table.
type FillsComponent struct {
	rows    []FillRow
	maxRows int
}

// NewFillsComponent creates a new fills component.
func NewFillsComponent(maxRows int) *FillsComponent {
	return &FillsComponent{
		rows:    make([]FillRow, 0),
		maxRows: maxRows,
	}
}

// Add adds a fill to the top of the table.
func (f *FillsComponent) Add(row FillRow) {
	f.rows = append([]FillRow{row}, f.rows...)
	if len(f.rows) > f.maxRows {
		f.rows = f.rows[:f.maxRows]
	}
}

// Clear clears all fills.
func (f *FillsComponent) Clear() {
	f.rows = make([]FillRow, 0)
}

// Count returns the number of fills currently shown.
func (f *FillsComponent) Count() int {
	return len(f.rows)
}

// View renders the fills component.
func (f *FillsComponent) View() string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))

	if len(f.rows) == 0 {
		return headerStyle.Render("FILLS") + "\n\nNo fills yet..."
	}

	gainStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	lossStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))

	result := headerStyle.Render(fmt.Sprintf("FILLS (last %d)\n", f.maxRows))
	result += "┌──────────┬──────┬─────────────┬────────────┬──────────────┬─────────┬────────────────┐\n"
	result += "│   Time   │ Side │    Pair     │    Size    │     Out      │ Profit  │     Reason     │\n"
	result += "├──────────┼──────┼─────────────┼────────────┼──────────────┼─────────┼────────────────┤\n"

	for _, row := range f.rows {
		profitStyle := gainStyle
		if row.ProfitPercent.IsNegative() {
			profitStyle = lossStyle
		}

		result += fmt.Sprintf("│ %-8s │ %-4s │ %-11s │ %10s │ %12s │ %s │ %-14s │\n",
			row.Timestamp,
			row.Direction,
			row.Pair,
			row.Size,
			row.OutAmount,
			profitStyle.Render(fmt.Sprintf("%+6.2f%%", row.ProfitPercent.InexactFloat64())),
			row.Reason,
		)
	}

	result += "└──────────┴──────┴─────────────┴────────────┴──────────────┴─────────┴────────────────┘"

	return result
}
