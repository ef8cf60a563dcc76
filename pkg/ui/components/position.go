// Package components provides reusable TUI components.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// PositionData holds the open order and its latest evaluation for
// display. All values are pre-calculated by the domain.
type PositionData struct {
	OrderID        string
	Direction      string
	Pair           string
	Size           string
	DesiredOut     string
	TargetPrice    decimal.Decimal
	LivePrice      decimal.Decimal
	ExpectedProfit decimal.Decimal
	HasEvaluation  bool
}

// PositionComponent renders the open order panel.
type PositionComponent struct {
	data *PositionData
}

// NewPositionComponent creates a new position component.
func NewPositionComponent() *PositionComponent {
	return &PositionComponent{}
}

// Set replaces the displayed position.
func (p *PositionComponent) Set(data PositionData) {
	p.data = &data
}

// Clear drops the displayed position, used after a fill until the next
// order shows up.
func (p *PositionComponent) Clear() {
	p.data = nil
}

// View renders the position component.
func (p *PositionComponent) View() string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	gainStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	lossStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))

	var sb strings.Builder
	sb.WriteString(headerStyle.Render("OPEN ORDER"))
	sb.WriteString("\n\n")

	if p.data == nil {
		sb.WriteString(dimStyle.Render("  Waiting for next order..."))
		return sb.String()
	}

	d := p.data
	sb.WriteString(fmt.Sprintf("  %-14s %s\n", "Order:", d.OrderID))
	sb.WriteString(fmt.Sprintf("  %-14s %s\n", "Side:", strings.ToUpper(d.Direction)))
	sb.WriteString(fmt.Sprintf("  %-14s %s\n", "Pair:", d.Pair))
	sb.WriteString(fmt.Sprintf("  %-14s %s\n", "Size:", d.Size))
	sb.WriteString(fmt.Sprintf("  %-14s %s\n", "Desired Out:", d.DesiredOut))
	sb.WriteString(dimStyle.Render("  "+strings.Repeat("─", 40)) + "\n")
	sb.WriteString(fmt.Sprintf("  %-14s %s\n", "Target Price:", d.TargetPrice.StringFixed(8)))

	if d.HasEvaluation {
		sb.WriteString(fmt.Sprintf("  %-14s %s\n", "Live Price:", d.LivePrice.StringFixed(8)))

		profitStyle := gainStyle
		if d.ExpectedProfit.IsNegative() {
			profitStyle = lossStyle
		}
		sb.WriteString(fmt.Sprintf("  %-14s %s\n", "Expected:",
			profitStyle.Render(fmt.Sprintf("%+.2f%%", d.ExpectedProfit.InexactFloat64()))))
	} else {
		sb.WriteString(dimStyle.Render("  Waiting for first quote..."))
		sb.WriteString("\n")
	}

	return sb.String()
}
