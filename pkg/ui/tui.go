// Package ui provides the Bubble Tea TUI for the ping-pong bot.
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/swaploop/pingpong-bot/business/pingpong/domain"
	"github.com/swaploop/pingpong-bot/pkg/ui/components"
)

// Phase represents the current UI phase.
type Phase string

const (
	PhaseWelcome   Phase = "welcome"   // Initial welcome screen
	PhaseDashboard Phase = "dashboard" // Main dashboard
)

// WelcomeDuration is how long the welcome screen shows before auto-advancing.
const WelcomeDuration = 2 * time.Second

// ErrorEntry represents an error with timestamp.
type ErrorEntry struct {
	Message   string
	Timestamp time.Time
}

// Model is the main Bubble Tea model for the TUI.
type Model struct {
	// Components
	position *components.PositionComponent
	fills    *components.FillsComponent

	// Phase state
	phase        Phase
	welcomeStart time.Time

	// State
	quitting   bool
	width      int
	height     int
	pair       string
	lastUpdate time.Time
	errors     []ErrorEntry // Persistent error panel (last 3)
	logs       []string     // Recent log messages

	// Activity tracking
	evalCount      uint64
	fillCount      uint64
	realizedTotal  decimal.Decimal
	unrealizedNow  decimal.Decimal
	activityFeed   []string
	forceRequested bool
	resetRequested bool
}

// New creates a new TUI model.
func New() Model {
	return Model{
		position:     components.NewPositionComponent(),
		fills:        components.NewFillsComponent(50),
		phase:        PhaseWelcome,
		welcomeStart: time.Now(),
		logs:         make([]string, 0, 5),
		errors:       make([]ErrorEntry, 0, 3),
		activityFeed: make([]string, 0, 8),
	}
}

// Init initializes the TUI model.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// tickCmd returns a command that sends a tick every 100ms for smooth animations.
func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg{}
	})
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Always allow quit
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}
		// During welcome phase, any other key skips to the dashboard
		if m.phase == PhaseWelcome {
			m.phase = PhaseDashboard
			// Trigger callback directly (don't use Send() from within Update)
			if OnStartModules != nil {
				go OnStartModules()
			}
			return m, tickCmd()
		}
		// Normal key handling
		switch msg.String() {
		case "f":
			m.forceRequested = true
			m.activityFeed = addActivity(m.activityFeed, "Force execute requested")
			if OnForceExecute != nil {
				go OnForceExecute()
			}
			return m, nil
		case "r":
			m.resetRequested = true
			m.activityFeed = addActivity(m.activityFeed, "Order reset requested")
			if OnReset != nil {
				go OnReset()
			}
			return m, nil
		case "c":
			m.fills.Clear()
			return m, nil
		case "e":
			m.errors = make([]ErrorEntry, 0, 3)
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case TickMsg:
		// Check if welcome timeout has elapsed
		if m.phase == PhaseWelcome && time.Since(m.welcomeStart) >= WelcomeDuration {
			m.phase = PhaseDashboard
			// Trigger callback directly (don't use Send() from within Update)
			if OnStartModules != nil {
				go OnStartModules()
			}
		}
		return m, tickCmd()

	case OrderCreatedMsg:
		o := msg.Order
		m.pair = o.InTokenSymbol + "/" + o.OutTokenSymbol
		m.position.Set(components.PositionData{
			OrderID:     o.ID,
			Direction:   o.Direction.String(),
			Pair:        o.InTokenSymbol + " -> " + o.OutTokenSymbol,
			Size:        o.Size.String() + " " + o.InTokenSymbol,
			DesiredOut:  o.DesiredOutAmount.StringFixed(6) + " " + o.OutTokenSymbol,
			TargetPrice: o.Price,
		})
		m.activityFeed = addActivity(m.activityFeed,
			fmt.Sprintf("New %s order %s (%s %s)", o.Direction, shortID(o.ID), o.Size, o.InTokenSymbol))
		m.lastUpdate = time.Now()

	case OrderEvaluatedMsg:
		o := msg.Order
		eval := msg.Evaluation
		m.position.Set(components.PositionData{
			OrderID:        o.ID,
			Direction:      o.Direction.String(),
			Pair:           o.InTokenSymbol + " -> " + o.OutTokenSymbol,
			Size:           o.Size.String() + " " + o.InTokenSymbol,
			DesiredOut:     o.DesiredOutAmount.StringFixed(6) + " " + o.OutTokenSymbol,
			TargetPrice:    o.Price,
			LivePrice:      eval.LivePrice,
			ExpectedProfit: eval.ExpectedProfitPercent,
			HasEvaluation:  true,
		})
		if o.Direction == domain.Buy {
			m.unrealizedNow = eval.ExpectedProfitPercent
		}
		m.evalCount++
		m.lastUpdate = time.Now()

	case OrderExecutedMsg:
		o := msg.Order
		profit := msg.Profit

		percent := profit.UnrealizedPercent
		if o.Direction == domain.Sell {
			percent = profit.RealizedPercent
			m.realizedTotal = m.realizedTotal.Add(profit.Realized)
			m.unrealizedNow = decimal.Zero
		}

		outAmount := ""
		if o.OutAmountInt != nil {
			out := decimal.NewFromBigInt(o.OutAmountInt, -int32(o.OutTokenDecimals))
			outAmount = out.StringFixed(6) + " " + o.OutTokenSymbol
		}

		reason := "price-match"
		if m.forceRequested {
			reason = "forced"
			m.forceRequested = false
		}

		m.fills.Add(components.FillRow{
			Timestamp:     o.ExecutedAt.Format("15:04:05"),
			Direction:     strings.ToUpper(o.Direction.String()),
			Pair:          o.InTokenSymbol + "->" + o.OutTokenSymbol,
			Size:          o.Size.StringFixed(4),
			OutAmount:     outAmount,
			ProfitPercent: percent,
			Reason:        reason,
		})
		m.fillCount++
		m.position.Clear()
		m.activityFeed = addActivity(m.activityFeed,
			fmt.Sprintf("%s order %s filled: %s", o.Direction, shortID(o.ID), outAmount))
		m.lastUpdate = time.Now()

	case ErrorMsg:
		m.logs = addLog(m.logs, "error", msg.Error.Error())
		m.errors = append(m.errors, ErrorEntry{
			Message:   msg.Error.Error(),
			Timestamp: time.Now(),
		})
		if len(m.errors) > 3 {
			m.errors = m.errors[len(m.errors)-3:]
		}

	case LogMsg:
		m.logs = addLog(m.logs, msg.Level, msg.Message)
	}

	return m, nil
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

// addLog adds a log message and returns the updated slice (keeps last 5).
func addLog(logs []string, level, message string) []string {
	timestamp := time.Now().Format("15:04:05")
	logLine := fmt.Sprintf("[%s] %s: %s", timestamp, level, message)
	logs = append(logs, logLine)
	if len(logs) > 5 {
		logs = logs[len(logs)-5:]
	}
	return logs
}

// addActivity adds an activity message and returns the updated slice (keeps last 6).
func addActivity(feed []string, message string) []string {
	timestamp := time.Now().Format("15:04:05")
	line := fmt.Sprintf("[%s] %s", timestamp, message)
	feed = append(feed, line)
	if len(feed) > 6 {
		feed = feed[len(feed)-6:]
	}
	return feed
}

// View renders the TUI.
func (m Model) View() string {
	if m.quitting {
		return "\n  Goodbye!\n\n"
	}

	if m.phase == PhaseWelcome {
		return m.renderWelcomeScreen()
	}

	var b strings.Builder

	title := TitleStyle.Render(" 🏓 Ping-Pong Bot ")
	b.WriteString(title)
	b.WriteString("\n\n")

	b.WriteString(m.renderStatusBar())
	b.WriteString("\n\n")

	// Main content: position on the left, activity + fills on the right
	leftCol := m.position.View()

	var rightContent strings.Builder
	rightContent.WriteString(m.renderActivityFeed())
	rightContent.WriteString("\n\n")
	rightContent.WriteString(m.fills.View())
	rightCol := rightContent.String()

	if m.width > 100 {
		left := BoxStyle.Width(m.width/3 - 2).Render(leftCol)
		right := BoxStyle.Width(2*m.width/3 - 2).Render(rightCol)
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right))
	} else {
		b.WriteString(BoxStyle.Width(m.width - 4).Render(leftCol))
		b.WriteString("\n")
		b.WriteString(BoxStyle.Width(m.width - 4).Render(rightCol))
	}

	b.WriteString("\n\n")

	// Persistent error panel (show last 3 errors)
	if len(m.errors) > 0 {
		errorStyle := lipgloss.NewStyle().Foreground(ColorDanger)
		errorHeader := lipgloss.NewStyle().Bold(true).Foreground(ColorDanger)
		mutedError := lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))

		b.WriteString(errorHeader.Render("ERRORS"))
		b.WriteString(mutedError.Render(" (e: clear)"))
		b.WriteString("\n")
		for _, err := range m.errors {
			ago := time.Since(err.Timestamp).Round(time.Second)
			b.WriteString(errorStyle.Render(fmt.Sprintf("  • %s ", err.Message)))
			b.WriteString(mutedError.Render(fmt.Sprintf("(%s ago)", ago)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	helpText := "q: quit • f: force execute • r: reset • c: clear fills"
	b.WriteString(HelpStyle.Render(helpText))

	return b.String()
}

// renderActivityFeed renders the recent activity feed.
func (m Model) renderActivityFeed() string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	mutedStyle := lipgloss.NewStyle().Foreground(ColorMuted)

	var sb strings.Builder
	sb.WriteString(headerStyle.Render("LIVE ACTIVITY"))
	sb.WriteString("\n\n")

	if len(m.activityFeed) == 0 {
		sb.WriteString(mutedStyle.Render("  Waiting for first tick..."))
	} else {
		for _, activity := range m.activityFeed {
			sb.WriteString(mutedStyle.Render("  " + activity))
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// renderWelcomeScreen renders the animated welcome screen.
func (m Model) renderWelcomeScreen() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary)

	goldStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorWarning)

	mutedStyle := lipgloss.NewStyle().
		Foreground(ColorMuted)

	greenStyle := lipgloss.NewStyle().
		Foreground(ColorSecondary)

	// Animated dots based on time
	elapsed := time.Since(m.welcomeStart)
	dotCount := int(elapsed.Milliseconds()/300) % 4
	dots := strings.Repeat(".", dotCount)

	var sb strings.Builder

	sb.WriteString("\n\n\n\n")

	logo := `
   ██████╗ ██╗███╗   ██╗ ██████╗     ██████╗  ██████╗ ███╗   ██╗ ██████╗
   ██╔══██╗██║████╗  ██║██╔════╝     ██╔══██╗██╔═══██╗████╗  ██║██╔════╝
   ██████╔╝██║██╔██╗ ██║██║  ███╗────██████╔╝██║   ██║██╔██╗ ██║██║  ███╗
   ██╔═══╝ ██║██║╚██╗██║██║   ██║    ██╔═══╝ ██║   ██║██║╚██╗██║██║   ██║
   ██║     ██║██║ ╚████║╚██████╔╝    ██║     ╚██████╔╝██║ ╚████║╚██████╔╝
   ╚═╝     ╚═╝╚═╝  ╚═══╝ ╚═════╝     ╚═╝      ╚═════╝ ╚═╝  ╚═══╝ ╚═════╝
`
	sb.WriteString(titleStyle.Render(logo))
	sb.WriteString("\n")

	subtitle := "              A L T E R N A T I N G   S W A P   B O T"
	sb.WriteString(mutedStyle.Render(subtitle))
	sb.WriteString("\n\n\n")

	tagline := "              🏓  Buy low, sell high, repeat  🏓"
	sb.WriteString(goldStyle.Render(tagline))
	sb.WriteString("\n\n\n")

	loading := fmt.Sprintf("                  Initializing%s", dots)
	sb.WriteString(greenStyle.Render(loading))
	sb.WriteString("\n\n")

	hint := "            Press any key to skip, or wait..."
	sb.WriteString(mutedStyle.Render(hint))
	sb.WriteString("\n")

	return sb.String()
}

func (m Model) renderStatusBar() string {
	var parts []string

	if m.pair != "" {
		parts = append(parts, "Pair: "+m.pair)
	}

	if m.evalCount > 0 {
		scanStyle := lipgloss.NewStyle().Foreground(ColorSecondary)
		parts = append(parts, scanStyle.Render(fmt.Sprintf("Ticks: %d", m.evalCount)))
	}

	parts = append(parts, fmt.Sprintf("Fills: %d", m.fillCount))

	realizedStyle := PositiveValue
	if m.realizedTotal.IsNegative() {
		realizedStyle = NegativeValue
	}
	parts = append(parts, realizedStyle.Render("Realized: "+m.realizedTotal.StringFixed(6)))

	if !m.unrealizedNow.IsZero() {
		unrealizedStyle := PositiveValue
		if m.unrealizedNow.IsNegative() {
			unrealizedStyle = NegativeValue
		}
		parts = append(parts, unrealizedStyle.Render(
			fmt.Sprintf("Unrealized: %+.2f%%", m.unrealizedNow.InexactFloat64())))
	}

	if !m.lastUpdate.IsZero() {
		ago := time.Since(m.lastUpdate).Round(time.Second)
		parts = append(parts, MutedValue.Render(fmt.Sprintf("Updated: %s ago", ago)))
	}

	return strings.Join(parts, "  │  ")
}

// Program holds the Bubble Tea program instance for external access.
var Program *tea.Program

// OnStartModules is called when the welcome screen completes and modules should start.
// This is set by main.go to signal when to begin loading modules.
var OnStartModules func()

// OnForceExecute is called when the user requests a forced execution.
var OnForceExecute func()

// OnReset is called when the user requests an order reset.
var OnReset func()

// Run starts the Bubble Tea program.
func Run() error {
	Program = tea.NewProgram(New(), tea.WithAltScreen())
	_, err := Program.Run()
	return err
}

// Send sends a message to the running program.
func Send(msg tea.Msg) {
	if Program != nil {
		Program.Send(msg)
	}
	// Call OnStartModules callback when StartModulesMsg is sent
	if _, ok := msg.(StartModulesMsg); ok && OnStartModules != nil {
		OnStartModules()
	}
}
