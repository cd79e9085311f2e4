// Package statsui provides the Bubble Tea weekly stats browser.
package statsui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/liftlog/internal/model"
	"github.com/verte-zerg/liftlog/internal/stats"
)

const (
	tabWeek = iota
	tabTrend
)

const dateLayout = "2006-01-02"

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	increaseStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	decreaseStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

// Model implements the Bubble Tea stats UI.
type Model struct {
	src stats.Source
	cfg model.Config

	// ref is the session being edited; it stands in for its persisted copy.
	ref    model.WorkoutSession
	offset int

	report stats.Report
	errMsg string

	tabs      []string
	activeTab int
	table     table.Model
	trend     viewport.Model

	width  int
	height int

	jumpMode  bool
	jumpInput textinput.Model
	jumpError string
}

// NewModel constructs a stats UI model centered on ref's week.
func NewModel(src stats.Source, cfg model.Config, ref model.WorkoutSession) *Model {
	m := &Model{
		src:   src,
		cfg:   cfg,
		ref:   ref,
		tabs:  []string{"Week", "Trend"},
		table: table.New(table.WithColumns(weekColumns(0)), table.WithFocused(true)),
		trend: viewport.New(0, 0),
	}
	m.table.SetStyles(weekTableStyles())
	m.jumpInput = textinput.New()
	m.jumpInput.Prompt = "Go to date: "
	m.jumpInput.Placeholder = dateLayout
	m.jumpInput.Cursor.SetMode(cursor.CursorBlink)
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.jumpMode {
			return m.updateJump(msg)
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % len(m.tabs)
			return m, nil
		case "left", "h":
			m.offset--
			m.refreshReport()
			return m, nil
		case "right", "l":
			m.offset++
			m.refreshReport()
			return m, nil
		case "t":
			m.offset = 0
			m.refreshReport()
			return m, nil
		case "/":
			m.jumpMode = true
			m.jumpError = ""
			m.jumpInput.SetValue("")
			return m, m.jumpInput.Focus()
		}
		var cmd tea.Cmd
		if m.activeTab == tabWeek {
			m.table, cmd = m.table.Update(msg)
		} else {
			m.trend, cmd = m.trend.Update(msg)
		}
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

// Reference returns the session the currently shown week is computed from.
func (m *Model) Reference() model.WorkoutSession {
	if m.offset == 0 {
		return m.ref
	}
	start, _ := stats.WeekRange(m.ref.Date, m.cfg.WeekStart)
	return model.WorkoutSession{Date: start.AddDate(0, 0, 7*m.offset)}
}

// Report returns the report currently displayed.
func (m *Model) Report() stats.Report {
	return m.report
}

func (m *Model) refreshReport() {
	report, err := stats.LoadReport(context.Background(), m.src, m.Reference(), m.cfg)
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	m.errMsg = ""
	m.report = report
	m.table.SetRows(weekRows(report))
	m.trend.SetContent(renderTrend(report))
	m.table.GotoTop()
}

func (m *Model) updateJump(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.jumpMode = false
		m.jumpInput.Blur()
		return m, nil
	case tea.KeyEnter:
		value := strings.TrimSpace(m.jumpInput.Value())
		target, err := time.ParseInLocation(dateLayout, value, m.ref.Date.Location())
		if err != nil {
			m.jumpError = "invalid date (expected YYYY-MM-DD)"
			return m, nil
		}
		m.offset = weeksBetween(m.ref.Date, target, m.cfg.WeekStart)
		m.jumpMode = false
		m.jumpInput.Blur()
		m.refreshReport()
		return m, nil
	}
	var cmd tea.Cmd
	m.jumpInput, cmd = m.jumpInput.Update(msg)
	return m, cmd
}

func weeksBetween(from, to time.Time, first time.Weekday) int {
	a, _ := stats.WeekRange(from, first)
	b, _ := stats.WeekRange(to, first)
	// Calendar days between the two week starts, immune to DST hour shifts.
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	da := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	db := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours()/24) / 7
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if m.errMsg != "" || m.jumpMode {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	cardsHeight := lipgloss.Height(m.renderCards())
	m.table.SetColumns(weekColumns(m.width))
	m.table.SetWidth(m.width)
	m.table.SetHeight(maxInt(1, bodyHeight-cardsHeight-1))
	m.trend.Width = m.width
	m.trend.Height = bodyHeight
	m.jumpInput.Width = maxInt(10, m.width-lipgloss.Width(m.jumpInput.Prompt)-2)
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	title := headerStyle.Render(truncateLine(stats.WeekTitle(m.report), m.width))
	return tabs + "\n" + title
}

func (m *Model) renderBody() string {
	if m.errMsg != "" {
		return "Failed to load stats."
	}
	if m.activeTab == tabTrend {
		return m.trend.View()
	}
	if len(m.report.Rows) == 0 {
		return m.renderCards() + "\n\nNo sets logged this week."
	}
	return m.renderCards() + "\n" + m.table.View()
}

func (m *Model) renderFooter() string {
	help := headerStyle.Render("Week: left/right  Today: t  Go to: /  Tab: switch view  Scroll: up/down  Quit: q")
	switch {
	case m.jumpMode && m.jumpError != "":
		return m.jumpInput.View() + "\n" + errorStyle.Render(m.jumpError)
	case m.jumpMode:
		return m.jumpInput.View() + "\n" + headerStyle.Render("enter: go  esc: cancel")
	case m.errMsg != "":
		return help + "\n" + errorStyle.Render(m.errMsg)
	}
	return help
}

func (m *Model) renderCards() string {
	var volume float64
	var failures int
	for _, row := range m.report.Rows {
		volume += row.Stat.TotalVolume
		failures += row.Stat.TotalFailureSets
	}
	cards := []string{
		metricCard("Exercises", fmt.Sprintf("%d", len(m.report.Rows))),
		metricCard("Volume", stats.FormatNumber(volume)),
		metricCard("Failure sets", fmt.Sprintf("%d", failures)),
	}
	if m.width > 0 && m.width < 60 {
		return strings.Join(cards, "\n")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func weekColumns(width int) []table.Column {
	fixed := []table.Column{
		{Title: "Failure", Width: 7},
		{Title: "Avg", Width: 6},
		{Title: "Change", Width: 8},
		{Title: "Volume", Width: 9},
		{Title: "Avg", Width: 9},
		{Title: "Change", Width: 8},
		{Title: "Max", Width: 6},
	}
	used := 0
	for _, c := range fixed {
		used += c.Width + 1
	}
	nameWidth := maxInt(12, width-used-1)
	return append([]table.Column{{Title: "Exercise", Width: nameWidth}}, fixed...)
}

func weekRows(report stats.Report) []table.Row {
	cells := stats.TableRows(report)
	rows := make([]table.Row, 0, len(cells))
	for _, c := range cells {
		// Drop the trend column; it has its own tab.
		rows = append(rows, table.Row(c[:len(c)-1]))
	}
	return rows
}

func weekTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func renderTrend(report stats.Report) string {
	if len(report.Rows) == 0 {
		return "No sets logged this week."
	}
	lines := []string{headerStyle.Render(fmt.Sprintf("Weekly volume, last %d weeks and this week", report.WeeksBack))}
	nameWidth := 0
	for _, row := range report.Rows {
		nameWidth = maxInt(nameWidth, lipgloss.Width(row.Stat.ExerciseName))
	}
	for _, row := range report.Rows {
		change := row.Volume.Change()
		switch {
		case row.Volume.Increase():
			change = increaseStyle.Render(change)
		case row.Volume.Shown:
			change = decreaseStyle.Render(change)
		}
		line := fmt.Sprintf("%s  [%s]  %s %s",
			padLine(row.Stat.ExerciseName, nameWidth),
			stats.Sparkline(row.Trend),
			stats.FormatNumber(row.Stat.TotalVolume),
			change,
		)
		lines = append(lines, strings.TrimRight(line, " "))
	}
	return strings.Join(lines, "\n")
}
