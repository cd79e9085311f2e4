// Package tui provides the Bubble Tea workout logging interface.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/liftlog/internal/editor"
	"github.com/verte-zerg/liftlog/internal/model"
	statsPkg "github.com/verte-zerg/liftlog/internal/stats"
)

const (
	fieldExercise = iota
	fieldWeight
	fieldReps
	fieldCount
)

type mode int

const (
	modeForm mode = iota
	modeList
	modeConfirmDelete
)

const dateLayout = "2006-01-02"

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	failureStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	increaseStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// Model implements the Bubble Tea workout logging UI for one calendar day.
type Model struct {
	ed  *editor.Editor
	src statsPkg.Source
	cfg model.Config

	session   model.WorkoutSession
	resumed   bool
	exercises []model.Exercise
	report    statsPkg.Report

	inputs  []textinput.Model
	focus   int
	failure bool

	mode     mode
	selected int

	status string
	errMsg string

	width  int
	height int
}

// NewModel constructs a logging TUI for session, which OpenDay returned.
func NewModel(ed *editor.Editor, src statsPkg.Source, cfg model.Config, session model.WorkoutSession, resumed bool) *Model {
	m := &Model{
		ed:      ed,
		src:     src,
		cfg:     cfg,
		session: session,
		resumed: resumed,
	}
	m.inputs = make([]textinput.Model, fieldCount)
	for i := range m.inputs {
		ti := textinput.New()
		ti.CharLimit = 64
		switch i {
		case fieldExercise:
			ti.Prompt = "Exercise: "
			ti.Placeholder = "name"
			ti.ShowSuggestions = true
		case fieldWeight:
			ti.Prompt = "Weight:   "
			ti.Placeholder = "0"
		case fieldReps:
			ti.Prompt = "Reps:     "
			ti.Placeholder = "0"
		}
		m.inputs[i] = ti
	}
	m.inputs[fieldExercise].Focus()
	m.reload()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Session returns the session being edited.
func (m *Model) Session() model.WorkoutSession {
	return m.session
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.mode {
		case modeConfirmDelete:
			return m.updateConfirm(msg)
		case modeList:
			return m.updateList(msg)
		default:
			return m.updateForm(msg)
		}
	}
	return m, nil
}

func (m *Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeList
		m.blurInputs()
		return m, nil
	case tea.KeyCtrlF:
		m.failure = !m.failure
		return m, nil
	case tea.KeyShiftTab:
		return m, m.focusField((m.focus + fieldCount - 1) % fieldCount)
	case tea.KeyTab:
		if m.focus != fieldExercise {
			return m, m.focusField((m.focus + 1) % fieldCount)
		}
	case tea.KeyEnter:
		if m.focus < fieldReps {
			return m, m.focusField(m.focus + 1)
		}
		m.submit()
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
	case "down", "j":
		if m.selected < len(m.session.Sets)-1 {
			m.selected++
		}
	case "f":
		m.toggleFailure()
	case "d", "delete":
		if len(m.session.Sets) > 0 {
			m.mode = modeConfirmDelete
		}
	case "[":
		m.openDay(-1)
	case "]":
		m.openDay(1)
	case "a", "i", "esc":
		m.mode = modeForm
		return m, m.focusField(fieldExercise)
	}
	return m, nil
}

func (m *Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.deleteSelected()
	}
	m.mode = modeList
	if len(m.session.Sets) == 0 {
		m.mode = modeForm
		return m, m.focusField(fieldExercise)
	}
	return m, nil
}

func (m *Model) focusField(i int) tea.Cmd {
	m.blurInputs()
	m.focus = i
	return m.inputs[i].Focus()
}

func (m *Model) blurInputs() {
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
}

func (m *Model) submit() {
	m.status = ""
	weight, err := parseWeight(m.inputs[fieldWeight].Value())
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	reps, err := parseReps(m.inputs[fieldReps].Value())
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	set := model.WorkoutSet{
		ExerciseID:    strings.TrimSpace(m.inputs[fieldExercise].Value()),
		Weight:        weight,
		Reps:          reps,
		IsNearFailure: m.failure,
	}
	added, err := m.ed.AddSet(context.Background(), &m.session, set)
	if err != nil {
		m.errMsg = describeErr(err)
		return
	}
	m.errMsg = ""
	m.status = fmt.Sprintf("Added %s %s x %d", m.exerciseName(added.ExerciseID), statsPkg.FormatNumber(added.Weight), added.Reps)
	m.failure = false
	m.selected = len(m.session.Sets) - 1
	m.reload()
}

func (m *Model) toggleFailure() {
	if m.selected >= len(m.session.Sets) {
		return
	}
	set := m.session.Sets[m.selected]
	set.IsNearFailure = !set.IsNearFailure
	if err := m.ed.UpdateSet(context.Background(), &m.session, set); err != nil {
		m.errMsg = describeErr(err)
		return
	}
	m.errMsg = ""
	m.status = "Set updated"
	m.reload()
}

func (m *Model) deleteSelected() {
	if m.selected >= len(m.session.Sets) {
		return
	}
	id := m.session.Sets[m.selected].ID
	if err := m.ed.DeleteSet(context.Background(), &m.session, id); err != nil {
		m.errMsg = describeErr(err)
		return
	}
	m.errMsg = ""
	m.status = "Set deleted"
	if m.selected >= len(m.session.Sets) && m.selected > 0 {
		m.selected--
	}
	m.reload()
}

func (m *Model) openDay(delta int) {
	session, resumed, err := m.ed.OpenDay(context.Background(), m.session.Date.AddDate(0, 0, delta))
	if err != nil {
		m.errMsg = describeErr(err)
		return
	}
	m.session = session
	m.resumed = resumed
	m.selected = 0
	m.status = ""
	m.errMsg = ""
	if len(session.Sets) == 0 {
		m.mode = modeForm
		m.focusField(fieldExercise)
	}
	m.reload()
}

func (m *Model) reload() {
	ctx := context.Background()
	exercises, err := m.ed.ListExercises(ctx)
	if err != nil {
		m.errMsg = describeErr(err)
		return
	}
	m.exercises = exercises
	names := make([]string, 0, len(exercises))
	for _, ex := range exercises {
		names = append(names, ex.Name)
	}
	m.inputs[fieldExercise].SetSuggestions(names)

	report, err := statsPkg.LoadReport(ctx, m.src, m.session, m.cfg)
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	m.report = report
}

// View implements tea.Model.
func (m *Model) View() string {
	sections := []string{m.renderTitle(), m.renderForm(), m.renderSets(), m.renderWeek()}
	content := strings.Join(sections, "\n\n")
	footer := m.renderFooter()
	if m.width == 0 || m.height == 0 {
		return content + "\n\n" + footer
	}
	bodyHeight := m.height - 1
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Left, lipgloss.Top, lipgloss.NewStyle().Padding(0, 1).Render(content))
	return body + "\n" + footer
}

func (m *Model) renderTitle() string {
	title := "Workout " + m.session.Date.Format(dateLayout+" (Mon)")
	if m.resumed {
		title += labelStyle.Render("  resumed")
	}
	return titleStyle.Render(title)
}

func (m *Model) renderForm() string {
	lines := make([]string, 0, fieldCount+1)
	for i := range m.inputs {
		lines = append(lines, m.inputs[i].View())
	}
	check := "[ ]"
	if m.failure {
		check = failureStyle.Render("[x]")
	}
	lines = append(lines, check+labelStyle.Render(" near failure (ctrl+f)"))
	return strings.Join(lines, "\n")
}

func (m *Model) renderSets() string {
	if len(m.session.Sets) == 0 {
		return labelStyle.Render("No sets yet.")
	}
	lines := []string{labelStyle.Render(fmt.Sprintf("Sets (%d)", len(m.session.Sets)))}
	for i, set := range m.session.Sets {
		line := fmt.Sprintf("%2d. %s  %s x %d", i+1, m.exerciseName(set.ExerciseID), statsPkg.FormatNumber(set.Weight), set.Reps)
		if set.IsNearFailure {
			line += failureStyle.Render("  F")
		}
		if m.mode != modeForm && i == m.selected {
			line = selectedStyle.Render("> ") + line
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderWeek() string {
	if len(m.report.Rows) == 0 {
		return ""
	}
	lines := []string{labelStyle.Render(statsPkg.WeekTitle(m.report))}
	for _, row := range m.report.Rows {
		change := row.Volume.Change()
		switch {
		case row.Volume.Increase():
			change = increaseStyle.Render(change)
		case row.Volume.Shown:
			change = errorStyle.Render(change)
		}
		line := fmt.Sprintf("  %s  volume %s %s  failure sets %d",
			row.Stat.ExerciseName, statsPkg.FormatNumber(row.Stat.TotalVolume), change, row.Stat.TotalFailureSets)
		lines = append(lines, strings.TrimRight(line, " "))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderFooter() string {
	switch {
	case m.mode == modeConfirmDelete:
		return errorStyle.Render("Delete this set? (y/N)")
	case m.errMsg != "":
		return errorStyle.Render(m.errMsg)
	case m.status != "":
		return statusStyle.Render(m.status)
	}
	var volume float64
	for _, set := range m.session.Sets {
		volume += set.Volume()
	}
	segments := []string{fmt.Sprintf("Today %d sets · %s volume", len(m.session.Sets), statsPkg.FormatNumber(volume))}
	if m.mode == modeForm {
		segments = append(segments, "enter: next/add", "esc: sets and days")
	} else {
		segments = append(segments, "f: failure", "d: delete", "[ ]: day", "a: add", "q: quit")
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}

func (m *Model) exerciseName(id string) string {
	for _, ex := range m.exercises {
		if ex.ID == id {
			return ex.Name
		}
	}
	return "(deleted exercise)"
}

func parseWeight(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("weight must be a number")
	}
	return v, nil
}

func parseReps(value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("reps are required")
	}
	v, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("reps must be a whole number")
	}
	return v, nil
}

func describeErr(err error) string {
	switch {
	case errors.Is(err, editor.ErrExerciseNotFound):
		return "unknown exercise; add it with `liftlog exercise add`"
	default:
		return err.Error()
	}
}
