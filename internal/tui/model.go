// Package tui is the interactive terminal view of the task list.
//
// The model keeps only view state (the input box, which list is shown, the
// cursor). Tasks and the theme flag are read from the tasks.Manager on every
// render, so the manager stays the single source of truth.
package tui

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/pkg/errors"

	"ltask/internal/output"
	"ltask/internal/tasks"
)

const (
	markActive    = "[ ]"
	markCompleted = "[x]"
)

// Options configures Run.
type Options struct {
	// ShowCompleted starts on the completed list.
	ShowCompleted bool

	// Output is where the program draws. Nil means stdout.
	Output io.Writer

	// Input is where keys are read from. Nil means stdin.
	Input io.Reader
}

// Model is the bubbletea model of the task view.
type Model struct {
	mgr *tasks.Manager

	input         textinput.Model
	showCompleted bool
	cursor        int

	status    string
	statusErr bool

	styles styles
	dark   bool
}

// NewModel creates a Model over mgr.
func NewModel(mgr *tasks.Manager, showCompleted bool) *Model {
	ti := textinput.New()
	ti.Placeholder = "Add a new task..."
	ti.Prompt = "> "
	ti.Focus()

	m := &Model{
		mgr:           mgr,
		input:         ti,
		showCompleted: showCompleted,
	}
	m.applyTheme()
	return m
}

// Run starts the program and blocks until the user quits or ctx is done.
func Run(ctx context.Context, mgr *tasks.Manager, opts Options) error {
	progOpts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}
	if opts.Output != nil {
		progOpts = append(progOpts, tea.WithOutput(opts.Output))
	}
	if opts.Input != nil {
		progOpts = append(progOpts, tea.WithInput(opts.Input))
	}

	p := tea.NewProgram(NewModel(mgr, opts.ShowCompleted), progOpts...)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return errors.Wrap(err, "terminal ui")
	}
	return nil
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch key.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "enter":
		m.submit()
		return m, nil
	case "tab":
		m.toggleView()
		return m, nil
	case "ctrl+t":
		m.mgr.ToggleTheme()
		m.applyTheme()
		m.setStatus("Theme: "+output.ThemeName(m.dark), false)
		return m, nil
	case "up", "ctrl+p":
		m.moveCursor(-1)
		return m, nil
	case "down", "ctrl+n":
		m.moveCursor(1)
		return m, nil
	case "ctrl+x":
		m.toggleSelected()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit adds the input text as a task. Blank input leaves the input as is.
func (m *Model) submit() {
	task, ok := m.mgr.AddTask(m.input.Value())
	if !ok {
		m.setStatus("Task text is empty", true)
		return
	}
	m.input.Reset()
	if !m.showCompleted {
		m.cursor = len(m.list()) - 1
	}
	m.setStatus("Added: "+task.Text, false)
}

func (m *Model) toggleView() {
	m.showCompleted = !m.showCompleted
	m.cursor = 0
	m.setStatus("", false)
}

func (m *Model) toggleSelected() {
	list := m.list()
	if m.cursor < 0 || m.cursor >= len(list) {
		return
	}
	task := list[m.cursor]
	if !m.mgr.ToggleTask(task.ID, m.showCompleted) {
		return
	}
	if m.showCompleted {
		m.setStatus("Reopened: "+task.Text, false)
	} else {
		m.setStatus("Completed: "+task.Text, false)
	}
	m.clampCursor()
}

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	m.clampCursor()
}

func (m *Model) clampCursor() {
	n := len(m.list())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) applyTheme() {
	m.dark = m.mgr.DarkMode()
	m.styles = newStyles(m.dark)
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}

func (m *Model) list() []tasks.Task {
	return m.mgr.List(m.showCompleted)
}

// ShowCompleted reports which list is on screen.
func (m *Model) ShowCompleted() bool { return m.showCompleted }

// Cursor returns the 0-based selected row.
func (m *Model) Cursor() int { return m.cursor }

// InputValue returns the current text of the add-task input.
func (m *Model) InputValue() string { return m.input.Value() }

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder

	themeHint := "dark"
	if m.dark {
		themeHint = "light"
	}
	b.WriteString(m.styles.title.Render("Task List"))
	b.WriteString("\n")
	b.WriteString(m.styles.subtitle.Render("Add tasks, mark them as complete, and toggle between active and completed tasks."))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")

	b.WriteString(m.styles.heading.Render(output.ListTitle(m.showCompleted)))
	b.WriteString("\n")
	b.WriteString(m.renderTable())
	b.WriteString("\n")

	if m.status != "" {
		style := m.styles.status
		if m.statusErr {
			style = m.styles.errorMsg
		}
		b.WriteString(style.Render(m.status))
		b.WriteString("\n")
	}

	other := "completed"
	if m.showCompleted {
		other = "active"
	}
	b.WriteString(m.styles.help.Render(fmt.Sprintf(
		"enter add • tab show %s • ↑/↓ select • ctrl+x toggle • ctrl+t %s theme • esc quit",
		other, themeHint,
	)))
	b.WriteString("\n")

	return b.String()
}

func (m *Model) renderTable() string {
	list := m.list()
	if len(list) == 0 {
		return m.styles.empty.Render("No tasks.")
	}

	mark := markActive
	if m.showCompleted {
		mark = markCompleted
	}
	rows := make([][]string, len(list))
	for i, t := range list {
		rows[i] = []string{strconv.Itoa(i + 1), t.Text, mark}
	}

	st := m.styles
	cursor := m.cursor
	completed := m.showCompleted
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(st.border).
		Headers("#", "Task", "Status").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return st.header
			case row == cursor:
				return st.selected
			case col == 2 && completed:
				return st.done
			default:
				return st.cell
			}
		}).
		Render()
}
