// Package tui provides the interactive task view.
package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"todoctl/internal/output"
	"todoctl/internal/service"
	"todoctl/internal/tasks"
)

// UploadingText replaces the add input while a new task is being created.
const UploadingText = "Uploading new task..."

type mode int

const (
	modeBrowse mode = iota
	modeAdd
	modeEdit
)

// loadedMsg reports that a refresh finished.
type loadedMsg struct{}

// addedMsg reports that a create round trip finished.
type addedMsg struct{}

// mutatedMsg reports that an update or delete round trip finished.
type mutatedMsg struct{}

// Model is the bubbletea model for the task view. Backend calls run as
// commands; their failures are logged by the store and otherwise ignored.
type Model struct {
	ctx   context.Context
	store *tasks.Store
	keys  KeyMap
	help  help.Model
	input textinput.Model

	filter    tasks.Filter
	cursor    int
	mode      mode
	editID    string
	uploading bool
	loaded    bool
}

// New creates a Model over store. Init loads the list.
func New(ctx context.Context, store *tasks.Store) *Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "What needs to be done?"
	ti.CharLimit = 256
	ti.PromptStyle = InputPromptStyle

	return &Model{
		ctx:   ctx,
		store: store,
		keys:  DefaultKeyMap(),
		help:  help.New(),
		input: ti,
	}
}

// Run starts the view on the terminal and blocks until the user quits.
func Run(ctx context.Context, store *tasks.Store) error {
	program := tea.NewProgram(New(ctx, store), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

func (m *Model) Init() tea.Cmd {
	return m.refreshCmd()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil
	case loadedMsg:
		m.loaded = true
		m.clampCursor()
		return m, nil
	case addedMsg:
		m.uploading = false
		m.clampCursor()
		return m, nil
	case mutatedMsg:
		m.clampCursor()
		return m, nil
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Interrupt) {
			return m, tea.Quit
		}
		if m.mode != modeBrowse {
			return m.updateInput(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m *Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.visible())-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Filter):
		m.filter = m.filter.Next()
		m.clampCursor()
	case key.Matches(msg, m.keys.Refresh):
		return m, m.refreshCmd()
	case key.Matches(msg, m.keys.Add):
		if m.uploading {
			return m, nil
		}
		m.mode = modeAdd
		m.input.Reset()
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.Toggle):
		if task, ok := m.selected(); ok {
			return m, m.mutateCmd(func(ctx context.Context) error {
				return m.store.Toggle(ctx, task.ID)
			})
		}
	case key.Matches(msg, m.keys.Edit):
		if task, ok := m.selected(); ok {
			m.mode = modeEdit
			m.editID = task.ID
			m.input.SetValue(task.Title)
			m.input.CursorEnd()
			return m, m.input.Focus()
		}
	case key.Matches(msg, m.keys.Delete):
		if task, ok := m.selected(); ok {
			return m, m.mutateCmd(func(ctx context.Context) error {
				return m.store.Delete(ctx, task.ID)
			})
		}
	}
	return m, nil
}

func (m *Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.closeInput()
		return m, nil
	case key.Matches(msg, m.keys.Enter):
		title := m.input.Value()
		if strings.TrimSpace(title) == "" {
			return m, nil
		}
		editing, id := m.mode == modeEdit, m.editID
		m.closeInput()
		if editing {
			return m, m.mutateCmd(func(ctx context.Context) error {
				return m.store.Rename(ctx, id, title)
			})
		}
		m.uploading = true
		return m, m.addCmd(title)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) closeInput() {
	m.mode = modeBrowse
	m.editID = ""
	m.input.Blur()
	m.input.Reset()
}

func (m *Model) refreshCmd() tea.Cmd {
	store, ctx := m.store, m.ctx
	return func() tea.Msg {
		_ = store.Refresh(ctx)
		return loadedMsg{}
	}
}

func (m *Model) addCmd(title string) tea.Cmd {
	store, ctx := m.store, m.ctx
	return func() tea.Msg {
		_, _ = store.Add(ctx, title)
		return addedMsg{}
	}
}

func (m *Model) mutateCmd(fn func(context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		_ = fn(ctx)
		return mutatedMsg{}
	}
}

func (m *Model) visible() []service.Task {
	return m.store.View(m.filter)
}

func (m *Model) selected() (service.Task, bool) {
	list := m.visible()
	if m.cursor < 0 || m.cursor >= len(list) {
		return service.Task{}, false
	}
	return list[m.cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.visible())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) View() string {
	var b strings.Builder

	writeProgress(&b, m.store.Progress())
	b.WriteString("\n")

	b.WriteString(HeaderStyle.Render("Tasks"))
	b.WriteString(FilterStyle.Render(fmt.Sprintf("  (%s)", m.filter)))
	b.WriteString("\n\n")

	if !m.loaded {
		b.WriteString(DimStyle.Render("Loading..."))
		b.WriteString("\n")
	} else {
		m.writeTasks(&b)
	}
	b.WriteString("\n")

	switch {
	case m.uploading:
		b.WriteString(DimStyle.Render(UploadingText))
		b.WriteString("\n\n")
	case m.mode == modeAdd:
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
	}

	if m.mode != modeBrowse {
		b.WriteString(m.help.View(inputHelp{m.keys}))
	} else {
		b.WriteString(m.help.View(m.keys))
	}
	b.WriteString("\n")
	return b.String()
}

func (m *Model) writeTasks(b *strings.Builder) {
	list := m.visible()
	if len(list) == 0 {
		b.WriteString(DimStyle.Render(m.filter.EmptyMessage()))
		b.WriteString("\n")
		return
	}
	for i, task := range list {
		cursor := "  "
		if i == m.cursor {
			cursor = CursorStyle.Render("> ")
		}
		if m.mode == modeEdit && task.ID == m.editID {
			b.WriteString(cursor + m.input.View() + "\n")
			continue
		}
		style := TaskStyle
		if task.Completed {
			style = TaskDoneStyle
		}
		title := style.Render(output.NormalizeTitle(task.Title))
		b.WriteString(cursor + output.Checkbox(task.Completed) + " " + title + "\n")
	}
}

func writeProgress(b *strings.Builder, p tasks.Progress) {
	bar := output.Bar(p, output.BarWidth, "█", "░")
	filled := strings.Count(bar, "█")
	rendered := BarFillStyle.Render(strings.Repeat("█", filled)) +
		BarRestStyle.Render(strings.Repeat("░", output.BarWidth-filled))

	card := lipgloss.JoinVertical(lipgloss.Left,
		CardTitleStyle.Render("Progress"),
		rendered+"  "+output.Percent(p),
		fmt.Sprintf("%d completed", p.Completed),
	)
	b.WriteString(CardStyle.Render(card))
	b.WriteString("\n")
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
