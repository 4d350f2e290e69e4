// Package views provides the individual views for the unified TUI.
package views

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/f3rmion/pnc/internal/clipboard"
	"github.com/f3rmion/pnc/internal/history"
	"github.com/f3rmion/pnc/internal/sections"
	"github.com/f3rmion/pnc/internal/session"
	"github.com/f3rmion/pnc/internal/tui/theme"
	"go.uber.org/zap"
)

const editorHeight = 5

// HistoryStore is the part of the history database the views use.
type HistoryStore interface {
	Save(ctx context.Context, text string, raw json.RawMessage) (history.Entry, error)
	List(ctx context.Context, limit int) ([]history.Entry, error)
	Delete(ctx context.Context, id string) (history.Entry, error)
}

// Message types
type analysisDoneMsg struct {
	ticket session.Ticket
	text   string
	raw    json.RawMessage
	err    error
}

// EntrySavedMsg is sent after a successful analysis was stored.
type EntrySavedMsg struct {
	Entry history.Entry
}

type clearCopiedMsg struct{}

func clearCopiedAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearCopiedMsg{}
	})
}

// AnalyzeModel is the argument analysis view model.
type AnalyzeModel struct {
	editor   textarea.Model
	spinner  spinner.Model
	viewport viewport.Model

	machine  *session.Machine
	analyzer session.Analyzer
	store    HistoryStore
	logger   *zap.Logger
	theme    theme.Theme
	copy     func(string) error

	secs   []sections.Section
	expand bool

	// Clipboard
	copied  bool
	copyErr error

	width  int
	height int
}

// NewAnalyzeModel creates the analyze view. store may be nil to disable
// history.
func NewAnalyzeModel(analyzer session.Analyzer, store HistoryStore, th theme.Theme, logger *zap.Logger) AnalyzeModel {
	if logger == nil {
		logger = zap.NewNop()
	}

	ta := textarea.New()
	ta.Placeholder = "Cole ou digite o argumento a analisar..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetHeight(editorHeight)
	ta.FocusedStyle.Placeholder = th.Muted
	ta.BlurredStyle.Placeholder = th.Muted
	ta.FocusedStyle.Text = th.Value
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = th.Loading

	return AnalyzeModel{
		editor:   ta,
		spinner:  sp,
		viewport: viewport.New(0, 0),
		machine:  session.New(logger),
		analyzer: analyzer,
		store:    store,
		logger:   logger,
		theme:    th,
		copy:     clipboard.Write,
	}
}

// SetSize updates the view dimensions.
func (m *AnalyzeModel) SetSize(width, height int) {
	m.width = width
	m.height = height

	m.editor.SetWidth(max(width-4, 10))
	m.viewport.Width = max(width, 10)
	m.viewport.Height = max(height-editorHeight-8, 3)
	m.refresh()
}

// Capturing reports whether keystrokes go to the editor.
func (m AnalyzeModel) Capturing() bool {
	return m.editor.Focused()
}

// State returns the interaction state.
func (m AnalyzeModel) State() session.State {
	return m.machine.State()
}

// Open shows a saved analysis without calling the backend.
func (m *AnalyzeModel) Open(e history.Entry) {
	res, err := e.Result()
	if err != nil {
		m.logger.Warn("stored analysis no longer normalizes", zap.String("id", e.ID.String()), zap.Error(err))
		return
	}
	m.editor.SetValue(e.Text)
	m.machine.Show(res)
	m.expand = false
	m.editor.Blur()
	m.refresh()
	m.viewport.GotoTop()
}

// Update handles messages.
func (m AnalyzeModel) Update(msg tea.Msg) (AnalyzeModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+s" {
			return m, m.submit()
		}
		if m.editor.Focused() {
			return m.updateEditor(msg)
		}

		switch msg.String() {
		case "e", "i", "enter":
			return m, m.editor.Focus()
		case "t":
			m.expand = !m.expand
			m.refresh()
			return m, nil
		case "y":
			if len(m.secs) == 0 {
				return m, nil
			}
			if err := m.copy(sections.Report(m.secs)); err != nil {
				m.copyErr = err
				m.logger.Warn("copy to clipboard failed", zap.Error(err))
				return m, nil
			}
			m.copied = true
			m.copyErr = nil
			return m, clearCopiedAfter(2 * time.Second)
		}

		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case analysisDoneMsg:
		return m, m.finish(msg)

	case spinner.TickMsg:
		if m.machine.State() != session.Submitting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case clearCopiedMsg:
		m.copied = false
		return m, nil

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	if m.editor.Focused() {
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m AnalyzeModel) updateEditor(msg tea.KeyMsg) (AnalyzeModel, tea.Cmd) {
	if msg.String() == "esc" {
		m.editor.Blur()
		return m, nil
	}

	before := m.editor.Value()
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	if m.editor.Value() != before {
		m.machine.Edit()
	}
	return m, cmd
}

// submit starts a request for the editor's text.
func (m *AnalyzeModel) submit() tea.Cmd {
	text := m.editor.Value()
	ticket, err := m.machine.Submit(text)
	m.expand = false
	m.refresh()
	if err != nil {
		return nil
	}

	m.editor.Blur()
	return tea.Batch(m.spinner.Tick, analyze(m.analyzer, ticket, text))
}

func analyze(a session.Analyzer, t session.Ticket, text string) tea.Cmd {
	return func() tea.Msg {
		raw, err := a.Analyze(context.Background(), text)
		return analysisDoneMsg{ticket: t, text: text, raw: raw, err: err}
	}
}

func (m *AnalyzeModel) finish(msg analysisDoneMsg) tea.Cmd {
	if msg.err != nil {
		m.machine.Reject(msg.ticket, msg.err)
		m.refresh()
		return nil
	}

	if !m.machine.Resolve(msg.ticket, msg.raw) {
		return nil
	}
	m.refresh()
	m.viewport.GotoTop()

	if m.machine.State() != session.Success || m.store == nil {
		return nil
	}
	store, logger := m.store, m.logger
	return func() tea.Msg {
		e, err := store.Save(context.Background(), msg.text, msg.raw)
		if err != nil {
			logger.Warn("saving analysis to history failed", zap.Error(err))
			return nil
		}
		return EntrySavedMsg{Entry: e}
	}
}

// refresh rebuilds the sections and the viewport from the machine.
func (m *AnalyzeModel) refresh() {
	m.secs = nil
	if res := m.machine.Result(); res != nil {
		m.secs = sections.Build(*res)
	}
	if len(m.secs) == 0 {
		m.viewport.SetContent("")
		return
	}
	m.viewport.SetContent(RenderSections(m.secs, m.theme, m.viewport.Width-2, m.expand))
}

// View renders the analyze view.
func (m AnalyzeModel) View() string {
	var b strings.Builder

	b.WriteString(m.theme.Title.Render("Pé-no-Chão"))
	b.WriteString(" ")
	b.WriteString(m.theme.Subtitle.Render("análise de argumentos"))
	b.WriteString("\n\n")

	b.WriteString(m.theme.Editor.Render(m.editor.View()))
	b.WriteString("\n")

	switch m.machine.State() {
	case session.Submitting:
		b.WriteString(m.spinner.View() + " " + m.theme.Loading.Render(m.machine.Notice()))
	default:
		if n := m.machine.Notice(); n != "" {
			b.WriteString(m.theme.Error.Render(n))
		}
	}
	if m.copied {
		b.WriteString(m.theme.Copied.Render("✓ Copiado!"))
	} else if m.copyErr != nil {
		b.WriteString(m.theme.Error.Render("Falha ao copiar: " + m.copyErr.Error()))
	}
	b.WriteString("\n")

	if len(m.secs) > 0 {
		b.WriteString(m.theme.Divider.Render(strings.Repeat("─", max(min(m.width-4, 60), 1))))
		b.WriteString("\n")
		b.WriteString(m.viewport.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	var help []string
	if m.editor.Focused() {
		help = append(help, "ctrl+s: analisar", "esc: resultados")
	} else {
		help = append(help, "ctrl+s: analisar", "e: editar")
		if len(m.secs) > 0 {
			help = append(help, "j/k: rolar", "t: tabela verdade", "y: copiar")
		}
	}
	b.WriteString(m.theme.Help.Render(strings.Join(help, " • ")))

	return b.String()
}
