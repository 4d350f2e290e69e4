package views

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/f3rmion/pnc/internal/history"
	"github.com/f3rmion/pnc/internal/tui/theme"
	"github.com/mattn/go-runewidth"
	"go.uber.org/zap"
)

const historyLimit = 200

// OpenEntryMsg asks the app to show a saved analysis.
type OpenEntryMsg struct {
	Entry history.Entry
}

type historyLoadedMsg struct {
	entries []history.Entry
	err     error
}

type historyDeletedMsg struct {
	entry history.Entry
	err   error
}

// HistoryModel lists saved analyses.
type HistoryModel struct {
	store  HistoryStore
	theme  theme.Theme
	logger *zap.Logger

	entries []history.Entry
	cursor  int
	loaded  bool
	err     error

	width  int
	height int
}

// NewHistoryModel creates the history view. A nil store shows the view as
// disabled.
func NewHistoryModel(store HistoryStore, th theme.Theme, logger *zap.Logger) HistoryModel {
	if logger == nil {
		logger = zap.NewNop()
	}
	return HistoryModel{store: store, theme: th, logger: logger}
}

// SetSize updates the view dimensions.
func (m *HistoryModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Load reads the entries from the store.
func (m HistoryModel) Load() tea.Cmd {
	if m.store == nil {
		return nil
	}
	store := m.store
	return func() tea.Msg {
		entries, err := store.List(context.Background(), historyLimit)
		return historyLoadedMsg{entries: entries, err: err}
	}
}

// Selected returns the entry under the cursor.
func (m HistoryModel) Selected() (history.Entry, bool) {
	if m.cursor < 0 || m.cursor >= len(m.entries) {
		return history.Entry{}, false
	}
	return m.entries[m.cursor], true
}

// Update handles messages.
func (m HistoryModel) Update(msg tea.Msg) (HistoryModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			if m.cursor < len(m.entries)-1 {
				m.cursor++
			}
			return m, nil
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case "g", "home":
			m.cursor = 0
			return m, nil
		case "G", "end":
			m.cursor = max(len(m.entries)-1, 0)
			return m, nil
		case "r":
			return m, m.Load()
		case "enter":
			if e, ok := m.Selected(); ok {
				return m, func() tea.Msg { return OpenEntryMsg{Entry: e} }
			}
			return m, nil
		case "d", "delete":
			if e, ok := m.Selected(); ok && m.store != nil {
				store := m.store
				return m, func() tea.Msg {
					deleted, err := store.Delete(context.Background(), e.ID.String())
					return historyDeletedMsg{entry: deleted, err: err}
				}
			}
			return m, nil
		}

	case historyLoadedMsg:
		m.loaded = true
		m.err = msg.err
		if msg.err != nil {
			m.logger.Warn("loading history failed", zap.Error(msg.err))
			return m, nil
		}
		m.entries = msg.entries
		if m.cursor >= len(m.entries) {
			m.cursor = max(len(m.entries)-1, 0)
		}
		return m, nil

	case historyDeletedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.logger.Warn("deleting history entry failed", zap.Error(msg.err))
			return m, nil
		}
		return m, m.Load()

	case EntrySavedMsg:
		return m, m.Load()
	}
	return m, nil
}

// View renders the history view.
func (m HistoryModel) View() string {
	var b strings.Builder

	b.WriteString(m.theme.Title.Render("Histórico"))
	b.WriteString("\n\n")

	switch {
	case m.store == nil:
		b.WriteString(m.theme.Muted.Render("Histórico desativado (history: false)"))
		return b.String()
	case m.err != nil:
		b.WriteString(m.theme.Error.Render("Erro: " + m.err.Error()))
		b.WriteString("\n")
	case !m.loaded:
		b.WriteString(m.theme.Loading.Render("Carregando..."))
		return b.String()
	case len(m.entries) == 0:
		b.WriteString(m.theme.Muted.Render("Nenhuma análise salva ainda"))
		b.WriteString("\n")
		b.WriteString(m.theme.Help.Render("Analise um texto (ctrl+s) para vê-lo aqui"))
		return b.String()
	}

	b.WriteString(m.theme.Subtitle.Render(fmt.Sprintf("%d análises", len(m.entries))))
	b.WriteString("\n\n")

	// Calculate visible range
	visibleHeight := m.height - 8
	if visibleHeight < 5 {
		visibleHeight = 5
	}
	start := 0
	if m.cursor >= visibleHeight {
		start = m.cursor - visibleHeight + 1
	}
	end := min(start+visibleHeight, len(m.entries))

	textWidth := max(m.width-30, 20)
	for i := start; i < end; i++ {
		e := m.entries[i]
		text := strings.Join(strings.Fields(e.Text), " ")
		row := fmt.Sprintf("%s  %s  %s",
			e.ID.String()[:8],
			e.CreatedAt.Local().Format("02/01 15:04"),
			runewidth.Truncate(text, textWidth, "…"))

		if i == m.cursor {
			b.WriteString(m.theme.Selected.Render("▸ " + row))
		} else {
			b.WriteString(m.theme.Value.Render("  " + row))
		}
		b.WriteString("\n")
		if e.Verdict != "" {
			b.WriteString("    " + m.theme.Muted.Render(runewidth.Truncate(e.Verdict, textWidth, "…")))
			b.WriteString("\n")
		}
	}

	if len(m.entries) > visibleHeight {
		b.WriteString("\n")
		b.WriteString(m.theme.Muted.Render(fmt.Sprintf("Mostrando %d-%d de %d", start+1, end, len(m.entries))))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.theme.Help.Render("j/k: navegar • enter: abrir • d: apagar • r: recarregar"))
	return b.String()
}
