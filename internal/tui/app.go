// Package tui provides the interactive terminal UI for pnc.
package tui

import (
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/f3rmion/pnc/internal/config"
	"github.com/f3rmion/pnc/internal/session"
	"github.com/f3rmion/pnc/internal/tui/theme"
	"github.com/f3rmion/pnc/internal/tui/views"
	"go.uber.org/zap"
)

// ViewType represents the current active view
type ViewType int

const (
	ViewAnalyze ViewType = iota
	ViewHistory
	ViewSettings
)

// MenuItem represents a sidebar menu entry
type MenuItem struct {
	Label    string
	View     ViewType
	Shortcut string
}

// ViewSwitchMsg requests a view change
type ViewSwitchMsg struct {
	View ViewType
}

// Options are the dependencies of the app.
type Options struct {
	Config     *config.Config
	ConfigFile string
	Analyzer   session.Analyzer
	History    views.HistoryStore // nil disables history
	Logger     *zap.Logger
}

// AppModel is the main unified TUI model
type AppModel struct {
	theme  theme.Theme
	logger *zap.Logger

	// Layout state
	width        int
	height       int
	sidebarWidth int
	ready        bool

	// Navigation
	currentView   ViewType
	menuItems     []MenuItem
	selectedMenu  int
	sidebarActive bool

	// Sub-models (views)
	analyzeView  views.AnalyzeModel
	historyView  views.HistoryModel
	settingsView views.SettingsModel

	// Help overlay
	showHelp bool
}

// NewApp creates a new unified TUI application
func NewApp(opts Options) AppModel {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	th := theme.Dark()
	if opts.Config != nil {
		th = theme.ByName(opts.Config.Theme)
	}

	return AppModel{
		theme:        th,
		logger:       logger,
		sidebarWidth: 18,
		currentView:  ViewAnalyze,
		menuItems: []MenuItem{
			{Label: "Analisar", View: ViewAnalyze, Shortcut: "1"},
			{Label: "Histórico", View: ViewHistory, Shortcut: "2"},
			{Label: "Config", View: ViewSettings, Shortcut: "3"},
		},

		analyzeView:  views.NewAnalyzeModel(opts.Analyzer, opts.History, th, logger),
		historyView:  views.NewHistoryModel(opts.History, th, logger),
		settingsView: views.NewSettingsModel(opts.Config, opts.ConfigFile, th),
	}
}

// Init initializes the model
func (m AppModel) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.historyView.Load())
}

// capturing reports whether the active view is taking raw text input.
func (m AppModel) capturing() bool {
	return !m.sidebarActive && m.currentView == ViewAnalyze && m.analyzeView.Capturing()
}

func (m *AppModel) switchTo(v ViewType) {
	m.currentView = v
	for i, item := range m.menuItems {
		if item.View == v {
			m.selectedMenu = i
			break
		}
	}
	m.sidebarActive = false
}

// Update handles messages
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Help overlay - any key closes it
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}

		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if !m.capturing() {
			// Global keys
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "?":
				m.showHelp = true
				return m, nil
			case "esc":
				if m.sidebarActive {
					return m, tea.Quit
				}
				m.sidebarActive = true
				return m, nil
			case "1":
				m.switchTo(ViewAnalyze)
				return m, nil
			case "2":
				m.switchTo(ViewHistory)
				return m, nil
			case "3":
				m.switchTo(ViewSettings)
				return m, nil
			case "tab":
				m.sidebarActive = !m.sidebarActive
				return m, nil
			}
		}

		// Sidebar navigation when active
		if m.sidebarActive {
			switch msg.String() {
			case "j", "down":
				if m.selectedMenu < len(m.menuItems)-1 {
					m.selectedMenu++
				}
			case "k", "up":
				if m.selectedMenu > 0 {
					m.selectedMenu--
				}
			case "enter", "l", "right":
				m.switchTo(m.menuItems[m.selectedMenu].View)
			}
			return m, nil
		}

		return m.updateActive(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		// Update view sizes
		contentWidth := m.width - m.sidebarWidth - 4
		contentHeight := m.height - 2

		m.analyzeView.SetSize(contentWidth, contentHeight)
		m.historyView.SetSize(contentWidth, contentHeight)
		m.settingsView.SetSize(contentWidth, contentHeight)

		return m, nil

	case ViewSwitchMsg:
		m.switchTo(msg.View)
		return m, nil

	case views.OpenEntryMsg:
		m.analyzeView.Open(msg.Entry)
		m.switchTo(ViewAnalyze)
		return m, nil

	case tea.MouseMsg:
		return m.updateActive(msg)
	}

	// Results of background work reach every view, whichever is shown.
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.analyzeView, cmd = m.analyzeView.Update(msg)
	cmds = append(cmds, cmd)
	m.historyView, cmd = m.historyView.Update(msg)
	cmds = append(cmds, cmd)
	m.settingsView, cmd = m.settingsView.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m AppModel) updateActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.currentView {
	case ViewAnalyze:
		m.analyzeView, cmd = m.analyzeView.Update(msg)
	case ViewHistory:
		m.historyView, cmd = m.historyView.Update(msg)
	case ViewSettings:
		m.settingsView, cmd = m.settingsView.Update(msg)
	}
	return m, cmd
}

// View renders the UI
func (m AppModel) View() string {
	if !m.ready {
		return "Carregando..."
	}

	// Show help overlay if active
	if m.showHelp {
		return m.renderHelp()
	}

	sidebar := m.renderSidebar()

	var content string
	switch m.currentView {
	case ViewAnalyze:
		content = m.analyzeView.View()
	case ViewHistory:
		content = m.historyView.View()
	case ViewSettings:
		content = m.settingsView.View()
	}

	contentWidth := m.width - m.sidebarWidth - 4
	mainContent := m.theme.Content.
		Width(contentWidth).
		Height(m.height - 2).
		Render(content)

	return lipgloss.JoinHorizontal(lipgloss.Top, sidebar, mainContent)
}

// renderSidebar renders the sidebar navigation
func (m AppModel) renderSidebar() string {
	var items []string

	items = append(items, m.theme.SidebarTitle.Render("Pé-no-Chão"))
	items = append(items, "")

	for i, item := range m.menuItems {
		label := item.Shortcut + ". " + item.Label

		style := m.theme.SidebarItem
		if i == m.selectedMenu {
			if m.sidebarActive {
				style = m.theme.SidebarItemActive
			} else {
				style = m.theme.SidebarItemCurr
			}
		}
		items = append(items, style.Render(label))
	}

	// Spacer
	usedHeight := len(items) + 4
	for i := 0; i < m.height-usedHeight-2; i++ {
		items = append(items, "")
	}

	items = append(items, m.theme.SidebarHelp.Render("? Ajuda  q Sair"))

	return m.theme.Sidebar.
		Width(m.sidebarWidth).
		Height(m.height - 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, items...))
}

// renderHelp renders the help overlay
func (m AppModel) renderHelp() string {
	p := m.theme.Palette
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(p.Primary).MarginBottom(1)
	sectionStyle := lipgloss.NewStyle().Bold(true).Foreground(p.Secondary).MarginTop(1)
	keyStyle := lipgloss.NewStyle().Foreground(p.Accent).Width(12)
	descStyle := lipgloss.NewStyle().Foreground(p.Text)

	line := func(key, desc string) string {
		return keyStyle.Render(key) + descStyle.Render(desc) + "\n"
	}

	helpText := titleStyle.Render("Pé-no-Chão") + "\n\n"

	helpText += sectionStyle.Render("Global") + "\n"
	helpText += line("1-3", "Trocar de tela")
	helpText += line("tab", "Foco na barra lateral")
	helpText += line("?", "Esta ajuda")
	helpText += line("q / ctrl+c", "Sair")

	helpText += sectionStyle.Render("Analisar") + "\n"
	helpText += line("ctrl+s", "Enviar texto")
	helpText += line("esc", "Sair do editor")
	helpText += line("e", "Editar texto")
	helpText += line("t", "Expandir tabela verdade")
	helpText += line("y", "Copiar relatório")
	helpText += line("j/k", "Rolar resultado")

	helpText += sectionStyle.Render("Histórico") + "\n"
	helpText += line("enter", "Abrir análise")
	helpText += line("d", "Apagar")
	helpText += line("r", "Recarregar")

	helpText += "\n" + m.theme.Muted.Render("Qualquer tecla fecha")

	helpBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Secondary).
		Padding(1, 2).
		Width(50).
		Render(helpText)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, helpBox)
}
