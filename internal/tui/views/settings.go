package views

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/f3rmion/pnc/internal/clipboard"
	"github.com/f3rmion/pnc/internal/config"
	"github.com/f3rmion/pnc/internal/tui/theme"
)

// SettingsModel shows the effective configuration.
type SettingsModel struct {
	config     *config.Config
	configFile string
	theme      theme.Theme

	width  int
	height int
}

// NewSettingsModel creates a new settings model. configFile is the file the
// configuration was read from, "" when only defaults and environment apply.
func NewSettingsModel(cfg *config.Config, configFile string, th theme.Theme) SettingsModel {
	return SettingsModel{
		config:     cfg,
		configFile: configFile,
		theme:      th,
	}
}

// SetSize updates the view dimensions.
func (m *SettingsModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages.
func (m SettingsModel) Update(msg tea.Msg) (SettingsModel, tea.Cmd) {
	return m, nil
}

// View renders the settings view.
func (m SettingsModel) View() string {
	var b strings.Builder

	b.WriteString(m.theme.Title.Render("Configuração"))
	b.WriteString("\n")

	file := m.configFile
	if file == "" {
		file = "(nenhum arquivo, usando padrões)"
	}
	b.WriteString(m.theme.Muted.Render("Config: " + file))
	b.WriteString("\n\n")

	if m.config == nil {
		b.WriteString(m.theme.Muted.Render("Configuração indisponível"))
		return b.String()
	}

	timeout := m.config.Timeout.String()
	if m.config.Timeout == 0 {
		timeout = "sem limite"
	}
	historyDB := m.config.HistoryDB
	if !m.config.History {
		historyDB = "desativado"
	}
	clip := "indisponível"
	if clipboard.Available() {
		clip = "disponível"
	}

	rows := [][2]string{
		{"API", m.config.APIURL},
		{"Timeout", timeout},
		{"Tema", m.config.Theme},
		{"Histórico", historyDB},
		{"Log", m.config.LogFile},
		{"Clipboard", clip},
	}

	b.WriteString(m.theme.Label.Render(fmt.Sprintf("%-12s %s", "Chave", "Valor")))
	b.WriteString("\n")
	b.WriteString(m.theme.Divider.Render(strings.Repeat("─", max(min(m.width-4, 60), 10))))
	b.WriteString("\n")
	for _, r := range rows {
		b.WriteString(m.theme.Label.Render(fmt.Sprintf("%-12s", r[0])))
		b.WriteString(" ")
		b.WriteString(m.theme.Value.Render(r[1]))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.theme.Help.Render("Altere com flags, variáveis PNC_* ou 'pnc config init'"))
	return b.String()
}
