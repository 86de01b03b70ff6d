package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/andy/invoicer/internal/app"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type settingsMode int

const (
	settingsModeView settingsMode = iota
	settingsModeEdit
)

// settings form field indices
const (
	settingsFieldUPIID = iota
	settingsFieldOutputDir
	settingsFieldCount
)

type settingsSavedMsg struct {
	err error
}

// SettingsModel manages the settings screen
type SettingsModel struct {
	app        *app.App
	mode       settingsMode
	fields     []textinput.Model
	fieldFocus int
	err        error
	statusMsg  string
}

// NewSettingsModel creates a new settings screen
func NewSettingsModel(a *app.App) tea.Model {
	return &SettingsModel{
		app:  a,
		mode: settingsModeView,
	}
}

// IsCapturingInput returns true when the edit form is active
func (m *SettingsModel) IsCapturingInput() bool {
	return m.mode == settingsModeEdit
}

func (m *SettingsModel) Init() tea.Cmd {
	return nil
}

func (m *SettingsModel) initForm() {
	m.fields = make([]textinput.Model, settingsFieldCount)

	// UPI ID
	m.fields[settingsFieldUPIID] = textinput.New()
	m.fields[settingsFieldUPIID].Placeholder = m.app.Config.Payment.DefaultUPIID
	m.fields[settingsFieldUPIID].CharLimit = 100
	m.fields[settingsFieldUPIID].Width = 40
	m.fields[settingsFieldUPIID].SetValue(m.app.Session.UPIID(context.Background()))

	// Output directory
	m.fields[settingsFieldOutputDir] = textinput.New()
	m.fields[settingsFieldOutputDir].Placeholder = "/path/to/invoices"
	m.fields[settingsFieldOutputDir].CharLimit = 256
	m.fields[settingsFieldOutputDir].Width = 60
	m.fields[settingsFieldOutputDir].SetValue(m.app.Config.Invoice.OutputDir)

	m.fieldFocus = settingsFieldUPIID
	m.fields[settingsFieldUPIID].Focus()
}

func (m *SettingsModel) saveSettings() tea.Cmd {
	upiID := strings.TrimSpace(m.fields[settingsFieldUPIID].Value())
	outputDir := strings.TrimSpace(m.fields[settingsFieldOutputDir].Value())
	a := m.app

	return func() tea.Msg {
		if outputDir == "" {
			return settingsSavedMsg{err: fmt.Errorf("output directory is required")}
		}

		if err := a.Session.SetUPIID(context.Background(), upiID); err != nil {
			return settingsSavedMsg{err: fmt.Errorf("failed to save UPI ID: %w", err)}
		}

		if outputDir != a.Config.Invoice.OutputDir {
			a.Config.Invoice.OutputDir = outputDir
			if err := a.SaveConfig(); err != nil {
				return settingsSavedMsg{err: fmt.Errorf("failed to save config: %w", err)}
			}
		}

		return settingsSavedMsg{}
	}
}

func (m *SettingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.mode == settingsModeEdit {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.err = nil
		switch msg.String() {
		case "enter":
			m.mode = settingsModeEdit
			m.statusMsg = ""
			m.initForm()
			return m, m.fields[m.fieldFocus].Focus()
		case "esc":
			return m, func() tea.Msg { return SwitchScreenMsg{Screen: ScreenEditor} }
		}
	}

	return m, nil
}

func (m *SettingsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case settingsSavedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.mode = settingsModeView
		m.statusMsg = "Settings saved"
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			m.mode = settingsModeView
			m.err = nil
			return m, nil

		case "tab", "down":
			m.fields[m.fieldFocus].Blur()
			m.fieldFocus = (m.fieldFocus + 1) % settingsFieldCount
			return m, m.fields[m.fieldFocus].Focus()

		case "shift+tab", "up":
			m.fields[m.fieldFocus].Blur()
			m.fieldFocus = (m.fieldFocus - 1 + settingsFieldCount) % settingsFieldCount
			return m, m.fields[m.fieldFocus].Focus()

		case "enter":
			if m.fieldFocus == settingsFieldCount-1 {
				return m, m.saveSettings()
			}
			m.fields[m.fieldFocus].Blur()
			m.fieldFocus++
			return m, m.fields[m.fieldFocus].Focus()

		case "ctrl+s":
			return m, m.saveSettings()
		}
	}

	// Update the focused text input
	var cmd tea.Cmd
	m.fields[m.fieldFocus], cmd = m.fields[m.fieldFocus].Update(msg)
	return m, cmd
}

func (m *SettingsModel) View() string {
	if m.mode == settingsModeEdit {
		return m.viewForm()
	}
	return m.viewSettings()
}

func (m *SettingsModel) viewSettings() string {
	var s string
	s += titleStyle.Render("Settings") + "\n\n"

	if m.statusMsg != "" {
		s += lipgloss.NewStyle().Foreground(successColor).
			Render("  "+m.statusMsg) + "\n\n"
	}

	cfg := m.app.Config

	labelStyle := lipgloss.NewStyle().Bold(true).Width(22)
	valueStyle := lipgloss.NewStyle().Foreground(primaryColor)

	s += subtitleStyle.Render("  Payment") + "\n\n"
	s += fmt.Sprintf("  %s %s\n", labelStyle.Render("UPI ID:"), valueStyle.Render(m.app.Session.UPIID(context.Background())))
	s += fmt.Sprintf("  %s %s\n", labelStyle.Render("Payee Name:"), valueStyle.Render(cfg.Payment.PayeeName))

	s += "\n" + subtitleStyle.Render("  Invoices") + "\n\n"
	s += fmt.Sprintf("  %s %s\n", labelStyle.Render("Output Directory:"), valueStyle.Render(cfg.Invoice.OutputDir))
	s += fmt.Sprintf("  %s %s\n", labelStyle.Render("ID Prefix:"), valueStyle.Render(cfg.Invoice.IDPrefix))
	s += fmt.Sprintf("  %s %s\n", labelStyle.Render("First Invoice ID:"), valueStyle.Render(cfg.Invoice.DefaultID))

	s += "\n" + subtitleStyle.Render("  Payee name and ID numbering are read from config.yaml at startup.") + "\n"
	s += "\n" + helpStyle.Render("  enter: edit settings  esc: back")

	return s
}

func (m *SettingsModel) viewForm() string {
	var s string
	s += titleStyle.Render("Edit Settings") + "\n\n"

	labels := []string{"UPI ID:", "Output Directory:"}
	for i, label := range labels {
		indicator := "  "
		if i == m.fieldFocus {
			indicator = "> "
		}
		labelStyle := subtitleStyle
		if i == m.fieldFocus {
			labelStyle = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)
		}
		s += fmt.Sprintf("%s%s\n  %s\n\n", indicator, labelStyle.Render(label), m.fields[i].View())
	}

	if m.err != nil {
		s += lipgloss.NewStyle().Foreground(errorColor).
			Render(fmt.Sprintf("  Error: %v", m.err)) + "\n\n"
	}

	s += helpStyle.Render("  tab/shift+tab: navigate fields  ctrl+s: save  enter: next/save  esc: cancel")

	return s
}
