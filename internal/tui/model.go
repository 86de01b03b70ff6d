package tui

import (
	"fmt"
	"strings"

	"github.com/andy/invoicer/internal/app"
	"github.com/andy/invoicer/internal/service"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Screen represents the current active screen
type Screen int

const (
	ScreenEditor Screen = iota
	ScreenHistory
	ScreenSettings
)

// String returns the screen name
func (s Screen) String() string {
	switch s {
	case ScreenEditor:
		return "Invoice"
	case ScreenHistory:
		return "History"
	case ScreenSettings:
		return "Settings"
	default:
		return "Unknown"
	}
}

// changeBuffer bounds how many session notifications queue up between renders.
// Screens reload from the session, so dropped notifications lose nothing.
const changeBuffer = 64

// Model is the root Bubble Tea model
type Model struct {
	app           *app.App
	currentScreen Screen
	width         int
	height        int

	// Screen models (lazy initialized)
	editor   tea.Model
	history  tea.Model
	settings tea.Model

	changes chan service.Change

	// Error state
	err error
}

// New creates a new root model and subscribes it to session changes
func New(a *app.App) Model {
	changes := make(chan service.Change, changeBuffer)
	a.Session.Subscribe(func(c service.Change) {
		select {
		case changes <- c:
		default:
		}
	})

	return Model{
		app:           a,
		currentScreen: ScreenEditor,
		editor:        NewEditorModel(a),
		changes:       changes,
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.editor.Init(), waitForChange(m.changes))
}

// waitForChange blocks until the session reports a change
func waitForChange(changes <-chan service.Change) tea.Cmd {
	return func() tea.Msg {
		return sessionChangeMsg{change: <-changes}
	}
}

// initScreen lazy-initializes a screen on first visit,
// and sends a RefreshDataMsg on subsequent visits so screens reload data.
func (m *Model) initScreen(screen Screen) tea.Cmd {
	switch screen {
	case ScreenEditor:
		if m.editor == nil {
			m.editor = NewEditorModel(m.app)
			return m.editor.Init()
		}
		return func() tea.Msg { return RefreshDataMsg{} }
	case ScreenHistory:
		if m.history == nil {
			m.history = NewHistoryModel(m.app)
			return m.history.Init()
		}
		return func() tea.Msg { return RefreshDataMsg{} }
	case ScreenSettings:
		if m.settings == nil {
			m.settings = NewSettingsModel(m.app)
			return m.settings.Init()
		}
		return func() tea.Msg { return RefreshDataMsg{} }
	}
	return nil
}

// InputCapturer is implemented by screens that capture keyboard input (e.g. text forms).
// When active, global navigation keys (I, H, comma, Q) are suppressed.
type InputCapturer interface {
	IsCapturingInput() bool
}

func (m *Model) activeScreen() tea.Model {
	switch m.currentScreen {
	case ScreenEditor:
		return m.editor
	case ScreenHistory:
		return m.history
	case ScreenSettings:
		return m.settings
	}
	return nil
}

// activeScreenCapturingInput returns true if the current screen is capturing text input
func (m *Model) activeScreenCapturingInput() bool {
	if ic, ok := m.activeScreen().(InputCapturer); ok {
		return ic.IsCapturingInput()
	}
	return false
}

// Update implements tea.Model - routes keys to screens
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		m.err = nil

		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		// Skip global navigation when a screen is capturing text input
		if !m.activeScreenCapturingInput() {
			switch {
			case key.Matches(msg, DefaultKeyMap.Quit):
				return m, tea.Quit

			case key.Matches(msg, DefaultKeyMap.Editor):
				m.currentScreen = ScreenEditor
				return m, m.initScreen(ScreenEditor)

			case key.Matches(msg, DefaultKeyMap.History):
				m.currentScreen = ScreenHistory
				return m, m.initScreen(ScreenHistory)

			case key.Matches(msg, DefaultKeyMap.Settings):
				m.currentScreen = ScreenSettings
				return m, m.initScreen(ScreenSettings)
			}
		}

	case sessionChangeMsg:
		// Every initialized screen hears about session changes, visible or not
		var cmds []tea.Cmd
		var cmd tea.Cmd
		if m.editor != nil {
			m.editor, cmd = m.editor.Update(msg)
			cmds = append(cmds, cmd)
		}
		if m.history != nil {
			m.history, cmd = m.history.Update(msg)
			cmds = append(cmds, cmd)
		}
		cmds = append(cmds, waitForChange(m.changes))
		return m, tea.Batch(cmds...)

	case SwitchScreenMsg:
		m.currentScreen = msg.Screen
		cmd := m.initScreen(msg.Screen)
		return m, cmd

	case ErrorMsg:
		m.err = msg.Err
		return m, nil
	}

	// Route message to current screen
	var cmd tea.Cmd
	switch m.currentScreen {
	case ScreenEditor:
		if m.editor != nil {
			m.editor, cmd = m.editor.Update(msg)
		}
	case ScreenHistory:
		if m.history != nil {
			m.history, cmd = m.history.Update(msg)
		}
	case ScreenSettings:
		if m.settings != nil {
			m.settings, cmd = m.settings.Update(msg)
		}
	}

	return m, cmd
}

// View implements tea.Model - renders header + current screen + footer
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	// Header
	header := headerStyle.Render(fmt.Sprintf("invoicer - %s", m.currentScreen.String()))

	// Footer with navigation keys
	footer := footerStyle.Render("[I]nvoice  [H]istory  [,] Settings  [Q]uit")

	// Current screen content
	content := "Loading..."
	if screen := m.activeScreen(); screen != nil {
		content = screen.View()
	}

	errorDisplay := ""
	if m.err != nil {
		errorDisplay = lipgloss.NewStyle().
			Foreground(errorColor).
			Render(fmt.Sprintf("\nError: %s", m.err.Error()))
	}

	// Divider line between header and content
	innerWidth := m.width - 6 // account for border (2) + padding (4)
	if innerWidth < 20 {
		innerWidth = 20
	}
	dividerWidth := innerWidth - 12
	if dividerWidth < 10 {
		dividerWidth = 10
	}
	divider := lipgloss.NewStyle().Foreground(borderColor).Render(
		strings.Repeat("─", dividerWidth),
	)

	body := fmt.Sprintf("%s\n%s\n\n%s%s\n\n%s\n%s", header, divider, content, errorDisplay, divider, footer)

	// Wrap in border, sized to terminal
	frame := appBorderStyle.
		Width(innerWidth).
		Height(m.height - 4) // leave room for border top/bottom
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, frame.Render(body))
}

// Run starts the TUI
func Run(a *app.App) error {
	p := tea.NewProgram(New(a), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
