package tui

import (
	"context"
	"fmt"

	"github.com/andy/invoicer/internal/app"
	"github.com/andy/invoicer/internal/domain"
	"github.com/andy/invoicer/internal/export"
	"github.com/andy/invoicer/internal/service"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type historyDataMsg struct {
	invoices []*domain.InvoiceRecord
}

// HistoryModel lists saved invoices, newest first
type HistoryModel struct {
	app      *app.App
	invoices []*domain.InvoiceRecord
	cursor   int
	loading  bool
}

// NewHistoryModel creates the history screen
func NewHistoryModel(a *app.App) tea.Model {
	return &HistoryModel{
		app:     a,
		loading: true,
	}
}

func (m *HistoryModel) Init() tea.Cmd {
	return m.loadHistory()
}

func (m *HistoryModel) loadHistory() tea.Cmd {
	s := m.app.Session
	return func() tea.Msg {
		return historyDataMsg{invoices: s.History(context.Background())}
	}
}

func (m *HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case historyDataMsg:
		m.loading = false
		m.invoices = msg.invoices
		if m.cursor >= len(m.invoices) {
			m.cursor = len(m.invoices) - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}
		return m, nil

	case RefreshDataMsg:
		return m, m.loadHistory()

	case sessionChangeMsg:
		if msg.change.Kind == service.ChangeHistory {
			return m, m.loadHistory()
		}
		return m, nil

	case tea.KeyMsg:
		keys := DefaultKeyMap
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.invoices)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.Select):
			if len(m.invoices) == 0 {
				return m, nil
			}
			m.app.Session.Load(m.invoices[m.cursor])
			return m, func() tea.Msg { return SwitchScreenMsg{Screen: ScreenEditor} }
		case key.Matches(msg, keys.Back):
			return m, func() tea.Msg { return SwitchScreenMsg{Screen: ScreenEditor} }
		}
	}

	return m, nil
}

func (m *HistoryModel) View() string {
	if m.loading {
		return "Loading..."
	}

	var s string
	s += titleStyle.Render("Invoice History") + "\n\n"

	if len(m.invoices) == 0 {
		s += subtitleStyle.Render("  No history found")
		return s
	}

	s += subtitleStyle.Render(fmt.Sprintf(
		"  %-15s  %-24s  %-10s  %12s",
		"ID", "Client", "Date", "Total",
	)) + "\n"

	for i, inv := range m.invoices {
		line := fmt.Sprintf("  %-15s  %-24s  %-10s  %12s",
			truncateStr(inv.ID, 15),
			truncateStr(clientLabel(inv.ClientName), 24),
			export.FormatDate(inv.Date),
			export.FormatMoney(inv.Total()),
		)
		if i == m.cursor {
			s += selectedStyle.Render(line) + "\n"
		} else {
			s += line + "\n"
		}
	}

	s += "\n" + lipgloss.NewStyle().Foreground(mutedColor).
		Render(fmt.Sprintf("  %d saved invoice(s)", len(m.invoices))) + "\n"
	s += "\n" + helpStyle.Render("  j/k: navigate  enter: load into editor  esc: back")

	return s
}
