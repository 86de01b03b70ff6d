package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/andy/invoicer/internal/app"
	"github.com/andy/invoicer/internal/domain"
	"github.com/andy/invoicer/internal/export"
	"github.com/andy/invoicer/internal/repository"
	"github.com/andy/invoicer/internal/service"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type editorMode int

const (
	editorModeNav              editorMode = iota
	editorModeEdit                        // Typing into the selected cell
	editorModeConfirmOverwrite            // Save hit an existing ID
	editorModeQRPath                      // Entering a custom QR image path
)

type cellKind int

const (
	cellID cellKind = iota
	cellDate
	cellClientName
	cellClientAddress
	cellItem
)

// cell is one editable value on the form
type cell struct {
	kind  cellKind
	item  int
	field domain.ItemField
}

var itemFields = []domain.ItemField{domain.FieldName, domain.FieldPrice, domain.FieldQty}

// column widths of the item table
var itemFieldWidths = map[domain.ItemField]int{
	domain.FieldName:  24,
	domain.FieldPrice: 10,
	domain.FieldQty:   6,
}

const headerFieldWidth = 40

type saveDoneMsg struct {
	result repository.SaveResult
	err    error
}

type exportDoneMsg struct {
	path string
	err  error
}

// EditorModel edits the session invoice and shows a live preview
type EditorModel struct {
	app        *app.App
	mode       editorMode
	cursor     int
	input      textinput.Model
	editing    cell
	editBefore string
	err        error
	statusMsg  string
}

// NewEditorModel creates the invoice editor screen
func NewEditorModel(a *app.App) tea.Model {
	input := textinput.New()
	input.CharLimit = 256
	return &EditorModel{
		app:   a,
		mode:  editorModeNav,
		input: input,
	}
}

// IsCapturingInput returns true while any prompt or cell editor is open
func (m *EditorModel) IsCapturingInput() bool {
	return m.mode != editorModeNav
}

func (m *EditorModel) Init() tea.Cmd {
	return nil
}

func (m *EditorModel) cells() []cell {
	cells := []cell{
		{kind: cellID},
		{kind: cellDate},
		{kind: cellClientName},
		{kind: cellClientAddress},
	}
	for i := range m.app.Session.Items() {
		for _, f := range itemFields {
			cells = append(cells, cell{kind: cellItem, item: i, field: f})
		}
	}
	return cells
}

func (m *EditorModel) clampCursor() {
	if n := len(m.cells()); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *EditorModel) cellValue(c cell) string {
	cur := m.app.Session.Current()
	switch c.kind {
	case cellID:
		return cur.ID
	case cellDate:
		return cur.Date.String()
	case cellClientName:
		return cur.ClientName
	case cellClientAddress:
		return cur.ClientAddress
	}

	if c.item >= len(cur.Items) {
		return ""
	}
	item := cur.Items[c.item]
	switch c.field {
	case domain.FieldName:
		return item.Name
	case domain.FieldPrice:
		return domain.FormatAmount(item.Price)
	default:
		return domain.FormatAmount(item.Qty)
	}
}

// applyCell writes raw into the session
func (m *EditorModel) applyCell(c cell, raw string) error {
	s := m.app.Session
	switch c.kind {
	case cellID:
		s.SetID(raw)
	case cellDate:
		d, err := domain.ParseDate(raw)
		if err != nil {
			return err
		}
		s.SetDate(d)
	case cellClientName:
		s.SetClientName(raw)
	case cellClientAddress:
		s.SetClientAddress(raw)
	case cellItem:
		return s.SetItemField(c.item, c.field, raw)
	}
	return nil
}

func (m *EditorModel) startEdit(c cell) tea.Cmd {
	m.mode = editorModeEdit
	m.editing = c
	m.editBefore = m.cellValue(c)
	m.input.Placeholder = ""
	if c.kind == cellDate {
		m.input.Placeholder = domain.DateLayout
	}
	m.input.Width = headerFieldWidth
	if c.kind == cellItem {
		m.input.Width = itemFieldWidths[c.field]
	}
	m.input.SetValue(m.editBefore)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *EditorModel) save(overwrite bool) tea.Cmd {
	s := m.app.Session
	return func() tea.Msg {
		result, err := s.Save(context.Background(), overwrite)
		return saveDoneMsg{result: result, err: err}
	}
}

func (m *EditorModel) exportCurrent() tea.Cmd {
	a := m.app
	return func() tea.Msg {
		ctx := context.Background()
		rec := a.Session.Current()
		opts := export.Options{
			PayeeName: a.Config.Payment.PayeeName,
			Payload:   a.Session.PaymentPayload(ctx),
		}
		if path, ok := a.Session.CustomQR(); ok {
			opts.CustomQR = path
		}
		path, err := export.WriteFile(a.Config.Invoice.OutputDir, rec, opts)
		return exportDoneMsg{path: path, err: err}
	}
}

func (m *EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case saveDoneMsg:
		return m.handleSaveDone(msg)

	case exportDoneMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.statusMsg = fmt.Sprintf("Exported to %s", msg.path)
		return m, nil

	case sessionChangeMsg:
		// Items may have been replaced by a load or a new invoice
		if msg.change.Kind == service.ChangeFields && m.mode == editorModeNav {
			m.clampCursor()
		}
		return m, nil

	case RefreshDataMsg:
		m.clampCursor()
		return m, nil
	}

	switch m.mode {
	case editorModeEdit:
		return m.updateEdit(msg)
	case editorModeConfirmOverwrite:
		return m.updateConfirm(msg)
	case editorModeQRPath:
		return m.updateQRPath(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	m.err = nil
	cells := m.cells()
	keys := DefaultKeyMap

	switch {
	case key.Matches(keyMsg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(keyMsg, keys.Down):
		if m.cursor < len(cells)-1 {
			m.cursor++
		}

	case key.Matches(keyMsg, keys.Select):
		m.statusMsg = ""
		return m, m.startEdit(cells[m.cursor])

	case key.Matches(keyMsg, keys.Add):
		m.app.Session.AddItem()
		m.cursor = len(m.cells()) - len(itemFields)

	case key.Matches(keyMsg, keys.Delete):
		c := cells[m.cursor]
		if c.kind != cellItem {
			m.err = fmt.Errorf("move to an item row to remove it")
			return m, nil
		}
		if err := m.app.Session.RemoveItem(c.item); err != nil {
			m.err = err
		}
		m.clampCursor()

	case key.Matches(keyMsg, keys.New):
		m.app.Session.StartNew(context.Background())
		m.cursor = 0
		m.statusMsg = fmt.Sprintf("New invoice %s", m.app.Session.Current().ID)

	case key.Matches(keyMsg, keys.Save):
		m.statusMsg = ""
		return m, m.save(false)

	case key.Matches(keyMsg, keys.Export):
		m.statusMsg = ""
		return m, m.exportCurrent()

	case key.Matches(keyMsg, keys.Upload):
		m.mode = editorModeQRPath
		m.input.Placeholder = "/path/to/qr.png"
		m.input.Width = headerFieldWidth
		path, _ := m.app.Session.CustomQR()
		m.input.SetValue(path)
		m.input.CursorEnd()
		return m, m.input.Focus()

	case key.Matches(keyMsg, keys.ClearQR):
		if _, ok := m.app.Session.CustomQR(); ok {
			m.app.Session.UseCustomQR("")
			m.statusMsg = "Custom QR cleared"
		}
	}

	return m, nil
}

func (m *EditorModel) updateEdit(msg tea.Msg) (tea.Model, tea.Cmd) {
	c := m.editing

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			// The row can be gone if the invoice was replaced while editing
			m.err = m.applyCell(c, m.editBefore)
			m.input.Blur()
			m.mode = editorModeNav
			m.clampCursor()
			return m, nil

		case "enter", "tab":
			if err := m.applyCell(c, m.input.Value()); err != nil {
				m.err = err
				return m, nil
			}
			m.input.Blur()
			m.mode = editorModeNav
			m.err = nil
			if keyMsg.String() == "tab" && m.cursor < len(m.cells())-1 {
				m.cursor++
				return m, m.startEdit(m.cells()[m.cursor])
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	// Keep the preview live. Partial dates are applied once they parse.
	_ = m.applyCell(c, m.input.Value())

	return m, cmd
}

func (m *EditorModel) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch strings.ToLower(keyMsg.String()) {
	case "y", "enter":
		m.mode = editorModeNav
		return m, m.save(true)
	case "n", "esc":
		m.mode = editorModeNav
		m.statusMsg = "Save cancelled"
	}
	return m, nil
}

func (m *EditorModel) updateQRPath(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.input.Blur()
			m.mode = editorModeNav
			m.err = nil
			return m, nil

		case "enter":
			path := strings.TrimSpace(m.input.Value())
			if path != "" {
				if err := checkImagePath(path); err != nil {
					m.err = err
					return m, nil
				}
			}
			m.app.Session.UseCustomQR(path)
			m.input.Blur()
			m.mode = editorModeNav
			m.err = nil
			if path != "" {
				m.statusMsg = "Custom QR set"
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *EditorModel) handleSaveDone(msg saveDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.mode = editorModeNav
		switch {
		case errors.Is(msg.err, domain.ErrValidation):
			m.err = errors.New("invoice ID is required")
		case errors.Is(msg.err, domain.ErrStorageDenied):
			m.err = errors.New("storage unavailable, invoice not saved")
		default:
			m.err = msg.err
		}
		return m, nil
	}

	if msg.result == repository.SaveDeclined {
		m.mode = editorModeConfirmOverwrite
		return m, nil
	}

	m.mode = editorModeNav
	m.statusMsg = "Invoice Saved!"
	return m, nil
}

func (m *EditorModel) View() string {
	form := m.viewForm()
	preview := previewStyle.Render(m.viewPreview())
	return lipgloss.JoinHorizontal(lipgloss.Top, form, "  ", preview)
}

func (m *EditorModel) renderCell(index int, c cell, width int) string {
	if m.mode == editorModeEdit && index == m.cursor {
		return m.input.View()
	}
	v := padRight(m.cellValue(c), width)
	if index == m.cursor {
		return selectedStyle.Render(v)
	}
	return v
}

func (m *EditorModel) viewForm() string {
	var s string
	s += titleStyle.Render("Invoice") + "\n\n"

	labelStyle := lipgloss.NewStyle().Bold(true).Width(10)
	cells := m.cells()

	labels := []string{"ID:", "Date:", "Client:", "Address:"}
	for i, label := range labels {
		s += fmt.Sprintf("  %s %s\n", labelStyle.Render(label), m.renderCell(i, cells[i], headerFieldWidth))
	}

	s += "\n" + subtitleStyle.Render(fmt.Sprintf("  %-3s %-24s %-10s %-6s %10s",
		"#", "Item", "Price", "Qty", "Amount")) + "\n"

	items := m.app.Session.Items()
	for i, item := range items {
		base := len(labels) + i*len(itemFields)
		row := fmt.Sprintf("  %-3d", i+1)
		for j, f := range itemFields {
			row += " " + m.renderCell(base+j, cells[base+j], itemFieldWidths[f])
		}
		row += fmt.Sprintf(" %10s", domain.FormatAmount(item.Amount()))
		s += row + "\n"
	}

	s += "\n" + totalStyle.Render(fmt.Sprintf("  Total: %s", export.FormatMoney(m.app.Session.Total()))) + "\n\n"

	switch m.mode {
	case editorModeConfirmOverwrite:
		s += promptStyle.Render("  Invoice ID exists. Overwrite? (y/n)") + "\n\n"
	case editorModeQRPath:
		s += fmt.Sprintf("  %s\n  %s\n\n", labelStyle.Render("QR image:"), m.input.View())
	}

	if m.statusMsg != "" {
		s += lipgloss.NewStyle().Foreground(successColor).
			Render("  "+m.statusMsg) + "\n\n"
	}
	if m.err != nil {
		s += lipgloss.NewStyle().Foreground(errorColor).
			Render(fmt.Sprintf("  Error: %v", m.err)) + "\n\n"
	}

	switch m.mode {
	case editorModeEdit:
		s += helpStyle.Render("  enter: done  tab: next field  esc: cancel")
	case editorModeQRPath:
		s += helpStyle.Render("  enter: use image (empty clears)  esc: cancel")
	case editorModeConfirmOverwrite:
		s += helpStyle.Render("  y: overwrite  n: cancel")
	default:
		s += helpStyle.Render("  j/k: move  enter: edit  a: add item  d: remove item  n: new  s: save  e: export  u/x: custom QR")
	}

	return s
}

func (m *EditorModel) viewPreview() string {
	ctx := context.Background()
	cur := m.app.Session.Current()

	var b strings.Builder
	b.WriteString(titleStyle.Render("INVOICE") + "\n")
	b.WriteString(fmt.Sprintf("#%s\n", cur.ID))
	if d := export.FormatDate(cur.Date); d != "" {
		b.WriteString(d + "\n")
	}

	b.WriteString("\n" + subtitleStyle.Render("Bill To") + "\n")
	if cur.ClientName != "" {
		b.WriteString(cur.ClientName + "\n")
	}
	if cur.ClientAddress != "" {
		b.WriteString(cur.ClientAddress + "\n")
	}

	b.WriteString("\n")
	for _, item := range export.VisibleItems(cur.Items) {
		b.WriteString(fmt.Sprintf("%-18s %9s x%-4s %10s\n",
			truncateStr(item.Name, 18),
			export.FormatMoney(item.Price),
			domain.FormatAmount(item.Qty),
			export.FormatMoney(item.Amount()),
		))
	}

	b.WriteString("\n" + totalStyle.Render("TOTAL "+export.FormatMoney(cur.Total())) + "\n\n")

	if path, ok := m.app.Session.CustomQR(); ok {
		b.WriteString(subtitleStyle.Render("Scan to pay") + "\n")
		b.WriteString(path)
	} else {
		b.WriteString(subtitleStyle.Render("Pay via UPI") + "\n")
		b.WriteString(payloadStyle.Render(m.app.Session.PaymentPayload(ctx)))
	}

	return b.String()
}
