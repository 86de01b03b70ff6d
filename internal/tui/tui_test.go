package tui

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/andy/invoicer/internal/app"
	"github.com/andy/invoicer/internal/config"
	"github.com/andy/invoicer/internal/domain"
	"github.com/andy/invoicer/internal/repository"
	"github.com/andy/invoicer/internal/service"
	"github.com/andy/invoicer/internal/store"
	tea "github.com/charmbracelet/bubbletea"
)

var fixedNow = time.Date(2025, 12, 15, 9, 30, 0, 0, time.UTC)

func newTestApp(t *testing.T) *app.App {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Database.Driver = config.DriverMemory
	cfg.Invoice.OutputDir = filepath.Join(t.TempDir(), "invoices")

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := store.NewMemoryStore()
	invoices := repository.NewInvoiceRepo(s, logger)
	settings := repository.NewSettingsRepo(s, logger)

	session := service.NewSession(invoices, settings, service.SessionOptions{
		Now:    func() time.Time { return fixedNow },
		Logger: logger,
	})
	session.StartNew(context.Background())

	return &app.App{
		Config:       cfg,
		Logger:       logger,
		Store:        s,
		InvoiceRepo:  invoices,
		SettingsRepo: settings,
		Session:      session,
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	enterKey = tea.KeyMsg{Type: tea.KeyEnter}
	escKey   = tea.KeyMsg{Type: tea.KeyEsc}
	downKey  = tea.KeyMsg{Type: tea.KeyDown}
)

// press feeds msg to the model and drops any returned command
func press(t *testing.T, m tea.Model, msg tea.Msg) tea.Model {
	t.Helper()
	m, _ = m.Update(msg)
	return m
}

// pressAndRun feeds msg to the model, runs the returned command and feeds its
// result back
func pressAndRun(t *testing.T, m tea.Model, msg tea.Msg) tea.Model {
	t.Helper()
	m, cmd := m.Update(msg)
	if cmd == nil {
		t.Fatalf("expected a command for %v", msg)
	}
	m, _ = m.Update(cmd())
	return m
}

func editor(m tea.Model) *EditorModel {
	return m.(*EditorModel)
}

func TestEditorTypingUpdatesSessionTotal(t *testing.T) {
	a := newTestApp(t)
	var m tea.Model = NewEditorModel(a)

	// Cursor starts on the ID; move to the first item's price cell
	for i := 0; i < 5; i++ {
		m = press(t, m, downKey)
	}
	m = press(t, m, enterKey)
	if !editor(m).IsCapturingInput() {
		t.Fatalf("expected editor to capture input while editing a cell")
	}

	m = press(t, m, runes("200"))
	if got := a.Session.Total(); got != 200 {
		t.Fatalf("expected live total 200, got %v", got)
	}

	m = press(t, m, enterKey)
	if editor(m).IsCapturingInput() {
		t.Fatalf("expected edit to finish on enter")
	}
	if !strings.Contains(m.View(), "200 Rs") {
		t.Errorf("expected preview to show the total")
	}
}

func TestEditorEscRestoresCell(t *testing.T) {
	a := newTestApp(t)
	var m tea.Model = NewEditorModel(a)

	m = press(t, m, downKey)
	m = press(t, m, downKey) // client name
	m = press(t, m, enterKey)
	m = press(t, m, runes("Acme"))
	if got := a.Session.Current().ClientName; got != "Acme" {
		t.Fatalf("expected live client name, got %q", got)
	}

	m = press(t, m, escKey)
	if got := a.Session.Current().ClientName; got != "" {
		t.Errorf("expected esc to restore the old value, got %q", got)
	}
	if editor(m).IsCapturingInput() {
		t.Errorf("expected esc to leave edit mode")
	}
}

func TestEditorRejectsMalformedDate(t *testing.T) {
	a := newTestApp(t)
	var m tea.Model = NewEditorModel(a)
	before := a.Session.Current().Date

	m = press(t, m, downKey) // date
	m = press(t, m, enterKey)
	m = press(t, m, runes("x"))
	m = press(t, m, enterKey)

	if !editor(m).IsCapturingInput() {
		t.Fatalf("expected editor to stay in edit mode on a bad date")
	}
	if editor(m).err == nil {
		t.Errorf("expected a date error")
	}
	if got := a.Session.Current().Date; !got.Equal(before.Time) {
		t.Errorf("expected date to be unchanged, got %s", got)
	}
}

func TestEditorAddAndRemoveItems(t *testing.T) {
	a := newTestApp(t)
	var m tea.Model = NewEditorModel(a)

	m = press(t, m, runes("a"))
	if got := len(a.Session.Items()); got != 2 {
		t.Fatalf("expected 2 items, got %d", got)
	}

	// Cursor jumped to the new row; remove it
	m = press(t, m, runes("d"))
	if got := len(a.Session.Items()); got != 1 {
		t.Fatalf("expected 1 item, got %d", got)
	}

	// Removing from a header field is refused
	m = press(t, m, tea.KeyMsg{Type: tea.KeyUp})
	for editor(m).cursor > 0 {
		m = press(t, m, tea.KeyMsg{Type: tea.KeyUp})
	}
	m = press(t, m, runes("d"))
	if editor(m).err == nil {
		t.Errorf("expected error when removing from a header field")
	}
}

func TestEditorSaveAndOverwritePrompt(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t)
	var m tea.Model = NewEditorModel(a)

	m = pressAndRun(t, m, runes("s"))
	if got := editor(m).statusMsg; got != "Invoice Saved!" {
		t.Fatalf("expected saved status, got %q (err %v)", got, editor(m).err)
	}

	// Same ID again asks before overwriting
	m = pressAndRun(t, m, runes("s"))
	if editor(m).mode != editorModeConfirmOverwrite {
		t.Fatalf("expected overwrite prompt")
	}
	if !strings.Contains(m.View(), "Invoice ID exists. Overwrite?") {
		t.Errorf("expected prompt text in view")
	}

	m = press(t, m, runes("n"))
	if got := editor(m).statusMsg; got != "Save cancelled" {
		t.Errorf("expected cancelled status, got %q", got)
	}

	m = pressAndRun(t, m, runes("s"))
	m = pressAndRun(t, m, runes("y"))
	if got := editor(m).statusMsg; got != "Invoice Saved!" {
		t.Errorf("expected saved status after overwrite, got %q", got)
	}
	if got := len(a.InvoiceRepo.ListAll(ctx)); got != 1 {
		t.Errorf("expected 1 stored invoice, got %d", got)
	}
}

func TestEditorSaveWithoutID(t *testing.T) {
	a := newTestApp(t)
	a.Session.SetID("")
	var m tea.Model = NewEditorModel(a)

	m = pressAndRun(t, m, runes("s"))
	if editor(m).err == nil || !strings.Contains(editor(m).err.Error(), "invoice ID is required") {
		t.Errorf("expected missing ID error, got %v", editor(m).err)
	}
}

func TestEditorNewInvoiceAdvancesID(t *testing.T) {
	a := newTestApp(t)
	var m tea.Model = NewEditorModel(a)

	m = pressAndRun(t, m, runes("s"))
	m = press(t, m, runes("n"))

	if got := a.Session.Current().ID; got != "BL-25-12-02" {
		t.Errorf("expected BL-25-12-02, got %q", got)
	}
}

func TestEditorCustomQR(t *testing.T) {
	a := newTestApp(t)
	var m tea.Model = NewEditorModel(a)

	img := filepath.Join(t.TempDir(), "gpay.png")
	if err := os.WriteFile(img, []byte("png"), 0644); err != nil {
		t.Fatalf("write image: %v", err)
	}

	m = press(t, m, runes("u"))
	m = press(t, m, runes(img))
	m = press(t, m, enterKey)

	if path, ok := a.Session.CustomQR(); !ok || path != img {
		t.Fatalf("expected custom QR %q, got %q", img, path)
	}
	if strings.Contains(m.View(), "upi://") {
		t.Errorf("custom QR should hide the generated payload")
	}

	m = press(t, m, runes("x"))
	if _, ok := a.Session.CustomQR(); ok {
		t.Errorf("expected custom QR to be cleared")
	}
	if !strings.Contains(m.View(), "upi://pay?pa=brandlift@upi&pn=Brandlift&am=0") {
		t.Errorf("expected generated payload after clearing")
	}
}

func TestEditorCustomQRMissingFile(t *testing.T) {
	a := newTestApp(t)
	var m tea.Model = NewEditorModel(a)

	m = press(t, m, runes("u"))
	m = press(t, m, runes(filepath.Join(t.TempDir(), "missing.png")))
	m = press(t, m, enterKey)

	if editor(m).err == nil {
		t.Errorf("expected error for a missing image")
	}
	if _, ok := a.Session.CustomQR(); ok {
		t.Errorf("custom QR should not be set")
	}
}

func TestEditorExport(t *testing.T) {
	a := newTestApp(t)
	var m tea.Model = NewEditorModel(a)

	m = pressAndRun(t, m, runes("e"))
	want := filepath.Join(a.Config.Invoice.OutputDir, "BL-25-12-01.txt")
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("expected exported file: %v", err)
	}
	if !strings.Contains(editor(m).statusMsg, want) {
		t.Errorf("expected status to name the file, got %q", editor(m).statusMsg)
	}
}

func TestHistoryLoadsSelectedInvoice(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t)

	older := &domain.InvoiceRecord{
		ID: "BL-25-11-01", ClientName: "Older",
		Items:   []domain.LineItem{{Name: "Audit", Price: 100, Qty: 1}},
		SavedAt: fixedNow.Add(-48 * time.Hour),
	}
	newer := &domain.InvoiceRecord{
		ID:      "BL-25-12-02",
		Items:   []domain.LineItem{{Name: "Logo", Price: 300, Qty: 2}},
		SavedAt: fixedNow.Add(-time.Hour),
	}
	for _, rec := range []*domain.InvoiceRecord{older, newer} {
		if _, err := a.InvoiceRepo.Save(ctx, rec, false); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	var m tea.Model = NewHistoryModel(a)
	m, _ = m.Update(m.Init()())

	view := m.View()
	if strings.Index(view, "BL-25-12-02") > strings.Index(view, "BL-25-11-01") {
		t.Errorf("expected newest invoice first:\n%s", view)
	}
	if !strings.Contains(view, "Unknown Client") {
		t.Errorf("expected placeholder for a blank client name")
	}

	m = press(t, m, downKey)
	_, cmd := m.Update(enterKey)
	if cmd == nil {
		t.Fatalf("expected a screen switch command")
	}
	if sw, ok := cmd().(SwitchScreenMsg); !ok || sw.Screen != ScreenEditor {
		t.Errorf("expected switch to editor, got %#v", sw)
	}

	cur := a.Session.Current()
	if cur.ID != "BL-25-11-01" || cur.ClientName != "Older" || cur.Total() != 100 {
		t.Errorf("unexpected loaded invoice %+v", cur)
	}
}

func TestHistoryReloadsOnSave(t *testing.T) {
	a := newTestApp(t)
	var m tea.Model = NewHistoryModel(a)
	m, _ = m.Update(m.Init()())

	if !strings.Contains(m.View(), "No history found") {
		t.Fatalf("expected empty history")
	}

	if _, err := a.Session.Save(context.Background(), false); err != nil {
		t.Fatalf("save: %v", err)
	}
	m = pressAndRun(t, m, sessionChangeMsg{change: service.Change{Kind: service.ChangeHistory}})

	if !strings.Contains(m.View(), "BL-25-12-01") {
		t.Errorf("expected saved invoice in history")
	}
}

func TestSettingsSavesUPIID(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t)
	var m tea.Model = NewSettingsModel(a)

	m = press(t, m, enterKey)
	for i := 0; i < len("brandlift@upi"); i++ {
		m = press(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	}
	m = press(t, m, runes("studio@okaxis"))
	m = pressAndRun(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})

	if got := a.Session.UPIID(ctx); got != "studio@okaxis" {
		t.Fatalf("expected saved UPI ID, got %q", got)
	}
	if !strings.Contains(a.Session.PaymentPayload(ctx), "pa=studio@okaxis") {
		t.Errorf("expected payload to use the new UPI ID")
	}
	if m.(*SettingsModel).IsCapturingInput() {
		t.Errorf("expected settings form to close after saving")
	}
}

func TestRootModelForwardsSessionChanges(t *testing.T) {
	a := newTestApp(t)
	root := New(a)

	a.Session.AddItem()

	msg := waitForChange(root.changes)()
	change, ok := msg.(sessionChangeMsg)
	if !ok || change.change.Kind != service.ChangeTotals {
		t.Fatalf("expected a totals change, got %#v", msg)
	}

	next, cmd := root.Update(change)
	if cmd == nil {
		t.Errorf("expected the change listener to be re-armed")
	}
	if next.(Model).currentScreen != ScreenEditor {
		t.Errorf("expected editor to stay active")
	}
}

func TestRootModelNavigation(t *testing.T) {
	a := newTestApp(t)
	var m tea.Model = New(a)

	m, _ = m.Update(runes("h"))
	if got := m.(Model).currentScreen; got != ScreenHistory {
		t.Fatalf("expected history screen, got %s", got)
	}

	m, _ = m.Update(runes(","))
	if got := m.(Model).currentScreen; got != ScreenSettings {
		t.Fatalf("expected settings screen, got %s", got)
	}

	m, _ = m.Update(runes("i"))
	if got := m.(Model).currentScreen; got != ScreenEditor {
		t.Fatalf("expected editor screen, got %s", got)
	}

	// While a cell is being edited, navigation keys are typed instead
	m, _ = m.Update(enterKey)
	m, _ = m.Update(runes("h"))
	if got := m.(Model).currentScreen; got != ScreenEditor {
		t.Errorf("expected editor to keep focus while typing, got %s", got)
	}
}

func TestEditorEscAfterRowRemovedReportsError(t *testing.T) {
	a := newTestApp(t)
	a.Session.AddItem()
	var m tea.Model = NewEditorModel(a)

	// Edit the second item's name, then lose that row underneath the editor
	for i := 0; i < 7; i++ {
		m = press(t, m, downKey)
	}
	m = press(t, m, enterKey)
	if err := a.Session.RemoveItem(1); err != nil {
		t.Fatalf("remove: %v", err)
	}

	m = press(t, m, escKey)
	if editor(m).IsCapturingInput() {
		t.Fatalf("expected esc to leave edit mode")
	}
	if !errors.Is(editor(m).err, domain.ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", editor(m).err)
	}
	if got, last := editor(m).cursor, len(editor(m).cells())-1; got > last {
		t.Errorf("cursor %d past last cell %d", got, last)
	}
	if len(a.Session.Items()) != 1 {
		t.Errorf("expected the remaining item to be untouched")
	}
	_ = m.View()
}
