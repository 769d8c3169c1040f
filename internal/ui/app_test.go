package ui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kombefarm/flockdash/internal/dashboard"
	"github.com/kombefarm/flockdash/internal/grid"
	"github.com/kombefarm/flockdash/internal/poultry"
	"github.com/kombefarm/flockdash/internal/prefs"
	"github.com/kombefarm/flockdash/internal/session"
)

var (
	broiler = poultry.FlockRecord{
		FlockID: 1, FlockName: "House A", FlockType: "Broiler", StockDate: "2024-01-01",
		NbrOfBirds: 100, Purpose: "Meat", Reduction: 5, Mortality: 2, StockRemaining: 93,
	}
	kuroiler = poultry.FlockRecord{
		FlockID: 2, FlockName: "House B", FlockType: "Kuroiler", StockDate: "2024-02-10",
		NbrOfBirds: 50, Purpose: "Eggs", Mortality: 47, StockRemaining: 3,
	}
)

// fakeClient is an in-memory backend. When createGate is set, CreateFlock
// signals entered and blocks until the gate closes.
type fakeClient struct {
	mu      sync.Mutex
	rows    []poultry.FlockRecord
	listErr error
	lists   int
	creates []poultry.FlockRecord
	updates []int64
	deletes []int64

	createGate chan struct{}
	entered    chan struct{}
}

func (f *fakeClient) ListFlocks(context.Context, poultry.Credentials) ([]poultry.FlockRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]poultry.FlockRecord(nil), f.rows...), nil
}

func (f *fakeClient) CreateFlock(_ context.Context, _ poultry.Credentials, record poultry.FlockRecord) (*poultry.FlockRecord, error) {
	if f.createGate != nil {
		f.entered <- struct{}{}
		<-f.createGate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates = append(f.creates, record)
	record.FlockID = int64(len(f.rows) + 1)
	f.rows = append(f.rows, record)
	return &record, nil
}

func (f *fakeClient) UpdateFlock(_ context.Context, _ poultry.Credentials, id int64, _ poultry.FlockRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, id)
	return nil
}

func (f *fakeClient) DeleteFlock(_ context.Context, _ poultry.Credentials, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, id)
	return nil
}

func (f *fakeClient) counts() (lists, creates, updates, deletes int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lists, len(f.creates), len(f.updates), len(f.deletes)
}

func newTestModel(t *testing.T, client *fakeClient, opts Options) Model {
	t.Helper()
	opts.Client = client
	opts.User = session.User{Username: "amina", AccessToken: "tok"}
	if opts.ExportDir == "" {
		opts.ExportDir = t.TempDir()
	}
	m := New(opts)
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	return update(t, m, loadCmd(m.ctx, m.ctrl)())
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, s string) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(keyPress(s))
	return next.(Model), cmd
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	for _, r := range text {
		m, _ = press(t, m, string(r))
	}
	return m
}

// submit presses enter in the open form and returns the submit command.
func submit(t *testing.T, m Model) (Model, tea.Cmd) {
	t.Helper()
	m, cmd := press(t, m, "enter")
	if cmd == nil {
		t.Fatalf("enter in form returned no command")
	}
	next, submitCmd := m.Update(cmd())
	if submitCmd == nil {
		t.Fatalf("submitFormMsg returned no command")
	}
	return next.(Model), submitCmd
}

// answerPrompt waits for the controller's question and answers it.
func answerPrompt(t *testing.T, m Model, answer string) (Model, string) {
	t.Helper()
	m = update(t, m, waitForPrompt(m.confirmer)())
	view := m.View()
	m, _ = press(t, m, answer)
	if m.confirm != nil {
		t.Fatalf("confirm modal still open after %q", answer)
	}
	return m, view
}

func TestModel_LoadFillsGrid(t *testing.T) {
	client := &fakeClient{rows: []poultry.FlockRecord{broiler, kuroiler}}
	m := newTestModel(t, client, Options{})

	if got := m.grid.Total(); got != 2 {
		t.Fatalf("grid rows = %d, want 2", got)
	}
	view := m.View()
	for _, want := range []string{reportTitle, reportSubtitle, "amina", "Breed", "Remaining", "Kuroiler", "Update View Delete"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
	if strings.Contains(view, "Stock Date") {
		t.Fatalf("hidden column rendered:\n%s", view)
	}
}

func TestModel_LoadFailureShowsOnlyErrorPanel(t *testing.T) {
	client := &fakeClient{listErr: errors.New("connection refused")}
	m := newTestModel(t, client, Options{})

	view := m.View()
	if !strings.Contains(view, "connection refused : Contact Support or Try again later !") {
		t.Fatalf("error panel missing message:\n%s", view)
	}
	if strings.Contains(view, reportTitle) {
		t.Fatalf("grid still visible behind error panel")
	}

	m, cmd := press(t, m, "n")
	if cmd != nil || m.modal != nil {
		t.Fatalf("halted dashboard opened a dialog")
	}

	old := m.ctrl
	client.mu.Lock()
	client.listErr = nil
	client.rows = []poultry.FlockRecord{broiler}
	client.mu.Unlock()

	m, cmd = press(t, m, "ctrl+r")
	if cmd == nil {
		t.Fatalf("reload returned no command")
	}
	if m.ctrl == old {
		t.Fatalf("reload kept the old controller")
	}
	m = update(t, m, cmd())
	if m.snapshot.Halted() || m.grid.Total() != 1 {
		t.Fatalf("after reload halted=%v rows=%d", m.snapshot.Halted(), m.grid.Total())
	}

	// A late result from the discarded controller is ignored.
	m = update(t, m, loadedMsg{ctrl: old, err: errors.New("stale")})
	if m.grid.Total() != 1 {
		t.Fatalf("stale message changed the grid")
	}
}

func TestModel_FailureWhilePromptQueuedKeepsReloadReachable(t *testing.T) {
	client := &fakeClient{rows: []poultry.FlockRecord{broiler}}
	m := newTestModel(t, client, Options{})

	pending := confirmRequest{prompt: dashboard.UpdatePrompt, reply: make(chan bool, 1)}
	m = update(t, m, confirmRequestMsg(pending))
	if m.confirm == nil {
		t.Fatalf("prompt not shown")
	}

	// A delete that started earlier succeeds, but its re-fetch fails.
	client.mu.Lock()
	client.listErr = errors.New("connection refused")
	client.mu.Unlock()
	yes := dashboard.ConfirmFunc(func(context.Context, string) bool { return true })
	m = update(t, m, deleteCmd(context.Background(), m.ctrl, broiler.FlockID, yes)())

	if !m.snapshot.Halted() {
		t.Fatalf("dashboard not halted")
	}
	if m.confirm != nil || len(m.prompts) != 0 {
		t.Fatalf("prompt still pending behind the error panel")
	}
	if got := <-pending.reply; got {
		t.Fatalf("hidden prompt answered yes")
	}

	late := confirmRequest{prompt: dashboard.DeletePrompt, reply: make(chan bool, 1)}
	m = update(t, m, confirmRequestMsg(late))
	if m.confirm != nil {
		t.Fatalf("prompt shown over the error panel")
	}
	if got := <-late.reply; got {
		t.Fatalf("late prompt answered yes")
	}

	client.mu.Lock()
	client.listErr = nil
	client.mu.Unlock()
	m, cmd := press(t, m, "ctrl+r")
	if cmd == nil {
		t.Fatalf("ctrl+r ignored while halted")
	}
	m = update(t, m, cmd())
	if m.snapshot.Halted() {
		t.Fatalf("still halted after reload")
	}
}

func TestModel_CreateSubmitsWithoutPrompt(t *testing.T) {
	client := &fakeClient{rows: []poultry.FlockRecord{broiler}}
	m := newTestModel(t, client, Options{})

	m, _ = press(t, m, "n")
	if _, ok := m.modal.(formModal); !ok {
		t.Fatalf("modal = %T, want formModal", m.modal)
	}
	m = typeText(t, m, "Layers")
	m, _ = press(t, m, "tab")
	m = typeText(t, m, "50")

	form := m.ctrl.Snapshot().Form
	if form.Value(poultry.FieldFlockName) != "Layers" || form.Value(poultry.FieldNbrOfBirds) != "50" {
		t.Fatalf("form values = %v", form.Values())
	}

	m, cmd := submit(t, m)
	m = update(t, m, cmd())

	if m.modal != nil {
		t.Fatalf("dialog still open after create")
	}
	lists, creates, _, _ := client.counts()
	if creates != 1 || lists != 2 {
		t.Fatalf("creates=%d lists=%d, want 1 and 2", creates, lists)
	}
	if client.creates[0].FlockName != "Layers" || client.creates[0].NbrOfBirds != 50 {
		t.Fatalf("created %+v", client.creates[0])
	}
	if m.grid.Total() != 2 {
		t.Fatalf("grid rows = %d, want 2", m.grid.Total())
	}
}

func TestModel_InvalidNumberStaysInForm(t *testing.T) {
	client := &fakeClient{}
	m := newTestModel(t, client, Options{})

	m, _ = press(t, m, "n")
	m, _ = press(t, m, "tab")
	m = typeText(t, m, "abc")
	m, cmd := submit(t, m)
	m = update(t, m, cmd())

	if m.modal == nil {
		t.Fatalf("dialog closed on invalid input")
	}
	if view := m.View(); !strings.Contains(view, "is not a valid number") {
		t.Fatalf("inline error missing:\n%s", view)
	}
	if _, creates, _, _ := client.counts(); creates != 0 {
		t.Fatalf("creates = %d, want 0", creates)
	}
}

func TestModel_TwoRapidSubmitsMakeOneCall(t *testing.T) {
	client := &fakeClient{
		createGate: make(chan struct{}),
		entered:    make(chan struct{}, 1),
	}
	m := newTestModel(t, client, Options{})
	m, _ = press(t, m, "n")
	m = typeText(t, m, "Layers")

	m, first := submit(t, m)
	m, second := submit(t, m)

	done := make(chan tea.Msg, 1)
	go func() { done <- first() }()
	<-client.entered

	msg := second().(actionDoneMsg)
	if !errors.Is(msg.err, dashboard.ErrInFlight) {
		t.Fatalf("second submit err = %v, want ErrInFlight", msg.err)
	}
	m = update(t, m, msg)
	if !strings.Contains(m.status, "already in progress") {
		t.Fatalf("status = %q", m.status)
	}

	close(client.createGate)
	m = update(t, m, <-done)
	if _, creates, _, _ := client.counts(); creates != 1 {
		t.Fatalf("creates = %d, want 1", creates)
	}
	if m.modal != nil {
		t.Fatalf("dialog still open")
	}
}

func TestModel_UpdateAsksFirst(t *testing.T) {
	client := &fakeClient{rows: []poultry.FlockRecord{broiler}}
	m := newTestModel(t, client, Options{})

	m, _ = press(t, m, "u")
	form, ok := m.modal.(formModal)
	if !ok || form.id != broiler.FlockID {
		t.Fatalf("modal = %#v, want update form for flock 1", m.modal)
	}
	if !strings.Contains(m.View(), "Update flock #1 House A") {
		t.Fatalf("form title missing:\n%s", m.View())
	}

	m, cmd := submit(t, m)
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	m, view := answerPrompt(t, m, "y")
	if !strings.Contains(view, "update this row") {
		t.Fatalf("prompt view:\n%s", view)
	}
	m = update(t, m, <-done)

	if _, _, updates, _ := client.counts(); updates != 1 || client.updates[0] != broiler.FlockID {
		t.Fatalf("updates = %v", client.updates)
	}
	if m.modal != nil {
		t.Fatalf("dialog still open after update")
	}
}

func TestModel_DeleteDeclinedMakesNoCall(t *testing.T) {
	client := &fakeClient{rows: []poultry.FlockRecord{broiler}}
	m := newTestModel(t, client, Options{})

	m, cmd := press(t, m, "d")
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	m, view := answerPrompt(t, m, "n")
	if !strings.Contains(view, "delete this stock") {
		t.Fatalf("prompt view:\n%s", view)
	}
	update(t, m, <-done)

	lists, _, _, deletes := client.counts()
	if deletes != 0 || lists != 1 {
		t.Fatalf("deletes=%d lists=%d, want 0 and 1", deletes, lists)
	}
}

func TestModel_DeleteConfirmedRefetches(t *testing.T) {
	client := &fakeClient{rows: []poultry.FlockRecord{broiler, kuroiler}}
	m := newTestModel(t, client, Options{})

	m, _ = press(t, m, "down")
	m, cmd := press(t, m, "d")
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	m, _ = answerPrompt(t, m, "y")
	update(t, m, <-done)

	lists, _, _, deletes := client.counts()
	if deletes != 1 || client.deletes[0] != kuroiler.FlockID || lists != 2 {
		t.Fatalf("deletes=%v lists=%d", client.deletes, lists)
	}
}

func TestModel_ViewOpensDetailRoute(t *testing.T) {
	client := &fakeClient{rows: []poultry.FlockRecord{broiler}}
	m := newTestModel(t, client, Options{})

	m, cmd := press(t, m, "v")
	m = update(t, m, cmd())
	m = update(t, m, waitForRoute(m.router)())

	if m.currentView != ViewDetail {
		t.Fatalf("view = %v, want detail", m.currentView)
	}
	if m.detailPath != "/flockDetails/1/Broiler/93/0/5/2/2024-01-01/Meat" {
		t.Fatalf("detail path = %q", m.detailPath)
	}
	if view := m.View(); !strings.Contains(view, "Broiler") || !strings.Contains(view, "Flock details") {
		t.Fatalf("detail view:\n%s", view)
	}

	m, _ = press(t, m, "esc")
	if m.currentView != ViewGrid {
		t.Fatalf("esc left view %v", m.currentView)
	}
}

func TestModel_SortAndFilterSelectedColumn(t *testing.T) {
	client := &fakeClient{rows: []poultry.FlockRecord{broiler, kuroiler}}
	m := newTestModel(t, client, Options{})

	m, _ = press(t, m, "right")
	m, _ = press(t, m, "s")
	m, _ = press(t, m, "s")
	if got := m.grid.Sort(); got.Field != poultry.FieldFlockType || got.Direction != grid.Descending {
		t.Fatalf("sort = %+v", got)
	}
	if first := m.grid.Page()[0]; first.FlockID != kuroiler.FlockID {
		t.Fatalf("first row = %d, want kuroiler", first.FlockID)
	}

	m, _ = press(t, m, "/")
	if _, ok := m.modal.(filterModal); !ok {
		t.Fatalf("modal = %T, want filterModal", m.modal)
	}
	m = typeText(t, m, "BROIL")
	m, cmd := press(t, m, "enter")
	m = update(t, m, cmd())
	if m.grid.Len() != 1 || m.grid.Page()[0].FlockID != broiler.FlockID {
		t.Fatalf("filtered rows = %d", m.grid.Len())
	}

	m, _ = press(t, m, "c")
	if m.grid.Len() != 2 {
		t.Fatalf("clear filters left %d rows", m.grid.Len())
	}
}

func TestModel_ExportWritesFile(t *testing.T) {
	dir := t.TempDir()
	client := &fakeClient{rows: []poultry.FlockRecord{broiler}}
	m := newTestModel(t, client, Options{ExportDir: dir})

	m, cmd := press(t, m, "x")
	msg := cmd().(exportDoneMsg)
	if msg.err != nil {
		t.Fatalf("export err = %v", msg.err)
	}
	if filepath.Dir(msg.path) != dir || filepath.Ext(msg.path) != ".csv" {
		t.Fatalf("export path = %q", msg.path)
	}
	data, err := os.ReadFile(msg.path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !strings.HasPrefix(string(data), "Flock Id,Breed,Stock Date") {
		t.Fatalf("export = %q", data)
	}
	m = update(t, m, msg)
	if !strings.HasPrefix(m.status, "Exported ") {
		t.Fatalf("status = %q", m.status)
	}
}

func TestModel_CycleThemeSavesPrefs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	m := newTestModel(t, &fakeClient{}, Options{PrefsPath: path, Prefs: prefs.Defaults()})

	m, _ = press(t, m, "T")
	if m.theme.Name != "Kanagawa" {
		t.Fatalf("theme = %q, want Kanagawa", m.theme.Name)
	}
	saved, err := prefs.Load(path)
	if err != nil {
		t.Fatalf("load prefs: %v", err)
	}
	if saved.Theme != "Kanagawa" || saved.PageSize != prefs.Defaults().PageSize {
		t.Fatalf("saved prefs = %+v", saved)
	}
}

func TestModel_PageSizeCyclesAndSaves(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	m := newTestModel(t, &fakeClient{rows: []poultry.FlockRecord{broiler, kuroiler}}, Options{PrefsPath: path, Prefs: prefs.Defaults()})

	for _, want := range []int{25, 50, 100, 25} {
		m, _ = press(t, m, "p")
		if got := m.grid.PageSize(); got != want {
			t.Fatalf("page size = %d, want %d", got, want)
		}
	}
	saved, err := prefs.Load(path)
	if err != nil {
		t.Fatalf("load prefs: %v", err)
	}
	if saved.PageSize != 25 {
		t.Fatalf("saved page size = %d, want 25", saved.PageSize)
	}

	m, _ = press(t, m, "ctrl+r")
	if got := m.grid.PageSize(); got != 25 {
		t.Fatalf("page size after reload = %d, want 25", got)
	}
}

func TestModel_ActivityLogShowsEntries(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "flockdash.log")
	line := `{"level":"error","timestamp":"2026-10-16T09:05:03.120Z","logger":"dashboard","msg":"list flocks failed","error":"boom"}` + "\n"
	if err := os.WriteFile(logPath, []byte(line), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}
	m := newTestModel(t, &fakeClient{}, Options{LogPath: logPath})

	m, cmd := press(t, m, "l")
	if m.currentView != ViewLogs {
		t.Fatalf("view = %v, want logs", m.currentView)
	}
	m = update(t, m, cmd())
	if view := m.View(); !strings.Contains(view, "list flocks failed") || !strings.Contains(view, "1 entries") {
		t.Fatalf("log view:\n%s", view)
	}

	m, _ = press(t, m, " ")
	if m.logFollow {
		t.Fatalf("space did not pause follow")
	}
	m, _ = press(t, m, "esc")
	if m.currentView != ViewGrid {
		t.Fatalf("esc left view %v", m.currentView)
	}
}

func TestModel_HelpListsBindings(t *testing.T) {
	m := newTestModel(t, &fakeClient{}, Options{})
	m, _ = press(t, m, "?")
	view := m.View()
	for _, want := range []string{"Keyboard Shortcuts", "New flock", "Export Excel", "Reload everything"} {
		if !strings.Contains(view, want) {
			t.Fatalf("help missing %q", want)
		}
	}
	m, _ = press(t, m, "x")
	if m.showHelp {
		t.Fatalf("any key should close help")
	}
}
