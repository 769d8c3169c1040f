package ui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/kombefarm/flockdash/internal/dashboard"
	"github.com/kombefarm/flockdash/internal/grid"
	"github.com/kombefarm/flockdash/internal/logging"
	"github.com/kombefarm/flockdash/internal/logtail"
	"github.com/kombefarm/flockdash/internal/poultry"
	"github.com/kombefarm/flockdash/internal/prefs"
	"github.com/kombefarm/flockdash/internal/session"
	"github.com/kombefarm/flockdash/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewGrid View = iota
	ViewDetail
	ViewLogs
)

// exportBaseName prefixes every export file name.
const exportBaseName = "flocks"

// Options configures the UI.
type Options struct {
	Context   context.Context
	Client    dashboard.Client
	User      session.User
	Logger    *zap.Logger
	Prefs     prefs.Prefs
	PrefsPath string
	LogPath   string
	ExportDir string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	client    dashboard.Client
	user      session.User
	logger    *zap.Logger
	baseLog   *zap.Logger
	prefs     prefs.Prefs
	prefsPath string
	logPath   string
	exportDir string
	keys      keyMap

	// Collaborators shared with command goroutines
	ctrl      *dashboard.Controller
	grid      *grid.Grid[poultry.FlockRecord]
	confirmer *promptConfirmer
	router    *chanRouter

	// UI state
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	spinner     spinner.Model
	showHelp    bool
	status      string
	statusSeq   int
	statusError bool

	// Data state
	snapshot state.Snapshot

	// Grid state
	selectedRow int
	selectedCol int

	// Overlays
	modal   Modal
	confirm Modal
	prompts []confirmRequest

	// Detail state
	detail     dashboard.Detail
	detailPath string

	// Log state
	logViewport viewport.Model
	logEntries  []logtail.Entry
	logFollow   bool
	logErr      error
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	base := opts.Logger
	if base == nil {
		base = zap.NewNop()
	}
	p := opts.Prefs
	if p.Theme == "" {
		p.Theme = prefs.Defaults().Theme
	}
	exportDir := opts.ExportDir
	if exportDir == "" {
		exportDir = "."
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		ctx:       ctx,
		client:    opts.Client,
		user:      opts.User,
		logger:    logging.Named(base, "ui"),
		baseLog:   base,
		prefs:     p,
		prefsPath: opts.PrefsPath,
		logPath:   opts.LogPath,
		exportDir: exportDir,
		keys:      DefaultKeyMap(),
		confirmer: newPromptConfirmer(),
		router:    newChanRouter(),
		theme:     GetTheme(p.Theme),
		spinner:   sp,
		logFollow: true,
	}
	m.mount()
	return m
}

// mount builds a fresh grid and controller, discarding all dashboard state.
// It backs both startup and the full reload.
func (m *Model) mount() {
	m.grid = dashboard.NewFlockGrid(m.prefs.PageSize)
	m.ctrl = dashboard.New(m.client, m.user, nil,
		dashboard.WithLogger(logging.Named(m.baseLog, "dashboard")),
		dashboard.WithRouter(m.router),
		dashboard.WithExporter(m.grid),
	)
	m.snapshot = m.ctrl.Snapshot()
	m.selectedRow, m.selectedCol = 0, 0
	m.modal = nil
	m.dismissPrompts()
	m.currentView = ViewGrid
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		loadCmd(m.ctx, m.ctrl),
		waitForPrompt(m.confirmer),
		waitForRoute(m.router),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.logViewport = viewport.New(msg.Width, max(msg.Height-4, 1))
		}
		m.ready = true
		m.resizeLogViewport()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case loadedMsg:
		if msg.ctrl != m.ctrl {
			return m, nil
		}
		m.refresh()
		if msg.err != nil {
			m.logger.Debug("load finished with error", zap.Error(msg.err))
		}
		return m, nil

	case actionDoneMsg:
		if msg.ctrl != m.ctrl {
			return m, nil
		}
		m.refresh()
		return m, m.reportAction(msg)

	case exportDoneMsg:
		if msg.err != nil {
			return m, m.setStatus("Export failed: "+msg.err.Error(), true)
		}
		return m, m.setStatus("Exported "+msg.path, false)

	case statusExpiredMsg:
		if int(msg) == m.statusSeq {
			m.status = ""
		}
		return m, nil

	case routeMsg:
		m.openRoute(string(msg))
		return m, waitForRoute(m.router)

	case confirmRequestMsg:
		m.prompts = append(m.prompts, confirmRequest(msg))
		if m.snapshot.Halted() {
			m.dismissPrompts()
		} else {
			m.nextPrompt()
		}
		return m, waitForPrompt(m.confirmer)

	case submitFormMsg:
		return m, submitCmd(m.ctx, m.ctrl, m.confirmer)

	case applyFilterMsg:
		m.grid.SetFilter(msg.field, msg.text)
		m.selectedRow = 0
		return m, nil

	case logsLoadedMsg:
		m.logEntries = msg.entries
		m.logErr = msg.err
		m.updateLogViewport()
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.snapshot.Halted() {
		return m.renderErrorPanel()
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.confirm != nil {
		return m.confirm.View(m.theme, m.width, m.height)
	}
	if m.modal != nil {
		modal := m.modal
		if form, ok := modal.(formModal); ok {
			modal = form.sync(m.snapshot)
		}
		return modal.View(m.theme, m.width, m.height)
	}
	return m.renderMain()
}

// handleKey processes keyboard input. Overlays take keys before the views.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// A halted dashboard only quits or reloads.
	if m.snapshot.Halted() {
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Reload):
			return m.reload()
		}
		return m, nil
	}

	if m.confirm != nil {
		next, cmd, closed := m.confirm.Update(msg, m.keys)
		m.confirm = next
		if closed {
			m.confirm = nil
			m.prompts = m.prompts[1:]
			m.nextPrompt()
		}
		return m, cmd
	}

	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if m.modal != nil {
		next, cmd, closed := m.modal.Update(msg, m.keys)
		m.modal = next
		if closed {
			m.modal = nil
			m.refresh()
		}
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.CycleTheme):
		m.cycleTheme()
		return m, nil
	case key.Matches(msg, m.keys.Reload):
		return m.reload()
	}

	switch m.currentView {
	case ViewDetail:
		if key.Matches(msg, m.keys.Escape) {
			m.currentView = ViewGrid
		}
		return m, nil
	case ViewLogs:
		return m.handleLogsKey(msg)
	default:
		return m.handleGridKey(msg)
	}
}

// reload discards the controller and grid and loads from scratch, the
// terminal equivalent of refreshing the page.
func (m Model) reload() (tea.Model, tea.Cmd) {
	m.logger.Info("full reload requested")
	m.mount()
	m.status = ""
	return m, loadCmd(m.ctx, m.ctrl)
}

// refresh pulls the controller's state into the model and the grid.
func (m *Model) refresh() {
	m.snapshot = m.ctrl.Snapshot()
	m.grid.SetRows(m.snapshot.Rows)
	m.clampSelection()
	if _, ok := m.modal.(formModal); ok && !m.snapshot.DialogOpen {
		m.modal = nil
	}
	// The error panel hides every overlay, so no prompt may stay pending.
	if m.snapshot.Halted() {
		m.dismissPrompts()
	}
}

func (m *Model) reportAction(msg actionDoneMsg) tea.Cmd {
	var fieldErr *state.FieldError
	switch {
	case msg.err == nil:
		return nil
	case errors.Is(msg.err, dashboard.ErrInFlight):
		return m.setStatus(fmt.Sprintf("A %s is already in progress", msg.action), true)
	case errors.Is(msg.err, dashboard.ErrHalted), errors.As(msg.err, &fieldErr):
		return nil
	case errors.Is(msg.err, dashboard.ErrNoRouter), errors.Is(msg.err, dashboard.ErrNoExporter):
		return m.setStatus(msg.err.Error(), true)
	}
	// Backend failures are already in LastError and replace the view.
	m.logger.Debug("action failed", zap.String("action", msg.action), zap.Error(msg.err))
	return nil
}

func (m *Model) setStatus(text string, isError bool) tea.Cmd {
	m.statusSeq++
	m.status = text
	m.statusError = isError
	seq := m.statusSeq
	return tea.Tick(StatusTTL, func(time.Time) tea.Msg { return statusExpiredMsg(seq) })
}

// nextPrompt shows the oldest queued confirmation, if none is showing.
func (m *Model) nextPrompt() {
	if m.confirm == nil && len(m.prompts) > 0 {
		m.confirm = newConfirmModal(m.prompts[0])
	}
}

// dismissPrompts answers every queued confirmation with "no".
func (m *Model) dismissPrompts() {
	for _, req := range m.prompts {
		newConfirmModal(req).answer(false)
	}
	m.prompts = nil
	m.confirm = nil
}

func (m *Model) cycleTheme() {
	m.theme = GetTheme(NextTheme(m.theme.Name))
	m.prefs.Theme = m.theme.Name
	m.savePrefs()
}

// cyclePageSize steps through pageSizes and persists the choice.
func (m *Model) cyclePageSize() tea.Cmd {
	next := pageSizes[0]
	for _, size := range pageSizes {
		if size > m.grid.PageSize() {
			next = size
			break
		}
	}
	m.grid.SetPageSize(next)
	m.selectedRow = 0
	m.prefs.PageSize = next
	m.savePrefs()
	return m.setStatus(fmt.Sprintf("%d rows per page", next), false)
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
		m.logger.Warn("save preferences failed", zap.Error(err))
	}
}

func (m *Model) openRoute(path string) {
	detail, ok := dashboard.ParseDetailPath(path)
	if !ok {
		m.logger.Warn("unknown route", zap.String("path", path))
		return
	}
	m.detail = detail
	m.detailPath = path
	m.currentView = ViewDetail
}

// renderMain renders the header, the command bar and the active view.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderContent())
	return b.String()
}

func (m Model) renderContent() string {
	switch m.currentView {
	case ViewDetail:
		return m.renderDetail()
	case ViewLogs:
		return m.renderLogs()
	default:
		return m.renderGrid()
	}
}

// Messages

type loadedMsg struct {
	ctrl *dashboard.Controller
	err  error
}

type actionDoneMsg struct {
	ctrl   *dashboard.Controller
	action string
	err    error
}

type exportDoneMsg struct {
	path string
	err  error
}

type statusExpiredMsg int

type routeMsg string

// Commands

func loadCmd(ctx context.Context, ctrl *dashboard.Controller) tea.Cmd {
	return func() tea.Msg {
		return loadedMsg{ctrl: ctrl, err: ctrl.Load(ctx)}
	}
}

func submitCmd(ctx context.Context, ctrl *dashboard.Controller, confirmer dashboard.Confirmer) tea.Cmd {
	return func() tea.Msg {
		return actionDoneMsg{ctrl: ctrl, action: "save", err: ctrl.Submit(ctx, confirmer)}
	}
}

func deleteCmd(ctx context.Context, ctrl *dashboard.Controller, id int64, confirmer dashboard.Confirmer) tea.Cmd {
	return func() tea.Msg {
		return actionDoneMsg{ctrl: ctrl, action: "delete", err: ctrl.Delete(ctx, id, confirmer)}
	}
}

func navigateCmd(ctrl *dashboard.Controller, rec poultry.FlockRecord) tea.Cmd {
	return func() tea.Msg {
		return actionDoneMsg{ctrl: ctrl, action: "navigation", err: ctrl.Navigate(rec)}
	}
}

func exportCmd(ctrl *dashboard.Controller, dir string, format grid.Format, now time.Time) tea.Cmd {
	return func() tea.Msg {
		path := filepath.Join(dir, grid.FileName(exportBaseName, format, now))
		return exportDoneMsg{path: path, err: ctrl.ExportFile(path, format)}
	}
}

// chanRouter hands detail paths from Navigate to the UI loop.
type chanRouter struct {
	paths chan string
}

func newChanRouter() *chanRouter {
	return &chanRouter{paths: make(chan string, 1)}
}

// NavigateTo queues path for the UI loop.
func (r *chanRouter) NavigateTo(path string) {
	r.paths <- path
}

func waitForRoute(r *chanRouter) tea.Cmd {
	return func() tea.Msg {
		return routeMsg(<-r.paths)
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
