// Package tui implements the interactive workspace view: a live, polling
// synchronized tree of the agent's files with per-file preview, download,
// and feature-gated upload/delete.
package tui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agentdeck/agentdeck/internal/models"
	"github.com/agentdeck/agentdeck/internal/ratelimit"
	"github.com/agentdeck/agentdeck/internal/workspace"
)

// noticeFadeDelay is how long a status-bar notice stays visible.
const noticeFadeDelay = 4 * time.Second

// Messages delivered through the bubbletea loop. Operation completions
// carry errors back to the single event loop; all state commits happen
// there, so late results can never race user input.
type (
	tickMsg        time.Time
	refreshDoneMsg struct{}
	previewDoneMsg struct {
		path string
		err  error
	}
	downloadDoneMsg struct {
		path string
		dest string
		err  error
	}
	deleteDoneMsg struct{ err error }
	noticeFadeMsg struct{}
)

// Options configures the workspace view.
type Options struct {
	PollInterval time.Duration
	DownloadDir  string

	// Feature flags gating the user-facing triggers. The controller
	// underneath is fully functional either way.
	EnableUpload bool
	EnableDelete bool

	// External collaborators, interface-only. Either may be nil.
	Stream        AgentStream
	Conversations ConversationAppender

	Keys  KeyMap
	Theme Theme
}

// Model is the bubbletea model for the workspace view.
type Model struct {
	syncer     *workspace.Syncer
	controller *workspace.Controller
	expansion  *workspace.ExpansionState
	opts       Options

	rows   []Row
	cursor int
	offset int // first visible tree row

	preview     viewport.Model
	showPreview bool

	spinner spinner.Model

	// One loading flag shared across every operation kind: the view
	// serializes visual feedback even though operations themselves are
	// concurrent and independent.
	loading bool

	notice    string
	noticeErr bool

	confirmingDelete bool

	width  int
	height int
}

// NewModel creates the workspace view over an already-wired syncer and
// controller.
func NewModel(syncer *workspace.Syncer, controller *workspace.Controller, opts Options) Model {
	if opts.PollInterval <= 0 {
		opts.PollInterval = ratelimit.DefaultPollInterval
	}
	if opts.Keys.Quit.Keys() == nil {
		opts.Keys = DefaultKeyMap
	}
	if opts.Theme.NormalText == "" {
		opts.Theme = DefaultTheme
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(opts.Theme.HeaderForeground)

	return Model{
		syncer:     syncer,
		controller: controller,
		expansion:  workspace.NewExpansionState(),
		opts:       opts,
		preview:    viewport.New(0, 0),
		spinner:    sp,
		loading:    true,
	}
}

// Init issues the immediate first refresh and arms the poll timer.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.refreshCmd(), m.tickCmd(), m.spinner.Tick)
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.opts.PollInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// refreshCmd runs a tree refresh off the event loop. The shared gate drops
// the fetch when another workspace call was just issued, so mashing the
// refresh key cannot exceed the allowed rate.
func (m Model) refreshCmd() tea.Cmd {
	syncer := m.syncer
	return func() tea.Msg {
		_ = syncer.Refresh(context.Background())
		return refreshDoneMsg{}
	}
}

func (m Model) previewCmd(path string) tea.Cmd {
	controller := m.controller
	return func() tea.Msg {
		err := controller.Preview(context.Background(), path)
		return previewDoneMsg{path: path, err: err}
	}
}

func (m Model) downloadCmd(path string) tea.Cmd {
	controller := m.controller
	dest := filepath.Join(m.opts.DownloadDir, filepath.Base(path))
	return func() tea.Msg {
		err := controller.Download(context.Background(), path, dest)
		return downloadDoneMsg{path: path, dest: dest, err: err}
	}
}

func (m Model) confirmDeleteCmd() tea.Cmd {
	controller := m.controller
	return func() tea.Msg {
		return deleteDoneMsg{err: controller.ConfirmDelete(context.Background())}
	}
}

func noticeFadeCmd() tea.Cmd {
	return tea.Tick(noticeFadeDelay, func(time.Time) tea.Msg {
		return noticeFadeMsg{}
	})
}

// setNotice replaces the status-bar notice and schedules its fade.
func (m *Model) setNotice(text string, isErr bool) tea.Cmd {
	m.notice = text
	m.noticeErr = isErr
	return noticeFadeCmd()
}

// reproject rebuilds the visible rows from the latest snapshot, clamping
// the cursor so a shrinking tree never leaves it out of range.
func (m *Model) reproject() {
	m.rows = Flatten(m.syncer.Tree(), m.expansion)
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// Update is the single suspension-free state transition point: every
// completion message commits here, interleaved with key events, never
// concurrently with them.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.preview.Width = m.previewWidth()
		m.preview.Height = m.bodyHeight()
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.refreshCmd(), m.tickCmd())

	case refreshDoneMsg:
		m.loading = false
		m.reproject()
		if err := m.syncer.Err(); err != nil {
			return m, m.setNotice("refresh failed, showing last known tree (r to retry)", true)
		}
		return m, nil

	case previewDoneMsg:
		m.loading = false
		if msg.err != nil {
			if errors.Is(msg.err, workspace.ErrNotPreviewable) {
				return m, m.setNotice(fmt.Sprintf("%s cannot be previewed; download it instead", filepath.Base(msg.path)), false)
			}
			return m, m.setNotice("preview failed: "+msg.err.Error(), true)
		}
		if sel := m.controller.Selected(); sel != nil {
			m.showPreview = true
			m.preview.Width = m.previewWidth()
			m.preview.Height = m.bodyHeight()
			m.preview.SetContent(sel.Content)
			m.preview.GotoTop()
		}
		return m, nil

	case downloadDoneMsg:
		m.loading = false
		if msg.err != nil {
			return m, m.setNotice("download failed: "+msg.err.Error(), true)
		}
		return m, m.setNotice("saved "+msg.dest, false)

	case deleteDoneMsg:
		m.loading = false
		m.confirmingDelete = false
		if msg.err != nil {
			return m, m.setNotice("delete failed: "+msg.err.Error(), true)
		}
		m.reproject()
		return m, m.setNotice("deleted", false)

	case noticeFadeMsg:
		m.notice = ""
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.opts.Keys

	// The delete confirmation captures input until resolved.
	if m.confirmingDelete {
		switch msg.String() {
		case "y", "Y":
			m.loading = true
			return m, m.confirmDeleteCmd()
		case "n", "N", "esc":
			m.controller.CancelDelete()
			m.confirmingDelete = false
			return m, nil
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Quit):
		m.syncer.Close()
		return m, tea.Quit

	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
			m.scrollCursorIntoView()
		}
		return m, nil

	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
			m.scrollCursorIntoView()
		}
		return m, nil

	case key.Matches(msg, keys.Toggle):
		row, ok := m.cursorRow()
		if !ok {
			return m, nil
		}
		if row.IsDir {
			m.expansion.Toggle(row.Path)
			m.reproject()
			return m, nil
		}
		m.loading = true
		return m, m.previewCmd(row.Path)

	case key.Matches(msg, keys.ClosePreview):
		if m.showPreview {
			m.showPreview = false
			m.controller.ClearSelection()
		}
		return m, nil

	case key.Matches(msg, keys.Refresh):
		m.loading = true
		return m, m.refreshCmd()

	case key.Matches(msg, keys.Download):
		row, ok := m.cursorRow()
		if !ok || row.IsDir {
			return m, m.setNotice("select a file to download", false)
		}
		m.loading = true
		return m, m.downloadCmd(row.Path)

	case key.Matches(msg, keys.Upload):
		if !m.opts.EnableUpload {
			return m, m.setNotice("uploads are disabled", false)
		}
		return m, m.setNotice("use 'agentdeck workspace upload' to send files", false)

	case key.Matches(msg, keys.Delete):
		if !m.opts.EnableDelete {
			return m, m.setNotice("deletes are disabled", false)
		}
		row, ok := m.cursorRow()
		if !ok || row.IsDir {
			return m, m.setNotice("select a file to delete", false)
		}
		node := m.nodeForRow(row)
		m.controller.StageDelete(node)
		m.confirmingDelete = true
		return m, nil

	case key.Matches(msg, keys.StopStream):
		if m.opts.Stream != nil {
			m.opts.Stream.Cancel()
			return m, m.setNotice("stop requested", false)
		}
		return m, nil
	}

	// Remaining keys scroll the preview pane when it is open.
	if m.showPreview {
		var cmd tea.Cmd
		m.preview, cmd = m.preview.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) cursorRow() (Row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return Row{}, false
	}
	return m.rows[m.cursor], true
}

func (m Model) nodeForRow(row Row) models.FileNode {
	kind := models.KindFile
	if row.IsDir {
		kind = models.KindDirectory
	}
	return models.FileNode{Name: row.Name, Path: row.Path, Kind: kind}
}

func (m *Model) scrollCursorIntoView() {
	visible := m.bodyHeight()
	if visible <= 0 {
		return
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
}

// Layout helpers. Two lines of chrome: header and status bar.

func (m Model) bodyHeight() int {
	h := m.height - 2
	if h < 1 {
		return 1
	}
	return h
}

func (m Model) treeWidth() int {
	if !m.showPreview {
		return m.width
	}
	return m.width * 2 / 5
}

func (m Model) previewWidth() int {
	if !m.showPreview {
		return 0
	}
	w := m.width - m.treeWidth() - 1
	if w < 0 {
		return 0
	}
	return w
}

// View renders header, tree (and preview pane when open), status bar.
func (m Model) View() string {
	theme := m.opts.Theme

	header := lipgloss.NewStyle().
		Foreground(theme.HeaderForeground).
		Bold(true).
		Render("Workspace")
	if !m.syncer.LastRefreshed().IsZero() {
		header += lipgloss.NewStyle().Foreground(theme.FaintText).
			Render("  synced " + m.syncer.LastRefreshed().Format("15:04:05"))
	}

	body := m.viewTree()
	if m.showPreview {
		divider := lipgloss.NewStyle().Foreground(theme.BorderColor).Render("│")
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, divider, m.viewPreviewPane())
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, m.viewStatusBar())
}

func (m Model) viewTree() string {
	if len(m.rows) == 0 {
		text := "workspace is empty"
		if m.loading {
			text = "loading workspace..."
		}
		return lipgloss.NewStyle().
			Foreground(m.opts.Theme.FaintText).
			Width(m.treeWidth()).
			Height(m.bodyHeight()).
			Render(text)
	}

	lines := RenderRows(m.rows, m.cursor, m.previewedPath(), m.opts.Theme, m.treeWidth())

	top := m.offset
	bottom := min(len(lines), top+m.bodyHeight())
	if top > bottom {
		top = 0
	}

	return lipgloss.NewStyle().
		Width(m.treeWidth()).
		Height(m.bodyHeight()).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines[top:bottom]...))
}

func (m Model) previewedPath() string {
	if sel := m.controller.Selected(); sel != nil {
		return sel.Path
	}
	return ""
}

func (m Model) viewPreviewPane() string {
	sel := m.controller.Selected()
	if sel == nil {
		return ""
	}
	title := lipgloss.NewStyle().
		Foreground(m.opts.Theme.PreviewedColor).
		Bold(true).
		Render(sel.Name)
	return lipgloss.JoinVertical(lipgloss.Left, title, m.preview.View())
}

func (m Model) viewStatusBar() string {
	theme := m.opts.Theme

	if m.confirmingDelete {
		if staged := m.controller.PendingDelete(); staged != nil {
			return lipgloss.NewStyle().Foreground(theme.ErrorColor).
				Render(fmt.Sprintf("delete %s? (y/n)", staged.Name))
		}
	}

	if m.loading {
		return m.spinner.View() + lipgloss.NewStyle().
			Foreground(theme.FaintText).Render(" working...")
	}

	if m.notice != "" {
		color := theme.NoticeColor
		if m.noticeErr {
			color = theme.ErrorColor
		}
		return lipgloss.NewStyle().Foreground(color).Render(m.notice)
	}

	return lipgloss.NewStyle().Foreground(theme.HelpText).
		Render("enter open · d download · r refresh · esc close · q quit")
}
