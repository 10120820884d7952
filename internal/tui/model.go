// Package tui implements the interactive terminal UI: a session sidebar,
// the live log stream, and the search/filter/scroll overlays.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"go.uber.org/zap"

	"github.com/kenfdev/cctail/internal/config"
	"github.com/kenfdev/cctail/internal/domain"
	"github.com/kenfdev/cctail/internal/render"
	"github.com/kenfdev/cctail/internal/session"
	"github.com/kenfdev/cctail/internal/tail"
	"github.com/kenfdev/cctail/internal/tmux"
	"github.com/kenfdev/cctail/internal/view"
)

const (
	sidebarWidth    = 34
	tickInterval    = 100 * time.Millisecond
	rediscoverEvery = 20 // ticks
)

// Focus is the panel holding keyboard focus.
type Focus int

const (
	FocusLogStream Focus = iota
	FocusSidebar
)

// TickMsg drives the frame loop.
type TickMsg time.Time

// Model is the bubbletea model owning all TUI state.
type Model struct {
	cfg   *config.Config
	theme Theme
	log   *zap.SugaredLogger

	projectDir  string
	projectName string

	index           *session.Index
	sessions        []domain.Session
	selected        int
	newSessionIDs   map[string]struct{}
	activeSessionID string

	vm          *view.ViewModel
	events      <-chan tail.Event
	stopWatcher context.CancelFunc

	width, height  int
	ready          bool
	focus          Focus
	sidebarVisible bool
	helpVisible    bool
	statusMsg      string
	quitConfirm    bool

	fullLoadConfirm bool
	fullLoadSize    uint64

	filterMenu filterMenu
	searchIn   textinput.Model

	tmuxMgr *tmux.Manager

	ticks int
}

// New builds the TUI model, replays the initial session, and starts the
// watcher. sessionPrefix optionally selects a session by ID prefix.
func New(cfg *config.Config, projectDir, projectName, sessionPrefix string, log *zap.SugaredLogger) (*Model, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	sym := render.EmojiSymbols()
	if cfg.ASCII {
		sym = render.ASCIISymbols()
	}

	ti := textinput.New()
	ti.Placeholder = "search"
	ti.CharLimit = 200
	ti.Width = 40

	m := &Model{
		cfg:            cfg,
		theme:          ThemeFor(cfg.Theme),
		log:            log,
		projectDir:     projectDir,
		projectName:    projectName,
		index:          session.NewIndex(),
		newSessionIDs:  make(map[string]struct{}),
		vm:             view.New(cfg.Defaults.BufferBudgetMB*1024*1024, sym, log),
		focus:          FocusLogStream,
		sidebarVisible: true,
		searchIn:       ti,
	}
	m.vm.ProgressVisible = cfg.Verbose

	sessions, err := m.index.Discover(projectDir, cfg.Defaults.MaxSessions)
	if err != nil {
		return nil, err
	}
	m.sessions = sessions

	sess, err := session.Resolve(sessions, sessionPrefix)
	if err != nil {
		return nil, err
	}
	for i := range sessions {
		if sessions[i].ID == sess.ID {
			m.selected = i
		}
	}
	if err := m.attachSession(sess); err != nil {
		return nil, err
	}
	return m, nil
}

// attachSession replays the session into the ring buffer and restarts the
// watcher with the replay's EOF offsets.
func (m *Model) attachSession(sess *domain.Session) error {
	offsets := m.vm.SwitchSession(sess)
	m.activeSessionID = sess.ID

	if m.stopWatcher != nil {
		m.stopWatcher()
	}
	w, err := tail.NewWatcher(m.projectDir, offsets, m.cfg.Defaults.ChannelCapacity, m.log)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.stopWatcher = cancel
	m.events = w.Events()
	go func() {
		if err := w.Run(ctx); err != nil {
			m.log.Warnw("watcher exited", "error", err)
		}
	}()
	return nil
}

// Close stops the watcher. Spawned tmux panes are left running; they are
// killed only when the user confirms quit with "y".
func (m *Model) Close() {
	if m.stopWatcher != nil {
		m.stopWatcher()
	}
}

// Init starts the tick loop.
func (m *Model) Init() tea.Cmd {
	return tickCmd()
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// Update handles input, ticks, and resize.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.onKey(msg)

	case tea.MouseMsg:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			if msg.Action == tea.MouseActionPress {
				m.scrollRelative(-1)
			}
		case tea.MouseButtonWheelDown:
			if msg.Action == tea.MouseActionPress {
				m.scrollRelative(1)
			}
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case TickMsg:
		m.ticks++
		if m.events != nil {
			res := m.vm.Drain(m.events, view.DefaultDrainPerFrame)
			if res.Shutdown {
				m.Close()
				return m, tea.Quit
			}
			if len(res.NewFiles) > 0 {
				m.rediscover()
			}
			for _, path := range res.Truncated {
				m.log.Debugw("file truncated", "path", path)
			}
		}
		if m.ticks%rediscoverEvery == 0 {
			m.rediscover()
		}
		return m, tickCmd()
	}

	return m, nil
}

// rediscover refreshes the sidebar session list, highlighting sessions
// that appeared since startup.
func (m *Model) rediscover() {
	sessions, err := m.index.Discover(m.projectDir, m.cfg.Defaults.MaxSessions)
	if err != nil {
		m.log.Debugw("session rediscovery failed", "error", err)
		return
	}

	known := make(map[string]struct{}, len(m.sessions))
	for _, s := range m.sessions {
		known[s.ID] = struct{}{}
	}
	for _, s := range sessions {
		if _, ok := known[s.ID]; !ok {
			m.newSessionIDs[s.ID] = struct{}{}
		}
	}

	// Keep the selection on the same session across re-sorts.
	selectedID := ""
	if m.selected < len(m.sessions) {
		selectedID = m.sessions[m.selected].ID
	}
	m.sessions = sessions
	for i := range sessions {
		if sessions[i].ID == selectedID {
			m.selected = i
		}
	}
	if m.selected >= len(sessions) {
		m.selected = 0
	}
}

func (m *Model) onKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.statusMsg = ""

	// Help overlay: any key dismisses.
	if m.helpVisible {
		m.helpVisible = false
		return m, nil
	}

	// Ctrl+C: cancel overlays first, then quit.
	if msg.Type == tea.KeyCtrlC {
		if m.filterMenu.visible {
			m.filterMenu.visible = false
			return m, nil
		}
		return m.initiateQuit()
	}

	// Quit confirmation while tmux panes are live.
	if m.quitConfirm {
		switch msg.String() {
		case "y", "Y":
			if m.tmuxMgr != nil {
				m.tmuxMgr.Cleanup()
			}
			m.Close()
			return m, tea.Quit
		case "n", "N", "esc":
			m.quitConfirm = false
		}
		return m, nil
	}

	// Full-history-load confirmation.
	if m.fullLoadConfirm {
		switch msg.String() {
		case "y", "Y":
			m.fullLoadConfirm = false
			m.loadFullHistory()
		case "n", "N", "esc":
			m.fullLoadConfirm = false
		}
		return m, nil
	}

	// Filter menu consumes all keys while open.
	if m.filterMenu.visible {
		if applied, state := m.filterMenu.onKey(msg); applied {
			m.vm.ApplyFilter(state)
		}
		return m, nil
	}

	// Search input mode.
	if m.vm.Search.Mode == view.SearchInput {
		switch msg.Type {
		case tea.KeyEnter:
			m.vm.Search.InputBuffer = m.searchIn.Value()
			m.vm.ConfirmSearch()
			m.searchIn.Blur()
		case tea.KeyEsc:
			m.vm.Search.Cancel()
			m.searchIn.Blur()
		default:
			var cmd tea.Cmd
			m.searchIn, cmd = m.searchIn.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	switch msg.String() {
	case "q":
		return m.initiateQuit()
	case "?":
		m.helpVisible = true
	case "/":
		m.vm.Search.StartInput()
		m.searchIn.SetValue("")
		m.searchIn.Focus()
		return m, textinput.Blink
	case "f":
		m.filterMenu.open(m.vm.Filter, m.knownAgents())
	case "p":
		m.vm.ProgressVisible = !m.vm.ProgressVisible
	case "t":
		m.openTmuxPanes()
	case "L":
		m.requestFullLoad()
	case "tab":
		m.toggleFocus()
	case "b":
		m.toggleSidebar()
	case "n":
		if m.vm.Search.Mode == view.SearchActive {
			m.vm.NextMatch()
		}
	case "N":
		if m.vm.Search.Mode == view.SearchActive {
			m.vm.PrevMatch()
		}
	case "enter":
		if m.focus == FocusSidebar {
			m.confirmSessionSelection()
		}
	case "up", "k":
		if m.focus == FocusSidebar {
			if m.selected > 0 {
				m.selected--
			}
		} else {
			m.scrollRelative(-1)
		}
	case "down", "j":
		if m.focus == FocusSidebar {
			if len(m.sessions) > 0 && m.selected < len(m.sessions)-1 {
				m.selected++
			}
		} else {
			m.scrollRelative(1)
		}
	case "pgup", "u":
		m.scrollHalfPage(-1)
	case "pgdown", "d":
		m.scrollHalfPage(1)
	case "g", "home":
		m.scrollToTop()
	case "G", "end":
		m.vm.Scroll.Exit()
	case "esc":
		if m.vm.Search.Mode == view.SearchActive {
			m.vm.CancelSearch()
		}
		m.vm.Scroll.Exit()
	}
	return m, nil
}

func (m *Model) initiateQuit() (tea.Model, tea.Cmd) {
	if m.tmuxMgr != nil && m.tmuxMgr.PaneCount() > 0 {
		m.quitConfirm = true
		return m, nil
	}
	m.Close()
	return m, tea.Quit
}

// -- Scrolling ---------------------------------------------------------------

func (m *Model) scrollRelative(delta int) {
	if m.vm.Scroll.Active != nil {
		if m.vm.Scroll.ScrollBy(delta); delta > 0 && m.atSnapshotBottom() {
			m.vm.Scroll.Exit()
		}
		return
	}
	if delta < 0 {
		m.vm.Scroll.Request(view.PendingUp, -delta)
	}
}

func (m *Model) atSnapshotBottom() bool {
	snap := m.vm.Scroll.Active
	return snap != nil && snap.Offset >= snap.TotalVisualLines-snap.ViewportHeight
}

func (m *Model) scrollHalfPage(direction int) {
	if m.vm.Scroll.Active != nil {
		m.vm.Scroll.ScrollBy(direction * (m.viewportHeight() + 1) / 2)
		return
	}
	if direction < 0 {
		m.vm.Scroll.Request(view.PendingHalfPageUp, 0)
	}
}

func (m *Model) scrollToTop() {
	if m.vm.Scroll.Active != nil {
		m.vm.Scroll.Active.Offset = 0
		return
	}
	m.vm.Scroll.Request(view.PendingTop, 0)
}

// -- Session switching -------------------------------------------------------

func (m *Model) confirmSessionSelection() {
	if len(m.sessions) == 0 {
		return
	}
	idx := m.selected
	if idx >= len(m.sessions) {
		idx = len(m.sessions) - 1
	}
	sess := m.sessions[idx]
	delete(m.newSessionIDs, sess.ID)
	m.focus = FocusLogStream
	if err := m.attachSession(&sess); err != nil {
		m.statusMsg = fmt.Sprintf("switch failed: %v", err)
	}
}

func (m *Model) activeSession() *domain.Session {
	for i := range m.sessions {
		if m.sessions[i].ID == m.activeSessionID {
			return &m.sessions[i]
		}
	}
	return nil
}

// -- Full-history load -------------------------------------------------------

func (m *Model) requestFullLoad() {
	sess := m.activeSession()
	if sess == nil {
		m.statusMsg = "no active session"
		return
	}
	size := tail.SessionFileSize(sess)
	if size > tail.FullLoadWarnBytes {
		m.fullLoadSize = size
		m.fullLoadConfirm = true
		return
	}
	m.loadFullHistory()
}

func (m *Model) loadFullHistory() {
	sess := m.activeSession()
	if sess == nil {
		return
	}
	offsets := m.vm.LoadFullHistory(sess)
	// Restart the watcher so tailing resumes past the freshly read bytes.
	if m.stopWatcher != nil {
		m.stopWatcher()
	}
	w, err := tail.NewWatcher(m.projectDir, offsets, m.cfg.Defaults.ChannelCapacity, m.log)
	if err != nil {
		m.statusMsg = fmt.Sprintf("watcher restart failed: %v", err)
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.stopWatcher = cancel
	m.events = w.Events()
	go func() {
		if err := w.Run(ctx); err != nil {
			m.log.Warnw("watcher exited", "error", err)
		}
	}()
	m.statusMsg = "full history loaded"
}

// -- tmux --------------------------------------------------------------------

func (m *Model) openTmuxPanes() {
	if !tmux.IsInsideTmux() {
		m.statusMsg = "not inside tmux (start tmux first)"
		return
	}
	sess := m.activeSession()
	if sess == nil {
		m.statusMsg = "select a session first (Enter on sidebar)"
		return
	}
	if m.tmuxMgr == nil {
		mgr, err := tmux.NewManager()
		if err != nil {
			m.statusMsg = err.Error()
			return
		}
		m.tmuxMgr = mgr
	}

	var panes []tmux.AgentPane
	for _, agent := range sess.Agents {
		label := "main"
		if !agent.IsMain {
			label = agent.AgentID
			if agent.Slug != "" {
				label = agent.Slug
			}
		}
		panes = append(panes, tmux.AgentPane{Label: label, LogPath: agent.LogPath})
	}

	count, err := m.tmuxMgr.SpawnSession(m.cfg.Tmux.SessionPrefix, m.projectDir, panes)
	if err != nil {
		m.statusMsg = fmt.Sprintf("tmux error: %v", err)
		return
	}
	if count == 0 {
		m.statusMsg = "tmux: session already running"
		return
	}
	plural := "s"
	if count == 1 {
		plural = ""
	}
	m.statusMsg = fmt.Sprintf("tmux: spawned %d window%s", count, plural)
}

// knownAgents collects subagent slug words from the ring buffer for the
// filter menu.
func (m *Model) knownAgents() []string {
	seen := make(map[string]struct{})
	var agents []string
	m.vm.Ring.Iter(func(e *domain.LogEntry) bool {
		if !e.IsSidechain {
			return true
		}
		word := e.AgentSlugWord()
		if _, ok := seen[word]; !ok {
			seen[word] = struct{}{}
			agents = append(agents, word)
		}
		return true
	})
	return agents
}

func (m *Model) toggleFocus() {
	if !m.sidebarVisible {
		m.focus = FocusLogStream
		return
	}
	if m.focus == FocusSidebar {
		m.focus = FocusLogStream
	} else {
		m.focus = FocusSidebar
	}
}

func (m *Model) toggleSidebar() {
	m.sidebarVisible = !m.sidebarVisible
	if !m.sidebarVisible && m.focus == FocusSidebar {
		m.focus = FocusLogStream
	}
}

func (m *Model) viewportHeight() int {
	h := m.height - 3 // title + status + footer
	if h < 1 {
		h = 1
	}
	return h
}

func (m *Model) logInnerWidth() int {
	w := m.width
	if m.sidebarVisible {
		w -= sidebarWidth
	}
	if w < 10 {
		w = 10
	}
	return w
}

// View renders one frame.
func (m *Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	header := m.renderHeader()
	var body string
	if m.helpVisible {
		body = m.renderHelp()
	} else {
		body = m.renderBody()
	}
	footer := m.renderFooter()

	return header + "\n" + body + "\n" + footer
}

func (m *Model) renderBody() string {
	height := m.viewportHeight()
	logPane := m.renderLogStream(m.logInnerWidth(), height)
	if !m.sidebarVisible {
		return logPane
	}
	sidebar := m.renderSidebar(sidebarWidth-2, height)
	return lipgloss.JoinHorizontal(lipgloss.Top, sidebar, logPane)
}

// renderLogStream runs the ViewModel frame pipeline, wraps the flat lines
// to the pane width, applies highlight overlays, and slices the viewport.
func (m *Model) renderLogStream(innerWidth, height int) string {
	frame := m.vm.Frame(innerWidth, height)

	if len(frame.Lines) == 0 {
		placeholder := m.theme.Placeholder.Render("Waiting for log entries...")
		return lipgloss.NewStyle().Width(innerWidth).Height(height).Render(placeholder)
	}

	// Per-logical-line highlight spans.
	spansByLine := make(map[int][]view.Highlight)
	for _, h := range frame.Highlights {
		spansByLine[h.LineIndex] = append(spansByLine[h.LineIndex], h)
	}

	var visual []string
	for idx, line := range frame.Lines {
		base := lipgloss.NewStyle()
		if idx < len(frame.Kinds) {
			switch frame.Kinds[idx] {
			case render.LineToolUse:
				base = m.theme.ToolUse
			case render.LineProgress:
				base = m.theme.Progress
			case render.LineUnknown:
				base = m.theme.Unknown
			}
		}
		for _, seg := range wrapSegments(line, innerWidth) {
			visual = append(visual, styleSegment(line, seg, spansByLine[idx], base, m.theme))
		}
	}

	start := frame.Offset
	if start > len(visual) {
		start = len(visual)
	}
	end := start + height
	if end > len(visual) {
		end = len(visual)
	}
	rows := visual[start:end]

	return lipgloss.NewStyle().Width(innerWidth).Height(height).Render(strings.Join(rows, "\n"))
}

func (m *Model) renderSidebar(innerWidth, height int) string {
	var rows []string
	for i, sess := range m.sessions {
		dot := "○"
		style := m.theme.SessionIdle
		if m.index.Status(&sess) == domain.SessionActive {
			dot = "●"
			style = m.theme.Sidebar
		}
		if _, isNew := m.newSessionIDs[sess.ID]; isNew {
			style = m.theme.SessionNew
		}
		if sess.ID == m.activeSessionID {
			style = m.theme.SidebarActive
		}

		id := sess.ID
		if len(id) > 8 {
			id = id[:8]
		}
		label := runewidth.Truncate(
			fmt.Sprintf("%s %s %s", dot, id, sess.LastModified.Format("15:04")),
			innerWidth, "…")

		if m.focus == FocusSidebar && i == m.selected {
			style = m.theme.Selected
		}
		rows = append(rows, style.Render(label))

		for _, agent := range sess.Agents {
			if agent.IsMain {
				continue
			}
			child := "  └ " + agent.AgentID
			if agent.Slug != "" {
				child = "  └ " + agent.Slug
			}
			rows = append(rows, m.theme.SessionIdle.Render(runewidth.Truncate(child, innerWidth, "…")))
		}
	}
	if len(rows) > height {
		rows = rows[:height]
	}

	return lipgloss.NewStyle().
		Width(sidebarWidth - 1).
		Height(height).
		BorderStyle(lipgloss.NormalBorder()).
		BorderRight(true).
		Render(strings.Join(rows, "\n"))
}

func (m *Model) renderHeader() string {
	title := "cctail"
	if m.projectName != "" {
		title += ": " + m.projectName
	}
	if m.activeSessionID != "" {
		id := m.activeSessionID
		if len(id) > 8 {
			id = id[:8]
		}
		title += " @ " + id
	}
	if m.vm.FullHistoryLoaded {
		title += " [full]"
	}
	if !m.vm.Scroll.IsLive() {
		title += " [scroll]"
	}
	return m.theme.Title.Width(m.width).Render(title)
}

func (m *Model) renderFooter() string {
	if m.vm.Search.Mode == view.SearchInput {
		return "/" + m.searchIn.View()
	}
	if m.quitConfirm {
		return m.theme.StatusBar.Render("tmux panes are running. Quit anyway? (y/N)")
	}
	if m.fullLoadConfirm {
		return m.theme.StatusBar.Render(fmt.Sprintf(
			"Load full history (%s)? (y/N)", tail.FormatByteSize(m.fullLoadSize)))
	}
	if m.filterMenu.visible {
		return m.filterMenu.view(m.theme)
	}

	var parts []string
	if m.statusMsg != "" {
		parts = append(parts, m.statusMsg)
	}
	if label := m.vm.Filter.Display(); label != "" {
		parts = append(parts, label)
	}
	if counter := m.vm.Search.MatchCounter(); counter != "" {
		parts = append(parts, counter+" n/N: next/prev")
	}
	if len(parts) == 0 {
		parts = append(parts, "q:quit /:search f:filter p:progress t:tmux L:full b:sidebar ?:help")
	}
	return m.theme.Help.Width(m.width).Render(strings.Join(parts, " | "))
}

func (m *Model) renderHelp() string {
	stats := view.ComputeSessionStats(m.vm.Ring)

	var b strings.Builder
	b.WriteString("Keys\n")
	keys := [][2]string{
		{"q / Ctrl+C", "quit"},
		{"/", "search (Enter confirm, Esc cancel)"},
		{"n / N", "next / previous match"},
		{"f", "filter menu"},
		{"p", "toggle progress entries"},
		{"t", "spawn tmux panes per agent"},
		{"L", "load full history"},
		{"j/k, PgUp/PgDn, g/G", "scroll"},
		{"Tab", "switch focus"},
		{"b", "toggle sidebar"},
		{"Esc", "exit scroll / clear search"},
	}
	for _, kv := range keys {
		fmt.Fprintf(&b, "  %-22s %s\n", kv[0], kv[1])
	}

	fmt.Fprintf(&b, "\nSession\n")
	fmt.Fprintf(&b, "  entries loaded    %d\n", stats.EntriesLoaded)
	fmt.Fprintf(&b, "  user messages     %d\n", stats.UserMessageCount)
	fmt.Fprintf(&b, "  assistant msgs    %d\n", stats.AssistantMessageCount)
	fmt.Fprintf(&b, "  tool calls        %d\n", stats.ToolCallCount)
	fmt.Fprintf(&b, "  subagents         %d\n", stats.SubagentCount)
	if stats.DurationDisplay != "" {
		fmt.Fprintf(&b, "  duration          %s\n", stats.DurationDisplay)
	}
	for i, tc := range stats.ToolCallBreakdown {
		if i >= 5 {
			break
		}
		fmt.Fprintf(&b, "    %-16s %d\n", tc.Name, tc.Count)
	}
	b.WriteString("\npress any key to close")

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.viewportHeight()).
		Render(b.String())
}

// -- Wrapping + highlighting -------------------------------------------------

// segment is one visual line of a wrapped logical line, addressed by byte
// offsets into the original string.
type segment struct {
	start int
	end   int
}

// wrapSegments splits a line into display-width-bounded segments on rune
// boundaries, mirroring the visual-line accounting used by scroll mode.
func wrapSegments(s string, width int) []segment {
	if width <= 0 || s == "" {
		return []segment{{start: 0, end: len(s)}}
	}
	var segs []segment
	segStart := 0
	w := 0
	for i, r := range s {
		rw := runewidth.RuneWidth(r)
		if w+rw > width && i > segStart {
			segs = append(segs, segment{start: segStart, end: i})
			segStart = i
			w = 0
		}
		w += rw
	}
	segs = append(segs, segment{start: segStart, end: len(s)})
	return segs
}

// styleSegment renders one wrapped segment, splicing in highlight styles
// for any overlapping search match ranges.
func styleSegment(line string, seg segment, spans []view.Highlight, base lipgloss.Style, theme Theme) string {
	text := line[seg.start:seg.end]
	if len(spans) == 0 {
		return base.Render(text)
	}

	var b strings.Builder
	pos := seg.start
	for _, span := range spans {
		start, end := span.ByteStart, span.ByteEnd
		if end <= pos || start >= seg.end {
			continue
		}
		if start < pos {
			start = pos
		}
		if end > seg.end {
			end = seg.end
		}
		if start > pos {
			b.WriteString(base.Render(line[pos:start]))
		}
		style := theme.Match
		if span.Current {
			style = theme.CurrentMatch
		}
		b.WriteString(style.Render(line[start:end]))
		pos = end
	}
	if pos < seg.end {
		b.WriteString(base.Render(line[pos:seg.end]))
	}
	return b.String()
}
