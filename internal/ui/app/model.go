package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	readerdto "folio/internal/modules/reader/dto"
	readerin "folio/internal/modules/reader/port/in"
	sessiondto "folio/internal/modules/session/dto"
	sessionin "folio/internal/modules/session/port/in"
	"folio/internal/ui/components"
	"folio/internal/ui/theme"
	dictview "folio/internal/ui/views/dictionary"
	readerview "folio/internal/ui/views/reader"
	shelfview "folio/internal/ui/views/shelf"
)

type readerPort interface {
	Open(ctx context.Context, bookID, deviceID string) (readerin.OpenedBook, error)
}

type sessionPort interface {
	Bind(book readerin.OpenedBook, deviceID string) sessionin.Shell
}

type tabID int

const (
	tabShelf tabID = iota
	tabReader
	tabDictionary
	tabCount
)

var tabLabels = [tabCount]string{"Shelf", "Reader", "Dictionary"}

var paletteHints = []string{
	"open <book-id>",
	"page <n>",
	"first",
	"last",
	"hints <word>",
	"session",
}

var errBookClosed = errors.New("book is closed")

type bookOpenedMsg struct {
	book readerin.OpenedBook
	err  error
}

type signalMsg struct {
	out sessiondto.SignalOutput
	err error
}

type dismissedMsg struct {
	title string
	out   sessiondto.DismissOutput
}

type sessionStatusMsg struct {
	out  sessiondto.OpenSessionOutput
	open bool
	err  error
}

// openBook serialises every call into the book and its shell; page turns and
// lifecycle signals run in tea.Cmd goroutines.
type openBook struct {
	mu     sync.Mutex
	book   readerin.OpenedBook
	shell  sessionin.Shell
	closed bool
}

func (b *openBook) GoToPage(ctx context.Context, page int) (readerdto.PageOutput, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return readerdto.PageOutput{}, errBookClosed
	}
	return b.book.GoToPage(ctx, page)
}

func (b *openBook) signal(ctx context.Context, phase string) (sessiondto.SignalOutput, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return sessiondto.SignalOutput{}, errBookClosed
	}
	return b.shell.Signal(ctx, phase)
}

func (b *openBook) dismiss(ctx context.Context) sessiondto.DismissOutput {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return sessiondto.DismissOutput{}
	}
	b.closed = true
	out := b.shell.Dismiss(ctx)
	_ = b.book.Close()
	return out
}

type keyMap struct {
	Tab     key.Binding
	Prev    key.Binding
	Next    key.Binding
	Ends    key.Binding
	Open    key.Binding
	Lookup  key.Binding
	Palette key.Binding
	Suspend key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "switch tab")),
		Prev:    key.NewBinding(key.WithKeys("left", "h", "pgup"), key.WithHelp("←/h", "previous page")),
		Next:    key.NewBinding(key.WithKeys("right", "l", "pgdown", " "), key.WithHelp("→/l", "next page")),
		Ends:    key.NewBinding(key.WithKeys("g", "G"), key.WithHelp("g/G", "first/last page")),
		Open:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "read selected book")),
		Lookup:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "dictionary")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "command")),
		Suspend: key.NewBinding(key.WithKeys("ctrl+z"), key.WithHelp("ctrl+z", "suspend")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Open, k.Lookup},
		{k.Prev, k.Next, k.Ends},
		{k.Palette, k.Suspend, k.Help, k.Quit},
	}
}

// Model is the root Bubble Tea model. Terminal focus, blur, suspend and resume
// drive the open book's lifecycle phase; quitting dismisses it.
type Model struct {
	deviceID  string
	startBook string

	reader  readerPort
	session sessionPort

	shelfView shelfview.Model
	readView  readerview.Model
	dictView  dictview.Model
	current   *openBook
	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	sessionOn bool
	status    string
	quitting  bool
	width     int
	height    int
}

func NewModel(
	deviceID string,
	startBook string,
	shelf shelfview.Port,
	reader readerPort,
	session sessionPort,
	dictionary dictview.Port,
) Model {
	return Model{
		deviceID:  deviceID,
		startBook: startBook,
		reader:    reader,
		session:   session,
		shelfView: shelfview.New(shelf, deviceID),
		readView:  readerview.New(),
		dictView:  dictview.New(dictionary),
		activeTab: tabShelf,
		keys:      defaultKeys(),
		help:      help.New(),
		palette:   components.NewPalette(paletteHints),
		status:    "ready",
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.shelfView.Init()}
	if m.startBook != "" {
		cmds = append(cmds, m.openBookCmd(m.startBook))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 72))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case tea.FocusMsg:
		return m, m.signalCmd("active")

	case tea.BlurMsg:
		return m, m.signalCmd("inactive")

	case tea.ResumeMsg:
		return m, m.signalCmd("active")

	case bookOpenedMsg:
		return m.bookOpened(msg)

	case readerview.PageMsg:
		if msg.Err != nil && !errors.Is(msg.Err, errBookClosed) {
			m.status = "page: " + msg.Err.Error()
		}
		var cmd tea.Cmd
		m.readView, cmd = m.readView.Update(msg)
		return m, cmd

	case dictview.HintsMsg:
		var cmd tea.Cmd
		m.dictView, cmd = m.dictView.Update(msg)
		return m, cmd

	case signalMsg:
		m.applySignal(msg)
		return m, nil

	case dismissedMsg:
		m.sessionOn = false
		m.status = describeDismissal(msg)
		if m.quitting {
			return m, tea.Quit
		}
		return m, m.shelfView.Reload()

	case sessionStatusMsg:
		switch {
		case msg.err != nil:
			m.status = "session: " + msg.err.Error()
		case !msg.open:
			m.status = "no reading session open"
		default:
			m.status = fmt.Sprintf("session %s since %s at p.%d", shortID(msg.out.SessionID),
				msg.out.StartedAt.Local().Format("15:04"), msg.out.Start.Page)
		}
		return m, nil

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}
		if m.activeTab == tabDictionary && m.dictView.Typing() {
			if msg.String() == "esc" {
				m.dictView.Blur()
				return m, nil
			}
			if msg.String() != "ctrl+c" {
				break
			}
		}
		if m.activeTab == tabShelf && m.shelfView.Filtering() {
			break
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m.quit()
		case "ctrl+z":
			return m, tea.Sequence(m.signalCmd("background"), tea.Suspend)
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
			return m, nil
		case "?":
			m.showHelp = true
			return m, nil
		case ":":
			return m, m.palette.Open()
		case "/":
			m.activeTab = tabDictionary
			return m, m.dictView.Focus()
		case "enter":
			if m.activeTab == tabShelf {
				if id, ok := m.shelfView.SelectedBookID(); ok {
					return m, m.switchBook(id)
				}
			}
		}
		if m.activeTab == tabReader {
			switch msg.String() {
			case "left", "h", "pgup":
				return m, m.readView.PrevPage()
			case "right", "l", "pgdown", " ":
				return m, m.readView.NextPage()
			case "g":
				return m, m.readView.FirstPage()
			case "G":
				return m, m.readView.LastPage()
			}
		}
	}

	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabShelf:
		m.shelfView, tabCmd = m.shelfView.Update(msg)
	case tabReader:
		m.readView, tabCmd = m.readView.Update(msg)
	case tabDictionary:
		m.dictView, tabCmd = m.dictView.Update(msg)
	}
	cmds = append(cmds, tabCmd)
	if _, ok := msg.(tea.KeyMsg); !ok && m.activeTab != tabShelf {
		var cmd tea.Cmd
		m.shelfView, cmd = m.shelfView.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	contentH := max(1, m.height-lipgloss.Height(tabBar)-lipgloss.Height(statusBar))

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = lipgloss.NewStyle().Height(contentH).Render(m.activeView())
	}
	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabShelf:
		return m.shelfView.View()
	case tabReader:
		return m.readView.View()
	case tabDictionary:
		return m.dictView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + tabLabels[i] + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + tabLabels[i] + " ")
		}
	}
	bar := "folio  " + strings.Join(parts, theme.Muted.Render(" │ "))
	return theme.Bar.Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if m.sessionOn {
		left = theme.Live.Render("● reading") + "  " + left
	}
	right := theme.Muted.Render("?:help  tab:switch  /:dictionary  ::command  q:quit")
	gap := max(1, m.width-lipgloss.Width(left)-lipgloss.Width(right))
	return "\n" + theme.Bar.Width(m.width).Render(left+strings.Repeat(" ", gap)+right)
}

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}
	switch parts[0] {
	case "open":
		if len(parts) < 2 {
			m.status = "usage: open <book-id>"
			return m, nil
		}
		return m, m.switchBook(parts[1])
	case "page":
		if len(parts) < 2 {
			m.status = "usage: page <n>"
			return m, nil
		}
		page, err := strconv.Atoi(parts[1])
		if err != nil || page < 1 {
			m.status = "invalid page"
			return m, nil
		}
		m.activeTab = tabReader
		return m, m.readView.GoTo(page)
	case "first":
		m.activeTab = tabReader
		return m, m.readView.FirstPage()
	case "last":
		m.activeTab = tabReader
		return m, m.readView.LastPage()
	case "hints":
		m.activeTab = tabDictionary
		word := strings.TrimSpace(strings.TrimPrefix(input, parts[0]))
		return m, tea.Batch(m.dictView.Focus(), m.dictView.SetQuery(word))
	case "session":
		return m, m.sessionStatusCmd()
	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

func (m Model) bookOpened(msg bookOpenedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.status = "open: " + msg.err.Error()
		return m, nil
	}
	cur := &openBook{book: msg.book, shell: m.session.Bind(msg.book, m.deviceID)}
	m.current = cur
	m.activeTab = tabReader

	info := msg.book.Info()
	page := 1
	if pos, ok := msg.book.Adapter().CurrentPosition(); ok {
		page = pos.Page
	}
	m.status = fmt.Sprintf("opened %s", info.Title)
	return m, tea.Batch(m.readView.Load(info, cur, page), m.signalCmd("active"))
}

func (m *Model) applySignal(msg signalMsg) {
	if msg.err != nil {
		if !errors.Is(msg.err, errBookClosed) {
			m.status = "lifecycle: " + msg.err.Error()
		}
		return
	}
	if msg.out.Opened != nil {
		m.sessionOn = true
		m.status = fmt.Sprintf("session started at p.%d", msg.out.Opened.Start.Page)
	}
	if msg.out.Closed != nil {
		m.sessionOn = false
		c := msg.out.Closed
		m.status = fmt.Sprintf("session saved: %d pages in %s", c.PagesTurned, formatSeconds(c.DurationSeconds))
	}
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.current == nil {
		return m, tea.Quit
	}
	m.quitting = true
	m.status = "saving position…"
	cmd := m.dismissCmd()
	m.current = nil
	return m, cmd
}

// switchBook dismisses the open book before opening the next one.
func (m *Model) switchBook(bookID string) tea.Cmd {
	if m.current != nil && m.readView.BookID() == bookID {
		m.activeTab = tabReader
		return nil
	}
	m.status = "opening " + bookID + "…"
	open := m.openBookCmd(bookID)
	if m.current == nil {
		return open
	}
	dismiss := m.dismissCmd()
	m.current = nil
	m.readView.Unload()
	return tea.Sequence(dismiss, open)
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.shelfView, _ = m.shelfView.Update(sz)
	m.readView, _ = m.readView.Update(sz)
	m.dictView, _ = m.dictView.Update(sz)
}

func (m Model) openBookCmd(bookID string) tea.Cmd {
	return func() tea.Msg {
		book, err := m.reader.Open(context.Background(), bookID, m.deviceID)
		return bookOpenedMsg{book: book, err: err}
	}
}

func (m Model) signalCmd(phase string) tea.Cmd {
	cur := m.current
	if cur == nil {
		return nil
	}
	return func() tea.Msg {
		out, err := cur.signal(context.Background(), phase)
		return signalMsg{out: out, err: err}
	}
}

func (m Model) dismissCmd() tea.Cmd {
	cur := m.current
	if cur == nil {
		return nil
	}
	title := m.readView.Title()
	return func() tea.Msg {
		return dismissedMsg{title: title, out: cur.dismiss(context.Background())}
	}
}

func (m Model) sessionStatusCmd() tea.Cmd {
	cur := m.current
	if cur == nil {
		return func() tea.Msg { return sessionStatusMsg{} }
	}
	return func() tea.Msg {
		cur.mu.Lock()
		defer cur.mu.Unlock()
		out, open, err := cur.shell.OpenSession(context.Background())
		return sessionStatusMsg{out: out, open: open, err: err}
	}
}

func describeDismissal(msg dismissedMsg) string {
	parts := []string{"closed " + msg.title}
	if msg.out.Closed != nil {
		parts = append(parts, fmt.Sprintf("%d pages in %s", msg.out.Closed.PagesTurned, formatSeconds(msg.out.Closed.DurationSeconds)))
	}
	if msg.out.Published {
		parts = append(parts, "position queued for sync")
	}
	return strings.Join(parts, ", ")
}

func formatSeconds(s int) string {
	if s < 60 {
		return fmt.Sprintf("%ds", s)
	}
	return fmt.Sprintf("%dm%02ds", s/60, s%60)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
