package reader

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	readerdto "folio/internal/modules/reader/dto"
	"folio/internal/ui/theme"
)

// Navigator turns pages of the book currently shown.
type Navigator interface {
	GoToPage(ctx context.Context, page int) (readerdto.PageOutput, error)
}

// PageMsg carries the result of a page turn.
type PageMsg struct {
	BookID string
	Page   readerdto.PageOutput
	Err    error
}

type Model struct {
	nav      Navigator
	info     readerdto.BookInfo
	page     readerdto.PageOutput
	viewport viewport.Model
	spinner  spinner.Model
	progress progress.Model
	loading  bool
	errText  string
	width    int
	height   int
}

func New() Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)
	return Model{
		viewport: viewport.New(0, 0),
		spinner:  sp,
		progress: progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
	}
}

func (m Model) Init() tea.Cmd { return nil }

// Load shows info and turns to page; the returned command yields a PageMsg.
func (m *Model) Load(info readerdto.BookInfo, nav Navigator, page int) tea.Cmd {
	m.info = info
	m.nav = nav
	m.page = readerdto.PageOutput{}
	m.errText = ""
	m.viewport.SetContent("")
	return m.GoTo(page)
}

// Unload forgets the current book.
func (m *Model) Unload() {
	m.nav = nil
	m.info = readerdto.BookInfo{}
	m.page = readerdto.PageOutput{}
	m.loading = false
	m.viewport.SetContent("")
}

func (m Model) Loaded() bool { return m.nav != nil }

func (m Model) BookID() string { return m.info.BookID }

func (m Model) Title() string { return m.info.Title }

func (m Model) CurrentPage() int { return m.page.Page }

func (m *Model) GoTo(page int) tea.Cmd {
	if m.nav == nil {
		return nil
	}
	if m.info.Pages > 0 {
		page = max(1, min(page, m.info.Pages))
	}
	m.loading = true
	nav, bookID := m.nav, m.info.BookID
	turn := func() tea.Msg {
		out, err := nav.GoToPage(context.Background(), page)
		return PageMsg{BookID: bookID, Page: out, Err: err}
	}
	return tea.Batch(turn, m.spinner.Tick)
}

func (m *Model) NextPage() tea.Cmd { return m.GoTo(m.page.Page + 1) }

func (m *Model) PrevPage() tea.Cmd { return m.GoTo(m.page.Page - 1) }

func (m *Model) FirstPage() tea.Cmd { return m.GoTo(1) }

func (m *Model) LastPage() tea.Cmd { return m.GoTo(m.info.Pages) }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case PageMsg:
		if msg.BookID != m.info.BookID {
			return m, nil
		}
		m.loading = false
		if msg.Err != nil {
			m.errText = msg.Err.Error()
			return m, nil
		}
		m.errText = ""
		m.page = msg.Page
		m.viewport.SetContent(m.renderText())
		m.viewport.GotoTop()

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	var vCmd tea.Cmd
	m.viewport, vCmd = m.viewport.Update(msg)
	cmds = append(cmds, vCmd)
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.nav == nil {
		return theme.Title.Render("Reader") + theme.Muted.Render("  pick a book on the shelf (enter)")
	}
	header := m.renderHeader()
	footer := m.renderFooter()
	bodyH := max(1, m.height-lipgloss.Height(header)-lipgloss.Height(footer)-2)

	var body string
	switch {
	case m.loading && m.page.Page == 0:
		body = lipgloss.Place(m.width-2, bodyH, lipgloss.Center, lipgloss.Center, m.spinner.View()+" Opening…")
	default:
		vp := m.viewport
		vp.Height = bodyH
		body = vp.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, theme.Page.Width(m.width-2).Render(body), footer)
}

func (m *Model) resize() {
	m.viewport.Width = max(1, m.width-4)
	m.viewport.Height = max(1, m.height-6)
	m.progress.Width = max(10, m.width/3)
	if m.page.Page > 0 {
		m.viewport.SetContent(m.renderText())
	}
}

func (m Model) renderHeader() string {
	parts := []string{theme.Title.Render(m.info.Title), theme.Muted.Render("[" + m.info.Kind + "]")}
	if m.info.Engine != "" {
		parts = append(parts, theme.Muted.Render("via "+m.info.Engine))
	}
	if m.page.ChapterTitle != "" {
		parts = append(parts, theme.Chapter.Render(m.page.ChapterTitle))
	}
	return strings.Join(parts, "  ")
}

func (m Model) renderFooter() string {
	status := fmt.Sprintf("p.%d/%d", m.page.Page, m.page.MaxPage)
	if m.loading {
		status = m.spinner.View() + " " + status
	}
	line := m.progress.ViewAs(m.page.Progress) + "  " + theme.Muted.Render(status)
	if m.errText != "" {
		line += "  " + theme.Failure.Render(m.errText)
	}
	return line
}

func (m Model) renderText() string {
	text := strings.TrimSpace(m.page.Text)
	if text == "" {
		return theme.Muted.Render("(no text on this page)")
	}
	return lipgloss.NewStyle().Width(m.viewport.Width).Render(text)
}
