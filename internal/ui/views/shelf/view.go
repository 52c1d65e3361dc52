package shelf

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	shelfdto "folio/internal/modules/shelf/dto"
	"folio/internal/platform/clock"
	"folio/internal/ui/theme"
)

// Port is what the shelf tab needs from the shelf use-case.
type Port interface {
	ListBooks(ctx context.Context) ([]shelfdto.BookOutput, error)
	GetBook(ctx context.Context, id string) (shelfdto.BookDetailOutput, error)
}

type BooksLoadedMsg struct {
	Books []shelfdto.BookOutput
	Err   error
}

type DetailLoadedMsg struct {
	Detail shelfdto.BookDetailOutput
	Err    error
}

type bookItem struct {
	book shelfdto.BookOutput
}

func (i bookItem) Title() string       { return i.book.Title }
func (i bookItem) Description() string { return i.book.Kind + "  " + i.book.ID }
func (i bookItem) FilterValue() string { return i.book.Title + " " + i.book.ID }

type Model struct {
	port     Port
	deviceID string
	list     list.Model
	detail   shelfdto.BookDetailOutput
	preview  viewport.Model
	spinner  spinner.Model
	loading  bool
	width    int
	height   int
}

func New(port Port, deviceID string) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Shelf"
	l.Styles.Title = theme.Title
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{
		port:     port,
		deviceID: deviceID,
		list:     l,
		preview:  viewport.New(0, 0),
		spinner:  sp,
		loading:  true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.Reload(), m.spinner.Tick)
}

// Reload fetches the book list again, e.g. after a reading session changed positions.
func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		books, err := m.port.ListBooks(context.Background())
		return BooksLoadedMsg{Books: books, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case BooksLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.list.Title = "Shelf: " + msg.Err.Error()
			return m, nil
		}
		items := make([]list.Item, len(msg.Books))
		for i, b := range msg.Books {
			items[i] = bookItem{book: b}
		}
		cmds = append(cmds, m.list.SetItems(items))
		if id, ok := m.SelectedBookID(); ok {
			cmds = append(cmds, m.loadDetailCmd(id))
		}

	case DetailLoadedMsg:
		if msg.Err == nil {
			m.detail = msg.Detail
			m.preview.SetContent(m.renderDetail())
		}

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	if !m.loading {
		prev := m.list.Index()
		var lCmd tea.Cmd
		m.list, lCmd = m.list.Update(msg)
		cmds = append(cmds, lCmd)
		if m.list.Index() != prev {
			if id, ok := m.SelectedBookID(); ok {
				cmds = append(cmds, m.loadDetailCmd(id))
			}
		}
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading shelf…")
	}
	listW := m.width * 4 / 10
	listPane := lipgloss.NewStyle().Width(listW).Height(m.height).Render(m.list.View())
	detailPane := theme.Page.Width(m.width - listW - 2).Height(m.height - 2).Render(m.preview.View())
	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

func (m Model) SelectedBookID() (string, bool) {
	if item, ok := m.list.SelectedItem().(bookItem); ok {
		return item.book.ID, true
	}
	return "", false
}

// Filtering reports whether the list filter is taking keystrokes.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m *Model) resize() {
	listW := m.width * 4 / 10
	m.list.SetSize(listW, m.height)
	m.preview.Width = m.width - listW - 4
	m.preview.Height = m.height - 2
}

func (m Model) renderDetail() string {
	d := m.detail
	if d.ID == "" {
		return theme.Muted.Render("Select a book")
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(d.Title) + "\n\n")
	sb.WriteString(theme.Muted.Render("id:      ") + d.ID + "\n")
	sb.WriteString(theme.Muted.Render("kind:    ") + d.Kind + "\n")
	if len(d.Authors) > 0 {
		sb.WriteString(theme.Muted.Render("authors: ") + strings.Join(d.Authors, ", ") + "\n")
	}
	sb.WriteString(theme.Muted.Render("file:    ") + d.FilePath + "\n")

	sb.WriteString("\n" + theme.Title.Render("Positions") + "\n")
	if len(d.Positions) == 0 {
		sb.WriteString(theme.Muted.Render("  not opened yet") + "\n")
	}
	for _, p := range d.Positions {
		device := p.DeviceID
		if device == m.deviceID {
			device = theme.Live.Render(device + " (this device)")
		}
		when := clock.FromEpochSeconds(p.Timestamp).Local().Format(time.DateTime)
		sb.WriteString(fmt.Sprintf("  %s\n    p.%d/%d  %.1f%%  %s\n    %s\n",
			device, p.Page, p.MaxPage, p.TotalProgress*100, theme.Chapter.Render(p.ChapterTitle), theme.Muted.Render(when)))
	}
	sb.WriteString("\n" + theme.Muted.Render("enter: read"))
	return sb.String()
}

func (m Model) loadDetailCmd(id string) tea.Cmd {
	return func() tea.Msg {
		detail, err := m.port.GetBook(context.Background(), id)
		return DetailLoadedMsg{Detail: detail, Err: err}
	}
}
