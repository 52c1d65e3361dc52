package dictionary

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	dictdto "folio/internal/modules/dictionary/dto"
	dictin "folio/internal/modules/dictionary/port/in"
	"folio/internal/ui/theme"
)

// Port is what the hint field needs from the dictionary use-case.
type Port interface {
	Lookup(ctx context.Context, ticket dictdto.Ticket) dictdto.HintResult
	NewTracker() dictin.Tracker
}

// HintsMsg carries a finished lookup back to the update loop.
type HintsMsg struct {
	Result dictdto.HintResult
}

const maxShownHints = 12

type Model struct {
	port    Port
	tracker dictin.Tracker
	input   textinput.Model
	hints   []dictdto.Hint
	pending bool
	dropped int
	width   int
	height  int
}

func New(port Port) Model {
	ti := textinput.New()
	ti.Placeholder = "type a word"
	ti.CharLimit = 64
	ti.Prompt = "› "
	return Model{port: port, tracker: port.NewTracker(), input: ti}
}

func (m Model) Init() tea.Cmd { return nil }

func (m *Model) Focus() tea.Cmd { return m.input.Focus() }

func (m *Model) Blur() { m.input.Blur() }

// Typing reports whether the field is taking keystrokes.
func (m Model) Typing() bool { return m.input.Focused() }

func (m Model) Query() string { return m.input.Value() }

// SetQuery replaces the field text and starts a lookup for it.
func (m *Model) SetQuery(query string) tea.Cmd {
	m.input.SetValue(query)
	m.input.CursorEnd()
	return m.lookup(query)
}

func (m Model) Hints() []dictdto.Hint { return m.hints }

// Dropped counts results discarded because the query moved on.
func (m Model) Dropped() int { return m.dropped }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(10, m.width-6)
		return m, nil

	case HintsMsg:
		if !m.tracker.Accept(msg.Result) {
			m.dropped++
			return m, nil
		}
		m.pending = false
		m.hints = msg.Result.Hints
		return m, nil

	case tea.KeyMsg:
		if !m.input.Focused() {
			return m, nil
		}
		before := m.input.Value()
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		if m.input.Value() == before {
			return m, cmd
		}
		return m, tea.Batch(cmd, m.lookup(m.input.Value()))
	}
	return m, nil
}

func (m *Model) lookup(query string) tea.Cmd {
	ticket := m.tracker.Begin(strings.TrimSpace(query))
	if ticket.Query == "" {
		m.pending = false
		m.hints = nil
		return nil
	}
	m.pending = true
	port := m.port
	return func() tea.Msg {
		return HintsMsg{Result: port.Lookup(context.Background(), ticket)}
	}
}

func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Dictionary") + "\n\n")
	sb.WriteString(m.input.View() + "\n\n")
	switch {
	case m.pending:
		sb.WriteString(theme.Muted.Render("looking up…") + "\n")
	case strings.TrimSpace(m.input.Value()) != "" && len(m.hints) == 0:
		sb.WriteString(theme.Muted.Render("no hints") + "\n")
	}
	for i, h := range m.hints {
		if i == maxShownHints {
			sb.WriteString(theme.Muted.Render(fmt.Sprintf("  … %d more", len(m.hints)-maxShownHints)) + "\n")
			break
		}
		sb.WriteString("  " + theme.Hot.Render(h.Word))
		if meta := renderMeta(h.Meta); meta != "" {
			sb.WriteString("  " + theme.Muted.Render(meta))
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n" + theme.Muted.Render("/: type  esc: leave field"))
	return sb.String()
}

func renderMeta(meta map[string]any) string {
	if len(meta) == 0 {
		return ""
	}
	keys := make([]string, 0, len(meta))
	for k := range meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, meta[k]))
	}
	return strings.Join(parts, " ")
}
