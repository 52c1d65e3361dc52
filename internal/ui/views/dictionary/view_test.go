package dictionary_test

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	dictdto "folio/internal/modules/dictionary/dto"
	dictin "folio/internal/modules/dictionary/port/in"
	"folio/internal/modules/dictionary/service"
	"folio/internal/modules/dictionary/usecase"
	dictview "folio/internal/ui/views/dictionary"
)

type echoPort struct {
	dictin.Usecase
}

func (p echoPort) Lookup(_ context.Context, ticket dictdto.Ticket) dictdto.HintResult {
	return dictdto.HintResult{Ticket: ticket, Hints: []dictdto.Hint{{Word: ticket.Query + "s"}}}
}

func newPort() echoPort {
	return echoPort{Usecase: usecase.NewInteractor(service.NewHintService(nil))}
}

func typeRunes(t *testing.T, m dictview.Model, s string) (dictview.Model, []tea.Cmd) {
	t.Helper()
	var cmds []tea.Cmd
	for _, r := range s {
		var cmd tea.Cmd
		m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		cmds = append(cmds, cmd)
	}
	return m, cmds
}

func lookupResult(t *testing.T, port echoPort, query string, generation uint64) dictview.HintsMsg {
	t.Helper()
	return dictview.HintsMsg{Result: port.Lookup(context.Background(), dictdto.Ticket{Generation: generation, Query: query})}
}

func TestStaleHintsDoNotReplaceDisplayedState(t *testing.T) {
	t.Parallel()
	port := newPort()
	m := dictview.New(port)
	m.Focus()

	m, _ = typeRunes(t, m, "ca")

	m, _ = m.Update(lookupResult(t, port, "c", 1))
	if len(m.Hints()) != 0 || m.Dropped() != 1 {
		t.Fatalf("stale result applied: hints=%+v dropped=%d", m.Hints(), m.Dropped())
	}

	m, _ = m.Update(lookupResult(t, port, "ca", 2))
	if len(m.Hints()) != 1 || m.Hints()[0].Word != "cas" {
		t.Fatalf("current result not applied: %+v", m.Hints())
	}

	m, _ = typeRunes(t, m, "t")
	m, _ = m.Update(lookupResult(t, port, "ca", 2))
	if m.Hints()[0].Word != "cas" || m.Dropped() != 2 {
		t.Fatalf("late result after edit: hints=%+v dropped=%d", m.Hints(), m.Dropped())
	}
}

func TestBlurredFieldIgnoresKeys(t *testing.T) {
	t.Parallel()
	m := dictview.New(newPort())

	m, cmds := typeRunes(t, m, "ab")
	if m.Query() != "" {
		t.Fatalf("blurred field took input %q", m.Query())
	}
	for _, cmd := range cmds {
		if cmd != nil {
			t.Fatalf("blurred field issued a lookup")
		}
	}
}
