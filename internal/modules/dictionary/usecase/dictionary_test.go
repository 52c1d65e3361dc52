package usecase_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/internal/modules/dictionary/domain"
	"folio/internal/modules/dictionary/dto"
	"folio/internal/modules/dictionary/service"
	"folio/internal/modules/dictionary/usecase"
)

type fakeSource struct {
	mu    sync.Mutex
	calls []string
	hints map[string][]domain.Hint
}

func (f *fakeSource) Hints(_ context.Context, word string) []domain.Hint {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, word)
	return append([]domain.Hint(nil), f.hints[word]...)
}

func TestHintsTrimAndSkipEmpty(t *testing.T) {
	t.Parallel()
	source := &fakeSource{hints: map[string][]domain.Hint{"ab": {{Word: "abz"}, {Word: "aba"}}}}
	uc := usecase.NewInteractor(service.NewHintService(source))

	hints := uc.Hints(context.Background(), "  ab ")
	require.Len(t, hints, 2)
	assert.Equal(t, "aba", hints[0].Word)

	assert.Empty(t, uc.Hints(context.Background(), "   "))
	assert.Equal(t, []string{"ab"}, source.calls)
}

func TestStaleLookupIsDiscarded(t *testing.T) {
	t.Parallel()
	source := &fakeSource{hints: map[string][]domain.Hint{
		"re":  {{Word: "read"}},
		"rea": {{Word: "reader"}},
	}}
	uc := usecase.NewInteractor(service.NewHintService(source))
	tracker := uc.NewTracker()

	first := tracker.Begin("re")
	second := tracker.Begin("rea")

	late := uc.Lookup(context.Background(), first)
	fresh := uc.Lookup(context.Background(), second)

	assert.False(t, tracker.Accept(late))
	require.True(t, tracker.Accept(fresh))
	assert.Equal(t, []dto.Hint{{Word: "reader"}}, fresh.Hints)
}
