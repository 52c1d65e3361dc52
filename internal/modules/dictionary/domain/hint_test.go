package domain_test

import (
	"testing"

	"folio/internal/modules/dictionary/domain"
)

func TestTrackerDropsStaleResults(t *testing.T) {
	t.Parallel()
	var tracker domain.Tracker

	first := tracker.Begin("ser")
	second := tracker.Begin("sere")

	if tracker.Accept(domain.Result{Ticket: first}) {
		t.Fatalf("result for an older generation was accepted")
	}
	if !tracker.Accept(domain.Result{Ticket: second}) {
		t.Fatalf("current result was rejected")
	}
	if tracker.Accept(domain.Result{Ticket: domain.Ticket{Generation: second.Generation, Query: "ser"}}) {
		t.Fatalf("result with a different query was accepted")
	}
}

func TestTrackerRejectsAfterSameTextRetyped(t *testing.T) {
	t.Parallel()
	var tracker domain.Tracker

	stale := tracker.Begin("word")
	tracker.Begin("wor")
	tracker.Begin("word")

	if tracker.Accept(domain.Result{Ticket: stale}) {
		t.Fatalf("stale result matched on query text alone")
	}
	if got := tracker.Current(); got.Generation != 3 || got.Query != "word" {
		t.Fatalf("unexpected current ticket %+v", got)
	}
}

func TestSortHints(t *testing.T) {
	t.Parallel()
	hints := []domain.Hint{{Word: "serene"}, {Word: "sere"}, {Word: "serenade"}}
	domain.SortHints(hints)
	if hints[0].Word != "sere" || hints[1].Word != "serenade" || hints[2].Word != "serene" {
		t.Fatalf("unexpected order %+v", hints)
	}
}
