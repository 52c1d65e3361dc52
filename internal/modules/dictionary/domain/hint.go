package domain

import "sort"

// Hint is one candidate word returned by the hint server.
type Hint struct {
	Word string
	Meta map[string]any
}

// Ticket identifies the lookup a result belongs to.
type Ticket struct {
	Generation uint64
	Query      string
}

type Result struct {
	Ticket
	Hints []Hint
}

func SortHints(hints []Hint) {
	sort.Slice(hints, func(i, j int) bool { return hints[i].Word < hints[j].Word })
}

// Tracker drops hint results that belong to an older query.
// It is owned by a single event loop and is not safe for concurrent use.
type Tracker struct {
	generation uint64
	query      string
}

// Begin starts a new lookup and invalidates every ticket issued before it.
func (t *Tracker) Begin(query string) Ticket {
	t.generation++
	t.query = query
	return Ticket{Generation: t.generation, Query: query}
}

// Accept reports whether result still matches the current lookup.
func (t *Tracker) Accept(result Result) bool {
	return result.Generation == t.generation && result.Query == t.query
}

func (t *Tracker) Current() Ticket {
	return Ticket{Generation: t.generation, Query: t.query}
}
